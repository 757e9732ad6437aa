package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbourn/spreadit-gateway/internal/domain"
)

func TestRedis_RoundTripAndInvalidateUser(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	ctx := context.Background()
	rdb, err := DialRedis(ctx, addr)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })

	r := NewRedis[domain.Membership](rdb, "test:"+uuid.NewString()+":", time.Minute, zerolog.Nop())
	t.Cleanup(func() { r.Purge(ctx) })

	k := Key{UserID: 9, Kind: domain.KindModule}
	r.Set(ctx, k, domain.Membership{UserID: 9, Kind: domain.KindModule, Enrolled: []domain.RecordID{1, 4}}, 0)
	v, ok := r.Get(ctx, k)
	require.True(t, ok)
	assert.True(t, v.Contains(4))

	r.Set(ctx, Key{UserID: 9, Kind: domain.KindCourse}, domain.Membership{UserID: 9}, 0)
	r.InvalidateUser(ctx, 9)
	_, ok = r.Get(ctx, k)
	assert.False(t, ok)
	_, ok = r.Get(ctx, Key{UserID: 9, Kind: domain.KindCourse})
	assert.False(t, ok)
}
