package services

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/spreadit-gateway/internal/cache"
	"github.com/tbourn/spreadit-gateway/internal/domain"
	"github.com/tbourn/spreadit-gateway/internal/repo"
	"github.com/tbourn/spreadit-gateway/internal/upstream"
)

func TestEnroll_TwiceIsIdempotent(t *testing.T) {
	fx := newFixture(t)
	who := fx.seedCampus()
	ctx := context.Background()

	first, err := fx.enrollment.Enroll(ctx, who, domain.KindCourse, 10)
	require.NoError(t, err)
	assert.Equal(t, domain.StateEnrolled, first.State)
	assert.False(t, first.Absorbed)

	second, err := fx.enrollment.Enroll(ctx, who, domain.KindCourse, 10)
	require.NoError(t, err)
	assert.Equal(t, domain.StateEnrolled, second.State)
	assert.True(t, second.Noop)

	// Without local knowledge the call reaches the service, which reports
	// "already enrolled"; that is absorbed.
	fx.enrollment.Forget(ctx, who.RecordID)
	third, err := fx.enrollment.Enroll(ctx, who, domain.KindCourse, 10)
	require.NoError(t, err)
	assert.Equal(t, domain.StateEnrolled, third.State)
	assert.True(t, third.Absorbed)
	assert.Equal(t, domain.StateEnrolled, fx.enrollment.State(1, domain.KindCourse, 10))
	assert.True(t, fx.backend.courseMember(10, "u-1"))
}

func TestUnenroll_TwiceIsIdempotent(t *testing.T) {
	fx := newFixture(t)
	who := fx.seedCampus()
	ctx := context.Background()

	// Never enrolled: the service answers "User was not enrolled".
	first, err := fx.enrollment.Unenroll(ctx, who, domain.KindModule, 20)
	require.NoError(t, err)
	assert.Equal(t, domain.StateNotEnrolled, first.State)
	assert.True(t, first.Absorbed)

	second, err := fx.enrollment.Unenroll(ctx, who, domain.KindModule, 20)
	require.NoError(t, err)
	assert.Equal(t, domain.StateNotEnrolled, second.State)
	assert.True(t, second.Noop)
}

func TestEnroll_FailureRevertsState(t *testing.T) {
	fx := newFixture(t)
	who := fx.seedCampus()
	ctx := context.Background()

	_, err := fx.enrollment.Enroll(ctx, who, domain.KindModule, 20)
	require.NoError(t, err)

	fx.backend.setFail("enroll", 503)
	snap, err := fx.enrollment.Unenroll(ctx, who, domain.KindModule, 20)
	require.Error(t, err)
	assert.ErrorIs(t, err, upstream.ErrServer)
	assert.Equal(t, 503, upstream.StatusOf(err))
	assert.Equal(t, domain.StateEnrolled, snap.State)
	assert.Equal(t, domain.StateEnrolled, fx.enrollment.State(1, domain.KindModule, 20))
}

func TestEnroll_NotFoundResourcePropagates(t *testing.T) {
	fx := newFixture(t)
	who := fx.seedCampus()

	_, err := fx.enrollment.Enroll(context.Background(), who, domain.KindCourse, 999)
	assert.ErrorIs(t, err, upstream.ErrNotFound)
	assert.Equal(t, domain.StateUnknown, fx.enrollment.State(1, domain.KindCourse, 999))
}

func TestEnroll_ValidationNeverCallsOut(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	_, err := fx.enrollment.Enroll(ctx, Caller{}, domain.KindCourse, 10)
	assert.ErrorIs(t, err, ErrValidation)
	_, err = fx.enrollment.Enroll(ctx, Caller{RecordID: 1}, "program", 10)
	assert.ErrorIs(t, err, ErrValidation)
	_, err = fx.enrollment.Unenroll(ctx, Caller{RecordID: 1}, domain.KindModule, 0)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Zero(t, fx.backend.hits.Load())
}

func TestEnroll_SerializedPerKey(t *testing.T) {
	fx := newFixture(t)
	who := fx.seedCampus()
	fx.backend.enrollDelay = 40 * time.Millisecond
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := range 6 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			var err error
			if i%2 == 0 {
				_, err = fx.enrollment.Enroll(ctx, who, domain.KindCourse, 10)
			} else {
				_, err = fx.enrollment.Unenroll(ctx, who, domain.KindCourse, 10)
			}
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	fx.backend.mu.Lock()
	maxInflight := fx.backend.maxInflight
	log := append([]string(nil), fx.backend.enrollLog...)
	fx.backend.mu.Unlock()

	assert.Equal(t, 1, maxInflight, "two calls for one key were in flight together")
	require.NotEmpty(t, log)

	// Local state matches the last call the service observed.
	want := domain.StateNotEnrolled
	if fx.backend.courseMember(10, "u-1") {
		want = domain.StateEnrolled
	}
	assert.Equal(t, want, fx.enrollment.State(1, domain.KindCourse, 10))
	assert.Zero(t, fx.enrollment.locks.size())
}

func TestEnroll_WaiterHonoursContext(t *testing.T) {
	fx := newFixture(t)
	who := fx.seedCampus()
	fx.backend.enrollDelay = 200 * time.Millisecond

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = fx.enrollment.Enroll(context.Background(), who, domain.KindModule, 20)
	}()
	time.Sleep(30 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := fx.enrollment.Unenroll(ctx, who, domain.KindModule, 20)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	<-done
}

func TestView_CacheReflectsEnrollment(t *testing.T) {
	fx := newFixture(t)
	who := fx.seedCampus()
	ctx := context.Background()

	m, err := fx.enrollment.View(ctx, who, domain.KindCourse)
	require.NoError(t, err)
	assert.False(t, m.Contains(10))

	key := cache.Key{UserID: 1, Kind: domain.KindCourse}
	_, ok := fx.store.Get(ctx, key)
	require.True(t, ok, "view should be cached")

	_, err = fx.enrollment.Enroll(ctx, who, domain.KindCourse, 10)
	require.NoError(t, err)

	cached, ok := fx.store.Get(ctx, key)
	require.True(t, ok, "the cached view is patched, not dropped")
	assert.True(t, cached.Contains(10), "cache returned the pre-enroll view")
	m, err = fx.enrollment.View(ctx, who, domain.KindCourse)
	require.NoError(t, err)
	assert.True(t, m.Contains(10))
}

func TestView_ConcurrentPatchesKeepEveryMutation(t *testing.T) {
	fx := newFixture(t)
	who := fx.seedCampus()
	for i := range 8 {
		fx.backend.addModule(domain.Module{RecordID: domain.RecordID(30 + i), Code: domain.ModuleCode(100 + i), Name: fmt.Sprintf("M%d", i), EnrolledUsers: []domain.BusinessID{}})
	}
	ctx := context.Background()

	_, err := fx.enrollment.View(ctx, who, domain.KindModule)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := fx.enrollment.Enroll(ctx, who, domain.KindModule, domain.RecordID(30+i))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	cached, ok := fx.store.Get(ctx, cache.Key{UserID: 1, Kind: domain.KindModule})
	require.True(t, ok)
	for i := range 8 {
		assert.True(t, cached.Contains(domain.RecordID(30+i)), "module %d lost from the cached view", 30+i)
	}
}

func TestView_SharedLoadSurvivesFirstCallerCancel(t *testing.T) {
	fx := newFixture(t)
	who := fx.seedCampus()
	g := fx.backend.hold("modules")

	ctx1, cancel := context.WithCancel(context.Background())
	first := make(chan error, 1)
	go func() {
		_, err := fx.enrollment.View(ctx1, who, domain.KindModule)
		first <- err
	}()
	<-g.entered

	second := make(chan error, 1)
	go func() {
		m, err := fx.enrollment.View(context.Background(), who, domain.KindModule)
		if err == nil && m.Kind != domain.KindModule {
			err = fmt.Errorf("kind %q", m.Kind)
		}
		second <- err
	}()
	time.Sleep(50 * time.Millisecond) // let the second caller join the load

	cancel()
	close(g.release)

	require.NoError(t, <-second)
	<-first
	_, ok := fx.store.Get(context.Background(), cache.Key{UserID: 1, Kind: domain.KindModule})
	assert.True(t, ok, "the shared load still caches its result")
}

func TestView_SeedsLocalState(t *testing.T) {
	fx := newFixture(t)
	who := fx.seedCampus()
	fx.backend.addModule(domain.Module{RecordID: 21, Code: 7, EnrolledUsers: []domain.BusinessID{"u-1"}})

	_, err := fx.enrollment.View(context.Background(), who, domain.KindModule)
	require.NoError(t, err)
	assert.Equal(t, domain.StateEnrolled, fx.enrollment.State(1, domain.KindModule, 21))

	// Enroll is now a no-op: no membership call is made.
	before := fx.backend.hits.Load()
	snap, err := fx.enrollment.Enroll(context.Background(), who, domain.KindModule, 21)
	require.NoError(t, err)
	assert.True(t, snap.Noop)
	assert.Equal(t, before, fx.backend.hits.Load())
}

func TestView_DegradedWhenUserServiceDown(t *testing.T) {
	fx := newFixture(t)
	who := fx.seedCampus()
	fx.backend.addCourse(domain.Course{RecordID: 11, Code: "MA", EnrolledUsers: []domain.BusinessID{"u-1"}})
	fx.backend.setFail("user", 500)
	ctx := context.Background()

	m, err := fx.enrollment.View(ctx, who, domain.KindCourse)
	require.NoError(t, err)
	assert.True(t, m.Degraded)
	assert.Equal(t, []domain.RecordID{11}, m.Enrolled)

	_, ok := fx.store.Get(ctx, cache.Key{UserID: 1, Kind: domain.KindCourse})
	assert.False(t, ok, "degraded views are not cached")
}

func TestView_ResourceFailureFails(t *testing.T) {
	fx := newFixture(t)
	who := fx.seedCampus()
	fx.backend.setFail("modules", 502)

	_, err := fx.enrollment.View(context.Background(), who, domain.KindModule)
	assert.ErrorIs(t, err, upstream.ErrServer)
}

func TestEnrollment_AuditJournal(t *testing.T) {
	fx := newFixture(t)
	who := fx.seedCampus()
	ctx := context.Background()

	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, repo.AutoMigrate(db))

	svc := NewEnrollmentService(fx.identity, cache.NewMemory[domain.Membership](time.Minute), time.Minute, db, repo.AuditRepo{}, zerolog.Nop())

	_, err = svc.Enroll(ctx, who, domain.KindCourse, 10) // applied
	require.NoError(t, err)
	_, err = svc.Enroll(ctx, who, domain.KindCourse, 10) // noop
	require.NoError(t, err)
	_, err = svc.Unenroll(ctx, who, domain.KindModule, 20) // absorbed
	require.NoError(t, err)
	fx.backend.setFail("enroll", 500)
	_, err = svc.Enroll(ctx, who, domain.KindModule, 20) // failed
	require.Error(t, err)

	st, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 4, st.Total)
	for _, o := range []domain.EnrollmentOutcome{domain.OutcomeApplied, domain.OutcomeNoop, domain.OutcomeAbsorbed, domain.OutcomeFailed} {
		assert.EqualValues(t, 1, st.ByOutcome[o], o)
	}
}
