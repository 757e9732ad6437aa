package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/tbourn/spreadit-gateway/internal/domain"
	"github.com/tbourn/spreadit-gateway/internal/upstream"
)

// authorNames maps user record ids to display names. The user service has
// no batch lookup, so the whole list is fetched once per call. A failed
// fetch yields an empty map; callers fall back to "User <id>".
func authorNames(ctx context.Context, c *upstream.Client, log zerolog.Logger) map[domain.RecordID]string {
	users, err := c.Users().All(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("user list unavailable; author names fall back to ids")
		return map[domain.RecordID]string{}
	}
	out := make(map[domain.RecordID]string, len(users))
	for _, u := range users {
		out[u.RecordID] = u.DisplayName()
	}
	return out
}

func nameOr(names map[domain.RecordID]string, id domain.RecordID) string {
	if n, ok := names[id]; ok {
		return n
	}
	return "User " + id.String()
}
