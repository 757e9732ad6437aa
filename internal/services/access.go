package services

import (
	"context"

	"github.com/tbourn/spreadit-gateway/internal/domain"
	"github.com/tbourn/spreadit-gateway/internal/upstream"
)

// authorOrAdmin allows an action on something owner wrote to owner
// themselves or to an admin. The admin flag comes from the user record.
func authorOrAdmin(ctx context.Context, c *upstream.Client, who Caller, owner domain.RecordID) error {
	if !who.RecordID.Valid() {
		return invalid("user_id", "is required")
	}
	if who.RecordID == owner {
		return nil
	}
	u, err := c.Users().ByRecordID(ctx, who.RecordID)
	if err != nil {
		return err
	}
	if !u.IsAdmin {
		return ErrNotOwner
	}
	return nil
}
