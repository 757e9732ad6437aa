package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/spreadit-gateway/internal/domain"
)

// AuditRepo persists enrollment events. It satisfies services.AuditRepo.
type AuditRepo struct{}

// AppendEnrollmentEvent inserts ev, assigning an id and timestamp when unset.
func (AuditRepo) AppendEnrollmentEvent(ctx context.Context, db *gorm.DB, ev *domain.EnrollmentEvent) error {
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = time.Now().UTC()
	}
	return db.WithContext(ctx).Create(ev).Error
}

// ListEnrollmentEvents returns the most recent events, newest first, of one
// user or of everyone when userID is zero. A non-positive limit defaults
// to 50.
func (AuditRepo) ListEnrollmentEvents(ctx context.Context, db *gorm.DB, userID domain.RecordID, limit int) ([]domain.EnrollmentEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	q := db.WithContext(ctx)
	if userID.Valid() {
		q = q.Where("user_id = ?", userID)
	}
	out := []domain.EnrollmentEvent{}
	err := q.Order("created_at DESC").
		Limit(limit).
		Find(&out).Error
	return out, err
}

// EnrollmentStats is delegated to the package-level query in stats.go.
func (AuditRepo) EnrollmentStats(ctx context.Context, db *gorm.DB) (EnrollmentStats, error) {
	return QueryEnrollmentStats(ctx, db)
}
