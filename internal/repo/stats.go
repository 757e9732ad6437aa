package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/spreadit-gateway/internal/domain"
)

// EnrollmentStats aggregates the audit journal.
type EnrollmentStats struct {
	Total     int64                              `json:"total"`
	ByOutcome map[domain.EnrollmentOutcome]int64 `json:"by_outcome"`
	LastAt    *time.Time                         `json:"last_at,omitempty"`
}

// QueryEnrollmentStats counts journal rows per outcome and reports the time
// of the latest event. Every known outcome is present in ByOutcome, zero when
// no row has it.
func QueryEnrollmentStats(ctx context.Context, db *gorm.DB) (EnrollmentStats, error) {
	st := EnrollmentStats{ByOutcome: map[domain.EnrollmentOutcome]int64{
		domain.OutcomeApplied:  0,
		domain.OutcomeAbsorbed: 0,
		domain.OutcomeNoop:     0,
		domain.OutcomeFailed:   0,
	}}

	var rows []struct {
		Outcome domain.EnrollmentOutcome
		N       int64
	}
	q := db.WithContext(ctx).Model(&domain.EnrollmentEvent{})
	if err := q.Select("outcome, COUNT(*) AS n").Group("outcome").Scan(&rows).Error; err != nil {
		return st, err
	}
	for _, r := range rows {
		st.ByOutcome[r.Outcome] = r.N
		st.Total += r.N
	}
	if st.Total == 0 {
		return st, nil
	}

	// Latest created_at (avoid MAX() -> TEXT in SQLite)
	var last struct {
		CreatedAt time.Time
	}
	if err := db.WithContext(ctx).Model(&domain.EnrollmentEvent{}).
		Select("created_at").Order("created_at DESC").Limit(1).Scan(&last).Error; err != nil {
		return st, err
	}
	st.LastAt = &last.CreatedAt
	return st, nil
}
