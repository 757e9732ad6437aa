package domain

import "time"

// EnrollmentOutcome classifies how a mutating enrollment call ended.
type EnrollmentOutcome string

const (
	// OutcomeApplied: the service accepted the call.
	OutcomeApplied EnrollmentOutcome = "applied"
	// OutcomeAbsorbed: the service reported a conflict that was treated as success.
	OutcomeAbsorbed EnrollmentOutcome = "absorbed"
	// OutcomeNoop: local state already matched; no call was issued.
	OutcomeNoop EnrollmentOutcome = "noop"
	// OutcomeFailed: the call failed and local state was reverted.
	OutcomeFailed EnrollmentOutcome = "failed"
)

// EnrollmentEvent is one entry of the enrollment audit journal. Absorbed
// conflicts are the visible trace of the user/resource copies disagreeing.
type EnrollmentEvent struct {
	ID         string            `json:"id"          gorm:"type:char(36);primaryKey"`
	UserID     RecordID          `json:"user_id"     gorm:"not null;index:idx_enroll_user"`
	Kind       ResourceKind      `json:"kind"        gorm:"type:varchar(16);not null"`
	ResourceID RecordID          `json:"resource_id" gorm:"not null"`
	Action     EnrollmentAction  `json:"action"      gorm:"type:varchar(16);not null"`
	Outcome    EnrollmentOutcome `json:"outcome"     gorm:"type:varchar(16);not null;index"`
	Status     int               `json:"status"`
	Detail     string            `json:"detail,omitempty" gorm:"type:text"`
	CreatedAt  time.Time         `json:"created_at"  gorm:"index"`
}

// TableName returns the database table name for EnrollmentEvent.
func (EnrollmentEvent) TableName() string { return "enrollment_events" }
