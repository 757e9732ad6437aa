package domain

import (
	"slices"
	"time"
)

// ResourceKind names the kind of resource a user can be enrolled in.
type ResourceKind string

const (
	KindCourse ResourceKind = "course"
	KindModule ResourceKind = "module"
)

// Valid reports whether k is a known resource kind.
func (k ResourceKind) Valid() bool { return k == KindCourse || k == KindModule }

// EnrollmentState is the local state of a (user, resource) pair:
//
//	unknown -> {enrolled, not_enrolled} -> pending -> {enrolled, not_enrolled}
type EnrollmentState string

const (
	StateUnknown     EnrollmentState = "unknown"
	StateEnrolled    EnrollmentState = "enrolled"
	StateNotEnrolled EnrollmentState = "not_enrolled"
	StatePending     EnrollmentState = "pending"
)

// EnrollmentAction is a mutating enrollment call.
type EnrollmentAction string

const (
	ActionEnroll   EnrollmentAction = "enroll"
	ActionUnenroll EnrollmentAction = "unenroll"
)

// Target returns the state the action asserts on success.
func (a EnrollmentAction) Target() EnrollmentState {
	if a == ActionEnroll {
		return StateEnrolled
	}
	return StateNotEnrolled
}

// EnrollmentSnapshot is the result of an enroll/unenroll call.
//
// Absorbed is true when the service reported a conflict meaning the asserted
// end state already held; Noop is true when the call was skipped because the
// local state already matched.
type EnrollmentSnapshot struct {
	UserID     RecordID        `json:"user_id"`
	Kind       ResourceKind    `json:"kind"`
	ResourceID RecordID        `json:"resource_id"`
	State      EnrollmentState `json:"state"`
	Absorbed   bool            `json:"absorbed,omitempty"`
	Noop       bool            `json:"noop,omitempty"`
}

// Membership is the resolved set of resources of one kind a user is
// enrolled in. Degraded is set when the user record could not be read and
// only resource-side member lists were consulted.
type Membership struct {
	UserID     RecordID     `json:"user_id"`
	Kind       ResourceKind `json:"kind"`
	Enrolled   []RecordID   `json:"enrolled"`
	Degraded   bool         `json:"degraded"`
	ResolvedAt time.Time    `json:"resolved_at"`
}

// Contains reports whether id is in the enrolled set.
func (m Membership) Contains(id RecordID) bool {
	_, ok := slices.BinarySearch(m.Enrolled, id)
	return ok
}

// With returns a copy of m with id added or removed. Enrolled stays sorted.
func (m Membership) With(id RecordID, enrolled bool) Membership {
	out := m
	out.Enrolled = slices.Clone(m.Enrolled)
	i, found := slices.BinarySearch(out.Enrolled, id)
	switch {
	case enrolled && !found:
		out.Enrolled = slices.Insert(out.Enrolled, i, id)
	case !enrolled && found:
		out.Enrolled = slices.Delete(out.Enrolled, i, i+1)
	}
	return out
}

// LikeState is the recomputed like aggregate for one post and one user.
type LikeState struct {
	PostID RecordID `json:"post_id"`
	Liked  bool     `json:"liked"`
	Count  int      `json:"count"`
}
