package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"

	"github.com/tbourn/spreadit-gateway/internal/cache"
	"github.com/tbourn/spreadit-gateway/internal/domain"
	"github.com/tbourn/spreadit-gateway/internal/observability"
	"github.com/tbourn/spreadit-gateway/internal/repo"
	"github.com/tbourn/spreadit-gateway/internal/upstream"
)

// AuditRepo is the journal EnrollmentService writes to.
type AuditRepo interface {
	AppendEnrollmentEvent(ctx context.Context, db *gorm.DB, ev *domain.EnrollmentEvent) error
	ListEnrollmentEvents(ctx context.Context, db *gorm.DB, userID domain.RecordID, limit int) ([]domain.EnrollmentEvent, error)
	EnrollmentStats(ctx context.Context, db *gorm.DB) (repo.EnrollmentStats, error)
}

type enrollKey struct {
	user     domain.RecordID
	kind     domain.ResourceKind
	resource domain.RecordID
}

// EnrollmentService keeps the local enrollment state of (user, resource)
// pairs and performs enroll/unenroll against the course and module services.
//
// Mutating calls for one pair are serialized: a call that arrives while
// another is in flight waits for it, then re-evaluates against the settled
// state and returns without a network call if that state already matches.
type EnrollmentService struct {
	Identity *IdentityResolver
	Client   *upstream.Client
	Cache    cache.Store[domain.Membership]
	CacheTTL time.Duration

	// DB and Audit are optional; without them no journal is kept.
	DB    *gorm.DB
	Audit AuditRepo

	Log zerolog.Logger

	locks     *keyLock[enrollKey]
	views     singleflight.Group
	viewLocks *keyLock[cache.Key] // serializes writes of one cached view

	mu     sync.Mutex
	states map[enrollKey]domain.EnrollmentState
	gens   map[domain.RecordID]uint64
}

// NewEnrollmentService wires an EnrollmentService. db and audit may be nil.
func NewEnrollmentService(id *IdentityResolver, store cache.Store[domain.Membership], ttl time.Duration, db *gorm.DB, audit AuditRepo, log zerolog.Logger) *EnrollmentService {
	return &EnrollmentService{
		Identity:  id,
		Client:    id.Client,
		Cache:     store,
		CacheTTL:  ttl,
		DB:        db,
		Audit:     audit,
		Log:       log,
		locks:     newKeyLock[enrollKey](),
		viewLocks: newKeyLock[cache.Key](),
		states:    make(map[enrollKey]domain.EnrollmentState),
		gens:      make(map[domain.RecordID]uint64),
	}
}

// Enroll asserts that the caller is enrolled in the resource. A conflict
// reported by the service ("already enrolled") counts as success.
func (s *EnrollmentService) Enroll(ctx context.Context, who Caller, kind domain.ResourceKind, resource domain.RecordID) (domain.EnrollmentSnapshot, error) {
	return s.mutate(ctx, who, kind, resource, domain.ActionEnroll)
}

// Unenroll asserts that the caller is not enrolled in the resource. A
// conflict reported by the service ("not enrolled") counts as success.
func (s *EnrollmentService) Unenroll(ctx context.Context, who Caller, kind domain.ResourceKind, resource domain.RecordID) (domain.EnrollmentSnapshot, error) {
	return s.mutate(ctx, who, kind, resource, domain.ActionUnenroll)
}

// State returns the local state of one pair.
func (s *EnrollmentService) State(user domain.RecordID, kind domain.ResourceKind, resource domain.RecordID) domain.EnrollmentState {
	return s.state(enrollKey{user, kind, resource})
}

// View returns the caller's resolved membership for kind, from the cache when
// possible. Concurrent loads for the same key share one fan-out. Degraded
// views are returned but not cached.
func (s *EnrollmentService) View(ctx context.Context, who Caller, kind domain.ResourceKind) (domain.Membership, error) {
	if !kind.Valid() {
		return domain.Membership{}, invalid("kind", "must be course or module")
	}
	if !who.RecordID.Valid() {
		return domain.Membership{}, invalid("user_id", "is required")
	}
	key := cache.Key{UserID: who.RecordID, Kind: kind}
	if m, ok := s.Cache.Get(ctx, key); ok {
		return m, nil
	}

	// The load is shared, so it must not die with whichever caller started it.
	v, err, _ := s.views.Do(key.String(), func() (any, error) {
		ctx := context.WithoutCancel(ctx)
		gen := s.generation(who.RecordID)
		m, err := s.Identity.Resolve(ctx, who, kind)
		if err != nil {
			return domain.Membership{}, err
		}

		release, err := s.viewLocks.Acquire(ctx, key)
		if err != nil {
			return m, nil
		}
		defer release()
		if !s.seed(m, gen) {
			// A mutation settled while loading; m may predate it.
			return m, nil
		}
		if !m.Degraded {
			s.Cache.Set(ctx, key, m, s.CacheTTL)
		}
		return m, nil
	})
	if err != nil {
		return domain.Membership{}, err
	}
	return v.(domain.Membership), nil
}

// seed records m's states unless the user's generation moved past gen.
func (s *EnrollmentService) seed(m domain.Membership, gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gens[m.UserID] != gen {
		return false
	}
	s.seedLocked(m)
	return true
}

// Forget drops every cached view and local state of one user.
func (s *EnrollmentService) Forget(ctx context.Context, user domain.RecordID) {
	s.mu.Lock()
	for k := range s.states {
		if k.user == user {
			delete(s.states, k)
		}
	}
	s.gens[user]++
	s.mu.Unlock()
	s.Cache.InvalidateUser(ctx, user)
}

// InvalidateAll drops every cached view. Local states are kept; they only
// change through this service.
func (s *EnrollmentService) InvalidateAll(ctx context.Context) {
	s.mu.Lock()
	for u := range s.gens {
		s.gens[u]++
	}
	s.mu.Unlock()
	s.Cache.Purge(ctx)
}

// Stats aggregates the audit journal.
func (s *EnrollmentService) Stats(ctx context.Context) (repo.EnrollmentStats, error) {
	if s.Audit == nil || s.DB == nil {
		return repo.EnrollmentStats{ByOutcome: map[domain.EnrollmentOutcome]int64{}}, nil
	}
	return s.Audit.EnrollmentStats(ctx, s.DB)
}

// Events returns the newest journal entries, optionally of one user.
func (s *EnrollmentService) Events(ctx context.Context, user domain.RecordID, limit int) ([]domain.EnrollmentEvent, error) {
	if s.Audit == nil || s.DB == nil {
		return []domain.EnrollmentEvent{}, nil
	}
	return s.Audit.ListEnrollmentEvents(ctx, s.DB, user, limit)
}

func (s *EnrollmentService) mutate(ctx context.Context, who Caller, kind domain.ResourceKind, resource domain.RecordID, action domain.EnrollmentAction) (domain.EnrollmentSnapshot, error) {
	snap := domain.EnrollmentSnapshot{UserID: who.RecordID, Kind: kind, ResourceID: resource}
	switch {
	case !kind.Valid():
		return snap, invalid("kind", "must be course or module")
	case !who.RecordID.Valid():
		return snap, invalid("user_id", "is required")
	case !resource.Valid():
		return snap, invalid("resource_id", "must be a positive id")
	}

	ctx, span := observability.Tracer("services").Start(ctx, "EnrollmentService."+string(action))
	defer span.End()
	span.SetAttributes(
		attribute.Int64("user.id", int64(who.RecordID)),
		attribute.String("resource.kind", string(kind)),
		attribute.Int64("resource.id", int64(resource)),
	)

	key := enrollKey{who.RecordID, kind, resource}
	release, err := s.locks.Acquire(ctx, key)
	if err != nil {
		snap.State = s.state(key)
		return snap, err
	}
	defer release()

	prev := s.state(key)
	target := action.Target()
	if prev == target {
		snap.State, snap.Noop = target, true
		s.record(ctx, key, action, domain.OutcomeNoop, nil)
		return snap, nil
	}

	s.setState(key, domain.StatePending)
	err = s.send(ctx, who, kind, resource, action)
	outcome := domain.OutcomeApplied
	switch {
	case err == nil:
	case errors.Is(err, upstream.ErrConflict):
		outcome = domain.OutcomeAbsorbed
		s.Log.Debug().Err(err).Int64("user_id", int64(who.RecordID)).Str("kind", string(kind)).
			Int64("resource_id", int64(resource)).Str("action", string(action)).Msg("conflict absorbed")
	default:
		s.setState(key, prev)
		s.record(ctx, key, action, domain.OutcomeFailed, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "enrollment call failed")
		snap.State = prev
		return snap, err
	}

	s.setState(key, target)
	s.patchView(ctx, key, target == domain.StateEnrolled)
	s.record(ctx, key, action, outcome, err)

	snap.State = target
	snap.Absorbed = outcome == domain.OutcomeAbsorbed
	return snap, nil
}

// send resolves the business ids the membership routes are keyed by and
// issues the call.
func (s *EnrollmentService) send(ctx context.Context, who Caller, kind domain.ResourceKind, resource domain.RecordID, action domain.EnrollmentAction) error {
	bid, err := s.Identity.UserBusinessID(ctx, who)
	if err != nil {
		return err
	}
	if kind == domain.KindCourse {
		code, err := s.Identity.CourseCode(ctx, resource)
		if err != nil {
			return err
		}
		if action == domain.ActionEnroll {
			return s.Client.Courses().Enroll(ctx, code, bid)
		}
		return s.Client.Courses().Unenroll(ctx, code, bid)
	}
	code, err := s.Identity.ModuleCode(ctx, resource)
	if err != nil {
		return err
	}
	if action == domain.ActionEnroll {
		return s.Client.Modules().Enroll(ctx, code, bid)
	}
	return s.Client.Modules().Unenroll(ctx, code, bid)
}

// patchView bumps the user's generation, so that a view load that started
// before the mutation neither caches nor seeds from its result, then applies
// the mutation to the cached view, if any. Cache I/O runs outside s.mu under
// the view's own lock.
func (s *EnrollmentService) patchView(ctx context.Context, key enrollKey, enrolled bool) {
	s.mu.Lock()
	s.gens[key.user]++
	s.mu.Unlock()

	ctx = context.WithoutCancel(ctx)
	ck := cache.Key{UserID: key.user, Kind: key.kind}
	release, err := s.viewLocks.Acquire(ctx, ck)
	if err != nil {
		s.Cache.Invalidate(ctx, ck)
		return
	}
	defer release()
	if m, ok := s.Cache.Get(ctx, ck); ok {
		s.Cache.Set(ctx, ck, m.With(key.resource, enrolled), s.CacheTTL)
	}
}

// seedLocked records resolved states for every pair not in flight. s.mu
// must be held.
func (s *EnrollmentService) seedLocked(m domain.Membership) {
	for k, st := range s.states {
		if k.user != m.UserID || k.kind != m.Kind || st == domain.StatePending {
			continue
		}
		if m.Contains(k.resource) {
			s.states[k] = domain.StateEnrolled
		} else {
			s.states[k] = domain.StateNotEnrolled
		}
	}
	for _, id := range m.Enrolled {
		k := enrollKey{m.UserID, m.Kind, id}
		if _, ok := s.states[k]; !ok {
			s.states[k] = domain.StateEnrolled
		}
	}
}

func (s *EnrollmentService) state(k enrollKey) domain.EnrollmentState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.states[k]; ok {
		return st
	}
	return domain.StateUnknown
}

func (s *EnrollmentService) setState(k enrollKey, st domain.EnrollmentState) {
	s.mu.Lock()
	if st == domain.StateUnknown {
		delete(s.states, k)
	} else {
		s.states[k] = st
	}
	s.mu.Unlock()
}

func (s *EnrollmentService) generation(u domain.RecordID) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gens[u]
}

func (s *EnrollmentService) record(ctx context.Context, k enrollKey, action domain.EnrollmentAction, outcome domain.EnrollmentOutcome, cause error) {
	observability.CountEnrollment(string(k.kind), string(action), string(outcome))
	if s.Audit == nil || s.DB == nil {
		return
	}
	ev := &domain.EnrollmentEvent{
		UserID:     k.user,
		Kind:       k.kind,
		ResourceID: k.resource,
		Action:     action,
		Outcome:    outcome,
		Status:     upstream.StatusOf(cause),
	}
	if cause != nil {
		ev.Detail = cause.Error()
	}
	// Journal the outcome even if the caller has gone away.
	if err := s.Audit.AppendEnrollmentEvent(context.WithoutCancel(ctx), s.DB, ev); err != nil {
		s.Log.Warn().Err(err).Msg("enrollment journal append failed")
	}
}
