package services

import (
	"context"
	"errors"
	"slices"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/tbourn/spreadit-gateway/internal/domain"
	"github.com/tbourn/spreadit-gateway/internal/observability"
	"github.com/tbourn/spreadit-gateway/internal/upstream"
)

// Caller is who an operation runs for, as known without asking the user
// service: the user's record id and, when the session knows it, the user
// service's business id.
type Caller struct {
	RecordID   domain.RecordID
	BusinessID domain.BusinessID
}

// ResolveCourseMembership applies the OR policy: a course counts as enrolled
// when the user record points at it or the course's member list contains the
// user. With a nil user only the member lists are consulted and the result
// is marked degraded.
func ResolveCourseMembership(who Caller, user *domain.User, courses []domain.Course) domain.Membership {
	bid := businessID(who, user)
	m := domain.Membership{UserID: who.RecordID, Kind: domain.KindCourse, Degraded: user == nil}
	for _, c := range courses {
		userSide := user != nil && user.CourseID != nil &&
			(*user.CourseID == c.Code.String() || *user.CourseID == c.RecordID.String())
		if userSide || c.HasMember(bid) {
			m.Enrolled = append(m.Enrolled, c.RecordID)
		}
	}
	return finish(m)
}

// ResolveModuleMembership is ResolveCourseMembership for modules. The user
// record may list a module by its padded code, its bare code or its record id.
func ResolveModuleMembership(who Caller, user *domain.User, modules []domain.Module) domain.Membership {
	bid := businessID(who, user)
	m := domain.Membership{UserID: who.RecordID, Kind: domain.KindModule, Degraded: user == nil}
	for _, mod := range modules {
		userSide := false
		if user != nil {
			refs := []string{mod.Code.String(), strconv.Itoa(int(mod.Code)), mod.RecordID.String()}
			userSide = slices.ContainsFunc(user.EnrolledModules, func(s string) bool { return slices.Contains(refs, s) })
		}
		if userSide || mod.HasMember(bid) {
			m.Enrolled = append(m.Enrolled, mod.RecordID)
		}
	}
	return finish(m)
}

func businessID(who Caller, user *domain.User) domain.BusinessID {
	if user != nil && !user.BusinessID.Empty() {
		return user.BusinessID
	}
	return who.BusinessID
}

func finish(m domain.Membership) domain.Membership {
	if m.Enrolled == nil {
		m.Enrolled = []domain.RecordID{}
	}
	slices.Sort(m.Enrolled)
	m.Enrolled = slices.Compact(m.Enrolled)
	return m
}

// IdentityResolver translates record ids into the business ids the
// mutating endpoints are keyed by, and loads the inputs of a membership view.
type IdentityResolver struct {
	Client *upstream.Client
	Log    zerolog.Logger
	now    func() time.Time
}

// NewIdentityResolver returns a resolver over c.
func NewIdentityResolver(c *upstream.Client, log zerolog.Logger) *IdentityResolver {
	return &IdentityResolver{Client: c, Log: log, now: time.Now}
}

// User fetches the caller's user record.
func (r *IdentityResolver) User(ctx context.Context, id domain.RecordID) (domain.User, error) {
	return r.Client.Users().ByRecordID(ctx, id)
}

// UserBusinessID returns who.BusinessID, fetching the user record when the
// caller does not carry it.
func (r *IdentityResolver) UserBusinessID(ctx context.Context, who Caller) (domain.BusinessID, error) {
	if !who.BusinessID.Empty() {
		return who.BusinessID, nil
	}
	u, err := r.User(ctx, who.RecordID)
	if err != nil {
		return "", err
	}
	if u.BusinessID.Empty() {
		return "", &upstream.Error{Kind: upstream.ErrServer, Service: upstream.ServiceUser, Detail: "user record has no user_id"}
	}
	return u.BusinessID, nil
}

// CourseCode maps a course record id to its code.
func (r *IdentityResolver) CourseCode(ctx context.Context, id domain.RecordID) (domain.BusinessID, error) {
	c, err := r.Client.Courses().ByRecordID(ctx, id)
	if err != nil {
		return "", err
	}
	return c.Code, nil
}

// ModuleCode maps a module record id to its code.
func (r *IdentityResolver) ModuleCode(ctx context.Context, id domain.RecordID) (domain.ModuleCode, error) {
	m, err := r.Client.Modules().ByRecordID(ctx, id)
	if err != nil {
		return 0, err
	}
	return m.Code, nil
}

// Resolve loads the user record and the resource list of kind in parallel
// and applies the OR policy. A failed user fetch degrades the view instead
// of failing it, except for auth failures, which the resource fetch would
// hit as well. A failed resource fetch fails the view.
func (r *IdentityResolver) Resolve(ctx context.Context, who Caller, kind domain.ResourceKind) (domain.Membership, error) {
	ctx, span := observability.Tracer("services").Start(ctx, "IdentityResolver.Resolve")
	defer span.End()
	span.SetAttributes(
		attribute.Int64("user.id", int64(who.RecordID)),
		attribute.String("resource.kind", string(kind)),
	)

	var (
		user    *domain.User
		userErr error
		courses []domain.Course
		modules []domain.Module
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		u, err := r.User(gctx, who.RecordID)
		if err != nil {
			userErr = err
			return nil
		}
		user = &u
		return nil
	})
	g.Go(func() error {
		var err error
		switch kind {
		case domain.KindCourse:
			courses, err = r.Client.Courses().List(gctx)
		case domain.KindModule:
			modules, err = r.Client.Modules().List(gctx, "")
		}
		return err
	})
	if err := g.Wait(); err != nil {
		return domain.Membership{}, err
	}
	if userErr != nil {
		if errors.Is(userErr, upstream.ErrUnauthorized) {
			return domain.Membership{}, userErr
		}
		r.Log.Warn().Err(userErr).Int64("user_id", int64(who.RecordID)).Str("kind", string(kind)).
			Msg("user record unavailable; membership resolved from resource side only")
	}

	var m domain.Membership
	if kind == domain.KindCourse {
		m = ResolveCourseMembership(who, user, courses)
	} else {
		m = ResolveModuleMembership(who, user, modules)
	}
	m.ResolvedAt = r.now().UTC()
	span.SetAttributes(attribute.Bool("membership.degraded", m.Degraded), attribute.Int("membership.size", len(m.Enrolled)))
	return m, nil
}
