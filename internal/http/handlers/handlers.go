package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/spreadit-gateway/internal/domain"
	"github.com/tbourn/spreadit-gateway/internal/http/middleware"
	"github.com/tbourn/spreadit-gateway/internal/repo"
	"github.com/tbourn/spreadit-gateway/internal/services"
	"github.com/tbourn/spreadit-gateway/internal/session"
	"github.com/tbourn/spreadit-gateway/internal/upstream"
)

//
// Service contracts (context-aware)
//

// AuthService is the sign-up/login passthrough and the session registry.
type AuthService interface {
	SignUp(ctx context.Context, in upstream.SignUpRequest) (domain.User, error)
	Login(ctx context.Context, email, password string) (services.LoginSession, error)
	Session(user domain.RecordID) (session.State, error)
	Logout(user domain.RecordID) error
}

// EnrollmentService enrolls callers and resolves their memberships.
type EnrollmentService interface {
	Enroll(ctx context.Context, who services.Caller, kind domain.ResourceKind, resource domain.RecordID) (domain.EnrollmentSnapshot, error)
	Unenroll(ctx context.Context, who services.Caller, kind domain.ResourceKind, resource domain.RecordID) (domain.EnrollmentSnapshot, error)
	View(ctx context.Context, who services.Caller, kind domain.ResourceKind) (domain.Membership, error)
	Stats(ctx context.Context) (repo.EnrollmentStats, error)
	Events(ctx context.Context, user domain.RecordID, limit int) ([]domain.EnrollmentEvent, error)
}

// CatalogService lists and administers courses and modules.
type CatalogService interface {
	Courses(ctx context.Context, who services.Caller) (services.Listing[services.CourseView], error)
	Modules(ctx context.Context, who services.Caller, course domain.BusinessID) (services.Listing[services.ModuleView], error)
	CreateCourse(ctx context.Context, who services.Caller, in upstream.CourseInput) (domain.Course, error)
	PatchCourse(ctx context.Context, who services.Caller, id domain.RecordID, in upstream.CourseInput) (domain.Course, error)
	DeleteCourse(ctx context.Context, who services.Caller, id domain.RecordID) error
	CreateModule(ctx context.Context, who services.Caller, in upstream.ModuleInput) (domain.Module, error)
	PatchModule(ctx context.Context, who services.Caller, id domain.RecordID, in upstream.ModuleInput) (domain.Module, error)
	DeleteModule(ctx context.Context, who services.Caller, id domain.RecordID) error
	RequireAdmin(ctx context.Context, who services.Caller) error
}

// PostService creates, deletes, reads and lists posts.
type PostService interface {
	Create(ctx context.Context, who services.Caller, in services.PostInput) (domain.Post, error)
	Delete(ctx context.Context, who services.Caller, id domain.RecordID) error
	Get(ctx context.Context, who services.Caller, id domain.RecordID) (services.PostDetail, error)
	ListByModule(ctx context.Context, module domain.RecordID) ([]domain.Post, error)
	ListByUser(ctx context.Context, who services.Caller) ([]domain.Post, error)
}

// EngagementService serves likes and comments.
type EngagementService interface {
	Likes(ctx context.Context, user, post domain.RecordID) (domain.LikeState, error)
	ToggleLike(ctx context.Context, user, post domain.RecordID) (domain.LikeState, error)
	Comments(ctx context.Context, post domain.RecordID) ([]domain.Comment, error)
	AddComment(ctx context.Context, user, post domain.RecordID, content string) (domain.Comment, error)
	DeleteComment(ctx context.Context, who services.Caller, post, id domain.RecordID) error
}

//
// Handler wiring
//

// Handlers groups the gateway endpoints over abstract services.
type Handlers struct {
	auth       AuthService
	enrollment EnrollmentService
	catalog    CatalogService
	posts      PostService
	engagement EngagementService
}

// Deps bundles the services Handlers depends on.
type Deps struct {
	Auth       AuthService
	Enrollment EnrollmentService
	Catalog    CatalogService
	Posts      PostService
	Engagement EngagementService
}

// New returns Handlers bound to d.
func New(d Deps) *Handlers {
	return &Handlers{
		auth:       d.Auth,
		enrollment: d.Enrollment,
		catalog:    d.Catalog,
		posts:      d.Posts,
		engagement: d.Engagement,
	}
}

// caller returns the identity set by middleware.Identify, answering 401
// when there is none.
func caller(c *gin.Context) (services.Caller, bool) {
	who, ok := middleware.CallerFrom(c)
	if !ok {
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, middleware.HeaderUserID+" header is required")
	}
	return who, ok
}

// pathID parses the ":id" route parameter, answering 400 when it is not a
// positive record id.
func pathID(c *gin.Context) (domain.RecordID, bool) {
	id, err := domain.ParseRecordID(c.Param("id"))
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "id must be a positive integer")
		return 0, false
	}
	return id, true
}

// bindJSON decodes the body into dst, answering 400 on failure.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return false
	}
	return true
}
