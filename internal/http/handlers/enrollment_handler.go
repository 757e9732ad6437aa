// Enrollment HTTP handlers.
//
//   - GET  /me/courses, /me/modules              (resolved membership view)
//   - POST /courses/{id}/enroll|unenroll
//   - POST /modules/{id}/enroll|unenroll
//   - GET  /admin/enrollment-stats, /admin/enrollment-events
//
// Enroll and unenroll are idempotent: repeating one returns the same end
// state with noop or absorbed set instead of an error.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/spreadit-gateway/internal/domain"
	"github.com/tbourn/spreadit-gateway/internal/utils"
)

// MyCourses godoc
// @ID          myCourses
// @Summary     Courses the caller is enrolled in
// @Description Resolved from the user record and the course member lists; degraded=true means the user record could not be read.
// @Tags        Enrollment
// @Produce     json
// @Param       X-User-ID  header  int  true  "Caller record id"
// @Success     200  {object}  domain.Membership
// @Failure     401  {object}  handlers.ErrorResponse
// @Failure     502  {object}  handlers.ErrorResponse
// @Router      /me/courses [get]
func (h *Handlers) MyCourses(c *gin.Context) { h.view(c, domain.KindCourse) }

// MyModules godoc
// @ID          myModules
// @Summary     Modules the caller is enrolled in
// @Tags        Enrollment
// @Produce     json
// @Param       X-User-ID  header  int  true  "Caller record id"
// @Success     200  {object}  domain.Membership
// @Failure     401  {object}  handlers.ErrorResponse
// @Failure     502  {object}  handlers.ErrorResponse
// @Router      /me/modules [get]
func (h *Handlers) MyModules(c *gin.Context) { h.view(c, domain.KindModule) }

func (h *Handlers) view(c *gin.Context, kind domain.ResourceKind) {
	who, found := caller(c)
	if !found {
		return
	}
	m, err := h.enrollment.View(c.Request.Context(), who, kind)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, m)
}

// EnrollCourse godoc
// @ID          enrollCourse
// @Summary     Enroll in a course
// @Tags        Enrollment
// @Produce     json
// @Param       X-User-ID        header  int     true   "Caller record id"
// @Param       Idempotency-Key  header  string  false  "Replay key"
// @Param       id               path    int     true   "Course record id"
// @Success     200  {object}  domain.EnrollmentSnapshot
// @Failure     400  {object}  handlers.ErrorResponse
// @Failure     404  {object}  handlers.ErrorResponse
// @Failure     502  {object}  handlers.ErrorResponse
// @Failure     504  {object}  handlers.ErrorResponse
// @Router      /courses/{id}/enroll [post]
func (h *Handlers) EnrollCourse(c *gin.Context) { h.mutate(c, domain.KindCourse, domain.ActionEnroll) }

// UnenrollCourse godoc
// @ID          unenrollCourse
// @Summary     Leave a course
// @Tags        Enrollment
// @Produce     json
// @Param       X-User-ID        header  int     true   "Caller record id"
// @Param       Idempotency-Key  header  string  false  "Replay key"
// @Param       id               path    int     true   "Course record id"
// @Success     200  {object}  domain.EnrollmentSnapshot
// @Failure     400  {object}  handlers.ErrorResponse
// @Failure     404  {object}  handlers.ErrorResponse
// @Failure     502  {object}  handlers.ErrorResponse
// @Router      /courses/{id}/unenroll [post]
func (h *Handlers) UnenrollCourse(c *gin.Context) {
	h.mutate(c, domain.KindCourse, domain.ActionUnenroll)
}

// EnrollModule godoc
// @ID          enrollModule
// @Summary     Enroll in a module
// @Tags        Enrollment
// @Produce     json
// @Param       X-User-ID        header  int     true   "Caller record id"
// @Param       Idempotency-Key  header  string  false  "Replay key"
// @Param       id               path    int     true   "Module record id"
// @Success     200  {object}  domain.EnrollmentSnapshot
// @Failure     400  {object}  handlers.ErrorResponse
// @Failure     404  {object}  handlers.ErrorResponse
// @Failure     502  {object}  handlers.ErrorResponse
// @Router      /modules/{id}/enroll [post]
func (h *Handlers) EnrollModule(c *gin.Context) { h.mutate(c, domain.KindModule, domain.ActionEnroll) }

// UnenrollModule godoc
// @ID          unenrollModule
// @Summary     Leave a module
// @Tags        Enrollment
// @Produce     json
// @Param       X-User-ID        header  int     true   "Caller record id"
// @Param       Idempotency-Key  header  string  false  "Replay key"
// @Param       id               path    int     true   "Module record id"
// @Success     200  {object}  domain.EnrollmentSnapshot
// @Failure     400  {object}  handlers.ErrorResponse
// @Failure     404  {object}  handlers.ErrorResponse
// @Failure     502  {object}  handlers.ErrorResponse
// @Router      /modules/{id}/unenroll [post]
func (h *Handlers) UnenrollModule(c *gin.Context) {
	h.mutate(c, domain.KindModule, domain.ActionUnenroll)
}

func (h *Handlers) mutate(c *gin.Context, kind domain.ResourceKind, action domain.EnrollmentAction) {
	who, found := caller(c)
	if !found {
		return
	}
	id, valid := pathID(c)
	if !valid {
		return
	}
	call := h.enrollment.Enroll
	if action == domain.ActionUnenroll {
		call = h.enrollment.Unenroll
	}
	snap, err := call(c.Request.Context(), who, kind, id)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, snap)
}

// EnrollmentStats godoc
// @ID          enrollmentStats
// @Summary     Enrollment journal counts per outcome (admin)
// @Tags        Admin
// @Produce     json
// @Param       X-User-ID  header  int  true  "Caller record id"
// @Success     200  {object}  repo.EnrollmentStats
// @Failure     403  {object}  handlers.ErrorResponse
// @Router      /admin/enrollment-stats [get]
func (h *Handlers) EnrollmentStats(c *gin.Context) {
	if !h.admin(c) {
		return
	}
	st, err := h.enrollment.Stats(c.Request.Context())
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, st)
}

// EnrollmentEvents godoc
// @ID          enrollmentEvents
// @Summary     Newest enrollment journal entries (admin)
// @Tags        Admin
// @Produce     json
// @Param       X-User-ID  header  int  true   "Caller record id"
// @Param       user_id    query   int  false  "Only this user's events"
// @Param       limit      query   int  false  "Max entries (1..200, default 50)"
// @Success     200  {array}   domain.EnrollmentEvent
// @Failure     400  {object}  handlers.ErrorResponse
// @Failure     403  {object}  handlers.ErrorResponse
// @Router      /admin/enrollment-events [get]
func (h *Handlers) EnrollmentEvents(c *gin.Context) {
	if !h.admin(c) {
		return
	}
	var user domain.RecordID
	if raw := c.Query("user_id"); raw != "" {
		id, err := domain.ParseRecordID(raw)
		if err != nil {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "user_id must be a positive integer")
			return
		}
		user = id
	}
	limit := utils.LimitParam(c.Query("limit"), 50, 200)

	events, err := h.enrollment.Events(c.Request.Context(), user, limit)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, events)
}

func (h *Handlers) admin(c *gin.Context) bool {
	who, found := caller(c)
	if !found {
		return false
	}
	if err := h.catalog.RequireAdmin(c.Request.Context(), who); err != nil {
		failErr(c, err)
		return false
	}
	return true
}
