// Catalog HTTP handlers. Reads annotate every item with the caller's
// enrollment; writes are admin-only.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/spreadit-gateway/internal/domain"
	"github.com/tbourn/spreadit-gateway/internal/upstream"
)

// ListCourses godoc
// @ID          listCourses
// @Summary     List courses
// @Tags        Catalog
// @Produce     json
// @Param       X-User-ID  header  int  true  "Caller record id"
// @Success     200  {object}  services.Listing[services.CourseView]
// @Failure     401  {object}  handlers.ErrorResponse
// @Failure     502  {object}  handlers.ErrorResponse
// @Router      /courses [get]
func (h *Handlers) ListCourses(c *gin.Context) {
	who, found := caller(c)
	if !found {
		return
	}
	page, err := h.catalog.Courses(c.Request.Context(), who)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, page)
}

// ListModules godoc
// @ID          listModules
// @Summary     List modules
// @Tags        Catalog
// @Produce     json
// @Param       X-User-ID  header  int     true   "Caller record id"
// @Param       course_id  query   string  false  "Only modules of this course"
// @Success     200  {object}  services.Listing[services.ModuleView]
// @Failure     401  {object}  handlers.ErrorResponse
// @Failure     502  {object}  handlers.ErrorResponse
// @Router      /modules [get]
func (h *Handlers) ListModules(c *gin.Context) {
	who, found := caller(c)
	if !found {
		return
	}
	page, err := h.catalog.Modules(c.Request.Context(), who, domain.BusinessID(c.Query("course_id")))
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, page)
}

// CreateCourse godoc
// @ID          createCourse
// @Summary     Create a course (admin)
// @Tags        Catalog
// @Accept      json
// @Produce     json
// @Param       X-User-ID  header  int                   true  "Caller record id"
// @Param       body       body    upstream.CourseInput  true  "Course"
// @Success     201  {object}  domain.Course
// @Failure     400  {object}  handlers.ErrorResponse
// @Failure     403  {object}  handlers.ErrorResponse
// @Failure     409  {object}  handlers.ErrorResponse
// @Router      /courses [post]
func (h *Handlers) CreateCourse(c *gin.Context) {
	who, found := caller(c)
	if !found {
		return
	}
	var in upstream.CourseInput
	if !bindJSON(c, &in) {
		return
	}
	course, err := h.catalog.CreateCourse(c.Request.Context(), who, in)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusCreated, course)
}

// PatchCourse godoc
// @ID          patchCourse
// @Summary     Update a course (admin)
// @Tags        Catalog
// @Accept      json
// @Produce     json
// @Param       X-User-ID  header  int                   true  "Caller record id"
// @Param       id         path    int                   true  "Course record id"
// @Param       body       body    upstream.CourseInput  true  "Fields to change"
// @Success     200  {object}  domain.Course
// @Failure     400  {object}  handlers.ErrorResponse
// @Failure     403  {object}  handlers.ErrorResponse
// @Failure     404  {object}  handlers.ErrorResponse
// @Router      /courses/{id} [patch]
func (h *Handlers) PatchCourse(c *gin.Context) {
	who, found := caller(c)
	if !found {
		return
	}
	id, valid := pathID(c)
	if !valid {
		return
	}
	var in upstream.CourseInput
	if !bindJSON(c, &in) {
		return
	}
	course, err := h.catalog.PatchCourse(c.Request.Context(), who, id, in)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, course)
}

// DeleteCourse godoc
// @ID          deleteCourse
// @Summary     Delete a course (admin)
// @Tags        Catalog
// @Param       X-User-ID  header  int  true  "Caller record id"
// @Param       id         path    int  true  "Course record id"
// @Success     204
// @Failure     403  {object}  handlers.ErrorResponse
// @Failure     404  {object}  handlers.ErrorResponse
// @Router      /courses/{id} [delete]
func (h *Handlers) DeleteCourse(c *gin.Context) {
	who, found := caller(c)
	if !found {
		return
	}
	id, valid := pathID(c)
	if !valid {
		return
	}
	if err := h.catalog.DeleteCourse(c.Request.Context(), who, id); err != nil {
		failErr(c, err)
		return
	}
	noContent(c)
}

// CreateModule godoc
// @ID          createModule
// @Summary     Create a module (admin)
// @Tags        Catalog
// @Accept      json
// @Produce     json
// @Param       X-User-ID  header  int                   true  "Caller record id"
// @Param       body       body    upstream.ModuleInput  true  "Module"
// @Success     201  {object}  domain.Module
// @Failure     400  {object}  handlers.ErrorResponse
// @Failure     403  {object}  handlers.ErrorResponse
// @Failure     409  {object}  handlers.ErrorResponse
// @Router      /modules [post]
func (h *Handlers) CreateModule(c *gin.Context) {
	who, found := caller(c)
	if !found {
		return
	}
	var in upstream.ModuleInput
	if !bindJSON(c, &in) {
		return
	}
	m, err := h.catalog.CreateModule(c.Request.Context(), who, in)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusCreated, m)
}

// PatchModule godoc
// @ID          patchModule
// @Summary     Update a module (admin)
// @Tags        Catalog
// @Accept      json
// @Produce     json
// @Param       X-User-ID  header  int                   true  "Caller record id"
// @Param       id         path    int                   true  "Module record id"
// @Param       body       body    upstream.ModuleInput  true  "Fields to change"
// @Success     200  {object}  domain.Module
// @Failure     400  {object}  handlers.ErrorResponse
// @Failure     403  {object}  handlers.ErrorResponse
// @Failure     404  {object}  handlers.ErrorResponse
// @Router      /modules/{id} [patch]
func (h *Handlers) PatchModule(c *gin.Context) {
	who, found := caller(c)
	if !found {
		return
	}
	id, valid := pathID(c)
	if !valid {
		return
	}
	var in upstream.ModuleInput
	if !bindJSON(c, &in) {
		return
	}
	m, err := h.catalog.PatchModule(c.Request.Context(), who, id, in)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, m)
}

// DeleteModule godoc
// @ID          deleteModule
// @Summary     Delete a module (admin)
// @Tags        Catalog
// @Param       X-User-ID  header  int  true  "Caller record id"
// @Param       id         path    int  true  "Module record id"
// @Success     204
// @Failure     403  {object}  handlers.ErrorResponse
// @Failure     404  {object}  handlers.ErrorResponse
// @Router      /modules/{id} [delete]
func (h *Handlers) DeleteModule(c *gin.Context) {
	who, found := caller(c)
	if !found {
		return
	}
	id, valid := pathID(c)
	if !valid {
		return
	}
	if err := h.catalog.DeleteModule(c.Request.Context(), who, id); err != nil {
		failErr(c, err)
		return
	}
	noContent(c)
}
