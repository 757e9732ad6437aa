package upstream

import (
	"context"
	"net/http"
	"net/url"

	"github.com/tbourn/spreadit-gateway/internal/domain"
)

// CoursesAPI groups the course service endpoints.
type CoursesAPI struct{ c *Client }

// CourseInput is the create/patch payload. Empty fields are omitted on patch.
type CourseInput struct {
	Code        domain.BusinessID `json:"course_id,omitempty"`
	Name        string            `json:"course_name,omitempty"`
	Description string            `json:"description,omitempty"`
}

// List returns every course.
func (a *CoursesAPI) List(ctx context.Context) ([]domain.Course, error) {
	return call[[]domain.Course](ctx, a.c, ServiceCourse, http.MethodGet, "/api/get-all-courses", nil)
}

// ByRecordID fetches a course by database id.
func (a *CoursesAPI) ByRecordID(ctx context.Context, id domain.RecordID) (domain.Course, error) {
	return call[domain.Course](ctx, a.c, ServiceCourse, http.MethodGet, "/api/get-course-by-db-id/"+id.String(), nil)
}

// Create adds a course.
func (a *CoursesAPI) Create(ctx context.Context, in CourseInput) (domain.Course, error) {
	return call[domain.Course](ctx, a.c, ServiceCourse, http.MethodPost, "/api/add-course", in)
}

// Patch updates the course identified by its code.
func (a *CoursesAPI) Patch(ctx context.Context, code domain.BusinessID, in CourseInput) (domain.Course, error) {
	return call[domain.Course](ctx, a.c, ServiceCourse, http.MethodPatch, "/api/patch-course-by-id/"+url.PathEscape(code.String()), in)
}

// Delete removes the course identified by its code.
func (a *CoursesAPI) Delete(ctx context.Context, code domain.BusinessID) error {
	_, err := a.c.Request(ctx, ServiceCourse, http.MethodDelete, "/api/delete-course-by-id/"+url.PathEscape(code.String()), nil)
	return err
}

// Enroll adds user to the course's member list.
func (a *CoursesAPI) Enroll(ctx context.Context, code, user domain.BusinessID) error {
	_, err := a.c.Request(ctx, ServiceCourse, http.MethodPost, membershipPath("/api/courses/", code.String(), "enroll", user), nil)
	return err
}

// Unenroll removes user from the course's member list.
func (a *CoursesAPI) Unenroll(ctx context.Context, code, user domain.BusinessID) error {
	_, err := a.c.Request(ctx, ServiceCourse, http.MethodPost, membershipPath("/api/courses/", code.String(), "unenroll", user), nil)
	return err
}

func membershipPath(prefix, resource, verb string, user domain.BusinessID) string {
	return prefix + url.PathEscape(resource) + "/" + verb + "/" + url.PathEscape(user.String())
}
