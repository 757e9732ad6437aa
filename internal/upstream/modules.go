package upstream

import (
	"context"
	"net/http"
	"net/url"

	"github.com/tbourn/spreadit-gateway/internal/domain"
)

// ModulesAPI groups the module service endpoints.
type ModulesAPI struct{ c *Client }

// ModuleInput is the create/patch payload.
type ModuleInput struct {
	Code         domain.ModuleCode `json:"id_module,omitempty"`
	Name         string            `json:"name,omitempty"`
	ParentCourse domain.BusinessID `json:"course_id,omitempty"`
}

// List returns modules, restricted to one parent course when course is
// non-empty.
func (a *ModulesAPI) List(ctx context.Context, course domain.BusinessID) ([]domain.Module, error) {
	path := "/api/module"
	if !course.Empty() {
		path += "?course_id=" + url.QueryEscape(course.String())
	}
	return call[[]domain.Module](ctx, a.c, ServiceModule, http.MethodGet, path, nil)
}

// ByRecordID fetches a module by database id.
func (a *ModulesAPI) ByRecordID(ctx context.Context, id domain.RecordID) (domain.Module, error) {
	return call[domain.Module](ctx, a.c, ServiceModule, http.MethodGet, "/api/module/"+id.String(), nil)
}

// Create adds a module.
func (a *ModulesAPI) Create(ctx context.Context, in ModuleInput) (domain.Module, error) {
	return call[domain.Module](ctx, a.c, ServiceModule, http.MethodPost, "/api/module", in)
}

// Patch updates a module by database id.
func (a *ModulesAPI) Patch(ctx context.Context, id domain.RecordID, in ModuleInput) (domain.Module, error) {
	return call[domain.Module](ctx, a.c, ServiceModule, http.MethodPatch, "/api/module/"+id.String(), in)
}

// Delete removes a module by database id.
func (a *ModulesAPI) Delete(ctx context.Context, id domain.RecordID) error {
	_, err := a.c.Request(ctx, ServiceModule, http.MethodDelete, "/api/module/"+id.String(), nil)
	return err
}

// Enroll adds user to the module's member list. The route is keyed by the
// module code, not the record id.
func (a *ModulesAPI) Enroll(ctx context.Context, code domain.ModuleCode, user domain.BusinessID) error {
	_, err := a.c.Request(ctx, ServiceModule, http.MethodPost, membershipPath("/api/modules/", code.String(), "enroll", user), nil)
	return err
}

// Unenroll removes user from the module's member list.
func (a *ModulesAPI) Unenroll(ctx context.Context, code domain.ModuleCode, user domain.BusinessID) error {
	_, err := a.c.Request(ctx, ServiceModule, http.MethodPost, membershipPath("/api/modules/", code.String(), "unenroll", user), nil)
	return err
}
