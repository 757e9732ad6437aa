package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/tbourn/spreadit-gateway/internal/domain"
	"github.com/tbourn/spreadit-gateway/internal/upstream"
)

// CourseView is a course annotated with the caller's resolved enrollment.
type CourseView struct {
	domain.Course
	Enrolled bool `json:"enrolled"`
}

// ModuleView is a module annotated with the caller's resolved enrollment.
type ModuleView struct {
	domain.Module
	Enrolled bool `json:"enrolled"`
}

// Listing is a catalog page. Degraded mirrors the membership view it was
// annotated from.
type Listing[T any] struct {
	Items    []T  `json:"items"`
	Degraded bool `json:"degraded"`
}

// CatalogService lists courses and modules for a caller and performs the
// admin-only catalog writes. Writes purge every cached membership view since
// they can change which resources exist.
type CatalogService struct {
	Client     *upstream.Client
	Identity   *IdentityResolver
	Enrollment *EnrollmentService
	Log        zerolog.Logger
}

// Courses lists every course with the caller's enrollment flag.
func (s *CatalogService) Courses(ctx context.Context, who Caller) (Listing[CourseView], error) {
	courses, err := s.Client.Courses().List(ctx)
	if err != nil {
		return Listing[CourseView]{}, err
	}
	m, err := s.Enrollment.View(ctx, who, domain.KindCourse)
	if err != nil {
		return Listing[CourseView]{}, err
	}
	out := Listing[CourseView]{Items: make([]CourseView, 0, len(courses)), Degraded: m.Degraded}
	for _, c := range courses {
		out.Items = append(out.Items, CourseView{Course: c, Enrolled: m.Contains(c.RecordID)})
	}
	return out, nil
}

// Modules lists modules, optionally those of one course, with the caller's
// enrollment flag.
func (s *CatalogService) Modules(ctx context.Context, who Caller, course domain.BusinessID) (Listing[ModuleView], error) {
	modules, err := s.Client.Modules().List(ctx, domain.BusinessID(strings.TrimSpace(course.String())))
	if err != nil {
		return Listing[ModuleView]{}, err
	}
	m, err := s.Enrollment.View(ctx, who, domain.KindModule)
	if err != nil {
		return Listing[ModuleView]{}, err
	}
	out := Listing[ModuleView]{Items: make([]ModuleView, 0, len(modules)), Degraded: m.Degraded}
	for _, mod := range modules {
		out.Items = append(out.Items, ModuleView{Module: mod, Enrolled: m.Contains(mod.RecordID)})
	}
	return out, nil
}

// CreateCourse adds a course. Code and name are required.
func (s *CatalogService) CreateCourse(ctx context.Context, who Caller, in upstream.CourseInput) (domain.Course, error) {
	in = trimCourse(in)
	if in.Code.Empty() {
		return domain.Course{}, invalid("course_id", "is required")
	}
	if in.Name == "" {
		return domain.Course{}, invalid("course_name", "is required")
	}
	if err := s.RequireAdmin(ctx, who); err != nil {
		return domain.Course{}, err
	}
	c, err := s.Client.Courses().Create(ctx, in)
	if err != nil {
		return domain.Course{}, err
	}
	s.Enrollment.InvalidateAll(ctx)
	return c, nil
}

// PatchCourse updates the course with record id id.
func (s *CatalogService) PatchCourse(ctx context.Context, who Caller, id domain.RecordID, in upstream.CourseInput) (domain.Course, error) {
	in = trimCourse(in)
	if !id.Valid() {
		return domain.Course{}, invalid("id", "must be a positive id")
	}
	if in == (upstream.CourseInput{}) {
		return domain.Course{}, invalid("body", "no fields to update")
	}
	if err := s.RequireAdmin(ctx, who); err != nil {
		return domain.Course{}, err
	}
	code, err := s.Identity.CourseCode(ctx, id)
	if err != nil {
		return domain.Course{}, err
	}
	c, err := s.Client.Courses().Patch(ctx, code, in)
	if err != nil {
		return domain.Course{}, err
	}
	s.Enrollment.InvalidateAll(ctx)
	return c, nil
}

// DeleteCourse removes the course with record id id.
func (s *CatalogService) DeleteCourse(ctx context.Context, who Caller, id domain.RecordID) error {
	if !id.Valid() {
		return invalid("id", "must be a positive id")
	}
	if err := s.RequireAdmin(ctx, who); err != nil {
		return err
	}
	code, err := s.Identity.CourseCode(ctx, id)
	if err != nil {
		return err
	}
	if err := s.Client.Courses().Delete(ctx, code); err != nil {
		return err
	}
	s.Enrollment.InvalidateAll(ctx)
	return nil
}

// CreateModule adds a module. The code must have at most four digits.
func (s *CatalogService) CreateModule(ctx context.Context, who Caller, in upstream.ModuleInput) (domain.Module, error) {
	in = trimModule(in)
	switch {
	case in.Code <= 0 || in.Code > 9999:
		return domain.Module{}, invalid("id_module", "must be between 1 and 9999")
	case in.Name == "":
		return domain.Module{}, invalid("name", "is required")
	case in.ParentCourse.Empty():
		return domain.Module{}, invalid("course_id", "is required")
	}
	if err := s.RequireAdmin(ctx, who); err != nil {
		return domain.Module{}, err
	}
	m, err := s.Client.Modules().Create(ctx, in)
	if err != nil {
		return domain.Module{}, err
	}
	s.Enrollment.InvalidateAll(ctx)
	return m, nil
}

// PatchModule updates the module with record id id.
func (s *CatalogService) PatchModule(ctx context.Context, who Caller, id domain.RecordID, in upstream.ModuleInput) (domain.Module, error) {
	in = trimModule(in)
	switch {
	case !id.Valid():
		return domain.Module{}, invalid("id", "must be a positive id")
	case in == (upstream.ModuleInput{}):
		return domain.Module{}, invalid("body", "no fields to update")
	case in.Code < 0 || in.Code > 9999:
		return domain.Module{}, invalid("id_module", "must be between 1 and 9999")
	}
	if err := s.RequireAdmin(ctx, who); err != nil {
		return domain.Module{}, err
	}
	m, err := s.Client.Modules().Patch(ctx, id, in)
	if err != nil {
		return domain.Module{}, err
	}
	s.Enrollment.InvalidateAll(ctx)
	return m, nil
}

// DeleteModule removes the module with record id id.
func (s *CatalogService) DeleteModule(ctx context.Context, who Caller, id domain.RecordID) error {
	if !id.Valid() {
		return invalid("id", "must be a positive id")
	}
	if err := s.RequireAdmin(ctx, who); err != nil {
		return err
	}
	if err := s.Client.Modules().Delete(ctx, id); err != nil {
		return err
	}
	s.Enrollment.InvalidateAll(ctx)
	return nil
}

// RequireAdmin reads the admin flag from the user record; the caller's
// claim is not trusted.
func (s *CatalogService) RequireAdmin(ctx context.Context, who Caller) error {
	if !who.RecordID.Valid() {
		return invalid("user_id", "is required")
	}
	u, err := s.Identity.User(ctx, who.RecordID)
	if err != nil {
		return err
	}
	if !u.IsAdmin {
		return ErrForbidden
	}
	return nil
}

func trimCourse(in upstream.CourseInput) upstream.CourseInput {
	in.Code = domain.BusinessID(strings.TrimSpace(in.Code.String()))
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	return in
}

func trimModule(in upstream.ModuleInput) upstream.ModuleInput {
	in.Name = strings.TrimSpace(in.Name)
	in.ParentCourse = domain.BusinessID(strings.TrimSpace(in.ParentCourse.String()))
	return in
}
