package upstream

import (
	"context"
	"net/http"
	"net/url"

	"github.com/tbourn/spreadit-gateway/internal/domain"
)

// UsersAPI groups the user service endpoints.
type UsersAPI struct{ c *Client }

// SignUpRequest is the registration payload.
type SignUpRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Year     int    `json:"year"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignUp registers a new account and returns the created user.
func (a *UsersAPI) SignUp(ctx context.Context, req SignUpRequest) (domain.User, error) {
	return call[domain.User](ctx, a.c, ServiceUser, http.MethodPost, "/api/sign-up", req)
}

// Login exchanges credentials for a bearer token.
func (a *UsersAPI) Login(ctx context.Context, email, password string) (domain.LoginResult, error) {
	return call[domain.LoginResult](ctx, a.c, ServiceUser, http.MethodPost, "/api/login", loginRequest{Email: email, Password: password})
}

// All lists every user.
func (a *UsersAPI) All(ctx context.Context) ([]domain.User, error) {
	return call[[]domain.User](ctx, a.c, ServiceUser, http.MethodGet, "/api/all-users", nil)
}

// ByBusinessID fetches a user by service-local user id.
func (a *UsersAPI) ByBusinessID(ctx context.Context, id domain.BusinessID) (domain.User, error) {
	return call[domain.User](ctx, a.c, ServiceUser, http.MethodGet, "/api/user-by-userid/"+url.PathEscape(id.String()), nil)
}

// ByRecordID fetches a user by database id.
func (a *UsersAPI) ByRecordID(ctx context.Context, id domain.RecordID) (domain.User, error) {
	return call[domain.User](ctx, a.c, ServiceUser, http.MethodGet, "/api/user-by-db-id/"+id.String(), nil)
}
