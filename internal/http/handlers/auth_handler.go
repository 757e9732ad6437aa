// Auth HTTP handlers.
//
//   - POST /auth/signup   (register, passthrough to the user service)
//   - POST /auth/login    (token + user + session)
//   - POST /auth/logout   (close the session, purge cached views)
//   - GET  /me/session    (current session state)
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/spreadit-gateway/internal/upstream"
)

// LoginRequest is the JSON payload for logging in.
type LoginRequest struct {
	Email    string `json:"email" example:"ada@example.com"`
	Password string `json:"password" example:"secret1"`
}

// SignUp godoc
// @ID          signUp
// @Summary     Register an account
// @Tags        Auth
// @Accept      json
// @Produce     json
// @Param       body  body      upstream.SignUpRequest  true  "Sign-up payload"
// @Success     201   {object}  domain.User
// @Failure     400   {object}  handlers.ErrorResponse  "Validation failed or rejected by the user service"
// @Failure     409   {object}  handlers.ErrorResponse  "Account already exists"
// @Failure     502   {object}  handlers.ErrorResponse  "User service unavailable"
// @Router      /auth/signup [post]
func (h *Handlers) SignUp(c *gin.Context) {
	var req upstream.SignUpRequest
	if !bindJSON(c, &req) {
		return
	}
	u, err := h.auth.SignUp(c.Request.Context(), req)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusCreated, u)
}

// Login godoc
// @ID          login
// @Summary     Log in
// @Description Exchanges credentials for a bearer token and opens a gateway session with the user's post count.
// @Tags        Auth
// @Accept      json
// @Produce     json
// @Param       body  body      handlers.LoginRequest  true  "Credentials"
// @Success     200   {object}  services.LoginSession
// @Failure     400   {object}  handlers.ErrorResponse
// @Failure     401   {object}  handlers.ErrorResponse  "Invalid credentials"
// @Failure     502   {object}  handlers.ErrorResponse
// @Router      /auth/login [post]
func (h *Handlers) Login(c *gin.Context) {
	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}
	ls, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, ls)
}

// Logout godoc
// @ID          logout
// @Summary     Log out
// @Description Closes the caller's session and drops every cached membership view of theirs.
// @Tags        Auth
// @Param       X-User-ID  header  int  true  "Caller record id"
// @Success     204
// @Failure     401  {object}  handlers.ErrorResponse  "No session"
// @Router      /auth/logout [post]
func (h *Handlers) Logout(c *gin.Context) {
	who, found := caller(c)
	if !found {
		return
	}
	if err := h.auth.Logout(who.RecordID); err != nil {
		failErr(c, err)
		return
	}
	noContent(c)
}

// Session godoc
// @ID          getSession
// @Summary     Current session
// @Tags        Auth
// @Produce     json
// @Param       X-User-ID  header  int  true  "Caller record id"
// @Success     200  {object}  session.State
// @Failure     401  {object}  handlers.ErrorResponse  "No session"
// @Router      /me/session [get]
func (h *Handlers) Session(c *gin.Context) {
	who, found := caller(c)
	if !found {
		return
	}
	st, err := h.auth.Session(who.RecordID)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, st)
}
