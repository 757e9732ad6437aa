package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/spreadit-gateway/internal/domain"
	"github.com/tbourn/spreadit-gateway/internal/services"
	"github.com/tbourn/spreadit-gateway/internal/session"
	"github.com/tbourn/spreadit-gateway/internal/upstream"
)

// HeaderUserID carries the caller's user record id.
const HeaderUserID = "X-User-ID"

const (
	ctxKeyCaller  = "caller"
	ctxKeyUserID  = "userID"
	ctxKeySession = "session"
)

// SessionLookup returns the credentials of a logged-in user, if the gateway
// holds a session for them.
type SessionLookup func(id domain.RecordID) (session.Credentials, bool)

// AuthOptions configures Identify.
type AuthOptions struct {
	Sessions SessionLookup
	// Now defaults to time.Now.
	Now func() time.Time
}

// Identify establishes who is calling without requiring it:
//
//   - A bearer token is attached to the request context for upstream calls.
//     A JWT whose exp has passed is refused with 401 before anything else
//     runs.
//   - X-User-ID, when present, must be a positive record id (400 otherwise)
//     and becomes the caller.
//   - When the registry holds a session for that id, the bearer token must
//     be the one the session was opened with (401 otherwise). A match marks
//     the caller as authenticated and fills in the business id.
//
// Routes that act for a user add RequireSession after it.
func Identify(opts AuthOptions) gin.HandlerFunc {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return func(c *gin.Context) {
		tok := bearerToken(c.GetHeader("Authorization"))
		if tok != "" {
			if upstream.TokenExpired(tok, now()) {
				abortJSON(c, http.StatusUnauthorized, "unauthorized", "token expired, please log in again")
				return
			}
			c.Request = c.Request.WithContext(upstream.WithToken(c.Request.Context(), tok))
		}

		raw := strings.TrimSpace(c.GetHeader(HeaderUserID))
		if raw == "" {
			c.Next()
			return
		}
		id, err := domain.ParseRecordID(raw)
		if err != nil {
			abortJSON(c, http.StatusBadRequest, "bad_request", "invalid "+HeaderUserID)
			return
		}
		who := services.Caller{RecordID: id}
		if opts.Sessions != nil {
			if cred, ok := opts.Sessions(id); ok {
				if tok == "" || subtle.ConstantTimeCompare([]byte(tok), []byte(cred.Token)) != 1 {
					abortJSON(c, http.StatusUnauthorized, "unauthorized", "token does not match the session, please log in again")
					return
				}
				who.BusinessID = cred.BusinessID
				c.Set(ctxKeySession, true)
			}
		}
		c.Set(ctxKeyCaller, who)
		c.Set(ctxKeyUserID, id.String())
		c.Next()
	}
}

// RequireSession answers 401 unless Identify matched the caller to an open
// session.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CallerFrom(c); !ok {
			abortJSON(c, http.StatusUnauthorized, "unauthorized", HeaderUserID+" header is required")
			return
		}
		if !Authenticated(c) {
			abortJSON(c, http.StatusUnauthorized, "unauthorized", "please log in")
			return
		}
		c.Next()
	}
}

// CallerFrom returns the caller stored by Identify.
func CallerFrom(c *gin.Context) (services.Caller, bool) {
	v, ok := c.Get(ctxKeyCaller)
	if !ok {
		return services.Caller{}, false
	}
	who, ok := v.(services.Caller)
	return who, ok
}

// Authenticated reports whether the caller presented their session's token.
func Authenticated(c *gin.Context) bool {
	return c.GetBool(ctxKeySession)
}

// bearerToken accepts "Bearer <tok>" (any case) and returns "" otherwise.
func bearerToken(h string) string {
	scheme, tok, ok := strings.Cut(strings.TrimSpace(h), " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return ""
	}
	return strings.TrimSpace(tok)
}

// userIDFromCtx returns the caller's record id as set by Identify, or "".
func userIDFromCtx(c *gin.Context) string {
	v, _ := c.Get(ctxKeyUserID)
	return asString(v)
}

// abortJSON writes the standard error envelope from middleware, which
// cannot use the handlers package.
func abortJSON(c *gin.Context, status int, code, msg string) {
	c.AbortWithStatusJSON(status, gin.H{
		"request_id": c.Writer.Header().Get(requestIDHeader),
		"code":       code,
		"message":    msg,
	})
}
