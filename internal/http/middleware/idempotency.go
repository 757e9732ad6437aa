package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"net/http"
	"regexp"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/spreadit-gateway/internal/domain"
)

// HeaderIdempotencyKey is the request header carrying the client's key.
const HeaderIdempotencyKey = "Idempotency-Key"

// HeaderIdempotentReplay is set to "true" on a replayed response.
const HeaderIdempotentReplay = "Idempotent-Replay"

const (
	ctxKeyIdemKey    = "idem.key"
	ctxKeyIdemReplay = "idem.replay"
)

// GetIdempotencyKey returns the validated key stashed by Idempotency.
func GetIdempotencyKey(c *gin.Context) (string, bool) {
	v, ok := c.Get(ctxKeyIdemKey)
	if !ok {
		return "", false
	}
	s, _ := v.(string)
	return s, s != ""
}

// IsReplay reports whether the response was served from a stored result.
func IsReplay(c *gin.Context) bool {
	v, ok := c.Get(ctxKeyIdemReplay)
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

// IdempotencyOptions configures key validation.
type IdempotencyOptions struct {
	// MaxLen caps the key length; values <= 0 default to 200.
	MaxLen int
	// Pattern restricts allowed characters; nil means ^[A-Za-z0-9._~\-:]+$.
	Pattern *regexp.Regexp
}

// IdempotencyLookup returns the stored response for (userID, scope, key)
// that is still valid at now, or nil when there is none.
type IdempotencyLookup func(ctx context.Context, userID, scope, key string, now time.Time) (*domain.Idempotency, error)

// IdempotencySave stores a completed response. A lost race against a
// concurrent request with the same key is reported as an error and ignored.
type IdempotencySave func(ctx context.Context, userID, scope, key string, status int, body []byte) error

// Idempotency replays completed mutations. For POST, PATCH and DELETE
// requests carrying Idempotency-Key:
//
//   - an invalid key is refused with 400;
//   - callers without an authenticated session are passed through untouched,
//     nothing is looked up or stored for them;
//   - a stored 2xx response for (caller, method + path + body digest, key) is
//     written back verbatim with Idempotent-Replay: true, and the chain
//     stops, so neither the rate limiter nor any upstream service sees the
//     request;
//   - otherwise the request runs and a 2xx response is stored.
//
// Lookup failures are logged and the request proceeds as new.
func Idempotency(opts IdempotencyOptions, lookup IdempotencyLookup, save IdempotencySave) gin.HandlerFunc {
	maxLen := opts.MaxLen
	if maxLen <= 0 {
		maxLen = 200
	}
	pat := opts.Pattern
	if pat == nil {
		pat = regexp.MustCompile(`^[A-Za-z0-9._~\-:]+$`)
	}

	return func(c *gin.Context) {
		key := c.GetHeader(HeaderIdempotencyKey)
		if key == "" || !mutating(c.Request.Method) {
			c.Next()
			return
		}
		if len(key) > maxLen || !pat.MatchString(key) {
			abortJSON(c, http.StatusBadRequest, "bad_idempotency_key", "invalid Idempotency-Key")
			return
		}
		c.Set(ctxKeyIdemKey, key)

		uid := userIDFromCtx(c)
		if uid == "" || !Authenticated(c) {
			c.Next()
			return
		}
		digest, err := bodyDigest(c)
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				abortJSON(c, http.StatusRequestEntityTooLarge, "payload_too_large", "request body too large")
				return
			}
			abortJSON(c, http.StatusBadRequest, "bad_request", "unreadable request body")
			return
		}
		scope := c.Request.Method + " " + c.Request.URL.Path + " " + digest
		ctx := c.Request.Context()

		if lookup != nil {
			rec, err := lookup(ctx, uid, scope, key, time.Now().UTC())
			if err != nil {
				LoggerFrom(c).Warn().Err(err).Msg("idempotency lookup failed")
			}
			if rec != nil {
				c.Set(ctxKeyIdemReplay, true)
				c.Header(HeaderIdempotentReplay, "true")
				c.Data(rec.Status, "application/json; charset=utf-8", rec.Body)
				c.Abort()
				return
			}
		}

		cw := &captureWriter{ResponseWriter: c.Writer}
		c.Writer = cw
		c.Next()

		status := cw.Status()
		if save == nil || status < 200 || status > 299 {
			return
		}
		if err := save(context.WithoutCancel(ctx), uid, scope, key, status, cw.buf.Bytes()); err != nil {
			LoggerFrom(c).Debug().Err(err).Str("scope", scope).Msg("idempotency record not stored")
		}
	}
}

// bodyDigest hashes the request body and puts it back for the handler.
func bodyDigest(c *gin.Context) (string, error) {
	var body []byte
	if c.Request.Body != nil {
		b, err := io.ReadAll(c.Request.Body)
		if err != nil {
			return "", err
		}
		body = b
		c.Request.Body = io.NopCloser(bytes.NewReader(body))
	}
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:12]), nil
}

func mutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPatch, http.MethodPut, http.MethodDelete:
		return true
	}
	return false
}

// captureWriter tees the response body so it can be stored for replay.
type captureWriter struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (w *captureWriter) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *captureWriter) WriteString(s string) (int, error) {
	w.buf.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}
