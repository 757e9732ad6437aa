package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/spreadit-gateway/internal/observability"
)

// Service names one of the four backends.
type Service string

const (
	ServiceUser   Service = "user"
	ServiceCourse Service = "course"
	ServiceModule Service = "module"
	ServicePost   Service = "post"
)

// BaseURLs maps each service to its base URL (scheme://host[:port], no
// trailing slash).
type BaseURLs map[Service]string

// DefaultTimeout bounds each outbound call when no timeout is configured.
const DefaultTimeout = 10 * time.Second

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 4 << 20

// Client issues requests to the backends. It is stateless apart from its
// configuration and safe for concurrent use.
type Client struct {
	base    BaseURLs
	http    *http.Client
	timeout time.Duration
	tokens  TokenProvider
	log     zerolog.Logger
	now     func() time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option { return func(c *Client) { c.http = hc } }

// WithTimeout sets the per-call timeout. Non-positive values keep the default.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithTokenProvider sets where bearer tokens come from.
func WithTokenProvider(p TokenProvider) Option { return func(c *Client) { c.tokens = p } }

// WithLogger sets the logger used for per-call debug output.
func WithLogger(l zerolog.Logger) Option { return func(c *Client) { c.log = l } }

// New builds a Client. All four services must have a base URL.
func New(base BaseURLs, opts ...Option) (*Client, error) {
	for _, s := range []Service{ServiceUser, ServiceCourse, ServiceModule, ServicePost} {
		if strings.TrimSpace(base[s]) == "" {
			return nil, fmt.Errorf("upstream: missing base URL for %s service", s)
		}
	}
	c := &Client{
		base:    make(BaseURLs, len(base)),
		http:    &http.Client{},
		timeout: DefaultTimeout,
		tokens:  ContextToken(),
		log:     log.Logger,
		now:     time.Now,
	}
	for s, u := range base {
		c.base[s] = strings.TrimRight(u, "/")
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// Users, Courses, Modules and Posts return the typed endpoint groups.
func (c *Client) Users() *UsersAPI     { return &UsersAPI{c: c} }
func (c *Client) Courses() *CoursesAPI { return &CoursesAPI{c: c} }
func (c *Client) Modules() *ModulesAPI { return &ModulesAPI{c: c} }
func (c *Client) Posts() *PostsAPI     { return &PostsAPI{c: c} }

// Request sends one request and returns the raw 2xx body (nil for an empty
// body). body, when non-nil, is JSON-encoded. Every failure is an *Error.
func (c *Client) Request(ctx context.Context, svc Service, method, path string, body any) (json.RawMessage, error) {
	start := c.now()
	ctx, span := observability.Tracer("upstream").Start(ctx, "upstream."+string(svc),
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("upstream.service", string(svc)),
			attribute.String("http.request.method", method),
			attribute.String("url.path", path),
		),
	)
	defer span.End()

	raw, status, err := c.do(ctx, svc, method, path, body)

	outcome := "ok"
	if err != nil {
		outcome = string(KindOf(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome)
	}
	if status != 0 {
		span.SetAttributes(attribute.Int("http.response.status_code", status))
	}
	observability.ObserveUpstream(string(svc), method, outcome, c.now().Sub(start))
	c.log.Debug().
		Str("service", string(svc)).
		Str("method", method).
		Str("path", path).
		Int("status", status).
		Str("outcome", outcome).
		Dur("latency", c.now().Sub(start)).
		Msg("upstream call")
	return raw, err
}

func (c *Client) do(ctx context.Context, svc Service, method, path string, body any) (json.RawMessage, int, error) {
	fail := func(kind Kind, status int, detail string, cause error) *Error {
		return &Error{Kind: kind, Service: svc, Method: method, Path: path, Status: status, Detail: detail, Err: cause}
	}

	tok, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, 0, fail(ErrUnauthorized, 0, "", err)
	}
	if TokenExpired(tok, c.now()) {
		return nil, 0, fail(ErrUnauthorized, 0, "token expired, please log in again", nil)
	}

	var rdr io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, 0, fail(ErrTransport, 0, "", fmt.Errorf("encode request body: %w", err))
		}
		rdr = bytes.NewReader(buf)
	}

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(callCtx, method, c.base[svc]+path, rdr)
	if err != nil {
		return nil, 0, fail(ErrTransport, 0, "", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	otel.GetTextMapPropagator().Inject(callCtx, propagation.HeaderCarrier(req.Header))

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, c.transportFailure(ctx, callCtx, fail, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, resp.StatusCode, c.transportFailure(ctx, callCtx, fail, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail := parseDetail(data)
		return nil, resp.StatusCode, fail(classify(resp.StatusCode, detail), resp.StatusCode, detail, nil)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, resp.StatusCode, nil
	}
	if !json.Valid(data) {
		return nil, resp.StatusCode, fail(ErrServer, resp.StatusCode, "malformed response body", nil)
	}
	return json.RawMessage(data), resp.StatusCode, nil
}

// transportFailure tells a per-call timeout apart from caller cancellation
// and plain network errors.
func (c *Client) transportFailure(parent, callCtx context.Context, fail func(Kind, int, string, error) *Error, err error) *Error {
	switch {
	case errors.Is(callCtx.Err(), context.DeadlineExceeded) && parent.Err() == nil:
		return fail(ErrTimeout, 0, fmt.Sprintf("no response within %s", c.timeout), err)
	case errors.Is(parent.Err(), context.DeadlineExceeded):
		return fail(ErrTimeout, 0, "", parent.Err())
	case parent.Err() != nil:
		return fail(ErrTransport, 0, "", parent.Err())
	}
	return fail(ErrTransport, 0, "", err)
}

// call performs a request and decodes a 2xx body into T.
func call[T any](ctx context.Context, c *Client, svc Service, method, path string, body any) (T, error) {
	var out T
	raw, err := c.Request(ctx, svc, method, path, body)
	if err != nil {
		return out, err
	}
	if len(raw) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, &Error{Kind: ErrServer, Service: svc, Method: method, Path: path, Detail: "unexpected response shape", Err: err}
	}
	return out, nil
}
