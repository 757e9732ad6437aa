package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/tbourn/spreadit-gateway/internal/services"
	"github.com/tbourn/spreadit-gateway/internal/upstream"
)

func Test_failErr_502_LogsUpstreamCause(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("X-Request-ID", "rid-502")
		c.Set("logger", &logger)
		c.Next()
	})
	r.GET("/boom", func(c *gin.Context) {
		failErr(c, &upstream.Error{Kind: upstream.ErrServer, Service: upstream.ServiceCourse, Method: "GET", Path: "/course", Status: 503})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	if w.Code != http.StatusBadGateway {
		t.Fatalf("status=%d", w.Code)
	}
	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("json: %v", err)
	}
	if resp.RequestID != "rid-502" || resp.Code != ErrCodeBadGateway || resp.Message != "upstream server error" {
		t.Fatalf("unexpected body: %+v", resp)
	}
	logs := buf.String()
	if !strings.Contains(logs, `"level":"error"`) || !strings.Contains(logs, "course GET /course") {
		t.Fatalf("expected error log with cause, got: %s", logs)
	}
}

func Test_Fail_4xx_NotLogged_And_SuccessHelpers(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("X-Request-ID", "rid-404")
		c.Set("logger", &logger)
		c.Next()
	})
	r.GET("/missing", func(c *gin.Context) { Fail(c, http.StatusNotFound, ErrCodeNotFound, "nope") })
	r.GET("/ok", func(c *gin.Context) { ok(c, http.StatusCreated, gin.H{"ok": true, "n": 1}) })
	r.DELETE("/gone", func(c *gin.Context) { noContent(c) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("status=%d", w.Code)
	}
	var er ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &er); err != nil {
		t.Fatalf("json 404: %v", err)
	}
	if er.RequestID != "rid-404" || er.Code != "not_found" || er.Message != "nope" {
		t.Fatalf("unexpected 404 body: %+v", er)
	}
	if buf.Len() != 0 {
		t.Fatalf("4xx must not be logged here: %s", buf.String())
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))
	if w.Code != http.StatusCreated || !strings.Contains(w.Body.String(), `"n":1`) {
		t.Fatalf("ok: %d %s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/gone", nil))
	if w.Code != http.StatusNoContent || w.Body.Len() != 0 {
		t.Fatalf("noContent: %d %q", w.Code, w.Body.String())
	}
}

func Test_classify(t *testing.T) {
	ue := func(k upstream.Kind, detail string) error {
		return &upstream.Error{Kind: k, Service: upstream.ServiceModule, Method: "POST", Path: "/module/1/add-user", Detail: detail}
	}
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{"validation", &services.ValidationError{Field: "content", Reason: "must not be empty"}, http.StatusBadRequest, ErrCodeBadRequest, "content: must not be empty"},
		{"no session", services.ErrNoSession, http.StatusUnauthorized, ErrCodeUnauthorized, "please log in"},
		{"forbidden", services.ErrForbidden, http.StatusForbidden, ErrCodeForbidden, "admin privileges required"},
		{"not owner", services.ErrNotOwner, http.StatusForbidden, ErrCodeForbidden, "only the author or an admin may do this"},
		{"conflict with detail", ue(upstream.ErrConflict, "User already enrolled in module"), http.StatusConflict, ErrCodeConflict, "User already enrolled in module"},
		{"not found", ue(upstream.ErrNotFound, ""), http.StatusNotFound, ErrCodeNotFound, "not found"},
		{"rejected", ue(upstream.ErrRejected, "bad email"), http.StatusBadRequest, ErrCodeBadRequest, "bad email"},
		{"unauthorized bare", ue(upstream.ErrUnauthorized, ""), http.StatusUnauthorized, ErrCodeUnauthorized, "please log in"},
		{"unauthorized detail", ue(upstream.ErrUnauthorized, "token expired, please log in again"), http.StatusUnauthorized, ErrCodeUnauthorized, "token expired, please log in again"},
		{"timeout", ue(upstream.ErrTimeout, ""), http.StatusGatewayTimeout, ErrCodeGatewayTimeout, "upstream service did not respond in time"},
		{"transport", ue(upstream.ErrTransport, ""), http.StatusBadGateway, ErrCodeBadGateway, "transport error"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, ErrCodeInternal, "internal server error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, code, msg := classify(tc.err)
			if status != tc.wantStatus || code != tc.wantCode {
				t.Fatalf("classify = %d %s, want %d %s", status, code, tc.wantStatus, tc.wantCode)
			}
			if tc.wantMsg != "" && msg != tc.wantMsg {
				t.Fatalf("message = %q, want %q", msg, tc.wantMsg)
			}
		})
	}
}
