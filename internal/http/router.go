// Package httpapi wires the HTTP transport (Gin) to the gateway services,
// middleware and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging/redaction, panic recovery, metrics,
// caller identity, idempotent replay, rate limiting, CORS and security
// headers.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/tbourn/spreadit-gateway/internal/config"
	_ "github.com/tbourn/spreadit-gateway/internal/docs"
	"github.com/tbourn/spreadit-gateway/internal/domain"
	"github.com/tbourn/spreadit-gateway/internal/http/handlers"
	"github.com/tbourn/spreadit-gateway/internal/http/middleware"
	"github.com/tbourn/spreadit-gateway/internal/repo"
)

// maxBodyBytes caps every request body.
const maxBodyBytes = 1 << 20

// Deps is what RegisterRoutes needs besides the configuration.
type Deps struct {
	// DB holds the idempotency records.
	DB *gorm.DB
	// Services backs the API handlers.
	Services handlers.Deps
	// Sessions checks callers against the session registry.
	Sessions middleware.SessionLookup
}

// RegisterRoutes attaches all middleware and HTTP endpoints to r and mounts
// the versioned API under cfg.APIBasePath.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. RedactingLogger: structured logs with PII scrubbing
//  4. Recovery: capture panics after logger
//  5. Body size limit, gzip
//  6. Metrics
//  7. Identify: bearer token and X-User-ID
//  8. Idempotency (before the rate limiter so replays skip it)
//  9. Rate limiter (per caller/IP)
//  10. CORS and security headers
func RegisterRoutes(r *gin.Engine, d Deps, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))
	r.Use(middleware.RequestID())
	r.Use(middleware.RedactingLogger(middleware.RedactOptions{
		MaskHeaders: []string{"X-API-Key"},
	}))
	r.Use(middleware.Recovery())
	r.Use(limitBody(maxBodyBytes))
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))

	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.Use(middleware.Identify(middleware.AuthOptions{Sessions: d.Sessions}))

	r.Use(middleware.Idempotency(
		middleware.IdempotencyOptions{MaxLen: 200},
		func(ctx context.Context, userID, scope, key string, now time.Time) (*domain.Idempotency, error) {
			rec, err := repo.GetIdempotency(ctx, d.DB, userID, scope, key, now)
			if errors.Is(err, repo.ErrNotFound) {
				return nil, nil
			}
			return rec, err
		},
		func(ctx context.Context, userID, scope, key string, status int, body []byte) error {
			_, err := repo.CreateIdempotency(ctx, d.DB, userID, scope, key, status, body, cfg.IdempotencyTTL)
			return err
		},
	))

	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByCallerOrIP())
	r.Use(rl.Handler())

	allowHeaders := []string{
		"Origin", "Content-Type", "Accept", "Authorization",
		middleware.HeaderUserID, middleware.HeaderIdempotencyKey,
	}
	exposeHeaders := []string{"X-Request-ID", "Content-Length", middleware.HeaderIdempotentReplay}
	if len(cfg.CORS.AllowedOrigins) == 0 {
		// ACAO: * even without an Origin header (simple health checks).
		r.Use(func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     allowHeaders,
			ExposeHeaders:    exposeHeaders,
			AllowCredentials: false, // must remain false with AllowAllOrigins
			MaxAge:           12 * time.Hour,
		}))
	} else {
		allowed := make(map[string]struct{}, len(cfg.CORS.AllowedOrigins))
		for _, o := range cfg.CORS.AllowedOrigins {
			allowed[o] = struct{}{}
		}
		r.Use(func(c *gin.Context) {
			if origin := c.GetHeader("Origin"); origin != "" {
				if _, ok := allowed[origin]; ok {
					h := c.Writer.Header()
					h.Set("Access-Control-Allow-Origin", origin)
					h.Add("Vary", "Origin")
				}
			}
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     allowHeaders,
			ExposeHeaders:    exposeHeaders,
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	// HSTS only when enabled and the request is HTTPS. Membership views are
	// per-caller, so nothing is cacheable by intermediaries.
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		NoStore:      true,
		EnablePolicy: true,
	}))

	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	h := handlers.New(d.Services)
	api := groupWithPrefix(r, cfg.APIBasePath)
	{
		// Anonymous
		api.POST("/auth/signup", h.SignUp)
		api.POST("/auth/login", h.Login)
	}

	// Everything else acts for a logged-in user: X-User-ID plus the bearer
	// token their session was opened with.
	authed := api.Group("", middleware.RequireSession())
	{
		// Session
		authed.POST("/auth/logout", h.Logout)
		authed.GET("/me/session", h.Session)

		// Membership views
		authed.GET("/me/courses", h.MyCourses)
		authed.GET("/me/modules", h.MyModules)
		authed.GET("/me/posts", h.MyPosts)

		// Courses
		authed.GET("/courses", h.ListCourses)
		authed.POST("/courses", h.CreateCourse)
		authed.PATCH("/courses/:id", h.PatchCourse)
		authed.DELETE("/courses/:id", h.DeleteCourse)
		authed.POST("/courses/:id/enroll", h.EnrollCourse)
		authed.POST("/courses/:id/unenroll", h.UnenrollCourse)

		// Modules
		authed.GET("/modules", h.ListModules)
		authed.POST("/modules", h.CreateModule)
		authed.PATCH("/modules/:id", h.PatchModule)
		authed.DELETE("/modules/:id", h.DeleteModule)
		authed.POST("/modules/:id/enroll", h.EnrollModule)
		authed.POST("/modules/:id/unenroll", h.UnenrollModule)
		authed.GET("/modules/:id/posts", h.ModulePosts)

		// Posts and engagement
		authed.POST("/posts", h.CreatePost)
		authed.GET("/posts/:id", h.GetPost)
		authed.DELETE("/posts/:id", h.DeletePost)
		authed.GET("/posts/:id/likes", h.PostLikes)
		authed.POST("/posts/:id/like", h.ToggleLike)
		authed.GET("/posts/:id/comments", h.ListComments)
		authed.POST("/posts/:id/comments", h.AddComment)
		authed.DELETE("/comments/:id", h.DeleteComment)

		// Admin
		authed.GET("/admin/enrollment-stats", h.EnrollmentStats)
		authed.GET("/admin/enrollment-events", h.EnrollmentEvents)
	}
}

// limitBody caps the request body at maxBytes; reads past it fail.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
