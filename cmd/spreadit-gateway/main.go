// Command spreadit-gateway serves the enrollment and engagement gateway in
// front of the user, course, module and post services.
//
// @title       Spreadit Gateway API
// @version     1.0
// @description Enrollment and engagement gateway over the user, course, module and post services.
// @BasePath    /api/v1
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/tbourn/spreadit-gateway/internal/cache"
	"github.com/tbourn/spreadit-gateway/internal/config"
	"github.com/tbourn/spreadit-gateway/internal/domain"
	httpapi "github.com/tbourn/spreadit-gateway/internal/http"
	"github.com/tbourn/spreadit-gateway/internal/http/handlers"
	"github.com/tbourn/spreadit-gateway/internal/observability"
	"github.com/tbourn/spreadit-gateway/internal/repo"
	"github.com/tbourn/spreadit-gateway/internal/services"
	"github.com/tbourn/spreadit-gateway/internal/session"
	"github.com/tbourn/spreadit-gateway/internal/sysutil"
	"github.com/tbourn/spreadit-gateway/internal/upstream"
)

// version is stamped at build time with -ldflags "-X main.version=...".
var version = "dev"

// idempotencySweep is how often expired idempotency records are purged.
const idempotencySweep = 10 * time.Minute

func main() {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	cfg := config.MustLoad()
	sysutil.SetLogLevel(cfg.LogLevel)
	logger := sysutil.InitLogger(os.Stdout, cfg.LogPretty, cfg.OTEL.ServiceName)
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		log.Fatal().Err(err).Msg("otel setup failed")
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownOTel(sctx); err != nil {
			log.Warn().Err(err).Msg("otel shutdown")
		}
	}()

	db, err := repo.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open database")
	}
	if err := repo.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	client, err := upstream.New(upstream.BaseURLs{
		upstream.ServiceUser:   cfg.Upstream.UserURL,
		upstream.ServiceCourse: cfg.Upstream.CourseURL,
		upstream.ServiceModule: cfg.Upstream.ModuleURL,
		upstream.ServicePost:   cfg.Upstream.PostURL,
	}, upstream.WithTimeout(cfg.Upstream.Timeout), upstream.WithLogger(logger.With().Str("component", "upstream").Logger()))
	if err != nil {
		log.Fatal().Err(err).Msg("upstream client")
	}

	views, closeCache := openCache(ctx, cfg.Cache, logger)
	defer closeCache()

	svc := buildServices(client, views, cfg.Cache.TTL, db, logger)

	go sweepIdempotency(ctx, db)

	r := gin.New()
	httpapi.RegisterRoutes(r, httpapi.Deps{
		DB:       db,
		Services: svc.deps,
		Sessions: svc.sessions.Credentials,
	}, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("version", version).Msg("gateway listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("listen")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	sctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

type wiring struct {
	deps     handlers.Deps
	sessions *session.Registry
}

// buildServices wires the services over one client and one session
// registry. Logging out drops the user's cached views and remembered likes.
func buildServices(client *upstream.Client, views cache.Store[domain.Membership], ttl time.Duration, db *gorm.DB, logger zerolog.Logger) wiring {
	svcLog := logger.With().Str("component", "services").Logger()
	sessions := session.NewRegistry()
	identity := services.NewIdentityResolver(client, svcLog)
	enrollment := services.NewEnrollmentService(identity, views, ttl, db, repo.AuditRepo{}, svcLog)
	engagement := services.NewEngagementService(client, svcLog)

	sessions.OnLogout(func(id domain.RecordID) {
		enrollment.Forget(context.Background(), id)
		engagement.Forget(id)
	})

	return wiring{
		sessions: sessions,
		deps: handlers.Deps{
			Auth:       &services.AuthService{Client: client, Sessions: sessions, Log: svcLog},
			Enrollment: enrollment,
			Catalog:    &services.CatalogService{Client: client, Identity: identity, Enrollment: enrollment, Log: svcLog},
			Posts:      &services.PostService{Client: client, Sessions: sessions, Engagement: engagement, Log: svcLog},
			Engagement: engagement,
		},
	}
}

// openCache returns the membership view cache selected by cfg. A redis
// backend that cannot be reached falls back to memory.
func openCache(ctx context.Context, cfg config.CacheConfig, logger zerolog.Logger) (cache.Store[domain.Membership], func()) {
	if cfg.Backend == "redis" {
		rdb, err := cache.DialRedis(ctx, cfg.RedisAddr)
		if err == nil {
			log.Info().Str("addr", cfg.RedisAddr).Msg("membership cache: redis")
			return cache.NewRedis[domain.Membership](rdb, "spreadit:membership:", cfg.TTL, logger), func() { _ = rdb.Close() }
		}
		log.Warn().Err(err).Msg("redis unavailable, using in-memory cache")
	}
	return cache.NewMemory[domain.Membership](cfg.TTL), func() {}
}

func sweepIdempotency(ctx context.Context, db *gorm.DB) {
	t := time.NewTicker(idempotencySweep)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			n, err := repo.PurgeExpiredIdempotency(ctx, db, now.UTC())
			if err != nil {
				log.Warn().Err(err).Msg("idempotency purge failed")
				continue
			}
			if n > 0 {
				log.Debug().Int64("removed", n).Msg("idempotency purge")
			}
		}
	}
}
