package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"github.com/BruksfildServices01/service-scheduler/internal/audit"
	"github.com/BruksfildServices01/service-scheduler/internal/config"
	dbpkg "github.com/BruksfildServices01/service-scheduler/internal/db"
	"github.com/BruksfildServices01/service-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/service-scheduler/internal/lock"
	"github.com/BruksfildServices01/service-scheduler/internal/logger"
	"github.com/BruksfildServices01/service-scheduler/internal/notification"
	"github.com/BruksfildServices01/service-scheduler/internal/routes"
	"github.com/BruksfildServices01/service-scheduler/internal/timezone"
)

func main() {
	os.Exit(run())
}

// run owns every deferred cleanup, so main exits only after they ran.
func run() int {
	cfg := config.Load()
	log := logger.New("scheduler-api", cfg.LogLevel)

	db, err := dbpkg.NewDB(cfg)
	if err != nil {
		log.Error("database", "err", err)
		return 1
	}

	if err := dbpkg.EnsureAdmin(db, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Error("admin bootstrap", "err", err)
		return 1
	}

	locker, closeLocker, err := newLocker(cfg, log)
	if err != nil {
		log.Error("lock backend", "err", err)
		return 1
	}
	defer closeLocker()

	notifications := notification.NewGormStore(db)
	notifier := notification.NewDispatcher(notifications, log, 0)
	auditor := audit.NewDispatcher(audit.New(db), log)

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if err := routes.RegisterRoutes(r, routes.Deps{
		DB:           db,
		Config:       cfg,
		Logger:       log,
		Appointments: repository.NewAppointmentGormRepository(db),
		Schedule:     repository.NewScheduleGormRepository(db),
		Locker:       locker,
		Clock:        timezone.NewSystemClock(cfg.Timezone),
		Notifier:     notifier,
		Inbox:        notifications,
		Audit:        auditor,
	}); err != nil {
		log.Error("routes", "err", err)
		return 1
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("server running", "addr", cfg.Addr(), "timezone", cfg.Timezone, "slot_minutes", cfg.SlotMinutes)
	exitCode := 0
	if err := serve(ctx, srv, 10*time.Second); err != nil {
		log.Error("server failed", "err", err)
		exitCode = 1
	}

	notifier.Close()
	auditor.Close()
	log.Info("server stopped")

	return exitCode
}

// serve runs srv until ctx is done or it fails to listen, then shuts it down
// within grace. A clean shutdown returns nil.
func serve(ctx context.Context, srv *http.Server, grace time.Duration) error {
	serveErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	var failed error
	select {
	case <-ctx.Done():
	case failed = <-serveErr:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && failed == nil {
		return err
	}
	return failed
}

// newLocker picks Redis when REDIS_URL is set so several API instances share
// the per-(staff, date) scopes.
func newLocker(cfg *config.Config, log *slog.Logger) (lock.Locker, func(), error) {
	if cfg.RedisURL == "" {
		log.Info("scope locks in-process")
		return lock.NewLocal(), func() {}, nil
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, nil, err
	}
	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, nil, err
	}

	log.Info("scope locks in redis", "addr", opts.Addr)
	return lock.NewRedis(rdb, cfg.LockTTL, log), func() { _ = rdb.Close() }, nil
}
