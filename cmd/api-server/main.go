package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hackgods/hospital-appointments/internal/api"
	"github.com/hackgods/hospital-appointments/internal/appointment"
	"github.com/hackgods/hospital-appointments/internal/calendar"
	"github.com/hackgods/hospital-appointments/internal/config"
	"github.com/hackgods/hospital-appointments/internal/directory"
	"github.com/hackgods/hospital-appointments/internal/lock"
	"github.com/hackgods/hospital-appointments/internal/logging"
	"github.com/hackgods/hospital-appointments/internal/people"
	redisclient "github.com/hackgods/hospital-appointments/internal/redis"
	"github.com/hackgods/hospital-appointments/internal/session"
)

var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLogger := logging.New("dev", "info")
		bootLogger.Fatal().Err(err).Msg("config load error")
	}

	logger := logging.New(cfg.Env, cfg.LogLevel)
	logger.Info().
		Str("env", cfg.Env).
		Str("http_port", cfg.HTTPPort).
		Str("timezone", cfg.Location.String()).
		Str("session_backend", cfg.SessionBackend).
		Msg("api-server starting up")

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	rootCtx = logger.WithContext(rootCtx)

	clock := calendar.SystemClock(cfg.Location)
	store := directory.NewStore(clock)
	if cfg.SeedDemo {
		directory.SeedDemo(store)
		logger.Info().Int("people", len(store.People())).Msg("demo data loaded")
	}

	var (
		sessionStore session.Store
		rdb          *redis.Client
	)
	switch cfg.SessionBackend {
	case config.SessionBackendRedis:
		rdb, err = redisclient.NewRedisClient(rootCtx, redisclient.Options{
			Addr:     cfg.RedisAddr,
			Username: cfg.RedisUsername,
			Password: cfg.RedisPassword,
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("redis connection error")
		}
		defer func() {
			if err := rdb.Close(); err != nil {
				logger.Error().Err(err).Msg("error closing redis")
			}
		}()
		logger.Info().Str("addr", cfg.RedisAddr).Msg("connected to Redis")
		sessionStore = session.NewRedisStore(rdb)
	default:
		mem := session.NewMemoryStore(clock)
		go mem.RunSweeper(rootCtx, cfg.SweepInterval)
		sessionStore = mem
	}

	handler := api.NewRouter(api.RouterConfig{
		Appointments: appointment.NewService(store, lock.NewSlotLocker(), clock),
		People:       people.NewService(store, cfg.DefaultDoctorPassword),
		Directory:    store,
		Sessions:     session.NewManager(store, sessionStore, clock, cfg.SessionTTL),
		Clock:        clock,
		Logger:       logger,
		Redis:        rdb,
		Env:          cfg.Env,
		Version:      version,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("http server error")
			stop()
		}
	}()

	<-rootCtx.Done()
	logger.Info().Msg("shutting down api-server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
		return
	}
	logger.Info().Msg("api-server stopped")
}
