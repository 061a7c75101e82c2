// Command server wires the compliance engine's services behind HTTP and runs
// the reminder worker. Business logic lives in the internal packages; main
// only assembles and supervises.
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

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"lobbyreg/internal/enforcement"
	enforcementhandler "lobbyreg/internal/enforcement/handler"
	"lobbyreg/internal/exemption"
	exemptionhandler "lobbyreg/internal/exemption/handler"
	"lobbyreg/internal/hours"
	hourshandler "lobbyreg/internal/hours/handler"
	"lobbyreg/internal/platform/config"
	"lobbyreg/internal/platform/httpserver"
	"lobbyreg/internal/platform/logger"
	"lobbyreg/internal/platform/metrics"
	"lobbyreg/internal/platform/middleware"
	"lobbyreg/internal/platform/postgres"
	platformredis "lobbyreg/internal/platform/redis"
	"lobbyreg/internal/reminder"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New()

	if err := run(cfg, log); err != nil {
		log.Error("server exited", "error", err.Error())
		os.Exit(1)
	}
}

func run(cfg config.Server, log *slog.Logger) error {
	m := metrics.New()

	db, err := postgres.Open(cfg.PostgresURL)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	redisClient, err := platformredis.New(cfg.RedisURL)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	// Store selection: postgres when configured, in-memory otherwise.
	var hoursStore hours.Store
	var violationStore enforcement.ViolationStore
	var appealStore enforcement.AppealStore
	var tx enforcement.TxRunner
	if db != nil {
		hoursStore = hours.NewPostgres(db)
		violationStore = enforcement.NewPostgresViolationStore(db)
		appealStore = enforcement.NewPostgresAppealStore(db)
		tx = enforcement.NewPostgresTx(db)
	} else {
		log.Warn("postgres not configured, using in-memory stores")
		hoursStore = hours.NewInMemoryStore()
		mv := enforcement.NewInMemoryViolationStore()
		ma := enforcement.NewInMemoryAppealStore()
		violationStore, appealStore = mv, ma
		tx = enforcement.NewInMemoryTx(mv, ma)
	}

	var notificationLog reminder.NotificationLog
	if redisClient != nil {
		notificationLog = reminder.NewRedisNotificationLog(redisClient)
	} else {
		log.Warn("redis not configured, using in-memory notification log")
		notificationLog = reminder.NewInMemoryNotificationLog()
	}

	exemptionSvc := exemption.New(log)
	hoursSvc, err := hours.New(hoursStore, hours.WithLogger(log), hours.WithMetrics(m))
	if err != nil {
		return err
	}
	enforcementSvc, err := enforcement.New(violationStore, appealStore, tx,
		enforcement.WithLogger(log), enforcement.WithMetrics(m))
	if err != nil {
		return err
	}
	reminderSvc, err := reminder.New(notificationLog, reminder.SlogNotifier{Logger: log},
		[]reminder.DeadlineSource{
			reminder.FilingSource{},
			reminder.RegistrationSource{Hours: hoursSvc},
			reminder.AppealSource{Enforcement: enforcementSvc},
		},
		reminder.WithLogger(log), reminder.WithMetrics(m))
	if err != nil {
		return err
	}

	r := chi.NewRouter()
	r.Use(middleware.Recovery(log))
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)
	r.Use(middleware.Actor)
	r.Use(middleware.Logger(log))
	r.Use(middleware.Timeout(30 * time.Second))

	exemptionhandler.New(exemptionSvc, log).Register(r)
	hourshandler.New(hoursSvc, log).Register(r)
	enforcementhandler.New(enforcementSvc, log).Register(r)

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		if db != nil {
			if err := db.PingContext(req.Context()); err != nil {
				http.Error(w, "postgres unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		if redisClient != nil {
			if err := redisClient.Health(req.Context()); err != nil {
				http.Error(w, "redis unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
	})

	srv := httpserver.New(cfg.Addr, r)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("starting compliance server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		log.Info("starting reminder worker", "interval", cfg.ReminderInterval.String())
		if err := reminderSvc.Run(gctx, cfg.ReminderInterval); !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
