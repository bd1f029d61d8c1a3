package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"devevent/config"
	_ "devevent/docs"
	"devevent/internal/adapters/email"
	deliveryhttp "devevent/internal/delivery/http"
	"devevent/internal/delivery/http/controllers"
	"devevent/internal/database"
	"devevent/internal/domain"
	"devevent/internal/repository/mongodb"
	"devevent/internal/repository/postgres"
	"devevent/internal/services"
	"devevent/internal/validation"
)

// @title DevEvent API
// @version 1.0
// @description Developer events and bookings.
// @BasePath /
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := config.NewLogger(cfg)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStore(ctx, cfg)
	if err != nil {
		logger.Error("open store", "driver", cfg.StoreDriver, "err", err)
		os.Exit(1)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := st.shutdown(closeCtx); err != nil {
			logger.Error("close store", "err", err)
		}
	}()

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.Email.Provider,
		FromAddress: cfg.Email.FromAddress,
		FromName:    cfg.Email.FromName,
		SES: email.SESConfig{
			Region:             cfg.AWS.Region,
			AccessKeyID:        cfg.AWS.AccessKeyID,
			SecretAccessKey:    cfg.AWS.SecretAccessKey,
			InsecureSkipVerify: cfg.AWS.InsecureSkipVerify,
		},
	}, logger)
	if err != nil {
		logger.Error("mailer", "err", err)
		os.Exit(1)
	}
	emailService := services.NewEmailService(mailer, email.NewTemplateRenderer(), logger)

	eventValidator := validation.NewEventValidator(st.events, validation.NewTimeTokenSource())
	bookingValidator := validation.NewBookingValidator(st.events)
	eventService := services.NewEventService(st.events, st.bookings, eventValidator, logger, cfg.ContextTimeout)
	bookingService := services.NewBookingService(st.events, st.bookings, bookingValidator, emailService, logger, cfg.ContextTimeout)

	mux := deliveryhttp.NewRouter(
		controllers.NewEventController(logger, eventService),
		controllers.NewBookingController(logger, bookingService),
	)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           deliveryhttp.NewHandler(logger, cfg.CORSAllowedOrigins, mux),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr, "store", cfg.StoreDriver, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "err", err)
	}
	logger.Info("server stopped")
}

// store bundles the repositories of the configured driver with the
// connection manager that backs them.
type store struct {
	events   domain.EventRepository
	bookings domain.BookingRepository
	shutdown func(context.Context) error
}

func openStore(ctx context.Context, cfg *config.Config) (*store, error) {
	switch cfg.StoreDriver {
	case config.StoreMongo:
		mgr := database.NewMongoManager(database.MongoOptions{URI: cfg.MongoURI, Database: cfg.MongoDatabase})
		initCtx, cancel := context.WithTimeout(ctx, cfg.ContextTimeout)
		defer cancel()
		if err := mongodb.EnsureIndexes(initCtx, mgr); err != nil {
			return nil, err
		}
		return &store{
			events:   mongodb.NewEventRepository(mgr),
			bookings: mongodb.NewBookingRepository(mgr),
			shutdown: mgr.Close,
		}, nil
	default:
		mgr := database.NewPostgresManager(database.PostgresOptions{
			URL:             cfg.DBUrl,
			MaxOpenConns:    cfg.DBMaxOpenConns,
			MaxIdleConns:    cfg.DBMaxIdleConns,
			ConnMaxLifetime: cfg.DBConnLifetime,
		})
		initCtx, cancel := context.WithTimeout(ctx, cfg.ContextTimeout)
		defer cancel()
		if err := postgres.EnsureSchema(initCtx, mgr); err != nil {
			return nil, err
		}
		return &store{
			events:   postgres.NewEventRepository(mgr),
			bookings: postgres.NewBookingRepository(mgr),
			shutdown: mgr.Close,
		}, nil
	}
}
