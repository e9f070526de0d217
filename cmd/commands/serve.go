package commands

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/nextgenmedprep/medprep-server/internal/application"
	"github.com/nextgenmedprep/medprep-server/internal/dispatch"
	"github.com/nextgenmedprep/medprep-server/internal/infrastructure/cache"
	"github.com/nextgenmedprep/medprep-server/internal/infrastructure/email"
	"github.com/nextgenmedprep/medprep-server/internal/infrastructure/payments"
	"github.com/nextgenmedprep/medprep-server/internal/infrastructure/postgres"
	"github.com/nextgenmedprep/medprep-server/internal/infrastructure/security"
	"github.com/nextgenmedprep/medprep-server/internal/notify"
	"github.com/nextgenmedprep/medprep-server/internal/server"
	"go.uber.org/zap"
)

func Serve() error {
	cfg := struct {
		App struct {
			Debug          bool          `conf:"default:false"`
			SiteURL        string        `conf:"default:https://nextgenmedprep.co.uk"`
			PreferencesURL string        `conf:"default:https://nextgenmedprep.co.uk/email-preferences"`
			Operators      []string      `conf:"default:info@nextgenmedprep.co.uk;admin@nextgenmedprep.co.uk"`
			BatchSize      int           `conf:"default:50"`
			AdminKey       string        `conf:"mask"`
			QueueSize      int           `conf:"default:100"`
			AccessCacheTTL time.Duration `conf:"default:5m"`
		}
		Web struct {
			ReadTimeout     time.Duration `conf:"default:15s"`
			WriteTimeout    time.Duration `conf:"default:120s"`
			ShutdownTimeout time.Duration `conf:"default:20s"`
			APIHost         string        `conf:"default:0.0.0.0:3000"`
			AllowOrigins    []string      `conf:"default:*"`
			BodyLimit       string        `conf:"default:12M"`
		}
		Postgres PostgresConfig
		Email    EmailConfig
		Storage  StorageConfig
		Stripe   struct {
			SecretKey     string `conf:"mask"`
			WebhookSecret string `conf:"mask"`
			Currency      string `conf:"default:gbp"`
			SuccessURL    string `conf:"default:https://nextgenmedprep.co.uk/personal-statement/success?session_id={CHECKOUT_SESSION_ID}"`
			CancelURL     string `conf:"default:https://nextgenmedprep.co.uk/personal-statement/cancelled"`
		}
		Auth struct {
			SecretKey       string        `conf:"default:secret-key,mask"`
			TokenExpiration time.Duration `conf:"default:720h"`
		}
	}{}
	if done, err := parseConfig(&cfg); done || err != nil {
		return err
	}
	log, err := startup(cfg.App.Debug, &cfg)
	if err != nil {
		return err
	}
	defer log.Sync()

	dbConn, err := openDB(cfg.Postgres)
	if err != nil {
		return err
	}
	defer dbConn.Close()

	emailClient, err := createEmailService(log, cfg.Email)
	if err != nil {
		return err
	}
	statementsStorage, err := openStorage(cfg.Storage, cfg.Storage.StatementsBucket)
	if err != nil {
		return err
	}

	subsRepo := postgres.NewSubscriptionsRepository(dbConn)
	bookingsRepo := postgres.NewBookingsRepository(dbConn)

	composer := email.NewComposer(cfg.App.SiteURL)
	notifications := email.NewNotificationsSender(emailClient, composer, cfg.App.Operators, email.DefaultSubjects)
	tasks := notify.NewQueue(log, cfg.App.QueueSize)
	tokens := security.NewTokenGenerator(cfg.Auth.SecretKey, "unsubscribe", cfg.Auth.TokenExpiration)
	subsCache := cache.NewSubscriptionsCache(cfg.App.AccessCacheTTL)
	defer subsCache.Close()

	resolver := application.NewRecipientResolver(subsRepo, bookingsRepo, cfg.App.Operators)
	emails := application.NewEmailsService(
		log,
		resolver,
		dispatch.NewDispatcher(log, cfg.App.BatchSize),
		emailClient,
		composer,
		subsRepo,
		postgres.NewEmailLogRepository(dbConn),
		cfg.App.PreferencesURL,
	)

	services := server.Services{
		Emails:        emails,
		Subscriptions: application.NewSubscriptionsService(log, subsRepo, subsCache, tasks, notifications, tokens, cfg.App.SiteURL),
		Joiners:       application.NewJoinersService(log, postgres.NewJoinersRepository(dbConn), tasks, notifications),
		Students:      application.NewStudentsService(postgres.NewStudentsRepository(dbConn)),
		Tasks:         tasks,
	}
	var checkout application.Checkout
	if cfg.Stripe.SecretKey != "" {
		stripe := payments.NewStripePayments(payments.Config{
			SecretKey:     cfg.Stripe.SecretKey,
			WebhookSecret: cfg.Stripe.WebhookSecret,
			Currency:      cfg.Stripe.Currency,
			SuccessURL:    cfg.Stripe.SuccessURL,
			CancelURL:     cfg.Stripe.CancelURL,
		})
		checkout = stripe
		services.Webhooks = stripe
	} else {
		log.Warnw("stripe is not configured, personal statements skip checkout")
	}
	services.Statements = application.NewStatementsService(
		log,
		postgres.NewStatementsRepository(dbConn),
		statementsStorage,
		checkout,
		tasks,
		notifications,
		cfg.Storage.SignedURLTTL,
	)

	if cfg.App.AdminKey == "" {
		log.Warnw("admin key is not configured, operator endpoints reject every request")
	}
	s := server.NewServer(log, server.Config{
		Debug:        cfg.App.Debug,
		SiteURL:      strings.TrimRight(cfg.App.SiteURL, "/"),
		AdminKey:     cfg.App.AdminKey,
		AllowOrigins: cfg.Web.AllowOrigins,
		BodyLimit:    cfg.Web.BodyLimit,
		ReadTimeout:  cfg.Web.ReadTimeout,
		WriteTimeout: cfg.Web.WriteTimeout,
	}, services)

	go func() {
		log.Infow("listening", "addr", cfg.Web.APIHost)
		if err := s.ListenAndServe(cfg.Web.APIHost); err != nil && err != http.ErrServerClosed {
			log.Fatalf("shutting down the server: %v", err)
		}
	}()
	waitForShutdown(log)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Web.ShutdownTimeout)
	defer cancel()
	return s.Shutdown(ctx)
}

// waitForShutdown blocks until an interrupt or termination signal arrives.
func waitForShutdown(log *zap.SugaredLogger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Infof("Received shutdown signal")
}
