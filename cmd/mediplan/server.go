package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/terraincognita07/mediplan/internal/api"
	"github.com/terraincognita07/mediplan/internal/db"
	"github.com/terraincognita07/mediplan/internal/i18n"
	"github.com/terraincognita07/mediplan/internal/metrics"
	"github.com/terraincognita07/mediplan/internal/services"
	"golang.org/x/sync/errgroup"
)

const (
	shutdownTimeout = 10 * time.Second
	eventsPath      = "/api/events"
)

func runServer(ctx context.Context, config serverConfig) error {
	database, err := db.OpenSQLite(config.DBPath)
	if err != nil {
		return fmt.Errorf("database init failed: %w", err)
	}
	defer db.Close(database)

	i18nManager, err := i18n.NewManager(config.DefaultLanguage, i18n.Locales())
	if err != nil {
		return fmt.Errorf("i18n init failed: %w", err)
	}

	repos := db.NewRepositories(database)
	metricSet := metrics.New()
	feed := services.NewMedicationFeed()
	resetTokens := services.NewPasswordResetTokens([]byte(config.SecretKey), config.ResetTokenTTL)

	handler, err := api.NewHandler(api.Dependencies{
		Auth:         services.NewAuthService(repos.Users, resetTokens, config.Location),
		Medications:  services.NewMedicationService(repos.Medications, repos.Events, feed, config.Location),
		Settings:     services.NewSettingsService(repos.Users),
		Feed:         feed,
		I18n:         i18nManager,
		Metrics:      metricSet,
		SecretKey:    config.SecretKey,
		Location:     config.Location,
		CookieSecure: config.CookieSecure,
	})
	if err != nil {
		return fmt.Errorf("handler init failed: %w", err)
	}
	defer handler.Close()

	reminders := services.NewReminderService(repos.Users, repos.Medications, services.ReminderConfig{
		BotToken: config.TelegramBotToken,
		ChatID:   config.TelegramChatID,
		Interval: config.ReminderInterval,
	}, config.Location).WithRecorder(metricSet)
	if !reminders.Enabled() {
		log.Printf("telegram reminders disabled: TELEGRAM_BOT_TOKEN and TELEGRAM_CHAT_ID are not set")
	}

	app := newApp(handler, config.CookieSecure)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		log.Printf("MediPlan listening on http://0.0.0.0:%s (db: %s, tz: %s)", config.Port, config.DBPath, config.Location.String())
		if err := app.Listen(":" + config.Port); err != nil {
			return fmt.Errorf("server exited: %w", err)
		}
		return nil
	})
	group.Go(func() error {
		return reminders.Run(groupCtx)
	})
	group.Go(func() error {
		<-groupCtx.Done()
		handler.Close()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		return nil
	})

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func newApp(handler *api.Handler, cookieSecure bool) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "MediPlan",
		DisableStartupMessage: true,
		ErrorHandler:          handler.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(logger.New(logger.Config{
		Format: "${time} ${respHeader:X-Request-ID} ${status} ${method} ${path} ${latency}\n",
	}))
	app.Use(compress.New(compress.Config{
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == eventsPath
		},
	}))
	app.Use(handler.LanguageMiddleware)
	app.Use(handler.MetricsMiddleware)
	app.Use(csrf.New(csrfMiddlewareConfig(cookieSecure)))

	api.RegisterRoutes(app, handler)
	app.Use(handler.NotFound)
	return app
}

// csrfMiddlewareConfig protects cookie sessions with a double-submit token: the
// client echoes the mediplan_csrf cookie in the X-CSRF-Token header. Bearer and
// anonymous requests carry no ambient credential and are skipped.
func csrfMiddlewareConfig(cookieSecure bool) csrf.Config {
	return csrf.Config{
		Next: func(c *fiber.Ctx) bool {
			return !api.CookieSessionRequest(c)
		},
		KeyLookup:      "header:X-CSRF-Token",
		CookieName:     "mediplan_csrf",
		CookieSameSite: "Lax",
		CookieHTTPOnly: false,
		CookieSecure:   cookieSecure,
		Expiration:     12 * time.Hour,
		ContextKey:     "csrf",
	}
}
