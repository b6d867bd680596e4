package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"github.com/spf13/cobra"

	"counselling_backend/internals/configs"
	database "counselling_backend/internals/databases"
	eventService "counselling_backend/internals/features/events/service"
	notifService "counselling_backend/internals/features/home/notifications/service"
	"counselling_backend/internals/helpers/applog"
	"counselling_backend/internals/helpers/mailer"
	"counselling_backend/internals/middlewares"
	"counselling_backend/internals/middlewares/logger"
	routes "counselling_backend/internals/route"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API, notification workers and reminder cron",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func runServe() error {
	log := applog.WithComponent("main")
	cfg := configs.Cfg

	app := fiber.New(fiber.Config{
		JSONEncoder:             sonic.Marshal,
		JSONDecoder:             sonic.Unmarshal,
		DisableStartupMessage:   true,
		ProxyHeader:             fiber.HeaderXForwardedFor,
		EnableTrustedProxyCheck: true,
		TrustedProxies:          []string{"0.0.0.0/0"},
	})

	app.Use(middlewares.RecoveryMiddleware())
	app.Use(logger.RequestID())
	app.Use(logger.LoggerMiddleware())
	app.Use(compress.New(compress.Config{Level: compress.LevelDefault}))
	app.Use(etag.New())
	app.Use(middlewares.CorsMiddleware(cfg.CorsOrigins))
	app.Use(middlewares.GlobalRateLimiter())

	// HTTP timeout guard, matches statement_timeout on the DB side
	app.Use(func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	})

	database.ConnectDB()
	database.TunePool()
	database.WarmUpQueries()

	// notification workers outlive requests; they stop on Close
	mail := mailer.New(mailer.Config{
		Host:     cfg.MailerHost,
		Port:     cfg.MailerPort,
		Username: cfg.MailerEmail,
		Password: cfg.MailerPassword,
		Disabled: cfg.MailerDisabled,
	})
	dispatcher := notifService.NewDispatcher(database.DB, mail, cfg.NotifyBuffer, cfg.NotifyWorkers)
	dispatcher.Start(context.Background())

	reminders, err := eventService.NewReminderJob(database.DB, dispatcher).Schedule(cfg.ReminderCron)
	if err != nil {
		return err
	}
	reminders.Start()

	routes.BaseRoutes(app, database.DB)
	routes.SetupRoutes(app, database.DB, routes.Deps{
		Publisher: dispatcher,
		Secret:    configs.JWTSecret,
		SlackDays: cfg.AvailabilitySlackDays,
	})

	app.Server().ReadTimeout = 15 * time.Second
	app.Server().WriteTimeout = 30 * time.Second
	app.Server().IdleTimeout = 90 * time.Second

	listenErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Msg("listening")
		listenErr <- app.Listen("0.0.0.0:" + cfg.Port)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-listenErr:
		if err != nil {
			log.Error().Err(err).Msg("server error")
		}
	}

	// graceful shutdown: stop intake, finish the cron run, drain notifications, close the pool
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Warn().Err(err).Msg("http shutdown")
	}
	<-reminders.Stop().Done()
	dispatcher.Close()

	if sqlDB, err := database.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info().Msg("stopped")
	return nil
}

func requireDB() error {
	if configs.GetEnv("DB_HOST") == "" {
		return fmt.Errorf("DB_HOST is not set")
	}
	return nil
}
