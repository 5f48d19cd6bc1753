package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/adamspd/quizdesk/config"
	"github.com/adamspd/quizdesk/db"
	"github.com/adamspd/quizdesk/handlers"
	"github.com/adamspd/quizdesk/internal/server"
	"github.com/adamspd/quizdesk/jobs"
	"github.com/adamspd/quizdesk/mailer"
	"github.com/adamspd/quizdesk/utils"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "employeeapi: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(config.EmployeeDefaults)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := utils.InitLogger(cfg.LogMode); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer utils.SyncLogger()

	utils.LogStartup("Employee API starting...")
	utils.LogStartup("Using database path: %s", cfg.DBPath)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := db.InitDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initialize database: %w", err)
	}
	defer database.Close()

	emailService := mailer.NewEmailService(cfg.Email)
	if !cfg.Email.Configured() {
		utils.LogStartup("SMTP not configured, welcome emails will only be logged")
	}

	var notifier handlers.Notifier
	var workers []server.Worker

	if cfg.RedisURL != "" {
		jm, err := jobs.NewJobManager(cfg.RedisURL, emailService)
		if err != nil {
			return fmt.Errorf("initialize job queue: %w", err)
		}
		jm.RegisterHandlers(emailService)
		notifier = jm
		workers = append(workers, jm.Run)
		utils.LogStartup("Job queue enabled")
	} else {
		inline := jobs.NewInlineNotifier(emailService, emailService)
		defer inline.Wait()
		notifier = inline
		utils.LogStartup("REDIS_URL not set, delivering welcome emails inline")
	}

	srv := server.New(cfg, handlers.NewEmployeeRouter(database, notifier, cfg.CORSOrigin))
	if err := server.Run(ctx, srv, workers...); err != nil {
		return err
	}
	utils.LogShutdown("Employee API stopped")
	return nil
}
