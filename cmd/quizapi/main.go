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
	"github.com/adamspd/quizdesk/seed"
	"github.com/adamspd/quizdesk/utils"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "quizapi: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(config.QuizDefaults)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := utils.InitLogger(cfg.LogMode); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer utils.SyncLogger()

	utils.LogStartup("Quiz API starting...")
	utils.LogStartup("Using database path: %s", cfg.DBPath)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := db.InitDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initialize database: %w", err)
	}
	defer database.Close()

	if err := seedIfEmpty(ctx, database, cfg.SeedFile); err != nil {
		return err
	}

	srv := server.New(cfg, handlers.NewQuizRouter(database, cfg.CORSOrigin))
	if err := server.Run(ctx, srv); err != nil {
		return err
	}
	utils.LogShutdown("Quiz API stopped")
	return nil
}

// seedIfEmpty loads the seed file (or the built-in quiz) into a store that
// has no quizzes yet.
func seedIfEmpty(ctx context.Context, database *db.DB, path string) error {
	quizzes, err := database.ListQuizzes(ctx)
	if err != nil {
		return fmt.Errorf("check quizzes: %w", err)
	}
	if len(quizzes) > 0 {
		utils.LogStartup("Store holds %d quizzes, skipping seed", len(quizzes))
		return nil
	}

	f, err := seed.Load(path)
	if err != nil {
		return fmt.Errorf("load seed: %w", err)
	}
	if _, err := seed.ApplyQuizzes(ctx, database, f, false); err != nil {
		return fmt.Errorf("apply seed: %w", err)
	}
	return nil
}
