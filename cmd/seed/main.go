package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/adamspd/quizdesk/config"
	"github.com/adamspd/quizdesk/db"
	"github.com/adamspd/quizdesk/seed"
	"github.com/adamspd/quizdesk/utils"
)

func main() {
	app := flag.String("app", "quiz", "which store to seed: quiz or employees")
	file := flag.String("file", "", "YAML seed file (default: built-in sample data)")
	reset := flag.Bool("reset", false, "drop existing quizzes before seeding (quiz only)")
	flag.Parse()

	if err := run(*app, *file, *reset); err != nil {
		fmt.Fprintf(os.Stderr, "seed: %v\n", err)
		os.Exit(1)
	}
}

func run(app, file string, reset bool) error {
	var defaults config.Defaults
	switch app {
	case "quiz":
		defaults = config.QuizDefaults
	case "employees":
		defaults = config.EmployeeDefaults
	default:
		return fmt.Errorf("unknown app %q (want quiz or employees)", app)
	}

	cfg, err := config.Load(defaults)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := utils.InitLogger(cfg.LogMode); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer utils.SyncLogger()

	if file == "" {
		file = cfg.SeedFile
	}
	f, err := seed.Load(file)
	if err != nil {
		return fmt.Errorf("load seed: %w", err)
	}

	database, err := db.InitDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initialize database: %w", err)
	}
	defer database.Close()

	ctx := context.Background()
	switch app {
	case "quiz":
		quizzes, err := seed.ApplyQuizzes(ctx, database, f, reset)
		if err != nil {
			return err
		}
		fmt.Printf("Seeded %d quizzes into %s\n", len(quizzes), cfg.DBPath)
	case "employees":
		n, err := seed.ApplyEmployees(ctx, database, f)
		if err != nil {
			return err
		}
		fmt.Printf("Seeded %d employees into %s\n", n, cfg.DBPath)
	}
	return nil
}
