package main

import (
	"database/sql"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/erp/ledger/internal/infrastructure/config"
	"github.com/erp/ledger/internal/infrastructure/logger"
	"github.com/erp/ledger/internal/infrastructure/migration"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

const defaultMigrationsDir = "migrations"

func main() {
	var (
		migrationsPath string
		logLevel       string
		confirm        bool
	)
	flag.StringVar(&migrationsPath, "path", "", "Migrations directory (default: schema compiled into the binary)")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.BoolVar(&confirm, "confirm", false, "Confirm a full rollback with down")
	flag.Usage = printUsage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}
	command := args[0]

	log, err := logger.New(logger.Config{Level: logLevel, Format: "console", Output: "stdout"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	// create and list work on files only
	switch command {
	case "create":
		if len(args) < 2 {
			log.Fatal("Migration name required. Usage: migrate create <name> [description]")
		}
		description := ""
		if len(args) > 2 {
			description = args[2]
		}
		mf, err := migration.CreateMigration(dirOrDefault(migrationsPath), args[1], description)
		if err != nil {
			log.Fatal("Failed to create migration", zap.Error(err))
		}
		log.Info("Migration created",
			zap.String("version", mf.Version),
			zap.String("up_file", mf.UpPath),
			zap.String("down_file", mf.DownPath),
		)
		return
	case "list":
		files, err := migration.ListMigrations(dirOrDefault(migrationsPath))
		if err != nil {
			log.Fatal("Failed to list migrations", zap.Error(err))
		}
		for _, f := range files {
			fmt.Println(f)
		}
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to open database", zap.Error(err))
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database", zap.Error(err))
	}

	m, err := migration.New(db, migrationsPath, log)
	if err != nil {
		log.Fatal("Failed to create migrator", zap.Error(err))
	}
	defer m.Close()

	switch command {
	case "up":
		err = m.Up()
	case "down":
		if !confirm {
			log.Fatal("down rolls back every migration. Re-run as: migrate -confirm down")
		}
		err = m.Down()
	case "step":
		n := intArg(log, args, "step count")
		err = m.Steps(n)
	case "goto":
		n := intArg(log, args, "version")
		if n < 0 {
			log.Fatal("Version must not be negative")
		}
		err = m.GoTo(uint(n))
	case "status":
		var status migration.Status
		if status, err = m.Status(); err == nil {
			out, _ := json.Marshal(status)
			fmt.Println(string(out))
		}
	case "force":
		err = m.Force(intArg(log, args, "version"))
	default:
		log.Error("Unknown command", zap.String("command", command))
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		log.Fatal("Migration command failed", zap.String("command", command), zap.Error(err))
	}
}

func dirOrDefault(path string) string {
	if path == "" {
		return defaultMigrationsDir
	}
	return path
}

func intArg(log *zap.Logger, args []string, name string) int {
	if len(args) < 2 {
		log.Fatal("Missing argument", zap.String("argument", name))
	}
	n, err := strconv.Atoi(args[1])
	if err != nil {
		log.Fatal("Invalid argument", zap.String("argument", name), zap.String("value", args[1]))
	}
	return n
}

func printUsage() {
	fmt.Println(`ERP ledger schema migrations

Usage:
  migrate [flags] <command> [arguments]

Commands:
  up                    Apply all pending migrations
  -confirm down         Roll back every migration
  step <n>              Apply n migrations (negative rolls back)
  goto <version>        Migrate up or down to a version
  status                Print the applied version and dirty flag as JSON
  force <version>       Record a version without running it (clears dirty)
  create <name> [desc]  Write the next up/down pair into the migrations directory
  list                  List migration files

Flags:
  -path string          Migrations directory (default: embedded schema; ./migrations for create/list)
  -log-level string     debug, info, warn, error (default: info)
  -confirm              Required by down

Connection settings come from config.toml, .env and ERP_DATABASE_* variables.`)
}
