package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/joho/godotenv"

	"github.com/blazetaller/taller-backend/pkg/config"
	"github.com/blazetaller/taller-backend/pkg/db"
	"github.com/blazetaller/taller-backend/pkg/logger"
	"github.com/blazetaller/taller-backend/pkg/migrate"
)

const serviceName = "taller-migrate"

type options struct {
	dir     string
	name    string
	version string
}

// offline commands only touch the migrations directory.
var offline = map[string]func(options) error{
	"create": func(o options) error {
		if o.name == "" {
			return errors.New("missing -name for create")
		}
		path, err := migrate.CreateSQLMigration(o.dir, o.name)
		if err != nil {
			return err
		}
		fmt.Println("created migration:", path)
		return nil
	},
	"validate": func(o options) error {
		if err := migrate.ValidateDir(o.dir); err != nil {
			return err
		}
		fmt.Println("migration validation passed")
		return nil
	},
}

type dbCommand func(ctx context.Context, sqlDB *sql.DB, dialect string, o options) error

func gooseCommand(command string) dbCommand {
	return func(ctx context.Context, sqlDB *sql.DB, dialect string, o options) error {
		return migrate.Run(ctx, sqlDB, dialect, o.dir, command)
	}
}

var online = map[string]dbCommand{
	"up":     gooseCommand("up"),
	"down":   gooseCommand("down"),
	"status": gooseCommand("status"),
	"version": func(ctx context.Context, sqlDB *sql.DB, dialect string, o options) error {
		if o.version == "" {
			return errors.New("missing -version for version")
		}
		return migrate.MigrateToVersion(ctx, sqlDB, dialect, o.dir, o.version)
	},
}

func commandNames() string {
	names := make([]string, 0, len(offline)+len(online)+1)
	for name := range offline {
		names = append(names, name)
	}
	for name := range online {
		names = append(names, name)
	}
	names = append(names, "seed-groups")
	sort.Strings(names)
	return strings.Join(names, "|")
}

func main() {
	_ = godotenv.Load()

	cmd := flag.String("cmd", "up", "migration command: "+commandNames())
	var opts options
	flag.StringVar(&opts.dir, "dir", migrate.DefaultDir, "goose migrations directory")
	flag.StringVar(&opts.name, "name", "", "migration name for -cmd=create")
	flag.StringVar(&opts.version, "version", "", "target version (YYYYMMDDHHMMSS) for -cmd=version")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logger.New(logger.Options{ServiceName: serviceName}).Error(context.Background(), "load config", err)
		os.Exit(1)
	}
	logg := logger.New(logger.Options{
		ServiceName: serviceName,
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env": cfg.App.Env,
		"cmd": *cmd,
		"dir": opts.dir,
	})

	if err := run(ctx, cfg, logg, *cmd, opts); err != nil {
		logg.Error(ctx, "migrate command failed", err)
		os.Exit(1)
	}
	logg.Info(ctx, "migrate command finished")
}

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger, cmd string, opts options) error {
	if fn, ok := offline[cmd]; ok {
		return fn(opts)
	}
	dbCmd, ok := online[cmd]
	if !ok && cmd != "seed-groups" {
		return fmt.Errorf("unknown -cmd %q (want %s)", cmd, commandNames())
	}

	client, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer client.Close()

	if cmd == "seed-groups" {
		return migrate.SeedGroups(ctx, client, cfg.Provisioning.ExtraGroups...)
	}

	sqlDB, err := client.DB().DB()
	if err != nil {
		return fmt.Errorf("sql handle: %w", err)
	}
	dialect := migrate.DialectFor(cfg.DB.Driver)
	logg.Info(logg.WithField(ctx, "dialect", dialect), "running migration command")
	return dbCmd(ctx, sqlDB, dialect, opts)
}
