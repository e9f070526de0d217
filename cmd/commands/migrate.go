package commands

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/ardanlabs/conf/v2"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v4/stdlib"
)

func Migrate() error {
	cfg := struct {
		Postgres PostgresConfig
		Source   string `conf:"default:file://migrations"`
		Args     conf.Args
	}{}
	if done, err := parseConfig(&cfg); done || err != nil {
		return err
	}

	db, err := sql.Open("pgx", cfg.Postgres.DBConfig().URL())
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer db.Close()
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("creating migration driver: %w", err)
	}
	m, err := migrate.NewWithDatabaseInstance(cfg.Source, "postgres", driver)
	if err != nil {
		return err
	}
	defer m.Close()

	err = runMigration(m, cfg.Args)
	if errors.Is(err, migrate.ErrNoChange) {
		fmt.Println("no change")
		return nil
	}
	return err
}

func runMigration(m *migrate.Migrate, args conf.Args) error {
	subcmd := args.Num(0)

	// up/down with a number of steps
	if len(args) > 1 && (subcmd == "up" || subcmd == "down") {
		steps, err := strconv.Atoi(args.Num(1))
		if err != nil {
			return fmt.Errorf("invalid steps parameter: %s", args.Num(1))
		}
		if subcmd == "down" {
			steps = -steps
		}
		return m.Steps(steps)
	}

	switch subcmd {
	case "up":
		return m.Up()
	case "down":
		return m.Down()
	case "force":
		val, err := strconv.Atoi(args.Num(1))
		if err != nil {
			return fmt.Errorf("invalid or missing version parameter: %s", args.Num(1))
		}
		return m.Force(val)
	case "version":
		ver, dirty, err := m.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			fmt.Println("no migrations applied")
			return nil
		}
		if err == nil {
			if dirty {
				fmt.Printf("%d (dirty)\n", ver)
			} else {
				fmt.Println(ver)
			}
		}
		return err
	case "drop":
		return m.Drop()
	default:
		return errors.New("unknown or missing migrate command [up|down|force|version|drop]")
	}
}
