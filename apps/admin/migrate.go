package main

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/trezcool/bellplus/core"
	"github.com/trezcool/bellplus/core/schedule"
	"github.com/trezcool/bellplus/storage/database"
	sqlxrepos "github.com/trezcool/bellplus/storage/database/sqlx"
	yamlfile "github.com/trezcool/bellplus/storage/file/yaml"
)

type scheduleSaver interface {
	Save(ctx context.Context, sched schedule.Schedule) error
}

var (
	// mockable
	createDBFunc     = database.CreateIfNotExist
	openDBFunc       = database.Open
	migrateDBFunc    = database.Migrate
	loadScheduleFile = yamlfile.LoadFile
	newScheduleSaver = func(db *sqlx.DB) scheduleSaver { return sqlxrepos.NewScheduleRepository(db) }
	closeDBFunc      = func(db *sqlx.DB) error { return db.Close() }
)

// migrate creates the database if needed, then its tables.
func (cli *commandLine) migrate(ctx context.Context) error {
	db, err := cli.prepareDB(ctx)
	if err != nil {
		return err
	}
	if err = closeDBFunc(db); err != nil {
		return err
	}
	fmt.Fprintln(cli.out, "database is up to date")
	return nil
}

// seed stores schedules in the database, replacing the ones with the same names.
func (cli *commandLine) seed(ctx context.Context, file string) error {
	scheds := schedule.Builtin()
	if file != "" {
		var err error
		if scheds, err = loadScheduleFile(file); err != nil {
			return err
		}
	}
	for _, s := range scheds {
		if err := s.Validate(); err != nil {
			return core.NewValidationError(fmt.Errorf("schedule %q: %v", s.Name, err))
		}
	}

	db, err := cli.prepareDB(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = closeDBFunc(db) }()

	saver := newScheduleSaver(db)
	for _, s := range scheds {
		if err = saver.Save(ctx, s); err != nil {
			return err
		}
		fmt.Fprintf(cli.out, "saved %s (%d periods)\n", s.Name, len(s.Periods))
	}
	return nil
}

func (cli *commandLine) prepareDB(ctx context.Context) (*sqlx.DB, error) {
	if err := createDBFunc(ctx, cli.conf); err != nil {
		return nil, err
	}
	db, err := openDBFunc(ctx, cli.conf)
	if err != nil {
		return nil, err
	}
	if err = migrateDBFunc(ctx, db); err != nil {
		_ = closeDBFunc(db)
		return nil, err
	}
	return db, nil
}
