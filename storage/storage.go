// Package storage opens the schedule registry selected by the configuration.
package storage

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/bellplus/core"
	"github.com/trezcool/bellplus/core/schedule"
	"github.com/trezcool/bellplus/storage/database"
	inmemdb "github.com/trezcool/bellplus/storage/database/inmem"
	sqlxrepos "github.com/trezcool/bellplus/storage/database/sqlx"
	yamlfile "github.com/trezcool/bellplus/storage/file/yaml"
)

// OpenRepository returns the registry of conf.ScheduleSource and a func releasing it.
func OpenRepository(ctx context.Context, conf *core.Config) (schedule.Repository, func() error, error) {
	noop := func() error { return nil }

	switch conf.ScheduleSource {
	case core.SourceBuiltin, "":
		return inmemdb.NewScheduleRepository(inmemdb.Open()), noop, nil
	case core.SourceFile:
		scheds, err := yamlfile.LoadFile(conf.SchedulesFile)
		if err != nil {
			return nil, nil, errors.Wrap(err, "loading schedules file")
		}
		return inmemdb.NewScheduleRepository(inmemdb.Open(scheds...)), noop, nil
	case core.SourceDatabase:
		db, err := database.Open(ctx, conf)
		if err != nil {
			return nil, nil, errors.Wrap(err, "opening database")
		}
		return sqlxrepos.NewScheduleRepository(db), db.Close, nil
	}
	return nil, nil, errors.Errorf("unknown schedule source %q", conf.ScheduleSource)
}
