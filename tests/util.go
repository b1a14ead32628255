package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/trezcool/bellplus/core"
	"github.com/trezcool/bellplus/core/schedule"
	"github.com/trezcool/bellplus/storage/database"
)

type scheduleSaver interface {
	Save(ctx context.Context, sched schedule.Schedule) error
}

// PrepareDB opens the TEST database, migrates it and empties it.
// The test is skipped when no database can be reached.
func PrepareDB(t *testing.T) *sqlx.DB {
	t.Helper()
	t.Setenv("ENV", "TEST")
	conf := core.NewConfig()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := database.CreateIfNotExist(ctx, conf); err != nil {
		t.Skipf("Skipping test: database unavailable: %v", err)
	}
	db, err := database.Open(ctx, conf)
	if err != nil {
		t.Skipf("Skipping test: database unavailable: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err = database.Migrate(ctx, db); err != nil {
		t.Fatalf("PrepareDB() failed: %v", err)
	}
	if _, err = db.ExecContext(ctx, "TRUNCATE schedule CASCADE"); err != nil {
		t.Fatalf("PrepareDB() failed: %v", err)
	}
	return db
}

// SaveSchedules stores scheds with repo, failing the test on error.
func SaveSchedules(t *testing.T, repo scheduleSaver, scheds ...schedule.Schedule) {
	t.Helper()
	for _, s := range scheds {
		if err := repo.Save(context.Background(), s); err != nil {
			t.Fatalf("SaveSchedules(%s) failed: %v", s.Name, err)
		}
	}
}
