package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/bellplus/core/schedule"
)

type (
	scheduleRow struct {
		Name        string `db:"name"`
		DisplayName string `db:"display_name"`
	}

	periodRow struct {
		ScheduleName   string      `db:"schedule_name"`
		Position       int         `db:"position"`
		Name           string      `db:"name"`
		StartTime      string      `db:"start_time"`
		EndTime        string      `db:"end_time"`
		Duration       null.String `db:"duration"`
		IsAnnouncement bool        `db:"is_announcement"`
	}
)

type ScheduleRepository struct {
	db *sqlx.DB
}

var _ schedule.Repository = (*ScheduleRepository)(nil) // interface compliance check

func NewScheduleRepository(db *sqlx.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

func (repo *ScheduleRepository) QueryAll(ctx context.Context) ([]schedule.Schedule, error) {
	var rows []scheduleRow
	if err := repo.db.SelectContext(ctx, &rows, `SELECT name, display_name FROM schedule ORDER BY name`); err != nil {
		return nil, errors.Wrap(err, "selecting schedules")
	}
	var periods []periodRow
	q := `SELECT schedule_name, position, name, start_time, end_time, duration, is_announcement
		FROM period ORDER BY schedule_name, position`
	if err := repo.db.SelectContext(ctx, &periods, q); err != nil {
		return nil, errors.Wrap(err, "selecting periods")
	}

	byName := make(map[string][]periodRow, len(rows))
	for _, p := range periods {
		byName[p.ScheduleName] = append(byName[p.ScheduleName], p)
	}
	scheds := make([]schedule.Schedule, 0, len(rows))
	for _, r := range rows {
		scheds = append(scheds, toSchedule(r, byName[r.Name]))
	}
	return scheds, nil
}

func (repo *ScheduleRepository) Get(ctx context.Context, name string) (schedule.Schedule, error) {
	var row scheduleRow
	if err := repo.db.GetContext(ctx, &row, `SELECT name, display_name FROM schedule WHERE name = $1`, name); err != nil {
		return schedule.Schedule{}, trapNoRowsErr(err, "getting schedule")
	}
	var periods []periodRow
	q := `SELECT schedule_name, position, name, start_time, end_time, duration, is_announcement
		FROM period WHERE schedule_name = $1 ORDER BY position`
	if err := repo.db.SelectContext(ctx, &periods, q, name); err != nil {
		return schedule.Schedule{}, errors.Wrap(err, "selecting periods")
	}
	return toSchedule(row, periods), nil
}

// Save inserts or replaces sched and all its periods, in one transaction.
func (repo *ScheduleRepository) Save(ctx context.Context, sched schedule.Schedule) (err error) {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "beginning transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	upsert := `INSERT INTO schedule (name, display_name, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (name) DO UPDATE SET display_name = EXCLUDED.display_name, updated_at = now()`
	if _, err = tx.ExecContext(ctx, upsert, sched.Name, sched.DisplayName); err != nil {
		return errors.Wrap(err, "upserting schedule")
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM period WHERE schedule_name = $1`, sched.Name); err != nil {
		return errors.Wrap(err, "deleting periods")
	}
	insert := `INSERT INTO period (schedule_name, position, name, start_time, end_time, duration, is_announcement)
		VALUES (:schedule_name, :position, :name, :start_time, :end_time, :duration, :is_announcement)`
	for i, p := range sched.Periods {
		row := periodRow{
			ScheduleName:   sched.Name,
			Position:       i,
			Name:           p.Name,
			StartTime:      p.StartTime,
			EndTime:        p.EndTime,
			Duration:       null.NewString(p.Duration, p.Duration != ""),
			IsAnnouncement: p.IsAnnouncement,
		}
		if _, err = tx.NamedExecContext(ctx, insert, row); err != nil {
			return errors.Wrapf(err, "inserting period %d", i)
		}
	}
	if err = tx.Commit(); err != nil {
		return errors.Wrap(err, "committing schedule")
	}
	return nil
}

func toSchedule(row scheduleRow, periods []periodRow) schedule.Schedule {
	sched := schedule.Schedule{
		Name:        row.Name,
		DisplayName: row.DisplayName,
		Periods:     make([]schedule.Period, 0, len(periods)),
	}
	for _, p := range periods {
		sched.Periods = append(sched.Periods, schedule.Period{
			Name:           p.Name,
			StartTime:      p.StartTime,
			EndTime:        p.EndTime,
			Duration:       p.Duration.String,
			IsAnnouncement: p.IsAnnouncement,
		})
	}
	return sched
}

// trapNoRowsErr maps psql "no rows" err to schedule.ErrNotFound
func trapNoRowsErr(err error, msg string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return schedule.ErrNotFound
	}
	return errors.Wrap(err, msg)
}
