package inmemdb

import (
	"context"

	"github.com/trezcool/bellplus/core/schedule"
)

type ScheduleRepository struct {
	db *scheduleTable
}

var _ schedule.Repository = (*ScheduleRepository)(nil)

func NewScheduleRepository(db *DB) *ScheduleRepository {
	return &ScheduleRepository{db: db.schedule}
}

func (repo *ScheduleRepository) QueryAll(_ context.Context) ([]schedule.Schedule, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	scheds := make([]schedule.Schedule, 0, len(repo.db.order))
	for _, name := range repo.db.order {
		scheds = append(scheds, clone(*repo.db.table[name]))
	}
	return scheds, nil
}

func (repo *ScheduleRepository) Get(_ context.Context, name string) (schedule.Schedule, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if sched, ok := repo.db.table[name]; ok {
		return clone(*sched), nil
	}
	return schedule.Schedule{}, schedule.ErrNotFound
}

// Save inserts or replaces sched.
func (repo *ScheduleRepository) Save(_ context.Context, sched schedule.Schedule) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()
	repo.db.put(sched)
	return nil
}

// callers must not be able to mutate the stored periods
func clone(s schedule.Schedule) schedule.Schedule {
	s.Periods = append([]schedule.Period(nil), s.Periods...)
	return s
}
