package inmemdb

import (
	"sync"

	"github.com/trezcool/bellplus/core/schedule"
)

type (
	DB struct {
		schedule *scheduleTable
	}

	scheduleTable struct {
		table map[string]*schedule.Schedule
		order []string // insertion order
		mutex sync.RWMutex
	}
)

// Open creates an in-memory DB holding the given schedules (the built-in ones if none).
func Open(scheds ...schedule.Schedule) *DB {
	if len(scheds) == 0 {
		scheds = schedule.Builtin()
	}
	db := &DB{
		schedule: &scheduleTable{table: make(map[string]*schedule.Schedule, len(scheds))},
	}
	for i := range scheds {
		db.schedule.put(scheds[i])
	}
	return db
}

// put inserts or replaces s, the caller holds the write lock (or owns the table).
func (t *scheduleTable) put(s schedule.Schedule) {
	if _, ok := t.table[s.Name]; !ok {
		t.order = append(t.order, s.Name)
	}
	s.Periods = append([]schedule.Period(nil), s.Periods...)
	t.table[s.Name] = &s
}
