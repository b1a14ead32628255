package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/jmoiron/sqlx"

	"github.com/trezcool/bellplus/core"
	"github.com/trezcool/bellplus/core/schedule"
	inmemdb "github.com/trezcool/bellplus/storage/database/inmem"
)

var loc, _ = time.LoadLocation("America/Los_Angeles")

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) After(d time.Duration) <-chan time.Time {
	c.mu.Lock()
	c.now = c.now.Add(d)
	now := c.now
	c.mu.Unlock()

	ch := make(chan time.Time, 1)
	ch <- now
	return ch
}

type fakeSaver struct {
	saved []string
}

func (s *fakeSaver) Save(_ context.Context, sched schedule.Schedule) error {
	s.saved = append(s.saved, sched.Name)
	return nil
}

func setup(t *testing.T, scheds ...schedule.Schedule) (*commandLine, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	repo := inmemdb.NewScheduleRepository(inmemdb.Open(scheds...))
	return &commandLine{
		conf:   &core.Config{ClockFormat: "12", DefaultAssemblyLetter: "B", Timezone: "America/Los_Angeles"},
		logger: core.NopLogger{},
		out:    &out,
		svc:    schedule.NewService(repo, loc, core.NopLogger{}, "B"),
	}, &out
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantValid  bool // want a *core.ValidationError
	wantOutput []string
}

func runCLITests(t *testing.T, tests []cliTest) {
	t.Helper()
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			cli, out := setup(t)
			err := cli.run(args)
			if tt.wantValid {
				if !core.IsValidation(err) {
					t.Errorf("cli.run() error = %v, want a validation error", err)
				}
			} else if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
				}
			} else if err != nil {
				t.Fatalf("cli.run() unexpected error = %v", err)
			}
			for _, want := range tt.wantOutput {
				if !strings.Contains(out.String(), want) {
					t.Errorf("output = %q; want it to contain %q", out.String(), want)
				}
			}
		})
	}
}

func Test_commandLine_help(t *testing.T) {
	runCLITests(t, []cliTest{
		{name: "no command", wantErr: errHelp, wantOutput: []string{"Usage:"}},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "show: no schedule", args: []string{"show"}, wantErr: errHelp},
		{name: "show: unknown flag", args: []string{"show", "-lol"}, wantErr: errHelp},
	})
}

func Test_commandLine_schedules(t *testing.T) {
	runCLITests(t, []cliTest{
		{name: "list", args: []string{"schedules"}, wantOutput: []string{"NAME", "monday", "minimumDay", "assembly"}},
		{
			name:       "show",
			args:       []string{"show", "-schedule", "monday"},
			wantOutput: []string{"Monday", "Period 1", "08:30", "13:28", "Period 3 *"},
		},
		{
			name:       "show assembly",
			args:       []string{"show", "-schedule", "assembly", "-assembly", "c"},
			wantOutput: []string{"Assembly", "Period 7"},
		},
		{name: "show unknown", args: []string{"show", "-schedule", "mondy"}, wantErr: schedule.ErrNotFound},
		{name: "show bad letter", args: []string{"show", "-schedule", "assembly", "-assembly", "Z"}, wantValid: true},
	})
}

func Test_commandLine_now(t *testing.T) {
	runCLITests(t, []cliTest{
		{
			name:       "in period",
			args:       []string{"now", "-schedule", "monday", "-at", "2024-01-15T08:45:00-08:00"},
			wantOutput: []string{"8:45 AM  Period 1 > Period 2  00:31:00 (32%)"},
		},
		{
			name:       "today",
			args:       []string{"now", "-at", "2024-01-20T10:00:00-08:00"}, // a saturday
			wantOutput: []string{"Weekend > Next School Day"},
		},
		{name: "bad time", args: []string{"now", "-at", "8:45"}, wantValid: true},
		{name: "bad letter", args: []string{"now", "-assembly", "Q"}, wantValid: true},
	})
}

func Test_commandLine_watch(t *testing.T) {
	origClock, origIsTerminal := clock, isTerminalFunc
	defer func() { clock, isTerminalFunc = origClock, origIsTerminal }()

	t.Run("lines", func(t *testing.T) {
		clock = &fakeClock{now: time.Date(2024, 1, 15, 8, 45, 0, 0, loc)}
		isTerminalFunc = func(_ io.Writer) bool { return false }

		cli, out := setup(t)
		if err := cli.run([]string{"admin", "watch", "-schedule", "monday", "-count", "3"}); err != nil {
			t.Fatalf("cli.run() error = %v", err)
		}
		lines := strings.Split(strings.TrimSpace(out.String()), "\n")
		want := []string{"00:31:00", "00:30:59", "00:30:58"}
		if len(lines) != len(want) {
			t.Fatalf("got %d lines (%q); want %d", len(lines), out.String(), len(want))
		}
		for i, w := range want {
			if !strings.Contains(lines[i], w) {
				t.Errorf("line %d = %q; want it to contain %q", i, lines[i], w)
			}
		}
	})

	t.Run("terminal", func(t *testing.T) {
		clock = &fakeClock{now: time.Date(2024, 1, 15, 8, 45, 0, 0, loc)}
		isTerminalFunc = func(_ io.Writer) bool { return true }

		cli, out := setup(t)
		if err := cli.run([]string{"admin", "watch", "-schedule", "monday", "-count", "2"}); err != nil {
			t.Fatalf("cli.run() error = %v", err)
		}
		if got := strings.Count(out.String(), "\r\033[K"); got != 2 {
			t.Errorf("redraws = %d; want 2", got)
		}
	})

	t.Run("unknown schedule", func(t *testing.T) {
		clock = &fakeClock{now: time.Date(2024, 1, 15, 8, 45, 0, 0, loc)}
		cli, _ := setup(t)
		err := cli.run([]string{"admin", "watch", "-schedule", "nope"})
		if !errors.Is(err, schedule.ErrNotFound) {
			t.Errorf("cli.run() error = %v; want %v", err, schedule.ErrNotFound)
		}
	})
}

func Test_commandLine_check(t *testing.T) {
	cli, out := setup(t)
	if err := cli.run([]string{"admin", "check"}); err != nil {
		t.Fatalf("cli.run() error = %v", err)
	}
	if !strings.Contains(out.String(), "all schedules are valid") {
		t.Errorf("output = %q", out.String())
	}

	broken := schedule.Schedule{
		Name:        "broken",
		DisplayName: "Broken",
		Periods: []schedule.Period{
			{Name: "Period 1", StartTime: "9:00", EndTime: "10:00"},
			{Name: "Period 2", StartTime: "9:30", EndTime: "lol"},
		},
	}
	cli, out = setup(t, broken)
	if err := cli.run([]string{"admin", "check"}); err != errInvalidSchedules {
		t.Fatalf("cli.run() error = %v; want %v", err, errInvalidSchedules)
	}
	if !strings.Contains(out.String(), "broken: periods[1].end_time") {
		t.Errorf("output = %q", out.String())
	}
}

func Test_commandLine_migrate(t *testing.T) {
	origCreate, origOpen, origMigrate, origClose := createDBFunc, openDBFunc, migrateDBFunc, closeDBFunc
	defer func() { createDBFunc, openDBFunc, migrateDBFunc, closeDBFunc = origCreate, origOpen, origMigrate, origClose }()

	var calls []string
	createDBFunc = func(context.Context, *core.Config) error { calls = append(calls, "create"); return nil }
	openDBFunc = func(context.Context, *core.Config) (*sqlx.DB, error) { calls = append(calls, "open"); return nil, nil }
	closeDBFunc = func(*sqlx.DB) error { calls = append(calls, "close"); return nil }
	errMigrate := errors.New("migration failed")

	t.Run("ok", func(t *testing.T) {
		calls = nil
		migrateDBFunc = func(context.Context, *sqlx.DB) error { calls = append(calls, "migrate"); return nil }
		cli, _ := setup(t)
		if err := cli.run([]string{"admin", "migrate"}); err != nil {
			t.Fatalf("cli.run() error = %v", err)
		}
		if got := strings.Join(calls, ","); got != "create,open,migrate,close" {
			t.Errorf("calls = %s", got)
		}
	})

	t.Run("failure", func(t *testing.T) {
		calls = nil
		migrateDBFunc = func(context.Context, *sqlx.DB) error { return errMigrate }
		cli, _ := setup(t)
		if err := cli.run([]string{"admin", "migrate"}); err != errMigrate {
			t.Fatalf("cli.run() error = %v; want %v", err, errMigrate)
		}
		if got := strings.Join(calls, ","); got != "create,open,close" {
			t.Errorf("calls = %s", got)
		}
	})
}

func Test_commandLine_seed(t *testing.T) {
	origCreate, origOpen, origMigrate, origClose := createDBFunc, openDBFunc, migrateDBFunc, closeDBFunc
	origSaver, origLoad := newScheduleSaver, loadScheduleFile
	defer func() {
		createDBFunc, openDBFunc, migrateDBFunc, closeDBFunc = origCreate, origOpen, origMigrate, origClose
		newScheduleSaver, loadScheduleFile = origSaver, origLoad
	}()

	createDBFunc = func(context.Context, *core.Config) error { return nil }
	openDBFunc = func(context.Context, *core.Config) (*sqlx.DB, error) { return nil, nil }
	migrateDBFunc = func(context.Context, *sqlx.DB) error { return nil }
	closeDBFunc = func(*sqlx.DB) error { return nil }

	saver := &fakeSaver{}
	newScheduleSaver = func(*sqlx.DB) scheduleSaver { return saver }

	t.Run("builtin", func(t *testing.T) {
		saver.saved = nil
		cli, out := setup(t)
		if err := cli.run([]string{"admin", "seed"}); err != nil {
			t.Fatalf("cli.run() error = %v", err)
		}
		if len(saver.saved) != len(schedule.Builtin()) {
			t.Errorf("saved %v", saver.saved)
		}
		if !strings.Contains(out.String(), "saved monday (11 periods)") {
			t.Errorf("output = %q", out.String())
		}
	})

	t.Run("file", func(t *testing.T) {
		saver.saved = nil
		loadScheduleFile = func(path string) ([]schedule.Schedule, error) {
			if path != "custom.yaml" {
				t.Errorf("path = %q", path)
			}
			return []schedule.Schedule{{Name: "rally", DisplayName: "Rally"}}, nil
		}
		cli, _ := setup(t)
		if err := cli.run([]string{"admin", "seed", "-file", "custom.yaml"}); err != nil {
			t.Fatalf("cli.run() error = %v", err)
		}
		if strings.Join(saver.saved, ",") != "rally" {
			t.Errorf("saved %v", saver.saved)
		}
	})
}

func Test_commandLine_service(t *testing.T) {
	origOpen := openRepositoryFunc
	defer func() { openRepositoryFunc = origOpen }()

	var closed bool
	openRepositoryFunc = func(context.Context, *core.Config) (schedule.Repository, func() error, error) {
		return inmemdb.NewScheduleRepository(inmemdb.Open()), func() error { closed = true; return nil }, nil
	}

	var out bytes.Buffer
	cli := &commandLine{
		conf: &core.Config{
			ClockFormat:           "24",
			DefaultAssemblyLetter: "B",
			Timezone:              "America/Los_Angeles",
			ScheduleSource:        core.SourceBuiltin,
		},
		logger: core.NopLogger{},
		out:    &out,
	}
	if err := cli.run([]string{"admin", "now", "-schedule", "monday", "-at", "2024-01-15T13:30:00-08:00"}); err != nil {
		t.Fatalf("cli.run() error = %v", err)
	}
	cli.close()
	if !closed {
		t.Error("repository was not closed")
	}
	if !strings.Contains(out.String(), "13:30  Period 6 > Period 7") {
		t.Errorf("output = %q", out.String())
	}
}
