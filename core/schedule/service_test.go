package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/bellplus/core"
)

type fakeRepo struct {
	scheds []Schedule
	err    error
}

func (repo *fakeRepo) QueryAll(context.Context) ([]Schedule, error) {
	return repo.scheds, repo.err
}

func (repo *fakeRepo) Get(_ context.Context, name string) (Schedule, error) {
	if repo.err != nil {
		return Schedule{}, repo.err
	}
	for _, s := range repo.scheds {
		if s.Name == name {
			return s, nil
		}
	}
	return Schedule{}, ErrNotFound
}

type recordingObserver struct {
	results []Result
}

func (o *recordingObserver) ObserveResolution(res Result) {
	o.results = append(o.results, res)
}

type recordingLogger struct {
	core.NopLogger
	warnings []string
}

func (l *recordingLogger) Warn(msg string, _ ...interface{}) {
	l.warnings = append(l.warnings, msg)
}

func newTestService(t *testing.T, scheds ...Schedule) (*Service, *recordingObserver, *recordingLogger) {
	t.Helper()
	if len(scheds) == 0 {
		scheds = Builtin()
	}
	obs := &recordingObserver{}
	logger := &recordingLogger{}
	return NewService(&fakeRepo{scheds: scheds}, mustLoadLocation(t), logger, " b ", obs), obs, logger
}

func TestService_Get(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	sched, err := svc.Get(ctx, " monday ")
	if err != nil || sched.Name != "monday" {
		t.Fatalf("Get(monday) = %v, %v", sched.Name, err)
	}

	tests := []struct {
		name           string
		wantSuggestion string
	}{
		{name: "mondy", wantSuggestion: "monday"},
		{name: "Thursday", wantSuggestion: "thursday"},
		{name: "minimum", wantSuggestion: "minimumDay"},
		{name: "xyz", wantSuggestion: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Get(ctx, tt.name)
			if !errors.Is(err, ErrNotFound) {
				t.Fatalf("Get() error = %v; want ErrNotFound", err)
			}
			var nfErr *NotFoundError
			if !errors.As(err, &nfErr) {
				t.Fatalf("Get() error = %T; want *NotFoundError", err)
			}
			if nfErr.Suggestion != tt.wantSuggestion {
				t.Errorf("Suggestion = %q; want %q", nfErr.Suggestion, tt.wantSuggestion)
			}
		})
	}
}

func TestService_Get_RepoError(t *testing.T) {
	repoErr := errors.New("connection refused")
	svc := NewService(&fakeRepo{err: repoErr}, mustLoadLocation(t), core.NopLogger{}, "A")
	_, err := svc.Get(context.Background(), "monday")
	if errors.Cause(err) != repoErr {
		t.Errorf("Get() error = %v; want %v", err, repoErr)
	}
	if errors.Is(err, ErrNotFound) {
		t.Error("repository errors must not be reported as not found")
	}
}

func TestService_ForDate(t *testing.T) {
	svc, _, _ := newTestService(t)
	loc := mustLoadLocation(t)
	for day, want := range map[int]string{15: "monday", 17: "wednesday", 20: "saturday", 21: "sunday"} {
		sched, err := svc.ForDate(context.Background(), time.Date(2024, 1, day, 10, 0, 0, 0, loc))
		if err != nil || sched.Name != want {
			t.Errorf("ForDate(Jan %d) = %q, %v; want %q", day, sched.Name, err, want)
		}
	}
	// the date is taken in the school's time zone
	utc := time.Date(2024, 1, 16, 5, 0, 0, 0, time.UTC) // still Monday in Los Angeles
	if sched, _ := svc.ForDate(context.Background(), utc); sched.Name != "monday" {
		t.Errorf("ForDate(%v) = %q; want monday", utc, sched.Name)
	}
}

func TestService_Resolve(t *testing.T) {
	svc, obs, logger := newTestService(t)
	loc := mustLoadLocation(t)
	ctx := context.Background()

	if got := svc.DefaultAssemblyLetter(); got != "B" {
		t.Errorf("DefaultAssemblyLetter() = %q; want B", got)
	}

	t.Run("today", func(t *testing.T) {
		res, err := svc.Resolve(ctx, ResolveRequest{At: time.Date(2024, 1, 17, 9, 30, 0, 0, loc)})
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if res.Schedule != "wednesday" || res.CurrentPeriod != "Period 2" {
			t.Errorf("Resolve() = %s %q; want wednesday Period 2", res.Schedule, res.CurrentPeriod)
		}
	})

	t.Run("default assembly letter", func(t *testing.T) {
		res, err := svc.Resolve(ctx, ResolveRequest{Schedule: "assembly", At: time.Date(2024, 1, 17, 9, 30, 0, 0, loc)})
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if res.CurrentPeriod != LabelAssembly {
			t.Errorf("CurrentPeriod = %q; want %q", res.CurrentPeriod, LabelAssembly)
		}
	})

	t.Run("explicit assembly letter", func(t *testing.T) {
		res, err := svc.Resolve(ctx, ResolveRequest{Schedule: "assembly", AssemblyLetter: "c", At: time.Date(2024, 1, 17, 9, 30, 0, 0, loc)})
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if res.CurrentPeriod != "Period 2" || res.NextPeriod != LabelAssembly {
			t.Errorf("Resolve() = %q > %q; want Period 2 > Assembly", res.CurrentPeriod, res.NextPeriod)
		}
	})

	t.Run("now", func(t *testing.T) {
		defer func(orig func() time.Time) { NowFunc = orig }(NowFunc)
		NowFunc = func() time.Time { return time.Date(2024, 1, 15, 8, 45, 0, 0, loc) }

		res, err := svc.Resolve(ctx, ResolveRequest{})
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if res.Schedule != "monday" || res.CurrentPeriod != "Period 1" {
			t.Errorf("Resolve() = %s %q; want monday Period 1", res.Schedule, res.CurrentPeriod)
		}
	})

	t.Run("invalid letter", func(t *testing.T) {
		_, err := svc.Resolve(ctx, ResolveRequest{AssemblyLetter: "Z"})
		var vErr *core.ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("Resolve() error = %v; want a *core.ValidationError", err)
		}
		if len(vErr.Fields) != 1 || vErr.Fields[0].Field != "assembly" {
			t.Errorf("Fields = %+v", vErr.Fields)
		}
	})

	t.Run("unknown schedule", func(t *testing.T) {
		if _, err := svc.Resolve(ctx, ResolveRequest{Schedule: "nope"}); !errors.Is(err, ErrNotFound) {
			t.Errorf("Resolve() error = %v; want ErrNotFound", err)
		}
	})

	if len(obs.results) != 4 {
		t.Errorf("observed %d resolutions; want 4", len(obs.results))
	}
	if len(logger.warnings) != 0 {
		t.Errorf("warnings = %v", logger.warnings)
	}
}

func TestService_Resolve_Indeterminate(t *testing.T) {
	broken := Schedule{Name: "broken", DisplayName: "Broken", Periods: []Period{
		{Name: "Period 1", StartTime: "9:00", EndTime: "9;30"},
		{Name: "Period 2", StartTime: "9:35", EndTime: "10:00"},
	}}
	svc, obs, logger := newTestService(t, broken)
	loc := mustLoadLocation(t)

	res, err := svc.Resolve(context.Background(), ResolveRequest{Schedule: "broken", At: time.Date(2024, 1, 15, 9, 5, 0, 0, loc)})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if !res.Indeterminate {
		t.Errorf("Resolve() = %+v; want an indeterminate result", res)
	}
	if len(logger.warnings) != 1 {
		t.Errorf("warnings = %v; want 1", logger.warnings)
	}
	if len(obs.results) != 1 || !obs.results[0].Indeterminate {
		t.Errorf("observed %+v", obs.results)
	}
}

func TestService_Resolve_NoScheduleToday(t *testing.T) {
	svc, obs, _ := newTestService(t, mondaySchedule(t))
	loc := mustLoadLocation(t)
	saturday := time.Date(2024, 1, 20, 10, 0, 0, 0, loc)

	res, err := svc.Resolve(context.Background(), ResolveRequest{At: saturday})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if res.Schedule != "saturday" || res.CurrentPeriod != LabelNoSchedule || res.NextPeriod != LabelNextSchoolDay {
		t.Errorf("Resolve() = %s %q > %q; want saturday %q > %q", res.Schedule, res.CurrentPeriod, res.NextPeriod, LabelNoSchedule, LabelNextSchoolDay)
	}
	if !res.Outside || res.Progress != 1 {
		t.Errorf("Resolve() = %+v; want outside active hours", res)
	}
	if want := time.Date(2024, 1, 22, 8, 25, 0, 0, loc); !res.EndsAt.Equal(want) {
		t.Errorf("EndsAt = %v; want Monday %v", res.EndsAt, want)
	}
	if len(obs.results) != 1 {
		t.Errorf("observed %d resolutions; want 1", len(obs.results))
	}

	// a schedule asked for by name must exist
	if _, err = svc.Resolve(context.Background(), ResolveRequest{Schedule: "saturday", At: saturday}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Resolve(saturday) error = %v; want ErrNotFound", err)
	}
}

type ctxRepo struct {
	fakeRepo
	ctxs []context.Context
}

func (repo *ctxRepo) Get(ctx context.Context, name string) (Schedule, error) {
	repo.ctxs = append(repo.ctxs, ctx)
	return repo.fakeRepo.Get(ctx, name)
}

func TestService_DayStart_Context(t *testing.T) {
	repo := &ctxRepo{fakeRepo: fakeRepo{scheds: Builtin()}}
	svc := NewService(repo, mustLoadLocation(t), nil, "B")
	loc := mustLoadLocation(t)

	type key struct{}
	ctx := context.WithValue(context.Background(), key{}, "request")
	if _, err := svc.Resolve(ctx, ResolveRequest{Schedule: "tuesday", At: time.Date(2024, 1, 16, 15, 10, 0, 0, loc)}); err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if len(repo.ctxs) < 2 {
		t.Fatalf("repository called %d times; want the schedule and the next day start", len(repo.ctxs))
	}
	for i, c := range repo.ctxs {
		if c.Value(key{}) != "request" {
			t.Errorf("call %d did not get the request context", i)
		}
	}
}

func TestService_Check(t *testing.T) {
	svc, _, _ := newTestService(t)
	errs, err := svc.Check(context.Background())
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if len(errs) != 0 {
		t.Errorf("built-in schedules are invalid: %v", errs)
	}

	unsorted := Schedule{Name: "unsorted", DisplayName: "Unsorted", Periods: []Period{
		{Name: "Period 2", StartTime: "9:19", EndTime: "10:05"},
		{Name: "Period 1", StartTime: "8:30", EndTime: "9:16"},
	}}
	svc, _, _ = newTestService(t, unsorted, Builtin()[0])
	errs, err = svc.Check(context.Background())
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if _, ok := errs["unsorted"]; !ok || len(errs) != 1 {
		t.Errorf("Check() = %v; want only unsorted", errs)
	}
}

func TestService_DayStart(t *testing.T) {
	svc, _, _ := newTestService(t)
	loc := mustLoadLocation(t)

	// Tuesday 3:10pm: Wednesday starts with its 9:12 warning bell
	res, err := svc.Resolve(context.Background(), ResolveRequest{Schedule: "tuesday", At: time.Date(2024, 1, 16, 15, 10, 0, 0, loc)})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if want := time.Date(2024, 1, 17, 9, 12, 0, 0, loc); !res.EndsAt.Equal(want) {
		t.Errorf("EndsAt = %v; want %v", res.EndsAt, want)
	}
}
