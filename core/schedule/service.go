package schedule

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/trezcool/bellplus/core"
)

var (
	NowFunc = time.Now // mockable

	minSuggestionRatio = .6
)

// ResolveRequest selects what to resolve. An empty Schedule means today's regular schedule;
// a zero At means now.
type ResolveRequest struct {
	Schedule       string    `query:"schedule" json:"schedule"`
	AssemblyLetter string    `query:"assembly" json:"assembly" validate:"omitempty,assembly_letter"`
	At             time.Time `query:"-" json:"at"`
}

type Service struct {
	repo          Repository
	resolver      *Resolver
	logger        core.Logger
	observers     []Observer
	defaultLetter string
}

// NewService creates a schedule Service resolving times in loc.
// The start of each school day is taken from the weekday schedules of repo.
func NewService(repo Repository, loc *time.Location, logger core.Logger, defaultLetter string, observers ...Observer) *Service {
	if logger == nil {
		logger = core.NopLogger{}
	}
	svc := &Service{
		repo:          repo,
		logger:        logger,
		observers:     observers,
		defaultLetter: core.CleanLetter(defaultLetter),
	}
	svc.resolver = NewResolver(loc, svc.dayStart)
	return svc
}

func (svc *Service) Location() *time.Location {
	return svc.resolver.Location()
}

func (svc *Service) DefaultAssemblyLetter() string {
	return svc.defaultLetter
}

func (svc *Service) QueryAll(ctx context.Context) ([]Schedule, error) {
	scheds, err := svc.repo.QueryAll(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "querying schedules")
	}
	return scheds, nil
}

// Get returns the schedule named name. Unknown names yield a *NotFoundError.
func (svc *Service) Get(ctx context.Context, name string) (Schedule, error) {
	name = core.CleanString(name)
	sched, err := svc.repo.Get(ctx, name)
	if err == nil {
		return sched, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return Schedule{}, errors.Wrapf(err, "getting schedule %q", name)
	}
	return Schedule{}, &NotFoundError{Name: name, Suggestion: svc.suggest(ctx, name)}
}

// ForDate returns the regular schedule of the day of t.
func (svc *Service) ForDate(ctx context.Context, t time.Time) (Schedule, error) {
	return svc.Get(ctx, WeekdayKeys[t.In(svc.Location()).Weekday()])
}

// Resolve validates req and resolves the selected schedule.
func (svc *Service) Resolve(ctx context.Context, req ResolveRequest) (Result, error) {
	req.Schedule = core.CleanString(req.Schedule)
	req.AssemblyLetter = core.CleanLetter(req.AssemblyLetter)
	if err := core.Validate.Struct(req); err != nil {
		return Result{}, core.FieldErrors(err)
	}
	if req.AssemblyLetter == "" {
		req.AssemblyLetter = svc.defaultLetter
	}
	at := req.At
	if at.IsZero() {
		at = NowFunc()
	}

	var sched Schedule
	var err error
	if req.Schedule == "" {
		sched, err = svc.ForDate(ctx, at)
		if errors.Is(err, ErrNotFound) {
			// no schedule for today: resolved as an empty one
			sched, err = Schedule{Name: WeekdayKeys[at.In(svc.Location()).Weekday()]}, nil
		}
	} else {
		sched, err = svc.Get(ctx, req.Schedule)
	}
	if err != nil {
		return Result{}, err
	}

	res := svc.resolver.ResolveContext(ctx, at, sched, req.AssemblyLetter)
	if res.Indeterminate {
		svc.logger.Warn("could not determine current period", map[string]interface{}{
			"schedule": sched.Name,
			"at":       at.Format(time.RFC3339),
		})
	}
	for _, obs := range svc.observers {
		obs.ObserveResolution(res)
	}
	return res, nil
}

// Check validates every schedule of the registry.
func (svc *Service) Check(ctx context.Context) (map[string]error, error) {
	scheds, err := svc.QueryAll(ctx)
	if err != nil {
		return nil, err
	}
	errs := make(map[string]error)
	for _, sched := range scheds {
		if err := sched.Validate(); err != nil {
			errs[sched.Name] = err
		}
	}
	return errs, nil
}

// dayStart is the start of the regular schedule of weekday.
func (svc *Service) dayStart(ctx context.Context, weekday time.Weekday) (ClockTime, bool) {
	sched, err := svc.repo.Get(ctx, WeekdayKeys[weekday])
	if err != nil || !sched.IsSchoolDay() {
		return ClockTime{}, false
	}
	return sched.Start()
}

// suggest returns the known schedule name closest to name, if close enough.
func (svc *Service) suggest(ctx context.Context, name string) string {
	scheds, err := svc.repo.QueryAll(ctx)
	if err != nil {
		return ""
	}
	names := make([]string, 0, len(scheds))
	for _, s := range scheds {
		names = append(names, s.Name)
	}
	sort.Strings(names)

	var best string
	var bestRatio float64
	target := strings.Split(strings.ToLower(name), "")
	for _, candidate := range names {
		ratio := difflib.NewMatcher(target, strings.Split(strings.ToLower(candidate), "")).Ratio()
		if ratio > bestRatio {
			best, bestRatio = candidate, ratio
		}
	}
	if bestRatio < minSuggestionRatio {
		return ""
	}
	return best
}
