package schedule

import (
	"context"
	"time"
)

// DefaultDayStart is used when no schedule tells when the next school day starts.
var DefaultDayStart = ClockTime{Hour: 8, Minute: 25}

// DayStartFunc returns the start time of a school day falling on weekday.
type DayStartFunc func(ctx context.Context, weekday time.Weekday) (ClockTime, bool)

// Resolver computes the state of a schedule at a given instant.
// It keeps no state between calls: every Result is derived from `now` and the schedule only,
// so it is safe to call after arbitrary clock jumps (sleep, suspended tabs..).
type Resolver struct {
	loc      *time.Location
	dayStart DayStartFunc
}

// NewResolver creates a Resolver for schedules expressed in loc.
// dayStart may be nil, the resolved schedule's own start is used then.
func NewResolver(loc *time.Location, dayStart DayStartFunc) *Resolver {
	if loc == nil {
		loc = time.Local
	}
	return &Resolver{loc: loc, dayStart: dayStart}
}

func (r *Resolver) Location() *time.Location {
	return r.loc
}

// bounds of a period on a given day
type span struct {
	period     Period
	start, end time.Time
}

// Resolve returns the state of sched at now. assemblyLetter only matters for the assembly schedule.
// Resolve never fails: unusable schedules are reported through placeholder labels.
func (r *Resolver) Resolve(now time.Time, sched Schedule, assemblyLetter string) Result {
	return r.ResolveContext(context.Background(), now, sched, assemblyLetter)
}

// ResolveContext is Resolve, with ctx passed on to the DayStartFunc.
func (r *Resolver) ResolveContext(ctx context.Context, now time.Time, sched Schedule, assemblyLetter string) Result {
	now = now.In(r.loc)
	res := Result{
		Schedule:     sched.Name,
		ScheduleName: sched.DisplayName,
		At:           now,
	}

	if sched.IsEmpty() {
		res.CurrentPeriod = LabelNoSchedule
		r.outside(ctx, &res, now, sched)
		return res
	}

	spans, ok := r.spans(now, sched)
	if !ok {
		r.indeterminate(ctx, &res, now, sched)
		return res
	}
	label := labeler(sched, assemblyLetter)

	// the catch-all keeps its name up to midnight, past its own end
	first, last := spans[0], spans[len(spans)-1]
	if last.period.IsCatchAll() && !now.Before(last.start) {
		res.CurrentPeriod = last.period.Name
		r.outside(ctx, &res, now, sched)
		return res
	}
	if now.Before(first.start) || !now.Before(last.end) {
		res.CurrentPeriod = LabelFree
		r.outside(ctx, &res, now, sched)
		return res
	}

	for i := 0; i < len(spans)-1; i++ {
		cur, next := spans[i], spans[i+1]
		if cur.period.IsWarningBell() && within(now, cur.start, cur.end) {
			// counts down to the period it announces
			res.CurrentPeriod = LabelWarningBell
			res.NextPeriod = label(next.period.Name)
			progress(&res, now, cur.start, next.start)
			res.Progress = 0
			return res
		}
		if !cur.period.IsMarker() && within(now, cur.start, cur.end) {
			res.CurrentPeriod = label(cur.period.Name)
			res.NextPeriod = label(next.period.Name)
			progress(&res, now, cur.start, cur.end)
			return res
		}
		if within(now, cur.end, next.start) {
			res.CurrentPeriod = LabelPassing
			res.NextPeriod = label(next.period.Name)
			progress(&res, now, cur.end, next.start)
			return res
		}
	}

	// last period of the day, nothing follows it but free time
	if within(now, last.start, last.end) {
		res.CurrentPeriod = label(last.period.Name)
		res.NextPeriod = LabelFree
		progress(&res, now, last.start, last.end)
		return res
	}

	// only reachable with overlapping or unsorted periods
	r.indeterminate(ctx, &res, now, sched)
	return res
}

func (r *Resolver) spans(now time.Time, sched Schedule) ([]span, bool) {
	spans := make([]span, 0, len(sched.Periods))
	for _, p := range sched.Periods {
		start, err := ParseClockTime(p.StartTime)
		if err != nil {
			return nil, false
		}
		end, err := ParseClockTime(p.EndTime)
		if err != nil {
			return nil, false
		}
		spans = append(spans, span{period: p, start: start.On(now, r.loc), end: end.On(now, r.loc)})
	}
	return spans, true
}

func (r *Resolver) outside(ctx context.Context, res *Result, now time.Time, sched Schedule) {
	next := r.nextSchoolDay(ctx, now, sched)
	res.NextPeriod = LabelNextSchoolDay
	res.Outside = true
	res.Progress = 1
	res.EndsAt = next
	res.RemainingMillis = millis(next.Sub(now))
}

func (r *Resolver) indeterminate(ctx context.Context, res *Result, now time.Time, sched Schedule) {
	r.outside(ctx, res, now, sched)
	res.CurrentPeriod = LabelError
	res.NextPeriod = LabelUndetermined
	res.Indeterminate = true
}

// NextSchoolDay returns the start of the next school day after now.
// Before the start of a weekday it is that same day; Saturdays and Sundays are skipped.
func (r *Resolver) NextSchoolDay(now time.Time, sched Schedule) time.Time {
	return r.nextSchoolDay(context.Background(), now, sched)
}

func (r *Resolver) nextSchoolDay(ctx context.Context, now time.Time, sched Schedule) time.Time {
	now = now.In(r.loc)
	if isWeekday(now.Weekday()) {
		if start := r.startOf(ctx, now.Weekday(), sched).On(now, r.loc); now.Before(start) {
			return start
		}
	}
	day := now
	for {
		day = time.Date(day.Year(), day.Month(), day.Day()+1, 12, 0, 0, 0, r.loc)
		if isWeekday(day.Weekday()) {
			return r.startOf(ctx, day.Weekday(), sched).On(day, r.loc)
		}
	}
}

func (r *Resolver) startOf(ctx context.Context, weekday time.Weekday, sched Schedule) ClockTime {
	if r.dayStart != nil {
		if start, ok := r.dayStart(ctx, weekday); ok {
			return start
		}
	}
	if sched.IsSchoolDay() {
		if start, ok := sched.Start(); ok {
			return start
		}
	}
	return DefaultDayStart
}

func isWeekday(d time.Weekday) bool {
	return d != time.Saturday && d != time.Sunday
}

// within reports whether t is in the half-open interval [start, end).
func within(t, start, end time.Time) bool {
	return !t.Before(start) && t.Before(end)
}

func progress(res *Result, now, start, end time.Time) {
	total := end.Sub(start)
	elapsed := now.Sub(start)
	res.EndsAt = end
	res.TotalMillis = millis(total)
	res.RemainingMillis = millis(end.Sub(now))
	if total <= 0 {
		res.Progress = 1
		return
	}
	p := float64(elapsed) / float64(total)
	if p < 0 {
		p = 0
	} else if p > 1 {
		p = 1
	}
	res.Progress = p
}

func millis(d time.Duration) int64 {
	if d < 0 {
		return 0
	}
	return int64(d / time.Millisecond)
}
