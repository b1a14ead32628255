// Package timer drives a countdown: it re-resolves a schedule on every wall-clock second.
package timer

import (
	"context"
	"time"

	"github.com/trezcool/bellplus/core"
	"github.com/trezcool/bellplus/core/schedule"
)

// Clock tells the time and waits. Swapped for a fake one in tests.
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

type realClock struct{}

func (realClock) Now() time.Time                         { return time.Now() }
func (realClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// RealClock uses the system time.
var RealClock Clock = realClock{}

// ResolveFunc resolves the watched schedule at the given instant.
type ResolveFunc func(ctx context.Context, at time.Time) (schedule.Result, error)

// Update is what a display needs to refresh itself.
type Update struct {
	Result      schedule.Result `json:"result"`
	Countdown   string          `json:"countdown"`
	Title       string          `json:"title"`
	Icon        string          `json:"icon"`
	IconChanged bool            `json:"icon_changed"`
}

// Timer emits an Update at every wall-clock second boundary, and whenever Refresh is called.
// Every Update is resolved from the current time, so a Timer that was suspended (sleep, paused
// process..) is right again on its very next tick.
type Timer struct {
	resolve ResolveFunc
	clock   Clock
	logger  core.Logger
	updates chan Update
	refresh chan struct{}
	icon    schedule.IconMemo
}

func New(resolve ResolveFunc, clock Clock, logger core.Logger) *Timer {
	if clock == nil {
		clock = RealClock
	}
	if logger == nil {
		logger = core.NopLogger{}
	}
	return &Timer{
		resolve: resolve,
		clock:   clock,
		logger:  logger,
		updates: make(chan Update),
		refresh: make(chan struct{}, 1),
	}
}

// Updates is closed when Run returns.
func (t *Timer) Updates() <-chan Update {
	return t.updates
}

// Refresh asks for an immediate Update (eg. when a display becomes visible again).
func (t *Timer) Refresh() {
	select {
	case t.refresh <- struct{}{}:
	default: // one pending refresh is enough
	}
}

// Run ticks until ctx is done. It returns the first resolution error, if any.
func (t *Timer) Run(ctx context.Context) error {
	defer close(t.updates)

	for {
		now := t.clock.Now()
		res, err := t.resolve(ctx, now)
		if err != nil {
			t.logger.Error("timer: resolving schedule", err)
			return err
		}

		color := schedule.Urgency(res)
		upd := Update{
			Result:      res,
			Countdown:   schedule.FormatCountdown(res.RemainingMillis),
			Title:       schedule.Title(res),
			Icon:        color,
			IconChanged: t.icon.Update(color),
		}
		select {
		case t.updates <- upd:
		case <-ctx.Done():
			return nil
		}

		select {
		case <-t.clock.After(untilNextSecond(t.clock.Now())):
		case <-t.refresh:
		case <-ctx.Done():
			return nil
		}
	}
}

// untilNextSecond is the wait that aligns the next tick on a second boundary.
func untilNextSecond(now time.Time) time.Duration {
	return now.Truncate(time.Second).Add(time.Second).Sub(now)
}
