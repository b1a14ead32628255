package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/bellplus/core"
	"github.com/trezcool/bellplus/core/schedule"
	"github.com/trezcool/bellplus/core/timer"
)

var errInvalidSchedules = errors.New("invalid schedules found")

func (cli *commandLine) listSchedules(ctx context.Context) error {
	svc, err := cli.service(ctx)
	if err != nil {
		return err
	}
	scheds, err := svc.QueryAll(ctx)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tDISPLAY NAME\tPERIODS")
	for _, s := range scheds {
		fmt.Fprintf(w, "%s\t%s\t%d\n", s.Name, s.DisplayName, len(s.Periods))
	}
	return w.Flush()
}

func (cli *commandLine) showSchedule(ctx context.Context, name, letter string) error {
	svc, err := cli.service(ctx)
	if err != nil {
		return err
	}
	letter = core.CleanLetter(letter)
	if letter == "" {
		letter = svc.DefaultAssemblyLetter()
	} else if !schedule.IsAssemblyLetter(letter) {
		return core.NewValidationError(errors.Errorf("unknown assembly letter %q", letter))
	}
	sched, err := svc.Get(ctx, name)
	if err != nil {
		return err
	}

	fmt.Fprintln(cli.out, sched.DisplayName)
	w := tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PERIOD\tSTART\tEND\tMINUTES")
	for _, p := range schedule.DisplayPeriods(sched, letter) {
		if p.IsAnnouncement {
			p.Name += " *"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.Name, clockString(p.StartTime), clockString(p.EndTime), strings.Trim(p.Duration, "()"))
	}
	return w.Flush()
}

func (cli *commandLine) now(ctx context.Context, req schedule.ResolveRequest) error {
	svc, err := cli.service(ctx)
	if err != nil {
		return err
	}
	res, err := svc.Resolve(ctx, req)
	if err != nil {
		return err
	}
	fmt.Fprintln(cli.out, statusLine(res, cli.conf.ClockFormat))
	return nil
}

// watch prints the countdown every second. On a terminal the line is redrawn in place.
// It stops after count updates (if > 0), or on SIGINT/SIGTERM.
func (cli *commandLine) watch(ctx context.Context, req schedule.ResolveRequest, count int) error {
	svc, err := cli.service(ctx)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM, syscall.SIGCONT)
	defer signal.Stop(sigs)

	t := timer.New(func(c context.Context, at time.Time) (schedule.Result, error) {
		r := req
		r.At = at
		return svc.Resolve(c, r)
	}, clock, cli.logger)

	go func() {
		for {
			select {
			case sig := <-sigs:
				if sig == syscall.SIGCONT { // resumed after a suspend
					t.Refresh()
					continue
				}
				cancel()
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	errc := make(chan error, 1)
	go func() { errc <- t.Run(ctx) }()

	redraw := isTerminalFunc(cli.out)
	var n int
	for upd := range t.Updates() {
		line := statusLine(upd.Result, cli.conf.ClockFormat)
		if redraw {
			fmt.Fprint(cli.out, "\r\033[K"+line)
		} else {
			fmt.Fprintln(cli.out, line)
		}
		n++
		if count > 0 && n >= count {
			cancel()
			break
		}
	}
	for range t.Updates() { // until Run returns
	}
	if redraw {
		fmt.Fprintln(cli.out)
	}
	return <-errc
}

func (cli *commandLine) check(ctx context.Context) error {
	svc, err := cli.service(ctx)
	if err != nil {
		return err
	}
	errs, err := svc.Check(ctx)
	if err != nil {
		return err
	}
	if len(errs) == 0 {
		fmt.Fprintln(cli.out, "all schedules are valid")
		return nil
	}
	names := make([]string, 0, len(errs))
	for name := range errs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(cli.out, "%s: %v\n", name, errs[name])
	}
	return errInvalidSchedules
}

// statusLine renders res on one line, eg. "8:45 AM  Period 1 > Period 2  00:31:00 (32%)".
func statusLine(res schedule.Result, clockFormat string) string {
	return fmt.Sprintf("%s  %s > %s  %s (%d%%)",
		schedule.FormatClock(res.At, clockFormat),
		res.CurrentPeriod,
		res.NextPeriod,
		schedule.FormatCountdown(res.RemainingMillis),
		int(res.Progress*100),
	)
}

// clockString normalizes a schedule time to 24h, unparsable ones are shown as is.
func clockString(s string) string {
	ct, err := schedule.ParseClockTime(s)
	if err != nil {
		return s
	}
	return ct.String()
}
