package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/term"

	"github.com/trezcool/bellplus/core"
	"github.com/trezcool/bellplus/core/schedule"
	"github.com/trezcool/bellplus/core/timer"
	"github.com/trezcool/bellplus/storage"
)

var (
	openRepositoryFunc = storage.OpenRepository // mockable
	isTerminalFunc     = isTerminal             // mockable
	clock              = timer.RealClock        // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	conf      *core.Config
	logger    core.Logger
	out       io.Writer
	svc       *schedule.Service
	closeRepo func() error
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  schedules - list the known schedules")
	fmt.Fprintln(cli.out, "  show -schedule NAME [-assembly LETTER] - print the periods of a schedule")
	fmt.Fprintln(cli.out, "  now [-schedule NAME] [-assembly LETTER] [-at RFC3339] - print the current period")
	fmt.Fprintln(cli.out, "  watch [-schedule NAME] [-assembly LETTER] [-count N] - live countdown")
	fmt.Fprintln(cli.out, "  check - validate every schedule")
	fmt.Fprintln(cli.out, "  migrate - create the database and its tables")
	fmt.Fprintln(cli.out, "  seed [-file PATH] - store the built-in (or file) schedules in the database")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	showCmd := flag.NewFlagSet("show", flag.ContinueOnError)
	showSchedule := showCmd.String("schedule", "", "The schedule name (eg. monday, assembly).")
	showAssembly := showCmd.String("assembly", "", "The assembly letter, for the assembly schedule.")

	nowCmd := flag.NewFlagSet("now", flag.ContinueOnError)
	nowSchedule := nowCmd.String("schedule", "", "The schedule name. Today's schedule by default.")
	nowAssembly := nowCmd.String("assembly", "", "The assembly letter, for the assembly schedule.")
	nowAt := nowCmd.String("at", "", "Resolve at this RFC3339 time instead of now.")

	watchCmd := flag.NewFlagSet("watch", flag.ContinueOnError)
	watchSchedule := watchCmd.String("schedule", "", "The schedule name. Today's schedule by default.")
	watchAssembly := watchCmd.String("assembly", "", "The assembly letter, for the assembly schedule.")
	watchCount := watchCmd.Int("count", 0, "Stop after N updates (0: run until interrupted).")

	seedCmd := flag.NewFlagSet("seed", flag.ContinueOnError)
	seedFile := seedCmd.String("file", "", "A YAML schedules file. The built-in schedules by default.")

	for _, fs := range []*flag.FlagSet{showCmd, nowCmd, watchCmd, seedCmd} {
		fs.SetOutput(cli.out)
	}

	ctx := context.Background()

	switch args[1] {
	case "schedules":
		return cli.listSchedules(ctx)
	case "show":
		if err := showCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *showSchedule == "" {
			showCmd.Usage()
			return errHelp
		}
		return cli.showSchedule(ctx, *showSchedule, *showAssembly)
	case "now":
		if err := nowCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		req := schedule.ResolveRequest{Schedule: *nowSchedule, AssemblyLetter: *nowAssembly}
		if *nowAt != "" {
			at, err := time.Parse(time.RFC3339, *nowAt)
			if err != nil {
				return core.NewValidationError(err)
			}
			req.At = at
		}
		return cli.now(ctx, req)
	case "watch":
		if err := watchCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		req := schedule.ResolveRequest{Schedule: *watchSchedule, AssemblyLetter: *watchAssembly}
		return cli.watch(ctx, req, *watchCount)
	case "check":
		return cli.check(ctx)
	case "migrate":
		return cli.migrate(ctx)
	case "seed":
		if err := seedCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		return cli.seed(ctx, *seedFile)
	default:
		cli.printUsage()
		return errHelp
	}
}

// service opens the configured schedule registry on first use.
func (cli *commandLine) service(ctx context.Context) (*schedule.Service, error) {
	if cli.svc != nil {
		return cli.svc, nil
	}
	if err := cli.conf.Check(); err != nil {
		return nil, err
	}
	loc, err := cli.conf.Location()
	if err != nil {
		return nil, err
	}
	repo, closeRepo, err := openRepositoryFunc(ctx, cli.conf)
	if err != nil {
		return nil, err
	}
	cli.closeRepo = closeRepo
	cli.svc = schedule.NewService(repo, loc, cli.logger, cli.conf.DefaultAssemblyLetter)
	return cli.svc, nil
}

func (cli *commandLine) close() {
	if cli.closeRepo == nil {
		return
	}
	if err := cli.closeRepo(); err != nil {
		cli.logger.Error("closing schedules", err)
	}
	cli.closeRepo = nil
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
