package commands

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/colonyops/gatekeep/internal/core/config"
	"github.com/colonyops/gatekeep/internal/gatekeep"
	"github.com/colonyops/gatekeep/internal/printer"
	"github.com/colonyops/gatekeep/internal/tui"
	"github.com/colonyops/gatekeep/pkg/iojson"
	"github.com/colonyops/gatekeep/pkg/utils"
)

type RunCmd struct {
	flags *Flags
	app   *gatekeep.App

	// flags
	root          string
	ext           string
	backupSuffix  string
	exclude       []string
	workers       int
	dryRun        bool
	skipUnchanged bool
	interactive   bool
	jsonOutput    bool
	noProgress    bool
}

// NewRunCmd creates a new run command
func NewRunCmd(flags *Flags, app *gatekeep.App) *RunCmd {
	return &RunCmd{flags: flags, app: app}
}

// Flags returns the run flags. Called once for the run subcommand and once
// for the root command, so the default invocation accepts them too.
func (cmd *RunCmd) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "root",
			Aliases:     []string{"r"},
			Usage:       "directory to scan",
			Destination: &cmd.root,
		},
		&cli.StringFlag{
			Name:        "ext",
			Usage:       "file extension to process",
			Destination: &cmd.ext,
		},
		&cli.StringFlag{
			Name:        "backup-suffix",
			Usage:       "suffix for pre-rewrite backups",
			Destination: &cmd.backupSuffix,
		},
		&cli.StringSliceFlag{
			Name:        "exclude",
			Usage:       "doublestar pattern to skip, relative to root (repeatable)",
			Destination: &cmd.exclude,
		},
		&cli.IntFlag{
			Name:        "workers",
			Usage:       "parallel file workers (1 = strict walk order)",
			Destination: &cmd.workers,
		},
		&cli.BoolFlag{
			Name:        "dry-run",
			Aliases:     []string{"n"},
			Usage:       "report what would change without touching any file",
			Destination: &cmd.dryRun,
		},
		&cli.BoolFlag{
			Name:        "skip-unchanged",
			Usage:       "skip the backup and rewrite when nothing was inserted",
			Destination: &cmd.skipUnchanged,
		},
		&cli.BoolFlag{
			Name:        "interactive",
			Aliases:     []string{"i"},
			Usage:       "confirm before processing",
			Destination: &cmd.interactive,
		},
		&cli.BoolFlag{
			Name:        "json",
			Usage:       "write the run report as JSON to stdout",
			Destination: &cmd.jsonOutput,
		},
		&cli.BoolFlag{
			Name:        "no-progress",
			Usage:       "suppress the live progress view",
			Destination: &cmd.noProgress,
		},
	}
}

// Register adds the run command to the application
func (cmd *RunCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "run",
		Usage:     "Inject the gate and scheduler scripts into every page",
		UsageText: "gatekeep run [options]",
		Description: `Walks the root directory for pages and ensures each one carries the
access-cookie gate script at the top of <head> and the recheck scheduler at the
bottom. Pages that already carry a script block are never given a duplicate.

Every file is backed up to a sibling backup file before it is rewritten.
Running with no subcommand is equivalent to 'gatekeep run'.`,
		Flags:  cmd.Flags(),
		Action: cmd.run,
	})

	return app
}

// Run executes the processing run. Exported for use as default command.
func (cmd *RunCmd) Run(ctx context.Context, c *cli.Command) error {
	return cmd.run(ctx, c)
}

func (cmd *RunCmd) run(ctx context.Context, c *cli.Command) error {
	p := printer.Ctx(ctx)

	if err := cmd.applyFlags(c, cmd.app.Config); err != nil {
		return err
	}

	files, err := cmd.app.Service.Find()
	if err != nil {
		return err
	}

	if cmd.interactive && !cmd.dryRun {
		ok, err := cmd.confirm(len(files))
		if err != nil {
			return err
		}
		if !ok {
			p.Infof("Run cancelled")
			return nil
		}
	}

	var rep *gatekeep.Report
	if cmd.useProgress(len(files)) {
		rep, err = cmd.runWithProgress(ctx, p, len(files))
	} else {
		opts := gatekeep.RunOptions{DryRun: cmd.dryRun}
		if !cmd.jsonOutput {
			opts.OnResult = func(res gatekeep.FileResult) { cmd.printResult(p, res) }
		}
		rep, err = cmd.app.Service.Run(ctx, opts)
	}
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}

	if cmd.jsonOutput {
		if err := iojson.Write(rep); err != nil {
			return err
		}
	} else {
		cmd.printSummary(p, rep)
	}

	if !rep.Ok() {
		return cli.Exit("", 1)
	}
	return nil
}

// applyFlags overlays explicitly-set run flags onto the loaded config and
// re-validates the result.
func (cmd *RunCmd) applyFlags(c *cli.Command, cfg *config.Config) error {
	if c.IsSet("root") {
		cfg.Root = cmd.root
	}
	if c.IsSet("ext") {
		cfg.Extension = cmd.ext
	}
	if c.IsSet("backup-suffix") {
		cfg.BackupSuffix = cmd.backupSuffix
	}
	if c.IsSet("exclude") {
		cfg.Exclude = cmd.exclude
	}
	if c.IsSet("workers") {
		cfg.Workers = cmd.workers
	}
	if c.IsSet("skip-unchanged") {
		cfg.SkipUnchanged = cmd.skipUnchanged
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}
	return nil
}

func (cmd *RunCmd) confirm(n int) (bool, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return true, nil
	}

	var ok bool
	err := huh.NewConfirm().
		Title(fmt.Sprintf("Process %d file(s)?", n)).
		Description("Root: " + cmd.app.Config.Root + "\nEach file is backed up and rewritten in place.").
		Value(&ok).
		Run()
	return ok, err
}

func (cmd *RunCmd) useProgress(files int) bool {
	return files > 0 &&
		!cmd.noProgress &&
		!cmd.jsonOutput &&
		!cmd.flags.Quiet &&
		term.IsTerminal(int(os.Stdout.Fd()))
}

// runWithProgress drives the run under the live progress view. Completion
// lines are buffered while the view owns the terminal and flushed after it
// exits.
func (cmd *RunCmd) runWithProgress(ctx context.Context, p *printer.Printer, total int) (*gatekeep.Report, error) {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var buf utils.DeferredWriter
	bp := printer.New(&buf)

	prog := tea.NewProgram(tui.New(total), tea.WithOutput(os.Stderr))

	type outcome struct {
		rep *gatekeep.Report
		err error
	}
	done := make(chan outcome, 1)

	go func() {
		rep, err := cmd.app.Service.Run(runCtx, gatekeep.RunOptions{
			DryRun: cmd.dryRun,
			OnResult: func(res gatekeep.FileResult) {
				cmd.printResult(bp, res)
				prog.Send(tui.FileMsg(res))
			},
		})
		done <- outcome{rep: rep, err: err}
		prog.Send(tui.DoneMsg{})
	}()

	final, progErr := prog.Run()
	if m, ok := final.(tui.Model); ok && m.Interrupted() {
		cancel()
	}

	out := <-done
	if err := buf.Flush(p.Out()); err != nil {
		return nil, fmt.Errorf("flush output: %w", err)
	}
	if progErr != nil {
		return nil, fmt.Errorf("progress view: %w", progErr)
	}
	return out.rep, out.err
}

func (cmd *RunCmd) printResult(p *printer.Printer, res gatekeep.FileResult) {
	switch {
	case res.Err != nil:
		p.Errorf("%s: %v", res.Path, res.Err)
	case cmd.dryRun:
		switch {
		case res.GateAdded && res.SchedulerAdded:
			p.Infof("would add gate and scheduler: %s", res.Path)
		case res.GateAdded:
			p.Infof("would add gate: %s", res.Path)
		case res.SchedulerAdded:
			p.Infof("would add scheduler: %s", res.Path)
		default:
			p.Infof("up to date: %s", res.Path)
		}
	case res.Skipped:
		p.Infof("unchanged: %s", res.Path)
	default:
		p.Printf("Processed %s", res.Path)
	}
}

func (cmd *RunCmd) printSummary(p *printer.Printer, rep *gatekeep.Report) {
	if rep.DryRun {
		pending := rep.GateAdded + rep.SchedulerAdded
		if pending == 0 {
			p.Successf("Dry run: %d file(s) checked, all up to date", rep.Processed)
		} else {
			p.Successf("Dry run: %d insertion(s) pending across %d file(s)", pending, rep.Processed)
		}
	} else {
		p.Successf("%d file(s) processed: %d gate, %d scheduler added, %d unchanged",
			rep.Processed, rep.GateAdded, rep.SchedulerAdded, rep.Unchanged)
	}

	if rep.Failed > 0 {
		p.Errorf("%d file(s) failed", rep.Failed)
	}
}
