package commands

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/gatekeep/internal/core/audit"
	"github.com/colonyops/gatekeep/internal/core/styles"
	"github.com/colonyops/gatekeep/internal/gatekeep"
	"github.com/colonyops/gatekeep/internal/printer"
	"github.com/colonyops/gatekeep/pkg/iojson"
)

type CheckCmd struct {
	flags *Flags
	app   *gatekeep.App

	// flags
	format string
}

// NewCheckCmd creates a new check command
func NewCheckCmd(flags *Flags, app *gatekeep.App) *CheckCmd {
	return &CheckCmd{flags: flags, app: app}
}

// Register adds the check command to the application
func (cmd *CheckCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "check",
		Usage:     "Audit script coverage without modifying any file",
		UsageText: "gatekeep check [options]",
		Description: `Walks the root directory and reports, per file, whether the gate and
scheduler scripts are present, whether they sit where a run would place them,
and whether a backup exists. No file is modified.

Exits non-zero when any file is missing a script or cannot be read.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "format",
				Usage:       "output format: text or json",
				Value:       "text",
				Destination: &cmd.format,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *CheckCmd) run(ctx context.Context, c *cli.Command) error {
	if cmd.format != "text" && cmd.format != "json" {
		return fmt.Errorf("unknown format %q (expected text or json)", cmd.format)
	}

	rep, err := cmd.app.Service.Check(ctx)
	if err != nil {
		return fmt.Errorf("check: %w", err)
	}

	if cmd.format == "json" {
		if err := cmd.writeJSON(c, rep); err != nil {
			return err
		}
	} else {
		cmd.writeText(printer.Ctx(ctx), rep)
	}

	if !rep.Ok() {
		return cli.Exit("", 1)
	}
	return nil
}

func (cmd *CheckCmd) writeJSON(c *cli.Command, rep *gatekeep.CheckReport) error {
	type summaryJSON struct {
		Passed int `json:"passed"`
		Warned int `json:"warnings"`
		Failed int `json:"failed"`
	}

	out := struct {
		Ok      bool                 `json:"ok"`
		Root    string               `json:"root"`
		Summary summaryJSON          `json:"summary"`
		Files   []gatekeep.FileCheck `json:"files"`
	}{
		Ok:      rep.Ok(),
		Root:    rep.Root,
		Summary: summaryJSON{Passed: rep.Passed, Warned: rep.Warned, Failed: rep.Failed},
		Files:   rep.Files,
	}

	return iojson.WriteWith(c.Root().Writer, os.Stderr, out)
}

func (cmd *CheckCmd) writeText(p *printer.Printer, rep *gatekeep.CheckReport) {
	if len(rep.Files) == 0 {
		p.Infof("No files found under %s", rep.Root)
		return
	}

	for _, fc := range rep.Files {
		p.Section(fc.Path)

		if fc.Err != nil {
			p.FailItem("load", fc.Error)
			p.Printf("")
			continue
		}

		for _, result := range fc.Results {
			for _, item := range result.Items {
				switch item.Status {
				case audit.StatusPass:
					p.CheckItem(item.Label, item.Detail)
				case audit.StatusWarn:
					p.WarnItem(item.Label, item.Detail)
				case audit.StatusFail:
					p.FailItem(item.Label, item.Detail)
				}
			}
		}
		p.Printf("")
	}

	parts := []string{styles.SuccessStyle.Render(fmt.Sprintf("%d passed", rep.Passed))}
	if rep.Warned > 0 {
		parts = append(parts, styles.WarningStyle.Render(fmt.Sprintf("%d warnings", rep.Warned)))
	}
	if rep.Failed > 0 {
		parts = append(parts, styles.ErrorStyle.Render(fmt.Sprintf("%d failed", rep.Failed)))
	}
	p.Printf("%s", strings.Join(parts, ", "))
}
