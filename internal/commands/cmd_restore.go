package commands

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/gatekeep/internal/gatekeep"
	"github.com/colonyops/gatekeep/internal/printer"
)

type RestoreCmd struct {
	flags *Flags
	app   *gatekeep.App

	// flags
	keepBackups bool
}

// NewRestoreCmd creates a new restore command
func NewRestoreCmd(flags *Flags, app *gatekeep.App) *RestoreCmd {
	return &RestoreCmd{flags: flags, app: app}
}

// Register adds the restore command to the application
func (cmd *RestoreCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "restore",
		Usage:     "Put every file back to its pre-run backup",
		UsageText: "gatekeep restore [options]",
		Description: `Finds backup files under the root and copies each one back over its
source file, undoing the last run. Backups are removed after restoring unless
--keep-backups is set.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "keep-backups",
				Usage:       "leave backup files in place after restoring",
				Destination: &cmd.keepBackups,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *RestoreCmd) run(ctx context.Context, c *cli.Command) error {
	p := printer.Ctx(ctx)

	results, err := cmd.app.Service.Restore(ctx, cmd.keepBackups)
	if err != nil {
		return fmt.Errorf("restore: %w", err)
	}

	if len(results) == 0 {
		p.Infof("No backups found under %s", cmd.app.Config.Root)
		return nil
	}

	restored := 0
	failed := 0
	if !cmd.flags.Quiet {
		w := tabwriter.NewWriter(p.Out(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "FILE\tBACKUP")
		for _, res := range results {
			if res.Err != nil {
				continue
			}
			fmt.Fprintf(w, "%s\t%s\n", res.Path, res.Backup)
		}
		w.Flush()
	}

	for _, res := range results {
		if res.Err != nil {
			failed++
			p.Errorf("%s: %v", res.Backup, res.Err)
		} else {
			restored++
		}
	}

	p.Successf("Restored %d file(s)", restored)
	if failed > 0 {
		p.Errorf("%d backup(s) could not be restored", failed)
		return cli.Exit("", 1)
	}
	return nil
}
