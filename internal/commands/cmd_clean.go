package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/gatekeep/internal/gatekeep"
	"github.com/colonyops/gatekeep/internal/printer"
)

type CleanCmd struct {
	flags *Flags
	app   *gatekeep.App
}

// NewCleanCmd creates a new clean command
func NewCleanCmd(flags *Flags, app *gatekeep.App) *CleanCmd {
	return &CleanCmd{flags: flags, app: app}
}

// Register adds the clean command to the application
func (cmd *CleanCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "clean",
		Usage:     "Delete backup files left by previous runs",
		UsageText: "gatekeep clean",
		Description: `Finds backup files under the root and deletes them. Once cleaned, the
last run can no longer be undone with 'gatekeep restore'.`,
		Action: cmd.run,
	})

	return app
}

func (cmd *CleanCmd) run(ctx context.Context, _ *cli.Command) error {
	p := printer.Ctx(ctx)

	result, err := cmd.app.Service.Clean(ctx)
	if err != nil {
		return fmt.Errorf("clean: %w", err)
	}

	if len(result.Removed) == 0 && result.Failed == 0 {
		p.Infof("No backup files to remove")
		return nil
	}

	for _, backup := range result.Removed {
		p.Printf("Removed %s", backup)
	}
	p.Successf("Removed %d backup file(s)", len(result.Removed))

	if result.Failed > 0 {
		p.Errorf("%d backup(s) could not be removed", result.Failed)
		return cli.Exit("", 1)
	}
	return nil
}
