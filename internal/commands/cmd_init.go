package commands

import (
	"context"

	"github.com/urfave/cli/v3"

	initcmd "github.com/colonyops/gatekeep/internal/commands/init"
	"github.com/colonyops/gatekeep/internal/core/config"
)

type InitCmd struct {
	flags *Flags

	// flags
	path  string
	force bool
}

// NewInitCmd creates a new init command
func NewInitCmd(flags *Flags) *InitCmd {
	return &InitCmd{flags: flags}
}

// Register adds the init command to the application
func (cmd *InitCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "init",
		Usage:     "Create a starter config file",
		UsageText: "gatekeep init [options]",
		Description: `Writes a commented starter config and validates the result. An existing
config is backed up before it is overwritten, and overwriting requires
confirmation (or --force).`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "path",
				Usage:       "where to write the config file",
				Value:       config.FileName,
				Destination: &cmd.path,
			},
			&cli.BoolFlag{
				Name:        "force",
				Usage:       "overwrite an existing config without asking",
				Destination: &cmd.force,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *InitCmd) run(ctx context.Context, _ *cli.Command) error {
	wizard := initcmd.New(initcmd.Options{
		ConfigPath: cmd.path,
		Force:      cmd.force,
	})
	return wizard.Run(ctx)
}
