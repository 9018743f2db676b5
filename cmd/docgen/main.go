// Command docgen generates CLI reference documentation from the gatekeep
// command definitions. Output is written to docs/cli-reference.md.
package main

import (
	"fmt"
	"os"

	docs "github.com/urfave/cli-docs/v3"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/gatekeep/internal/commands"
	"github.com/colonyops/gatekeep/internal/core/config"
	"github.com/colonyops/gatekeep/internal/gatekeep"
)

func main() {
	flags := &commands.Flags{}
	app := &gatekeep.App{}

	root := &cli.Command{
		Name:      "gatekeep",
		Usage:     "Gate static pages behind an access cookie",
		UsageText: "gatekeep [global options] command [command options]",
		Description: `Gatekeep walks a directory of static pages and injects two inline scripts
into each one: a gate that redirects visitors without a valid access cookie,
and a scheduler that re-checks the cookie while the page stays open.

Injection is idempotent, and every file is backed up before it is rewritten.

Run 'gatekeep' with no arguments to process the configured root.
Run 'gatekeep check' to audit coverage without modifying anything.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "log level (debug, info, warn, error, fatal, panic)",
				Sources: cli.EnvVars("GATEKEEP_LOG_LEVEL"),
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "log-file",
				Usage:   "path to log file (defaults to stderr)",
				Sources: cli.EnvVars("GATEKEEP_LOG_FILE"),
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to config file",
				Sources: cli.EnvVars("GATEKEEP_CONFIG"),
				Value:   config.FileName,
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "suppress all output except errors",
			},
		},
	}

	runCmd := commands.NewRunCmd(flags, app)
	root.Flags = append(root.Flags, runCmd.Flags()...)

	root = runCmd.Register(root)
	root = commands.NewCheckCmd(flags, app).Register(root)
	root = commands.NewRestoreCmd(flags, app).Register(root)
	root = commands.NewCleanCmd(flags, app).Register(root)
	root = commands.NewInitCmd(flags).Register(root)
	root = commands.NewDocCmd(flags).Register(root)

	md, err := docs.ToMarkdown(root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error generating docs: %v\n", err)
		os.Exit(1)
	}

	outPath := "docs/cli-reference.md"
	if len(os.Args) > 1 {
		outPath = os.Args[1]
	}

	if err := os.WriteFile(outPath, []byte(md), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "error writing %s: %v\n", outPath, err)
		os.Exit(1)
	}

	fmt.Printf("Generated %s\n", outPath)
}
