// Package initcmd implements the init flow: write a starter config,
// backing up and confirming before overwriting an existing one.
package initcmd

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/colonyops/gatekeep/internal/core/audit"
	"github.com/colonyops/gatekeep/internal/printer"
)

// Options configure the init flow.
type Options struct {
	// ConfigPath is where the config file is written.
	ConfigPath string
	// Force overwrites an existing config without prompting.
	Force bool
}

type Wizard struct {
	opts Options
}

// New creates a Wizard with the given options.
func New(opts Options) *Wizard {
	return &Wizard{opts: opts}
}

// Run writes the starter config and reports validation results.
func (w *Wizard) Run(ctx context.Context) error {
	p := printer.Ctx(ctx)

	if ConfigExists(w.opts.ConfigPath) && !w.opts.Force {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return fmt.Errorf("config exists at %s; use --force to overwrite", w.opts.ConfigPath)
		}

		var overwrite bool
		err := huh.NewConfirm().
			Title("Config file already exists").
			Description(w.opts.ConfigPath + "\nOverwrite? (a backup will be created)").
			Value(&overwrite).
			Run()
		if err != nil {
			return err
		}
		if !overwrite {
			p.Infof("Init cancelled")
			return nil
		}
	}

	if ConfigExists(w.opts.ConfigPath) {
		backupPath, err := BackupConfig(w.opts.ConfigPath)
		if err != nil {
			return fmt.Errorf("backup config: %w", err)
		}
		if backupPath != "" {
			p.Successf("Backed up config to: %s", backupPath)
		}
	}

	if err := WriteConfig(GenerateConfig(), w.opts.ConfigPath); err != nil {
		return err
	}
	p.Successf("Created config: %s", w.opts.ConfigPath)

	p.Printf("")
	result := NewInitCheck(w.opts.ConfigPath).Run(ctx)

	p.Section(result.Name)
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

	return nil
}
