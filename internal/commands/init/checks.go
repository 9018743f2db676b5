package initcmd

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/colonyops/gatekeep/internal/core/audit"
	"github.com/colonyops/gatekeep/internal/core/config"
	"github.com/colonyops/gatekeep/internal/core/scan"
)

// InitCheck validates the state init leaves behind.
type InitCheck struct {
	configPath string
}

// NewInitCheck creates a new init validation check.
func NewInitCheck(configPath string) *InitCheck {
	return &InitCheck{configPath: configPath}
}

func (c *InitCheck) Name() string {
	return "Init Validation"
}

func (c *InitCheck) Run(_ context.Context) audit.Result {
	result := audit.Result{Name: c.Name()}

	result.Items = append(result.Items, c.checkConfigFile())

	cfg, item := c.checkConfigLoads()
	result.Items = append(result.Items, item)
	if cfg == nil {
		return result
	}

	result.Items = append(result.Items, c.checkRoot(cfg))
	result.Items = append(result.Items, c.checkPages(cfg))

	return result
}

func (c *InitCheck) checkConfigFile() audit.Item {
	if _, err := os.Stat(c.configPath); err != nil {
		return audit.Item{
			Label:  "config file",
			Status: audit.StatusFail,
			Detail: c.configPath + " not found",
		}
	}
	return audit.Item{
		Label:  "config file",
		Status: audit.StatusPass,
		Detail: c.configPath,
	}
}

func (c *InitCheck) checkConfigLoads() (*config.Config, audit.Item) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, audit.Item{
			Label:  "config valid",
			Status: audit.StatusFail,
			Detail: err.Error(),
		}
	}
	return cfg, audit.Item{
		Label:  "config valid",
		Status: audit.StatusPass,
	}
}

func (c *InitCheck) checkRoot(cfg *config.Config) audit.Item {
	info, err := os.Stat(cfg.Root)
	switch {
	case err != nil:
		return audit.Item{
			Label:  "root",
			Status: audit.StatusWarn,
			Detail: cfg.Root + " does not exist yet",
		}
	case !info.IsDir():
		return audit.Item{
			Label:  "root",
			Status: audit.StatusFail,
			Detail: cfg.Root + " is not a directory",
		}
	default:
		return audit.Item{
			Label:  "root",
			Status: audit.StatusPass,
			Detail: cfg.Root,
		}
	}
}

func (c *InitCheck) checkPages(cfg *config.Config) audit.Item {
	files, err := scan.New(zerolog.Nop(), cfg.Extension, cfg.Exclude).Find(cfg.Root)
	if err != nil {
		return audit.Item{
			Label:  "pages",
			Status: audit.StatusWarn,
			Detail: err.Error(),
		}
	}
	if len(files) == 0 {
		return audit.Item{
			Label:  "pages",
			Status: audit.StatusWarn,
			Detail: "no " + cfg.Extension + " files under root",
		}
	}
	return audit.Item{
		Label:  "pages",
		Status: audit.StatusPass,
		Detail: fmt.Sprintf("%d file(s) found", len(files)),
	}
}
