// Package gatekeep implements the processing pipeline behind the CLI: walking
// trees, injecting the gate and scheduler scripts, and managing backups.
package gatekeep

import (
	"github.com/colonyops/gatekeep/internal/core/config"
)

// App is the central entry point for all gatekeep operations. Commands
// consume App instead of cherry-picking raw dependencies.
type App struct {
	Service *Service
	Config  *config.Config
}

// NewApp constructs an App from explicit dependencies.
func NewApp(svc *Service, cfg *config.Config) *App {
	return &App{
		Service: svc,
		Config:  cfg,
	}
}
