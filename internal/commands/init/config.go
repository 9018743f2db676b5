package initcmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/colonyops/gatekeep/internal/core/config"
)

// GenerateConfig renders a starter config file with commented examples.
// Defaults mirror config.DefaultConfig so a generated file and no file
// behave identically.
func GenerateConfig() string {
	def := config.DefaultConfig()

	return fmt.Sprintf(`# gatekeep configuration
# Run 'gatekeep doc config' for the full reference.

# Directory to scan for pages.
root: %s

# File extension to process (case-insensitive match).
extension: %s

# Suffix for the pre-rewrite backup written next to each page.
backup_suffix: %s

# Doublestar patterns matched against paths relative to root.
# Exclude the redirect target so visitors without cookies don't loop.
exclude: []
#  - "sorry.html"
#  - "drafts/**"

# Parallel file workers. 1 processes files strictly in walk order.
workers: %d

# Skip the backup and rewrite when a page already carries both scripts.
skip_unchanged: false

# Output theme for styled terminal output.
theme: %s
`, def.Root, def.Extension, def.BackupSuffix, def.Workers, def.Theme)
}

// WriteConfig writes cfg contents to path, creating parent directories.
func WriteConfig(contents string, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config dir: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
