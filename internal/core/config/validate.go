package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/colonyops/gatekeep/internal/core/styles"
	"github.com/hay-kot/criterio"
)

// Validate checks that the configuration is usable. Errors aggregate
// per-field so a broken config reports everything wrong at once.
func (c *Config) Validate() error {
	return criterio.ValidateStruct(
		criterio.Run("root", c.Root, notEmpty),
		criterio.Run("extension", c.Extension, validExtension),
		criterio.Run("backup_suffix", c.BackupSuffix, validSuffix),
		criterio.Run("workers", c.Workers, atLeastOne),
		criterio.Run("theme", c.Theme, knownTheme),
		c.validateExcludes(),
		c.validateSuffixExtension(),
	)
}

func knownTheme(name string) error {
	if name == "" {
		return nil
	}
	if _, ok := styles.GetPalette(name); !ok {
		return fmt.Errorf("unknown theme %q, available: %s", name, strings.Join(styles.ThemeNames(), ", "))
	}
	return nil
}

func notEmpty(s string) error {
	if s == "" {
		return errors.New("cannot be empty")
	}
	return nil
}

func validExtension(ext string) error {
	if ext == "" {
		return errors.New("cannot be empty")
	}
	if !strings.HasPrefix(ext, ".") {
		return fmt.Errorf("must start with a dot: %q", ext)
	}
	return nil
}

func validSuffix(suffix string) error {
	if suffix == "" {
		return errors.New("cannot be empty")
	}
	if strings.ContainsAny(suffix, `/\`) {
		return fmt.Errorf("must not contain path separators: %q", suffix)
	}
	return nil
}

func atLeastOne(n int) error {
	if n < 1 {
		return errors.New("must be at least 1")
	}
	return nil
}

func (c *Config) validateExcludes() error {
	var errs criterio.FieldErrorsBuilder
	for i, pattern := range c.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			errs = errs.Append(fmt.Sprintf("exclude[%d]", i), fmt.Errorf("invalid pattern %q", pattern))
		}
	}
	return errs.ToError()
}

// validateSuffixExtension rejects a backup suffix ending in the scanned
// extension: backups would be picked up as inputs on the next run.
func (c *Config) validateSuffixExtension() error {
	if c.BackupSuffix == "" || c.Extension == "" {
		return nil
	}
	if strings.HasSuffix(strings.ToLower(c.BackupSuffix), strings.ToLower(c.Extension)) {
		return criterio.NewFieldErrors("backup_suffix", fmt.Errorf("must not end with extension %q", c.Extension))
	}
	return nil
}
