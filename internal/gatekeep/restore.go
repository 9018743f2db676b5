package gatekeep

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/colonyops/gatekeep/internal/core/scan"
)

// RestoreResult records one backup restoration.
type RestoreResult struct {
	Path   string `json:"path"`
	Backup string `json:"backup"`

	Err error `json:"-"`
	// Error carries Err's message for JSON output.
	Error string `json:"error,omitempty"`
}

// findBackups returns backup files under the root, matching the configured
// extension plus backup suffix.
func (s *Service) findBackups() ([]string, error) {
	finder := scan.New(s.log, s.cfg.Extension+s.cfg.BackupSuffix, s.cfg.Exclude)
	return finder.Find(s.cfg.Root)
}

// Restore copies every backup under the root back over its source file,
// undoing the last run. Unless keepBackups is set, each backup is removed
// after its file is restored. Failures are per-file; the rest continue.
func (s *Service) Restore(ctx context.Context, keepBackups bool) ([]RestoreResult, error) {
	backups, err := s.findBackups()
	if err != nil {
		return nil, err
	}

	results := make([]RestoreResult, 0, len(backups))
	for _, backup := range backups {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		res := RestoreResult{
			Path:   strings.TrimSuffix(backup, s.cfg.BackupSuffix),
			Backup: backup,
		}

		if err := s.restoreOne(&res, keepBackups); err != nil {
			res.Err = err
			res.Error = err.Error()
			s.log.Error().Err(err).Str("backup", backup).Msg("restore failed")
		} else {
			s.log.Debug().Str("path", res.Path).Str("backup", backup).Msg("restored")
		}
		results = append(results, res)
	}

	return results, nil
}

func (s *Service) restoreOne(res *RestoreResult, keepBackups bool) error {
	data, err := os.ReadFile(res.Backup)
	if err != nil {
		return fmt.Errorf("read backup: %w", err)
	}

	if err := os.WriteFile(res.Path, data, 0o644); err != nil {
		return fmt.Errorf("restore %s: %w", res.Path, err)
	}

	if !keepBackups {
		if err := os.Remove(res.Backup); err != nil {
			return fmt.Errorf("remove backup: %w", err)
		}
	}
	return nil
}
