package gatekeep

import (
	"context"
	"os"
)

// CleanResult reports which backup files a clean removed.
type CleanResult struct {
	Removed []string `json:"removed"`
	Failed  int      `json:"failed"`
}

// Clean deletes every backup file under the root. Failures are logged and
// counted; the rest are removed.
func (s *Service) Clean(ctx context.Context) (*CleanResult, error) {
	backups, err := s.findBackups()
	if err != nil {
		return nil, err
	}

	result := &CleanResult{Removed: make([]string, 0, len(backups))}
	for _, backup := range backups {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		if err := os.Remove(backup); err != nil {
			result.Failed++
			s.log.Error().Err(err).Str("backup", backup).Msg("remove failed")
			continue
		}
		result.Removed = append(result.Removed, backup)
	}

	s.log.Info().Int("removed", len(result.Removed)).Int("failed", result.Failed).Msg("clean complete")
	return result, nil
}
