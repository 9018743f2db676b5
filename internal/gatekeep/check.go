package gatekeep

import (
	"context"

	"github.com/colonyops/gatekeep/internal/core/audit"
	"github.com/colonyops/gatekeep/internal/core/markup"
)

// FileCheck is one file's audit outcome.
type FileCheck struct {
	Path    string         `json:"path"`
	Results []audit.Result `json:"results,omitempty"`

	Err error `json:"-"`
	// Error carries Err's message for JSON output.
	Error string `json:"error,omitempty"`
}

// CheckReport aggregates a coverage audit over a tree.
type CheckReport struct {
	Root   string      `json:"root"`
	Files  []FileCheck `json:"files"`
	Passed int         `json:"passed"`
	Warned int         `json:"warned"`
	Failed int         `json:"failed"`
}

// Ok reports whether every file carries both scripts and loaded cleanly.
func (r *CheckReport) Ok() bool { return r.Failed == 0 }

// Check audits every matching file under the root without mutating anything:
// script presence, placement, and backup state.
func (s *Service) Check(ctx context.Context) (*CheckReport, error) {
	files, err := s.Find()
	if err != nil {
		return nil, err
	}

	checks := []audit.Check{
		audit.NewScriptsCheck(),
		audit.NewPlacementCheck(),
		audit.NewBackupCheck(s.cfg.BackupSuffix),
	}

	report := &CheckReport{Root: s.cfg.Root, Files: make([]FileCheck, 0, len(files))}

	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		fc := FileCheck{Path: path}

		doc, err := markup.Load(path)
		if err != nil {
			fc.Err = err
			fc.Error = err.Error()
			report.Failed++
			report.Files = append(report.Files, fc)
			s.log.Error().Err(err).Str("path", path).Msg("check load failed")
			continue
		}

		fc.Results = audit.RunAll(ctx, doc, checks)
		passed, warned, failed := audit.Summary(fc.Results)
		report.Passed += passed
		report.Warned += warned
		report.Failed += failed

		report.Files = append(report.Files, fc)
	}

	s.log.Info().
		Int("files", len(report.Files)).
		Int("passed", report.Passed).
		Int("warned", report.Warned).
		Int("failed", report.Failed).
		Msg("check complete")

	return report, nil
}
