package gatekeep

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/rs/zerolog"

	"github.com/colonyops/gatekeep/internal/core/config"
	"github.com/colonyops/gatekeep/internal/core/inject"
	"github.com/colonyops/gatekeep/internal/core/markup"
	"github.com/colonyops/gatekeep/internal/core/scan"
)

// Service orchestrates gatekeep operations over one configured tree.
type Service struct {
	cfg *config.Config
	log zerolog.Logger
}

// New creates a new Service.
func New(log zerolog.Logger, cfg *config.Config) *Service {
	return &Service{
		cfg: cfg,
		log: log.With().Str("component", "gatekeep").Logger(),
	}
}

// RunOptions control a processing run.
type RunOptions struct {
	// DryRun reports what each file needs without touching the filesystem.
	DryRun bool
	// OnResult, when set, receives each file's result as it completes.
	// Calls are serialized; completion order may differ from walk order
	// when workers > 1.
	OnResult func(FileResult)
}

// Find returns the files a run would process, in walk order.
func (s *Service) Find() ([]string, error) {
	finder := scan.New(s.log, s.cfg.Extension, s.cfg.Exclude)
	return finder.Find(s.cfg.Root)
}

// Run walks the configured root and processes every matching file. Each file
// is an independent unit: failures are recorded in its FileResult and the run
// continues. Cancelling ctx stops dispatching new files; in-flight files
// finish and the remainder report the cancellation error.
func (s *Service) Run(ctx context.Context, opts RunOptions) (*Report, error) {
	files, err := s.Find()
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("root", s.cfg.Root).
		Int("files", len(files)).
		Int("workers", s.cfg.Workers).
		Bool("dry_run", opts.DryRun).
		Msg("starting run")

	results := make([]FileResult, len(files))

	workers := s.cfg.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(files) && len(files) > 0 {
		workers = len(files)
	}

	// A shared job channel keeps the default single-worker run strictly in
	// walk order, matching the serial behavior files were processed with
	// historically.
	type job struct {
		i    int
		path string
	}

	var (
		mu   sync.Mutex
		wg   sync.WaitGroup
		jobs = make(chan job)
	)

	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				res := s.processFile(j.path, opts)

				mu.Lock()
				results[j.i] = res
				if opts.OnResult != nil {
					opts.OnResult(res)
				}
				mu.Unlock()
			}
		}()
	}

	cancelled := -1
	for i, path := range files {
		if ctx.Err() != nil {
			cancelled = i
			break
		}
		jobs <- job{i: i, path: path}
	}
	close(jobs)
	wg.Wait()

	if cancelled >= 0 {
		for i := cancelled; i < len(files); i++ {
			results[i] = FileResult{Path: files[i], Err: ctx.Err()}
		}
		s.log.Warn().Int("remaining", len(files)-cancelled).Msg("run cancelled")
	}

	return newReport(s.cfg.Root, opts.DryRun, results), nil
}

// processFile loads one file, ensures both scripts are in its head, backs up
// the original bytes, and rewrites the document. Backup and rewrite happen
// unconditionally unless skip-unchanged is on and nothing was inserted.
func (s *Service) processFile(path string, opts RunOptions) FileResult {
	res := FileResult{Path: path}

	doc, err := markup.Load(path)
	if err != nil {
		res.Err = err
		s.log.Error().Err(err).Str("path", path).Msg("load failed")
		return res
	}

	head := doc.Head()
	res.GateAdded = inject.InsertTop(doc.Root, head, inject.Gate)
	res.SchedulerAdded = inject.InsertBottom(doc.Root, head, inject.Scheduler)

	unchanged := !res.GateAdded && !res.SchedulerAdded

	if opts.DryRun {
		s.log.Debug().Str("path", path).Bool("gate", res.GateAdded).Bool("scheduler", res.SchedulerAdded).Msg("dry run")
		return res
	}
	if s.cfg.SkipUnchanged && unchanged {
		res.Skipped = true
		s.log.Debug().Str("path", path).Msg("unchanged, skipping write")
		return res
	}

	// The backup is written from the bytes the document was loaded from,
	// so it is a faithful copy even if the file changed on disk since.
	backup := path + s.cfg.BackupSuffix
	if err := os.WriteFile(backup, doc.Original(), 0o644); err != nil {
		res.Err = fmt.Errorf("write backup: %w", err)
		s.log.Error().Err(err).Str("path", path).Msg("backup failed")
		return res
	}
	res.BackupPath = backup

	out, err := doc.Render()
	if err != nil {
		res.Err = err
		s.log.Error().Err(err).Str("path", path).Msg("render failed")
		return res
	}

	if err := os.WriteFile(path, out, 0o644); err != nil {
		res.Err = fmt.Errorf("write %s: %w", path, err)
		s.log.Error().Err(err).Str("path", path).Msg("rewrite failed")
		return res
	}

	s.log.Debug().
		Str("path", path).
		Bool("gate", res.GateAdded).
		Bool("scheduler", res.SchedulerAdded).
		Msg("processed")
	return res
}
