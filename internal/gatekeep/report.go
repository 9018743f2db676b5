package gatekeep

// FileResult records what happened to one file during a run.
type FileResult struct {
	Path           string `json:"path"`
	GateAdded      bool   `json:"gate_added"`
	SchedulerAdded bool   `json:"scheduler_added"`
	// Skipped is set when skip-unchanged short-circuited the write.
	Skipped    bool   `json:"skipped,omitempty"`
	BackupPath string `json:"backup_path,omitempty"`

	Err error `json:"-"`
	// Error carries Err's message for JSON output.
	Error string `json:"error,omitempty"`
}

// Report aggregates one run over a tree. Files appear in walk order
// regardless of worker count.
type Report struct {
	Root           string       `json:"root"`
	DryRun         bool         `json:"dry_run,omitempty"`
	Files          []FileResult `json:"files"`
	Processed      int          `json:"processed"`
	GateAdded      int          `json:"gate_added"`
	SchedulerAdded int          `json:"scheduler_added"`
	Unchanged      int          `json:"unchanged"`
	Failed         int          `json:"failed"`
}

// Ok reports whether every file processed cleanly.
func (r *Report) Ok() bool { return r.Failed == 0 }

func newReport(root string, dryRun bool, results []FileResult) *Report {
	rep := &Report{Root: root, DryRun: dryRun, Files: results}
	for i := range results {
		res := &results[i]
		if res.Err != nil {
			res.Error = res.Err.Error()
			rep.Failed++
			continue
		}

		rep.Processed++
		if res.GateAdded {
			rep.GateAdded++
		}
		if res.SchedulerAdded {
			rep.SchedulerAdded++
		}
		if !res.GateAdded && !res.SchedulerAdded {
			rep.Unchanged++
		}
	}
	return rep
}
