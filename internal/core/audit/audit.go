// Package audit inspects files for script coverage without mutating them.
package audit

import (
	"context"

	"github.com/colonyops/gatekeep/internal/core/markup"
)

// Status represents the result status of a check item.
type Status string

// Supported item statuses.
const (
	StatusPass Status = "pass"
	StatusWarn Status = "warn"
	StatusFail Status = "fail"
)

// Item represents a single line item within a check result.
type Item struct {
	Label  string `json:"label"`
	Status Status `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// Result represents the outcome of one check against one document.
type Result struct {
	Name  string `json:"name"`
	Items []Item `json:"items"`
}

// Check defines the interface for a per-file audit check.
type Check interface {
	Name() string
	Run(ctx context.Context, doc *markup.Document) Result
}

// RunAll executes all checks against one document and returns their results.
func RunAll(ctx context.Context, doc *markup.Document, checks []Check) []Result {
	results := make([]Result, 0, len(checks))
	for _, check := range checks {
		results = append(results, check.Run(ctx, doc))
	}
	return results
}

// Summary returns counts of passed, warned, and failed items across all results.
func Summary(results []Result) (passed, warned, failed int) {
	for _, r := range results {
		for _, item := range r.Items {
			switch item.Status {
			case StatusPass:
				passed++
			case StatusWarn:
				warned++
			case StatusFail:
				failed++
			}
		}
	}

	return passed, warned, failed
}
