package audit

import (
	"context"

	"github.com/colonyops/gatekeep/internal/core/inject"
	"github.com/colonyops/gatekeep/internal/core/markup"
)

// ScriptsCheck verifies that both injected blocks are present.
type ScriptsCheck struct{}

// NewScriptsCheck creates a new scripts presence check.
func NewScriptsCheck() *ScriptsCheck {
	return &ScriptsCheck{}
}

func (c *ScriptsCheck) Name() string {
	return "Scripts"
}

func (c *ScriptsCheck) Run(_ context.Context, doc *markup.Document) Result {
	result := Result{Name: c.Name()}

	if n := len(inject.FindExact(doc.Root, inject.Gate)); n == 0 {
		result.Items = append(result.Items, Item{
			Label:  "gate",
			Status: StatusFail,
			Detail: "not found",
		})
	} else {
		item := Item{Label: "gate", Status: StatusPass}
		if n > 1 {
			item.Status = StatusWarn
			item.Detail = "duplicated"
		}
		result.Items = append(result.Items, item)
	}

	if n := len(inject.FindExact(doc.Root, inject.Scheduler)); n == 0 {
		result.Items = append(result.Items, Item{
			Label:  "scheduler",
			Status: StatusFail,
			Detail: "not found",
		})
	} else {
		item := Item{Label: "scheduler", Status: StatusPass}
		if n > 1 {
			item.Status = StatusWarn
			item.Detail = "duplicated"
		}
		result.Items = append(result.Items, item)
	}

	return result
}
