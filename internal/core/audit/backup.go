package audit

import (
	"context"
	"os"

	"github.com/colonyops/gatekeep/internal/core/markup"
)

// BackupCheck reports whether a file has a backup sibling. Missing backups
// are warnings: the file may simply not have been processed yet, or backups
// were cleaned.
type BackupCheck struct {
	suffix string
}

// NewBackupCheck creates a backup check for the given backup suffix.
func NewBackupCheck(suffix string) *BackupCheck {
	return &BackupCheck{suffix: suffix}
}

func (c *BackupCheck) Name() string {
	return "Backup"
}

func (c *BackupCheck) Run(_ context.Context, doc *markup.Document) Result {
	result := Result{Name: c.Name()}

	backup := doc.Path + c.suffix
	info, err := os.Stat(backup)
	switch {
	case err == nil && info.Mode().IsRegular():
		result.Items = append(result.Items, Item{Label: "backup", Status: StatusPass, Detail: backup})
	case os.IsNotExist(err):
		result.Items = append(result.Items, Item{Label: "backup", Status: StatusWarn, Detail: "not found"})
	case err != nil:
		result.Items = append(result.Items, Item{Label: "backup", Status: StatusWarn, Detail: err.Error()})
	default:
		result.Items = append(result.Items, Item{Label: "backup", Status: StatusWarn, Detail: "not a regular file"})
	}

	return result
}
