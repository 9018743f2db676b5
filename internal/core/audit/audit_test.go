package audit

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/colonyops/gatekeep/internal/core/inject"
	"github.com/colonyops/gatekeep/internal/core/markup"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// loadFixture writes content to a temp file and loads it as a document.
func loadFixture(t *testing.T, content string) *markup.Document {
	t.Helper()
	path := filepath.Join(t.TempDir(), "page.html")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	doc, err := markup.Load(path)
	require.NoError(t, err)
	return doc
}

// processedPage returns markup as the injector would leave it: gate first in
// head, scheduler last.
func processedPage(extraHead string) string {
	return "<html><head><script>" + inject.Gate + "</script>" +
		extraHead +
		"<script>" + inject.Scheduler + "</script></head><body>x</body></html>"
}

func TestRunAll(t *testing.T) {
	doc := loadFixture(t, processedPage("<title>t</title>"))

	checks := []Check{NewScriptsCheck(), NewPlacementCheck(), NewBackupCheck(".bak")}
	results := RunAll(context.Background(), doc, checks)

	require.Len(t, results, len(checks))
	assert.Equal(t, "Scripts", results[0].Name)
	assert.Equal(t, "Placement", results[1].Name)
	assert.Equal(t, "Backup", results[2].Name)
}

func TestSummary(t *testing.T) {
	results := []Result{
		{Name: "a", Items: []Item{
			{Status: StatusPass},
			{Status: StatusPass},
			{Status: StatusWarn},
		}},
		{Name: "b", Items: []Item{
			{Status: StatusFail},
		}},
		{Name: "empty"},
	}

	passed, warned, failed := Summary(results)
	assert.Equal(t, 2, passed)
	assert.Equal(t, 1, warned)
	assert.Equal(t, 1, failed)
}

func TestBackupCheck(t *testing.T) {
	doc := loadFixture(t, processedPage(""))

	// No backup written yet.
	result := NewBackupCheck(".bak").Run(context.Background(), doc)
	require.Len(t, result.Items, 1)
	assert.Equal(t, StatusWarn, result.Items[0].Status)

	// Backup sibling appears.
	require.NoError(t, os.WriteFile(doc.Path+".bak", doc.Original(), 0o644))
	result = NewBackupCheck(".bak").Run(context.Background(), doc)
	require.Len(t, result.Items, 1)
	assert.Equal(t, StatusPass, result.Items[0].Status)
	assert.Equal(t, doc.Path+".bak", result.Items[0].Detail)
}
