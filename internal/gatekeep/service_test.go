package gatekeep

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/colonyops/gatekeep/internal/core/config"
	"github.com/colonyops/gatekeep/internal/core/inject"
	"github.com/colonyops/gatekeep/internal/core/markup"
)

const pageBody = `<!DOCTYPE html>
<html>
<head>
<title>landing</title>
</head>
<body>welcome</body>
</html>
`

func newTestService(t *testing.T, mutate func(cfg *config.Config)) (*Service, string) {
	t.Helper()

	root := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.Root = root
	if mutate != nil {
		mutate(&cfg)
	}
	return New(zerolog.Nop(), &cfg), root
}

func writePage(t *testing.T, root string, rel string) string {
	t.Helper()

	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(pageBody), 0o644))
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

// headScriptBodies returns the normalized bodies of the head's direct inline
// script children, in document order.
func headScriptBodies(t *testing.T, path string) []string {
	t.Helper()

	doc, err := markup.Load(path)
	require.NoError(t, err)

	head := markup.FindElement(doc.Root, "head")
	require.NotNil(t, head)

	var bodies []string
	for c := head.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || c.Data != "script" {
			continue
		}
		var sb strings.Builder
		for txt := c.FirstChild; txt != nil; txt = txt.NextSibling {
			if txt.Type == html.TextNode {
				sb.WriteString(txt.Data)
			}
		}
		bodies = append(bodies, inject.Normalize(sb.String()))
	}
	return bodies
}

func TestRun_EndToEnd(t *testing.T) {
	svc, root := newTestService(t, nil)
	path := writePage(t, root, "index.html")

	rep, err := svc.Run(context.Background(), RunOptions{})
	require.NoError(t, err)

	assert.True(t, rep.Ok())
	assert.Equal(t, 1, rep.Processed)
	assert.Equal(t, 1, rep.GateAdded)
	assert.Equal(t, 1, rep.SchedulerAdded)
	assert.Equal(t, 0, rep.Unchanged)
	assert.Equal(t, 0, rep.Failed)

	require.Len(t, rep.Files, 1)
	assert.Equal(t, path, rep.Files[0].Path)
	assert.True(t, rep.Files[0].GateAdded)
	assert.True(t, rep.Files[0].SchedulerAdded)
	assert.Equal(t, path+".bak", rep.Files[0].BackupPath)

	scripts := headScriptBodies(t, path)
	require.NotEmpty(t, scripts)
	assert.Equal(t, inject.Gate, scripts[0], "gate script must open the head")
	assert.Equal(t, inject.Scheduler, scripts[len(scripts)-1], "scheduler script must close the head")

	assert.Equal(t, pageBody, readFile(t, path+".bak"), "backup must hold the pre-run bytes")
	assert.Contains(t, readFile(t, path), "<title>landing</title>")
}

func TestRun_Idempotent(t *testing.T) {
	svc, root := newTestService(t, nil)
	path := writePage(t, root, "index.html")

	_, err := svc.Run(context.Background(), RunOptions{})
	require.NoError(t, err)

	rep, err := svc.Run(context.Background(), RunOptions{})
	require.NoError(t, err)

	assert.Equal(t, 0, rep.GateAdded)
	assert.Equal(t, 0, rep.SchedulerAdded)
	assert.Equal(t, 1, rep.Unchanged)

	doc, err := markup.Load(path)
	require.NoError(t, err)
	assert.Len(t, inject.FindExact(doc.Root, inject.Gate), 1, "repeat runs must not duplicate the gate")
	assert.Len(t, inject.FindExact(doc.Root, inject.Scheduler), 1, "repeat runs must not duplicate the scheduler")
}

func TestRun_BackupTracksLatestRun(t *testing.T) {
	svc, root := newTestService(t, nil)
	path := writePage(t, root, "index.html")

	_, err := svc.Run(context.Background(), RunOptions{})
	require.NoError(t, err)
	assert.Equal(t, pageBody, readFile(t, path+".bak"))

	afterFirst := readFile(t, path)

	_, err = svc.Run(context.Background(), RunOptions{})
	require.NoError(t, err)
	assert.Equal(t, afterFirst, readFile(t, path+".bak"), "each run backs up the bytes it found")
}

func TestRun_DryRun(t *testing.T) {
	svc, root := newTestService(t, nil)
	path := writePage(t, root, "index.html")

	rep, err := svc.Run(context.Background(), RunOptions{DryRun: true})
	require.NoError(t, err)

	assert.True(t, rep.DryRun)
	assert.Equal(t, 1, rep.GateAdded)
	assert.Equal(t, 1, rep.SchedulerAdded)

	assert.Equal(t, pageBody, readFile(t, path), "dry run must not touch the file")
	assert.NoFileExists(t, path+".bak")
}

func TestRun_SkipUnchanged(t *testing.T) {
	svc, root := newTestService(t, func(cfg *config.Config) {
		cfg.SkipUnchanged = true
	})
	path := writePage(t, root, "index.html")

	_, err := svc.Run(context.Background(), RunOptions{})
	require.NoError(t, err)
	require.NoError(t, os.Remove(path+".bak"))

	before := readFile(t, path)

	rep, err := svc.Run(context.Background(), RunOptions{})
	require.NoError(t, err)

	require.Len(t, rep.Files, 1)
	assert.True(t, rep.Files[0].Skipped)
	assert.Equal(t, 1, rep.Unchanged)

	assert.Equal(t, before, readFile(t, path))
	assert.NoFileExists(t, path+".bak", "skipped files must not be re-backed up")
}

func TestRun_FailuresAreIsolated(t *testing.T) {
	svc, root := newTestService(t, nil)
	good := writePage(t, root, "a.html")
	bad := writePage(t, root, "b.html")

	// A directory squatting on the backup path makes b.html's backup
	// write fail while a.html processes normally.
	require.NoError(t, os.Mkdir(bad+".bak", 0o755))

	before := readFile(t, bad)

	rep, err := svc.Run(context.Background(), RunOptions{})
	require.NoError(t, err)

	assert.False(t, rep.Ok())
	assert.Equal(t, 1, rep.Processed)
	assert.Equal(t, 1, rep.Failed)

	require.Len(t, rep.Files, 2)
	assert.Equal(t, good, rep.Files[0].Path)
	assert.NoError(t, rep.Files[0].Err)
	assert.Equal(t, bad, rep.Files[1].Path)
	assert.Error(t, rep.Files[1].Err)
	assert.Contains(t, rep.Files[1].Error, "write backup")

	assert.Equal(t, before, readFile(t, bad), "a failed backup must leave the file untouched")
	scripts := headScriptBodies(t, good)
	require.NotEmpty(t, scripts)
	assert.Equal(t, inject.Gate, scripts[0])
}

func TestRun_ReportKeepsWalkOrder(t *testing.T) {
	svc, root := newTestService(t, func(cfg *config.Config) {
		cfg.Workers = 4
	})
	want := []string{
		writePage(t, root, "a.html"),
		writePage(t, root, "sub/b.html"),
		writePage(t, root, "z.html"),
	}

	rep, err := svc.Run(context.Background(), RunOptions{})
	require.NoError(t, err)

	require.Len(t, rep.Files, len(want))
	for i, path := range want {
		assert.Equal(t, path, rep.Files[i].Path)
	}
}

func TestRun_OnResult(t *testing.T) {
	svc, root := newTestService(t, func(cfg *config.Config) {
		cfg.Workers = 2
	})
	writePage(t, root, "a.html")
	writePage(t, root, "b.html")
	writePage(t, root, "c.html")

	seen := map[string]bool{}
	rep, err := svc.Run(context.Background(), RunOptions{
		OnResult: func(res FileResult) { seen[res.Path] = true },
	})
	require.NoError(t, err)

	assert.Len(t, seen, len(rep.Files))
	for _, res := range rep.Files {
		assert.True(t, seen[res.Path])
	}
}

func TestRun_Cancelled(t *testing.T) {
	svc, root := newTestService(t, nil)
	path := writePage(t, root, "index.html")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rep, err := svc.Run(ctx, RunOptions{})
	require.NoError(t, err)

	assert.False(t, rep.Ok())
	require.Len(t, rep.Files, 1)
	assert.ErrorIs(t, rep.Files[0].Err, context.Canceled)

	assert.Equal(t, pageBody, readFile(t, path), "cancelled files must not be touched")
}

func TestRun_EmptyTree(t *testing.T) {
	svc, _ := newTestService(t, nil)

	rep, err := svc.Run(context.Background(), RunOptions{})
	require.NoError(t, err)

	assert.True(t, rep.Ok())
	assert.Empty(t, rep.Files)
	assert.Equal(t, 0, rep.Processed)
}

func TestProcessFile_LoadError(t *testing.T) {
	svc, root := newTestService(t, nil)

	res := svc.processFile(filepath.Join(root, "missing.html"), RunOptions{})
	assert.Error(t, res.Err)
	assert.False(t, res.GateAdded)
	assert.Empty(t, res.BackupPath)
}
