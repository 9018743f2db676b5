package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Root != "." {
		t.Errorf("Root = %q, want %q", cfg.Root, ".")
	}
	if cfg.Extension != ".html" {
		t.Errorf("Extension = %q, want %q", cfg.Extension, ".html")
	}
	if cfg.BackupSuffix != ".bak" {
		t.Errorf("BackupSuffix = %q, want %q", cfg.BackupSuffix, ".bak")
	}
	if cfg.Workers != 1 {
		t.Errorf("Workers = %d, want 1", cfg.Workers)
	}
	if cfg.SkipUnchanged {
		t.Error("SkipUnchanged should default to false")
	}
	if cfg.Theme != "tokyo-night" {
		t.Errorf("Theme = %q, want %q", cfg.Theme, "tokyo-night")
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() error: %v", err)
	}
}

func TestLoad_NoConfigFile(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Root != "." {
		t.Errorf("Root = %q, want default %q", cfg.Root, ".")
	}
	if cfg.Path != "" {
		t.Errorf("Path = %q, want empty for defaults", cfg.Path)
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Extension != ".html" {
		t.Errorf("Extension = %q, want default %q", cfg.Extension, ".html")
	}
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	content := `root: ./site
extension: .htm
backup_suffix: .orig
exclude:
  - "**/node_modules/**"
  - "vendor/**"
workers: 4
skip_unchanged: true
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Root != "./site" {
		t.Errorf("Root = %q, want %q", cfg.Root, "./site")
	}
	if cfg.Extension != ".htm" {
		t.Errorf("Extension = %q, want %q", cfg.Extension, ".htm")
	}
	if cfg.BackupSuffix != ".orig" {
		t.Errorf("BackupSuffix = %q, want %q", cfg.BackupSuffix, ".orig")
	}
	if len(cfg.Exclude) != 2 {
		t.Errorf("Exclude len = %d, want 2", len(cfg.Exclude))
	}
	if cfg.Workers != 4 {
		t.Errorf("Workers = %d, want 4", cfg.Workers)
	}
	if !cfg.SkipUnchanged {
		t.Error("SkipUnchanged = false, want true")
	}
	if cfg.Path != path {
		t.Errorf("Path = %q, want %q", cfg.Path, path)
	}
}

func TestLoad_PartialFileMergesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte("workers: 8\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Workers != 8 {
		t.Errorf("Workers = %d, want 8", cfg.Workers)
	}
	if cfg.Root != "." {
		t.Errorf("Root = %q, want default %q", cfg.Root, ".")
	}
	if cfg.Extension != ".html" {
		t.Errorf("Extension = %q, want default %q", cfg.Extension, ".html")
	}
	if cfg.BackupSuffix != ".bak" {
		t.Errorf("BackupSuffix = %q, want default %q", cfg.BackupSuffix, ".bak")
	}
}

func TestLoad_BadYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte("root: [unterminated\n  nope"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("Load() expected parse error, got nil")
	}
}

func TestLoad_InvalidConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte("workers: -1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("Load() expected validation error, got nil")
	}
}

func TestApplyDefaults(t *testing.T) {
	tests := []struct {
		name string
		in   Config
		want Config
	}{
		{
			name: "empty config gets all defaults",
			in:   Config{},
			want: Config{Root: ".", Extension: ".html", BackupSuffix: ".bak", Workers: 1},
		},
		{
			name: "set fields kept",
			in:   Config{Root: "/srv/www", Workers: 3},
			want: Config{Root: "/srv/www", Extension: ".html", BackupSuffix: ".bak", Workers: 3},
		},
		{
			name: "negative workers not defaulted",
			in:   Config{Workers: -2},
			want: Config{Root: ".", Extension: ".html", BackupSuffix: ".bak", Workers: -2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.in
			cfg.applyDefaults()
			if cfg.Root != tt.want.Root {
				t.Errorf("Root = %q, want %q", cfg.Root, tt.want.Root)
			}
			if cfg.Extension != tt.want.Extension {
				t.Errorf("Extension = %q, want %q", cfg.Extension, tt.want.Extension)
			}
			if cfg.BackupSuffix != tt.want.BackupSuffix {
				t.Errorf("BackupSuffix = %q, want %q", cfg.BackupSuffix, tt.want.BackupSuffix)
			}
			if cfg.Workers != tt.want.Workers {
				t.Errorf("Workers = %d, want %d", cfg.Workers, tt.want.Workers)
			}
		})
	}
}
