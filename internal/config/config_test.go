package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig_GetCasesPath(t *testing.T) {
	tests := []struct {
		name     string
		config   *Config
		expected string
	}{
		{
			name: "default path",
			config: &Config{
				ProjectPath: ".",
				CasesPath:   "cases",
				Flags:       Flags{},
			},
			expected: "cases",
		},
		{
			name: "with cases path flag",
			config: &Config{
				ProjectPath: "/project",
				CasesPath:   "cases",
				Flags: Flags{
					CasesPath: "checks",
				},
			},
			expected: "/project/checks",
		},
		{
			name: "absolute cases path",
			config: &Config{
				ProjectPath: "/project",
				CasesPath:   "cases",
				Flags: Flags{
					CasesPath: "/absolute/path",
				},
			},
			expected: "/absolute/path",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.config.GetCasesPath()
			if result != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, result)
			}
		})
	}
}

func TestNew(t *testing.T) {
	cfg := New()

	if cfg.ProjectPath != DefaultProjectPath {
		t.Errorf("expected ProjectPath %s, got %s", DefaultProjectPath, cfg.ProjectPath)
	}

	if cfg.Processors != DefaultProcessors {
		t.Errorf("expected Processors %d, got %d", DefaultProcessors, cfg.Processors)
	}

	if cfg.Timeout != DefaultTimeout {
		t.Errorf("expected Timeout %s, got %s", DefaultTimeout, cfg.Timeout)
	}

	if len(cfg.PathsToIgnore) != len(DefaultPathsToIgnore) {
		t.Errorf("expected %d paths to ignore, got %d", len(DefaultPathsToIgnore), len(cfg.PathsToIgnore))
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_Layers(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	writeFile(t, dir, DefaultConfigFile, `
cases_path = "checks"
processors = 2
timeout = "2s"
log_level = "info"
paths_to_ignore = ["vendor"]
`)
	writeFile(t, dir, DefaultEnvFile, "CTP_PROCESSORS=3\nCTP_LOG_LEVEL=debug\n")
	t.Setenv("CTP_LOG_LEVEL", "error")

	cfg, err := Load(Flags{Timeout: 9 * time.Second})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.CasesPath != "checks" {
		t.Errorf("expected cases path from file, got %s", cfg.CasesPath)
	}
	if cfg.Processors != 3 {
		t.Errorf("expected .env to override file processors, got %d", cfg.Processors)
	}
	if cfg.LogLevel != "error" {
		t.Errorf("expected process environment to override .env, got %s", cfg.LogLevel)
	}
	if cfg.Timeout != 9*time.Second {
		t.Errorf("expected flag timeout to win, got %s", cfg.Timeout)
	}
	if len(cfg.PathsToIgnore) != 1 || cfg.PathsToIgnore[0] != "vendor" {
		t.Errorf("expected paths to ignore from file, got %v", cfg.PathsToIgnore)
	}
}

func TestLoad_NoFiles(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load(Flags{Processors: 8})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Processors != 8 {
		t.Errorf("expected Processors 8, got %d", cfg.Processors)
	}
	if cfg.CasesPath != DefaultCasesPath {
		t.Errorf("expected CasesPath %s, got %s", DefaultCasesPath, cfg.CasesPath)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name  string
		file  string
		env   string
		flags func(dir string) Flags
	}{
		{name: "unknown key", file: "colour = \"red\"\n"},
		{name: "malformed toml", file: "processors = \n"},
		{name: "bad timeout", file: "timeout = \"soon\"\n"},
		{name: "non-positive processors", file: "processors = 0\n"},
		{name: "bad env processors", env: "CTP_PROCESSORS=many\n"},
		{
			name:  "missing explicit config file",
			flags: func(dir string) Flags { return Flags{ConfigFile: filepath.Join(dir, "missing.toml")} },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			t.Chdir(dir)
			if tt.file != "" {
				writeFile(t, dir, DefaultConfigFile, tt.file)
			}
			if tt.env != "" {
				writeFile(t, dir, DefaultEnvFile, tt.env)
			}
			var flags Flags
			if tt.flags != nil {
				flags = tt.flags(dir)
			}
			if _, err := Load(flags); err == nil {
				t.Errorf("expected an error")
			}
		})
	}
}

func TestParseShard(t *testing.T) {
	tests := []struct {
		input    string
		expected Shard
		wantErr  bool
	}{
		{input: "", expected: Shard{Index: 1, Total: 1}},
		{input: "1/3", expected: Shard{Index: 1, Total: 3}},
		{input: "3/3", expected: Shard{Index: 3, Total: 3}},
		{input: "0/3", wantErr: true},
		{input: "4/3", wantErr: true},
		{input: "1-3", wantErr: true},
		{input: "a/3", wantErr: true},
		{input: "1/0", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			shard, err := ParseShard(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error for %q", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if shard != tt.expected {
				t.Errorf("expected %+v, got %+v", tt.expected, shard)
			}
		})
	}
}

func TestConfig_GetHistoryPath(t *testing.T) {
	cfg := New()
	cfg.ProjectPath = "/project"

	if got := cfg.GetHistoryPath(); got != "/project/storage/history" {
		t.Errorf("expected /project/storage/history, got %s", got)
	}

	cfg.HistoryDir = "/var/ctp"
	if got := cfg.GetHistoryPath(); got != "/var/ctp" {
		t.Errorf("expected /var/ctp, got %s", got)
	}
}
