package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/temirov/skel/internal/utils"
)

func boolPointer(value bool) *bool {
	pointer := value
	return &pointer
}

func intPointer(value int) *int {
	pointer := value
	return &pointer
}

// isolate points HOME at a fresh directory and clears SKEL_* overrides.
func isolate(t *testing.T) (string, string) {
	t.Helper()
	homeDir := t.TempDir()
	t.Setenv("HOME", homeDir)
	t.Setenv("USERPROFILE", homeDir)
	for _, name := range []string{"SKEL_SERVE_ADDRESS", "SKEL_SERVE_RATE_LIMIT", "SKEL_SERVE_RATE_WINDOW"} {
		t.Setenv(name, "")
		os.Unsetenv(name)
	}
	return homeDir, t.TempDir()
}

func writeFile(t *testing.T, path string, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestLoadApplicationConfigurationMergesSources(t *testing.T) {
	testCases := []struct {
		name            string
		globalContent   string
		localContent    string
		explicitPath    string
		explicitContent string
		expectFormat    string
		expectSummary   *bool
		expectCopy      *bool
		expectDatabase  string
		expectAuthor    string
		expectAddress   string
	}{
		{
			name:           "local_overrides_global",
			globalContent:  "parse:\n  format: json\n  summary: false\ngenerate:\n  project:\n    author: acme\n    database: mysql\n",
			localContent:   "parse:\n  format: xml\n  copy: true\ngenerate:\n  project:\n    database: postgres\n",
			expectFormat:   "xml",
			expectSummary:  boolPointer(false),
			expectCopy:     boolPointer(true),
			expectDatabase: "postgres",
			expectAuthor:   "acme",
		},
		{
			name:            "explicit_path_replaces_local",
			localContent:    "parse:\n  format: xml\n",
			explicitPath:    "custom.yaml",
			explicitContent: "parse:\n  format: raw\nserve:\n  address: 127.0.0.1:9999\n",
			expectFormat:    "raw",
			expectAddress:   "127.0.0.1:9999",
		},
		{
			name: "no_files",
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			homeDir, workingDir := isolate(t)
			if testCase.globalContent != "" {
				writeFile(t, filepath.Join(homeDir, utils.GlobalConfigDirectoryName, utils.GlobalConfigFileName), testCase.globalContent)
			}
			if testCase.localContent != "" {
				writeFile(t, filepath.Join(workingDir, utils.ConfigFileName), testCase.localContent)
			}
			if testCase.explicitPath != "" {
				writeFile(t, filepath.Join(workingDir, testCase.explicitPath), testCase.explicitContent)
			}

			loaded, err := LoadApplicationConfiguration(LoadOptions{
				WorkingDirectory: workingDir,
				ExplicitFilePath: testCase.explicitPath,
			})
			if err != nil {
				t.Fatalf("LoadApplicationConfiguration error: %v", err)
			}
			if loaded.Parse.Format != testCase.expectFormat {
				t.Fatalf("expected format %q, got %q", testCase.expectFormat, loaded.Parse.Format)
			}
			if !equalBool(loaded.Parse.Summary, testCase.expectSummary) {
				t.Fatalf("unexpected summary %v", loaded.Parse.Summary)
			}
			if !equalBool(loaded.Parse.Copy, testCase.expectCopy) {
				t.Fatalf("unexpected copy %v", loaded.Parse.Copy)
			}
			if loaded.Generate.Project.Database != testCase.expectDatabase {
				t.Fatalf("expected database %q, got %q", testCase.expectDatabase, loaded.Generate.Project.Database)
			}
			if loaded.Generate.Project.Author != testCase.expectAuthor {
				t.Fatalf("expected author %q, got %q", testCase.expectAuthor, loaded.Generate.Project.Author)
			}
			if loaded.Serve.Address != testCase.expectAddress {
				t.Fatalf("expected address %q, got %q", testCase.expectAddress, loaded.Serve.Address)
			}
		})
	}
}

func TestEnvironmentOverridesServeSection(t *testing.T) {
	_, workingDir := isolate(t)
	writeFile(t, filepath.Join(workingDir, utils.ConfigFileName), "serve:\n  address: 127.0.0.1:8080\n  rate_limit: 30\n  rate_window: 1m\n")
	t.Setenv("SKEL_SERVE_ADDRESS", "0.0.0.0:7000")
	t.Setenv("SKEL_SERVE_RATE_LIMIT", "5")

	loaded, err := LoadApplicationConfiguration(LoadOptions{WorkingDirectory: workingDir})
	if err != nil {
		t.Fatalf("LoadApplicationConfiguration error: %v", err)
	}
	if loaded.Serve.Address != "0.0.0.0:7000" {
		t.Fatalf("expected environment address, got %q", loaded.Serve.Address)
	}
	if loaded.Serve.RateLimit == nil || *loaded.Serve.RateLimit != 5 {
		t.Fatalf("expected environment rate limit, got %v", loaded.Serve.RateLimit)
	}
	if loaded.Serve.RateWindow != "1m" {
		t.Fatalf("expected file rate window, got %q", loaded.Serve.RateWindow)
	}
}

func TestLoadApplicationConfigurationRejectsDirectory(t *testing.T) {
	_, workingDir := isolate(t)
	if err := os.Mkdir(filepath.Join(workingDir, utils.ConfigFileName), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if _, err := LoadApplicationConfiguration(LoadOptions{WorkingDirectory: workingDir}); err == nil {
		t.Fatalf("expected error for directory configuration path")
	}
}

func TestServeMergeKeepsUnsetFields(t *testing.T) {
	base := ServeConfiguration{Address: "a", RateLimit: intPointer(10), RateWindow: "1m"}
	merged := base.merge(ServeConfiguration{RateLimit: intPointer(0)})
	if merged.Address != "a" || merged.RateWindow != "1m" {
		t.Fatalf("unexpected merge result %+v", merged)
	}
	if merged.RateLimit == nil || *merged.RateLimit != 0 {
		t.Fatalf("explicit zero must override")
	}
}

func TestLoadEnvironmentFile(t *testing.T) {
	directory := t.TempDir()
	t.Setenv("SKEL_TEST_DOTENV", "")
	os.Unsetenv("SKEL_TEST_DOTENV")

	loaded, err := LoadEnvironmentFile(filepath.Join(directory, ".env"))
	if err != nil || loaded {
		t.Fatalf("missing file should be skipped, got %v %v", loaded, err)
	}

	path := filepath.Join(directory, ".env")
	writeFile(t, path, "SKEL_TEST_DOTENV=from-file\n")
	loaded, err = LoadEnvironmentFile(path)
	if err != nil || !loaded {
		t.Fatalf("expected file to load, got %v %v", loaded, err)
	}
	if value := os.Getenv("SKEL_TEST_DOTENV"); value != "from-file" {
		t.Fatalf("unexpected value %q", value)
	}
}

func equalBool(actual *bool, expected *bool) bool {
	if actual == nil || expected == nil {
		return actual == nil && expected == nil
	}
	return *actual == *expected
}
