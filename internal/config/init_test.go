package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/temirov/skel/internal/utils"
)

func TestInitializeConfigurationCreatesLocalFile(t *testing.T) {
	_, workingDirectory := isolate(t)
	path, err := InitializeConfiguration(InitOptions{WorkingDirectory: workingDirectory, Target: InitTargetLocal})
	if err != nil {
		t.Fatalf("InitializeConfiguration error: %v", err)
	}
	expectedPath := filepath.Join(workingDirectory, utils.ConfigFileName)
	if path != expectedPath {
		t.Fatalf("expected path %s, got %s", expectedPath, path)
	}

	loaded, loadErr := LoadApplicationConfiguration(LoadOptions{WorkingDirectory: workingDirectory})
	if loadErr != nil {
		t.Fatalf("written configuration does not load: %v", loadErr)
	}
	if loaded.Parse.Format != "raw" || loaded.Serve.RateWindow != "1m" {
		t.Fatalf("unexpected defaults: %+v", loaded)
	}
	if loaded.Serve.RateLimit == nil || *loaded.Serve.RateLimit != 30 {
		t.Fatalf("unexpected rate limit: %v", loaded.Serve.RateLimit)
	}
	if loaded.Generate.Project.License != "MIT" {
		t.Fatalf("unexpected license %q", loaded.Generate.Project.License)
	}
}

func TestInitializeConfigurationHonorsGlobalTarget(t *testing.T) {
	homeDir, _ := isolate(t)
	path, err := InitializeConfiguration(InitOptions{Target: InitTargetGlobal, Force: true})
	if err != nil {
		t.Fatalf("InitializeConfiguration error: %v", err)
	}
	if !strings.HasPrefix(path, homeDir) {
		t.Fatalf("expected configuration under home dir, got %s", path)
	}
	if _, statErr := os.Stat(path); statErr != nil {
		t.Fatalf("expected file to exist at %s: %v", path, statErr)
	}
}

func TestInitializeConfigurationPreventsOverwriteWithoutForce(t *testing.T) {
	testCases := []struct {
		name          string
		force         bool
		expectedError error
	}{
		{name: "without force", expectedError: ErrConfigurationExists},
		{name: "with force", force: true},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			workingDirectory := t.TempDir()
			path := filepath.Join(workingDirectory, utils.ConfigFileName)
			if err := os.WriteFile(path, []byte("existing"), 0o600); err != nil {
				t.Fatalf("write seed config: %v", err)
			}
			_, err := InitializeConfiguration(InitOptions{WorkingDirectory: workingDirectory, Force: testCase.force})
			if testCase.expectedError != nil {
				if !errors.Is(err, testCase.expectedError) {
					t.Fatalf("expected %v, got %v", testCase.expectedError, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			content, _ := os.ReadFile(path)
			if !strings.Contains(string(content), "serve:") {
				t.Fatalf("configuration was not overwritten")
			}
		})
	}
}

func TestInitializeConfigurationRejectsUnknownTarget(t *testing.T) {
	if _, err := InitializeConfiguration(InitOptions{Target: "remote"}); err == nil {
		t.Fatalf("expected error")
	}
}
