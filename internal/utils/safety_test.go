package utils_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/temirov/skel/internal/utils"
)

func TestValidateName(t *testing.T) {
	testCases := []struct {
		name      string
		value     string
		expectErr bool
	}{
		{name: "plain", value: "package.json"},
		{name: "dotfile", value: ".env.example"},
		{name: "empty", value: "", expectErr: true},
		{name: "blank", value: "   ", expectErr: true},
		{name: "dot", value: ".", expectErr: true},
		{name: "dot_dot", value: "..", expectErr: true},
		{name: "forward_slash", value: "a/b", expectErr: true},
		{name: "back_slash", value: `a\b`, expectErr: true},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			validationError := utils.ValidateName(testCase.value)
			if testCase.expectErr != (validationError != nil) {
				t.Fatalf("unexpected result for %q: %v", testCase.value, validationError)
			}
			if validationError != nil && !errors.Is(validationError, utils.ErrInvalidName) {
				t.Fatalf("expected ErrInvalidName, got %v", validationError)
			}
		})
	}
}

func TestSafeJoin(t *testing.T) {
	root := t.TempDir()

	joined, joinError := utils.SafeJoin(root, "app", "src", "index.ts")
	if joinError != nil {
		t.Fatalf("safe join: %v", joinError)
	}
	if joined != filepath.Join(root, "app", "src", "index.ts") {
		t.Fatalf("unexpected path %s", joined)
	}

	if _, joinError = utils.SafeJoin(root, "app", "..", "..", "etc"); !errors.Is(joinError, utils.ErrPathEscapesRoot) {
		t.Fatalf("expected ErrPathEscapesRoot, got %v", joinError)
	}
	if _, joinError = utils.SafeJoin(root, ".."); !errors.Is(joinError, utils.ErrPathEscapesRoot) {
		t.Fatalf("expected ErrPathEscapesRoot, got %v", joinError)
	}
	if same, sameError := utils.SafeJoin(root); sameError != nil || same != filepath.Clean(root) {
		t.Fatalf("expected root itself, got %s %v", same, sameError)
	}
}
