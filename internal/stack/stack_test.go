package stack_test

import (
	"errors"
	"testing"

	"github.com/temirov/skel/internal/stack"
	"github.com/temirov/skel/internal/utils"
)

func TestNormalizeFillsDefaults(t *testing.T) {
	normalized := stack.Project{Name: "  demo  ", Database: " Postgres "}.Normalize()
	if normalized.Name != "demo" {
		t.Fatalf("expected trimmed name, got %q", normalized.Name)
	}
	if normalized.Database != stack.DatabasePostgres {
		t.Fatalf("expected lower-cased database, got %q", normalized.Database)
	}
	if normalized.Language != stack.LanguageTypeScript || normalized.Auth != stack.ChoiceNone || normalized.License != "MIT" {
		t.Fatalf("unexpected defaults: %+v", normalized)
	}
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name          string
		project       stack.Project
		expectedError error
	}{
		{name: "valid_defaults", project: stack.Project{Name: "demo"}},
		{name: "valid_full_stack", project: stack.Project{Name: "demo", Database: "supabase", Auth: "clerk", UI: "shadcn", Testing: "vitest", Deploy: "vercel"}},
		{name: "unknown_database", project: stack.Project{Name: "demo", Database: "oracle"}, expectedError: stack.ErrInvalidChoice},
		{name: "unknown_language", project: stack.Project{Name: "demo", Language: "cobol"}, expectedError: stack.ErrInvalidChoice},
		{name: "empty_name", project: stack.Project{}, expectedError: utils.ErrInvalidName},
		{name: "name_with_separator", project: stack.Project{Name: "a/b"}, expectedError: utils.ErrInvalidName},
		{name: "dot_dot_name", project: stack.Project{Name: ".."}, expectedError: utils.ErrInvalidName},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			validationError := testCase.project.Normalize().Validate()
			if testCase.expectedError == nil {
				if validationError != nil {
					t.Fatalf("unexpected error: %v", validationError)
				}
				return
			}
			if !errors.Is(validationError, testCase.expectedError) {
				t.Fatalf("expected %v, got %v", testCase.expectedError, validationError)
			}
		})
	}
}

func TestMergeKeepsBaseForEmptyOverrides(t *testing.T) {
	base := stack.Project{Name: "base", Database: "postgres", UI: "tailwind"}
	merged := base.Merge(stack.Project{UI: "chakra", Database: "  "})
	if merged.Name != "base" || merged.Database != "postgres" || merged.UI != "chakra" {
		t.Fatalf("unexpected merge result: %+v", merged)
	}
}

func TestPackageNameAndModulePath(t *testing.T) {
	testCases := []struct {
		name           string
		project        stack.Project
		expectedName   string
		expectedModule string
	}{
		{name: "plain", project: stack.Project{Name: "demo"}, expectedName: "demo", expectedModule: "github.com/example/demo"},
		{name: "spaces_and_case", project: stack.Project{Name: "My Cool App", Author: "Jane Doe"}, expectedName: "my-cool-app", expectedModule: "github.com/jane-doe/my-cool-app"},
		{name: "symbols_only", project: stack.Project{Name: "###"}, expectedName: "my-app", expectedModule: "github.com/example/my-app"},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			if actual := testCase.project.PackageName(); actual != testCase.expectedName {
				t.Fatalf("expected package name %q, got %q", testCase.expectedName, actual)
			}
			if actual := testCase.project.ModulePath(); actual != testCase.expectedModule {
				t.Fatalf("expected module path %q, got %q", testCase.expectedModule, actual)
			}
		})
	}
}

func TestCategoriesSorted(t *testing.T) {
	categories := stack.Categories()
	expected := []string{"auth", "database", "deploy", "language", "testing", "ui"}
	if len(categories) != len(expected) {
		t.Fatalf("expected %v, got %v", expected, categories)
	}
	for index := range expected {
		if categories[index] != expected[index] {
			t.Fatalf("expected %v, got %v", expected, categories)
		}
	}
}
