package templates_test

import (
	"errors"
	"testing"

	"github.com/temirov/skel/internal/parser"
	"github.com/temirov/skel/internal/templates"
	"github.com/temirov/skel/internal/tree"
	"github.com/temirov/skel/internal/utils"
)

func TestBuiltinTemplatesParse(t *testing.T) {
	registry, registryError := templates.NewRegistry()
	if registryError != nil {
		t.Fatalf("new registry: %v", registryError)
	}

	testCases := []struct {
		name             string
		expectedRoot     string
		expectedLanguage string
		minimumFiles     int
	}{
		{name: "express-api", expectedRoot: "api", expectedLanguage: "typescript", minimumFiles: 9},
		{name: "go-service", expectedRoot: "service", expectedLanguage: "go", minimumFiles: 8},
		{name: "nextjs-saas", expectedRoot: "saas-app", expectedLanguage: "typescript", minimumFiles: 12},
		{name: "react-library", expectedRoot: "ui-kit", expectedLanguage: "typescript", minimumFiles: 9},
	}

	listed := registry.List()
	if len(listed) != len(testCases) {
		t.Fatalf("expected %d templates, got %d", len(testCases), len(listed))
	}

	for index, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			if listed[index].Name != testCase.name {
				t.Fatalf("expected sorted entry %q, got %q", testCase.name, listed[index].Name)
			}
			template, found := registry.Lookup(testCase.name)
			if !found {
				t.Fatalf("template %s missing", testCase.name)
			}
			if template.Defaults.Language != testCase.expectedLanguage {
				t.Fatalf("expected language %s, got %s", testCase.expectedLanguage, template.Defaults.Language)
			}
			parsed := parser.ParseFileTree(template.Tree)
			if root := parsed.Node(parsed.Root()); root.Name != testCase.expectedRoot || !root.IsFolder() {
				t.Fatalf("unexpected root %+v", root)
			}
			if counts := tree.Count(parsed, parsed.Root()); counts.Files < testCase.minimumFiles {
				t.Fatalf("expected at least %d files, got %d", testCase.minimumFiles, counts.Files)
			}
		})
	}
}

func TestRegisterRejectsDuplicatesAndBadNames(t *testing.T) {
	registry := templates.NewEmptyRegistry()
	if registerError := registry.Register(templates.Template{Name: "custom", Tree: "x/\n"}); registerError != nil {
		t.Fatalf("register: %v", registerError)
	}

	testCases := []struct {
		name          string
		template      templates.Template
		expectedError error
	}{
		{name: "duplicate", template: templates.Template{Name: "custom"}, expectedError: templates.ErrDuplicateTemplate},
		{name: "duplicate_with_spaces", template: templates.Template{Name: " custom "}, expectedError: templates.ErrDuplicateTemplate},
		{name: "separator", template: templates.Template{Name: "a/b"}, expectedError: utils.ErrInvalidName},
		{name: "empty", template: templates.Template{}, expectedError: utils.ErrInvalidName},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			registerError := registry.Register(testCase.template)
			if !errors.Is(registerError, testCase.expectedError) {
				t.Fatalf("expected %v, got %v", testCase.expectedError, registerError)
			}
		})
	}
}

func TestRequireUnknownTemplate(t *testing.T) {
	registry := templates.NewEmptyRegistry()
	if _, requireError := registry.Require("missing"); !errors.Is(requireError, templates.ErrTemplateNotFound) {
		t.Fatalf("expected ErrTemplateNotFound, got %v", requireError)
	}
}
