// Package templates provides the starter project templates offered by the wizard.
package templates

import (
	"embed"
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/temirov/skel/internal/stack"
	"github.com/temirov/skel/internal/utils"
)

//go:embed samples/*.txt
var sampleFiles embed.FS

const (
	samplesDirectory = "samples"
	sampleExtension  = ".txt"

	errorTemplateNameFormat      = "template name %q: %w"
	errorDuplicateTemplateFormat = "template %q: %w"
	errorReadSampleFormat        = "read sample %s: %w"
	errorLookupFormat            = "%q: %w"
)

var (
	// ErrTemplateNotFound is returned by Require for unknown names.
	ErrTemplateNotFound = errors.New("template not found")
	// ErrDuplicateTemplate is returned by Register when the name is taken.
	ErrDuplicateTemplate = errors.New("template already registered")
)

// Template is a named starter: a sample tree plus the stack it is tuned for.
type Template struct {
	Name        string        `json:"name"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Tree        string        `json:"tree"`
	Defaults    stack.Project `json:"defaults"`
}

// Registry holds templates by name. It is safe for concurrent use.
type Registry struct {
	mutex     sync.RWMutex
	templates map[string]Template
}

type builtinTemplate struct {
	name        string
	title       string
	description string
	defaults    stack.Project
}

var builtinTemplates = []builtinTemplate{
	{
		name:        "nextjs-saas",
		title:       "Next.js SaaS",
		description: "Next.js app router with auth, database access and Vercel deployment",
		defaults: stack.Project{
			Language: stack.LanguageTypeScript,
			Database: stack.DatabasePostgres,
			Auth:     stack.AuthNextAuth,
			UI:       stack.UITailwind,
			Testing:  stack.TestingVitest,
			Deploy:   stack.DeployVercel,
		},
	},
	{
		name:        "express-api",
		title:       "Express API",
		description: "TypeScript Express service with a SQL schema and Docker packaging",
		defaults: stack.Project{
			Language: stack.LanguageTypeScript,
			Database: stack.DatabasePostgres,
			Testing:  stack.TestingJest,
			Deploy:   stack.DeployDocker,
		},
	},
	{
		name:        "go-service",
		title:       "Go service",
		description: "Go HTTP service with a cmd/internal layout, CI workflow and Dockerfile",
		defaults: stack.Project{
			Language: stack.LanguageGo,
			Database: stack.DatabaseSQLite,
			Deploy:   stack.DeployDocker,
		},
	},
	{
		name:        "react-library",
		title:       "React library",
		description: "Component library with tests and a Netlify-hosted playground",
		defaults: stack.Project{
			Language: stack.LanguageTypeScript,
			UI:       stack.UITailwind,
			Testing:  stack.TestingVitest,
			Deploy:   stack.DeployNetlify,
		},
	},
}

// NewRegistry returns a registry preloaded with the built-in templates.
func NewRegistry() (*Registry, error) {
	registry := NewEmptyRegistry()
	for _, builtin := range builtinTemplates {
		sampleName := path.Join(samplesDirectory, builtin.name+sampleExtension)
		sampleBytes, readError := sampleFiles.ReadFile(sampleName)
		if readError != nil {
			return nil, fmt.Errorf(errorReadSampleFormat, sampleName, readError)
		}
		registerError := registry.Register(Template{
			Name:        builtin.name,
			Title:       builtin.title,
			Description: builtin.description,
			Tree:        string(sampleBytes),
			Defaults:    builtin.defaults.Normalize(),
		})
		if registerError != nil {
			return nil, registerError
		}
	}
	return registry, nil
}

// NewEmptyRegistry returns a registry without templates.
func NewEmptyRegistry() *Registry {
	return &Registry{templates: make(map[string]Template)}
}

// Register adds a template. Names must be single path segments and unique.
func (registry *Registry) Register(template Template) error {
	name := strings.TrimSpace(template.Name)
	if validationError := utils.ValidateName(name); validationError != nil {
		return fmt.Errorf(errorTemplateNameFormat, template.Name, validationError)
	}
	template.Name = name

	registry.mutex.Lock()
	defer registry.mutex.Unlock()
	if _, exists := registry.templates[name]; exists {
		return fmt.Errorf(errorDuplicateTemplateFormat, name, ErrDuplicateTemplate)
	}
	registry.templates[name] = template
	return nil
}

// Lookup returns the template registered under name.
func (registry *Registry) Lookup(name string) (Template, bool) {
	registry.mutex.RLock()
	defer registry.mutex.RUnlock()
	template, found := registry.templates[strings.TrimSpace(name)]
	return template, found
}

// Require is Lookup with an ErrTemplateNotFound error for unknown names.
func (registry *Registry) Require(name string) (Template, error) {
	template, found := registry.Lookup(name)
	if !found {
		return Template{}, fmt.Errorf(errorLookupFormat, name, ErrTemplateNotFound)
	}
	return template, nil
}

// List returns all templates sorted by name.
func (registry *Registry) List() []Template {
	registry.mutex.RLock()
	defer registry.mutex.RUnlock()
	list := make([]Template, 0, len(registry.templates))
	for _, template := range registry.templates {
		list = append(list, template)
	}
	sort.Slice(list, func(left, right int) bool {
		return list[left].Name < list[right].Name
	})
	return list
}
