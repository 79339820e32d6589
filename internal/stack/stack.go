// Package stack describes the project metadata and technology choices a skeleton is generated for.
package stack

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/temirov/skel/internal/utils"
)

// Choice values shared by every optional category.
const (
	ChoiceNone = "none"

	LanguageTypeScript = "typescript"
	LanguageGo         = "go"

	DatabasePostgres = "postgres"
	DatabaseMySQL    = "mysql"
	DatabaseSQLite   = "sqlite"
	DatabaseMongoDB  = "mongodb"
	DatabaseSupabase = "supabase"

	AuthNextAuth = "nextauth"
	AuthClerk    = "clerk"
	AuthSupabase = "supabase"

	UITailwind = "tailwind"
	UIShadcn   = "shadcn"
	UIChakra   = "chakra"

	TestingJest       = "jest"
	TestingVitest     = "vitest"
	TestingPlaywright = "playwright"

	DeployVercel  = "vercel"
	DeployNetlify = "netlify"
	DeployDocker  = "docker"

	defaultLicense     = "MIT"
	defaultProjectName = "my-app"
	defaultModuleOwner = "example"
	modulePathFormat   = "github.com/%s/%s"
)

// ErrInvalidChoice is returned when a category holds a value outside its accepted set.
var ErrInvalidChoice = errors.New("invalid choice")

const (
	errorInvalidChoiceFormat = "%s %q (accepted: %s): %w"
	errorProjectNameFormat   = "project name: %w"
)

var (
	acceptedLanguages = []string{LanguageTypeScript, LanguageGo}
	acceptedDatabases = []string{ChoiceNone, DatabasePostgres, DatabaseMySQL, DatabaseSQLite, DatabaseMongoDB, DatabaseSupabase}
	acceptedAuth      = []string{ChoiceNone, AuthNextAuth, AuthClerk, AuthSupabase}
	acceptedUI        = []string{ChoiceNone, UITailwind, UIShadcn, UIChakra}
	acceptedTesting   = []string{ChoiceNone, TestingJest, TestingVitest, TestingPlaywright}
	acceptedDeploy    = []string{ChoiceNone, DeployVercel, DeployNetlify, DeployDocker}

	slugDisallowed = regexp.MustCompile(`[^a-z0-9._-]+`)
)

// Project holds the wizard answers: metadata plus stack choices.
type Project struct {
	Name        string `json:"name" yaml:"name" mapstructure:"name"`
	Description string `json:"description,omitempty" yaml:"description" mapstructure:"description"`
	Author      string `json:"author,omitempty" yaml:"author" mapstructure:"author"`
	License     string `json:"license,omitempty" yaml:"license" mapstructure:"license"`
	Language    string `json:"language,omitempty" yaml:"language" mapstructure:"language"`
	Database    string `json:"database,omitempty" yaml:"database" mapstructure:"database"`
	Auth        string `json:"auth,omitempty" yaml:"auth" mapstructure:"auth"`
	UI          string `json:"ui,omitempty" yaml:"ui" mapstructure:"ui"`
	Testing     string `json:"testing,omitempty" yaml:"testing" mapstructure:"testing"`
	Deploy      string `json:"deploy,omitempty" yaml:"deploy" mapstructure:"deploy"`
}

// Merge overlays the non-empty fields of override onto the receiver.
func (project Project) Merge(override Project) Project {
	result := project
	overlay := func(target *string, value string) {
		if strings.TrimSpace(value) != utils.EmptyString {
			*target = value
		}
	}
	overlay(&result.Name, override.Name)
	overlay(&result.Description, override.Description)
	overlay(&result.Author, override.Author)
	overlay(&result.License, override.License)
	overlay(&result.Language, override.Language)
	overlay(&result.Database, override.Database)
	overlay(&result.Auth, override.Auth)
	overlay(&result.UI, override.UI)
	overlay(&result.Testing, override.Testing)
	overlay(&result.Deploy, override.Deploy)
	return result
}

// Normalize trims and lower-cases the choices and fills defaults for empty ones.
func (project Project) Normalize() Project {
	result := project
	result.Name = strings.TrimSpace(result.Name)
	result.Description = strings.TrimSpace(result.Description)
	result.Author = strings.TrimSpace(result.Author)
	result.License = strings.TrimSpace(result.License)
	if result.License == utils.EmptyString {
		result.License = defaultLicense
	}
	result.Language = normalizeChoice(result.Language, LanguageTypeScript)
	result.Database = normalizeChoice(result.Database, ChoiceNone)
	result.Auth = normalizeChoice(result.Auth, ChoiceNone)
	result.UI = normalizeChoice(result.UI, ChoiceNone)
	result.Testing = normalizeChoice(result.Testing, ChoiceNone)
	result.Deploy = normalizeChoice(result.Deploy, ChoiceNone)
	return result
}

// Validate reports the first invalid field. Call Normalize first.
func (project Project) Validate() error {
	if nameError := utils.ValidateName(project.Name); nameError != nil {
		return fmt.Errorf(errorProjectNameFormat, nameError)
	}
	checks := []struct {
		field    string
		value    string
		accepted []string
	}{
		{field: "language", value: project.Language, accepted: acceptedLanguages},
		{field: "database", value: project.Database, accepted: acceptedDatabases},
		{field: "auth", value: project.Auth, accepted: acceptedAuth},
		{field: "ui", value: project.UI, accepted: acceptedUI},
		{field: "testing", value: project.Testing, accepted: acceptedTesting},
		{field: "deploy", value: project.Deploy, accepted: acceptedDeploy},
	}
	for _, check := range checks {
		if !contains(check.accepted, check.value) {
			return fmt.Errorf(errorInvalidChoiceFormat, check.field, check.value, strings.Join(check.accepted, ", "), ErrInvalidChoice)
		}
	}
	return nil
}

// PackageName derives an npm-compatible package name from the project name.
func (project Project) PackageName() string {
	slug := slugDisallowed.ReplaceAllString(strings.ToLower(strings.TrimSpace(project.Name)), "-")
	slug = strings.Trim(slug, "-._")
	if slug == utils.EmptyString {
		return defaultProjectName
	}
	return slug
}

// ModulePath derives a Go module path from the author and the package name.
func (project Project) ModulePath() string {
	owner := slugDisallowed.ReplaceAllString(strings.ToLower(strings.TrimSpace(project.Author)), "-")
	owner = strings.Trim(owner, "-._")
	if owner == utils.EmptyString {
		owner = defaultModuleOwner
	}
	return fmt.Sprintf(modulePathFormat, owner, project.PackageName())
}

// IsTypeScript reports whether the project targets the Node.js toolchain.
func (project Project) IsTypeScript() bool {
	return project.Language == LanguageTypeScript
}

// HasDatabase reports whether a database was chosen.
func (project Project) HasDatabase() bool {
	return project.Database != ChoiceNone && project.Database != utils.EmptyString
}

// Choices lists the accepted values per category, sorted by category name.
func Choices() map[string][]string {
	return map[string][]string{
		"auth":     append([]string(nil), acceptedAuth...),
		"database": append([]string(nil), acceptedDatabases...),
		"deploy":   append([]string(nil), acceptedDeploy...),
		"language": append([]string(nil), acceptedLanguages...),
		"testing":  append([]string(nil), acceptedTesting...),
		"ui":       append([]string(nil), acceptedUI...),
	}
}

// Categories returns the category names of Choices in sorted order.
func Categories() []string {
	choices := Choices()
	categories := make([]string, 0, len(choices))
	for category := range choices {
		categories = append(categories, category)
	}
	sort.Strings(categories)
	return categories
}

func normalizeChoice(value string, fallback string) string {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if normalized == utils.EmptyString {
		return fallback
	}
	return normalized
}

func contains(values []string, target string) bool {
	for _, value := range values {
		if value == target {
			return true
		}
	}
	return false
}
