package generator

import (
	"fmt"
	"go/token"
	"path"
	"strings"
	"unicode"

	"golang.org/x/mod/modfile"
	"golang.org/x/tools/imports"

	"github.com/temirov/skel/internal/stack"
)

const (
	goVersion          = "1.22"
	mainPackageName    = "main"
	fallbackGoPackage  = "app"
	keywordSuffix      = "pkg"
	goSourceTemplate   = "go_source.tmpl"
	goMainTemplate     = "go_main.tmpl"
	goTestTemplate     = "go_test.tmpl"
	goTestSuffix       = "_test.go"
	errorGoModFormat   = "build go.mod: %w"
	errorGoFormatError = "format %s: %w"
)

type goRequirement struct {
	path    string
	version string
}

var goDatabaseDrivers = map[string]goRequirement{
	stack.DatabasePostgres: {path: "github.com/jackc/pgx/v5", version: "v5.5.5"},
	stack.DatabaseMySQL:    {path: "github.com/go-sql-driver/mysql", version: "v1.8.1"},
	stack.DatabaseSQLite:   {path: "modernc.org/sqlite", version: "v1.29.5"},
	stack.DatabaseMongoDB:  {path: "go.mongodb.org/mongo-driver", version: "v1.15.0"},
	stack.DatabaseSupabase: {path: "github.com/jackc/pgx/v5", version: "v5.5.5"},
}

func renderGoMod(generator *Generator, _ fileContext) (string, error) {
	moduleFile := new(modfile.File)
	if moduleError := moduleFile.AddModuleStmt(generator.project.ModulePath()); moduleError != nil {
		return "", fmt.Errorf(errorGoModFormat, moduleError)
	}
	if goError := moduleFile.AddGoStmt(goVersion); goError != nil {
		return "", fmt.Errorf(errorGoModFormat, goError)
	}
	if driver, found := goDatabaseDrivers[generator.project.Database]; found {
		if requireError := moduleFile.AddRequire(driver.path, driver.version); requireError != nil {
			return "", fmt.Errorf(errorGoModFormat, requireError)
		}
	}
	moduleFile.Cleanup()
	formatted, formatError := moduleFile.Format()
	if formatError != nil {
		return "", fmt.Errorf(errorGoModFormat, formatError)
	}
	return string(formatted), nil
}

type goSourceData struct {
	Package    string
	Module     string
	Identifier string
	Service    string
	Path       string
}

func renderGoSource(generator *Generator, file fileContext) (string, error) {
	packageName := goPackageName(file)
	data := goSourceData{
		Package:    packageName,
		Module:     generator.project.ModulePath(),
		Identifier: exportedIdentifier(strings.TrimSuffix(strings.TrimSuffix(file.Name, ".go"), "_test")),
		Service:    generator.project.PackageName(),
		Path:       file.Path,
	}
	templateName := goSourceTemplate
	switch {
	case strings.HasSuffix(file.Name, goTestSuffix):
		templateName = goTestTemplate
	case packageName == mainPackageName:
		templateName = goMainTemplate
	}
	source, executeError := generator.execute(templateName, data)
	if executeError != nil {
		return "", executeError
	}
	formatted, formatError := imports.Process(file.Name, []byte(source), &imports.Options{
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
		FormatOnly: true,
	})
	if formatError != nil {
		return "", fmt.Errorf(errorGoFormatError, file.Path, formatError)
	}
	return string(formatted), nil
}

// goPackageName follows the Go layout conventions: files directly under cmd/<name> or at the
// root next to go.mod with the name main.go belong to package main; otherwise the directory names the package.
func goPackageName(file fileContext) string {
	segments := strings.Split(file.Directory, "/")
	if file.Directory == "" {
		if file.Name == "main.go" {
			return mainPackageName
		}
		return sanitizePackageName(file.Layout.RootName)
	}
	if len(segments) >= 2 && segments[0] == "cmd" {
		return mainPackageName
	}
	return sanitizePackageName(path.Base(file.Directory))
}

func sanitizePackageName(name string) string {
	var builder strings.Builder
	for _, character := range strings.ToLower(name) {
		if unicode.IsLetter(character) || (unicode.IsDigit(character) && builder.Len() > 0) {
			builder.WriteRune(character)
		}
	}
	if builder.Len() == 0 {
		return fallbackGoPackage
	}
	if token.IsKeyword(builder.String()) {
		return builder.String() + keywordSuffix
	}
	return builder.String()
}

// exportedIdentifier turns a file base name such as "health_check" into "HealthCheck".
func exportedIdentifier(name string) string {
	var builder strings.Builder
	upperNext := true
	for _, character := range name {
		if !unicode.IsLetter(character) && !unicode.IsDigit(character) {
			upperNext = true
			continue
		}
		if builder.Len() == 0 && unicode.IsDigit(character) {
			continue
		}
		if upperNext {
			builder.WriteRune(unicode.ToUpper(character))
			upperNext = false
			continue
		}
		builder.WriteRune(character)
	}
	if builder.Len() == 0 {
		return "Handler"
	}
	return builder.String()
}
