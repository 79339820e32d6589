package generator

import (
	"path"
	"strings"

	"github.com/temirov/skel/internal/stack"
)

const (
	typeScriptTemplate = "typescript.tmpl"
	stylesheetTemplate = "stylesheet.tmpl"
	schemaTemplate     = "schema.tmpl"
	markdownTemplate   = "markdown.tmpl"
)

// Kinds of script files, selected from the file name and its directory.
const (
	scriptModule    = "module"
	scriptComponent = "component"
	scriptLayout    = "layout"
	scriptPage      = "page"
	scriptServer    = "server"
	scriptRoute     = "route"
	scriptDatabase  = "database"
	scriptTest      = "test"
	scriptIndex     = "index"
)

type scriptData struct {
	Kind       string
	Name       string
	Identifier string
	Path       string
	Project    stack.Project
	TSX        bool
	Testing    string
	Subject    string
}

func renderTypeScript(generator *Generator, file fileContext) (string, error) {
	extension := path.Ext(file.Name)
	baseName := strings.TrimSuffix(file.Name, extension)
	isTest := strings.HasSuffix(baseName, ".test") || strings.HasSuffix(baseName, ".spec")
	subject := strings.TrimSuffix(strings.TrimSuffix(baseName, ".test"), ".spec")
	data := scriptData{
		Name:       baseName,
		Identifier: exportedIdentifier(subject),
		Path:       file.Path,
		Project:    generator.project,
		TSX:        extension == ".tsx" || extension == ".jsx",
		Testing:    generator.project.Testing,
		Subject:    subject,
	}
	data.Kind = scriptKind(file, baseName, isTest)
	return generator.execute(typeScriptTemplate, data)
}

func scriptKind(file fileContext, baseName string, isTest bool) string {
	parent := path.Base(file.Directory)
	switch {
	case isTest:
		return scriptTest
	case file.Layout.Next && baseName == "layout":
		return scriptLayout
	case file.Layout.Next && baseName == "page":
		return scriptPage
	case file.Layout.Express && (baseName == "index" || baseName == "server" || baseName == "app") && parent != "routes":
		return scriptServer
	case parent == "routes":
		return scriptRoute
	case baseName == "db" || parent == "db":
		return scriptDatabase
	case strings.HasSuffix(file.Name, ".tsx") || strings.HasSuffix(file.Name, ".jsx"):
		return scriptComponent
	case baseName == "index":
		return scriptIndex
	default:
		return scriptModule
	}
}

type stylesheetData struct {
	Tailwind bool
}

func renderStylesheet(generator *Generator, _ fileContext) (string, error) {
	ui := generator.project.UI
	return generator.execute(stylesheetTemplate, stylesheetData{
		Tailwind: ui == stack.UITailwind || ui == stack.UIShadcn,
	})
}

type schemaData struct {
	Database   string
	PrimaryKey string
	Timestamp  string
}

func renderSQLSchema(generator *Generator, _ fileContext) (string, error) {
	data := schemaData{
		Database:   generator.project.Database,
		PrimaryKey: "INTEGER PRIMARY KEY",
		Timestamp:  "TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP",
	}
	switch generator.project.Database {
	case stack.DatabasePostgres, stack.DatabaseSupabase:
		data.PrimaryKey = "BIGSERIAL PRIMARY KEY"
		data.Timestamp = "TIMESTAMPTZ NOT NULL DEFAULT now()"
	case stack.DatabaseMySQL:
		data.PrimaryKey = "BIGINT AUTO_INCREMENT PRIMARY KEY"
	case stack.DatabaseSQLite:
		data.PrimaryKey = "INTEGER PRIMARY KEY AUTOINCREMENT"
	}
	return generator.execute(schemaTemplate, data)
}

type markdownData struct {
	Title string
	Path  string
}

func renderMarkdown(generator *Generator, file fileContext) (string, error) {
	return generator.execute(markdownTemplate, markdownData{
		Title: titleText(strings.TrimSuffix(file.Name, path.Ext(file.Name))),
		Path:  file.Path,
	})
}
