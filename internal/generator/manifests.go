package generator

import (
	"encoding/json"

	"github.com/temirov/skel/internal/stack"
)

const (
	initialVersion    = "0.1.0"
	jsonIndent        = "  "
	vercelSchemaURL   = "https://openapi.vercel.sh/vercel.json"
	defaultOutputDir  = "dist"
	nodeModuleSystem  = "ESNext"
	nodeTargetVersion = "ES2022"
)

// packageVersions pins the dependency ranges written into package.json.
var packageVersions = map[string]string{
	"next":                     "^14.2.0",
	"react":                    "^18.3.0",
	"react-dom":                "^18.3.0",
	"@types/react":             "^18.3.0",
	"@types/react-dom":         "^18.3.0",
	"express":                  "^4.19.0",
	"@types/express":           "^4.17.21",
	"tsx":                      "^4.7.0",
	"typescript":               "^5.4.0",
	"@types/node":              "^20.12.0",
	"pg":                       "^8.11.0",
	"@types/pg":                "^8.11.0",
	"mysql2":                   "^3.9.0",
	"better-sqlite3":           "^9.4.0",
	"@types/better-sqlite3":    "^7.6.9",
	"mongodb":                  "^6.5.0",
	"@supabase/supabase-js":    "^2.42.0",
	"next-auth":                "^4.24.0",
	"@clerk/nextjs":            "^5.0.0",
	"tailwindcss":              "^3.4.0",
	"postcss":                  "^8.4.38",
	"autoprefixer":             "^10.4.19",
	"class-variance-authority": "^0.7.0",
	"clsx":                     "^2.1.0",
	"tailwind-merge":           "^2.2.0",
	"@chakra-ui/react":         "^2.8.2",
	"@emotion/react":           "^11.11.4",
	"@emotion/styled":          "^11.11.5",
	"framer-motion":            "^11.1.0",
	"jest":                     "^29.7.0",
	"ts-jest":                  "^29.1.2",
	"@types/jest":              "^29.5.12",
	"vitest":                   "^1.5.0",
	"@playwright/test":         "^1.43.0",
}

type packageManifest struct {
	Name            string            `json:"name"`
	Version         string            `json:"version"`
	Private         bool              `json:"private"`
	Description     string            `json:"description,omitempty"`
	Author          string            `json:"author,omitempty"`
	License         string            `json:"license,omitempty"`
	Main            string            `json:"main,omitempty"`
	Types           string            `json:"types,omitempty"`
	Scripts         map[string]string `json:"scripts"`
	Dependencies    map[string]string `json:"dependencies,omitempty"`
	DevDependencies map[string]string `json:"devDependencies,omitempty"`
}

type dependencySet struct {
	runtime     map[string]string
	development map[string]string
}

func newDependencySet() *dependencySet {
	return &dependencySet{runtime: map[string]string{}, development: map[string]string{}}
}

func (set *dependencySet) add(names ...string) {
	for _, name := range names {
		set.runtime[name] = packageVersions[name]
	}
}

func (set *dependencySet) addDevelopment(names ...string) {
	for _, name := range names {
		set.development[name] = packageVersions[name]
	}
}

func renderPackageJSON(generator *Generator, file fileContext) (string, error) {
	project := generator.project
	projectLayout := file.Layout
	dependencies := newDependencySet()
	scripts := map[string]string{}

	switch {
	case projectLayout.Next:
		dependencies.add("next", "react", "react-dom")
		dependencies.addDevelopment("@types/react", "@types/react-dom")
		scripts["dev"] = "next dev"
		scripts["build"] = "next build"
		scripts["start"] = "next start"
		scripts["lint"] = "next lint"
	case projectLayout.Express:
		dependencies.add("express")
		dependencies.addDevelopment("@types/express", "tsx")
		scripts["dev"] = "tsx watch src/index.ts"
		scripts["build"] = "tsc"
		scripts["start"] = "node dist/index.js"
	case projectLayout.React:
		dependencies.addDevelopment("react", "react-dom", "@types/react", "@types/react-dom")
		scripts["build"] = "tsc"
	default:
		scripts["build"] = "tsc"
		scripts["start"] = "node dist/index.js"
	}
	dependencies.addDevelopment("typescript", "@types/node")

	switch project.Database {
	case stack.DatabasePostgres:
		dependencies.add("pg")
		dependencies.addDevelopment("@types/pg")
	case stack.DatabaseMySQL:
		dependencies.add("mysql2")
	case stack.DatabaseSQLite:
		dependencies.add("better-sqlite3")
		dependencies.addDevelopment("@types/better-sqlite3")
	case stack.DatabaseMongoDB:
		dependencies.add("mongodb")
	case stack.DatabaseSupabase:
		dependencies.add("@supabase/supabase-js")
	}

	switch project.Auth {
	case stack.AuthNextAuth:
		dependencies.add("next-auth")
	case stack.AuthClerk:
		dependencies.add("@clerk/nextjs")
	case stack.AuthSupabase:
		dependencies.add("@supabase/supabase-js")
	}

	switch project.UI {
	case stack.UITailwind:
		dependencies.addDevelopment("tailwindcss", "postcss", "autoprefixer")
	case stack.UIShadcn:
		dependencies.addDevelopment("tailwindcss", "postcss", "autoprefixer")
		dependencies.add("class-variance-authority", "clsx", "tailwind-merge")
	case stack.UIChakra:
		dependencies.add("@chakra-ui/react", "@emotion/react", "@emotion/styled", "framer-motion")
	}

	switch project.Testing {
	case stack.TestingJest:
		dependencies.addDevelopment("jest", "ts-jest", "@types/jest")
		scripts["test"] = "jest"
	case stack.TestingVitest:
		dependencies.addDevelopment("vitest")
		scripts["test"] = "vitest run"
	case stack.TestingPlaywright:
		dependencies.addDevelopment("@playwright/test")
		scripts["test"] = "playwright test"
	}

	manifest := packageManifest{
		Name:            project.PackageName(),
		Version:         initialVersion,
		Private:         !projectLayout.React || projectLayout.Next,
		Description:     project.Description,
		Author:          project.Author,
		License:         project.License,
		Scripts:         scripts,
		Dependencies:    dependencies.runtime,
		DevDependencies: dependencies.development,
	}
	if projectLayout.React && !projectLayout.Next {
		manifest.Main = "dist/index.js"
		manifest.Types = "dist/index.d.ts"
	}
	return marshalJSON(manifest)
}

type typeScriptConfig struct {
	CompilerOptions typeScriptCompilerOptions `json:"compilerOptions"`
	Include         []string                  `json:"include"`
	Exclude         []string                  `json:"exclude"`
}

type typeScriptCompilerOptions struct {
	Target           string   `json:"target"`
	Module           string   `json:"module"`
	ModuleResolution string   `json:"moduleResolution"`
	Lib              []string `json:"lib,omitempty"`
	JSX              string   `json:"jsx,omitempty"`
	Strict           bool     `json:"strict"`
	EsModuleInterop  bool     `json:"esModuleInterop"`
	SkipLibCheck     bool     `json:"skipLibCheck"`
	Declaration      bool     `json:"declaration,omitempty"`
	OutDir           string   `json:"outDir,omitempty"`
	NoEmit           bool     `json:"noEmit,omitempty"`
}

func renderTSConfig(_ *Generator, file fileContext) (string, error) {
	projectLayout := file.Layout
	options := typeScriptCompilerOptions{
		Target:           nodeTargetVersion,
		Module:           nodeModuleSystem,
		ModuleResolution: "bundler",
		Strict:           true,
		EsModuleInterop:  true,
		SkipLibCheck:     true,
		OutDir:           defaultOutputDir,
	}
	include := []string{"src"}
	switch {
	case projectLayout.Next:
		options.Lib = []string{"dom", "dom.iterable", "esnext"}
		options.JSX = "preserve"
		options.NoEmit = true
		options.OutDir = ""
		include = []string{"next-env.d.ts", "**/*.ts", "**/*.tsx"}
	case projectLayout.React:
		options.Lib = []string{"dom", "esnext"}
		options.JSX = "react-jsx"
		options.Declaration = true
	case projectLayout.Express:
		options.Module = "NodeNext"
		options.ModuleResolution = "NodeNext"
	}
	return marshalJSON(typeScriptConfig{
		CompilerOptions: options,
		Include:         include,
		Exclude:         []string{"node_modules", defaultOutputDir},
	})
}

type vercelConfig struct {
	Schema         string  `json:"$schema"`
	Framework      *string `json:"framework"`
	BuildCommand   string  `json:"buildCommand"`
	InstallCommand string  `json:"installCommand"`
	OutputDir      string  `json:"outputDirectory,omitempty"`
}

func renderVercelConfig(_ *Generator, file fileContext) (string, error) {
	config := vercelConfig{
		Schema:         vercelSchemaURL,
		BuildCommand:   "npm run build",
		InstallCommand: "npm ci",
	}
	if file.Layout.Next {
		framework := "nextjs"
		config.Framework = &framework
	} else {
		config.OutputDir = defaultOutputDir
	}
	return marshalJSON(config)
}

func marshalJSON(value any) (string, error) {
	encoded, marshalError := json.MarshalIndent(value, "", jsonIndent)
	if marshalError != nil {
		return "", marshalError
	}
	return string(encoded) + "\n", nil
}
