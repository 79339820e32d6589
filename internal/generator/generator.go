// Package generator fills the file nodes of a parsed tree with boilerplate derived from the project stack.
package generator

import (
	"embed"
	"errors"
	"fmt"
	"path"
	"strings"
	"text/template"
	"time"

	"go.uber.org/zap"

	"github.com/temirov/skel/internal/stack"
	"github.com/temirov/skel/internal/tree"
	"github.com/temirov/skel/internal/types"
	"github.com/temirov/skel/internal/utils"
)

//go:embed templates/*.tmpl
var templateFiles embed.FS

const (
	templatesPattern = "templates/*.tmpl"

	errorParseTemplatesFormat = "parse generator templates: %w"
	errorGenerateFileFormat   = "generate %s: %w"
)

// ErrEmptyTree is returned when Generate receives no tree.
var ErrEmptyTree = errors.New("generator: tree is empty")

// provider renders the content of one file.
type provider func(generator *Generator, file fileContext) (string, error)

// fileContext describes the file being rendered.
type fileContext struct {
	// Path is relative to the tree root, slash separated, without the root name.
	Path string
	Name string
	// Directory is the slash separated parent directory relative to the root.
	Directory string
	Layout    layout
}

// Option customizes a Generator.
type Option func(*Generator)

// WithClock replaces the clock used for the license year.
func WithClock(now func() time.Time) Option {
	return func(generator *Generator) {
		if now != nil {
			generator.now = now
		}
	}
}

// Generator renders file contents for one project.
type Generator struct {
	project   stack.Project
	logger    *zap.Logger
	now       func() time.Time
	templates *template.Template
}

// New builds a generator for the normalized project.
func New(project stack.Project, logger *zap.Logger, options ...Option) (*Generator, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	parsedTemplates, parseError := template.New("generator").Funcs(templateFunctions()).ParseFS(templateFiles, templatesPattern)
	if parseError != nil {
		return nil, fmt.Errorf(errorParseTemplatesFormat, parseError)
	}
	generator := &Generator{
		project:   project.Normalize(),
		logger:    logger,
		now:       time.Now,
		templates: parsedTemplates,
	}
	for _, option := range options {
		option(generator)
	}
	return generator, nil
}

// Project returns the normalized project the generator renders for.
func (generator *Generator) Project() stack.Project {
	return generator.project
}

// Generate sets Content on every file node of t and returns the files in document order.
// Paths include the root name as their first segment.
func (generator *Generator) Generate(t *tree.Tree) ([]types.FileOutput, error) {
	if t == nil || t.Len() == 0 {
		return nil, ErrEmptyTree
	}
	projectLayout := detectLayout(t)
	rootName := t.Node(t.Root()).Name

	var files []types.FileOutput
	walkError := tree.Walk(t, t.Root(), func(id tree.NodeID, node *tree.Node, fullPath string) error {
		if node.IsFolder() {
			return nil
		}
		relativePath := relativeToRoot(fullPath, rootName, node.Name, id == t.Root())
		file := fileContext{
			Path:      relativePath,
			Name:      node.Name,
			Directory: directoryOf(relativePath),
			Layout:    projectLayout,
		}
		content, renderError := generator.render(file)
		if renderError != nil {
			return fmt.Errorf(errorGenerateFileFormat, fullPath, renderError)
		}
		node.Content = content
		sizeBytes := int64(len(content))
		files = append(files, types.FileOutput{
			Path:      fullPath,
			Type:      types.NodeTypeFile,
			Content:   content,
			Size:      utils.FormatFileSize(sizeBytes),
			SizeBytes: sizeBytes,
		})
		generator.logger.Debug("generated file", zap.String("path", fullPath), zap.Int64("bytes", sizeBytes))
		return nil
	})
	if walkError != nil {
		return nil, walkError
	}
	return files, nil
}

// Summary totals the generated files together with the folder count of t.
func Summary(t *tree.Tree, files []types.FileOutput) types.OutputSummary {
	var totalBytes int64
	for _, file := range files {
		totalBytes += file.SizeBytes
	}
	summary := types.OutputSummary{
		TotalFiles: len(files),
		TotalSize:  utils.FormatFileSize(totalBytes),
	}
	if t != nil && t.Len() > 0 {
		summary.TotalFolders = tree.Count(t, t.Root()).Folders
	}
	return summary
}

func (generator *Generator) render(file fileContext) (string, error) {
	if selected, found := providerByName[strings.ToLower(file.Name)]; found {
		return selected(generator, file)
	}
	if isWorkflowFile(file) {
		return renderWorkflow(generator, file)
	}
	if selected, found := providerByExtension[strings.ToLower(path.Ext(file.Name))]; found {
		return selected(generator, file)
	}
	return utils.EmptyString, nil
}

func (generator *Generator) execute(name string, data any) (string, error) {
	var builder strings.Builder
	if executeError := generator.templates.ExecuteTemplate(&builder, name, data); executeError != nil {
		return utils.EmptyString, executeError
	}
	return builder.String(), nil
}

var providerByName = map[string]provider{
	"package.json":        renderPackageJSON,
	"tsconfig.json":       renderTSConfig,
	"vercel.json":         renderVercelConfig,
	"readme.md":           renderReadme,
	".env.example":        renderEnvExample,
	".env":                renderEnvExample,
	".gitignore":          renderGitIgnore,
	"license":             renderLicense,
	"license.md":          renderLicense,
	"go.mod":              renderGoMod,
	"dockerfile":          renderDockerfile,
	"docker-compose.yml":  renderCompose,
	"docker-compose.yaml": renderCompose,
	"compose.yml":         renderCompose,
	"compose.yaml":        renderCompose,
	"netlify.toml":        renderNetlifyConfig,
}

var providerByExtension = map[string]provider{
	".go":   renderGoSource,
	".ts":   renderTypeScript,
	".tsx":  renderTypeScript,
	".js":   renderTypeScript,
	".jsx":  renderTypeScript,
	".css":  renderStylesheet,
	".md":   renderMarkdown,
	".sql":  renderSQLSchema,
	".yml":  renderEmptyYAML,
	".yaml": renderEmptyYAML,
}

func relativeToRoot(fullPath string, rootName string, name string, isRoot bool) string {
	if isRoot {
		return name
	}
	return strings.TrimPrefix(fullPath, rootName+"/")
}

func directoryOf(relativePath string) string {
	directory := path.Dir(relativePath)
	if directory == "." {
		return utils.EmptyString
	}
	return directory
}

func renderEmptyYAML(_ *Generator, file fileContext) (string, error) {
	return fmt.Sprintf("# %s\n", file.Path), nil
}
