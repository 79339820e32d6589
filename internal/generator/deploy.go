package generator

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/temirov/skel/internal/stack"
)

const (
	workflowDirectory  = ".github/workflows"
	yamlIndent         = 2
	nodeVersion        = "20"
	dockerfileTemplate = "dockerfile.tmpl"
	applicationPort    = "3000"
	goApplicationPort  = "8080"

	errorEncodeYAMLFormat = "encode yaml: %w"
	errorEncodeTOMLFormat = "encode toml: %w"
)

type workflow struct {
	Name string                 `yaml:"name"`
	On   workflowTriggers       `yaml:"on"`
	Jobs map[string]workflowJob `yaml:"jobs"`
}

type workflowTriggers struct {
	Push        workflowBranches `yaml:"push"`
	PullRequest workflowBranches `yaml:"pull_request"`
}

type workflowBranches struct {
	Branches []string `yaml:"branches"`
}

type workflowJob struct {
	RunsOn string         `yaml:"runs-on"`
	Steps  []workflowStep `yaml:"steps"`
}

type workflowStep struct {
	Name string            `yaml:"name,omitempty"`
	Uses string            `yaml:"uses,omitempty"`
	With map[string]string `yaml:"with,omitempty"`
	Run  string            `yaml:"run,omitempty"`
}

func isWorkflowFile(file fileContext) bool {
	if file.Directory != workflowDirectory {
		return false
	}
	lowerName := strings.ToLower(file.Name)
	return strings.HasSuffix(lowerName, ".yml") || strings.HasSuffix(lowerName, ".yaml")
}

func renderWorkflow(generator *Generator, _ fileContext) (string, error) {
	project := generator.project
	steps := []workflowStep{{Uses: "actions/checkout@v4"}}
	if project.Language == stack.LanguageGo {
		steps = append(steps,
			workflowStep{Uses: "actions/setup-go@v5", With: map[string]string{"go-version-file": "go.mod"}},
			workflowStep{Name: "Build", Run: "go build ./..."},
			workflowStep{Name: "Vet", Run: "go vet ./..."},
			workflowStep{Name: "Test", Run: "go test ./..."},
		)
	} else {
		steps = append(steps,
			workflowStep{Uses: "actions/setup-node@v4", With: map[string]string{"node-version": nodeVersion, "cache": "npm"}},
			workflowStep{Name: "Install", Run: "npm ci"},
			workflowStep{Name: "Build", Run: "npm run build"},
		)
		if project.Testing != stack.ChoiceNone {
			steps = append(steps, workflowStep{Name: "Test", Run: "npm test"})
		}
	}
	branches := workflowBranches{Branches: []string{"main"}}
	return marshalYAML(workflow{
		Name: "CI",
		On:   workflowTriggers{Push: branches, PullRequest: branches},
		Jobs: map[string]workflowJob{
			"build": {RunsOn: "ubuntu-latest", Steps: steps},
		},
	})
}

type composeFile struct {
	Services map[string]composeService `yaml:"services"`
	Volumes  map[string]struct{}       `yaml:"volumes,omitempty"`
}

type composeService struct {
	Image       string            `yaml:"image,omitempty"`
	Build       string            `yaml:"build,omitempty"`
	Ports       []string          `yaml:"ports,omitempty"`
	Environment map[string]string `yaml:"environment,omitempty"`
	EnvFile     []string          `yaml:"env_file,omitempty"`
	DependsOn   []string          `yaml:"depends_on,omitempty"`
	Volumes     []string          `yaml:"volumes,omitempty"`
}

type databaseService struct {
	image       string
	port        string
	dataPath    string
	environment map[string]string
}

var composeDatabases = map[string]databaseService{
	stack.DatabasePostgres: {
		image:    "postgres:16-alpine",
		port:     "5432",
		dataPath: "/var/lib/postgresql/data",
		environment: map[string]string{
			"POSTGRES_USER":     "app",
			"POSTGRES_PASSWORD": "app",
			"POSTGRES_DB":       "app",
		},
	},
	stack.DatabaseMySQL: {
		image:    "mysql:8.4",
		port:     "3306",
		dataPath: "/var/lib/mysql",
		environment: map[string]string{
			"MYSQL_ROOT_PASSWORD": "app",
			"MYSQL_DATABASE":      "app",
		},
	},
	stack.DatabaseMongoDB: {
		image:    "mongo:7",
		port:     "27017",
		dataPath: "/data/db",
	},
}

func renderCompose(generator *Generator, _ fileContext) (string, error) {
	project := generator.project
	port := applicationPort
	if project.Language == stack.LanguageGo {
		port = goApplicationPort
	}
	application := composeService{
		Build:   ".",
		Ports:   []string{fmt.Sprintf("%s:%s", port, port)},
		EnvFile: []string{".env"},
	}
	compose := composeFile{Services: map[string]composeService{}}
	if database, found := composeDatabases[project.Database]; found {
		volumeName := project.Database + "-data"
		compose.Services["db"] = composeService{
			Image:       database.image,
			Ports:       []string{fmt.Sprintf("%s:%s", database.port, database.port)},
			Environment: database.environment,
			Volumes:     []string{volumeName + ":" + database.dataPath},
		}
		compose.Volumes = map[string]struct{}{volumeName: {}}
		application.DependsOn = []string{"db"}
	}
	compose.Services["app"] = application
	return marshalYAML(compose)
}

type netlifyConfig struct {
	Build    netlifyBuild      `toml:"build"`
	Redirect []netlifyRedirect `toml:"redirects,omitempty"`
}

type netlifyBuild struct {
	Command     string            `toml:"command"`
	Publish     string            `toml:"publish"`
	Environment map[string]string `toml:"environment,omitempty"`
}

type netlifyRedirect struct {
	From   string `toml:"from"`
	To     string `toml:"to"`
	Status int    `toml:"status"`
}

func renderNetlifyConfig(_ *Generator, file fileContext) (string, error) {
	config := netlifyConfig{
		Build: netlifyBuild{
			Command:     "npm run build",
			Publish:     defaultOutputDir,
			Environment: map[string]string{"NODE_VERSION": nodeVersion},
		},
	}
	if file.Layout.Next {
		config.Build.Publish = ".next"
	} else if file.Layout.React {
		config.Redirect = []netlifyRedirect{{From: "/*", To: "/index.html", Status: 200}}
	}
	encoded, marshalError := toml.Marshal(config)
	if marshalError != nil {
		return "", fmt.Errorf(errorEncodeTOMLFormat, marshalError)
	}
	return string(encoded), nil
}

type dockerfileData struct {
	Go       bool
	Next     bool
	Port     string
	Commands []string
	Binary   string
}

func renderDockerfile(generator *Generator, file fileContext) (string, error) {
	project := generator.project
	data := dockerfileData{
		Go:     project.Language == stack.LanguageGo,
		Next:   file.Layout.Next,
		Port:   applicationPort,
		Binary: project.PackageName(),
	}
	if data.Go {
		data.Port = goApplicationPort
		data.Commands = file.Layout.Commands
	}
	return generator.execute(dockerfileTemplate, data)
}

func marshalYAML(value any) (string, error) {
	var buffer bytes.Buffer
	encoder := yaml.NewEncoder(&buffer)
	encoder.SetIndent(yamlIndent)
	if encodeError := encoder.Encode(value); encodeError != nil {
		return "", fmt.Errorf(errorEncodeYAMLFormat, encodeError)
	}
	if closeError := encoder.Close(); closeError != nil {
		return "", fmt.Errorf(errorEncodeYAMLFormat, closeError)
	}
	return buffer.String(), nil
}
