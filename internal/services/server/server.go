// Package server exposes the skeleton wizard over HTTP.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/temirov/skel/internal/export"
	"github.com/temirov/skel/internal/generator"
	"github.com/temirov/skel/internal/parser"
	"github.com/temirov/skel/internal/ratelimit"
	"github.com/temirov/skel/internal/services/stream"
	"github.com/temirov/skel/internal/stack"
	"github.com/temirov/skel/internal/templates"
	"github.com/temirov/skel/internal/tree"
	"github.com/temirov/skel/internal/types"
	"github.com/temirov/skel/internal/utils"
)

const (
	defaultListenAddress    = "127.0.0.1:0"
	defaultShutdownDuration = 5 * time.Second
	defaultRateLimit        = 30
	defaultRateWindow       = time.Minute
	defaultMaxBodyBytes     = 1 << 20
	headerContentType       = "Content-Type"
	headerDisposition       = "Content-Disposition"
	mimeTypeJSON            = "application/json"
	mimeTypeZip             = "application/zip"
	dispositionFormat       = `attachment; filename="%s.zip"`
	errorFieldName          = "error"
	templateNameParameter   = "name"

	errorTemplateNotFound = "template not found"
	errorDecodeFormat     = "decode request body: %w"
	errorListenFormat     = "listen on %s: %w"
	errorServeFormat      = "serve: %w"
	errorShutdownFormat   = "shutdown: %w"
)

var errMissingTree = errors.New("either tree or template is required")

// Config defines runtime options for the HTTP service.
type Config struct {
	Address         string
	ShutdownTimeout time.Duration
	// RateLimit is the number of parse and generate requests a client may make per RateWindow.
	// Zero selects the default; a negative value disables limiting.
	RateLimit    int
	RateWindow   time.Duration
	MaxBodyBytes int64
	Registry     *templates.Registry
	Logger       *zap.Logger
	Clock        ratelimit.Clock
}

// Server serves template metadata, parses trees and generates skeleton archives.
type Server struct {
	config  Config
	limiter *ratelimit.Limiter
}

// ParseRequest is the body of POST /parse.
type ParseRequest struct {
	Tree string `json:"tree"`
}

// ParseResponse is the result of POST /parse.
type ParseResponse struct {
	Root   *types.TreeOutputNode `json:"root"`
	Counts tree.Counts           `json:"counts"`
}

// GenerateRequest is the body of POST /generate. Template supplies the tree and
// stack defaults when Tree is empty; Project fields override the defaults.
type GenerateRequest struct {
	Tree     string        `json:"tree,omitempty"`
	Template string        `json:"template,omitempty"`
	Project  stack.Project `json:"project"`
}

// NewServer creates a new Server with defaults applied.
func NewServer(config Config) Server {
	normalized := config
	if normalized.Address == "" {
		normalized.Address = defaultListenAddress
	}
	if normalized.ShutdownTimeout <= 0 {
		normalized.ShutdownTimeout = defaultShutdownDuration
	}
	if normalized.RateLimit == 0 {
		normalized.RateLimit = defaultRateLimit
	}
	if normalized.RateWindow <= 0 {
		normalized.RateWindow = defaultRateWindow
	}
	if normalized.MaxBodyBytes <= 0 {
		normalized.MaxBodyBytes = defaultMaxBodyBytes
	}
	if normalized.Registry == nil {
		normalized.Registry = templates.NewEmptyRegistry()
	}
	if normalized.Logger == nil {
		normalized.Logger = zap.NewNop()
	}
	return Server{
		config:  normalized,
		limiter: ratelimit.New(normalized.RateLimit, normalized.RateWindow, normalized.Clock),
	}
}

// Handler returns the routed HTTP handler.
func (server Server) Handler() http.Handler {
	router := chi.NewRouter()
	router.Use(
		requestIdentifier,
		requestLogger(server.config.Logger),
		middleware.Recoverer,
	)
	router.Get("/healthz", server.handleHealth)
	router.Route("/templates", func(templateRouter chi.Router) {
		templateRouter.Get("/", server.handleTemplates)
		templateRouter.Get("/{"+templateNameParameter+"}", server.handleTemplate)
	})
	router.Group(func(limited chi.Router) {
		limited.Use(server.rateLimited(server.limiter))
		limited.Post("/parse", server.handleParse)
		limited.Post("/generate", server.handleGenerate)
	})
	return router
}

// Run starts the server and blocks until the provided context is canceled.
// The notify callback receives the bound address once the listener is active.
func (server Server) Run(ctx context.Context, notify func(string)) error {
	listener, listenErr := net.Listen("tcp", server.config.Address)
	if listenErr != nil {
		return fmt.Errorf(errorListenFormat, server.config.Address, listenErr)
	}
	actualAddress := listener.Addr().String()

	httpServer := &http.Server{Handler: server.Handler(), ReadHeaderTimeout: 10 * time.Second}
	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		serveErr := httpServer.Serve(listener)
		if serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			return fmt.Errorf(errorServeFormat, serveErr)
		}
		return nil
	})

	server.config.Logger.Info("listening", zap.String("address", actualAddress))
	if notify != nil {
		notify(actualAddress)
	}

	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), server.config.ShutdownTimeout)
		defer cancel()
		shutdownErr := httpServer.Shutdown(shutdownCtx)
		if shutdownErr != nil && !errors.Is(shutdownErr, context.Canceled) && !errors.Is(shutdownErr, http.ErrServerClosed) {
			return fmt.Errorf(errorShutdownFormat, shutdownErr)
		}
		return nil
	})

	return group.Wait()
}

func (server Server) handleHealth(writer http.ResponseWriter, _ *http.Request) {
	server.writeJSON(writer, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": utils.ApplicationVersion(),
	})
}

func (server Server) handleTemplates(writer http.ResponseWriter, _ *http.Request) {
	payload := struct {
		Templates []templates.Template `json:"templates"`
	}{Templates: server.config.Registry.List()}
	server.writeJSON(writer, http.StatusOK, payload)
}

func (server Server) handleTemplate(writer http.ResponseWriter, request *http.Request) {
	template, found := server.config.Registry.Lookup(chi.URLParam(request, templateNameParameter))
	if !found {
		server.writeJSON(writer, http.StatusNotFound, map[string]string{errorFieldName: errorTemplateNotFound})
		return
	}
	server.writeJSON(writer, http.StatusOK, template)
}

func (server Server) handleParse(writer http.ResponseWriter, request *http.Request) {
	var parseRequest ParseRequest
	if decodeError := server.decode(writer, request, &parseRequest); decodeError != nil {
		server.writeError(writer, decodeError)
		return
	}
	parsed := parser.ParseFileTree(parseRequest.Tree)
	server.writeJSON(writer, http.StatusOK, ParseResponse{
		Root:   tree.Snapshot(parsed),
		Counts: tree.Count(parsed, parsed.Root()),
	})
}

func (server Server) handleGenerate(writer http.ResponseWriter, request *http.Request) {
	var generateRequest GenerateRequest
	if decodeError := server.decode(writer, request, &generateRequest); decodeError != nil {
		server.writeError(writer, decodeError)
		return
	}
	input, project, resolveError := server.resolve(generateRequest)
	if resolveError != nil {
		server.writeError(writer, resolveError)
		return
	}

	contentGenerator, generatorError := generator.New(project, server.config.Logger)
	if generatorError != nil {
		server.writeError(writer, generatorError)
		return
	}
	parsed := parser.ParseFileTree(input)
	var archive bytes.Buffer
	sink := export.NewZipSink(&archive)
	dispatchError := stream.Dispatch(request.Context(),
		func(ctx context.Context, events chan<- stream.Event) error {
			return stream.StreamSkeleton(ctx, stream.SkeletonOptions{Tree: parsed, Generator: contentGenerator}, events)
		},
		sink.Handle,
	)
	if dispatchError == nil {
		dispatchError = sink.Close()
	}
	if dispatchError != nil {
		if errors.Is(dispatchError, utils.ErrInvalidName) {
			dispatchError = NewRequestError(http.StatusBadRequest, dispatchError)
		}
		server.writeError(writer, dispatchError)
		return
	}

	rootName := parsed.Node(parsed.Root()).Name
	if rootName == "" {
		rootName = project.PackageName()
	}
	writer.Header().Set(headerContentType, mimeTypeZip)
	writer.Header().Set(headerDisposition, fmt.Sprintf(dispositionFormat, rootName))
	writer.WriteHeader(http.StatusOK)
	_, _ = writer.Write(archive.Bytes())
	server.config.Logger.Info("generated skeleton",
		zap.String("root", rootName),
		zap.Int("entries", sink.Entries()),
		zap.Int("bytes", archive.Len()),
	)
}

// resolve merges the request with its template and validates the project.
func (server Server) resolve(generateRequest GenerateRequest) (string, stack.Project, error) {
	input := generateRequest.Tree
	project := generateRequest.Project
	if templateName := strings.TrimSpace(generateRequest.Template); templateName != "" {
		template, requireError := server.config.Registry.Require(templateName)
		if requireError != nil {
			return "", stack.Project{}, NewRequestError(http.StatusNotFound, requireError)
		}
		if strings.TrimSpace(input) == "" {
			input = template.Tree
		}
		project = template.Defaults.Merge(project)
	}
	if strings.TrimSpace(input) == "" {
		return "", stack.Project{}, NewRequestError(http.StatusBadRequest, errMissingTree)
	}
	if strings.TrimSpace(project.Name) == "" {
		parsed := parser.ParseFileTree(input)
		project.Name = parsed.Node(parsed.Root()).Name
	}
	project = project.Normalize()
	if validationError := project.Validate(); validationError != nil {
		return "", stack.Project{}, NewRequestError(http.StatusBadRequest, validationError)
	}
	return input, project, nil
}

func (server Server) decode(writer http.ResponseWriter, request *http.Request, target any) error {
	request.Body = http.MaxBytesReader(writer, request.Body, server.config.MaxBodyBytes)
	decoder := json.NewDecoder(request.Body)
	decoder.DisallowUnknownFields()
	if decodeError := decoder.Decode(target); decodeError != nil {
		wrapped := fmt.Errorf(errorDecodeFormat, decodeError)
		var maxBytesError *http.MaxBytesError
		if errors.As(decodeError, &maxBytesError) {
			return wrapped
		}
		return NewRequestError(http.StatusBadRequest, wrapped)
	}
	return nil
}

func (server Server) writeError(writer http.ResponseWriter, err error) {
	statusCode := statusCodeFromError(err)
	if statusCode >= http.StatusInternalServerError {
		server.config.Logger.Error("request failed", zap.Error(err))
	}
	server.writeJSON(writer, statusCode, map[string]string{errorFieldName: err.Error()})
}

func (server Server) writeJSON(writer http.ResponseWriter, statusCode int, payload interface{}) {
	var buffer bytes.Buffer
	if encodeErr := json.NewEncoder(&buffer).Encode(payload); encodeErr != nil {
		fallback := map[string]string{errorFieldName: fmt.Sprintf("encode response: %v", encodeErr)}
		writer.Header().Set(headerContentType, mimeTypeJSON)
		writer.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(writer).Encode(fallback)
		return
	}
	writer.Header().Set(headerContentType, mimeTypeJSON)
	writer.WriteHeader(statusCode)
	_, _ = writer.Write(buffer.Bytes())
}
