package stream

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/temirov/skel/internal/parser"
	"github.com/temirov/skel/internal/tree"
	"github.com/temirov/skel/internal/types"
)

const (
	pathSeparator          = "/"
	warningLevel           = "warning"
	errorNilChannelMessage = "stream: event channel is nil"
	errorNilTreeMessage    = "stream: tree is nil"
	errorNilGeneratorText  = "stream: content generator is nil"
	warningEmptyNameFormat = "entry with an empty name at depth %d"
)

var (
	errNilChannel   = errors.New(errorNilChannelMessage)
	errNilTree      = errors.New(errorNilTreeMessage)
	errNilGenerator = errors.New(errorNilGeneratorText)
)

// ContentGenerator fills file contents of a tree.
type ContentGenerator interface {
	Generate(t *tree.Tree) ([]types.FileOutput, error)
}

// ParseOptions configures StreamParse.
type ParseOptions struct {
	// Source labels the input, for example a file path or "-" for stdin.
	Source string
	Input  string
}

// SkeletonOptions configures StreamSkeleton.
type SkeletonOptions struct {
	Tree      *tree.Tree
	Generator ContentGenerator
}

type emitter struct {
	ctx     context.Context
	out     chan<- Event
	command string
}

func newEmitter(ctx context.Context, out chan<- Event, command string) *emitter {
	if ctx == nil {
		ctx = context.Background()
	}
	return &emitter{ctx: ctx, out: out, command: command}
}

func (e *emitter) send(event Event) error {
	if e.out == nil {
		return errNilChannel
	}
	event.Version = SchemaVersion
	if event.Command == "" {
		event.Command = e.command
	}
	if event.EmittedAt.IsZero() {
		event.EmittedAt = time.Now().UTC()
	}
	select {
	case <-e.ctx.Done():
		return e.ctx.Err()
	case e.out <- event:
		return nil
	}
}

func (e *emitter) warn(path, message string) {
	trimmed := strings.TrimRight(message, "\n")
	if trimmed == "" {
		return
	}
	_ = e.send(Event{
		Kind:    EventKindWarning,
		Path:    path,
		Message: &LogEvent{Level: warningLevel, Message: trimmed},
	})
}

func (e *emitter) fail(path string, cause error) error {
	_ = e.send(Event{Kind: EventKindError, Path: path, Err: &ErrorEvent{Message: cause.Error()}})
	return cause
}

type summaryTracker struct {
	files   int
	folders int
	bytes   int64
}

func (tracker *summaryTracker) summary() *SummaryEvent {
	return &SummaryEvent{Files: tracker.files, Folders: tracker.folders, Bytes: tracker.bytes}
}

func (tracker *summaryTracker) since(start summaryTracker) *SummaryEvent {
	return &SummaryEvent{
		Files:   tracker.files - start.files,
		Folders: tracker.folders - start.folders,
		Bytes:   tracker.bytes - start.bytes,
	}
}

// StreamParse parses opts.Input and emits its structure followed by the tree snapshot.
func StreamParse(ctx context.Context, opts ParseOptions, out chan<- Event) error {
	emitter := newEmitter(ctx, out, types.CommandParse)
	if err := emitter.send(Event{Kind: EventKindStart, Path: opts.Source}); err != nil {
		return err
	}

	parsed := parser.ParseFileTree(opts.Input)
	tracker := &summaryTracker{}
	if err := emitNodes(emitter, parsed, parsed.Root(), parsed.Node(parsed.Root()).Name, 0, nil, tracker); err != nil {
		return err
	}
	if err := emitter.send(Event{Kind: EventKindTree, Path: opts.Source, Tree: tree.Snapshot(parsed)}); err != nil {
		return err
	}
	if err := emitter.send(Event{Kind: EventKindSummary, Path: opts.Source, Summary: tracker.summary()}); err != nil {
		return err
	}
	return emitter.send(Event{Kind: EventKindDone, Path: opts.Source})
}

// StreamSkeleton generates the contents of opts.Tree and emits every folder and file in document order.
func StreamSkeleton(ctx context.Context, opts SkeletonOptions, out chan<- Event) error {
	emitter := newEmitter(ctx, out, types.CommandGenerate)
	if opts.Tree == nil || opts.Tree.Len() == 0 {
		return emitter.fail("", errNilTree)
	}
	if opts.Generator == nil {
		return emitter.fail("", errNilGenerator)
	}
	rootName := opts.Tree.Node(opts.Tree.Root()).Name
	if err := emitter.send(Event{Kind: EventKindStart, Path: rootName}); err != nil {
		return err
	}

	files, generateError := opts.Generator.Generate(opts.Tree)
	if generateError != nil {
		return emitter.fail(rootName, generateError)
	}
	sizes := make(map[string]int64, len(files))
	for _, file := range files {
		sizes[file.Path] = file.SizeBytes
	}

	tracker := &summaryTracker{}
	if err := emitNodes(emitter, opts.Tree, opts.Tree.Root(), rootName, 0, sizes, tracker); err != nil {
		return err
	}
	if err := emitter.send(Event{Kind: EventKindSummary, Path: rootName, Summary: tracker.summary()}); err != nil {
		return err
	}
	return emitter.send(Event{Kind: EventKindDone, Path: rootName})
}

// emitNodes walks id depth-first. When sizes is nil no content is attached to file events.
func emitNodes(emitter *emitter, t *tree.Tree, id tree.NodeID, path string, depth int, sizes map[string]int64, tracker *summaryTracker) error {
	node := t.Node(id)
	if node.Name == "" {
		emitter.warn(path, fmt.Sprintf(warningEmptyNameFormat, depth))
	}
	if !node.IsFolder() {
		tracker.files++
		fileEvent := &FileEvent{Path: path, Name: node.Name, Depth: depth, Type: types.NodeTypeFile}
		if sizes != nil {
			fileEvent.Content = node.Content
			fileEvent.SizeBytes = sizes[path]
			tracker.bytes += fileEvent.SizeBytes
		}
		return emitter.send(Event{Kind: EventKindFile, Path: path, File: fileEvent})
	}

	tracker.folders++
	start := *tracker
	if err := emitter.send(Event{
		Kind:      EventKindDirectory,
		Path:      path,
		Directory: &DirectoryEvent{Phase: DirectoryEnter, Path: path, Name: node.Name, Depth: depth},
	}); err != nil {
		return err
	}
	for _, childID := range t.Children(id) {
		childPath := path + pathSeparator + t.Node(childID).Name
		if err := emitNodes(emitter, t, childID, childPath, depth+1, sizes, tracker); err != nil {
			return err
		}
	}
	return emitter.send(Event{
		Kind: EventKindDirectory,
		Path: path,
		Directory: &DirectoryEvent{
			Phase:   DirectoryLeave,
			Path:    path,
			Name:    node.Name,
			Depth:   depth,
			Summary: tracker.since(start),
		},
	})
}

// Dispatch runs produce and consume concurrently over an unbuffered channel.
// Cancellation of ctx is not reported as an error.
func Dispatch(
	ctx context.Context,
	produce func(context.Context, chan<- Event) error,
	consume func(Event) error,
) error {
	group, streamCtx := errgroup.WithContext(ctx)
	events := make(chan Event)

	group.Go(func() error {
		defer close(events)
		return produce(streamCtx, events)
	})

	group.Go(func() error {
		for {
			select {
			case <-streamCtx.Done():
				return streamCtx.Err()
			case event, ok := <-events:
				if !ok {
					return nil
				}
				if err := consume(event); err != nil {
					return err
				}
			}
		}
	})

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
