package stream_test

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/temirov/skel/internal/generator"
	"github.com/temirov/skel/internal/parser"
	"github.com/temirov/skel/internal/services/stream"
	"github.com/temirov/skel/internal/stack"
	"github.com/temirov/skel/internal/tree"
	"github.com/temirov/skel/internal/types"
)

const appTreeInput = "app/\n" +
	"├── package.json\n" +
	"└── src/\n" +
	"    └── index.ts\n"

type failingGenerator struct{}

func (failingGenerator) Generate(*tree.Tree) ([]types.FileOutput, error) {
	return nil, errors.New("boom")
}

func describe(event stream.Event) string {
	switch event.Kind {
	case stream.EventKindDirectory:
		return string(event.Directory.Phase) + " " + event.Directory.Path
	case stream.EventKindFile:
		return "file " + event.File.Path
	default:
		return string(event.Kind)
	}
}

func TestStreamParseEmitsOrderedEvents(t *testing.T) {
	events := collectEvents(t, func(ch chan<- stream.Event) error {
		return stream.StreamParse(context.Background(), stream.ParseOptions{Source: "-", Input: appTreeInput}, ch)
	})

	expected := []string{
		"start",
		"enter app",
		"file app/package.json",
		"enter app/src",
		"file app/src/index.ts",
		"leave app/src",
		"leave app",
		"tree",
		"summary",
		"done",
	}
	if len(events) != len(expected) {
		t.Fatalf("expected %d events, got %d", len(expected), len(events))
	}
	for index, event := range events {
		if describe(event) != expected[index] {
			t.Fatalf("event %d: expected %q, got %q", index, expected[index], describe(event))
		}
		if event.Command != types.CommandParse || event.Version != stream.SchemaVersion {
			t.Fatalf("unexpected envelope: %+v", event)
		}
	}

	sourceLeave := events[5].Directory.Summary
	if sourceLeave.Files != 1 || sourceLeave.Folders != 0 {
		t.Fatalf("unexpected src summary: %+v", sourceLeave)
	}
	if summary := events[8].Summary; summary.Files != 2 || summary.Folders != 2 || summary.Bytes != 0 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if snapshot := events[7].Tree; snapshot == nil || snapshot.Name != "app" || snapshot.TotalFiles != 2 {
		t.Fatalf("unexpected tree snapshot: %+v", snapshot)
	}
	if events[2].File.Content != "" {
		t.Fatalf("parse events must not carry content")
	}
}

func TestStreamSkeletonCarriesContent(t *testing.T) {
	contentGenerator, generatorError := generator.New(stack.Project{Name: "demo"}, zap.NewNop())
	if generatorError != nil {
		t.Fatalf("new generator: %v", generatorError)
	}
	parsed := parser.ParseFileTree(appTreeInput)

	events := collectEvents(t, func(ch chan<- stream.Event) error {
		return stream.StreamSkeleton(context.Background(), stream.SkeletonOptions{Tree: parsed, Generator: contentGenerator}, ch)
	})

	var totalBytes int64
	var summary *stream.SummaryEvent
	for _, event := range events {
		switch event.Kind {
		case stream.EventKindFile:
			if event.File.Content == "" {
				t.Fatalf("expected content for %s", event.File.Path)
			}
			if event.File.SizeBytes != int64(len(event.File.Content)) {
				t.Fatalf("size mismatch for %s", event.File.Path)
			}
			totalBytes += event.File.SizeBytes
		case stream.EventKindSummary:
			summary = event.Summary
		}
	}
	if summary == nil || summary.Files != 2 || summary.Bytes != totalBytes {
		t.Fatalf("unexpected summary %+v (bytes %d)", summary, totalBytes)
	}
	if events[len(events)-1].Kind != stream.EventKindDone {
		t.Fatalf("expected done last")
	}
}

func TestStreamSkeletonReportsGeneratorFailure(t *testing.T) {
	events := make(chan stream.Event, 8)
	streamError := stream.StreamSkeleton(context.Background(), stream.SkeletonOptions{
		Tree:      parser.ParseFileTree(appTreeInput),
		Generator: failingGenerator{},
	}, events)
	close(events)
	if streamError == nil || streamError.Error() != "boom" {
		t.Fatalf("expected generator error, got %v", streamError)
	}
	var kinds []stream.EventKind
	for event := range events {
		kinds = append(kinds, event.Kind)
	}
	if len(kinds) != 2 || kinds[0] != stream.EventKindStart || kinds[1] != stream.EventKindError {
		t.Fatalf("unexpected events: %v", kinds)
	}
}

func TestStreamParseStopsOnCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	streamError := stream.StreamParse(ctx, stream.ParseOptions{Input: appTreeInput}, make(chan stream.Event))
	if !errors.Is(streamError, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", streamError)
	}
}

func TestDispatchPropagatesConsumerError(t *testing.T) {
	consumerError := errors.New("consumer failed")
	dispatchError := stream.Dispatch(context.Background(),
		func(ctx context.Context, ch chan<- stream.Event) error {
			return stream.StreamParse(ctx, stream.ParseOptions{Input: appTreeInput}, ch)
		},
		func(event stream.Event) error {
			if event.Kind == stream.EventKindFile {
				return consumerError
			}
			return nil
		},
	)
	if !errors.Is(dispatchError, consumerError) {
		t.Fatalf("expected consumer error, got %v", dispatchError)
	}

	var count int
	dispatchError = stream.Dispatch(context.Background(),
		func(ctx context.Context, ch chan<- stream.Event) error {
			return stream.StreamParse(ctx, stream.ParseOptions{Input: appTreeInput}, ch)
		},
		func(stream.Event) error {
			count++
			return nil
		},
	)
	if dispatchError != nil || count != 10 {
		t.Fatalf("expected 10 events without error, got %d (%v)", count, dispatchError)
	}
}

func collectEvents(t *testing.T, producer func(chan<- stream.Event) error) []stream.Event {
	t.Helper()
	events := make(chan stream.Event, 32)
	errCh := make(chan error, 1)
	go func() {
		errCh <- producer(events)
		close(events)
	}()

	var out []stream.Event
	for event := range events {
		out = append(out, event)
	}
	if err := <-errCh; err != nil {
		t.Fatalf("producer returned error: %v", err)
	}
	return out
}
