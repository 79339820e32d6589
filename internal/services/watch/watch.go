// Package watch re-parses a tree file whenever it changes on disk.
package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/temirov/skel/internal/parser"
	"github.com/temirov/skel/internal/tree"
)

// DefaultDebounce is used when Options.Debounce is not positive.
const DefaultDebounce = 100 * time.Millisecond

const (
	errorCreateWatcherFormat = "create watcher: %w"
	errorWatchDirFormat      = "watch %s: %w"
	errorReadFormat          = "read %s: %w"
	errorResolveFormat       = "resolve %s: %w"
	watchedOperations        = fsnotify.Write | fsnotify.Create | fsnotify.Rename
)

var errMissingCallback = errors.New("watch: change callback is nil")

// Options configures Run.
type Options struct {
	Path     string
	Debounce time.Duration
	Logger   *zap.Logger
	// OnChange receives the parsed tree once at startup and after every settled change.
	// It is always called from the goroutine running Run.
	OnChange func(*tree.Tree)
}

// Run parses options.Path, reports it, then watches the file until ctx is done.
// Bursts of events within the debounce interval produce a single re-parse.
func Run(ctx context.Context, options Options) error {
	if options.OnChange == nil {
		return errMissingCallback
	}
	if options.Debounce <= 0 {
		options.Debounce = DefaultDebounce
	}
	if options.Logger == nil {
		options.Logger = zap.NewNop()
	}
	target, absoluteError := filepath.Abs(options.Path)
	if absoluteError != nil {
		return fmt.Errorf(errorResolveFormat, options.Path, absoluteError)
	}

	parsed, readError := parseFile(target)
	if readError != nil {
		return readError
	}
	options.OnChange(parsed)

	watcher, watcherError := fsnotify.NewWatcher()
	if watcherError != nil {
		return fmt.Errorf(errorCreateWatcherFormat, watcherError)
	}
	defer watcher.Close()

	directory := filepath.Dir(target)
	if addError := watcher.Add(directory); addError != nil {
		return fmt.Errorf(errorWatchDirFormat, directory, addError)
	}

	settled := make(chan struct{}, 1)
	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&watchedOperations == 0 || filepath.Clean(event.Name) != target {
				continue
			}
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(options.Debounce, func() {
				select {
				case settled <- struct{}{}:
				default:
				}
			})
		case <-settled:
			reparsed, reparseError := parseFile(target)
			if reparseError != nil {
				options.Logger.Warn("re-parse failed", zap.Error(reparseError))
				continue
			}
			options.Logger.Debug("change detected", zap.String("path", target))
			options.OnChange(reparsed)
		case watchError, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			options.Logger.Warn("watch error", zap.Error(watchError))
		}
	}
}

func parseFile(path string) (*tree.Tree, error) {
	data, readError := os.ReadFile(path)
	if readError != nil {
		return nil, fmt.Errorf(errorReadFormat, path, readError)
	}
	return parser.ParseFileTree(string(data)), nil
}
