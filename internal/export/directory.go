package export

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/temirov/skel/internal/services/stream"
	"github.com/temirov/skel/internal/utils"
)

const (
	defaultDirectoryMode  os.FileMode = 0o755
	defaultFileMode       os.FileMode = 0o644
	defaultExecutableMode os.FileMode = 0o755
	modeDirectory                     = os.ModeDir

	dryRunMakeDirectoryFormat = "mkdir -p %s\n"
	dryRunWriteFormat         = "write %s (%d bytes)\n"
	dryRunOverwriteFormat     = "overwrite %s (%d bytes)\n"
	dryRunExistsFormat        = "exists %s (use --force to overwrite)\n"

	errorMakeDirectoryFormat = "mkdir %s: %w"
	errorStatFormat          = "stat %s: %w"
	errorWriteFormat         = "write %s: %w"
	errorConflictFileFormat  = "%s is a file: %w"
	errorConflictDirFormat   = "%s is a directory: %w"
	errorExistsFormat        = "%s: %w"
)

// executablePatterns marks generated files that get the executable bit.
var executablePatterns = []string{"*.sh", "gradlew", "mvnw"}

// DirectoryOptions configures a DirectorySink.
type DirectoryOptions struct {
	// Destination is the directory the skeleton root folder is created in.
	Destination string
	Force       bool
	DryRun      bool
	// Report receives the dry-run plan. Nil discards it.
	Report io.Writer
}

// DirectorySink creates folders and files below a destination directory.
type DirectorySink struct {
	options DirectoryOptions
	written []string
	planned map[string]struct{}
}

// NewDirectorySink returns a sink rooted at options.Destination.
func NewDirectorySink(options DirectoryOptions) *DirectorySink {
	if options.Report == nil {
		options.Report = io.Discard
	}
	return &DirectorySink{options: options, planned: map[string]struct{}{}}
}

// Handle materializes directory enter and file events.
func (sink *DirectorySink) Handle(event stream.Event) error {
	switch event.Kind {
	case stream.EventKindDirectory:
		if event.Directory == nil || event.Directory.Phase != stream.DirectoryEnter {
			return nil
		}
		target, resolveError := sink.resolve(event.Directory.Path)
		if resolveError != nil {
			return resolveError
		}
		return sink.ensureDirectory(target)
	case stream.EventKindFile:
		if event.File == nil {
			return nil
		}
		target, resolveError := sink.resolve(event.File.Path)
		if resolveError != nil {
			return resolveError
		}
		return sink.writeFile(target, event.File.Content)
	default:
		return nil
	}
}

// Written lists the files written so far, in event order.
func (sink *DirectorySink) Written() []string {
	return append([]string(nil), sink.written...)
}

// Close is a no-op; files are written as their events arrive.
func (sink *DirectorySink) Close() error {
	return nil
}

func (sink *DirectorySink) resolve(entryPath string) (string, error) {
	segments, validationError := entrySegments(entryPath)
	if validationError != nil {
		return "", validationError
	}
	return utils.SafeJoin(sink.options.Destination, segments...)
}

func (sink *DirectorySink) ensureDirectory(target string) error {
	info, statError := os.Lstat(target)
	switch {
	case statError == nil && info.IsDir():
		return nil
	case statError == nil:
		return fmt.Errorf(errorConflictFileFormat, target, ErrConflict)
	case os.IsNotExist(statError):
		if sink.options.DryRun {
			if _, seen := sink.planned[target]; !seen {
				sink.planned[target] = struct{}{}
				fmt.Fprintf(sink.options.Report, dryRunMakeDirectoryFormat, target)
			}
			return nil
		}
		if makeError := os.MkdirAll(target, defaultDirectoryMode); makeError != nil {
			return fmt.Errorf(errorMakeDirectoryFormat, target, makeError)
		}
		return nil
	default:
		return fmt.Errorf(errorStatFormat, target, statError)
	}
}

func (sink *DirectorySink) writeFile(target string, content string) error {
	if directoryError := sink.ensureDirectory(filepath.Dir(target)); directoryError != nil {
		return directoryError
	}
	mode := fileMode(filepath.Base(target), defaultFileMode, defaultExecutableMode)

	info, statError := os.Lstat(target)
	switch {
	case statError == nil && info.IsDir():
		return fmt.Errorf(errorConflictDirFormat, target, ErrConflict)
	case statError == nil:
		if !sink.options.Force {
			if sink.options.DryRun {
				fmt.Fprintf(sink.options.Report, dryRunExistsFormat, target)
				return nil
			}
			return fmt.Errorf(errorExistsFormat, target, ErrFileExists)
		}
		if sink.options.DryRun {
			fmt.Fprintf(sink.options.Report, dryRunOverwriteFormat, target, len(content))
			return nil
		}
	case os.IsNotExist(statError):
		if sink.options.DryRun {
			fmt.Fprintf(sink.options.Report, dryRunWriteFormat, target, len(content))
			return nil
		}
	default:
		return fmt.Errorf(errorStatFormat, target, statError)
	}

	if writeError := os.WriteFile(target, []byte(content), mode); writeError != nil {
		return fmt.Errorf(errorWriteFormat, target, writeError)
	}
	if chmodError := os.Chmod(target, mode); chmodError != nil {
		return fmt.Errorf(errorWriteFormat, target, chmodError)
	}
	sink.written = append(sink.written, target)
	return nil
}

func fileMode(name string, regular os.FileMode, executable os.FileMode) os.FileMode {
	lowerName := strings.ToLower(name)
	for _, pattern := range executablePatterns {
		if matched, _ := path.Match(pattern, lowerName); matched {
			return executable
		}
	}
	return regular
}
