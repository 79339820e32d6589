// Package export writes generated skeletons to ZIP archives or directories.
package export

import (
	"errors"
	"fmt"
	"strings"

	"github.com/temirov/skel/internal/services/stream"
	"github.com/temirov/skel/internal/utils"
)

// Sink consumes skeleton events. Close finalizes the output.
type Sink interface {
	Handle(event stream.Event) error
	Close() error
}

var (
	// ErrPathEscapesRoot is returned when an entry would be written outside the destination.
	ErrPathEscapesRoot = utils.ErrPathEscapesRoot
	// ErrFileExists is returned when a file exists and overwriting was not requested.
	ErrFileExists = errors.New("file already exists")
	// ErrConflict is returned when a file occupies a folder path or the other way around.
	ErrConflict = errors.New("path conflict")
)

const (
	errorEntryNameFormat = "entry %q: %w"
	entrySeparator       = "/"
)

// entrySegments splits a slash separated event path and validates every segment.
func entrySegments(entryPath string) ([]string, error) {
	segments := strings.Split(entryPath, entrySeparator)
	for _, segment := range segments {
		if validationError := utils.ValidateName(segment); validationError != nil {
			return nil, fmt.Errorf(errorEntryNameFormat, entryPath, validationError)
		}
	}
	return segments, nil
}
