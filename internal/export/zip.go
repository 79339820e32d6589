package export

import (
	"archive/zip"
	"fmt"
	"io"
	"strings"

	"github.com/temirov/skel/internal/services/stream"
)

const (
	errorZipEntryFormat = "zip entry %s: %w"
	zipDirectoryMode    = 0o755
	zipFileMode         = 0o644
	zipExecutableMode   = 0o755
)

// ZipSink writes directory and file events as archive entries named after their event paths.
type ZipSink struct {
	writer  *zip.Writer
	entries int
}

// NewZipSink returns a sink writing a ZIP archive to destination.
func NewZipSink(destination io.Writer) *ZipSink {
	return &ZipSink{writer: zip.NewWriter(destination)}
}

// Handle writes one entry per directory enter and file event.
func (sink *ZipSink) Handle(event stream.Event) error {
	switch event.Kind {
	case stream.EventKindDirectory:
		if event.Directory == nil || event.Directory.Phase != stream.DirectoryEnter {
			return nil
		}
		return sink.addDirectory(event.Directory.Path)
	case stream.EventKindFile:
		if event.File == nil {
			return nil
		}
		return sink.addFile(event.File.Path, event.File.Content)
	default:
		return nil
	}
}

// Entries reports how many entries were written.
func (sink *ZipSink) Entries() int {
	return sink.entries
}

// Close writes the central directory. The underlying writer is not closed.
func (sink *ZipSink) Close() error {
	return sink.writer.Close()
}

func (sink *ZipSink) addDirectory(entryPath string) error {
	segments, validationError := entrySegments(entryPath)
	if validationError != nil {
		return validationError
	}
	header := &zip.FileHeader{Name: strings.Join(segments, entrySeparator) + entrySeparator, Method: zip.Store}
	header.SetMode(zipDirectoryMode | modeDirectory)
	if _, createError := sink.writer.CreateHeader(header); createError != nil {
		return fmt.Errorf(errorZipEntryFormat, entryPath, createError)
	}
	sink.entries++
	return nil
}

func (sink *ZipSink) addFile(entryPath string, content string) error {
	segments, validationError := entrySegments(entryPath)
	if validationError != nil {
		return validationError
	}
	header := &zip.FileHeader{Name: strings.Join(segments, entrySeparator), Method: zip.Deflate}
	mode := fileMode(segments[len(segments)-1], zipFileMode, zipExecutableMode)
	header.SetMode(mode)
	entryWriter, createError := sink.writer.CreateHeader(header)
	if createError != nil {
		return fmt.Errorf(errorZipEntryFormat, entryPath, createError)
	}
	if _, writeError := io.WriteString(entryWriter, content); writeError != nil {
		return fmt.Errorf(errorZipEntryFormat, entryPath, writeError)
	}
	sink.entries++
	return nil
}
