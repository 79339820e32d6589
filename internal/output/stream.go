package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/temirov/skel/internal/services/stream"
	"github.com/temirov/skel/internal/types"
)

const errorUnsupportedFormat = "unsupported format %q (want %s, %s or %s)"

// StreamRenderer consumes stream events and writes the final document on Flush.
type StreamRenderer interface {
	Handle(event stream.Event) error
	Flush() error
}

// RendererOptions selects and configures a StreamRenderer.
type RendererOptions struct {
	Format         string
	Command        string
	IncludeSummary bool
	Style          Style
}

// NewStreamRenderer returns the renderer for options.Format.
func NewStreamRenderer(stdout, stderr io.Writer, options RendererOptions) (StreamRenderer, error) {
	switch strings.ToLower(strings.TrimSpace(options.Format)) {
	case types.FormatRaw, "":
		return NewRawStreamRenderer(stdout, stderr, options.Command, options.IncludeSummary, options.Style), nil
	case types.FormatJSON:
		return NewJSONStreamRenderer(stdout, stderr, options.Command, options.IncludeSummary), nil
	case types.FormatXML:
		return NewXMLStreamRenderer(stdout, stderr), nil
	default:
		return nil, fmt.Errorf(errorUnsupportedFormat, options.Format, types.FormatRaw, types.FormatJSON, types.FormatXML)
	}
}
