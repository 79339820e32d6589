package output

import (
	"encoding/xml"
	"fmt"
	"io"

	"github.com/temirov/skel/internal/services/stream"
)

const (
	xmlEventsOpen  = "<events>\n"
	xmlEventsClose = "\n</events>\n"
)

type xmlStreamRenderer struct {
	stdout  io.Writer
	stderr  io.Writer
	encoder *xml.Encoder
	started bool
}

// NewXMLStreamRenderer writes every event as an <event> element inside an <events> document.
func NewXMLStreamRenderer(stdout, stderr io.Writer) StreamRenderer {
	return &xmlStreamRenderer{stdout: stdout, stderr: stderr}
}

func (renderer *xmlStreamRenderer) Handle(event stream.Event) error {
	if event.Kind == stream.EventKindWarning && event.Message != nil && renderer.stderr != nil {
		fmt.Fprintln(renderer.stderr, event.Message.Message)
	}
	if event.Kind == stream.EventKindError && event.Err != nil && renderer.stderr != nil {
		fmt.Fprintln(renderer.stderr, event.Err.Message)
	}
	if renderer.stdout == nil {
		return nil
	}
	if err := renderer.begin(); err != nil {
		return err
	}
	return renderer.encoder.Encode(event)
}

func (renderer *xmlStreamRenderer) Flush() error {
	if !renderer.started {
		return nil
	}
	if err := renderer.encoder.Flush(); err != nil {
		return err
	}
	_, err := io.WriteString(renderer.stdout, xmlEventsClose)
	return err
}

func (renderer *xmlStreamRenderer) begin() error {
	if renderer.started {
		return nil
	}
	if _, err := io.WriteString(renderer.stdout, xml.Header+xmlEventsOpen); err != nil {
		return err
	}
	renderer.encoder = xml.NewEncoder(renderer.stdout)
	renderer.encoder.Indent(indentSpacer, indentSpacer)
	renderer.started = true
	return nil
}
