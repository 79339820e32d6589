// Package clipboard copies rendered trees to the system clipboard.
package clipboard

import (
	"errors"
	"fmt"

	"github.com/atotto/clipboard"
)

const errorCopyFormat = "copy to clipboard: %w"

// ErrUnavailable is returned when no clipboard utility exists on the host.
var ErrUnavailable = errors.New("clipboard is not available on this system")

// Copier copies textual data to a clipboard.
type Copier interface {
	Copy(text string) error
}

// SystemCopier writes to the operating system clipboard.
type SystemCopier struct{}

// NewSystemCopier returns a Copier backed by the system clipboard.
func NewSystemCopier() SystemCopier {
	return SystemCopier{}
}

// Copy replaces the clipboard contents with text.
func (SystemCopier) Copy(text string) error {
	if clipboard.Unsupported {
		return ErrUnavailable
	}
	if writeError := clipboard.WriteAll(text); writeError != nil {
		return fmt.Errorf(errorCopyFormat, writeError)
	}
	return nil
}

var _ Copier = SystemCopier{}
