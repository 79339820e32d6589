package utils

import (
	"github.com/dustin/go-humanize"
)

// FormatFileSize converts a byte length into a binary-prefixed size such as "1.5 KiB".
func FormatFileSize(bytes int64) string {
	if bytes < 0 {
		bytes = 0
	}
	return humanize.IBytes(uint64(bytes))
}
