package utils_test

import (
	"testing"

	"github.com/temirov/skel/internal/utils"
)

func TestFormatFileSize(t *testing.T) {
	testCases := []struct {
		name     string
		bytes    int64
		expected string
	}{
		{name: "negative", bytes: -1, expected: "0 B"},
		{name: "zero", bytes: 0, expected: "0 B"},
		{name: "bytes", bytes: 512, expected: "512 B"},
		{name: "one kibibyte", bytes: 1024, expected: "1.0 KiB"},
		{name: "fractional kibibyte", bytes: 1536, expected: "1.5 KiB"},
		{name: "ten mebibytes", bytes: 10 * 1024 * 1024, expected: "10 MiB"},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			result := utils.FormatFileSize(testCase.bytes)
			if result != testCase.expected {
				t.Fatalf("expected %s, got %s", testCase.expected, result)
			}
		})
	}
}
