package cli

import (
	"io"
	"reflect"
	"testing"

	"github.com/spf13/pflag"
)

func TestRegisterCopyFlagParsesValues(t *testing.T) {
	testCases := []struct {
		name        string
		arguments   []string
		expected    bool
		expectError bool
	}{
		{name: "defaults_to_false", arguments: []string{}, expected: false},
		{name: "sets_true_without_value", arguments: []string{"--copy"}, expected: true},
		{name: "sets_false_with_equals", arguments: []string{"--copy=false"}, expected: false},
		{name: "sets_false_with_no", arguments: []string{"--copy", "no"}, expected: false},
		{name: "sets_true_with_on", arguments: []string{"--copy", "on"}, expected: true},
		{name: "rejects_invalid_text", arguments: []string{"--copy", "maybe"}, expectError: true},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			var flagValue bool
			flagSet := pflag.NewFlagSet("copy-flag", pflag.ContinueOnError)
			flagSet.SetOutput(io.Discard)
			registerCopyFlag(flagSet, &flagValue)
			parseErr := flagSet.Parse(normalizeCopyFlagArguments(testCase.arguments))
			if testCase.expectError {
				if parseErr == nil {
					t.Fatalf("expected error for arguments %v", testCase.arguments)
				}
				return
			}
			if parseErr != nil {
				t.Fatalf("unexpected parse error: %v", parseErr)
			}
			if flagValue != testCase.expected {
				t.Fatalf("expected value %t, got %t", testCase.expected, flagValue)
			}
		})
	}
}

func TestNormalizeCopyFlagArgumentsKeepsInputPaths(t *testing.T) {
	testCases := []struct {
		name      string
		arguments []string
		expected  []string
	}{
		{
			name:      "path_after_command",
			arguments: []string{"parse", "--copy", "layout.txt"},
			expected:  []string{"parse", "--copy", "layout.txt"},
		},
		{
			name:      "alias_after_flag",
			arguments: []string{"--copy", "p", "layout.txt"},
			expected:  []string{"--copy", "p", "layout.txt"},
		},
		{
			name:      "trailing_flag",
			arguments: []string{"p", "layout.txt", "--copy"},
			expected:  []string{"p", "layout.txt", "--copy=true"},
		},
		{
			name:      "after_terminator",
			arguments: []string{"parse", "--", "--copy", "yes"},
			expected:  []string{"parse", "--", "--copy", "yes"},
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			actual := normalizeCopyFlagArguments(testCase.arguments)
			if !reflect.DeepEqual(actual, testCase.expected) {
				t.Fatalf("expected %v, got %v", testCase.expected, actual)
			}
		})
	}
}
