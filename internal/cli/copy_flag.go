package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
)

const (
	copyFlagTypeName      = "copy"
	errorCopyFlagValue    = "invalid copy flag value '%s'"
	copyFlagImpliedFormat = "--%s=%t"
)

// copyFlagCommands are the command names after which a bare --copy never consumes the next argument.
var copyFlagCommands = map[string]struct{}{
	"parse": {},
	"p":     {},
}

func isCopyFlagCommand(argument string) bool {
	_, known := copyFlagCommands[strings.ToLower(strings.TrimSpace(argument))]
	return known
}

// copyFlagValue accepts the same literals as boolean flags. An empty value means true.
type copyFlagValue struct {
	target *bool
}

func (value *copyFlagValue) Set(input string) error {
	if strings.TrimSpace(input) == "" {
		input = toggleFlagTrueLiteral
	}
	parsed, known := parseToggleLiteral(input)
	if !known || value.target == nil {
		return fmt.Errorf(errorCopyFlagValue, input)
	}
	*value.target = parsed
	return nil
}

func (value *copyFlagValue) String() string {
	if value == nil || value.target == nil {
		return strconv.FormatBool(false)
	}
	return strconv.FormatBool(*value.target)
}

func (value *copyFlagValue) Type() string {
	return copyFlagTypeName
}

func registerCopyFlag(flagSet *pflag.FlagSet, target *bool) {
	if flagSet == nil || target == nil {
		return
	}
	*target = false
	flagSet.Var(&copyFlagValue{target: target}, copyFlagName, copyFlagDescription)
	if registered := flagSet.Lookup(copyFlagName); registered != nil {
		registered.NoOptDefVal = toggleFlagTrueLiteral
	}
}

// normalizeCopyFlagArguments resolves "--copy VALUE". Before the command name an unknown
// VALUE is bound to the flag so that pflag reports it; after the command it stays positional.
func normalizeCopyFlagArguments(arguments []string) []string {
	if len(arguments) == 0 {
		return arguments
	}
	normalized := make([]string, 0, len(arguments))
	commandSeen := false
	for index := 0; index < len(arguments); index++ {
		argument := arguments[index]
		if argument == "--" {
			normalized = append(normalized, arguments[index:]...)
			break
		}
		if argument != "--"+copyFlagName {
			normalized = append(normalized, argument)
			if !commandSeen && !strings.HasPrefix(argument, "-") && isCopyFlagCommand(argument) {
				commandSeen = true
			}
			continue
		}
		if index+1 >= len(arguments) || strings.HasPrefix(arguments[index+1], "-") {
			normalized = append(normalized, fmt.Sprintf(copyFlagImpliedFormat, copyFlagName, true))
			continue
		}
		next := arguments[index+1]
		if parsed, known := parseToggleLiteral(next); known {
			normalized = append(normalized, fmt.Sprintf(copyFlagImpliedFormat, copyFlagName, parsed))
			index++
			continue
		}
		if commandSeen || isCopyFlagCommand(next) {
			normalized = append(normalized, argument)
			continue
		}
		normalized = append(normalized, argument+"="+next)
		index++
	}
	return normalized
}
