// Package parser converts indented tree-drawing text into a tree.Tree.
package parser

import (
	"strings"
	"unicode"

	"github.com/temirov/skel/internal/tree"
)

const (
	// IndentWidth is the number of stripped columns that make one nesting level.
	IndentWidth = 4
	// FallbackRootName names the empty folder returned when the input holds no entries.
	FallbackRootName = "project"

	folderSuffix       = "/"
	lineSeparator      = "\n"
	carriageReturn     = "\r"
	syntheticRootLevel = -1

	asciiBranch = '|'
	asciiLast   = '`'
	asciiCorner = '+'
	asciiDash   = '-'
	tabRune     = '\t'
)

// boxGlyphs are the tree-drawing characters stripped wherever they appear in the leading run.
var boxGlyphs = map[rune]struct{}{
	'│': {},
	'├': {},
	'└': {},
	'─': {},
	'┬': {},
	'┼': {},
	'┌': {},
	'╰': {},
	'╭': {},
}

// ParseFileTree reads one entry per non-blank line and nests entries by indentation.
//
// Indentation is the width of the leading connectors and whitespace divided by IndentWidth,
// truncated. A tab advances to the next multiple of IndentWidth. Labels ending in "/" are folders. Only the first top-level entry is
// returned as the root; later top-level entries are dropped. Input without entries
// yields an empty folder named FallbackRootName at level 0. The function never fails.
func ParseFileTree(input string) *tree.Tree {
	scratch := tree.New("", tree.KindFolder, syntheticRootLevel)
	ancestors := []tree.NodeID{scratch.Root()}

	for _, rawLine := range strings.Split(input, lineSeparator) {
		label, strippedCount := stripConnectors(strings.TrimSuffix(rawLine, carriageReturn))
		label = strings.TrimRightFunc(label, unicode.IsSpace)
		if label == "" {
			continue
		}

		level := strippedCount / IndentWidth
		kind := tree.KindFile
		name := label
		if strings.HasSuffix(label, folderSuffix) {
			kind = tree.KindFolder
			name = strings.TrimSuffix(label, folderSuffix)
		}

		for len(ancestors) > 1 && scratch.Node(ancestors[len(ancestors)-1]).Level >= level {
			ancestors = ancestors[:len(ancestors)-1]
		}

		nodeID, attachError := scratch.AddChild(ancestors[len(ancestors)-1], name, kind, level)
		if attachError != nil {
			continue
		}
		if kind == tree.KindFolder {
			ancestors = append(ancestors, nodeID)
		}
	}

	topLevel := scratch.Children(scratch.Root())
	if len(topLevel) == 0 {
		return tree.New(FallbackRootName, tree.KindFolder, 0)
	}
	return scratch.Subtree(topLevel[0])
}

// stripConnectors removes the leading run of connectors and whitespace and reports its width.
// Every rune counts one column except tabs, which advance to the next tab stop.
func stripConnectors(line string) (string, int) {
	characters := []rune(line)
	width := 0
	for index := 0; index < len(characters); {
		character := characters[index]
		if character == tabRune {
			width += IndentWidth - width%IndentWidth
			index++
			continue
		}
		if _, isGlyph := boxGlyphs[character]; isGlyph || unicode.IsSpace(character) {
			width++
			index++
			continue
		}
		connectorLength := asciiConnectorLength(characters[index:])
		if connectorLength == 0 {
			return string(characters[index:]), width
		}
		width += connectorLength
		index += connectorLength
	}
	return "", width
}

// asciiConnectorLength reports the length of an ASCII connector ("|", "|--", "`--", "+--") at the
// start of characters, or zero. A connector must end at whitespace or at the end of the line,
// so labels such as "+page.svelte" or "-rf.txt" are kept whole.
func asciiConnectorLength(characters []rune) int {
	switch characters[0] {
	case asciiBranch, asciiLast, asciiCorner:
	default:
		return 0
	}
	length := 1
	for length < len(characters) && characters[length] == asciiDash {
		length++
	}
	if length == 1 && characters[0] != asciiBranch {
		return 0
	}
	if length < len(characters) && !unicode.IsSpace(characters[length]) {
		return 0
	}
	return length
}
