// Package output renders parsed trees and generated skeletons as raw text, JSON or XML.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/temirov/skel/internal/types"
)

const (
	indentPrefix = ""
	indentSpacer = "  "

	treeBranchConnector = "├── "
	treeLastConnector   = "└── "
	treeBranchPadding   = "│   "
	treeLastPadding     = "    "
	folderSuffix        = "/"

	summaryLineFormat = "Summary: %d %s, %d %s"
	summarySizeFormat = ", %s"
)

// FormatSummaryLine formats an OutputSummary as "Summary: N files, M folders[, size]".
func FormatSummaryLine(summary types.OutputSummary) string {
	line := fmt.Sprintf(summaryLineFormat,
		summary.TotalFiles, plural(summary.TotalFiles, "file", "files"),
		summary.TotalFolders, plural(summary.TotalFolders, "folder", "folders"),
	)
	if summary.TotalSize != "" {
		line += fmt.Sprintf(summarySizeFormat, summary.TotalSize)
	}
	return line
}

// WriteTreeRaw draws node and its descendants with box-drawing connectors.
// Folders are suffixed with "/" so the output parses back into the same tree.
func WriteTreeRaw(writer io.Writer, node *types.TreeOutputNode, style Style) {
	if node == nil {
		return
	}
	writeTreeNode(writer, node, "", true, true, style)
}

// RenderTreeRaw returns the WriteTreeRaw output as a string.
func RenderTreeRaw(node *types.TreeOutputNode, style Style) string {
	var builder strings.Builder
	WriteTreeRaw(&builder, node, style)
	return builder.String()
}

func writeTreeNode(writer io.Writer, node *types.TreeOutputNode, prefix string, isRoot bool, isLast bool, style Style) {
	linePrefix, childPrefix := treeNodeLinePrefix(prefix, isRoot, isLast)
	label := style.fileName(node.Name)
	if node.Type == types.NodeTypeFolder {
		label = style.folderName(node.Name + folderSuffix)
	}
	fmt.Fprintf(writer, "%s%s\n", style.connectorText(linePrefix), label)
	for index, child := range node.Children {
		if child == nil {
			continue
		}
		writeTreeNode(writer, child, childPrefix, false, index == len(node.Children)-1, style)
	}
}

func treeNodeLinePrefix(prefix string, isRoot bool, isLast bool) (string, string) {
	if isRoot {
		return "", ""
	}
	if isLast {
		return prefix + treeLastConnector, prefix + treeLastPadding
	}
	return prefix + treeBranchConnector, prefix + treeBranchPadding
}

func plural(count int, singular string, pluralForm string) string {
	if count == 1 {
		return singular
	}
	return pluralForm
}
