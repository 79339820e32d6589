// Package types defines every cross‑package data structure used by the skel CLI.
package types

import "encoding/xml"

const (
	NodeTypeFile   = "file"
	NodeTypeFolder = "folder"

	CommandParse    = "parse"
	CommandGenerate = "generate"

	FormatRaw  = "raw"
	FormatJSON = "json"
	FormatXML  = "xml"
)

// FileOutput represents one generated file of a project skeleton.
type FileOutput struct {
	Path      string `json:"path" xml:"path"`
	Type      string `json:"type" xml:"type"`
	Content   string `json:"content" xml:"content"`
	Size      string `json:"size,omitempty" xml:"size,omitempty"`
	SizeBytes int64  `json:"-" xml:"-"`
}

// TreeOutputNode represents a node of a parsed tree as rendered by the parse command and the HTTP service.
type TreeOutputNode struct {
	XMLName      xml.Name          `json:"-" xml:"node"`
	Path         string            `json:"path" xml:"path"`
	Name         string            `json:"name" xml:"name"`
	Type         string            `json:"type" xml:"type"`
	Level        int               `json:"level" xml:"level"`
	Expanded     bool              `json:"expanded" xml:"expanded"`
	Content      string            `json:"content,omitempty" xml:"content,omitempty"`
	Children     []*TreeOutputNode `json:"children,omitempty" xml:"children>node,omitempty"`
	TotalFiles   int               `json:"totalFiles,omitempty" xml:"totalFiles,omitempty"`
	TotalFolders int               `json:"totalFolders,omitempty" xml:"totalFolders,omitempty"`
}

// OutputSummary captures aggregate information about a parsed or generated tree.
type OutputSummary struct {
	TotalFiles   int    `json:"totalFiles" xml:"totalFiles"`
	TotalFolders int    `json:"totalFolders" xml:"totalFolders"`
	TotalSize    string `json:"totalSize,omitempty" xml:"totalSize,omitempty"`
}
