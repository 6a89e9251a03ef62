// Package types defines every cross-package data structure used by the treesnap CLI.
package types

import (
	"encoding/xml"
	"time"
)

const (
	NodeTypeFile      = "file"
	NodeTypeDirectory = "directory"
	NodeTypeBinary    = "binary"

	CommandSnap = "snap"

	FormatRaw  = "raw"
	FormatJSON = "json"
	FormatXML  = "xml"
)

// TreeNode represents one filesystem entry inside a Snapshot. Path is the
// absolute path and serves as the node's unique identifier. Children is
// meaningful only for directory nodes and is ordered directories-first, then
// file-kind nodes, each group sorted by Name in ascending byte order.
type TreeNode struct {
	XMLName      xml.Name    `json:"-" xml:"node"`
	Path         string      `json:"path" xml:"path"`
	Name         string      `json:"name" xml:"name"`
	Type         string      `json:"type" xml:"type"`
	Size         string      `json:"size,omitempty" xml:"size,omitempty"`
	SizeBytes    int64       `json:"-" xml:"-"`
	LastModified string      `json:"lastModified,omitempty" xml:"lastModified,omitempty"`
	MimeType     string      `json:"mimeType,omitempty" xml:"mimeType,omitempty"`
	Tokens       int         `json:"tokens,omitempty" xml:"tokens,omitempty"`
	Model        string      `json:"model,omitempty" xml:"model,omitempty"`
	Children     []*TreeNode `json:"children,omitempty" xml:"children>node,omitempty"`
	TotalFiles   int         `json:"totalFiles,omitempty" xml:"totalFiles,omitempty"`
	TotalSize    string      `json:"totalSize,omitempty" xml:"totalSize,omitempty"`
	TotalTokens  int         `json:"totalTokens,omitempty" xml:"totalTokens,omitempty"`
}

// IsDirectory reports whether the node represents a directory.
func (node *TreeNode) IsDirectory() bool {
	return node != nil && node.Type == NodeTypeDirectory
}

// Snapshot is one complete, immutable directory-tree build result. A rebuild
// produces a brand-new Snapshot; a tree handed to a consumer is never mutated
// afterwards.
type Snapshot struct {
	XMLName xml.Name  `json:"-" xml:"snapshot"`
	Root    string    `json:"root" xml:"root"`
	Tree    *TreeNode `json:"tree" xml:"node"`
	BuiltAt time.Time `json:"builtAt" xml:"builtAt"`
}

// OutputSummary captures aggregate information about a rendered snapshot.
type OutputSummary struct {
	TotalFiles  int    `json:"totalFiles" xml:"totalFiles"`
	TotalSize   string `json:"totalSize" xml:"totalSize"`
	TotalTokens int    `json:"totalTokens,omitempty" xml:"totalTokens,omitempty"`
	Model       string `json:"model,omitempty" xml:"model,omitempty"`
}
