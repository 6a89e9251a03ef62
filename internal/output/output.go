// Package output renders snapshots in raw, JSON, and XML formats.
package output

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"

	"github.com/temirov/treesnap/internal/types"
	"github.com/temirov/treesnap/internal/utils"
)

const (
	indentPrefix = ""
	indentSpacer = "  "

	xmlHeader      = xml.Header
	xmlRootElement = "snapshots"

	mimeTypeLabel    = "Mime Type: "
	binaryTreeFormat = "%s[Binary] %s (%s%s)\n"

	treeBranchConnector = "├── "
	treeLastConnector   = "└── "
	treeBranchPadding   = "│   "
	treeLastPadding     = "    "
)

// RenderSnapshotsJSON marshals the snapshots to indented JSON. A single
// snapshot is rendered as an object, multiple snapshots as an array.
func RenderSnapshotsJSON(snapshots []*types.Snapshot) (string, error) {
	if len(snapshots) == 1 {
		encoded, jsonEncodeError := json.MarshalIndent(snapshots[0], indentPrefix, indentSpacer)
		return string(encoded), jsonEncodeError
	}
	encoded, jsonEncodeError := json.MarshalIndent(snapshots, indentPrefix, indentSpacer)
	return string(encoded), jsonEncodeError
}

// RenderSnapshotsXML marshals the snapshots as an XML document.
func RenderSnapshotsXML(snapshots []*types.Snapshot) (string, error) {
	if len(snapshots) == 1 {
		encoded, xmlMarshalError := xml.MarshalIndent(snapshots[0], indentPrefix, indentSpacer)
		if xmlMarshalError != nil {
			return "", xmlMarshalError
		}
		return xmlHeader + string(encoded), nil
	}
	wrapper := struct {
		XMLName   xml.Name          `xml:""`
		Snapshots []*types.Snapshot `xml:"snapshot"`
	}{
		XMLName:   xml.Name{Local: xmlRootElement},
		Snapshots: snapshots,
	}
	encoded, xmlMarshalError := xml.MarshalIndent(wrapper, indentPrefix, indentSpacer)
	if xmlMarshalError != nil {
		return "", xmlMarshalError
	}
	return xmlHeader + string(encoded), nil
}

// RenderSnapshotsRaw renders the snapshots in raw text format.
func RenderSnapshotsRaw(snapshots []*types.Snapshot, includeSummary bool) string {
	var buffer bytes.Buffer
	for _, snapshot := range snapshots {
		if snapshot == nil || snapshot.Tree == nil {
			continue
		}
		fmt.Fprintf(&buffer, "\n--- Snapshot: %s ---\n", snapshot.Root)
		WriteTreeRaw(&buffer, snapshot.Tree, includeSummary)
	}
	return buffer.String()
}

// WriteTreeRaw renders a directory tree to the provided writer.
func WriteTreeRaw(writer io.Writer, node *types.TreeNode, includeSummary bool) {
	if node == nil {
		return
	}
	renderTreeNode(writer, node, "", includeSummary, true, true)
}

func renderTreeNode(writer io.Writer, node *types.TreeNode, prefix string, includeSummary bool, isRoot bool, isLast bool) {
	if node == nil {
		return
	}
	linePrefix, childPrefix := treeNodeLinePrefix(prefix, isRoot, isLast)
	switch node.Type {
	case types.NodeTypeFile:
		if node.Tokens > 0 {
			fmt.Fprintf(writer, "%s[File] %s (%d tokens)\n", linePrefix, node.Name, node.Tokens)
		} else {
			fmt.Fprintf(writer, "%s[File] %s\n", linePrefix, node.Name)
		}
		return
	case types.NodeTypeBinary:
		fmt.Fprintf(writer, binaryTreeFormat, linePrefix, node.Name, mimeTypeLabel, node.MimeType)
		return
	}
	if isRoot {
		fmt.Fprintf(writer, "%s%s\n", linePrefix, node.Path)
	} else {
		fmt.Fprintf(writer, "%s%s\n", linePrefix, node.Name)
	}
	summaryLine := directorySummaryLine(node, includeSummary)
	if summaryLine != "" {
		if isRoot {
			fmt.Fprintf(writer, "%s\n", summaryLine)
		} else {
			fmt.Fprintf(writer, "%s%s\n", childPrefix, summaryLine)
		}
	}
	for childIndex, child := range node.Children {
		if child == nil {
			continue
		}
		renderTreeNode(writer, child, childPrefix, includeSummary, false, childIndex == len(node.Children)-1)
	}
}

func treeNodeLinePrefix(prefix string, isRoot bool, isLast bool) (string, string) {
	if isRoot {
		return "", ""
	}
	connector := treeBranchConnector
	childPrefix := prefix + treeBranchPadding
	if isLast {
		connector = treeLastConnector
		childPrefix = prefix + treeLastPadding
	}
	return prefix + connector, childPrefix
}

func directorySummaryLine(node *types.TreeNode, includeSummary bool) string {
	if !includeSummary || node == nil || node.Type != types.NodeTypeDirectory {
		return ""
	}
	count := node.TotalFiles
	size := node.TotalSize
	tokens := node.TotalTokens
	if size == "" {
		files, bytes, countedTokens := summarizeTree(node)
		count = files
		size = utils.FormatFileSize(bytes)
		tokens = countedTokens
	}
	label := "files"
	if count == 1 {
		label = "file"
	}
	tokenSuffix := ""
	if tokens > 0 {
		tokenSuffix = fmt.Sprintf(", %d tokens", tokens)
	}
	return fmt.Sprintf("Summary: %d %s, %s%s", count, label, size, tokenSuffix)
}

// summarizeTree returns the file count, total size, and tokens for a tree node.
func summarizeTree(node *types.TreeNode) (int, int64, int) {
	if node == nil {
		return 0, 0, 0
	}
	var totalFiles int
	var totalBytes int64
	var totalTokens int
	if node.Type == types.NodeTypeFile || node.Type == types.NodeTypeBinary {
		totalFiles++
		totalBytes += node.SizeBytes
		totalTokens += node.Tokens
	}
	for _, child := range node.Children {
		childFiles, childBytes, childTokens := summarizeTree(child)
		totalFiles += childFiles
		totalBytes += childBytes
		totalTokens += childTokens
	}
	return totalFiles, totalBytes, totalTokens
}

// ComputeSummary aggregates file counts, sizes, and tokens across snapshots.
func ComputeSummary(snapshots []*types.Snapshot, model string) *types.OutputSummary {
	var totalFiles int
	var totalBytes int64
	var totalTokens int
	for _, snapshot := range snapshots {
		if snapshot == nil {
			continue
		}
		files, bytes, tokens := summarizeTree(snapshot.Tree)
		totalFiles += files
		totalBytes += bytes
		totalTokens += tokens
	}
	summaryModel := ""
	if totalTokens > 0 {
		summaryModel = model
	}
	return &types.OutputSummary{
		TotalFiles:  totalFiles,
		TotalSize:   utils.FormatFileSize(totalBytes),
		TotalTokens: totalTokens,
		Model:       summaryModel,
	}
}

// FormatSummaryLine formats an OutputSummary into the raw summary line.
func FormatSummaryLine(summary *types.OutputSummary) string {
	if summary == nil {
		summary = &types.OutputSummary{}
	}
	label := "files"
	if summary.TotalFiles == 1 {
		label = "file"
	}
	tokenSuffix := ""
	if summary.TotalTokens > 0 {
		tokenSuffix = fmt.Sprintf(", %d tokens", summary.TotalTokens)
	}
	modelSuffix := ""
	if summary.Model != "" {
		modelSuffix = fmt.Sprintf(" (model: %s)", summary.Model)
	}
	return fmt.Sprintf("Summary: %d %s, %s%s%s", summary.TotalFiles, label, summary.TotalSize, tokenSuffix, modelSuffix)
}
