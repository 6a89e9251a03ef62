// Package commands contains the core data collection logic behind each CLI command.
package commands

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"
	"unicode/utf8"

	"github.com/temirov/treesnap/internal/filter"
	"github.com/temirov/treesnap/internal/tokenizer"
	"github.com/temirov/treesnap/internal/types"
	"github.com/temirov/treesnap/internal/utils"
)

const (
	// warningListDirectoryFormat is used when a directory cannot be listed.
	warningListDirectoryFormat = "skipping contents of %s: %v"
	// warningStatEntryFormat is used when file information cannot be retrieved.
	warningStatEntryFormat = "unable to stat %s: %v"
	// warningTokenCountFormat is used when token estimation fails for a file.
	warningTokenCountFormat = "failed to count tokens for %s: %v"

	// errorAbsolutePathFormat is used when the absolute path cannot be determined.
	errorAbsolutePathFormat = "getting absolute path for %s: %w"
)

// TreeBuilder assembles directory-tree snapshots using configured options.
// Every build degrades gracefully: unreadable directories yield zero children
// and undecodable entry names fall back to a placeholder label, so a build
// always produces a tree.
type TreeBuilder struct {
	// Filter decides which root-relative paths are excluded. A nil Filter
	// excludes nothing. The root itself is never evaluated against it.
	Filter filter.Filter
	// IncludeSummary attaches aggregate file counts, sizes, and tokens to
	// directory nodes.
	IncludeSummary bool
	// TokenCounter, when set, estimates token counts for non-binary files.
	TokenCounter tokenizer.Counter
	// TokenModel names the model the counts are attributed to.
	TokenModel string
	// Warn receives non-fatal build diagnostics. A nil Warn discards them.
	Warn func(message string)
}

// directoryFrame is one pending directory on the explicit traversal stack.
// Children accumulate on node while entries are consumed; the frame is popped
// once exhausted, at which point the children are sorted and summarized.
type directoryFrame struct {
	node    *types.TreeNode
	entries []os.DirEntry
	next    int
}

// Snapshot builds a complete Snapshot of rootPath. The only error returned is
// a failure to resolve the absolute root path; filesystem irregularities during
// the walk degrade into a smaller tree instead.
func (treeBuilder *TreeBuilder) Snapshot(rootPath string) (*types.Snapshot, error) {
	absoluteRootPath, absolutePathError := filepath.Abs(rootPath)
	if absolutePathError != nil {
		return nil, fmt.Errorf(errorAbsolutePathFormat, rootPath, absolutePathError)
	}
	return &types.Snapshot{
		Root:    absoluteRootPath,
		Tree:    treeBuilder.Build(absoluteRootPath),
		BuiltAt: time.Now(),
	}, nil
}

// Build walks absoluteRootPath and returns the assembled root node. A root
// that turns out to be a regular file becomes a single leaf node; a root that
// cannot be listed becomes a directory node with zero children.
func (treeBuilder *TreeBuilder) Build(absoluteRootPath string) *types.TreeNode {
	rootInfo, rootStatError := os.Stat(absoluteRootPath)
	if rootStatError == nil && !rootInfo.IsDir() {
		return treeBuilder.newFileNode(absoluteRootPath, rootInfo)
	}

	rootNode := newDirectoryNode(absoluteRootPath, rootInfo)
	frames := []*directoryFrame{{
		node:    rootNode,
		entries: treeBuilder.listDirectory(absoluteRootPath),
	}}

	for len(frames) > 0 {
		frame := frames[len(frames)-1]
		if frame.next >= len(frame.entries) {
			sortChildren(frame.node.Children)
			if treeBuilder.IncludeSummary {
				applySummary(frame.node)
			}
			frames = frames[:len(frames)-1]
			continue
		}

		directoryEntry := frame.entries[frame.next]
		frame.next++

		entryName := directoryEntry.Name()
		if entryName == utils.GitDirectoryName {
			continue
		}
		entryPath := filepath.Join(frame.node.Path, entryName)
		relativeEntryPath := utils.RelativePathOrSelf(entryPath, absoluteRootPath)
		if treeBuilder.Filter != nil && treeBuilder.Filter.IsIgnored(relativeEntryPath) {
			continue
		}

		if treeBuilder.resolvesToDirectory(directoryEntry, entryPath) {
			entryInfo, _ := directoryEntry.Info()
			childNode := newDirectoryNode(entryPath, entryInfo)
			frame.node.Children = append(frame.node.Children, childNode)
			frames = append(frames, &directoryFrame{
				node:    childNode,
				entries: treeBuilder.listDirectory(entryPath),
			})
			continue
		}

		entryInfo, infoError := directoryEntry.Info()
		if infoError != nil {
			treeBuilder.warn(warningStatEntryFormat, entryPath, infoError)
		}
		frame.node.Children = append(frame.node.Children, treeBuilder.newFileNode(entryPath, entryInfo))
	}

	return rootNode
}

// listDirectory returns the direct entries of directoryPath. Listing failures
// are reported to the warn hook and degrade to an empty entry list.
func (treeBuilder *TreeBuilder) listDirectory(directoryPath string) []os.DirEntry {
	directoryEntries, readDirectoryError := os.ReadDir(directoryPath)
	if readDirectoryError != nil {
		treeBuilder.warn(warningListDirectoryFormat, directoryPath, readDirectoryError)
		return nil
	}
	return directoryEntries
}

// resolvesToDirectory reports whether the entry is a directory, following a
// symlink to whatever its target resolves to. Cycles are not detected.
func (treeBuilder *TreeBuilder) resolvesToDirectory(directoryEntry os.DirEntry, entryPath string) bool {
	if directoryEntry.IsDir() {
		return true
	}
	if directoryEntry.Type()&fs.ModeSymlink == 0 {
		return false
	}
	targetInfo, statError := os.Stat(entryPath)
	if statError != nil {
		return false
	}
	return targetInfo.IsDir()
}

func (treeBuilder *TreeBuilder) newFileNode(entryPath string, entryInfo fs.FileInfo) *types.TreeNode {
	node := &types.TreeNode{
		Path: entryPath,
		Name: displayName(entryPath),
		Type: types.NodeTypeFile,
	}
	if utils.IsFileBinary(entryPath) {
		node.Type = types.NodeTypeBinary
		node.MimeType = utils.DetectMimeType(entryPath)
	}
	if entryInfo != nil {
		node.SizeBytes = entryInfo.Size()
		node.Size = utils.FormatFileSize(entryInfo.Size())
		node.LastModified = utils.FormatTimestamp(entryInfo.ModTime())
	}
	if treeBuilder.TokenCounter != nil && node.Type != types.NodeTypeBinary {
		countResult, countError := tokenizer.CountFile(treeBuilder.TokenCounter, entryPath)
		if countError != nil {
			treeBuilder.warn(warningTokenCountFormat, entryPath, countError)
		} else if countResult.Counted {
			node.Tokens = countResult.Tokens
			node.Model = treeBuilder.TokenModel
		}
	}
	return node
}

func (treeBuilder *TreeBuilder) warn(format string, arguments ...any) {
	if treeBuilder.Warn == nil {
		return
	}
	treeBuilder.Warn(fmt.Sprintf(format, arguments...))
}

func newDirectoryNode(directoryPath string, directoryInfo fs.FileInfo) *types.TreeNode {
	node := &types.TreeNode{
		Path: directoryPath,
		Name: displayName(directoryPath),
		Type: types.NodeTypeDirectory,
	}
	if directoryInfo != nil {
		node.LastModified = utils.FormatTimestamp(directoryInfo.ModTime())
	}
	return node
}

// displayName returns the base name of entryPath, replacing names that are not
// valid UTF-8 with a fixed placeholder instead of failing the build.
func displayName(entryPath string) string {
	baseName := filepath.Base(entryPath)
	if !utf8.ValidString(baseName) {
		return utils.UnknownNameLabel
	}
	return baseName
}

// sortChildren orders sibling nodes directories-first, then by name in
// ascending byte order within each group.
func sortChildren(children []*types.TreeNode) {
	sort.SliceStable(children, func(leftIndex, rightIndex int) bool {
		leftChild, rightChild := children[leftIndex], children[rightIndex]
		if leftChild.IsDirectory() != rightChild.IsDirectory() {
			return leftChild.IsDirectory()
		}
		return leftChild.Name < rightChild.Name
	})
}

// applySummary stores aggregate counts, bytes, and tokens on a directory node
// whose children are already complete.
func applySummary(node *types.TreeNode) {
	var totalFiles int
	var totalBytes int64
	var totalTokens int
	for _, child := range node.Children {
		if child == nil {
			continue
		}
		if child.IsDirectory() {
			totalFiles += child.TotalFiles
			totalBytes += child.SizeBytes
			totalTokens += child.TotalTokens
			continue
		}
		totalFiles++
		totalBytes += child.SizeBytes
		totalTokens += child.Tokens
	}
	node.TotalFiles = totalFiles
	node.SizeBytes = totalBytes
	node.TotalSize = utils.FormatFileSize(totalBytes)
	node.TotalTokens = totalTokens
}
