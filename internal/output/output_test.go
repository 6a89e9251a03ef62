package output_test

import (
	"encoding/json"
	"encoding/xml"
	"strings"
	"testing"

	"github.com/temirov/treesnap/internal/output"
	"github.com/temirov/treesnap/internal/types"
)

func buildSampleSnapshot() *types.Snapshot {
	return &types.Snapshot{
		Root: "/workspace/project",
		Tree: &types.TreeNode{
			Path: "/workspace/project",
			Name: "project",
			Type: types.NodeTypeDirectory,
			Children: []*types.TreeNode{
				{
					Path: "/workspace/project/docs",
					Name: "docs",
					Type: types.NodeTypeDirectory,
					Children: []*types.TreeNode{
						{
							Path:      "/workspace/project/docs/readme.md",
							Name:      "readme.md",
							Type:      types.NodeTypeFile,
							SizeBytes: 64,
						},
					},
				},
				{
					Path:      "/workspace/project/logo.png",
					Name:      "logo.png",
					Type:      types.NodeTypeBinary,
					MimeType:  "image/png",
					SizeBytes: 256,
				},
				{
					Path:      "/workspace/project/main.go",
					Name:      "main.go",
					Type:      types.NodeTypeFile,
					SizeBytes: 128,
					Tokens:    42,
				},
			},
		},
	}
}

func TestRenderSnapshotsRaw(testingHandle *testing.T) {
	rendered := output.RenderSnapshotsRaw([]*types.Snapshot{buildSampleSnapshot()}, false)

	expectedLines := []string{
		"--- Snapshot: /workspace/project ---",
		"/workspace/project",
		"├── docs",
		"│   └── [File] readme.md",
		"├── [Binary] logo.png (Mime Type: image/png)",
		"└── [File] main.go (42 tokens)",
	}
	for _, expectedLine := range expectedLines {
		if !strings.Contains(rendered, expectedLine+"\n") {
			testingHandle.Fatalf("raw output missing line %q:\n%s", expectedLine, rendered)
		}
	}
}

func TestRenderSnapshotsRawIncludesDirectorySummaries(testingHandle *testing.T) {
	rendered := output.RenderSnapshotsRaw([]*types.Snapshot{buildSampleSnapshot()}, true)

	if !strings.Contains(rendered, "Summary: 3 files, 448b, 42 tokens") {
		testingHandle.Fatalf("expected root summary line in output:\n%s", rendered)
	}
	if !strings.Contains(rendered, "Summary: 1 file, 64b") {
		testingHandle.Fatalf("expected docs summary line in output:\n%s", rendered)
	}
}

func TestRenderSnapshotsRawSkipsEmptySnapshots(testingHandle *testing.T) {
	rendered := output.RenderSnapshotsRaw([]*types.Snapshot{nil, {Root: "/empty"}}, false)
	if rendered != "" {
		testingHandle.Fatalf("expected empty output, got %q", rendered)
	}
}

func TestRenderSnapshotsJSON(testingHandle *testing.T) {
	single, singleError := output.RenderSnapshotsJSON([]*types.Snapshot{buildSampleSnapshot()})
	if singleError != nil {
		testingHandle.Fatalf("render single snapshot: %v", singleError)
	}
	if !strings.HasPrefix(single, "{") {
		testingHandle.Fatalf("expected single snapshot to render as an object:\n%s", single)
	}
	var decodedSingle map[string]any
	if decodeError := json.Unmarshal([]byte(single), &decodedSingle); decodeError != nil {
		testingHandle.Fatalf("decode single snapshot: %v", decodeError)
	}

	multiple, multipleError := output.RenderSnapshotsJSON([]*types.Snapshot{buildSampleSnapshot(), buildSampleSnapshot()})
	if multipleError != nil {
		testingHandle.Fatalf("render multiple snapshots: %v", multipleError)
	}
	if !strings.HasPrefix(multiple, "[") {
		testingHandle.Fatalf("expected multiple snapshots to render as an array:\n%s", multiple)
	}
}

func TestRenderSnapshotsXML(testingHandle *testing.T) {
	single, singleError := output.RenderSnapshotsXML([]*types.Snapshot{buildSampleSnapshot()})
	if singleError != nil {
		testingHandle.Fatalf("render single snapshot: %v", singleError)
	}
	if !strings.HasPrefix(single, "<?xml") {
		testingHandle.Fatalf("expected XML declaration:\n%s", single)
	}
	if !strings.Contains(single, "<snapshot>") || !strings.Contains(single, "<node>") {
		testingHandle.Fatalf("expected snapshot and node elements:\n%s", single)
	}

	var decodedSingle types.Snapshot
	if decodeError := xml.Unmarshal([]byte(single), &decodedSingle); decodeError != nil {
		testingHandle.Fatalf("decode single snapshot: %v", decodeError)
	}
	if decodedSingle.Root != "/workspace/project" {
		testingHandle.Fatalf("unexpected decoded root %q", decodedSingle.Root)
	}
	if decodedSingle.Tree == nil || decodedSingle.Tree.Name != "project" {
		testingHandle.Fatalf("unexpected decoded tree %+v", decodedSingle.Tree)
	}
	if len(decodedSingle.Tree.Children) != 3 {
		testingHandle.Fatalf("expected 3 children after round trip, got %d", len(decodedSingle.Tree.Children))
	}

	multiple, multipleError := output.RenderSnapshotsXML([]*types.Snapshot{buildSampleSnapshot(), buildSampleSnapshot()})
	if multipleError != nil {
		testingHandle.Fatalf("render multiple snapshots: %v", multipleError)
	}
	if !strings.Contains(multiple, "<snapshots>") {
		testingHandle.Fatalf("expected snapshots wrapper element:\n%s", multiple)
	}
	if strings.Count(multiple, "<snapshot>") != 2 {
		testingHandle.Fatalf("expected two snapshot elements:\n%s", multiple)
	}
}

func TestComputeSummary(testingHandle *testing.T) {
	summary := output.ComputeSummary([]*types.Snapshot{buildSampleSnapshot()}, "gpt-4o")
	if summary.TotalFiles != 3 {
		testingHandle.Fatalf("expected 3 files, got %d", summary.TotalFiles)
	}
	if summary.TotalSize != "448b" {
		testingHandle.Fatalf("expected 448b, got %s", summary.TotalSize)
	}
	if summary.TotalTokens != 42 {
		testingHandle.Fatalf("expected 42 tokens, got %d", summary.TotalTokens)
	}
	if summary.Model != "gpt-4o" {
		testingHandle.Fatalf("expected model to be recorded, got %q", summary.Model)
	}

	tokenlessSummary := output.ComputeSummary(nil, "gpt-4o")
	if tokenlessSummary.Model != "" {
		testingHandle.Fatalf("expected model to be omitted without tokens, got %q", tokenlessSummary.Model)
	}
}

func TestFormatSummaryLine(testingHandle *testing.T) {
	line := output.FormatSummaryLine(&types.OutputSummary{
		TotalFiles:  2,
		TotalSize:   "1.5kb",
		TotalTokens: 10,
		Model:       "gpt-4o",
	})
	if line != "Summary: 2 files, 1.5kb, 10 tokens (model: gpt-4o)" {
		testingHandle.Fatalf("unexpected summary line %q", line)
	}

	singular := output.FormatSummaryLine(&types.OutputSummary{TotalFiles: 1, TotalSize: "64b"})
	if singular != "Summary: 1 file, 64b" {
		testingHandle.Fatalf("unexpected singular summary line %q", singular)
	}
}
