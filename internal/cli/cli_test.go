package cli

import (
	"strings"
	"testing"

	"github.com/temirov/treesnap/internal/types"
)

func TestIsSupportedFormat(testingHandle *testing.T) {
	for _, supportedFormat := range []string{types.FormatRaw, types.FormatJSON, types.FormatXML} {
		if !isSupportedFormat(supportedFormat) {
			testingHandle.Fatalf("expected %q to be supported", supportedFormat)
		}
	}
	for _, unsupportedFormat := range []string{"", "yaml", "RAW"} {
		if isSupportedFormat(unsupportedFormat) {
			testingHandle.Fatalf("expected %q to be rejected", unsupportedFormat)
		}
	}
}

func TestSnapCommandName(testingHandle *testing.T) {
	snapCommand := createSnapCommand()
	if snapCommand.Name() != types.CommandSnap {
		testingHandle.Fatalf("expected command name %q, got %q", types.CommandSnap, snapCommand.Name())
	}
	if !strings.HasPrefix(snapCommand.Use, types.CommandSnap) {
		testingHandle.Fatalf("expected use line to start with %q, got %q", types.CommandSnap, snapCommand.Use)
	}
	if !snapCommand.HasAlias(snapAlias) {
		testingHandle.Fatalf("expected alias %q on the snap command", snapAlias)
	}
}

func TestRenderSnapshotsRawPrependsSummary(testingHandle *testing.T) {
	snapshots := []*types.Snapshot{{
		Root: "/workspace/project",
		Tree: &types.TreeNode{
			Path: "/workspace/project",
			Name: "project",
			Type: types.NodeTypeDirectory,
			Children: []*types.TreeNode{
				{Path: "/workspace/project/main.go", Name: "main.go", Type: types.NodeTypeFile, SizeBytes: 128},
			},
		},
	}}

	rendered, renderError := renderSnapshots(snapshots, types.FormatRaw, true, "")
	if renderError != nil {
		testingHandle.Fatalf("render snapshots: %v", renderError)
	}
	if !strings.HasPrefix(rendered, "Summary: 1 file, 128b") {
		testingHandle.Fatalf("expected leading summary line:\n%s", rendered)
	}
}
