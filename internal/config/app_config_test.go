package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/temirov/treesnap/internal/config"
)

const localConfigurationContent = `snap:
  format: raw
  summary: false
  tokens:
    enabled: true
    model: gpt-4o
  paths:
    exclude:
      - vendor/
    use_gitignore: false
`

const globalConfigurationContent = `snap:
  format: xml
  clipboard: true
`

// TestLoadApplicationConfiguration verifies local configuration decoding.
func TestLoadApplicationConfiguration(testingHandle *testing.T) {
	homeDirectory := testingHandle.TempDir()
	testingHandle.Setenv("HOME", homeDirectory)

	workingDirectory := testingHandle.TempDir()
	writeError := os.WriteFile(filepath.Join(workingDirectory, ".treesnap.yaml"), []byte(localConfigurationContent), 0o644)
	if writeError != nil {
		testingHandle.Fatalf("write local configuration: %v", writeError)
	}

	applicationConfiguration, loadError := config.LoadApplicationConfiguration(config.LoadOptions{WorkingDirectory: workingDirectory})
	if loadError != nil {
		testingHandle.Fatalf("LoadApplicationConfiguration error: %v", loadError)
	}

	snapConfiguration := applicationConfiguration.Snap
	if snapConfiguration.Format != "raw" {
		testingHandle.Fatalf("unexpected format %q", snapConfiguration.Format)
	}
	if snapConfiguration.Summary == nil || *snapConfiguration.Summary {
		testingHandle.Fatalf("expected summary disabled, got %+v", snapConfiguration.Summary)
	}
	if snapConfiguration.Tokens.Enabled == nil || !*snapConfiguration.Tokens.Enabled {
		testingHandle.Fatalf("expected tokens enabled, got %+v", snapConfiguration.Tokens.Enabled)
	}
	if len(snapConfiguration.Paths.Exclude) != 1 || snapConfiguration.Paths.Exclude[0] != "vendor/" {
		testingHandle.Fatalf("unexpected exclusions %v", snapConfiguration.Paths.Exclude)
	}
	if snapConfiguration.Paths.UseGitignore == nil || *snapConfiguration.Paths.UseGitignore {
		testingHandle.Fatalf("expected gitignore disabled, got %+v", snapConfiguration.Paths.UseGitignore)
	}
}

// TestLoadApplicationConfigurationMergesGlobal verifies that local values
// override the global file while untouched global values survive.
func TestLoadApplicationConfigurationMergesGlobal(testingHandle *testing.T) {
	homeDirectory := testingHandle.TempDir()
	testingHandle.Setenv("HOME", homeDirectory)
	globalDirectory := filepath.Join(homeDirectory, ".treesnap")
	if mkdirError := os.MkdirAll(globalDirectory, 0o755); mkdirError != nil {
		testingHandle.Fatalf("mkdir global configuration directory: %v", mkdirError)
	}
	writeError := os.WriteFile(filepath.Join(globalDirectory, ".treesnap.yaml"), []byte(globalConfigurationContent), 0o644)
	if writeError != nil {
		testingHandle.Fatalf("write global configuration: %v", writeError)
	}

	workingDirectory := testingHandle.TempDir()
	writeError = os.WriteFile(filepath.Join(workingDirectory, ".treesnap.yaml"), []byte("snap:\n  format: raw\n"), 0o644)
	if writeError != nil {
		testingHandle.Fatalf("write local configuration: %v", writeError)
	}

	applicationConfiguration, loadError := config.LoadApplicationConfiguration(config.LoadOptions{WorkingDirectory: workingDirectory})
	if loadError != nil {
		testingHandle.Fatalf("LoadApplicationConfiguration error: %v", loadError)
	}
	if applicationConfiguration.Snap.Format != "raw" {
		testingHandle.Fatalf("expected local format override, got %q", applicationConfiguration.Snap.Format)
	}
	if applicationConfiguration.Snap.Clipboard == nil || !*applicationConfiguration.Snap.Clipboard {
		testingHandle.Fatalf("expected global clipboard setting to survive, got %+v", applicationConfiguration.Snap.Clipboard)
	}
}

// TestInitializeConfiguration verifies the local init target and overwrite guard.
func TestInitializeConfiguration(testingHandle *testing.T) {
	workingDirectory := testingHandle.TempDir()

	writtenPath, initializeError := config.InitializeConfiguration(config.InitOptions{
		Target:           config.InitTargetLocal,
		WorkingDirectory: workingDirectory,
	})
	if initializeError != nil {
		testingHandle.Fatalf("InitializeConfiguration error: %v", initializeError)
	}
	if writtenPath != filepath.Join(workingDirectory, ".treesnap.yaml") {
		testingHandle.Fatalf("unexpected configuration path %s", writtenPath)
	}

	_, secondError := config.InitializeConfiguration(config.InitOptions{
		Target:           config.InitTargetLocal,
		WorkingDirectory: workingDirectory,
	})
	if secondError == nil {
		testingHandle.Fatalf("expected overwrite error without force")
	}

	_, forcedError := config.InitializeConfiguration(config.InitOptions{
		Target:           config.InitTargetLocal,
		WorkingDirectory: workingDirectory,
		Force:            true,
	})
	if forcedError != nil {
		testingHandle.Fatalf("forced InitializeConfiguration error: %v", forcedError)
	}
}
