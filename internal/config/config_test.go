package config_test

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/temirov/treesnap/internal/config"
)

// TestLoadIgnoreFilePatterns verifies comment and blank line handling.
func TestLoadIgnoreFilePatterns(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	ignoreFilePath := filepath.Join(rootDirectory, ".ignore")
	ignoreFileContent := "# comment\n\nvendor/\n*.log\n  spaced.txt  \n"
	writeError := os.WriteFile(ignoreFilePath, []byte(ignoreFileContent), 0o644)
	if writeError != nil {
		testingHandle.Fatalf("write ignore file: %v", writeError)
	}

	ignorePatterns, loadError := config.LoadIgnoreFilePatterns(ignoreFilePath)
	if loadError != nil {
		testingHandle.Fatalf("LoadIgnoreFilePatterns error: %v", loadError)
	}
	expectedPatterns := []string{"vendor/", "*.log", "spaced.txt"}
	if !reflect.DeepEqual(ignorePatterns, expectedPatterns) {
		testingHandle.Fatalf("unexpected patterns %v, want %v", ignorePatterns, expectedPatterns)
	}
}

// TestLoadIgnoreFilePatternsMissingFile verifies a missing file yields nothing.
func TestLoadIgnoreFilePatternsMissingFile(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	ignorePatterns, loadError := config.LoadIgnoreFilePatterns(filepath.Join(rootDirectory, ".ignore"))
	if loadError != nil {
		testingHandle.Fatalf("expected no error for missing file, got %v", loadError)
	}
	if len(ignorePatterns) != 0 {
		testingHandle.Fatalf("expected no patterns, got %v", ignorePatterns)
	}
}

// TestLoadCombinedIgnorePatterns verifies aggregation, deduplication, the
// default .git exclusion, and appended explicit exclusions.
func TestLoadCombinedIgnorePatterns(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	writeError := os.WriteFile(filepath.Join(rootDirectory, ".ignore"), []byte("vendor/\n*.log\n"), 0o644)
	if writeError != nil {
		testingHandle.Fatalf("write .ignore: %v", writeError)
	}
	writeError = os.WriteFile(filepath.Join(rootDirectory, ".gitignore"), []byte("*.log\nbuild/\n"), 0o644)
	if writeError != nil {
		testingHandle.Fatalf("write .gitignore: %v", writeError)
	}

	combinedPatterns, loadError := config.LoadCombinedIgnorePatterns(rootDirectory, []string{"extra", " ", "vendor/"}, true, true, false)
	if loadError != nil {
		testingHandle.Fatalf("LoadCombinedIgnorePatterns error: %v", loadError)
	}
	expectedPatterns := []string{"vendor/", "*.log", "build/", ".git/", "extra"}
	if !reflect.DeepEqual(combinedPatterns, expectedPatterns) {
		testingHandle.Fatalf("unexpected patterns %v, want %v", combinedPatterns, expectedPatterns)
	}
}

// TestLoadCombinedIgnorePatternsIncludeGit verifies that git inclusion drops
// the default .git pattern.
func TestLoadCombinedIgnorePatternsIncludeGit(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	combinedPatterns, loadError := config.LoadCombinedIgnorePatterns(rootDirectory, nil, true, true, true)
	if loadError != nil {
		testingHandle.Fatalf("LoadCombinedIgnorePatterns error: %v", loadError)
	}
	if len(combinedPatterns) != 0 {
		testingHandle.Fatalf("expected no patterns, got %v", combinedPatterns)
	}
}
