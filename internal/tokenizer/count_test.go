package tokenizer_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/temirov/treesnap/internal/tokenizer"
)

// wordCounter counts whitespace-separated words so tests do not depend on
// downloaded tokenizer vocabularies.
type wordCounter struct{}

func (wordCounter) Name() string {
	return "word-counter"
}

func (wordCounter) CountString(input string) (int, error) {
	return len(strings.Fields(input)), nil
}

func TestCountBytes(testingHandle *testing.T) {
	testCases := []struct {
		name           string
		data           []byte
		expectedTokens int
		expectCounted  bool
	}{
		{name: "plain text", data: []byte("alpha beta gamma"), expectedTokens: 3, expectCounted: true},
		{name: "empty content", data: nil, expectedTokens: 0, expectCounted: true},
		{name: "binary content", data: []byte{0, 1, 2}, expectCounted: false},
		{name: "invalid utf8", data: []byte{0xff, 0xfe}, expectCounted: false},
	}
	for _, testCase := range testCases {
		testingHandle.Run(testCase.name, func(subTest *testing.T) {
			result, countError := tokenizer.CountBytes(wordCounter{}, testCase.data)
			if countError != nil {
				subTest.Fatalf("count bytes: %v", countError)
			}
			if result.Counted != testCase.expectCounted {
				subTest.Fatalf("expected counted=%v, got %v", testCase.expectCounted, result.Counted)
			}
			if result.Tokens != testCase.expectedTokens {
				subTest.Fatalf("expected %d tokens, got %d", testCase.expectedTokens, result.Tokens)
			}
		})
	}
}

func TestCountBytesRequiresCounter(testingHandle *testing.T) {
	if _, countError := tokenizer.CountBytes(nil, []byte("text")); countError == nil {
		testingHandle.Fatalf("expected error for nil counter")
	}
}

func TestCountFile(testingHandle *testing.T) {
	temporaryDirectory := testingHandle.TempDir()
	filePath := filepath.Join(temporaryDirectory, "notes.txt")
	if writeError := os.WriteFile(filePath, []byte("one two"), 0o600); writeError != nil {
		testingHandle.Fatalf("write file: %v", writeError)
	}

	result, countError := tokenizer.CountFile(wordCounter{}, filePath)
	if countError != nil {
		testingHandle.Fatalf("count file: %v", countError)
	}
	if !result.Counted || result.Tokens != 2 {
		testingHandle.Fatalf("unexpected result %+v", result)
	}

	missingPath := filepath.Join(temporaryDirectory, "missing.txt")
	if _, missingError := tokenizer.CountFile(wordCounter{}, missingPath); missingError == nil {
		testingHandle.Fatalf("expected error for missing file")
	}
}
