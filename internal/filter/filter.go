// Package filter decides whether root-relative paths are excluded from a snapshot.
package filter

import (
	"fmt"
	"strings"

	"github.com/gobwas/glob"
)

const pathSegmentSeparator = "/"

// Filter reports whether a path relative to the snapshot root is excluded.
// Implementations must accept forward-slash or platform-separated paths and
// must be safe to call once per filesystem entry during a build.
type Filter interface {
	IsIgnored(relativePath string) bool
}

// Func adapts a plain function to the Filter interface.
type Func func(relativePath string) bool

// IsIgnored invokes the wrapped function.
func (filterFunction Func) IsIgnored(relativePath string) bool {
	return filterFunction(relativePath)
}

// compiledPattern is one ignore pattern split into per-segment globs. A
// directory pattern (trailing slash in the source) matches the named path and
// every descendant beneath it; other patterns match an exact path, with a
// single-segment pattern evaluated against the base name alone.
type compiledPattern struct {
	segments    []glob.Glob
	isDirectory bool
}

// PatternFilter implements Filter over a compiled ignore pattern list.
type PatternFilter struct {
	patterns []compiledPattern
}

// NewPatternFilter compiles the provided ignore patterns. Empty patterns are
// skipped; an unparsable pattern aborts compilation with an error naming it.
func NewPatternFilter(ignorePatterns []string) (*PatternFilter, error) {
	patternFilter := &PatternFilter{}
	for _, patternValue := range ignorePatterns {
		normalizedPattern := strings.ReplaceAll(strings.TrimSpace(patternValue), "\\", pathSegmentSeparator)
		if normalizedPattern == "" {
			continue
		}
		isDirectoryPattern := strings.HasSuffix(normalizedPattern, pathSegmentSeparator)
		trimmedPattern := strings.TrimSuffix(normalizedPattern, pathSegmentSeparator)
		segmentValues := strings.Split(trimmedPattern, pathSegmentSeparator)
		compiledSegments := make([]glob.Glob, 0, len(segmentValues))
		for _, segmentValue := range segmentValues {
			compiledSegment, compileError := glob.Compile(segmentValue)
			if compileError != nil {
				return nil, fmt.Errorf("compiling ignore pattern %q: %w", patternValue, compileError)
			}
			compiledSegments = append(compiledSegments, compiledSegment)
		}
		patternFilter.patterns = append(patternFilter.patterns, compiledPattern{
			segments:    compiledSegments,
			isDirectory: isDirectoryPattern,
		})
	}
	return patternFilter, nil
}

// IsIgnored reports whether the relative path matches any compiled pattern.
// The root path "." is never ignored.
func (patternFilter *PatternFilter) IsIgnored(relativePath string) bool {
	normalizedPath := strings.ReplaceAll(relativePath, "\\", pathSegmentSeparator)
	if normalizedPath == "" || normalizedPath == "." {
		return false
	}
	pathSegments := strings.Split(normalizedPath, pathSegmentSeparator)
	lastSegment := pathSegments[len(pathSegments)-1]

	for _, candidatePattern := range patternFilter.patterns {
		if candidatePattern.isDirectory {
			if len(pathSegments) >= len(candidatePattern.segments) &&
				segmentsMatch(pathSegments[:len(candidatePattern.segments)], candidatePattern.segments) {
				return true
			}
			continue
		}
		if len(candidatePattern.segments) == 1 {
			if candidatePattern.segments[0].Match(lastSegment) {
				return true
			}
			continue
		}
		if len(pathSegments) == len(candidatePattern.segments) &&
			segmentsMatch(pathSegments, candidatePattern.segments) {
			return true
		}
	}
	return false
}

// segmentsMatch reports whether each compiled segment matches the corresponding path segment.
func segmentsMatch(pathSegments []string, patternSegments []glob.Glob) bool {
	for segmentIndex, patternSegment := range patternSegments {
		if !patternSegment.Match(pathSegments[segmentIndex]) {
			return false
		}
	}
	return true
}
