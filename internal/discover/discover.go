// Package discover finds documentation files and classifies their markup dialect.
package discover

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Dialect is the markup flavour of a documentation file
type Dialect int

const (
	// Plain is Markdown-style text with fenced code blocks
	Plain Dialect = iota
	// Marked is Pod6-style markup with =begin/=end directives
	Marked
)

func (d Dialect) String() string {
	if d == Marked {
		return "marked"
	}
	return "plain"
}

// extensions maps a lowercase file extension to its dialect
var extensions = map[string]Dialect{
	".pod6": Marked,
	".md":   Plain,
}

// File is a candidate documentation file
type File struct {
	Path    string
	Dialect Dialect
}

// Options controls directory discovery
type Options struct {
	Exclude []string // doublestar patterns relative to the root
}

// Classify returns the dialect for path, or false if the extension is not recognized
func Classify(path string) (Dialect, bool) {
	d, ok := extensions[strings.ToLower(filepath.Ext(path))]
	return d, ok
}

// FromPaths classifies an explicit ordered list of paths.
// Paths with unrecognized extensions are dropped.
func FromPaths(paths []string) []File {
	files := make([]File, 0, len(paths))
	for _, p := range paths {
		if d, ok := Classify(p); ok {
			files = append(files, File{Path: p, Dialect: d})
		}
	}
	return files
}

// Discover walks root and returns every recognized file in walk order.
// If root is a file it is returned alone when its extension is recognized.
func Discover(root string, opts Options) ([]File, error) {
	for _, pattern := range opts.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid exclude pattern %q", pattern)
		}
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("discover %s: %w", root, err)
	}
	if !info.IsDir() {
		return FromPaths([]string{root}), nil
	}

	var files []File
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") || excluded(rel, opts.Exclude) {
				return filepath.SkipDir
			}
			return nil
		}
		if excluded(rel, opts.Exclude) {
			return nil
		}
		if dialect, ok := Classify(path); ok {
			files = append(files, File{Path: path, Dialect: dialect})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("discover %s: %w", root, err)
	}
	return files, nil
}

// Recognized reports whether path has a documentation extension and is not excluded
func Recognized(root, path string, exclude []string) bool {
	if _, ok := Classify(path); !ok {
		return false
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return !excluded(filepath.ToSlash(rel), exclude)
}

func excluded(rel string, patterns []string) bool {
	for _, pattern := range patterns {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}
