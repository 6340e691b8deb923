// Package scan detects accidentally repeated words in documentation text.
//
// A file is consumed line by line. Each line is run through Step together
// with a State value that carries the code-block flag and the last word of
// the previous line, so a repetition split across a line break is still
// caught and attributed to the second line.
package scan

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/gubarz/dupword/internal/discover"
)

// ErrInvalidEncoding is returned when a line is not valid UTF-8
var ErrInvalidEncoding = errors.New("invalid UTF-8")

// maxLineSize bounds a single line read from disk
const maxLineSize = 4 * 1024 * 1024

// Finding is a repeated word and the line it was detected on
type Finding struct {
	Word string `json:"word"`
	Line int    `json:"line"`
}

func (f Finding) String() string {
	return fmt.Sprintf("«%s» on line %d", f.Word, f.Line)
}

// State is the mutable per-file scan state
type State struct {
	Line     int
	InCode   bool
	Carry    string
	Findings []Finding
}

// rules describe how a dialect marks structure
type rules struct {
	skipIndented bool
	directive    string
	codeBegin    *regexp.Regexp
	codeEnd      *regexp.Regexp
}

var (
	markedRules = rules{
		skipIndented: true,
		directive:    "=",
		codeBegin:    regexp.MustCompile(`^\s*=begin\s+code\b`),
		codeEnd:      regexp.MustCompile(`^\s*=end\s+code\b`),
	}
	// Plain files accept fences and the Pod code markers, since Markdown
	// converted from Pod often keeps its =begin code blocks.
	plainRules = rules{
		directive: "#",
		codeBegin: regexp.MustCompile("^ {0,3}(```|~~~)|^\\s*=begin\\s+code\\b"),
		codeEnd:   regexp.MustCompile("^ {0,3}(```|~~~)\\s*$|^\\s*=end\\s+code\\b"),
	}
)

func rulesFor(d discover.Dialect) rules {
	if d == discover.Marked {
		return markedRules
	}
	return plainRules
}

// Scanner finds repeated words, ignoring allow-listed ones
type Scanner struct {
	allow AllowList
}

// New creates a scanner with the given allow-list
func New(allow AllowList) *Scanner {
	return &Scanner{allow: allow}
}

// Step processes one physical line of a file in the given dialect
func (s *Scanner) Step(st *State, dialect discover.Dialect, line string) {
	st.Line++
	r := rulesFor(dialect)

	// Indented continuation lines in marked files are verbatim text
	if r.skipIndented && strings.HasPrefix(line, "  ") {
		return
	}

	directive := r.directive != "" && strings.HasPrefix(line, r.directive)

	// A code marker line never seeds a carried word
	if !st.InCode && r.codeBegin.MatchString(line) {
		st.InCode = true
	} else if st.InCode && r.codeEnd.MatchString(line) {
		st.InCode = false
		directive = true
	}

	composed := line
	if st.Carry != "" {
		composed = st.Carry + " " + line
	}
	st.Carry = ""

	if st.InCode {
		return
	}

	for _, word := range Duplicates(composed) {
		if s.allow.Contains(word) {
			continue
		}
		st.Findings = append(st.Findings, Finding{Word: word, Line: st.Line})
	}

	if !directive {
		st.Carry = trailingWord(line)
	}
}

// Scan reads r to the end and returns the findings in detection order
func (s *Scanner) Scan(r io.Reader, dialect discover.Dialect) ([]Finding, error) {
	var st State

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for sc.Scan() {
		line := sc.Text()
		if !utf8.ValidString(line) {
			return nil, fmt.Errorf("line %d: %w", st.Line+1, ErrInvalidEncoding)
		}
		s.Step(&st, dialect, line)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return st.Findings, nil
}

// ScanFile opens f and scans it
func (s *Scanner) ScanFile(f discover.File) ([]Finding, error) {
	file, err := os.Open(f.Path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	findings, err := s.Scan(file, f.Dialect)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.Path, err)
	}
	return findings, nil
}
