// Package report turns per-file scan results into test-style output.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/gubarz/dupword/internal/discover"
	"github.com/gubarz/dupword/internal/scan"
)

// ErrUnknownFormat is returned by New for an unsupported report format
var ErrUnknownFormat = errors.New("unknown report format")

// Result is the outcome of scanning one file
type Result struct {
	File     discover.File
	Findings []scan.Finding
}

// Passed reports whether the file had no findings
func (r Result) Passed() bool {
	return len(r.Findings) == 0
}

// Message returns one line per finding, in detection order
func (r Result) Message() string {
	lines := make([]string, len(r.Findings))
	for i, f := range r.Findings {
		lines[i] = f.String()
	}
	return strings.Join(lines, "\n")
}

// Summary counts results
type Summary struct {
	Files    int `json:"files"`
	Failed   int `json:"failed"`
	Findings int `json:"findings"`
}

// Summarize computes the summary of results
func Summarize(results []Result) Summary {
	s := Summary{Files: len(results)}
	for _, r := range results {
		if !r.Passed() {
			s.Failed++
			s.Findings += len(r.Findings)
		}
	}
	return s
}

// OK reports whether every file passed
func (s Summary) OK() bool {
	return s.Failed == 0
}

// Reporter writes results to w
type Reporter interface {
	Report(w io.Writer, results []Result) error
}

// New returns the reporter for format
func New(format string, color bool) (Reporter, error) {
	switch format {
	case "tap":
		return TAP{}, nil
	case "text":
		return NewText(color), nil
	case "json":
		return JSON{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// TAP writes a Test Anything Protocol stream, one test per file
type TAP struct{}

// Report implements Reporter
func (TAP) Report(w io.Writer, results []Result) error {
	var b strings.Builder
	fmt.Fprintf(&b, "1..%d\n", len(results))
	for i, r := range results {
		if r.Passed() {
			fmt.Fprintf(&b, "ok %d - %s\n", i+1, r.File.Path)
			continue
		}
		fmt.Fprintf(&b, "not ok %d - %s\n", i+1, r.File.Path)
		for _, line := range strings.Split(r.Message(), "\n") {
			fmt.Fprintf(&b, "# %s\n", line)
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// Text writes a human readable, optionally coloured report
type Text struct {
	pass  lipgloss.Style
	fail  lipgloss.Style
	path  lipgloss.Style
	word  lipgloss.Style
	dim   lipgloss.Style
	color bool
}

// NewText creates a text reporter
func NewText(color bool) Text {
	t := Text{color: color}
	if color {
		t.pass = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
		t.fail = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
		t.path = lipgloss.NewStyle().Bold(true)
		t.word = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
		t.dim = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	}
	return t
}

func (t Text) render(s lipgloss.Style, text string) string {
	if !t.color {
		return text
	}
	return s.Render(text)
}

// Report implements Reporter
func (t Text) Report(w io.Writer, results []Result) error {
	var b strings.Builder
	for _, r := range results {
		if r.Passed() {
			fmt.Fprintf(&b, "%s %s\n", t.render(t.pass, "PASS"), t.render(t.path, r.File.Path))
			continue
		}
		fmt.Fprintf(&b, "%s %s\n", t.render(t.fail, "FAIL"), t.render(t.path, r.File.Path))
		for _, f := range r.Findings {
			fmt.Fprintf(&b, "    %s %s\n",
				t.render(t.dim, fmt.Sprintf("%5d", f.Line)),
				t.render(t.word, "«"+f.Word+"»"))
		}
	}

	s := Summarize(results)
	fmt.Fprintf(&b, "\n%d files, %d failed, %d repeated words\n", s.Files, s.Failed, s.Findings)

	_, err := io.WriteString(w, b.String())
	return err
}

// JSON writes the results as a single JSON document
type JSON struct{}

type jsonFile struct {
	Path     string         `json:"path"`
	Dialect  string         `json:"dialect"`
	Passed   bool           `json:"passed"`
	Findings []scan.Finding `json:"findings"`
}

type jsonReport struct {
	Files   []jsonFile `json:"files"`
	Summary Summary    `json:"summary"`
}

// Report implements Reporter
func (JSON) Report(w io.Writer, results []Result) error {
	out := jsonReport{Files: make([]jsonFile, len(results)), Summary: Summarize(results)}
	for i, r := range results {
		findings := r.Findings
		if findings == nil {
			findings = []scan.Finding{}
		}
		out.Files[i] = jsonFile{
			Path:     r.File.Path,
			Dialect:  r.File.Dialect.String(),
			Passed:   r.Passed(),
			Findings: findings,
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
