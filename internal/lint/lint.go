// Package lint runs the repeated-word scan over a set of files.
package lint

import (
	"io"
	"log/slog"

	"github.com/gubarz/dupword/internal/discover"
	"github.com/gubarz/dupword/internal/report"
	"github.com/gubarz/dupword/internal/scan"
)

// Linter scans files one at a time, in order
type Linter struct {
	scanner *scan.Scanner
	logger  *slog.Logger
}

// New creates a linter. A nil logger discards log output.
func New(scanner *scan.Scanner, logger *slog.Logger) *Linter {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Linter{scanner: scanner, logger: logger}
}

// Run scans every file and returns one result per file.
// The first file that cannot be read aborts the run.
func (l *Linter) Run(files []discover.File) ([]report.Result, error) {
	results := make([]report.Result, 0, len(files))
	for _, f := range files {
		findings, err := l.scanner.ScanFile(f)
		if err != nil {
			l.logger.Error("scan failed", slog.String("path", f.Path), slog.String("error", err.Error()))
			return nil, err
		}
		l.logger.Debug("scanned",
			slog.String("path", f.Path),
			slog.String("dialect", f.Dialect.String()),
			slog.Int("findings", len(findings)))
		results = append(results, report.Result{File: f, Findings: findings})
	}
	return results, nil
}
