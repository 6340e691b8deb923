package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gubarz/dupword/internal/config"
	"github.com/gubarz/dupword/internal/discover"
	"github.com/gubarz/dupword/internal/lint"
	"github.com/gubarz/dupword/internal/report"
	"github.com/gubarz/dupword/internal/scan"
	"github.com/gubarz/dupword/internal/ui"
	"github.com/gubarz/dupword/internal/watch"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var version = "0.1.0"

// errFindings signals a clean run that found repeated words
var errFindings = errors.New("repeated words found")

var logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

var rootCmd = &cobra.Command{
	Use:   "dupword [path...]",
	Short: "Find accidentally repeated words in documentation",
	Long: `Scans Pod6 (.pod6) and Markdown (.md) files for doubled words
such as "the the", skipping code blocks and markup directives.

Each file is reported as a test: ok when clean, not ok with the
repeated words and their line numbers otherwise. The exit status
is non-zero if any file fails.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          cobra.ArbitraryArgs,
	RunE:          runScan,
}

var listCmd = &cobra.Command{
	Use:   "list [path...]",
	Short: "List the files that would be scanned",
	RunE:  runList,
}

var reviewCmd = &cobra.Command{
	Use:   "review [path...]",
	Short: "Browse files with repeated words and fix them in your editor",
	RunE:  runReview,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.AddCommand(listCmd, reviewCmd, versionCmd)

	rootCmd.PersistentFlags().StringP("output", "o", "", "Report format: tap, text, json")
	rootCmd.PersistentFlags().StringSliceP("exclude", "x", nil, "Glob of files to skip, relative to the scanned directory (repeatable)")
	rootCmd.PersistentFlags().StringSlice("allow", nil, "Additional words allowed to repeat (repeatable)")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable coloured output")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log each scanned file")
	rootCmd.Flags().BoolP("watch", "w", false, "Re-scan when files change")

	viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	viper.BindPFlag("exclude", rootCmd.PersistentFlags().Lookup("exclude"))
	viper.BindPFlag("allow", rootCmd.PersistentFlags().Lookup("allow"))
}

func initConfig() {
	if err := config.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
	}
}

// setup applies command-line overrides and returns the files to scan
func setup(cmd *cobra.Command, args []string) ([]discover.File, *scan.Scanner, error) {
	if v, _ := cmd.Flags().GetBool("verbose"); v {
		config.SetLogLevel("debug")
	}
	logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: config.GetLogLevel()}))

	roots := args
	if len(roots) == 0 {
		roots = []string{config.GetPath()}
	}

	var files []discover.File
	for _, root := range roots {
		found, err := discover.Discover(root, discover.Options{Exclude: config.GetExclude()})
		if err != nil {
			return nil, nil, err
		}
		logger.Debug("discovered", slog.String("root", root), slog.Int("files", len(found)))
		files = append(files, found...)
	}

	s := scan.New(scan.DefaultAllowList.With(config.GetAllow()...))
	return files, s, nil
}

func newReporter(cmd *cobra.Command) (report.Reporter, error) {
	color := config.GetColor()
	if nc, _ := cmd.Flags().GetBool("no-color"); nc {
		color = false
	}
	return report.New(config.GetOutput(), color)
}

func runScan(cmd *cobra.Command, args []string) error {
	files, s, err := setup(cmd, args)
	if err != nil {
		return err
	}
	reporter, err := newReporter(cmd)
	if err != nil {
		return err
	}

	if w, _ := cmd.Flags().GetBool("watch"); w {
		return runWatch(cmd, args, reporter)
	}

	return scanAndReport(cmd.OutOrStdout(), files, s, reporter)
}

func scanAndReport(out io.Writer, files []discover.File, s *scan.Scanner, reporter report.Reporter) error {
	results, err := lint.New(s, logger).Run(files)
	if err != nil {
		return err
	}
	if err := reporter.Report(out, results); err != nil {
		return err
	}
	if !report.Summarize(results).OK() {
		return errFindings
	}
	return nil
}

func runWatch(cmd *cobra.Command, args []string, reporter report.Reporter) error {
	roots := args
	if len(roots) == 0 {
		roots = []string{config.GetPath()}
	}
	if len(roots) != 1 {
		return fmt.Errorf("--watch takes a single directory, got %d paths", len(roots))
	}
	root, err := filepath.Abs(roots[0])
	if err != nil {
		return fmt.Errorf("error resolving path: %w", err)
	}
	config.SetPath(root)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rescan := func() {
		files, s, err := setup(cmd, []string{root})
		if err != nil {
			logger.Error("discover failed", slog.String("error", err.Error()))
			return
		}
		if err := scanAndReport(cmd.OutOrStdout(), files, s, reporter); err != nil && !errors.Is(err, errFindings) {
			logger.Error("scan failed", slog.String("error", err.Error()))
		}
	}

	rescan()
	return watch.Watch(ctx, root, watch.Options{Exclude: config.GetExclude(), Logger: logger}, rescan)
}

func runList(cmd *cobra.Command, args []string) error {
	files, _, err := setup(cmd, args)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, f := range files {
		fmt.Fprintf(out, "%-6s %s\n", f.Dialect, f.Path)
	}
	return nil
}

func runReview(cmd *cobra.Command, args []string) error {
	files, s, err := setup(cmd, args)
	if err != nil {
		return err
	}
	results, err := lint.New(s, logger).Run(files)
	if err != nil {
		return err
	}
	if report.Summarize(results).OK() {
		fmt.Fprintf(cmd.OutOrStdout(), "No repeated words in %d files\n", len(results))
		return nil
	}
	return ui.Run(results, config.GetEditor(), s.ScanFile)
}

func main() {
	rootCmd.Version = version
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errFindings) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
