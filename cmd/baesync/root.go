// Copyright 2025 baesync authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"os"
	"runtime"

	"github.com/baesync/baesync/pkg/compare"
	"github.com/baesync/baesync/pkg/config"
	"github.com/baesync/baesync/pkg/status"
	"github.com/baesync/baesync/pkg/transfer"
	"github.com/baesync/baesync/pkg/translog"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"
)

var (
	// Flags
	flagOverwrite  bool
	flagRecursive  bool
	flagDelete     bool
	flagDryRun     bool
	flagQuiet      bool
	flagDebug      bool
	flagWorkers    int
	flagLogFile    string
	flagConfigFile string
	flagExcludes   []string
)

// newRootCmd creates the baesync root command
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "baesync SOURCE DESTINATION",
		Short: "A simple and efficient file copying tool",
		Long: `baesync copies a file or a directory tree, skipping files whose
destination already matches by size. Copies of independent files run in
parallel, progress is shown on the console, and every operation outcome
is appended to a transfer log.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := setupLogging(cmd.Context())
			return run(ctx, cmd, args[0], args[1])
		},
	}

	cmd.Flags().BoolVarP(&flagOverwrite, "overwrite", "o", false, "overwrite destination files that differ")
	cmd.Flags().BoolVarP(&flagRecursive, "recursive", "r", false, "copy directories recursively")
	cmd.Flags().BoolVarP(&flagDelete, "delete", "d", false, "delete extraneous files from destination")
	cmd.Flags().BoolVarP(&flagDryRun, "dry-run", "n", false, "report planned operations without copying")
	cmd.Flags().BoolVarP(&flagQuiet, "quiet", "q", false, "suppress per-file console output")
	cmd.Flags().BoolVar(&flagDebug, "debug", false, "enable debug logging")
	cmd.Flags().IntVarP(&flagWorkers, "workers", "w", runtime.NumCPU(), "number of parallel copy workers")
	cmd.Flags().StringVarP(&flagLogFile, "log-file", "l", config.DefaultLogFile, "transfer log file path")
	cmd.Flags().StringVarP(&flagConfigFile, "config", "c", "", "config file path (default: discovered .baesync file)")
	cmd.Flags().StringSliceVarP(&flagExcludes, "exclude", "x", nil, "glob patterns to exclude (may repeat)")

	return cmd
}

// setupLogging configures zerolog and puts the logger on the context
func setupLogging(ctx context.Context) context.Context {
	level := zerolog.InfoLevel
	if flagDebug {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()
	return logger.WithContext(ctx)
}

// runOptions is the effective per-run setting set, after merging config
// file values with command-line flags. Flags that were set win.
type runOptions struct {
	overwrite bool
	recursive bool
	delete    bool
	dryRun    bool
	quiet     bool
	workers   int
	logFile   string
	excludes  []string
}

// resolveOptions loads the config file (when present) and merges it with flags
func resolveOptions(ctx context.Context, cmd *cobra.Command) (runOptions, error) {
	opts := runOptions{
		overwrite: flagOverwrite,
		recursive: flagRecursive,
		delete:    flagDelete,
		dryRun:    flagDryRun,
		quiet:     flagQuiet,
		workers:   flagWorkers,
		logFile:   flagLogFile,
		excludes:  flagExcludes,
	}

	path := flagConfigFile
	if path == "" {
		path = config.Discover(".")
	}
	if path == "" {
		return opts, nil
	}

	cfg, err := config.Load(ctx, path)
	if err != nil {
		return opts, errors.Errorf("loading config: %w", err)
	}
	zerolog.Ctx(ctx).Debug().Str("config", path).Msg("loaded config file")

	flags := cmd.Flags()
	if !flags.Changed("overwrite") {
		opts.overwrite = cfg.Overwrite
	}
	if !flags.Changed("recursive") {
		opts.recursive = cfg.Recursive
	}
	if !flags.Changed("delete") {
		opts.delete = cfg.Delete
	}
	if !flags.Changed("quiet") {
		opts.quiet = cfg.Quiet
	}
	if !flags.Changed("workers") && cfg.Workers > 0 {
		opts.workers = cfg.Workers
	}
	if !flags.Changed("log-file") && cfg.LogFile != "" {
		opts.logFile = cfg.LogFile
	}
	if !flags.Changed("exclude") {
		opts.excludes = cfg.Excludes
	}

	return opts, nil
}

// run performs a full transfer: plan, execute, summarize
func run(ctx context.Context, cmd *cobra.Command, source, destination string) error {
	logger := zerolog.Ctx(ctx)

	opts, err := resolveOptions(ctx, cmd)
	if err != nil {
		return err
	}

	srcInfo, err := os.Stat(source)
	if err != nil {
		return errors.Errorf("stating source: %w", err)
	}
	if srcInfo.IsDir() && !opts.recursive {
		return errors.Errorf("source %s is a directory, use --recursive to copy it", source)
	}

	reporter := status.New(cmd.OutOrStdout(), opts.quiet, opts.dryRun)
	reporter.Header(source, destination)

	tlog, err := openTransferLog(opts, *logger)
	if err != nil {
		return err
	}
	defer tlog.Close()

	var plan *compare.Plan
	if srcInfo.IsDir() {
		plan, err = compare.Build(ctx, compare.Options{
			Source:      source,
			Destination: destination,
			Overwrite:   opts.overwrite,
			Delete:      opts.delete,
			Excludes:    opts.excludes,
		})
	} else {
		plan, err = compare.BuildFile(ctx, source, destination, opts.overwrite)
	}
	if err != nil {
		return errors.Errorf("building transfer plan: %w", err)
	}

	progress := status.StartProgress(plan.CopyBytes, !opts.quiet && !opts.dryRun)

	engine, err := transfer.New(transfer.Options{
		Workers:     opts.workers,
		DryRun:      opts.dryRun,
		Destination: destination,
		Reporter:    reporter,
		Progress:    progress,
		Log:         tlog,
	})
	if err != nil {
		return err
	}

	tlog.TransferStart(source, destination)
	runErr := engine.Run(ctx, plan)
	progress.Stop()
	tlog.TransferComplete(runErr)
	reporter.Summary()

	if runErr != nil {
		logger.Error().Err(runErr).Msg("transfer finished with failures")
	}
	return runErr
}

// openTransferLog opens the log file, or a no-op logger for dry runs so
// the log only ever reflects operations that actually completed.
func openTransferLog(opts runOptions, zlog zerolog.Logger) (*translog.Logger, error) {
	if opts.dryRun {
		return translog.Nop(zlog), nil
	}
	tlog, err := translog.Open(opts.logFile, zlog)
	if err != nil {
		return nil, errors.Errorf("opening transfer log: %w", err)
	}
	return tlog, nil
}
