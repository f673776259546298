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

package transfer

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"sync/atomic"

	"github.com/baesync/baesync/pkg/compare"
	"github.com/baesync/baesync/pkg/status"
	"github.com/baesync/baesync/pkg/translog"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// 🔧 Options configures the transfer engine
type Options struct {
	// Workers is the copy pool size; defaults to runtime.NumCPU()
	Workers int
	// ChunkSize is the copy buffer size; defaults to DefaultChunkSize
	ChunkSize int64
	// DryRun reports planned actions without touching the filesystem
	DryRun bool
	// Destination is the destination root, used to prune emptied directories
	Destination string
	// Reporter renders per-file console lines
	Reporter *status.Reporter
	// Progress is the byte progress bar, may be nil
	Progress *status.Progress
	// Log is the transfer log
	Log *translog.Logger
}

// ⚙️ Engine executes a comparison plan
type Engine struct {
	workers     int
	chunkSize   int64
	dryRun      bool
	destination string
	reporter    *status.Reporter
	progress    *status.Progress
	log         *translog.Logger
}

// 🏭 New creates an engine with the given options
func New(opts Options) (*Engine, error) {
	if opts.Reporter == nil {
		return nil, errors.Errorf("reporter is required")
	}
	if opts.Log == nil {
		return nil, errors.Errorf("transfer log is required")
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = DefaultChunkSize
	}
	if opts.Destination != "" {
		// planned paths are absolute, so pruning must compare against
		// an absolute root
		abs, err := filepath.Abs(opts.Destination)
		if err != nil {
			return nil, errors.Errorf("resolving destination: %w", err)
		}
		opts.Destination = abs
	}
	return &Engine{
		workers:     opts.Workers,
		chunkSize:   opts.ChunkSize,
		dryRun:      opts.DryRun,
		destination: opts.Destination,
		reporter:    opts.Reporter,
		progress:    opts.Progress,
		log:         opts.Log,
	}, nil
}

// 🏃 Run executes the plan. Independent file copies are dispatched to the
// worker pool; a failed copy is recorded and does not halt the batch.
// Deletes run after all copies have settled. Run returns an error when
// any file failed or the context was cancelled.
func (e *Engine) Run(ctx context.Context, plan *compare.Plan) error {
	logger := zerolog.Ctx(ctx)
	logger.Debug().
		Int("items", len(plan.Items)).
		Int("workers", e.workers).
		Bool("dry_run", e.dryRun).
		Msg("executing transfer plan")

	var failed atomic.Int64
	var deletes []compare.Item

	g := new(errgroup.Group)
	g.SetLimit(e.workers)

	for _, item := range plan.Items {
		if ctx.Err() != nil {
			break
		}

		switch item.Action {
		case compare.ActionCopy:
			e.dispatchCopy(ctx, g, item, &failed)
		case compare.ActionDelete:
			deletes = append(deletes, item)
		default:
			e.recordSkip(item)
		}
	}

	if err := g.Wait(); err != nil {
		// workers record their own failures and never return errors
		return errors.Errorf("waiting for copy workers: %w", err)
	}

	for _, item := range deletes {
		if err := e.deleteFile(ctx, item); err != nil {
			logger.Error().Err(err).Str("file", item.RelPath).Msg("deleting extraneous file")
			e.reporter.FileFailed(item.RelPath, err)
			e.log.FileFailed(item.RelPath, err)
			failed.Add(1)
		}
	}

	if err := ctx.Err(); err != nil {
		return errors.Errorf("transfer cancelled: %w", err)
	}
	if n := failed.Load(); n > 0 {
		return errors.Errorf("%d of %d transfers failed", n, plan.Copies+plan.Deletes)
	}
	return nil
}

// 📤 dispatchCopy submits one copy job to the pool
func (e *Engine) dispatchCopy(ctx context.Context, g *errgroup.Group, item compare.Item, failed *atomic.Int64) {
	if e.dryRun {
		e.reporter.FileCopied(item.RelPath, item.Src.Size)
		return
	}

	g.Go(func() error {
		written, err := CopyFile(ctx, item.Src.AbsPath, item.DstPath, e.chunkSize, e.addProgress)
		if err != nil {
			zerolog.Ctx(ctx).Error().Err(err).Str("file", item.RelPath).Msg("copy failed")
			e.reporter.FileFailed(item.RelPath, err)
			e.log.FileFailed(item.RelPath, err)
			failed.Add(1)
			return nil
		}

		e.reporter.FileCopied(item.RelPath, written)
		e.log.FileCopied(item.RelPath, written)
		return nil
	})
}

// 📝 recordSkip records an item the engine leaves alone
func (e *Engine) recordSkip(item compare.Item) {
	if item.Outcome == compare.OutcomeConflict {
		e.reporter.FileConflict(item.RelPath)
		e.log.FileConflict(item.RelPath, item.Src.Size, dstSize(item.DstPath))
		return
	}
	e.reporter.FileSkipped(item.RelPath, "identical size")
	e.log.FileSkipped(item.RelPath, "identical size")
}

// 🗑️ deleteFile removes one extraneous destination file and prunes any
// directories the removal emptied.
func (e *Engine) deleteFile(ctx context.Context, item compare.Item) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if e.dryRun {
		e.reporter.FileDeleted(item.RelPath)
		return nil
	}

	if err := os.Remove(item.DstPath); err != nil {
		return errors.Errorf("removing %s: %w", item.DstPath, err)
	}

	e.reporter.FileDeleted(item.RelPath)
	e.log.FileDeleted(item.RelPath)
	e.pruneEmptyDirs(filepath.Dir(item.DstPath))
	return nil
}

// pruneEmptyDirs removes now-empty directories below the destination root
func (e *Engine) pruneEmptyDirs(dir string) {
	if e.destination == "" {
		return
	}
	root := filepath.Clean(e.destination)

	for dir != root && len(dir) > len(root) {
		entries, err := os.ReadDir(dir)
		if err != nil || len(entries) > 0 {
			return
		}
		if err := os.Remove(dir); err != nil {
			return
		}
		dir = filepath.Dir(dir)
	}
}

// addProgress feeds chunk sizes into the progress bar
func (e *Engine) addProgress(n int64) {
	if e.progress != nil {
		e.progress.Add(n)
	}
}

// dstSize returns the destination size for conflict reporting, 0 when unknown
func dstSize(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.Size()
}
