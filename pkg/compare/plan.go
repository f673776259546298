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

package compare

import (
	"context"
	"os"
	"path/filepath"
	"sort"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🎬 Action is what the transfer engine will do for a planned item
type Action int

const (
	ActionSkip   Action = iota // leave the destination alone
	ActionCopy                 // copy source over destination
	ActionDelete               // remove an extraneous destination file
)

// String returns a string representation of Action
func (a Action) String() string {
	switch a {
	case ActionCopy:
		return "copy"
	case ActionDelete:
		return "delete"
	default:
		return "skip"
	}
}

// 📋 Item is a single planned operation
type Item struct {
	RelPath string   // Path relative to both roots
	Src     FileInfo // Source metadata, zero value for deletes
	DstPath string   // Absolute destination path
	Outcome Outcome  // Comparison outcome, OutcomeUnknown for deletes
	Action  Action   // What the engine should do
}

// 🗺️ Plan is the full ordered set of operations for one run
type Plan struct {
	Items []Item

	Copies    int   // items that will be copied
	Skips     int   // identical files left alone
	Conflicts int   // size mismatches (copied or skipped per Overwrite)
	Deletes   int   // extraneous destination files to remove
	CopyBytes int64 // total bytes the engine will transfer
}

// 🔧 Options configures plan building
type Options struct {
	Source      string   // source directory
	Destination string   // destination directory
	Overwrite   bool     // copy over conflicting destination files
	Delete      bool     // remove destination files absent from the source
	Excludes    []string // doublestar patterns to skip on both sides
}

// 🧮 Build compares the source tree against the destination tree and
// produces the operations needed to make the destination match. Every
// source file lands in exactly one of copy, skip, or conflict.
func Build(ctx context.Context, opts Options) (*Plan, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().
		Str("source", opts.Source).
		Str("destination", opts.Destination).
		Bool("overwrite", opts.Overwrite).
		Bool("delete", opts.Delete).
		Msg("building transfer plan")

	srcFiles, err := Scan(ctx, opts.Source, opts.Excludes)
	if err != nil {
		return nil, errors.Errorf("scanning source: %w", err)
	}

	dstFiles, err := Scan(ctx, opts.Destination, opts.Excludes)
	if err != nil {
		return nil, errors.Errorf("scanning destination: %w", err)
	}

	plan := &Plan{}

	relPaths := make([]string, 0, len(srcFiles))
	for rel := range srcFiles {
		relPaths = append(relPaths, rel)
	}
	sort.Strings(relPaths)

	for _, rel := range relPaths {
		src := srcFiles[rel]
		dstPath := filepath.Join(opts.Destination, filepath.FromSlash(rel))

		item := Item{
			RelPath: rel,
			Src:     src,
			DstPath: dstPath,
		}

		dst, exists := dstFiles[rel]
		switch {
		case !exists:
			item.Outcome = OutcomeNew
			item.Action = ActionCopy
		case dst.Size == src.Size:
			// overwrite replaces the destination regardless of prior content
			item.Outcome = OutcomeIdentical
			if opts.Overwrite {
				item.Action = ActionCopy
			} else {
				item.Action = ActionSkip
			}
		default:
			item.Outcome = OutcomeConflict
			plan.Conflicts++
			if opts.Overwrite {
				item.Action = ActionCopy
			} else {
				item.Action = ActionSkip
			}
		}

		plan.add(item)
	}

	if opts.Delete {
		extraneous := make([]string, 0)
		for rel := range dstFiles {
			if _, ok := srcFiles[rel]; !ok {
				extraneous = append(extraneous, rel)
			}
		}
		sort.Strings(extraneous)

		for _, rel := range extraneous {
			plan.add(Item{
				RelPath: rel,
				DstPath: dstFiles[rel].AbsPath,
				Action:  ActionDelete,
			})
		}
	}

	logger.Debug().
		Int("copies", plan.Copies).
		Int("skips", plan.Skips).
		Int("conflicts", plan.Conflicts).
		Int("deletes", plan.Deletes).
		Int64("bytes", plan.CopyBytes).
		Msg("transfer plan ready")

	return plan, nil
}

// 📄 BuildFile produces a single-item plan for one source file. When the
// destination is an existing directory the file keeps its name inside it.
func BuildFile(ctx context.Context, source, destination string, overwrite bool) (*Plan, error) {
	src, err := Stat(source, filepath.Dir(source))
	if err != nil {
		return nil, errors.Errorf("stating source: %w", err)
	}

	dstPath := destination
	if info, err := os.Stat(destination); err == nil && info.IsDir() {
		dstPath = filepath.Join(destination, filepath.Base(source))
	}

	outcome, err := File(src, dstPath)
	if err != nil {
		return nil, err
	}

	item := Item{
		RelPath: src.RelPath,
		Src:     src,
		DstPath: dstPath,
		Outcome: outcome,
	}

	plan := &Plan{}
	switch outcome {
	case OutcomeNew:
		item.Action = ActionCopy
	case OutcomeIdentical:
		if overwrite {
			item.Action = ActionCopy
		} else {
			item.Action = ActionSkip
		}
	case OutcomeConflict:
		plan.Conflicts++
		if overwrite {
			item.Action = ActionCopy
		} else {
			item.Action = ActionSkip
		}
	}

	plan.add(item)
	return plan, nil
}

// add appends an item and updates the counters
func (p *Plan) add(item Item) {
	p.Items = append(p.Items, item)
	switch item.Action {
	case ActionCopy:
		p.Copies++
		p.CopyBytes += item.Src.Size
	case ActionDelete:
		p.Deletes++
	default:
		p.Skips++
	}
}
