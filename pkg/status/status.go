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

// Package status renders per-file outcome lines and the end-of-run
// summary on the user's console.
package status

import (
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
)

// 🎨 Display configuration
const (
	fileIndent = 2  // spaces to indent file entries
	nameWidth  = 40 // base width for the relative path
)

// 📈 Reporter prints colored per-file lines and keeps run counters.
// It is shared by all copy workers, so every method takes the lock.
type Reporter struct {
	mu      sync.Mutex
	console io.Writer
	quiet   bool
	dryRun  bool

	copied    int
	skipped   int
	conflicts int
	deleted   int
	failed    int
	bytes     int64
}

// 🏭 New creates a reporter writing to console. When quiet is set the
// per-file lines are suppressed and only the summary is printed.
func New(console io.Writer, quiet, dryRun bool) *Reporter {
	return &Reporter{
		console: console,
		quiet:   quiet,
		dryRun:  dryRun,
	}
}

// 📝 Header prints the run banner
func (r *Reporter) Header(source, destination string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	name := color.New(color.Bold, color.FgBlue).Sprint("baesync")
	detail := fmt.Sprintf("%s → %s", source, destination)
	if r.dryRun {
		detail += " (dry run)"
	}
	fmt.Fprintf(r.console, "%s %s\n", name, color.New(color.Faint).Sprint(detail))
}

// fileLine prints one formatted per-file entry
func (r *Reporter) fileLine(symbol string, symbolColor color.Attribute, relPath, detail string) {
	if r.quiet {
		return
	}
	fmt.Fprintf(r.console, "%*s%s %-*s %s\n",
		fileIndent, "",
		color.New(symbolColor).Sprint(symbol),
		nameWidth, relPath,
		color.New(color.Faint).Sprint(detail))
}

// ✅ FileCopied records a completed copy
func (r *Reporter) FileCopied(relPath string, bytes int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.copied++
	r.bytes += bytes
	detail := fmt.Sprintf("%d bytes", bytes)
	if r.dryRun {
		detail = "would copy, " + detail
	}
	r.fileLine("✓", color.FgGreen, relPath, detail)
}

// ⏭️ FileSkipped records a file left alone
func (r *Reporter) FileSkipped(relPath, reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.skipped++
	r.fileLine("-", color.FgYellow, relPath, reason)
}

// ⚠️ FileConflict records a size mismatch that was not overwritten
func (r *Reporter) FileConflict(relPath string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conflicts++
	r.skipped++
	r.fileLine("!", color.FgYellow, relPath, "conflict, use --overwrite to replace")
}

// 🗑️ FileDeleted records removal of an extraneous destination file
func (r *Reporter) FileDeleted(relPath string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deleted++
	detail := "extraneous"
	if r.dryRun {
		detail = "would delete, extraneous"
	}
	r.fileLine("✗", color.FgRed, relPath, detail)
}

// ❌ FileFailed records a failed copy
func (r *Reporter) FileFailed(relPath string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failed++
	fmt.Fprintf(r.console, "%*s%s %-*s %s\n",
		fileIndent, "",
		color.New(color.FgRed).Sprint("✗"),
		nameWidth, relPath,
		color.New(color.FgRed).Sprint(err.Error()))
}

// 📊 Summary prints the end-of-run counters
func (r *Reporter) Summary() {
	r.mu.Lock()
	defer r.mu.Unlock()

	verb := "copied"
	if r.dryRun {
		verb = "planned"
	}
	fmt.Fprintf(r.console, "\n%s %d %s, %d skipped, %d conflicts, %d deleted, %s (%d bytes)\n",
		color.New(color.Bold).Sprint("done:"),
		r.copied, verb, r.skipped, r.conflicts, r.deleted,
		r.failedText(), r.bytes)
}

// failedText colors the failure count only when there are failures
func (r *Reporter) failedText() string {
	if r.failed == 0 {
		return color.New(color.FgGreen).Sprint("0 failed")
	}
	return color.New(color.FgRed).Sprintf("%d failed", r.failed)
}

// 🔢 Counts returns the current counters
func (r *Reporter) Counts() (copied, skipped, conflicts, deleted, failed int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.copied, r.skipped, r.conflicts, r.deleted, r.failed
}
