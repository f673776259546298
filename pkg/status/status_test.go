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

package status_test

import (
	"bytes"
	"sync"
	"testing"

	"github.com/baesync/baesync/pkg/status"
	"github.com/stretchr/testify/assert"
	"gitlab.com/tozd/go/errors"
)

func TestReporter_FileLines(t *testing.T) {
	console := &bytes.Buffer{}
	reporter := status.New(console, false, false)

	reporter.Header("/src", "/dst")
	reporter.FileCopied("a.txt", 42)
	reporter.FileSkipped("b.txt", "identical size")
	reporter.FileConflict("c.txt")
	reporter.FileDeleted("d.txt")
	reporter.FileFailed("e.txt", errors.New("boom"))

	out := console.String()
	assert.Contains(t, out, "baesync")
	assert.Contains(t, out, "a.txt")
	assert.Contains(t, out, "42 bytes")
	assert.Contains(t, out, "identical size")
	assert.Contains(t, out, "use --overwrite")
	assert.Contains(t, out, "d.txt")
	assert.Contains(t, out, "boom")
}

func TestReporter_Counts(t *testing.T) {
	reporter := status.New(&bytes.Buffer{}, true, false)

	reporter.FileCopied("a.txt", 1)
	reporter.FileCopied("b.txt", 2)
	reporter.FileSkipped("c.txt", "identical size")
	reporter.FileConflict("d.txt")
	reporter.FileDeleted("e.txt")
	reporter.FileFailed("f.txt", errors.New("boom"))

	copied, skipped, conflicts, deleted, failed := reporter.Counts()
	assert.Equal(t, 2, copied)
	assert.Equal(t, 2, skipped) // conflicts count as skips too
	assert.Equal(t, 1, conflicts)
	assert.Equal(t, 1, deleted)
	assert.Equal(t, 1, failed)
}

func TestReporter_QuietSuppressesFileLines(t *testing.T) {
	console := &bytes.Buffer{}
	reporter := status.New(console, true, false)

	reporter.FileCopied("a.txt", 42)
	reporter.FileSkipped("b.txt", "identical size")
	assert.Empty(t, console.String())

	// failures are printed even in quiet mode
	reporter.FileFailed("e.txt", errors.New("boom"))
	assert.Contains(t, console.String(), "boom")

	reporter.Summary()
	assert.Contains(t, console.String(), "1 copied")
}

func TestReporter_Summary(t *testing.T) {
	console := &bytes.Buffer{}
	reporter := status.New(console, false, false)

	reporter.FileCopied("a.txt", 10)
	reporter.FileSkipped("b.txt", "identical size")
	reporter.Summary()

	out := console.String()
	assert.Contains(t, out, "1 copied")
	assert.Contains(t, out, "1 skipped")
	assert.Contains(t, out, "0 failed")
	assert.Contains(t, out, "(10 bytes)")
}

func TestReporter_DryRunSummary(t *testing.T) {
	console := &bytes.Buffer{}
	reporter := status.New(console, false, true)

	reporter.FileCopied("a.txt", 10)
	reporter.Summary()
	assert.Contains(t, console.String(), "1 planned")
}

func TestReporter_ConcurrentUse(t *testing.T) {
	console := &bytes.Buffer{}
	reporter := status.New(console, false, false)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			reporter.FileCopied("x.txt", 1)
		}()
	}
	wg.Wait()

	copied, _, _, _, _ := reporter.Counts()
	assert.Equal(t, 16, copied)
}

func TestProgress_Disabled(t *testing.T) {
	p := status.StartProgress(0, false)
	p.Add(10) // must not panic without a bar
	p.Stop()

	p = status.StartProgress(100, false)
	p.Add(10)
	p.Stop()
}
