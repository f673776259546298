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

package status

import (
	"sync"

	"github.com/pterm/pterm"
)

// 📊 Progress drives a byte-based progress bar for a transfer run.
// Add is called from copy workers once per chunk.
type Progress struct {
	mu  sync.Mutex
	bar *pterm.ProgressbarPrinter
}

// 🏭 StartProgress starts a progress bar sized to totalBytes. When the
// bar cannot start (or enabled is false) a no-op Progress is returned.
func StartProgress(totalBytes int64, enabled bool) *Progress {
	p := &Progress{}
	if !enabled || totalBytes <= 0 {
		return p
	}

	bar, err := pterm.DefaultProgressbar.
		WithTotal(int(totalBytes)).
		WithTitle("copying").
		WithShowCount(false).
		WithRemoveWhenDone(true).
		Start()
	if err == nil {
		p.bar = bar
	}
	return p
}

// ➕ Add advances the bar by n bytes
func (p *Progress) Add(n int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.bar != nil && n > 0 {
		p.bar.Add(int(n))
	}
}

// 🏁 Stop stops the bar and clears it from the terminal
func (p *Progress) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.bar != nil {
		p.bar.Stop()
		p.bar = nil
	}
}
