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

// Package compare decides which files need copying by looking at
// destination existence and byte size, nothing else.
package compare

import (
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gitlab.com/tozd/go/errors"
)

// 📊 Outcome classifies a source/destination pair
type Outcome int

const (
	OutcomeUnknown   Outcome = iota
	OutcomeNew               // destination does not exist
	OutcomeIdentical         // destination exists with the same size
	OutcomeConflict          // destination exists with a different size
)

// String returns a string representation of Outcome
func (o Outcome) String() string {
	switch o {
	case OutcomeNew:
		return "new"
	case OutcomeIdentical:
		return "identical"
	case OutcomeConflict:
		return "conflict"
	default:
		return "unknown"
	}
}

// 📄 FileInfo contains the file metadata used for comparison
type FileInfo struct {
	RelPath string    // Path relative to the scan root, slash-separated
	AbsPath string    // Absolute path on disk
	Size    int64     // Size in bytes
	ModTime time.Time // Last modification time, informational only
}

// 🔍 Stat gathers FileInfo for a single file. base is the directory the
// relative path is computed against; it may equal the file's own directory.
func Stat(path, base string) (FileInfo, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return FileInfo{}, errors.Errorf("resolving %s: %w", path, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return FileInfo{}, errors.Errorf("stating %s: %w", path, err)
	}
	if info.IsDir() {
		return FileInfo{}, errors.Errorf("%s is a directory, not a file", path)
	}

	rel, err := filepath.Rel(base, abs)
	if err != nil {
		rel = info.Name()
	}

	return FileInfo{
		RelPath: filepath.ToSlash(rel),
		AbsPath: abs,
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}, nil
}

// ⚖️ File classifies a source file against a destination path
func File(src FileInfo, dstPath string) (Outcome, error) {
	info, err := os.Stat(dstPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return OutcomeNew, nil
		}
		return OutcomeUnknown, errors.Errorf("stating destination %s: %w", dstPath, err)
	}

	if info.IsDir() {
		return OutcomeUnknown, errors.Errorf("destination %s is a directory", dstPath)
	}

	if info.Size() == src.Size {
		return OutcomeIdentical, nil
	}
	return OutcomeConflict, nil
}
