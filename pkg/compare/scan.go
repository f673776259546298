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
	"io/fs"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🚶 Scan walks the tree rooted at root and returns FileInfo for every
// regular file, keyed by slash-separated relative path. A missing root
// yields an empty map, directories themselves are not listed, and paths
// matching one of the exclude patterns are skipped.
func Scan(ctx context.Context, root string, excludes []string) (map[string]FileInfo, error) {
	logger := zerolog.Ctx(ctx)
	files := make(map[string]FileInfo)

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.Errorf("resolving %s: %w", root, err)
	}

	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == absRoot && errors.Is(err, fs.ErrNotExist) {
				return filepath.SkipAll
			}
			return errors.Errorf("walking %s: %w", path, err)
		}

		if err := ctx.Err(); err != nil {
			return err
		}

		rel, err := filepath.Rel(absRoot, path)
		if err != nil {
			return errors.Errorf("relativizing %s: %w", path, err)
		}
		rel = filepath.ToSlash(rel)

		if shouldExclude(logger, rel, excludes) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return errors.Errorf("stating %s: %w", path, err)
		}

		files[rel] = FileInfo{
			RelPath: rel,
			AbsPath: path,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Debug().Str("root", root).Int("files", len(files)).Msg("scanned directory")
	return files, nil
}

// 🔍 shouldExclude checks a relative path against the exclude patterns
func shouldExclude(logger *zerolog.Logger, rel string, excludes []string) bool {
	if rel == "." {
		return false
	}
	for _, pattern := range excludes {
		matched, err := doublestar.Match(pattern, rel)
		if err != nil {
			logger.Debug().Str("pattern", pattern).Str("path", rel).Err(err).Msg("error matching exclude pattern")
			continue
		}
		if matched {
			logger.Debug().Str("path", rel).Str("pattern", pattern).Msg("path excluded by pattern")
			return true
		}
	}
	return false
}
