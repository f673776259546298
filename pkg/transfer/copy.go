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

// Package transfer executes a comparison plan: chunked file copies
// dispatched to a bounded worker pool, plus extraneous-file deletion.
package transfer

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"gitlab.com/tozd/go/errors"
)

// DefaultChunkSize is the read/write buffer size for file copies.
const DefaultChunkSize = 512 * 1024

// 📈 ProgressFunc receives the byte count of each completed chunk
type ProgressFunc func(n int64)

// 📄 CopyFile copies the file at src to dstPath in chunks, creating
// parent directories as needed. The copy lands in a temporary file next
// to the destination and is renamed into place, so a failed copy never
// leaves a truncated destination behind. Returns the bytes written.
func CopyFile(ctx context.Context, src, dstPath string, chunkSize int64, progress ProgressFunc) (int64, error) {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}

	in, err := os.Open(src)
	if err != nil {
		return 0, errors.Errorf("opening source %s: %w", src, err)
	}
	defer in.Close()

	dstDir := filepath.Dir(dstPath)
	if err := os.MkdirAll(dstDir, 0755); err != nil {
		return 0, errors.Errorf("creating destination directory %s: %w", dstDir, err)
	}

	tmp, err := os.CreateTemp(dstDir, ".baesync-*")
	if err != nil {
		return 0, errors.Errorf("creating temporary file in %s: %w", dstDir, err)
	}
	tmpPath := tmp.Name()

	written, err := copyContent(ctx, in, tmp, chunkSize, progress)
	if cerr := tmp.Close(); cerr != nil && err == nil {
		err = errors.Errorf("closing temporary file: %w", cerr)
	}
	if err != nil {
		os.Remove(tmpPath)
		return written, err
	}

	if err := os.Chmod(tmpPath, 0644); err != nil {
		os.Remove(tmpPath)
		return written, errors.Errorf("setting mode on %s: %w", tmpPath, err)
	}

	if err := os.Rename(tmpPath, dstPath); err != nil {
		os.Remove(tmpPath)
		return written, errors.Errorf("renaming into place: %w", err)
	}

	return written, nil
}

// copyContent is the chunked read/write loop. It checks the context
// between chunks so a cancelled run stops mid-file.
func copyContent(ctx context.Context, src io.Reader, dst io.Writer, chunkSize int64, progress ProgressFunc) (int64, error) {
	buf := make([]byte, chunkSize)
	var written int64

	for {
		if err := ctx.Err(); err != nil {
			return written, err
		}

		nr, er := src.Read(buf)
		if nr > 0 {
			nw, ew := dst.Write(buf[:nr])
			if nw > 0 {
				written += int64(nw)
				if progress != nil {
					progress(int64(nw))
				}
			}
			if ew != nil {
				return written, errors.Errorf("writing chunk: %w", ew)
			}
			if nr != nw {
				return written, errors.Errorf("writing chunk: %w", io.ErrShortWrite)
			}
		}
		if er != nil {
			if er == io.EOF {
				return written, nil
			}
			return written, errors.Errorf("reading chunk: %w", er)
		}
	}
}
