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

package compare_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/baesync/baesync/pkg/compare"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 🧪 writeFile creates a file with the given content
func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestStat(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "sub", "file.txt")
	writeFile(t, path, "hello")

	info, err := compare.Stat(path, tmpDir)
	require.NoError(t, err)
	assert.Equal(t, "sub/file.txt", info.RelPath)
	assert.Equal(t, int64(5), info.Size)
	assert.False(t, info.ModTime.IsZero())

	t.Run("missing_file", func(t *testing.T) {
		_, err := compare.Stat(filepath.Join(tmpDir, "nope"), tmpDir)
		require.Error(t, err)
	})

	t.Run("directory", func(t *testing.T) {
		_, err := compare.Stat(tmpDir, tmpDir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "directory")
	})
}

func TestFile(t *testing.T) {
	tmpDir := t.TempDir()
	srcPath := filepath.Join(tmpDir, "src.txt")
	writeFile(t, srcPath, "same size")

	src, err := compare.Stat(srcPath, tmpDir)
	require.NoError(t, err)

	tests := []struct {
		name    string
		setup   func(t *testing.T, dstPath string)
		want    compare.Outcome
		wantErr bool
	}{
		{
			name:  "missing_destination_is_new",
			setup: func(t *testing.T, dstPath string) {},
			want:  compare.OutcomeNew,
		},
		{
			name: "same_size_is_identical",
			setup: func(t *testing.T, dstPath string) {
				writeFile(t, dstPath, "diff cont") // same length, different bytes
			},
			want: compare.OutcomeIdentical,
		},
		{
			name: "different_size_is_conflict",
			setup: func(t *testing.T, dstPath string) {
				writeFile(t, dstPath, "short")
			},
			want: compare.OutcomeConflict,
		},
		{
			name: "directory_destination_is_error",
			setup: func(t *testing.T, dstPath string) {
				require.NoError(t, os.MkdirAll(dstPath, 0755))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dstPath := filepath.Join(t.TempDir(), "dst.txt")
			tt.setup(t, dstPath)

			outcome, err := compare.File(src, dstPath)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, outcome)
		})
	}
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "new", compare.OutcomeNew.String())
	assert.Equal(t, "identical", compare.OutcomeIdentical.String())
	assert.Equal(t, "conflict", compare.OutcomeConflict.String())
	assert.Equal(t, "unknown", compare.OutcomeUnknown.String())
}
