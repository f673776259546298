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

// 🧪 itemByPath finds a plan item by relative path
func itemByPath(t *testing.T, plan *compare.Plan, rel string) compare.Item {
	t.Helper()
	for _, item := range plan.Items {
		if item.RelPath == rel {
			return item
		}
	}
	t.Fatalf("no plan item for %s", rel)
	return compare.Item{}
}

func TestBuild(t *testing.T) {
	ctx := testContext(t)
	srcDir := t.TempDir()
	dstDir := t.TempDir()

	writeFile(t, filepath.Join(srcDir, "new.txt"), "fresh")
	writeFile(t, filepath.Join(srcDir, "same.txt"), "equal")
	writeFile(t, filepath.Join(dstDir, "same.txt"), "EQUAL") // same size
	writeFile(t, filepath.Join(srcDir, "sub", "conflict.txt"), "longer content")
	writeFile(t, filepath.Join(dstDir, "sub", "conflict.txt"), "short")
	writeFile(t, filepath.Join(dstDir, "extra.txt"), "leftover")

	plan, err := compare.Build(ctx, compare.Options{
		Source:      srcDir,
		Destination: dstDir,
	})
	require.NoError(t, err)
	require.Len(t, plan.Items, 3)

	assert.Equal(t, compare.OutcomeNew, itemByPath(t, plan, "new.txt").Outcome)
	assert.Equal(t, compare.ActionCopy, itemByPath(t, plan, "new.txt").Action)

	assert.Equal(t, compare.OutcomeIdentical, itemByPath(t, plan, "same.txt").Outcome)
	assert.Equal(t, compare.ActionSkip, itemByPath(t, plan, "same.txt").Action)

	// without --overwrite a conflict stays untouched
	assert.Equal(t, compare.OutcomeConflict, itemByPath(t, plan, "sub/conflict.txt").Outcome)
	assert.Equal(t, compare.ActionSkip, itemByPath(t, plan, "sub/conflict.txt").Action)

	assert.Equal(t, 1, plan.Copies)
	assert.Equal(t, 2, plan.Skips)
	assert.Equal(t, 1, plan.Conflicts)
	assert.Equal(t, 0, plan.Deletes)
	assert.Equal(t, int64(5), plan.CopyBytes)
}

func TestBuild_Overwrite(t *testing.T) {
	ctx := testContext(t)
	srcDir := t.TempDir()
	dstDir := t.TempDir()

	writeFile(t, filepath.Join(srcDir, "conflict.txt"), "longer content")
	writeFile(t, filepath.Join(dstDir, "conflict.txt"), "short")
	writeFile(t, filepath.Join(srcDir, "same.txt"), "equal")
	writeFile(t, filepath.Join(dstDir, "same.txt"), "EQUAL")

	plan, err := compare.Build(ctx, compare.Options{
		Source:      srcDir,
		Destination: dstDir,
		Overwrite:   true,
	})
	require.NoError(t, err)

	item := itemByPath(t, plan, "conflict.txt")
	assert.Equal(t, compare.OutcomeConflict, item.Outcome)
	assert.Equal(t, compare.ActionCopy, item.Action)

	// overwrite replaces even same-size destinations
	item = itemByPath(t, plan, "same.txt")
	assert.Equal(t, compare.OutcomeIdentical, item.Outcome)
	assert.Equal(t, compare.ActionCopy, item.Action)

	assert.Equal(t, 1, plan.Conflicts)
	assert.Equal(t, 2, plan.Copies)
}

func TestBuild_Delete(t *testing.T) {
	ctx := testContext(t)
	srcDir := t.TempDir()
	dstDir := t.TempDir()

	writeFile(t, filepath.Join(srcDir, "keep.txt"), "k")
	writeFile(t, filepath.Join(dstDir, "keep.txt"), "k")
	writeFile(t, filepath.Join(dstDir, "gone", "extra.txt"), "x")

	plan, err := compare.Build(ctx, compare.Options{
		Source:      srcDir,
		Destination: dstDir,
		Delete:      true,
	})
	require.NoError(t, err)

	item := itemByPath(t, plan, "gone/extra.txt")
	assert.Equal(t, compare.ActionDelete, item.Action)
	assert.Equal(t, filepath.Join(dstDir, "gone", "extra.txt"), item.DstPath)
	assert.Equal(t, 1, plan.Deletes)
}

func TestBuild_MissingDestination(t *testing.T) {
	ctx := testContext(t)
	srcDir := t.TempDir()

	writeFile(t, filepath.Join(srcDir, "a.txt"), "a")

	plan, err := compare.Build(ctx, compare.Options{
		Source:      srcDir,
		Destination: filepath.Join(t.TempDir(), "not-yet"),
	})
	require.NoError(t, err)
	require.Len(t, plan.Items, 1)
	assert.Equal(t, compare.ActionCopy, plan.Items[0].Action)
}

func TestBuildFile(t *testing.T) {
	ctx := testContext(t)
	tmpDir := t.TempDir()
	srcPath := filepath.Join(tmpDir, "file.txt")
	writeFile(t, srcPath, "content")

	t.Run("new_destination", func(t *testing.T) {
		dstPath := filepath.Join(t.TempDir(), "copy.txt")
		plan, err := compare.BuildFile(ctx, srcPath, dstPath, false)
		require.NoError(t, err)
		require.Len(t, plan.Items, 1)
		assert.Equal(t, compare.ActionCopy, plan.Items[0].Action)
		assert.Equal(t, dstPath, plan.Items[0].DstPath)
	})

	t.Run("directory_destination_keeps_name", func(t *testing.T) {
		dstDir := t.TempDir()
		plan, err := compare.BuildFile(ctx, srcPath, dstDir, false)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dstDir, "file.txt"), plan.Items[0].DstPath)
	})

	t.Run("conflict_without_overwrite_skips", func(t *testing.T) {
		dstPath := filepath.Join(t.TempDir(), "copy.txt")
		writeFile(t, dstPath, "different length")
		plan, err := compare.BuildFile(ctx, srcPath, dstPath, false)
		require.NoError(t, err)
		assert.Equal(t, compare.ActionSkip, plan.Items[0].Action)
		assert.Equal(t, compare.OutcomeConflict, plan.Items[0].Outcome)
	})

	t.Run("conflict_with_overwrite_copies", func(t *testing.T) {
		dstPath := filepath.Join(t.TempDir(), "copy.txt")
		writeFile(t, dstPath, "different length")
		plan, err := compare.BuildFile(ctx, srcPath, dstPath, true)
		require.NoError(t, err)
		assert.Equal(t, compare.ActionCopy, plan.Items[0].Action)
	})

	t.Run("identical_with_overwrite_copies", func(t *testing.T) {
		dstPath := filepath.Join(t.TempDir(), "copy.txt")
		writeFile(t, dstPath, "CONTENT") // same size, different bytes
		plan, err := compare.BuildFile(ctx, srcPath, dstPath, true)
		require.NoError(t, err)
		assert.Equal(t, compare.OutcomeIdentical, plan.Items[0].Outcome)
		assert.Equal(t, compare.ActionCopy, plan.Items[0].Action)
	})

	t.Run("missing_source", func(t *testing.T) {
		_, err := compare.BuildFile(ctx, filepath.Join(tmpDir, "nope.txt"), os.TempDir(), false)
		require.Error(t, err)
	})
}
