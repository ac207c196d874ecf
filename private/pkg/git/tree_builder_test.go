// Copyright 2024-2026 The Gitgraft Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package git_test

import (
	"context"
	"testing"

	"github.com/gitgraft/gitgraft/private/pkg/git"
	"github.com/gitgraft/gitgraft/private/pkg/git/gittest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplaceEntry(t *testing.T) {
	t.Parallel()
	entries := []git.TreeEntry{
		{Type: git.ObjectTypeBlob, Hash: "h1", Name: "a"},
		{Type: git.ObjectTypeTree, Hash: "h2", Name: "b"},
		{Type: git.ObjectTypeBlob, Hash: "h3", Name: "c"},
	}
	t.Run("replace existing", func(t *testing.T) {
		t.Parallel()
		replacement := git.TreeEntry{Type: git.ObjectTypeTree, Hash: "h4", Name: "b"}
		newEntries := git.ReplaceEntry(entries, "b", &replacement)
		require.Len(t, newEntries, 3)
		assert.Equal(t, "a", newEntries[0].Name)
		assert.Equal(t, "c", newEntries[1].Name)
		assert.Equal(t, replacement, newEntries[2])
	})
	t.Run("append new", func(t *testing.T) {
		t.Parallel()
		replacement := git.TreeEntry{Type: git.ObjectTypeBlob, Hash: "h4", Name: "d"}
		newEntries := git.ReplaceEntry(entries, "d", &replacement)
		require.Len(t, newEntries, 4)
		assert.Equal(t, replacement, newEntries[3])
	})
	t.Run("remove", func(t *testing.T) {
		t.Parallel()
		newEntries := git.ReplaceEntry(entries, "a", nil)
		require.Len(t, newEntries, 2)
		assert.Equal(t, "b", newEntries[0].Name)
		assert.Equal(t, "c", newEntries[1].Name)
	})
	t.Run("input untouched", func(t *testing.T) {
		t.Parallel()
		_ = git.ReplaceEntry(entries, "a", nil)
		require.Len(t, entries, 3)
		assert.Equal(t, "a", entries[0].Name)
	})
}

func TestNewTreeEntry(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := gittest.NewMemObjectStore()
	blob, err := store.CreateBlob(ctx, []byte("content"))
	require.NoError(t, err)
	tree, err := store.CreateTree(ctx, []git.TreeEntry{
		{Type: git.ObjectTypeBlob, Hash: blob, Name: "file"},
	})
	require.NoError(t, err)

	t.Run("blob defaults to file mode", func(t *testing.T) {
		t.Parallel()
		entry, err := git.NewTreeEntry(ctx, store, "file", blob, "")
		require.NoError(t, err)
		assert.Equal(t, git.TreeEntry{
			Mode: git.ModeFile,
			Type: git.ObjectTypeBlob,
			Hash: blob,
			Name: "file",
		}, entry)
	})
	t.Run("tree defaults to dir mode", func(t *testing.T) {
		t.Parallel()
		entry, err := git.NewTreeEntry(ctx, store, "dir", tree, "")
		require.NoError(t, err)
		assert.Equal(t, git.ModeDir, entry.Mode)
		assert.Equal(t, git.ObjectTypeTree, entry.Type)
	})
	t.Run("explicit mode wins", func(t *testing.T) {
		t.Parallel()
		entry, err := git.NewTreeEntry(ctx, store, "run.sh", blob, git.ModeExe)
		require.NoError(t, err)
		assert.Equal(t, git.ModeExe, entry.Mode)
	})
	t.Run("unknown object", func(t *testing.T) {
		t.Parallel()
		_, err := git.NewTreeEntry(ctx, store, "x", "deadbeef", "")
		assert.ErrorIs(t, err, git.ErrObjectNotFound)
	})
}
