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

package gittest

import (
	"context"
	"testing"

	"github.com/gitgraft/gitgraft/private/pkg/git"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemObjectStoreContentAddressing(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := NewMemObjectStore()

	blob1, err := store.CreateBlob(ctx, []byte("cape"))
	require.NoError(t, err)
	blob2, err := store.CreateBlob(ctx, []byte("cape"))
	require.NoError(t, err)
	assert.Equal(t, blob1, blob2)

	blob3, err := store.CreateBlob(ctx, []byte("box"))
	require.NoError(t, err)
	assert.NotEqual(t, blob1, blob3)
}

// Trees with the same entry set hash identically regardless of insertion
// order or defaulted modes. The insertion engine's structural sharing
// depends on this.
func TestMemObjectStoreTreeEquality(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := NewMemObjectStore()
	blob, err := store.CreateBlob(ctx, []byte("cape"))
	require.NoError(t, err)

	a := git.TreeEntry{Type: git.ObjectTypeBlob, Hash: blob, Name: "a"}
	b := git.TreeEntry{Mode: git.ModeFile, Type: git.ObjectTypeBlob, Hash: blob, Name: "b"}

	tree1, err := store.CreateTree(ctx, []git.TreeEntry{a, b})
	require.NoError(t, err)
	tree2, err := store.CreateTree(ctx, []git.TreeEntry{b, a})
	require.NoError(t, err)
	assert.Equal(t, tree1, tree2)

	entries, err := store.ListEntries(ctx, tree1)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	// Listing order is the store's: sorted by name, modes defaulted.
	assert.Equal(t, "a", entries[0].Name)
	assert.Equal(t, git.ModeFile, entries[0].Mode)
	assert.Equal(t, "b", entries[1].Name)
}

func TestMemObjectStoreNotFound(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := NewMemObjectStore()
	_, err := store.ListEntries(ctx, "deadbeef")
	assert.ErrorIs(t, err, git.ErrObjectNotFound)
	_, err = store.ObjectType(ctx, "deadbeef")
	assert.ErrorIs(t, err, git.ErrObjectNotFound)
	_, err = store.Blob("deadbeef")
	assert.ErrorIs(t, err, git.ErrObjectNotFound)
}

func TestNewMemObjectStoreFromMap(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store, root, err := NewMemObjectStoreFromMap(ctx, map[string]string{
		"a/b/c": "deep",
		"top":   "shallow",
	})
	require.NoError(t, err)
	files, err := ListAllFiles(ctx, store, root)
	require.NoError(t, err)
	require.Len(t, files, 2)
	content, err := store.Blob(files["a/b/c"])
	require.NoError(t, err)
	assert.Equal(t, "deep", string(content))
}
