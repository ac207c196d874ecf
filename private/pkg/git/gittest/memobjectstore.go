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
	"fmt"
	"hash/fnv"
	"sort"
	"sync"

	"github.com/gitgraft/gitgraft/private/pkg/git"
)

// MemObjectStore implements a trivial content-addressed ObjectStore useful
// for testing. Hashes are FNV digests over the serialized object, so
// identical content always yields identical hashes, like the real store.
type MemObjectStore struct {
	lock  sync.Mutex
	trees map[git.Hash][]git.TreeEntry
	blobs map[git.Hash][]byte
	types map[git.Hash]git.ObjectType
}

var _ git.ObjectStore = (*MemObjectStore)(nil)

// NewMemObjectStore creates an empty store.
func NewMemObjectStore() *MemObjectStore {
	return &MemObjectStore{
		trees: make(map[git.Hash][]git.TreeEntry),
		blobs: make(map[git.Hash][]byte),
		types: make(map[git.Hash]git.ObjectType),
	}
}

// NewMemObjectStoreFromMap builds a MemObjectStore from a map of file paths
// to contents, returning the store and the root tree's hash.
func NewMemObjectStoreFromMap(
	ctx context.Context,
	files map[string]string,
) (*MemObjectStore, git.Hash, error) {
	tree, err := newTree(files)
	if err != nil {
		return nil, "", err
	}
	store := NewMemObjectStore()
	root, err := tree.writeStore(ctx, store)
	if err != nil {
		return nil, "", err
	}
	return store, root, nil
}

func (m *MemObjectStore) CreateBlob(ctx context.Context, content []byte) (git.Hash, error) {
	id := hashObject("blob", content)
	m.lock.Lock()
	defer m.lock.Unlock()
	m.blobs[id] = append([]byte(nil), content...)
	m.types[id] = git.ObjectTypeBlob
	return id, nil
}

func (m *MemObjectStore) CreateTree(ctx context.Context, entries []git.TreeEntry) (git.Hash, error) {
	// Canonicalize the way git does: modes defaulted, entries sorted by
	// name, sizes dropped. Hashing the canonical serialization makes two
	// trees with the same entry set hash identically regardless of
	// insertion order.
	canonical := make([]git.TreeEntry, 0, len(entries))
	for _, entry := range entries {
		parsed, err := git.ParseTreeEntry(entry.String())
		if err != nil {
			return "", err
		}
		canonical = append(canonical, parsed)
	}
	sort.Slice(canonical, func(i, j int) bool {
		return canonical[i].Name < canonical[j].Name
	})
	var serialized []byte
	for _, entry := range canonical {
		serialized = append(serialized, entry.String()...)
		serialized = append(serialized, '\n')
	}
	id := hashObject("tree", serialized)
	m.lock.Lock()
	defer m.lock.Unlock()
	m.trees[id] = canonical
	m.types[id] = git.ObjectTypeTree
	return id, nil
}

func (m *MemObjectStore) ListEntries(ctx context.Context, tree git.Hash) ([]git.TreeEntry, error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	entries, ok := m.trees[tree]
	if !ok {
		return nil, fmt.Errorf("tree %s: %w", tree, git.ErrObjectNotFound)
	}
	return append([]git.TreeEntry(nil), entries...), nil
}

func (m *MemObjectStore) ObjectType(ctx context.Context, id git.Hash) (git.ObjectType, error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	objectType, ok := m.types[id]
	if !ok {
		return "", fmt.Errorf("object %s: %w", id, git.ErrObjectNotFound)
	}
	return objectType, nil
}

// Blob returns the content of the blob at id.
func (m *MemObjectStore) Blob(id git.Hash) ([]byte, error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	blob, ok := m.blobs[id]
	if !ok {
		return nil, fmt.Errorf("blob %s: %w", id, git.ErrObjectNotFound)
	}
	return blob, nil
}

func hashObject(kind string, content []byte) git.Hash {
	hasher := fnv.New128a()
	hasher.Write([]byte(kind))
	hasher.Write([]byte{0})
	hasher.Write(content)
	return git.Hash(fmt.Sprintf("%x", hasher.Sum(nil)))
}
