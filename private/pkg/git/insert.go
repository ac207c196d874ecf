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

package git

import (
	"context"
	"fmt"
	"strings"
)

// Insert returns the hash of a new tree derived from root in which object is
// referenced at the slash-separated path. One new tree is written per path
// component; every entry off the path is carried into the new trees by hash.
// The tree at root is left untouched and remains addressable.
//
// The final path component overwrites whatever entry holds its name,
// regardless of type: a blob replaces a tree and a tree replaces a blob
// without a merge or an error. An intermediate component naming a non-tree
// entry is treated as absent, so the entry is replaced by a freshly built
// chain of single-entry trees leading down to object.
//
// Insert does not retry: the first store failure propagates to the caller
// unchanged. Trees written before the failure are complete, independent
// objects, so a full retry of the call is safe and re-derives the same root.
func Insert(
	ctx context.Context,
	store ObjectStore,
	root Hash,
	path string,
	object Hash,
) (Hash, error) {
	names, err := splitPath(path)
	if err != nil {
		return "", err
	}
	return insert(ctx, store, root, names, object)
}

// InsertBlob stores content as a blob and inserts it at path.
func InsertBlob(
	ctx context.Context,
	store ObjectStore,
	root Hash,
	path string,
	content []byte,
) (Hash, error) {
	blob, err := store.CreateBlob(ctx, content)
	if err != nil {
		return "", err
	}
	return Insert(ctx, store, root, path, blob)
}

func insert(
	ctx context.Context,
	store ObjectStore,
	root Hash,
	names []string,
	object Hash,
) (Hash, error) {
	entries, err := store.ListEntries(ctx, root)
	if err != nil {
		return "", err
	}
	name, rest := names[0], names[1:]
	if len(rest) == 0 {
		entry, err := NewTreeEntry(ctx, store, name, object, "")
		if err != nil {
			return "", err
		}
		return store.CreateTree(ctx, ReplaceEntry(entries, name, &entry))
	}
	var subtree Hash
	if existing := findTreeEntry(entries, name); existing != nil {
		subtree, err = insert(ctx, store, existing.Hash, rest, object)
	} else {
		subtree, err = newTreeChain(ctx, store, rest, object)
	}
	if err != nil {
		return "", err
	}
	entry, err := NewTreeEntry(ctx, store, name, subtree, "")
	if err != nil {
		return "", err
	}
	return store.CreateTree(ctx, ReplaceEntry(entries, name, &entry))
}

// newTreeChain builds a chain of single-entry trees for names, innermost
// first, with object at the bottom, and returns the outermost tree's hash.
func newTreeChain(
	ctx context.Context,
	store ObjectStore,
	names []string,
	object Hash,
) (Hash, error) {
	current := object
	for i := len(names) - 1; i >= 0; i-- {
		entry, err := NewTreeEntry(ctx, store, names[i], current, "")
		if err != nil {
			return "", err
		}
		current, err = store.CreateTree(ctx, []TreeEntry{entry})
		if err != nil {
			return "", err
		}
	}
	return current, nil
}

// findTreeEntry returns the entry named name if it references a tree.
// A same-named entry of any other type does not count: the caller cannot
// descend into it, only replace it.
func findTreeEntry(entries []TreeEntry, name string) *TreeEntry {
	for i := range entries {
		if entries[i].Name == name && entries[i].Type == ObjectTypeTree {
			return &entries[i]
		}
	}
	return nil
}

func splitPath(path string) ([]string, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidPath)
	}
	names := strings.Split(path, "/")
	for _, name := range names {
		if name == "" {
			return nil, fmt.Errorf("%w: %q", ErrInvalidPath, path)
		}
	}
	return names, nil
}
