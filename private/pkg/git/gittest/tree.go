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
	"path"
	"strings"

	"github.com/gitgraft/gitgraft/private/pkg/git"
)

type tree struct {
	files map[string]string
	dirs  map[string]*tree
}

// newTree builds a tree from a map representing files.
func newTree(files map[string]string) (*tree, error) {
	root := &tree{
		files: make(map[string]string),
		dirs:  make(map[string]*tree),
	}
	for filename, content := range files {
		if err := root.add(path.Clean(filename), content); err != nil {
			return nil, err
		}
	}
	return root, nil
}

func (t *tree) add(filename, content string) error {
	dirname, rest, nested := strings.Cut(filename, "/")
	if !nested {
		if _, ok := t.dirs[filename]; ok {
			return fmt.Errorf("%q is both a file and a directory", filename)
		}
		t.files[filename] = content
		return nil
	}
	if _, ok := t.files[dirname]; ok {
		return fmt.Errorf("%q is both a file and a directory", dirname)
	}
	dir, ok := t.dirs[dirname]
	if !ok {
		dir = &tree{
			files: make(map[string]string),
			dirs:  make(map[string]*tree),
		}
		t.dirs[dirname] = dir
	}
	return dir.add(rest, content)
}

// writeStore encodes the tree into an object store and returns the root's
// hash.
func (t *tree) writeStore(ctx context.Context, store git.ObjectStore) (git.Hash, error) {
	var entries []git.TreeEntry
	for dirname, dir := range t.dirs {
		id, err := dir.writeStore(ctx, store)
		if err != nil {
			return "", err
		}
		entries = append(entries, git.TreeEntry{
			Type: git.ObjectTypeTree,
			Hash: id,
			Name: dirname,
		})
	}
	for filename, content := range t.files {
		id, err := store.CreateBlob(ctx, []byte(content))
		if err != nil {
			return "", err
		}
		entries = append(entries, git.TreeEntry{
			Type: git.ObjectTypeBlob,
			Hash: id,
			Name: filename,
		})
	}
	return store.CreateTree(ctx, entries)
}

// ListAllFiles walks the tree at root and returns the hash of every blob
// keyed by its slash-separated path from the root.
func ListAllFiles(
	ctx context.Context,
	store git.ObjectStore,
	root git.Hash,
) (map[string]git.Hash, error) {
	files := make(map[string]git.Hash)
	if err := listAllFiles(ctx, store, root, "", files); err != nil {
		return nil, err
	}
	return files, nil
}

func listAllFiles(
	ctx context.Context,
	store git.ObjectStore,
	root git.Hash,
	prefix string,
	files map[string]git.Hash,
) error {
	entries, err := store.ListEntries(ctx, root)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		name := prefix + entry.Name
		if entry.Type == git.ObjectTypeTree {
			if err := listAllFiles(ctx, store, entry.Hash, name+"/", files); err != nil {
				return err
			}
			continue
		}
		files[name] = entry.Hash
	}
	return nil
}
