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

// Package git builds and rewrites content-addressed git trees by path.
//
// Trees and their entries are immutable: inserting an object at a path never
// modifies an existing tree, it materializes a new tree for every level along
// the path and returns the new root's hash. Subtrees off the path are carried
// into the new trees by hash, so every version of the root shares all
// untouched objects with every other version.
//
// All object persistence, hashing, and lookup goes through an [ObjectStore].
// The production store is backed by git plumbing commands (see
// [NewObjectStore]); gittest provides an in-memory store.
package git

import (
	"context"
	"errors"
	"fmt"
	"io"
)

var (
	// ErrObjectNotFound is returned when a hash does not resolve to an object
	// known to the store.
	ErrObjectNotFound = errors.New("git object not found")

	// ErrTreeEntryFormat is returned when a tree entry line cannot be parsed.
	ErrTreeEntryFormat = errors.New("malformed tree entry")

	// ErrInvalidPath is returned when a tree path is empty or contains an
	// empty component.
	ErrInvalidPath = errors.New("invalid tree path")
)

// Hash is the content-address of an object. Its value is computed and
// interpreted solely by the store that persisted the object.
type Hash string

// ObjectType is the type of an object in the store.
type ObjectType string

const (
	ObjectTypeBlob   ObjectType = "blob"
	ObjectTypeTree   ObjectType = "tree"
	ObjectTypeCommit ObjectType = "commit"
	ObjectTypeTag    ObjectType = "tag"
)

// Validate returns an error if the value is not a known object type.
func (t ObjectType) Validate() error {
	switch t {
	case ObjectTypeBlob:
	case ObjectTypeTree:
	case ObjectTypeCommit:
	case ObjectTypeTag:
	default:
		return fmt.Errorf("unknown object type: %q", string(t))
	}
	return nil
}

// ObjectStore is the object persistence the tree engine builds on.
//
// Stores are content-addressed: an object's hash is a pure function of its
// content, so every write is idempotent and concurrent use is safe as long
// as the implementation protects its own local state.
type ObjectStore interface {
	// CreateBlob stores raw content and returns its content-address.
	CreateBlob(ctx context.Context, content []byte) (Hash, error)
	// CreateTree stores a tree with the given entries and returns its
	// content-address. Two trees with the same entry set hash identically.
	CreateTree(ctx context.Context, entries []TreeEntry) (Hash, error)
	// ListEntries returns the immediate children of the tree at hash.
	// It returns an error wrapping ErrObjectNotFound if hash does not
	// resolve to a tree.
	ListEntries(ctx context.Context, tree Hash) ([]TreeEntry, error)
	// ObjectType returns the type of the object at hash. It returns an error
	// wrapping ErrObjectNotFound if hash is unknown.
	ObjectType(ctx context.Context, id Hash) (ObjectType, error)
}

// ObjectService is an ObjectStore with a lifecycle and size-annotated
// listings, as provided by a real git repository.
type ObjectService interface {
	ObjectStore

	// ListEntriesLong is ListEntries with each entry's Size populated.
	ListEntriesLong(ctx context.Context, tree Hash) ([]TreeEntry, error)

	io.Closer
}
