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

import "context"

// NewTreeEntry builds an entry referencing object under name. The object's
// type is looked up in the store. When mode is empty, trees get ModeDir and
// everything else gets ModeFile.
func NewTreeEntry(
	ctx context.Context,
	store ObjectStore,
	name string,
	object Hash,
	mode string,
) (TreeEntry, error) {
	objectType, err := store.ObjectType(ctx, object)
	if err != nil {
		return TreeEntry{}, err
	}
	if mode == "" {
		if objectType == ObjectTypeTree {
			mode = ModeDir
		} else {
			mode = ModeFile
		}
	}
	return TreeEntry{
		Mode: mode,
		Type: objectType,
		Hash: object,
		Name: name,
	}, nil
}

// ReplaceEntry returns entries with any entry named name removed and, when
// replacement is non-nil, replacement appended. Every other entry is carried
// over untouched, in order. The input slice is not modified.
func ReplaceEntry(entries []TreeEntry, name string, replacement *TreeEntry) []TreeEntry {
	newEntries := make([]TreeEntry, 0, len(entries)+1)
	for _, entry := range entries {
		if entry.Name != name {
			newEntries = append(newEntries, entry)
		}
	}
	if replacement != nil {
		newEntries = append(newEntries, *replacement)
	}
	return newEntries
}
