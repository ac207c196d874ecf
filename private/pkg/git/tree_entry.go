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
	"fmt"
	"strings"
)

const (
	// ModeDir is the mode of a tree to be unpacked as a subdirectory.
	ModeDir = "040000"
	// ModeFile is the mode of a blob to be written as a plain file.
	ModeFile = "100644"
	// ModeExe is the mode of a blob to be written with the executable bit set.
	ModeExe = "100755"
)

// TreeEntry is one named reference inside a tree. Entries reference objects
// by hash, they never embed content. Within one tree, names are unique.
type TreeEntry struct {
	// Mode is the octal file mode string. An empty Mode formats as ModeDir
	// for trees and ModeFile for everything else.
	Mode string
	// Type is the type of the referenced object.
	Type ObjectType
	// Hash is the content-address of the referenced object.
	Hash Hash
	// Name is a single path component, unique within the owning tree.
	Name string
	// Size is the object size from a size-annotated listing
	// (git ls-tree --long). It is informational and not part of the entry's
	// identity; it is never emitted by String.
	Size string
}

// ParseTreeEntry parses one line of git ls-tree output:
//
//	<mode> SP <type> SP <object> TAB <file>
//
// With size-annotated listings (git ls-tree --long) the format is
//
//	<mode> SP <type> SP <object> SP <object size> TAB <file>
//
// Only the first tab delimits the file name; the name itself may contain
// tabs and spaces.
func ParseTreeEntry(line string) (TreeEntry, error) {
	meta, name, found := strings.Cut(line, "\t")
	if !found {
		return TreeEntry{}, fmt.Errorf("%w: no tab in %q", ErrTreeEntryFormat, line)
	}
	fields := strings.Fields(meta)
	if len(fields) < 3 {
		return TreeEntry{}, fmt.Errorf("%w: %q", ErrTreeEntryFormat, line)
	}
	entry := TreeEntry{
		Mode: fields[0],
		Type: ObjectType(fields[1]),
		Hash: Hash(fields[2]),
		Name: name,
	}
	if len(fields) >= 4 {
		entry.Size = fields[3]
	}
	return entry, nil
}

// String formats the entry in the line format accepted by git mktree,
// applying the default mode when Mode is unset.
func (e TreeEntry) String() string {
	mode := e.Mode
	if mode == "" {
		if e.Type == ObjectTypeTree {
			mode = ModeDir
		} else {
			mode = ModeFile
		}
	}
	return fmt.Sprintf("%s %s %s\t%s", mode, e.Type, e.Hash, e.Name)
}
