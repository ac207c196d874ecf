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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testHash = "a668431ae444a5b68953dc61b4b3c30e066535a2"

func TestParseTreeEntry(t *testing.T) {
	t.Parallel()
	tests := []struct {
		desc      string
		line      string
		entry     TreeEntry
		expectErr bool
	}{
		{
			desc: "blob",
			line: "100644 blob " + testHash + "\timsuperman",
			entry: TreeEntry{
				Mode: "100644",
				Type: ObjectTypeBlob,
				Hash: testHash,
				Name: "imsuperman",
			},
		},
		{
			desc: "tree",
			line: "040000 tree " + testHash + "\tfoo",
			entry: TreeEntry{
				Mode: "040000",
				Type: ObjectTypeTree,
				Hash: testHash,
				Name: "foo",
			},
		},
		{
			desc: "size annotated",
			line: "100644 blob " + testHash + "     108\tREADME.md",
			entry: TreeEntry{
				Mode: "100644",
				Type: ObjectTypeBlob,
				Hash: testHash,
				Name: "README.md",
				Size: "108",
			},
		},
		{
			desc: "name with spaces",
			line: "100755 blob " + testHash + "\trun me.sh",
			entry: TreeEntry{
				Mode: "100755",
				Type: ObjectTypeBlob,
				Hash: testHash,
				Name: "run me.sh",
			},
		},
		{
			desc: "name with tab",
			line: "100644 blob " + testHash + "\ta\tb",
			entry: TreeEntry{
				Mode: "100644",
				Type: ObjectTypeBlob,
				Hash: testHash,
				Name: "a\tb",
			},
		},
		{
			desc:      "no tab",
			line:      "100644 blob " + testHash + " imsuperman",
			expectErr: true,
		},
		{
			desc:      "too few metadata fields",
			line:      "100644 blob\timsuperman",
			expectErr: true,
		},
		{
			desc:      "empty",
			line:      "",
			expectErr: true,
		},
	}
	for i := range tests {
		test := tests[i]
		t.Run(test.desc, func(t *testing.T) {
			t.Parallel()
			entry, err := ParseTreeEntry(test.line)
			if test.expectErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrTreeEntryFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.entry, entry)
		})
	}
}

func TestTreeEntryString(t *testing.T) {
	t.Parallel()
	t.Run("explicit mode", func(t *testing.T) {
		t.Parallel()
		entry := TreeEntry{
			Mode: ModeExe,
			Type: ObjectTypeBlob,
			Hash: testHash,
			Name: "run.sh",
		}
		assert.Equal(t, "100755 blob "+testHash+"\trun.sh", entry.String())
	})
	t.Run("default blob mode", func(t *testing.T) {
		t.Parallel()
		entry := TreeEntry{
			Type: ObjectTypeBlob,
			Hash: testHash,
			Name: "imsuperman",
		}
		assert.Equal(t, "100644 blob "+testHash+"\timsuperman", entry.String())
	})
	t.Run("default tree mode", func(t *testing.T) {
		t.Parallel()
		entry := TreeEntry{
			Type: ObjectTypeTree,
			Hash: testHash,
			Name: "foo",
		}
		assert.Equal(t, "040000 tree "+testHash+"\tfoo", entry.String())
	})
	t.Run("size is not emitted", func(t *testing.T) {
		t.Parallel()
		entry := TreeEntry{
			Type: ObjectTypeBlob,
			Hash: testHash,
			Name: "README.md",
			Size: "108",
		}
		assert.Equal(t, "100644 blob "+testHash+"\tREADME.md", entry.String())
	})
}

func TestParseTreeEntryRoundTrip(t *testing.T) {
	t.Parallel()
	line := "100755 blob " + testHash + "\tdeeply nested name"
	entry, err := ParseTreeEntry(line)
	require.NoError(t, err)
	assert.Equal(t, line, entry.String())
}
