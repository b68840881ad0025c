// Copyright 2021 Optakt Labs OÜ
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not
// use this file except in compliance with the License. You may obtain a copy of
// the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS, WITHOUT
// WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the
// License for the specific language governing permissions and limitations under
// the License.

package trie

import (
	"crypto/sha256"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var zeroHash [32]byte

func TestNewRejectsInvalidConfig(t *testing.T) {
	_, err := New(WithStoreCapacityHint(-1))
	assert.Error(t, err)
}

func TestTreeEmpty(t *testing.T) {
	tr, err := New()
	require.NoError(t, err)

	root := tr.GetRootNode()
	assert.Equal(t, zeroHash, root.Hash())

	_, ok := tr.GetBranchNode([]byte{'a'})
	assert.False(t, ok)
	assert.Equal(t, 0, tr.DBSize())

	tr.CalculateHash()

	var preimage [257 * sha256.Size]byte
	for i := 0; i < 257; i++ {
		copy(preimage[i*sha256.Size:(i+1)*sha256.Size], NullHash[:])
	}
	want := sha256.Sum256(preimage[:])
	assert.Equal(t, want, tr.GetRootNode().Hash())
}

func TestTreeSingleLeaf(t *testing.T) {
	tr, err := New()
	require.NoError(t, err)
	key := []byte("abc")

	tr.Insert(key, []byte("a"))

	root := tr.GetRootNode()
	child := root.ChildAt(int('a'))
	leaf, ok := child.(*Leaf)
	require.True(t, ok)
	assert.Equal(t, []byte("bc"), leaf.Extension())
	assert.Equal(t, leafPreimage(key, []byte("a")), leaf.Hash())
	firstHash := leaf.Hash()

	// Re-inserting the same key with a different value keeps the same
	// structure but changes the hash.
	tr.Insert(key, []byte("aa"))
	root = tr.GetRootNode()
	leaf2, ok := root.ChildAt(int('a')).(*Leaf)
	require.True(t, ok)
	assert.Equal(t, []byte("bc"), leaf2.Extension())
	assert.Equal(t, leafPreimage(key, []byte("aa")), leaf2.Hash())
	assert.NotEqual(t, firstHash, leaf2.Hash())
}

func TestTreeLeafSplitDivergeAtRoot(t *testing.T) {
	tr, err := New()
	require.NoError(t, err)
	tr.Insert([]byte("abdf"), []byte("a"))
	tr.Insert([]byte("abdedm"), []byte("aa"))

	root := tr.GetRootNode()
	stub, ok := root.ChildAt(int('a')).(*Stub)
	require.True(t, ok)
	assert.True(t, stub.Dirty())
	assert.Equal(t, []byte("bd"), stub.Extension())

	branch, ok := tr.GetBranchNode([]byte{'a'})
	require.True(t, ok)
	assert.Equal(t, []byte("bd"), branch.Extension())

	leafF, ok := branch.ChildAt(int('f')).(*Leaf)
	require.True(t, ok)
	assert.Equal(t, []byte{}, leafF.Extension())

	leafE, ok := branch.ChildAt(int('e')).(*Leaf)
	require.True(t, ok)
	assert.Equal(t, []byte("dm"), leafE.Extension())
}

func TestTreeSuperStringSplit(t *testing.T) {
	tr, err := New()
	require.NoError(t, err)
	tr.Insert([]byte("bdfdm"), []byte("a"))
	tr.Insert([]byte("bdf"), []byte("aa"))

	root := tr.GetRootNode()
	stub, ok := root.ChildAt(int('b')).(*Stub)
	require.True(t, ok)
	assert.True(t, stub.Dirty())
	assert.Equal(t, []byte("df"), stub.Extension())

	branch, ok := tr.GetBranchNode([]byte{'b'})
	require.True(t, ok)
	assert.Equal(t, []byte("df"), branch.Extension())
	require.NotNil(t, branch.ChildAt(LeafSlot))
	assert.Equal(t, []byte{}, branch.ChildAt(LeafSlot).Extension())

	leafD, ok := branch.ChildAt(int('d')).(*Leaf)
	require.True(t, ok)
	assert.Equal(t, []byte("m"), leafD.Extension())
}

func TestTreeCascadingSplit(t *testing.T) {
	tr, err := New()
	require.NoError(t, err)
	tr.Insert([]byte("bdfkm"), []byte("a"))
	tr.Insert([]byte("bdf"), []byte("aa"))
	tr.Insert([]byte("bdfktt"), []byte("a"))

	_, ok := tr.GetBranchNode([]byte{'b'})
	require.True(t, ok)

	_, ok = tr.GetBranchNode([]byte("bdfk"))
	require.True(t, ok)

	assert.Equal(t, 2, tr.DBSize())
}

// TestTreeStubExtensionStaysInSyncOnBranchSplit covers a branch-split of a
// Branch that is already resident in the store (as opposed to the root):
// the Stub referencing it from its parent must be rewritten to the new,
// truncated extension, keeping store[branch_key].extension in sync with
// the referencing Stub's extension, per the invariant in spec.md.
func TestTreeStubExtensionStaysInSyncOnBranchSplit(t *testing.T) {
	tr, err := New()
	require.NoError(t, err)
	tr.Insert([]byte{1, 2, 3, 4, 5}, []byte("v1"))
	tr.Insert([]byte{1, 2, 3, 9, 9}, []byte("v2"))
	tr.Insert([]byte{1, 2, 9, 9, 9}, []byte("v3"))

	root := tr.GetRootNode()
	stub, ok := root.ChildAt(1).(*Stub)
	require.True(t, ok)

	branch, ok := tr.GetBranchNode([]byte{1})
	require.True(t, ok)

	assert.Equal(t, branch.Extension(), stub.Extension())
	assert.Equal(t, []byte{2}, stub.Extension())

	grandchildStub, ok := branch.ChildAt(3).(*Stub)
	require.True(t, ok)

	grandchild, ok := tr.GetBranchNode([]byte{1, 2, 3})
	require.True(t, ok)

	assert.Equal(t, grandchild.Extension(), grandchildStub.Extension())
}

func TestTreeHashingPropagation(t *testing.T) {
	tr, err := New()
	require.NoError(t, err)
	tr.Insert([]byte("abdf"), []byte("a"))
	tr.Insert([]byte("abdedm"), []byte("aa"))

	root := tr.GetRootNode()
	stub := root.ChildAt(int('a')).(*Stub)
	branch, ok := tr.GetBranchNode([]byte{'a'})
	require.True(t, ok)

	assert.Equal(t, zeroHash, root.Hash())
	assert.Equal(t, zeroHash, stub.Hash())
	assert.Equal(t, zeroHash, branch.Hash())

	tr.CalculateHash()

	root = tr.GetRootNode()
	stub = root.ChildAt(int('a')).(*Stub)
	branch, _ = tr.GetBranchNode([]byte{'a'})

	assert.NotEqual(t, zeroHash, root.Hash())
	assert.NotEqual(t, zeroHash, stub.Hash())
	assert.False(t, stub.Dirty())
	assert.Equal(t, branch.Hash(), stub.Hash())
}

func TestTreeCalculateHashIdempotent(t *testing.T) {
	tr, err := New()
	require.NoError(t, err)
	tr.Insert([]byte("abdf"), []byte("a"))
	tr.Insert([]byte("abdedm"), []byte("aa"))

	tr.CalculateHash()
	first := tr.GetRootNode().Hash()

	tr.CalculateHash()
	second := tr.GetRootNode().Hash()

	assert.Equal(t, first, second)
}

func TestTreeSinglePathDirtyCount(t *testing.T) {
	tr, err := New()
	require.NoError(t, err)
	tr.Insert([]byte{255, 1}, []byte("a"))
	tr.Insert([]byte{255, 2}, []byte("aa"))

	assert.Equal(t, 1, tr.DBSize())

	tr.CalculateHash()

	branch, ok := tr.GetBranchNode([]byte{255})
	require.True(t, ok)
	_, ok = branch.ChildAt(1).(*Leaf)
	assert.True(t, ok)

	root := tr.GetRootNode()
	stub := root.ChildAt(255).(*Stub)
	assert.False(t, stub.Dirty())
}

func TestTreeLeavesWalksEveryKey(t *testing.T) {
	tr, err := New()
	require.NoError(t, err)
	tr.Insert([]byte("abdf"), []byte("a"))
	tr.Insert([]byte("abdedm"), []byte("aa"))
	tr.Insert([]byte("zzz"), []byte("z"))

	leaves := tr.Leaves()
	assert.Len(t, leaves, 3)
}
