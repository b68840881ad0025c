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

import "crypto/sha256"

// LeafSlot is the sentinel slot index that addresses a Branch's optional
// "path terminates here" leaf, as opposed to one of the 256 numbered
// child slots.
const LeafSlot = -1

// Branch is a true interior node: up to 256 child edges, indexed by byte,
// plus an optional leaf slot for the key that ends exactly at this
// branch's path.
type Branch struct {
	header
	leaf     *Leaf
	children [256]Node
}

func (b *Branch) Kind() Kind {
	return KindBranch
}

// SetLeaf replaces the branch's leaf slot with a fresh Leaf for key/value.
func (b *Branch) SetLeaf(key, value []byte) {
	b.leaf = NewLeaf(key, value, nil)
}

// ChildAt returns the occupant of slot (0..255, or LeafSlot), or nil if
// empty.
func (b *Branch) ChildAt(slot int) Node {
	if slot == LeafSlot {
		if b.leaf == nil {
			return nil
		}
		return b.leaf
	}
	return b.children[slot]
}

// TypeOfChild returns the Kind of the occupant of slot, or KindNull if
// empty.
func (b *Branch) TypeOfChild(slot int) Kind {
	child := b.ChildAt(slot)
	if child == nil {
		return KindNull
	}
	return child.Kind()
}

// SwapChild exchanges the occupant of slot with other, returning the
// previous occupant. slot must be LeafSlot or in [0, 255]; when it is
// LeafSlot, other must be nil or a *Leaf.
func (b *Branch) SwapChild(slot int, other Node) Node {
	if slot == LeafSlot {
		old := Node(nil)
		if b.leaf != nil {
			old = b.leaf
		}
		if other == nil {
			b.leaf = nil
			return old
		}
		lf, ok := other.(*Leaf)
		if !ok {
			bug("swapChild: leaf slot requires *Leaf, got %T", other)
		}
		b.leaf = lf
		return old
	}
	old := b.children[slot]
	b.children[slot] = other
	return old
}

// UpdateLeafChild recomputes, in place, the hash of the *Leaf occupying
// slot, preserving its extension.
func (b *Branch) UpdateLeafChild(slot int, key, value []byte) {
	child := b.ChildAt(slot)
	lf, ok := child.(*Leaf)
	if !ok {
		bug("updateLeafChild: slot %d holds %T, not *Leaf", slot, child)
	}
	lf.updateHash(key, value)
}

// TruncateExtension drops the first n bytes of the branch's extension,
// saturating at its length.
func (b *Branch) TruncateExtension(n int) {
	if n > len(b.extension) {
		n = len(b.extension)
	}
	b.extension = b.extension[n:]
}

// CreateStubForThisNode produces a dirty Stub carrying a copy of this
// branch's extension, the handle parents use to reference a Branch that
// lives in the store.
func (b *Branch) CreateStubForThisNode() *Stub {
	ext := append([]byte{}, b.extension...)
	return &Stub{
		header: header{extension: ext},
		dirty:  true,
	}
}

// ComputeHash writes digest(H_leaf ‖ H_0 ‖ … ‖ H_255) into the branch's
// hash field, using NullHash for any empty slot.
func (b *Branch) ComputeHash() {
	var preimage [257 * sha256.Size]byte

	if b.leaf != nil {
		h := b.leaf.Hash()
		copy(preimage[0:sha256.Size], h[:])
	} else {
		copy(preimage[0:sha256.Size], NullHash[:])
	}

	for i := 0; i < 256; i++ {
		offset := (i + 1) * sha256.Size
		child := b.children[i]
		if child == nil {
			copy(preimage[offset:offset+sha256.Size], NullHash[:])
			continue
		}
		h := child.Hash()
		copy(preimage[offset:offset+sha256.Size], h[:])
	}

	b.hash = sha256.Sum256(preimage[:])
}
