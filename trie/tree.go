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

// Package trie implements an authenticated key-value store: a
// Merkle-Patricia-style radix-256 trie over byte-string keys that
// commits to its entire key/value set with a single SHA-256 digest.
package trie

import (
	"context"
	"fmt"
	"time"

	"github.com/gammazero/deque"
	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"

	"github.com/cloudnoize/kvmerkletrie/internal/telemetry"
	"github.com/cloudnoize/kvmerkletrie/metrics"
)

// Tree is a radix-256 Merkle-Patricia trie. It holds the root Branch
// directly (the root is the one Branch never held by the store) and the
// store of every other Branch, keyed by the path-prefix that reaches it.
//
// insert and CalculateHash must not execute concurrently with each other
// or with a reader; sem enforces that with a single weighted slot, the
// same primitive the teacher's payload store uses to guard its
// transaction.
type Tree struct {
	log            zerolog.Logger
	root           *Branch
	store          *Store
	sem            *semaphore.Weighted
	logHashingPass bool
}

// New creates an empty trie, configured by opts. It returns an error if
// the resulting configuration is invalid. Past construction, every Tree
// operation except DumpCBOR either completes or panics on a violated
// structural invariant; Encode, Decode and DumpCBOR return errors.
func New(opts ...Option) (*Tree, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, fmt.Errorf("invalid tree configuration: %w", err)
	}
	log := telemetry.New(cfg.LogLevel).With().Str("subcomponent", "trie").Logger()
	return &Tree{
		log:            log,
		root:           &Branch{},
		store:          NewStore(cfg.StoreCapacityHint),
		sem:            semaphore.NewWeighted(1),
		logHashingPass: cfg.LogHashingPass,
	}, nil
}

func (t *Tree) lock() {
	// The tree is specified single-writer with no cancellation; a
	// background context never blocks acquisition beyond normal
	// contention.
	if err := t.sem.Acquire(context.Background(), 1); err != nil {
		bug("tree: failed to acquire exclusivity semaphore: %v", err)
	}
}

func (t *Tree) unlock() {
	t.sem.Release(1)
}

// GetRootNode returns the trie's root branch.
func (t *Tree) GetRootNode() *Branch {
	t.lock()
	defer t.unlock()
	return t.root
}

// GetBranchNode looks up the branch stored at prefix.
func (t *Tree) GetBranchNode(prefix []byte) (*Branch, bool) {
	t.lock()
	defer t.unlock()
	return t.store.Get(prefix)
}

// DBSize returns the number of branches held in the node store (excluding
// the root, which the store never holds).
func (t *Tree) DBSize() int {
	t.lock()
	defer t.unlock()
	return t.store.Len()
}

// Insert adds or overwrites the value stored at key. It never fails on
// well-formed input; a violated structural invariant panics with a *Bug.
func (t *Tree) Insert(key, value []byte) {
	t.lock()
	defer t.unlock()

	metrics.Inserts.Inc()
	t.insert(key, value)
}

// insert implements §4.E of the design: it walks down from the root
// through Branch chains, restructuring on the four prefix-comparison
// outcomes, and returns as soon as the key has been placed.
func (t *Tree) insert(key, value []byte) {
	cur := NewCursor(key)
	node := t.root
	var branchKey []byte
	var stub *Stub

	for {
		result, m := cur.CompareTo(node.extension)
		switch result {

		case Equals:
			node.SetLeaf(key, value)
			return

		case ContainsOtherExtension:
			cur = cur.Advance(m)
			b, ok := cur.Peek()
			if !ok {
				bug("insert: contains_other_extension with no branching byte")
			}
			cur = cur.Advance(1)
			slot := int(b)

			switch child := node.ChildAt(slot).(type) {
			case nil:
				leaf := NewLeaf(key, value, append([]byte(nil), cur.Remainder()...))
				node.SwapChild(slot, leaf)
				return

			case *Leaf:
				r2, m2 := cur.CompareTo(child.extension)
				if r2 == Equals {
					node.UpdateLeafChild(slot, key, value)
					return
				}
				t.splitLeaf(node, slot, child, cur, m2, key, value)
				return

			case *Stub:
				child.dirty = true
				stub = child
				branchKey = append(branchKey[:0], cur.ConsumedPrefix()...)
				next, ok := t.store.Get(branchKey)
				if !ok {
					bug("insert: missing branch in store at key %x", branchKey)
				}
				node = next

			default:
				bug("insert: unexpected child kind %T at slot %d", child, slot)
			}

		case Substring, Diverge:
			t.splitBranch(node, branchKey, stub, cur, m, key, value)
			return

		default:
			bug("insert: invalid cursor comparison result %v", result)
		}
	}
}

// splitLeaf inserts a new Branch N between a parent and a leaf whose
// extension diverges from the key being inserted. cur must already be
// advanced past parent.extension and the branching byte at slot.
func (t *Tree) splitLeaf(parent *Branch, slot int, oldLeaf *Leaf, cur Cursor, m2 int, key, value []byte) {
	storeKey := append([]byte(nil), cur.ConsumedPrefix()...)

	n := &Branch{}
	n.extension = append([]byte(nil), cur.SliceUntil(m2)...)

	oldCur := NewCursor(oldLeaf.extension).Advance(m2)
	cOld, hasOld := oldCur.Peek()
	oldCur = oldCur.Advance(1)
	if hasOld {
		oldLeaf.extension = append([]byte{}, oldCur.Remainder()...)
		n.children[cOld] = oldLeaf
	} else {
		oldLeaf.extension = []byte{}
		n.leaf = oldLeaf
	}

	newCur := cur.Advance(m2)
	cNew, hasNew := newCur.Peek()
	newCur = newCur.Advance(1)
	newLeaf := NewLeaf(key, value, append([]byte{}, newCur.Remainder()...))
	if hasNew {
		n.children[cNew] = newLeaf
	} else {
		n.leaf = newLeaf
	}

	parent.SwapChild(slot, n.CreateStubForThisNode())
	t.store.Insert(storeKey, n)
	metrics.LeafSplits.Inc()
}

// splitBranch replaces node with a newly created Branch N whose extension
// is the agreed prefix of length m, moving node below N as a dirty Stub
// child. node may be the root or a Branch already resident in the store
// at branchKey; either way the store entry (or the root field) is
// identity-swapped to N. When node is not the root, stub is the *Stub in
// the grandparent that still carries node's pre-split extension and must
// be rewritten to the truncated one, keeping it in sync with
// store[branchKey].extension (stub is nil exactly when branchKey is
// empty, i.e. node is the root).
func (t *Tree) splitBranch(node *Branch, branchKey []byte, stub *Stub, cur Cursor, m int, key, value []byte) {
	newExt := append([]byte(nil), cur.SliceUntil(m)...)

	n := &Branch{}
	n.extension = newExt

	newCur := cur.Advance(m)
	cNew, hasNew := newCur.Peek()
	newCur = newCur.Advance(1)
	newLeaf := NewLeaf(key, value, append([]byte(nil), newCur.Remainder()...))
	if hasNew {
		n.children[cNew] = newLeaf
	} else {
		n.leaf = newLeaf
	}

	node.TruncateExtension(m)
	if len(node.extension) == 0 {
		bug("splitBranch: truncated extension left no branching byte")
	}
	cOld := node.extension[0]
	node.TruncateExtension(1)

	n.children[cOld] = node.CreateStubForThisNode()

	oldStoreKey := make([]byte, 0, len(branchKey)+len(newExt)+1)
	oldStoreKey = append(oldStoreKey, branchKey...)
	oldStoreKey = append(oldStoreKey, newExt...)
	oldStoreKey = append(oldStoreKey, cOld)

	if len(branchKey) == 0 {
		t.root = n
	} else {
		stub.extension = append([]byte(nil), newExt...)
		t.store.Insert(branchKey, n)
	}
	t.store.Insert(oldStoreKey, node)
	metrics.BranchSplits.Inc()
}

// CalculateHash performs a depth-first recompute of every dirty sub-trie,
// writing freshly computed hashes into the parent Stub slots and clearing
// their dirty bits. Calling it twice with no intervening Insert is
// idempotent: the second call visits zero dirty branches.
func (t *Tree) CalculateHash() {
	t.lock()
	defer t.unlock()

	start := time.Now()
	defer func() {
		metrics.HashingPassDuration.Observe(time.Since(start).Seconds())
	}()

	if t.logHashingPass {
		t.log.Debug().Msg("starting hashing pass")
	}

	node := t.root
	var path []byte
	stack := newFrameStack()

	for {
		dirtySlot := -1
		for slot := 0; slot < 256; slot++ {
			stub, ok := node.children[slot].(*Stub)
			if ok && stub.dirty {
				dirtySlot = slot
				break
			}
		}

		if dirtySlot >= 0 {
			popLen := len(node.extension) + 1
			path = append(path, node.extension...)
			path = append(path, byte(dirtySlot))
			stack.push(hashFrame{parent: node, slot: dirtySlot, popLen: popLen})

			next, ok := t.store.Get(path)
			if !ok {
				bug("calculateHash: dirty edge at %x has no store entry", path)
			}
			node = next
			continue
		}

		node.ComputeHash()
		if stack.len() == 0 {
			if t.logHashingPass {
				t.log.Debug().Msg("hashing pass complete")
			}
			return
		}

		f := stack.pop()
		stub, ok := f.parent.children[f.slot].(*Stub)
		if !ok {
			bug("calculateHash: expected *Stub at slot %d on return", f.slot)
		}
		stub.hash = node.hash
		stub.dirty = false
		path = path[:len(path)-f.popLen]
		node = f.parent
	}
}

// Leaves walks every reachable branch, resolving Stub children through
// the store regardless of their dirty state, and returns every leaf it
// finds.
func (t *Tree) Leaves() []*Leaf {
	t.lock()
	defer t.unlock()

	type item struct {
		node *Branch
		path []byte
	}

	q := deque.New()
	q.PushBack(item{node: t.root})

	var leaves []*Leaf
	for q.Len() > 0 {
		it := q.PopFront().(item)
		b := it.node
		if b.leaf != nil {
			leaves = append(leaves, b.leaf)
		}
		for slot := 0; slot < 256; slot++ {
			switch c := b.children[slot].(type) {
			case *Leaf:
				leaves = append(leaves, c)
			case *Stub:
				childPath := make([]byte, 0, len(it.path)+len(b.extension)+1)
				childPath = append(childPath, it.path...)
				childPath = append(childPath, b.extension...)
				childPath = append(childPath, byte(slot))
				next, ok := t.store.Get(childPath)
				if !ok {
					bug("leaves: missing branch at %x", childPath)
				}
				q.PushBack(item{node: next, path: childPath})
			}
		}
	}
	return leaves
}
