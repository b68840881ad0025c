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
	"encoding/hex"
	"io"

	"github.com/fxamacker/cbor/v2"
)

// dumpNode is the CBOR-friendly mirror of a live Node, used only for debug
// export. Hashes are hex-encoded so the dump is readable without a
// separate decoder.
type dumpNode struct {
	Kind      string      `cbor:"kind"`
	Hash      string      `cbor:"hash"`
	Extension []byte      `cbor:"extension,omitempty"`
	Dirty     bool        `cbor:"dirty,omitempty"`
	Leaf      *dumpNode   `cbor:"leaf,omitempty"`
	Resolved  *dumpNode   `cbor:"resolved,omitempty"`
	Children  []*dumpNode `cbor:"children,omitempty"`
}

// DumpCBOR writes a CBOR-encoded snapshot of the trie's in-memory shape to
// w, resolving every Stub through the store regardless of its dirty bit.
// It is a diagnostic aid, not part of the wire format Encode/Decode define.
func (t *Tree) DumpCBOR(w io.Writer) error {
	t.lock()
	defer t.unlock()

	d := t.dumpBranch(t.root, nil)
	data, err := cbor.Marshal(d)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func (t *Tree) dumpBranch(b *Branch, path []byte) *dumpNode {
	d := &dumpNode{
		Kind:      "branch",
		Hash:      hex.EncodeToString(b.hash[:]),
		Extension: b.extension,
	}
	if b.leaf != nil {
		d.Leaf = dumpLeaf(b.leaf)
	}
	for slot := 0; slot < 256; slot++ {
		switch c := b.children[slot].(type) {
		case *Leaf:
			d.Children = append(d.Children, dumpLeaf(c))
		case *Stub:
			childPath := make([]byte, 0, len(path)+len(b.extension)+1)
			childPath = append(childPath, path...)
			childPath = append(childPath, b.extension...)
			childPath = append(childPath, byte(slot))
			next, ok := t.store.Get(childPath)
			if !ok {
				bug("dumpBranch: missing branch at %x", childPath)
			}
			d.Children = append(d.Children, &dumpNode{
				Kind:      "stub",
				Hash:      hex.EncodeToString(c.hash[:]),
				Extension: c.extension,
				Dirty:     c.dirty,
				Resolved:  t.dumpBranch(next, childPath),
			})
		}
	}
	return d
}

func dumpLeaf(l *Leaf) *dumpNode {
	return &dumpNode{
		Kind:      "leaf",
		Hash:      hex.EncodeToString(l.hash[:]),
		Extension: l.extension,
	}
}
