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

// Kind identifies which of the three node variants, or the absence of a
// node, a serialized tag byte refers to.
type Kind uint8

const (
	// KindStub tags a Stub, the parent-held reference to a Branch that
	// lives in the store (GLOSSARY: HashOfBranch).
	KindStub Kind = iota
	// KindLeaf tags a Leaf, the terminal node carrying a value's content
	// digest (GLOSSARY: HashOfLeaf).
	KindLeaf
	// KindBranch tags a Branch, a true interior node.
	KindBranch
	// KindNull tags the absence of a node. It never appears as a live
	// Node value; it is used on the wire and by Branch.TypeOfChild for an
	// empty slot.
	KindNull
)

// Node represents a trie node. Every child slot of a Branch holds either a
// nil Node, a *Leaf, or a *Stub — never a raw *Branch (invariant 1).
type Node interface {
	Kind() Kind
	Hash() [32]byte
	Extension() []byte
}

// header carries the fields shared by all three node variants.
type header struct {
	hash      [32]byte
	extension []byte
}

func (h header) Hash() [32]byte {
	return h.hash
}

func (h header) Extension() []byte {
	return h.extension
}
