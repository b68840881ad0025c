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

// Leaf is a terminal node. It carries the content digest of a key/value
// pair (GLOSSARY: HashOfLeaf) plus the key's suffix after the branching
// point that led to it.
type Leaf struct {
	header
}

// NewLeaf creates a leaf for key/value with the given tail extension, and
// computes its hash immediately.
func NewLeaf(key, value, extension []byte) *Leaf {
	l := &Leaf{}
	l.extension = extension
	l.updateHash(key, value)
	return l
}

func (l *Leaf) Kind() Kind {
	return KindLeaf
}

// updateHash recomputes the leaf's hash in place, preserving its
// extension.
func (l *Leaf) updateHash(key, value []byte) {
	l.hash = leafPreimage(key, value)
}
