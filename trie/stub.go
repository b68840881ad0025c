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

// Stub stands in, inside a parent Branch, for a Branch that actually lives
// in the store (GLOSSARY: HashOfBranch). It carries a copy of that
// Branch's extension and a cached digest that the dirty flag marks as
// stale or authoritative.
type Stub struct {
	header
	dirty bool
}

func (s *Stub) Kind() Kind {
	return KindStub
}

// Dirty reports whether the cached hash needs to be recomputed by a
// hashing pass.
func (s *Stub) Dirty() bool {
	return s.dirty
}
