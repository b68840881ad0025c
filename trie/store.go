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

import "sort"

// Store is an ordered map from branch key — the byte-string prefix of the
// path reaching a Branch — to that Branch. The root Branch is held by the
// Tree itself and is never in the store.
//
// Lookup is heterogeneous: callers pass any []byte view, not an owned
// copy; the string(view) conversion used as the map key is the idiomatic
// Go way to probe a map[string] without allocating; see the Get below.
type Store struct {
	entries map[string]*Branch
	keys    []string
}

// NewStore creates an empty store, optionally pre-sizing its backing map
// for capacityHint entries.
func NewStore(capacityHint int) *Store {
	if capacityHint < 0 {
		capacityHint = 0
	}
	return &Store{
		entries: make(map[string]*Branch, capacityHint),
		keys:    make([]string, 0, capacityHint),
	}
}

// Get looks up the Branch stored at branchKey.
func (s *Store) Get(branchKey []byte) (*Branch, bool) {
	b, ok := s.entries[string(branchKey)]
	return b, ok
}

// Insert installs b at branchKey, replacing any existing entry — this is
// the identity swap the branch-split restructuring relies on.
func (s *Store) Insert(branchKey []byte, b *Branch) {
	key := string(branchKey)
	if _, exists := s.entries[key]; !exists {
		i := sort.SearchStrings(s.keys, key)
		s.keys = append(s.keys, "")
		copy(s.keys[i+1:], s.keys[i:])
		s.keys[i] = key
	}
	s.entries[key] = b
}

// Len returns the number of branches in the store.
func (s *Store) Len() int {
	return len(s.entries)
}

// Keys returns the branch keys in ascending lexicographic order.
func (s *Store) Keys() []string {
	out := make([]string, len(s.keys))
	copy(out, s.keys)
	return out
}

// ReverseKeys returns the branch keys in descending lexicographic order.
func (s *Store) ReverseKeys() []string {
	out := s.Keys()
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}
