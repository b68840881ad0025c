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
	"encoding/binary"
)

// NullHash is the placeholder hash used in a branch's preimage for any
// child slot that is empty.
var NullHash = sha256.Sum256([]byte{0x00})

// Digest returns the SHA-256 digest of the given bytes.
func Digest(data []byte) [32]byte {
	return sha256.Sum256(data)
}

// leafPreimage returns the SHA-256 digest of a leaf's hash preimage: the
// native-endian u64 length of the key, followed by the key, followed by the
// value. The
// native-endian length prefix mirrors the original C++ implementation's
// `reinterpret_cast<char*>(&size)` behaviour; see the design notes on
// bit-compatibility with the source.
func leafPreimage(key, value []byte) [32]byte {
	buf := make([]byte, 8+len(key)+len(value))
	binary.NativeEndian.PutUint64(buf[:8], uint64(len(key)))
	copy(buf[8:8+len(key)], key)
	copy(buf[8+len(key):], value)
	return sha256.Sum256(buf)
}
