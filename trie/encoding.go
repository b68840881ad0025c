package trie

import (
	"encoding/binary"
	"fmt"
	"io"
)

const (
	tagStub   byte = 0x00
	tagLeaf   byte = 0x01
	tagBranch byte = 0x02
	tagNull   byte = 0x03
)

// Encode writes the bit-exact binary encoding of n to w. A nil n encodes
// as a single NullNode tag byte. Multi-byte fields are written in the
// host machine's native byte order, matching the leaf hash preimage's
// native-endian length prefix (see hash.go).
//
//	node      := tag(1) ‖ hash(32) ‖ ext_len(8) ‖ ext(ext_len) ‖ variant_tail
//	variant_tail(Stub)   := dirty(1)
//	variant_tail(Leaf)   := (empty)
//	variant_tail(Branch) := leaf_field ‖ child_0 ‖ … ‖ child_255
func Encode(w io.Writer, n Node) error {
	if n == nil {
		_, err := w.Write([]byte{tagNull})
		return err
	}
	switch v := n.(type) {
	case *Stub:
		if err := encodeHeader(w, tagStub, v.hash, v.extension); err != nil {
			return err
		}
		var dirty byte
		if v.dirty {
			dirty = 1
		}
		_, err := w.Write([]byte{dirty})
		return err
	case *Leaf:
		return encodeHeader(w, tagLeaf, v.hash, v.extension)
	case *Branch:
		if err := encodeHeader(w, tagBranch, v.hash, v.extension); err != nil {
			return err
		}
		if v.leaf == nil {
			if _, err := w.Write([]byte{tagNull}); err != nil {
				return err
			}
		} else if err := Encode(w, v.leaf); err != nil {
			return err
		}
		for i := 0; i < 256; i++ {
			if err := Encode(w, v.children[i]); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("trie: unknown node type %T", n)
	}
}

func encodeHeader(w io.Writer, tag byte, hash [32]byte, extension []byte) error {
	if _, err := w.Write([]byte{tag}); err != nil {
		return err
	}
	if _, err := w.Write(hash[:]); err != nil {
		return err
	}
	var lenBuf [8]byte
	binary.NativeEndian.PutUint64(lenBuf[:], uint64(len(extension)))
	if _, err := w.Write(lenBuf[:]); err != nil {
		return err
	}
	_, err := w.Write(extension)
	return err
}

// Decode reads one node encoding from r, the exact inverse of Encode. An
// unknown tag byte is rejected with ErrUnknownTag.
func Decode(r io.Reader) (Node, error) {
	var tagBuf [1]byte
	if _, err := io.ReadFull(r, tagBuf[:]); err != nil {
		return nil, err
	}
	tag := tagBuf[0]
	if tag == tagNull {
		return nil, nil
	}
	switch tag {
	case tagStub, tagLeaf, tagBranch:
	default:
		return nil, fmt.Errorf("%w: %#x", ErrUnknownTag, tag)
	}

	var hash [32]byte
	if _, err := io.ReadFull(r, hash[:]); err != nil {
		return nil, err
	}
	var lenBuf [8]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return nil, err
	}
	extLen := binary.NativeEndian.Uint64(lenBuf[:])
	var extension []byte
	if extLen > 0 {
		extension = make([]byte, extLen)
		if _, err := io.ReadFull(r, extension); err != nil {
			return nil, err
		}
	}

	switch tag {
	case tagStub:
		var dirtyBuf [1]byte
		if _, err := io.ReadFull(r, dirtyBuf[:]); err != nil {
			return nil, err
		}
		return &Stub{
			header: header{hash: hash, extension: extension},
			dirty:  dirtyBuf[0] != 0,
		}, nil

	case tagLeaf:
		return &Leaf{header{hash: hash, extension: extension}}, nil

	case tagBranch:
		b := &Branch{}
		b.hash = hash
		b.extension = extension

		leafNode, err := Decode(r)
		if err != nil {
			return nil, err
		}
		if leafNode != nil {
			lf, ok := leafNode.(*Leaf)
			if !ok {
				return nil, fmt.Errorf("trie: branch leaf field decoded as %T, not *Leaf", leafNode)
			}
			b.leaf = lf
		}

		for i := 0; i < 256; i++ {
			child, err := Decode(r)
			if err != nil {
				return nil, err
			}
			b.children[i] = child
		}
		return b, nil

	default:
		return nil, fmt.Errorf("%w: %#x", ErrUnknownTag, tag)
	}
}
