package trie

import (
	"errors"
	"fmt"
)

// Bug indicates a violated structural invariant: a code defect, not a
// recoverable error. Malformed serialization input is reported by Decode as
// an ordinary error, not as a *Bug. Apart from DumpCBOR, which returns its
// encoding or write error, every exposed Tree operation either completes or
// panics with a *Bug; there is no retry semantics.
type Bug struct {
	err error
}

func (b *Bug) Error() string {
	return b.err.Error()
}

func (b *Bug) Unwrap() error {
	return b.err
}

// bug panics with a *Bug built from the given format string.
func bug(format string, args ...any) {
	panic(&Bug{err: fmt.Errorf(format, args...)})
}

// ErrUnknownTag is returned by Decode when it encounters a tag byte that
// does not correspond to any known node variant.
var ErrUnknownTag = errors.New("trie: unknown serialized tag byte")
