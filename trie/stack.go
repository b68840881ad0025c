package trie

import "github.com/gammazero/deque"

// hashFrame records where a dirty-edge descent branched off, so the
// hashing pass can climb back up and write the recomputed hash into the
// right Stub once its Branch's hash is known.
type hashFrame struct {
	parent *Branch
	slot   int
	popLen int // bytes to drop from the accumulated path on return
}

// frameStack is the explicit stack the hashing pass walks with, in place
// of recursion, backed by the same deque.Deque that Tree.Leaves uses as its
// breadth-first work queue.
type frameStack struct {
	d *deque.Deque
}

func newFrameStack() *frameStack {
	return &frameStack{d: deque.New()}
}

func (s *frameStack) push(f hashFrame) {
	s.d.PushBack(f)
}

func (s *frameStack) pop() hashFrame {
	return s.d.PopBack().(hashFrame)
}

func (s *frameStack) len() int {
	return s.d.Len()
}
