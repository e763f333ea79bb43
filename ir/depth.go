package ir

import "fmt"

// DefaultMaxDepth bounds recursion when walking trees. Deeply nested
// input is reported as ErrDepthExceeded instead of overflowing the
// stack.
const DefaultMaxDepth = 128

// CheckDepth returns ErrDepthExceeded (wrapped with the offending
// path) if the tree rooted at n nests deeper than maxDepth levels.
// maxDepth <= 0 means DefaultMaxDepth.
func CheckDepth(n *Node, maxDepth int) error {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return checkDepth(n, maxDepth)
}

func checkDepth(n *Node, rem int) error {
	if rem == 0 {
		return fmt.Errorf("%w at %q", ErrDepthExceeded, n.Path())
	}
	for _, v := range n.Values {
		if err := checkDepth(v, rem-1); err != nil {
			return err
		}
	}
	return nil
}
