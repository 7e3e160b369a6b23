package rope

import "strings"

// Leaf sizing. Leaves are split above maxLeafBytes and merged when a concat
// produces two small neighbors, keeping the tree shallow for typing-sized
// edits without copying large spans.
const (
	maxLeafBytes = 1024
	minLeafBytes = 256
)

// node is either a leaf (text != "" or the empty leaf) or an internal node
// with exactly two children. Nodes are immutable after construction.
type node struct {
	left, right *node
	text        string
	bytes       ByteOffset
	newlines    uint32
	height      uint8
}

var emptyLeaf = &node{height: 1}

func (n *node) isLeaf() bool {
	return n.left == nil
}

func newLeaf(s string) *node {
	return &node{
		text:     s,
		bytes:    ByteOffset(len(s)),
		newlines: uint32(strings.Count(s, "\n")),
		height:   1,
	}
}

func newInternal(left, right *node) *node {
	h := left.height
	if right.height > h {
		h = right.height
	}
	return &node{
		left:     left,
		right:    right,
		bytes:    left.bytes + right.bytes,
		newlines: left.newlines + right.newlines,
		height:   h + 1,
	}
}

// buildLeaves splits s into leaves and stitches them into a balanced subtree.
func buildLeaves(s string) *node {
	if len(s) <= maxLeafBytes {
		return newLeaf(s)
	}
	var leaves []*node
	for len(s) > 0 {
		n := maxLeafBytes
		if n >= len(s) {
			n = len(s)
		} else {
			// Never split inside a UTF-8 sequence.
			for n > 0 && s[n]&0xC0 == 0x80 {
				n--
			}
			if n == 0 {
				n = maxLeafBytes
			}
		}
		leaves = append(leaves, newLeaf(s[:n]))
		s = s[n:]
	}
	return buildBalanced(leaves)
}

func buildBalanced(leaves []*node) *node {
	switch len(leaves) {
	case 0:
		return emptyLeaf
	case 1:
		return leaves[0]
	}
	mid := len(leaves) / 2
	return newInternal(buildBalanced(leaves[:mid]), buildBalanced(leaves[mid:]))
}

// concat joins two subtrees, merging small adjacent leaves.
func concat(left, right *node) *node {
	if left == nil || left.bytes == 0 {
		return right
	}
	if right == nil || right.bytes == 0 {
		return left
	}
	if left.isLeaf() && right.isLeaf() && left.bytes+right.bytes <= minLeafBytes {
		return newLeaf(left.text + right.text)
	}
	return newInternal(left, right)
}

// split divides n at offset into two subtrees.
func split(n *node, offset ByteOffset) (*node, *node) {
	if n == nil {
		return emptyLeaf, emptyLeaf
	}
	if offset <= 0 {
		return emptyLeaf, n
	}
	if offset >= n.bytes {
		return n, emptyLeaf
	}
	if n.isLeaf() {
		return newLeaf(n.text[:offset]), newLeaf(n.text[offset:])
	}
	if offset < n.left.bytes {
		ll, lr := split(n.left, offset)
		return ll, concat(lr, n.right)
	}
	rl, rr := split(n.right, offset-n.left.bytes)
	return concat(n.left, rl), rr
}

// rebalance rebuilds the tree from its leaves when it grows too lopsided.
// Sequential one-byte inserts otherwise degenerate the concat tree.
func rebalance(n *node) *node {
	if n == nil {
		return emptyLeaf
	}
	if balanced(n) {
		return n
	}
	var leaves []*node
	collectLeaves(n, &leaves)
	return buildBalanced(leaves)
}

// balanced reports whether the height is within the allowance for the leaf
// count (height <= log2(leaves) + slack).
func balanced(n *node) bool {
	// 2^(height-slack) <= leaf count for a tree we accept.
	const slack = 4
	h := int(n.height)
	if h <= slack {
		return true
	}
	minBytes := ByteOffset(1) << uint(h-slack)
	return n.bytes >= minBytes
}

func collectLeaves(n *node, out *[]*node) {
	if n.isLeaf() {
		if n.bytes > 0 {
			*out = append(*out, n)
		}
		return
	}
	collectLeaves(n.left, out)
	collectLeaves(n.right, out)
}

func (n *node) appendTo(sb *strings.Builder) {
	if n.isLeaf() {
		sb.WriteString(n.text)
		return
	}
	n.left.appendTo(sb)
	n.right.appendTo(sb)
}

func (n *node) appendRange(sb *strings.Builder, start, end ByteOffset) {
	if start >= end || n.bytes == 0 {
		return
	}
	if n.isLeaf() {
		if start < 0 {
			start = 0
		}
		if end > n.bytes {
			end = n.bytes
		}
		sb.WriteString(n.text[start:end])
		return
	}
	if start < n.left.bytes {
		e := end
		if e > n.left.bytes {
			e = n.left.bytes
		}
		n.left.appendRange(sb, start, e)
	}
	if end > n.left.bytes {
		s := start - n.left.bytes
		if s < 0 {
			s = 0
		}
		n.right.appendRange(sb, s, end-n.left.bytes)
	}
}

// newlinesBefore counts newlines in [0, offset).
func newlinesBefore(n *node, offset ByteOffset) uint32 {
	if offset <= 0 || n.bytes == 0 {
		return 0
	}
	if offset >= n.bytes {
		return n.newlines
	}
	if n.isLeaf() {
		return uint32(strings.Count(n.text[:offset], "\n"))
	}
	if offset <= n.left.bytes {
		return newlinesBefore(n.left, offset)
	}
	return n.left.newlines + newlinesBefore(n.right, offset-n.left.bytes)
}

// findNthNewline returns the byte offset of the nth (0-indexed) newline.
// The caller guarantees n < newline count.
func findNthNewline(n *node, nth uint32) ByteOffset {
	cur := n
	var base ByteOffset
	for !cur.isLeaf() {
		if nth < cur.left.newlines {
			cur = cur.left
		} else {
			nth -= cur.left.newlines
			base += cur.left.bytes
			cur = cur.right
		}
	}
	idx := 0
	for i := uint32(0); ; i++ {
		pos := strings.IndexByte(cur.text[idx:], '\n')
		if pos < 0 {
			return base + cur.bytes // unreachable when caller holds the invariant
		}
		idx += pos
		if i == nth {
			return base + ByteOffset(idx)
		}
		idx++
	}
}
