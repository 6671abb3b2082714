package huffman

import (
	"container/heap"

	"github.com/juju/errors"
)

// node is an internal Huffman-tree node used only while computing code
// lengths from frequencies; it never survives past CalcCodeLengths.
type node struct {
	freq        int
	symbol      int // valid only on leaves
	left, right *node
}

func (n *node) isLeaf() bool { return n.left == nil && n.right == nil }

// nodeHeap is a min-heap on frequency, breaking ties on symbol so that
// CalcCodeLengths is deterministic for equal-frequency inputs.
type nodeHeap []*node

func (h nodeHeap) Len() int { return len(h) }
func (h nodeHeap) Less(i, j int) bool {
	if h[i].freq != h[j].freq {
		return h[i].freq < h[j].freq
	}
	return h[i].symbol < h[j].symbol
}
func (h nodeHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *nodeHeap) Push(x interface{}) { *h = append(*h, x.(*node)) }
func (h *nodeHeap) Pop() interface{} {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// CalcCodeLengths derives a set of Huffman code lengths from symbol
// frequencies. freqs[i] is the frequency of symbol i; symbols with zero
// frequency get length 0 (absent from the code). If fewer than two
// symbols have non-zero frequency, one or two synthetic single-count
// leaves are injected for symbols 0 and 1 before the tree is built, so
// the algorithm always merges at least two leaves and the result always
// satisfies Kraft equality — ported from
// original_source/modules/compression/internal/huffman.h's createTree,
// which pushes the same synthetic Node(0,1)/Node(1,1) leaves rather than
// special-casing the degenerate counts after the fact.
func CalcCodeLengths(freqs []int) ([]int, error) {
	lengths := make([]int, len(freqs))

	h := &nodeHeap{}
	for symbol, f := range freqs {
		if f > 0 {
			heap.Push(h, &node{freq: f, symbol: symbol})
		}
	}

	if h.Len() == 0 {
		heap.Push(h, &node{freq: 1, symbol: 0})
	}
	if h.Len() == 1 {
		sibling := 0
		if (*h)[0].symbol == 0 {
			sibling = 1
		}
		heap.Push(h, &node{freq: 1, symbol: sibling})
	}

	for h.Len() > 1 {
		a := heap.Pop(h).(*node)
		b := heap.Pop(h).(*node)
		heap.Push(h, &node{freq: a.freq + b.freq, left: a, right: b, symbol: -1})
	}

	root := heap.Pop(h).(*node)
	assignLengths(root, 0, lengths)
	return lengths, nil
}

func assignLengths(n *node, depth int, lengths []int) {
	if n.isLeaf() {
		lengths[n.symbol] = depth
		return
	}
	assignLengths(n.left, depth+1, lengths)
	assignLengths(n.right, depth+1, lengths)
}

// RestrictCodeLengths clamps every length in lengths to at most maxLen,
// redistributing code space so the result stays a legal canonical code.
// It repeatedly finds the longest offending symbol A, a sibling symbol B
// at the same length to shorten isn't enough on its own — it also needs a
// donor symbol C, the longest symbol still under the bound, to lengthen:
// C grows by one, A takes C's new (post-increment) length, B shrinks by
// one. Returns ErrReductionFailed if no such sibling or donor exists, which signals
// a bug in the caller's frequency table rather than bad input data.
// Ported from
// original_source/modules/compression/internal/huffman.h's
// restrictCodeLengths, which picks the longest eligible donor
// (codeLengths[i] > codeLengths[longestAcceptableSymbol]) and assigns A
// from the donor's incremented length rather than the bound itself.
func RestrictCodeLengths(lengths []int, maxLen int) error {
	for {
		longest := -1
		for symbol, l := range lengths {
			if l > maxLen && (longest == -1 || l > lengths[longest]) {
				longest = symbol
			}
		}
		if longest == -1 {
			return nil
		}

		sibling := -1
		for symbol, l := range lengths {
			if symbol != longest && l == lengths[longest] {
				sibling = symbol
				break
			}
		}
		if sibling == -1 {
			return errors.Trace(ErrReductionFailed)
		}

		donor := -1
		for symbol, l := range lengths {
			if l < maxLen && (donor == -1 || l > lengths[donor]) {
				donor = symbol
			}
			if donor != -1 && lengths[donor] == maxLen-1 {
				break // already at the best possible donor length
			}
		}
		if donor == -1 {
			return errors.Trace(ErrReductionFailed)
		}

		lengths[donor]++
		lengths[longest] = lengths[donor]
		lengths[sibling]--
	}
}
