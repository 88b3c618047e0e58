package mmr

import "math/bits"

// All positions are zero based, post order. Every mmr is a run of perfect
// trees of strictly decreasing height, so a position is located by first
// finding its perfect tree and then descending from that tree's root.

// LeafIndexToPos returns the position of the leaf with index leafIndex, where
// leaves are numbered consecutively ignoring interior nodes. Because of the
// post order numbering this is also the size of the mmr holding exactly
// leafIndex leaves.
//
// Each leaf adds one node, and every completed pair adds a parent. A count of
// n leaves completes n - popcount(n) parents.
func LeafIndexToPos(leafIndex uint64) uint64 {
	return 2*leafIndex - uint64(bits.OnesCount64(leafIndex))
}

// treeSpan is the number of nodes in a perfect tree of the given height
func treeSpan(height uint64) uint64 {
	return (uint64(1) << (height + 1)) - 1
}

// mountains calls fn, left to right, with the height and root position of
// each perfect tree the first size positions decompose into. It returns the
// count of positions left over, which is zero only for a valid mmr size.
func mountains(size uint64, fn func(height, root uint64)) uint64 {
	var start uint64
	for h := bits.Len64(size+1) - 2; h >= 0; h-- {
		span := treeSpan(uint64(h))
		if size-start >= span {
			start += span
			fn(uint64(h), start-1)
		}
	}
	return size - start
}

// IndexHeight returns the height of the node at position i. Leaves are height
// 0. i must be below 2^63.
func IndexHeight(i uint64) uint64 {
	// the perfect tree starting at 0 whose span exceeds i contains i
	h := uint64(bits.Len64(i+1)) - 1
	base := uint64(0)
	for {
		if i == base+treeSpan(h)-1 {
			return h
		}
		// both children span treeSpan(h-1), the left starts at base
		if i >= base+treeSpan(h-1) {
			base += treeSpan(h - 1)
		}
		h--
	}
}

// PeaksBitmap returns a mask with bit h set for each peak of height h. The
// value is also the count of leaves.
//
// For example, with an mmr of size 19, there are 11 leaves
//
//	         14
//	      /       \
//	    6          13
//	  /   \       /   \
//	 2     5     9     12     17
//	/ \   /  \  / \   /  \   /  \
//	0   1 3   4 7   8 10  11 15  16 18
//
// and PeaksBitmap(19) is 0b1011.
//
// An invalid size gives the bitmap of the largest valid size below it.
func PeaksBitmap(mmrSize uint64) uint64 {
	var bitmap uint64
	mountains(mmrSize, func(height, _ uint64) {
		bitmap |= 1 << height
	})
	return bitmap
}

// LeafCount returns the number of leaves in the largest mmr whose size is <=
// the supplied size.
func LeafCount(size uint64) uint64 {
	return PeaksBitmap(size)
}
