package mmr

import (
	"hash"
	"slices"
)

// InclusionProofPath returns the positions of the witness nodes for node i
// in the mmr of size mmrSize, bottom up. The last witness is a child of the
// peak committing i, so the path is empty when i is itself a peak. nil is
// returned when mmrSize is invalid or i is not in the mmr.
//
// For the mmr of size 26 below, the path for 15 is [16, 20]. Given the value
// for 15, 16 and then 20 reproduce the peak 21.
//
//	3              14
//	             /    \
//	            /      \
//	           /        \
//	          /          \
//	2        6            13           21
//	       /   \        /    \
//	1     2     5      9     12     17     20     24
//	     / \   / \    / \   /  \   /  \
//	0   0   1 3   4  7   8 10  11 15  16 18  19 22  23   25
func InclusionProofPath(mmrSize uint64, i uint64) []uint64 {
	peaks := GetPeaks(mmrSize)
	k := PeakIndex(peaks, i)
	if k < 0 {
		return nil
	}

	root := peaks[k]
	h := IndexHeight(root)
	base := root + 1 - treeSpan(h)

	// descend from the peak, collecting the sibling of each node on the way
	// down to i, then reverse
	var path []uint64
	for root != i {
		left := base + treeSpan(h-1) - 1
		right := root - 1
		if i <= left {
			path = append(path, right)
			root = left
		} else {
			path = append(path, left)
			base = left + 1
			root = right
		}
		h--
	}
	slices.Reverse(path)
	return path
}

// GenProofPositions returns the positions needed to prove node pos in the mmr
// of size mmrSize.
//
// Returns:
//   - the merkle path from pos to its peak, bottom up (see InclusionProofPath)
//   - the positions of all the peaks except the one committing pos, in GetPeaks order
//   - the index, in the full peak list, of the peak committing pos
//
// The caller must ensure pos < mmrSize and that mmrSize is valid.
func GenProofPositions(pos uint64, mmrSize uint64) ([]uint64, []uint64, int) {
	peaks := GetPeaks(mmrSize)
	peakIndex := PeakIndex(peaks, pos)

	path := InclusionProofPath(mmrSize, pos)

	others := make([]uint64, 0, len(peaks))
	for k, peak := range peaks {
		if k == peakIndex {
			continue
		}
		others = append(others, peak)
	}
	return path, others, peakIndex
}

// GenProof lays out the proof items given the path hashes and the hashes of
// the peaks that are not committing the proven node. The peaks must be in the
// order returned by GenProofPositions.
//
// The layout is the peaks to the left of the committing peak, then the path,
// then a single bagging of the peaks to the right, when there are any.
func GenProof(hasher hash.Hash, path [][]byte, peaks [][]byte, peakIndex int) [][]byte {
	items := make([][]byte, 0, len(path)+peakIndex+1)
	items = append(items, peaks[:peakIndex]...)
	items = append(items, path...)

	if rhs := peaks[peakIndex:]; len(rhs) > 0 {
		items = append(items, BagPeaks(hasher, rhs))
	}
	return items
}

// ProofShape returns the number of left peaks, path items and right hand
// items (0 or 1) a proof for node i in an mmr of size mmrSize consists of.
func ProofShape(mmrSize uint64, i uint64) (int, int, int, error) {
	peaks := GetPeaks(mmrSize)
	if peaks == nil {
		return 0, 0, 0, ErrInvalidMMRSize
	}
	if i >= mmrSize {
		return 0, 0, 0, ErrIndexOutOfRange
	}
	k := PeakIndex(peaks, i)
	pathLen := int(IndexHeight(peaks[k]) - IndexHeight(i))

	rhs := 0
	if k < len(peaks)-1 {
		rhs = 1
	}
	return k, pathLen, rhs, nil
}
