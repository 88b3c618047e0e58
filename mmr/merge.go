package mmr

import "hash"

// Merge returns H(left || right)
// ** the hasher is reset **
func Merge(hasher hash.Hash, left []byte, right []byte) []byte {
	hasher.Reset()
	hasher.Write(left)
	hasher.Write(right)
	return hasher.Sum(nil)
}

// BagPeaks folds the peak hashes into a single root. The peaks are consumed
// from the right, so for [a, b, c] the result is Merge(Merge(c, b), a).
//
// Returns nil for an empty list. The input slice is not modified.
func BagPeaks(hasher hash.Hash, peakHashes [][]byte) []byte {
	if len(peakHashes) == 0 {
		return nil
	}
	root := peakHashes[len(peakHashes)-1]
	for i := len(peakHashes) - 2; i >= 0; i-- {
		root = Merge(hasher, root, peakHashes[i])
	}
	return root
}
