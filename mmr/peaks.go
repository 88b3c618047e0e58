package mmr

// GetPeaks returns the positions of the peaks of the mmr of size mmrSize,
// ascending, or nil if mmrSize is not a complete mmr. The first peak is the
// root of the tallest tree.
//
// So given the example below, which has an mmrSize of 11, the peaks are [6, 9, 10]
//
//	2        6
//	       /   \
//	1     2     5      9
//	     / \   / \    / \
//	0   0   1 3   4  7   8 10
//
// Note that the leaf position returned by LeafIndexToPos(n) is the size of the
// mmr with n leaves, so GetPeaks(LeafIndexToPos(n)) are the peaks committing
// leaves 0 through n-1.
func GetPeaks(mmrSize uint64) []uint64 {
	if mmrSize == 0 {
		return nil
	}
	var peaks []uint64
	if mountains(mmrSize, func(_, root uint64) { peaks = append(peaks, root) }) != 0 {
		// siblings exist with no parent
		return nil
	}
	return peaks
}

// ValidSize returns true if mmrSize is the size of a complete MMR. The empty
// MMR is considered valid.
func ValidSize(mmrSize uint64) bool {
	return mmrSize == 0 || GetPeaks(mmrSize) != nil
}

// PeakIndex returns the index, in peaks, of the peak committing node i. peaks
// must be the ascending list obtained from GetPeaks. Returns -1 if i is beyond
// the last peak.
func PeakIndex(peaks []uint64, i uint64) int {
	for k, peak := range peaks {
		if i <= peak {
			return k
		}
	}
	return -1
}
