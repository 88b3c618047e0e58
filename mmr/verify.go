package mmr

import (
	"bytes"
	"fmt"
	"hash"
)

// VerifyProof returns true if items prove that nodeHash is at position i in
// the mmr of size mmrSize whose bagged root is root.
//
// A false result with a nil error means the proof does not match. An error
// is returned when the inputs are structurally inconsistent: the size is not
// a valid mmr size, i is not in the mmr, or the number of items does not
// match the layout produced by GenProof.
func VerifyProof(
	hasher hash.Hash, mmrSize uint64, items [][]byte, root []byte, i uint64, nodeHash []byte,
) (bool, error) {
	nLeft, nPath, nRight, err := ProofShape(mmrSize, i)
	if err != nil {
		return false, fmt.Errorf("%w: mmr size %d, index %d", err, mmrSize, i)
	}
	if len(items) != nLeft+nPath+nRight {
		return false, fmt.Errorf(
			"%w: expected %d items for index %d in mmr size %d, got %d",
			ErrProofShape, nLeft+nPath+nRight, i, mmrSize, len(items))
	}

	peak := IncludedRoot(hasher, i, nodeHash, items[nLeft:nLeft+nPath])

	bag := make([][]byte, 0, nLeft+1+nRight)
	bag = append(bag, items[:nLeft]...)
	bag = append(bag, peak)
	bag = append(bag, items[nLeft+nPath:]...)

	return bytes.Equal(BagPeaks(hasher, bag), root), nil
}
