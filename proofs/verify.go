package proofs

import (
	"fmt"
	"hash"

	"github.com/forestrie/go-mmrproofs/digest"
	"github.com/forestrie/go-mmrproofs/mmr"
)

// Verify checks proof shows leaf is the node at leafPosition in the mmr of
// size mmrSize with the given root.
//
// false with a nil error means the proof was rejected. ErrInvalidProof is
// returned when the proof can not be checked at all.
func Verify(
	hasher hash.Hash, root digest.Digest, mmrSize uint64, proof Proof,
	leafPosition uint64, leaf digest.Digest,
) (bool, error) {
	if proof.MMRSize != mmrSize {
		return false, fmt.Errorf(
			"%w: proof is for mmr size %d, not %d", ErrInvalidProof, proof.MMRSize, mmrSize)
	}
	ok, err := mmr.VerifyProof(hasher, mmrSize, digest.Bytes(proof.Items), root[:], leafPosition, leaf[:])
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrInvalidProof, err)
	}
	return ok, nil
}
