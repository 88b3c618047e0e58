package proofs

import (
	"context"
	"fmt"

	"github.com/datatrails/go-datatrails-common/logger"
	"github.com/forestrie/go-mmrproofs/digest"
	"github.com/forestrie/go-mmrproofs/mmr"
)

// Proof is an inclusion proof against the root of the mmr of size MMRSize.
// The items are laid out as described by mmr.GenProof.
type Proof struct {
	MMRSize uint64
	Items   []digest.Digest
}

type Assembler struct {
	log       logger.Logger
	resolver  PositionResolver
	newHasher HasherFactory
}

func NewAssembler(log logger.Logger, resolver PositionResolver, newHasher HasherFactory) *Assembler {
	return &Assembler{
		log:       log,
		resolver:  resolver,
		newHasher: newHasher,
	}
}

// CheckTarget returns ErrInvalidVerificationTarget unless the leaf at
// targetHeight is included in the checkpoint at height.
func CheckTarget(targetHeight, height uint64) error {
	if targetHeight >= height {
		return fmt.Errorf(
			"%w: target height %d must be below the checkpoint height %d",
			ErrInvalidVerificationTarget, targetHeight, height)
	}
	return nil
}

// AssembleFor proves the leaf at targetHeight against the checkpoint cp.
func (a *Assembler) AssembleFor(ctx context.Context, targetHeight uint64, cp Checkpoint) (Proof, error) {
	if err := CheckTarget(targetHeight, cp.Height); err != nil {
		return Proof{}, err
	}
	return a.Assemble(ctx, targetHeight, cp.MMRSize)
}

// Assemble proves the leaf at targetHeight against the mmr of size mmrSize.
// The preconditions are checked before anything is looked up. The path and
// the other peaks are each fetched with one batched lookup.
func (a *Assembler) Assemble(ctx context.Context, targetHeight uint64, mmrSize uint64) (Proof, error) {
	if !mmr.ValidSize(mmrSize) {
		return Proof{}, fmt.Errorf("%w: mmr size %d: %w", ErrInvalidVerificationTarget, mmrSize, mmr.ErrInvalidMMRSize)
	}
	if targetHeight > MaxHeight {
		return Proof{}, fmt.Errorf("%w: target height %d exceeds %d", ErrInvalidVerificationTarget, targetHeight, MaxHeight)
	}
	pos := mmr.LeafIndexToPos(targetHeight)
	if pos >= mmrSize {
		return Proof{}, fmt.Errorf(
			"%w: leaf position %d of target height %d is not in the mmr of size %d",
			ErrInvalidVerificationTarget, pos, targetHeight, mmrSize)
	}

	pathPositions, peakPositions, peakIndex := mmr.GenProofPositions(pos, mmrSize)

	path, err := a.resolver.Resolve(ctx, pathPositions)
	if err != nil {
		return Proof{}, fmt.Errorf("proof path for target height %d: %w", targetHeight, err)
	}
	peaks, err := a.resolver.Resolve(ctx, peakPositions)
	if err != nil {
		return Proof{}, fmt.Errorf("proof peaks for target height %d: %w", targetHeight, err)
	}

	items := mmr.GenProof(
		a.newHasher(), digest.Bytes(digest.Values(path)), digest.Bytes(digest.Values(peaks)), peakIndex)

	proof := Proof{MMRSize: mmrSize, Items: make([]digest.Digest, 0, len(items))}
	for _, item := range items {
		d, err := digest.FromBytes(item)
		if err != nil {
			return Proof{}, err
		}
		proof.Items = append(proof.Items, d)
	}

	a.log.Debugf(
		"proof for leaf position %d in mmr size %d: %d path nodes, %d other peaks, %d items",
		pos, mmrSize, len(path), len(peaks), len(proof.Items))
	return proof, nil
}
