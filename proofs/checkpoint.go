package proofs

import (
	"context"
	"fmt"

	"github.com/datatrails/go-datatrails-common/logger"
	"github.com/forestrie/go-mmrproofs/digest"
	"github.com/forestrie/go-mmrproofs/mmr"
)

// PositionResolver returns the node hash for each position, in the order
// requested. indexer.Resolver is the production implementation.
type PositionResolver interface {
	Resolve(ctx context.Context, positions []uint64) ([]digest.Positioned, error)
}

// Checkpoint is the state of the mmr after Height leaves. LeafPosition is the
// position the next leaf will take, which is also the size of the mmr.
type Checkpoint struct {
	Height       uint64
	LeafPosition uint64
	MMRSize      uint64
	Peaks        []digest.Positioned
	Root         digest.Digest
}

type Builder struct {
	log       logger.Logger
	resolver  PositionResolver
	newHasher HasherFactory
	opts      Options
}

func NewBuilder(log logger.Logger, resolver PositionResolver, newHasher HasherFactory, opts ...Option) *Builder {
	b := &Builder{
		log:       log,
		resolver:  resolver,
		newHasher: newHasher,
	}
	for _, o := range opts {
		o(&b.opts)
	}
	return b
}

// CheckHeight returns ErrInvalidHeight if no checkpoint can be built for height
func (b *Builder) CheckHeight(height uint64) error {
	if height == 0 && b.opts.requireNonEmpty {
		return fmt.Errorf("%w: height 0 has no leaves", ErrInvalidHeight)
	}
	if height > MaxHeight {
		return fmt.Errorf("%w: height %d exceeds %d", ErrInvalidHeight, height, MaxHeight)
	}
	return nil
}

// Build resolves the peaks of the mmr after height leaves and bags them into
// the root. All peaks are fetched with a single batched lookup.
func (b *Builder) Build(ctx context.Context, height uint64) (Checkpoint, error) {
	if err := b.CheckHeight(height); err != nil {
		return Checkpoint{}, err
	}

	leafPosition := mmr.LeafIndexToPos(height)
	cp := Checkpoint{
		Height:       height,
		LeafPosition: leafPosition,
		MMRSize:      leafPosition,
		Peaks:        []digest.Positioned{},
		Root:         digest.Empty,
	}

	peakPositions := mmr.GetPeaks(leafPosition)
	if len(peakPositions) == 0 {
		return cp, nil
	}

	peaks, err := b.resolver.Resolve(ctx, peakPositions)
	if err != nil {
		return Checkpoint{}, fmt.Errorf("checkpoint at height %d: %w", height, err)
	}

	root, err := digest.FromBytes(
		mmr.BagPeaks(b.newHasher(), digest.Bytes(digest.Values(peaks))))
	if err != nil {
		return Checkpoint{}, err
	}
	cp.Peaks = peaks
	cp.Root = root

	b.log.Debugf("checkpoint at height %d: size %d, %d peaks, root %s", height, cp.MMRSize, len(peaks), root)
	return cp, nil
}
