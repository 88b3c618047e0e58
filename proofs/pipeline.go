package proofs

import (
	"context"
	"fmt"

	"github.com/datatrails/go-datatrails-common/logger"
	"github.com/forestrie/go-mmrproofs/mmr"
	"github.com/forestrie/go-mmrproofs/report"
)

// Pipeline builds the checkpoint for a height and, optionally, proves and
// verifies an earlier leaf against it.
type Pipeline struct {
	log       logger.Logger
	resolver  PositionResolver
	newHasher HasherFactory
	builder   *Builder
	assembler *Assembler
}

func NewPipeline(log logger.Logger, resolver PositionResolver, newHasher HasherFactory, opts ...Option) *Pipeline {
	return &Pipeline{
		log:       log,
		resolver:  resolver,
		newHasher: newHasher,
		builder:   NewBuilder(log, resolver, newHasher, opts...),
		assembler: NewAssembler(log, resolver, newHasher),
	}
}

// Check validates the heights of a run without any remote lookup.
func (p *Pipeline) Check(height uint64, verifyHeight *uint64) error {
	if err := p.builder.CheckHeight(height); err != nil {
		return err
	}
	if verifyHeight != nil {
		return CheckTarget(*verifyHeight, height)
	}
	return nil
}

// Run builds the checkpoint at height. When verifyHeight is not nil the leaf
// at that height is proven against the checkpoint root and verified. A
// rejected proof is not an error, it is reported with Verified false.
func (p *Pipeline) Run(ctx context.Context, height uint64, verifyHeight *uint64) (report.Report, error) {
	if err := p.Check(height, verifyHeight); err != nil {
		return report.Report{}, err
	}

	cp, err := p.builder.Build(ctx, height)
	if err != nil {
		return report.Report{}, err
	}
	p.log.Infof("checkpoint at height %d: mmr size %d, root %s", cp.Height, cp.MMRSize, cp.Root)

	rpt := report.Report{
		BlockHeight:  cp.Height,
		LeafPosition: cp.LeafPosition,
		MMRSize:      cp.MMRSize,
		MMRRoot:      cp.Root,
		Peaks:        report.PeaksFrom(cp.Peaks),
	}
	if verifyHeight == nil {
		return rpt, nil
	}

	targetHeight := *verifyHeight
	proof, err := p.assembler.AssembleFor(ctx, targetHeight, cp)
	if err != nil {
		return report.Report{}, err
	}

	leafPosition := mmr.LeafIndexToPos(targetHeight)
	leaves, err := p.resolver.Resolve(ctx, []uint64{leafPosition})
	if err != nil {
		return report.Report{}, fmt.Errorf("leaf for target height %d: %w", targetHeight, err)
	}
	leaf := leaves[0].Digest

	verified, err := Verify(p.newHasher(), cp.Root, cp.MMRSize, proof, leafPosition, leaf)
	if err != nil {
		return report.Report{}, err
	}
	if verified {
		p.log.Infof("leaf at height %d verified against the root at height %d", targetHeight, height)
	} else {
		p.log.Infof("leaf at height %d rejected by the root at height %d", targetHeight, height)
	}

	rpt.Proof = &report.Proof{
		TargetHeight: targetHeight,
		LeafPosition: leafPosition,
		LeafHash:     leaf,
		MMRSize:      proof.MMRSize,
		Items:        proof.Items,
		Verified:     verified,
	}
	return rpt, nil
}
