package indexer

import (
	"context"
	"fmt"
	"strconv"

	"github.com/datatrails/go-datatrails-common/logger"
	"github.com/forestrie/go-mmrproofs/digest"
)

// NodeQuerier issues one batched lookup per call. Client is the production
// implementation.
type NodeQuerier interface {
	QueryNodes(ctx context.Context, positions []uint64) ([]NodeEntity, error)
}

// Resolver maps mmr positions to node hashes using a single batched lookup
// per call.
type Resolver struct {
	log     logger.Logger
	querier NodeQuerier
	opts    ResolverOptions
}

func NewResolver(log logger.Logger, querier NodeQuerier, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		log:     log,
		querier: querier,
	}
	for _, o := range opts {
		o(&r.opts)
	}
	return r
}

// Resolve returns the hash for each of positions. The result has the same
// length as positions and result[i].Position == positions[i] for all i,
// regardless of the order in which the indexer reports the nodes.
// Duplicate positions are looked up once and filled at every index they
// occur.
func (r *Resolver) Resolve(ctx context.Context, positions []uint64) ([]digest.Positioned, error) {
	if len(positions) == 0 {
		return []digest.Positioned{}, nil
	}

	found := make(map[uint64]digest.Digest, len(positions))
	var missing []uint64
	wanted := make(map[uint64]bool, len(positions))

	for _, pos := range positions {
		if wanted[pos] {
			continue
		}
		wanted[pos] = true
		if d, ok := r.cached(pos); ok {
			found[pos] = d
			continue
		}
		missing = append(missing, pos)
	}

	if len(missing) > 0 {
		fetched, err := r.fetch(ctx, missing)
		if err != nil {
			return nil, err
		}
		for _, p := range fetched {
			found[p.Position] = p.Digest
		}
		r.store(fetched)
	}

	out := make([]digest.Positioned, len(positions))
	for i, pos := range positions {
		d, ok := found[pos]
		if !ok {
			return nil, fmt.Errorf("%w: position %d", ErrMissingNode, pos)
		}
		out[i] = digest.Positioned{Position: pos, Digest: d}
	}
	return out, nil
}

// fetch issues the batched lookup for positions and validates each entity
// the indexer returned. Entities for positions that were not asked for are
// dropped.
func (r *Resolver) fetch(ctx context.Context, positions []uint64) ([]digest.Positioned, error) {
	requested := make(map[uint64]bool, len(positions))
	for _, pos := range positions {
		requested[pos] = true
	}

	entities, err := r.querier.QueryNodes(ctx, positions)
	if err != nil {
		return nil, err
	}

	seen := make(map[uint64]digest.Digest, len(entities))
	fetched := make([]digest.Positioned, 0, len(positions))
	for _, e := range entities {
		pos, err := strconv.ParseUint(e.Position, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: node %q position %q: %v", ErrMalformedResponse, e.ID, e.Position, err)
		}
		if !requested[pos] {
			r.log.Debugf("ignoring unrequested node at position %d", pos)
			continue
		}
		d, err := digest.Decode(e.Hash)
		if err != nil {
			return nil, fmt.Errorf("position %d: %w", pos, err)
		}
		if prev, ok := seen[pos]; ok {
			if prev != d {
				return nil, fmt.Errorf("%w: position %d: %s and %s", ErrConflictingNode, pos, prev, d)
			}
			continue
		}
		seen[pos] = d
		fetched = append(fetched, digest.Positioned{Position: pos, Digest: d})
	}
	return fetched, nil
}

func (r *Resolver) cached(pos uint64) (digest.Digest, bool) {
	if r.opts.cache == nil {
		return digest.Digest{}, false
	}
	d, ok, err := r.opts.cache.Get(pos)
	if err != nil {
		r.log.Infof("node cache read failed for position %d: %v", pos, err)
		return digest.Digest{}, false
	}
	return d, ok
}

func (r *Resolver) store(nodes []digest.Positioned) {
	if r.opts.cache == nil || len(nodes) == 0 {
		return
	}
	if err := r.opts.cache.Put(nodes); err != nil {
		r.log.Infof("node cache write failed for %d nodes: %v", len(nodes), err)
	}
}
