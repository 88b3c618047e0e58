package proofs

import (
	"fmt"
	"hash"

	"github.com/forestrie/go-mmrproofs/mmr"
)

// MaxHeight bounds heights so that the leaf position of any accepted height
// fits in a uint64.
const MaxHeight = uint64(1) << 62

type Options struct {
	requireNonEmpty bool
}

type Option func(*Options)

// WithRequireNonEmpty rejects height 0, whose checkpoint has no peaks.
func WithRequireNonEmpty() Option {
	return func(o *Options) {
		o.requireNonEmpty = true
	}
}

// HasherFactory returns a fresh hasher per call. Hashers are stateful, so each
// build or verification takes its own.
type HasherFactory func() hash.Hash

// NewHasherFactory checks name is a supported merge hash and returns a
// factory for it.
func NewHasherFactory(name string) (HasherFactory, error) {
	if _, err := mmr.NewHasher(name); err != nil {
		return nil, fmt.Errorf("merge hash %q: %w", name, err)
	}
	return func() hash.Hash {
		h, _ := mmr.NewHasher(name)
		return h
	}, nil
}
