// Package report defines the structured output of a checkpoint and proof run
// and its json and cbor encodings.
package report

import (
	"github.com/forestrie/go-mmrproofs/digest"
)

type Peak struct {
	Position uint64        `json:"position"`
	Hash     digest.Digest `json:"hash"`
}

// Proof describes the inclusion proof of an earlier leaf against the
// checkpoint root, and whether it verified.
type Proof struct {
	TargetHeight uint64          `json:"target_height"`
	LeafPosition uint64          `json:"leaf_position"`
	LeafHash     digest.Digest   `json:"leaf_hash"`
	MMRSize      uint64          `json:"mmr_size"`
	Items        []digest.Digest `json:"items"`
	Verified     bool            `json:"verified"`
}

// Report is the checkpoint at BlockHeight, and optionally a proof against it
type Report struct {
	BlockHeight  uint64        `json:"block_height"`
	LeafPosition uint64        `json:"leaf_position"`
	MMRSize      uint64        `json:"mmr_size"`
	MMRRoot      digest.Digest `json:"mmr_root"`
	Peaks        []Peak        `json:"peaks"`
	Proof        *Proof        `json:"proof,omitempty"`
}

// PeaksFrom converts resolved peak hashes to report peaks
func PeaksFrom(peaks []digest.Positioned) []Peak {
	out := make([]Peak, 0, len(peaks))
	for _, p := range peaks {
		out = append(out, Peak{Position: p.Position, Hash: p.Digest})
	}
	return out
}

// Rejected is true if the report carries a proof that did not verify
func (r Report) Rejected() bool {
	return r.Proof != nil && !r.Proof.Verified
}
