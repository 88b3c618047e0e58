// Package digest provides the fixed size hash value exchanged with the
// indexing service, and its 0x prefixed hex text form.
package digest

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/fxamacker/cbor/v2"
)

const (
	Size = 32

	// TextSize is the length of the text form, including the 0x prefix
	TextSize = 2 + 2*Size

	prefix = "0x"
)

var ErrMalformedDigest = errors.New("malformed digest")

// Digest is a 32 byte hash value. The zero value is the Empty sentinel.
type Digest [Size]byte

// Empty is the root of the mmr with no leaves.
var Empty = Digest{}

// Positioned pairs a digest with the mmr position of the node it is the hash of.
type Positioned struct {
	Position uint64
	Digest   Digest
}

// FromBytes copies b into a Digest. b must be exactly Size bytes.
func FromBytes(b []byte) (Digest, error) {
	var d Digest
	if len(b) != Size {
		return d, fmt.Errorf("%w: %d bytes, want %d", ErrMalformedDigest, len(b), Size)
	}
	copy(d[:], b)
	return d, nil
}

// Decode parses the 0x prefixed hex form. Anything other than exactly 64 lower
// case hex characters after the prefix is rejected.
func Decode(text string) (Digest, error) {
	var d Digest
	if !strings.HasPrefix(text, prefix) {
		return d, fmt.Errorf("%w: missing 0x prefix: %q", ErrMalformedDigest, text)
	}
	if len(text) != TextSize {
		return d, fmt.Errorf(
			"%w: %d hex characters, want %d: %q", ErrMalformedDigest, len(text)-len(prefix), 2*Size, text)
	}
	for i := len(prefix); i < len(text); i++ {
		if c := text[i]; !('0' <= c && c <= '9' || 'a' <= c && c <= 'f') {
			return d, fmt.Errorf("%w: invalid character %q at %d: %q", ErrMalformedDigest, c, i, text)
		}
	}
	if _, err := hex.Decode(d[:], []byte(text[len(prefix):])); err != nil {
		return Digest{}, fmt.Errorf("%w: %v: %q", ErrMalformedDigest, err, text)
	}
	return d, nil
}

// Encode returns 0x followed by the lower case hex of d.
func Encode(d Digest) string {
	return prefix + hex.EncodeToString(d[:])
}

func (d Digest) String() string { return Encode(d) }

// IsEmpty reports whether d is the root of the empty mmr.
func (d Digest) IsEmpty() bool { return d == Empty }

func (d Digest) MarshalText() ([]byte, error) {
	return []byte(Encode(d)), nil
}

func (d *Digest) UnmarshalText(text []byte) error {
	v, err := Decode(string(text))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// MarshalCBOR encodes the digest as a CBOR byte string
func (d Digest) MarshalCBOR() ([]byte, error) {
	return cbor.Marshal(d[:])
}

func (d *Digest) UnmarshalCBOR(data []byte) error {
	var b []byte
	if err := cbor.Unmarshal(data, &b); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedDigest, err)
	}
	v, err := FromBytes(b)
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// Bytes returns the digests as a list of byte slices, the form used by the mmr package.
func Bytes(ds []Digest) [][]byte {
	out := make([][]byte, 0, len(ds))
	for i := range ds {
		out = append(out, ds[i][:])
	}
	return out
}

// Values returns the digests of the positioned values, in order.
func Values(ps []Positioned) []Digest {
	out := make([]Digest, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.Digest)
	}
	return out
}

// Positions returns the positions of the positioned values, in order.
func Positions(ps []Positioned) []uint64 {
	out := make([]uint64, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.Position)
	}
	return out
}
