package mmr

import (
	"fmt"
	"hash"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"
)

const (
	HashBlake2b256 = "blake2b-256"
	HashKeccak256  = "keccak256"
)

// NewHasher returns a hasher for the named merge function. The empty name
// selects blake2b-256.
func NewHasher(name string) (hash.Hash, error) {
	switch name {
	case HashBlake2b256, "":
		// New256 only fails for oversized keys
		h, err := blake2b.New256(nil)
		if err != nil {
			return nil, err
		}
		return h, nil
	case HashKeccak256:
		return sha3.NewLegacyKeccak256(), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownHash, name)
}
