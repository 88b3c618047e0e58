package mmr

import (
	"hash"
)

type NodeAppender interface {
	Get(i uint64) ([]byte, error)
	Append(value []byte) (uint64, error)
}

// AddHashedLeaf adds a single leaf to the mmr and back fills any interior nodes
// 'above and to the left'
//
// Returns the size of the mmr after addition of the leaf. This is also the
// position of the next leaf.
func AddHashedLeaf(store NodeAppender, hasher hash.Hash, hashedLeaf []byte) (uint64, error) {
	var err error
	var i uint64

	height := uint64(0) // leaf height is always zero

	if i, err = store.Append(hashedLeaf); err != nil {
		return 0, err
	}

	// This loop checks to see if we can back fill any new mountains. Because of
	// the MMR structure, for any node we add, if the next node after that would
	// be higher in the tree, then the node we just added lets us create at
	// least one new peak.
	//
	// Here, we add the second item, and it lets us add the first peak at 2
	//
	//  0 1 <- we add '1'
	//
	//   2  <- so we get to append '2' as well, because the iNext would be higher
	//  / \
	// 0   1
	//
	// Note that i is at 'next' every time we call IndexHeight
	for IndexHeight(i) > height {

		iLeft := i - (2 << height)
		iRight := i - 1

		var left, right []byte

		if left, err = store.Get(iLeft); err != nil {
			return 0, err
		}
		if right, err = store.Get(iRight); err != nil {
			return 0, err
		}

		if i, err = store.Append(Merge(hasher, left, right)); err != nil {
			return 0, err
		}
		height += 1
	}
	return i, nil
}
