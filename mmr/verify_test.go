package mmr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestVerifyLeavesIn39 check that we can obtain and verify proofs for all 21
// leaves in every complete mmr size up to 39
func TestVerifyLeavesIn39(t *testing.T) {
	hasher := newTestHasher(t)
	db := NewCanonicalTestDB(t)
	mmrMaxSize := db.Next()
	numLeafs := LeafCount(mmrMaxSize)

	for iLeaf := uint64(0); iLeaf < numLeafs; iLeaf++ {
		pos := LeafIndexToPos(iLeaf)

		for n := iLeaf + 1; n <= numLeafs; n++ {
			s := LeafIndexToPos(n)
			root := BagPeaks(hasher, db.mustGetAll(GetPeaks(s)))

			path, peaks, k := GenProofPositions(pos, s)
			items := GenProof(hasher, db.mustGetAll(path), db.mustGetAll(peaks), k)

			ok, err := VerifyProof(hasher, s, items, root, pos, db.mustGet(pos))
			require.NoError(t, err)
			assert.True(t, ok, "leaf %d in size %d", iLeaf, s)
		}
	}
}

// TestVerifyFourLeaves covers the proof for leaf 1 of the four leaf tree
//
//	2        6
//	       /   \
//	1     2     5
//	     / \   / \
//	0   0   1 3   4
func TestVerifyFourLeaves(t *testing.T) {
	hasher := newTestHasher(t)
	db := NewTestDb(t)
	for i := uint64(0); i < 4; i++ {
		_, err := AddHashedLeaf(db, hasher, hashNum(i))
		require.NoError(t, err)
	}

	root := Merge(hasher,
		Merge(hasher, hashNum(0), hashNum(1)),
		Merge(hasher, hashNum(2), hashNum(3)))
	assert.Equal(t, root, BagPeaks(hasher, db.mustGetAll(GetPeaks(7))))

	ok, err := VerifyProof(hasher, 7, [][]byte{db.mustGet(0), db.mustGet(5)}, root, 1, hashNum(1))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestVerifyRejects(t *testing.T) {
	hasher := newTestHasher(t)
	db := NewCanonicalTestDB(t)

	s := uint64(39)
	pos := LeafIndexToPos(9)
	root := BagPeaks(hasher, db.mustGetAll(GetPeaks(s)))
	path, peaks, k := GenProofPositions(pos, s)
	items := GenProof(hasher, db.mustGetAll(path), db.mustGetAll(peaks), k)

	t.Run("a single byte change in any item", func(t *testing.T) {
		for i := range items {
			for _, b := range []int{0, 17, 31} {
				tampered := make([][]byte, len(items))
				copy(tampered, items)
				tampered[i] = append([]byte(nil), items[i]...)
				tampered[i][b] ^= 0x01

				ok, err := VerifyProof(hasher, s, tampered, root, pos, db.mustGet(pos))
				require.NoError(t, err)
				assert.False(t, ok, "item %d byte %d", i, b)
			}
		}
	})

	t.Run("the wrong leaf", func(t *testing.T) {
		ok, err := VerifyProof(hasher, s, items, root, pos, hashNum(1000))
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("reordered items", func(t *testing.T) {
		require.Greater(t, len(items), 1)
		swapped := make([][]byte, len(items))
		copy(swapped, items)
		swapped[0], swapped[1] = swapped[1], swapped[0]
		ok, err := VerifyProof(hasher, s, swapped, root, pos, db.mustGet(pos))
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("too few items", func(t *testing.T) {
		_, err := VerifyProof(hasher, s, items[1:], root, pos, db.mustGet(pos))
		assert.ErrorIs(t, err, ErrProofShape)
	})

	t.Run("too many items", func(t *testing.T) {
		_, err := VerifyProof(hasher, s, append(items, hashNum(1)), root, pos, db.mustGet(pos))
		assert.ErrorIs(t, err, ErrProofShape)
	})

	t.Run("invalid mmr size", func(t *testing.T) {
		_, err := VerifyProof(hasher, 40, items, root, pos, db.mustGet(pos))
		assert.ErrorIs(t, err, ErrInvalidMMRSize)
	})

	t.Run("index outside the mmr", func(t *testing.T) {
		_, err := VerifyProof(hasher, 7, items, root, 7, db.mustGet(pos))
		assert.ErrorIs(t, err, ErrIndexOutOfRange)
	})
}
