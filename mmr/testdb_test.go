package mmr

import (
	"encoding/binary"
	"hash"
	"testing"

	"golang.org/x/crypto/blake2b"
)

type testDb struct {
	t     *testing.T
	store map[uint64][]byte
	next  uint64
}

func NewTestDb(t *testing.T) *testDb {
	db := testDb{
		t: t, store: make(map[uint64][]byte),
		next: uint64(0),
	}
	return &db
}

// NewCanonicalTestDB populates a test data base with mmr size = 39 and where
// the leaf hashes are the hashes of the leaf indices.
//
// Note that any valid mmr size < 39 is also contained in this MMR. So tests
// that want to work with smaller trees can just use this one but pretend its
// only however big they need.
//
//	4                         30
//
//
//	3              14                       29
//	             /    \
//	          /          \
//	2        6            13           21             28                37
//	       /   \        /    \
//	1     2     5      9     12     17     20     24       27       33      36
//	     / \   / \    / \   /  \   /  \
//	0   0   1 3   4  7   8 10  11 15  16 18  19 22  23   25   26  31  32   34  35   38
//	.   0 . 1 2 . 3 .4 . 5  6 . 7  8 . 9 10  11 12  13   14   15  16  17   18  19   20
func NewCanonicalTestDB(t *testing.T) *testDb {
	db := NewTestDb(t)
	hasher := newTestHasher(t)
	for iLeaf := uint64(0); iLeaf < 21; iLeaf++ {
		if _, err := AddHashedLeaf(db, hasher, hashNum(iLeaf)); err != nil {
			t.Fatalf("AddHashedLeaf: %v", err)
		}
	}
	return db
}

func newTestHasher(t *testing.T) hash.Hash {
	h, err := blake2b.New256(nil)
	if err != nil {
		t.Fatalf("blake2b: %v", err)
	}
	return h
}

func (db *testDb) Next() uint64 {
	return db.next
}

func (db *testDb) Append(value []byte) (uint64, error) {
	db.store[db.next] = value
	db.next += 1
	return db.next, nil
}

func (db *testDb) Get(i uint64) ([]byte, error) {
	if value, ok := db.store[i]; ok {
		return value, nil
	}
	return nil, ErrNotFound
}

func (db *testDb) mustGet(i uint64) []byte {
	if value, err := db.Get(i); err == nil {
		return value
	}
	db.t.Fatalf("index %v not found", i)
	return nil
}

func (db *testDb) mustGetAll(positions []uint64) [][]byte {
	values := make([][]byte, 0, len(positions))
	for _, i := range positions {
		values = append(values, db.mustGet(i))
	}
	return values
}

func hashNum(num uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, num)
	h := blake2b.Sum256(b)
	return h[:]
}
