package mmr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBagPeaks(t *testing.T) {
	hasher := newTestHasher(t)
	a, b, c := hashNum(1), hashNum(2), hashNum(3)

	tests := []struct {
		name  string
		peaks [][]byte
		want  []byte
	}{
		{"empty gives nil", nil, nil},
		{"single peak is the root", [][]byte{a}, a},
		{"two peaks merge right then left", [][]byte{a, b}, Merge(hasher, b, a)},
		{"three peaks fold from the right", [][]byte{a, b, c}, Merge(hasher, Merge(hasher, c, b), a)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BagPeaks(hasher, tt.peaks))
		})
	}
}

func TestBagPeaksDoesNotMutate(t *testing.T) {
	hasher := newTestHasher(t)
	peaks := [][]byte{hashNum(1), hashNum(2), hashNum(3)}
	before := [][]byte{hashNum(1), hashNum(2), hashNum(3)}
	BagPeaks(hasher, peaks)
	assert.Equal(t, before, peaks)
}

// TestBagPeaksCanonical checks the root of the canonical tree against a
// direct computation from the peak values.
func TestBagPeaksCanonical(t *testing.T) {
	hasher := newTestHasher(t)
	db := NewCanonicalTestDB(t)

	// peaks for size 39 are [30, 37, 38]
	want := Merge(hasher, Merge(hasher, db.mustGet(38), db.mustGet(37)), db.mustGet(30))
	got := BagPeaks(hasher, db.mustGetAll(GetPeaks(39)))
	assert.Equal(t, want, got)
}
