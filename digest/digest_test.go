package digest

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = "0x9c22ff5f21f0b81b113e63f7db6da94fedef11b2119b4088b89664fb9a3cb658"

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantErr bool
	}{
		{"valid", sample, false},
		{"upper case hex", "0x" + strings.ToUpper(sample[2:]), true},
		{"one upper case character", sample[:len(sample)-1] + "B", true},
		{"upper case prefix", "0X" + sample[2:], true},
		{"missing prefix", sample[2:], true},
		{"missing prefix, right length", "00" + sample[2:], true},
		{"31 bytes", sample[:len(sample)-2], true},
		{"33 bytes", sample + "00", true},
		{"odd length", sample[:len(sample)-1], true},
		{"not hex", "0x" + strings.Repeat("zz", Size), true},
		{"empty", "", true},
		{"prefix only", "0x", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.text)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrMalformedDigest)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestEncode(t *testing.T) {
	d, err := Decode(sample)
	require.NoError(t, err)

	text := Encode(d)
	assert.Equal(t, sample, text)
	assert.Len(t, text, TextSize)
	assert.Equal(t, "0x"+strings.Repeat("00", Size), Empty.String())
	assert.True(t, Empty.IsEmpty())
	assert.False(t, d.IsEmpty())
}

func TestFromBytes(t *testing.T) {
	_, err := FromBytes(make([]byte, Size-1))
	assert.ErrorIs(t, err, ErrMalformedDigest)
	_, err = FromBytes(make([]byte, Size+1))
	assert.ErrorIs(t, err, ErrMalformedDigest)

	b := make([]byte, Size)
	b[0] = 0xff
	d, err := FromBytes(b)
	require.NoError(t, err)
	assert.Equal(t, byte(0xff), d[0])

	// the digest does not alias the input
	b[0] = 0
	assert.Equal(t, byte(0xff), d[0])
}

func TestDigestJSON(t *testing.T) {
	d, err := Decode(sample)
	require.NoError(t, err)

	data, err := json.Marshal(struct {
		Hash Digest `json:"hash"`
	}{d})
	require.NoError(t, err)
	assert.JSONEq(t, `{"hash":"`+sample+`"}`, string(data))

	var back struct {
		Hash Digest `json:"hash"`
	}
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, d, back.Hash)

	err = json.Unmarshal([]byte(`{"hash":"0x1234"}`), &back)
	assert.ErrorIs(t, err, ErrMalformedDigest)
}

func TestDigestCBOR(t *testing.T) {
	d, err := Decode(sample)
	require.NoError(t, err)

	data, err := cbor.Marshal(d)
	require.NoError(t, err)

	// a 32 byte byte string has a two byte header
	assert.Len(t, data, Size+2)

	var back Digest
	require.NoError(t, cbor.Unmarshal(data, &back))
	assert.Equal(t, d, back)

	short, err := cbor.Marshal(make([]byte, Size-1))
	require.NoError(t, err)
	assert.ErrorIs(t, cbor.Unmarshal(short, &back), ErrMalformedDigest)
}

func TestAdapters(t *testing.T) {
	a, _ := FromBytes(make([]byte, Size))
	b := a
	b[0] = 1
	ps := []Positioned{{Position: 5, Digest: b}, {Position: 0, Digest: a}}

	assert.Equal(t, []uint64{5, 0}, Positions(ps))
	assert.Equal(t, []Digest{b, a}, Values(ps))

	bs := Bytes([]Digest{b, a})
	require.Len(t, bs, 2)
	assert.Equal(t, b[:], bs[0])
	assert.Equal(t, a[:], bs[1])
}
