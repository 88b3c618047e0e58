package mmrtesting

import (
	"encoding/binary"
	"hash"
	"testing"

	"github.com/datatrails/go-datatrails-common/logger"
	"github.com/forestrie/go-mmrproofs/mmr"
	"github.com/stretchr/testify/require"
)

type TestContext struct {
	Log    logger.Logger
	Hasher hash.Hash
	T      *testing.T
}

type TestConfig struct {
	TestLabelPrefix string
	// LogLevel defaults to NOOP
	LogLevel string
	// HashName selects the merge hash, "" is blake2b-256
	HashName string
}

func NewTestContext(t *testing.T, cfg TestConfig) TestContext {
	c := TestContext{
		T: t,
	}
	level := cfg.LogLevel
	if level == "" {
		level = "NOOP"
	}
	logger.New(level)
	c.Log = logger.Sugar.WithServiceName(cfg.TestLabelPrefix)

	var err error
	c.Hasher, err = mmr.NewHasher(cfg.HashName)
	require.NoError(t, err)
	return c
}

func (c *TestContext) GetLog() logger.Logger { return c.Log }

// LeafHash is the leaf value fixture trees use for leaf index i
func (c *TestContext) LeafHash(i uint64) []byte {
	return LeafHash(c.Hasher, i)
}

// LeafHash hashes the big endian bytes of i
func LeafHash(hasher hash.Hash, i uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], i)
	hasher.Reset()
	hasher.Write(b[:])
	return hasher.Sum(nil)
}
