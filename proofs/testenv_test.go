package proofs

import (
	"testing"

	"github.com/forestrie/go-mmrproofs/digest"
	"github.com/forestrie/go-mmrproofs/indexer"
	"github.com/forestrie/go-mmrproofs/mmrtesting"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	tc        mmrtesting.TestContext
	fake      *mmrtesting.FakeIndexer
	resolver  *indexer.Resolver
	newHasher HasherFactory
}

func newTestEnv(t *testing.T, hashName string, leafCount uint64, fakeOpts ...mmrtesting.FakeIndexerOption) testEnv {
	tc := mmrtesting.NewTestContext(t, mmrtesting.TestConfig{TestLabelPrefix: t.Name(), HashName: hashName})
	fake := mmrtesting.NewFakeIndexer(tc, leafCount, fakeOpts...)
	newHasher, err := NewHasherFactory(hashName)
	require.NoError(t, err)
	return testEnv{
		tc:        tc,
		fake:      fake,
		resolver:  indexer.NewResolver(tc.Log, indexer.NewClient(tc.Log, fake.URL())),
		newHasher: newHasher,
	}
}

func (e testEnv) node(t *testing.T, pos uint64) digest.Digest {
	d, err := digest.FromBytes(e.fake.Node(pos))
	require.NoError(t, err)
	return d
}
