package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/forestrie/go-mmrproofs/config"
	"github.com/forestrie/go-mmrproofs/indexer"
	"github.com/forestrie/go-mmrproofs/mmrtesting"
	"github.com/forestrie/go-mmrproofs/proofs"
	"github.com/forestrie/go-mmrproofs/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runApp(t *testing.T, args ...string) (*bytes.Buffer, error) {
	var out bytes.Buffer
	app := NewApp()
	app.Writer = &out
	app.ErrWriter = &out
	err := app.Run(append([]string{appName}, args...))
	return &out, err
}

func newFake(t *testing.T, leafCount uint64, opts ...mmrtesting.FakeIndexerOption) *mmrtesting.FakeIndexer {
	tc := mmrtesting.NewTestContext(t, mmrtesting.TestConfig{TestLabelPrefix: t.Name()})
	return mmrtesting.NewFakeIndexer(tc, leafCount, opts...)
}

func decodeReport(t *testing.T, out *bytes.Buffer) report.Report {
	var rpt report.Report
	require.NoError(t, json.Unmarshal(out.Bytes(), &rpt), out.String())
	return rpt
}

func TestCheckpointCommand(t *testing.T) {
	fake := newFake(t, 4)

	out, err := runApp(t, "checkpoint", "--log-level", "NOOP", "--url", fake.URL(), "--height", "4")
	require.NoError(t, err)

	rpt := decodeReport(t, out)
	assert.Equal(t, uint64(4), rpt.BlockHeight)
	assert.Equal(t, uint64(7), rpt.MMRSize)
	assert.Equal(t, fake.Root(7), rpt.MMRRoot[:])
	assert.Nil(t, rpt.Proof)
}

func TestProveCommand(t *testing.T) {
	fake := newFake(t, 21, mmrtesting.WithShuffle(2))

	out, err := runApp(t, "prove", "--log-level", "NOOP", "--url", fake.URL(), "--height", "21", "--verify", "9")
	require.NoError(t, err)

	rpt := decodeReport(t, out)
	require.NotNil(t, rpt.Proof)
	assert.True(t, rpt.Proof.Verified)
	assert.Equal(t, uint64(9), rpt.Proof.TargetHeight)
}

func TestProveCommandRejectsTargetBeforeLookup(t *testing.T) {
	fake := newFake(t, 4)

	_, err := runApp(t, "prove", "--log-level", "NOOP", "--url", fake.URL(), "--height", "4", "--verify", "4")
	assert.ErrorIs(t, err, proofs.ErrInvalidVerificationTarget)
	assert.Equal(t, 0, fake.RequestCount())
}

func TestPositionalArguments(t *testing.T) {
	fake := newFake(t, 4)

	out, err := runApp(t, "--log-level", "NOOP", fake.URL(), "4", "1")
	require.NoError(t, err)
	rpt := decodeReport(t, out)
	require.NotNil(t, rpt.Proof)
	assert.True(t, rpt.Proof.Verified)
	assert.Len(t, rpt.Proof.Items, 2)

	out, err = runApp(t, "--log-level", "NOOP", fake.URL(), "3")
	require.NoError(t, err)
	assert.Nil(t, decodeReport(t, out).Proof)

	_, err = runApp(t, "--log-level", "NOOP", fake.URL(), "three")
	assert.ErrorIs(t, err, ErrUsage)
}

func TestCommandFailures(t *testing.T) {
	fake := newFake(t, 4, mmrtesting.WithDropped(6))

	_, err := runApp(t, "checkpoint", "--log-level", "NOOP", "--url", fake.URL(), "--height", "4")
	assert.ErrorIs(t, err, indexer.ErrMissingNode)

	_, err = runApp(t, "checkpoint", "--log-level", "NOOP", "--height", "4")
	assert.ErrorIs(t, err, config.ErrInvalidConfig)

	_, err = runApp(t, "checkpoint", "--log-level", "NOOP", "--url", fake.URL(), "--height", "0")
	assert.ErrorIs(t, err, proofs.ErrInvalidHeight)

	_, err = runApp(t, "checkpoint", "--log-level", "NOOP", "--url", fake.URL())
	assert.ErrorIs(t, err, ErrUsage)

	_, err = runApp(t, "checkpoint", "--log-level", "NOOP", "--url", fake.URL(), "--height", "4", "--hash", "md5")
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestConfigFileAndCache(t *testing.T) {
	fake := newFake(t, 8)
	dir := t.TempDir()
	cachePath := filepath.Join(dir, "nodes.db")
	cfgPath := filepath.Join(dir, "mmrproof.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(
		"indexer_url = \""+fake.URL()+"\"\n"+
			"log_level = \"NOOP\"\n"+
			"format = \"cbor\"\n"+
			"cache_path = "+strconv.Quote(cachePath)+"\n"), 0600))

	out, err := runApp(t, "checkpoint", "--config", cfgPath, "--height", "8")
	require.NoError(t, err)
	rpt, err := report.UnmarshalCBOR(out.Bytes())
	require.NoError(t, err)
	assert.Equal(t, fake.Root(15), rpt.MMRRoot[:])
	assert.Equal(t, 1, fake.RequestCount())

	// the peak is now cached
	_, err = runApp(t, "checkpoint", "--config", cfgPath, "--height", "8")
	require.NoError(t, err)
	assert.Equal(t, 1, fake.RequestCount())
}

func TestSchemaAndVersion(t *testing.T) {
	out, err := runApp(t, "schema")
	require.NoError(t, err)
	assert.Contains(t, out.String(), "mmr_root")

	out, err = runApp(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out.String(), Version)
}
