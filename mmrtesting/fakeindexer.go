package mmrtesting

import (
	"encoding/hex"
	"fmt"
	"hash"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/forestrie/go-mmrproofs/mmr"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

const QueryMethod = "nodeEntities"

type nodeEntity struct {
	ID       string `json:"id"`
	Position string `json:"position"`
	Hash     string `json:"hash"`
}

type queryRequest struct {
	Query     string `json:"query"`
	Variables struct {
		Positions []string `json:"positions"`
		First     int      `json:"first"`
	} `json:"variables"`
}

type FakeIndexerOptions struct {
	shuffle     *rand.Rand
	drop        map[uint64]bool
	shortHash   map[uint64]bool
	conflicting map[uint64]bool
	extra       []uint64
	delay       time.Duration
	queryError  string
	status      int
}

type FakeIndexerOption func(*FakeIndexerOptions)

// WithShuffle returns the entities in a random order seeded by seed
func WithShuffle(seed int64) FakeIndexerOption {
	return func(o *FakeIndexerOptions) {
		o.shuffle = rand.New(rand.NewSource(seed))
	}
}

// WithDropped omits the nodes at positions from every response
func WithDropped(positions ...uint64) FakeIndexerOption {
	return func(o *FakeIndexerOptions) {
		for _, pos := range positions {
			o.drop[pos] = true
		}
	}
}

// WithShortHash truncates the hashes reported for positions to 31 bytes
func WithShortHash(positions ...uint64) FakeIndexerOption {
	return func(o *FakeIndexerOptions) {
		for _, pos := range positions {
			o.shortHash[pos] = true
		}
	}
}

// WithConflicting reports positions twice, the second time with a different hash
func WithConflicting(positions ...uint64) FakeIndexerOption {
	return func(o *FakeIndexerOptions) {
		for _, pos := range positions {
			o.conflicting[pos] = true
		}
	}
}

// WithExtra adds the nodes at positions to every response, requested or not
func WithExtra(positions ...uint64) FakeIndexerOption {
	return func(o *FakeIndexerOptions) {
		o.extra = append(o.extra, positions...)
	}
}

func WithDelay(d time.Duration) FakeIndexerOption {
	return func(o *FakeIndexerOptions) {
		o.delay = d
	}
}

// WithQueryError answers every query with a graphql error
func WithQueryError(msg string) FakeIndexerOption {
	return func(o *FakeIndexerOptions) {
		o.queryError = msg
	}
}

// WithStatus answers every query with the http status code and no body
func WithStatus(code int) FakeIndexerOption {
	return func(o *FakeIndexerOptions) {
		o.status = code
	}
}

// FakeIndexer serves the node query of an indexing service over an in memory
// mmr. Requests are counted under QueryMethod.
type FakeIndexer struct {
	TestCallCounter

	T      *testing.T
	Server *httptest.Server

	mu       sync.Mutex
	hasher   hash.Hash
	nodes    [][]byte
	requests [][]uint64
	opts     FakeIndexerOptions
}

// NewFakeIndexer starts a fake indexer holding an mmr of leafCount leaves,
// where leaf i has the value LeafHash(i). The server is closed when the test
// ends.
func NewFakeIndexer(tc TestContext, leafCount uint64, opts ...FakeIndexerOption) *FakeIndexer {
	f := &FakeIndexer{
		T:      tc.T,
		hasher: tc.Hasher,
		opts: FakeIndexerOptions{
			drop:        map[uint64]bool{},
			shortHash:   map[uint64]bool{},
			conflicting: map[uint64]bool{},
		},
	}
	for _, o := range opts {
		o(&f.opts)
	}
	f.AddLeaves(leafCount)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.POST("/", f.handleQuery)

	f.Server = httptest.NewServer(router)
	tc.T.Cleanup(f.Server.Close)
	return f
}

func (f *FakeIndexer) URL() string { return f.Server.URL }

// Get and Append make the fake a mmr.NodeAppender

func (f *FakeIndexer) Get(i uint64) ([]byte, error) {
	if i >= uint64(len(f.nodes)) {
		return nil, mmr.ErrNotFound
	}
	return f.nodes[i], nil
}

func (f *FakeIndexer) Append(value []byte) (uint64, error) {
	f.nodes = append(f.nodes, value)
	return uint64(len(f.nodes)), nil
}

// AddLeaves extends the mmr by n leaves and returns the new size
func (f *FakeIndexer) AddLeaves(n uint64) uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	leafCount := mmr.LeafCount(uint64(len(f.nodes)))
	for i := uint64(0); i < n; i++ {
		_, err := mmr.AddHashedLeaf(f, f.hasher, LeafHash(f.hasher, leafCount+i))
		require.NoError(f.T, err)
	}
	return uint64(len(f.nodes))
}

func (f *FakeIndexer) Size() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return uint64(len(f.nodes))
}

// Node returns a copy of the hash at pos
func (f *FakeIndexer) Node(pos uint64) []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	require.Less(f.T, pos, uint64(len(f.nodes)))
	return append([]byte(nil), f.nodes[pos]...)
}

// Root bags the peaks of the mmr of size mmrSize held by the fake
func (f *FakeIndexer) Root(mmrSize uint64) []byte {
	peaks := mmr.GetPeaks(mmrSize)
	hashes := make([][]byte, 0, len(peaks))
	for _, pos := range peaks {
		hashes = append(hashes, f.Node(pos))
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return mmr.BagPeaks(f.hasher, hashes)
}

func (f *FakeIndexer) RequestCount() int { return f.MethodCallCount(QueryMethod) }

// Requests returns the positions of every query received, in arrival order
func (f *FakeIndexer) Requests() [][]uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]uint64(nil), f.requests...)
}

func (f *FakeIndexer) handleQuery(c *gin.Context) {
	f.IncMethodCall(QueryMethod)

	var req queryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	positions := make([]uint64, 0, len(req.Variables.Positions))
	for _, s := range req.Variables.Positions {
		pos, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			c.JSON(http.StatusOK, gin.H{"errors": []gin.H{{"message": err.Error()}}})
			return
		}
		positions = append(positions, pos)
	}

	f.mu.Lock()
	f.requests = append(f.requests, positions)
	f.mu.Unlock()

	if f.opts.delay > 0 {
		select {
		case <-time.After(f.opts.delay):
		case <-c.Request.Context().Done():
			return
		}
	}
	if f.opts.status != 0 {
		c.Status(f.opts.status)
		return
	}
	if f.opts.queryError != "" {
		c.JSON(http.StatusOK, gin.H{"data": nil, "errors": []gin.H{{"message": f.opts.queryError}}})
		return
	}

	entities := f.entities(append(positions, f.opts.extra...))
	c.JSON(http.StatusOK, gin.H{"data": gin.H{QueryMethod: entities}})
}

func (f *FakeIndexer) entities(positions []uint64) []nodeEntity {
	f.mu.Lock()
	defer f.mu.Unlock()

	entities := make([]nodeEntity, 0, len(positions))
	for _, pos := range positions {
		if f.opts.drop[pos] || pos >= uint64(len(f.nodes)) {
			continue
		}
		value := f.nodes[pos]
		if f.opts.shortHash[pos] {
			value = value[:len(value)-1]
		}
		entities = append(entities, entity(pos, value))
		if f.opts.conflicting[pos] {
			other := append([]byte(nil), value...)
			other[0] ^= 0xff
			entities = append(entities, entity(pos, other))
		}
	}
	if f.opts.shuffle != nil {
		f.opts.shuffle.Shuffle(len(entities), func(i, j int) {
			entities[i], entities[j] = entities[j], entities[i]
		})
	}
	return entities
}

func entity(pos uint64, value []byte) nodeEntity {
	return nodeEntity{
		ID:       fmt.Sprintf("node-%d", pos),
		Position: strconv.FormatUint(pos, 10),
		Hash:     "0x" + hex.EncodeToString(value),
	}
}
