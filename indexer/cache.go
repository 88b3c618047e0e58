package indexer

import (
	"encoding/binary"
	"fmt"

	"github.com/forestrie/go-mmrproofs/digest"
	"go.etcd.io/bbolt"
)

// NodeCache holds node hashes already fetched from the indexer. Nodes are
// immutable once added to an mmr, so entries never need invalidating.
type NodeCache interface {
	Get(position uint64) (digest.Digest, bool, error)
	Put(nodes []digest.Positioned) error
}

var nodesBucket = []byte("nodes")

// BoltCache is a NodeCache persisted in a bbolt database file. It is safe for
// concurrent use.
type BoltCache struct {
	db *bbolt.DB
}

func OpenBoltCache(path string) (*BoltCache, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("opening node cache %s: %w", path, err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(nodesBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &BoltCache{db: db}, nil
}

func (c *BoltCache) Close() error {
	return c.db.Close()
}

func positionKey(pos uint64) []byte {
	var key [8]byte
	binary.BigEndian.PutUint64(key[:], pos)
	return key[:]
}

func (c *BoltCache) Get(position uint64) (digest.Digest, bool, error) {
	var d digest.Digest
	var ok bool
	err := c.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(nodesBucket).Get(positionKey(position))
		if v == nil {
			return nil
		}
		var err error
		// v is only valid for the life of the transaction, FromBytes copies
		if d, err = digest.FromBytes(v); err != nil {
			return fmt.Errorf("cached node at position %d: %w", position, err)
		}
		ok = true
		return nil
	})
	return d, ok, err
}

func (c *BoltCache) Put(nodes []digest.Positioned) error {
	return c.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(nodesBucket)
		for _, n := range nodes {
			if err := b.Put(positionKey(n.Position), n.Digest[:]); err != nil {
				return err
			}
		}
		return nil
	})
}

// Len returns the number of cached nodes
func (c *BoltCache) Len() (int, error) {
	var n int
	err := c.db.View(func(tx *bbolt.Tx) error {
		n = tx.Bucket(nodesBucket).Stats().KeyN
		return nil
	})
	return n, err
}
