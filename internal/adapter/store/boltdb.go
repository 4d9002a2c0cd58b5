package store

import (
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"
	"stubconv/internal/domain"
)

var (
	bucketBlocks = []byte("blocks")
	bucketStats  = []byte("stats")
	keyLastRun   = []byte("last_run")
)

// BoltStore caches rendered declaration blocks keyed by source path.
type BoltStore struct {
	db *bbolt.DB
}

func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, b := range [][]byte{bucketBlocks, bucketStats} {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", b, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltStore{db: db}, nil
}

func (s *BoltStore) Get(path string) (domain.CachedBlock, bool, error) {
	var block domain.CachedBlock
	found := false
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketBlocks).Get([]byte(path))
		if data == nil {
			return nil
		}
		found = true
		return json.Unmarshal(data, &block)
	})
	return block, found, err
}

func (s *BoltStore) Put(block domain.CachedBlock) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		data, err := json.Marshal(block)
		if err != nil {
			return err
		}
		return tx.Bucket(bucketBlocks).Put([]byte(block.Path), data)
	})
}

func (s *BoltStore) Delete(path string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketBlocks).Delete([]byte(path))
	})
}

func (s *BoltStore) Paths() ([]string, error) {
	var paths []string
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketBlocks).ForEach(func(k, _ []byte) error {
			paths = append(paths, string(k))
			return nil
		})
	})
	return paths, err
}

// GetLastRun returns the stats recorded by the previous successful run.
func (s *BoltStore) GetLastRun() (domain.ConvertStats, error) {
	var stats domain.ConvertStats
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketStats).Get(keyLastRun)
		if data == nil {
			return nil
		}
		return json.Unmarshal(data, &stats)
	})
	return stats, err
}

func (s *BoltStore) SetLastRun(stats domain.ConvertStats) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		data, err := json.Marshal(stats)
		if err != nil {
			return err
		}
		return tx.Bucket(bucketStats).Put(keyLastRun, data)
	})
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}
