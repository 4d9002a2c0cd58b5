package memstore

import (
	"sort"
	"sync"

	"stubconv/internal/domain"
)

// MemoryStore is a BlockCache that lives for one process. It keeps unchanged
// files from being re-rendered between runs of the watch loop.
type MemoryStore struct {
	mu     sync.RWMutex
	blocks map[string]domain.CachedBlock
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		blocks: make(map[string]domain.CachedBlock),
	}
}

func (s *MemoryStore) Get(path string) (domain.CachedBlock, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	block, ok := s.blocks[path]
	return block, ok, nil
}

func (s *MemoryStore) Put(block domain.CachedBlock) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blocks[block.Path] = block
	return nil
}

func (s *MemoryStore) Delete(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blocks, path)
	return nil
}

func (s *MemoryStore) Paths() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	paths := make([]string, 0, len(s.blocks))
	for p := range s.blocks {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths, nil
}

func (s *MemoryStore) Close() error {
	return nil
}
