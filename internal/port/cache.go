package port

import "stubconv/internal/domain"

// BlockCache stores the rendered declaration block of each source file.
type BlockCache interface {
	// Get returns the cached block for path, if any.
	Get(path string) (domain.CachedBlock, bool, error)

	Put(block domain.CachedBlock) error

	Delete(path string) error

	// Paths lists every cached source path.
	Paths() ([]string, error)

	Close() error
}
