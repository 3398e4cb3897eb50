package common

import (
	lru "github.com/hashicorp/golang-lru"
)

// CopyBytes copies and returns a new byte slice from the specified source.
func CopyBytes(src []byte) []byte {
	if src == nil {
		return nil
	}

	dest := make([]byte, len(src))
	copy(dest, src)
	return dest
}

// MustNewCache creates an LRU cache with the given size. Panics on error,
// which only happens when size <= 0 - a programmer error at call sites
// that size block/tx caches from per-chain constants.
func MustNewCache(size int) *lru.Cache {
	cache, err := lru.New(size)
	if err != nil {
		panic(err)
	}

	return cache
}
