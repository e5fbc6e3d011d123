// Package cache holds the process-wide binary-content cache used by the
// file retrieval endpoint. The source system cached rendered responses
// indefinitely with no bound; this implementation keeps the same contract
// (best effort, keyed by file id, synchronously purged when an attachment
// changes) behind a bounded LRU so memory stays capped by
// entries × max upload size.
package cache

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// Entry is a cached file payload: the stored bytes and the MIME type they
// are served with.
type Entry struct {
	Content []byte
	MIME    string
}

// FileCache is a bounded LRU over file contents keyed by file id. Safe for
// concurrent use.
type FileCache struct {
	lru *lru.Cache[int64, Entry]
}

// NewFileCache builds a cache holding at most entries items. entries must be
// positive.
func NewFileCache(entries int) (*FileCache, error) {
	c, err := lru.New[int64, Entry](entries)
	if err != nil {
		return nil, err
	}
	return &FileCache{lru: c}, nil
}

// Get returns the cached entry for fileID, if present.
func (fc *FileCache) Get(fileID int64) (Entry, bool) {
	return fc.lru.Get(fileID)
}

// Put stores the entry for fileID, evicting the least recently used item
// when full.
func (fc *FileCache) Put(fileID int64, e Entry) {
	fc.lru.Add(fileID, e)
}

// Invalidate drops the entry for fileID. Called synchronously whenever the
// owning piece's attachment is replaced or deleted.
func (fc *FileCache) Invalidate(fileID int64) {
	fc.lru.Remove(fileID)
}

// Len reports the number of cached entries.
func (fc *FileCache) Len() int { return fc.lru.Len() }
