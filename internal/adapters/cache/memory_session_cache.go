package cache

import (
	"context"
	"time"

	"github.com/SscSPs/loan_desk_app/internal/apperrors"
	"github.com/SscSPs/loan_desk_app/internal/core/domain"
	portsrepo "github.com/SscSPs/loan_desk_app/internal/core/ports/repositories"
	lru "github.com/hashicorp/golang-lru/v2"
)

type memoryEntry struct {
	record    domain.SessionRecord
	expiresAt time.Time
}

// MemorySessionCache is a bounded in-process session cache used when no Redis URL is configured.
type MemorySessionCache struct {
	entries *lru.Cache[string, memoryEntry]
	now     func() time.Time
}

func NewMemorySessionCache(size int) (*MemorySessionCache, error) {
	if size <= 0 {
		size = 1024
	}
	entries, err := lru.New[string, memoryEntry](size)
	if err != nil {
		return nil, err
	}
	return &MemorySessionCache{entries: entries, now: time.Now}, nil
}

var _ portsrepo.SessionCache = (*MemorySessionCache)(nil)

func (c *MemorySessionCache) Get(ctx context.Context, key string) (*domain.SessionRecord, error) {
	entry, ok := c.entries.Get(key)
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	if !entry.expiresAt.IsZero() && c.now().After(entry.expiresAt) {
		c.entries.Remove(key)
		return nil, apperrors.ErrNotFound
	}
	record := entry.record
	return &record, nil
}

func (c *MemorySessionCache) Set(ctx context.Context, key string, record domain.SessionRecord, ttl time.Duration) error {
	entry := memoryEntry{record: record}
	if ttl > 0 {
		entry.expiresAt = c.now().Add(ttl)
	}
	c.entries.Add(key, entry)
	return nil
}

func (c *MemorySessionCache) Remove(ctx context.Context, key string) error {
	c.entries.Remove(key)
	return nil
}
