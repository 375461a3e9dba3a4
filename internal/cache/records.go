package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/vibelive/adminpanel/internal/model"
)

// RecordListCache caches record-list query results per class. Entries
// are keyed by class+limit+skip and the whole class is invalidated after
// any mutation of that class, mirroring the panel's read-mostly usage.
type RecordListCache struct {
	cache Cache
}

// NewRecordListCache wraps a Cache backend.
func NewRecordListCache(c Cache) *RecordListCache {
	return &RecordListCache{cache: c}
}

// listEntry is the serialized cache payload.
type listEntry struct {
	Records []model.Record `json:"records"`
	Total   int64          `json:"total"`
}

func listKey(className string, limit, skip int64) string {
	return fmt.Sprintf("records:%s:%d:%d", className, limit, skip)
}

// Get returns a cached list page, or ErrCacheMiss.
func (c *RecordListCache) Get(ctx context.Context, className string, limit, skip int64) ([]model.Record, int64, error) {
	data, err := c.cache.Get(ctx, listKey(className, limit, skip))
	if err != nil {
		return nil, 0, err
	}

	var entry listEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		// A corrupt entry behaves like a miss; it will be overwritten.
		return nil, 0, ErrCacheMiss
	}
	return entry.Records, entry.Total, nil
}

// Set stores a list page.
func (c *RecordListCache) Set(ctx context.Context, className string, limit, skip int64, records []model.Record, total int64) error {
	data, err := json.Marshal(listEntry{Records: records, Total: total})
	if err != nil {
		return fmt.Errorf("encoding record list: %w", err)
	}
	return c.cache.Set(ctx, listKey(className, limit, skip), data, 0)
}

// Invalidate drops every cached page of a class. Called after each
// create, update or delete in that class.
func (c *RecordListCache) Invalidate(ctx context.Context, className string) error {
	err := c.cache.DeletePrefix(ctx, "records:"+className+":")
	if err != nil && !errors.Is(err, ErrCacheClosed) {
		return err
	}
	return nil
}
