// Package memory provides in-memory cache repository implementation
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/weeklydish/planner/internal/ports/outbound"
)

const (
	defaultTTL      = 24 * time.Hour
	cleanupInterval = 5 * time.Minute
)

// CacheItem represents a cached item
type CacheItem struct {
	Value     []byte
	ExpiresAt time.Time
}

// CacheRepository implements in-memory cache repository
type CacheRepository struct {
	data  map[string]CacheItem
	mutex sync.RWMutex
	now   func() time.Time
	done  chan struct{}
	once  sync.Once
}

// NewCacheRepository creates a new in-memory cache repository and starts
// the expiry sweeper. Call Close to stop it.
func NewCacheRepository() *CacheRepository {
	repo := &CacheRepository{
		data: make(map[string]CacheItem),
		now:  time.Now,
		done: make(chan struct{}),
	}

	go repo.cleanup(cleanupInterval)

	return repo
}

// Get retrieves a value from cache
func (r *CacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	r.mutex.RLock()
	item, exists := r.data[key]
	r.mutex.RUnlock()

	if !exists {
		return nil, outbound.ErrCacheMiss
	}

	if r.now().After(item.ExpiresAt) {
		r.evict(key, item.ExpiresAt)
		return nil, outbound.ErrCacheMiss
	}

	value := make([]byte, len(item.Value))
	copy(value, item.Value)
	return value, nil
}

// Set stores a value in cache with TTL
func (r *CacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = defaultTTL
	}

	stored := make([]byte, len(value))
	copy(stored, value)

	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.data[key] = CacheItem{
		Value:     stored,
		ExpiresAt: r.now().Add(ttl),
	}

	return nil
}

// Delete removes a key from cache
func (r *CacheRepository) Delete(ctx context.Context, key string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	delete(r.data, key)
	return nil
}

// Exists checks if a key exists in cache
func (r *CacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	_, err := r.Get(ctx, key)
	if err == outbound.ErrCacheMiss {
		return false, nil
	}
	return err == nil, err
}

// Close stops the expiry sweeper
func (r *CacheRepository) Close() error {
	r.once.Do(func() { close(r.done) })
	return nil
}

// evict deletes key unless it was rewritten after the expired read
func (r *CacheRepository) evict(key string, expiresAt time.Time) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if item, ok := r.data[key]; ok && item.ExpiresAt.Equal(expiresAt) {
		delete(r.data, key)
	}
}

// cleanup removes expired items
func (r *CacheRepository) cleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.mutex.Lock()
			now := r.now()
			for key, item := range r.data {
				if now.After(item.ExpiresAt) {
					delete(r.data, key)
				}
			}
			r.mutex.Unlock()
		case <-r.done:
			return
		}
	}
}

var _ outbound.CacheRepository = (*CacheRepository)(nil)
