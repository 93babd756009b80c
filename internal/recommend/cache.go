// Anirec - Hybrid Anime Recommendation Engine
// Copyright 2026 Hokuto Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hokuto-labs/anirec

package recommend

import (
	"fmt"
	"sync"
	"time"
)

type cacheEntry struct {
	response  *Response
	expiresAt time.Time
}

// responseCache is a TTL map keyed by request shape and model version.
// Eviction is opportunistic on insert when the entry cap is hit.
type responseCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	cfg     CacheConfig
}

func newResponseCache(cfg CacheConfig) *responseCache {
	return &responseCache{
		entries: make(map[string]cacheEntry),
		cfg:     cfg,
	}
}

func cacheKey(req *Request, modelVersion int64, diversity float64) string {
	return fmt.Sprintf("u%d:m%s:k%d:d%.3f:v%d", req.UserID, req.Mode, req.K, diversity, modelVersion)
}

func (c *responseCache) get(key string) (*Response, bool) {
	if !c.cfg.Enabled {
		return nil, false
	}

	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || time.Now().After(entry.expiresAt) {
		return nil, false
	}
	return entry.response, true
}

func (c *responseCache) put(key string, resp *Response) {
	if !c.cfg.Enabled {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.entries) >= c.cfg.MaxEntries {
		now := time.Now()
		for k, e := range c.entries {
			if now.After(e.expiresAt) {
				delete(c.entries, k)
			}
		}
		// Still full after pruning expired entries: drop everything
		// rather than track recency. The cache refills quickly.
		if len(c.entries) >= c.cfg.MaxEntries {
			c.entries = make(map[string]cacheEntry)
		}
	}

	c.entries[key] = cacheEntry{
		response:  resp,
		expiresAt: time.Now().Add(c.cfg.TTL),
	}
}

// invalidate clears all entries.
func (c *responseCache) invalidate() {
	c.mu.Lock()
	c.entries = make(map[string]cacheEntry)
	c.mu.Unlock()
}

// invalidateUser removes entries for a single user.
func (c *responseCache) invalidateUser(userID int) {
	prefix := fmt.Sprintf("u%d:", userID)

	c.mu.Lock()
	for k := range c.entries {
		if len(k) >= len(prefix) && k[:len(prefix)] == prefix {
			delete(c.entries, k)
		}
	}
	c.mu.Unlock()
}

func (c *responseCache) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
