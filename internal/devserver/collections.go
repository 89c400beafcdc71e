// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package devserver

import (
	"cmp"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"
)

// Resource names served by the development backend.
const (
	ResourceFarms           = "farms"
	ResourceDetections      = "detections"
	ResourceWeather         = "weather"
	ResourceAlerts          = "alerts"
	ResourceMarketPrices    = "market-prices"
	ResourceRecommendations = "recommendations"
)

// Record is a schemaless JSON object.
type Record map[string]any

// Query narrows Find. Filters are exact matches on the string form of a
// field; Search is a case-insensitive substring match on the collection's
// search fields.
type Query struct {
	Filters map[string]string
	Search  string
}

// Collection is an in-memory table of records keyed by an auto-increment
// "id".
type Collection struct {
	name         string
	searchFields []string
	now          func() time.Time

	mu     sync.RWMutex
	nextID int64
	items  map[int64]Record
}

// NewCollection returns an empty collection.
func NewCollection(name string, searchFields ...string) *Collection {
	return &Collection{
		name:         name,
		searchFields: searchFields,
		now:          time.Now,
		items:        make(map[int64]Record),
	}
}

// Name returns the resource name.
func (c *Collection) Name() string { return c.name }

// Create stores rec under a new id and returns the stored copy.
func (c *Collection) Create(rec Record) Record {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextID++
	stored := maps.Clone(rec)
	if stored == nil {
		stored = Record{}
	}
	now := c.now().UTC()
	stored["id"] = c.nextID
	stored["created_at"] = now
	stored["updated_at"] = now
	c.items[c.nextID] = stored
	return maps.Clone(stored)
}

// Get returns the record with id.
func (c *Collection) Get(id int64) (Record, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	rec, ok := c.items[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s %d", ErrNotFound, c.name, id)
	}
	return maps.Clone(rec), nil
}

// Update merges patch into the record with id. The id and created_at
// fields cannot be changed.
func (c *Collection) Update(id int64, patch Record) (Record, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	rec, ok := c.items[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s %d", ErrNotFound, c.name, id)
	}
	for k, v := range patch {
		if k == "id" || k == "created_at" {
			continue
		}
		rec[k] = v
	}
	rec["updated_at"] = c.now().UTC()
	return maps.Clone(rec), nil
}

// Delete removes the record with id.
func (c *Collection) Delete(id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.items[id]; !ok {
		return fmt.Errorf("%w: %s %d", ErrNotFound, c.name, id)
	}
	delete(c.items, id)
	return nil
}

// Find returns matching records ordered by id.
func (c *Collection) Find(q Query) []Record {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Record, 0, len(c.items))
	for _, rec := range c.items {
		if c.matches(rec, q) {
			out = append(out, maps.Clone(rec))
		}
	}
	slices.SortFunc(out, func(a, b Record) int {
		return cmp.Compare(a.ID(), b.ID())
	})
	return out
}

func (c *Collection) matches(rec Record, q Query) bool {
	for field, want := range q.Filters {
		v, ok := rec[field]
		if !ok || fmt.Sprint(v) != want {
			return false
		}
	}
	if q.Search == "" {
		return true
	}
	needle := strings.ToLower(q.Search)
	for _, field := range c.searchFields {
		if s, ok := rec[field].(string); ok && strings.Contains(strings.ToLower(s), needle) {
			return true
		}
	}
	return false
}

// ID returns the record id, or zero.
func (r Record) ID() int64 {
	switch v := r["id"].(type) {
	case int64:
		return v
	case float64:
		return int64(v)
	case int:
		return int64(v)
	default:
		return 0
	}
}

// Number returns a numeric field as float64.
func (r Record) Number(field string) float64 {
	switch v := r[field].(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	case int:
		return float64(v)
	default:
		return 0
	}
}
