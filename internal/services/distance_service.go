package services

import (
	"context"
	"sync"
	"time"

	"tripweaver/pkg/utils"
)

type MatrixPoint struct {
	ID  string
	Lat float64
	Lng float64
}

type MatrixEdge struct {
	DistanceKm float64
}

type DistanceMatrix map[string]map[string]MatrixEdge

// --------- In-memory cache per (A,B) pair ---------

type pairKey struct {
	A string // stable place ID
	B string
}

type matrixPairCacheEntry struct {
	Edge      MatrixEdge
	ExpiresAt time.Time
}

type MatrixPairCache interface {
	Get(k pairKey) (MatrixEdge, bool)
	Set(k pairKey, v MatrixEdge, ttl time.Duration)
}

type inMemoryPairCache struct {
	mu    sync.RWMutex
	store map[pairKey]matrixPairCacheEntry
}

func NewInMemoryPairCache() MatrixPairCache {
	return &inMemoryPairCache{store: make(map[pairKey]matrixPairCacheEntry)}
}

func (c *inMemoryPairCache) Get(k pairKey) (MatrixEdge, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	it, ok := c.store[k]
	if !ok || time.Now().After(it.ExpiresAt) {
		return MatrixEdge{}, false
	}
	return it.Edge, true
}

func (c *inMemoryPairCache) Set(k pairKey, v MatrixEdge, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store[k] = matrixPairCacheEntry{Edge: v, ExpiresAt: time.Now().Add(ttl)}
}

// -------------- Great-circle matrix provider ---------------

type DistanceMatrixService interface {
	ComputeDistances(ctx context.Context, points []MatrixPoint) (DistanceMatrix, error)
}

// HaversineMatrixClient fills a pairwise matrix from great-circle distances.
// Turn-by-turn road distance providers are out of scope; the cache keeps the
// shape ready for one.
type HaversineMatrixClient struct {
	Cache      MatrixPairCache
	DefaultTTL time.Duration
}

func NewHaversineMatrixClient(cache MatrixPairCache) *HaversineMatrixClient {
	return &HaversineMatrixClient{
		Cache:      cache,
		DefaultTTL: 7 * 24 * time.Hour,
	}
}

func (c *HaversineMatrixClient) ComputeDistances(ctx context.Context, points []MatrixPoint) (DistanceMatrix, error) {
	n := len(points)
	mat := make(DistanceMatrix, n)
	if n == 0 {
		return mat, nil
	}

	for _, p := range points {
		mat[p.ID] = make(map[string]MatrixEdge, n)
	}

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				mat[points[i].ID][points[j].ID] = MatrixEdge{}
				continue
			}
			k := pairKey{A: points[i].ID, B: points[j].ID}
			if v, ok := c.Cache.Get(k); ok {
				mat[points[i].ID][points[j].ID] = v
				continue
			}
			edge := MatrixEdge{DistanceKm: utils.HaversineKm(
				points[i].Lat, points[i].Lng, points[j].Lat, points[j].Lng)}
			mat[points[i].ID][points[j].ID] = edge
			c.Cache.Set(k, edge, c.DefaultTTL)
		}
	}

	return mat, nil
}
