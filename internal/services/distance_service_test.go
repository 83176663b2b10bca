package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingPairCache struct {
	inner MatrixPairCache
	hits  int
	sets  int
}

func (c *countingPairCache) Get(k pairKey) (MatrixEdge, bool) {
	v, ok := c.inner.Get(k)
	if ok {
		c.hits++
	}
	return v, ok
}

func (c *countingPairCache) Set(k pairKey, v MatrixEdge, ttl time.Duration) {
	c.sets++
	c.inner.Set(k, v, ttl)
}

func TestComputeDistances(t *testing.T) {
	client := NewHaversineMatrixClient(NewInMemoryPairCache())

	points := []MatrixPoint{
		{ID: "eiffel", Lat: 48.8584, Lng: 2.2945},
		{ID: "louvre", Lat: 48.8606, Lng: 2.3376},
	}

	mat, err := client.ComputeDistances(context.Background(), points)
	require.NoError(t, err)

	assert.Zero(t, mat["eiffel"]["eiffel"].DistanceKm)
	assert.Zero(t, mat["louvre"]["louvre"].DistanceKm)
	assert.InDelta(t, 3.17, mat["eiffel"]["louvre"].DistanceKm, 0.05)
	assert.InDelta(t, mat["eiffel"]["louvre"].DistanceKm, mat["louvre"]["eiffel"].DistanceKm, 1e-9)
}

func TestComputeDistancesEmpty(t *testing.T) {
	client := NewHaversineMatrixClient(NewInMemoryPairCache())
	mat, err := client.ComputeDistances(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, mat)
}

func TestComputeDistancesUsesCache(t *testing.T) {
	cache := &countingPairCache{inner: NewInMemoryPairCache()}
	client := NewHaversineMatrixClient(cache)

	points := []MatrixPoint{
		{ID: "a", Lat: 48.85, Lng: 2.29},
		{ID: "b", Lat: 48.86, Lng: 2.33},
	}

	_, err := client.ComputeDistances(context.Background(), points)
	require.NoError(t, err)
	assert.Equal(t, 0, cache.hits)
	assert.Equal(t, 2, cache.sets) // a→b and b→a

	_, err = client.ComputeDistances(context.Background(), points)
	require.NoError(t, err)
	assert.Equal(t, 2, cache.hits)
	assert.Equal(t, 2, cache.sets)
}

func TestInMemoryPairCacheExpiry(t *testing.T) {
	cache := NewInMemoryPairCache()
	k := pairKey{A: "a", B: "b"}

	cache.Set(k, MatrixEdge{DistanceKm: 1.5}, -time.Second)
	_, ok := cache.Get(k)
	assert.False(t, ok, "expired entries must not be served")

	cache.Set(k, MatrixEdge{DistanceKm: 1.5}, time.Minute)
	v, ok := cache.Get(k)
	require.True(t, ok)
	assert.Equal(t, 1.5, v.DistanceKm)
}
