package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tripweaver/internal/models/request_models"
	"tripweaver/pkg/utils"
)

func TestClusterRoundRobin(t *testing.T) {
	places := []routePlace{
		{Name: "a"}, {Name: "b"}, {Name: "c"}, {Name: "d"}, {Name: "e"},
	}

	buckets, err := clusterRoundRobin(places, 2)
	require.NoError(t, err)
	require.Len(t, buckets, 2)

	names := func(bucket []routePlace) []string {
		out := make([]string, len(bucket))
		for i, p := range bucket {
			out[i] = p.Name
		}
		return out
	}
	assert.Equal(t, []string{"a", "c", "e"}, names(buckets[0]))
	assert.Equal(t, []string{"b", "d"}, names(buckets[1]))
}

func TestClusterRoundRobinMoreDaysThanPlaces(t *testing.T) {
	buckets, err := clusterRoundRobin([]routePlace{{Name: "a"}}, 3)
	require.NoError(t, err)
	require.Len(t, buckets, 3)
	assert.Len(t, buckets[0], 1)
	assert.Empty(t, buckets[1])
	assert.Empty(t, buckets[2])
}

func TestClusterRoundRobinRejectsZeroDays(t *testing.T) {
	_, err := clusterRoundRobin([]routePlace{{Name: "a"}}, 0)
	assert.ErrorIs(t, err, utils.ErrInvalidDayCount)
}

func TestSequenceGreedy(t *testing.T) {
	// Points on a line at x = 0, 10, 2, 5. Nearest-neighbor from the first
	// visits them in coordinate order.
	places := []routePlace{
		{ID: "p0", Lat: 0, Lng: 0},
		{ID: "p1", Lat: 0, Lng: 10},
		{ID: "p2", Lat: 0, Lng: 2},
		{ID: "p3", Lat: 0, Lng: 5},
	}
	dist := func(a, b routePlace) float64 {
		d := a.Lng - b.Lng
		if d < 0 {
			d = -d
		}
		return d
	}

	ordered := sequenceGreedy(places, dist)

	ids := make([]string, len(ordered))
	for i, p := range ordered {
		ids[i] = p.ID
	}
	assert.Equal(t, []string{"p0", "p2", "p3", "p1"}, ids)
}

func TestSequenceGreedyStableOnTies(t *testing.T) {
	// Two candidates at the same distance; the earlier one wins.
	places := []routePlace{
		{ID: "start"},
		{ID: "first"},
		{ID: "second"},
	}
	dist := func(a, b routePlace) float64 { return 1 }

	ordered := sequenceGreedy(places, dist)
	assert.Equal(t, "first", ordered[1].ID)
	assert.Equal(t, "second", ordered[2].ID)
}

func TestSequenceGreedyCompletenessAndLocalChoice(t *testing.T) {
	// Not asserting a globally optimal tour, only that every input appears
	// exactly once and that each step picks the true nearest remaining place.
	places := []routePlace{
		{ID: "p0", Lat: 48.8584, Lng: 2.2945},
		{ID: "p1", Lat: 48.8606, Lng: 2.3376},
		{ID: "p2", Lat: 48.8530, Lng: 2.3499},
		{ID: "p3", Lat: 48.8738, Lng: 2.2950},
		{ID: "p4", Lat: 48.8867, Lng: 2.3431},
	}
	dist := func(a, b routePlace) float64 {
		return utils.HaversineKm(a.Lat, a.Lng, b.Lat, b.Lng)
	}

	ordered := sequenceGreedy(places, dist)

	seen := map[string]int{}
	for _, p := range ordered {
		seen[p.ID]++
	}
	require.Len(t, seen, len(places))
	for id, n := range seen {
		assert.Equal(t, 1, n, "place %s must appear exactly once", id)
	}

	remaining := map[string]routePlace{}
	for _, p := range places[1:] {
		remaining[p.ID] = p
	}
	for i := 0; i < len(ordered)-1; i++ {
		cur, next := ordered[i], ordered[i+1]
		for id, cand := range remaining {
			if id == next.ID {
				continue
			}
			assert.GreaterOrEqual(t, dist(cur, cand), dist(cur, next),
				"step %d picked %s but %s is closer", i, next.ID, id)
		}
		delete(remaining, next.ID)
	}
}

func TestSequenceGreedySmallInputs(t *testing.T) {
	assert.Empty(t, sequenceGreedy(nil, nil))
	one := []routePlace{{ID: "only"}}
	assert.Equal(t, one, sequenceGreedy(one, nil))
}

func newTestOptimizer() OptimizerServiceInterface {
	return NewOptimizerService(NewHaversineMatrixClient(NewInMemoryPairCache()))
}

func TestOptimizeItinerary(t *testing.T) {
	svc := newTestOptimizer()

	req := request_models.OptimizeItineraryRequest{
		TripDays: 2,
		Pace:     "balanced",
		Places: []request_models.PlaceInput{
			{Name: "Eiffel Tower", Latitude: 48.8584, Longitude: 2.2945},
			{Name: "Louvre", Latitude: 48.8606, Longitude: 2.3376},
			{Name: "Notre-Dame", Latitude: 48.8530, Longitude: 2.3499},
			{Name: "Arc de Triomphe", Latitude: 48.8738, Longitude: 2.2950},
		},
	}

	plans, err := svc.OptimizeItinerary(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, plans, 2)

	for i, plan := range plans {
		assert.Equal(t, i+1, plan.Day)
		require.Len(t, plan.Locations, 2)
		assert.True(t, plan.Locations[0].IsStartingPoint)
		assert.False(t, plan.Locations[1].IsStartingPoint)

		// Last stop of the day has no onward leg.
		assert.Equal(t, 0, plan.Locations[1].TravelTimeToNext)
		assert.Positive(t, plan.Locations[0].TravelTimeToNext)

		wantDuration := 0
		wantTravel := 0
		for _, loc := range plan.Locations {
			assert.Equal(t, string(StopAttraction), loc.Kind)
			assert.Equal(t, defaultVisitMinutes, loc.EstimatedDuration)
			wantDuration += loc.EstimatedDuration
			wantTravel += loc.TravelTimeToNext
		}
		assert.Equal(t, wantDuration, plan.TotalDuration)
		assert.Equal(t, wantTravel, plan.TotalTravelTime)
	}

	// Day one starts at 09:00.
	assert.Equal(t, "09:00", plans[0].Locations[0].BestTimeToVisit)
}

func TestOptimizeItinerarySingleDayPair(t *testing.T) {
	svc := newTestOptimizer()

	req := request_models.OptimizeItineraryRequest{
		TripDays: 1,
		Places: []request_models.PlaceInput{
			{Name: "Eiffel Tower", Address: "Champ de Mars", Latitude: 48.8584, Longitude: 2.2945},
			{Name: "Louvre Museum", Latitude: 48.8606, Longitude: 2.3376},
		},
	}

	plans, err := svc.OptimizeItinerary(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, plans, 1)

	// Both places land on the single day, walked from the first input.
	locs := plans[0].Locations
	require.Len(t, locs, 2)
	assert.Equal(t, "Eiffel Tower", locs[0].Name)
	assert.Equal(t, "Champ de Mars", locs[0].Address)
	assert.Equal(t, "Louvre Museum", locs[1].Name)

	// No address given, so the name stands in.
	assert.Equal(t, "Louvre Museum", locs[1].Address)
}

func TestOptimizeItineraryDepartureLeadsDayOne(t *testing.T) {
	svc := newTestOptimizer()

	req := request_models.OptimizeItineraryRequest{
		TripDays:  1,
		Departure: &request_models.PlaceInput{Name: "Hotel du Nord", Latitude: 48.871, Longitude: 2.366},
		Places: []request_models.PlaceInput{
			{Name: "Louvre", Latitude: 48.8606, Longitude: 2.3376},
			{Name: "Notre-Dame", Latitude: 48.8530, Longitude: 2.3499},
		},
	}

	plans, err := svc.OptimizeItinerary(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, plans, 1)
	require.Len(t, plans[0].Locations, 3)
	assert.Equal(t, "Hotel du Nord", plans[0].Locations[0].Name)
	assert.True(t, plans[0].Locations[0].IsStartingPoint)
}

func TestOptimizeItineraryPaceScalesDurations(t *testing.T) {
	svc := newTestOptimizer()

	req := request_models.OptimizeItineraryRequest{
		TripDays: 1,
		Pace:     "intensive",
		Places: []request_models.PlaceInput{
			{Name: "Louvre", Latitude: 48.8606, Longitude: 2.3376},
		},
	}

	plans, err := svc.OptimizeItinerary(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, plans[0].Locations, 1)
	assert.Equal(t, 156, plans[0].Locations[0].EstimatedDuration) // 120 × 1.3
}

func TestOptimizeItineraryValidation(t *testing.T) {
	svc := newTestOptimizer()
	ctx := context.Background()

	_, err := svc.OptimizeItinerary(ctx, request_models.OptimizeItineraryRequest{
		TripDays: 1,
		Pace:     "frantic",
		Places:   []request_models.PlaceInput{{Name: "x"}},
	})
	assert.ErrorIs(t, err, utils.ErrUnknownPace)

	_, err = svc.OptimizeItinerary(ctx, request_models.OptimizeItineraryRequest{
		TripDays: 0,
		Places:   []request_models.PlaceInput{{Name: "x"}},
	})
	assert.ErrorIs(t, err, utils.ErrInvalidDayCount)

	plans, err := svc.OptimizeItinerary(ctx, request_models.OptimizeItineraryRequest{TripDays: 3})
	require.NoError(t, err)
	assert.Empty(t, plans)
}
