package services

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"tripweaver/internal/models/request_models"
	"tripweaver/internal/models/response_models"
	"tripweaver/pkg/utils"
)

type OptimizerServiceInterface interface {
	OptimizeItinerary(ctx context.Context, req request_models.OptimizeItineraryRequest) ([]response_models.DayPlanResponse, error)
}

type OptimizerService struct {
	matrix DistanceMatrixService
}

func NewOptimizerService(matrix DistanceMatrixService) OptimizerServiceInterface {
	return &OptimizerService{matrix: matrix}
}

type routePlace struct {
	ID      string
	Name    string
	Address string
	Lat     float64
	Lng     float64
}

// OptimizeItinerary is the manual (non-AI) path: round-robin day clustering,
// greedy nearest-neighbor sequencing per day, then travel-time and
// pace-adjusted duration estimates. Empty input yields an empty schedule.
func (s *OptimizerService) OptimizeItinerary(ctx context.Context, req request_models.OptimizeItineraryRequest) ([]response_models.DayPlanResponse, error) {
	pace := Pace(req.Pace)
	if pace == "" {
		pace = PaceBalanced
	}
	if _, ok := paceMultiplier(pace); !ok {
		return nil, utils.ErrUnknownPace
	}
	if req.TripDays < 1 {
		return nil, utils.ErrInvalidDayCount
	}
	if len(req.Places) == 0 {
		return []response_models.DayPlanResponse{}, nil
	}

	places := make([]routePlace, 0, len(req.Places)+1)
	if req.Departure != nil {
		places = append(places, toRoutePlace(*req.Departure))
	}
	for _, p := range req.Places {
		places = append(places, toRoutePlace(p))
	}

	buckets, err := clusterRoundRobin(places, req.TripDays)
	if err != nil {
		return nil, err
	}

	// Each day is independent; sequence and estimate them concurrently and
	// join before assembling the response.
	plans := make([]response_models.DayPlanResponse, req.TripDays)
	errs := make([]error, req.TripDays)
	var wg sync.WaitGroup

	for day := 0; day < req.TripDays; day++ {
		wg.Add(1)
		go func(day int) {
			defer wg.Done()
			plans[day], errs[day] = s.buildDayPlan(ctx, day, buckets[day], pace)
		}(day)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return plans, nil
}

func (s *OptimizerService) buildDayPlan(ctx context.Context, day int, bucket []routePlace, pace Pace) (response_models.DayPlanResponse, error) {
	plan := response_models.DayPlanResponse{
		Day:       day + 1,
		Date:      time.Now().AddDate(0, 0, day).Format("2006-01-02"),
		Locations: []response_models.ScheduledStopResponse{},
	}
	if len(bucket) == 0 {
		return plan, nil
	}

	points := make([]MatrixPoint, len(bucket))
	for i, p := range bucket {
		points[i] = MatrixPoint{ID: p.ID, Lat: p.Lat, Lng: p.Lng}
	}
	mat, err := s.matrix.ComputeDistances(ctx, points)
	if err != nil {
		return plan, fmt.Errorf("distance matrix: %w", err)
	}

	ordered := sequenceGreedy(bucket, func(a, b routePlace) float64 {
		return mat[a.ID][b.ID].DistanceKm
	})

	clock := 9 * 60 // day starts at 09:00
	for i, p := range ordered {
		arrival := formatClock(clock)

		duration, err := AdjustDurationForPace(defaultVisitMinutes, pace)
		if err != nil {
			return plan, err
		}

		travel := 0
		if i < len(ordered)-1 {
			next := ordered[i+1]
			if utils.HasCoordinates(p.Lat, p.Lng) && utils.HasCoordinates(next.Lat, next.Lng) {
				travel = EstimateTravelByDistance(mat[p.ID][next.ID].DistanceKm, arrival)
			} else {
				// Not geocoded; fall back to the descriptive default.
				travel = EstimateTravelFromText("", arrival)
			}
		}

		plan.Locations = append(plan.Locations, response_models.ScheduledStopResponse{
			Kind:              string(StopAttraction),
			Name:              p.Name,
			Address:           p.Address,
			IsStartingPoint:   i == 0,
			EstimatedDuration: duration,
			BestTimeToVisit:   arrival,
			TravelTimeToNext:  travel,
		})
		plan.TotalDuration += duration
		plan.TotalTravelTime += travel
		clock += duration + travel
	}

	return plan, nil
}

// clusterRoundRobin partitions places into day buckets by input order modulo
// the day count. A cheap proximity proxy, not spatial clustering: upstream
// day assignment is expected to have done most of the grouping work.
func clusterRoundRobin(places []routePlace, days int) ([][]routePlace, error) {
	if days < 1 {
		return nil, utils.ErrInvalidDayCount
	}
	buckets := make([][]routePlace, days)
	for i, p := range places {
		buckets[i%days] = append(buckets[i%days], p)
	}
	return buckets, nil
}

// sequenceGreedy orders one day's places with a nearest-neighbor walk from
// index 0. No backtracking or 2-opt pass; an accepted approximation. Strict
// less-than keeps the first minimal candidate on ties, so output is stable.
func sequenceGreedy(places []routePlace, dist func(a, b routePlace) float64) []routePlace {
	if len(places) < 2 {
		return places
	}

	visited := make([]bool, len(places))
	ordered := make([]routePlace, 0, len(places))

	cur := 0
	visited[0] = true
	ordered = append(ordered, places[0])

	for len(ordered) < len(places) {
		next := -1
		nextDist := math.MaxFloat64
		for i := range places {
			if visited[i] {
				continue
			}
			if d := dist(places[cur], places[i]); d < nextDist {
				nextDist = d
				next = i
			}
		}
		visited[next] = true
		ordered = append(ordered, places[next])
		cur = next
	}
	return ordered
}

func toRoutePlace(in request_models.PlaceInput) routePlace {
	address := in.Address
	if address == "" {
		address = in.Name
	}
	return routePlace{
		ID:      uuid.NewString(),
		Name:    in.Name,
		Address: address,
		Lat:     in.Latitude,
		Lng:     in.Longitude,
	}
}

func formatClock(minutes int) string {
	minutes %= 24 * 60
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
