package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"tripweaver/internal/models/db_models"
	"tripweaver/internal/models/request_models"
	"tripweaver/internal/models/response_models"
	"tripweaver/internal/repositories"
	"tripweaver/pkg/memcache"
	"tripweaver/pkg/utils"
)

const (
	maxGenerationAttempts = 3
	baseRetryDelay        = 2 * time.Second
	planCacheTTL          = 30 * time.Minute
)

// hotelStopMeta is the jsonb payload stored alongside hotel stops. The
// description carries the model's price tier and amenity text.
type hotelStopMeta struct {
	Description string `json:"description,omitempty"`
	Source      string `json:"source"`
}

type PlannerServiceInterface interface {
	GenerateItinerary(ctx context.Context, req request_models.GenerateItineraryRequest) ([]response_models.DayPlanResponse, error)
	GetStoredItinerary(ctx context.Context, tripID string) ([]response_models.DayPlanResponse, error)
}

// PlannerService drives the AI generation path: build prompt, call the model
// with retries, normalize the raw text, pace-adjust, then persist and cache.
type PlannerService struct {
	generator utils.ItineraryGeneratorInterface
	trips     repositories.TripRepository
	itins     repositories.ItineraryRepository
	cache     memcache.PlanCacheStore

	// sleep is swappable so retry timing is testable.
	sleep func(time.Duration)
}

func NewPlannerService(
	generator utils.ItineraryGeneratorInterface,
	trips repositories.TripRepository,
	itins repositories.ItineraryRepository,
	cache memcache.PlanCacheStore,
) PlannerServiceInterface {
	return &PlannerService{
		generator: generator,
		trips:     trips,
		itins:     itins,
		cache:     cache,
		sleep:     time.Sleep,
	}
}

func (s *PlannerService) GenerateItinerary(ctx context.Context, req request_models.GenerateItineraryRequest) ([]response_models.DayPlanResponse, error) {
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

	prompt := buildItineraryPrompt(req)
	cfg := NormalizeConfig{
		StartPoint: req.StartPoint,
		EndPoint:   req.EndPoint,
		TripDays:   req.TripDays,
	}

	stops, err := s.generateWithRetry(ctx, prompt, cfg)
	if err != nil {
		return nil, err
	}

	for i := range stops {
		if stops[i].Timing == nil {
			continue
		}
		adjusted, err := AdjustDurationForPace(stops[i].Timing.EstimatedDuration, pace)
		if err != nil {
			return nil, err
		}
		stops[i].Timing.EstimatedDuration = clampMinutes(adjusted, minVisitMinutes, maxVisitMinutes)
	}

	startDate := s.resolveStartDate(ctx, req.TripID)
	plans := assembleDayPlans(stops, req.TripDays, startDate)

	if req.TripID != "" {
		if err := s.persistPlans(ctx, req.TripID, plans); err != nil {
			log.Printf("Failed to persist itinerary for trip %s: %v", req.TripID, err)
		}
		s.cache.Invalidate(req.TripID)
		s.cache.Set(req.TripID, plans, planCacheTTL)
	}

	return plans, nil
}

// generateWithRetry calls the model up to maxGenerationAttempts times with a
// linearly growing backoff (attempt × base). A missing API key aborts at once
// since no retry will fix configuration.
func (s *PlannerService) generateWithRetry(ctx context.Context, prompt string, cfg NormalizeConfig) ([]NormalizedStop, error) {
	var lastErr error

	for attempt := 1; attempt <= maxGenerationAttempts; attempt++ {
		raw, err := s.generator.GenerateItineraryJSON(ctx, prompt)
		if err != nil {
			if errors.Is(err, utils.ErrMissingAPIKey) {
				return nil, err
			}
			lastErr = err
		} else {
			stops, nerr := NormalizeAIResponse(raw, cfg)
			if nerr == nil {
				return stops, nil
			}
			lastErr = nerr
		}

		log.Printf("Generation attempt %d/%d failed: %v", attempt, maxGenerationAttempts, lastErr)
		if attempt < maxGenerationAttempts {
			s.sleep(time.Duration(attempt) * baseRetryDelay)
		}
	}

	return nil, fmt.Errorf("%w after %d attempts: %v", utils.ErrGenerationFailed, maxGenerationAttempts, lastErr)
}

func (s *PlannerService) GetStoredItinerary(ctx context.Context, tripID string) ([]response_models.DayPlanResponse, error) {
	if cached, ok := s.cache.Get(tripID); ok {
		if plans, ok := cached.([]response_models.DayPlanResponse); ok {
			return plans, nil
		}
	}

	days, err := s.itins.GetByTripID(ctx, tripID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if len(days) == 0 {
		return nil, utils.ErrNoStoredPlan
	}

	plans := make([]response_models.DayPlanResponse, 0, len(days))
	for _, day := range days {
		plan := response_models.DayPlanResponse{
			Day:       day.DayIndex + 1,
			Date:      utils.FormatDate(utils.FromUnixSeconds(day.Date)),
			Locations: make([]response_models.ScheduledStopResponse, 0, len(day.Stops)),
		}
		for _, stop := range day.Stops {
			resp := response_models.ScheduledStopResponse{
				Kind:              stop.Kind,
				Name:              stop.Name,
				Address:           stop.Address,
				Description:       stop.Description,
				IsStartingPoint:   stop.IsStartingPoint,
				EstimatedDuration: stop.EstimatedDuration,
				BestTimeToVisit:   stop.BestTimeToVisit,
				TravelTimeToNext:  stop.TravelTimeToNext,
			}
			if stop.Kind == string(StopHotel) && len(stop.Meta) > 0 {
				var meta hotelStopMeta
				if err := json.Unmarshal(stop.Meta, &meta); err == nil && meta.Description != "" {
					resp.Description = meta.Description
				}
			}
			plan.Locations = append(plan.Locations, resp)
			plan.TotalDuration += stop.EstimatedDuration
			plan.TotalTravelTime += stop.TravelTimeToNext
		}
		plans = append(plans, plan)
	}

	s.cache.Set(tripID, plans, planCacheTTL)
	return plans, nil
}

func (s *PlannerService) resolveStartDate(ctx context.Context, tripID string) time.Time {
	if tripID == "" || s.trips == nil {
		return time.Now().UTC()
	}
	trip, err := s.trips.GetByID(ctx, tripID)
	if err != nil || trip == nil || trip.StartDate <= 0 {
		return time.Now().UTC()
	}
	return utils.FromUnixSeconds(trip.StartDate)
}

func (s *PlannerService) persistPlans(ctx context.Context, tripID string, plans []response_models.DayPlanResponse) error {
	id, err := uuid.Parse(tripID)
	if err != nil {
		return fmt.Errorf("invalid trip id: %w", err)
	}

	days := make([]db_models.ItineraryDay, 0, len(plans))
	for _, plan := range plans {
		date, _ := time.Parse("2006-01-02", plan.Date)
		day := db_models.ItineraryDay{
			DayIndex: plan.Day - 1,
			Date:     date.Unix(),
		}
		for pos, loc := range plan.Locations {
			stop := db_models.ScheduledStop{
				Position:          pos,
				Kind:              loc.Kind,
				Name:              loc.Name,
				Address:           loc.Address,
				Description:       loc.Description,
				IsStartingPoint:   loc.IsStartingPoint,
				EstimatedDuration: loc.EstimatedDuration,
				BestTimeToVisit:   loc.BestTimeToVisit,
				TravelTimeToNext:  loc.TravelTimeToNext,
			}
			// Hotel price tier and amenities live as structured metadata,
			// not in the flat description column.
			if loc.Kind == string(StopHotel) {
				if raw, err := json.Marshal(hotelStopMeta{Description: loc.Description, Source: "ai"}); err == nil {
					stop.Meta = datatypes.JSON(raw)
					stop.Description = ""
				}
			}
			day.Stops = append(day.Stops, stop)
		}
		days = append(days, day)
	}

	return s.itins.ReplaceItinerary(ctx, id, days)
}

// assembleDayPlans folds the ordered stop list into per-day responses. Every
// day from 0 to tripDays-1 appears even when the model scheduled nothing on
// it, so clients can render a stable day grid.
func assembleDayPlans(stops []NormalizedStop, tripDays int, startDate time.Time) []response_models.DayPlanResponse {
	plans := make([]response_models.DayPlanResponse, tripDays)
	for day := 0; day < tripDays; day++ {
		plans[day] = response_models.DayPlanResponse{
			Day:       day + 1,
			Date:      utils.FormatDate(startDate.AddDate(0, 0, day)),
			Locations: []response_models.ScheduledStopResponse{},
		}
	}

	for _, stop := range stops {
		day := stop.DayIndex
		if day < 0 || day >= tripDays {
			continue
		}
		resp := response_models.ScheduledStopResponse{
			Kind:            string(stop.Kind),
			Name:            stop.Name,
			Address:         stop.Address,
			Description:     stop.Description,
			IsStartingPoint: stop.IsStartingPoint,
		}
		if stop.Timing != nil {
			resp.EstimatedDuration = stop.Timing.EstimatedDuration
			resp.BestTimeToVisit = stop.Timing.BestTimeToVisit
			resp.TravelTimeToNext = stop.Timing.TravelTimeToNext
			plans[day].TotalDuration += resp.EstimatedDuration
			plans[day].TotalTravelTime += resp.TravelTimeToNext
		}
		plans[day].Locations = append(plans[day].Locations, resp)
	}

	// The last stop of a day has no onward leg.
	for day := range plans {
		if n := len(plans[day].Locations); n > 0 {
			last := &plans[day].Locations[n-1]
			plans[day].TotalTravelTime -= last.TravelTimeToNext
			last.TravelTimeToNext = 0
		}
	}

	return plans
}

// buildItineraryPrompt renders the generation prompt. The contract with the
// model: one JSON array, hotels flagged with isHotel or a "Hotel:" name
// prefix, dayIndex zero-based.
func buildItineraryPrompt(req request_models.GenerateItineraryRequest) string {
	var mustVisit strings.Builder
	for _, place := range req.MustVisit {
		mustVisit.WriteString(fmt.Sprintf("- %s", place.Name))
		if place.Address != "" {
			mustVisit.WriteString(fmt.Sprintf(" (%s)", place.Address))
		}
		if place.PreferredDay != nil {
			mustVisit.WriteString(fmt.Sprintf(" [preferred day: %d]", *place.PreferredDay))
		}
		mustVisit.WriteString("\n")
	}
	if mustVisit.Len() == 0 {
		mustVisit.WriteString("- none\n")
	}

	pace := req.Pace
	if pace == "" {
		pace = string(PaceBalanced)
	}

	return fmt.Sprintf(`You are a travel planner. Create a %d-day itinerary.

Trip frame:
- Start point: %s
- End point: %s
- Pace: %s
- Must-visit places:
%s
Return ONLY a JSON array of stop objects, no prose, no markdown fences.
Each object has:
- "name": string (required)
- "address": string
- "description": string (mention approximate distance to the next stop, e.g. "3 km to ...")
- "dayIndex": integer, 0-based day number (required)
- "estimatedDuration": integer minutes on site (attractions only)
- "travelTimeToNext": integer minutes to the next stop (attractions only)
- "bestTimeToVisit": a daypart like "morning" or a clock time like "09:00"
- "isHotel": true for overnight hotels; alternatively prefix the name with "Hotel:"
- "isStartingPoint": true on the first stop of day 0

Rules:
- Day 0 starts at the start point, the last day ends at the end point.
- At most one hotel per day, listed as the day's last stop.
- Honor the preferred day of every must-visit place.`,
		req.TripDays, req.StartPoint, req.EndPoint, pace, mustVisit.String())
}
