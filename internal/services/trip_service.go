package services

import (
	"context"

	"tripweaver/internal/models/db_models"
	"tripweaver/internal/models/request_models"
	"tripweaver/internal/models/response_models"
	"tripweaver/internal/repositories"
	"tripweaver/pkg/utils"
)

type TripServiceInterface interface {
	CreateTrip(ctx context.Context, userID string, req request_models.CreateTripRequest) (response_models.TripResponse, error)
	GetTripByID(ctx context.Context, id string) (response_models.TripResponse, error)
	ListTrips(ctx context.Context, userID string, page, pageSize int) ([]response_models.TripResponse, error)
}

type TripService struct {
	repo repositories.TripRepository
}

func NewTripService(repo repositories.TripRepository) TripServiceInterface {
	return &TripService{repo: repo}
}

func (s *TripService) CreateTrip(ctx context.Context, userID string, req request_models.CreateTripRequest) (response_models.TripResponse, error) {
	pace := req.Pace
	if pace == "" {
		pace = string(PaceBalanced)
	}
	if _, ok := paceMultiplier(Pace(pace)); !ok {
		return response_models.TripResponse{}, utils.ErrUnknownPace
	}

	trip := &db_models.Trip{
		UserID:     userID,
		Title:      req.Title,
		StartPoint: req.StartPoint,
		EndPoint:   req.EndPoint,
		TripDays:   req.TripDays,
		Pace:       pace,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
	}
	if _, err := s.repo.CreateTrip(ctx, trip); err != nil {
		return response_models.TripResponse{}, utils.ErrDatabaseError
	}
	return toTripResponse(trip), nil
}

func (s *TripService) GetTripByID(ctx context.Context, id string) (response_models.TripResponse, error) {
	trip, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return response_models.TripResponse{}, utils.ErrDatabaseError
	}
	if trip == nil {
		return response_models.TripResponse{}, utils.ErrTripNotFound
	}
	return toTripResponse(trip), nil
}

func (s *TripService) ListTrips(ctx context.Context, userID string, page, pageSize int) ([]response_models.TripResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	trips, err := s.repo.ListByUserID(ctx, page, pageSize, userID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}

	out := make([]response_models.TripResponse, 0, len(trips))
	for i := range trips {
		out = append(out, toTripResponse(&trips[i]))
	}
	return out, nil
}

func toTripResponse(t *db_models.Trip) response_models.TripResponse {
	resp := response_models.TripResponse{
		ID:         t.ID.String(),
		Title:      t.Title,
		StartPoint: t.StartPoint,
		EndPoint:   t.EndPoint,
		TripDays:   t.TripDays,
		Pace:       t.Pace,
		StartDate:  utils.FormatRFC3339(utils.FromUnixSeconds(t.StartDate)),
	}
	if t.EndDate != nil {
		resp.EndDate = utils.FormatRFC3339(utils.FromUnixSeconds(*t.EndDate))
	}
	return resp
}
