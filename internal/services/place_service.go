package services

import (
	"context"
	"fmt"
	"log"

	"tripweaver/internal/models/db_models"
	"tripweaver/internal/models/request_models"
	"tripweaver/internal/models/response_models"
	"tripweaver/internal/repositories"
	"tripweaver/pkg/utils"
)

type PlaceServiceInterface interface {
	CreatePlace(ctx context.Context, req request_models.CreatePlaceRequest) (response_models.PlaceResponse, error)
	GetPlaceByID(ctx context.Context, id string) (response_models.PlaceResponse, error)
	ListPlaces(ctx context.Context, page, pageSize int) ([]response_models.PlaceResponse, error)
	SearchPlaces(ctx context.Context, req request_models.SearchPlacesRequest) ([]response_models.PlaceResponse, error)
}

type PlaceService struct {
	repo      repositories.PlaceRepository
	embedding utils.EmbeddingClientInterface
}

func NewPlaceService(repo repositories.PlaceRepository, embedding utils.EmbeddingClientInterface) PlaceServiceInterface {
	return &PlaceService{repo: repo, embedding: embedding}
}

func (s *PlaceService) CreatePlace(ctx context.Context, req request_models.CreatePlaceRequest) (response_models.PlaceResponse, error) {
	place := &db_models.Place{
		Name:      req.Name,
		Address:   req.Address,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		Rating:    req.Rating,
		Notes:     req.Notes,
	}

	// Embed name + address so free-text search can match either.
	if s.embedding != nil {
		vec, err := s.embedding.GetEmbedding(ctx, fmt.Sprintf("%s %s %s", req.Name, req.Address, req.Notes))
		if err != nil {
			log.Printf("Failed to embed place %q: %v", req.Name, err)
		} else {
			place.Embedding = vec
		}
	}

	if _, err := s.repo.CreatePlace(ctx, place); err != nil {
		return response_models.PlaceResponse{}, utils.ErrDatabaseError
	}
	return toPlaceResponse(place), nil
}

func (s *PlaceService) GetPlaceByID(ctx context.Context, id string) (response_models.PlaceResponse, error) {
	place, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return response_models.PlaceResponse{}, utils.ErrDatabaseError
	}
	if place == nil {
		return response_models.PlaceResponse{}, utils.ErrPlaceNotFound
	}
	return toPlaceResponse(place), nil
}

func (s *PlaceService) ListPlaces(ctx context.Context, page, pageSize int) ([]response_models.PlaceResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	places, err := s.repo.List(ctx, page, pageSize)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	return toPlaceResponses(places), nil
}

func (s *PlaceService) SearchPlaces(ctx context.Context, req request_models.SearchPlacesRequest) ([]response_models.PlaceResponse, error) {
	if req.Query == "" {
		return nil, utils.ErrInvalidInput
	}
	vec, err := s.embedding.GetEmbedding(ctx, req.Query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	places, err := s.repo.SearchByVector(ctx, vec, req.Limit)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	return toPlaceResponses(places), nil
}

func toPlaceResponse(p *db_models.Place) response_models.PlaceResponse {
	return response_models.PlaceResponse{
		ID:        p.ID.String(),
		Name:      p.Name,
		Address:   p.DisplayAddress(),
		Latitude:  p.Latitude,
		Longitude: p.Longitude,
		Rating:    p.Rating,
		Notes:     p.Notes,
	}
}

func toPlaceResponses(places []db_models.Place) []response_models.PlaceResponse {
	out := make([]response_models.PlaceResponse, 0, len(places))
	for i := range places {
		out = append(out, toPlaceResponse(&places[i]))
	}
	return out
}
