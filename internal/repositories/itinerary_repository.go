package repositories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"tripweaver/internal/models/db_models"
)

type ItineraryRepository interface {
	// ReplaceItinerary drops every stored day of the trip and writes the new
	// ones in a single transaction; a regeneration is a full rebuild.
	ReplaceItinerary(ctx context.Context, tripID uuid.UUID, days []db_models.ItineraryDay) error

	GetByTripID(ctx context.Context, tripID string) ([]db_models.ItineraryDay, error)
}

type itineraryRepository struct {
	db *gorm.DB
}

func NewItineraryRepository(db *gorm.DB) ItineraryRepository {
	return &itineraryRepository{db: db}
}

func (r *itineraryRepository) ReplaceItinerary(ctx context.Context, tripID uuid.UUID, days []db_models.ItineraryDay) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var oldDayIDs []uuid.UUID
		if err := tx.Model(&db_models.ItineraryDay{}).
			Where("trip_id = ?", tripID).
			Pluck("id", &oldDayIDs).Error; err != nil {
			return err
		}

		if len(oldDayIDs) > 0 {
			if err := tx.Where("day_id IN ?", oldDayIDs).
				Delete(&db_models.ScheduledStop{}).Error; err != nil {
				return err
			}
			if err := tx.Where("trip_id = ?", tripID).
				Delete(&db_models.ItineraryDay{}).Error; err != nil {
				return err
			}
		}

		for i := range days {
			days[i].TripID = tripID
			if err := tx.Create(&days[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *itineraryRepository) GetByTripID(ctx context.Context, tripID string) ([]db_models.ItineraryDay, error) {
	var days []db_models.ItineraryDay
	err := r.db.WithContext(ctx).
		Preload("Stops", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("trip_id = ?", tripID).
		Order("day_index ASC").
		Find(&days).Error
	if err != nil {
		return nil, err
	}
	return days, nil
}
