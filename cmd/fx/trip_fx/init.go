package trip_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"tripweaver/internal/api/controllers"
	"tripweaver/internal/repositories"
	"tripweaver/internal/services"
)

var Module = fx.Provide(
	ProvideTripRepository,
	ProvideTripService,
	ProvideTripController)

func ProvideTripRepository(db *gorm.DB) repositories.TripRepository {
	return repositories.NewTripRepository(db)
}

func ProvideTripService(repo repositories.TripRepository) services.TripServiceInterface {
	return services.NewTripService(repo)
}

func ProvideTripController(tripService services.TripServiceInterface) *controllers.TripController {
	return controllers.NewTripController(tripService)
}
