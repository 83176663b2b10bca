package place_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"tripweaver/internal/api/controllers"
	"tripweaver/internal/repositories"
	"tripweaver/internal/services"
	"tripweaver/pkg/utils"
)

var Module = fx.Provide(
	ProvidePlaceRepository,
	ProvidePlaceService,
	ProvidePlaceController)

func ProvidePlaceRepository(db *gorm.DB) repositories.PlaceRepository {
	return repositories.NewPlaceRepository(db)
}

func ProvidePlaceService(
	repo repositories.PlaceRepository,
	embedding utils.EmbeddingClientInterface,
) services.PlaceServiceInterface {
	return services.NewPlaceService(repo, embedding)
}

func ProvidePlaceController(placeService services.PlaceServiceInterface) *controllers.PlaceController {
	return controllers.NewPlaceController(placeService)
}
