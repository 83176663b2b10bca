package planner_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"tripweaver/internal/api/controllers"
	"tripweaver/internal/repositories"
	"tripweaver/internal/services"
	"tripweaver/pkg/memcache"
	"tripweaver/pkg/utils"
)

var Module = fx.Provide(
	ProvideItineraryRepository,
	ProvidePlanCache,
	ProvideDistanceMatrix,
	ProvideOptimizerService,
	ProvidePlannerService,
	ProvideItineraryController)

func ProvideItineraryRepository(db *gorm.DB) repositories.ItineraryRepository {
	return repositories.NewItineraryRepository(db)
}

func ProvidePlanCache() memcache.PlanCacheStore {
	return memcache.NewPlanCache()
}

func ProvideDistanceMatrix() services.DistanceMatrixService {
	return services.NewHaversineMatrixClient(services.NewInMemoryPairCache())
}

func ProvideOptimizerService(matrix services.DistanceMatrixService) services.OptimizerServiceInterface {
	return services.NewOptimizerService(matrix)
}

func ProvidePlannerService(
	generator utils.ItineraryGeneratorInterface,
	trips repositories.TripRepository,
	itins repositories.ItineraryRepository,
	cache memcache.PlanCacheStore,
) services.PlannerServiceInterface {
	return services.NewPlannerService(generator, trips, itins, cache)
}

func ProvideItineraryController(
	planner services.PlannerServiceInterface,
	optimizer services.OptimizerServiceInterface,
) *controllers.ItineraryController {
	return controllers.NewItineraryController(planner, optimizer)
}
