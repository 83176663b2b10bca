package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/fx"

	"tripweaver/cmd/fx/db_fx"
	"tripweaver/cmd/fx/generator_fx"
	"tripweaver/cmd/fx/place_fx"
	"tripweaver/cmd/fx/planner_fx"
	"tripweaver/cmd/fx/trip_fx"
	"tripweaver/internal/api/controllers"
	"tripweaver/pkg/middleware"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	app := fx.New(
		db_fx.Module,
		generator_fx.Module,
		place_fx.Module,
		trip_fx.Module,
		planner_fx.Module,

		fx.Provide(ProvideRouter),
		fx.Invoke(StartServer),
	)

	app.Run()
}

func StartServer(lc fx.Lifecycle, engine *gin.Engine) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				port := os.Getenv("PORT")
				if port == "" {
					port = "8080"
				}
				log.Printf("Starting HTTP server on :%s", port)
				if err := engine.Run(":" + port); err != nil {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Println("Stopping HTTP server")
			return nil
		},
	})
}

func ProvideRouter(
	itineraryController *controllers.ItineraryController,
	placeController *controllers.PlaceController,
	tripController *controllers.TripController) *gin.Engine {

	r := gin.Default()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(middleware.TraceIDMiddleware())
	r.Use(middleware.CORSMiddleware())

	RegisterRoutes(r, itineraryController, placeController, tripController)

	return r
}

func RegisterRoutes(r *gin.Engine,
	itineraryController *controllers.ItineraryController,
	placeController *controllers.PlaceController,
	tripController *controllers.TripController) {

	v1 := r.Group("/api/v1")

	itineraries := v1.Group("/itineraries")
	itineraries.POST("/generate", itineraryController.GenerateHandler)
	itineraries.POST("/optimize", itineraryController.OptimizeHandler)
	itineraries.GET("/:tripId", itineraryController.GetByTripHandler)

	places := v1.Group("/places")
	places.POST("", placeController.CreateHandler)
	places.GET("", placeController.ListHandler)
	places.GET("/:id", placeController.GetByIDHandler)
	places.POST("/search", placeController.SearchHandler)

	trips := v1.Group("/trips", middleware.JWTAuthMiddleware())
	trips.POST("", tripController.CreateHandler)
	trips.GET("", tripController.ListHandler)
	trips.GET("/:tripId", tripController.GetByIDHandler)
}
