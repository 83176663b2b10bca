package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tripweaver/internal/models/request_models"
	"tripweaver/internal/services"
	"tripweaver/pkg/utils"
)

type ItineraryController struct {
	planner   services.PlannerServiceInterface
	optimizer services.OptimizerServiceInterface
}

func NewItineraryController(planner services.PlannerServiceInterface, optimizer services.OptimizerServiceInterface) *ItineraryController {
	return &ItineraryController{
		planner:   planner,
		optimizer: optimizer,
	}
}

// POST /api/v1/itineraries/generate
func (ic *ItineraryController) GenerateHandler(c *gin.Context) {
	var req request_models.GenerateItineraryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	plans, err := ic.planner.GenerateItinerary(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, plans, "Itinerary generated successfully")
}

// POST /api/v1/itineraries/optimize
func (ic *ItineraryController) OptimizeHandler(c *gin.Context) {
	var req request_models.OptimizeItineraryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	plans, err := ic.optimizer.OptimizeItinerary(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, plans, "Itinerary optimized successfully")
}

// GET /api/v1/itineraries/:tripId
func (ic *ItineraryController) GetByTripHandler(c *gin.Context) {
	tripID := c.Param("tripId")
	if tripID == "" {
		utils.RespondError(c, http.StatusBadRequest, "tripId is required")
		return
	}

	plans, err := ic.planner.GetStoredItinerary(c.Request.Context(), tripID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, plans, "")
}
