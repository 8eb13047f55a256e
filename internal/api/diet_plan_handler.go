package api

import (
	"net/http"

	"alcyxob/health-tracker/internal/domain"
	"alcyxob/health-tracker/internal/service"

	"github.com/gin-gonic/gin"
)

// DietPlanHandler exposes the cooldown-gated diet plan timeline.
type DietPlanHandler struct {
	generationService service.GenerationService
}

func NewDietPlanHandler(generationService service.GenerationService) *DietPlanHandler {
	return &DietPlanHandler{generationService: generationService}
}

// GetEligibility handles GET /diet-plans/eligibility
func (h *DietPlanHandler) GetEligibility(c *gin.Context) {
	ownerID, ok := ownerOrAbort(c)
	if !ok {
		return
	}
	e, err := h.generationService.CheckEligibility(c.Request.Context(), ownerID, domain.GenerationDietPlan)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

// RequestDietPlan handles POST /diet-plans. The plan is produced asynchronously.
func (h *DietPlanHandler) RequestDietPlan(c *gin.Context) {
	ownerID, ok := ownerOrAbort(c)
	if !ok {
		return
	}
	rec, err := h.generationService.RequestGeneration(c.Request.Context(), ownerID, domain.GenerationDietPlan)
	reply(c, http.StatusAccepted, rec, err)
}

// GetLatestDietPlan handles GET /diet-plans/latest
func (h *DietPlanHandler) GetLatestDietPlan(c *gin.Context) {
	ownerID, ok := ownerOrAbort(c)
	if !ok {
		return
	}
	rec, err := h.generationService.GetLatest(c.Request.Context(), ownerID, domain.GenerationDietPlan)
	reply(c, http.StatusOK, rec, err)
}
