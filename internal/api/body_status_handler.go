package api

import (
	"net/http"
	"strconv"
	"time"

	"alcyxob/health-tracker/internal/domain"
	"alcyxob/health-tracker/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BodyStatusHandler serves body measurement snapshots.
type BodyStatusHandler struct {
	bodyStatusService service.BodyStatusService
}

func NewBodyStatusHandler(bodyStatusService service.BodyStatusService) *BodyStatusHandler {
	return &BodyStatusHandler{bodyStatusService: bodyStatusService}
}

// --- DTOs ---

// RecordBodyStatusRequest is a new snapshot. BMI is never accepted from clients.
type RecordBodyStatusRequest struct {
	Age             *int                     `json:"age" binding:"omitempty,min=1,max=130"`
	Gender          string                   `json:"gender" binding:"omitempty,oneof=male female other"`
	ActivityLevel   string                   `json:"activityLevel" binding:"omitempty,oneof=sedentary light moderate active very_active"`
	Height          *domain.Measurement      `json:"height"`
	Weight          *domain.Measurement      `json:"weight"`
	Measurements    *domain.BodyMeasurements `json:"measurements"`
	BodyFat         *float64                 `json:"bodyFat"`
	MeasurementDate *time.Time               `json:"measurementDate"`
}

// --- Handler Methods ---

// RecordBodyStatus handles POST /body-status
func (h *BodyStatusHandler) RecordBodyStatus(c *gin.Context) {
	var req RecordBodyStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	ownerID, ok := ownerOrAbort(c)
	if !ok {
		return
	}

	status := domain.BodyStatus{
		Age:           req.Age,
		Gender:        req.Gender,
		ActivityLevel: req.ActivityLevel,
		Height:        req.Height,
		Weight:        req.Weight,
		Measurements:  req.Measurements,
		BodyFat:       req.BodyFat,
	}
	if req.MeasurementDate != nil {
		status.MeasurementDate = req.MeasurementDate.UTC()
	}

	created, err := h.bodyStatusService.RecordBodyStatus(c.Request.Context(), ownerID, status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// ListBodyStatus handles GET /body-status?limit=N
func (h *BodyStatusHandler) ListBodyStatus(c *gin.Context) {
	ownerID, ok := ownerOrAbort(c)
	if !ok {
		return
	}
	var limit int64
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed < 1 {
			abortWithError(c, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	statuses, err := h.bodyStatusService.ListHistory(c.Request.Context(), ownerID, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, statuses)
}

// GetLatestBodyStatus handles GET /body-status/latest
func (h *BodyStatusHandler) GetLatestBodyStatus(c *gin.Context) {
	ownerID, ok := ownerOrAbort(c)
	if !ok {
		return
	}
	status, err := h.bodyStatusService.GetLatest(c.Request.Context(), ownerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

// DeleteBodyStatus handles DELETE /body-status/:id
func (h *BodyStatusHandler) DeleteBodyStatus(c *gin.Context) {
	ownerID, ok := ownerOrAbort(c)
	if !ok {
		return
	}
	statusID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid body status ID format")
		return
	}
	if err := h.bodyStatusService.DeleteBodyStatus(c.Request.Context(), ownerID, statusID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
