package api

import (
	"net/http"
	"time"

	"alcyxob/health-tracker/internal/domain"
	"alcyxob/health-tracker/internal/service"

	"github.com/gin-gonic/gin"
)

// TrackerHandler serves the calorie, water, sleep and workout day endpoints.
type TrackerHandler struct {
	trackerService service.TrackerService
	workoutService service.WorkoutService
}

func NewTrackerHandler(trackerService service.TrackerService, workoutService service.WorkoutService) *TrackerHandler {
	return &TrackerHandler{trackerService: trackerService, workoutService: workoutService}
}

// --- DTOs ---

type ValueRequest struct {
	Value *float64 `json:"value" binding:"required"`
}

type TargetRequest struct {
	Target *float64 `json:"target" binding:"required,gt=0"`
}

type WaterIntakeRequest struct {
	AmountMl *float64  `json:"amountMl" binding:"required,gt=0"`
	LoggedAt time.Time `json:"loggedAt"`
}

type SleepRequest struct {
	HoursSlept  *float64   `json:"hoursSlept"`
	BedTime     *time.Time `json:"bedTime"`
	WakeTime    *time.Time `json:"wakeTime"`
	Quality     *int       `json:"quality"`
	TargetHours *float64   `json:"targetHours"`
}

type WorkoutEntryRequest struct {
	WorkoutType string              `json:"workoutType" binding:"required"`
	Intensity   string              `json:"intensity" binding:"omitempty,oneof=low medium high"`
	Distance    *domain.Measurement `json:"distance"`
	Duration    *float64            `json:"duration" binding:"required,gt=0"`
	Calories    float64             `json:"calories" binding:"gte=0"`
	Date        time.Time           `json:"date"`
}

// bindOrAbort binds the JSON body into req.
func bindOrAbort(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return false
	}
	return true
}

// reply writes a record or maps err.
func reply[T any](c *gin.Context, code int, rec *T, err error) {
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(code, rec)
}

// --- Calories ---

// SetCalorieSource handles PUT /calories/:date/sources/:source
func (h *TrackerHandler) SetCalorieSource(c *gin.Context) {
	var req ValueRequest
	if !bindOrAbort(c, &req) {
		return
	}
	ownerID, ok := ownerOrAbort(c)
	if !ok {
		return
	}
	day, ok := dateParam(c)
	if !ok {
		return
	}
	rec, err := h.trackerService.SetCalorieSource(c.Request.Context(), ownerID, day, c.Param("source"), *req.Value)
	reply(c, http.StatusOK, rec, err)
}

// SetCalorieTarget handles PUT /calories/:date/target
func (h *TrackerHandler) SetCalorieTarget(c *gin.Context) {
	var req TargetRequest
	if !bindOrAbort(c, &req) {
		return
	}
	ownerID, ok := ownerOrAbort(c)
	if !ok {
		return
	}
	day, ok := dateParam(c)
	if !ok {
		return
	}
	rec, err := h.trackerService.SetCalorieTarget(c.Request.Context(), ownerID, day, *req.Target)
	reply(c, http.StatusOK, rec, err)
}

// GetCalories handles GET /calories/:date
func (h *TrackerHandler) GetCalories(c *gin.Context) {
	ownerID, ok := ownerOrAbort(c)
	if !ok {
		return
	}
	day, ok := dateParam(c)
	if !ok {
		return
	}
	rec, err := h.trackerService.GetCalories(c.Request.Context(), ownerID, day)
	reply(c, http.StatusOK, rec, err)
}

// --- Water ---

// AddWaterIntake handles POST /water/:date/intakes
func (h *TrackerHandler) AddWaterIntake(c *gin.Context) {
	var req WaterIntakeRequest
	if !bindOrAbort(c, &req) {
		return
	}
	ownerID, ok := ownerOrAbort(c)
	if !ok {
		return
	}
	day, ok := dateParam(c)
	if !ok {
		return
	}
	rec, err := h.trackerService.AddWaterIntake(c.Request.Context(), ownerID, day, *req.AmountMl, req.LoggedAt.UTC())
	reply(c, http.StatusCreated, rec, err)
}

// SetWaterTarget handles PUT /water/:date/target
func (h *TrackerHandler) SetWaterTarget(c *gin.Context) {
	var req TargetRequest
	if !bindOrAbort(c, &req) {
		return
	}
	ownerID, ok := ownerOrAbort(c)
	if !ok {
		return
	}
	day, ok := dateParam(c)
	if !ok {
		return
	}
	rec, err := h.trackerService.SetWaterTarget(c.Request.Context(), ownerID, day, *req.Target)
	reply(c, http.StatusOK, rec, err)
}

// GetWater handles GET /water/:date
func (h *TrackerHandler) GetWater(c *gin.Context) {
	ownerID, ok := ownerOrAbort(c)
	if !ok {
		return
	}
	day, ok := dateParam(c)
	if !ok {
		return
	}
	rec, err := h.trackerService.GetWater(c.Request.Context(), ownerID, day)
	reply(c, http.StatusOK, rec, err)
}

// --- Sleep ---

// LogSleep handles PUT /sleep/:date
func (h *TrackerHandler) LogSleep(c *gin.Context) {
	var req SleepRequest
	if !bindOrAbort(c, &req) {
		return
	}
	ownerID, ok := ownerOrAbort(c)
	if !ok {
		return
	}
	day, ok := dateParam(c)
	if !ok {
		return
	}
	rec, err := h.trackerService.LogSleep(c.Request.Context(), ownerID, day, service.SleepInput{
		HoursSlept:  req.HoursSlept,
		BedTime:     req.BedTime,
		WakeTime:    req.WakeTime,
		Quality:     req.Quality,
		TargetHours: req.TargetHours,
	})
	reply(c, http.StatusOK, rec, err)
}

// GetSleep handles GET /sleep/:date
func (h *TrackerHandler) GetSleep(c *gin.Context) {
	ownerID, ok := ownerOrAbort(c)
	if !ok {
		return
	}
	day, ok := dateParam(c)
	if !ok {
		return
	}
	rec, err := h.trackerService.GetSleep(c.Request.Context(), ownerID, day)
	reply(c, http.StatusOK, rec, err)
}

// --- Workouts ---

// AddWorkoutEntry handles POST /workouts/:date/entries
func (h *TrackerHandler) AddWorkoutEntry(c *gin.Context) {
	var req WorkoutEntryRequest
	if !bindOrAbort(c, &req) {
		return
	}
	ownerID, ok := ownerOrAbort(c)
	if !ok {
		return
	}
	day, ok := dateParam(c)
	if !ok {
		return
	}
	entry := domain.WorkoutEntry{
		Type:      req.WorkoutType,
		Intensity: req.Intensity,
		Distance:  req.Distance,
		Duration:  *req.Duration,
		Calories:  req.Calories,
		Date:      req.Date.UTC(),
	}
	rec, err := h.workoutService.AddWorkoutEntry(c.Request.Context(), ownerID, day, entry)
	reply(c, http.StatusCreated, rec, err)
}

// SetWorkoutTarget handles PUT /workouts/:date/target
func (h *TrackerHandler) SetWorkoutTarget(c *gin.Context) {
	var req TargetRequest
	if !bindOrAbort(c, &req) {
		return
	}
	ownerID, ok := ownerOrAbort(c)
	if !ok {
		return
	}
	day, ok := dateParam(c)
	if !ok {
		return
	}
	rec, err := h.workoutService.SetWorkoutTarget(c.Request.Context(), ownerID, day, *req.Target)
	reply(c, http.StatusOK, rec, err)
}

// GetWorkouts handles GET /workouts/:date
func (h *TrackerHandler) GetWorkouts(c *gin.Context) {
	ownerID, ok := ownerOrAbort(c)
	if !ok {
		return
	}
	day, ok := dateParam(c)
	if !ok {
		return
	}
	rec, err := h.workoutService.GetWorkouts(c.Request.Context(), ownerID, day)
	reply(c, http.StatusOK, rec, err)
}
