package api

import (
	"errors"
	"log"
	"net/http"
	"time"

	"alcyxob/health-tracker/internal/lock"
	"alcyxob/health-tracker/internal/metrics"
	"alcyxob/health-tracker/internal/scheduler"
	"alcyxob/health-tracker/internal/service"

	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

// respondError maps service and engine errors to HTTP responses.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrValidationFailed),
		errors.Is(err, service.ErrUnknownCalorieSource),
		errors.Is(err, metrics.ErrInvalidUnit),
		errors.Is(err, metrics.ErrMissingRequiredMeasurement),
		errors.Is(err, metrics.ErrDivisionByZeroTarget):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrRecordNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrCoolingDown):
		abortWithError(c, http.StatusTooManyRequests, err.Error())
	case errors.Is(err, service.ErrGenerationInProgress),
		errors.Is(err, scheduler.ErrStaleEligibilityCheck):
		abortWithError(c, http.StatusConflict, err.Error())
	case errors.Is(err, lock.ErrLockTimeout):
		abortWithError(c, http.StatusServiceUnavailable, "Resource is busy, please retry.")
	default:
		log.Printf("ERROR: %s %s: %v", c.Request.Method, c.FullPath(), err)
		abortWithError(c, http.StatusInternalServerError, "Internal server error")
	}
}

// dateParam parses the :date path segment (YYYY-MM-DD) or aborts with 400.
func dateParam(c *gin.Context) (time.Time, bool) {
	d, err := time.Parse(dateLayout, c.Param("date"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
		return time.Time{}, false
	}
	return d, true
}
