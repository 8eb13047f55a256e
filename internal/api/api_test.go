package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"alcyxob/health-tracker/internal/domain"
	"alcyxob/health-tracker/internal/lock"
	"alcyxob/health-tracker/internal/metrics"
	"alcyxob/health-tracker/internal/repository/memory"
	"alcyxob/health-tracker/internal/scheduler"
	"alcyxob/health-tracker/internal/service"
	"alcyxob/health-tracker/internal/storage"
)

const testSecret = "test-secret"

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	engine, err := metrics.NewEngine(metrics.DefaultConfig())
	require.NoError(t, err)
	locker := lock.NewMemoryLocker()
	opts := service.TrackerOptions{
		HistoryDays: 30,
		Defaults:    service.DefaultTargets{Calories: 2000, WaterMl: 2000, SleepHours: 8, WorkoutMinutes: 30},
	}
	services := Services{
		BodyStatus: service.NewBodyStatusService(memory.NewBodyStatusRepository(), engine),
		Trackers: service.NewTrackerService(memory.NewCalorieRepository(), memory.NewWaterRepository(),
			memory.NewSleepRepository(), engine, locker, opts),
		Workouts: service.NewWorkoutService(memory.NewWorkoutRepository(), engine, locker, opts),
		Generation: service.NewGenerationService(memory.NewGenerationRepository(),
			scheduler.New(scheduler.DefaultCooldown, nil), locker, storage.NewMemoryStorage("http://local", nil), time.Minute),
	}

	router := gin.New()
	SetupRoutes(router, testSecret, []string{"http://localhost:3000"}, services)
	return router
}

func signToken(t *testing.T, secret, uid string, expiresIn time.Duration) string {
	t.Helper()
	claims := jwtClaims{
		UserID: uid,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func doRequest(router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestPingIsPublic(t *testing.T) {
	router := newTestRouter(t)
	w := doRequest(router, http.MethodGet, "/ping", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthMiddleware(t *testing.T) {
	router := newTestRouter(t)
	owner := primitive.NewObjectID().Hex()

	tests := []struct {
		name  string
		token string
		code  int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"wrong secret", signToken(t, "other", owner, time.Hour), http.StatusUnauthorized},
		{"expired", signToken(t, testSecret, owner, -time.Hour), http.StatusUnauthorized},
		{"not an object id", signToken(t, testSecret, "alice", time.Hour), http.StatusUnauthorized},
		{"valid", signToken(t, testSecret, owner, time.Hour), http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(router, http.MethodGet, "/api/v1/diet-plans/eligibility", tt.token, nil)
			assert.Equal(t, tt.code, w.Code, w.Body.String())
		})
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/body-status", nil)
	req.Header.Set("Authorization", "Token abc")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBodyStatusEndpoints(t *testing.T) {
	router := newTestRouter(t)
	token := signToken(t, testSecret, primitive.NewObjectID().Hex(), time.Hour)

	w := doRequest(router, http.MethodGet, "/api/v1/body-status/latest", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(router, http.MethodPost, "/api/v1/body-status", token, gin.H{
		"age":    28,
		"gender": "female",
		"height": gin.H{"value": 165, "unit": "cm"},
		"weight": gin.H{"value": 50, "unit": "kg"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[domain.BodyStatus](t, w)
	require.NotNil(t, created.BMI)
	assert.Equal(t, 18.37, created.BMI.Value)
	assert.Equal(t, "Underweight", created.BMI.Category)

	w = doRequest(router, http.MethodPost, "/api/v1/body-status", token, gin.H{
		"height": gin.H{"value": 165, "unit": "inch"},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(router, http.MethodGet, "/api/v1/body-status", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]domain.BodyStatus](t, w), 1)

	w = doRequest(router, http.MethodDelete, "/api/v1/body-status/"+created.ID.Hex(), token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = doRequest(router, http.MethodDelete, "/api/v1/body-status/"+created.ID.Hex(), token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = doRequest(router, http.MethodDelete, "/api/v1/body-status/not-an-id", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCalorieEndpoints(t *testing.T) {
	router := newTestRouter(t)
	token := signToken(t, testSecret, primitive.NewObjectID().Hex(), time.Hour)

	w := doRequest(router, http.MethodPut, "/api/v1/calories/2024-05-01/sources/workout", token, gin.H{"value": 1600})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	rec := decode[domain.CalorieRecord](t, w)
	assert.Equal(t, 80, rec.ProgressPercentage)
	assert.Equal(t, "On Track", rec.Status)

	w = doRequest(router, http.MethodPut, "/api/v1/calories/2024-05-01/target", token, gin.H{"target": 1600})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Above Target", decode[domain.CalorieRecord](t, w).Status)

	w = doRequest(router, http.MethodGet, "/api/v1/calories/2024-05-01", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1600.0, decode[domain.CalorieRecord](t, w).CurrentCalories)

	w = doRequest(router, http.MethodPut, "/api/v1/calories/2024-05-01/sources/snacks", token, gin.H{"value": 10})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = doRequest(router, http.MethodPut, "/api/v1/calories/2024-05-01/target", token, gin.H{"target": 0})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = doRequest(router, http.MethodGet, "/api/v1/calories/05-01-2024", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = doRequest(router, http.MethodGet, "/api/v1/calories/2024-05-02", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestWaterSleepWorkoutEndpoints(t *testing.T) {
	router := newTestRouter(t)
	token := signToken(t, testSecret, primitive.NewObjectID().Hex(), time.Hour)

	w := doRequest(router, http.MethodPost, "/api/v1/water/2024-05-01/intakes", token, gin.H{"amountMl": 1000})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	water := decode[domain.WaterRecord](t, w)
	assert.Equal(t, "Mildly dehydrated", water.Status)
	assert.Equal(t, 4, water.GlassesConsumed)

	w = doRequest(router, http.MethodPut, "/api/v1/water/2024-05-01/target", token, gin.H{"target": 1000})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Hydrated", decode[domain.WaterRecord](t, w).Status)

	w = doRequest(router, http.MethodGet, "/api/v1/water/2024-05-01", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(router, http.MethodPut, "/api/v1/sleep/2024-05-01", token, gin.H{"hoursSlept": 5})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Sleep Deprived", decode[domain.SleepRecord](t, w).Status)

	w = doRequest(router, http.MethodGet, "/api/v1/sleep/2024-05-01", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(router, http.MethodPost, "/api/v1/workouts/2024-05-01/entries", token, gin.H{
		"workoutType": "cycling", "duration": 15, "calories": 120, "distance": gin.H{"value": 6, "unit": "km"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	workout := decode[domain.WorkoutRecord](t, w)
	assert.Equal(t, 50, workout.ProgressPercentage)
	assert.Equal(t, "In Progress", workout.Status)
	assert.Equal(t, 1, workout.Streak)

	w = doRequest(router, http.MethodPut, "/api/v1/workouts/2024-05-01/target", token, gin.H{"target": 15})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Goal Met", decode[domain.WorkoutRecord](t, w).Status)

	w = doRequest(router, http.MethodPost, "/api/v1/workouts/2024-05-01/entries", token, gin.H{"workoutType": "cycling"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(router, http.MethodGet, "/api/v1/workouts/2024-05-02", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDietPlanEndpoints(t *testing.T) {
	router := newTestRouter(t)
	token := signToken(t, testSecret, primitive.NewObjectID().Hex(), time.Hour)

	w := doRequest(router, http.MethodGet, "/api/v1/diet-plans/eligibility", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	e := decode[scheduler.Eligibility](t, w)
	assert.True(t, e.CanGenerate)
	assert.Equal(t, scheduler.StateNoHistory, e.State)

	w = doRequest(router, http.MethodGet, "/api/v1/diet-plans/latest", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(router, http.MethodPost, "/api/v1/diet-plans", token, nil)
	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())
	rec := decode[domain.GenerationRecord](t, w)
	assert.Equal(t, domain.GenerationPending, rec.Status)

	w = doRequest(router, http.MethodPost, "/api/v1/diet-plans", token, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doRequest(router, http.MethodGet, "/api/v1/diet-plans/eligibility", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	e = decode[scheduler.Eligibility](t, w)
	assert.False(t, e.CanGenerate)
	assert.Equal(t, 15, e.RemainingDays)

	w = doRequest(router, http.MethodGet, "/api/v1/diet-plans/latest", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, rec.ID, decode[domain.GenerationRecord](t, w).ID)
}

func TestArtifactLinksAreServed(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctx := context.Background()
	store := storage.NewMemoryStorage("http://localhost:8080/artifacts", nil)
	router := gin.New()
	SetupRoutes(router, testSecret, nil, Services{Artifacts: store})

	key := storage.ArtifactKey(primitive.NewObjectID().Hex(), "diet_plan", "json")
	require.NoError(t, store.PutObject(ctx, key, "application/json", []byte(`{"dailyCalories":2000}`)))
	link, err := store.GeneratePresignedDownloadURL(ctx, key, time.Minute)
	require.NoError(t, err)
	u, err := url.Parse(link)
	require.NoError(t, err)

	w := doRequest(router, http.MethodGet, u.RequestURI(), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"dailyCalories":2000}`, w.Body.String())

	w = doRequest(router, http.MethodGet, "/artifacts/"+key+"?expires=1", "", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doRequest(router, http.MethodGet, "/artifacts/"+key, "", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doRequest(router, http.MethodGet, "/artifacts/generations/missing.json?"+u.RawQuery, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestArtifactRouteNeedsLocalStore(t *testing.T) {
	router := newTestRouter(t)
	w := doRequest(router, http.MethodGet, "/artifacts/generations/x.json?expires=9999999999", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
