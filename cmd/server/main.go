package main

import (
	"alcyxob/health-tracker/internal/api"
	"alcyxob/health-tracker/internal/config"
	"alcyxob/health-tracker/internal/dietplan"
	"alcyxob/health-tracker/internal/lock"
	"alcyxob/health-tracker/internal/metrics"
	"alcyxob/health-tracker/internal/repository/mongo"
	"alcyxob/health-tracker/internal/scheduler"
	"alcyxob/health-tracker/internal/service"
	"alcyxob/health-tracker/internal/storage"
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
)

func main() {
	log.Println("Starting Health Tracker Server...")

	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}
	if cfg.JWT.Secret == "" {
		log.Fatalf("FATAL: jwt.secret (JWT_SECRET) must be set")
	}
	log.Println("Configuration loaded.")

	rootCtx, stop := context.WithCancel(context.Background())
	defer stop()

	// --- Database Connection ---
	dbClient, err := mongo.ConnectDB(cfg.Database.URI, cfg.Database.ConnectTimeout)
	if err != nil {
		log.Fatalf("FATAL: Could not connect to MongoDB: %v", err)
	}
	defer func() {
		log.Println("Disconnecting MongoDB...")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			log.Printf("ERROR: Failed to disconnect MongoDB: %v", err)
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	log.Println("Database connection established.")

	// --- Ensure Indexes ---
	// Blocking: the one-pending-generation index must exist before requests arrive.
	indexCtx, cancelIndexes := context.WithTimeout(rootCtx, time.Minute)
	mongo.EnsureIndexes(indexCtx, appDB)
	cancelIndexes()

	// --- Locks ---
	var locker lock.Locker
	if cfg.Redis.Address != "" {
		rdb, err := lock.ConnectRedis(rootCtx, cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatalf("FATAL: Could not connect to Redis: %v", err)
		}
		defer rdb.Close()
		locker = lock.NewRedisLocker(rdb, cfg.Redis.LockTTL, cfg.Redis.LockMaxWait)
		log.Printf("INFO: Using Redis locks at %s", cfg.Redis.Address)
	} else {
		locker = lock.NewMemoryLocker()
		log.Println("WARN: redis.address not set, using in-process locks (single instance only)")
	}

	// --- Initialize Storage ---
	var artifacts storage.ArtifactStorage
	var localArtifacts *storage.MemoryStorage
	if cfg.S3.BucketName != "" {
		artifacts, err = storage.NewS3Storage(rootCtx, cfg.S3)
		if err != nil {
			log.Fatalf("FATAL: Failed to initialize S3 storage: %v", err)
		}
	} else {
		localArtifacts = storage.NewMemoryStorage(publicBaseURL(cfg.Server)+"/artifacts", nil)
		artifacts = localArtifacts
		log.Println("WARN: s3.bucket_name not set, diet plan artifacts are kept in memory")
	}

	// --- Engine & Scheduler ---
	engine, err := metrics.NewEngine(cfg.Metrics.EngineConfig())
	if err != nil {
		log.Fatalf("FATAL: Invalid metrics configuration: %v", err)
	}
	sched := scheduler.New(cfg.Generation.Cooldown, nil)

	// --- Initialize Repositories ---
	bodyStatusRepo := mongo.NewMongoBodyStatusRepository(appDB)
	calorieRepo := mongo.NewMongoCalorieRepository(appDB)
	waterRepo := mongo.NewMongoWaterRepository(appDB)
	sleepRepo := mongo.NewMongoSleepRepository(appDB)
	workoutRepo := mongo.NewMongoWorkoutRepository(appDB)
	generationRepo := mongo.NewMongoGenerationRepository(appDB)

	// --- Initialize Services ---
	trackerOpts := service.TrackerOptions{
		HistoryDays: cfg.Metrics.HistoryDays,
		Defaults: service.DefaultTargets{
			Calories:       cfg.Metrics.DefaultTargets.Calories,
			WaterMl:        cfg.Metrics.DefaultTargets.WaterMl,
			SleepHours:     cfg.Metrics.DefaultTargets.SleepHours,
			WorkoutMinutes: cfg.Metrics.DefaultTargets.WorkoutMinutes,
		},
	}
	services := api.Services{
		BodyStatus: service.NewBodyStatusService(bodyStatusRepo, engine),
		Trackers:   service.NewTrackerService(calorieRepo, waterRepo, sleepRepo, engine, locker, trackerOpts),
		Workouts:   service.NewWorkoutService(workoutRepo, engine, locker, trackerOpts),
		Generation: service.NewGenerationService(generationRepo, sched, locker, artifacts, cfg.Generation.ArtifactURLExpiry),
	}
	if localArtifacts != nil {
		services.Artifacts = localArtifacts
	}

	// --- Generation Worker ---
	workerDone := make(chan struct{})
	if cfg.Generation.WorkerEnabled {
		worker := dietplan.NewWorker(generationRepo, bodyStatusRepo, sched, dietplan.NewGenerator(engine.Conversion()),
			artifacts, locker, dietplan.WorkerConfig{
				PollInterval: cfg.Generation.PollInterval,
				BatchSize:    cfg.Generation.BatchSize,
				MaxAttempts:  cfg.Generation.MaxAttempts,
			})
		go func() {
			defer close(workerDone)
			worker.Run(rootCtx)
		}()
	} else {
		close(workerDone)
		log.Println("WARN: generation.worker_enabled is false, diet plan requests stay pending until a worker instance processes them")
	}

	// --- Initialize Gin Engine ---
	gin.SetMode(cfg.Server.Mode)
	router := gin.Default() // Includes Logger and Recovery middleware
	api.SetupRoutes(router, cfg.JWT.Secret, cfg.Server.Cors.AllowedOrigins, services)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("Server starting on %s", cfg.Server.Address)

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("FATAL: ListenAndServe Error: %v", err)
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Printf("ERROR: Server forced to shutdown: %v", err)
	}
	stop()
	<-workerDone

	log.Println("Server exiting.")
}

// publicBaseURL is where clients reach this server.
func publicBaseURL(cfg config.ServerConfig) string {
	if cfg.PublicURL != "" {
		return strings.TrimSuffix(cfg.PublicURL, "/")
	}
	if strings.HasPrefix(cfg.Address, ":") {
		return "http://localhost" + cfg.Address
	}
	return "http://" + cfg.Address
}
