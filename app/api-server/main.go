package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/futureforceai/careerprep/config"
	"github.com/futureforceai/careerprep/internal/api/handlers"
	"github.com/futureforceai/careerprep/internal/api/middleware"
	"github.com/futureforceai/careerprep/internal/api/routes"
	"github.com/futureforceai/careerprep/internal/cache"
	"github.com/futureforceai/careerprep/internal/clients/aibackend"
	"github.com/futureforceai/careerprep/internal/engine"
	"github.com/futureforceai/careerprep/internal/logger"
	"github.com/futureforceai/careerprep/internal/models"
	"github.com/futureforceai/careerprep/internal/providers/llm"
	mongorepo "github.com/futureforceai/careerprep/internal/repositories/mongo"
	pgrepo "github.com/futureforceai/careerprep/internal/repositories/postgres"
	"github.com/futureforceai/careerprep/internal/services"
	"github.com/futureforceai/careerprep/internal/storage"
	"github.com/futureforceai/careerprep/internal/workers"
)

func main() {
	_ = godotenv.Load()

	logg := logger.New()
	ctx := context.Background()

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET environment variable is not set")
	}

	// MongoDB (conversations, CV metadata)
	mongoClient, err := config.OpenMongo(ctx)
	if err != nil {
		log.Fatalf("MongoDB init error: %v", err)
	}
	mongoDB := config.MongoDatabase(mongoClient)
	if err := config.EnsureMongoIndexes(ctx, mongoDB); err != nil {
		log.Fatalf("MongoDB index error: %v", err)
	}
	logg.Info("MongoDB connected")

	// PostgreSQL (users, profiles)
	pg, err := config.OpenPostgres()
	if err != nil {
		log.Fatalf("PostgreSQL init error: %v", err)
	}
	if err := pg.AutoMigrate(&models.User{}, &models.Profile{}); err != nil {
		log.Fatalf("PostgreSQL migrate error: %v", err)
	}
	logg.Info("PostgreSQL connected")

	// Redis (cache + extraction queue)
	rdb, err := config.OpenRedis(ctx)
	if err != nil {
		log.Fatalf("Redis init error: %v", err)
	}
	logg.Info("Redis connected")

	// File storage
	var store storage.Store
	switch os.Getenv("STORAGE_BACKEND") {
	case "gcs":
		bucket := os.Getenv("GCS_BUCKET")
		if bucket == "" {
			log.Fatal("GCS_BUCKET environment variable is not set")
		}
		gcs, gerr := storage.NewGCSStore(ctx, bucket)
		if gerr != nil {
			log.Fatalf("GCS init error: %v", gerr)
		}
		defer gcs.Close()
		store = gcs
	default:
		local, lerr := storage.NewLocalStore(os.Getenv("UPLOAD_DIR"))
		if lerr != nil {
			log.Fatalf("local storage init error: %v", lerr)
		}
		store = local
	}

	// AI backend relay client
	backendURL := os.Getenv("AI_BACKEND_URL")
	if backendURL == "" {
		backendURL = "http://localhost:8000"
	}
	backend := aibackend.New(backendURL, 30*time.Second)

	// Interview engine: relay by default, direct Vertex when configured.
	var eng engine.InterviewEngine
	switch os.Getenv("INTERVIEW_ENGINE") {
	case "vertex":
		provider, perr := llm.NewVertexGemini(ctx,
			os.Getenv("GOOGLE_CLOUD_PROJECT"),
			os.Getenv("VERTEX_LOCATION"),
			os.Getenv("VERTEX_MODEL"))
		if perr != nil {
			log.Fatalf("Vertex init error: %v", perr)
		}
		defer provider.Close()
		eng = engine.NewVertexEngine(provider)
	default:
		eng = engine.NewBackendEngine(backend)
	}

	// Repositories
	conversations := mongorepo.NewConversationRepo(mongoDB)
	cvs := mongorepo.NewCVRepo(mongoDB)
	users := pgrepo.NewUserRepo(pg)
	profiles := pgrepo.NewProfileRepo(pg)

	// Background CV text extraction
	queue := &workers.ExtractQueue{Redis: rdb}
	pool := &workers.ExtractWorkerPool{
		Redis:   rdb,
		CVs:     cvs,
		Files:   store,
		Backend: backend,
		Logger:  logg,
	}
	if err := pool.Start(ctx); err != nil {
		log.Fatalf("extract worker init error: %v", err)
	}

	// Services
	redisCache := cache.NewRedisCache(rdb)
	authSvc := services.NewAuthService(users, secret)
	cvSvc := services.NewCVService(cvs, store, queue, logg)
	interviewSvc := services.NewInterviewService(conversations, cvs, eng, store, redisCache, logg)
	profileSvc := services.NewProfileService(profiles, users)
	resumeSvc := services.NewResumeService(cvs, store, backend)

	// HTTP server
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logg))

	routes.RegisterRoutes(r, routes.Deps{
		JWTSecret: secret,
		Auth:      handlers.NewAuthHandler(authSvc),
		Interview: handlers.NewInterviewHandler(interviewSvc, cvSvc, logg),
		CV:        handlers.NewCVHandler(cvSvc),
		Profile:   handlers.NewProfileHandler(profileSvc),
		Resume:    handlers.NewResumeHandler(resumeSvc),
		WS:        handlers.NewWSHandler(interviewSvc),
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
