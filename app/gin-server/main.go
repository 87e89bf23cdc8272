package main

import (
	"context"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/sandy0637R/AI-Interviewer-Backend/config"
	"github.com/sandy0637R/AI-Interviewer-Backend/internal/api/handlers"
	"github.com/sandy0637R/AI-Interviewer-Backend/internal/api/middleware"
	"github.com/sandy0637R/AI-Interviewer-Backend/internal/api/routes"
	"github.com/sandy0637R/AI-Interviewer-Backend/internal/cache"
	"github.com/sandy0637R/AI-Interviewer-Backend/internal/logger"
	"github.com/sandy0637R/AI-Interviewer-Backend/internal/models"
	"github.com/sandy0637R/AI-Interviewer-Backend/internal/providers/interview"
	"github.com/sandy0637R/AI-Interviewer-Backend/internal/providers/llm"
	mongorepo "github.com/sandy0637R/AI-Interviewer-Backend/internal/repositories/mongo"
	pgrepo "github.com/sandy0637R/AI-Interviewer-Backend/internal/repositories/postgres"
	"github.com/sandy0637R/AI-Interviewer-Backend/internal/services"
)

func main() {
	_ = godotenv.Load()

	log := logger.New()
	ctx := context.Background()

	// MongoDB holds the session store and is required.
	if err := config.InitMongo(); err != nil {
		log.WithError(err).Fatal("MongoDB init failed")
	}
	if err := config.EnsureMongoIndexes(); err != nil {
		log.WithError(err).Fatal("MongoDB index creation failed")
	}
	log.Info("MongoDB connected")

	// The feedback archive degrades gracefully when Postgres is absent.
	var archive pgrepo.FeedbackArchiveRepo
	if os.Getenv("POSTGRES_URI") != "" {
		if err := config.InitPostgres(); err != nil {
			log.WithError(err).Fatal("PostgreSQL init failed")
		}
		if err := config.PostgresDB.AutoMigrate(&models.FeedbackRecord{}); err != nil {
			log.WithError(err).Fatal("PostgreSQL migration failed")
		}
		archive = pgrepo.NewFeedbackArchiveRepo(config.PostgresDB)
		log.Info("PostgreSQL connected")
	} else {
		log.Warn("POSTGRES_URI not set, feedback archive disabled")
	}

	// Redis backs the resume-snapshot cache; optional as well.
	var snapshots cache.Cache
	if os.Getenv("REDIS_ADDR") != "" || os.Getenv("REDIS_URL") != "" {
		if err := config.InitRedis(); err != nil {
			log.WithError(err).Fatal("Redis init failed")
		}
		snapshots = cache.NewRedisCache(config.RedisClient)
		log.Info("Redis connected")
	} else {
		log.Warn("REDIS_ADDR not set, snapshot cache disabled")
	}

	provider, err := llm.NewVertexGemini(ctx,
		os.Getenv("GCP_PROJECT_ID"),
		os.Getenv("GCP_LOCATION"),
		os.Getenv("GEMINI_MODEL"),
	)
	if err != nil {
		log.WithError(err).Fatal("Vertex Gemini init failed")
	}
	defer provider.Close()

	sessionRepo := mongorepo.NewSessionRepo(config.MongoDatabase())

	interviewSvc := services.NewInterviewService(
		sessionRepo,
		interview.NewQuestionGenerator(provider),
		interview.NewRelevanceClassifier(provider),
		interview.NewFeedbackGenerator(provider),
		services.InterviewServiceOpts{
			Archive: archive,
			Cache:   snapshots,
			Logger:  log,
		},
	)
	sessionSvc := services.NewSessionService(sessionRepo)

	r := gin.New()
	r.Use(middleware.RequestLogger(log), gin.Recovery())

	routes.RegisterRoutes(r, routes.Deps{
		Interview: handlers.NewInterviewHandler(interviewSvc),
		Session:   handlers.NewSessionHandler(sessionSvc),
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := r.Run(":" + port); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}
