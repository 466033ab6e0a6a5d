package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/vidquiz/vidquiz-backend/internal/db"
	"github.com/vidquiz/vidquiz-backend/internal/handlers"
	"github.com/vidquiz/vidquiz-backend/internal/logger"
	"github.com/vidquiz/vidquiz-backend/internal/middleware"
	"github.com/vidquiz/vidquiz-backend/internal/repos"
	"github.com/vidquiz/vidquiz-backend/internal/server"
	"github.com/vidquiz/vidquiz-backend/internal/services"
	"github.com/vidquiz/vidquiz-backend/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Env
	log.Info("Loading environment variables from main...")
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTL := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	refreshTokenTTL := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 86400, log)
	geminiAPIKey := os.Getenv("GEMINI_API_KEY")
	geminiModel := utils.GetEnv("GEMINI_MODEL", "gemini-2.5-flash", log)
	port := utils.GetEnv("PORT", "8080", log)

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Warn("Postgres auto migration failed", "error", err)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up Repos from main...")
	userRepo := repos.NewUserRepo(thePG, log)
	userTokenRepo := repos.NewUserTokenRepo(thePG, log)
	quizRepo := repos.NewQuizRepo(thePG, log)
	questionRepo := repos.NewQuestionRepo(thePG, log)

	// Services
	log.Info("Setting up Services from main...")
	videoProviderService := services.NewVideoProviderService(log)
	mediaToolsService := services.NewMediaToolsService(log)
	speechProviderService, err := services.NewSpeechProviderService(log)
	if err != nil {
		log.Error("Could not init SpeechProviderService", "error", err)
		os.Exit(1)
	}
	defer speechProviderService.Close()

	transcriptService, err := services.NewTranscriptService(log, videoProviderService, mediaToolsService, speechProviderService)
	if err != nil {
		log.Error("Could not init TranscriptService", "error", err)
		os.Exit(1)
	}
	geminiClient, err := services.NewGeminiClient(context.Background(), log, geminiAPIKey, geminiModel)
	if err != nil {
		log.Error("Could not init GeminiClient", "error", err)
		os.Exit(1)
	}
	defer geminiClient.Close()

	authService := services.NewAuthService(thePG, log, userRepo, userTokenRepo, jwtSecretKey, time.Duration(accessTokenTTL)*time.Second, time.Duration(refreshTokenTTL)*time.Second)
	userService := services.NewUserService(thePG, log, userRepo)
	quizService := services.NewQuizService(thePG, log, quizRepo, questionRepo)
	quizGenerationService := services.NewQuizGenerationService(thePG, log, transcriptService, geminiClient, quizRepo, questionRepo)

	// Handlers
	log.Info("Setting up Handlers from main...")
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	quizHandler := handlers.NewQuizHandler(quizService, quizGenerationService)
	authMiddleware := middleware.NewAuthMiddleware(log, authService)

	// Router
	router := server.NewRouter(server.RouterConfig{
		AuthHandler:    authHandler,
		AuthMiddleware: authMiddleware,
		UserHandler:    userHandler,
		QuizHandler:    quizHandler,
	})

	log.Info("Starting server...", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Error("Server exited", "error", err)
		os.Exit(1)
	}
}
