package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/vidquiz/vidquiz-backend/internal/handlers"
	"github.com/vidquiz/vidquiz-backend/internal/middleware"
)

type RouterConfig struct {
	AuthHandler    *handlers.AuthHandler
	AuthMiddleware *middleware.AuthMiddleware
	UserHandler    *handlers.UserHandler
	QuizHandler    *handlers.QuizHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	// Cors
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:80",
			"http://localhost:3000",
			"http://localhost:5173",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// ===============
	// || Public    ||
	// ===============
	router.GET("/healthcheck", handlers.HealthCheck)
	api := router.Group("/api")
	{
		api.POST("/register", cfg.AuthHandler.Register)
		api.POST("/login", cfg.AuthHandler.Login)
		api.POST("/token/refresh", cfg.AuthHandler.Refresh)
	}

	// ===============
	// || Protected ||
	// ===============
	protected := router.Group("/api")
	protected.Use(cfg.AuthMiddleware.RequireAuth())
	// Auth
	protected.POST("/logout", cfg.AuthHandler.Logout)
	// User
	protected.GET("/user", cfg.UserHandler.GetCurrentUser)
	// Quizzes
	protected.POST("/quizzes", cfg.QuizHandler.CreateQuiz)
	protected.GET("/quizzes", cfg.QuizHandler.ListQuizzes)
	protected.GET("/quizzes/:id", cfg.QuizHandler.GetQuiz)
	protected.PATCH("/quizzes/:id", cfg.QuizHandler.UpdateQuiz)
	protected.DELETE("/quizzes/:id", cfg.QuizHandler.DeleteQuiz)

	return router
}
