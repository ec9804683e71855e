package routes

import (
	"net/http"

	"pubquiz/handlers"
	"pubquiz/middleware"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	router *gin.Engine,
	authHandler *handlers.AuthHandler,
	quizHandler *handlers.QuizHandler,
	scoreboardHandler *handlers.ScoreboardHandler,
	adminHandler *handlers.AdminHandler,
	imageHandler *handlers.ImageHandler,
	jwtSecret string,
) {
	// Auth routes (public)
	auth := router.Group("/auth")
	{
		auth.GET("/login", authHandler.LoginInfo)
		auth.POST("/magic-link", authHandler.RequestMagicLink)
		auth.GET("/verify", authHandler.Verify)
		auth.POST("/logout", authHandler.Logout)
	}

	// Question images (public, referenced from quiz pages)
	router.GET("/images/*filepath", imageHandler.Serve)

	// Scoreboard is public; a logged-in viewer gets their row flagged.
	router.GET("/scoreboard", middleware.AuthOptional(jwtSecret), scoreboardHandler.Get)

	// Player routes
	protected := router.Group("/")
	protected.Use(middleware.AuthRequired(jwtSecret))
	{
		protected.GET("", quizHandler.Home)

		quiz := protected.Group("/quiz")
		{
			quiz.POST("/rounds/:roundId/start", quizHandler.Start)
			quiz.POST("/answer", quizHandler.SubmitAnswer)
			quiz.GET("/sessions/:sessionId", quizHandler.Continue)
			quiz.GET("/sessions/:sessionId/result", quizHandler.Result)
			quiz.GET("/history", quizHandler.History)
		}
	}

	// Admin routes
	admin := router.Group("/admin")
	admin.Use(middleware.AuthRequired(jwtSecret), middleware.AdminRequired())
	{
		rounds := admin.Group("/rounds")
		{
			rounds.GET("", adminHandler.ListRounds)
			rounds.POST("", adminHandler.CreateRound)
			rounds.PUT("/:id", adminHandler.UpdateRound)
			rounds.DELETE("/:id", adminHandler.DeleteRound)
			rounds.POST("/:id/activate", adminHandler.ActivateRound)
			rounds.POST("/:id/deactivate", adminHandler.DeactivateRound)
			rounds.GET("/:id/questions", adminHandler.ListQuestions)
			rounds.POST("/:id/questions/import", adminHandler.ImportQuestions)
			rounds.POST("/:id/images", adminHandler.UploadImages)
		}

		questions := admin.Group("/questions")
		{
			questions.PUT("/:id", adminHandler.UpdateQuestion)
			questions.DELETE("/:id", adminHandler.DeleteQuestion)
		}

		users := admin.Group("/users")
		{
			users.GET("", adminHandler.ListUsers)
			users.POST("", adminHandler.CreateUser)
			users.PUT("/:id", adminHandler.UpdateUser)
			users.DELETE("/:id", adminHandler.DeleteUser)
		}
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
