package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sandy0637R/AI-Interviewer-Backend/internal/api/handlers"
	"github.com/sandy0637R/AI-Interviewer-Backend/internal/api/middleware"
)

type Deps struct {
	Interview *handlers.InterviewHandler
	Session   *handlers.SessionHandler
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	// Health-ish
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// Interview routes accept anonymous candidates; a bearer token, when
	// present, attributes the session to the user.
	api := r.Group("/")
	api.Use(middleware.OptionalJWT())

	api.POST("/interview/start", d.Interview.Start)
	api.POST("/interview/next", d.Interview.Next)
	api.POST("/interview/resume", d.Interview.Resume)

	// Session management requires a user.
	mine := api.Group("/sessions")
	mine.Use(middleware.RequireUser())
	mine.GET("", d.Session.ListMine)
	mine.DELETE("/:session_id", d.Session.Delete)
}
