package routes

import (
	"github.com/futureforceai/careerprep/internal/api/handlers"
	"github.com/futureforceai/careerprep/internal/api/middleware"
	"github.com/gin-gonic/gin"
)

type Deps struct {
	JWTSecret string

	Auth      *handlers.AuthHandler
	Interview *handlers.InterviewHandler
	CV        *handlers.CVHandler
	Profile   *handlers.ProfileHandler
	Resume    *handlers.ResumeHandler
	WS        *handlers.WSHandler
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	// Health-ish
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// Public routes
	r.POST("/api/auth/register", d.Auth.Register)
	r.POST("/api/auth/login", d.Auth.Login)

	// Protected routes (JWT)
	auth := r.Group("/api")
	auth.Use(middleware.JWTAuth(d.JWTSecret))

	auth.POST("/interview/start", d.Interview.Start)
	auth.POST("/interview/start-with-saved-cv", d.Interview.StartWithSavedCV)
	auth.POST("/interview/chat", d.Interview.Chat)
	auth.GET("/interview/sessions", d.Interview.ListSessions)
	auth.GET("/interview/session/:session_id", d.Interview.GetSession)

	auth.POST("/cv/upload", d.CV.Upload)
	auth.GET("/cv/list", d.CV.List)
	auth.DELETE("/cv/:cv_id", d.CV.Delete)

	auth.GET("/profile/me", d.Profile.Me)
	auth.PUT("/profile/update", d.Profile.Update)

	auth.POST("/resume/analyze", d.Resume.Analyze)
	auth.POST("/resume/suggest-roles", d.Resume.SuggestRoles)

	// WebSocket
	auth.GET("/ws/interview/:session_id", d.WS.SessionWS)
}
