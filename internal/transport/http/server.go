package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/hireloop/interview-server/internal/config"
	"github.com/hireloop/interview-server/internal/core"
	"github.com/hireloop/interview-server/internal/proctoring"
	"github.com/hireloop/interview-server/internal/session"
)

// NewServer builds the HTTP server: REST API plus the WebSocket channel.
func NewServer(
	hub *core.Hub,
	sessions *session.Service,
	proctor *proctoring.Service,
	cfg *config.Config,
	logger *zerolog.Logger,
) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(LoggerMiddleware(logger), gin.Recovery())

	router.GET("/health", func(c *gin.Context) {
		c.String(stdhttp.StatusOK, "ok")
	})
	router.GET("/ws", gin.WrapH(NewWSHandler(hub, logger)))

	sessionHandlers := NewSessionHandlers(sessions, logger)
	proctoringHandlers := NewProctoringHandlers(proctor, logger)

	api := router.Group("/api")
	{
		api.POST("/sessions", sessionHandlers.CreateSession)
		api.GET("/sessions/:id", sessionHandlers.GetSession)
		api.POST("/sessions/:id/end", sessionHandlers.EndSession)

		api.POST("/proctoring/event", proctoringHandlers.RecordEvent)
		api.POST("/proctoring/verify-identity", proctoringHandlers.VerifyIdentity)
		api.GET("/proctoring/dashboard/sessions", proctoringHandlers.DashboardSessions)
		api.GET("/proctoring/:sessionID", proctoringHandlers.ListEvents)
		api.GET("/proctoring/:sessionID/score", proctoringHandlers.GetScore)
	}

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}
