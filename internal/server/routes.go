package server

import (
	"github.com/gin-gonic/gin"

	"github.com/haskel/accelsched/internal/server/middleware"
)

func (s *Server) registerRoutes(engine *gin.Engine) {
	engine.Use(middleware.Logging(s.logger))
	engine.Use(middleware.RateLimit(&s.cfg.Server.RateLimit))

	engine.GET("/health", s.handleHealth)

	api := engine.Group("/api/v1")
	if s.cfg.Server.Auth.Enabled {
		api.Use(middleware.Auth(s.cfg.Server.Auth.Secret))
	}

	api.GET("/policies", s.handlePolicies)
	api.POST("/analyze", s.handleAnalyze)
	api.POST("/partition", s.handlePartition)
}
