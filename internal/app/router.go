package app

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/yungbote/ideaforge-backend/internal/handlers"
	"github.com/yungbote/ideaforge-backend/internal/logger"
	"github.com/yungbote/ideaforge-backend/internal/middleware"
)

func wireRouter(cfg Config, log *logger.Logger, h Handlers) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLog(log))

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/healthz", handlers.HealthCheck)

	api := router.Group("/api")
	{
		api.POST("/workspaces", h.Workspace.Create)
		api.GET("/workspaces", h.Workspace.List)
		api.GET("/workspaces/active", h.Workspace.GetActive)
		api.PUT("/workspaces/:id/activate", h.Workspace.SetActive)
		api.PUT("/workspaces/:id", h.Workspace.Rename)
		api.DELETE("/workspaces/:id", h.Workspace.Delete)
		api.POST("/workspaces/:id/projects", h.Workspace.CreateProject)
		api.GET("/workspaces/:id/projects", h.Workspace.ListProjects)
		api.POST("/workspaces/:id/import", h.Transfer.Import)

		api.GET("/projects/:id", h.Workspace.GetProject)
		api.PUT("/projects/:id", h.Workspace.RenameProject)
		api.DELETE("/projects/:id", h.Workspace.DeleteProject)
		api.POST("/projects/:id/duplicate", h.Transfer.Duplicate)
		api.GET("/projects/:id/export", h.Transfer.Export)

		api.POST("/projects/:id/problem", h.Problem.Submit)
		api.GET("/projects/:id/problem", h.Problem.GetLatest)
		api.GET("/projects/:id/problem/history", h.Problem.History)

		api.POST("/projects/:id/personas/generate", h.Persona.Generate)
		api.POST("/projects/:id/personas/regenerate", h.Persona.Regenerate)
		api.GET("/projects/:id/personas", h.Persona.List)
		api.PUT("/projects/:id/personas/:personaId/activate", h.Persona.SetActive)
		api.PUT("/personas/:id/lock", h.Persona.SetLocked)

		api.POST("/projects/:id/personas/:personaId/pain-points/generate", h.PainPoint.Generate)
		api.POST("/projects/:id/personas/:personaId/pain-points/regenerate", h.PainPoint.Regenerate)
		api.GET("/personas/:id/pain-points", h.PainPoint.List)
		api.PUT("/pain-points/:id/lock", h.PainPoint.SetLocked)

		api.POST("/projects/:id/personas/:personaId/solutions/generate", h.Solution.Generate)
		api.POST("/projects/:id/personas/:personaId/solutions/regenerate", h.Solution.Regenerate)
		api.GET("/personas/:id/solutions", h.Solution.List)
		api.PUT("/projects/:id/solutions/:solutionId/select", h.Solution.Select)
		api.PUT("/solutions/:id/deselect", h.Solution.Deselect)
		api.PUT("/solutions/:id/lock", h.Solution.SetLocked)
		api.GET("/solutions/:id/mappings", h.Solution.Mappings)

		api.POST("/projects/:id/stories/generate", h.Story.Generate)
		api.GET("/projects/:id/stories", h.Story.List)
		api.PUT("/stories/:id", h.Story.UpdateContent)
		api.DELETE("/stories/:id", h.Story.Delete)

		api.PUT("/projects/:id/canvas", h.Canvas.Save)
		api.GET("/projects/:id/canvas", h.Canvas.GetLatest)
		api.GET("/projects/:id/canvas/history", h.Canvas.History)

		api.GET("/projects/:id/events", h.Events.List)
		api.GET("/projects/:id/state", h.Events.CurrentState)

		api.GET("/workflows", h.Workflow.List)
		api.POST("/projects/:id/workflows/:name/run", h.Workflow.Run)
	}

	return router
}
