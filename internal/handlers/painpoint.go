package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/ideaforge-backend/internal/apierr"
	"github.com/yungbote/ideaforge-backend/internal/logger"
	"github.com/yungbote/ideaforge-backend/internal/services"
)

type PainPointHandler struct {
	log          *logger.Logger
	painPointSvc services.PainPointService
}

func NewPainPointHandler(log *logger.Logger, painPointSvc services.PainPointService) *PainPointHandler {
	return &PainPointHandler{
		log:          log.With("handler", "PainPointHandler"),
		painPointSvc: painPointSvc,
	}
}

// POST /api/projects/:id/personas/:personaId/pain-points/generate
func (h *PainPointHandler) Generate(c *gin.Context) {
	projectID, err := parseIDParam(c, "id")
	if err != nil {
		RespondFromError(c, err)
		return
	}
	personaID, err := parseIDParam(c, "personaId")
	if err != nil {
		RespondFromError(c, err)
		return
	}
	points, err := h.painPointSvc.Generate(c.Request.Context(), projectID, personaID)
	if err != nil {
		RespondFromError(c, err)
		return
	}
	RespondCreated(c, points)
}

// POST /api/projects/:id/personas/:personaId/pain-points/regenerate
func (h *PainPointHandler) Regenerate(c *gin.Context) {
	projectID, err := parseIDParam(c, "id")
	if err != nil {
		RespondFromError(c, err)
		return
	}
	personaID, err := parseIDParam(c, "personaId")
	if err != nil {
		RespondFromError(c, err)
		return
	}
	points, err := h.painPointSvc.Regenerate(c.Request.Context(), projectID, personaID)
	if err != nil {
		RespondFromError(c, err)
		return
	}
	RespondOK(c, points)
}

// GET /api/personas/:id/pain-points
func (h *PainPointHandler) List(c *gin.Context) {
	personaID, err := parseIDParam(c, "id")
	if err != nil {
		RespondFromError(c, err)
		return
	}
	points, err := h.painPointSvc.List(c.Request.Context(), personaID)
	if err != nil {
		RespondFromError(c, err)
		return
	}
	RespondOK(c, points)
}

// PUT /api/pain-points/:id/lock
func (h *PainPointHandler) SetLocked(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		RespondFromError(c, err)
		return
	}
	var req lockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, 400, apierr.CodeValidation, err)
		return
	}
	if err := h.painPointSvc.SetLocked(c.Request.Context(), id, *req.Locked); err != nil {
		RespondFromError(c, err)
		return
	}
	RespondOK(c, gin.H{"id": id, "locked": *req.Locked})
}
