package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/ideaforge-backend/internal/apierr"
	"github.com/yungbote/ideaforge-backend/internal/logger"
	"github.com/yungbote/ideaforge-backend/internal/services"
)

type CanvasHandler struct {
	log       *logger.Logger
	canvasSvc services.CanvasService
}

func NewCanvasHandler(log *logger.Logger, canvasSvc services.CanvasService) *CanvasHandler {
	return &CanvasHandler{
		log:       log.With("handler", "CanvasHandler"),
		canvasSvc: canvasSvc,
	}
}

type saveCanvasRequest struct {
	ID       *uuid.UUID     `json:"id"`
	Nodes    datatypes.JSON `json:"nodes" binding:"required"`
	Edges    datatypes.JSON `json:"edges" binding:"required"`
	Viewport datatypes.JSON `json:"viewport"`
}

// PUT /api/projects/:id/canvas
func (h *CanvasHandler) Save(c *gin.Context) {
	projectID, err := parseIDParam(c, "id")
	if err != nil {
		RespondFromError(c, err)
		return
	}
	var req saveCanvasRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, 400, apierr.CodeValidation, err)
		return
	}
	state, err := h.canvasSvc.Save(c.Request.Context(), req.ID, projectID, req.Nodes, req.Edges, req.Viewport)
	if err != nil {
		RespondFromError(c, err)
		return
	}
	RespondOK(c, state)
}

// GET /api/projects/:id/canvas
func (h *CanvasHandler) GetLatest(c *gin.Context) {
	projectID, err := parseIDParam(c, "id")
	if err != nil {
		RespondFromError(c, err)
		return
	}
	state, err := h.canvasSvc.GetLatest(c.Request.Context(), projectID)
	if err != nil {
		RespondFromError(c, err)
		return
	}
	RespondOK(c, state)
}

// GET /api/projects/:id/canvas/history
func (h *CanvasHandler) History(c *gin.Context) {
	projectID, err := parseIDParam(c, "id")
	if err != nil {
		RespondFromError(c, err)
		return
	}
	states, err := h.canvasSvc.History(c.Request.Context(), projectID)
	if err != nil {
		RespondFromError(c, err)
		return
	}
	RespondOK(c, states)
}
