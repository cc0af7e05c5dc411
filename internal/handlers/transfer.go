package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/ideaforge-backend/internal/apierr"
	"github.com/yungbote/ideaforge-backend/internal/logger"
	"github.com/yungbote/ideaforge-backend/internal/services"
)

type TransferHandler struct {
	log         *logger.Logger
	transferSvc services.TransferService
}

func NewTransferHandler(log *logger.Logger, transferSvc services.TransferService) *TransferHandler {
	return &TransferHandler{
		log:         log.With("handler", "TransferHandler"),
		transferSvc: transferSvc,
	}
}

type duplicateRequest struct {
	Name string `json:"name"`
}

// POST /api/projects/:id/duplicate
func (h *TransferHandler) Duplicate(c *gin.Context) {
	projectID, err := parseIDParam(c, "id")
	if err != nil {
		RespondFromError(c, err)
		return
	}
	var req duplicateRequest
	if err := c.ShouldBindJSON(&req); err != nil && err != io.EOF {
		RespondError(c, 400, apierr.CodeValidation, err)
		return
	}
	project, err := h.transferSvc.Duplicate(c.Request.Context(), projectID, req.Name)
	if err != nil {
		RespondFromError(c, err)
		return
	}
	RespondCreated(c, project)
}

// GET /api/projects/:id/export
func (h *TransferHandler) Export(c *gin.Context) {
	projectID, err := parseIDParam(c, "id")
	if err != nil {
		RespondFromError(c, err)
		return
	}
	raw, err := h.transferSvc.Export(c.Request.Context(), projectID)
	if err != nil {
		RespondFromError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="project-export.json"`)
	c.Data(http.StatusOK, "application/json", raw)
}

// POST /api/workspaces/:id/import
func (h *TransferHandler) Import(c *gin.Context) {
	workspaceID, err := parseIDParam(c, "id")
	if err != nil {
		RespondFromError(c, err)
		return
	}
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		RespondError(c, 400, apierr.CodeValidation, err)
		return
	}
	project, err := h.transferSvc.Import(c.Request.Context(), workspaceID, raw)
	if err != nil {
		RespondFromError(c, err)
		return
	}
	RespondCreated(c, project)
}
