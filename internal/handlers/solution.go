package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/ideaforge-backend/internal/apierr"
	"github.com/yungbote/ideaforge-backend/internal/logger"
	"github.com/yungbote/ideaforge-backend/internal/services"
)

type SolutionHandler struct {
	log         *logger.Logger
	solutionSvc services.SolutionService
}

func NewSolutionHandler(log *logger.Logger, solutionSvc services.SolutionService) *SolutionHandler {
	return &SolutionHandler{
		log:         log.With("handler", "SolutionHandler"),
		solutionSvc: solutionSvc,
	}
}

// POST /api/projects/:id/personas/:personaId/solutions/generate
func (h *SolutionHandler) Generate(c *gin.Context) {
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
	solutions, err := h.solutionSvc.Generate(c.Request.Context(), projectID, personaID)
	if err != nil {
		RespondFromError(c, err)
		return
	}
	RespondCreated(c, solutions)
}

// POST /api/projects/:id/personas/:personaId/solutions/regenerate
func (h *SolutionHandler) Regenerate(c *gin.Context) {
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
	solutions, err := h.solutionSvc.Regenerate(c.Request.Context(), projectID, personaID)
	if err != nil {
		RespondFromError(c, err)
		return
	}
	RespondOK(c, solutions)
}

// GET /api/personas/:id/solutions
func (h *SolutionHandler) List(c *gin.Context) {
	personaID, err := parseIDParam(c, "id")
	if err != nil {
		RespondFromError(c, err)
		return
	}
	solutions, err := h.solutionSvc.List(c.Request.Context(), personaID)
	if err != nil {
		RespondFromError(c, err)
		return
	}
	RespondOK(c, solutions)
}

// PUT /api/projects/:id/solutions/:solutionId/select
func (h *SolutionHandler) Select(c *gin.Context) {
	projectID, err := parseIDParam(c, "id")
	if err != nil {
		RespondFromError(c, err)
		return
	}
	solutionID, err := parseIDParam(c, "solutionId")
	if err != nil {
		RespondFromError(c, err)
		return
	}
	if err := h.solutionSvc.Select(c.Request.Context(), projectID, solutionID); err != nil {
		RespondFromError(c, err)
		return
	}
	RespondOK(c, gin.H{"selected": solutionID})
}

// PUT /api/solutions/:id/deselect
func (h *SolutionHandler) Deselect(c *gin.Context) {
	solutionID, err := parseIDParam(c, "id")
	if err != nil {
		RespondFromError(c, err)
		return
	}
	if err := h.solutionSvc.Deselect(c.Request.Context(), solutionID); err != nil {
		RespondFromError(c, err)
		return
	}
	RespondOK(c, gin.H{"deselected": solutionID})
}

// PUT /api/solutions/:id/lock
func (h *SolutionHandler) SetLocked(c *gin.Context) {
	solutionID, err := parseIDParam(c, "id")
	if err != nil {
		RespondFromError(c, err)
		return
	}
	var req lockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, 400, apierr.CodeValidation, err)
		return
	}
	if err := h.solutionSvc.SetLocked(c.Request.Context(), solutionID, *req.Locked); err != nil {
		RespondFromError(c, err)
		return
	}
	RespondOK(c, gin.H{"id": solutionID, "locked": *req.Locked})
}

// GET /api/solutions/:id/mappings
func (h *SolutionHandler) Mappings(c *gin.Context) {
	solutionID, err := parseIDParam(c, "id")
	if err != nil {
		RespondFromError(c, err)
		return
	}
	mappings, err := h.solutionSvc.Mappings(c.Request.Context(), solutionID)
	if err != nil {
		RespondFromError(c, err)
		return
	}
	RespondOK(c, mappings)
}
