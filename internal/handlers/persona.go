package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/ideaforge-backend/internal/apierr"
	"github.com/yungbote/ideaforge-backend/internal/logger"
	"github.com/yungbote/ideaforge-backend/internal/services"
)

type PersonaHandler struct {
	log        *logger.Logger
	personaSvc services.PersonaService
}

func NewPersonaHandler(log *logger.Logger, personaSvc services.PersonaService) *PersonaHandler {
	return &PersonaHandler{
		log:        log.With("handler", "PersonaHandler"),
		personaSvc: personaSvc,
	}
}

// POST /api/projects/:id/personas/generate
func (h *PersonaHandler) Generate(c *gin.Context) {
	projectID, err := parseIDParam(c, "id")
	if err != nil {
		RespondFromError(c, err)
		return
	}
	personas, err := h.personaSvc.Generate(c.Request.Context(), projectID)
	if err != nil {
		RespondFromError(c, err)
		return
	}
	RespondCreated(c, personas)
}

// POST /api/projects/:id/personas/regenerate
func (h *PersonaHandler) Regenerate(c *gin.Context) {
	projectID, err := parseIDParam(c, "id")
	if err != nil {
		RespondFromError(c, err)
		return
	}
	personas, err := h.personaSvc.Regenerate(c.Request.Context(), projectID)
	if err != nil {
		RespondFromError(c, err)
		return
	}
	RespondOK(c, personas)
}

// GET /api/projects/:id/personas
func (h *PersonaHandler) List(c *gin.Context) {
	projectID, err := parseIDParam(c, "id")
	if err != nil {
		RespondFromError(c, err)
		return
	}
	personas, err := h.personaSvc.List(c.Request.Context(), projectID)
	if err != nil {
		RespondFromError(c, err)
		return
	}
	RespondOK(c, personas)
}

// PUT /api/projects/:id/personas/:personaId/activate
func (h *PersonaHandler) SetActive(c *gin.Context) {
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
	if err := h.personaSvc.SetActive(c.Request.Context(), projectID, personaID); err != nil {
		RespondFromError(c, err)
		return
	}
	RespondOK(c, gin.H{"active_persona_id": personaID})
}

type lockRequest struct {
	Locked *bool `json:"locked" binding:"required"`
}

// PUT /api/personas/:id/lock
func (h *PersonaHandler) SetLocked(c *gin.Context) {
	personaID, err := parseIDParam(c, "id")
	if err != nil {
		RespondFromError(c, err)
		return
	}
	var req lockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, 400, apierr.CodeValidation, err)
		return
	}
	if err := h.personaSvc.SetLocked(c.Request.Context(), personaID, *req.Locked); err != nil {
		RespondFromError(c, err)
		return
	}
	RespondOK(c, gin.H{"id": personaID, "locked": *req.Locked})
}
