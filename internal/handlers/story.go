package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/ideaforge-backend/internal/apierr"
	"github.com/yungbote/ideaforge-backend/internal/logger"
	"github.com/yungbote/ideaforge-backend/internal/services"
)

type StoryHandler struct {
	log      *logger.Logger
	storySvc services.StoryService
}

func NewStoryHandler(log *logger.Logger, storySvc services.StoryService) *StoryHandler {
	return &StoryHandler{
		log:      log.With("handler", "StoryHandler"),
		storySvc: storySvc,
	}
}

// POST /api/projects/:id/stories/generate
func (h *StoryHandler) Generate(c *gin.Context) {
	projectID, err := parseIDParam(c, "id")
	if err != nil {
		RespondFromError(c, err)
		return
	}
	stories, err := h.storySvc.Generate(c.Request.Context(), projectID)
	if err != nil {
		RespondFromError(c, err)
		return
	}
	RespondCreated(c, stories)
}

// GET /api/projects/:id/stories
func (h *StoryHandler) List(c *gin.Context) {
	projectID, err := parseIDParam(c, "id")
	if err != nil {
		RespondFromError(c, err)
		return
	}
	stories, err := h.storySvc.List(c.Request.Context(), projectID)
	if err != nil {
		RespondFromError(c, err)
		return
	}
	RespondOK(c, stories)
}

type editStoryRequest struct {
	Content string `json:"content" binding:"required"`
}

// PUT /api/stories/:id
func (h *StoryHandler) UpdateContent(c *gin.Context) {
	storyID, err := parseIDParam(c, "id")
	if err != nil {
		RespondFromError(c, err)
		return
	}
	var req editStoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, 400, apierr.CodeValidation, err)
		return
	}
	if err := h.storySvc.UpdateContent(c.Request.Context(), storyID, req.Content); err != nil {
		RespondFromError(c, err)
		return
	}
	RespondOK(c, gin.H{"updated": storyID})
}

// DELETE /api/stories/:id
func (h *StoryHandler) Delete(c *gin.Context) {
	storyID, err := parseIDParam(c, "id")
	if err != nil {
		RespondFromError(c, err)
		return
	}
	if err := h.storySvc.Delete(c.Request.Context(), storyID); err != nil {
		RespondFromError(c, err)
		return
	}
	RespondOK(c, gin.H{"deleted": storyID})
}
