package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/ideaforge-backend/internal/apierr"
	"github.com/yungbote/ideaforge-backend/internal/logger"
	"github.com/yungbote/ideaforge-backend/internal/services"
)

type EventHandler struct {
	log      *logger.Logger
	eventSvc services.EventService
}

func NewEventHandler(log *logger.Logger, eventSvc services.EventService) *EventHandler {
	return &EventHandler{
		log:      log.With("handler", "EventHandler"),
		eventSvc: eventSvc,
	}
}

// GET /api/projects/:id/events?after=<seq>
func (h *EventHandler) List(c *gin.Context) {
	projectID, err := parseIDParam(c, "id")
	if err != nil {
		RespondFromError(c, err)
		return
	}

	if after := c.Query("after"); after != "" {
		seq, err := strconv.ParseInt(after, 10, 64)
		if err != nil {
			RespondError(c, 400, apierr.CodeValidation, err)
			return
		}
		events, err := h.eventSvc.ListSince(c.Request.Context(), projectID, seq)
		if err != nil {
			RespondFromError(c, err)
			return
		}
		RespondOK(c, events)
		return
	}

	events, err := h.eventSvc.List(c.Request.Context(), projectID)
	if err != nil {
		RespondFromError(c, err)
		return
	}
	RespondOK(c, events)
}

// GET /api/projects/:id/state
func (h *EventHandler) CurrentState(c *gin.Context) {
	projectID, err := parseIDParam(c, "id")
	if err != nil {
		RespondFromError(c, err)
		return
	}
	state, err := h.eventSvc.CurrentState(c.Request.Context(), projectID)
	if err != nil {
		RespondFromError(c, err)
		return
	}
	RespondOK(c, state)
}
