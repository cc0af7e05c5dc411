package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/ideaforge-backend/internal/apierr"
	"github.com/yungbote/ideaforge-backend/internal/logger"
	"github.com/yungbote/ideaforge-backend/internal/services"
)

type WorkflowHandler struct {
	log         *logger.Logger
	workflowSvc services.WorkflowService
}

func NewWorkflowHandler(log *logger.Logger, workflowSvc services.WorkflowService) *WorkflowHandler {
	return &WorkflowHandler{
		log:         log.With("handler", "WorkflowHandler"),
		workflowSvc: workflowSvc,
	}
}

// GET /api/workflows
func (h *WorkflowHandler) List(c *gin.Context) {
	RespondOK(c, gin.H{"workflows": h.workflowSvc.List()})
}

type runWorkflowRequest struct {
	Inputs map[string]string `json:"inputs"`
}

// POST /api/projects/:id/workflows/:name/run
func (h *WorkflowHandler) Run(c *gin.Context) {
	projectID, err := parseIDParam(c, "id")
	if err != nil {
		RespondFromError(c, err)
		return
	}
	name := c.Param("name")
	if name == "" {
		RespondError(c, 400, apierr.CodeValidation, nil)
		return
	}
	var req runWorkflowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		req.Inputs = map[string]string{}
	}
	result, err := h.workflowSvc.Run(c.Request.Context(), name, projectID, req.Inputs)
	if err != nil {
		RespondFromError(c, err)
		return
	}
	RespondOK(c, result)
}
