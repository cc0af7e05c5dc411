package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/ideaforge-backend/internal/apierr"
	"github.com/yungbote/ideaforge-backend/internal/logger"
	"github.com/yungbote/ideaforge-backend/internal/services"
)

type ProblemHandler struct {
	log        *logger.Logger
	problemSvc services.ProblemService
}

func NewProblemHandler(log *logger.Logger, problemSvc services.ProblemService) *ProblemHandler {
	return &ProblemHandler{
		log:        log.With("handler", "ProblemHandler"),
		problemSvc: problemSvc,
	}
}

type submitProblemRequest struct {
	Input string `json:"input" binding:"required"`
}

// POST /api/projects/:id/problem
func (h *ProblemHandler) Submit(c *gin.Context) {
	projectID, err := parseIDParam(c, "id")
	if err != nil {
		RespondFromError(c, err)
		return
	}
	var req submitProblemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, 400, apierr.CodeValidation, err)
		return
	}
	problem, err := h.problemSvc.Submit(c.Request.Context(), projectID, req.Input)
	if err != nil {
		RespondFromError(c, err)
		return
	}
	RespondCreated(c, problem)
}

// GET /api/projects/:id/problem
func (h *ProblemHandler) GetLatest(c *gin.Context) {
	projectID, err := parseIDParam(c, "id")
	if err != nil {
		RespondFromError(c, err)
		return
	}
	problem, err := h.problemSvc.GetLatest(c.Request.Context(), projectID)
	if err != nil {
		RespondFromError(c, err)
		return
	}
	RespondOK(c, problem)
}

// GET /api/projects/:id/problem/history
func (h *ProblemHandler) History(c *gin.Context) {
	projectID, err := parseIDParam(c, "id")
	if err != nil {
		RespondFromError(c, err)
		return
	}
	history, err := h.problemSvc.History(c.Request.Context(), projectID)
	if err != nil {
		RespondFromError(c, err)
		return
	}
	RespondOK(c, history)
}
