package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/ideaforge-backend/internal/apierr"
	"github.com/yungbote/ideaforge-backend/internal/logger"
	"github.com/yungbote/ideaforge-backend/internal/services"
)

type WorkspaceHandler struct {
	log          *logger.Logger
	workspaceSvc services.WorkspaceService
	userID       uuid.UUID
}

// NewWorkspaceHandler binds routes to the single local user created at
// startup.
func NewWorkspaceHandler(log *logger.Logger, workspaceSvc services.WorkspaceService, userID uuid.UUID) *WorkspaceHandler {
	return &WorkspaceHandler{
		log:          log.With("handler", "WorkspaceHandler"),
		workspaceSvc: workspaceSvc,
		userID:       userID,
	}
}

func parseIDParam(c *gin.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, apierr.Validation("invalid %s: %v", name, err)
	}
	return id, nil
}

type nameRequest struct {
	Name string `json:"name" binding:"required"`
}

// POST /api/workspaces
func (h *WorkspaceHandler) Create(c *gin.Context) {
	var req nameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, 400, apierr.CodeValidation, err)
		return
	}
	ws, err := h.workspaceSvc.Create(c.Request.Context(), h.userID, req.Name)
	if err != nil {
		RespondFromError(c, err)
		return
	}
	RespondCreated(c, ws)
}

// GET /api/workspaces
func (h *WorkspaceHandler) List(c *gin.Context) {
	workspaces, err := h.workspaceSvc.List(c.Request.Context(), h.userID)
	if err != nil {
		RespondFromError(c, err)
		return
	}
	RespondOK(c, workspaces)
}

// GET /api/workspaces/active
func (h *WorkspaceHandler) GetActive(c *gin.Context) {
	ws, err := h.workspaceSvc.GetActive(c.Request.Context(), h.userID)
	if err != nil {
		RespondFromError(c, err)
		return
	}
	RespondOK(c, ws)
}

// PUT /api/workspaces/:id/activate
func (h *WorkspaceHandler) SetActive(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		RespondFromError(c, err)
		return
	}
	if err := h.workspaceSvc.SetActive(c.Request.Context(), h.userID, id); err != nil {
		RespondFromError(c, err)
		return
	}
	RespondOK(c, gin.H{"activated": id})
}

// PUT /api/workspaces/:id
func (h *WorkspaceHandler) Rename(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		RespondFromError(c, err)
		return
	}
	var req nameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, 400, apierr.CodeValidation, err)
		return
	}
	if err := h.workspaceSvc.Rename(c.Request.Context(), id, req.Name); err != nil {
		RespondFromError(c, err)
		return
	}
	RespondOK(c, gin.H{"renamed": id})
}

// DELETE /api/workspaces/:id
func (h *WorkspaceHandler) Delete(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		RespondFromError(c, err)
		return
	}
	if err := h.workspaceSvc.Delete(c.Request.Context(), id); err != nil {
		RespondFromError(c, err)
		return
	}
	RespondOK(c, gin.H{"deleted": id})
}

// POST /api/workspaces/:id/projects
func (h *WorkspaceHandler) CreateProject(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		RespondFromError(c, err)
		return
	}
	var req nameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, 400, apierr.CodeValidation, err)
		return
	}
	project, err := h.workspaceSvc.CreateProject(c.Request.Context(), id, req.Name)
	if err != nil {
		RespondFromError(c, err)
		return
	}
	RespondCreated(c, project)
}

// GET /api/workspaces/:id/projects
func (h *WorkspaceHandler) ListProjects(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		RespondFromError(c, err)
		return
	}
	projects, err := h.workspaceSvc.ListProjects(c.Request.Context(), id)
	if err != nil {
		RespondFromError(c, err)
		return
	}
	RespondOK(c, projects)
}

// GET /api/projects/:id
func (h *WorkspaceHandler) GetProject(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		RespondFromError(c, err)
		return
	}
	project, err := h.workspaceSvc.GetProject(c.Request.Context(), id)
	if err != nil {
		RespondFromError(c, err)
		return
	}
	RespondOK(c, project)
}

// PUT /api/projects/:id
func (h *WorkspaceHandler) RenameProject(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		RespondFromError(c, err)
		return
	}
	var req nameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, 400, apierr.CodeValidation, err)
		return
	}
	if err := h.workspaceSvc.RenameProject(c.Request.Context(), id, req.Name); err != nil {
		RespondFromError(c, err)
		return
	}
	RespondOK(c, gin.H{"renamed": id})
}

// DELETE /api/projects/:id
func (h *WorkspaceHandler) DeleteProject(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		RespondFromError(c, err)
		return
	}
	if err := h.workspaceSvc.DeleteProject(c.Request.Context(), id); err != nil {
		RespondFromError(c, err)
		return
	}
	RespondOK(c, gin.H{"deleted": id})
}
