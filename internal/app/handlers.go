package app

import (
	"github.com/google/uuid"

	"github.com/yungbote/ideaforge-backend/internal/handlers"
	"github.com/yungbote/ideaforge-backend/internal/logger"
)

type Handlers struct {
	Workspace *handlers.WorkspaceHandler
	Problem   *handlers.ProblemHandler
	Persona   *handlers.PersonaHandler
	PainPoint *handlers.PainPointHandler
	Solution  *handlers.SolutionHandler
	Story     *handlers.StoryHandler
	Canvas    *handlers.CanvasHandler
	Events    *handlers.EventHandler
	Transfer  *handlers.TransferHandler
	Workflow  *handlers.WorkflowHandler
}

func wireHandlers(log *logger.Logger, s Services, userID uuid.UUID) Handlers {
	return Handlers{
		Workspace: handlers.NewWorkspaceHandler(log, s.Workspace, userID),
		Problem:   handlers.NewProblemHandler(log, s.Problem),
		Persona:   handlers.NewPersonaHandler(log, s.Persona),
		PainPoint: handlers.NewPainPointHandler(log, s.PainPoint),
		Solution:  handlers.NewSolutionHandler(log, s.Solution),
		Story:     handlers.NewStoryHandler(log, s.Story),
		Canvas:    handlers.NewCanvasHandler(log, s.Canvas),
		Events:    handlers.NewEventHandler(log, s.Events),
		Transfer:  handlers.NewTransferHandler(log, s.Transfer),
		Workflow:  handlers.NewWorkflowHandler(log, s.Workflow),
	}
}
