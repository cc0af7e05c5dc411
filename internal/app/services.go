package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/ideaforge-backend/internal/llm"
	"github.com/yungbote/ideaforge-backend/internal/logger"
	"github.com/yungbote/ideaforge-backend/internal/services"
)

type Services struct {
	Seed      services.SeedService
	Workspace services.WorkspaceService
	Problem   services.ProblemService
	Persona   services.PersonaService
	PainPoint services.PainPointService
	Solution  services.SolutionService
	Story     services.StoryService
	Canvas    services.CanvasService
	Events    services.EventService
	Transfer  services.TransferService
	Workflow  services.WorkflowService
}

func wireServices(db *gorm.DB, log *logger.Logger, r Repos, generator llm.Generator) (Services, error) {
	events := services.NewEventService(db, log, r.StateEvent)

	workflow, err := services.NewWorkflowService(db, log, events, generator)
	if err != nil {
		return Services{}, err
	}

	return Services{
		Seed:      services.NewSeedService(db, log, r.User, r.Workspace),
		Workspace: services.NewWorkspaceService(db, log, r.Workspace, r.Project),
		Problem:   services.NewProblemService(db, log, r.CoreProblem, r.Project, events, generator),
		Persona:   services.NewPersonaService(db, log, r.CoreProblem, r.Persona, events, generator),
		PainPoint: services.NewPainPointService(db, log, r.Persona, r.PainPoint, events, generator),
		Solution:  services.NewSolutionService(db, log, r.Persona, r.PainPoint, r.Solution, r.Mapping, events, generator),
		Story:     services.NewStoryService(db, log, r.CoreProblem, r.Persona, r.Solution, r.UserStory, r.Project, generator),
		Canvas:    services.NewCanvasService(db, log, r.Canvas),
		Events:    events,
		Transfer: services.NewTransferService(db, log,
			r.Project, r.CoreProblem, r.Persona, r.PainPoint,
			r.Solution, r.Mapping, r.UserStory, r.Canvas),
		Workflow: workflow,
	}, nil
}
