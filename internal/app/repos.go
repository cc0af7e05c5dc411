package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/ideaforge-backend/internal/logger"
	"github.com/yungbote/ideaforge-backend/internal/repos"
)

type Repos struct {
	User        repos.UserRepo
	Workspace   repos.WorkspaceRepo
	Project     repos.ProjectRepo
	CoreProblem repos.CoreProblemRepo
	Persona     repos.PersonaRepo
	PainPoint   repos.PainPointRepo
	Solution    repos.SolutionRepo
	Mapping     repos.SolutionMappingRepo
	UserStory   repos.UserStoryRepo
	Canvas      repos.CanvasStateRepo
	StateEvent  repos.StateEventRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	return Repos{
		User:        repos.NewUserRepo(db, log),
		Workspace:   repos.NewWorkspaceRepo(db, log),
		Project:     repos.NewProjectRepo(db, log),
		CoreProblem: repos.NewCoreProblemRepo(db, log),
		Persona:     repos.NewPersonaRepo(db, log),
		PainPoint:   repos.NewPainPointRepo(db, log),
		Solution:    repos.NewSolutionRepo(db, log),
		Mapping:     repos.NewSolutionMappingRepo(db, log),
		UserStory:   repos.NewUserStoryRepo(db, log),
		Canvas:      repos.NewCanvasStateRepo(db, log),
		StateEvent:  repos.NewStateEventRepo(db, log),
	}
}
