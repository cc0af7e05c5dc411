package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/ideaforge-backend/internal/apierr"
	"github.com/yungbote/ideaforge-backend/internal/logger"
	"github.com/yungbote/ideaforge-backend/internal/repos"
	"github.com/yungbote/ideaforge-backend/internal/types"
)

// ProjectExport is the portable form of a project subtree. IDs inside it
// are only meaningful relative to each other; import re-keys everything.
type ProjectExport struct {
	FormatVersion int                               `json:"format_version"`
	Project       *types.Project                    `json:"project"`
	CoreProblem   *types.CoreProblem                `json:"core_problem,omitempty"`
	Personas      []*types.Persona                  `json:"personas"`
	PainPoints    []*types.PainPoint                `json:"pain_points"`
	Solutions     []*types.Solution                 `json:"solutions"`
	Mappings      []*types.SolutionPainPointMapping `json:"mappings"`
	UserStories   []*types.UserStory                `json:"user_stories"`
	Canvas        *types.CanvasState                `json:"canvas,omitempty"`
}

const exportFormatVersion = 1

type TransferService interface {
	Duplicate(ctx context.Context, projectID uuid.UUID, newName string) (*types.Project, error)
	Export(ctx context.Context, projectID uuid.UUID) ([]byte, error)
	Import(ctx context.Context, workspaceID uuid.UUID, raw []byte) (*types.Project, error)
}

type transferService struct {
	db          *gorm.DB
	log         *logger.Logger
	projectRepo repos.ProjectRepo
	problemRepo repos.CoreProblemRepo
	personaRepo repos.PersonaRepo
	painRepo    repos.PainPointRepo
	solRepo     repos.SolutionRepo
	mapRepo     repos.SolutionMappingRepo
	storyRepo   repos.UserStoryRepo
	canvasRepo  repos.CanvasStateRepo
}

func NewTransferService(db *gorm.DB, log *logger.Logger, projectRepo repos.ProjectRepo, problemRepo repos.CoreProblemRepo, personaRepo repos.PersonaRepo, painRepo repos.PainPointRepo, solRepo repos.SolutionRepo, mapRepo repos.SolutionMappingRepo, storyRepo repos.UserStoryRepo, canvasRepo repos.CanvasStateRepo) TransferService {
	serviceLog := log.With("service", "TransferService")
	return &transferService{
		db:          db,
		log:         serviceLog,
		projectRepo: projectRepo,
		problemRepo: problemRepo,
		personaRepo: personaRepo,
		painRepo:    painRepo,
		solRepo:     solRepo,
		mapRepo:     mapRepo,
		storyRepo:   storyRepo,
		canvasRepo:  canvasRepo,
	}
}

// collect gathers a project's subtree: the latest problem with its
// personas and pain points, plus the project-owned solutions, mappings,
// stories and newest canvas snapshot.
func (s *transferService) collect(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) (*ProjectExport, error) {
	project, err := s.projectRepo.GetByID(ctx, tx, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("project not found")
		}
		return nil, err
	}

	export := &ProjectExport{
		FormatVersion: exportFormatVersion,
		Project:       project,
		Personas:      []*types.Persona{},
		PainPoints:    []*types.PainPoint{},
		Solutions:     []*types.Solution{},
		Mappings:      []*types.SolutionPainPointMapping{},
		UserStories:   []*types.UserStory{},
	}

	problem, err := s.problemRepo.GetLatestByProjectID(ctx, tx, projectID)
	if err != nil {
		return nil, err
	}
	export.CoreProblem = problem

	if problem != nil {
		personas, err := s.personaRepo.GetByCoreProblemID(ctx, tx, problem.ID)
		if err != nil {
			return nil, err
		}
		export.Personas = personas

		var personaIDs []uuid.UUID
		for _, p := range personas {
			personaIDs = append(personaIDs, p.ID)
		}
		if export.PainPoints, err = s.painRepo.GetByPersonaIDs(ctx, tx, personaIDs); err != nil {
			return nil, err
		}
	}

	// Solutions are owned by the project, not the latest problem's
	// personas, so older-generation solutions export too.
	if export.Solutions, err = s.solRepo.GetByProjectID(ctx, tx, projectID); err != nil {
		return nil, err
	}
	var solutionIDs []uuid.UUID
	for _, sol := range export.Solutions {
		solutionIDs = append(solutionIDs, sol.ID)
	}
	if export.Mappings, err = s.mapRepo.GetBySolutionIDs(ctx, tx, solutionIDs); err != nil {
		return nil, err
	}

	if export.UserStories, err = s.storyRepo.GetByProjectID(ctx, tx, projectID); err != nil {
		return nil, err
	}
	if export.Canvas, err = s.canvasRepo.GetLatestByProjectID(ctx, tx, projectID); err != nil {
		return nil, err
	}
	return export, nil
}

// insertRekeyed writes the subtree under a fresh project, remapping every
// ID. Children whose parent is absent from the remap are skipped.
func (s *transferService) insertRekeyed(ctx context.Context, tx *gorm.DB, export *ProjectExport, workspaceID uuid.UUID, name string) (*types.Project, error) {
	project := types.NewProject(workspaceID, name)
	if export.Project != nil {
		project.Status = export.Project.Status
		project.CurrentStep = export.Project.CurrentStep
		project.WorkflowState = export.Project.WorkflowState
	}
	if _, err := s.projectRepo.Create(ctx, tx, project); err != nil {
		return nil, err
	}

	personaIDs := map[uuid.UUID]uuid.UUID{}
	painPointIDs := map[uuid.UUID]uuid.UUID{}
	solutionIDs := map[uuid.UUID]uuid.UUID{}

	var newProblemID uuid.UUID
	if export.CoreProblem != nil {
		problem := *export.CoreProblem
		problem.ID = uuid.New()
		problem.ProjectID = project.ID
		problem.Project = nil
		if _, err := s.problemRepo.Create(ctx, tx, &problem); err != nil {
			return nil, err
		}
		newProblemID = problem.ID
	}

	for _, src := range export.Personas {
		if newProblemID == uuid.Nil {
			break
		}
		persona := *src
		persona.ID = uuid.New()
		persona.CoreProblemID = newProblemID
		persona.CoreProblem = nil
		persona.PainDegree = types.ClampPainDegree(persona.PainDegree)
		if _, err := s.personaRepo.Create(ctx, tx, []*types.Persona{&persona}); err != nil {
			return nil, err
		}
		personaIDs[src.ID] = persona.ID
	}

	for _, src := range export.PainPoints {
		newPersonaID, ok := personaIDs[src.PersonaID]
		if !ok {
			continue
		}
		point := *src
		point.ID = uuid.New()
		point.PersonaID = newPersonaID
		point.Persona = nil
		if _, err := s.painRepo.Create(ctx, tx, []*types.PainPoint{&point}); err != nil {
			return nil, err
		}
		painPointIDs[src.ID] = point.ID
	}

	for _, src := range export.Solutions {
		newPersonaID, ok := personaIDs[src.PersonaID]
		if !ok {
			continue
		}
		solution := *src
		solution.ID = uuid.New()
		solution.ProjectID = project.ID
		solution.Project = nil
		solution.PersonaID = newPersonaID
		solution.Persona = nil
		if _, err := s.solRepo.Create(ctx, tx, []*types.Solution{&solution}); err != nil {
			return nil, err
		}
		solutionIDs[src.ID] = solution.ID
	}

	for _, src := range export.Mappings {
		newSolutionID, okSol := solutionIDs[src.SolutionID]
		newPainPointID, okPP := painPointIDs[src.PainPointID]
		if !okSol || !okPP {
			continue
		}
		mapping := *src
		mapping.ID = uuid.New()
		mapping.SolutionID = newSolutionID
		mapping.Solution = nil
		mapping.PainPointID = newPainPointID
		mapping.PainPoint = nil
		if _, err := s.mapRepo.Create(ctx, tx, []*types.SolutionPainPointMapping{&mapping}); err != nil {
			return nil, err
		}
	}

	for _, src := range export.UserStories {
		story := *src
		story.ID = uuid.New()
		story.ProjectID = project.ID
		story.Project = nil
		if _, err := s.storyRepo.Create(ctx, tx, []*types.UserStory{&story}); err != nil {
			return nil, err
		}
	}

	if export.Canvas != nil {
		canvas := *export.Canvas
		canvas.ID = uuid.New()
		canvas.ProjectID = project.ID
		canvas.Project = nil
		if _, err := s.canvasRepo.Save(ctx, tx, &canvas); err != nil {
			return nil, err
		}
	}

	return project, nil
}

// Duplicate copies a project's subtree into the same workspace under a
// new name, all inside one transaction.
func (s *transferService) Duplicate(ctx context.Context, projectID uuid.UUID, newName string) (*types.Project, error) {
	var duplicated *types.Project
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		export, err := s.collect(ctx, tx, projectID)
		if err != nil {
			return err
		}
		name := strings.TrimSpace(newName)
		if name == "" {
			name = export.Project.Name + " (Copy)"
		}
		duplicated, err = s.insertRekeyed(ctx, tx, export, export.Project.WorkspaceID, name)
		return err
	})
	if err != nil {
		s.log.Error("Project duplication failed", "project_id", projectID, "error", err)
		return nil, apierr.FromStorage(err)
	}
	s.log.Info("Project duplicated", "source_id", projectID, "new_id", duplicated.ID)
	return duplicated, nil
}

func (s *transferService) Export(ctx context.Context, projectID uuid.UUID) ([]byte, error) {
	export, err := s.collect(ctx, nil, projectID)
	if err != nil {
		return nil, err
	}
	raw, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return nil, apierr.New(500, apierr.CodeSerialization, err)
	}
	s.log.Info("Project exported", "project_id", projectID, "bytes", len(raw))
	return raw, nil
}

// Import validates the payload's internal references and writes a fully
// re-keyed copy of the subtree into the target workspace.
func (s *transferService) Import(ctx context.Context, workspaceID uuid.UUID, raw []byte) (*types.Project, error) {
	var export ProjectExport
	if err := json.Unmarshal(raw, &export); err != nil {
		return nil, apierr.Validation("import payload is not valid JSON")
	}
	if export.Project == nil || strings.TrimSpace(export.Project.Name) == "" {
		return nil, apierr.Validation("import payload has no project name")
	}
	if export.CoreProblem != nil {
		for _, p := range export.Personas {
			if p.CoreProblemID != export.CoreProblem.ID {
				return nil, apierr.ReferentialMismatch("persona references a problem outside the payload")
			}
		}
	} else if len(export.Personas) > 0 {
		return nil, apierr.ReferentialMismatch("personas present without a core problem")
	}

	var imported *types.Project
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		imported, err = s.insertRekeyed(ctx, tx, &export, workspaceID, export.Project.Name)
		return err
	})
	if err != nil {
		s.log.Error("Project import failed", "workspace_id", workspaceID, "error", err)
		return nil, apierr.FromStorage(err)
	}
	s.log.Info("Project imported", "workspace_id", workspaceID, "project_id", imported.ID)
	return imported, nil
}
