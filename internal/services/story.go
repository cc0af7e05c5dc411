package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/ideaforge-backend/internal/apierr"
	"github.com/yungbote/ideaforge-backend/internal/llm"
	"github.com/yungbote/ideaforge-backend/internal/logger"
	"github.com/yungbote/ideaforge-backend/internal/repos"
	"github.com/yungbote/ideaforge-backend/internal/types"
)

type StoryService interface {
	Generate(ctx context.Context, projectID uuid.UUID) ([]*types.UserStory, error)
	List(ctx context.Context, projectID uuid.UUID) ([]*types.UserStory, error)
	UpdateContent(ctx context.Context, storyID uuid.UUID, edited string) error
	Delete(ctx context.Context, storyID uuid.UUID) error
}

type storyService struct {
	db           *gorm.DB
	log          *logger.Logger
	problemRepo  repos.CoreProblemRepo
	personaRepo  repos.PersonaRepo
	solutionRepo repos.SolutionRepo
	storyRepo    repos.UserStoryRepo
	projectRepo  repos.ProjectRepo
	generator    llm.Generator
}

func NewStoryService(db *gorm.DB, log *logger.Logger, problemRepo repos.CoreProblemRepo, personaRepo repos.PersonaRepo, solutionRepo repos.SolutionRepo, storyRepo repos.UserStoryRepo, projectRepo repos.ProjectRepo, generator llm.Generator) StoryService {
	serviceLog := log.With("service", "StoryService")
	return &storyService{
		db:           db,
		log:          serviceLog,
		problemRepo:  problemRepo,
		personaRepo:  personaRepo,
		solutionRepo: solutionRepo,
		storyRepo:    storyRepo,
		projectRepo:  projectRepo,
		generator:    generator,
	}
}

type generatedStory struct {
	Title              string   `json:"title"`
	AsA                string   `json:"as_a"`
	IWant              string   `json:"i_want"`
	SoThat             string   `json:"so_that"`
	AcceptanceCriteria []string `json:"acceptance_criteria"`
	Priority           *string  `json:"priority"`
	ComplexityPoints   *int     `json:"complexity_points"`
}

const generateStoriesPrompt = `Active persona: %s (%s, %s).

Selected solutions:
%s

Write user stories covering these solutions. Respond with a JSON array
only, each element:
{"title": string, "as_a": string, "i_want": string, "so_that": string,
"acceptance_criteria": [string], "priority": "low"|"medium"|"high",
"complexity_points": int}`

// Generate derives stories from the active persona's selected solutions
// and advances the project to the user_stories step.
func (s *storyService) Generate(ctx context.Context, projectID uuid.UUID) ([]*types.UserStory, error) {
	problem, err := s.problemRepo.GetLatestByProjectID(ctx, nil, projectID)
	if err != nil {
		return nil, err
	}
	if problem == nil {
		return nil, apierr.NotFound("project has no problem statement")
	}

	persona, err := s.personaRepo.GetActiveByCoreProblemID(ctx, nil, problem.ID)
	if err != nil {
		return nil, err
	}
	if persona == nil {
		return nil, apierr.Validation("no active persona selected")
	}

	selected, err := s.solutionRepo.GetSelectedByPersonaID(ctx, nil, persona.ID)
	if err != nil {
		return nil, err
	}
	if len(selected) == 0 {
		return nil, apierr.Validation("no solutions selected")
	}

	var listing strings.Builder
	for _, sol := range selected {
		fmt.Fprintf(&listing, "- %s: %s\n", sol.Title, sol.Description)
	}

	var drafts []generatedStory
	prompt := fmt.Sprintf(generateStoriesPrompt, persona.Name, persona.Role, persona.Industry, listing.String())
	if err := s.generator.GenerateJSON(ctx, prompt, &drafts); err != nil {
		s.log.Error("Story generation call failed", "project_id", projectID, "error", err)
		return nil, err
	}
	if len(drafts) == 0 {
		return nil, fmt.Errorf("model returned no stories")
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := s.storyRepo.GetByProjectID(ctx, tx, projectID)
		if err != nil {
			return err
		}
		offset := len(existing)

		var stories []*types.UserStory
		for i, d := range drafts {
			story := types.NewUserStory(types.UserStoryParams{
				ProjectID:          projectID,
				Title:              d.Title,
				AsA:                d.AsA,
				IWant:              d.IWant,
				SoThat:             d.SoThat,
				AcceptanceCriteria: d.AcceptanceCriteria,
				Priority:           d.Priority,
				ComplexityPoints:   d.ComplexityPoints,
				Position:           offset + i,
			})
			if err := story.Validate(); err != nil {
				return err
			}
			stories = append(stories, story)
		}
		if _, err := s.storyRepo.Create(ctx, tx, stories); err != nil {
			return err
		}
		return s.projectRepo.UpdateStep(ctx, tx, projectID, types.StepUserStories)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("User stories generated", "project_id", projectID, "count", len(drafts))
	return s.storyRepo.GetByProjectID(ctx, nil, projectID)
}

func (s *storyService) List(ctx context.Context, projectID uuid.UUID) ([]*types.UserStory, error) {
	return s.storyRepo.GetByProjectID(ctx, nil, projectID)
}

func (s *storyService) UpdateContent(ctx context.Context, storyID uuid.UUID, edited string) error {
	if strings.TrimSpace(edited) == "" {
		return apierr.Validation("edited content cannot be empty")
	}
	if err := s.storyRepo.UpdateContent(ctx, nil, storyID, edited); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierr.NotFound("story not found")
		}
		return err
	}
	return nil
}

func (s *storyService) Delete(ctx context.Context, storyID uuid.UUID) error {
	return s.storyRepo.Delete(ctx, nil, storyID)
}
