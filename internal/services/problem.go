package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/ideaforge-backend/internal/llm"
	"github.com/yungbote/ideaforge-backend/internal/logger"
	"github.com/yungbote/ideaforge-backend/internal/repos"
	"github.com/yungbote/ideaforge-backend/internal/types"
)

type ProblemService interface {
	Submit(ctx context.Context, projectID uuid.UUID, input string) (*types.CoreProblem, error)
	GetLatest(ctx context.Context, projectID uuid.UUID) (*types.CoreProblem, error)
	History(ctx context.Context, projectID uuid.UUID) ([]*types.CoreProblem, error)
}

type problemService struct {
	db          *gorm.DB
	log         *logger.Logger
	problemRepo repos.CoreProblemRepo
	projectRepo repos.ProjectRepo
	events      EventService
	generator   llm.Generator
}

func NewProblemService(db *gorm.DB, log *logger.Logger, problemRepo repos.CoreProblemRepo, projectRepo repos.ProjectRepo, events EventService, generator llm.Generator) ProblemService {
	serviceLog := log.With("service", "ProblemService")
	return &problemService{
		db:          db,
		log:         serviceLog,
		problemRepo: problemRepo,
		projectRepo: projectRepo,
		events:      events,
		generator:   generator,
	}
}

type problemVerdict struct {
	IsValid          bool   `json:"is_valid"`
	ValidatedProblem string `json:"validated_problem"`
	Feedback         string `json:"feedback"`
}

const validateProblemPrompt = `You are a product strategist reviewing a problem statement.

Problem statement:
%s

Assess whether this is a specific, solvable product problem. Respond with
JSON only: {"is_valid": bool, "validated_problem": "refined one-sentence
statement", "feedback": "short actionable feedback"}`

// Submit records a new problem version. Validation happens outside the
// write transaction so a slow model call never holds a connection.
func (s *problemService) Submit(ctx context.Context, projectID uuid.UUID, input string) (*types.CoreProblem, error) {
	draft := types.NewCoreProblem(projectID, input, 1)
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	var verdict problemVerdict
	if err := s.generator.GenerateJSON(ctx, fmt.Sprintf(validateProblemPrompt, input), &verdict); err != nil {
		s.log.Error("Problem validation call failed", "project_id", projectID, "error", err)
		return nil, err
	}

	var saved *types.CoreProblem
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		version, err := s.problemRepo.NextVersion(ctx, tx, projectID)
		if err != nil {
			return err
		}
		problem := types.NewCoreProblem(projectID, input, version)
		problem.IsValid = verdict.IsValid
		if verdict.ValidatedProblem != "" {
			validated := verdict.ValidatedProblem
			problem.ValidatedProblem = &validated
		}
		if verdict.Feedback != "" {
			feedback := verdict.Feedback
			problem.ValidationFeedback = &feedback
		}
		if _, err := s.problemRepo.Create(ctx, tx, problem); err != nil {
			return err
		}

		payload, err := json.Marshal(map[string]interface{}{
			"core_problem_id":   problem.ID,
			"original_input":    problem.OriginalInput,
			"validated_problem": problem.ValidatedProblem,
			"is_valid":          problem.IsValid,
			"feedback":          problem.ValidationFeedback,
			"version":           problem.Version,
		})
		if err != nil {
			return err
		}
		if _, err := s.events.Append(ctx, tx, projectID, types.EventProblemValidated, payload, nil, types.ActorAIAgent); err != nil {
			return err
		}

		if problem.IsValid {
			if err := s.projectRepo.UpdateStep(ctx, tx, projectID, types.StepSolutionDiscovery); err != nil {
				return err
			}
		}
		saved = problem
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Problem recorded", "project_id", projectID, "version", saved.Version, "is_valid", saved.IsValid)
	return saved, nil
}

func (s *problemService) GetLatest(ctx context.Context, projectID uuid.UUID) (*types.CoreProblem, error) {
	return s.problemRepo.GetLatestByProjectID(ctx, nil, projectID)
}

func (s *problemService) History(ctx context.Context, projectID uuid.UUID) ([]*types.CoreProblem, error) {
	return s.problemRepo.GetByProjectID(ctx, nil, projectID)
}
