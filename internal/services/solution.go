package services

import (
	"context"
	"encoding/json"
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

type SolutionService interface {
	Generate(ctx context.Context, projectID, personaID uuid.UUID) ([]*types.Solution, error)
	Regenerate(ctx context.Context, projectID, personaID uuid.UUID) ([]*types.Solution, error)
	List(ctx context.Context, personaID uuid.UUID) ([]*types.Solution, error)
	Select(ctx context.Context, projectID, solutionID uuid.UUID) error
	Deselect(ctx context.Context, solutionID uuid.UUID) error
	SetLocked(ctx context.Context, solutionID uuid.UUID, locked bool) error
	Mappings(ctx context.Context, solutionID uuid.UUID) ([]*types.SolutionPainPointMapping, error)
}

type solutionService struct {
	db            *gorm.DB
	log           *logger.Logger
	personaRepo   repos.PersonaRepo
	painPointRepo repos.PainPointRepo
	solutionRepo  repos.SolutionRepo
	mappingRepo   repos.SolutionMappingRepo
	events        EventService
	generator     llm.Generator
}

func NewSolutionService(db *gorm.DB, log *logger.Logger, personaRepo repos.PersonaRepo, painPointRepo repos.PainPointRepo, solutionRepo repos.SolutionRepo, mappingRepo repos.SolutionMappingRepo, events EventService, generator llm.Generator) SolutionService {
	serviceLog := log.With("service", "SolutionService")
	return &solutionService{
		db:            db,
		log:           serviceLog,
		personaRepo:   personaRepo,
		painPointRepo: painPointRepo,
		solutionRepo:  solutionRepo,
		mappingRepo:   mappingRepo,
		events:        events,
		generator:     generator,
	}
}

type generatedSolution struct {
	Title           string  `json:"title"`
	Description     string  `json:"description"`
	SolutionType    *string `json:"solution_type"`
	ComplexityLevel *string `json:"complexity_level"`
	// Indexes into the pain point list given in the prompt, with an
	// advisory relevance per addressed point.
	AddressesPainPoints []struct {
		Index     int      `json:"index"`
		Relevance *float64 `json:"relevance"`
	} `json:"addresses_pain_points"`
}

const generateSolutionsPrompt = `Persona: %s, a %s working in %s.

Their pain points, numbered from 0:
%s

Propose 5 solutions. Respond with a JSON array only, each element:
{"title": string, "description": string, "solution_type": string,
"complexity_level": "low"|"medium"|"high",
"addresses_pain_points": [{"index": int, "relevance": 0.0-1.0}]}`

func (s *solutionService) Generate(ctx context.Context, projectID, personaID uuid.UUID) ([]*types.Solution, error) {
	return s.generate(ctx, projectID, personaID, false)
}

func (s *solutionService) Regenerate(ctx context.Context, projectID, personaID uuid.UUID) ([]*types.Solution, error) {
	return s.generate(ctx, projectID, personaID, true)
}

func (s *solutionService) generate(ctx context.Context, projectID, personaID uuid.UUID, replaceUnlocked bool) ([]*types.Solution, error) {
	persona, err := s.personaRepo.GetByID(ctx, nil, personaID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("persona not found")
		}
		return nil, err
	}

	points, err := s.painPointRepo.GetByPersonaID(ctx, nil, personaID)
	if err != nil {
		return nil, err
	}
	if len(points) == 0 {
		return nil, apierr.Validation("persona has no pain points to solve for")
	}

	var listing strings.Builder
	for i, p := range points {
		fmt.Fprintf(&listing, "%d. %s\n", i, p.Description)
	}

	var drafts []generatedSolution
	prompt := fmt.Sprintf(generateSolutionsPrompt, persona.Name, persona.Role, persona.Industry, listing.String())
	if err := s.generator.GenerateJSON(ctx, prompt, &drafts); err != nil {
		s.log.Error("Solution generation call failed", "persona_id", personaID, "error", err)
		return nil, err
	}
	if len(drafts) == 0 {
		return nil, fmt.Errorf("model returned no solutions")
	}

	batch := uuid.New().String()
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if replaceUnlocked {
			solutions, err := s.solutionRepo.GetByPersonaID(ctx, tx, personaID)
			if err != nil {
				return err
			}
			for _, sol := range solutions {
				if sol.IsLocked {
					continue
				}
				if err := s.mappingRepo.DeleteBySolutionID(ctx, tx, sol.ID); err != nil {
					return err
				}
			}
			if err := s.solutionRepo.DeleteUnlockedByPersonaID(ctx, tx, personaID); err != nil {
				return err
			}
		}

		existing, err := s.solutionRepo.GetByPersonaID(ctx, tx, personaID)
		if err != nil {
			return err
		}
		offset := len(existing)

		var solutions []*types.Solution
		var mappings []*types.SolutionPainPointMapping
		for i, d := range drafts {
			sol := types.NewSolution(types.SolutionParams{
				ProjectID:       projectID,
				PersonaID:       personaID,
				Title:           d.Title,
				Description:     d.Description,
				SolutionType:    d.SolutionType,
				ComplexityLevel: d.ComplexityLevel,
				Position:        offset + i,
				GenerationBatch: batch,
			})
			if err := sol.Validate(); err != nil {
				return err
			}
			solutions = append(solutions, sol)

			for _, ref := range d.AddressesPainPoints {
				if ref.Index < 0 || ref.Index >= len(points) {
					continue
				}
				m := types.NewSolutionPainPointMapping(sol.ID, points[ref.Index].ID, ref.Relevance)
				if err := m.Validate(); err != nil {
					return err
				}
				mappings = append(mappings, m)
			}
		}
		if _, err := s.solutionRepo.Create(ctx, tx, solutions); err != nil {
			return err
		}
		if _, err := s.mappingRepo.Create(ctx, tx, mappings); err != nil {
			return err
		}

		all, err := s.solutionRepo.GetByPersonaID(ctx, tx, personaID)
		if err != nil {
			return err
		}
		payload, err := json.Marshal(all)
		if err != nil {
			return err
		}
		_, err = s.events.Append(ctx, tx, projectID, types.EventSolutionsGenerated, payload, nil, types.ActorAIAgent)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Solutions generated", "persona_id", personaID, "batch", batch, "count", len(drafts))
	return s.solutionRepo.GetByPersonaID(ctx, nil, personaID)
}

func (s *solutionService) List(ctx context.Context, personaID uuid.UUID) ([]*types.Solution, error) {
	return s.solutionRepo.GetByPersonaID(ctx, nil, personaID)
}

// Select marks the solution chosen and appends a selection event. The
// log accumulates selections rather than replacing them.
func (s *solutionService) Select(ctx context.Context, projectID, solutionID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.solutionRepo.SetSelected(ctx, tx, solutionID, true); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apierr.NotFound("solution not found")
			}
			return err
		}
		payload, err := json.Marshal(map[string]interface{}{"solution_id": solutionID})
		if err != nil {
			return err
		}
		_, err = s.events.Append(ctx, tx, projectID, types.EventSolutionSelected, payload, nil, types.ActorUser)
		return err
	})
}

func (s *solutionService) Deselect(ctx context.Context, solutionID uuid.UUID) error {
	if err := s.solutionRepo.SetSelected(ctx, nil, solutionID, false); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierr.NotFound("solution not found")
		}
		return err
	}
	return nil
}

func (s *solutionService) SetLocked(ctx context.Context, solutionID uuid.UUID, locked bool) error {
	if err := s.solutionRepo.SetLocked(ctx, nil, solutionID, locked); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierr.NotFound("solution not found")
		}
		return err
	}
	return nil
}

func (s *solutionService) Mappings(ctx context.Context, solutionID uuid.UUID) ([]*types.SolutionPainPointMapping, error) {
	return s.mappingRepo.GetBySolutionID(ctx, nil, solutionID)
}
