package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/ideaforge-backend/internal/apierr"
	"github.com/yungbote/ideaforge-backend/internal/llm"
	"github.com/yungbote/ideaforge-backend/internal/logger"
	"github.com/yungbote/ideaforge-backend/internal/repos"
	"github.com/yungbote/ideaforge-backend/internal/types"
)

type PersonaService interface {
	Generate(ctx context.Context, projectID uuid.UUID) ([]*types.Persona, error)
	Regenerate(ctx context.Context, projectID uuid.UUID) ([]*types.Persona, error)
	List(ctx context.Context, projectID uuid.UUID) ([]*types.Persona, error)
	SetActive(ctx context.Context, projectID, personaID uuid.UUID) error
	SetLocked(ctx context.Context, personaID uuid.UUID, locked bool) error
}

type personaService struct {
	db          *gorm.DB
	log         *logger.Logger
	problemRepo repos.CoreProblemRepo
	personaRepo repos.PersonaRepo
	events      EventService
	generator   llm.Generator
}

func NewPersonaService(db *gorm.DB, log *logger.Logger, problemRepo repos.CoreProblemRepo, personaRepo repos.PersonaRepo, events EventService, generator llm.Generator) PersonaService {
	serviceLog := log.With("service", "PersonaService")
	return &personaService{
		db:          db,
		log:         serviceLog,
		problemRepo: problemRepo,
		personaRepo: personaRepo,
		events:      events,
		generator:   generator,
	}
}

type generatedPersona struct {
	Name       string `json:"name"`
	Industry   string `json:"industry"`
	Role       string `json:"role"`
	PainDegree int    `json:"pain_degree"`
}

const generatePersonasPrompt = `Given this validated product problem:

%s

Generate 5 distinct user personas who experience this problem. Respond
with a JSON array only, each element:
{"name": string, "industry": string, "role": string, "pain_degree": 1-5}`

func (s *personaService) Generate(ctx context.Context, projectID uuid.UUID) ([]*types.Persona, error) {
	return s.generate(ctx, projectID, false)
}

// Regenerate replaces every unlocked persona under the project's latest
// problem. Locked personas and their subtrees survive untouched.
func (s *personaService) Regenerate(ctx context.Context, projectID uuid.UUID) ([]*types.Persona, error) {
	return s.generate(ctx, projectID, true)
}

func (s *personaService) generate(ctx context.Context, projectID uuid.UUID, replaceUnlocked bool) ([]*types.Persona, error) {
	problem, err := s.problemRepo.GetLatestByProjectID(ctx, nil, projectID)
	if err != nil {
		return nil, err
	}
	if problem == nil {
		return nil, apierr.NotFound("project has no problem statement")
	}

	statement := problem.OriginalInput
	if problem.ValidatedProblem != nil {
		statement = *problem.ValidatedProblem
	}

	var drafts []generatedPersona
	if err := s.generator.GenerateJSON(ctx, fmt.Sprintf(generatePersonasPrompt, statement), &drafts); err != nil {
		s.log.Error("Persona generation call failed", "project_id", projectID, "error", err)
		return nil, err
	}
	if len(drafts) == 0 {
		return nil, fmt.Errorf("model returned no personas")
	}

	batch := uuid.New().String()
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if replaceUnlocked {
			if err := s.personaRepo.DeleteUnlockedByCoreProblemID(ctx, tx, problem.ID); err != nil {
				return err
			}
		}

		existing, err := s.personaRepo.GetByCoreProblemID(ctx, tx, problem.ID)
		if err != nil {
			return err
		}

		// Survivors keep their slots; new personas fill the gaps from
		// the lowest free position upward.
		taken := map[int]bool{}
		for _, p := range existing {
			taken[p.Position] = true
		}
		next := 0
		nextFree := func() int {
			for taken[next] {
				next++
			}
			taken[next] = true
			return next
		}

		var personas []*types.Persona
		for _, d := range drafts {
			p := types.NewPersona(types.PersonaParams{
				CoreProblemID:   problem.ID,
				Name:            d.Name,
				Industry:        d.Industry,
				Role:            d.Role,
				PainDegree:      d.PainDegree,
				Position:        nextFree(),
				GenerationBatch: batch,
			})
			if err := p.Validate(); err != nil {
				return err
			}
			personas = append(personas, p)
		}
		if _, err := s.personaRepo.Create(ctx, tx, personas); err != nil {
			return err
		}

		all, err := s.personaRepo.GetByCoreProblemID(ctx, tx, problem.ID)
		if err != nil {
			return err
		}
		payload, err := json.Marshal(all)
		if err != nil {
			return err
		}
		_, err = s.events.Append(ctx, tx, projectID, types.EventPersonasGenerated, payload, nil, types.ActorAIAgent)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Personas generated", "project_id", projectID, "batch", batch, "count", len(drafts))
	return s.List(ctx, projectID)
}

func (s *personaService) List(ctx context.Context, projectID uuid.UUID) ([]*types.Persona, error) {
	problem, err := s.problemRepo.GetLatestByProjectID(ctx, nil, projectID)
	if err != nil {
		return nil, err
	}
	if problem == nil {
		return []*types.Persona{}, nil
	}
	return s.personaRepo.GetByCoreProblemID(ctx, nil, problem.ID)
}

func (s *personaService) SetActive(ctx context.Context, projectID, personaID uuid.UUID) error {
	problem, err := s.problemRepo.GetLatestByProjectID(ctx, nil, projectID)
	if err != nil {
		return err
	}
	if problem == nil {
		return apierr.NotFound("project has no problem statement")
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.personaRepo.SetActive(ctx, tx, problem.ID, personaID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apierr.NotFound("persona not found")
			}
			return err
		}
		payload, err := json.Marshal(map[string]interface{}{"persona_id": personaID})
		if err != nil {
			return err
		}
		_, err = s.events.Append(ctx, tx, projectID, types.EventPersonaSelected, payload, nil, types.ActorUser)
		return err
	})
}

func (s *personaService) SetLocked(ctx context.Context, personaID uuid.UUID, locked bool) error {
	if err := s.personaRepo.SetLocked(ctx, nil, personaID, locked); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierr.NotFound("persona not found")
		}
		return err
	}
	return nil
}
