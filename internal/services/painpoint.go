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

type PainPointService interface {
	Generate(ctx context.Context, projectID, personaID uuid.UUID) ([]*types.PainPoint, error)
	Regenerate(ctx context.Context, projectID, personaID uuid.UUID) ([]*types.PainPoint, error)
	List(ctx context.Context, personaID uuid.UUID) ([]*types.PainPoint, error)
	SetLocked(ctx context.Context, painPointID uuid.UUID, locked bool) error
}

type painPointService struct {
	db            *gorm.DB
	log           *logger.Logger
	personaRepo   repos.PersonaRepo
	painPointRepo repos.PainPointRepo
	events        EventService
	generator     llm.Generator
}

func NewPainPointService(db *gorm.DB, log *logger.Logger, personaRepo repos.PersonaRepo, painPointRepo repos.PainPointRepo, events EventService, generator llm.Generator) PainPointService {
	serviceLog := log.With("service", "PainPointService")
	return &painPointService{
		db:            db,
		log:           serviceLog,
		personaRepo:   personaRepo,
		painPointRepo: painPointRepo,
		events:        events,
		generator:     generator,
	}
}

type generatedPainPoint struct {
	Description string  `json:"description"`
	Severity    *int    `json:"severity"`
	ImpactArea  *string `json:"impact_area"`
}

const generatePainPointsPrompt = `Persona: %s, a %s working in %s.

List the 5 most significant pain points this persona has around the
problem space. Respond with a JSON array only, each element:
{"description": string, "severity": 1-5, "impact_area": string}`

func (s *painPointService) Generate(ctx context.Context, projectID, personaID uuid.UUID) ([]*types.PainPoint, error) {
	return s.generate(ctx, projectID, personaID, false)
}

func (s *painPointService) Regenerate(ctx context.Context, projectID, personaID uuid.UUID) ([]*types.PainPoint, error) {
	return s.generate(ctx, projectID, personaID, true)
}

func (s *painPointService) generate(ctx context.Context, projectID, personaID uuid.UUID, replaceUnlocked bool) ([]*types.PainPoint, error) {
	persona, err := s.personaRepo.GetByID(ctx, nil, personaID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("persona not found")
		}
		return nil, err
	}

	var drafts []generatedPainPoint
	prompt := fmt.Sprintf(generatePainPointsPrompt, persona.Name, persona.Role, persona.Industry)
	if err := s.generator.GenerateJSON(ctx, prompt, &drafts); err != nil {
		s.log.Error("Pain point generation call failed", "persona_id", personaID, "error", err)
		return nil, err
	}
	if len(drafts) == 0 {
		return nil, fmt.Errorf("model returned no pain points")
	}

	batch := uuid.New().String()
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if replaceUnlocked {
			if err := s.painPointRepo.DeleteUnlockedByPersonaID(ctx, tx, personaID); err != nil {
				return err
			}
		}

		existing, err := s.painPointRepo.GetByPersonaID(ctx, tx, personaID)
		if err != nil {
			return err
		}
		offset := len(existing)

		var points []*types.PainPoint
		for i, d := range drafts {
			pp := types.NewPainPoint(types.PainPointParams{
				PersonaID:       personaID,
				Description:     d.Description,
				Severity:        d.Severity,
				ImpactArea:      d.ImpactArea,
				Position:        offset + i,
				GenerationBatch: batch,
			})
			if err := pp.Validate(); err != nil {
				return err
			}
			points = append(points, pp)
		}
		if _, err := s.painPointRepo.Create(ctx, tx, points); err != nil {
			return err
		}

		all, err := s.painPointRepo.GetByPersonaID(ctx, tx, personaID)
		if err != nil {
			return err
		}
		payload, err := json.Marshal(all)
		if err != nil {
			return err
		}
		_, err = s.events.Append(ctx, tx, projectID, types.EventPainPointsGenerated, payload, nil, types.ActorAIAgent)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Pain points generated", "persona_id", personaID, "batch", batch, "count", len(drafts))
	return s.painPointRepo.GetByPersonaID(ctx, nil, personaID)
}

func (s *painPointService) List(ctx context.Context, personaID uuid.UUID) ([]*types.PainPoint, error) {
	return s.painPointRepo.GetByPersonaID(ctx, nil, personaID)
}

func (s *painPointService) SetLocked(ctx context.Context, painPointID uuid.UUID, locked bool) error {
	if err := s.painPointRepo.SetLocked(ctx, nil, painPointID, locked); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierr.NotFound("pain point not found")
		}
		return err
	}
	return nil
}
