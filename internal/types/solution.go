package types

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/ideaforge-backend/internal/apierr"
)

// Solution is dually owned: it belongs to a project and targets a persona.
type Solution struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID       uuid.UUID `gorm:"type:uuid;not null;index" json:"project_id"`
	Project         *Project  `gorm:"constraint:OnDelete:CASCADE;foreignKey:ProjectID;references:ID" json:"project,omitempty"`
	PersonaID       uuid.UUID `gorm:"type:uuid;not null;index" json:"persona_id"`
	Persona         *Persona  `gorm:"constraint:OnDelete:CASCADE;foreignKey:PersonaID;references:ID" json:"persona,omitempty"`
	Title           string    `gorm:"column:title;not null" json:"title"`
	Description     string    `gorm:"column:description;not null" json:"description"`
	SolutionType    *string   `gorm:"column:solution_type" json:"solution_type,omitempty"`
	ComplexityLevel *string   `gorm:"column:complexity_level" json:"complexity_level,omitempty"`
	Position        int       `gorm:"column:position;not null;default:0" json:"position"`
	IsLocked        bool      `gorm:"column:is_locked;not null;default:false" json:"is_locked"`
	IsSelected      bool      `gorm:"column:is_selected;not null;default:false" json:"is_selected"`
	GenerationBatch *string   `gorm:"column:generation_batch" json:"generation_batch,omitempty"`
	CreatedAt       time.Time `gorm:"not null" json:"created_at"`
}

func (Solution) TableName() string { return "key_solutions" }

type SolutionParams struct {
	ProjectID       uuid.UUID
	PersonaID       uuid.UUID
	Title           string
	Description     string
	SolutionType    *string
	ComplexityLevel *string
	Position        int
	GenerationBatch string
}

func NewSolution(p SolutionParams) *Solution {
	s := &Solution{
		ID:              uuid.New(),
		ProjectID:       p.ProjectID,
		PersonaID:       p.PersonaID,
		Title:           p.Title,
		Description:     p.Description,
		SolutionType:    p.SolutionType,
		ComplexityLevel: p.ComplexityLevel,
		Position:        p.Position,
		CreatedAt:       time.Now().UTC(),
	}
	if p.GenerationBatch != "" {
		batch := p.GenerationBatch
		s.GenerationBatch = &batch
	}
	return s
}

func (s *Solution) Validate() error {
	if strings.TrimSpace(s.Title) == "" {
		return apierr.Validation("solution title cannot be empty")
	}
	if strings.TrimSpace(s.Description) == "" {
		return apierr.Validation("solution description cannot be empty")
	}
	return nil
}
