package types

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/ideaforge-backend/internal/apierr"
)

type PainPoint struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	PersonaID       uuid.UUID `gorm:"type:uuid;not null;index" json:"persona_id"`
	Persona         *Persona  `gorm:"constraint:OnDelete:CASCADE;foreignKey:PersonaID;references:ID" json:"persona,omitempty"`
	Description     string    `gorm:"column:description;not null" json:"description"`
	Severity        *int      `gorm:"column:severity" json:"severity,omitempty"`
	ImpactArea      *string   `gorm:"column:impact_area" json:"impact_area,omitempty"`
	Position        int       `gorm:"column:position;not null;default:0" json:"position"`
	IsLocked        bool      `gorm:"column:is_locked;not null;default:false" json:"is_locked"`
	GenerationBatch *string   `gorm:"column:generation_batch" json:"generation_batch,omitempty"`
	CreatedAt       time.Time `gorm:"not null" json:"created_at"`
}

func (PainPoint) TableName() string { return "pain_points" }

type PainPointParams struct {
	PersonaID       uuid.UUID
	Description     string
	Severity        *int
	ImpactArea      *string
	Position        int
	GenerationBatch string
}

func NewPainPoint(p PainPointParams) *PainPoint {
	pp := &PainPoint{
		ID:          uuid.New(),
		PersonaID:   p.PersonaID,
		Description: p.Description,
		Severity:    p.Severity,
		ImpactArea:  p.ImpactArea,
		Position:    p.Position,
		CreatedAt:   time.Now().UTC(),
	}
	if p.GenerationBatch != "" {
		batch := p.GenerationBatch
		pp.GenerationBatch = &batch
	}
	return pp
}

func (p *PainPoint) Validate() error {
	if strings.TrimSpace(p.Description) == "" {
		return apierr.Validation("pain point description cannot be empty")
	}
	if p.Severity != nil && (*p.Severity < 1 || *p.Severity > 5) {
		return apierr.Validation("severity must be between 1 and 5")
	}
	return nil
}
