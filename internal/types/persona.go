package types

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/ideaforge-backend/internal/apierr"
)

type Persona struct {
	ID              uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	CoreProblemID   uuid.UUID    `gorm:"type:uuid;not null;index" json:"core_problem_id"`
	CoreProblem     *CoreProblem `gorm:"constraint:OnDelete:CASCADE;foreignKey:CoreProblemID;references:ID" json:"core_problem,omitempty"`
	Name            string       `gorm:"column:name;not null" json:"name"`
	Industry        string       `gorm:"column:industry;not null" json:"industry"`
	Role            string       `gorm:"column:role;not null" json:"role"`
	PainDegree      int          `gorm:"column:pain_degree;not null;default:3" json:"pain_degree"`
	Position        int          `gorm:"column:position;not null;default:0" json:"position"`
	IsLocked        bool         `gorm:"column:is_locked;not null;default:false" json:"is_locked"`
	IsActive        bool         `gorm:"column:is_active;not null;default:false" json:"is_active"`
	GenerationBatch *string      `gorm:"column:generation_batch" json:"generation_batch,omitempty"`
	CreatedAt       time.Time    `gorm:"not null" json:"created_at"`
}

func (Persona) TableName() string { return "personas" }

// PersonaParams configures NewPersona. Zero values fall back to defaults
// (pain degree 3, position 0, unlocked, inactive).
type PersonaParams struct {
	CoreProblemID   uuid.UUID
	Name            string
	Industry        string
	Role            string
	PainDegree      int
	Position        int
	GenerationBatch string
}

// NewPersona builds a persona, clamping PainDegree to [1,5].
func NewPersona(p PersonaParams) *Persona {
	degree := p.PainDegree
	if degree == 0 {
		degree = 3
	}
	persona := &Persona{
		ID:            uuid.New(),
		CoreProblemID: p.CoreProblemID,
		Name:          p.Name,
		Industry:      p.Industry,
		Role:          p.Role,
		PainDegree:    ClampPainDegree(degree),
		Position:      p.Position,
		CreatedAt:     time.Now().UTC(),
	}
	if p.GenerationBatch != "" {
		batch := p.GenerationBatch
		persona.GenerationBatch = &batch
	}
	return persona
}

func ClampPainDegree(degree int) int {
	if degree < 1 {
		return 1
	}
	if degree > 5 {
		return 5
	}
	return degree
}

func (p *Persona) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return apierr.Validation("persona name cannot be empty")
	}
	if strings.TrimSpace(p.Industry) == "" {
		return apierr.Validation("industry cannot be empty")
	}
	if strings.TrimSpace(p.Role) == "" {
		return apierr.Validation("role cannot be empty")
	}
	if p.PainDegree < 1 || p.PainDegree > 5 {
		return apierr.Validation("pain degree must be between 1 and 5")
	}
	return nil
}
