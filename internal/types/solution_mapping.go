package types

import (
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/ideaforge-backend/internal/apierr"
)

// SolutionPainPointMapping links a solution to a pain point it addresses,
// with an advisory relevance score. One (solution, pain point) pair maps
// at most once.
type SolutionPainPointMapping struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	SolutionID     uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_solution_pain_point" json:"solution_id"`
	Solution       *Solution  `gorm:"constraint:OnDelete:CASCADE;foreignKey:SolutionID;references:ID" json:"solution,omitempty"`
	PainPointID    uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_solution_pain_point" json:"pain_point_id"`
	PainPoint      *PainPoint `gorm:"constraint:OnDelete:CASCADE;foreignKey:PainPointID;references:ID" json:"pain_point,omitempty"`
	RelevanceScore *float64   `gorm:"column:relevance_score" json:"relevance_score,omitempty"`
	CreatedAt      time.Time  `gorm:"not null" json:"created_at"`
}

func (SolutionPainPointMapping) TableName() string { return "solution_pain_point_mappings" }

func NewSolutionPainPointMapping(solutionID, painPointID uuid.UUID, relevance *float64) *SolutionPainPointMapping {
	return &SolutionPainPointMapping{
		ID:             uuid.New(),
		SolutionID:     solutionID,
		PainPointID:    painPointID,
		RelevanceScore: relevance,
		CreatedAt:      time.Now().UTC(),
	}
}

func (m *SolutionPainPointMapping) Validate() error {
	if m.RelevanceScore != nil && (*m.RelevanceScore < 0 || *m.RelevanceScore > 1) {
		return apierr.Validation("relevance score must be between 0 and 1")
	}
	return nil
}
