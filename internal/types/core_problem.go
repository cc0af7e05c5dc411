package types

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/ideaforge-backend/internal/apierr"
)

// CoreProblem rows are versioned per project: every validation attempt
// inserts a new row with version = latest + 1 and nothing is ever updated
// in place.
type CoreProblem struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID          uuid.UUID `gorm:"type:uuid;not null;index" json:"project_id"`
	Project            *Project  `gorm:"constraint:OnDelete:CASCADE;foreignKey:ProjectID;references:ID" json:"project,omitempty"`
	OriginalInput      string    `gorm:"column:original_input;not null" json:"original_input"`
	ValidatedProblem   *string   `gorm:"column:validated_problem" json:"validated_problem,omitempty"`
	IsValid            bool      `gorm:"column:is_valid;not null;default:false" json:"is_valid"`
	ValidationFeedback *string   `gorm:"column:validation_feedback" json:"validation_feedback,omitempty"`
	Version            int       `gorm:"column:version;not null;default:1" json:"version"`
	CreatedAt          time.Time `gorm:"not null" json:"created_at"`
}

func (CoreProblem) TableName() string { return "core_problems" }

func NewCoreProblem(projectID uuid.UUID, originalInput string, version int) *CoreProblem {
	if version < 1 {
		version = 1
	}
	return &CoreProblem{
		ID:            uuid.New(),
		ProjectID:     projectID,
		OriginalInput: originalInput,
		Version:       version,
		CreatedAt:     time.Now().UTC(),
	}
}

func (p *CoreProblem) Validate() error {
	input := strings.TrimSpace(p.OriginalInput)
	if input == "" {
		return apierr.Validation("problem input cannot be empty")
	}
	if len(input) < 10 {
		return apierr.Validation("problem description is too short")
	}
	if len(input) > 1000 {
		return apierr.Validation("problem description is too long")
	}
	return nil
}
