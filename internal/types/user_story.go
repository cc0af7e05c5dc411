package types

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/ideaforge-backend/internal/apierr"
)

type UserStory struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID          uuid.UUID `gorm:"type:uuid;not null;index" json:"project_id"`
	Project            *Project  `gorm:"constraint:OnDelete:CASCADE;foreignKey:ProjectID;references:ID" json:"project,omitempty"`
	Title              string    `gorm:"column:title;not null" json:"title"`
	AsA                string    `gorm:"column:as_a;not null" json:"as_a"`
	IWant              string    `gorm:"column:i_want;not null" json:"i_want"`
	SoThat             string    `gorm:"column:so_that;not null" json:"so_that"`
	AcceptanceCriteria []string  `gorm:"column:acceptance_criteria;serializer:json" json:"acceptance_criteria"`
	Priority           *string   `gorm:"column:priority" json:"priority,omitempty"`
	ComplexityPoints   *int      `gorm:"column:complexity_points" json:"complexity_points,omitempty"`
	Position           int       `gorm:"column:position;not null;default:0" json:"position"`
	IsEdited           bool      `gorm:"column:is_edited;not null;default:false" json:"is_edited"`
	OriginalContent    *string   `gorm:"column:original_content" json:"original_content,omitempty"`
	EditedContent      *string   `gorm:"column:edited_content" json:"edited_content,omitempty"`
	CreatedAt          time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt          time.Time `gorm:"not null" json:"updated_at"`
}

func (UserStory) TableName() string { return "user_stories" }

type UserStoryParams struct {
	ProjectID          uuid.UUID
	Title              string
	AsA                string
	IWant              string
	SoThat             string
	AcceptanceCriteria []string
	Priority           *string
	ComplexityPoints   *int
	Position           int
}

func NewUserStory(p UserStoryParams) *UserStory {
	now := time.Now().UTC()
	criteria := p.AcceptanceCriteria
	if criteria == nil {
		criteria = []string{}
	}
	return &UserStory{
		ID:                 uuid.New(),
		ProjectID:          p.ProjectID,
		Title:              p.Title,
		AsA:                p.AsA,
		IWant:              p.IWant,
		SoThat:             p.SoThat,
		AcceptanceCriteria: criteria,
		Priority:           p.Priority,
		ComplexityPoints:   p.ComplexityPoints,
		Position:           p.Position,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

func (s *UserStory) Validate() error {
	if strings.TrimSpace(s.Title) == "" {
		return apierr.Validation("story title cannot be empty")
	}
	if strings.TrimSpace(s.AsA) == "" {
		return apierr.Validation("story actor cannot be empty")
	}
	if strings.TrimSpace(s.IWant) == "" {
		return apierr.Validation("story goal cannot be empty")
	}
	if strings.TrimSpace(s.SoThat) == "" {
		return apierr.Validation("story rationale cannot be empty")
	}
	return nil
}
