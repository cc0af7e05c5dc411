package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Project struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	WorkspaceID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"workspace_id"`
	Workspace     *Workspace     `gorm:"constraint:OnDelete:CASCADE;foreignKey:WorkspaceID;references:ID" json:"workspace,omitempty"`
	Name          string         `gorm:"column:name;not null" json:"name"`
	Status        string         `gorm:"column:status;not null" json:"status"`
	CurrentStep   string         `gorm:"column:current_step;not null" json:"current_step"`
	WorkflowState datatypes.JSON `gorm:"column:workflow_state" json:"workflow_state,omitempty"`
	CreatedAt     time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"not null" json:"updated_at"`
}

func (Project) TableName() string { return "projects" }

func NewProject(workspaceID uuid.UUID, name string) *Project {
	now := time.Now().UTC()
	return &Project{
		ID:          uuid.New(),
		WorkspaceID: workspaceID,
		Name:        name,
		Status:      StepProblemInput.String(),
		CurrentStep: StepProblemInput.String(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
