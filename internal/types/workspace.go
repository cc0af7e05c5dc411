package types

import (
	"time"

	"github.com/google/uuid"
)

type Workspace struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User       *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	Name       string    `gorm:"column:name;not null" json:"name"`
	FolderPath *string   `gorm:"column:folder_path" json:"folder_path,omitempty"`
	IsActive   bool      `gorm:"column:is_active;not null;default:true" json:"is_active"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null" json:"updated_at"`
}

func (Workspace) TableName() string { return "workspaces" }

func NewWorkspace(userID uuid.UUID, name string) *Workspace {
	now := time.Now().UTC()
	return &Workspace{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      name,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
