package types

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/ideaforge-backend/internal/apierr"
)

// CanvasState is a point-in-time snapshot of the visual canvas for a
// project. Saves replace by primary key, so callers reusing an ID get
// upsert semantics.
type CanvasState struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID uuid.UUID      `gorm:"type:uuid;not null;index" json:"project_id"`
	Project   *Project       `gorm:"constraint:OnDelete:CASCADE;foreignKey:ProjectID;references:ID" json:"project,omitempty"`
	Nodes     datatypes.JSON `gorm:"column:nodes;not null" json:"nodes"`
	Edges     datatypes.JSON `gorm:"column:edges;not null" json:"edges"`
	Viewport  datatypes.JSON `gorm:"column:viewport" json:"viewport,omitempty"`
	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
}

func (CanvasState) TableName() string { return "canvas_states" }

func NewCanvasState(projectID uuid.UUID, nodes, edges, viewport datatypes.JSON) *CanvasState {
	now := time.Now().UTC()
	return &CanvasState{
		ID:        uuid.New(),
		ProjectID: projectID,
		Nodes:     nodes,
		Edges:     edges,
		Viewport:  viewport,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Validate requires nodes and edges to be JSON arrays. Viewport is an
// optional object.
func (c *CanvasState) Validate() error {
	if !isJSONArray(c.Nodes) {
		return apierr.Validation("canvas nodes must be a JSON array")
	}
	if !isJSONArray(c.Edges) {
		return apierr.Validation("canvas edges must be a JSON array")
	}
	return nil
}

func isJSONArray(raw datatypes.JSON) bool {
	if len(raw) == 0 {
		return false
	}
	var arr []json.RawMessage
	return json.Unmarshal(raw, &arr) == nil
}
