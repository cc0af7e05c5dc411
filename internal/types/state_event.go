package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Known event types. Unknown types are still stored and replayed; the
// reducer applies a shallow merge for anything it does not recognize.
const (
	EventProblemValidated    = "problem_validated"
	EventPersonasGenerated   = "personas_generated"
	EventPersonaSelected     = "persona_selected"
	EventPainPointsGenerated = "pain_points_generated"
	EventSolutionsGenerated  = "solutions_generated"
	EventSolutionSelected    = "solution_selected"
)

// Actors recorded in CreatedBy.
const (
	ActorUser    = "user"
	ActorAIAgent = "ai_agent"
)

// StateEvent is one append-only entry in a project's event log.
// SequenceNumber is assigned at insert time and is strictly increasing
// per project.
type StateEvent struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID      uuid.UUID      `gorm:"type:uuid;not null;index:idx_state_events_project_seq" json:"project_id"`
	Project        *Project       `gorm:"constraint:OnDelete:CASCADE;foreignKey:ProjectID;references:ID" json:"project,omitempty"`
	EventType      string         `gorm:"column:event_type;not null" json:"event_type"`
	EventData      datatypes.JSON `gorm:"column:event_data;not null" json:"event_data"`
	EventMetadata  datatypes.JSON `gorm:"column:event_metadata" json:"event_metadata,omitempty"`
	SequenceNumber int64          `gorm:"column:sequence_number;not null;index:idx_state_events_project_seq" json:"sequence_number"`
	CreatedBy      string         `gorm:"column:created_by;not null;default:user" json:"created_by"`
	CreatedAt      time.Time      `gorm:"not null" json:"created_at"`
}

func (StateEvent) TableName() string { return "state_events" }

func NewStateEvent(projectID uuid.UUID, eventType string, data, metadata datatypes.JSON, createdBy string) *StateEvent {
	if createdBy == "" {
		createdBy = ActorUser
	}
	return &StateEvent{
		ID:            uuid.New(),
		ProjectID:     projectID,
		EventType:     eventType,
		EventData:     data,
		EventMetadata: metadata,
		CreatedBy:     createdBy,
		CreatedAt:     time.Now().UTC(),
	}
}
