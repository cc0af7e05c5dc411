package services

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/ideaforge-backend/internal/apierr"
	"github.com/yungbote/ideaforge-backend/internal/logger"
	"github.com/yungbote/ideaforge-backend/internal/repos"
	"github.com/yungbote/ideaforge-backend/internal/types"
)

// ProjectState is the reduced view of a project's event log. Keys are
// event-defined; the known ones are problem, personas, active_persona_id,
// pain_points, solutions and selected_solutions.
type ProjectState map[string]interface{}

type EventService interface {
	Append(ctx context.Context, tx *gorm.DB, projectID uuid.UUID, eventType string, data, metadata datatypes.JSON, actor string) (*types.StateEvent, error)
	List(ctx context.Context, projectID uuid.UUID) ([]*types.StateEvent, error)
	ListSince(ctx context.Context, projectID uuid.UUID, afterSeq int64) ([]*types.StateEvent, error)
	CurrentState(ctx context.Context, projectID uuid.UUID) (ProjectState, error)
}

type eventService struct {
	db        *gorm.DB
	log       *logger.Logger
	eventRepo repos.StateEventRepo
}

func NewEventService(db *gorm.DB, log *logger.Logger, eventRepo repos.StateEventRepo) EventService {
	serviceLog := log.With("service", "EventService")
	return &eventService{db: db, log: serviceLog, eventRepo: eventRepo}
}

func (s *eventService) Append(ctx context.Context, tx *gorm.DB, projectID uuid.UUID, eventType string, data, metadata datatypes.JSON, actor string) (*types.StateEvent, error) {
	if len(data) == 0 {
		data = datatypes.JSON(`{}`)
	}
	event := types.NewStateEvent(projectID, eventType, data, metadata, actor)
	appended, err := s.eventRepo.Append(ctx, tx, event)
	if err != nil {
		s.log.Error("Failed to append event", "project_id", projectID, "event_type", eventType, "error", err)
		return nil, apierr.FromStorage(err)
	}
	s.log.Debug("Event appended", "project_id", projectID, "event_type", eventType, "seq", appended.SequenceNumber)
	return appended, nil
}

func (s *eventService) List(ctx context.Context, projectID uuid.UUID) ([]*types.StateEvent, error) {
	return s.eventRepo.GetByProjectID(ctx, nil, projectID)
}

func (s *eventService) ListSince(ctx context.Context, projectID uuid.UUID, afterSeq int64) ([]*types.StateEvent, error) {
	return s.eventRepo.GetByProjectIDSince(ctx, nil, projectID, afterSeq)
}

func (s *eventService) CurrentState(ctx context.Context, projectID uuid.UUID) (ProjectState, error) {
	events, err := s.eventRepo.GetByProjectID(ctx, nil, projectID)
	if err != nil {
		return nil, err
	}
	return Reduce(events), nil
}

// Reduce folds an ordered event log into the current project state.
// A project with no events reduces to nil, which is distinct from the
// empty state a cleared project would have. Events whose payload fails
// to parse contribute nothing to the fold.
func Reduce(events []*types.StateEvent) ProjectState {
	if len(events) == 0 {
		return nil
	}

	state := ProjectState{}
	for _, event := range events {
		var data interface{}
		if len(event.EventData) > 0 {
			if err := json.Unmarshal(event.EventData, &data); err != nil {
				data = nil
			}
		}

		switch event.EventType {
		case types.EventProblemValidated:
			state["problem"] = data
		case types.EventPersonasGenerated:
			state["personas"] = data
		case types.EventPersonaSelected:
			state["active_persona_id"] = data
		case types.EventPainPointsGenerated:
			state["pain_points"] = data
		case types.EventSolutionsGenerated:
			state["solutions"] = data
		case types.EventSolutionSelected:
			var selected []interface{}
			if prev, ok := state["selected_solutions"].([]interface{}); ok {
				selected = prev
			}
			state["selected_solutions"] = append(selected, data)
		default:
			obj, ok := data.(map[string]interface{})
			if !ok {
				continue
			}
			for k, v := range obj {
				state[k] = v
			}
		}
	}
	return state
}
