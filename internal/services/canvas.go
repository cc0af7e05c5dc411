package services

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/ideaforge-backend/internal/logger"
	"github.com/yungbote/ideaforge-backend/internal/repos"
	"github.com/yungbote/ideaforge-backend/internal/types"
)

type CanvasService interface {
	Save(ctx context.Context, id *uuid.UUID, projectID uuid.UUID, nodes, edges, viewport datatypes.JSON) (*types.CanvasState, error)
	GetLatest(ctx context.Context, projectID uuid.UUID) (*types.CanvasState, error)
	History(ctx context.Context, projectID uuid.UUID) ([]*types.CanvasState, error)
}

type canvasService struct {
	db         *gorm.DB
	log        *logger.Logger
	canvasRepo repos.CanvasStateRepo
}

func NewCanvasService(db *gorm.DB, log *logger.Logger, canvasRepo repos.CanvasStateRepo) CanvasService {
	serviceLog := log.With("service", "CanvasService")
	return &canvasService{db: db, log: serviceLog, canvasRepo: canvasRepo}
}

// Save writes a snapshot. Passing an existing id overwrites that snapshot;
// a nil id creates a new one.
func (s *canvasService) Save(ctx context.Context, id *uuid.UUID, projectID uuid.UUID, nodes, edges, viewport datatypes.JSON) (*types.CanvasState, error) {
	state := types.NewCanvasState(projectID, nodes, edges, viewport)
	if id != nil {
		state.ID = *id
	}
	if err := state.Validate(); err != nil {
		return nil, err
	}

	saved, err := s.canvasRepo.Save(ctx, nil, state)
	if err != nil {
		s.log.Error("Failed to save canvas", "project_id", projectID, "error", err)
		return nil, err
	}
	s.log.Debug("Canvas saved", "project_id", projectID, "canvas_id", saved.ID)
	return saved, nil
}

func (s *canvasService) GetLatest(ctx context.Context, projectID uuid.UUID) (*types.CanvasState, error) {
	return s.canvasRepo.GetLatestByProjectID(ctx, nil, projectID)
}

func (s *canvasService) History(ctx context.Context, projectID uuid.UUID) ([]*types.CanvasState, error) {
	return s.canvasRepo.GetByProjectID(ctx, nil, projectID)
}
