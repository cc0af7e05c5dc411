package repos

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/ideaforge-backend/internal/logger"
	"github.com/yungbote/ideaforge-backend/internal/types"
)

type CanvasStateRepo interface {
	Save(ctx context.Context, tx *gorm.DB, state *types.CanvasState) (*types.CanvasState, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.CanvasState, error)
	GetLatestByProjectID(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) (*types.CanvasState, error)
	GetByProjectID(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) ([]*types.CanvasState, error)
	DeleteByProjectID(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) error
}

type canvasStateRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCanvasStateRepo(db *gorm.DB, baseLog *logger.Logger) CanvasStateRepo {
	repoLog := baseLog.With("repo", "CanvasStateRepo")
	return &canvasStateRepo{db: db, log: repoLog}
}

// Save upserts by primary key. A caller that reuses an ID overwrites that
// snapshot in place and refreshes updated_at.
func (r *canvasStateRepo) Save(ctx context.Context, tx *gorm.DB, state *types.CanvasState) (*types.CanvasState, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	state.UpdatedAt = time.Now().UTC()
	if err := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"nodes", "edges", "viewport", "updated_at",
			}),
		}).
		Create(state).Error; err != nil {
		return nil, err
	}
	return state, nil
}

func (r *canvasStateRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.CanvasState, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.CanvasState
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

// GetLatestByProjectID returns the newest snapshot by updated_at, or nil
// when the project has no canvas yet.
func (r *canvasStateRepo) GetLatestByProjectID(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) (*types.CanvasState, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.CanvasState
	err := transaction.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("updated_at DESC").
		First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *canvasStateRepo) GetByProjectID(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) ([]*types.CanvasState, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.CanvasState
	if err := transaction.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("updated_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *canvasStateRepo) DeleteByProjectID(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).
		Where("project_id = ?", projectID).
		Delete(&types.CanvasState{}).Error
}
