package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/ideaforge-backend/internal/logger"
	"github.com/yungbote/ideaforge-backend/internal/types"
)

type StateEventRepo interface {
	Append(ctx context.Context, tx *gorm.DB, event *types.StateEvent) (*types.StateEvent, error)
	GetByProjectID(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) ([]*types.StateEvent, error)
	GetByProjectIDSince(ctx context.Context, tx *gorm.DB, projectID uuid.UUID, afterSeq int64) ([]*types.StateEvent, error)
	GetLatestByProjectID(ctx context.Context, tx *gorm.DB, projectID uuid.UUID, limit int) ([]*types.StateEvent, error)
	CountByProjectID(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) (int64, error)
}

type stateEventRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStateEventRepo(db *gorm.DB, baseLog *logger.Logger) StateEventRepo {
	repoLog := baseLog.With("repo", "StateEventRepo")
	return &stateEventRepo{db: db, log: repoLog}
}

// Append assigns the next sequence number for the project and inserts the
// event. The read and insert share the caller's transaction; callers that
// pass nil get a single implicit transaction and rely on the unique
// (project_id, sequence_number) index to reject races.
func (r *stateEventRepo) Append(ctx context.Context, tx *gorm.DB, event *types.StateEvent) (*types.StateEvent, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	assign := func(innerTx *gorm.DB) error {
		var max int64
		if err := innerTx.WithContext(ctx).
			Model(&types.StateEvent{}).
			Where("project_id = ?", event.ProjectID).
			Select("COALESCE(MAX(sequence_number), 0)").
			Scan(&max).Error; err != nil {
			return err
		}
		event.SequenceNumber = max + 1
		return innerTx.WithContext(ctx).Create(event).Error
	}

	if tx != nil {
		if err := assign(transaction); err != nil {
			return nil, err
		}
		return event, nil
	}
	if err := transaction.Transaction(assign); err != nil {
		return nil, err
	}
	return event, nil
}

func (r *stateEventRepo) GetByProjectID(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) ([]*types.StateEvent, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.StateEvent
	if err := transaction.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("sequence_number ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *stateEventRepo) GetByProjectIDSince(ctx context.Context, tx *gorm.DB, projectID uuid.UUID, afterSeq int64) ([]*types.StateEvent, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.StateEvent
	if err := transaction.WithContext(ctx).
		Where("project_id = ? AND sequence_number > ?", projectID, afterSeq).
		Order("sequence_number ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *stateEventRepo) GetLatestByProjectID(ctx context.Context, tx *gorm.DB, projectID uuid.UUID, limit int) ([]*types.StateEvent, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if limit <= 0 {
		limit = 50
	}

	var results []*types.StateEvent
	if err := transaction.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("sequence_number DESC").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *stateEventRepo) CountByProjectID(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.StateEvent{}).
		Where("project_id = ?", projectID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
