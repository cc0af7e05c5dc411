package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/ideaforge-backend/internal/logger"
	"github.com/yungbote/ideaforge-backend/internal/types"
)

type PainPointRepo interface {
	Create(ctx context.Context, tx *gorm.DB, points []*types.PainPoint) ([]*types.PainPoint, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.PainPoint, error)
	GetByPersonaID(ctx context.Context, tx *gorm.DB, personaID uuid.UUID) ([]*types.PainPoint, error)
	GetByPersonaIDs(ctx context.Context, tx *gorm.DB, personaIDs []uuid.UUID) ([]*types.PainPoint, error)
	SetLocked(ctx context.Context, tx *gorm.DB, id uuid.UUID, locked bool) error
	DeleteUnlockedByPersonaID(ctx context.Context, tx *gorm.DB, personaID uuid.UUID) error
}

type painPointRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPainPointRepo(db *gorm.DB, baseLog *logger.Logger) PainPointRepo {
	repoLog := baseLog.With("repo", "PainPointRepo")
	return &painPointRepo{db: db, log: repoLog}
}

func (r *painPointRepo) Create(ctx context.Context, tx *gorm.DB, points []*types.PainPoint) ([]*types.PainPoint, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(points) == 0 {
		return []*types.PainPoint{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&points).Error; err != nil {
		return nil, err
	}
	return points, nil
}

func (r *painPointRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.PainPoint, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.PainPoint
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *painPointRepo) GetByPersonaID(ctx context.Context, tx *gorm.DB, personaID uuid.UUID) ([]*types.PainPoint, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.PainPoint
	if err := transaction.WithContext(ctx).
		Where("persona_id = ?", personaID).
		Order("position ASC, created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *painPointRepo) GetByPersonaIDs(ctx context.Context, tx *gorm.DB, personaIDs []uuid.UUID) ([]*types.PainPoint, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.PainPoint
	if len(personaIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("persona_id IN ?", personaIDs).
		Order("position ASC, created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *painPointRepo) SetLocked(ctx context.Context, tx *gorm.DB, id uuid.UUID, locked bool) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	result := transaction.WithContext(ctx).
		Model(&types.PainPoint{}).
		Where("id = ?", id).
		Update("is_locked", locked)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *painPointRepo) DeleteUnlockedByPersonaID(ctx context.Context, tx *gorm.DB, personaID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).
		Where("persona_id = ? AND is_locked = ?", personaID, false).
		Delete(&types.PainPoint{}).Error
}
