package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/ideaforge-backend/internal/logger"
	"github.com/yungbote/ideaforge-backend/internal/types"
)

type SolutionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, solutions []*types.Solution) ([]*types.Solution, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Solution, error)
	GetByProjectID(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) ([]*types.Solution, error)
	GetByPersonaID(ctx context.Context, tx *gorm.DB, personaID uuid.UUID) ([]*types.Solution, error)
	GetByPersonaIDs(ctx context.Context, tx *gorm.DB, personaIDs []uuid.UUID) ([]*types.Solution, error)
	GetSelectedByPersonaID(ctx context.Context, tx *gorm.DB, personaID uuid.UUID) ([]*types.Solution, error)
	SetSelected(ctx context.Context, tx *gorm.DB, id uuid.UUID, selected bool) error
	SetLocked(ctx context.Context, tx *gorm.DB, id uuid.UUID, locked bool) error
	DeleteUnlockedByPersonaID(ctx context.Context, tx *gorm.DB, personaID uuid.UUID) error
}

type solutionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSolutionRepo(db *gorm.DB, baseLog *logger.Logger) SolutionRepo {
	repoLog := baseLog.With("repo", "SolutionRepo")
	return &solutionRepo{db: db, log: repoLog}
}

func (r *solutionRepo) Create(ctx context.Context, tx *gorm.DB, solutions []*types.Solution) ([]*types.Solution, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(solutions) == 0 {
		return []*types.Solution{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&solutions).Error; err != nil {
		return nil, err
	}
	return solutions, nil
}

func (r *solutionRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Solution, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.Solution
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *solutionRepo) GetByProjectID(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) ([]*types.Solution, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Solution
	if err := transaction.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("position ASC, created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *solutionRepo) GetByPersonaID(ctx context.Context, tx *gorm.DB, personaID uuid.UUID) ([]*types.Solution, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Solution
	if err := transaction.WithContext(ctx).
		Where("persona_id = ?", personaID).
		Order("position ASC, created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *solutionRepo) GetByPersonaIDs(ctx context.Context, tx *gorm.DB, personaIDs []uuid.UUID) ([]*types.Solution, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Solution
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

func (r *solutionRepo) GetSelectedByPersonaID(ctx context.Context, tx *gorm.DB, personaID uuid.UUID) ([]*types.Solution, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Solution
	if err := transaction.WithContext(ctx).
		Where("persona_id = ? AND is_selected = ?", personaID, true).
		Order("position ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *solutionRepo) SetSelected(ctx context.Context, tx *gorm.DB, id uuid.UUID, selected bool) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	result := transaction.WithContext(ctx).
		Model(&types.Solution{}).
		Where("id = ?", id).
		Update("is_selected", selected)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *solutionRepo) SetLocked(ctx context.Context, tx *gorm.DB, id uuid.UUID, locked bool) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	result := transaction.WithContext(ctx).
		Model(&types.Solution{}).
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

func (r *solutionRepo) DeleteUnlockedByPersonaID(ctx context.Context, tx *gorm.DB, personaID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).
		Where("persona_id = ? AND is_locked = ?", personaID, false).
		Delete(&types.Solution{}).Error
}
