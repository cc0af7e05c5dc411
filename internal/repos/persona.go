package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/ideaforge-backend/internal/logger"
	"github.com/yungbote/ideaforge-backend/internal/types"
)

type PersonaRepo interface {
	Create(ctx context.Context, tx *gorm.DB, personas []*types.Persona) ([]*types.Persona, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Persona, error)
	GetByCoreProblemID(ctx context.Context, tx *gorm.DB, coreProblemID uuid.UUID) ([]*types.Persona, error)
	GetActiveByCoreProblemID(ctx context.Context, tx *gorm.DB, coreProblemID uuid.UUID) (*types.Persona, error)
	SetActive(ctx context.Context, tx *gorm.DB, coreProblemID, personaID uuid.UUID) error
	SetLocked(ctx context.Context, tx *gorm.DB, id uuid.UUID, locked bool) error
	DeleteUnlockedByCoreProblemID(ctx context.Context, tx *gorm.DB, coreProblemID uuid.UUID) error
}

type personaRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPersonaRepo(db *gorm.DB, baseLog *logger.Logger) PersonaRepo {
	repoLog := baseLog.With("repo", "PersonaRepo")
	return &personaRepo{db: db, log: repoLog}
}

func (r *personaRepo) Create(ctx context.Context, tx *gorm.DB, personas []*types.Persona) ([]*types.Persona, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(personas) == 0 {
		return []*types.Persona{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&personas).Error; err != nil {
		return nil, err
	}
	return personas, nil
}

func (r *personaRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Persona, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.Persona
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *personaRepo) GetByCoreProblemID(ctx context.Context, tx *gorm.DB, coreProblemID uuid.UUID) ([]*types.Persona, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Persona
	if err := transaction.WithContext(ctx).
		Where("core_problem_id = ?", coreProblemID).
		Order("position ASC, created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *personaRepo) GetActiveByCoreProblemID(ctx context.Context, tx *gorm.DB, coreProblemID uuid.UUID) (*types.Persona, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.Persona
	err := transaction.WithContext(ctx).
		Where("core_problem_id = ? AND is_active = ?", coreProblemID, true).
		First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// SetActive deactivates every sibling under the same problem before
// activating the target, so at most one persona is active at a time.
func (r *personaRepo) SetActive(ctx context.Context, tx *gorm.DB, coreProblemID, personaID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).
		Model(&types.Persona{}).
		Where("core_problem_id = ?", coreProblemID).
		Update("is_active", false).Error; err != nil {
		return err
	}

	result := transaction.WithContext(ctx).
		Model(&types.Persona{}).
		Where("id = ? AND core_problem_id = ?", personaID, coreProblemID).
		Update("is_active", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *personaRepo) SetLocked(ctx context.Context, tx *gorm.DB, id uuid.UUID, locked bool) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	result := transaction.WithContext(ctx).
		Model(&types.Persona{}).
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

// DeleteUnlockedByCoreProblemID clears regeneration candidates. Locked
// personas survive along with their pain points and solutions.
func (r *personaRepo) DeleteUnlockedByCoreProblemID(ctx context.Context, tx *gorm.DB, coreProblemID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).
		Where("core_problem_id = ? AND is_locked = ?", coreProblemID, false).
		Delete(&types.Persona{}).Error
}
