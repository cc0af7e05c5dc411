package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/ideaforge-backend/internal/logger"
	"github.com/yungbote/ideaforge-backend/internal/types"
)

type SolutionMappingRepo interface {
	Create(ctx context.Context, tx *gorm.DB, mappings []*types.SolutionPainPointMapping) ([]*types.SolutionPainPointMapping, error)
	GetBySolutionID(ctx context.Context, tx *gorm.DB, solutionID uuid.UUID) ([]*types.SolutionPainPointMapping, error)
	GetBySolutionIDs(ctx context.Context, tx *gorm.DB, solutionIDs []uuid.UUID) ([]*types.SolutionPainPointMapping, error)
	GetByPainPointID(ctx context.Context, tx *gorm.DB, painPointID uuid.UUID) ([]*types.SolutionPainPointMapping, error)
	DeleteBySolutionID(ctx context.Context, tx *gorm.DB, solutionID uuid.UUID) error
}

type solutionMappingRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSolutionMappingRepo(db *gorm.DB, baseLog *logger.Logger) SolutionMappingRepo {
	repoLog := baseLog.With("repo", "SolutionMappingRepo")
	return &solutionMappingRepo{db: db, log: repoLog}
}

// Create inserts mappings, ignoring duplicates of the (solution, pain
// point) pair so repeated generation passes stay idempotent.
func (r *solutionMappingRepo) Create(ctx context.Context, tx *gorm.DB, mappings []*types.SolutionPainPointMapping) ([]*types.SolutionPainPointMapping, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(mappings) == 0 {
		return []*types.SolutionPainPointMapping{}, nil
	}

	if err := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "solution_id"}, {Name: "pain_point_id"}},
			DoNothing: true,
		}).
		Create(&mappings).Error; err != nil {
		return nil, err
	}
	return mappings, nil
}

func (r *solutionMappingRepo) GetBySolutionID(ctx context.Context, tx *gorm.DB, solutionID uuid.UUID) ([]*types.SolutionPainPointMapping, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.SolutionPainPointMapping
	if err := transaction.WithContext(ctx).
		Where("solution_id = ?", solutionID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *solutionMappingRepo) GetBySolutionIDs(ctx context.Context, tx *gorm.DB, solutionIDs []uuid.UUID) ([]*types.SolutionPainPointMapping, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.SolutionPainPointMapping
	if len(solutionIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("solution_id IN ?", solutionIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *solutionMappingRepo) GetByPainPointID(ctx context.Context, tx *gorm.DB, painPointID uuid.UUID) ([]*types.SolutionPainPointMapping, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.SolutionPainPointMapping
	if err := transaction.WithContext(ctx).
		Where("pain_point_id = ?", painPointID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *solutionMappingRepo) DeleteBySolutionID(ctx context.Context, tx *gorm.DB, solutionID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).
		Where("solution_id = ?", solutionID).
		Delete(&types.SolutionPainPointMapping{}).Error
}
