package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/ideaforge-backend/internal/logger"
	"github.com/yungbote/ideaforge-backend/internal/types"
)

type CoreProblemRepo interface {
	Create(ctx context.Context, tx *gorm.DB, problem *types.CoreProblem) (*types.CoreProblem, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.CoreProblem, error)
	GetLatestByProjectID(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) (*types.CoreProblem, error)
	GetByProjectID(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) ([]*types.CoreProblem, error)
	NextVersion(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) (int, error)
}

type coreProblemRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCoreProblemRepo(db *gorm.DB, baseLog *logger.Logger) CoreProblemRepo {
	repoLog := baseLog.With("repo", "CoreProblemRepo")
	return &coreProblemRepo{db: db, log: repoLog}
}

func (r *coreProblemRepo) Create(ctx context.Context, tx *gorm.DB, problem *types.CoreProblem) (*types.CoreProblem, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).Create(problem).Error; err != nil {
		return nil, err
	}
	return problem, nil
}

func (r *coreProblemRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.CoreProblem, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.CoreProblem
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

// GetLatestByProjectID returns the highest-version problem row for the
// project, or nil when the project has none yet.
func (r *coreProblemRepo) GetLatestByProjectID(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) (*types.CoreProblem, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.CoreProblem
	err := transaction.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("version DESC").
		First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *coreProblemRepo) GetByProjectID(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) ([]*types.CoreProblem, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.CoreProblem
	if err := transaction.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("version ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *coreProblemRepo) NextVersion(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) (int, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var max int
	if err := transaction.WithContext(ctx).
		Model(&types.CoreProblem{}).
		Where("project_id = ?", projectID).
		Select("COALESCE(MAX(version), 0)").
		Scan(&max).Error; err != nil {
		return 0, err
	}
	return max + 1, nil
}
