package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/ideaforge-backend/internal/logger"
	"github.com/yungbote/ideaforge-backend/internal/types"
)

type UserStoryRepo interface {
	Create(ctx context.Context, tx *gorm.DB, stories []*types.UserStory) ([]*types.UserStory, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.UserStory, error)
	GetByProjectID(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) ([]*types.UserStory, error)
	UpdateContent(ctx context.Context, tx *gorm.DB, id uuid.UUID, edited string) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type userStoryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserStoryRepo(db *gorm.DB, baseLog *logger.Logger) UserStoryRepo {
	repoLog := baseLog.With("repo", "UserStoryRepo")
	return &userStoryRepo{db: db, log: repoLog}
}

func (r *userStoryRepo) Create(ctx context.Context, tx *gorm.DB, stories []*types.UserStory) ([]*types.UserStory, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(stories) == 0 {
		return []*types.UserStory{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&stories).Error; err != nil {
		return nil, err
	}
	return stories, nil
}

func (r *userStoryRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.UserStory, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.UserStory
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *userStoryRepo) GetByProjectID(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) ([]*types.UserStory, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.UserStory
	if err := transaction.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("position ASC, created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// UpdateContent records a manual edit: the generated text is preserved
// in original_content on first edit and is_edited flips to true.
func (r *userStoryRepo) UpdateContent(ctx context.Context, tx *gorm.DB, id uuid.UUID, edited string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	story, err := r.GetByID(ctx, transaction, id)
	if err != nil {
		return err
	}

	updates := map[string]interface{}{
		"is_edited":      true,
		"edited_content": edited,
		"updated_at":     time.Now().UTC(),
	}
	if !story.IsEdited {
		original := story.Title + ": as a " + story.AsA + ", I want " + story.IWant + ", so that " + story.SoThat
		updates["original_content"] = original
	}

	return transaction.WithContext(ctx).
		Model(&types.UserStory{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *userStoryRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).
		Where("id = ?", id).
		Delete(&types.UserStory{}).Error
}
