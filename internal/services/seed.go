package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/yungbote/ideaforge-backend/internal/logger"
	"github.com/yungbote/ideaforge-backend/internal/repos"
	"github.com/yungbote/ideaforge-backend/internal/types"
)

const defaultUserEmail = "local@ideaforge.app"

// SeedService makes a fresh database usable: the app is single-user and
// local-first, so first launch gets one user and one active workspace.
type SeedService interface {
	EnsureDefaults(ctx context.Context) (*types.User, *types.Workspace, error)
}

type seedService struct {
	db            *gorm.DB
	log           *logger.Logger
	userRepo      repos.UserRepo
	workspaceRepo repos.WorkspaceRepo
}

func NewSeedService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo, workspaceRepo repos.WorkspaceRepo) SeedService {
	serviceLog := log.With("service", "SeedService")
	return &seedService{db: db, log: serviceLog, userRepo: userRepo, workspaceRepo: workspaceRepo}
}

func (s *seedService) EnsureDefaults(ctx context.Context) (*types.User, *types.Workspace, error) {
	var user *types.User
	var workspace *types.Workspace

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		user, err = s.userRepo.GetOrCreateByEmail(ctx, tx, defaultUserEmail)
		if err != nil {
			return err
		}

		existing, err := s.workspaceRepo.GetByUserID(ctx, tx, user.ID)
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			for _, ws := range existing {
				if ws.IsActive {
					workspace = ws
					return nil
				}
			}
			workspace = existing[0]
			return s.workspaceRepo.SetActive(ctx, tx, user.ID, workspace.ID)
		}

		workspace, err = s.workspaceRepo.Create(ctx, tx, types.NewWorkspace(user.ID, "My Workspace"))
		return err
	})
	if err != nil {
		s.log.Error("Failed to seed defaults", "error", err)
		return nil, nil, err
	}

	s.log.Info("Defaults ready", "user_id", user.ID, "workspace_id", workspace.ID)
	return user, workspace, nil
}
