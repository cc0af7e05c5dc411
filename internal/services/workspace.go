package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/ideaforge-backend/internal/apierr"
	"github.com/yungbote/ideaforge-backend/internal/logger"
	"github.com/yungbote/ideaforge-backend/internal/repos"
	"github.com/yungbote/ideaforge-backend/internal/types"
)

type WorkspaceService interface {
	Create(ctx context.Context, userID uuid.UUID, name string) (*types.Workspace, error)
	List(ctx context.Context, userID uuid.UUID) ([]*types.Workspace, error)
	GetActive(ctx context.Context, userID uuid.UUID) (*types.Workspace, error)
	SetActive(ctx context.Context, userID, workspaceID uuid.UUID) error
	Rename(ctx context.Context, workspaceID uuid.UUID, name string) error
	Delete(ctx context.Context, workspaceID uuid.UUID) error

	CreateProject(ctx context.Context, workspaceID uuid.UUID, name string) (*types.Project, error)
	ListProjects(ctx context.Context, workspaceID uuid.UUID) ([]*types.Project, error)
	GetProject(ctx context.Context, projectID uuid.UUID) (*types.Project, error)
	RenameProject(ctx context.Context, projectID uuid.UUID, name string) error
	DeleteProject(ctx context.Context, projectID uuid.UUID) error
}

type workspaceService struct {
	db            *gorm.DB
	log           *logger.Logger
	workspaceRepo repos.WorkspaceRepo
	projectRepo   repos.ProjectRepo
}

func NewWorkspaceService(db *gorm.DB, log *logger.Logger, workspaceRepo repos.WorkspaceRepo, projectRepo repos.ProjectRepo) WorkspaceService {
	serviceLog := log.With("service", "WorkspaceService")
	return &workspaceService{
		db:            db,
		log:           serviceLog,
		workspaceRepo: workspaceRepo,
		projectRepo:   projectRepo,
	}
}

func (s *workspaceService) Create(ctx context.Context, userID uuid.UUID, name string) (*types.Workspace, error) {
	if strings.TrimSpace(name) == "" {
		return nil, apierr.Validation("workspace name cannot be empty")
	}

	var created *types.Workspace
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ws, err := s.workspaceRepo.Create(ctx, tx, types.NewWorkspace(userID, name))
		if err != nil {
			return err
		}
		if err := s.workspaceRepo.SetActive(ctx, tx, userID, ws.ID); err != nil {
			return err
		}
		ws.IsActive = true
		created = ws
		return nil
	})
	if err != nil {
		s.log.Error("Failed to create workspace", "user_id", userID, "error", err)
		return nil, err
	}
	s.log.Info("Workspace created", "workspace_id", created.ID, "user_id", userID)
	return created, nil
}

func (s *workspaceService) List(ctx context.Context, userID uuid.UUID) ([]*types.Workspace, error) {
	return s.workspaceRepo.GetByUserID(ctx, nil, userID)
}

func (s *workspaceService) GetActive(ctx context.Context, userID uuid.UUID) (*types.Workspace, error) {
	ws, err := s.workspaceRepo.GetActiveByUserID(ctx, nil, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierr.NotFound("no active workspace")
	}
	return ws, err
}

// SetActive runs the deactivate/activate pair in one transaction so a
// failure never leaves the user without an active workspace.
func (s *workspaceService) SetActive(ctx context.Context, userID, workspaceID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.workspaceRepo.GetByID(ctx, tx, workspaceID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apierr.NotFound("workspace not found")
			}
			return err
		}
		return s.workspaceRepo.SetActive(ctx, tx, userID, workspaceID)
	})
}

func (s *workspaceService) Rename(ctx context.Context, workspaceID uuid.UUID, name string) error {
	if strings.TrimSpace(name) == "" {
		return apierr.Validation("workspace name cannot be empty")
	}
	return s.workspaceRepo.UpdateName(ctx, nil, workspaceID, name)
}

func (s *workspaceService) Delete(ctx context.Context, workspaceID uuid.UUID) error {
	s.log.Info("Deleting workspace", "workspace_id", workspaceID)
	return s.workspaceRepo.Delete(ctx, nil, workspaceID)
}

func (s *workspaceService) CreateProject(ctx context.Context, workspaceID uuid.UUID, name string) (*types.Project, error) {
	if strings.TrimSpace(name) == "" {
		return nil, apierr.Validation("project name cannot be empty")
	}
	if _, err := s.workspaceRepo.GetByID(ctx, nil, workspaceID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("workspace not found")
		}
		return nil, err
	}

	project, err := s.projectRepo.Create(ctx, nil, types.NewProject(workspaceID, name))
	if err != nil {
		s.log.Error("Failed to create project", "workspace_id", workspaceID, "error", err)
		return nil, err
	}
	s.log.Info("Project created", "project_id", project.ID, "workspace_id", workspaceID)
	return project, nil
}

func (s *workspaceService) ListProjects(ctx context.Context, workspaceID uuid.UUID) ([]*types.Project, error) {
	return s.projectRepo.GetByWorkspaceID(ctx, nil, workspaceID)
}

func (s *workspaceService) GetProject(ctx context.Context, projectID uuid.UUID) (*types.Project, error) {
	project, err := s.projectRepo.GetByID(ctx, nil, projectID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierr.NotFound("project not found")
	}
	return project, err
}

func (s *workspaceService) RenameProject(ctx context.Context, projectID uuid.UUID, name string) error {
	if strings.TrimSpace(name) == "" {
		return apierr.Validation("project name cannot be empty")
	}
	return s.projectRepo.UpdateName(ctx, nil, projectID, name)
}

func (s *workspaceService) DeleteProject(ctx context.Context, projectID uuid.UUID) error {
	s.log.Info("Deleting project", "project_id", projectID)
	return s.projectRepo.Delete(ctx, nil, projectID)
}
