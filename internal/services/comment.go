package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/sitetrack/sitetrack-backend/internal/authz"
	pkgerr "github.com/sitetrack/sitetrack-backend/internal/pkg/errors"
	"github.com/sitetrack/sitetrack-backend/internal/pkg/logger"
	"github.com/sitetrack/sitetrack-backend/internal/repos"
	"github.com/sitetrack/sitetrack-backend/internal/types"
)

// CommentThread is one top-level comment with its direct replies.
type CommentThread struct {
	*types.Comment
	Replies []*types.Comment `json:"replies"`
}

type CommentService interface {
	ListProjectComments(ctx context.Context, projectID uuid.UUID) ([]*CommentThread, error)
	CreateComment(ctx context.Context, projectID uuid.UUID, content string, parentID *uuid.UUID) (*types.Comment, error)
	UpdateComment(ctx context.Context, commentID uuid.UUID, content string) (*types.Comment, error)
	DeleteComment(ctx context.Context, commentID uuid.UUID) error
}

type commentService struct {
	db               *gorm.DB
	log              *logger.Logger
	commentRepo      repos.CommentRepo
	projectRepo      repos.ProjectRepo
	notificationRepo repos.NotificationRepo
}

func NewCommentService(
	db *gorm.DB,
	baseLog *logger.Logger,
	commentRepo repos.CommentRepo,
	projectRepo repos.ProjectRepo,
	notificationRepo repos.NotificationRepo,
) CommentService {
	return &commentService{
		db:               db,
		log:              baseLog.With("service", "CommentService"),
		commentRepo:      commentRepo,
		projectRepo:      projectRepo,
		notificationRepo: notificationRepo,
	}
}

func (s *commentService) ListProjectComments(ctx context.Context, projectID uuid.UUID) ([]*CommentThread, error) {
	if _, err := viewer(ctx); err != nil {
		return nil, err
	}
	if err := s.requireProject(ctx, projectID); err != nil {
		return nil, err
	}
	parents, err := s.commentRepo.ListTopLevelByProject(ctx, nil, projectID)
	if err != nil {
		return nil, fmt.Errorf("load comments: %w", err)
	}
	threads := make([]*CommentThread, 0, len(parents))
	for _, parent := range parents {
		replies, err := s.commentRepo.ListReplies(ctx, nil, parent.ID)
		if err != nil {
			return nil, fmt.Errorf("load replies: %w", err)
		}
		threads = append(threads, &CommentThread{Comment: parent, Replies: replies})
	}
	return threads, nil
}

func (s *commentService) CreateComment(ctx context.Context, projectID uuid.UUID, content string, parentID *uuid.UUID) (*types.Comment, error) {
	rd, err := viewer(ctx)
	if err != nil {
		return nil, err
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: content is required", pkgerr.ErrInvalidArgument)
	}

	projects, err := s.projectRepo.GetByIDs(ctx, nil, []uuid.UUID{projectID})
	if err != nil {
		return nil, fmt.Errorf("load project: %w", err)
	}
	if len(projects) == 0 {
		return nil, fmt.Errorf("%w: project", pkgerr.ErrNotFound)
	}
	project := projects[0]

	if parentID != nil {
		parents, err := s.commentRepo.GetByIDs(ctx, nil, []uuid.UUID{*parentID})
		if err != nil {
			return nil, fmt.Errorf("load parent comment: %w", err)
		}
		if len(parents) == 0 || parents[0].ProjectID != projectID {
			return nil, fmt.Errorf("%w: parent comment not found on this project", pkgerr.ErrInvalidArgument)
		}
	}

	comment := &types.Comment{
		ID:        uuid.New(),
		ProjectID: projectID,
		UserID:    rd.UserID,
		Content:   content,
		ParentID:  parentID,
	}
	if err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.commentRepo.Create(ctx, tx, []*types.Comment{comment}); err != nil {
			return fmt.Errorf("create comment: %w", err)
		}
		if project.CreatedBy == rd.UserID {
			return nil
		}
		data, err := json.Marshal(map[string]any{
			"project_id": project.ID,
			"comment_id": comment.ID,
		})
		if err != nil {
			return fmt.Errorf("marshal notification data: %w", err)
		}
		notification := &types.Notification{
			ID:      uuid.New(),
			UserID:  project.CreatedBy,
			Type:    types.NotifyCommentAdded,
			Title:   "New comment",
			Message: fmt.Sprintf("New comment on %s (%s)", project.ProjectName, project.SiteCode),
			Data:    datatypes.JSON(data),
		}
		_, err = s.notificationRepo.Create(ctx, tx, []*types.Notification{notification})
		return err
	}); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *commentService) UpdateComment(ctx context.Context, commentID uuid.UUID, content string) (*types.Comment, error) {
	rd, err := viewer(ctx)
	if err != nil {
		return nil, err
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: content is required", pkgerr.ErrInvalidArgument)
	}
	comment, err := s.loadOwned(ctx, commentID, rd.UserID, rd.Role)
	if err != nil {
		return nil, err
	}
	comment.Content = content
	comment.IsEdited = true
	comment.UpdatedAt = time.Now()
	if err := s.commentRepo.Save(ctx, nil, comment); err != nil {
		return nil, fmt.Errorf("save comment: %w", err)
	}
	return comment, nil
}

func (s *commentService) DeleteComment(ctx context.Context, commentID uuid.UUID) error {
	rd, err := viewer(ctx)
	if err != nil {
		return err
	}
	if _, err := s.loadOwned(ctx, commentID, rd.UserID, rd.Role); err != nil {
		return err
	}
	return s.commentRepo.Delete(ctx, nil, commentID)
}

// loadOwned returns the comment if the caller authored it or is an admin.
func (s *commentService) loadOwned(ctx context.Context, commentID, userID uuid.UUID, role string) (*types.Comment, error) {
	comments, err := s.commentRepo.GetByIDs(ctx, nil, []uuid.UUID{commentID})
	if err != nil {
		return nil, fmt.Errorf("load comment: %w", err)
	}
	if len(comments) == 0 {
		return nil, fmt.Errorf("%w: comment", pkgerr.ErrNotFound)
	}
	comment := comments[0]
	if comment.UserID != userID && !authz.Allow(role, authz.RoleAdmin) {
		return nil, fmt.Errorf("%w: not your comment", pkgerr.ErrForbidden)
	}
	return comment, nil
}

func (s *commentService) requireProject(ctx context.Context, projectID uuid.UUID) error {
	projects, err := s.projectRepo.GetByIDs(ctx, nil, []uuid.UUID{projectID})
	if err != nil {
		return fmt.Errorf("load project: %w", err)
	}
	if len(projects) == 0 {
		return fmt.Errorf("%w: project", pkgerr.ErrNotFound)
	}
	return nil
}
