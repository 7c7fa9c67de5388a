package service

import (
	"context"
	"strings"

	"ovra/internal/models"
	"ovra/internal/repository"
)

const maxCommentLen = 1000

// CommentService provides comment business logic. Comments are immutable:
// they can be created and deleted, never edited.
type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
	isAdmin     func(ctx context.Context, userID uint) (bool, error)
}

type CreateCommentInput struct {
	UserID  uint
	PostID  uint
	Content string
}

type DeleteCommentInput struct {
	UserID    uint
	CommentID uint
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	postRepo repository.PostRepository,
	isAdmin func(ctx context.Context, userID uint) (bool, error),
) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		isAdmin:     isAdmin,
	}
}

func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(content) > maxCommentLen {
		return nil, models.NewValidationError("Comment too long (max 1000 characters)")
	}

	post, err := s.postRepo.GetByID(ctx, in.PostID, 0)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, models.NewNotFoundError("Post", in.PostID)
	}

	comment := &models.Comment{
		Content:  content,
		AuthorID: in.UserID,
		PostID:   in.PostID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	return s.commentRepo.GetByID(ctx, comment.ID)
}

func (s *CommentService) ListComments(ctx context.Context, postID uint) ([]models.Comment, error) {
	post, err := s.postRepo.GetByID(ctx, postID, 0)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, models.NewNotFoundError("Post", postID)
	}
	return s.commentRepo.ListByPost(ctx, postID)
}

// DeleteComment removes a comment. Allowed for the comment author, the post
// author, and admins.
func (s *CommentService) DeleteComment(ctx context.Context, in DeleteCommentInput) error {
	comment, err := s.commentRepo.GetByID(ctx, in.CommentID)
	if err != nil {
		return err
	}
	if comment == nil {
		return models.NewNotFoundError("Comment", in.CommentID)
	}

	if comment.AuthorID != in.UserID {
		allowed := false

		post, err := s.postRepo.GetByID(ctx, comment.PostID, 0)
		if err != nil {
			return err
		}
		if post != nil && post.AuthorID == in.UserID {
			allowed = true
		}

		if !allowed && s.isAdmin != nil {
			admin, err := s.isAdmin(ctx, in.UserID)
			if err != nil {
				return err
			}
			allowed = admin
		}

		if !allowed {
			return models.NewForbiddenError("You can only delete your own comments")
		}
	}

	return s.commentRepo.Delete(ctx, in.CommentID)
}
