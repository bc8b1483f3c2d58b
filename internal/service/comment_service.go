package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/asafto/kdog-server/internal/core/cache"
	"github.com/asafto/kdog-server/internal/domain"
	"github.com/asafto/kdog-server/internal/storage"
	"github.com/asafto/kdog-server/pkg/utils"
)

type CommentService struct {
	comments domain.CommentRepository
	posts    domain.PostRepository
	store    storage.BlobStore
	cache    *cache.Cache // nil disables caching
	log      *zap.Logger
}

func NewCommentService(comments domain.CommentRepository, posts domain.PostRepository, store storage.BlobStore, c *cache.Cache, log *zap.Logger) *CommentService {
	return &CommentService{comments: comments, posts: posts, store: store, cache: c, log: log}
}

type CommentInput struct {
	Text string
}

func (s *CommentService) Create(ctx context.Context, postID string, caller domain.Caller, in CommentInput, up *Upload) (*domain.Comment, error) {
	if err := validateCommentText(in.Text); err != nil {
		return nil, err
	}
	if _, err := s.posts.FindByID(ctx, postID); err != nil {
		return nil, err
	}
	img, err := s.saveUpload(ctx, up)
	if err != nil {
		return nil, err
	}
	c := &domain.Comment{
		ID:       utils.NewID(),
		Text:     in.Text,
		Image:    img,
		AuthorID: caller.ID,
		PostID:   postID,
	}
	if err := s.comments.Create(ctx, c); err != nil {
		return nil, err
	}
	s.invalidatePost(ctx, postID)
	return c, nil
}

func (s *CommentService) ListByPost(ctx context.Context, postID string, limit, offset int) ([]domain.Comment, int64, error) {
	if _, err := s.posts.FindByID(ctx, postID); err != nil {
		return nil, 0, err
	}
	limit, offset = clampPage(limit, offset, 10, 100)
	return s.comments.ListByPost(ctx, postID, offset, limit)
}

func (s *CommentService) Update(ctx context.Context, id string, caller domain.Caller, in CommentInput, up *Upload) (*domain.Comment, error) {
	c, err := s.comments.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !domain.CanMutate(caller, c.AuthorID) {
		return nil, fmt.Errorf("%w: a comment can be updated only by its author or an admin", domain.ErrForbidden)
	}
	if err := validateCommentText(in.Text); err != nil {
		return nil, err
	}
	c.Text = in.Text
	if up != nil {
		img, err := s.saveUpload(ctx, up)
		if err != nil {
			return nil, err
		}
		s.deleteBlob(ctx, c.Image.Key)
		c.Image = img
	}
	if err := s.comments.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Delete allows the comment author, the author of the commented post, or an
// admin to remove the comment.
func (s *CommentService) Delete(ctx context.Context, id string, caller domain.Caller) (*domain.Comment, error) {
	c, err := s.comments.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	postAuthor := ""
	if p, err := s.posts.FindByID(ctx, c.PostID); err == nil {
		postAuthor = p.AuthorID
	}
	if !domain.CanDeleteComment(caller, c.AuthorID, postAuthor) {
		return nil, fmt.Errorf("%w: a comment can be deleted only by its author, the post author or an admin", domain.ErrForbidden)
	}
	if err := s.comments.Delete(ctx, id); err != nil {
		return nil, err
	}
	s.deleteBlob(ctx, c.Image.Key)
	s.invalidatePost(ctx, c.PostID)
	return c, nil
}

func (s *CommentService) saveUpload(ctx context.Context, up *Upload) (domain.Image, error) {
	if up == nil {
		return domain.Image{}, nil
	}
	f, err := s.store.Save(ctx, up.Name, up.ContentType, up.Reader)
	if err != nil {
		return domain.Image{}, fmt.Errorf("store image: %w", err)
	}
	return domain.Image{Name: f.Name, Key: f.Key, Location: f.Location}, nil
}

func (s *CommentService) deleteBlob(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := s.store.Delete(ctx, key); err != nil {
		s.log.Warn("orphaned blob not deleted", zap.String("key", key), zap.Error(err))
	}
}

func (s *CommentService) invalidatePost(ctx context.Context, postID string) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, postCacheKey(postID))
	}
}
