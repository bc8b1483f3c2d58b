package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/asafto/kdog-server/internal/core/cache"
	"github.com/asafto/kdog-server/internal/domain"
	"github.com/asafto/kdog-server/internal/storage"
	"github.com/asafto/kdog-server/pkg/utils"
)

const postCacheTTL = 30 * time.Second

type PostService struct {
	posts domain.PostRepository
	store storage.BlobStore
	cache *cache.Cache // nil disables caching
	log   *zap.Logger
}

func NewPostService(posts domain.PostRepository, store storage.BlobStore, c *cache.Cache, log *zap.Logger) *PostService {
	return &PostService{posts: posts, store: store, cache: c, log: log}
}

type PostInput struct {
	Text string
	Tags []string
}

func (s *PostService) Create(ctx context.Context, caller domain.Caller, in PostInput, up *Upload) (*domain.Post, error) {
	if err := validatePostText(in.Text); err != nil {
		return nil, err
	}
	img, err := s.saveUpload(ctx, up)
	if err != nil {
		return nil, err
	}
	p := &domain.Post{
		ID:       utils.NewID(),
		Text:     in.Text,
		Tags:     in.Tags,
		AuthorID: caller.ID,
		Image:    img,
	}
	if err := s.posts.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *PostService) Get(ctx context.Context, id string) (*domain.Post, error) {
	if s.cache == nil {
		return s.posts.FindByID(ctx, id)
	}
	p, err := cache.GetOrLoadJSON[domain.Post](s.cache, ctx, postCacheKey(id), postCacheTTL,
		func(ctx context.Context) (*domain.Post, error) {
			return s.posts.FindByID(ctx, id)
		})
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func (s *PostService) List(ctx context.Context, limit, offset int) ([]domain.Post, int64, error) {
	limit, offset = clampPage(limit, offset, 20, 100)
	return s.posts.List(ctx, offset, limit)
}

func (s *PostService) ListByAuthor(ctx context.Context, authorID string, limit, offset int) ([]domain.Post, int64, error) {
	limit, offset = clampPage(limit, offset, 20, 100)
	return s.posts.ListByAuthor(ctx, authorID, offset, limit)
}

func (s *PostService) Update(ctx context.Context, id string, caller domain.Caller, in PostInput, up *Upload) (*domain.Post, error) {
	p, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !domain.CanMutate(caller, p.AuthorID) {
		return nil, fmt.Errorf("%w: a post can be updated only by its author or an admin", domain.ErrForbidden)
	}
	if err := validatePostText(in.Text); err != nil {
		return nil, err
	}
	p.Text = in.Text
	if in.Tags != nil {
		p.Tags = in.Tags
	}
	if up != nil {
		img, err := s.saveUpload(ctx, up)
		if err != nil {
			return nil, err
		}
		s.deleteBlob(ctx, p.Image.Key)
		p.Image = img
	}
	if err := s.posts.Update(ctx, p); err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)
	return p, nil
}

func (s *PostService) Delete(ctx context.Context, id string, caller domain.Caller) (*domain.Post, error) {
	p, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !domain.CanMutate(caller, p.AuthorID) {
		return nil, fmt.Errorf("%w: a post can be deleted only by its author or an admin", domain.ErrForbidden)
	}
	deleted, keys, err := s.posts.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	for _, key := range keys {
		s.deleteBlob(ctx, key)
	}
	s.invalidate(ctx, id)
	return deleted, nil
}

// ToggleLike flips the caller's like on the post; an even number of calls
// restores the original like set.
func (s *PostService) ToggleLike(ctx context.Context, id string, caller domain.Caller) (*domain.Post, error) {
	p, err := s.posts.ToggleLike(ctx, id, caller.ID)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)
	return p, nil
}

// OpenImage streams a stored image by its storage key.
func (s *PostService) OpenImage(ctx context.Context, key string) (io.ReadCloser, string, error) {
	rc, ct, err := s.store.Open(ctx, key)
	if err != nil {
		return nil, "", fmt.Errorf("%w: image %q", domain.ErrNotFound, key)
	}
	return rc, ct, nil
}

func (s *PostService) saveUpload(ctx context.Context, up *Upload) (domain.Image, error) {
	if up == nil {
		return domain.Image{}, nil
	}
	f, err := s.store.Save(ctx, up.Name, up.ContentType, up.Reader)
	if err != nil {
		return domain.Image{}, fmt.Errorf("store image: %w", err)
	}
	return domain.Image{Name: f.Name, Key: f.Key, Location: f.Location}, nil
}

func (s *PostService) deleteBlob(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := s.store.Delete(ctx, key); err != nil {
		s.log.Warn("orphaned blob not deleted", zap.String("key", key), zap.Error(err))
	}
}

func (s *PostService) invalidate(ctx context.Context, id string) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, postCacheKey(id))
	}
}

func postCacheKey(id string) string { return "post:" + id }
