package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"photogram-backend/internal/media"
	"photogram-backend/internal/models"
)

// PostStore is the persistence the post service needs
type PostStore interface {
	Create(ctx context.Context, post *models.Post) error
	ListByUser(ctx context.Context, userID int64) ([]*models.Post, error)
	ListFeed(ctx context.Context) ([]*models.FeedEntry, error)
	Exists(ctx context.Context, id int64) (bool, error)
}

// PostService handles post-related business logic
type PostService struct {
	posts PostStore
	media media.Store
	now   func() time.Time
}

// NewPostService creates a new post service
func NewPostService(posts PostStore, store media.Store) *PostService {
	return &PostService{
		posts: posts,
		media: store,
		now:   time.Now,
	}
}

// CreatePostInput is a validated post form
type CreatePostInput struct {
	UserID    int64
	Caption   string
	PhotoName string
	Photo     io.Reader
}

// CreatePost stores the photo and records the post
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	filename, err := s.media.Save(ctx, in.PhotoName, in.Photo)
	if err != nil {
		if errors.Is(err, media.ErrInvalidName) {
			return nil, fieldValidation("Photo", "Invalid filename.")
		}
		return nil, fmt.Errorf("failed to save photo: %w", err)
	}

	post := &models.Post{
		Caption:   in.Caption,
		Photo:     filename,
		UserID:    in.UserID,
		CreatedOn: s.now(),
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// ListPostsForUser returns every post the user owns, in insertion order
func (s *PostService) ListPostsForUser(ctx context.Context, userID int64) ([]models.PostView, error) {
	posts, err := s.posts.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	views := make([]models.PostView, 0, len(posts))
	for _, p := range posts {
		views = append(views, p.View())
	}
	return views, nil
}

// ListAllPosts returns the global feed. An empty slice means there are no posts.
func (s *PostService) ListAllPosts(ctx context.Context) ([]models.FeedPost, error) {
	entries, err := s.posts.ListFeed(ctx)
	if err != nil {
		return nil, err
	}

	feed := make([]models.FeedPost, 0, len(entries))
	for _, e := range entries {
		feed = append(feed, models.FeedPost{
			ID:           e.ID,
			Username:     e.Username,
			ProfilePhoto: fmt.Sprintf("/api/v1/users/%d/%d", e.UserID, e.ID),
			Caption:      e.Caption,
			Photo:        "/api/v1/posts/" + e.Photo,
			UserID:       e.UserID,
			Likes:        e.Likes,
			CreatedOn:    e.CreatedOn.Format(models.FeedDateLayout),
		})
	}
	return feed, nil
}

// OpenPhoto opens a stored image by filename
func (s *PostService) OpenPhoto(ctx context.Context, filename string) (*media.Object, error) {
	obj, err := s.media.Open(ctx, filename)
	if err != nil {
		if errors.Is(err, media.ErrNotFound) {
			return nil, ErrPhotoNotFound
		}
		return nil, err
	}
	return obj, nil
}
