package repository

import (
	"context"
	"fmt"

	"photogram-backend/internal/models"
)

// PostRepository handles database operations for posts
type PostRepository struct {
	db DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db DB) *PostRepository {
	return &PostRepository{db: db}
}

// Create inserts a post and fills in its generated ID
func (r *PostRepository) Create(ctx context.Context, post *models.Post) error {
	query := `
		INSERT INTO posts (caption, photo, user_id, created_on)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	err := r.db.QueryRow(ctx, query, post.Caption, post.Photo, post.UserID, post.CreatedOn).Scan(&post.ID)
	if err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}
	return nil
}

// ListByUser returns every post owned by userID in insertion order
func (r *PostRepository) ListByUser(ctx context.Context, userID int64) ([]*models.Post, error) {
	query := `
		SELECT id, caption, photo, user_id, created_on
		FROM posts
		WHERE user_id = $1
		ORDER BY id
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get posts: %w", err)
	}
	defer rows.Close()

	var posts []*models.Post
	for rows.Next() {
		var p models.Post
		if err := rows.Scan(&p.ID, &p.Caption, &p.Photo, &p.UserID, &p.CreatedOn); err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating posts: %w", err)
	}

	return posts, nil
}

// ListFeed returns every post with its owner's username and like count.
// Posts whose owner no longer resolves get an empty username.
func (r *PostRepository) ListFeed(ctx context.Context) ([]*models.FeedEntry, error) {
	query := `
		SELECT p.id, p.caption, p.photo, p.user_id, p.created_on,
		       COALESCE(u.username, ''), COUNT(l.id)
		FROM posts p
		LEFT JOIN users u ON u.id = p.user_id
		LEFT JOIN likes l ON l.post_id = p.id
		GROUP BY p.id, u.username
		ORDER BY p.id
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get feed: %w", err)
	}
	defer rows.Close()

	var entries []*models.FeedEntry
	for rows.Next() {
		var e models.FeedEntry
		err := rows.Scan(
			&e.ID, &e.Caption, &e.Photo, &e.UserID, &e.CreatedOn,
			&e.Username, &e.Likes,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan feed entry: %w", err)
		}
		entries = append(entries, &e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating feed: %w", err)
	}

	return entries, nil
}

// Exists checks if a post with the given ID exists
func (r *PostRepository) Exists(ctx context.Context, id int64) (bool, error) {
	ok, err := exists(ctx, r.db, `SELECT EXISTS(SELECT 1 FROM posts WHERE id = $1)`, id)
	if err != nil {
		return false, fmt.Errorf("failed to check post existence: %w", err)
	}
	return ok, nil
}
