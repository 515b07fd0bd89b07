package repository

import (
	"context"
	"fmt"
)

// LikeRepository handles database operations for likes
type LikeRepository struct {
	db DB
}

// NewLikeRepository creates a new like repository
func NewLikeRepository(db DB) *LikeRepository {
	return &LikeRepository{db: db}
}

// Toggle likes postID on behalf of userID, or removes the like if it exists.
// It reports whether the post is liked afterwards.
func (r *LikeRepository) Toggle(ctx context.Context, postID, userID int64) (bool, error) {
	liked, err := toggle(ctx, r.db,
		`DELETE FROM likes WHERE post_id = $1 AND user_id = $2`,
		`INSERT INTO likes (post_id, user_id) VALUES ($1, $2) ON CONFLICT (post_id, user_id) DO NOTHING`,
		postID, userID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to toggle like: %w", err)
	}
	return liked, nil
}

// CountByPost returns the number of likes on a post
func (r *LikeRepository) CountByPost(ctx context.Context, postID int64) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM likes WHERE post_id = $1`, postID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count likes: %w", err)
	}
	return n, nil
}
