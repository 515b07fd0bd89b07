package repository

import (
	"context"
	"fmt"
)

// FollowRepository handles database operations for follows
type FollowRepository struct {
	db DB
}

// NewFollowRepository creates a new follow repository
func NewFollowRepository(db DB) *FollowRepository {
	return &FollowRepository{db: db}
}

// Toggle makes followerID follow userID, or unfollow if already following.
// It reports whether followerID follows userID afterwards.
func (r *FollowRepository) Toggle(ctx context.Context, followerID, userID int64) (bool, error) {
	following, err := toggle(ctx, r.db,
		`DELETE FROM follows WHERE follower_id = $1 AND user_id = $2`,
		`INSERT INTO follows (follower_id, user_id) VALUES ($1, $2) ON CONFLICT (follower_id, user_id) DO NOTHING`,
		followerID, userID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to toggle follow: %w", err)
	}
	return following, nil
}

// CountFollowers returns how many users follow userID
func (r *FollowRepository) CountFollowers(ctx context.Context, userID int64) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM follows WHERE user_id = $1`, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count followers: %w", err)
	}
	return n, nil
}
