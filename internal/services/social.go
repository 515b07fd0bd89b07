package services

import (
	"context"
)

// FollowState is the outcome of a follow toggle
type FollowState string

const (
	Followed   FollowState = "followed"
	Unfollowed FollowState = "unfollowed"
)

// LikeState is the outcome of a like toggle
type LikeState string

const (
	Liked   LikeState = "liked"
	Unliked LikeState = "unliked"
)

// FollowStore is the persistence for follows
type FollowStore interface {
	Toggle(ctx context.Context, followerID, userID int64) (bool, error)
	CountFollowers(ctx context.Context, userID int64) (int64, error)
}

// LikeStore is the persistence for likes
type LikeStore interface {
	Toggle(ctx context.Context, postID, userID int64) (bool, error)
	CountByPost(ctx context.Context, postID int64) (int64, error)
}

// ExistenceChecker answers whether a row with the given ID exists
type ExistenceChecker interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// SocialService handles follow and like toggles
type SocialService struct {
	follows FollowStore
	likes   LikeStore
	users   ExistenceChecker
	posts   ExistenceChecker
}

// NewSocialService creates a new social service
func NewSocialService(follows FollowStore, likes LikeStore, users, posts ExistenceChecker) *SocialService {
	return &SocialService{
		follows: follows,
		likes:   likes,
		users:   users,
		posts:   posts,
	}
}

// FollowResult is the state after a follow toggle
type FollowResult struct {
	State     FollowState
	Followers int64
}

// LikeResult is the state after a like toggle
type LikeResult struct {
	State LikeState
	Likes int64
}

// ToggleFollow makes followerID follow userID, or unfollow if already following
func (s *SocialService) ToggleFollow(ctx context.Context, followerID, userID int64) (*FollowResult, error) {
	if followerID == userID {
		return nil, ErrSelfFollow
	}

	ok, err := s.users.Exists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrUserNotFound
	}

	following, err := s.follows.Toggle(ctx, followerID, userID)
	if err != nil {
		return nil, err
	}

	count, err := s.follows.CountFollowers(ctx, userID)
	if err != nil {
		return nil, err
	}

	state := Unfollowed
	if following {
		state = Followed
	}
	togglesTotal.WithLabelValues("follow", string(state)).Inc()

	return &FollowResult{State: state, Followers: count}, nil
}

// ToggleLike likes postID for userID, or removes the like if present
func (s *SocialService) ToggleLike(ctx context.Context, postID, userID int64) (*LikeResult, error) {
	ok, err := s.posts.Exists(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrPostNotFound
	}

	liked, err := s.likes.Toggle(ctx, postID, userID)
	if err != nil {
		return nil, err
	}

	count, err := s.likes.CountByPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	state := Unliked
	if liked {
		state = Liked
	}
	togglesTotal.WithLabelValues("like", string(state)).Inc()

	return &LikeResult{State: state, Likes: count}, nil
}
