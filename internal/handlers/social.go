package handlers

import (
	"net/http"

	"photogram-backend/internal/middleware"
	"photogram-backend/internal/services"

	"github.com/rs/zerolog/log"
)

var (
	followMessages = map[services.FollowState]string{
		services.Followed:   "User followed successfully",
		services.Unfollowed: "User unfollowed successfully",
	}
	likeMessages = map[services.LikeState]string{
		services.Liked:   "Post liked successfully",
		services.Unliked: "Post unliked successfully",
	}
)

// FollowResponse is the result of a follow toggle
type FollowResponse struct {
	Message   string               `json:"message"`
	State     services.FollowState `json:"state"`
	Followers int64                `json:"followers"`
}

// LikeResponse is the result of a like toggle
type LikeResponse struct {
	Message string             `json:"message"`
	State   services.LikeState `json:"state"`
	Likes   int64              `json:"likes"`
}

// SocialHandler handles follow and like toggles
type SocialHandler struct {
	socialService *services.SocialService
}

// NewSocialHandler creates a new social handler
func NewSocialHandler(socialService *services.SocialService) *SocialHandler {
	return &SocialHandler{socialService: socialService}
}

// ToggleFollow handles POST /api/users/{id}/follow. The follower is the authenticated user.
func (h *SocialHandler) ToggleFollow(w http.ResponseWriter, r *http.Request) {
	target, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	follower, _ := middleware.GetUserID(r.Context())

	res, err := h.socialService.ToggleFollow(r.Context(), follower, target)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	log.Info().
		Int64("user_id", follower).
		Int64("target_id", target).
		Str("state", string(res.State)).
		Msg("Follow toggled")

	respondJSON(w, FollowResponse{
		Message:   followMessages[res.State],
		State:     res.State,
		Followers: res.Followers,
	}, http.StatusOK)
}

// ToggleLike handles POST /api/v1/posts/{id}/like
func (h *SocialHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	userID, _ := middleware.GetUserID(r.Context())

	res, err := h.socialService.ToggleLike(r.Context(), postID, userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	log.Info().
		Int64("user_id", userID).
		Int64("post_id", postID).
		Str("state", string(res.State)).
		Msg("Like toggled")

	respondJSON(w, LikeResponse{
		Message: likeMessages[res.State],
		State:   res.State,
		Likes:   res.Likes,
	}, http.StatusOK)
}
