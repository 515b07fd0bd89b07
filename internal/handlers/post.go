package handlers

import (
	"io"
	"net/http"
	"strconv"

	"photogram-backend/internal/forms"
	"photogram-backend/internal/media"
	"photogram-backend/internal/middleware"
	"photogram-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// PostHandler handles posts, the feed and image retrieval
type PostHandler struct {
	postService *services.PostService
	userService *services.UserService
}

// NewPostHandler creates a new post handler
func NewPostHandler(postService *services.PostService, userService *services.UserService) *PostHandler {
	return &PostHandler{
		postService: postService,
		userService: userService,
	}
}

// UserPosts handles GET /api/v1/users/{id}/posts
func (h *PostHandler) UserPosts(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	posts, err := h.postService.ListPostsForUser(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	respondJSON(w, map[string]any{"posts": posts}, http.StatusOK)
}

// CreatePost handles POST /api/v1/users/{id}/posts
func (h *PostHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if caller, _ := middleware.GetUserID(r.Context()); caller != userID {
		writeServiceError(w, r, services.ErrForbidden)
		return
	}

	form, err := forms.ParsePost(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	photo, err := form.Photo.Open()
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	defer photo.Close()

	post, err := h.postService.CreatePost(r.Context(), services.CreatePostInput{
		UserID:    userID,
		Caption:   form.Caption,
		PhotoName: form.Photo.Filename,
		Photo:     photo,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	log.Info().
		Int64("user_id", userID).
		Int64("post_id", post.ID).
		Str("filename", post.Photo).
		Msg("Post created")

	respondJSON(w, MessageResponse{Message: "Post created successfully"}, http.StatusCreated)
}

// AllPosts handles GET /api/v1/posts
func (h *PostHandler) AllPosts(w http.ResponseWriter, r *http.Request) {
	feed, err := h.postService.ListAllPosts(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if len(feed) == 0 {
		respondJSON(w, map[string]any{"message": "There are no posts to view", "posts": feed}, http.StatusOK)
		return
	}
	respondJSON(w, map[string]any{"posts": feed}, http.StatusOK)
}

// PostImage handles GET /api/v1/posts/{filename}
func (h *PostHandler) PostImage(w http.ResponseWriter, r *http.Request) {
	h.serveFile(w, r, chi.URLParam(r, "filename"))
}

// ProfilePhoto handles GET /api/v1/users/{id}/{postId}. The post id is only checked for shape.
func (h *PostHandler) ProfilePhoto(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if _, ok := pathID(w, r, "postId"); !ok {
		return
	}

	filename, err := h.userService.ProfilePhoto(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	h.serveFile(w, r, filename)
}

func (h *PostHandler) serveFile(w http.ResponseWriter, r *http.Request, filename string) {
	obj, err := h.postService.OpenPhoto(r.Context(), filename)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	defer obj.Body.Close()

	contentType := obj.ContentType
	if contentType == "" {
		contentType = media.ContentType(obj.Name)
	}
	w.Header().Set("Content-Type", contentType)
	if obj.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(obj.Size, 10))
	}
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, obj.Body); err != nil {
		log.Warn().Err(err).Str("filename", obj.Name).Msg("Failed to stream file")
	}
}
