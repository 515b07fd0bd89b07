package handlers

import (
	"net/http"

	"photogram-backend/internal/forms"
	"photogram-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// AuthHandler handles registration and session endpoints
type AuthHandler struct {
	userService *services.UserService
	csrfService *services.CSRFService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(userService *services.UserService, csrfService *services.CSRFService) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		csrfService: csrfService,
	}
}

// Register handles POST /api/v1/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	form, err := forms.ParseRegister(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	photo, err := form.ProfilePhoto.Open()
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	defer photo.Close()

	userID, err := h.userService.Register(r.Context(), services.RegisterInput{
		Username:  form.Username,
		Password:  form.Password,
		Firstname: form.Firstname,
		Lastname:  form.Lastname,
		Email:     form.Email,
		Location:  form.Location,
		Biography: form.Biography,
		PhotoName: form.ProfilePhoto.Filename,
		Photo:     photo,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	log.Info().
		Int64("user_id", userID).
		Str("username", form.Username).
		Msg("User registered")

	respondJSON(w, MessageResponse{Message: "Successfully created account"}, http.StatusCreated)
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	form, err := forms.ParseLogin(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	token, err := h.userService.Login(r.Context(), form.Username, form.Password)
	if err != nil {
		log.Debug().Err(err).Str("username", form.Username).Msg("Login rejected")
		writeServiceError(w, r, err)
		return
	}

	respondJSON(w, map[string]string{"token": token}, http.StatusOK)
}

// Logout handles POST /api/v1/auth/logout. Tokens are stateless, so there is nothing to revoke.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, MessageResponse{Message: "Logged out successfully"}, http.StatusOK)
}

// CSRFToken handles GET /api/v1/csrf-token
func (h *AuthHandler) CSRFToken(w http.ResponseWriter, r *http.Request) {
	token, err := h.csrfService.Issue()
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	respondJSON(w, map[string]string{"csrf_token": token}, http.StatusOK)
}
