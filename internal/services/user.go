package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"photogram-backend/internal/media"
	"photogram-backend/internal/models"
	"photogram-backend/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

const (
	msgEmailExists    = "Email already exists"
	msgUsernameExists = "Username already exists"
)

// UserStore is the persistence the user service needs
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
}

// UserService handles registration, login and bearer tokens
type UserService struct {
	users     UserStore
	media     media.Store
	jwtSecret []byte
	tokenTTL  time.Duration
	now       func() time.Time

	dummyOnce sync.Once
	dummyHash []byte
}

// NewUserService creates a new user service. A zero tokenTTL issues tokens without expiry.
func NewUserService(users UserStore, store media.Store, jwtSecret string, tokenTTL time.Duration) *UserService {
	return &UserService{
		users:     users,
		media:     store,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
		now:       time.Now,
	}
}

// RegisterInput is a validated registration form
type RegisterInput struct {
	Username  string
	Password  string
	Firstname string
	Lastname  string
	Email     string
	Location  string
	Biography string
	PhotoName string
	Photo     io.Reader
}

// Register creates a profile. Email and username collisions are reported together.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (int64, error) {
	var dups []string

	emailTaken, err := s.users.EmailExists(ctx, in.Email)
	if err != nil {
		return 0, err
	}
	if emailTaken {
		dups = append(dups, msgEmailExists)
	}

	usernameTaken, err := s.users.UsernameExists(ctx, in.Username)
	if err != nil {
		return 0, err
	}
	if usernameTaken {
		dups = append(dups, msgUsernameExists)
	}

	if len(dups) > 0 {
		return 0, &DuplicateError{Messages: dups}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return 0, fieldValidation("Password", "Field cannot be longer than 72 characters.")
		}
		return 0, fmt.Errorf("failed to hash password: %w", err)
	}

	// a name already in the store belongs to someone else and must survive a failed signup
	replaced := s.photoStored(ctx, media.SanitizeFilename(in.PhotoName))

	filename, err := s.media.Save(ctx, in.PhotoName, in.Photo)
	if err != nil {
		if errors.Is(err, media.ErrInvalidName) {
			return 0, fieldValidation("Profile Photo", "Invalid filename.")
		}
		return 0, fmt.Errorf("failed to save profile photo: %w", err)
	}

	user := &models.User{
		Username:     in.Username,
		PasswordHash: string(hash),
		Firstname:    in.Firstname,
		Lastname:     in.Lastname,
		Email:        in.Email,
		Location:     in.Location,
		Biography:    in.Biography,
		ProfilePhoto: filename,
		JoinedOn:     s.now(),
	}

	if err := s.users.Create(ctx, user); err != nil {
		if !replaced {
			if derr := s.media.Delete(ctx, filename); derr != nil {
				log.Warn().Err(derr).Str("file", filename).Msg("Failed to remove profile photo of failed signup")
			}
		}
		// lost a race with a concurrent registration
		if constraint, ok := repository.UniqueViolation(err); ok {
			switch constraint {
			case "users_email_key":
				return 0, &DuplicateError{Messages: []string{msgEmailExists}}
			case "users_username_key":
				return 0, &DuplicateError{Messages: []string{msgUsernameExists}}
			}
		}
		return 0, err
	}

	return user.ID, nil
}

func (s *UserService) photoStored(ctx context.Context, name string) bool {
	if name == "" {
		return false
	}
	obj, err := s.media.Open(ctx, name)
	if err != nil {
		return !errors.Is(err, media.ErrNotFound)
	}
	obj.Body.Close()
	return true
}

// Login checks credentials and issues a bearer token. Unknown usernames and wrong
// passwords both return ErrInvalidCredentials.
func (s *UserService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// keep timing close to the wrong-password path
			_ = bcrypt.CompareHashAndPassword(s.dummy(), []byte(password))
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	return s.GenerateJWT(user.ID)
}

func (s *UserService) dummy() []byte {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("photogram-dummy-password"), bcrypt.DefaultCost)
	})
	return s.dummyHash
}

// GenerateJWT generates a JWT token for a user
func (s *UserService) GenerateJWT(userID int64) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"user_id": userID,
		"iat":     now.Unix(),
	}
	if s.tokenTTL > 0 {
		claims["exp"] = now.Add(s.tokenTTL).Unix()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// ValidateJWT validates a JWT token and returns the user ID
func (s *UserService) ValidateJWT(tokenString string) (int64, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return 0, ErrInvalidToken
	}

	// JSON numbers decode as float64
	raw, ok := claims["user_id"].(float64)
	if !ok || raw < 1 || raw != float64(int64(raw)) {
		return 0, fmt.Errorf("%w: user_id not found in token", ErrInvalidToken)
	}

	return int64(raw), nil
}

// ProfilePhoto returns the stored profile photo filename of a user
func (s *UserService) ProfilePhoto(ctx context.Context, userID int64) (string, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrUserNotFound
		}
		return "", err
	}
	if user.ProfilePhoto == "" {
		return "", ErrPhotoNotFound
	}
	return user.ProfilePhoto, nil
}
