package handlers

import (
	"net/http"
	"time"

	"photogram-backend/internal/middleware"
	"photogram-backend/internal/services"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps is everything the router needs to serve the API
type Deps struct {
	Users  *services.UserService
	Posts  *services.PostService
	Social *services.SocialService
	CSRF   *services.CSRFService
	DB     Pinger

	EnforceCSRF    bool
	MaxUploadBytes int64
	// TrustProxy rewrites the client address from forwarding headers
	TrustProxy bool

	// LoginLimiter may be nil, in which case login is not rate limited
	LoginLimiter  *middleware.Limiter
	LoginAttempts int64
	LoginWindow   time.Duration
}

// route is one entry of the API surface. Auth routes are wrapped in the bearer token guard.
type route struct {
	method  string
	pattern string
	handler http.HandlerFunc
	auth    bool
	wrap    []func(http.Handler) http.Handler
}

func (d Deps) routes() []route {
	auth := NewAuthHandler(d.Users, d.CSRF)
	posts := NewPostHandler(d.Posts, d.Users)
	social := NewSocialHandler(d.Social)
	loginLimit := d.LoginLimiter.LimitHTTP("login", d.LoginAttempts, d.LoginWindow)

	return []route{
		{method: http.MethodGet, pattern: "/", handler: Index},
		{method: http.MethodGet, pattern: "/healthz", handler: Health(d.DB)},

		{method: http.MethodGet, pattern: "/api/v1/csrf-token", handler: auth.CSRFToken},
		{method: http.MethodPost, pattern: "/api/v1/register", handler: auth.Register},
		{method: http.MethodPost, pattern: "/api/v1/auth/login", handler: auth.Login, wrap: []func(http.Handler) http.Handler{loginLimit}},
		{method: http.MethodPost, pattern: "/api/v1/auth/logout", handler: auth.Logout},

		{method: http.MethodGet, pattern: "/api/v1/users/{id}/posts", handler: posts.UserPosts},
		{method: http.MethodPost, pattern: "/api/v1/users/{id}/posts", handler: posts.CreatePost, auth: true},
		{method: http.MethodGet, pattern: "/api/v1/users/{id}/{postId}", handler: posts.ProfilePhoto},
		{method: http.MethodGet, pattern: "/api/v1/posts", handler: posts.AllPosts},
		{method: http.MethodGet, pattern: "/api/v1/posts/{filename}", handler: posts.PostImage},

		{method: http.MethodPost, pattern: "/api/users/{id}/follow", handler: social.ToggleFollow, auth: true},
		{method: http.MethodPost, pattern: "/api/v1/users/{id}/follow", handler: social.ToggleFollow, auth: true},
		{method: http.MethodPost, pattern: "/api/v1/posts/{id}/like", handler: social.ToggleLike, auth: true},
	}
}

// NewRouter builds the HTTP API
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	if d.TrustProxy {
		r.Use(chiMiddleware.RealIP)
	}
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(corsMiddleware)
	if d.MaxUploadBytes > 0 {
		r.Use(chiMiddleware.RequestSize(d.MaxUploadBytes))
	}
	r.Use(middleware.CSRF(d.CSRF, d.EnforceCSRF))

	r.NotFound(NotFound)
	r.MethodNotAllowed(MethodNotAllowed)

	requireAuth := middleware.AuthMiddleware(d.Users)
	for _, rt := range d.routes() {
		var h http.Handler = rt.handler
		for i := len(rt.wrap) - 1; i >= 0; i-- {
			h = rt.wrap[i](h)
		}
		if rt.auth {
			h = requireAuth(h)
		}
		r.Method(rt.method, rt.pattern, h)
	}

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return r
}

// corsMiddleware handles CORS
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, "+middleware.CSRFHeader)

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
