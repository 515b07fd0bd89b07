package middleware

import (
	"net/http"
)

// CSRFHeader carries the token handed out by the csrf-token endpoint
const CSRFHeader = "X-CSRFToken"

// CSRFVerifier checks a token minted by the csrf-token endpoint
type CSRFVerifier interface {
	Verify(token string) error
}

// CSRF requires a valid token on unsafe methods. With enforce off it is a pass-through.
func CSRF(verifier CSRFVerifier, enforce bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !enforce {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
				next.ServeHTTP(w, r)
				return
			}

			token := r.Header.Get(CSRFHeader)
			if token == "" {
				token = r.Header.Get("X-CSRF-Token")
			}
			if token == "" {
				respondError(w, []string{"The CSRF token is missing."}, http.StatusBadRequest)
				return
			}
			if err := verifier.Verify(token); err != nil {
				respondError(w, []string{"The CSRF token is invalid."}, http.StatusBadRequest)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
