package middleware

import (
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/dcode-github/rental_booking_system/controllers"
	"github.com/dcode-github/rental_booking_system/utils"
)

func bearerToken(r *http.Request) (string, bool) {
	tokenParts := strings.Split(r.Header.Get("Authorization"), " ")
	if len(tokenParts) != 2 || tokenParts[0] != "Bearer" || tokenParts[1] == "" {
		return "", false
	}
	return tokenParts[1], true
}

func withAccount(r *http.Request, key []byte, w http.ResponseWriter) (*http.Request, bool) {
	token, ok := bearerToken(r)
	if !ok {
		log.Printf("Invalid Authorization header format from request %s %s", r.Method, r.URL)
		controllers.WriteError(w, http.StatusUnauthorized, "Unauthorized", "invalid Authorization header format")
		return nil, false
	}

	claims, err := utils.ValidateJWT(key, token)
	if err != nil {
		log.Printf("Invalid or expired token: %v", err)
		controllers.WriteError(w, http.StatusUnauthorized, "Unauthorized", "invalid or expired token")
		return nil, false
	}

	ctx := context.WithValue(r.Context(), controllers.UserIDKey, claims.AccountID())
	return r.WithContext(ctx), true
}

// AuthMiddleware rejects requests without a valid bearer token and puts the
// caller's account id in the request context.
func AuthMiddleware(key []byte) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") == "" {
				log.Printf("Missing Authorization header from request %s %s", r.Method, r.URL)
				controllers.WriteError(w, http.StatusUnauthorized, "Unauthorized", "missing Authorization header")
				return
			}
			r, ok := withAccount(r, key, w)
			if !ok {
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// OptionalAuth lets anonymous requests through. A token that is present
// but invalid is still rejected.
func OptionalAuth(key []byte) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") == "" {
				next.ServeHTTP(w, r)
				return
			}
			r, ok := withAccount(r, key, w)
			if !ok {
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
