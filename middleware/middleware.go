package middleware

import (
	"context"
	"fmt"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"

	"eletralog/globals"
	"eletralog/models"
)

// JWT claims
type Claims struct {
	Username string      `json:"username"`
	UserID   string      `json:"userId"`
	Role     models.Role `json:"role"`
	jwt.RegisteredClaims
}

// Authenticate rejects requests without a valid bearer token and places
// the resulting Actor in the request context. Core operations take the
// Actor explicitly; this is the only place it is derived from a session.
func Authenticate(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		tokenString := r.Header.Get("Authorization")
		if tokenString == "" {
			http.Error(w, "Missing token", http.StatusUnauthorized)
			return
		}
		if len(tokenString) < 8 || tokenString[:7] != "Bearer " {
			http.Error(w, "Invalid token format", http.StatusUnauthorized)
			return
		}

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(tokenString[7:], claims, func(token *jwt.Token) (any, error) {
			return globals.JwtSecret, nil
		})
		if err != nil || !token.Valid {
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}
		if _, known := models.RolePermissions[claims.Role]; !known {
			http.Error(w, "Unknown role", http.StatusUnauthorized)
			return
		}

		actor := models.Actor{ID: claims.UserID, Name: claims.Username, Role: claims.Role}
		ctx := context.WithValue(r.Context(), globals.ActorKey, actor)
		next(w, r.WithContext(ctx), ps)
	}
}

// ActorFromRequest returns the Actor placed in context by Authenticate.
func ActorFromRequest(r *http.Request) (models.Actor, bool) {
	actor, ok := r.Context().Value(globals.ActorKey).(models.Actor)
	return actor, ok
}

// ValidateJWT parses a bare token string, for callers that cannot send an
// Authorization header (websocket upgrades pass the token as a query param).
func ValidateJWT(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, fmt.Errorf("missing token")
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return globals.JwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("unauthorized")
	}
	return claims, nil
}
