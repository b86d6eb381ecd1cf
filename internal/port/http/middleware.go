package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/atelierlaine/reservation-service/internal/domain/entity"
	"github.com/atelierlaine/reservation-service/internal/platform/logger"
	"github.com/golang-jwt/jwt/v5"
)

type principalKeyType string

const principalKey principalKeyType = "authenticatedPrincipal"

// Claims is the token payload issued by the storefront's auth service.
type Claims struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// PrincipalFromContext returns the authenticated principal, or Anonymous when
// the request carried no valid token.
func PrincipalFromContext(ctx context.Context) entity.Principal {
	if p, ok := ctx.Value(principalKey).(entity.Principal); ok {
		return p
	}
	return entity.Anonymous
}

// Authenticate resolves a Bearer token into a principal on the request
// context. A missing header yields Anonymous and the request proceeds;
// route-level checks decide whether that is acceptable. A malformed or
// invalid token is rejected outright.
func Authenticate(jwtSecret string, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}

			parts := strings.Fields(authHeader)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				log.Warnf("Invalid Authorization header format from %s", r.RemoteAddr)
				writeError(w, http.StatusUnauthorized, "authorization header format must be 'Bearer <token>'")
				return
			}

			claims := &Claims{}
			token, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrTokenSignatureInvalid
				}
				return []byte(jwtSecret), nil
			})
			if err != nil {
				log.Warnf("Token validation failed: %v", err)
				if errors.Is(err, jwt.ErrTokenExpired) {
					writeError(w, http.StatusUnauthorized, "token has expired")
					return
				}
				writeError(w, http.StatusUnauthorized, "token is invalid")
				return
			}
			if !token.Valid || claims.UserID == "" {
				log.Warnf("Token accepted by parser but not usable (valid=%t)", token.Valid)
				writeError(w, http.StatusUnauthorized, "token is invalid")
				return
			}

			principal := entity.Principal{
				UserID: claims.UserID,
				Name:   claims.Name,
				Email:  claims.Email,
				Role:   entity.Role(claims.Role),
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), principalKey, principal)))
		})
	}
}

// RequireAuth rejects requests that did not authenticate.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !PrincipalFromContext(r.Context()).IsAuthenticated() {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin rejects requests whose principal lacks the admin role.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := PrincipalFromContext(r.Context())
		if !p.IsAuthenticated() {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		if !p.IsAdmin() {
			writeError(w, http.StatusForbidden, "admin role required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
