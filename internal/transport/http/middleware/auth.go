package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"fairworkly/internal/requestctx"
	"fairworkly/internal/transport/http/api"
)

type ctxKey string

const ctxKeyIdentity ctxKey = "identity"

// Claims are the verified token claims. The API never issues tokens;
// it only validates what the identity provider signed.
type Claims struct {
	UserID         string `json:"uid"`
	OrganizationID string `json:"org"`
	jwt.RegisteredClaims
}

// Identity is the authenticated caller attached to the request context.
type Identity struct {
	UserID         string
	OrganizationID string
}

func ParseToken(secret, tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.OrganizationID == "" {
		return nil, errors.New("token has no organization claim")
	}
	return claims, nil
}

// Auth rejects requests without a valid bearer token. Every API route
// is organization-scoped, so there are no anonymous paths behind it.
func Auth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := requestctx.GetRequestID(r.Context())

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				api.Fail(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing bearer token", requestID)
				return
			}
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				api.Fail(w, http.StatusUnauthorized, "UNAUTHORIZED", "malformed authorization header", requestID)
				return
			}

			claims, err := ParseToken(secret, parts[1])
			if err != nil {
				api.Fail(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or expired token", requestID)
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeyIdentity, Identity{
				UserID:         claims.UserID,
				OrganizationID: claims.OrganizationID,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetIdentity(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(ctxKeyIdentity).(Identity)
	return identity, ok
}
