package middlewares

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const userKey contextKey = "userID"

// Authenticator validates bearer tokens issued by the identity provider.
// The caller's identity is the token's "sub" claim.
type Authenticator struct {
	keyFunc jwt.Keyfunc
	methods []string
	logger  *slog.Logger
}

// NewAuthenticator accepts HS256 tokens signed with secret and, when
// publicKeyPEM is set, RS256 tokens verifiable with that key.
func NewAuthenticator(secret, publicKeyPEM string, logger *slog.Logger) (*Authenticator, error) {
	if secret == "" && publicKeyPEM == "" {
		return nil, errors.New("no token verification key configured")
	}

	a := &Authenticator{logger: logger}
	var rsaKey interface{}
	if publicKeyPEM != "" {
		key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(publicKeyPEM))
		if err != nil {
			return nil, fmt.Errorf("parse JWT public key: %w", err)
		}
		rsaKey = key
		a.methods = append(a.methods, jwt.SigningMethodRS256.Alg())
	}
	if secret != "" {
		a.methods = append(a.methods, jwt.SigningMethodHS256.Alg())
	}

	a.keyFunc = func(token *jwt.Token) (interface{}, error) {
		switch token.Method.(type) {
		case *jwt.SigningMethodRSA:
			if rsaKey == nil {
				return nil, errors.New("RS256 tokens not accepted")
			}
			return rsaKey, nil
		case *jwt.SigningMethodHMAC:
			if secret == "" {
				return nil, errors.New("HS256 tokens not accepted")
			}
			return []byte(secret), nil
		default:
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
	}
	return a, nil
}

func (a *Authenticator) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			http.Error(w, "Missing token", http.StatusUnauthorized)
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		token, err := jwt.Parse(tokenStr, a.keyFunc, jwt.WithValidMethods(a.methods))
		if err != nil || !token.Valid {
			a.logger.Debug("rejected bearer token", "error", err)
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		userID, err := token.Claims.GetSubject()
		if err != nil || userID == "" {
			http.Error(w, "User ID not found in token", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
	})
}

// WithUserID stores the authenticated caller on ctx.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userKey, userID)
}

// Helper to retrieve user ID in handler
func GetUserID(r *http.Request) string {
	if userID, ok := r.Context().Value(userKey).(string); ok {
		return userID
	}
	return ""
}
