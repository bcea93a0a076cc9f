package health

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// GuardConfig configures the bearer-token guard for report endpoints.
type GuardConfig struct {
	// Key is the HMAC key used to verify token signatures. Required.
	Key []byte

	// Issuer is the expected token issuer (iss claim).
	Issuer string

	// Audience is the expected token audience (aud claim).
	Audience string

	// HeaderName is the header containing the token.
	// Default: "Authorization"
	HeaderName string

	// TokenPrefix is the prefix before the token in the header.
	// Default: "Bearer "
	TokenPrefix string
}

// Guard wraps report handlers with bearer-token validation. Detailed
// reports expose environment and build identity, so hosts that serve them
// beyond the trusted network can require a token.
type Guard struct {
	config GuardConfig
}

// NewGuard creates a new guard.
func NewGuard(config GuardConfig) *Guard {
	// Apply defaults
	if config.HeaderName == "" {
		config.HeaderName = "Authorization"
	}
	if config.TokenPrefix == "" {
		config.TokenPrefix = "Bearer "
	}

	return &Guard{config: config}
}

// Wrap returns a handler that serves next only for requests carrying a
// valid token. Unauthorized requests receive a 401 with a JSON error body.
func (g *Guard) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := g.authorize(r); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{
				"error": err.Error(),
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (g *Guard) authorize(r *http.Request) error {
	header := r.Header.Get(g.config.HeaderName)
	if header == "" {
		return ErrMissingToken
	}

	// Extract token
	tokenString := strings.TrimPrefix(header, g.config.TokenPrefix)
	if tokenString == header {
		return ErrMissingToken
	}
	tokenString = strings.TrimSpace(tokenString)

	// Parse and validate token, accepting only HMAC signatures
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return g.config.Key, nil
	})
	if err != nil || !token.Valid {
		return ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return ErrInvalidToken
	}

	// Validate issuer if configured
	if g.config.Issuer != "" {
		if iss, ok := claims["iss"].(string); !ok || iss != g.config.Issuer {
			return ErrInvalidToken
		}
	}

	// Validate audience if configured
	if g.config.Audience != "" && !hasAudience(claims, g.config.Audience) {
		return ErrInvalidToken
	}

	return nil
}

func hasAudience(claims jwt.MapClaims, target string) bool {
	switch v := claims["aud"].(type) {
	case string:
		return v == target
	case []any:
		for _, aud := range v {
			if s, ok := aud.(string); ok && s == target {
				return true
			}
		}
	}
	return false
}
