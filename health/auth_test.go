package health

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var guardKey = []byte("test-signing-key")

func signToken(t *testing.T, key []byte, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
	if err != nil {
		t.Fatalf("SignedString() error = %v", err)
	}
	return token
}

func guardedRequest(guard *Guard, header, value string) *httptest.ResponseRecorder {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	req := httptest.NewRequest(http.MethodGet, "/health/detailed", nil)
	if header != "" {
		req.Header.Set(header, value)
	}
	rec := httptest.NewRecorder()
	guard.Wrap(next).ServeHTTP(rec, req)
	return rec
}

// TestGuard_ValidToken verifies a signed token reaches the wrapped
// handler.
func TestGuard_ValidToken(t *testing.T) {
	guard := NewGuard(GuardConfig{Key: guardKey})
	token := signToken(t, guardKey, jwt.MapClaims{"sub": "ops"})

	rec := guardedRequest(guard, "Authorization", "Bearer "+token)
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if rec.Body.String() != "ok" {
		t.Errorf("expected wrapped handler output, got %q", rec.Body.String())
	}
}

// TestGuard_MissingToken verifies absent and malformed headers are
// rejected before parsing.
func TestGuard_MissingToken(t *testing.T) {
	guard := NewGuard(GuardConfig{Key: guardKey})

	tests := []struct {
		name   string
		header string
		value  string
	}{
		{name: "no header"},
		{name: "wrong prefix", header: "Authorization", value: "Token abc"},
		{name: "empty value", header: "Authorization", value: ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := guardedRequest(guard, tc.header, tc.value)
			if rec.Code != http.StatusUnauthorized {
				t.Errorf("expected 401, got %d", rec.Code)
			}
			if !strings.Contains(rec.Body.String(), "health: missing token") {
				t.Errorf("expected missing token error, got %s", rec.Body.String())
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("expected application/json, got %q", ct)
			}
		})
	}
}

// TestGuard_InvalidToken verifies rejected signatures and claims.
func TestGuard_InvalidToken(t *testing.T) {
	guard := NewGuard(GuardConfig{Key: guardKey, Issuer: "user-service", Audience: "health"})

	otherKey := []byte("some-other-key")
	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"iss": "user-service",
		"aud": "health",
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("SignedString() error = %v", err)
	}

	tests := []struct {
		name  string
		token string
	}{
		{name: "garbage", token: "not-a-jwt"},
		{
			name:  "wrong key",
			token: signToken(t, otherKey, jwt.MapClaims{"iss": "user-service", "aud": "health"}),
		},
		{
			name: "expired",
			token: signToken(t, guardKey, jwt.MapClaims{
				"iss": "user-service",
				"aud": "health",
				"exp": time.Now().Add(-time.Hour).Unix(),
			}),
		},
		{name: "unsigned algorithm", token: noneToken},
		{
			name:  "wrong issuer",
			token: signToken(t, guardKey, jwt.MapClaims{"iss": "billing-service", "aud": "health"}),
		},
		{
			name:  "missing issuer",
			token: signToken(t, guardKey, jwt.MapClaims{"aud": "health"}),
		},
		{
			name:  "wrong audience",
			token: signToken(t, guardKey, jwt.MapClaims{"iss": "user-service", "aud": "billing"}),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := guardedRequest(guard, "Authorization", "Bearer "+tc.token)
			if rec.Code != http.StatusUnauthorized {
				t.Errorf("expected 401, got %d", rec.Code)
			}
			if !strings.Contains(rec.Body.String(), "health: invalid token") {
				t.Errorf("expected invalid token error, got %s", rec.Body.String())
			}
		})
	}
}

// TestGuard_IssuerAndAudience verifies configured claims admit matching
// tokens.
func TestGuard_IssuerAndAudience(t *testing.T) {
	guard := NewGuard(GuardConfig{Key: guardKey, Issuer: "user-service", Audience: "health"})

	token := signToken(t, guardKey, jwt.MapClaims{
		"iss": "user-service",
		"aud": "health",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	rec := guardedRequest(guard, "Authorization", "Bearer "+token)
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d body %s", rec.Code, rec.Body.String())
	}
}

// TestGuard_AudienceList verifies the aud claim may be a list.
func TestGuard_AudienceList(t *testing.T) {
	guard := NewGuard(GuardConfig{Key: guardKey, Audience: "health"})

	token := signToken(t, guardKey, jwt.MapClaims{
		"aud": []string{"billing", "health"},
	})
	rec := guardedRequest(guard, "Authorization", "Bearer "+token)
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d body %s", rec.Code, rec.Body.String())
	}
}

// TestGuard_CustomHeader verifies header name and prefix overrides.
func TestGuard_CustomHeader(t *testing.T) {
	guard := NewGuard(GuardConfig{
		Key:         guardKey,
		HeaderName:  "X-Health-Token",
		TokenPrefix: "Token ",
	})
	token := signToken(t, guardKey, jwt.MapClaims{"sub": "ops"})

	rec := guardedRequest(guard, "X-Health-Token", "Token "+token)
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}

	rec = guardedRequest(guard, "Authorization", "Bearer "+token)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for default header, got %d", rec.Code)
	}
}
