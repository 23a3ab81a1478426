package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestSignAndVerifyJWT(t *testing.T) {
	claims := TokenClaims{
		Sub:      "user-1",
		Email:    "user@example.com",
		Exp:      time.Now().Add(time.Hour).Unix(),
		Issuer:   "finbot",
		Audience: "finbot-clients",
	}
	token, err := SignJWT("secret", claims)
	if err != nil {
		t.Fatalf("SignJWT returned error: %v", err)
	}
	got, err := VerifyJWT("secret", token)
	if err != nil {
		t.Fatalf("VerifyJWT returned error: %v", err)
	}
	if got.Sub != claims.Sub || got.Email != claims.Email {
		t.Fatalf("claims roundtrip mismatch: %+v", got)
	}
}

func TestVerifyJWTRejectsWrongSecret(t *testing.T) {
	token, _ := SignJWT("secret", TokenClaims{Sub: "user-1"})
	if _, err := VerifyJWT("other", token); err == nil {
		t.Fatalf("expected error for wrong secret")
	}
}

func TestVerifyJWTRejectsExpired(t *testing.T) {
	token, _ := SignJWT("secret", TokenClaims{
		Sub: "user-1",
		Exp: time.Now().Add(-time.Minute).Unix(),
	})
	if _, err := VerifyJWT("secret", token); err == nil {
		t.Fatalf("expected error for expired token")
	}
}

func TestAuthJWTMiddleware(t *testing.T) {
	var seenUserID string
	handler := AuthJWT("secret")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenUserID = UserIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status without token = %d, want 401", rec.Code)
	}

	token, _ := SignJWT("secret", TokenClaims{Sub: "user-1", Exp: time.Now().Add(time.Hour).Unix()})
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status with token = %d, want 200", rec.Code)
	}
	if seenUserID != "user-1" {
		t.Fatalf("user id from context = %q, want user-1", seenUserID)
	}
}
