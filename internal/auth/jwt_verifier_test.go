package auth

import (
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"grimoires/internal/domain"
	"grimoires/internal/domain/models"

	"github.com/golang-jwt/jwt/v5"
)

func testVerifier(t *testing.T) (*JWKSVerifier, *rsa.PrivateKey) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	kf := func(*jwt.Token) (interface{}, error) { return &key.PublicKey, nil }
	return newVerifier(kf, slog.New(slog.NewTextHandler(io.Discard, nil))), key
}

func sign(t *testing.T, key *rsa.PrivateKey, claims *models.Claims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

func TestVerifyToken(t *testing.T) {
	v, key := testVerifier(t)
	future := jwt.NewNumericDate(time.Now().Add(time.Hour))
	past := jwt.NewNumericDate(time.Now().Add(-time.Hour))

	tests := []struct {
		name    string
		claims  *models.Claims
		wantErr bool
	}{
		{
			name: "valid",
			claims: &models.Claims{
				RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1", ExpiresAt: future},
				Role:             "authenticated",
			},
		},
		{
			name:   "role omitted",
			claims: &models.Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1", ExpiresAt: future}},
		},
		{
			name:    "expired",
			claims:  &models.Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1", ExpiresAt: past}},
			wantErr: true,
		},
		{
			name:    "missing subject",
			claims:  &models.Claims{RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: future}},
			wantErr: true,
		},
		{
			name: "anonymous role",
			claims: &models.Claims{
				RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1", ExpiresAt: future},
				Role:             "anon",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := v.VerifyToken(sign(t, key, tt.claims))
			if tt.wantErr {
				if !errors.Is(err, domain.ErrUnauthorized) {
					t.Fatalf("VerifyToken() error = %v, want ErrUnauthorized", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("VerifyToken() error = %v", err)
			}
			if claims.GetUserID() != "user-1" {
				t.Errorf("GetUserID() = %q, want user-1", claims.GetUserID())
			}
		})
	}
}

func TestVerifyTokenRejectsHMAC(t *testing.T) {
	v, _ := testVerifier(t)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &models.Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1"},
	}).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := v.VerifyToken(token); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("VerifyToken(HS256) error = %v, want ErrUnauthorized", err)
	}
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		claims models.Claims
		want   string
	}{
		{models.Claims{UserMetadata: map[string]interface{}{"name": "Aria"}, Email: "a@x"}, "Aria"},
		{models.Claims{UserMetadata: map[string]interface{}{"full_name": "Bo Dee"}}, "Bo Dee"},
		{models.Claims{Email: "c@x"}, "c@x"},
		{models.Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "sub"}}, "sub"},
	}
	for _, tt := range tests {
		if got := tt.claims.DisplayName(); got != tt.want {
			t.Errorf("DisplayName() = %q, want %q", got, tt.want)
		}
	}
}
