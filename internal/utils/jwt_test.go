// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestGenerateJWTToken_Success(t *testing.T) {
	issuer := "test-issuer"
	subject := "+919876543210"
	sessionID := "session-1"
	duration := time.Hour
	key := "secret-key"

	token, err := GenerateJWTToken(issuer, subject, sessionID, duration, key)

	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if token.SignedString == "" {
		t.Error("expected non-empty SignedString")
	}
	if token.Token == nil {
		t.Error("expected non-nil jwt.Token object")
	}
	if token.String() != token.SignedString {
		t.Error("expected String() to return the signed token")
	}

	// Verify claims
	claims, ok := token.Token.Claims.(*jwt.RegisteredClaims)
	if !ok {
		t.Fatal("could not cast claims to RegisteredClaims")
	}
	if claims.Issuer != issuer {
		t.Errorf("expected issuer %s, got %s", issuer, claims.Issuer)
	}
	if claims.Subject != subject {
		t.Errorf("expected subject %s, got %s", subject, claims.Subject)
	}
	if claims.ID != sessionID {
		t.Errorf("expected jti %s, got %s", sessionID, claims.ID)
	}
	if !token.ExpiresAt.Equal(claims.ExpiresAt.Time) {
		t.Errorf("expected ExpiresAt %v, got %v", claims.ExpiresAt.Time, token.ExpiresAt)
	}
}

func TestGenerateJWTToken_InvalidParams(t *testing.T) {
	tests := []struct {
		name      string
		issuer    string
		subject   string
		sessionID string
		duration  time.Duration
		key       string
	}{
		{"empty issuer", "", "sub", "jti", time.Hour, "key"},
		{"empty subject", "iss", "", "jti", time.Hour, "key"},
		{"empty session id", "iss", "sub", "", time.Hour, "key"},
		{"zero duration", "iss", "sub", "jti", 0, "key"},
		{"empty key", "iss", "sub", "jti", time.Hour, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := GenerateJWTToken(tt.issuer, tt.subject, tt.sessionID, tt.duration, tt.key)
			if err == nil {
				t.Error("expected error for invalid parameters, got nil")
			}
		})
	}
}

func TestValidateAndParseJWTToken_Success(t *testing.T) {
	issuer := "test-issuer"
	key := "secret-key"

	genToken, err := GenerateJWTToken(issuer, "user-456", "jti-456", 5*time.Minute, key)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	parsedToken, err := ValidateAndParseJWTToken(genToken.SignedString, key, issuer)

	if err != nil {
		t.Fatalf("expected token to be valid, got error: %v", err)
	}
	if parsedToken.Subject != "user-456" {
		t.Errorf("expected subject user-456, got %s", parsedToken.Subject)
	}
	if parsedToken.SessionID != "jti-456" {
		t.Errorf("expected session id jti-456, got %s", parsedToken.SessionID)
	}
	if parsedToken.SignedString != genToken.SignedString {
		t.Error("expected the parsed token to keep its signed form")
	}
}

func TestValidateAndParseJWTToken_InvalidKey(t *testing.T) {
	genToken, _ := GenerateJWTToken("test-issuer", "sub", "jti", time.Hour, "correct-key")

	_, err := ValidateAndParseJWTToken(genToken.SignedString, "wrong-key", "test-issuer")
	if !errors.Is(err, jwt.ErrTokenSignatureInvalid) {
		t.Errorf("expected signature error, got %v", err)
	}
}

func TestValidateAndParseJWTToken_Expired(t *testing.T) {
	genToken, _ := GenerateJWTToken("test-issuer", "sub", "jti", -time.Second, "key")

	_, err := ValidateAndParseJWTToken(genToken.SignedString, "key", "test-issuer")
	if !errors.Is(err, jwt.ErrTokenExpired) {
		t.Errorf("expected expired error, got %v", err)
	}
}

func TestValidateAndParseJWTToken_WrongIssuer(t *testing.T) {
	genToken, _ := GenerateJWTToken("real-issuer", "sub", "jti", time.Hour, "key")

	_, err := ValidateAndParseJWTToken(genToken.SignedString, "key", "fake-issuer")
	if !errors.Is(err, jwt.ErrTokenInvalidIssuer) {
		t.Errorf("expected issuer error, got %v", err)
	}
}

func TestValidateAndParseJWTToken_MissingClaims(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name   string
		claims jwt.RegisteredClaims
	}{
		{
			name: "no subject",
			claims: jwt.RegisteredClaims{
				Issuer: "iss", ID: "jti", ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			},
		},
		{
			name: "no jti",
			claims: jwt.RegisteredClaims{
				Issuer: "iss", Subject: "sub", ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			},
		},
		{
			name: "no expiry",
			claims: jwt.RegisteredClaims{
				Issuer: "iss", Subject: "sub", ID: "jti",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, tt.claims).SignedString([]byte("key"))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if _, err := ValidateAndParseJWTToken(signed, "key", "iss"); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestValidateAndParseJWTToken_RejectsOtherAlgorithms(t *testing.T) {
	claims := jwt.RegisteredClaims{
		Issuer: "iss", Subject: "sub", ID: "jti", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("key"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := ValidateAndParseJWTToken(signed, "key", "iss"); err == nil {
		t.Error("expected HS512 token to be rejected")
	}
}

func TestValidateAndParseJWTToken_Malformed(t *testing.T) {
	_, err := ValidateAndParseJWTToken("not.a.token", "key", "iss")
	if err == nil {
		t.Error("expected error for malformed token string, got nil")
	}
}

func TestParseBearerToken(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{name: "bearer", header: "Bearer abc.def.ghi", want: "abc.def.ghi"},
		{name: "lower case scheme", header: "bearer abc", want: "abc"},
		{name: "extra spaces", header: "  Bearer   abc  ", want: "abc"},
		{name: "empty", header: "", wantErr: true},
		{name: "no token", header: "Bearer", wantErr: true},
		{name: "basic scheme", header: "Basic dXNlcjpwYXNz", wantErr: true},
		{name: "three parts", header: "Bearer a b", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseBearerToken(tt.header)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error, got token %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
