package jwt

import (
	"errors"
	"testing"
	"time"
)

func TestGenerateAndValidateAccessToken(t *testing.T) {
	now := time.Now()
	token, err := GenerateAccessToken("u1", "ama", "Staff", "sess-1", "secret", now, now.Add(time.Hour))
	if err != nil {
		t.Fatalf("GenerateAccessToken() error = %v", err)
	}

	claims, err := ValidateAccessToken(token, "secret")
	if err != nil {
		t.Fatalf("ValidateAccessToken() error = %v", err)
	}
	if claims.UserID != "u1" || claims.Username != "ama" || claims.Role != "Staff" || claims.SessionID() != "sess-1" {
		t.Fatalf("claims = %+v", claims)
	}
}

func TestValidateAccessToken_Failures(t *testing.T) {
	now := time.Now()
	expired, _ := GenerateAccessToken("u1", "ama", "Staff", "s", "secret", now.Add(-2*time.Hour), now.Add(-time.Hour))
	valid, _ := GenerateAccessToken("u1", "ama", "Staff", "s", "secret", now, now.Add(time.Hour))

	tests := []struct {
		name   string
		token  string
		secret string
		want   error
	}{
		{"expired", expired, "secret", ErrTokenExpired},
		{"wrong secret", valid, "other", ErrTokenInvalid},
		{"garbage", "not.a.token", "secret", ErrTokenInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ValidateAccessToken(tt.token, tt.secret); !errors.Is(err, tt.want) {
				t.Errorf("ValidateAccessToken() error = %v, want %v", err, tt.want)
			}
		})
	}
}
