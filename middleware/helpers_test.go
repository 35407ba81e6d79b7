package middleware

import (
	"context"
	"testing"

	"github.com/Mayonesio/disckatus-tournaments-sub000/models"
	"github.com/golang-jwt/jwt/v4"
)

func contextWithClaims(claims jwt.MapClaims) context.Context {
	return context.WithValue(context.Background(), userContextKey, claims)
}

func TestGetUserIDFromContext(t *testing.T) {
	tests := []struct {
		name    string
		claim   interface{}
		want    int
		wantErr bool
	}{
		{"json number", float64(42), 42, false},
		{"string id", "42", 42, false},
		{"zero", float64(0), 0, true},
		{"negative", float64(-1), 0, true},
		{"fractional", 4.2, 0, true},
		{"garbage string", "forty-two", 0, true},
		{"wrong type", true, 0, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctx := contextWithClaims(jwt.MapClaims{jwtClaimUserID: tc.claim})
			got, err := GetUserIDFromContext(ctx)
			if tc.wantErr {
				if err == nil {
					t.Errorf("GetUserIDFromContext() = %d, want error", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("GetUserIDFromContext() error = %v", err)
			}
			if got != tc.want {
				t.Errorf("GetUserIDFromContext() = %d, want %d", got, tc.want)
			}
		})
	}

	if _, err := GetUserIDFromContext(context.Background()); err == nil {
		t.Error("GetUserIDFromContext() without claims should fail")
	}
}

func TestGetUserRoleFromContext(t *testing.T) {
	ctx := contextWithClaims(jwt.MapClaims{jwtClaimRole: "admin"})
	role, err := GetUserRoleFromContext(ctx)
	if err != nil {
		t.Fatalf("GetUserRoleFromContext() error = %v", err)
	}
	if role != models.RoleAdmin {
		t.Errorf("role = %s, want %s", role, models.RoleAdmin)
	}

	ctx = contextWithClaims(jwt.MapClaims{jwtClaimRole: "superuser"})
	if _, err := GetUserRoleFromContext(ctx); err == nil {
		t.Error("GetUserRoleFromContext() should reject unknown roles")
	}
}

func TestGetUserEmailFromContext(t *testing.T) {
	ctx := contextWithClaims(jwt.MapClaims{jwtClaimEmail: "ana@club.org"})
	email, err := GetUserEmailFromContext(ctx)
	if err != nil {
		t.Fatalf("GetUserEmailFromContext() error = %v", err)
	}
	if email != "ana@club.org" {
		t.Errorf("email = %q, want %q", email, "ana@club.org")
	}

	ctx = contextWithClaims(jwt.MapClaims{})
	if _, err := GetUserEmailFromContext(ctx); err == nil {
		t.Error("GetUserEmailFromContext() should fail when the claim is missing")
	}
}
