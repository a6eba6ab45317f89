package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/teamdash/break-service/internal/models"
)

func newTestAuthService(t *testing.T) (*AuthService, *Authority) {
	t.Helper()
	a, store, _, _ := newTestAuthority(t)
	return NewAuthService(store, a, JWTConfig{Secret: "test-secret", ExpiresIn: 1}), a
}

func TestLoginSuccess(t *testing.T) {
	s, _ := newTestAuthService(t)

	token, user, err := s.Login(context.Background(), "abdosayed", "Abdo123")
	if err != nil {
		t.Fatalf("Login() error: %v", err)
	}
	if user.ID != "5" {
		t.Errorf("logged in as user %s, want 5", user.ID)
	}
	if user.BreakStatus != models.StatusAvailable {
		t.Errorf("login left user at %s, want %s", user.BreakStatus, models.StatusAvailable)
	}

	claims, err := s.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken() error: %v", err)
	}
	if claims.UserID != "5" || claims.Role != string(models.RoleEmployee) {
		t.Errorf("claims = %s/%s, want 5/employee", claims.UserID, claims.Role)
	}
}

func TestLoginNormalizesUsername(t *testing.T) {
	s, _ := newTestAuthService(t)

	if _, _, err := s.Login(context.Background(), "  AbdoSayed ", "Abdo123"); err != nil {
		t.Errorf("Login() with padded mixed-case username error: %v", err)
	}
}

func TestLoginRejections(t *testing.T) {
	s, _ := newTestAuthService(t)

	tests := []struct {
		name     string
		username string
		password string
	}{
		{"wrong password", "abdosayed", "nope"},
		{"unknown user", "ghost", "Abdo123"},
		{"empty password", "abdosayed", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := s.Login(context.Background(), tt.username, tt.password); err == nil {
				t.Error("Login() succeeded, want error")
			}
		})
	}
}

func TestLoginAfterSnapshotRestore(t *testing.T) {
	s, a := newTestAuthService(t)

	// Round-trip the snapshot through JSON the way the store persists it;
	// passwords are excluded from the wire form.
	raw, err := json.Marshal(a.Snapshot())
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	var snap models.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	a.Restore(snap)

	if _, _, err := s.Login(context.Background(), "abdosayed", "Abdo123"); err != nil {
		t.Errorf("Login() after restore error: %v", err)
	}
	if _, _, err := s.Login(context.Background(), "abdosayed", ""); err == nil {
		t.Error("Login() with an empty password succeeded after restore")
	}
}

func TestLogoutForcesOffline(t *testing.T) {
	s, a := newTestAuthService(t)

	if _, _, err := s.Login(context.Background(), "abdosayed", "Abdo123"); err != nil {
		t.Fatalf("Login() error: %v", err)
	}

	s.Logout(context.Background(), "5")

	for _, u := range a.Snapshot().Users {
		if u.ID == "5" && u.BreakStatus != models.StatusOffline {
			t.Errorf("logout left user at %s, want %s", u.BreakStatus, models.StatusOffline)
		}
	}
}

func TestGetUserFromToken(t *testing.T) {
	s, _ := newTestAuthService(t)

	token, _, err := s.Login(context.Background(), "abdosayed", "Abdo123")
	if err != nil {
		t.Fatalf("Login() error: %v", err)
	}

	user, err := s.GetUserFromToken(token)
	if err != nil {
		t.Fatalf("GetUserFromToken() error: %v", err)
	}
	if user.ID != "5" {
		t.Errorf("GetUserFromToken() = user %s, want 5", user.ID)
	}

	if _, err := s.GetUserFromToken("not-a-token"); err == nil {
		t.Error("GetUserFromToken() accepted garbage")
	}
}

func TestValidateTokenRejectsTampering(t *testing.T) {
	s, _ := newTestAuthService(t)
	other, _ := newTestAuthService(t)
	other.jwtConfig.Secret = "different-secret"

	token, _, err := s.Login(context.Background(), "abdosayed", "Abdo123")
	if err != nil {
		t.Fatalf("Login() error: %v", err)
	}

	if _, err := other.ValidateToken(token); err == nil {
		t.Error("ValidateToken() accepted a token signed with another secret")
	}
	if _, err := s.ValidateToken(token + "x"); err == nil {
		t.Error("ValidateToken() accepted a mangled token")
	}
}
