package auth

import (
	"errors"
	"testing"
)

func testServiceConfig() ServiceConfig {
	return ServiceConfig{
		AdminPassword: "admin-password",
		SessionSecret: "session-secret",
		SessionMaxAge: 3600,
	}
}

func TestService_VerifyPassword(t *testing.T) {
	svc := NewService(testServiceConfig(), fixedClock(1700000000))

	if err := svc.VerifyPassword("admin-password"); err != nil {
		t.Errorf("correct password: err = %v, want nil", err)
	}
	if err := svc.VerifyPassword("wrong"); !errors.Is(err, ErrInvalidPassword) {
		t.Errorf("wrong password: err = %v, want ErrInvalidPassword", err)
	}
}

func TestService_VerifyPassword_NotConfigured(t *testing.T) {
	cfg := testServiceConfig()
	cfg.AdminPassword = ""
	svc := NewService(cfg, fixedClock(1700000000))

	if err := svc.VerifyPassword("anything"); !errors.Is(err, ErrPasswordNotConfigured) {
		t.Errorf("err = %v, want ErrPasswordNotConfigured", err)
	}
}

func TestService_IssueToken_ValidatesWithSameService(t *testing.T) {
	svc := NewService(testServiceConfig(), fixedClock(1700000000))

	token, err := svc.IssueToken()
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	if !svc.ValidateToken(token) {
		t.Error("token issued by the service should validate")
	}
}

func TestService_IssueToken_NoSecret_ReturnsError(t *testing.T) {
	cfg := testServiceConfig()
	cfg.AdminPassword = ""
	cfg.SessionSecret = ""
	svc := NewService(cfg, fixedClock(1700000000))

	if _, err := svc.IssueToken(); !errors.Is(err, ErrSecretNotConfigured) {
		t.Errorf("err = %v, want ErrSecretNotConfigured", err)
	}
}
