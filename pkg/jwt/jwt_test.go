package jwt

import (
	"testing"
	"time"

	"github.com/Bryne19/deanza-course-planner/config"
)

func newTestManager(ttl time.Duration) *Manager {
	return NewManager(&config.SessionConfig{
		Secret: "test-secret-key-for-unit-testing-2026",
		TTL:    ttl,
	})
}

func TestNewSessionTokenAndParse(t *testing.T) {
	m := newTestManager(time.Hour)

	token, sessionID, err := m.NewSessionToken()
	if err != nil {
		t.Fatalf("NewSessionToken 失败: %v", err)
	}
	if sessionID == "" {
		t.Fatal("session_id 不应为空")
	}

	claims, err := m.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken 失败: %v", err)
	}
	if claims.SessionID != sessionID {
		t.Errorf("期望 SessionID=%s，实际=%s", sessionID, claims.SessionID)
	}
	if claims.Issuer != "deanza-course-planner" {
		t.Errorf("期望 Issuer=deanza-course-planner，实际=%s", claims.Issuer)
	}
	if claims.ID == "" {
		t.Error("JTI 不应为空")
	}
}

func TestParseToken_Expired(t *testing.T) {
	m := newTestManager(-time.Minute)

	token, _, err := m.NewSessionToken()
	if err != nil {
		t.Fatalf("NewSessionToken 失败: %v", err)
	}

	if _, err := m.ParseToken(token); err != ErrTokenExpired {
		t.Errorf("期望 ErrTokenExpired，实际=%v", err)
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	m1 := newTestManager(time.Hour)
	m2 := NewManager(&config.SessionConfig{
		Secret: "another-secret-key-0123456789",
		TTL:    time.Hour,
	})

	token, _, err := m1.NewSessionToken()
	if err != nil {
		t.Fatalf("NewSessionToken 失败: %v", err)
	}

	if _, err := m2.ParseToken(token); err != ErrTokenInvalid {
		t.Errorf("期望 ErrTokenInvalid，实际=%v", err)
	}
}
