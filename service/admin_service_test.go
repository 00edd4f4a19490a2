package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func newTestAdminService() (*AdminService, *fakeSettingsRepo) {
	settings := newFakeSettingsRepo()
	return NewAdminService(settings, "test-secret"), settings
}

func TestAdminLoginWithDefaultPassword(t *testing.T) {
	svc, settings := newTestAdminService()
	ctx := context.Background()

	token, expires, err := svc.Login(ctx, DefaultAdminPassword)
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if token == "" {
		t.Fatal("empty token")
	}
	if d := time.Until(expires); d < SessionTTL-time.Minute || d > SessionTTL {
		t.Errorf("expires in %v, want about %v", d, SessionTTL)
	}
	if err := svc.ParseSession(token); err != nil {
		t.Errorf("ParseSession: %v", err)
	}

	stored := settings.settings[SettingAdminPassword].Value
	if stored == "" || stored == DefaultAdminPassword {
		t.Errorf("password must be stored hashed, got %q", stored)
	}
}

func TestAdminLoginWrongPassword(t *testing.T) {
	svc, _ := newTestAdminService()
	_, _, err := svc.Login(context.Background(), "nope")
	if !errors.Is(err, ErrInvalidPassword) {
		t.Errorf("err = %v, want ErrInvalidPassword", err)
	}
}

func TestAdminParseSessionRejects(t *testing.T) {
	svc, _ := newTestAdminService()
	ctx := context.Background()
	token, _, err := svc.Login(ctx, DefaultAdminPassword)
	if err != nil {
		t.Fatal(err)
	}

	t.Run("empty", func(t *testing.T) {
		if err := svc.ParseSession(""); !errors.Is(err, ErrInvalidSession) {
			t.Errorf("err = %v", err)
		}
	})

	t.Run("other secret", func(t *testing.T) {
		other := NewAdminService(newFakeSettingsRepo(), "other-secret")
		if err := other.ParseSession(token); !errors.Is(err, ErrInvalidSession) {
			t.Errorf("err = %v", err)
		}
	})

	t.Run("expired", func(t *testing.T) {
		svc.now = func() time.Time { return time.Now().Add(SessionTTL + time.Hour) }
		defer func() { svc.now = time.Now }()
		if err := svc.ParseSession(token); !errors.Is(err, ErrInvalidSession) {
			t.Errorf("err = %v", err)
		}
	})

	t.Run("wrong subject", func(t *testing.T) {
		claims := jwt.RegisteredClaims{
			Subject:   "visitor",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}
		forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
		if err != nil {
			t.Fatal(err)
		}
		if err := svc.ParseSession(forged); !errors.Is(err, ErrInvalidSession) {
			t.Errorf("err = %v", err)
		}
	})
}

func TestAdminChangeAndResetPassword(t *testing.T) {
	svc, _ := newTestAdminService()
	ctx := context.Background()
	if err := svc.EnsureDefaultPassword(ctx); err != nil {
		t.Fatal(err)
	}

	if err := svc.ChangePassword(ctx, DefaultAdminPassword, "123"); !errors.Is(err, ErrWeakPassword) {
		t.Errorf("short password: err = %v, want ErrWeakPassword", err)
	}
	if err := svc.ChangePassword(ctx, "wrong", "s3cret-pass"); !errors.Is(err, ErrInvalidPassword) {
		t.Errorf("wrong current: err = %v, want ErrInvalidPassword", err)
	}
	if err := svc.ChangePassword(ctx, DefaultAdminPassword, "s3cret-pass"); err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}
	if _, _, err := svc.Login(ctx, DefaultAdminPassword); !errors.Is(err, ErrInvalidPassword) {
		t.Errorf("old password still accepted: %v", err)
	}
	if _, _, err := svc.Login(ctx, "s3cret-pass"); err != nil {
		t.Errorf("new password rejected: %v", err)
	}

	if err := svc.ResetPassword(ctx); err != nil {
		t.Fatalf("ResetPassword: %v", err)
	}
	if _, _, err := svc.Login(ctx, DefaultAdminPassword); err != nil {
		t.Errorf("default password rejected after reset: %v", err)
	}
}

func TestAdminSettings(t *testing.T) {
	svc, _ := newTestAdminService()
	ctx := context.Background()
	if err := svc.EnsureDefaultPassword(ctx); err != nil {
		t.Fatal(err)
	}

	if _, err := svc.UpdateSetting(ctx, "site_title", "Twibbon"); err != nil {
		t.Fatalf("UpdateSetting: %v", err)
	}
	got, err := svc.GetSetting(ctx, "site_title")
	if err != nil || got.Value != "Twibbon" {
		t.Fatalf("GetSetting = %+v, %v", got, err)
	}

	list, err := svc.ListSettings(ctx)
	if err != nil {
		t.Fatal(err)
	}
	for _, s := range list {
		if s.Key == SettingAdminPassword {
			t.Error("password hash listed")
		}
	}
	if len(list) != 1 {
		t.Errorf("ListSettings = %+v", list)
	}

	if _, err := svc.GetSetting(ctx, SettingAdminPassword); !errors.Is(err, ErrProtectedSetting) {
		t.Errorf("GetSetting(password) err = %v", err)
	}
	if _, err := svc.UpdateSetting(ctx, SettingAdminPassword, "x"); !errors.Is(err, ErrProtectedSetting) {
		t.Errorf("UpdateSetting(password) err = %v", err)
	}
}
