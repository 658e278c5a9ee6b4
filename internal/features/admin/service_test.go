package admin

import (
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"privychka.ru/rewards-bot/internal/common"
)

func newTestService(t *testing.T, password string, ttl time.Duration) *Service {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewService(string(hash), ttl, log)
}

func TestLoginAndRequire(t *testing.T) {
	s := newTestService(t, "секрет", time.Hour)

	if err := s.Require(42); !errors.Is(err, common.ErrNotAdmin) {
		t.Errorf("до входа: err = %v, ожидался ErrNotAdmin", err)
	}
	if err := s.Login(42, "не тот"); !errors.Is(err, common.ErrWrongPassword) {
		t.Errorf("неверный пароль: err = %v, ожидался ErrWrongPassword", err)
	}
	if err := s.Login(42, "секрет"); err != nil {
		t.Fatalf("верный пароль: %v", err)
	}
	if err := s.Require(42); err != nil {
		t.Errorf("после входа: %v", err)
	}
	if s.Require(99) == nil {
		t.Error("чужой пользователь прошёл без входа")
	}
}

func TestSessionExpiry(t *testing.T) {
	s := newTestService(t, "секрет", time.Minute)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return base }

	if err := s.Login(7, "секрет"); err != nil {
		t.Fatalf("вход: %v", err)
	}
	s.now = func() time.Time { return base.Add(2 * time.Minute) }
	if err := s.Require(7); !errors.Is(err, common.ErrSessionExpired) {
		t.Errorf("просроченная сессия: err = %v, ожидался ErrSessionExpired", err)
	}
	// Просроченная сессия удалена, повторная проверка видит отсутствие
	if err := s.Require(7); !errors.Is(err, common.ErrNotAdmin) {
		t.Errorf("после удаления: err = %v, ожидался ErrNotAdmin", err)
	}
}

func TestLogout(t *testing.T) {
	s := newTestService(t, "секрет", time.Hour)
	if err := s.Login(1, "секрет"); err != nil {
		t.Fatalf("вход: %v", err)
	}
	s.Logout(1)
	if s.IsAdmin(1) {
		t.Error("сессия жива после выхода")
	}
}
