// Package admin реализует вход администратора по паролю и хранение
// активных административных сессий в памяти. Сессии не переживают
// перезапуск процесса, это осознанно: администратор входит заново.
package admin

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"privychka.ru/rewards-bot/internal/common"
)

// Service проверяет пароль администратора и выдаёт сессии с TTL.
type Service struct {
	passwordHash []byte
	ttl          time.Duration
	log          *logrus.Logger

	mu       sync.Mutex
	sessions map[int64]time.Time // userID → срок действия

	now func() time.Time // подменяется в тестах
}

// NewService создаёт сервис администратора.
// passwordHash — bcrypt-хеш пароля из конфигурации.
func NewService(passwordHash string, ttl time.Duration, log *logrus.Logger) *Service {
	return &Service{
		passwordHash: []byte(passwordHash),
		ttl:          ttl,
		log:          log,
		sessions:     make(map[int64]time.Time),
		now:          time.Now,
	}
}

// Login проверяет пароль и открывает сессию для пользователя.
// Неверный пароль возвращает common.ErrWrongPassword.
func (s *Service) Login(userID int64, password string) error {
	if err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password)); err != nil {
		s.log.WithField("user_id", userID).Warn("Неверный пароль администратора")
		return common.ErrWrongPassword
	}
	s.mu.Lock()
	s.sessions[userID] = s.now().Add(s.ttl)
	s.mu.Unlock()
	s.log.WithField("user_id", userID).Info("Открыта административная сессия")
	return nil
}

// Logout закрывает сессию пользователя.
func (s *Service) Logout(userID int64) {
	s.mu.Lock()
	delete(s.sessions, userID)
	s.mu.Unlock()
}

// Require возвращает nil, если у пользователя есть живая сессия.
// Просроченная сессия удаляется и возвращается common.ErrSessionExpired,
// отсутствующая — common.ErrNotAdmin.
func (s *Service) Require(userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	deadline, ok := s.sessions[userID]
	if !ok {
		return common.ErrNotAdmin
	}
	if s.now().After(deadline) {
		delete(s.sessions, userID)
		return common.ErrSessionExpired
	}
	return nil
}

// IsAdmin сообщает, активна ли сессия, без побочных эффектов для вызова
// из фильтров и меню.
func (s *Service) IsAdmin(userID int64) bool {
	return s.Require(userID) == nil
}
