package middleware

import (
	"sync"
	"time"
)

// RateLimiter ограничивает число команд на пользователя в окне времени.
// Окно фиксированное: по его истечении счётчик начинается заново.
type RateLimiter struct {
	mu      sync.Mutex
	buckets map[int64]*bucket
	limit   int
	window  time.Duration

	stopOnce sync.Once
	stopCh   chan struct{}
}

type bucket struct {
	count   int
	resetAt time.Time
}

// NewRateLimiter создаёт лимитер и запускает фоновую уборку
// выдохшихся корзин.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		buckets: make(map[int64]*bucket),
		limit:   limit,
		window:  window,
		stopCh:  make(chan struct{}),
	}
	go rl.cleanup()
	return rl
}

// Close останавливает фоновую уборку. Вызывается на shutdown.
func (rl *RateLimiter) Close() {
	rl.stopOnce.Do(func() { close(rl.stopCh) })
}

// Allow возвращает false, когда пользователь исчерпал лимит окна.
func (rl *RateLimiter) Allow(userID int64) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	b, ok := rl.buckets[userID]
	if !ok || now.After(b.resetAt) {
		rl.buckets[userID] = &bucket{count: 1, resetAt: now.Add(rl.window)}
		return true
	}
	if b.count >= rl.limit {
		return false
	}
	b.count++
	return true
}

func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stopCh:
			return
		case <-ticker.C:
			rl.mu.Lock()
			now := time.Now()
			for userID, b := range rl.buckets {
				if now.After(b.resetAt) {
					delete(rl.buckets, userID)
				}
			}
			rl.mu.Unlock()
		}
	}
}
