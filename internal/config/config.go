// Package config загружает конфигурацию бота из переменных окружения.
// Используется envconfig для маппинга переменных окружения на поля структуры.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config содержит ВСЕ настройки приложения.
type Config struct {
	// --- Telegram ---
	TelegramBotToken string `envconfig:"TELEGRAM_BOT_TOKEN" required:"true"`

	// --- Database ---
	// В Docker внутри контейнера "localhost" почти всегда неправильно.
	// Дефолт ставим "postgres" (имя сервиса в docker-compose), а для локалки переопределяй DB_HOST=localhost.
	DBHost     string `envconfig:"DB_HOST" default:"postgres"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" default:"botuser"`
	DBPassword string `envconfig:"DB_PASSWORD" required:"true"`
	DBName     string `envconfig:"DB_NAME" default:"rewards_bot"`
	DBSSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
	DBMaxConns int32  `envconfig:"DB_MAX_CONNS" default:"25"`
	DBMinConns int32  `envconfig:"DB_MIN_CONNS" default:"5"`

	// --- Application ---
	AppEnv      string `envconfig:"APP_ENV" default:"development"`
	AppLogLevel string `envconfig:"APP_LOG_LEVEL" default:"debug"`
	// Часовой пояс, в котором считается «сегодня» для отметок привычек
	AppTimezone string `envconfig:"APP_TIMEZONE" default:"Europe/Moscow"`

	// --- Bot runtime ---
	// Сколько апдейтов обрабатываем параллельно. Иначе "go на каждый апдейт" = утечка памяти при флуде.
	BotMaxInflight int `envconfig:"BOT_MAX_INFLIGHT" default:"64"`
	// Таймаут long polling (секунды)
	BotUpdateTimeoutSeconds int `envconfig:"BOT_UPDATE_TIMEOUT_SECONDS" default:"60"`

	// --- Admin ---
	// bcrypt-хэш пароля админки (управление ярмаркой)
	AdminPasswordHash string `envconfig:"ADMIN_PASSWORD_HASH" required:"true"`
	// Время жизни админ-сессии
	AdminSessionTTL time.Duration `envconfig:"ADMIN_SESSION_TTL" default:"30m"`

	// --- Streaks / медали ---
	// Вехи стрика, за которые полагается объявление
	StreakMilestone1 int `envconfig:"STREAK_MILESTONE_1" default:"7"`
	StreakMilestone2 int `envconfig:"STREAK_MILESTONE_2" default:"15"`
	StreakMilestone3 int `envconfig:"STREAK_MILESTONE_3" default:"30"`
	// Порог стрика для напоминаний
	StreakReminderThreshold int `envconfig:"STREAK_REMINDER_THRESHOLD" default:"7"`

	// --- Ledger ---
	// Выплата монетами за отметку привычки с медалью
	MedalCoinPayout float64 `envconfig:"MEDAL_COIN_PAYOUT" default:"0.5"`
	// Сколько медалей нужно для улучшенного курса конвертации
	MedalsForBetterRate int `envconfig:"MEDALS_FOR_BETTER_RATE" default:"3"`
	// Бонус каждому участнику за групповое достижение месяца
	GroupAchievementBonus float64 `envconfig:"GROUP_ACHIEVEMENT_BONUS" default:"10"`

	// --- Rate Limiting ---
	RateLimitRequests int           `envconfig:"RATE_LIMIT_REQUESTS" default:"10"`
	RateLimitWindow   time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"1m"`
}

// DatabaseDSN возвращает строку подключения к PostgreSQL в формате DSN.
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode,
	)
}

// Location возвращает часовой пояс приложения.
// Если AppTimezone не загрузился — UTC+3 вручную.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.AppTimezone)
	if err != nil {
		return time.FixedZone("MSK", 3*60*60)
	}
	return loc
}

func (c *Config) Validate() error {
	if c.BotMaxInflight <= 0 {
		return fmt.Errorf("BOT_MAX_INFLIGHT должен быть > 0")
	}
	if c.BotUpdateTimeoutSeconds <= 0 {
		return fmt.Errorf("BOT_UPDATE_TIMEOUT_SECONDS должен быть > 0")
	}
	if c.DBMaxConns <= 0 || c.DBMinConns < 0 || c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("некорректные DB_MIN_CONNS/DB_MAX_CONNS")
	}
	if !(c.StreakMilestone1 < c.StreakMilestone2 && c.StreakMilestone2 < c.StreakMilestone3) {
		return fmt.Errorf("вехи стрика должны возрастать: %d/%d/%d",
			c.StreakMilestone1, c.StreakMilestone2, c.StreakMilestone3)
	}
	if c.MedalCoinPayout <= 0 {
		return fmt.Errorf("MEDAL_COIN_PAYOUT должен быть > 0")
	}
	return nil
}

// Load читает переменные окружения и заполняет структуру Config.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("не удалось загрузить конфигурацию: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
