// Package app инициализирует все компоненты приложения.
// app.go — точка сборки: создаёт БД-пул, репозитории, сервисы, обработчики,
// фильтры и собирает всё в один объект Bot.
package app

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"

	"privychka.ru/rewards-bot/internal/bot"
	"privychka.ru/rewards-bot/internal/bot/filters"
	"privychka.ru/rewards-bot/internal/config"
	"privychka.ru/rewards-bot/internal/db/postgres"
	"privychka.ru/rewards-bot/internal/features/admin"
	"privychka.ru/rewards-bot/internal/features/economy"
	"privychka.ru/rewards-bot/internal/features/groups"
	"privychka.ru/rewards-bot/internal/features/habits"
	"privychka.ru/rewards-bot/internal/features/mall"
	"privychka.ru/rewards-bot/internal/features/members"
	"privychka.ru/rewards-bot/internal/features/reports"
	"privychka.ru/rewards-bot/internal/features/rewards"
	"privychka.ru/rewards-bot/internal/features/streaks"
	"privychka.ru/rewards-bot/internal/jobs"
)

// App содержит все компоненты приложения.
type App struct {
	Bot       *bot.Bot
	Scheduler *jobs.Scheduler
	DB        *pgxpool.Pool
	BotAPI    *tgbotapi.BotAPI
}

// New создаёт и инициализирует приложение.
// Порядок инициализации важен — компоненты зависят друг от друга.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := log.StandardLogger()

	// === 1. База данных ===
	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к БД: %w", err)
	}

	if err := runMigrations(ctx, pool); err != nil {
		return nil, fmt.Errorf("ошибка миграций: %w", err)
	}

	// === 2. Telegram Bot API ===
	botAPI, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания Telegram API: %w", err)
	}
	botAPI.Debug = cfg.AppEnv == "development"
	log.Infof("Авторизован как @%s", botAPI.Self.UserName)

	// === 3. Репозитории ===
	memberRepo := members.NewRepository(pool)
	groupRepo := groups.NewRepository(pool)
	economyRepo := economy.NewRepository(pool)
	streakRepo := streaks.NewRepository(pool)
	habitRepo := habits.NewRepository(pool, habits.Rules{
		Milestones:          [3]int{cfg.StreakMilestone1, cfg.StreakMilestone2, cfg.StreakMilestone3},
		MedalCoin:           cfg.MedalCoinPayout,
		MedalsForBetterRate: cfg.MedalsForBetterRate,
		GroupBonus:          cfg.GroupAchievementBonus,
	})
	rewardRepo := rewards.NewRepository(pool)
	mallRepo := mall.NewRepository(pool)
	reportRepo := reports.NewRepository(pool)

	// === 4. Сервисы ===
	memberService := members.NewService(memberRepo)
	groupService := groups.NewService(groupRepo)
	streakService := streaks.NewService(streakRepo)
	economyService := economy.NewService(economyRepo, streakService, cfg)
	habitService := habits.NewService(habitRepo, memberService, logger)
	rewardService := rewards.NewService(rewardRepo, memberService, logger)
	adminService := admin.NewService(cfg.AdminPasswordHash, cfg.AdminSessionTTL, logger)
	mallService := mall.NewService(mallRepo, adminService, logger)
	reportService := reports.NewService(reportRepo, memberService)

	// === 5. Объявления в чаты групп ===
	announcer := bot.NewAnnouncer(botAPI, groupService)

	// === 6. Обработчики ===
	handlers := bot.Handlers{
		Groups:  groups.NewHandler(groupService, memberService, botAPI),
		Economy: economy.NewHandler(economyService, streakService, botAPI),
		Habits:  habits.NewHandler(habitService, announcer, cfg.GroupAchievementBonus, botAPI),
		Streaks: streaks.NewHandler(streakService, botAPI),
		Rewards: rewards.NewHandler(rewardService, memberService, botAPI),
		Mall:    mall.NewHandler(mallService, memberService, botAPI),
		Admin:   admin.NewHandler(adminService, botAPI),
		Reports: reports.NewHandler(reportService, botAPI),
	}

	// === 7. Фильтры ===
	chatFilter := filters.NewChatFilter(groupService)

	// === 8. Собираем бота ===
	b := bot.New(botAPI, cfg, memberService, handlers, chatFilter)

	// === 9. Планировщик задач ===
	scheduler := jobs.NewScheduler(
		cfg.Location(),
		streakService,
		groupService,
		reportService,
		announcer,
		b.SendMessageToUser,
		cfg.StreakReminderThreshold,
	)

	return &App{
		Bot:       b,
		Scheduler: scheduler,
		DB:        pool,
		BotAPI:    botAPI,
	}, nil
}

// runMigrations выполняет все SQL-миграции по порядку.
func runMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	if err := postgres.InitMigrations(ctx, pool); err != nil {
		return err
	}

	for _, m := range migrations {
		if err := postgres.ExecMigrationSQL(ctx, pool, m.version, m.sql); err != nil {
			return fmt.Errorf("миграция %d: %w", m.version, err)
		}
		log.Infof("Миграция %d применена", m.version)
	}
	return nil
}
