// Package bot содержит главный модуль бота — инициализацию, запуск и остановку.
// bot.go принимает апдейты, прогоняет их через фильтры и middleware
// и раздаёт командам обработчики фич.
package bot

import (
	"context"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"privychka.ru/rewards-bot/internal/bot/filters"
	"privychka.ru/rewards-bot/internal/bot/middleware"
	"privychka.ru/rewards-bot/internal/common"
	"privychka.ru/rewards-bot/internal/config"
	"privychka.ru/rewards-bot/internal/features/admin"
	"privychka.ru/rewards-bot/internal/features/economy"
	"privychka.ru/rewards-bot/internal/features/groups"
	"privychka.ru/rewards-bot/internal/features/habits"
	"privychka.ru/rewards-bot/internal/features/mall"
	"privychka.ru/rewards-bot/internal/features/members"
	"privychka.ru/rewards-bot/internal/features/reports"
	"privychka.ru/rewards-bot/internal/features/rewards"
	"privychka.ru/rewards-bot/internal/features/streaks"
)

// Handlers — все обработчики команд, собранные в одном месте.
type Handlers struct {
	Groups  *groups.Handler
	Economy *economy.Handler
	Habits  *habits.Handler
	Streaks *streaks.Handler
	Rewards *rewards.Handler
	Mall    *mall.Handler
	Admin   *admin.Handler
	Reports *reports.Handler
}

// Bot — главная структура бота, объединяющая все компоненты.
type Bot struct {
	api *tgbotapi.BotAPI
	cfg *config.Config

	chatFilter  *filters.ChatFilter
	rateLimiter *middleware.RateLimiter

	memberService *members.Service
	handlers      Handlers

	parser *CommandParser

	// ограничитель параллелизма обработки апдейтов
	inflight chan struct{}
}

// New создаёт новый экземпляр бота со всеми зависимостями.
func New(
	api *tgbotapi.BotAPI,
	cfg *config.Config,
	memberService *members.Service,
	handlers Handlers,
	chatFilter *filters.ChatFilter,
) *Bot {
	maxInFlight := cfg.BotMaxInflight
	if maxInFlight <= 0 {
		maxInFlight = 64
	}

	return &Bot{
		api:           api,
		cfg:           cfg,
		chatFilter:    chatFilter,
		rateLimiter:   middleware.NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow),
		memberService: memberService,
		handlers:      handlers,
		parser:        NewCommandParser(),
		inflight:      make(chan struct{}, maxInFlight),
	}
}

// Start запускает polling обновлений от Telegram.
func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.cfg.BotUpdateTimeoutSeconds

	updates := b.api.GetUpdatesChan(u)

	log.WithFields(log.Fields{
		"max_inflight": b.cfg.BotMaxInflight,
		"timeout_sec":  b.cfg.BotUpdateTimeoutSeconds,
	}).Info("Бот запущен и ожидает сообщения...")

	for {
		select {
		case <-ctx.Done():
			log.Info("Бот останавливается (ctx done)...")
			b.api.StopReceivingUpdates()
			b.rateLimiter.Close()
			return

		case update, ok := <-updates:
			if !ok {
				log.Info("Канал updates закрыт, бот остановлен")
				return
			}

			// лимит параллелизма
			b.inflight <- struct{}{}
			go func(upd tgbotapi.Update) {
				defer func() { <-b.inflight }()
				b.handleUpdate(ctx, upd)
			}(update)
		}
	}
}

// handleUpdate обрабатывает одно обновление от Telegram.
func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	defer middleware.RecoverFromPanic()

	if update.Message == nil || update.Message.Text == "" {
		return
	}
	message := update.Message

	middleware.LogMessage(message)

	if !b.chatFilter.CheckAccess(ctx, message) {
		return
	}

	if message.From != nil && !b.rateLimiter.Allow(message.From.ID) {
		log.WithField("user_id", message.From.ID).Debug("rate limited")
		return
	}

	chatID := message.Chat.ID
	userID := message.From.ID

	// Регистрация при первом контакте; ошибки нельзя игнорировать,
	// иначе потом будет "оно не работает"
	if err := b.memberService.EnsureMember(ctx, userID,
		message.From.UserName, message.From.FirstName,
	); err != nil {
		log.WithError(err).WithField("user_id", userID).Warn("EnsureMember failed")
	}

	cmd, args, isCommand := b.parser.ParseCommand(message.Text)
	if !isCommand {
		return
	}
	log.WithFields(log.Fields{
		"cmd":  cmd,
		"args": args,
	}).Debug("parsed command")

	// В непривязанном групповом чате работает только !привязать
	if !message.Chat.IsPrivate() && !b.chatFilter.IsLinkedGroupChat(ctx, chatID) && cmd != "привязать" {
		return
	}

	b.routeCommand(ctx, chatID, userID, cmd, args)
}

// today возвращает текущую дату в часовом поясе бота.
// Ledger-операции принимают дату явным параметром.
func (b *Bot) today() time.Time {
	return common.Today(b.cfg.Location())
}

// routeCommand маршрутизирует команду к нужному обработчику.
func (b *Bot) routeCommand(ctx context.Context, chatID, userID int64, cmd string, args []string) {
	switch cmd {
	case "start", "help", "помощь":
		b.sendHelp(chatID)

	// --- Админ ---
	case "login":
		b.handlers.Admin.HandleLogin(chatID, userID, args)
	case "logout":
		b.handlers.Admin.HandleLogout(chatID, userID)

	// --- Группы ---
	case "группа":
		b.handlers.Groups.HandleGroup(ctx, chatID, userID, args)
	case "привязать":
		if chatID == userID {
			b.sendMessage(chatID, "❌ !привязать работает только в групповом чате")
			return
		}
		b.handlers.Groups.HandleLinkChat(ctx, chatID, userID)

	// --- Привычки ---
	case "привычки":
		b.handlers.Habits.HandleList(ctx, chatID, userID)
	case "привычка":
		b.handlers.Habits.HandleCreate(ctx, chatID, userID, args)
	case "готово":
		b.handlers.Habits.HandleMark(ctx, chatID, userID, args, b.today())
	case "отмена":
		b.handlers.Habits.HandleUnmark(ctx, chatID, userID, args, b.today())
	case "удалить":
		b.handlers.Habits.HandleDelete(ctx, chatID, userID, args)
	case "календарь":
		b.handlers.Habits.HandleCalendar(ctx, chatID, userID, args, b.today())

	// --- Стрики и медали ---
	case "стрик":
		b.handlers.Streaks.HandleStreak(ctx, chatID, userID, args)
	case "медали":
		b.handlers.Streaks.HandleMedals(ctx, chatID, userID)

	// --- Экономика ---
	case "баланс":
		b.handlers.Economy.HandleBalance(ctx, chatID, userID)
	case "обмен":
		b.handlers.Economy.HandleConvert(ctx, chatID, userID, args)
	case "история":
		b.handlers.Economy.HandleHistory(ctx, chatID, userID, b.cfg.Location())

	// --- Награды ---
	case "награды":
		b.handlers.Rewards.HandleShop(ctx, chatID, userID, args)
	case "награда":
		b.handlers.Rewards.HandleCreate(ctx, chatID, userID, args)
	case "купить":
		b.handlers.Rewards.HandleBuy(ctx, chatID, userID, args)
	case "снять":
		b.handlers.Rewards.HandleRemove(ctx, chatID, userID, args)

	// --- Ярмарка ---
	case "ярмарка":
		b.handlers.Mall.HandleMall(ctx, chatID, userID, args)
	case "товар":
		b.handlers.Mall.HandleBuyItem(ctx, chatID, userID, args)

	// --- Отчёты ---
	case "итоги":
		b.handlers.Reports.HandleLeaderboard(ctx, chatID, userID, args, b.today())
	case "статистика":
		b.handlers.Reports.HandleStats(ctx, chatID, userID, args, b.today())
	}
}

// sendHelp отправляет справку по командам.
func (b *Bot) sendHelp(chatID int64) {
	b.sendMessage(chatID, `🤖 Команды:
👥 !группа — группа и участники
📋 !привычки, !привычка <тип> <название>
✅ !готово <номер> [дата], !отмена <номер> [дата]
🗑 !удалить <номер>, 📅 !календарь [месяц]
🔥 !стрик <номер>, 🏅 !медали
💼 !баланс, 💱 !обмен <из> <в> <кол-во>, 📜 !история
🎁 !награды [@ник], !награда <цена> <тип> <название>
🛍 !купить <номер> [тип=кол-во ...], !снять <номер>
🛒 !ярмарка, !товар <номер>
🏆 !итоги [месяц], 📊 !статистика [месяц]
В групповом чате: !привязать — подключить объявления`)
}

// sendMessage — утилита для отправки сообщений.
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		log.WithError(err).WithField("chat_id", chatID).Error("Ошибка отправки сообщения")
	}
}

// SendMessageToUser отправляет сообщение пользователю (для напоминаний).
func (b *Bot) SendMessageToUser(userID int64, text string) {
	msg := tgbotapi.NewMessage(userID, text)
	if _, err := b.api.Send(msg); err != nil {
		log.WithError(err).WithField("user_id", userID).Debug("Не удалось отправить сообщение")
	}
}

// CommandParser парсит русские команды с префиксами !, . и /.
type CommandParser struct {
	validPrefixes []string
}

// NewCommandParser создаёт парсер команд.
func NewCommandParser() *CommandParser {
	return &CommandParser{
		validPrefixes: []string{"!", ".", "/"},
	}
}

// ParseCommand разбирает текст на команду и аргументы.
func (p *CommandParser) ParseCommand(text string) (string, []string, bool) {
	text = strings.TrimSpace(text)

	hasPrefix := false
	for _, prefix := range p.validPrefixes {
		if strings.HasPrefix(text, prefix) {
			text = strings.TrimPrefix(text, prefix)
			hasPrefix = true
			break
		}
	}

	if !hasPrefix {
		return "", nil, false
	}

	text = strings.TrimSpace(text)
	parts := strings.Fields(text)

	if len(parts) == 0 {
		return "", nil, false
	}

	command := strings.ToLower(parts[0])
	// Telegram дописывает @botname к командам в группах
	if i := strings.Index(command, "@"); i > 0 {
		command = command[:i]
	}

	var args []string
	if len(parts) > 1 {
		args = parts[1:]
	}

	return command, args, true
}
