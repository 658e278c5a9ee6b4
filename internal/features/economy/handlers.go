// Package economy — handlers.go обрабатывает команды:
// !баланс (кошелёк), !обмен (конвертация очков), !история (транзакции).
package economy

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"privychka.ru/rewards-bot/internal/common"
	"privychka.ru/rewards-bot/internal/features/points"
	"privychka.ru/rewards-bot/internal/features/streaks"
)

// Handler обрабатывает команды экономики.
type Handler struct {
	service       *Service
	streakService *streaks.Service // Для показа числа медалей в кошельке
	bot           *tgbotapi.BotAPI
}

// NewHandler создаёт новый обработчик экономических команд.
func NewHandler(service *Service, streakService *streaks.Service, bot *tgbotapi.BotAPI) *Handler {
	return &Handler{service: service, streakService: streakService, bot: bot}
}

// HandleBalance обрабатывает команду !баланс — показывает кошелёк.
//
// Формат ответа:
//
//	💼 Твой кошелёк:
//	💪 физические: 12
//	...
//	🪙 Монеты: 3.5
//	🏅 Медали: 2 (курс обмена 2:1)
func (h *Handler) HandleBalance(ctx context.Context, chatID, userID int64) {
	wallet, err := h.service.GetWallet(ctx, userID)
	if err != nil {
		log.WithError(err).Error("Ошибка получения кошелька")
		h.sendMessage(chatID, "❌ Ошибка получения баланса")
		return
	}
	medals, err := h.streakService.MedalCount(ctx, userID)
	if err != nil {
		log.WithError(err).Error("Ошибка подсчёта медалей")
		medals = 0
	}
	rate, err := h.service.RateFor(ctx, userID)
	if err != nil {
		rate = BaseRate
	}

	var sb strings.Builder
	sb.WriteString("💼 Твой кошелёк:\n")
	for _, t := range points.All {
		fmt.Fprintf(&sb, "%s %s: %d\n", t.Emoji(), t.Label(), wallet.Points[t])
	}
	fmt.Fprintf(&sb, "🪙 Монеты: %s\n", common.FormatCoins(wallet.Coins))
	fmt.Fprintf(&sb, "🏅 Медали: %d (курс обмена %s)", medals, formatRate(rate))
	h.sendMessage(chatID, sb.String())
}

// HandleConvert обрабатывает команду !обмен <из> <в> <количество>.
// Типы задаются русским названием или английским ключом.
//
// Пример: !обмен физические учебные 4
func (h *Handler) HandleConvert(ctx context.Context, chatID, userID int64, args []string) {
	if len(args) != 3 {
		h.sendMessage(chatID, "❌ Формат: !обмен <из> <в> <количество>\nТипы: физические, творческие, кулинарные, учебные, прочие")
		return
	}
	from, ok := parseTypeArg(args[0])
	if !ok {
		h.sendMessage(chatID, fmt.Sprintf("❌ Неизвестный тип «%s»", args[0]))
		return
	}
	to, ok := parseTypeArg(args[1])
	if !ok {
		h.sendMessage(chatID, fmt.Sprintf("❌ Неизвестный тип «%s»", args[1]))
		return
	}
	amount, err := strconv.ParseInt(args[2], 10, 64)
	if err != nil || amount <= 0 {
		h.sendMessage(chatID, "❌ Количество должно быть положительным числом")
		return
	}

	credited, err := h.service.Convert(ctx, userID, from, to, amount)
	if err != nil {
		switch err {
		case common.ErrInvalidConversion:
			rate, rerr := h.service.RateFor(ctx, userID)
			if rerr != nil {
				rate = BaseRate
			}
			h.sendMessage(chatID, fmt.Sprintf(
				"❌ Обмен невозможен: разные типы, количество кратно %d и не больше баланса (твой курс %s)",
				Granularity(rate), formatRate(rate)))
		case common.ErrUserNotFound:
			h.sendMessage(chatID, "❌ Сначала напиши боту /start")
		default:
			log.WithError(err).Error("Ошибка конвертации")
			h.sendMessage(chatID, "❌ Ошибка обмена")
		}
		return
	}

	h.sendMessage(chatID, fmt.Sprintf("✅ Обменяно: −%s %s → +%s %s",
		common.FormatPoints(amount), from.Label(), common.FormatPoints(credited), to.Label()))
}

// HandleHistory обрабатывает команду !история — последние транзакции.
func (h *Handler) HandleHistory(ctx context.Context, chatID, userID int64, loc *time.Location) {
	history, err := h.service.History(ctx, userID, 10)
	if err != nil {
		log.WithError(err).Error("Ошибка получения истории")
		h.sendMessage(chatID, "❌ Ошибка получения истории")
		return
	}
	if len(history) == 0 {
		h.sendMessage(chatID, "📜 История пуста")
		return
	}

	h.sendMessage(chatID, formatHistory(history, loc))
}

// formatHistory печатает журнал операций с датами в часовом поясе бота.
func formatHistory(history []*Transaction, loc *time.Location) string {
	var sb strings.Builder
	sb.WriteString("📜 Последние операции:\n")
	for _, t := range history {
		fmt.Fprintf(&sb, "• %s — %s\n", common.FormatDateTime(t.CreatedAt, loc), t.Description)
	}
	return sb.String()
}

// parseTypeArg разбирает тип очков из русского названия или ключа.
func parseTypeArg(s string) (points.PointType, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, t := range points.All {
		if s == string(t) || s == t.Label() {
			return t, true
		}
	}
	return "", false
}

// formatRate печатает курс в виде "2:1" или "1.5:1".
func formatRate(rate float64) string {
	if rate == float64(int64(rate)) {
		return fmt.Sprintf("%d:1", int64(rate))
	}
	return fmt.Sprintf("%.1f:1", rate)
}

// sendMessage — утилита для отправки сообщений.
func (h *Handler) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.bot.Send(msg); err != nil {
		log.WithError(err).WithField("chat_id", chatID).Error("Ошибка отправки сообщения")
	}
}
