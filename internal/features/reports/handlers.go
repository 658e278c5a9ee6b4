// Package reports — handlers.go обрабатывает команды:
// !итоги (таблица лидеров месяца), !статистика (личная сводка).
package reports

import (
	"context"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"privychka.ru/rewards-bot/internal/common"
)

// Handler обрабатывает отчётные команды.
type Handler struct {
	service *Service
	bot     *tgbotapi.BotAPI
}

// NewHandler создаёт новый обработчик отчётов.
func NewHandler(service *Service, bot *tgbotapi.BotAPI) *Handler {
	return &Handler{service: service, bot: bot}
}

// HandleLeaderboard обрабатывает команду !итоги [YYYY-MM].
func (h *Handler) HandleLeaderboard(ctx context.Context, chatID, userID int64, args []string, today time.Time) {
	month := common.MonthKey(today)
	if len(args) > 0 {
		month = args[0]
	}

	rows, err := h.service.Leaderboard(ctx, userID, month)
	if err != nil {
		switch err {
		case common.ErrNoGroup:
			h.sendMessage(chatID, "❌ Сначала вступи в группу: !группа")
		case common.ErrUserNotFound:
			h.sendMessage(chatID, "❌ Сначала напиши боту /start")
		default:
			h.sendMessage(chatID, "❌ Формат месяца: YYYY-MM, например 2026-08")
		}
		return
	}

	h.sendMessage(chatID, FormatLeaderboard(month, rows))
}

// HandleStats обрабатывает команду !статистика [YYYY-MM].
func (h *Handler) HandleStats(ctx context.Context, chatID, userID int64, args []string, today time.Time) {
	month := common.MonthKey(today)
	if len(args) > 0 {
		month = args[0]
	}

	st, err := h.service.MyStats(ctx, userID, month)
	if err != nil {
		log.WithError(err).Error("Ошибка получения статистики")
		h.sendMessage(chatID, "❌ Формат месяца: YYYY-MM, например 2026-08")
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "📊 Статистика за %s:\n", month)
	fmt.Fprintf(&sb, "• Отметок: %d\n", st.Completions)
	fmt.Fprintf(&sb, "• Активных дней: %d из %d\n", st.ActiveDays, common.DaysInMonth(month))
	fmt.Fprintf(&sb, "• Привычек в работе: %d\n", st.HabitsMarked)
	fmt.Fprintf(&sb, "• Лучший текущий стрик: %d %s", st.BestStreak, common.PluralizeDays(st.BestStreak))
	h.sendMessage(chatID, sb.String())
}

// FormatLeaderboard печатает таблицу лидеров. Вынесено отдельно:
// тот же текст отправляет планировщик при месячном объявлении.
func FormatLeaderboard(month string, rows []*LeaderboardRow) string {
	if len(rows) == 0 {
		return fmt.Sprintf("🏆 За %s отметок не было", month)
	}
	medals := []string{"🥇", "🥈", "🥉"}
	var sb strings.Builder
	fmt.Fprintf(&sb, "🏆 Итоги %s:\n", month)
	for i, row := range rows {
		prefix := fmt.Sprintf("%d.", i+1)
		if i < len(medals) {
			prefix = medals[i]
		}
		fmt.Fprintf(&sb, "%s %s — %d отметок, %s на счету\n",
			prefix, row.DisplayName, row.Completions, common.FormatPoints(row.Points.Total()))
	}
	return sb.String()
}

// sendMessage — утилита для отправки сообщений.
func (h *Handler) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.bot.Send(msg); err != nil {
		log.WithError(err).WithField("chat_id", chatID).Error("Ошибка отправки сообщения")
	}
}
