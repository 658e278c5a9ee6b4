// Package streaks — handlers.go обрабатывает команды:
// !стрик (текущий стрик по привычке), !медали (коллекция медалей).
package streaks

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"privychka.ru/rewards-bot/internal/common"
)

// Handler обрабатывает команды стриков и медалей.
type Handler struct {
	service *Service
	bot     *tgbotapi.BotAPI
}

// NewHandler создаёт новый обработчик команд стриков.
func NewHandler(service *Service, bot *tgbotapi.BotAPI) *Handler {
	return &Handler{service: service, bot: bot}
}

// HandleStreak обрабатывает команду !стрик <номер привычки>.
//
// Формат ответа:
//
//	🔥 Стрик: 12 дней (рекорд 20)
func (h *Handler) HandleStreak(ctx context.Context, chatID, userID int64, args []string) {
	if len(args) != 1 {
		h.sendMessage(chatID, "❌ Формат: !стрик <номер привычки>")
		return
	}
	habitID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		h.sendMessage(chatID, "❌ Номер привычки должен быть числом")
		return
	}

	st, err := h.service.GetStreak(ctx, userID, habitID)
	if err != nil {
		log.WithError(err).Error("Ошибка чтения стрика")
		h.sendMessage(chatID, "❌ Ошибка получения стрика")
		return
	}
	if st.CurrentStreak == 0 && st.BestStreak == 0 {
		h.sendMessage(chatID, "🔥 Стрика по этой привычке пока нет")
		return
	}
	h.sendMessage(chatID, fmt.Sprintf("🔥 Стрик: %d %s (рекорд %d)",
		st.CurrentStreak, common.PluralizeDays(st.CurrentStreak), st.BestStreak))
}

// HandleMedals обрабатывает команду !медали — коллекция медалей.
// Медали вечные: остаются даже после удаления привычки, поэтому имя
// привычки печатается из самой медали.
func (h *Handler) HandleMedals(ctx context.Context, chatID, userID int64) {
	medals, err := h.service.Medals(ctx, userID)
	if err != nil {
		log.WithError(err).Error("Ошибка чтения медалей")
		h.sendMessage(chatID, "❌ Ошибка получения медалей")
		return
	}
	if len(medals) == 0 {
		h.sendMessage(chatID, "🏅 Медалей пока нет. Держи стрик 30 дней!")
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "🏅 Твои медали (%d):\n", len(medals))
	for _, m := range medals {
		fmt.Fprintf(&sb, "• «%s» — %s\n", m.HabitName, m.EarnedAt.Format(common.DateLayout))
	}
	if len(medals) >= 3 {
		sb.WriteString("\n💱 Курс обмена очков: 1.5:1")
	}
	h.sendMessage(chatID, sb.String())
}

// sendMessage — утилита для отправки сообщений.
func (h *Handler) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.bot.Send(msg); err != nil {
		log.WithError(err).WithField("chat_id", chatID).Error("Ошибка отправки сообщения")
	}
}
