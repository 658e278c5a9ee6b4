// Package admin — handlers.go обрабатывает команды /login и /logout.
// Работают только в личке: пароль в групповом чате — это утечка.
package admin

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"privychka.ru/rewards-bot/internal/common"
)

// Handler обрабатывает административные команды.
type Handler struct {
	service *Service
	bot     *tgbotapi.BotAPI
}

// NewHandler создаёт новый обработчик административных команд.
func NewHandler(service *Service, bot *tgbotapi.BotAPI) *Handler {
	return &Handler{service: service, bot: bot}
}

// HandleLogin обрабатывает команду /login <пароль>.
func (h *Handler) HandleLogin(chatID, userID int64, args []string) {
	if chatID != userID {
		h.sendMessage(chatID, "🔒 Вход только в личке бота")
		return
	}
	if len(args) != 1 {
		h.sendMessage(chatID, "❌ Формат: /login <пароль>")
		return
	}
	if err := h.service.Login(userID, args[0]); err != nil {
		switch err {
		case common.ErrWrongPassword:
			h.sendMessage(chatID, "❌ Неверный пароль")
		default:
			log.WithError(err).Error("Ошибка входа администратора")
			h.sendMessage(chatID, "❌ Ошибка входа")
		}
		return
	}
	h.sendMessage(chatID, "✅ Админская сессия открыта. Управление ярмаркой: !ярмарка")
}

// HandleLogout обрабатывает команду /logout.
func (h *Handler) HandleLogout(chatID, userID int64) {
	h.service.Logout(userID)
	h.sendMessage(chatID, "✅ Сессия закрыта")
}

// sendMessage — утилита для отправки сообщений.
func (h *Handler) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.bot.Send(msg); err != nil {
		log.WithError(err).WithField("chat_id", chatID).Error("Ошибка отправки сообщения")
	}
}
