// Package filters решает, реагировать ли на сообщение вообще.
package filters

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"privychka.ru/rewards-bot/internal/features/groups"
)

// ChatFilter отсекает чаты, в которых бот не работает.
// Разрешены личка и групповые чаты; каналы и сервисные сообщения
// игнорируются. Привязку группового чата к группе проверяет
// маршрутизатор: команда !привязать должна работать и до привязки.
type ChatFilter struct {
	groupService *groups.Service
}

// NewChatFilter создаёт новый фильтр чатов.
func NewChatFilter(groupService *groups.Service) *ChatFilter {
	return &ChatFilter{groupService: groupService}
}

// CheckAccess возвращает true, если сообщение подлежит обработке.
func (f *ChatFilter) CheckAccess(ctx context.Context, message *tgbotapi.Message) bool {
	if message == nil || message.Chat == nil {
		log.WithField("component", "ChatFilter").Warn("nil message/chat")
		return false
	}
	if message.From == nil {
		// Сервисные сообщения и посты каналов
		log.WithFields(log.Fields{
			"component": "ChatFilter",
			"chat_id":   message.Chat.ID,
			"chat_type": message.Chat.Type,
		}).Debug("deny: сообщение без отправителя")
		return false
	}
	if message.From.IsBot {
		return false
	}

	if message.Chat.IsPrivate() {
		return true
	}
	if message.Chat.IsGroup() || message.Chat.IsSuperGroup() {
		return true
	}

	log.WithFields(log.Fields{
		"component": "ChatFilter",
		"chat_id":   message.Chat.ID,
		"chat_type": message.Chat.Type,
	}).Debug("deny: неподдерживаемый тип чата")
	return false
}

// IsLinkedGroupChat сообщает, привязан ли групповой чат к какой-нибудь
// группе. В непривязанных групповых чатах бот отвечает только
// на !привязать, чтобы не шуметь в чужих чатах.
func (f *ChatFilter) IsLinkedGroupChat(ctx context.Context, chatID int64) bool {
	_, err := f.groupService.GetByChatID(ctx, chatID)
	return err == nil
}
