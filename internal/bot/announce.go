package bot

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"privychka.ru/rewards-bot/internal/features/groups"
)

// Announcer доставляет объявления (вехи, медали, групповые достижения,
// месячные итоги) в привязанный чат группы. Доставка ненадёжная:
// нет привязанного чата — объявление молча пропускается, ошибка
// отправки логируется и не всплывает. Ledger к этому моменту
// уже зафиксирован.
type Announcer struct {
	api          *tgbotapi.BotAPI
	groupService *groups.Service
}

// NewAnnouncer создаёт новый Announcer.
func NewAnnouncer(api *tgbotapi.BotAPI, groupService *groups.Service) *Announcer {
	return &Announcer{api: api, groupService: groupService}
}

// AnnounceToGroup отправляет текст в чат группы, если он привязан.
func (a *Announcer) AnnounceToGroup(ctx context.Context, groupID int64, text string) {
	group, err := a.groupService.Get(ctx, groupID)
	if err != nil {
		log.WithError(err).WithField("group_id", groupID).Warn("Объявление: группа не найдена")
		return
	}
	if group.GroupChatID == nil {
		log.WithField("group_id", groupID).Debug("Объявление пропущено: чат не привязан")
		return
	}
	msg := tgbotapi.NewMessage(*group.GroupChatID, text)
	if _, err := a.api.Send(msg); err != nil {
		log.WithError(err).WithFields(log.Fields{
			"group_id": groupID,
			"chat_id":  *group.GroupChatID,
		}).Error("Ошибка отправки объявления")
	}
}
