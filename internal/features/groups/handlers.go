// Package groups — handlers.go обрабатывает команды:
// !группа (инфо), !группа создать, !группа войти, !привязать.
package groups

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"privychka.ru/rewards-bot/internal/common"
	"privychka.ru/rewards-bot/internal/features/members"
)

// Handler обрабатывает команды групп.
type Handler struct {
	service       *Service
	memberService *members.Service
	bot           *tgbotapi.BotAPI
}

// NewHandler создаёт новый обработчик команд групп.
func NewHandler(service *Service, memberService *members.Service, bot *tgbotapi.BotAPI) *Handler {
	return &Handler{service: service, memberService: memberService, bot: bot}
}

// HandleGroup обрабатывает команду !группа и её подкоманды.
//
// Форматы:
//
//	!группа                — показать свою группу и участников
//	!группа создать <имя>  — создать группу и войти в неё
//	!группа войти <имя>    — войти в существующую группу
func (h *Handler) HandleGroup(ctx context.Context, chatID, userID int64, args []string) {
	if len(args) == 0 {
		h.showGroup(ctx, chatID, userID)
		return
	}

	sub := strings.ToLower(args[0])
	name := strings.TrimSpace(strings.Join(args[1:], " "))

	switch sub {
	case "создать":
		if name == "" {
			h.sendMessage(chatID, "❌ Формат: !группа создать <имя>")
			return
		}
		groupID, err := h.service.Create(ctx, name)
		if err != nil {
			log.WithError(err).Error("Ошибка создания группы")
			h.sendMessage(chatID, "❌ Не удалось создать группу")
			return
		}
		if err := h.memberService.JoinGroup(ctx, userID, groupID); err != nil {
			log.WithError(err).Error("Ошибка входа в группу")
			h.sendMessage(chatID, "❌ Группа создана, но войти не удалось")
			return
		}
		h.sendMessage(chatID, fmt.Sprintf("✅ Группа «%s» создана, ты в ней", name))

	case "войти":
		if name == "" {
			h.sendMessage(chatID, "❌ Формат: !группа войти <имя>")
			return
		}
		group, err := h.service.GetByName(ctx, name)
		if err != nil {
			h.sendMessage(chatID, "❌ Группа не найдена")
			return
		}
		if err := h.memberService.JoinGroup(ctx, userID, group.ID); err != nil {
			log.WithError(err).Error("Ошибка входа в группу")
			h.sendMessage(chatID, "❌ Не удалось войти в группу")
			return
		}
		h.sendMessage(chatID, fmt.Sprintf("✅ Ты в группе «%s»", group.Name))

	default:
		h.sendMessage(chatID, "❌ Подкоманды: создать, войти")
	}
}

// showGroup показывает группу пользователя и список участников.
func (h *Handler) showGroup(ctx context.Context, chatID, userID int64) {
	member, err := h.memberService.Get(ctx, userID)
	if err != nil {
		h.sendMessage(chatID, "❌ Сначала напиши боту /start")
		return
	}
	if !member.InGroup() {
		h.sendMessage(chatID, "👥 Ты пока без группы. !группа создать <имя> или !группа войти <имя>")
		return
	}
	group, err := h.service.Get(ctx, *member.GroupID)
	if err != nil {
		log.WithError(err).Error("Ошибка чтения группы")
		h.sendMessage(chatID, "❌ Ошибка получения группы")
		return
	}
	people, err := h.memberService.GroupMembers(ctx, group.ID)
	if err != nil {
		log.WithError(err).Error("Ошибка получения участников")
		h.sendMessage(chatID, "❌ Ошибка получения участников")
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "👥 Группа «%s», участников: %d\n", group.Name, len(people))
	for _, m := range people {
		fmt.Fprintf(&sb, "• %s\n", m.DisplayName())
	}
	if group.GroupChatID == nil {
		sb.WriteString("\nЧат объявлений не привязан: напиши !привязать в групповом чате")
	}
	h.sendMessage(chatID, sb.String())
}

// HandleLinkChat обрабатывает команду !привязать в групповом чате:
// привязывает этот чат к группе отправителя для объявлений.
func (h *Handler) HandleLinkChat(ctx context.Context, chatID, userID int64) {
	member, err := h.memberService.Get(ctx, userID)
	if err != nil || !member.InGroup() {
		h.sendMessage(chatID, "❌ Сначала вступи в группу в личке бота")
		return
	}
	if err := h.service.LinkChat(ctx, *member.GroupID, chatID); err != nil {
		switch err {
		case common.ErrGroupNotFound:
			h.sendMessage(chatID, "❌ Группа не найдена")
		default:
			log.WithError(err).Error("Ошибка привязки чата")
			h.sendMessage(chatID, "❌ Не удалось привязать чат")
		}
		return
	}
	h.sendMessage(chatID, "📣 Этот чат привязан: сюда будут приходить объявления группы")
}

// sendMessage — утилита для отправки сообщений.
func (h *Handler) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.bot.Send(msg); err != nil {
		log.WithError(err).WithField("chat_id", chatID).Error("Ошибка отправки сообщения")
	}
}
