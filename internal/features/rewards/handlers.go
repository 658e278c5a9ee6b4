// Package rewards — handlers.go обрабатывает команды:
// !награды (витрина), !награда (выставить), !купить, !снять.
package rewards

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"privychka.ru/rewards-bot/internal/common"
	"privychka.ru/rewards-bot/internal/features/members"
	"privychka.ru/rewards-bot/internal/features/points"
)

// Handler обрабатывает команды магазина наград.
type Handler struct {
	service       *Service
	memberService *members.Service
	bot           *tgbotapi.BotAPI
}

// NewHandler создаёт новый обработчик команд наград.
func NewHandler(service *Service, memberService *members.Service, bot *tgbotapi.BotAPI) *Handler {
	return &Handler{service: service, memberService: memberService, bot: bot}
}

// HandleShop обрабатывает команду !награды [@username].
// Без аргумента показывает собственный магазин.
func (h *Handler) HandleShop(ctx context.Context, chatID, userID int64, args []string) {
	ownerID := userID
	title := "🎁 Твои награды"
	if len(args) > 0 {
		username := strings.TrimPrefix(args[0], "@")
		owner, err := h.memberService.GetByUsername(ctx, username)
		if err != nil {
			h.sendMessage(chatID, "❌ Пользователь не найден")
			return
		}
		ownerID = owner.TelegramID
		title = fmt.Sprintf("🎁 Награды %s", owner.DisplayName())
	}

	list, err := h.service.Shop(ctx, ownerID)
	if err != nil {
		log.WithError(err).Error("Ошибка получения наград")
		h.sendMessage(chatID, "❌ Ошибка получения наград")
		return
	}
	if len(list) == 0 {
		h.sendMessage(chatID, title+":\nпока пусто")
		return
	}

	var sb strings.Builder
	sb.WriteString(title + ":\n")
	for _, r := range list {
		fmt.Fprintf(&sb, "%d. %s «%s» — %s\n", r.ID, r.Type.Emoji(), r.Name, common.FormatPoints(r.Price))
	}
	sb.WriteString("\nКупить: !купить <номер>")
	h.sendMessage(chatID, sb.String())
}

// HandleCreate обрабатывает команду !награда <цена> <тип> <название>.
// Тип «любые» делает награду оплачиваемой любой комбинацией очков.
//
// Пример: !награда 30 любые Помыть посуду за тебя
func (h *Handler) HandleCreate(ctx context.Context, chatID, userID int64, args []string) {
	if len(args) < 3 {
		h.sendMessage(chatID, "❌ Формат: !награда <цена> <тип> <название>\nТипы: физические, творческие, кулинарные, учебные, прочие, любые")
		return
	}
	price, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || price <= 0 {
		h.sendMessage(chatID, "❌ Цена должна быть положительным числом")
		return
	}
	rt, ok := parseRewardTypeArg(args[1])
	if !ok {
		h.sendMessage(chatID, fmt.Sprintf("❌ Неизвестный тип «%s»", args[1]))
		return
	}
	name := strings.Join(args[2:], " ")

	id, err := h.service.Create(ctx, userID, name, price, rt)
	if err != nil {
		log.WithError(err).Error("Ошибка создания награды")
		h.sendMessage(chatID, "❌ Не удалось создать награду")
		return
	}
	h.sendMessage(chatID, fmt.Sprintf("✅ Награда «%s» выставлена (номер %d, %s за %s)",
		name, id, rt.Emoji(), common.FormatPoints(price)))
}

// HandleBuy обрабатывает команду !купить <номер> [тип=кол-во ...].
// Для наград «любые» без разбивки оплата раскладывается автоматически.
//
// Примеры:
//
//	!купить 3
//	!купить 3 физические=20 творческие=10
func (h *Handler) HandleBuy(ctx context.Context, chatID, userID int64, args []string) {
	if len(args) == 0 {
		h.sendMessage(chatID, "❌ Формат: !купить <номер> [тип=кол-во ...]")
		return
	}
	rewardID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		h.sendMessage(chatID, "❌ Номер награды должен быть числом")
		return
	}

	var alloc points.Balances
	if len(args) > 1 {
		alloc = make(points.Balances)
		for _, part := range args[1:] {
			kv := strings.SplitN(part, "=", 2)
			if len(kv) != 2 {
				h.sendMessage(chatID, "❌ Разбивка задаётся как тип=кол-во, например физические=20")
				return
			}
			pt, ok := parseTypeArg(kv[0])
			if !ok {
				h.sendMessage(chatID, fmt.Sprintf("❌ Неизвестный тип «%s»", kv[0]))
				return
			}
			amount, err := strconv.ParseInt(kv[1], 10, 64)
			if err != nil {
				h.sendMessage(chatID, "❌ Количество должно быть числом")
				return
			}
			alloc[pt] += amount
		}
	}

	res, err := h.service.Buy(ctx, userID, rewardID, alloc)
	if err != nil {
		switch err {
		case common.ErrRewardNotFound:
			h.sendMessage(chatID, "❌ Награда не найдена")
		case common.ErrSelfPurchase:
			h.sendMessage(chatID, "❌ Свою награду покупать нельзя")
		case common.ErrNoGroup:
			h.sendMessage(chatID, "❌ Награды покупаются только внутри своей группы")
		case common.ErrInsufficientFunds:
			h.sendMessage(chatID, "❌ Не хватает очков")
		case common.ErrInvalidAllocation:
			h.sendMessage(chatID, "❌ Разбивка должна сходиться ровно в цену награды")
		default:
			log.WithError(err).Error("Ошибка покупки награды")
			h.sendMessage(chatID, "❌ Ошибка покупки")
		}
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "✅ Куплено: «%s»\nСписано:\n", res.Reward.Name)
	for _, pt := range points.All {
		if res.Spent[pt] > 0 {
			fmt.Fprintf(&sb, "• %s %s: %d\n", pt.Emoji(), pt.Label(), res.Spent[pt])
		}
	}
	fmt.Fprintf(&sb, "Продавец получил %s", common.FormatCoins(res.CoinsPaid))
	h.sendMessage(chatID, sb.String())
}

// HandleRemove обрабатывает команду !снять <номер> — убирает свою
// награду с витрины.
func (h *Handler) HandleRemove(ctx context.Context, chatID, userID int64, args []string) {
	if len(args) != 1 {
		h.sendMessage(chatID, "❌ Формат: !снять <номер награды>")
		return
	}
	rewardID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		h.sendMessage(chatID, "❌ Номер награды должен быть числом")
		return
	}
	if err := h.service.Remove(ctx, rewardID, userID); err != nil {
		switch err {
		case common.ErrRewardNotFound:
			h.sendMessage(chatID, "❌ Награда не найдена или не твоя")
		default:
			log.WithError(err).Error("Ошибка снятия награды")
			h.sendMessage(chatID, "❌ Не удалось снять награду")
		}
		return
	}
	h.sendMessage(chatID, "✅ Награда снята с витрины")
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

// parseRewardTypeArg дополнительно понимает «любые»/any.
func parseRewardTypeArg(s string) (points.RewardType, bool) {
	low := strings.ToLower(strings.TrimSpace(s))
	if low == "any" || low == "любые" {
		return points.AnyReward, true
	}
	t, ok := parseTypeArg(s)
	if !ok {
		return points.RewardType{}, false
	}
	return points.FixedReward(t), true
}

// sendMessage — утилита для отправки сообщений.
func (h *Handler) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.bot.Send(msg); err != nil {
		log.WithError(err).WithField("chat_id", chatID).Error("Ошибка отправки сообщения")
	}
}
