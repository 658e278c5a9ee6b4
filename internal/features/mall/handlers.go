// Package mall — handlers.go обрабатывает команды:
// !ярмарка (витрина и управление), !товар (покупка).
package mall

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"privychka.ru/rewards-bot/internal/common"
	"privychka.ru/rewards-bot/internal/features/members"
)

// Handler обрабатывает команды ярмарки.
type Handler struct {
	service       *Service
	memberService *members.Service
	bot           *tgbotapi.BotAPI
}

// NewHandler создаёт новый обработчик команд ярмарки.
func NewHandler(service *Service, memberService *members.Service, bot *tgbotapi.BotAPI) *Handler {
	return &Handler{service: service, memberService: memberService, bot: bot}
}

// HandleMall обрабатывает команду !ярмарка и её админские подкоманды.
//
// Форматы:
//
//	!ярмарка                                  — витрина
//	!ярмарка добавить <цена> <остаток> <название>  — (админ)
//	!ярмарка изменить <номер> <цена> <остаток>     — (админ)
//	!ярмарка убрать <номер>                        — (админ)
//
// Остаток -1 означает товар без ограничения.
func (h *Handler) HandleMall(ctx context.Context, chatID, userID int64, args []string) {
	if len(args) == 0 {
		h.showItems(ctx, chatID)
		return
	}

	switch strings.ToLower(args[0]) {
	case "добавить":
		h.addItem(ctx, chatID, userID, args[1:])
	case "изменить":
		h.updateItem(ctx, chatID, userID, args[1:])
	case "убрать":
		h.removeItem(ctx, chatID, userID, args[1:])
	default:
		h.sendMessage(chatID, "❌ Подкоманды: добавить, изменить, убрать (только для админа)")
	}
}

// showItems печатает витрину ярмарки.
func (h *Handler) showItems(ctx context.Context, chatID int64) {
	items, err := h.service.Items(ctx)
	if err != nil {
		log.WithError(err).Error("Ошибка получения товаров")
		h.sendMessage(chatID, "❌ Ошибка получения товаров")
		return
	}
	if len(items) == 0 {
		h.sendMessage(chatID, "🛒 Ярмарка пуста")
		return
	}

	var sb strings.Builder
	sb.WriteString("🛒 Ярмарка (оплата монетами):\n")
	for _, it := range items {
		fmt.Fprintf(&sb, "%d. «%s» — %s", it.ID, it.Name, common.FormatCoins(it.Price))
		if it.Stock != UnlimitedStock {
			fmt.Fprintf(&sb, " (осталось %d)", it.Stock)
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\nКупить: !товар <номер>")
	h.sendMessage(chatID, sb.String())
}

// HandleBuyItem обрабатывает команду !товар <номер> — покупку за монеты.
func (h *Handler) HandleBuyItem(ctx context.Context, chatID, userID int64, args []string) {
	if len(args) != 1 {
		h.sendMessage(chatID, "❌ Формат: !товар <номер>")
		return
	}
	itemID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		h.sendMessage(chatID, "❌ Номер товара должен быть числом")
		return
	}

	it, err := h.service.Buy(ctx, userID, itemID)
	if err != nil {
		switch err {
		case common.ErrItemNotFound:
			h.sendMessage(chatID, "❌ Товар не найден")
		case common.ErrOutOfStock:
			h.sendMessage(chatID, "❌ Товар закончился")
		case common.ErrInsufficientFunds:
			h.sendMessage(chatID, "❌ Не хватает монет")
		default:
			log.WithError(err).Error("Ошибка покупки товара")
			h.sendMessage(chatID, "❌ Ошибка покупки")
		}
		return
	}

	h.sendMessage(chatID, fmt.Sprintf("✅ Куплено: «%s» за %s", it.Name, common.FormatCoins(it.Price)))
	h.notifySponsor(ctx, userID, it)
}

// notifySponsor шлёт спонсору товара уведомление о покупке.
// Ошибки отправки только логируются: покупка уже состоялась.
func (h *Handler) notifySponsor(ctx context.Context, buyerID int64, it *Item) {
	if it.SponsorID == nil {
		return
	}
	buyer, err := h.memberService.Get(ctx, buyerID)
	name := "кто-то"
	if err == nil {
		name = buyer.DisplayName()
	}
	msg := tgbotapi.NewMessage(*it.SponsorID,
		fmt.Sprintf("🔔 %s купил «%s» на ярмарке — твой выход!", name, it.Name))
	if _, err := h.bot.Send(msg); err != nil {
		log.WithError(err).WithField("sponsor_id", *it.SponsorID).Debug("Спонсор не уведомлён")
	}
}

// addItem — админская подкоманда добавления товара.
// Следующий шаг — приём фото товара вместе с командой, пока только текст.
func (h *Handler) addItem(ctx context.Context, chatID, userID int64, args []string) {
	if len(args) < 3 {
		h.sendMessage(chatID, "❌ Формат: !ярмарка добавить <цена> <остаток> <название>")
		return
	}
	price, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		h.sendMessage(chatID, "❌ Цена должна быть числом")
		return
	}
	stock, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		h.sendMessage(chatID, "❌ Остаток должен быть числом (-1 = без ограничения)")
		return
	}
	name := strings.Join(args[2:], " ")

	id, err := h.service.AddItem(ctx, userID, name, price, stock, "", nil)
	if err != nil {
		h.replyAdminError(chatID, err)
		return
	}
	h.sendMessage(chatID, fmt.Sprintf("✅ Товар «%s» добавлен (номер %d)", name, id))
}

// updateItem — админская подкоманда смены цены и остатка.
func (h *Handler) updateItem(ctx context.Context, chatID, userID int64, args []string) {
	if len(args) != 3 {
		h.sendMessage(chatID, "❌ Формат: !ярмарка изменить <номер> <цена> <остаток>")
		return
	}
	itemID, err1 := strconv.ParseInt(args[0], 10, 64)
	price, err2 := strconv.ParseFloat(args[1], 64)
	stock, err3 := strconv.ParseInt(args[2], 10, 64)
	if err1 != nil || err2 != nil || err3 != nil {
		h.sendMessage(chatID, "❌ Номер, цена и остаток должны быть числами")
		return
	}
	if err := h.service.UpdateItem(ctx, userID, itemID, price, stock); err != nil {
		h.replyAdminError(chatID, err)
		return
	}
	h.sendMessage(chatID, "✅ Товар обновлён")
}

// removeItem — админская подкоманда снятия товара с витрины.
func (h *Handler) removeItem(ctx context.Context, chatID, userID int64, args []string) {
	if len(args) != 1 {
		h.sendMessage(chatID, "❌ Формат: !ярмарка убрать <номер>")
		return
	}
	itemID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		h.sendMessage(chatID, "❌ Номер товара должен быть числом")
		return
	}
	if err := h.service.RemoveItem(ctx, userID, itemID); err != nil {
		h.replyAdminError(chatID, err)
		return
	}
	h.sendMessage(chatID, "✅ Товар убран с витрины")
}

// replyAdminError переводит ошибки админских операций в ответ.
func (h *Handler) replyAdminError(chatID int64, err error) {
	switch err {
	case common.ErrNotAdmin:
		h.sendMessage(chatID, "🔒 Нужна админская сессия: /login <пароль> в личке")
	case common.ErrSessionExpired:
		h.sendMessage(chatID, "🔒 Сессия истекла, войди заново: /login <пароль>")
	case common.ErrItemNotFound:
		h.sendMessage(chatID, "❌ Товар не найден")
	case common.ErrInvalidAmount:
		h.sendMessage(chatID, "❌ Некорректные цена или название")
	default:
		log.WithError(err).Error("Ошибка управления ярмаркой")
		h.sendMessage(chatID, "❌ Операция не удалась")
	}
}

// sendMessage — утилита для отправки сообщений.
func (h *Handler) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.bot.Send(msg); err != nil {
		log.WithError(err).WithField("chat_id", chatID).Error("Ошибка отправки сообщения")
	}
}
