// Package habits — handlers.go обрабатывает команды:
// !привычки, !привычка (создать), !готово, !отмена, !удалить, !календарь.
package habits

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
)

// Announcer доставляет объявления в чат группы. Реализуется пакетом bot.
// Доставка ненадёжная: привязанного чата может не быть, отправка может
// не удаться. Ledger-операция к этому моменту уже зафиксирована.
type Announcer interface {
	AnnounceToGroup(ctx context.Context, groupID int64, text string)
}

// Handler обрабатывает команды привычек.
type Handler struct {
	service    *Service
	announcer  Announcer
	groupBonus float64 // размер бонуса за групповое достижение (для текста)
	bot        *tgbotapi.BotAPI
}

// NewHandler создаёт новый обработчик команд привычек.
func NewHandler(service *Service, announcer Announcer, groupBonus float64, bot *tgbotapi.BotAPI) *Handler {
	return &Handler{service: service, announcer: announcer, groupBonus: groupBonus, bot: bot}
}

// HandleList обрабатывает команду !привычки — список привычек группы.
func (h *Handler) HandleList(ctx context.Context, chatID, userID int64) {
	list, err := h.service.List(ctx, userID)
	if err != nil {
		switch err {
		case common.ErrNoGroup:
			h.sendMessage(chatID, "❌ Сначала вступи в группу: !группа")
		case common.ErrUserNotFound:
			h.sendMessage(chatID, "❌ Сначала напиши боту /start")
		default:
			log.WithError(err).Error("Ошибка получения привычек")
			h.sendMessage(chatID, "❌ Ошибка получения привычек")
		}
		return
	}
	if len(list) == 0 {
		h.sendMessage(chatID, "📋 Привычек пока нет. Создай: !привычка <тип> <название>")
		return
	}

	var sb strings.Builder
	sb.WriteString("📋 Привычки группы:\n")
	for _, habit := range list {
		fmt.Fprintf(&sb, "%d. %s %s\n", habit.ID, habit.PointType.Emoji(), habit.Name)
	}
	sb.WriteString("\nОтметить: !готово <номер>")
	h.sendMessage(chatID, sb.String())
}

// HandleCreate обрабатывает команду !привычка <тип> <название>.
//
// Пример: !привычка физические Утренняя зарядка
func (h *Handler) HandleCreate(ctx context.Context, chatID, userID int64, args []string) {
	if len(args) < 2 {
		h.sendMessage(chatID, "❌ Формат: !привычка <тип> <название>\nТипы: физические, творческие, кулинарные, учебные, прочие")
		return
	}
	pt, ok := parseTypeArg(args[0])
	if !ok {
		h.sendMessage(chatID, fmt.Sprintf("❌ Неизвестный тип «%s»", args[0]))
		return
	}
	name := strings.Join(args[1:], " ")

	id, err := h.service.Create(ctx, userID, name, pt)
	if err != nil {
		switch err {
		case common.ErrNoGroup:
			h.sendMessage(chatID, "❌ Сначала вступи в группу: !группа")
		default:
			log.WithError(err).Error("Ошибка создания привычки")
			h.sendMessage(chatID, "❌ Не удалось создать привычку")
		}
		return
	}
	h.sendMessage(chatID, fmt.Sprintf("✅ Привычка «%s» создана (номер %d, %s %s)",
		name, id, pt.Emoji(), pt.Label()))
}

// HandleMark обрабатывает команду !готово <номер> [дата].
// Дата YYYY-MM-DD опциональна, по умолчанию «сегодня» в поясе бота.
func (h *Handler) HandleMark(ctx context.Context, chatID, userID int64, args []string, today time.Time) {
	habitID, date, ok := h.parseIDAndDate(chatID, args, today)
	if !ok {
		return
	}

	res, err := h.service.Mark(ctx, userID, habitID, date)
	if err != nil {
		h.replyError(chatID, err)
		return
	}
	if !res.Marked {
		h.sendMessage(chatID, "🔁 Уже отмечено за эту дату")
		return
	}

	var sb strings.Builder
	if res.PointAwarded {
		fmt.Fprintf(&sb, "✅ Отмечено! +1 %s очко\n", res.PointType.Emoji())
	} else {
		fmt.Fprintf(&sb, "✅ Отмечено! +%s 🏅\n", common.FormatCoins(res.CoinsAwarded))
	}
	fmt.Fprintf(&sb, "🔥 Стрик: %d %s (рекорд %d)", res.CurrentStreak,
		common.PluralizeDays(res.CurrentStreak), res.BestStreak)
	h.sendMessage(chatID, sb.String())

	h.announce(ctx, userID, habitID, res)
}

// announce рассылает объявления о вехах, медалях и групповом достижении.
func (h *Handler) announce(ctx context.Context, userID, habitID int64, res *MarkResult) {
	if res.NewMilestone == 0 && !res.MedalAwarded && !res.GroupPerfected {
		return
	}
	habit, err := h.service.Get(ctx, habitID)
	if err != nil {
		log.WithError(err).Debug("Объявление пропущено: привычка не прочиталась")
		return
	}
	if res.NewMilestone > 0 {
		h.announcer.AnnounceToGroup(ctx, habit.GroupID, fmt.Sprintf(
			"🔥 Стрик %d %s по привычке «%s»!",
			res.NewMilestone, common.PluralizeDays(res.NewMilestone), habit.Name))
	}
	if res.MedalAwarded {
		h.announcer.AnnounceToGroup(ctx, habit.GroupID, fmt.Sprintf(
			"🏅 Медаль за 30 дней привычки «%s»! Теперь отметки приносят монеты", habit.Name))
		if res.RateImproved {
			h.announcer.AnnounceToGroup(ctx, habit.GroupID,
				"💱 Третья медаль: курс обмена очков улучшен до 1.5:1")
		}
	}
	if res.GroupPerfected {
		h.announcer.AnnounceToGroup(ctx, habit.GroupID, fmt.Sprintf(
			"🎉 Групповое достижение! «%s» закрыта КАЖДЫЙ день месяца %s. Всем по %s!",
			habit.Name, res.Month, common.FormatCoins(h.groupBonus)))
	}
}

// HandleUnmark обрабатывает команду !отмена <номер> [дата].
func (h *Handler) HandleUnmark(ctx context.Context, chatID, userID int64, args []string, today time.Time) {
	habitID, date, ok := h.parseIDAndDate(chatID, args, today)
	if !ok {
		return
	}

	res, err := h.service.Unmark(ctx, userID, habitID, date)
	if err != nil {
		h.replyError(chatID, err)
		return
	}
	if !res.Removed {
		h.sendMessage(chatID, "🤷 Отметки за эту дату не было")
		return
	}
	if res.PointReversed {
		h.sendMessage(chatID, fmt.Sprintf("↩️ Отметка снята, −1 %s очко", res.PointType.Emoji()))
	} else {
		h.sendMessage(chatID, fmt.Sprintf("↩️ Отметка снята, −%s", common.FormatCoins(res.CoinsReversed)))
	}
}

// HandleDelete обрабатывает команду !удалить <номер>.
// Удаление необратимо и снимает очки за все отметки у всех участников.
func (h *Handler) HandleDelete(ctx context.Context, chatID, userID int64, args []string) {
	if len(args) != 1 {
		h.sendMessage(chatID, "❌ Формат: !удалить <номер привычки>")
		return
	}
	habitID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		h.sendMessage(chatID, "❌ Номер привычки должен быть числом")
		return
	}

	res, err := h.service.Delete(ctx, habitID)
	if err != nil {
		h.replyError(chatID, err)
		return
	}
	h.sendMessage(chatID, fmt.Sprintf(
		"🗑 Привычка «%s» удалена. Очки за отметки сняты у %d участников, медали остались",
		res.HabitName, len(res.Reversed)))
}

// HandleCalendar обрабатывает команду !календарь [YYYY-MM] —
// отметки пользователя за месяц.
func (h *Handler) HandleCalendar(ctx context.Context, chatID, userID int64, args []string, today time.Time) {
	month := common.MonthKey(today)
	if len(args) > 0 {
		month = args[0]
	}
	list, err := h.service.CompletionsForMonth(ctx, userID, month)
	if err != nil {
		h.sendMessage(chatID, "❌ Формат месяца: YYYY-MM, например 2026-08")
		return
	}
	if len(list) == 0 {
		h.sendMessage(chatID, fmt.Sprintf("📅 В %s отметок нет", month))
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "📅 Отметки за %s:\n", month)
	for _, c := range list {
		fmt.Fprintf(&sb, "• %s — %s\n", c.CompletedOn.Format(common.DateLayout), c.HabitName)
	}
	h.sendMessage(chatID, sb.String())
}

// parseIDAndDate разбирает аргументы <номер> [дата] команд отметки.
func (h *Handler) parseIDAndDate(chatID int64, args []string, today time.Time) (int64, time.Time, bool) {
	if len(args) == 0 {
		h.sendMessage(chatID, "❌ Укажи номер привычки (см. !привычки)")
		return 0, time.Time{}, false
	}
	habitID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		h.sendMessage(chatID, "❌ Номер привычки должен быть числом")
		return 0, time.Time{}, false
	}
	date := today
	if len(args) > 1 {
		date, err = common.ParseDate(args[1])
		if err != nil {
			h.sendMessage(chatID, "❌ Формат даты: YYYY-MM-DD")
			return 0, time.Time{}, false
		}
	}
	return habitID, date, true
}

// replyError превращает ошибки сервиса в ответ пользователю.
func (h *Handler) replyError(chatID int64, err error) {
	switch err {
	case common.ErrHabitNotFound:
		h.sendMessage(chatID, "❌ Привычка не найдена")
	case common.ErrNoGroup:
		h.sendMessage(chatID, "❌ Эта привычка не из твоей группы")
	case common.ErrUserNotFound:
		h.sendMessage(chatID, "❌ Сначала напиши боту /start")
	default:
		log.WithError(err).Error("Ошибка операции с привычкой")
		h.sendMessage(chatID, "❌ Что-то пошло не так, попробуй ещё раз")
	}
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

// sendMessage — утилита для отправки сообщений.
func (h *Handler) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.bot.Send(msg); err != nil {
		log.WithError(err).WithField("chat_id", chatID).Error("Ошибка отправки сообщения")
	}
}
