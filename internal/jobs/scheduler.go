// Package jobs управляет фоновыми задачами (cron).
// scheduler.go настраивает расписание: вечерние напоминания о стриках
// и месячные итоги первым числом.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"privychka.ru/rewards-bot/internal/common"
	"privychka.ru/rewards-bot/internal/features/groups"
	"privychka.ru/rewards-bot/internal/features/reports"
	"privychka.ru/rewards-bot/internal/features/streaks"
)

// GroupAnnouncer доставляет объявления в чат группы (пакет bot).
type GroupAnnouncer interface {
	AnnounceToGroup(ctx context.Context, groupID int64, text string)
}

// Scheduler управляет фоновыми задачами.
type Scheduler struct {
	cron           *cron.Cron
	loc            *time.Location
	streakService  *streaks.Service
	groupService   *groups.Service
	reportService  *reports.Service
	announcer      GroupAnnouncer
	sendFunc       func(userID int64, text string)
	reminderStreak int // минимальный стрик для напоминания
}

// NewScheduler создаёт планировщик задач в часовом поясе бота.
func NewScheduler(
	loc *time.Location,
	streakService *streaks.Service,
	groupService *groups.Service,
	reportService *reports.Service,
	announcer GroupAnnouncer,
	sendFunc func(userID int64, text string),
	reminderStreak int,
) *Scheduler {
	return &Scheduler{
		cron:           cron.New(cron.WithLocation(loc)),
		loc:            loc,
		streakService:  streakService,
		groupService:   groupService,
		reportService:  reportService,
		announcer:      announcer,
		sendFunc:       sendFunc,
		reminderStreak: reminderStreak,
	}
}

// Start запускает все фоновые задачи.
func (s *Scheduler) Start(ctx context.Context) {
	// Вечернее напоминание в 20:00: стрик длинный, отметки за сегодня нет
	s.cron.AddFunc("0 20 * * *", func() {
		log.Info("[CRON] Напоминания о стриках")
		if err := s.sendStreakReminders(ctx); err != nil {
			log.WithError(err).Error("[CRON] Ошибка напоминаний")
		}
	})

	// Месячные итоги первым числом в 10:00
	s.cron.AddFunc("0 10 1 * *", func() {
		log.Info("[CRON] Месячные итоги")
		if err := s.announceMonthlyLeaderboards(ctx); err != nil {
			log.WithError(err).Error("[CRON] Ошибка месячных итогов")
		}
	})

	s.cron.Start()
	log.WithField("tz", s.loc.String()).Info("Планировщик задач запущен")
}

// Stop останавливает планировщик и дожидается текущих задач.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Info("Планировщик задач остановлен")
}

// sendStreakReminders шлёт личные напоминания тем, кто рискует
// потерять длинный стрик.
func (s *Scheduler) sendStreakReminders(ctx context.Context) error {
	today := common.Today(s.loc)
	candidates, err := s.streakService.ReminderCandidates(ctx, s.reminderStreak, today)
	if err != nil {
		return err
	}
	for _, c := range candidates {
		s.sendFunc(c.UserID, fmt.Sprintf(
			"⏰ Сегодня ещё нет отметки «%s», стрик %d %s сгорит в полночь!",
			c.HabitName, c.CurrentStreak, common.PluralizeDays(c.CurrentStreak)))
	}
	log.WithField("count", len(candidates)).Info("[CRON] Напоминания отправлены")
	return nil
}

// announceMonthlyLeaderboards объявляет итоги прошедшего месяца
// в каждой группе с привязанным чатом.
func (s *Scheduler) announceMonthlyLeaderboards(ctx context.Context) error {
	prevMonth := common.MonthKey(common.Today(s.loc).AddDate(0, -1, 0))
	linked, err := s.groupService.ListLinked(ctx)
	if err != nil {
		return err
	}
	for _, g := range linked {
		rows, err := s.reportService.GroupLeaderboard(ctx, g.ID, prevMonth)
		if err != nil {
			log.WithError(err).WithField("group_id", g.ID).Error("[CRON] Итоги группы не построились")
			continue
		}
		s.announcer.AnnounceToGroup(ctx, g.ID, reports.FormatLeaderboard(prevMonth, rows))
	}
	return nil
}
