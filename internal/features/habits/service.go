package habits

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"privychka.ru/rewards-bot/internal/common"
	"privychka.ru/rewards-bot/internal/features/members"
	"privychka.ru/rewards-bot/internal/features/points"
)

// Service содержит бизнес-логику работы с привычками.
type Service struct {
	repo    *Repository
	members *members.Service
	log     *logrus.Logger
}

// NewService создаёт новый сервис привычек.
func NewService(repo *Repository, membersSvc *members.Service, log *logrus.Logger) *Service {
	return &Service{repo: repo, members: membersSvc, log: log}
}

// Create добавляет привычку в группу пользователя.
func (s *Service) Create(ctx context.Context, userID int64, name string, pt points.PointType) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, fmt.Errorf("пустое имя привычки")
	}
	member, err := s.members.Get(ctx, userID)
	if err != nil {
		return 0, err
	}
	if !member.InGroup() {
		return 0, common.ErrNoGroup
	}
	id, err := s.repo.Create(ctx, *member.GroupID, name, pt)
	if err != nil {
		return 0, err
	}
	s.log.WithFields(logrus.Fields{
		"user_id":  userID,
		"group_id": *member.GroupID,
		"habit_id": id,
		"type":     pt,
	}).Infof("Создана привычка «%s»", name)
	return id, nil
}

// Get возвращает привычку по ID.
func (s *Service) Get(ctx context.Context, habitID int64) (*Habit, error) {
	return s.repo.GetByID(ctx, habitID)
}

// List возвращает привычки группы пользователя.
func (s *Service) List(ctx context.Context, userID int64) ([]*Habit, error) {
	member, err := s.members.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !member.InGroup() {
		return nil, common.ErrNoGroup
	}
	return s.repo.GetGroupHabits(ctx, *member.GroupID)
}

// Update переименовывает привычку и/или меняет тип её очков.
func (s *Service) Update(ctx context.Context, habitID int64, name string, pt points.PointType) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("пустое имя привычки")
	}
	if err := s.repo.Update(ctx, habitID, name, pt); err != nil {
		return err
	}
	s.log.WithField("habit_id", habitID).Infof("Привычка обновлена: «%s» (%s)", name, pt)
	return nil
}

// Mark отмечает выполнение привычки за дату date.
// Пользователь должен состоять в группе привычки.
func (s *Service) Mark(ctx context.Context, userID, habitID int64, date time.Time) (*MarkResult, error) {
	if err := s.checkMembership(ctx, userID, habitID); err != nil {
		return nil, err
	}
	res, err := s.repo.MarkComplete(ctx, userID, habitID, date)
	if err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"user_id":  userID,
			"habit_id": habitID,
		}).Error("Не удалось отметить привычку")
		return nil, err
	}
	if res.Marked {
		s.log.WithFields(logrus.Fields{
			"user_id":   userID,
			"habit_id":  habitID,
			"date":      date.Format(common.DateLayout),
			"streak":    res.CurrentStreak,
			"milestone": res.NewMilestone,
			"medal":     res.MedalAwarded,
			"perfected": res.GroupPerfected,
		}).Info("Привычка отмечена")
	}
	return res, nil
}

// Unmark снимает отметку выполнения за дату date.
func (s *Service) Unmark(ctx context.Context, userID, habitID int64, date time.Time) (*UnmarkResult, error) {
	if err := s.checkMembership(ctx, userID, habitID); err != nil {
		return nil, err
	}
	res, err := s.repo.UnmarkComplete(ctx, userID, habitID, date)
	if err != nil {
		return nil, err
	}
	if res.Removed {
		s.log.WithFields(logrus.Fields{
			"user_id":  userID,
			"habit_id": habitID,
			"date":     date.Format(common.DateLayout),
		}).Info("Отметка привычки снята")
	}
	return res, nil
}

// Delete удаляет привычку со всей историей и компенсацией очков.
func (s *Service) Delete(ctx context.Context, habitID int64) (*DeleteResult, error) {
	res, err := s.repo.Delete(ctx, habitID)
	if err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{
		"habit_id":       habitID,
		"users_affected": len(res.Reversed),
	}).Infof("Удалена привычка «%s»", res.HabitName)
	return res, nil
}

// CompletionsForMonth возвращает отметки пользователя за месяц.
func (s *Service) CompletionsForMonth(ctx context.Context, userID int64, month string) ([]*Completion, error) {
	return s.repo.GetUserCompletionsForMonth(ctx, userID, month)
}

// checkMembership убеждается, что пользователь состоит в группе привычки.
func (s *Service) checkMembership(ctx context.Context, userID, habitID int64) error {
	habit, err := s.repo.GetByID(ctx, habitID)
	if err != nil {
		return err
	}
	member, err := s.members.Get(ctx, userID)
	if err != nil {
		return err
	}
	if !member.InGroup() || *member.GroupID != habit.GroupID {
		return common.ErrNoGroup
	}
	return nil
}
