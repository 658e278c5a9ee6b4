// Package common — errors.go определяет пользовательские ошибки,
// которые используются во всех модулях бота.
// Эти ошибки позволяют обработчикам различать типы проблем
// и отправлять пользователю понятные сообщения.
package common

import "errors"

// Ошибки «не найдено»
var (
	// ErrUserNotFound — пользователь не найден в базе
	ErrUserNotFound = errors.New("пользователь не найден")
	// ErrGroupNotFound — группа не найдена
	ErrGroupNotFound = errors.New("группа не найдена")
	// ErrHabitNotFound — привычка не найдена
	ErrHabitNotFound = errors.New("привычка не найдена")
	// ErrRewardNotFound — награда не найдена или удалена
	ErrRewardNotFound = errors.New("награда не найдена")
	// ErrItemNotFound — товар ярмарки не найден
	ErrItemNotFound = errors.New("товар не найден")
)

// Ошибки ledger-операций
var (
	// ErrInsufficientFunds — не хватает очков или монет
	ErrInsufficientFunds = errors.New("недостаточно средств на счёте")
	// ErrInvalidAllocation — разбивка оплаты не сходится с ценой
	// или превышает баланс одного из типов
	ErrInvalidAllocation = errors.New("некорректная разбивка оплаты")
	// ErrInvalidConversion — недопустимая конвертация очков
	ErrInvalidConversion = errors.New("недопустимая конвертация очков")
	// ErrInvalidAmount — некорректная сумма (ноль или отрицательная)
	ErrInvalidAmount = errors.New("сумма должна быть положительной")
	// ErrSelfPurchase — попытка купить собственную награду
	ErrSelfPurchase = errors.New("нельзя покупать собственную награду")
	// ErrOutOfStock — товар ярмарки закончился
	ErrOutOfStock = errors.New("товар закончился")
	// ErrNoGroup — пользователь не состоит в группе
	ErrNoGroup = errors.New("сначала вступите в группу")
)

// Ошибки админки
var (
	// ErrNotAdmin — пользователь не является администратором
	ErrNotAdmin = errors.New("у вас нет прав администратора")
	// ErrWrongPassword — неверный пароль
	ErrWrongPassword = errors.New("неверный пароль")
	// ErrSessionExpired — сессия истекла
	ErrSessionExpired = errors.New("сессия истекла, авторизуйтесь заново")
)
