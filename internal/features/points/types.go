// Package points определяет закрытое перечисление типов очков.
// types.go — единственное место, где перечислены все пять типов
// и их соответствие колонкам БД, эмодзи и русским названиям.
package points

import "fmt"

// PointType — тип очков привычки. Ровно пять значений.
// Строковое представление совпадает со значением в колонке point_type.
type PointType string

const (
	Physical    PointType = "physical"     // 💪 физическая активность
	Arts        PointType = "arts"         // 🎨 творчество
	FoodRelated PointType = "food_related" // 🍳 кулинария
	Educational PointType = "educational"  // 📚 учёба
	Other       PointType = "other"        // ⭐ прочее
)

// All — все типы очков в фиксированном порядке приоритета.
// Этот порядок используется при жадном разборе оплаты «любыми» очками,
// поэтому менять его нельзя.
var All = []PointType{Physical, Arts, FoodRelated, Educational, Other}

// Parse разбирает строку в PointType.
// Возвращает ошибку для неизвестных типов и для 'any' —
// 'any' не является типом очков (см. RewardType).
func Parse(s string) (PointType, error) {
	switch PointType(s) {
	case Physical, Arts, FoodRelated, Educational, Other:
		return PointType(s), nil
	}
	return "", fmt.Errorf("неизвестный тип очков: %q", s)
}

// Valid сообщает, является ли значение одним из пяти известных типов.
func (t PointType) Valid() bool {
	switch t {
	case Physical, Arts, FoodRelated, Educational, Other:
		return true
	}
	return false
}

// Column возвращает имя колонки таблицы users для данного типа.
// Пример: Physical → "points_physical"
func (t PointType) Column() string {
	return "points_" + string(t)
}

// Emoji возвращает эмодзи типа для сообщений бота.
func (t PointType) Emoji() string {
	switch t {
	case Physical:
		return "💪"
	case Arts:
		return "🎨"
	case FoodRelated:
		return "🍳"
	case Educational:
		return "📚"
	case Other:
		return "⭐"
	}
	return "❔"
}

// Label возвращает русское название типа.
func (t PointType) Label() string {
	switch t {
	case Physical:
		return "физические"
	case Arts:
		return "творческие"
	case FoodRelated:
		return "кулинарные"
	case Educational:
		return "учебные"
	case Other:
		return "прочие"
	}
	return string(t)
}

// Balances — баланс очков пользователя по всем пяти типам.
type Balances map[PointType]int64

// Total возвращает суммарное количество очков всех типов.
func (b Balances) Total() int64 {
	var sum int64
	for _, t := range All {
		sum += b[t]
	}
	return sum
}

// RewardType — тип награды в магазине. Либо один из пяти PointType,
// либо маркер Any («любые очки»). Хранится отдельно от PointType,
// чтобы 'any' не мог попасть в привычки и балансы.
type RewardType struct {
	// Fixed — конкретный тип очков (имеет смысл только при !Any)
	Fixed PointType
	// Any — награда оплачивается любой комбинацией типов
	Any bool
}

// AnyReward — маркер награды «за любые очки».
var AnyReward = RewardType{Any: true}

// FixedReward создаёт тип награды с фиксированным типом очков.
func FixedReward(t PointType) RewardType {
	return RewardType{Fixed: t}
}

// ParseRewardType разбирает значение колонки point_type таблицы rewards.
func ParseRewardType(s string) (RewardType, error) {
	if s == "any" {
		return AnyReward, nil
	}
	t, err := Parse(s)
	if err != nil {
		return RewardType{}, err
	}
	return FixedReward(t), nil
}

// String возвращает строковое представление для БД: тип очков или "any".
func (rt RewardType) String() string {
	if rt.Any {
		return "any"
	}
	return string(rt.Fixed)
}

// Emoji возвращает эмодзи типа награды.
func (rt RewardType) Emoji() string {
	if rt.Any {
		return "🌟"
	}
	return rt.Fixed.Emoji()
}
