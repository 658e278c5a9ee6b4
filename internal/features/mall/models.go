// Package mall реализует общий магазин группы: товары за монеты,
// которыми управляет администратор. Остатки товара опциональны,
// спонсор товара (если указан) получает уведомление о покупке.
package mall

import "time"

// UnlimitedStock — значение stock для товара без ограничения остатка.
const UnlimitedStock = -1

// Item — товар в общем магазине.
type Item struct {
	ID          int64
	Name        string
	Price       float64
	Stock       int64  // UnlimitedStock = без ограничения
	PhotoFileID string // опциональный file_id изображения, хранится как есть
	SponsorID   *int64 // пользователь, исполняющий покупки этого товара
	IsActive    bool
}

// InStock сообщает, доступен ли товар к покупке.
func (i *Item) InStock() bool {
	return i.Stock == UnlimitedStock || i.Stock > 0
}

// Purchase — запись о покупке товара в общем магазине.
type Purchase struct {
	ID          int64
	ItemID      int64
	BuyerID     int64
	Price       float64
	PurchasedAt time.Time
}
