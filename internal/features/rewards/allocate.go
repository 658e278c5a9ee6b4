package rewards

import (
	"privychka.ru/rewards-bot/internal/common"
	"privychka.ru/rewards-bot/internal/features/points"
)

// ValidateAllocation проверяет явную разбивку оплаты для награды типа
// «любые»: сумма по типам должна быть РОВНО равна цене, каждая часть
// неотрицательна и не превышает доступный баланс своего типа.
// Любое нарушение — некорректная разбивка (ErrInvalidAllocation);
// ErrInsufficientFunds оставлен за автоматическим разложением,
// где нехватка считается по суммарному балансу.
func ValidateAllocation(alloc points.Balances, price int64, available points.Balances) error {
	var sum int64
	for t, amount := range alloc {
		if !t.Valid() {
			return common.ErrInvalidAllocation
		}
		if amount < 0 {
			return common.ErrInvalidAllocation
		}
		if amount > available[t] {
			return common.ErrInvalidAllocation
		}
		sum += amount
	}
	if sum != price {
		return common.ErrInvalidAllocation
	}
	return nil
}

// AutoDecompose жадно раскладывает цену по типам очков в фиксированном
// порядке приоритета (физические, творческие, кулинарные, учебные,
// прочие): каждый тип отдаёт сколько может, пока цена не покрыта.
// Если суммарного баланса не хватает, возвращается ErrInsufficientFunds
// и ничего не списывается.
func AutoDecompose(price int64, available points.Balances) (points.Balances, error) {
	if available.Total() < price {
		return nil, common.ErrInsufficientFunds
	}
	alloc := make(points.Balances)
	remaining := price
	for _, t := range points.All {
		if remaining == 0 {
			break
		}
		take := available[t]
		if take > remaining {
			take = remaining
		}
		if take > 0 {
			alloc[t] = take
			remaining -= take
		}
	}
	return alloc, nil
}

// PlanPurchase строит итоговую разбивку оплаты для награды:
// фиксированный тип платится целиком одним типом, «любые» — либо по
// явной разбивке покупателя, либо авторазложением.
func PlanPurchase(r *Reward, alloc points.Balances, available points.Balances) (points.Balances, error) {
	if !r.Type.Any {
		if available[r.Type.Fixed] < r.Price {
			return nil, common.ErrInsufficientFunds
		}
		return points.Balances{r.Type.Fixed: r.Price}, nil
	}
	if alloc == nil {
		return AutoDecompose(r.Price, available)
	}
	if err := ValidateAllocation(alloc, r.Price, available); err != nil {
		return nil, err
	}
	return alloc, nil
}
