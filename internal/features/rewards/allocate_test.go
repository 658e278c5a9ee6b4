package rewards

import (
	"errors"
	"testing"

	"privychka.ru/rewards-bot/internal/common"
	"privychka.ru/rewards-bot/internal/features/points"
)

func TestValidateAllocationExactSum(t *testing.T) {
	available := points.Balances{points.Physical: 25, points.Arts: 15}

	ok := points.Balances{points.Physical: 20, points.Arts: 10}
	if err := ValidateAllocation(ok, 30, available); err != nil {
		t.Fatalf("корректная разбивка отклонена: %v", err)
	}

	under := points.Balances{points.Physical: 19, points.Arts: 10}
	if err := ValidateAllocation(under, 30, available); !errors.Is(err, common.ErrInvalidAllocation) {
		t.Errorf("сумма 29 при цене 30: err = %v, ожидался ErrInvalidAllocation", err)
	}

	over := points.Balances{points.Physical: 21, points.Arts: 10}
	if err := ValidateAllocation(over, 30, available); !errors.Is(err, common.ErrInvalidAllocation) {
		t.Errorf("сумма 31 при цене 30: err = %v, ожидался ErrInvalidAllocation", err)
	}
}

func TestValidateAllocationExceedsBalance(t *testing.T) {
	// Сумма ровно равна цене, но physical превышает баланс своего типа:
	// это некорректная разбивка, а не общая нехватка средств
	available := points.Balances{points.Physical: 5, points.Arts: 100}
	alloc := points.Balances{points.Physical: 6, points.Arts: 24}
	if err := ValidateAllocation(alloc, 30, available); !errors.Is(err, common.ErrInvalidAllocation) {
		t.Errorf("превышение баланса типа: err = %v, ожидался ErrInvalidAllocation", err)
	}
}

func TestValidateAllocationNegativeAndUnknownType(t *testing.T) {
	available := points.Balances{points.Physical: 100}
	neg := points.Balances{points.Physical: 35, points.Arts: -5}
	if err := ValidateAllocation(neg, 30, available); !errors.Is(err, common.ErrInvalidAllocation) {
		t.Errorf("отрицательная часть: err = %v, ожидался ErrInvalidAllocation", err)
	}
	bad := points.Balances{points.PointType("gold"): 30}
	if err := ValidateAllocation(bad, 30, available); !errors.Is(err, common.ErrInvalidAllocation) {
		t.Errorf("неизвестный тип: err = %v, ожидался ErrInvalidAllocation", err)
	}
}

func TestAutoDecomposeGreedyOrder(t *testing.T) {
	available := points.Balances{
		points.Physical:    4,
		points.Arts:        3,
		points.FoodRelated: 10,
		points.Educational: 50,
	}
	alloc, err := AutoDecompose(10, available)
	if err != nil {
		t.Fatalf("AutoDecompose: %v", err)
	}
	want := points.Balances{points.Physical: 4, points.Arts: 3, points.FoodRelated: 3}
	for _, pt := range points.All {
		if alloc[pt] != want[pt] {
			t.Errorf("alloc[%s] = %d, ожидалось %d", pt, alloc[pt], want[pt])
		}
	}
	if alloc.Total() != 10 {
		t.Errorf("сумма разбивки = %d, ожидалось 10", alloc.Total())
	}
}

func TestAutoDecomposeInsufficientTotal(t *testing.T) {
	available := points.Balances{points.Physical: 3, points.Other: 4}
	if _, err := AutoDecompose(8, available); !errors.Is(err, common.ErrInsufficientFunds) {
		t.Errorf("суммарно 7 < 8: err = %v, ожидался ErrInsufficientFunds", err)
	}
}

func TestAutoDecomposeSingleType(t *testing.T) {
	available := points.Balances{points.Other: 15}
	alloc, err := AutoDecompose(10, available)
	if err != nil {
		t.Fatalf("AutoDecompose: %v", err)
	}
	if alloc[points.Other] != 10 || len(alloc) != 1 {
		t.Errorf("alloc = %v, ожидалось {other: 10}", alloc)
	}
}

func TestPlanPurchaseFixedType(t *testing.T) {
	r := &Reward{Price: 12, Type: points.FixedReward(points.Educational)}

	alloc, err := PlanPurchase(r, nil, points.Balances{points.Educational: 12})
	if err != nil {
		t.Fatalf("ровно хватает: %v", err)
	}
	if alloc[points.Educational] != 12 {
		t.Errorf("alloc = %v, ожидалось {educational: 12}", alloc)
	}

	// Очков другого типа много, но фиксированный тип платится только собой
	_, err = PlanPurchase(r, nil, points.Balances{points.Educational: 11, points.Physical: 100})
	if !errors.Is(err, common.ErrInsufficientFunds) {
		t.Errorf("нехватка фиксированного типа: err = %v, ожидался ErrInsufficientFunds", err)
	}
}

func TestPlanPurchaseAnyWithAllocation(t *testing.T) {
	r := &Reward{Price: 30, Type: points.AnyReward}
	available := points.Balances{points.Physical: 20, points.Arts: 10}

	alloc, err := PlanPurchase(r, points.Balances{points.Physical: 20, points.Arts: 10}, available)
	if err != nil {
		t.Fatalf("явная разбивка: %v", err)
	}
	if alloc.Total() != 30 {
		t.Errorf("сумма = %d, ожидалось 30", alloc.Total())
	}

	_, err = PlanPurchase(r, points.Balances{points.Physical: 20, points.Arts: 9}, available)
	if !errors.Is(err, common.ErrInvalidAllocation) {
		t.Errorf("неточная сумма: err = %v, ожидался ErrInvalidAllocation", err)
	}
}

func TestPlanPurchaseAnyAutoFallback(t *testing.T) {
	r := &Reward{Price: 5, Type: points.AnyReward}
	alloc, err := PlanPurchase(r, nil, points.Balances{points.Arts: 2, points.Other: 4})
	if err != nil {
		t.Fatalf("авторазбор: %v", err)
	}
	if alloc[points.Arts] != 2 || alloc[points.Other] != 3 {
		t.Errorf("alloc = %v, ожидалось {arts: 2, other: 3}", alloc)
	}
}
