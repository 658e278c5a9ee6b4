package points

import "testing"

func TestParse(t *testing.T) {
	for _, pt := range All {
		got, err := Parse(string(pt))
		if err != nil {
			t.Fatalf("Parse(%q): %v", pt, err)
		}
		if got != pt {
			t.Errorf("Parse(%q) = %q", pt, got)
		}
	}
}

func TestParseRejectsAny(t *testing.T) {
	// 'any' — тип награды, но не тип очков
	if _, err := Parse("any"); err == nil {
		t.Error("Parse(\"any\") должен вернуть ошибку")
	}
	if _, err := Parse("unknown"); err == nil {
		t.Error("Parse(\"unknown\") должен вернуть ошибку")
	}
}

func TestColumn(t *testing.T) {
	if got := Physical.Column(); got != "points_physical" {
		t.Errorf("Column() = %q", got)
	}
	if got := FoodRelated.Column(); got != "points_food_related" {
		t.Errorf("Column() = %q", got)
	}
}

func TestAllOrder(t *testing.T) {
	// Порядок приоритета жадного разбора оплаты менять нельзя
	want := []PointType{Physical, Arts, FoodRelated, Educational, Other}
	if len(All) != len(want) {
		t.Fatalf("len(All) = %d", len(All))
	}
	for i, pt := range want {
		if All[i] != pt {
			t.Errorf("All[%d] = %q, ожидается %q", i, All[i], pt)
		}
	}
}

func TestParseRewardType(t *testing.T) {
	rt, err := ParseRewardType("any")
	if err != nil || !rt.Any {
		t.Fatalf("ParseRewardType(\"any\") = %v, %v", rt, err)
	}
	rt, err = ParseRewardType("arts")
	if err != nil || rt.Any || rt.Fixed != Arts {
		t.Fatalf("ParseRewardType(\"arts\") = %v, %v", rt, err)
	}
	if rt.String() != "arts" {
		t.Errorf("String() = %q", rt.String())
	}
	if AnyReward.String() != "any" {
		t.Errorf("AnyReward.String() = %q", AnyReward.String())
	}
}

func TestBalancesTotal(t *testing.T) {
	b := Balances{Physical: 3, Arts: 2, Other: 1}
	if b.Total() != 6 {
		t.Errorf("Total() = %d", b.Total())
	}
}
