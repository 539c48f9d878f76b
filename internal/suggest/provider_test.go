package suggest

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/iwvelando/macro-planner/internal/nutrition"
)

var riceOnly = []CatalogFood{
	{Name: "Rice", Unit: "g", Per100: Nutrients{Calories: 100, Protein: 2, Carbs: 20, Fat: 1}},
}

func testSequence() nutrition.Sequence {
	return nutrition.Sequence{
		{ID: "large-0", Class: nutrition.Large, Name: "Breakfast", Calories: 600, Protein: 45, Carbs: 60, Fat: 20},
		{ID: "small-0", Class: nutrition.Small, Name: "Snack 1", Calories: 40, Protein: 3, Carbs: 4, Fat: 1},
	}
}

func TestMockProviderSizing(t *testing.T) {
	p := newMockProvider(nil, 1, 3, riceOnly)
	got, err := p.Suggest(context.Background(), testSequence())
	if err != nil {
		t.Fatalf("Suggest() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 prescriptions, got %d", len(got))
	}

	breakfast := got[0]
	quantities := []int{200, 133, 89}
	if len(breakfast.Foods) != len(quantities) {
		t.Fatalf("expected %d foods, got %d", len(quantities), len(breakfast.Foods))
	}
	for i, qty := range quantities {
		if breakfast.Foods[i].Quantity != qty {
			t.Errorf("food %d quantity = %d, expected %d", i, breakfast.Foods[i].Quantity, qty)
		}
	}
	if breakfast.Foods[2].ID != "large-0-food-2" {
		t.Errorf("food id = %s, expected large-0-food-2", breakfast.Foods[2].ID)
	}
	expected := nutrition.Totals{Calories: 422, Protein: 9, Carbs: 85, Fat: 4}
	if breakfast.Totals != expected {
		t.Errorf("totals = %+v, expected %+v", breakfast.Totals, expected)
	}
	if breakfast.OnTarget {
		t.Error("422 of 600 kcal should be off target")
	}

	// 40 kcal is under the minimum remaining budget, so nothing is prescribed.
	snack := got[1]
	if len(snack.Foods) != 0 || snack.Totals.Calories != 0 {
		t.Errorf("expected empty snack prescription, got %+v", snack)
	}
}

func TestMockProviderDeterministic(t *testing.T) {
	seq := nutrition.Sequence{
		{ID: "large-0", Class: nutrition.Large, Name: "Breakfast", Calories: 467},
		{ID: "large-1", Class: nutrition.Large, Name: "Lunch", Calories: 467},
		{ID: "small-0", Class: nutrition.Small, Name: "Snack 1", Calories: 300},
	}
	first, err := NewMockProvider(nil, 42, 3).Suggest(context.Background(), seq)
	if err != nil {
		t.Fatalf("Suggest() error = %v", err)
	}
	second, err := NewMockProvider(nil, 42, 3).Suggest(context.Background(), seq)
	if err != nil {
		t.Fatalf("Suggest() error = %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("same seed produced different prescriptions")
	}

	for _, p := range first {
		if len(p.Foods) > 3 {
			t.Errorf("%s has %d foods, expected at most 3", p.MealID, len(p.Foods))
		}
		sum := 0
		for _, f := range p.Foods {
			if !strings.HasPrefix(f.ID, p.MealID+"-food-") {
				t.Errorf("food id %s does not belong to %s", f.ID, p.MealID)
			}
			sum += f.Calories
		}
		if sum != p.Totals.Calories {
			t.Errorf("%s totals %d do not match foods %d", p.MealID, p.Totals.Calories, sum)
		}
	}
}

func TestMockProviderMaxFoods(t *testing.T) {
	p := newMockProvider(nil, 1, 1, riceOnly)
	got, err := p.Suggest(context.Background(), testSequence())
	if err != nil {
		t.Fatalf("Suggest() error = %v", err)
	}
	if len(got[0].Foods) != 1 {
		t.Errorf("expected 1 food, got %d", len(got[0].Foods))
	}
}

func TestMockProviderCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewMockProvider(nil, 1, 3).Suggest(ctx, testSequence()); !errors.Is(err, context.Canceled) {
		t.Errorf("Suggest() error = %v, expected context.Canceled", err)
	}
}

func TestMockProviderEmptyCatalog(t *testing.T) {
	if _, err := newMockProvider(nil, 1, 3, nil).Suggest(context.Background(), testSequence()); err == nil {
		t.Error("expected error for empty catalog")
	}
}

func TestChangeQuantity(t *testing.T) {
	got, err := newMockProvider(nil, 1, 3, riceOnly).Suggest(context.Background(), testSequence())
	if err != nil {
		t.Fatalf("Suggest() error = %v", err)
	}
	original := got[0]

	updated, err := ChangeQuantity(original, "large-0-food-0", 330)
	if err != nil {
		t.Fatalf("ChangeQuantity() error = %v", err)
	}
	food := updated.Foods[0]
	if food.Quantity != 330 || food.Calories != 330 || food.Protein != 7 || food.Carbs != 66 || food.Fat != 3 {
		t.Errorf("unexpected rescaled food: %+v", food)
	}
	if updated.Totals.Calories != 552 {
		t.Errorf("totals calories = %d, expected 552", updated.Totals.Calories)
	}
	if !updated.OnTarget {
		t.Error("552 of 600 kcal is within 10% and should be on target")
	}
	if original.Foods[0].Quantity != 200 {
		t.Error("ChangeQuantity() modified the input prescription")
	}

	tests := []struct {
		name   string
		foodID string
		qty    int
		target error
	}{
		{"Unknown food", "large-0-food-9", 10, ErrFoodNotFound},
		{"Negative quantity", "large-0-food-0", -1, nutrition.ErrNegativeValue},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ChangeQuantity(original, tt.foodID, tt.qty); !errors.Is(err, tt.target) {
				t.Errorf("ChangeQuantity() error = %v, expected %v", err, tt.target)
			}
		})
	}
}
