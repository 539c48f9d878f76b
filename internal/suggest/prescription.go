// Package suggest turns meal targets into food prescriptions.
package suggest

import (
	"errors"
	"fmt"

	"github.com/iwvelando/macro-planner/internal/nutrition"
	"github.com/iwvelando/macro-planner/pkg/constants"
	"github.com/iwvelando/macro-planner/pkg/mathutil"
)

// ErrFoodNotFound is returned when a food id is not part of a prescription.
var ErrFoodNotFound = errors.New("food not found")

// Nutrients are per-100-unit values of a catalog food.
type Nutrients struct {
	Calories float64 `json:"calories" yaml:"calories"`
	Protein  float64 `json:"protein" yaml:"protein"`
	Carbs    float64 `json:"carbs" yaml:"carbs"`
	Fat      float64 `json:"fat" yaml:"fat"`
}

// CatalogFood is a food a provider can prescribe.
type CatalogFood struct {
	Name   string    `json:"name" yaml:"name"`
	Unit   string    `json:"unit" yaml:"unit"`
	Per100 Nutrients `json:"per100" yaml:"per100"`
}

// Food is one prescribed portion.
type Food struct {
	ID       string    `json:"id" yaml:"id"`
	Name     string    `json:"name" yaml:"name"`
	Quantity int       `json:"quantity" yaml:"quantity"`
	Unit     string    `json:"unit" yaml:"unit"`
	Calories int       `json:"calories" yaml:"calories"`
	Protein  int       `json:"protein" yaml:"protein"`
	Carbs    int       `json:"carbs" yaml:"carbs"`
	Fat      int       `json:"fat" yaml:"fat"`
	Per100   Nutrients `json:"per100" yaml:"per100"`
}

// MealPrescription is the food list proposed for one meal target.
type MealPrescription struct {
	MealID   string           `json:"mealId" yaml:"mealId"`
	MealName string           `json:"mealName" yaml:"mealName"`
	Target   int              `json:"targetCalories" yaml:"targetCalories"`
	Foods    []Food           `json:"foods" yaml:"foods"`
	Totals   nutrition.Totals `json:"totals" yaml:"totals"`
	OnTarget bool             `json:"onTarget" yaml:"onTarget"`
}

// portion sizes food at qty units.
func portion(id string, food CatalogFood, qty int) Food {
	f := Food{ID: id, Name: food.Name, Unit: food.Unit, Per100: food.Per100}
	f.scale(qty)
	return f
}

func (f *Food) scale(qty int) {
	q := float64(qty) / 100
	f.Quantity = qty
	f.Calories = mathutil.RoundHalfUp(f.Per100.Calories * q)
	f.Protein = mathutil.RoundHalfUp(f.Per100.Protein * q)
	f.Carbs = mathutil.RoundHalfUp(f.Per100.Carbs * q)
	f.Fat = mathutil.RoundHalfUp(f.Per100.Fat * q)
}

// recompute refreshes totals and the on-target flag from the food list.
func (p *MealPrescription) recompute() {
	var t nutrition.Totals
	for _, f := range p.Foods {
		t.Calories += f.Calories
		t.Protein += f.Protein
		t.Carbs += f.Carbs
		t.Fat += f.Fat
	}
	p.Totals = t
	limit := mathutil.ApplyPercentage(float64(p.Target), constants.MealTolerancePct)
	p.OnTarget = mathutil.WithinTolerance(float64(t.Calories), float64(p.Target), limit)
}

// ChangeQuantity returns a copy of p with one food rescaled to qty units.
func ChangeQuantity(p MealPrescription, foodID string, qty int) (MealPrescription, error) {
	if qty < 0 {
		return MealPrescription{}, fmt.Errorf("%w: quantity %d", nutrition.ErrNegativeValue, qty)
	}
	out := p
	out.Foods = append([]Food(nil), p.Foods...)
	for i := range out.Foods {
		if out.Foods[i].ID == foodID {
			out.Foods[i].scale(qty)
			out.recompute()
			return out, nil
		}
	}
	return MealPrescription{}, fmt.Errorf("%w: %s", ErrFoodNotFound, foodID)
}
