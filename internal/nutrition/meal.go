package nutrition

import (
	"fmt"
	"strings"

	"github.com/iwvelando/macro-planner/pkg/constants"
)

// MealClass groups meals for redistribution.
type MealClass string

const (
	Large MealClass = "large"
	Small MealClass = "small"
)

// Macro names one macronutrient dimension of a meal.
type Macro string

const (
	Protein Macro = "protein"
	Carbs   Macro = "carbs"
	Fat     Macro = "fat"
)

// ParseMacro converts a user-supplied string into a Macro.
func ParseMacro(s string) (Macro, error) {
	switch Macro(strings.ToLower(strings.TrimSpace(s))) {
	case Protein:
		return Protein, nil
	case Carbs, "carbohydrates":
		return Carbs, nil
	case Fat:
		return Fat, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMacro, s)
}

// MealTarget is the calorie and macro target for one meal.
type MealTarget struct {
	ID       string    `json:"id" yaml:"id"`
	Class    MealClass `json:"class" yaml:"class"`
	Name     string    `json:"name" yaml:"name"`
	Calories int       `json:"calories" yaml:"calories"`
	Protein  int       `json:"protein" yaml:"protein"`
	Carbs    int       `json:"carbs" yaml:"carbs"`
	Fat      int       `json:"fat" yaml:"fat"`
}

// grams returns a pointer to the gram field for the macro.
func (m *MealTarget) grams(macro Macro) *int {
	switch macro {
	case Protein:
		return &m.Protein
	case Carbs:
		return &m.Carbs
	case Fat:
		return &m.Fat
	}
	return nil
}

// Grams returns the meal's grams for the macro.
func (m MealTarget) Grams(macro Macro) (int, error) {
	p := m.grams(macro)
	if p == nil {
		return 0, fmt.Errorf("%w: %q", ErrUnknownMacro, macro)
	}
	return *p, nil
}

// setCalories sets the calories and re-derives the macros at the default split.
func (m *MealTarget) setCalories(calories int) {
	m.Calories = calories
	m.Protein, m.Carbs, m.Fat = defaultMacroGrams(float64(calories))
}

// deriveCalories recomputes calories from the three macro gram values.
func (m *MealTarget) deriveCalories() {
	m.Calories = int(float64(m.Protein)*constants.ProteinKcalPerGram +
		float64(m.Carbs)*constants.CarbsKcalPerGram +
		float64(m.Fat)*constants.FatKcalPerGram)
}

// Totals sums calories and macros across meals.
type Totals struct {
	Calories int `json:"calories" yaml:"calories"`
	Protein  int `json:"protein" yaml:"protein"`
	Carbs    int `json:"carbs" yaml:"carbs"`
	Fat      int `json:"fat" yaml:"fat"`
}

// Sequence is the ordered set of meal targets for a session, large meals first.
type Sequence []MealTarget

// Clone returns an independent copy of the sequence.
func (s Sequence) Clone() Sequence {
	if s == nil {
		return nil
	}
	out := make(Sequence, len(s))
	copy(out, s)
	return out
}

// Index returns the position of the meal with the given id, or -1.
func (s Sequence) Index(id string) int {
	for i := range s {
		if s[i].ID == id {
			return i
		}
	}
	return -1
}

// Find returns the meal with the given id.
func (s Sequence) Find(id string) (MealTarget, error) {
	i := s.Index(id)
	if i < 0 {
		return MealTarget{}, fmt.Errorf("%w: %s", ErrMealNotFound, id)
	}
	return s[i], nil
}

// Class returns the meals of one class in sequence order.
func (s Sequence) Class(class MealClass) Sequence {
	var out Sequence
	for _, m := range s {
		if m.Class == class {
			out = append(out, m)
		}
	}
	return out
}

// Totals sums every meal in the sequence.
func (s Sequence) Totals() Totals {
	var t Totals
	for _, m := range s {
		t.Calories += m.Calories
		t.Protein += m.Protein
		t.Carbs += m.Carbs
		t.Fat += m.Fat
	}
	return t
}

// siblings returns the indices of the other meals sharing the class of s[i].
func (s Sequence) siblings(i int) []int {
	var out []int
	for j := range s {
		if j != i && s[j].Class == s[i].Class {
			out = append(out, j)
		}
	}
	return out
}
