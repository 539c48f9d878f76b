package nutrition

import (
	"fmt"
	"math"

	"github.com/iwvelando/macro-planner/pkg/constants"
	"github.com/iwvelando/macro-planner/pkg/mathutil"
)

// largeMealNames names the first large meals; later ones use "Large Meal N".
var largeMealNames = []string{"Breakfast", "Lunch", "Dinner", "Meal 4", "Meal 5"}

// MacroShares are the macro percentages of a meal's calories.
type MacroShares struct {
	Protein float64 `json:"protein" yaml:"protein"`
	Carbs   float64 `json:"carbs" yaml:"carbs"`
	Fat     float64 `json:"fat" yaml:"fat"`
}

// Sum returns the total of the three shares.
func (m MacroShares) Sum() float64 {
	return m.Protein + m.Carbs + m.Fat
}

// SplitOptions configures how a daily budget is spread over meals.
type SplitOptions struct {
	LargeCount    int         `json:"largeCount" yaml:"largeCount"`
	SmallCount    int         `json:"smallCount" yaml:"smallCount"`
	LargeSharePct float64     `json:"largeShare" yaml:"largeShare"`
	SmallSharePct float64     `json:"smallShare" yaml:"smallShare"`
	MacroShares   MacroShares `json:"macroShares" yaml:"macroShares"`
}

// DefaultSplitOptions returns three large meals and two snacks at 70/30 with a
// 30/40/30 macro split.
func DefaultSplitOptions() SplitOptions {
	return SplitOptions{
		LargeCount:    constants.DefaultLargeMealCount,
		SmallCount:    constants.DefaultSmallMealCount,
		LargeSharePct: constants.DefaultLargeSharePct,
		SmallSharePct: constants.DefaultSmallSharePct,
		MacroShares: MacroShares{
			Protein: constants.DefaultProteinSharePct,
			Carbs:   constants.DefaultCarbsSharePct,
			Fat:     constants.DefaultFatSharePct,
		},
	}
}

// Validate checks the options without computing anything.
func (o SplitOptions) Validate() error {
	if o.LargeCount < 0 || o.SmallCount < 0 {
		return fmt.Errorf("%w: large=%d small=%d", ErrInvalidMealCount, o.LargeCount, o.SmallCount)
	}
	if !sumsToHundred(o.LargeSharePct + o.SmallSharePct) {
		return fmt.Errorf("%w: meal classes sum to %g", ErrInvalidShareSum, o.LargeSharePct+o.SmallSharePct)
	}
	if !sumsToHundred(o.MacroShares.Sum()) {
		return fmt.Errorf("%w: macros sum to %g", ErrInvalidShareSum, o.MacroShares.Sum())
	}
	if o.LargeCount == 0 && o.LargeSharePct != 0 {
		return fmt.Errorf("%w: large share %g%%", ErrDivisionByZero, o.LargeSharePct)
	}
	if o.SmallCount == 0 && o.SmallSharePct != 0 {
		return fmt.Errorf("%w: small share %g%%", ErrDivisionByZero, o.SmallSharePct)
	}
	return nil
}

func sumsToHundred(v float64) bool {
	return math.Abs(v-100) <= constants.ShareSumTolerance
}

// Split spreads the budget across meals. It returns a fresh sequence on every
// call; edits made to an earlier sequence are not carried over.
func Split(budget MacroTarget, opts SplitOptions) (Sequence, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	seq := make(Sequence, 0, opts.LargeCount+opts.SmallCount)
	seq = appendClass(seq, budget, Large, opts.LargeCount, opts.LargeSharePct, opts.MacroShares)
	seq = appendClass(seq, budget, Small, opts.SmallCount, opts.SmallSharePct, opts.MacroShares)
	return seq, nil
}

func appendClass(seq Sequence, budget MacroTarget, class MealClass, count int, sharePct float64, macros MacroShares) Sequence {
	if count == 0 {
		return seq
	}
	allotment := mathutil.ApplyPercentage(float64(budget.TotalCalories), sharePct) / float64(count)

	for i := 0; i < count; i++ {
		seq = append(seq, MealTarget{
			ID:       fmt.Sprintf("%s-%d", class, i),
			Class:    class,
			Name:     mealName(class, i),
			Calories: mathutil.RoundHalfUp(allotment),
			Protein:  mathutil.RoundHalfUp(mathutil.ApplyPercentage(allotment, macros.Protein) / constants.ProteinKcalPerGram),
			Carbs:    mathutil.RoundHalfUp(mathutil.ApplyPercentage(allotment, macros.Carbs) / constants.CarbsKcalPerGram),
			Fat:      mathutil.RoundHalfUp(mathutil.ApplyPercentage(allotment, macros.Fat) / constants.FatKcalPerGram),
		})
	}
	return seq
}

func mealName(class MealClass, i int) string {
	if class == Small {
		return fmt.Sprintf("Snack %d", i+1)
	}
	if i < len(largeMealNames) {
		return largeMealNames[i]
	}
	return fmt.Sprintf("Large Meal %d", i+1)
}
