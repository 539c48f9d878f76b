package nutrition

import (
	"fmt"

	"github.com/iwvelando/macro-planner/pkg/constants"
	"github.com/iwvelando/macro-planner/pkg/mathutil"
	"go.uber.org/zap"
)

// Policy names the rule used to push an edit's delta onto sibling meals.
type Policy string

const (
	// PolicyClampedEven gives every sibling round(delta/n) and clamps each
	// at the calorie floor. Rounding and clamping both lose calories; the
	// loss is reported as the adjustment's shortfall and not redistributed.
	PolicyClampedEven Policy = "clamped-even"

	// PolicyExactRemainder gives every sibling trunc(delta/n) and hands the
	// remainder to the last sibling, so the siblings absorb exactly delta.
	// Siblings are not clamped and can go negative.
	PolicyExactRemainder Policy = "exact-remainder"
)

// EngineOptions configures an Engine.
type EngineOptions struct {
	AutoRedistribute bool
	CalorieFloor     int
}

// DefaultEngineOptions returns auto redistribution on with a 100 kcal floor.
func DefaultEngineOptions() EngineOptions {
	return EngineOptions{
		AutoRedistribute: true,
		CalorieFloor:     constants.DefaultCalorieFloor,
	}
}

// Engine applies single-meal edits to a sequence. It holds no sequence state;
// every call takes a sequence and returns a new one.
type Engine struct {
	logger *zap.Logger
	opts   EngineOptions
}

// NewEngine creates an engine with the given logger and options.
// If logger is nil, it will use a no-op logger to prevent panics.
func NewEngine(logger *zap.Logger, opts EngineOptions) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{logger: logger, opts: opts}
}

// Adjustment describes what an edit did to the sequence.
type Adjustment struct {
	MealID        string `json:"mealId" yaml:"mealId"`
	Field         string `json:"field" yaml:"field"`
	Previous      int    `json:"previous" yaml:"previous"`
	Value         int    `json:"value" yaml:"value"`
	Delta         int    `json:"delta" yaml:"delta"`
	Redistributed bool   `json:"redistributed" yaml:"redistributed"`
	Policy        Policy `json:"policy,omitempty" yaml:"policy,omitempty"`
	Siblings      int    `json:"siblings" yaml:"siblings"`
	// Absorbed is how much the siblings gave up in total on the edited field.
	Absorbed int `json:"absorbed" yaml:"absorbed"`
	// Shortfall is Delta minus Absorbed.
	Shortfall int `json:"shortfall" yaml:"shortfall"`
}

// AdjustCalories sets one meal's calories, re-derives its macros at the
// default split and, when auto redistribution is on, takes the delta out of
// the other meals of the same class under PolicyClampedEven.
func (e *Engine) AdjustCalories(seq Sequence, mealID string, calories int) (Sequence, Adjustment, error) {
	if calories < 0 {
		return nil, Adjustment{}, fmt.Errorf("%w: calories %d", ErrNegativeValue, calories)
	}
	i := seq.Index(mealID)
	if i < 0 {
		return nil, Adjustment{}, fmt.Errorf("%w: %s", ErrMealNotFound, mealID)
	}

	out := seq.Clone()
	adj := Adjustment{
		MealID:   mealID,
		Field:    "calories",
		Previous: out[i].Calories,
		Value:    calories,
		Delta:    calories - out[i].Calories,
	}
	out[i].setCalories(calories)

	if !e.opts.AutoRedistribute || adj.Delta == 0 {
		return out, adj, nil
	}
	siblings := out.siblings(i)
	if len(siblings) == 0 {
		return out, adj, nil
	}

	adj.Redistributed = true
	adj.Policy = PolicyClampedEven
	adj.Siblings = len(siblings)
	adj.Absorbed = spreadClampedEven(out, siblings, adj.Delta, e.opts.CalorieFloor)
	adj.Shortfall = adj.Delta - adj.Absorbed

	e.logger.Debug("redistributed calorie edit",
		zap.String("op", "nutrition.AdjustCalories"),
		zap.String("meal", mealID),
		zap.Int("delta", adj.Delta),
		zap.Int("siblings", adj.Siblings),
		zap.Int("absorbed", adj.Absorbed),
		zap.Int("shortfall", adj.Shortfall),
	)
	return out, adj, nil
}

// AdjustMacro sets one macro of one meal, re-derives that meal's calories and,
// when auto redistribution is on, takes the gram delta out of the same macro
// of the other meals in the class under PolicyExactRemainder.
func (e *Engine) AdjustMacro(seq Sequence, mealID string, macro Macro, grams int) (Sequence, Adjustment, error) {
	if grams < 0 {
		return nil, Adjustment{}, fmt.Errorf("%w: %s %d", ErrNegativeValue, macro, grams)
	}
	i := seq.Index(mealID)
	if i < 0 {
		return nil, Adjustment{}, fmt.Errorf("%w: %s", ErrMealNotFound, mealID)
	}

	out := seq.Clone()
	field := out[i].grams(macro)
	if field == nil {
		return nil, Adjustment{}, fmt.Errorf("%w: %q", ErrUnknownMacro, macro)
	}
	adj := Adjustment{
		MealID:   mealID,
		Field:    string(macro),
		Previous: *field,
		Value:    grams,
		Delta:    grams - *field,
	}
	*field = grams
	out[i].deriveCalories()

	if !e.opts.AutoRedistribute || adj.Delta == 0 {
		return out, adj, nil
	}
	siblings := out.siblings(i)
	if len(siblings) == 0 {
		return out, adj, nil
	}

	adj.Redistributed = true
	adj.Policy = PolicyExactRemainder
	adj.Siblings = len(siblings)
	adj.Absorbed = spreadExactRemainder(out, siblings, macro, adj.Delta)
	adj.Shortfall = adj.Delta - adj.Absorbed

	e.logger.Debug("redistributed macro edit",
		zap.String("op", "nutrition.AdjustMacro"),
		zap.String("meal", mealID),
		zap.String("macro", string(macro)),
		zap.Int("delta", adj.Delta),
		zap.Int("siblings", adj.Siblings),
	)
	return out, adj, nil
}

// spreadClampedEven subtracts round(delta/n) from each sibling's calories,
// never going below floor, and re-derives their macros. It returns the total
// actually taken from the siblings.
func spreadClampedEven(seq Sequence, siblings []int, delta, floor int) int {
	per := mathutil.RoundHalfUp(float64(delta) / float64(len(siblings)))
	absorbed := 0
	for _, j := range siblings {
		before := seq[j].Calories
		seq[j].setCalories(mathutil.MaxInt(floor, before-per))
		absorbed += before - seq[j].Calories
	}
	return absorbed
}

// spreadExactRemainder subtracts trunc(delta/n) from every sibling but the
// last, which takes the remainder, then re-derives their calories.
func spreadExactRemainder(seq Sequence, siblings []int, macro Macro, delta int) int {
	n := len(siblings)
	base := delta / n
	absorbed := 0
	for k, j := range siblings {
		share := base
		if k == n-1 {
			share = delta - base*(n-1)
		}
		*seq[j].grams(macro) -= share
		seq[j].deriveCalories()
		absorbed += share
	}
	return absorbed
}
