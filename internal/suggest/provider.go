package suggest

import (
	"context"
	"fmt"
	"math/rand"
	"sync"

	"github.com/iwvelando/macro-planner/internal/nutrition"
	"github.com/iwvelando/macro-planner/pkg/constants"
	"github.com/iwvelando/macro-planner/pkg/mathutil"
	"go.uber.org/zap"
)

// Provider proposes food prescriptions for a sequence of meal targets.
type Provider interface {
	Suggest(ctx context.Context, seq nutrition.Sequence) ([]MealPrescription, error)
}

// DefaultCatalog is the built-in food list, values per 100 units.
var DefaultCatalog = []CatalogFood{
	{Name: "Brown Rice", Unit: "g", Per100: Nutrients{Calories: 110, Protein: 2.5, Carbs: 23, Fat: 0.9}},
	{Name: "Grilled Chicken", Unit: "g", Per100: Nutrients{Calories: 165, Protein: 31, Carbs: 0, Fat: 3.6}},
	{Name: "Broccoli", Unit: "g", Per100: Nutrients{Calories: 34, Protein: 2.8, Carbs: 7, Fat: 0.4}},
	{Name: "Olive Oil", Unit: "ml", Per100: Nutrients{Calories: 119, Protein: 0, Carbs: 0, Fat: 13.5}},
	{Name: "Sweet Potato", Unit: "g", Per100: Nutrients{Calories: 86, Protein: 1.6, Carbs: 20, Fat: 0.1}},
	{Name: "Egg", Unit: "un", Per100: Nutrients{Calories: 72, Protein: 6.3, Carbs: 0.4, Fat: 4.8}},
	{Name: "Oats", Unit: "g", Per100: Nutrients{Calories: 68, Protein: 2.4, Carbs: 12, Fat: 1.4}},
	{Name: "Banana", Unit: "un", Per100: Nutrients{Calories: 89, Protein: 1.1, Carbs: 23, Fat: 0.3}},
}

// MockProvider picks random catalog foods and sizes each to a third of the
// calories the meal still needs. It is safe for concurrent use.
type MockProvider struct {
	logger   *zap.Logger
	catalog  []CatalogFood
	maxFoods int

	mu  sync.Mutex
	rng *rand.Rand
}

// NewMockProvider creates a provider over DefaultCatalog. The same seed
// yields the same prescriptions for the same sequence.
// If logger is nil, it will use a no-op logger to prevent panics.
func NewMockProvider(logger *zap.Logger, seed int64, maxFoods int) *MockProvider {
	return newMockProvider(logger, seed, maxFoods, DefaultCatalog)
}

func newMockProvider(logger *zap.Logger, seed int64, maxFoods int, catalog []CatalogFood) *MockProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxFoods <= 0 {
		maxFoods = constants.DefaultMaxFoodsPerMeal
	}
	return &MockProvider{
		logger:   logger,
		catalog:  catalog,
		maxFoods: maxFoods,
		rng:      rand.New(rand.NewSource(seed)),
	}
}

// Suggest builds one prescription per meal, in sequence order.
func (m *MockProvider) Suggest(ctx context.Context, seq nutrition.Sequence) ([]MealPrescription, error) {
	if len(m.catalog) == 0 {
		return nil, fmt.Errorf("food catalog is empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]MealPrescription, 0, len(seq))
	for _, meal := range seq {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out = append(out, m.prescribe(meal))
	}

	m.logger.Debug("generated suggestions",
		zap.String("op", "suggest.MockProvider.Suggest"),
		zap.Int("meals", len(out)),
	)
	return out, nil
}

func (m *MockProvider) prescribe(meal nutrition.MealTarget) MealPrescription {
	p := MealPrescription{MealID: meal.ID, MealName: meal.Name, Target: meal.Calories, Foods: []Food{}}
	remaining := meal.Calories
	for i := 0; i < m.maxFoods && remaining > constants.MinRemainingCalories; i++ {
		food := m.catalog[m.rng.Intn(len(m.catalog))]
		if food.Per100.Calories <= 0 {
			continue
		}
		qty := mathutil.RoundHalfUp(float64(remaining) / 3 / (food.Per100.Calories / 100))
		f := portion(fmt.Sprintf("%s-food-%d", meal.ID, i), food, qty)
		p.Foods = append(p.Foods, f)
		remaining -= f.Calories
	}
	p.recompute()
	return p
}
