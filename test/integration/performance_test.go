package integration

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"testing"
	"time"

	"github.com/iwvelando/macro-planner/internal/config"
	"github.com/iwvelando/macro-planner/internal/nutrition"
	"github.com/iwvelando/macro-planner/internal/planner"
	"go.uber.org/zap"
)

// TestRunner is a simple test runner for debugging
func TestMain(m *testing.M) {
	code := m.Run()
	os.Exit(code)
}

// TestPerformance checks that a long edit session stays fast.
func TestPerformance(t *testing.T) {
	logger := zap.NewNop()

	start := time.Now()
	conf, err := config.LoadConfiguration("../test_config.yaml")
	if err != nil {
		t.Fatalf("LoadConfiguration failed: %v", err)
	}
	loadTime := time.Since(start)

	start = time.Now()
	plan, err := planner.GetPlan(context.Background(), logger, *conf)
	if err != nil {
		t.Fatalf("GetPlan failed: %v", err)
	}
	planTime := time.Since(start)

	engine := nutrition.NewEngine(logger, conf.EngineOptions())
	rng := rand.New(rand.NewSource(1))
	seq := plan.Meals
	macros := []nutrition.Macro{nutrition.Protein, nutrition.Carbs, nutrition.Fat}

	start = time.Now()
	for i := 0; i < 10000; i++ {
		meal := seq[rng.Intn(len(seq))].ID
		if i%2 == 0 {
			seq, _, err = engine.AdjustCalories(seq, meal, 200+rng.Intn(800))
		} else {
			seq, _, err = engine.AdjustMacro(seq, meal, macros[rng.Intn(len(macros))], rng.Intn(80))
		}
		if err != nil {
			t.Fatalf("edit %d failed: %v", i, err)
		}
	}
	editTime := time.Since(start)

	t.Logf("Performance metrics:")
	t.Logf("  Load config: %v", loadTime)
	t.Logf("  Generate plan: %v", planTime)
	t.Logf("  10000 edits: %v", editTime)

	if total := loadTime + planTime + editTime; total > 10*time.Second {
		t.Errorf("Total processing time %v exceeds 10 second threshold", total)
	}
	if len(seq) != len(plan.Meals) {
		t.Errorf("edits changed the meal count from %d to %d", len(plan.Meals), len(seq))
	}
}

// TestRepeatedPlans checks that repeated runs are identical.
func TestRepeatedPlans(t *testing.T) {
	logger := zap.NewNop()

	var baseline string
	for i := 0; i < 10; i++ {
		conf, err := config.LoadConfiguration("../test_config.yaml")
		if err != nil {
			t.Fatalf("LoadConfiguration failed on iteration %d: %v", i, err)
		}
		plan, err := planner.GetPlan(context.Background(), logger, *conf)
		if err != nil {
			t.Fatalf("GetPlan failed on iteration %d: %v", i, err)
		}
		got := fmt.Sprintf("%+v", plan)
		if i == 0 {
			baseline = got
			continue
		}
		if got != baseline {
			t.Fatalf("iteration %d produced a different plan", i)
		}
	}
}
