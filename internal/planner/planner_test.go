package planner

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/iwvelando/macro-planner/internal/config"
	"github.com/iwvelando/macro-planner/internal/nutrition"
	"github.com/iwvelando/macro-planner/pkg/testutil"
)

func loadTestConfig(t *testing.T) *config.Configuration {
	t.Helper()
	conf, err := config.LoadConfiguration(filepath.Join("..", "..", "test", "test_config.yaml"))
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	return conf
}

func TestGetPlan(t *testing.T) {
	conf := loadTestConfig(t)

	plan, err := GetPlan(context.Background(), nil, *conf)
	if err != nil {
		t.Fatalf("GetPlan() error = %v", err)
	}

	if plan.Estimate.Target.TotalCalories != 2594 {
		t.Errorf("target = %d, expected 2594", plan.Estimate.Target.TotalCalories)
	}

	tests := []struct {
		id       string
		calories int
		protein  int
	}{
		{"large-0", 705, 53},
		{"large-1", 555, 42},
		{"large-2", 555, 42},
		{"small-0", 385, 28},
		{"small-1", 393, 30},
	}
	for _, tt := range tests {
		meal := testutil.FindMeal(plan.Meals, tt.id)
		if meal == nil {
			t.Errorf("meal %s missing", tt.id)
			continue
		}
		if meal.Calories != tt.calories || meal.Protein != tt.protein {
			t.Errorf("%s = %d kcal / %d g protein, expected %d / %d",
				tt.id, meal.Calories, meal.Protein, tt.calories, tt.protein)
		}
	}

	if len(plan.Adjustments) != 2 {
		t.Fatalf("expected 2 adjustments, got %d", len(plan.Adjustments))
	}
	if plan.Report.Diff != -1 || plan.Report.IsOffTarget {
		t.Errorf("unexpected report: %+v", plan.Report)
	}
	if len(plan.Prescriptions) != len(plan.Meals) {
		t.Errorf("expected %d prescriptions, got %d", len(plan.Meals), len(plan.Prescriptions))
	}
}

func TestGetPlanWithoutSuggestions(t *testing.T) {
	conf := loadTestConfig(t)
	conf.Suggestions.Enabled = false
	conf.Adjustments.Edits = nil

	plan, err := GetPlan(context.Background(), nil, *conf)
	if err != nil {
		t.Fatalf("GetPlan() error = %v", err)
	}
	if plan.Prescriptions != nil {
		t.Error("expected no prescriptions when suggestions are disabled")
	}
	if plan.Meals.Totals().Calories != 2593 {
		t.Errorf("split total = %d, expected 2593", plan.Meals.Totals().Calories)
	}
}

func TestGetPlanErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *config.Configuration)
		target error
	}{
		{"Unknown sex", func(c *config.Configuration) { c.Patient.Sex = "other" }, nutrition.ErrUnknownSex},
		{"Bad share sum", func(c *config.Configuration) { c.Meals.SmallShare = 40 }, nutrition.ErrInvalidShareSum},
		{"Unknown meal", func(c *config.Configuration) {
			c.Adjustments.Edits = []config.Edit{{Meal: "large-7", Field: "calories", Value: 500}}
		}, nutrition.ErrMealNotFound},
		{"Unknown field", func(c *config.Configuration) {
			c.Adjustments.Edits = []config.Edit{{Meal: "large-0", Field: "fiber", Value: 5}}
		}, nutrition.ErrUnknownMacro},
		{"Negative edit", func(c *config.Configuration) {
			c.Adjustments.Edits = []config.Edit{{Meal: "large-0", Field: "Fat", Value: -1}}
		}, nutrition.ErrNegativeValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conf := loadTestConfig(t)
			tt.mutate(conf)
			if _, err := GetPlan(context.Background(), nil, *conf); !errors.Is(err, tt.target) {
				t.Errorf("GetPlan() error = %v, expected %v", err, tt.target)
			}
		})
	}

	conf := loadTestConfig(t)
	conf.Report.Mode = "fuzzy"
	if _, err := GetPlan(context.Background(), nil, *conf); err == nil {
		t.Error("GetPlan() expected error for unknown report mode")
	}
}

func TestExampleConfiguration(t *testing.T) {
	conf, err := config.LoadConfiguration(filepath.Join("..", "..", "config.yaml.example"))
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	if warnings := conf.ValidateConfiguration(); len(warnings) != 0 {
		t.Errorf("example configuration has warnings: %v", warnings)
	}

	plan, err := GetPlan(context.Background(), nil, *conf)
	if err != nil {
		t.Fatalf("GetPlan() error = %v", err)
	}
	if plan.Profile.Sex != nutrition.SexFemale || plan.Profile.Goal != nutrition.LoseFat {
		t.Errorf("unexpected profile: %+v", plan.Profile)
	}
	// The protein edit on large-2 takes its remainder from large-1, whose
	// calories are then re-derived from its grams.
	if meal := testutil.FindMeal(plan.Meals, "large-1"); meal == nil || meal.Protein != 31 || meal.Calories != 506 {
		t.Errorf("large-1 = %+v, expected 31 g protein and 506 kcal", meal)
	}
	if meal := testutil.FindMeal(plan.Meals, "large-2"); meal == nil || meal.Protein != 40 {
		t.Errorf("large-2 = %+v, expected 40 g protein", meal)
	}
	if len(plan.Prescriptions) != 5 {
		t.Errorf("expected 5 prescriptions, got %d", len(plan.Prescriptions))
	}
}
