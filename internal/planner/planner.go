// Package planner runs a configured plan end to end: it estimates the daily
// target, splits it into meals, replays the configured edits, reports the
// deviation and optionally attaches food suggestions.
package planner

import (
	"context"
	"fmt"
	"strings"

	"github.com/iwvelando/macro-planner/internal/config"
	"github.com/iwvelando/macro-planner/internal/nutrition"
	"github.com/iwvelando/macro-planner/internal/suggest"
	"github.com/iwvelando/macro-planner/pkg/output"
	"go.uber.org/zap"
)

// GetPlan processes the plan described by conf.
func GetPlan(ctx context.Context, logger *zap.Logger, conf config.Configuration) (output.Plan, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	profile, err := conf.Profile()
	if err != nil {
		return output.Plan{}, fmt.Errorf("invalid patient: %w", err)
	}
	estimate, err := nutrition.Breakdown(profile)
	if err != nil {
		return output.Plan{}, fmt.Errorf("invalid patient: %w", err)
	}
	logger.Debug("estimated daily target",
		zap.String("op", "planner.GetPlan"),
		zap.Float64("bmr", estimate.BMR),
		zap.Int("calories", estimate.Target.TotalCalories),
	)

	meals, err := nutrition.Split(estimate.Target, conf.SplitOptions())
	if err != nil {
		return output.Plan{}, fmt.Errorf("failed to split meals: %w", err)
	}

	engine := nutrition.NewEngine(logger, conf.EngineOptions())
	adjustments := make([]nutrition.Adjustment, 0, len(conf.Adjustments.Edits))
	for i, edit := range conf.Adjustments.Edits {
		var adj nutrition.Adjustment
		meals, adj, err = applyEdit(engine, meals, edit)
		if err != nil {
			return output.Plan{}, fmt.Errorf("edit %d (%s %s): %w", i+1, edit.Meal, edit.Field, err)
		}
		if adj.Shortfall != 0 {
			logger.Info(fmt.Sprintf("edit to %s was not fully absorbed by its siblings", edit.Meal),
				zap.String("op", "planner.GetPlan"),
				zap.Int("shortfall", adj.Shortfall),
			)
		}
		adjustments = append(adjustments, adj)
	}

	reportOpts, err := conf.ReportOptions()
	if err != nil {
		return output.Plan{}, err
	}

	plan := output.Plan{
		Profile:     profile,
		Estimate:    estimate,
		Meals:       meals,
		Adjustments: adjustments,
		Report:      nutrition.Report(meals, estimate.Target, reportOpts),
	}

	if conf.Suggestions.Enabled {
		provider := suggest.NewMockProvider(logger, conf.Suggestions.Seed, conf.Suggestions.MaxFoods)
		plan.Prescriptions, err = provider.Suggest(ctx, meals)
		if err != nil {
			return output.Plan{}, fmt.Errorf("failed to generate suggestions: %w", err)
		}
	}
	return plan, nil
}

func applyEdit(engine *nutrition.Engine, seq nutrition.Sequence, edit config.Edit) (nutrition.Sequence, nutrition.Adjustment, error) {
	if strings.EqualFold(strings.TrimSpace(edit.Field), "calories") {
		return engine.AdjustCalories(seq, edit.Meal, edit.Value)
	}
	macro, err := nutrition.ParseMacro(edit.Field)
	if err != nil {
		return nil, nutrition.Adjustment{}, err
	}
	return engine.AdjustMacro(seq, edit.Meal, macro, edit.Value)
}
