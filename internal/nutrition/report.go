package nutrition

import (
	"fmt"
	"strings"

	"github.com/iwvelando/macro-planner/pkg/constants"
	"github.com/iwvelando/macro-planner/pkg/mathutil"
)

// ReportMode selects how a deviation is judged.
type ReportMode string

const (
	// ReportModeTolerance flags a plan whose calorie total is more than
	// TolerancePct percent away from the target. This absorbs the rounding
	// the splitter introduces.
	ReportModeTolerance ReportMode = "tolerance"

	// ReportModeStrict flags any calorie difference at all.
	ReportModeStrict ReportMode = "strict"
)

// ParseReportMode converts a user-supplied string into a ReportMode. An empty
// string selects the tolerance mode.
func ParseReportMode(s string) (ReportMode, error) {
	switch ReportMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ReportModeTolerance:
		return ReportModeTolerance, nil
	case ReportModeStrict:
		return ReportModeStrict, nil
	}
	return "", fmt.Errorf("unknown report mode %q", s)
}

// ReportOptions configures Report.
type ReportOptions struct {
	Mode         ReportMode `json:"mode" yaml:"mode"`
	TolerancePct float64    `json:"tolerancePercent" yaml:"tolerancePercent"`
}

// DefaultReportOptions returns the tolerance mode at 5%.
func DefaultReportOptions() ReportOptions {
	return ReportOptions{Mode: ReportModeTolerance, TolerancePct: constants.DefaultTolerancePct}
}

// MacroDiff holds per-macro gram differences from the daily target.
type MacroDiff struct {
	Protein int `json:"protein" yaml:"protein"`
	Carbs   int `json:"carbs" yaml:"carbs"`
	Fat     int `json:"fat" yaml:"fat"`
}

// DeviationReport compares the current meal totals against the daily target.
type DeviationReport struct {
	Current     Totals      `json:"current" yaml:"current"`
	Target      MacroTarget `json:"target" yaml:"target"`
	Diff        int         `json:"diff" yaml:"diff"`
	Percentage  float64     `json:"percentage" yaml:"percentage"`
	MacroDiff   MacroDiff   `json:"macroDiff" yaml:"macroDiff"`
	IsOffTarget bool        `json:"isOffTarget" yaml:"isOffTarget"`
	Mode        ReportMode  `json:"mode" yaml:"mode"`
}

// Report sums the sequence and measures it against the budget.
func Report(seq Sequence, budget MacroTarget, opts ReportOptions) DeviationReport {
	if opts.Mode == "" {
		opts.Mode = ReportModeTolerance
	}
	current := seq.Totals()
	diff := current.Calories - budget.TotalCalories

	r := DeviationReport{
		Current:    current,
		Target:     budget,
		Diff:       diff,
		Percentage: mathutil.CalculatePercentage(float64(diff), float64(budget.TotalCalories)),
		MacroDiff: MacroDiff{
			Protein: current.Protein - budget.ProteinGrams,
			Carbs:   current.Carbs - budget.CarbsGrams,
			Fat:     current.Fat - budget.FatGrams,
		},
		Mode: opts.Mode,
	}

	switch opts.Mode {
	case ReportModeStrict:
		r.IsOffTarget = diff != 0
	default:
		limit := mathutil.ApplyPercentage(float64(budget.TotalCalories), opts.TolerancePct)
		r.IsOffTarget = !mathutil.WithinTolerance(float64(current.Calories), float64(budget.TotalCalories), limit)
	}
	return r
}
