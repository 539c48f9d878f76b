// Package output provides utilities for formatting and displaying plan results.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/iwvelando/macro-planner/internal/nutrition"
	"github.com/iwvelando/macro-planner/internal/suggest"
	"github.com/iwvelando/macro-planner/pkg/format"
	"github.com/iwvelando/macro-planner/pkg/mathutil"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Plan is the result of one planning run.
type Plan struct {
	Profile       nutrition.PatientProfile    `json:"profile" yaml:"profile"`
	Estimate      nutrition.EstimateBreakdown `json:"estimate" yaml:"estimate"`
	Meals         nutrition.Sequence          `json:"meals" yaml:"meals"`
	Adjustments   []nutrition.Adjustment      `json:"adjustments,omitempty" yaml:"adjustments,omitempty"`
	Report        nutrition.DeviationReport   `json:"report" yaml:"report"`
	Prescriptions []suggest.MealPrescription  `json:"prescriptions,omitempty" yaml:"prescriptions,omitempty"`
}

// PrettyFormat outputs a human-readable rather than machine-readable table.
func PrettyFormat(plan Plan) {
	_ = WritePretty(os.Stdout, plan)
}

// WritePretty writes the human-readable table to w.
func WritePretty(w io.Writer, plan Plan) error {
	p := message.NewPrinter(language.English)
	budget := plan.Estimate.Target

	_, _ = p.Fprintf(w, "--- Daily target: %d kcal (P %dg / C %dg / F %dg) ---\n",
		budget.TotalCalories, budget.ProteinGrams, budget.CarbsGrams, budget.FatGrams)
	_, _ = fmt.Fprintf(w, "Meal        | Class | Calories | Protein | Carbs | Fat\n")
	_, _ = fmt.Fprintf(w, "____        | _____ | ________ | _______ | _____ | ___\n")
	for _, m := range plan.Meals {
		writeRow(w, p, m.Name, string(m.Class), nutrition.Totals{Calories: m.Calories, Protein: m.Protein, Carbs: m.Carbs, Fat: m.Fat})
	}
	writeRow(w, p, "Total", "", plan.Meals.Totals())

	if len(plan.Adjustments) > 0 {
		_, _ = fmt.Fprintf(w, "\nAdjustments:\n")
		for _, a := range plan.Adjustments {
			_, _ = fmt.Fprintf(w, "  %s\n", describeAdjustment(a))
		}
	}

	_, _ = fmt.Fprintf(w, "\n%s\n", deviationLine(plan.Report))

	for _, rx := range plan.Prescriptions {
		_, _ = fmt.Fprintf(w, "\n%s (%s of %s)\n", rx.MealName, format.Kcal(rx.Totals.Calories), format.Kcal(rx.Target))
		for _, f := range rx.Foods {
			_, _ = fmt.Fprintf(w, "  %-16s %5d %-2s  %4d kcal  P %dg C %dg F %dg\n",
				f.Name, f.Quantity, f.Unit, f.Calories, f.Protein, f.Carbs, f.Fat)
		}
	}
	return nil
}

func writeRow(w io.Writer, p *message.Printer, name, class string, t nutrition.Totals) {
	_, _ = fmt.Fprintf(w, "%-11s | %-5s | %8s | %6dg | %4dg | %2dg\n",
		name, class, p.Sprintf("%d", t.Calories), t.Protein, t.Carbs, t.Fat)
}

func describeAdjustment(a nutrition.Adjustment) string {
	s := fmt.Sprintf("%s %s %d -> %d", a.MealID, a.Field, a.Previous, a.Value)
	if !a.Redistributed {
		return s
	}
	s += fmt.Sprintf(" (%s over %d meals, absorbed %d", a.Policy, a.Siblings, a.Absorbed)
	if a.Shortfall != 0 {
		s += fmt.Sprintf(", shortfall %d", a.Shortfall)
	}
	return s + ")"
}

func deviationLine(r nutrition.DeviationReport) string {
	status := "on target"
	if r.IsOffTarget {
		status = "OFF TARGET"
	}
	return fmt.Sprintf("Deviation: %s (%s) %s [%s]",
		format.SignedKcal(r.Diff), format.Percent(r.Percentage), status, r.Mode)
}

// CsvFormat outputs in comma-separated value format.
func CsvFormat(plan Plan) {
	_ = WriteCSV(os.Stdout, plan.Meals)
}

// WriteCSV writes one row per meal to w.
func WriteCSV(w io.Writer, seq nutrition.Sequence) error {
	if _, err := fmt.Fprintf(w, `"id","class","name","calories","protein","carbs","fat"`+"\n"); err != nil {
		return err
	}
	for _, m := range seq {
		if _, err := fmt.Fprintf(w, `"%s","%s","%s","%d","%d","%d","%d"`+"\n",
			m.ID, m.Class, csvEscape(m.Name), m.Calories, m.Protein, m.Carbs, m.Fat); err != nil {
			return err
		}
	}
	return nil
}

func csvEscape(s string) string {
	return strings.ReplaceAll(s, `"`, `""`)
}

// MacroReport renders the estimate with its working.
func MacroReport(profile nutrition.PatientProfile, b nutrition.EstimateBreakdown) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Basal Metabolic Rate: %.2f kcal\n", mathutil.RoundTo(b.BMR, 2))
	fmt.Fprintf(&sb, "Activity Factor: %g (%s)\n", b.ActivityFactor, profile.ActivityLevel)
	fmt.Fprintf(&sb, "Maintenance Calories: %s\n", format.Kcal(b.MaintenanceCalories))
	fmt.Fprintf(&sb, "Goal Target: %s (%s)\n", format.Kcal(b.Target.TotalCalories), profile.Goal)
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "Protein: %s\n", format.Grams(b.Target.ProteinGrams))
	fmt.Fprintf(&sb, "Carbohydrates: %s\n", format.Grams(b.Target.CarbsGrams))
	fmt.Fprintf(&sb, "Fat: %s\n", format.Grams(b.Target.FatGrams))
	return sb.String()
}

// WriteReport writes the macro report followed by the deviation summary.
func WriteReport(w io.Writer, plan Plan) error {
	if _, err := io.WriteString(w, MacroReport(plan.Profile, plan.Estimate)); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\n%s\n", deviationLine(plan.Report))
	return err
}
