package validation

import (
	"fmt"
	"math"
	"strings"

	"github.com/iwvelando/macro-planner/pkg/constants"
)

// ValidateAnthropometrics warns about non-positive height, weight or age. The
// estimator still runs on such input but its output is not meaningful.
func ValidateAnthropometrics(height, weight, age float64) []string {
	var warnings []string
	if height <= 0 {
		warnings = append(warnings, fmt.Sprintf("Patient height must be positive (got %g cm)", height))
	}
	if weight <= 0 {
		warnings = append(warnings, fmt.Sprintf("Patient weight must be positive (got %g kg)", weight))
	}
	if age <= 0 {
		warnings = append(warnings, fmt.Sprintf("Patient age must be positive (got %g)", age))
	}
	return warnings
}

// ValidateMealShares checks meal counts against their calorie shares.
func ValidateMealShares(largeCount, smallCount int, largeShare, smallShare float64) []string {
	var warnings []string
	if largeCount+smallCount <= 0 {
		warnings = append(warnings, "At least one meal is required")
	}
	if !sumsToHundred(largeShare + smallShare) {
		warnings = append(warnings, fmt.Sprintf("Meal shares sum to %g%%, expected 100%%", largeShare+smallShare))
	}
	if largeCount == 0 && largeShare != 0 {
		warnings = append(warnings, fmt.Sprintf("Large meal share is %g%% but there are no large meals", largeShare))
	}
	if smallCount == 0 && smallShare != 0 {
		warnings = append(warnings, fmt.Sprintf("Small meal share is %g%% but there are no small meals", smallShare))
	}
	return warnings
}

// ValidateMacroShares checks that the macro percentages sum to 100.
func ValidateMacroShares(protein, carbs, fat float64) []string {
	if sum := protein + carbs + fat; !sumsToHundred(sum) {
		return []string{fmt.Sprintf("Macro shares sum to %g%%, expected 100%%", sum)}
	}
	return nil
}

// IsEditField reports whether field names an editable meal value.
func IsEditField(field string) bool {
	switch strings.ToLower(strings.TrimSpace(field)) {
	case "calories", "protein", "carbs", "carbohydrates", "fat":
		return true
	}
	return false
}

func sumsToHundred(v float64) bool {
	return math.Abs(v-100) <= constants.ShareSumTolerance
}
