package nutrition

import (
	"github.com/iwvelando/macro-planner/pkg/constants"
	"github.com/iwvelando/macro-planner/pkg/mathutil"
)

// EstimateBreakdown carries the intermediate values of an estimate alongside
// the resulting target, for reports that show the working.
type EstimateBreakdown struct {
	BMR                 float64     `json:"bmr" yaml:"bmr"`
	ActivityFactor      float64     `json:"activityFactor" yaml:"activityFactor"`
	TDEE                float64     `json:"tdee" yaml:"tdee"`
	MaintenanceCalories int         `json:"maintenanceCalories" yaml:"maintenanceCalories"`
	GoalFactor          float64     `json:"goalFactor" yaml:"goalFactor"`
	Target              MacroTarget `json:"target" yaml:"target"`
}

// BMR returns the Mifflin-St Jeor basal metabolic rate for the profile.
// Child uses the male constant. Any sex outside Male, Female and Child is
// rejected with ErrUnknownSex.
func BMR(p PatientProfile) (float64, error) {
	sex, err := ParseSex(string(p.Sex))
	if err != nil {
		return 0, err
	}
	base := 10*p.Weight + 6.25*p.Height - 5*p.Age
	if sex == SexFemale {
		return base - 161, nil
	}
	return base + 5, nil
}

// Breakdown runs the estimate and keeps every intermediate value. Categories
// are normalized first, so "male" and "moderately_active" are accepted, and an
// unknown category is an error. Out-of-range numbers are not checked and
// produce non-physical output.
func Breakdown(p PatientProfile) (EstimateBreakdown, error) {
	p, err := p.Normalize()
	if err != nil {
		return EstimateBreakdown{}, err
	}
	bmr, err := BMR(p)
	if err != nil {
		return EstimateBreakdown{}, err
	}
	activity, _ := p.ActivityLevel.Multiplier()
	goal, _ := p.Goal.Factor()
	tdee := bmr * activity

	total := mathutil.RoundHalfUp(tdee * goal)

	return EstimateBreakdown{
		BMR:                 bmr,
		ActivityFactor:      activity,
		TDEE:                tdee,
		MaintenanceCalories: mathutil.RoundHalfUp(tdee),
		GoalFactor:          goal,
		Target:              targetFromCalories(total),
	}, nil
}

// Estimate derives the daily calorie and macro target for a profile.
func Estimate(p PatientProfile) (MacroTarget, error) {
	b, err := Breakdown(p)
	if err != nil {
		return MacroTarget{}, err
	}
	return b.Target, nil
}

// targetFromCalories splits calories at the default 30/40/30 ratio. Each gram
// value is rounded on its own and the grams are not reconciled against the
// calorie total.
func targetFromCalories(calories int) MacroTarget {
	protein, carbs, fat := defaultMacroGrams(float64(calories))
	return MacroTarget{
		TotalCalories: calories,
		ProteinGrams:  protein,
		CarbsGrams:    carbs,
		FatGrams:      fat,
	}
}

func defaultMacroGrams(calories float64) (protein, carbs, fat int) {
	protein = mathutil.RoundHalfUp(calories * constants.DefaultProteinSharePct / 100 / constants.ProteinKcalPerGram)
	carbs = mathutil.RoundHalfUp(calories * constants.DefaultCarbsSharePct / 100 / constants.CarbsKcalPerGram)
	fat = mathutil.RoundHalfUp(calories * constants.DefaultFatSharePct / 100 / constants.FatKcalPerGram)
	return protein, carbs, fat
}
