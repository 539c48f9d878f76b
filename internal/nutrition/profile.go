// Package nutrition holds the macro-allocation engine: it estimates daily
// calorie and macro targets from a patient profile, splits them across meals
// and redistributes single-meal edits across sibling meals.
package nutrition

import (
	"fmt"
	"strings"
)

// Sex is the biological sex category used to pick a BMR formula.
type Sex string

const (
	SexMale   Sex = "Male"
	SexFemale Sex = "Female"
	// SexChild uses the male formula. It is kept as its own category so the
	// choice stays visible to callers.
	SexChild Sex = "Child"
)

// ActivityLevel scales BMR into total daily energy expenditure.
type ActivityLevel string

const (
	Sedentary        ActivityLevel = "Sedentary"
	LightlyActive    ActivityLevel = "Lightly Active"
	ModeratelyActive ActivityLevel = "Moderately Active"
	VeryActive       ActivityLevel = "Very Active"
)

// Goal adjusts TDEE into the daily calorie target.
type Goal string

const (
	LoseFat        Goal = "Lose Fat"
	MaintainWeight Goal = "Maintain Weight"
	GainMuscle     Goal = "Gain Muscle"
)

var activityMultipliers = map[ActivityLevel]float64{
	Sedentary:        1.2,
	LightlyActive:    1.375,
	ModeratelyActive: 1.55,
	VeryActive:       1.725,
}

var goalFactors = map[Goal]float64{
	LoseFat:        0.8,
	MaintainWeight: 1.0,
	GainMuscle:     1.15,
}

// PatientProfile holds the anthropometric and lifestyle inputs for an estimate.
type PatientProfile struct {
	Height        float64       `json:"height" yaml:"height"` // cm
	Weight        float64       `json:"weight" yaml:"weight"` // kg
	Age           float64       `json:"age" yaml:"age"`       // years
	Sex           Sex           `json:"sex" yaml:"sex"`
	ActivityLevel ActivityLevel `json:"activityLevel" yaml:"activityLevel"`
	Goal          Goal          `json:"goal" yaml:"goal"`
}

// MacroTarget is a daily calorie budget with its macro grams.
type MacroTarget struct {
	TotalCalories int `json:"totalCalories" yaml:"totalCalories"`
	ProteinGrams  int `json:"proteinGrams" yaml:"proteinGrams"`
	CarbsGrams    int `json:"carbsGrams" yaml:"carbsGrams"`
	FatGrams      int `json:"fatGrams" yaml:"fatGrams"`
}

// normalizeKey lowercases and strips separators so "Lightly Active",
// "lightly_active" and "lightly-active" compare equal.
func normalizeKey(s string) string {
	r := strings.NewReplacer(" ", "", "_", "", "-", "")
	return strings.ToLower(r.Replace(strings.TrimSpace(s)))
}

// ParseSex converts a user-supplied string into a Sex.
func ParseSex(s string) (Sex, error) {
	for _, v := range []Sex{SexMale, SexFemale, SexChild} {
		if normalizeKey(s) == normalizeKey(string(v)) {
			return v, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSex, s)
}

// ParseActivityLevel converts a user-supplied string into an ActivityLevel.
func ParseActivityLevel(s string) (ActivityLevel, error) {
	for level := range activityMultipliers {
		if normalizeKey(s) == normalizeKey(string(level)) {
			return level, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownActivityLevel, s)
}

// ParseGoal converts a user-supplied string into a Goal.
func ParseGoal(s string) (Goal, error) {
	for goal := range goalFactors {
		if normalizeKey(s) == normalizeKey(string(goal)) {
			return goal, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownGoal, s)
}

// Multiplier returns the TDEE multiplier for the level.
func (a ActivityLevel) Multiplier() (float64, bool) {
	m, ok := activityMultipliers[a]
	return m, ok
}

// Factor returns the calorie adjustment factor for the goal.
func (g Goal) Factor() (float64, bool) {
	f, ok := goalFactors[g]
	return f, ok
}

// Normalize returns a copy of the profile with its categorical fields in
// canonical form. Numeric ranges are left to the caller; see
// validation.ValidateAnthropometrics.
func (p PatientProfile) Normalize() (PatientProfile, error) {
	sex, err := ParseSex(string(p.Sex))
	if err != nil {
		return p, err
	}
	level, err := ParseActivityLevel(string(p.ActivityLevel))
	if err != nil {
		return p, err
	}
	goal, err := ParseGoal(string(p.Goal))
	if err != nil {
		return p, err
	}
	p.Sex, p.ActivityLevel, p.Goal = sex, level, goal
	return p, nil
}
