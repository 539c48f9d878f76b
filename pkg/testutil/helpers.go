// Package testutil provides common utility functions for testing.
package testutil

import (
	"github.com/iwvelando/macro-planner/internal/nutrition"
)

// ReferenceProfile is the 179 cm, 70 kg, 30 year old moderately active male
// used across tests. Its daily target is 2594 kcal.
func ReferenceProfile() nutrition.PatientProfile {
	return nutrition.PatientProfile{
		Height:        179,
		Weight:        70,
		Age:           30,
		Sex:           nutrition.SexMale,
		ActivityLevel: nutrition.ModeratelyActive,
		Goal:          nutrition.MaintainWeight,
	}
}

// FindMeal finds a meal by id in the sequence.
// Returns a pointer to the meal if found, nil otherwise.
func FindMeal(seq nutrition.Sequence, id string) *nutrition.MealTarget {
	for i := range seq {
		if seq[i].ID == id {
			return &seq[i]
		}
	}
	return nil
}

// ClassTotals sums the meals of one class.
func ClassTotals(seq nutrition.Sequence, class nutrition.MealClass) nutrition.Totals {
	return seq.Class(class).Totals()
}
