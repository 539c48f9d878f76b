// Package format renders energy and mass amounts for display.
package format

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Kcal returns calories with thousands separators and a unit (e.g., "2,594 kcal").
func Kcal(amount int) string {
	return message.NewPrinter(language.English).Sprintf("%d kcal", amount)
}

// Grams returns a gram amount with a unit (e.g., "195 g").
func Grams(amount int) string {
	return message.NewPrinter(language.English).Sprintf("%d g", amount)
}

// SignedKcal returns a calorie difference with an explicit sign (e.g., "+99 kcal").
func SignedKcal(amount int) string {
	if amount > 0 {
		return "+" + Kcal(amount)
	}
	return Kcal(amount)
}

// Percent returns a percentage with two decimals and an explicit sign (e.g., "-3.82%").
func Percent(value float64) string {
	return fmt.Sprintf("%+.2f%%", value)
}
