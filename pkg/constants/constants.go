// Package constants provides shared constants for the macro-planner application.
package constants

// Energy density constants (kcal per gram).
const (
	// ProteinKcalPerGram is the energy density of protein.
	ProteinKcalPerGram = 4.0

	// CarbsKcalPerGram is the energy density of carbohydrates.
	CarbsKcalPerGram = 4.0

	// FatKcalPerGram is the energy density of fat.
	FatKcalPerGram = 9.0
)

// Default macro split, as percentages of total calories.
const (
	DefaultProteinSharePct = 30.0
	DefaultCarbsSharePct   = 40.0
	DefaultFatSharePct     = 30.0
)

// Default meal distribution.
const (
	// DefaultLargeMealCount is the number of large meals per day.
	DefaultLargeMealCount = 3

	// DefaultSmallMealCount is the number of small meals (snacks) per day.
	DefaultSmallMealCount = 2

	// DefaultLargeSharePct is the share of daily calories given to large meals.
	DefaultLargeSharePct = 70.0

	// DefaultSmallSharePct is the share of daily calories given to small meals.
	DefaultSmallSharePct = 30.0
)

// Redistribution and reporting constants
const (
	// DefaultCalorieFloor is the lowest calorie value a sibling meal can be
	// pushed to by calorie redistribution.
	DefaultCalorieFloor = 100

	// DefaultTolerancePct is the deviation, in percent of the daily target,
	// above which a plan is reported as off target.
	DefaultTolerancePct = 5.0

	// MealTolerancePct is the per-meal deviation allowed for food suggestions.
	MealTolerancePct = 10.0

	// ShareSumTolerance is the slack accepted when checking that shares sum to 100.
	ShareSumTolerance = 1e-9

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0
)

// Suggestion constants
const (
	// DefaultMaxFoodsPerMeal is the number of foods suggested per meal.
	DefaultMaxFoodsPerMeal = 3

	// MinRemainingCalories stops food selection once a meal is nearly filled.
	MinRemainingCalories = 50
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatYAML is the plan document format
	OutputFormatYAML = "yaml"

	// OutputFormatReport is the plain-text macro report
	OutputFormatReport = "report"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// ExampleConfigFile is the example configuration file name
	ExampleConfigFile = "config.yaml.example"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"

	// EnvPrefix is the prefix for environment overrides.
	EnvPrefix = "MACRO_PLANNER"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address
	DefaultServerAddress = ":8080"

	// DefaultMaxBodySizeBytes is the default maximum request body size (256 KB)
	DefaultMaxBodySizeBytes int64 = 256 * 1024
)
