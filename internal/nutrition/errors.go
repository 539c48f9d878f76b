package nutrition

import "errors"

// Errors returned by the engine. All of them are precondition violations:
// the caller must collect valid input and retry.
var (
	// ErrInvalidShareSum means class or macro share percentages do not total 100.
	ErrInvalidShareSum = errors.New("share percentages must total 100")

	// ErrDivisionByZero means a non-zero share was requested for a class with no meals.
	ErrDivisionByZero = errors.New("non-zero share for a meal class with zero meals")

	// ErrInvalidMealCount means a negative meal count was requested.
	ErrInvalidMealCount = errors.New("meal count cannot be negative")

	// ErrMealNotFound means the meal id is not part of the sequence.
	ErrMealNotFound = errors.New("meal not found")

	// ErrUnknownMacro means the macro kind is not protein, carbs or fat.
	ErrUnknownMacro = errors.New("unknown macro")

	// ErrNegativeValue means an edit asked for a negative calorie or gram value.
	ErrNegativeValue = errors.New("value cannot be negative")

	ErrUnknownSex           = errors.New("unknown sex category")
	ErrUnknownActivityLevel = errors.New("unknown activity level")
	ErrUnknownGoal          = errors.New("unknown goal")
)
