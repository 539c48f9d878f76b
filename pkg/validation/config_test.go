package validation

import "testing"

func TestValidateAnthropometrics(t *testing.T) {
	tests := []struct {
		name          string
		height        float64
		weight        float64
		age           float64
		expectedCount int
	}{
		{"Valid adult", 170, 70, 30, 0},
		{"Zero height", 0, 70, 30, 1},
		{"Negative weight and zero age", 170, -1, 0, 2},
		{"All missing", 0, 0, 0, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			warnings := ValidateAnthropometrics(tt.height, tt.weight, tt.age)
			if len(warnings) != tt.expectedCount {
				t.Errorf("expected %d warnings, got %d: %v", tt.expectedCount, len(warnings), warnings)
			}
		})
	}
}

func TestValidateMealShares(t *testing.T) {
	tests := []struct {
		name          string
		large, small  int
		largeShare    float64
		smallShare    float64
		expectedCount int
	}{
		{"Default split", 3, 2, 70, 30, 0},
		{"Large only", 4, 0, 100, 0, 0},
		{"Shares short of 100", 3, 2, 60, 30, 1},
		{"Share without meals", 0, 2, 70, 30, 1},
		{"No meals", 0, 0, 70, 30, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			warnings := ValidateMealShares(tt.large, tt.small, tt.largeShare, tt.smallShare)
			if len(warnings) != tt.expectedCount {
				t.Errorf("expected %d warnings, got %d: %v", tt.expectedCount, len(warnings), warnings)
			}
		})
	}
}

func TestValidateMacroShares(t *testing.T) {
	if w := ValidateMacroShares(30, 40, 30); len(w) != 0 {
		t.Errorf("expected no warnings, got %v", w)
	}
	if w := ValidateMacroShares(30, 40, 20); len(w) != 1 {
		t.Errorf("expected one warning, got %v", w)
	}
}

func TestIsEditField(t *testing.T) {
	for _, field := range []string{"calories", "Protein", " carbs", "fat", "carbohydrates"} {
		if !IsEditField(field) {
			t.Errorf("IsEditField(%q) = false, expected true", field)
		}
	}
	for _, field := range []string{"", "fiber", "kcal"} {
		if IsEditField(field) {
			t.Errorf("IsEditField(%q) = true, expected false", field)
		}
	}
}
