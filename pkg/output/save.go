package output

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/iwvelando/macro-planner/internal/nutrition"
	"github.com/iwvelando/macro-planner/internal/suggest"
	"gopkg.in/yaml.v3"
)

// SavedPlan is the persisted form of a finished plan.
type SavedPlan struct {
	ID            uuid.UUID                  `json:"id" yaml:"id"`
	CreatedAt     time.Time                  `json:"createdAt" yaml:"createdAt"`
	Patient       nutrition.PatientProfile   `json:"patient" yaml:"patient"`
	Budget        nutrition.MacroTarget      `json:"budget" yaml:"budget"`
	Meals         nutrition.Sequence         `json:"meals" yaml:"meals"`
	Report        nutrition.DeviationReport  `json:"report" yaml:"report"`
	Prescriptions []suggest.MealPrescription `json:"prescriptions,omitempty" yaml:"prescriptions,omitempty"`
}

// NewSavedPlan stamps a plan with a fresh id.
func NewSavedPlan(plan Plan, now time.Time) SavedPlan {
	return SavedPlan{
		ID:            uuid.New(),
		CreatedAt:     now.UTC(),
		Patient:       plan.Profile,
		Budget:        plan.Estimate.Target,
		Meals:         plan.Meals,
		Report:        plan.Report,
		Prescriptions: plan.Prescriptions,
	}
}

// YamlFormat outputs the plan as YAML.
func YamlFormat(plan Plan) {
	_ = WriteYAML(os.Stdout, plan)
}

// WriteYAML encodes v as YAML with two-space indentation.
func WriteYAML(w io.Writer, v interface{}) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return enc.Close()
}

// SavePlan writes the plan to path, creating parent directories.
func SavePlan(path string, plan SavedPlan) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := WriteYAML(file, plan); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

// LoadPlan reads a plan written by SavePlan.
func LoadPlan(path string) (SavedPlan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return SavedPlan{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	var plan SavedPlan
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return SavedPlan{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return plan, nil
}
