// Package config defines the data structures related to configuration and
// includes functions for loading and converting the plan config.
package config

import (
	"fmt"
	"io"
	"strings"

	"github.com/iwvelando/macro-planner/internal/nutrition"
	"github.com/iwvelando/macro-planner/pkg/constants"
	"github.com/iwvelando/macro-planner/pkg/validation"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for macro-planner.
type Configuration struct {
	Logging     LoggingConfig     `yaml:"logging,omitempty"`
	Output      OutputConfig      `yaml:"output,omitempty"`
	Patient     PatientConfig     `yaml:"patient"`
	Meals       MealsConfig       `yaml:"meals"`
	Adjustments AdjustmentsConfig `yaml:"adjustments"`
	Report      ReportConfig      `yaml:"report"`
	Suggestions SuggestionsConfig `yaml:"suggestions"`
	Save        SaveConfig        `yaml:"save,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv, yaml, report
}

// PatientConfig holds the patient's anthropometrics as written in the file.
type PatientConfig struct {
	Height        float64 `yaml:"height"` // cm
	Weight        float64 `yaml:"weight"` // kg
	Age           float64 `yaml:"age"`
	Sex           string  `yaml:"sex"`
	ActivityLevel string  `yaml:"activityLevel"`
	Goal          string  `yaml:"goal"`
}

// MealsConfig describes how the daily budget is split.
type MealsConfig struct {
	LargeCount  int               `yaml:"largeCount"`
	SmallCount  int               `yaml:"smallCount"`
	LargeShare  float64           `yaml:"largeShare"`
	SmallShare  float64           `yaml:"smallShare"`
	MacroShares MacroSharesConfig `yaml:"macroShares"`
}

// MacroSharesConfig holds macro percentages of each meal's calories.
type MacroSharesConfig struct {
	Protein float64 `yaml:"protein"`
	Carbs   float64 `yaml:"carbs"`
	Fat     float64 `yaml:"fat"`
}

// AdjustmentsConfig holds redistribution settings and the edits to replay
// after the split.
type AdjustmentsConfig struct {
	AutoRedistribute bool   `yaml:"autoRedistribute"`
	CalorieFloor     int    `yaml:"calorieFloor"`
	Edits            []Edit `yaml:"edits,omitempty"`
}

// Edit is one user change to one meal. Field is "calories" or a macro name.
type Edit struct {
	Meal  string `yaml:"meal"`
	Field string `yaml:"field"`
	Value int    `yaml:"value"`
}

// ReportConfig selects the deviation mode.
type ReportConfig struct {
	Mode             string  `yaml:"mode"`
	TolerancePercent float64 `yaml:"tolerancePercent"`
}

// SuggestionsConfig controls the food suggestion step.
type SuggestionsConfig struct {
	Enabled  bool  `yaml:"enabled"`
	Seed     int64 `yaml:"seed"`
	MaxFoods int   `yaml:"maxFoods"`
}

// SaveConfig names where a finished plan is written.
type SaveConfig struct {
	Path string `yaml:"path,omitempty"`
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yml")
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("logging.level", "")
	v.SetDefault("logging.format", "")
	v.SetDefault("output.format", "")
	v.SetDefault("meals.largecount", constants.DefaultLargeMealCount)
	v.SetDefault("meals.smallcount", constants.DefaultSmallMealCount)
	v.SetDefault("meals.largeshare", constants.DefaultLargeSharePct)
	v.SetDefault("meals.smallshare", constants.DefaultSmallSharePct)
	v.SetDefault("meals.macroshares.protein", constants.DefaultProteinSharePct)
	v.SetDefault("meals.macroshares.carbs", constants.DefaultCarbsSharePct)
	v.SetDefault("meals.macroshares.fat", constants.DefaultFatSharePct)
	v.SetDefault("adjustments.autoredistribute", true)
	v.SetDefault("adjustments.caloriefloor", constants.DefaultCalorieFloor)
	v.SetDefault("report.mode", string(nutrition.ReportModeTolerance))
	v.SetDefault("report.tolerancepercent", constants.DefaultTolerancePct)
	v.SetDefault("suggestions.enabled", false)
	v.SetDefault("suggestions.seed", 1)
	v.SetDefault("suggestions.maxfoods", constants.DefaultMaxFoodsPerMeal)

	// AutomaticEnv only reaches keys viper already knows about, so keys
	// without a default are bound explicitly.
	for _, key := range envOnlyKeys {
		_ = v.BindEnv(key)
	}
	return v
}

// envOnlyKeys can be overridden from the environment but have no default.
var envOnlyKeys = []string{
	"logging.outputfile",
	"patient.height",
	"patient.weight",
	"patient.age",
	"patient.sex",
	"patient.activitylevel",
	"patient.goal",
	"save.path",
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}
	return decode(v)
}

// LoadConfigurationFromReader loads a YAML-formatted configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := newViper()
	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %s", err)
	}
	return decode(v)
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}
	return &configuration, nil
}

// Profile converts the patient section into a normalized profile.
func (c *Configuration) Profile() (nutrition.PatientProfile, error) {
	p := nutrition.PatientProfile{
		Height:        c.Patient.Height,
		Weight:        c.Patient.Weight,
		Age:           c.Patient.Age,
		Sex:           nutrition.Sex(c.Patient.Sex),
		ActivityLevel: nutrition.ActivityLevel(c.Patient.ActivityLevel),
		Goal:          nutrition.Goal(c.Patient.Goal),
	}
	return p.Normalize()
}

// SplitOptions converts the meals section.
func (c *Configuration) SplitOptions() nutrition.SplitOptions {
	return nutrition.SplitOptions{
		LargeCount:    c.Meals.LargeCount,
		SmallCount:    c.Meals.SmallCount,
		LargeSharePct: c.Meals.LargeShare,
		SmallSharePct: c.Meals.SmallShare,
		MacroShares: nutrition.MacroShares{
			Protein: c.Meals.MacroShares.Protein,
			Carbs:   c.Meals.MacroShares.Carbs,
			Fat:     c.Meals.MacroShares.Fat,
		},
	}
}

// EngineOptions converts the adjustments section.
func (c *Configuration) EngineOptions() nutrition.EngineOptions {
	return nutrition.EngineOptions{
		AutoRedistribute: c.Adjustments.AutoRedistribute,
		CalorieFloor:     c.Adjustments.CalorieFloor,
	}
}

// ReportOptions converts the report section.
func (c *Configuration) ReportOptions() (nutrition.ReportOptions, error) {
	mode, err := nutrition.ParseReportMode(c.Report.Mode)
	if err != nil {
		return nutrition.ReportOptions{}, err
	}
	return nutrition.ReportOptions{Mode: mode, TolerancePct: c.Report.TolerancePercent}, nil
}

// ValidateConfiguration performs general validation of the configuration and returns warnings
func (c *Configuration) ValidateConfiguration() []string {
	var warnings []string
	warnings = append(warnings, validation.ValidateAnthropometrics(c.Patient.Height, c.Patient.Weight, c.Patient.Age)...)
	warnings = append(warnings, validation.ValidateMealShares(
		c.Meals.LargeCount, c.Meals.SmallCount, c.Meals.LargeShare, c.Meals.SmallShare)...)
	warnings = append(warnings, validation.ValidateMacroShares(
		c.Meals.MacroShares.Protein, c.Meals.MacroShares.Carbs, c.Meals.MacroShares.Fat)...)

	for i, edit := range c.Adjustments.Edits {
		if edit.Meal == "" {
			warnings = append(warnings, fmt.Sprintf("Edit %d has no meal id and will fail", i+1))
		}
		if !validation.IsEditField(edit.Field) {
			warnings = append(warnings, fmt.Sprintf("Edit %d has unknown field '%s'", i+1, edit.Field))
		}
		if edit.Value < 0 {
			warnings = append(warnings, fmt.Sprintf("Edit %d sets a negative value (%d)", i+1, edit.Value))
		}
	}

	if c.Adjustments.CalorieFloor < 0 {
		warnings = append(warnings, fmt.Sprintf("Calorie floor %d is negative", c.Adjustments.CalorieFloor))
	}
	return warnings
}
