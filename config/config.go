package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/sgostarter/i/commerr"
	"github.com/sgostarter/libconfig"
	"github.com/spf13/cast"
)

const (
	DefaultAbatedGas          = "CO2"
	DefaultNumPoints          = 5
	DefaultDiscountRate       = 0.05
	DefaultDiscountStartYear  = 2005
	DefaultPolicyMarketRegion = "USA"
	DefaultPolicyCheckPeriod  = 1

	DefaultOutputFileName = "cost_curves_{scenario}.xml"
	DefaultUpdateLocation = "/scenario/world/region[last()]"
	DefaultUnitConversion = 2.212 // 1975 to 1990 dollars
	DefaultUnits          = "(millions)90US$"

	ScenarioPlaceholder = "{scenario}"
)

// CostCurve holds everything the cost calculator reads.
type CostCurve struct {
	AbatedGas          string  `yaml:"abatedGas" json:"abatedGas" split_words:"true"`
	NumPoints          int     `yaml:"numPoints" json:"numPoints" split_words:"true"`
	DiscountRate       float64 `yaml:"discountRate" json:"discountRate" split_words:"true"`
	DiscountStartYear  int     `yaml:"discountStartYear" json:"discountStartYear" split_words:"true"`
	PolicyMarketRegion string  `yaml:"policyMarketRegion" json:"policyMarketRegion" split_words:"true"`
	PolicyCheckPeriod  int     `yaml:"policyCheckPeriod" json:"policyCheckPeriod" split_words:"true"`
}

type Output struct {
	Root           string  `yaml:"root" json:"root"`
	FileName       string  `yaml:"fileName" json:"fileName"`
	UpdateLocation string  `yaml:"updateLocation" json:"updateLocation"`
	UnitConversion float64 `yaml:"unitConversion" json:"unitConversion"`
	Units          string  `yaml:"units" json:"units"`

	SQLitePath   string `yaml:"sqlitePath,omitempty" json:"sqlitePath,omitempty"`
	RedisAddr    string `yaml:"redisAddr,omitempty" json:"redisAddr,omitempty"`
	RedisPrefix  string `yaml:"redisPrefix,omitempty" json:"redisPrefix,omitempty"`
	DocStoreRoot string `yaml:"docStoreRoot,omitempty" json:"docStoreRoot,omitempty"`
}

type Config struct {
	CostCurve CostCurve `yaml:"costCurve" json:"costCurve" split_words:"true"`
	Output    Output    `yaml:"output" json:"output"`
}

func DefaultCostCurve() CostCurve {
	return CostCurve{
		AbatedGas:          DefaultAbatedGas,
		NumPoints:          DefaultNumPoints,
		DiscountRate:       DefaultDiscountRate,
		DiscountStartYear:  DefaultDiscountStartYear,
		PolicyMarketRegion: DefaultPolicyMarketRegion,
		PolicyCheckPeriod:  DefaultPolicyCheckPeriod,
	}
}

func DefaultOutput() Output {
	return Output{
		Root:           ".",
		FileName:       DefaultOutputFileName,
		UpdateLocation: DefaultUpdateLocation,
		UnitConversion: DefaultUnitConversion,
		Units:          DefaultUnits,
	}
}

func Default() Config {
	return Config{
		CostCurve: DefaultCostCurve(),
		Output:    DefaultOutput(),
	}
}

func (cfg CostCurve) Validate() error {
	if cfg.AbatedGas == "" {
		return fmt.Errorf("%w: abated gas is empty", commerr.ErrInvalidArgument)
	}

	if cfg.NumPoints < 1 {
		return fmt.Errorf("%w: numPoints must be at least 1, got %d", commerr.ErrInvalidArgument, cfg.NumPoints)
	}

	if cfg.DiscountRate < 0 {
		return fmt.Errorf("%w: negative discount rate %v", commerr.ErrInvalidArgument, cfg.DiscountRate)
	}

	if cfg.PolicyMarketRegion == "" {
		return fmt.Errorf("%w: policy market region is empty", commerr.ErrInvalidArgument)
	}

	if cfg.PolicyCheckPeriod < 0 {
		return fmt.Errorf("%w: negative policy check period %d", commerr.ErrInvalidArgument, cfg.PolicyCheckPeriod)
	}

	return nil
}

func (cfg Output) Validate() error {
	if cfg.FileName == "" {
		return fmt.Errorf("%w: output file name is empty", commerr.ErrInvalidArgument)
	}

	if cfg.UnitConversion <= 0 {
		return fmt.Errorf("%w: unit conversion must be positive, got %v", commerr.ErrInvalidArgument, cfg.UnitConversion)
	}

	return nil
}

func (cfg Config) Validate() error {
	if err := cfg.CostCurve.Validate(); err != nil {
		return err
	}

	return cfg.Output.Validate()
}

// FileNameFor expands the output file name template for a scenario.
func (cfg Output) FileNameFor(scenario string) string {
	return strings.ReplaceAll(cfg.FileName, ScenarioPlaceholder, scenario)
}

// Load reads a yaml file over the defaults. Environment variables such as
// COST_CURVE_DISCOUNT_RATE fill in what the file leaves unset.
func Load(file string) (cfg Config, err error) {
	cfg = Default()

	configFileUsed, err := libconfig.LoadOnConfigPath(filepath.Base(file), []string{filepath.Dir(file)}, &cfg)
	if err != nil {
		return
	}

	if configFileUsed == "" {
		err = fmt.Errorf("%w: config file %s", commerr.ErrNotFound, file)

		return
	}

	err = cfg.Validate()

	return
}

// FromValues reads the flat key/value configuration section used by model
// configuration files, falling back to defaults for missing keys.
func FromValues(values map[string]any) (cfg Config, err error) {
	cfg = Default()

	if v, ok := values["AbatedGasForCostCurves"]; ok {
		cfg.CostCurve.AbatedGas = cast.ToString(v)
	}

	if v, ok := values["numPointsForCO2CostCurve"]; ok {
		if cfg.CostCurve.NumPoints, err = cast.ToIntE(v); err != nil {
			return
		}
	}

	if v, ok := values["discountRate"]; ok {
		if cfg.CostCurve.DiscountRate, err = cast.ToFloat64E(v); err != nil {
			return
		}
	}

	if v, ok := values["discount-start-year"]; ok {
		if cfg.CostCurve.DiscountStartYear, err = cast.ToIntE(v); err != nil {
			return
		}
	}

	if v, ok := values["costCurvesOutputFileName"]; ok {
		cfg.Output.FileName = cast.ToString(v)
	}

	err = cfg.Validate()

	return
}
