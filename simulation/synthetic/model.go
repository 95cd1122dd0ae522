package synthetic

import (
	"fmt"
	"path/filepath"

	"github.com/sgostarter/i/commerr"
	"github.com/sgostarter/libconfig"
)

const (
	DriverTypeInput  = "input-driver"
	DriverTypeOutput = "output-driver"

	GlobalRegion = "global"
)

type InputSpec struct {
	Name          string    `yaml:"name" json:"name"`
	BaseDemand    []float64 `yaml:"baseDemand" json:"baseDemand"`
	TaxElasticity float64   `yaml:"taxElasticity" json:"taxElasticity"`
}

type DriverSpec struct {
	Type      string `yaml:"type" json:"type"`
	InputName string `yaml:"inputName,omitempty" json:"inputName,omitempty"`
}

type SourceSpec struct {
	Gas         string     `yaml:"gas" json:"gas"`
	Driver      DriverSpec `yaml:"driver" json:"driver"`
	Coefficient float64    `yaml:"coefficient" json:"coefficient"`
}

type RegionSpec struct {
	Name      string       `yaml:"name" json:"name"`
	Inputs    []InputSpec  `yaml:"inputs" json:"inputs"`
	Sources   []SourceSpec `yaml:"sources" json:"sources"`
	PolicyTax []float64    `yaml:"policyTax,omitempty" json:"policyTax,omitempty"`
}

// Scenario fields never come from the environment.
type Scenario struct {
	Name      string       `yaml:"name" json:"name" ignored:"true"`
	PolicyGas string       `yaml:"policyGas" json:"policyGas" ignored:"true"`
	Years     []int        `yaml:"years" json:"years" ignored:"true"`
	Regions   []RegionSpec `yaml:"regions" json:"regions" ignored:"true"`
	FailTags  []string     `yaml:"failTags,omitempty" json:"failTags,omitempty" ignored:"true"`
}

func LoadScenario(file string) (scenario Scenario, err error) {
	scenarioFileUsed, err := libconfig.LoadOnConfigPath(filepath.Base(file), []string{filepath.Dir(file)}, &scenario)
	if err != nil {
		return
	}

	if scenarioFileUsed == "" {
		err = fmt.Errorf("%w: scenario file %s", commerr.ErrNotFound, file)
	}

	return
}

func (s *Scenario) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("%w: scenario has no name", commerr.ErrInvalidArgument)
	}

	if s.PolicyGas == "" {
		s.PolicyGas = "CO2"
	}

	seen := make(map[string]bool)

	for _, region := range s.Regions {
		if region.Name == "" || region.Name == GlobalRegion || seen[region.Name] {
			return fmt.Errorf("%w: bad region name %q", commerr.ErrInvalidArgument, region.Name)
		}

		seen[region.Name] = true

		if len(region.PolicyTax) != 0 && len(region.PolicyTax) != len(s.Years) {
			return fmt.Errorf("%w: region %s policy tax has %d periods, want %d",
				commerr.ErrInvalidArgument, region.Name, len(region.PolicyTax), len(s.Years))
		}

		inputs := make(map[string]bool)

		for _, input := range region.Inputs {
			if len(input.BaseDemand) != len(s.Years) {
				return fmt.Errorf("%w: region %s input %s has %d periods, want %d",
					commerr.ErrInvalidArgument, region.Name, input.Name, len(input.BaseDemand), len(s.Years))
			}

			if input.TaxElasticity < 0 {
				return fmt.Errorf("%w: region %s input %s has negative elasticity",
					commerr.ErrInvalidArgument, region.Name, input.Name)
			}

			inputs[input.Name] = true
		}

		for _, source := range region.Sources {
			switch source.Driver.Type {
			case DriverTypeInput:
				if !inputs[source.Driver.InputName] {
					return fmt.Errorf("%w: region %s source drives unknown input %q",
						commerr.ErrInvalidArgument, region.Name, source.Driver.InputName)
				}
			case DriverTypeOutput:
			default:
				return fmt.Errorf("%w: region %s unknown driver %q",
					commerr.ErrInvalidArgument, region.Name, source.Driver.Type)
			}
		}
	}

	return nil
}
