package synthetic

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/abhimishr/gcam-core/simulation"
	"github.com/sgostarter/i/commerr"
	"github.com/stretchr/testify/assert"
)

func utScenario() Scenario {
	return Scenario{
		Name:  "ut",
		Years: []int{2005, 2010, 2015},
		Regions: []RegionSpec{
			{
				Name: "USA",
				Inputs: []InputSpec{
					{Name: "coal", BaseDemand: []float64{100, 120, 140}, TaxElasticity: 0.01},
					{Name: "gas", BaseDemand: []float64{50, 50, 50}},
				},
				Sources: []SourceSpec{
					{Gas: "CO2", Driver: DriverSpec{Type: DriverTypeInput, InputName: "coal"}, Coefficient: 1},
					{Gas: "CO2", Driver: DriverSpec{Type: DriverTypeOutput}, Coefficient: 0.5},
				},
				PolicyTax: []float64{10, 20, 30},
			},
			{
				Name: "China",
				Inputs: []InputSpec{
					{Name: "oil", BaseDemand: []float64{10, 10, 10}, TaxElasticity: 0.1},
				},
				Sources: []SourceSpec{
					{Gas: "CO2", Driver: DriverSpec{Type: DriverTypeInput, InputName: "oil"}, Coefficient: 2},
				},
			},
		},
	}
}

func utSimulation(t *testing.T, scenario Scenario) *Simulation {
	sim, err := NewSimulation(scenario, nil)
	assert.Nil(t, err)

	return sim
}

func TestNewSimulationValidates(t *testing.T) {
	for name, fnBreak := range map[string]func(s *Scenario){
		"no name":       func(s *Scenario) { s.Name = "" },
		"global region": func(s *Scenario) { s.Regions[1].Name = GlobalRegion },
		"dup region":    func(s *Scenario) { s.Regions[1].Name = "USA" },
		"policy length": func(s *Scenario) { s.Regions[0].PolicyTax = []float64{1} },
		"demand length": func(s *Scenario) { s.Regions[0].Inputs[0].BaseDemand = []float64{1} },
		"elasticity":    func(s *Scenario) { s.Regions[0].Inputs[0].TaxElasticity = -1 },
		"driver type":   func(s *Scenario) { s.Regions[0].Sources[0].Driver.Type = "x" },
		"driver input":  func(s *Scenario) { s.Regions[0].Sources[0].Driver.InputName = "x" },
	} {
		s := utScenario()
		fnBreak(&s)

		_, err := NewSimulation(s, nil)
		assert.True(t, errors.Is(err, commerr.ErrInvalidArgument), name)
	}

	s := utScenario()
	s.Years = []int{2005, 2005, 2010}

	_, err := NewSimulation(s, nil)
	assert.NotNil(t, err)
}

func TestRunEmissions(t *testing.T) {
	sim := utSimulation(t, utScenario())
	assert.Equal(t, "CO2", sim.scenario.PolicyGas)

	assert.True(t, sim.Run(context.Background(), simulation.RunAllPeriods, false, ""))

	q := sim.GetEmissionsQuantityCurves("CO2")
	assert.Equal(t, []string{"China", "USA", GlobalRegion}, q.Regions())

	// coal 100/1.1, output (coal + gas) * 0.5
	coal := 100 / 1.1
	usa, err := q["USA"].GetY(2005)
	assert.Nil(t, err)
	assert.InDelta(t, coal+0.5*(coal+50), usa, 1e-9)

	china, err := q["China"].GetY(2005)
	assert.Nil(t, err)
	assert.InDelta(t, 20, china, 1e-9)

	global, err := q[GlobalRegion].GetY(2005)
	assert.Nil(t, err)
	assert.InDelta(t, usa+china, global, 1e-9)

	p := sim.GetEmissionsPriceCurves("CO2")
	tax, err := p["USA"].GetY(2015)
	assert.Nil(t, err)
	assert.EqualValues(t, 30, tax)

	tax, err = p[GlobalRegion].GetY(2015)
	assert.Nil(t, err)
	assert.EqualValues(t, 15, tax)

	assert.Equal(t, 0, len(sim.GetEmissionsPriceCurves("CH4")))

	ch4 := sim.GetEmissionsQuantityCurves("CH4")
	v, err := ch4["USA"].GetY(2010)
	assert.Nil(t, err)
	assert.EqualValues(t, 0, v)
}

func TestGetPrice(t *testing.T) {
	sim := utSimulation(t, utScenario())

	assert.EqualValues(t, 20, sim.GetPrice("CO2", "USA", 1))
	assert.EqualValues(t, simulation.NoMarketPrice, sim.GetPrice("CH4", "USA", 1))
	assert.EqualValues(t, simulation.NoMarketPrice, sim.GetPrice("CO2", "India", 1))
	assert.EqualValues(t, simulation.NoMarketPrice, sim.GetPrice("CO2", "China", 1))
	assert.EqualValues(t, simulation.NoMarketPrice, sim.GetPrice("CO2", "USA", 3))

	assert.Nil(t, sim.SetTax("CO2", "China", []float64{1, 2, 3}))
	assert.EqualValues(t, 2, sim.GetPrice("CO2", "China", 1))

	sim.ClearTaxes()
	assert.EqualValues(t, simulation.NoMarketPrice, sim.GetPrice("CO2", "China", 1))
}

func TestSetTax(t *testing.T) {
	sim := utSimulation(t, utScenario())

	assert.True(t, errors.Is(sim.SetTax("CH4", "USA", []float64{0, 0, 0}), commerr.ErrNotFound))
	assert.True(t, errors.Is(sim.SetTax("CO2", "India", []float64{0, 0, 0}), commerr.ErrNotFound))
	assert.True(t, errors.Is(sim.SetTax("CO2", "USA", []float64{0}), commerr.ErrInvalidArgument))

	taxes := []float64{1, 2, 3}
	assert.Nil(t, sim.SetTax("CO2", "USA", taxes))
	taxes[0] = 100

	assert.True(t, sim.Run(context.Background(), simulation.RunAllPeriods, false, "0"))

	tax, err := sim.GetEmissionsPriceCurves("CO2")["USA"].GetY(2005)
	assert.Nil(t, err)
	assert.EqualValues(t, 1, tax)

	// a global tax reaches regions without their own
	assert.Nil(t, sim.SetTax("CO2", GlobalRegion, []float64{5, 5, 5}))
	assert.True(t, sim.Run(context.Background(), simulation.RunAllPeriods, false, "1"))

	tax, err = sim.GetEmissionsPriceCurves("CO2")["China"].GetY(2010)
	assert.Nil(t, err)
	assert.EqualValues(t, 5, tax)

	tax, err = sim.GetEmissionsPriceCurves("CO2")["USA"].GetY(2010)
	assert.Nil(t, err)
	assert.EqualValues(t, 2, tax)

	assert.Equal(t, []string{"0", "1"}, sim.RunTags())
}

func TestRunScopeAndFailures(t *testing.T) {
	s := utScenario()
	s.FailTags = []string{"bad"}

	sim := utSimulation(t, s)

	assert.True(t, sim.Run(context.Background(), 0, false, ""))

	q := sim.GetEmissionsQuantityCurves("CO2")
	v, err := q["China"].GetY(2010)
	assert.Nil(t, err)
	assert.EqualValues(t, 0, v)

	assert.False(t, sim.Run(context.Background(), simulation.RunAllPeriods, false, "bad"))

	v, err = sim.GetEmissionsQuantityCurves("CO2")["China"].GetY(2010)
	assert.Nil(t, err)
	assert.InDelta(t, 20, v, 1e-9)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.False(t, sim.Run(ctx, simulation.RunAllPeriods, false, "cancelled"))
	assert.Equal(t, []string{"", "bad"}, sim.RunTags())
}

func TestLoadScenario(t *testing.T) {
	file := filepath.Join(t.TempDir(), "scenario.yaml")

	assert.Nil(t, os.WriteFile(file, []byte(`
name: policy
years: [2005, 2010]
regions:
  - name: USA
    policyTax: [10, 20]
    inputs:
      - name: coal
        baseDemand: [100, 100]
        taxElasticity: 0.02
    sources:
      - gas: CO2
        coefficient: 1
        driver:
          type: input-driver
          inputName: coal
`), 0o600))

	s, err := LoadScenario(file)
	assert.Nil(t, err)
	assert.Equal(t, "policy", s.Name)
	assert.Equal(t, []float64{10, 20}, s.Regions[0].PolicyTax)
	assert.Equal(t, DriverTypeInput, s.Regions[0].Sources[0].Driver.Type)

	_, err = NewSimulation(s, nil)
	assert.Nil(t, err)

	t.Setenv("POLICYGAS", "CH4")

	s, err = LoadScenario(file)
	assert.Nil(t, err)
	assert.Equal(t, "", s.PolicyGas)

	_, err = LoadScenario(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.True(t, errors.Is(err, commerr.ErrNotFound))
}
