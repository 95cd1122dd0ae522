package synthetic

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/abhimishr/gcam-core/curve"
	"github.com/abhimishr/gcam-core/simulation"
	"github.com/sgostarter/i/commerr"
	"github.com/sgostarter/i/l"
)

type source struct {
	gas         string
	driver      EmissionsDriver
	coefficient float64
}

type regionResult struct {
	quantities map[string][]float64 // gas -> per period
	taxes      []float64
}

// Simulation is a deterministic stand-in for the economic model. Input
// demand falls with the carbon tax as base/(1+elasticity*tax) and emissions
// follow from the regional emissions drivers.
type Simulation struct {
	logger l.Wrapper

	scenario  Scenario
	modeltime simulation.Modeltime
	sources   map[string][]source

	lock       sync.Mutex
	fixedTaxes map[string][]float64
	results    map[string]*regionResult
	runTags    []string
}

func NewSimulation(scenario Scenario, logger l.Wrapper) (*Simulation, error) {
	if logger == nil {
		logger = l.NewNopLoggerWrapper()
	}

	if err := scenario.Validate(); err != nil {
		return nil, err
	}

	modeltime, err := simulation.NewModeltime(scenario.Years)
	if err != nil {
		return nil, err
	}

	sources := make(map[string][]source)

	for _, region := range scenario.Regions {
		for _, spec := range region.Sources {
			sources[region.Name] = append(sources[region.Name], source{
				gas:         spec.Gas,
				driver:      NewEmissionsDriver(spec.Driver),
				coefficient: spec.Coefficient,
			})
		}
	}

	return &Simulation{
		logger:     logger.WithFields(l.StringField(l.ClsKey, "synthetic.Simulation"), l.StringField("scenario", scenario.Name)),
		scenario:   scenario,
		modeltime:  modeltime,
		sources:    sources,
		fixedTaxes: make(map[string][]float64),
		results:    make(map[string]*regionResult),
	}, nil
}

func (sim *Simulation) GetName() string {
	return sim.scenario.Name
}

func (sim *Simulation) GetModeltime() simulation.Modeltime {
	return sim.modeltime
}

func (sim *Simulation) GetPrice(gas, region string, period int) float64 {
	sim.lock.Lock()
	defer sim.lock.Unlock()

	if gas != sim.scenario.PolicyGas || period < 0 || period >= sim.modeltime.MaxPeriod() {
		return simulation.NoMarketPrice
	}

	spec, ok := sim.region(region)
	if !ok {
		return simulation.NoMarketPrice
	}

	if taxes, ok := sim.fixedTaxes[region]; ok {
		return taxes[period]
	}

	if len(spec.PolicyTax) == 0 {
		return simulation.NoMarketPrice
	}

	return spec.PolicyTax[period]
}

func (sim *Simulation) SetTax(gas, region string, taxes []float64) error {
	if gas != sim.scenario.PolicyGas {
		return fmt.Errorf("%w: no policy for gas %s", commerr.ErrNotFound, gas)
	}

	if len(taxes) != sim.modeltime.MaxPeriod() {
		return fmt.Errorf("%w: %d taxes for %d periods", commerr.ErrInvalidArgument, len(taxes), sim.modeltime.MaxPeriod())
	}

	if _, ok := sim.region(region); !ok && region != GlobalRegion {
		return fmt.Errorf("%w: region %s", commerr.ErrNotFound, region)
	}

	sim.lock.Lock()
	defer sim.lock.Unlock()

	sim.fixedTaxes[region] = slices.Clone(taxes)

	return nil
}

// ClearTaxes drops every fixed tax so the next run follows the scenario
// policy again.
func (sim *Simulation) ClearTaxes() {
	sim.lock.Lock()
	defer sim.lock.Unlock()

	sim.fixedTaxes = make(map[string][]float64)
}

func (sim *Simulation) RunTags() []string {
	sim.lock.Lock()
	defer sim.lock.Unlock()

	return slices.Clone(sim.runTags)
}

func (sim *Simulation) Run(ctx context.Context, scope simulation.RunScope, _ bool, runTag string) bool {
	if err := ctx.Err(); err != nil {
		sim.logger.WithFields(l.ErrorField(err), l.StringField("tag", runTag)).Error("run cancelled")

		return false
	}

	lastPeriod := sim.modeltime.MaxPeriod() - 1
	if scope != simulation.RunAllPeriods && int(scope) < lastPeriod {
		lastPeriod = int(scope)
	}

	sim.lock.Lock()
	defer sim.lock.Unlock()

	sim.runTags = append(sim.runTags, runTag)

	for _, region := range sim.scenario.Regions {
		sim.results[region.Name] = sim.solveRegion(region, lastPeriod)
	}

	if slices.Contains(sim.scenario.FailTags, runTag) {
		sim.logger.WithFields(l.StringField("tag", runTag)).Warn("model did not solve")

		return false
	}

	sim.logger.WithFields(l.StringField("tag", runTag)).Debug("model solved")

	return true
}

func (sim *Simulation) GetEmissionsQuantityCurves(gas string) curve.RegionCurves {
	sim.lock.Lock()
	defer sim.lock.Unlock()

	rc := make(curve.RegionCurves)
	if len(sim.results) == 0 {
		return rc
	}

	global := make([]float64, sim.modeltime.MaxPeriod())

	for _, region := range sim.scenario.Regions {
		quantities := sim.results[region.Name].quantities[gas]
		if quantities == nil {
			quantities = make([]float64, sim.modeltime.MaxPeriod())
		}

		for period, q := range quantities {
			global[period] += q
		}

		rc[region.Name] = sim.yearCurve(region.Name, quantities)
	}

	rc[GlobalRegion] = sim.yearCurve(GlobalRegion, global)

	return rc
}

func (sim *Simulation) GetEmissionsPriceCurves(gas string) curve.RegionCurves {
	sim.lock.Lock()
	defer sim.lock.Unlock()

	rc := make(curve.RegionCurves)
	if len(sim.results) == 0 || gas != sim.scenario.PolicyGas {
		return rc
	}

	global := make([]float64, sim.modeltime.MaxPeriod())

	for _, region := range sim.scenario.Regions {
		taxes := sim.results[region.Name].taxes

		for period, tax := range taxes {
			global[period] += tax / float64(len(sim.scenario.Regions))
		}

		rc[region.Name] = sim.yearCurve(region.Name, taxes)
	}

	rc[GlobalRegion] = sim.yearCurve(GlobalRegion, global)

	return rc
}

func (sim *Simulation) region(name string) (RegionSpec, bool) {
	for _, region := range sim.scenario.Regions {
		if region.Name == name {
			return region, true
		}
	}

	return RegionSpec{}, false
}

// taxFor expects sim.lock held.
func (sim *Simulation) taxFor(region RegionSpec, period int) float64 {
	if taxes, ok := sim.fixedTaxes[region.Name]; ok {
		return taxes[period]
	}

	if taxes, ok := sim.fixedTaxes[GlobalRegion]; ok {
		return taxes[period]
	}

	if len(region.PolicyTax) == 0 {
		return 0
	}

	return region.PolicyTax[period]
}

func (sim *Simulation) solveRegion(region RegionSpec, lastPeriod int) *regionResult {
	maxPeriod := sim.modeltime.MaxPeriod()

	result := &regionResult{
		quantities: make(map[string][]float64),
		taxes:      make([]float64, maxPeriod),
	}

	inputs := make([]Input, 0, len(region.Inputs))
	for _, spec := range region.Inputs {
		inputs = append(inputs, Input{Name: spec.Name, Demand: make([]float64, maxPeriod)})
	}

	for period := 0; period <= lastPeriod; period++ {
		tax := sim.taxFor(region, period)
		result.taxes[period] = tax

		for idx, spec := range region.Inputs {
			inputs[idx].Demand[period] = spec.BaseDemand[period] / (1 + spec.TaxElasticity*tax)
		}

		for _, src := range sim.sources[region.Name] {
			if result.quantities[src.gas] == nil {
				result.quantities[src.gas] = make([]float64, maxPeriod)
			}

			result.quantities[src.gas][period] += src.coefficient * src.driver.CalcEmissionsDriver(inputs, period)
		}
	}

	return result
}

func (sim *Simulation) yearCurve(title string, values []float64) curve.Curve {
	c := curve.NewPointSetCurve(curve.WithTitle(title))

	for period, v := range values {
		_ = c.AddPoint(float64(sim.modeltime.PeriodToYear(period)), v)
	}

	return c
}
