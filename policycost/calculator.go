package policycost

import (
	"context"

	"github.com/abhimishr/gcam-core/config"
	"github.com/abhimishr/gcam-core/curve"
	"github.com/abhimishr/gcam-core/simulation"
	"github.com/abhimishr/gcam-core/watchdog"
	"github.com/godruoyi/go-snowflake"
	"github.com/sgostarter/i/l"
)

// Calculator derives the total cost of a carbon policy from a sweep of model
// runs under scaled fixed taxes. It drives one facade and must not share it.
//
// Every call of CalculateAbatementCostCurve starts from empty state. The sweep
// leaves the facade holding the last trial, so the baseline has to be run
// again before computing a second time on the same facade.
type Calculator struct {
	logger l.Wrapper
	cfg    config.CostCurve
	facade simulation.Facade

	watchDog        watchdog.WatchDog
	observer        TrialObserver
	snapshotStorage curve.Storage

	runID        uint64
	trialSuccess []bool

	// indexed by trial, the last one is the baseline
	emissionsQCurves []curve.RegionCurves
	emissionsTCurves []curve.RegionCurves

	// indexed by period
	periodCostCurves []curve.RegionCurves

	regionalCostCurves      curve.RegionCurves
	regionalCosts           map[string]float64
	regionalDiscountedCosts map[string]float64

	globalCost           float64
	globalDiscountedCost float64

	ranCosts bool
}

func NewCalculator(facade simulation.Facade, cfg config.CostCurve, logger l.Wrapper, opts ...Option) (*Calculator, error) {
	if logger == nil {
		logger = l.NewNopLoggerWrapper()
	}

	if facade == nil {
		return nil, ErrNoFacade
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Calculator{
		logger: logger.WithFields(l.StringField(l.ClsKey, "Calculator"), l.StringField("scenario", facade.GetName())),
		cfg:    cfg,
		facade: facade,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// CalculateAbatementCostCurve runs the tax sweep and derives the cost
// curves and totals. The bool is false when some trial run did not solve;
// the curves are still built from what that run reported. An error means
// the trial data could not be combined at all and no result exists.
//
// Without an active policy market there is nothing to cost: it returns true
// and Ran stays false.
func (c *Calculator) CalculateAbatementCostCurve(ctx context.Context) (success bool, err error) {
	c.reset()

	gas := c.cfg.AbatedGas

	if c.facade.GetPrice(gas, c.cfg.PolicyMarketRegion, c.cfg.PolicyCheckPeriod) == simulation.NoMarketPrice {
		c.logger.Info("Skipping cost curve calculations for non-policy model run.")

		success = true

		return
	}

	numPoints := c.cfg.NumPoints

	c.runID = snowflake.ID()
	c.trialSuccess = make([]bool, numPoints+1)
	c.emissionsQCurves = make([]curve.RegionCurves, numPoints+1)
	c.emissionsTCurves = make([]curve.RegionCurves, numPoints+1)

	c.emissionsQCurves[numPoints] = c.facade.GetEmissionsQuantityCurves(gas)
	c.emissionsTCurves[numPoints] = c.facade.GetEmissionsPriceCurves(gas)
	c.trialSuccess[numPoints] = true
	c.archiveTrial(numPoints)

	success = c.runTrials(ctx)

	if err = c.createCostCurvesByPeriod(); err != nil {
		c.logger.WithFields(l.ErrorField(err)).Error("create period cost curves failed")

		c.reset()

		success = false

		return
	}

	c.createRegionalCostCurves()

	c.ranCosts = true

	if c.observer != nil {
		c.observer.ObserveCosts(c.facade.GetName(), c.globalCost, c.globalDiscountedCost)
	}

	return
}

func (c *Calculator) Ran() bool {
	return c.ranCosts
}

func (c *Calculator) reset() {
	c.runID = 0
	c.trialSuccess = nil
	c.emissionsQCurves = nil
	c.emissionsTCurves = nil
	c.periodCostCurves = nil
	c.regionalCostCurves = make(curve.RegionCurves)
	c.regionalCosts = make(map[string]float64)
	c.regionalDiscountedCosts = make(map[string]float64)
	c.globalCost = 0
	c.globalDiscountedCost = 0
	c.ranCosts = false
}
