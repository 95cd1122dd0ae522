package policycost

import (
	"maps"
	"slices"
	"strconv"

	"github.com/abhimishr/gcam-core/curve"
	"github.com/abhimishr/gcam-core/simulation"
)

// Result is a detached copy of a finished computation.
type Result struct {
	Scenario  string
	RunID     uint64
	Modeltime simulation.Modeltime

	TrialSuccess []bool

	PeriodCostCurves        []curve.RegionCurves
	RegionalCostCurves      curve.RegionCurves
	RegionalCosts           map[string]float64
	RegionalDiscountedCosts map[string]float64

	GlobalCost           float64
	GlobalDiscountedCost float64
}

// Result answers false until a computation has completed.
func (c *Calculator) Result() (*Result, bool) {
	if !c.ranCosts {
		return nil, false
	}

	periodCostCurves := make([]curve.RegionCurves, len(c.periodCostCurves))
	for period, rc := range c.periodCostCurves {
		periodCostCurves[period] = rc.Clone()
	}

	return &Result{
		Scenario:                c.facade.GetName(),
		RunID:                   c.runID,
		Modeltime:               c.facade.GetModeltime(),
		TrialSuccess:            slices.Clone(c.trialSuccess),
		PeriodCostCurves:        periodCostCurves,
		RegionalCostCurves:      c.regionalCostCurves.Clone(),
		RegionalCosts:           maps.Clone(c.regionalCosts),
		RegionalDiscountedCosts: maps.Clone(c.regionalDiscountedCosts),
		GlobalCost:              c.globalCost,
		GlobalDiscountedCost:    c.globalDiscountedCost,
	}, true
}

func formatCost(v float64) string {
	return strconv.FormatFloat(v, 'g', 10, 64)
}
