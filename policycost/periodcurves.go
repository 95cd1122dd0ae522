package policycost

import (
	"fmt"

	"github.com/abhimishr/gcam-core/curve"
)

// createCostCurvesByPeriod pairs, for each period and region, the abatement
// of every trial with the tax that produced it. Abatement is measured against
// the zero-tax trial, so it starts at zero and grows with the tax fraction.
func (c *Calculator) createCostCurvesByPeriod() error {
	numPoints := c.cfg.NumPoints
	baseline := c.emissionsQCurves[numPoints]

	for trial := 0; trial <= numPoints; trial++ {
		if !baseline.SameRegions(c.emissionsQCurves[trial]) {
			return fmt.Errorf("%w: trial %d emissions quantities cover %v, baseline covers %v",
				ErrRegionSetMismatch, trial, c.emissionsQCurves[trial].Regions(), baseline.Regions())
		}

		if !baseline.SameRegions(c.emissionsTCurves[trial]) {
			return fmt.Errorf("%w: trial %d emissions prices cover %v, baseline covers %v",
				ErrRegionSetMismatch, trial, c.emissionsTCurves[trial].Regions(), baseline.Regions())
		}
	}

	reference := c.emissionsQCurves[0]
	modeltime := c.facade.GetModeltime()

	c.periodCostCurves = make([]curve.RegionCurves, modeltime.MaxPeriod())

	for period := range c.periodCostCurves {
		year := float64(modeltime.PeriodToYear(period))

		c.periodCostCurves[period] = make(curve.RegionCurves, len(baseline))

		for _, region := range baseline.Regions() {
			referenceQ, err := reference[region].GetY(year)
			if err != nil {
				return fmt.Errorf("%w: region %s reference quantity in %v: %w", ErrTrialData, region, year, err)
			}

			periodCurve := curve.NewPointSetCurve(
				curve.WithDuplicatePolicy(curve.DuplicateOverwrite),
				curve.WithTitle(region+" period cost curve"),
			)
			periodCurve.SetNumericalLabel(period)

			for trial := 0; trial <= numPoints; trial++ {
				q, err := c.emissionsQCurves[trial][region].GetY(year)
				if err != nil {
					return fmt.Errorf("%w: trial %d region %s quantity in %v: %w", ErrTrialData, trial, region, year, err)
				}

				tax, err := c.emissionsTCurves[trial][region].GetY(year)
				if err != nil {
					return fmt.Errorf("%w: trial %d region %s tax in %v: %w", ErrTrialData, trial, region, year, err)
				}

				if err = periodCurve.AddPoint(referenceQ-q, tax); err != nil {
					return fmt.Errorf("%w: trial %d region %s in %v: %w", ErrTrialData, trial, region, year, err)
				}
			}

			c.periodCostCurves[period][region] = periodCurve
		}
	}

	return nil
}
