package policycost

import (
	"github.com/abhimishr/gcam-core/curve"
	"github.com/sgostarter/i/l"
	"gonum.org/v1/gonum/floats"
)

// createRegionalCostCurves integrates each period cost curve from zero to the
// largest abatement reached, strings the period costs into a cost-by-year
// curve per region and integrates that over the reporting horizon, once as is
// and once discounted to the start year.
func (c *Calculator) createRegionalCostCurves() {
	if len(c.periodCostCurves) == 0 {
		return
	}

	modeltime := c.facade.GetModeltime()
	startYear := float64(c.cfg.DiscountStartYear)
	endYear := float64(modeltime.EndYear())

	regions := c.periodCostCurves[0].Regions()
	costs := make([]float64, 0, len(regions))
	discountedCosts := make([]float64, 0, len(regions))

	for _, region := range regions {
		if region == GlobalRegion {
			continue
		}

		costCurve := curve.NewPointSetCurve(curve.WithTitle(region))

		for period, periodCurves := range c.periodCostCurves {
			year := modeltime.PeriodToYear(period)
			periodCost := periodCurves[region].GetIntegralToEnd(0)

			if err := costCurve.AddPoint(float64(year), periodCost); err != nil {
				c.logger.WithFields(l.ErrorField(err), l.StringField("region", region), l.IntField("year", year)).
					Error("add period cost failed")
			}
		}

		regionalCost := costCurve.GetIntegral(startYear, endYear)
		discountedRegionalCost := costCurve.GetDiscountedValue(startYear, endYear, c.cfg.DiscountRate)

		c.regionalCostCurves[region] = costCurve
		c.regionalCosts[region] = regionalCost
		c.regionalDiscountedCosts[region] = discountedRegionalCost

		costs = append(costs, regionalCost)
		discountedCosts = append(discountedCosts, discountedRegionalCost)
	}

	c.globalCost = floats.Sum(costs)
	c.globalDiscountedCost = floats.Sum(discountedCosts)

	c.logger.WithFields(l.StringField("globalCost", formatCost(c.globalCost)),
		l.StringField("globalDiscountedCost", formatCost(c.globalDiscountedCost))).Info("policy cost computed")
}
