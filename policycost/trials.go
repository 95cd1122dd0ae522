package policycost

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/abhimishr/gcam-core/curve"
	"github.com/abhimishr/gcam-core/simulation"
	"github.com/sgostarter/i/l"
)

// TrialFraction is the share of the baseline tax applied in a trial.
func TrialFraction(trial, numPoints int) float64 {
	return float64(trial) / float64(numPoints)
}

// runTrials runs the model once per sweep point with the baseline tax scaled
// by the trial fraction and stores the emissions curves of every run. It
// answers whether all runs solved.
func (c *Calculator) runTrials(ctx context.Context) bool {
	gas := c.cfg.AbatedGas
	numPoints := c.cfg.NumPoints
	baseTaxes := c.emissionsTCurves[numPoints]

	if c.watchDog != nil {
		c.watchDog.Start()
		defer c.watchDog.Stop()
	}

	success := true

	for trial := 0; trial < numPoints; trial++ {
		fraction := TrialFraction(trial, numPoints)

		trialOK := c.applyTrialTaxes(baseTaxes, fraction)

		c.logger.WithFields(l.IntField("trial", trial)).Infof("Starting cost curve point run number %d.", trial)

		start := time.Now()

		if !c.facade.Run(ctx, simulation.RunAllPeriods, true, strconv.Itoa(trial)) {
			c.logger.WithFields(l.IntField("trial", trial), l.StringField("fraction", strconv.FormatFloat(fraction, 'f', -1, 64))).
				Warn("cost curve point run did not solve, keeping its results")

			trialOK = false
		}

		elapsed := time.Since(start)

		c.trialSuccess[trial] = trialOK
		success = success && trialOK

		c.emissionsQCurves[trial] = c.facade.GetEmissionsQuantityCurves(gas)
		c.emissionsTCurves[trial] = c.facade.GetEmissionsPriceCurves(gas)
		c.archiveTrial(trial)

		if c.watchDog != nil {
			c.watchDog.Touch()
		}

		if c.observer != nil {
			c.observer.ObserveTrial(c.facade.GetName(), trial, trialOK, elapsed)
		}
	}

	return success
}

// applyTrialTaxes builds the scaled tax vector of every region before handing
// any of them to the facade.
func (c *Calculator) applyTrialTaxes(baseTaxes curve.RegionCurves, fraction float64) (ok bool) {
	ok = true

	modeltime := c.facade.GetModeltime()
	regions := baseTaxes.Regions()
	taxes := make(map[string][]float64, len(regions))

	for _, region := range regions {
		currTaxes := make([]float64, modeltime.MaxPeriod())

		for period := range currTaxes {
			year := modeltime.PeriodToYear(period)

			baseTax, err := baseTaxes[region].GetY(float64(year))
			if err != nil {
				c.logger.WithFields(l.ErrorField(err), l.StringField("region", region), l.IntField("year", year)).
					Warn("no baseline tax, using zero")

				ok = false

				continue
			}

			currTaxes[period] = baseTax * fraction
		}

		taxes[region] = currTaxes
	}

	for _, region := range regions {
		if err := c.facade.SetTax(c.cfg.AbatedGas, region, taxes[region]); err != nil {
			c.logger.WithFields(l.ErrorField(err), l.StringField("region", region)).Warn("set fixed tax failed")

			ok = false
		}
	}

	return
}

func (c *Calculator) archiveTrial(trial int) {
	if c.snapshotStorage == nil {
		return
	}

	fnSave := func(kind string, rc curve.RegionCurves) {
		for _, region := range rc.Regions() {
			key := fmt.Sprintf("%d-trial-%d-%s-%s.yaml", c.runID, trial, strings.ReplaceAll(region, "/", "_"), kind)

			if err := c.snapshotStorage.Save(key, rc[region]); err != nil {
				c.logger.WithFields(l.ErrorField(err), l.StringField("key", key)).Error("archive trial curve failed")
			}
		}
	}

	fnSave("quantity", c.emissionsQCurves[trial])
	fnSave("price", c.emissionsTCurves[trial])
}
