package policycost

import (
	"errors"
	"time"
)

// GlobalRegion is the reporting-only pseudo-region left out of cost totals.
const GlobalRegion = "global"

var (
	ErrNoFacade          = errors.New("no simulation facade")
	ErrRegionSetMismatch = errors.New("region set mismatch")
	ErrTrialData         = errors.New("bad trial data")
)

// TrialObserver is told about every sweep run and about the final totals.
type TrialObserver interface {
	ObserveTrial(scenario string, trial int, success bool, elapsed time.Duration)
	ObserveCosts(scenario string, globalCost, globalDiscountedCost float64)
}
