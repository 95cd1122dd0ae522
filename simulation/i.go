package simulation

import (
	"context"

	"github.com/abhimishr/gcam-core/curve"
)

// NoMarketPrice is what GetPrice answers when no policy market exists.
const NoMarketPrice = -1.0

type RunScope int

const (
	RunAllPeriods RunScope = -1
)

// Facade is the slice of the simulation engine the cost calculator drives.
// Implementations hold mutable policy state and must not be shared between
// concurrent calculators.
type Facade interface {
	GetName() string
	GetModeltime() Modeltime

	GetPrice(gas, region string, period int) float64

	// GetEmissionsQuantityCurves and GetEmissionsPriceCurves return fresh
	// year-indexed curves owned by the caller.
	GetEmissionsQuantityCurves(gas string) curve.RegionCurves
	GetEmissionsPriceCurves(gas string) curve.RegionCurves

	SetTax(gas, region string, taxes []float64) error

	Run(ctx context.Context, scope RunScope, printDebugging bool, runTag string) bool
}
