package simulation

import (
	"fmt"
	"slices"

	"github.com/sgostarter/i/commerr"
)

// Modeltime maps period indexes to calendar years.
type Modeltime struct {
	years []int
}

func NewModeltime(years []int) (Modeltime, error) {
	if len(years) == 0 {
		return Modeltime{}, fmt.Errorf("%w: no periods", commerr.ErrInvalidArgument)
	}

	for idx := 1; idx < len(years); idx++ {
		if years[idx] <= years[idx-1] {
			return Modeltime{}, fmt.Errorf("%w: period years must increase, got %d after %d",
				commerr.ErrInvalidArgument, years[idx], years[idx-1])
		}
	}

	return Modeltime{years: slices.Clone(years)}, nil
}

func (mt Modeltime) MaxPeriod() int {
	return len(mt.years)
}

func (mt Modeltime) PeriodToYear(period int) int {
	return mt.years[period]
}

func (mt Modeltime) EndYear() int {
	if len(mt.years) == 0 {
		return 0
	}

	return mt.years[len(mt.years)-1]
}
