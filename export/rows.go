package export

import (
	"github.com/abhimishr/gcam-core/policycost"
	"github.com/shopspring/decimal"
)

const (
	CategoryGeneral = "General"

	VarPolicyCostUndisc      = "PolicyCostUndisc"
	VarPolicyCostTotalUndisc = "PolicyCostTotalUndisc"
	VarPolicyCostTotalDisc   = "PolicyCostTotalDisc"

	LabelPeriod   = "Period"
	LabelAllYears = "AllYears"
)

// Row is one line of the tabular output: a value per model period.
type Row struct {
	Region   string
	Category string
	Variable string
	Label    string
	Units    string
	Values   []decimal.Decimal
}

// BuildRows converts the costs of a result into tabular rows. Per-period
// costs fill every slot, the totals only the last one.
func BuildRows(r *policycost.Result, unitConversion float64, units string) []Row {
	maxPeriod := r.Modeltime.MaxPeriod()
	factor := decimal.NewFromFloat(unitConversion)
	regions := r.RegionalCostCurves.Regions()

	fnRow := func(region, variable, label string) Row {
		values := make([]decimal.Decimal, maxPeriod)
		for idx := range values {
			values[idx] = decimal.Zero
		}

		return Row{
			Region:   region,
			Category: CategoryGeneral,
			Variable: variable,
			Label:    label,
			Units:    units,
			Values:   values,
		}
	}

	rows := make([]Row, 0, 3*len(regions))

	for _, region := range regions {
		row := fnRow(region, VarPolicyCostUndisc, LabelPeriod)

		for period := 0; period < maxPeriod; period++ {
			cost, err := r.RegionalCostCurves[region].GetY(float64(r.Modeltime.PeriodToYear(period)))
			if err != nil {
				continue
			}

			row.Values[period] = decimal.NewFromFloat(cost).Mul(factor)
		}

		rows = append(rows, row)
	}

	for _, region := range regions {
		row := fnRow(region, VarPolicyCostTotalUndisc, LabelAllYears)
		row.Values[maxPeriod-1] = decimal.NewFromFloat(r.RegionalCosts[region]).Mul(factor)

		rows = append(rows, row)
	}

	for _, region := range regions {
		row := fnRow(region, VarPolicyCostTotalDisc, LabelAllYears)
		row.Values[maxPeriod-1] = decimal.NewFromFloat(r.RegionalDiscountedCosts[region]).Mul(factor)

		rows = append(rows, row)
	}

	return rows
}
