package export

import (
	"encoding/xml"

	"github.com/abhimishr/gcam-core/curve"
	"github.com/abhimishr/gcam-core/policycost"
)

type DataPoint struct {
	X float64 `xml:"x"`
	Y float64 `xml:"y"`
}

type PointSetCurve struct {
	Name           string      `xml:"name,attr"`
	NumericalLabel int         `xml:"numericalLabel"`
	Points         []DataPoint `xml:"DataPoint"`
}

type CostCurves struct {
	Year   int             `xml:"year,attr"`
	Curves []PointSetCurve `xml:"PointSetCurve"`
}

type RegionValue struct {
	Name  string  `xml:"name,attr"`
	Value float64 `xml:",chardata"`
}

// Document is the structural output of one computation. Values are in the
// units the model reported, the tabular rows carry the converted ones.
type Document struct {
	XMLName xml.Name `xml:"CostCurvesInfo"`

	PeriodCostCurves           []CostCurves    `xml:"PeriodCostCurves>CostCurves"`
	RegionalCostCurvesByPeriod []PointSetCurve `xml:"RegionalCostCurvesByPeriod>PointSetCurve"`
	RegionalUndiscountedCosts  []RegionValue   `xml:"RegionalUndiscountedCosts>UndiscountedCost"`
	RegionalDiscountedCosts    []RegionValue   `xml:"RegionalDiscountedCosts>DiscountedCost"`

	GlobalUndiscountedTotalCost float64 `xml:"GlobalUndiscountedTotalCost"`
	GlobalDiscountedCost        float64 `xml:"GlobalDiscountedCost"`
}

func NewDocument(r *policycost.Result) *Document {
	doc := &Document{
		PeriodCostCurves:            make([]CostCurves, 0, len(r.PeriodCostCurves)),
		GlobalUndiscountedTotalCost: r.GlobalCost,
		GlobalDiscountedCost:        r.GlobalDiscountedCost,
	}

	for period, rc := range r.PeriodCostCurves {
		doc.PeriodCostCurves = append(doc.PeriodCostCurves, CostCurves{
			Year:   r.Modeltime.PeriodToYear(period),
			Curves: toPointSetCurves(rc),
		})
	}

	doc.RegionalCostCurvesByPeriod = toPointSetCurves(r.RegionalCostCurves)

	for _, region := range r.RegionalCostCurves.Regions() {
		doc.RegionalUndiscountedCosts = append(doc.RegionalUndiscountedCosts,
			RegionValue{Name: region, Value: r.RegionalCosts[region]})
		doc.RegionalDiscountedCosts = append(doc.RegionalDiscountedCosts,
			RegionValue{Name: region, Value: r.RegionalDiscountedCosts[region]})
	}

	return doc
}

func (doc *Document) Marshal() ([]byte, error) {
	d, err := xml.MarshalIndent(doc, "", "\t")
	if err != nil {
		return nil, err
	}

	return append([]byte(xml.Header), d...), nil
}

func toPointSetCurves(rc curve.RegionCurves) []PointSetCurve {
	curves := make([]PointSetCurve, 0, len(rc))

	for _, region := range rc.Regions() {
		c := rc[region]

		psc := PointSetCurve{
			Name:           c.GetTitle(),
			NumericalLabel: c.GetNumericalLabel(),
		}

		for _, p := range c.Points() {
			psc.Points = append(psc.Points, DataPoint{X: p.X, Y: p.Y})
		}

		curves = append(curves, psc)
	}

	return curves
}
