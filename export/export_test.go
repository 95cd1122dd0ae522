package export

import (
	"context"
	"encoding/xml"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/abhimishr/gcam-core/config"
	"github.com/abhimishr/gcam-core/curve"
	"github.com/abhimishr/gcam-core/policycost"
	"github.com/abhimishr/gcam-core/simulation"
	"github.com/sgostarter/i/l"
	"github.com/sgostarter/libeasygo/pathutils"
	"github.com/sgostarter/libeasygo/stg/fs/rawfs"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

const (
	utRoot = "ut-data"
)

func TestMain(m *testing.M) {
	_ = os.RemoveAll(utRoot)
	_ = pathutils.MustDirExists(utRoot)

	code := m.Run()

	_ = os.RemoveAll(utRoot)

	os.Exit(code)
}

func utCurve(t *testing.T, title string, label int, points ...curve.Point) curve.Curve {
	c, err := curve.NewPointSetCurveFromPoints(points, curve.WithTitle(title))
	assert.Nil(t, err)

	c.SetNumericalLabel(label)

	return c
}

func utResult(t *testing.T) *policycost.Result {
	modeltime, err := simulation.NewModeltime([]int{2005, 2010})
	assert.Nil(t, err)

	periodCurves := make([]curve.RegionCurves, 2)
	for period := range periodCurves {
		periodCurves[period] = curve.RegionCurves{
			"USA": utCurve(t, "USA period cost curve", period,
				curve.Point{X: 0, Y: 0}, curve.Point{X: 10, Y: 5}),
			policycost.GlobalRegion: utCurve(t, "global period cost curve", period,
				curve.Point{X: 0, Y: 0}, curve.Point{X: 30, Y: 5}),
		}
	}

	return &policycost.Result{
		Scenario:         "ut",
		RunID:            1,
		Modeltime:        modeltime,
		TrialSuccess:     []bool{true, true, true},
		PeriodCostCurves: periodCurves,
		RegionalCostCurves: curve.RegionCurves{
			"USA": utCurve(t, "USA", 0, curve.Point{X: 2005, Y: 10}, curve.Point{X: 2010, Y: 20}),
		},
		RegionalCosts:           map[string]float64{"USA": 75},
		RegionalDiscountedCosts: map[string]float64{"USA": 50},
		GlobalCost:              75,
		GlobalDiscountedCost:    50,
	}
}

type utSource struct {
	r *policycost.Result
}

func (s *utSource) Result() (*policycost.Result, bool) {
	return s.r, s.r != nil
}

type utTableWriter struct {
	err      error
	scenario string
	rows     []Row
}

func (w *utTableWriter) WriteRows(_ context.Context, scenario string, rows []Row) error {
	w.scenario = scenario
	w.rows = rows

	return w.err
}

type utAppender struct {
	doc      []byte
	location string
}

func (a *utAppender) AppendDocument(_ context.Context, doc []byte, location string) error {
	a.doc = doc
	a.location = location

	return nil
}

func TestDocument(t *testing.T) {
	d, err := NewDocument(utResult(t)).Marshal()
	assert.Nil(t, err)

	var doc Document
	assert.Nil(t, xml.Unmarshal(d, &doc))

	assert.Equal(t, 2, len(doc.PeriodCostCurves))
	assert.Equal(t, 2005, doc.PeriodCostCurves[0].Year)
	assert.Equal(t, 2010, doc.PeriodCostCurves[1].Year)
	assert.Equal(t, 2, len(doc.PeriodCostCurves[1].Curves))
	assert.Equal(t, "USA period cost curve", doc.PeriodCostCurves[1].Curves[0].Name)
	assert.Equal(t, 1, doc.PeriodCostCurves[1].Curves[0].NumericalLabel)
	assert.Equal(t, []DataPoint{{0, 0}, {10, 5}}, doc.PeriodCostCurves[1].Curves[0].Points)

	assert.Equal(t, 1, len(doc.RegionalCostCurvesByPeriod))
	assert.Equal(t, []RegionValue{{Name: "USA", Value: 75}}, doc.RegionalUndiscountedCosts)
	assert.Equal(t, []RegionValue{{Name: "USA", Value: 50}}, doc.RegionalDiscountedCosts)
	assert.EqualValues(t, 75, doc.GlobalUndiscountedTotalCost)
	assert.EqualValues(t, 50, doc.GlobalDiscountedCost)
}

func TestBuildRows(t *testing.T) {
	rows := BuildRows(utResult(t), 2.212, config.DefaultUnits)
	assert.Equal(t, 3, len(rows))

	fnValues := func(vs ...string) []decimal.Decimal {
		ds := make([]decimal.Decimal, 0, len(vs))
		for _, v := range vs {
			ds = append(ds, decimal.RequireFromString(v))
		}

		return ds
	}

	fnCheck := func(row Row, variable, label string, values []decimal.Decimal) {
		assert.Equal(t, "USA", row.Region)
		assert.Equal(t, CategoryGeneral, row.Category)
		assert.Equal(t, variable, row.Variable)
		assert.Equal(t, label, row.Label)
		assert.Equal(t, "(millions)90US$", row.Units)
		assert.Equal(t, len(values), len(row.Values))

		for idx := range values {
			assert.True(t, values[idx].Equal(row.Values[idx]), "%s slot %d: %s", variable, idx, row.Values[idx])
		}
	}

	fnCheck(rows[0], VarPolicyCostUndisc, LabelPeriod, fnValues("22.12", "44.24"))
	fnCheck(rows[1], VarPolicyCostTotalUndisc, LabelAllYears, fnValues("0", "165.9"))
	fnCheck(rows[2], VarPolicyCostTotalDisc, LabelAllYears, fnValues("0", "110.6"))
}

func TestExportWithoutResult(t *testing.T) {
	root := filepath.Join(utRoot, "empty")
	_ = pathutils.MustDirExists(root)

	w := &utTableWriter{}
	e := NewExporter(config.DefaultOutput(), rawfs.NewFSStorage(root), nil, WithTableWriter(w))

	assert.Nil(t, e.Export(context.Background(), &utSource{}))

	entries, err := os.ReadDir(root)
	assert.Nil(t, err)
	assert.Equal(t, 0, len(entries))
	assert.Nil(t, w.rows)
}

func TestExport(t *testing.T) {
	root := filepath.Join(utRoot, "full")
	_ = pathutils.MustDirExists(root)

	failing := &utTableWriter{err: errors.New("unavailable")}
	w := &utTableWriter{}
	appender := &utAppender{}

	e := NewExporter(config.DefaultOutput(), rawfs.NewFSStorage(root), l.NewConsoleLoggerWrapper(),
		WithDocumentAppender(appender), WithTableWriter(failing), WithTableWriter(w), WithTableWriter(nil))

	err := e.Export(context.Background(), &utSource{r: utResult(t)})
	assert.NotNil(t, err)
	assert.True(t, errors.Is(err, failing.err))

	d, err := os.ReadFile(filepath.Join(root, "cost_curves_ut.xml"))
	assert.Nil(t, err)
	assert.Equal(t, d, appender.doc)
	assert.Equal(t, config.DefaultUpdateLocation, appender.location)

	assert.Equal(t, "ut", w.scenario)
	assert.Equal(t, 3, len(w.rows))
	assert.Equal(t, 3, len(failing.rows))
}
