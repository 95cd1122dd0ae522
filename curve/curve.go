package curve

import (
	"fmt"
	"math"
	"slices"
	"sort"

	"gonum.org/v1/gonum/integrate"
)

// segments with rate*width below the limit are discounted through the series
const (
	seriesDiscountLimit = 1e-3
	seriesDiscountTerms = 8
)

type Option func(c *PointSetCurve)

func WithExtrapolation(e Extrapolation) Option {
	return func(c *PointSetCurve) {
		c.extrapolation = e
	}
}

func WithDuplicatePolicy(p DuplicatePolicy) Option {
	return func(c *PointSetCurve) {
		c.duplicatePolicy = p
	}
}

func WithTitle(title string) Option {
	return func(c *PointSetCurve) {
		c.title = title
	}
}

// PointSetCurve is a piecewise-linear curve through a set of samples kept
// sorted by x.
type PointSetCurve struct {
	title string
	label int

	extrapolation   Extrapolation
	duplicatePolicy DuplicatePolicy

	points []Point
}

func NewPointSetCurve(opts ...Option) *PointSetCurve {
	c := &PointSetCurve{}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

func NewPointSetCurveFromPoints(points []Point, opts ...Option) (*PointSetCurve, error) {
	c := NewPointSetCurve(opts...)

	for _, p := range points {
		if err := c.AddPoint(p.X, p.Y); err != nil {
			return nil, err
		}
	}

	return c, nil
}

func (c *PointSetCurve) AddPoint(x, y float64) error {
	if math.IsNaN(x) || math.IsInf(x, 0) || math.IsNaN(y) || math.IsInf(y, 0) {
		return fmt.Errorf("%w: (%v, %v)", ErrInvalidPoint, x, y)
	}

	idx := c.search(x)
	if idx < len(c.points) && c.points[idx].X == x {
		if c.duplicatePolicy == DuplicateOverwrite {
			c.points[idx].Y = y

			return nil
		}

		return fmt.Errorf("%w: %v", ErrDuplicateX, x)
	}

	c.points = slices.Insert(c.points, idx, Point{X: x, Y: y})

	return nil
}

func (c *PointSetCurve) GetY(x float64) (float64, error) {
	if len(c.points) == 0 {
		return 0, ErrEmptyCurve
	}

	first, last := c.points[0], c.points[len(c.points)-1]

	if x < first.X || x > last.X {
		if c.extrapolation != ExtrapolationFlat {
			return 0, fmt.Errorf("%w: %v not in [%v, %v]", ErrOutOfDomain, x, first.X, last.X)
		}

		if x < first.X {
			return first.Y, nil
		}

		return last.Y, nil
	}

	return c.interpolate(x), nil
}

// GetIntegral integrates over [lowDomain, highDomain] clamped to the sampled
// domain. An empty or inverted range integrates to zero.
func (c *PointSetCurve) GetIntegral(lowDomain, highDomain float64) float64 {
	xs, ys := c.clampedSamples(lowDomain, highDomain)
	if len(xs) < 2 {
		return 0
	}

	return integrate.Trapezoidal(xs, ys)
}

// GetIntegralToEnd integrates from lowDomain up to the last sample.
func (c *PointSetCurve) GetIntegralToEnd(lowDomain float64) float64 {
	return c.GetIntegral(lowDomain, math.Inf(1))
}

// GetDiscountedValue integrates f(x)*exp(-rate*(x-lowDomain)) over the same
// clamped range as GetIntegral, giving the present value at lowDomain. A zero
// rate gives the plain integral.
func (c *PointSetCurve) GetDiscountedValue(lowDomain, highDomain, discountRate float64) float64 {
	xs, ys := c.clampedSamples(lowDomain, highDomain)
	if len(xs) < 2 {
		return 0
	}

	var value float64

	for i := 0; i+1 < len(xs); i++ {
		a, b := xs[i], xs[i+1]
		fa, fb := ys[i], ys[i+1]
		h := b - a

		m0, m1 := discountMoments(discountRate, h)

		value += math.Exp(-discountRate*(a-lowDomain)) * (fa*m0 + (fb-fa)/h*m1)
	}

	return value
}

// discountMoments returns the integrals of exp(-rate*u) and u*exp(-rate*u)
// over [0, h]. Small rate*h goes through the series since the closed form
// cancels there.
func discountMoments(rate, h float64) (m0, m1 float64) {
	rh := rate * h

	if math.Abs(rh) < seriesDiscountLimit {
		term := 1.0

		for k := 0; k < seriesDiscountTerms; k++ {
			m0 += term / float64(k+1)
			m1 += term / float64(k+2)
			term *= -rh / float64(k+1)
		}

		return m0 * h, m1 * h * h
	}

	m0 = -math.Expm1(-rh) / rate
	m1 = (m0 - h*math.Exp(-rh)) / rate

	return
}

func (c *PointSetCurve) GetTitle() string {
	return c.title
}

func (c *PointSetCurve) SetTitle(title string) {
	c.title = title
}

func (c *PointSetCurve) GetNumericalLabel() int {
	return c.label
}

func (c *PointSetCurve) SetNumericalLabel(label int) {
	c.label = label
}

func (c *PointSetCurve) Points() []Point {
	return slices.Clone(c.points)
}

func (c *PointSetCurve) Len() int {
	return len(c.points)
}

func (c *PointSetCurve) Clone() Curve {
	return &PointSetCurve{
		title:           c.title,
		label:           c.label,
		extrapolation:   c.extrapolation,
		duplicatePolicy: c.duplicatePolicy,
		points:          slices.Clone(c.points),
	}
}

func (c *PointSetCurve) search(x float64) int {
	return sort.Search(len(c.points), func(i int) bool {
		return c.points[i].X >= x
	})
}

// interpolate expects x inside the sampled domain.
func (c *PointSetCurve) interpolate(x float64) float64 {
	idx := c.search(x)
	if idx < len(c.points) && c.points[idx].X == x {
		return c.points[idx].Y
	}

	p0, p1 := c.points[idx-1], c.points[idx]

	return p0.Y + (p1.Y-p0.Y)*(x-p0.X)/(p1.X-p0.X)
}

func (c *PointSetCurve) clampedSamples(lowDomain, highDomain float64) (xs, ys []float64) {
	if len(c.points) < 2 {
		return
	}

	lo := math.Max(lowDomain, c.points[0].X)
	hi := math.Min(highDomain, c.points[len(c.points)-1].X)

	if !(lo < hi) {
		return
	}

	xs = append(xs, lo)
	ys = append(ys, c.interpolate(lo))

	for _, p := range c.points[c.search(lo):] {
		if p.X >= hi {
			break
		}

		if p.X > lo {
			xs = append(xs, p.X)
			ys = append(ys, p.Y)
		}
	}

	xs = append(xs, hi)
	ys = append(ys, c.interpolate(hi))

	return
}
