package curve

type Point struct {
	X float64 `yaml:"x" json:"x" xml:"x"`
	Y float64 `yaml:"y" json:"y" xml:"y"`
}

// Extrapolation decides what GetY answers outside the sampled domain.
type Extrapolation int

const (
	ExtrapolationError Extrapolation = iota
	ExtrapolationFlat
)

// DuplicatePolicy decides what AddPoint does when x is already sampled.
type DuplicatePolicy int

const (
	DuplicateReject DuplicatePolicy = iota
	DuplicateOverwrite
)

// Curve is the capability set shared by every curve variant. Integrals are
// taken over the requested range intersected with the sampled domain.
type Curve interface {
	AddPoint(x, y float64) error
	GetY(x float64) (float64, error)

	GetIntegral(lowDomain, highDomain float64) float64
	GetIntegralToEnd(lowDomain float64) float64
	GetDiscountedValue(lowDomain, highDomain, discountRate float64) float64

	GetTitle() string
	SetTitle(title string)
	GetNumericalLabel() int
	SetNumericalLabel(label int)

	Points() []Point
	Len() int
	Clone() Curve
}

type Record struct {
	Title  string  `yaml:"title,omitempty" json:"title,omitempty"`
	Label  int     `yaml:"label" json:"label"`
	Points []Point `yaml:"points" json:"points"`
}

type Storage interface {
	Load(key string) (Curve, error)
	Save(key string, c Curve) error
}
