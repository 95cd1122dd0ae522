package synthetic

// Input is the physical demand of one region input, per period.
type Input struct {
	Name   string
	Demand []float64
}

// EmissionsDriver yields the activity level an emissions coefficient is
// applied to.
type EmissionsDriver interface {
	CalcEmissionsDriver(inputs []Input, period int) float64
	GetName() string
}

func NewEmissionsDriver(spec DriverSpec) EmissionsDriver {
	switch spec.Type {
	case DriverTypeInput:
		return &InputDriver{InputName: spec.InputName}
	case DriverTypeOutput:
		return &OutputDriver{}
	}

	return nil
}

type InputDriver struct {
	InputName string
}

func (d *InputDriver) CalcEmissionsDriver(inputs []Input, period int) float64 {
	for _, input := range inputs {
		if input.Name == d.InputName {
			return input.Demand[period]
		}
	}

	return 0
}

func (d *InputDriver) GetName() string {
	return DriverTypeInput
}

// OutputDriver drives emissions by total output, the sum of all input
// demands.
type OutputDriver struct {
}

func (d *OutputDriver) CalcEmissionsDriver(inputs []Input, period int) (output float64) {
	for _, input := range inputs {
		output += input.Demand[period]
	}

	return
}

func (d *OutputDriver) GetName() string {
	return DriverTypeOutput
}
