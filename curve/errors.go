package curve

import "errors"

var (
	ErrDuplicateX   = errors.New("duplicate x")
	ErrInvalidPoint = errors.New("invalid point")
	ErrOutOfDomain  = errors.New("out of domain")
	ErrEmptyCurve   = errors.New("empty curve")
)
