package equiv

import (
	"github.com/rotisserie/eris"
)

// ErrUnknownMethod indicates a method name outside the closed set.
var ErrUnknownMethod = eris.New("unknown equivalence method")

// Method selects one of the four income equivalence algorithms. Methods are
// chosen per invocation; there is no global mode.
type Method string

const (
	MethodLinear    Method = "linear"
	MethodSqrt      Method = "sqrt"
	MethodLogLinear Method = "log-linear"
	MethodEngel     Method = "engel"
)

// DefaultMethod is the blended square-root method.
const DefaultMethod = MethodSqrt

// Methods returns all methods in display order.
func Methods() []Method {
	return []Method{MethodLinear, MethodSqrt, MethodLogLinear, MethodEngel}
}

// ParseMethod validates a method name.
func ParseMethod(s string) (Method, error) {
	switch Method(s) {
	case MethodLinear, MethodSqrt, MethodLogLinear, MethodEngel:
		return Method(s), nil
	}
	return "", eris.Wrapf(ErrUnknownMethod, "%q", s)
}

// Label returns the display label for the method.
func (m Method) Label() string {
	switch m {
	case MethodLinear:
		return "Linear Ratio"
	case MethodSqrt:
		return "Blended Square Root"
	case MethodLogLinear:
		return "Constant Elasticity (e=0.75)"
	case MethodEngel:
		return "Engel Curve (Non-Homothetic)"
	}
	return string(m)
}
