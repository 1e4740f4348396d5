// Package thermistor converts raw ADC readings into temperatures for sensors
// with a linear, positive-slope response such as AD849x thermocouple amplifiers.
package thermistor

import (
	"errors"
	"fmt"
	"math"

	"github.com/expr-lang/expr"
)

// ErrNonPositiveSlope rejects formulas that would invert the reading.
var ErrNonPositiveSlope = errors.New("thermistor: AdcSlope must be positive")

// Params describes the sensor. ADC values are normalized to [0, 1].
type Params struct {
	ZeroAdcValue float64
	AdcSlope     float64
	MinTemp      float64
	MaxTemp      float64
}

// Formula maps ADC readings to temperatures.
// Readings above the MaxTemp point (or NaN) map to +Inf, below MinTemp to -Inf.
type Formula struct {
	p         Params
	adcMinTmp float64
	adcMaxTmp float64
}

// New validates p and precomputes the ADC bounds.
func New(p Params) (Formula, error) {
	if !(p.AdcSlope > 0) {
		return Formula{}, fmt.Errorf("%w: got %g", ErrNonPositiveSlope, p.AdcSlope)
	}

	f := Formula{p: p}
	f.adcMinTmp = f.TempToAdc(p.MinTemp)
	f.adcMaxTmp = f.TempToAdc(p.MaxTemp)

	return f, nil
}

// Params returns the parameters the formula was built from.
func (f Formula) Params() Params { return f.p }

// TempToAdc is the inverse mapping.
func (f Formula) TempToAdc(temp float64) float64 {
	return temp*f.p.AdcSlope + f.p.ZeroAdcValue
}

// AdcToTemp converts one reading.
func (f Formula) AdcToTemp(adc float64) float64 {
	// a zero Formula must not read as a plausible temperature
	if !(f.p.AdcSlope > 0) {
		return math.Inf(1)
	}

	if !(adc <= f.adcMaxTmp) {
		return math.Inf(1)
	}

	if !(adc >= f.adcMinTmp) {
		return math.Inf(-1)
	}

	return (adc - f.p.ZeroAdcValue) / f.p.AdcSlope
}

// Exprs holds the parameters as arithmetic expressions, e.g. "1.25/3.3".
type Exprs struct {
	ZeroAdcValue string `yaml:"zeroAdcValue"`
	AdcSlope     string `yaml:"adcSlope"`
	MinTemp      string `yaml:"minTemp"`
	MaxTemp      string `yaml:"maxTemp"`
}

// Compile evaluates every expression to a constant.
func (e Exprs) Compile() (Params, error) {
	var (
		p   Params
		err error
	)

	fields := []struct {
		name string
		src  string
		dst  *float64
	}{
		{"zeroAdcValue", e.ZeroAdcValue, &p.ZeroAdcValue},
		{"adcSlope", e.AdcSlope, &p.AdcSlope},
		{"minTemp", e.MinTemp, &p.MinTemp},
		{"maxTemp", e.MaxTemp, &p.MaxTemp},
	}

	for _, f := range fields {
		if *f.dst, err = Eval(f.src); err != nil {
			return Params{}, fmt.Errorf("thermistor: %s: %w", f.name, err)
		}
	}

	return p, nil
}

// Build compiles the expressions and constructs the Formula.
func (e Exprs) Build() (Formula, error) {
	p, err := e.Compile()
	if err != nil {
		return Formula{}, err
	}

	return New(p)
}

// Eval evaluates a constant arithmetic expression to a float.
func Eval(src string) (float64, error) {
	if src == "" {
		return 0, errors.New("empty expression")
	}

	program, err := expr.Compile(src, expr.AsFloat64())
	if err != nil {
		return 0, err
	}

	out, err := expr.Run(program, nil)
	if err != nil {
		return 0, err
	}

	v, ok := out.(float64)
	if !ok {
		return 0, fmt.Errorf("expression %q did not produce a number", src)
	}

	return v, nil
}
