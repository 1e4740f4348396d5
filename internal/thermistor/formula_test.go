package thermistor

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func ad849x(t *testing.T) Formula {
	t.Helper()

	f, err := Exprs{
		ZeroAdcValue: "1.25/3.3",
		AdcSlope:     "0.005/3.3",
		MinTemp:      "0",
		MaxTemp:      "400",
	}.Build()
	require.NoError(t, err)

	return f
}

func TestExprs_Compile(t *testing.T) {
	p, err := Exprs{ZeroAdcValue: "1.25/3.3", AdcSlope: "0.005/3.3", MinTemp: "-10", MaxTemp: "2 * 150"}.Compile()
	require.NoError(t, err)

	require.InDelta(t, 0.378787, p.ZeroAdcValue, 1e-6)
	require.InDelta(t, 1.515151e-3, p.AdcSlope, 1e-9)
	require.Equal(t, -10.0, p.MinTemp)
	require.Equal(t, 300.0, p.MaxTemp)
}

func TestExprs_CompileErrors(t *testing.T) {
	tests := []struct {
		name  string
		exprs Exprs
	}{
		{name: "empty", exprs: Exprs{AdcSlope: "1", MinTemp: "0", MaxTemp: "1"}},
		{name: "syntax", exprs: Exprs{ZeroAdcValue: "1 +", AdcSlope: "1", MinTemp: "0", MaxTemp: "1"}},
		{name: "not_a_number", exprs: Exprs{ZeroAdcValue: "0", AdcSlope: `"fast"`, MinTemp: "0", MaxTemp: "1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.exprs.Compile()
			require.Error(t, err)
		})
	}
}

func TestNew_RejectsNonPositiveSlope(t *testing.T) {
	_, err := New(Params{AdcSlope: 0})
	require.ErrorIs(t, err, ErrNonPositiveSlope)

	_, err = Exprs{ZeroAdcValue: "0", AdcSlope: "-0.01", MinTemp: "0", MaxTemp: "100"}.Build()
	require.ErrorIs(t, err, ErrNonPositiveSlope)
}

func TestFormula_AdcToTemp(t *testing.T) {
	f := ad849x(t)

	require.InDelta(t, 100.0, f.AdcToTemp(f.TempToAdc(100)), 1e-9)
	require.InDelta(t, 0.0, f.AdcToTemp(f.Params().ZeroAdcValue), 1e-9)

	require.True(t, math.IsInf(f.AdcToTemp(0.99), 1))
	require.True(t, math.IsInf(f.AdcToTemp(math.NaN()), 1))
	require.True(t, math.IsInf(f.AdcToTemp(0.1), -1))
}

func TestFormula_ZeroValueReadsInfinite(t *testing.T) {
	var f Formula
	require.True(t, math.IsInf(f.AdcToTemp(0.5), 1))
}
