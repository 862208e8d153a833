package thermal

import (
	"testing"
	"time"

	"github.com/dchouse/nanodash/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testStart = time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)

func constant(n int, value float64) types.TimeSeries {
	s := types.TimeSeries{}
	for i := 0; i < n; i++ {
		s.Samples = append(s.Samples, types.TimeSample{
			Timestamp: testStart.Add(time.Duration(i) * time.Hour),
			Value:     value,
		})
	}
	return s
}

func newTestModel(t *testing.T) *Model {
	t.Helper()
	m, err := NewModel(DefaultConfig())
	require.NoError(t, err)
	return m
}

func TestCoefficients(t *testing.T) {
	m := newTestModel(t)

	tests := []struct {
		mode     types.ThermalMode
		strategy types.ControlStrategy
		c1, c2   float64
	}{
		{types.ThermalModeHeating, types.ControlStrategyRBC, 0.19583333, -8},
		{types.ThermalModeHeating, types.ControlStrategyMPC, 0.15958333, -8},
		{types.ThermalModeCooling, types.ControlStrategyRBC, 0.12666667, 6.4},
		{types.ThermalModeCooling, types.ControlStrategyMPC, 0.10916667, 6.4},
	}
	for _, tt := range tests {
		t.Run(string(tt.mode)+"/"+string(tt.strategy), func(t *testing.T) {
			c1, c2, err := m.Coefficients(tt.mode, tt.strategy)
			require.NoError(t, err)
			assert.InDelta(t, tt.c1, c1, 1e-8)
			assert.Equal(t, tt.c2, c2)
		})
	}

	t.Run("invalid mode", func(t *testing.T) {
		_, _, err := m.Coefficients("dehumidify", types.ControlStrategyMPC)
		assert.ErrorIs(t, err, types.ErrInvalidMode)
	})

	t.Run("invalid strategy", func(t *testing.T) {
		_, _, err := m.Coefficients(types.ThermalModeHeating, "")
		assert.ErrorIs(t, err, types.ErrInvalidStrategy)
	})
}

func TestConsumption(t *testing.T) {
	m := newTestModel(t)

	t.Run("equal temperatures heating", func(t *testing.T) {
		est, err := m.Consumption(constant(5, 20), constant(5, 20), types.ThermalModeHeating, types.ControlStrategyMPC)
		require.NoError(t, err)
		require.Len(t, est.Series, 5)
		for _, s := range est.Series {
			assert.Zero(t, s.EnergyKWH)
		}
		assert.Zero(t, est.Series.Total())
	})

	t.Run("equal temperatures cooling", func(t *testing.T) {
		est, err := m.Consumption(constant(2, 22), constant(2, 22), types.ThermalModeCooling, types.ControlStrategyRBC)
		require.NoError(t, err)
		require.Len(t, est.Series, 2)
		assert.InDelta(t, 6.4, est.Series[0].EnergyKWH, 1e-9)
	})

	t.Run("negative result is clipped", func(t *testing.T) {
		est, err := m.Consumption(constant(1, 25), constant(1, 5), types.ThermalModeHeating, types.ControlStrategyRBC)
		require.NoError(t, err)
		require.Len(t, est.Series, 1)
		assert.Equal(t, 0.0, est.Series[0].EnergyKWH)
	})

	t.Run("cooling not clipped", func(t *testing.T) {
		est, err := m.Consumption(constant(1, 30), constant(1, 10), types.ThermalModeCooling, types.ControlStrategyMPC)
		require.NoError(t, err)
		require.Len(t, est.Series, 1)
		assert.InDelta(t, 8.5833, est.Series[0].EnergyKWH, 1e-4)
	})

	t.Run("never negative", func(t *testing.T) {
		for _, mode := range []types.ThermalMode{types.ThermalModeHeating, types.ThermalModeCooling} {
			for delta := -60.0; delta <= 60; delta += 7.5 {
				est, err := m.Consumption(constant(1, delta), constant(1, 0), mode, types.ControlStrategyRBC)
				require.NoError(t, err)
				assert.GreaterOrEqual(t, est.Series[0].EnergyKWH, 0.0)
			}
		}
	})

	t.Run("misaligned samples are dropped", func(t *testing.T) {
		outdoor := constant(3, 0)
		outdoor.Samples[1].Timestamp = outdoor.Samples[1].Timestamp.Add(time.Minute)
		est, err := m.Consumption(constant(3, 70), outdoor, types.ThermalModeHeating, types.ControlStrategyMPC)
		require.NoError(t, err)
		assert.Len(t, est.Series, 2)
		assert.Equal(t, 2, est.Dropped)
	})

	t.Run("empty input", func(t *testing.T) {
		est, err := m.Consumption(types.TimeSeries{}, constant(3, 0), types.ThermalModeHeating, types.ControlStrategyMPC)
		require.NoError(t, err)
		assert.Empty(t, est.Series)
		assert.Equal(t, 3, est.Dropped)
	})

	t.Run("invalid mode fails", func(t *testing.T) {
		_, err := m.Consumption(constant(1, 20), constant(1, 0), "", types.ControlStrategyMPC)
		assert.ErrorIs(t, err, types.ErrInvalidMode)
	})
}

func TestEstimator(t *testing.T) {
	m := newTestModel(t)

	e, err := m.Estimator(types.ThermalModeCooling, types.ControlStrategyMPC)
	require.NoError(t, err)
	series, err := e.Consumption(constant(1, 30), constant(1, 10))
	require.NoError(t, err)
	require.Len(t, series, 1)
	assert.InDelta(t, 8.5833, series[0].EnergyKWH, 1e-4)

	_, err = m.Estimator(types.ThermalModeCooling, "pid")
	assert.ErrorIs(t, err, types.ErrInvalidStrategy)
}

func TestCompare(t *testing.T) {
	mpc := types.EnergySeries{
		{Timestamp: testStart, EnergyKWH: 1},
		{Timestamp: testStart.Add(time.Hour), EnergyKWH: 2},
	}
	rbc := types.EnergySeries{
		{Timestamp: testStart.Add(time.Hour), EnergyKWH: 3},
	}
	out := Compare(mpc, rbc)
	require.Len(t, out, 1)
	assert.Equal(t, ComparisonSample{Timestamp: testStart.Add(time.Hour), MPCKWH: 2, RBCKWH: 3}, out[0])
}
