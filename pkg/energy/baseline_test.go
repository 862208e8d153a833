package energy

import (
	"log/slog"
	"testing"
	"time"

	"github.com/dchouse/nanodash/pkg/log"
	"github.com/dchouse/nanodash/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	log.SetDefaultLogLevel(slog.LevelError)
}

func newTestModel(t *testing.T) *BaselineModel {
	t.Helper()
	m, err := NewBaselineModel(DefaultConfig())
	require.NoError(t, err)
	return m
}

func hourly(start time.Time, n int, value float64) types.TimeSeries {
	s := types.TimeSeries{Name: "indoor_temperature"}
	for i := 0; i < n; i++ {
		s.Samples = append(s.Samples, types.TimeSample{
			Timestamp: start.Add(time.Duration(i) * time.Hour),
			Value:     value,
		})
	}
	return s
}

func TestBaselineRate(t *testing.T) {
	m := newTestModel(t)

	surcharges := map[time.Month]float64{
		time.November: 2.43,
		time.December: 4.75,
		time.January:  6.67,
		time.February: 6.76,
		time.March:    4.96,
	}
	for month := time.January; month <= time.December; month++ {
		t.Run(month.String(), func(t *testing.T) {
			assert.InDelta(t, 2.42+surcharges[month], m.Rate(month), 1e-9)
		})
	}

	assert.InDelta(t, 9.09, m.Rate(time.January), 1e-9)
	assert.InDelta(t, 2.42, m.Rate(time.July), 1e-9)

	t.Run("out of range months have no surcharge", func(t *testing.T) {
		assert.InDelta(t, 2.42, m.Rate(0), 1e-9)
		assert.InDelta(t, 2.42, m.Rate(13), 1e-9)
	})

	t.Run("january is the annual maximum", func(t *testing.T) {
		for month := time.January; month <= time.December; month++ {
			assert.LessOrEqual(t, m.Rate(month), m.Rate(time.January)+1e-9, month.String())
		}
	})
}

func TestBaselineConsumption(t *testing.T) {
	m := newTestModel(t)

	t.Run("values are ignored", func(t *testing.T) {
		start := time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC)
		hot, err := m.Consumption(hourly(start, 3, 35), types.TimeSeries{})
		require.NoError(t, err)
		cold, err := m.Consumption(hourly(start, 3, -5), types.TimeSeries{})
		require.NoError(t, err)
		assert.Equal(t, hot, cold)
		require.Len(t, hot, 3)
		assert.Equal(t, start.Add(time.Hour), hot[1].Timestamp)
		assert.InDelta(t, 2.42, hot[1].EnergyKWH, 1e-9)
	})

	t.Run("spans months", func(t *testing.T) {
		start := time.Date(2024, time.March, 31, 23, 0, 0, 0, time.UTC)
		series, err := m.Consumption(hourly(start, 2, 20), types.TimeSeries{})
		require.NoError(t, err)
		require.Len(t, series, 2)
		assert.InDelta(t, 2.42+4.96, series[0].EnergyKWH, 1e-9)
		assert.InDelta(t, 2.42, series[1].EnergyKWH, 1e-9)
	})

	t.Run("empty", func(t *testing.T) {
		series, err := m.Consumption(types.TimeSeries{}, types.TimeSeries{})
		require.NoError(t, err)
		assert.Empty(t, series)
	})
}

func TestBaselineCostBreakdown(t *testing.T) {
	m := newTestModel(t)
	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	series, err := m.Consumption(hourly(start, 100, 20), types.TimeSeries{})
	require.NoError(t, err)

	b := m.CostBreakdown(series)
	assert.InDelta(t, 208, b.ElectricKWH, 1e-9)
	assert.InDelta(t, 701, b.GasKWH, 1e-9)
	assert.InDelta(t, 31.2, b.ElectricUSD, 1e-9)
	assert.InDelta(t, 701*0.0226, b.GasUSD, 1e-9)
	// not simply total energy at the electric rate
	assert.NotEqual(t, series.Total()*0.15, b.TotalUSD())
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())

	cfg := DefaultConfig()
	cfg.HeatingGasKWHPerHour[time.February-1] = -1
	_, err := NewBaselineModel(cfg)
	assert.ErrorIs(t, err, types.ErrInvalidConfig)
	assert.ErrorContains(t, err, "February")

	cfg = DefaultConfig()
	cfg.BaseGasKWHPerHour = -0.1
	assert.ErrorIs(t, cfg.Validate(), types.ErrInvalidConfig)

	cfg = DefaultConfig()
	cfg.Conversion.CO2PerDistance = 0
	assert.ErrorIs(t, cfg.Validate(), types.ErrInvalidConfig)

	cfg = DefaultConfig()
	cfg.GasDollarsPerKWH = -1
	assert.ErrorIs(t, cfg.Validate(), types.ErrInvalidConfig)
}
