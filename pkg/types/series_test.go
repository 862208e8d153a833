package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlign(t *testing.T) {
	start := time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)

	t.Run("inner join drops unmatched", func(t *testing.T) {
		indoor := TimeSeries{Samples: []TimeSample{
			{Timestamp: start, Value: 20},
			{Timestamp: start.Add(time.Hour), Value: 21},
			{Timestamp: start.Add(2 * time.Hour), Value: 22},
		}}
		outdoor := TimeSeries{Samples: []TimeSample{
			{Timestamp: start.Add(time.Hour), Value: 5},
			{Timestamp: start.Add(2 * time.Hour), Value: 6},
			{Timestamp: start.Add(3 * time.Hour), Value: 7},
		}}
		aligned, dropped := Align(indoor, outdoor)
		require.Len(t, aligned, 2)
		assert.Equal(t, 2, dropped)
		assert.Equal(t, AlignedSample{Timestamp: start.Add(time.Hour), Indoor: 21, Outdoor: 5}, aligned[0])
		assert.Equal(t, AlignedSample{Timestamp: start.Add(2 * time.Hour), Indoor: 22, Outdoor: 6}, aligned[1])
	})

	t.Run("matches across zones", func(t *testing.T) {
		loc := time.FixedZone("EST", -5*3600)
		indoor := TimeSeries{Samples: []TimeSample{{Timestamp: start, Value: 20}}}
		outdoor := TimeSeries{Samples: []TimeSample{{Timestamp: start.In(loc), Value: 10}}}
		aligned, dropped := Align(indoor, outdoor)
		require.Len(t, aligned, 1)
		assert.Zero(t, dropped)
	})

	t.Run("no overlap", func(t *testing.T) {
		indoor := TimeSeries{Samples: []TimeSample{{Timestamp: start, Value: 20}}}
		outdoor := TimeSeries{Samples: []TimeSample{{Timestamp: start.Add(time.Minute), Value: 10}}}
		aligned, dropped := Align(indoor, outdoor)
		assert.Empty(t, aligned)
		assert.Equal(t, 2, dropped)
	})

	t.Run("duplicate timestamps", func(t *testing.T) {
		indoor := TimeSeries{Samples: []TimeSample{
			{Timestamp: start, Value: 70},
			{Timestamp: start, Value: 71},
			{Timestamp: start.Add(time.Hour), Value: 70},
		}}
		outdoor := TimeSeries{Samples: []TimeSample{
			{Timestamp: start, Value: 20},
			{Timestamp: start.Add(time.Hour), Value: 20},
			{Timestamp: start.Add(2 * time.Hour), Value: 20},
		}}
		aligned, dropped := Align(indoor, outdoor)
		assert.Len(t, aligned, 3)
		assert.Equal(t, 1, dropped)

		aligned, dropped = Align(outdoor, indoor)
		assert.Len(t, aligned, 2)
		assert.Equal(t, 1, dropped)
	})

	t.Run("empty", func(t *testing.T) {
		aligned, dropped := Align(TimeSeries{}, TimeSeries{})
		assert.Empty(t, aligned)
		assert.Zero(t, dropped)
	})
}

func TestTimeSeries(t *testing.T) {
	start := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	s := TimeSeries{Name: "x", Samples: []TimeSample{
		{Timestamp: start.Add(2 * time.Hour), Value: 3},
		{Timestamp: start, Value: 1},
		{Timestamp: start.Add(time.Hour), Value: 2},
	}}
	s.Sort()
	first, last, ok := s.Bounds()
	require.True(t, ok)
	assert.Equal(t, start, first)
	assert.Equal(t, start.Add(2*time.Hour), last)
	assert.Equal(t, 3, s.Len())

	_, _, ok = TimeSeries{}.Bounds()
	assert.False(t, ok)
	assert.True(t, TimeSeries{}.Empty())

	loc := time.FixedZone("X", 3600)
	moved := s.In(loc)
	assert.Equal(t, loc, moved.Samples[0].Timestamp.Location())
	assert.Equal(t, time.UTC, s.Samples[0].Timestamp.Location(), "original should be untouched")
}

func TestTimeSeriesDedupe(t *testing.T) {
	start := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	s := TimeSeries{Samples: []TimeSample{
		{Timestamp: start, Value: 1},
		{Timestamp: start, Value: 2},
		{Timestamp: start.Add(time.Hour), Value: 3},
		{Timestamp: start.Add(2 * time.Hour), Value: 4},
		{Timestamp: start.Add(2 * time.Hour), Value: 5},
		{Timestamp: start.Add(2 * time.Hour), Value: 6},
	}}
	assert.Equal(t, 3, s.Dedupe())
	assert.Equal(t, []TimeSample{
		{Timestamp: start, Value: 2},
		{Timestamp: start.Add(time.Hour), Value: 3},
		{Timestamp: start.Add(2 * time.Hour), Value: 6},
	}, s.Samples)

	var empty TimeSeries
	assert.Zero(t, empty.Dedupe())
}

func TestEnergySeriesTotal(t *testing.T) {
	assert.Zero(t, EnergySeries(nil).Total())
	assert.InDelta(t, 3.5, EnergySeries{{EnergyKWH: 1.25}, {EnergyKWH: 2.25}}.Total(), 1e-9)
}

func TestWattHoursToKWH(t *testing.T) {
	assert.Equal(t, 1.5, WattHoursToKWH(1500))
	assert.Zero(t, WattHoursToKWH(0))
}
