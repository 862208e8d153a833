package types

import (
	"sort"
	"time"
)

// TimeSample is a single sensor reading.
type TimeSample struct {
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
}

// TimeSeries is an ordered set of readings for one measurement. An empty
// series means there was no data for the requested window.
type TimeSeries struct {
	Name string `json:"name"`
	// Synthetic is true when the samples were generated rather than measured.
	Synthetic bool         `json:"synthetic,omitempty"`
	Samples   []TimeSample `json:"samples"`
}

// Len returns the number of samples.
func (s TimeSeries) Len() int {
	return len(s.Samples)
}

// Empty returns true if the series has no samples.
func (s TimeSeries) Empty() bool {
	return len(s.Samples) == 0
}

// Bounds returns the first and last timestamps of a sorted series. ok is
// false for an empty series.
func (s TimeSeries) Bounds() (start, end time.Time, ok bool) {
	if len(s.Samples) == 0 {
		return time.Time{}, time.Time{}, false
	}
	return s.Samples[0].Timestamp, s.Samples[len(s.Samples)-1].Timestamp, true
}

// Sort orders the samples ascending by timestamp in place.
func (s TimeSeries) Sort() {
	sort.SliceStable(s.Samples, func(i, j int) bool {
		return s.Samples[i].Timestamp.Before(s.Samples[j].Timestamp)
	})
}

// Dedupe collapses samples sharing a timestamp into one, keeping the last
// value seen. The series must already be sorted. It returns how many samples
// were removed.
func (s *TimeSeries) Dedupe() int {
	if len(s.Samples) < 2 {
		return 0
	}
	out := s.Samples[:1]
	for _, sample := range s.Samples[1:] {
		if sample.Timestamp.Equal(out[len(out)-1].Timestamp) {
			out[len(out)-1] = sample
			continue
		}
		out = append(out, sample)
	}
	removed := len(s.Samples) - len(out)
	s.Samples = out
	return removed
}

// In returns a copy of the series with every timestamp converted to loc.
func (s TimeSeries) In(loc *time.Location) TimeSeries {
	out := TimeSeries{
		Name:      s.Name,
		Synthetic: s.Synthetic,
		Samples:   make([]TimeSample, len(s.Samples)),
	}
	for i, sample := range s.Samples {
		out.Samples[i] = TimeSample{Timestamp: sample.Timestamp.In(loc), Value: sample.Value}
	}
	return out
}

// EnergySample is the energy consumed in the hour represented by Timestamp.
type EnergySample struct {
	Timestamp time.Time `json:"timestamp"`
	EnergyKWH float64   `json:"energyKWH"`
}

// EnergySeries is a chronological set of energy samples, always in kWh.
type EnergySeries []EnergySample

// Total returns the sum of all samples in kWh.
func (s EnergySeries) Total() float64 {
	var total float64
	for _, e := range s {
		total += e.EnergyKWH
	}
	return total
}

// AlignedSample is an indoor and outdoor reading taken at the same instant.
type AlignedSample struct {
	Timestamp time.Time
	Indoor    float64
	Outdoor   float64
}

// Align inner-joins two series on exact timestamp equality. Samples present
// in only one series are dropped and counted, so the count is never negative.
// The result follows the order of indoor.
func Align(indoor, outdoor TimeSeries) ([]AlignedSample, int) {
	byInstant := make(map[int64]float64, len(outdoor.Samples))
	for _, o := range outdoor.Samples {
		byInstant[o.Timestamp.UnixNano()] = o.Value
	}

	var dropped int
	matched := make(map[int64]struct{}, len(byInstant))
	aligned := make([]AlignedSample, 0, min(len(indoor.Samples), len(outdoor.Samples)))
	for _, in := range indoor.Samples {
		key := in.Timestamp.UnixNano()
		out, ok := byInstant[key]
		if !ok {
			dropped++
			continue
		}
		matched[key] = struct{}{}
		aligned = append(aligned, AlignedSample{
			Timestamp: in.Timestamp,
			Indoor:    in.Value,
			Outdoor:   out,
		})
	}
	for _, o := range outdoor.Samples {
		if _, ok := matched[o.Timestamp.UnixNano()]; !ok {
			dropped++
		}
	}
	return aligned, dropped
}

// WattHoursToKWH converts watt-hours to kilowatt-hours.
func WattHoursToKWH(wh float64) float64 {
	return wh / 1000
}
