// Package weather provides stand-in outdoor temperature data for when no
// outdoor sensor feed is available.
package weather

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/dchouse/nanodash/pkg/log"
	"github.com/dchouse/nanodash/pkg/types"
	"github.com/levenlabs/go-lflag"
)

// SyntheticSeriesName names every generated series.
const SyntheticSeriesName = "outdoor_temperature_synthetic"

// Config controls the generated diurnal curve.
type Config struct {
	// BaseTemp is the daily mean, in the same unit as the indoor sensor.
	BaseTemp  float64       `json:"baseTemp"`
	Amplitude float64       `json:"amplitude"`
	Interval  time.Duration `json:"-"`
}

// DefaultConfig returns a 40°F mean with a 20°F swing, sampled hourly.
func DefaultConfig() Config {
	return Config{
		BaseTemp:  40,
		Amplitude: 20,
		Interval:  time.Hour,
	}
}

// Validate ensures the interval is positive.
func (c Config) Validate() error {
	if c.Interval <= 0 {
		return fmt.Errorf("%w: synthetic interval must be > 0", types.ErrInvalidConfig)
	}
	return nil
}

// Synthetic generates a deterministic outdoor temperature series: a pure
// daily sinusoid crossing the mean on the way up at 06:00, peaking at 12:00
// and bottoming out at midnight.
type Synthetic struct {
	cfg Config
}

// NewSynthetic validates cfg and returns a generator.
func NewSynthetic(cfg Config) (*Synthetic, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Synthetic{cfg: cfg}, nil
}

// Configured registers the synthetic-outdoor flag and returns the generator
// built from it once flags are parsed.
func Configured() *Synthetic {
	cfg := DefaultConfig()
	interval := lflag.Duration("synthetic-outdoor-interval", cfg.Interval, "Sampling interval of the synthetic outdoor temperature")
	lflag.JSON(&cfg, "synthetic-outdoor", cfg, "JSON overrides for the synthetic outdoor temperature curve (baseTemp, amplitude)")

	s := &Synthetic{}
	lflag.Do(func() {
		cfg.Interval = *interval
		built, err := NewSynthetic(cfg)
		if err != nil {
			panic(fmt.Sprintf("synthetic outdoor config invalid: %v", err))
		}
		*s = *built
	})
	return s
}

// Temperature returns the generated value at t. Only the hour of day in t's
// location is used.
func (s *Synthetic) Temperature(t time.Time) float64 {
	return s.cfg.BaseTemp + s.cfg.Amplitude*math.Sin(2*math.Pi*float64(t.Hour()-6)/24)
}

// Generate covers [start, end] inclusive every interval, or at the configured
// interval when interval is not positive. The series is empty when start is
// after end and is always marked Synthetic.
func (s *Synthetic) Generate(ctx context.Context, start, end time.Time, interval time.Duration) types.TimeSeries {
	if interval <= 0 {
		interval = s.cfg.Interval
	}
	series := types.TimeSeries{
		Name:      SyntheticSeriesName,
		Synthetic: true,
	}
	for ts := start; !ts.After(end); ts = ts.Add(interval) {
		series.Samples = append(series.Samples, types.TimeSample{
			Timestamp: ts,
			Value:     s.Temperature(ts),
		})
	}
	log.Ctx(ctx).DebugContext(
		ctx,
		"generated synthetic outdoor temperature",
		slog.Time("start", start),
		slog.Time("end", end),
		slog.Duration("interval", interval),
		log.Series("series", series),
	)
	return series
}
