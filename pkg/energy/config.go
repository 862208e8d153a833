package energy

import (
	"fmt"
	"time"

	"github.com/dchouse/nanodash/pkg/types"
	"github.com/levenlabs/go-lflag"
)

// Config holds the constants of the month-based baseline model. Rates are in
// kWh consumed per hour.
type Config struct {
	// BaseElectricKWHPerHour is electricity used every hour of the year.
	BaseElectricKWHPerHour float64 `json:"baseElectricKWHPerHour"`
	// BaseGasKWHPerHour is non-heating gas used every hour of the year.
	BaseGasKWHPerHour float64 `json:"baseGasKWHPerHour"`
	// HeatingGasKWHPerHour is the additional heating gas per month, January
	// first.
	HeatingGasKWHPerHour [12]float64 `json:"heatingGasKWHPerHour"`
	// GasDollarsPerKWH prices the gas component. Electricity is priced by
	// Conversion.DollarsPerKWH.
	GasDollarsPerKWH float64          `json:"gasDollarsPerKWH"`
	Conversion       types.Conversion `json:"conversion"`
}

// DefaultConfig returns the average-house model constants.
func DefaultConfig() Config {
	var heating [12]float64
	heating[time.November-1] = 2.43
	heating[time.December-1] = 4.75
	heating[time.January-1] = 6.67
	heating[time.February-1] = 6.76
	heating[time.March-1] = 4.96

	return Config{
		BaseElectricKWHPerHour: 2.08,
		BaseGasKWHPerHour:      0.34,
		HeatingGasKWHPerHour:   heating,
		GasDollarsPerKWH:       0.0226,
		Conversion: types.Conversion{
			DollarsPerKWH:  0.15,
			CO2PerKWH:      0.417,
			CO2PerDistance: 0.222,
			MassUnit:       "kg",
			DistanceUnit:   "km",
		},
	}
}

// Validate ensures every rate is non-negative so the model can never produce
// negative energy.
func (c Config) Validate() error {
	if c.BaseElectricKWHPerHour < 0 || c.BaseGasKWHPerHour < 0 {
		return fmt.Errorf("%w: base rates must be >= 0", types.ErrInvalidConfig)
	}
	for i, r := range c.HeatingGasKWHPerHour {
		if r < 0 {
			return fmt.Errorf("%w: heating rate for %s must be >= 0", types.ErrInvalidConfig, time.Month(i+1))
		}
	}
	if c.GasDollarsPerKWH < 0 {
		return fmt.Errorf("%w: gasDollarsPerKWH must be >= 0", types.ErrInvalidConfig)
	}
	return c.Conversion.Validate()
}

// Configured registers the baseline-model flag and returns the aggregator
// built from it once flags are parsed.
func Configured() *Aggregator {
	cfg := DefaultConfig()
	lflag.JSON(&cfg, "baseline-model", cfg, "JSON overrides for the month-based baseline model constants")

	a := &Aggregator{}
	lflag.Do(func() {
		model, err := NewBaselineModel(cfg)
		if err != nil {
			panic(fmt.Sprintf("baseline model config invalid: %v", err))
		}
		*a = *NewAggregator(model)
	})
	return a
}
