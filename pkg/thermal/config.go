package thermal

import (
	"fmt"

	"github.com/dchouse/nanodash/pkg/types"
	"github.com/levenlabs/go-lflag"
)

// Config holds the linear model coefficients. Energy for one sample is
// C1*(indoor-outdoor)+C2 where C1 depends on mode and strategy and C2 on mode
// only.
type Config struct {
	HeatingRBCC1 float64 `json:"heatingRBCC1"`
	HeatingMPCC1 float64 `json:"heatingMPCC1"`
	HeatingC2    float64 `json:"heatingC2"`
	CoolingRBCC1 float64 `json:"coolingRBCC1"`
	CoolingMPCC1 float64 `json:"coolingMPCC1"`
	CoolingC2    float64 `json:"coolingC2"`

	// Conversion prices savings, with CO2 in pounds and distance in miles.
	Conversion types.Conversion `json:"conversion"`
}

// DefaultConfig returns the fitted thermostat coefficients.
func DefaultConfig() Config {
	return Config{
		HeatingRBCC1: 0.1958333333,
		HeatingMPCC1: 0.1595833333,
		HeatingC2:    -8,
		CoolingRBCC1: 0.1266666667,
		CoolingMPCC1: 0.1091666667,
		CoolingC2:    6.4,
		Conversion: types.Conversion{
			DollarsPerKWH:  0.15,
			CO2PerKWH:      0.92,
			CO2PerDistance: 0.79,
			MassUnit:       "lb",
			DistanceUnit:   "mi",
		},
	}
}

// Validate checks the conversion factors. Coefficients may take any value.
func (c Config) Validate() error {
	if err := c.Conversion.Validate(); err != nil {
		return fmt.Errorf("thermal conversion: %w", err)
	}
	return nil
}

// Configured registers the thermal-model flag and returns the model built
// from it once flags are parsed.
func Configured() *Model {
	cfg := DefaultConfig()
	lflag.JSON(&cfg, "thermal-model", cfg, "JSON overrides for the MPC/RBC thermal model coefficients")

	m := &Model{}
	lflag.Do(func() {
		built, err := NewModel(cfg)
		if err != nil {
			panic(fmt.Sprintf("thermal model config invalid: %v", err))
		}
		*m = *built
	})
	return m
}
