// Package thermal models HVAC energy use as a linear function of the
// difference between indoor and outdoor temperature, for both MPC and RBC
// thermostat control.
package thermal

import (
	"math"
	"time"

	"github.com/dchouse/nanodash/pkg/types"
)

// Model evaluates the linear thermal model. It holds no mutable state.
type Model struct {
	cfg Config
}

// NewModel validates cfg and returns a Model using it.
func NewModel(cfg Config) (*Model, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Model{cfg: cfg}, nil
}

// Config returns the constants the model was built with.
func (m *Model) Config() Config {
	return m.cfg
}

// Coefficients returns the slope and intercept for mode and strategy.
func (m *Model) Coefficients(mode types.ThermalMode, strategy types.ControlStrategy) (c1, c2 float64, err error) {
	if err := mode.Valid(); err != nil {
		return 0, 0, err
	}
	if err := strategy.Valid(); err != nil {
		return 0, 0, err
	}
	switch mode {
	case types.ThermalModeHeating:
		c2 = m.cfg.HeatingC2
		if strategy == types.ControlStrategyMPC {
			c1 = m.cfg.HeatingMPCC1
		} else {
			c1 = m.cfg.HeatingRBCC1
		}
	case types.ThermalModeCooling:
		c2 = m.cfg.CoolingC2
		if strategy == types.ControlStrategyMPC {
			c1 = m.cfg.CoolingMPCC1
		} else {
			c1 = m.cfg.CoolingRBCC1
		}
	}
	return c1, c2, nil
}

// Estimate is the output of Consumption.
type Estimate struct {
	Series types.EnergySeries `json:"series"`
	// Dropped counts samples from either input with no matching timestamp
	// in the other.
	Dropped int `json:"dropped"`
}

// Consumption aligns indoor and outdoor on exact timestamps and evaluates the
// model for each pair. Negative results are clipped to zero.
func (m *Model) Consumption(indoor, outdoor types.TimeSeries, mode types.ThermalMode, strategy types.ControlStrategy) (Estimate, error) {
	c1, c2, err := m.Coefficients(mode, strategy)
	if err != nil {
		return Estimate{}, err
	}
	aligned, dropped := types.Align(indoor, outdoor)
	series := make(types.EnergySeries, len(aligned))
	for i, p := range aligned {
		series[i] = types.EnergySample{
			Timestamp: p.Timestamp,
			EnergyKWH: math.Max(0, c1*(p.Indoor-p.Outdoor)+c2),
		}
	}
	return Estimate{Series: series, Dropped: dropped}, nil
}

// Estimator returns the model bound to a fixed mode and strategy, usable
// wherever a consumption model is expected.
func (m *Model) Estimator(mode types.ThermalMode, strategy types.ControlStrategy) (*Estimator, error) {
	if _, _, err := m.Coefficients(mode, strategy); err != nil {
		return nil, err
	}
	return &Estimator{model: m, mode: mode, strategy: strategy}, nil
}

// Estimator is a Model with its mode and strategy fixed.
type Estimator struct {
	model    *Model
	mode     types.ThermalMode
	strategy types.ControlStrategy
}

// Consumption returns the estimated energy series for indoor and outdoor.
func (e *Estimator) Consumption(indoor, outdoor types.TimeSeries) (types.EnergySeries, error) {
	est, err := e.model.Consumption(indoor, outdoor, e.mode, e.strategy)
	if err != nil {
		return nil, err
	}
	return est.Series, nil
}

// ComparisonSample holds both strategies' estimates for the same hour.
type ComparisonSample struct {
	Timestamp time.Time `json:"timestamp"`
	MPCKWH    float64   `json:"mpcKWH"`
	RBCKWH    float64   `json:"rbcKWH"`
}

// Compare joins two energy series on timestamp for side by side charting.
func Compare(mpc, rbc types.EnergySeries) []ComparisonSample {
	rbcByInstant := make(map[int64]float64, len(rbc))
	for _, r := range rbc {
		rbcByInstant[r.Timestamp.UnixNano()] = r.EnergyKWH
	}
	out := make([]ComparisonSample, 0, len(mpc))
	for _, p := range mpc {
		r, ok := rbcByInstant[p.Timestamp.UnixNano()]
		if !ok {
			continue
		}
		out = append(out, ComparisonSample{Timestamp: p.Timestamp, MPCKWH: p.EnergyKWH, RBCKWH: r})
	}
	return out
}
