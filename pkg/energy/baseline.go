package energy

import (
	"time"

	"github.com/dchouse/nanodash/pkg/types"
)

// Model estimates hourly energy consumption from indoor and outdoor readings.
type Model interface {
	Consumption(indoor, outdoor types.TimeSeries) (types.EnergySeries, error)
}

// BaselineModel estimates the consumption of an average house from the
// calendar month alone. Each input timestamp stands for one hour of use at
// that month's rate; elapsed time between samples is not considered.
type BaselineModel struct {
	cfg Config
}

var _ Model = (*BaselineModel)(nil)

// NewBaselineModel validates cfg and returns a model using it.
func NewBaselineModel(cfg Config) (*BaselineModel, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &BaselineModel{cfg: cfg}, nil
}

// Config returns the constants the model was built with.
func (m *BaselineModel) Config() Config {
	return m.cfg
}

// BaseRate is the hourly rate outside of heating months.
func (m *BaselineModel) BaseRate() float64 {
	return m.cfg.BaseElectricKWHPerHour + m.cfg.BaseGasKWHPerHour
}

// HeatingSurcharge returns the additional heating gas rate for month, or 0
// for any month without one.
func (m *BaselineModel) HeatingSurcharge(month time.Month) float64 {
	if month < time.January || month > time.December {
		return 0
	}
	return m.cfg.HeatingGasKWHPerHour[month-1]
}

// Rate returns the total hourly rate for month.
func (m *BaselineModel) Rate(month time.Month) float64 {
	return m.BaseRate() + m.HeatingSurcharge(month)
}

// Consumption returns one sample per indoor timestamp holding the hourly rate
// of its month. Indoor values and the outdoor series are ignored.
func (m *BaselineModel) Consumption(indoor, _ types.TimeSeries) (types.EnergySeries, error) {
	series := make(types.EnergySeries, 0, indoor.Len())
	for _, s := range indoor.Samples {
		series = append(series, types.EnergySample{
			Timestamp: s.Timestamp,
			EnergyKWH: m.Rate(s.Timestamp.Month()),
		})
	}
	return series, nil
}

// CostBreakdown prices a series produced by Consumption, keeping electricity
// and gas apart since they are billed at different rates.
func (m *BaselineModel) CostBreakdown(series types.EnergySeries) types.CostBreakdown {
	var b types.CostBreakdown
	b.ElectricKWH = float64(len(series)) * m.cfg.BaseElectricKWHPerHour
	for _, s := range series {
		b.GasKWH += m.cfg.BaseGasKWHPerHour + m.HeatingSurcharge(s.Timestamp.Month())
	}
	b.ElectricUSD = m.cfg.Conversion.Cost(b.ElectricKWH)
	b.GasUSD = b.GasKWH * m.cfg.GasDollarsPerKWH
	return b
}
