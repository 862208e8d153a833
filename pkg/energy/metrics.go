package energy

import (
	"github.com/dchouse/nanodash/pkg/types"
)

// Metrics is the full result of running the baseline model over a window.
type Metrics struct {
	types.MetricsBundle
	Breakdown types.CostBreakdown `json:"breakdown"`
	Series    types.EnergySeries  `json:"series"`
}

// Aggregator turns energy series into totals, cost, CO2 and equivalent
// distance. It has no mutable state and is safe for concurrent use.
type Aggregator struct {
	model *BaselineModel
}

// NewAggregator returns an aggregator backed by model.
func NewAggregator(model *BaselineModel) *Aggregator {
	return &Aggregator{model: model}
}

// Model returns the underlying baseline model.
func (a *Aggregator) Model() *BaselineModel {
	return a.model
}

// Conversion returns the constants used for cost, CO2 and distance.
func (a *Aggregator) Conversion() types.Conversion {
	return a.model.cfg.Conversion
}

// TotalEnergy sums series in kWh.
func (a *Aggregator) TotalEnergy(series types.EnergySeries) float64 {
	return series.Total()
}

// Cost is the canonical electricity cost of kwh.
func (a *Aggregator) Cost(kwh float64) float64 {
	return a.Conversion().Cost(kwh)
}

// CO2 returns the CO2 mass, in kg by default, of producing kwh.
func (a *Aggregator) CO2(kwh float64) float64 {
	return a.Conversion().CO2(kwh)
}

// EquivalentDistance returns the distance, in km by default, an average car
// covers while emitting co2.
func (a *Aggregator) EquivalentDistance(co2 float64) float64 {
	return a.Conversion().EquivalentDistance(co2)
}

// AllMetrics runs the baseline model over indoor and summarizes the result.
// An empty indoor series yields zero metrics and an empty series.
func (a *Aggregator) AllMetrics(indoor, outdoor types.TimeSeries) Metrics {
	// the baseline model never fails
	series, _ := a.model.Consumption(indoor, outdoor)
	breakdown := a.model.CostBreakdown(series)
	total := a.TotalEnergy(series)
	co2 := a.CO2(total)
	conv := a.Conversion()
	return Metrics{
		MetricsBundle: types.MetricsBundle{
			TotalEnergyKWH:     total,
			CostUSD:            breakdown.TotalUSD(),
			CO2:                co2,
			EquivalentDistance: a.EquivalentDistance(co2),
			MassUnit:           conv.MassUnit,
			DistanceUnit:       conv.DistanceUnit,
		},
		Breakdown: breakdown,
		Series:    series,
	}
}

// CompareActual compares the modeled average house against measured usage.
// Callers must only call this with actualKWH > 0; with no measured usage the
// comparison is meaningless.
func (a *Aggregator) CompareActual(m Metrics, actualKWH float64) types.SavingsBundle {
	conv := a.Conversion()
	savings := m.TotalEnergyKWH - actualKWH
	co2 := conv.CO2(savings)
	return types.SavingsBundle{
		EnergySavingsKWH:   savings,
		CostSavingsUSD:     m.CostUSD - conv.Cost(actualKWH),
		CO2Savings:         co2,
		EquivalentDistance: conv.EquivalentDistance(co2),
		MassUnit:           conv.MassUnit,
		DistanceUnit:       conv.DistanceUnit,
	}
}
