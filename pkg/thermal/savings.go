package thermal

import (
	"fmt"

	"github.com/dchouse/nanodash/pkg/types"
)

// TotalSavings returns how much less energy mpc used than rbc, in kWh.
func TotalSavings(mpc, rbc types.EnergySeries) float64 {
	return rbc.Total() - mpc.Total()
}

// SavingsMetrics derives cost, CO2 and distance from an energy saving using
// the model's conversion.
func (m *Model) SavingsMetrics(savingsKWH float64) types.SavingsBundle {
	conv := m.cfg.Conversion
	co2 := conv.CO2(savingsKWH)
	return types.SavingsBundle{
		EnergySavingsKWH:   savingsKWH,
		CostSavingsUSD:     conv.Cost(savingsKWH),
		CO2Savings:         co2,
		EquivalentDistance: conv.EquivalentDistance(co2),
		MassUnit:           conv.MassUnit,
		DistanceUnit:       conv.DistanceUnit,
	}
}

// Savings is the result of comparing MPC against RBC over the same window.
type Savings struct {
	types.SavingsBundle
	Mode       types.ThermalMode  `json:"mode"`
	MPC        types.EnergySeries `json:"mpc"`
	RBC        types.EnergySeries `json:"rbc"`
	Comparison []ComparisonSample `json:"comparison"`
	Dropped    int                `json:"dropped"`
}

// AllSavings estimates both strategies for mode and compares them.
func (m *Model) AllSavings(indoor, outdoor types.TimeSeries, mode types.ThermalMode) (Savings, error) {
	mpc, err := m.Consumption(indoor, outdoor, mode, types.ControlStrategyMPC)
	if err != nil {
		return Savings{}, fmt.Errorf("mpc consumption: %w", err)
	}
	rbc, err := m.Consumption(indoor, outdoor, mode, types.ControlStrategyRBC)
	if err != nil {
		return Savings{}, fmt.Errorf("rbc consumption: %w", err)
	}
	return Savings{
		SavingsBundle: m.SavingsMetrics(TotalSavings(mpc.Series, rbc.Series)),
		Mode:          mode,
		MPC:           mpc.Series,
		RBC:           rbc.Series,
		Comparison:    Compare(mpc.Series, rbc.Series),
		Dropped:       mpc.Dropped,
	}, nil
}
