package types

import "fmt"

// Conversion holds the constants that turn an energy figure into cost,
// emitted CO2 and an equivalent driving distance. Each model carries its own
// Conversion since their published units differ.
type Conversion struct {
	DollarsPerKWH float64 `json:"dollarsPerKWH"`
	// CO2PerKWH is the CO2 mass emitted per kWh, in MassUnit.
	CO2PerKWH float64 `json:"co2PerKWH"`
	// CO2PerDistance is the CO2 mass emitted per DistanceUnit driven by an
	// average car.
	CO2PerDistance float64 `json:"co2PerDistance"`
	MassUnit       string  `json:"massUnit"`
	DistanceUnit   string  `json:"distanceUnit"`
}

// Validate checks that every factor is usable. CO2PerDistance must be
// strictly positive since it is a divisor.
func (c Conversion) Validate() error {
	if c.DollarsPerKWH < 0 {
		return fmt.Errorf("%w: dollarsPerKWH must be >= 0", ErrInvalidConfig)
	}
	if c.CO2PerKWH < 0 {
		return fmt.Errorf("%w: co2PerKWH must be >= 0", ErrInvalidConfig)
	}
	if c.CO2PerDistance <= 0 {
		return fmt.Errorf("%w: co2PerDistance must be > 0", ErrInvalidConfig)
	}
	return nil
}

// Cost returns the dollar cost of kwh.
func (c Conversion) Cost(kwh float64) float64 {
	return kwh * c.DollarsPerKWH
}

// CO2 returns the CO2 mass emitted producing kwh.
func (c Conversion) CO2(kwh float64) float64 {
	return kwh * c.CO2PerKWH
}

// EquivalentDistance returns how far an average car drives to emit co2.
func (c Conversion) EquivalentDistance(co2 float64) float64 {
	return co2 / c.CO2PerDistance
}

// MetricsBundle summarizes an energy series.
type MetricsBundle struct {
	TotalEnergyKWH     float64 `json:"totalEnergyKWH"`
	CostUSD            float64 `json:"costUSD"`
	CO2                float64 `json:"co2"`
	EquivalentDistance float64 `json:"equivalentDistance"`
	MassUnit           string  `json:"massUnit"`
	DistanceUnit       string  `json:"distanceUnit"`
}

// CostBreakdown splits a cost by energy carrier.
type CostBreakdown struct {
	ElectricKWH float64 `json:"electricKWH"`
	GasKWH      float64 `json:"gasKWH"`
	ElectricUSD float64 `json:"electricUSD"`
	GasUSD      float64 `json:"gasUSD"`
}

// TotalUSD is the combined electric and gas cost.
func (b CostBreakdown) TotalUSD() float64 {
	return b.ElectricUSD + b.GasUSD
}

// SavingsBundle compares two consumption figures. Positive values mean less
// energy was used than the reference.
type SavingsBundle struct {
	EnergySavingsKWH   float64 `json:"energySavingsKWH"`
	CostSavingsUSD     float64 `json:"costSavingsUSD"`
	CO2Savings         float64 `json:"co2Savings"`
	EquivalentDistance float64 `json:"equivalentDistance"`
	MassUnit           string  `json:"massUnit"`
	DistanceUnit       string  `json:"distanceUnit"`
}
