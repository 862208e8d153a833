package types

import "fmt"

// Measurement names a sensor feed the dashboard can chart.
type Measurement string

const (
	MeasurementIndoorTemperature      Measurement = "indoor_temperature"
	MeasurementOutdoorTemperature     Measurement = "outdoor_temperature"
	MeasurementIndoorHumidity         Measurement = "indoor_humidity"
	MeasurementGridPower              Measurement = "grid_power"
	MeasurementHeatPumpTemperature    Measurement = "heat_pump_temperature"
	MeasurementHeatPumpPower          Measurement = "heat_pump_power"
	MeasurementWaterHeaterTemperature Measurement = "water_heater_temperature"
	MeasurementWaterHeaterPower       Measurement = "water_heater_power"
)

// Measurements lists every known measurement.
var Measurements = []Measurement{
	MeasurementIndoorTemperature,
	MeasurementOutdoorTemperature,
	MeasurementIndoorHumidity,
	MeasurementGridPower,
	MeasurementHeatPumpTemperature,
	MeasurementHeatPumpPower,
	MeasurementWaterHeaterTemperature,
	MeasurementWaterHeaterPower,
}

// ParseMeasurement returns the Measurement named s.
func ParseMeasurement(s string) (Measurement, error) {
	for _, m := range Measurements {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown measurement: %s", s)
}

// DeviceUsage is the energy used by a single metered circuit.
type DeviceUsage struct {
	Device    string  `json:"device"`
	EnergyKWH float64 `json:"energyKWH"`
}
