package query

import (
	"fmt"
	"strings"

	"github.com/dchouse/nanodash/pkg/types"
)

// Buckets names the InfluxDB buckets holding each kind of data.
type Buckets struct {
	// Sensors holds temperature and humidity readings.
	Sensors string
	// Electrical holds per-circuit power readings in watts.
	Electrical string
}

// DefaultBuckets returns the bucket names used by the house.
func DefaultBuckets() Buckets {
	return Buckets{
		Sensors:    "dchouse",
		Electrical: "electrical",
	}
}

// seriesFlux holds one query per measurement. {sensors}, {electrical},
// {start} and {every} are substituted by renderFlux.
var seriesFlux = map[types.Measurement]string{
	types.MeasurementIndoorTemperature: `
from(bucket: "{sensors}")
	|> range(start: {start})
	|> filter(fn: (r) => r._measurement == "temperature_thermostat" and r._field == "value" and r.location == "thermostat")
	|> aggregateWindow(every: {every}, fn: mean)
	|> yield(name: "indoor_temp")`,

	types.MeasurementOutdoorTemperature: `
from(bucket: "{sensors}")
	|> range(start: {start})
	|> filter(fn: (r) => r._measurement == "temperature_outdoor" and r._field == "value")
	|> aggregateWindow(every: {every}, fn: mean)
	|> yield(name: "outdoor_temp")`,

	types.MeasurementIndoorHumidity: `
from(bucket: "{sensors}")
	|> range(start: {start})
	|> filter(fn: (r) => r._measurement == "relative_humidity" and r._field == "value")
	|> aggregateWindow(every: {every}, fn: mean)
	|> yield(name: "indoor_humidity")`,

	types.MeasurementGridPower: `
from(bucket: "{electrical}")
	|> range(start: {start})
	|> filter(fn: (r) => r._measurement == "total_home_demand")
	|> aggregateWindow(every: {every}, fn: mean)
	|> yield(name: "total_power")`,

	types.MeasurementHeatPumpTemperature: `
from(bucket: "{sensors}")
	|> range(start: {start})
	|> filter(fn: (r) => r._measurement == "temperature" and r._field == "value" and r.location == "heat_pump")
	|> aggregateWindow(every: {every}, fn: mean)
	|> yield(name: "hp_temp")`,

	types.MeasurementHeatPumpPower: `
outdoor = from(bucket: "{electrical}")
	|> range(start: {start})
	|> filter(fn: (r) => r._measurement == "AC_unitout")
	|> aggregateWindow(every: {every}, fn: mean)

ahu_main = from(bucket: "{electrical}")
	|> range(start: {start})
	|> filter(fn: (r) => r._measurement == "AHU_main")
	|> aggregateWindow(every: {every}, fn: mean)

ahu_aux = from(bucket: "{electrical}")
	|> range(start: {start})
	|> filter(fn: (r) => r._measurement == "AHU_Aux")
	|> aggregateWindow(every: {every}, fn: mean)

union(tables: [outdoor, ahu_main, ahu_aux])
	|> group(columns: ["_time"])
	|> sum(column: "_value")
	|> group()
	|> sort(columns: ["_time"])
	|> yield(name: "hvac_total")`,

	types.MeasurementWaterHeaterTemperature: `
from(bucket: "{sensors}")
	|> range(start: {start})
	|> filter(fn: (r) => r._measurement == "temperature" and r._field == "value" and r.location == "water_heater")
	|> aggregateWindow(every: {every}, fn: mean)
	|> yield(name: "hpwh_temp")`,

	types.MeasurementWaterHeaterPower: `
from(bucket: "{electrical}")
	|> range(start: {start})
	|> filter(fn: (r) => r._measurement == "HPWH")
	|> aggregateWindow(every: {every}, fn: mean)
	|> yield(name: "hpwh_power")`,
}

// actualEnergyFlux sums hourly mean power, giving watt-hours per table.
const actualEnergyFlux = `
from(bucket: "{electrical}")
	|> range(start: {start})
	|> filter(fn: (r) => r._measurement == "total_home_demand")
	|> aggregateWindow(every: 1h, fn: mean)
	|> sum()
	|> yield(name: "total")`

// nonDeviceMeasurements are electrical readings that are mains, legs,
// currents or power factors rather than individual circuits.
var nonDeviceMeasurements = []string{
	"MainA_L", "MainA_R", "MainB_L", "MainB_R", "MainN_L", "MainN_R",
	"grid_l", "grid_lP", "grid_r", "grid_rP",
	"ampsA_L", "ampsA_R", "ampsB_L", "ampsB_R", "ampsN_L", "ampsN_R",
	"AMPS_AHU1", "AMPS_AHU2", "Volt_inR", "amps_HP", "HVAC_net",
	"ampstot_L", "ampstot_R", "AHU_PF", "AUX_PF", "AC_unitout_PF", "amps_HPWH",
	"total_home_demand",
}

// deviceUsageFlux sums hourly mean power per circuit, giving watt-hours.
func deviceUsageFlux() string {
	clauses := make([]string, len(nonDeviceMeasurements))
	for i, m := range nonDeviceMeasurements {
		clauses[i] = fmt.Sprintf(`r._measurement != %q`, m)
	}
	return `
from(bucket: "{electrical}")
	|> range(start: {start})
	|> filter(fn: (r) => ` + strings.Join(clauses, " and ") + `)
	|> aggregateWindow(every: 1h, fn: mean)
	|> sum()
	|> group()
	|> yield(name: "devices")`
}

// renderFlux substitutes the template placeholders. The window must already
// be validated by ParseWindow.
func renderFlux(tmpl string, buckets Buckets, window Window) string {
	start := window.Range
	return strings.NewReplacer(
		"{sensors}", buckets.Sensors,
		"{electrical}", buckets.Electrical,
		"{start}", start,
		"{every}", window.Every,
	).Replace(tmpl)
}
