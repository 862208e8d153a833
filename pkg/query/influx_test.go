package query

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dchouse/nanodash/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const csvHeader = `#datatype,string,long,dateTime:RFC3339,double,string,string
#group,false,false,false,false,true,true
#default,_result,,,,,
,result,table,_time,_value,_field,_measurement
`

type fakeInflux struct {
	t       *testing.T
	csv     string
	status  int
	queries []string
}

func (f *fakeInflux) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/ping":
		w.WriteHeader(http.StatusNoContent)
		return
	case "/api/v2/query":
	default:
		http.NotFound(w, r)
		return
	}
	assert.Equal(f.t, "Token test-token", r.Header.Get("Authorization"))
	assert.Equal(f.t, "dchouse", r.URL.Query().Get("org"))

	b, err := io.ReadAll(r.Body)
	assert.NoError(f.t, err)
	var body struct {
		Query string `json:"query"`
	}
	assert.NoError(f.t, json.Unmarshal(b, &body))
	f.queries = append(f.queries, body.Query)

	if f.status != 0 {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(f.status)
		_, _ = w.Write([]byte(`{"code":"invalid","message":"bad query"}`))
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	_, _ = w.Write([]byte(f.csv))
}

func newTestSource(t *testing.T, f *fakeInflux) *InfluxSource {
	f.t = t
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	src := NewInfluxSource(srv.URL, "test-token", "dchouse", DefaultBuckets(), srv.Client())
	t.Cleanup(func() { _ = src.Close() })
	return src
}

func TestInfluxSourceSeries(t *testing.T) {
	f := &fakeInflux{csv: csvHeader +
		",,0,2024-01-01T02:00:00Z,69.5,value,temperature_thermostat\n" +
		",,0,2024-01-01T00:00:00Z,70.5,value,temperature_thermostat\n" +
		",,0,2024-01-01T01:00:00Z,,value,temperature_thermostat\n" +
		"\n"}
	src := newTestSource(t, f)

	w, err := ParseWindow("-24h", "1h")
	require.NoError(t, err)
	series, err := src.Series(context.Background(), types.MeasurementIndoorTemperature, w)
	require.NoError(t, err)

	assert.Equal(t, "indoor_temperature", series.Name)
	assert.False(t, series.Synthetic)
	require.Len(t, series.Samples, 2)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), series.Samples[0].Timestamp)
	assert.Equal(t, 70.5, series.Samples[0].Value)
	assert.Equal(t, time.Date(2024, 1, 1, 2, 0, 0, 0, time.UTC), series.Samples[1].Timestamp)
	assert.Equal(t, 69.5, series.Samples[1].Value)

	require.Len(t, f.queries, 1)
	assert.Contains(t, f.queries[0], `r._measurement == "temperature_thermostat"`)
	assert.Contains(t, f.queries[0], "range(start: -24h)")
}

func TestInfluxSourceSeriesDuplicates(t *testing.T) {
	f := &fakeInflux{csv: csvHeader +
		",,0,2024-01-01T00:00:00Z,70,value,temperature_thermostat\n" +
		",,0,2024-01-01T01:00:00Z,70,value,temperature_thermostat\n" +
		",,1,2024-01-01T00:00:00Z,71,value,temperature_thermostat\n" +
		"\n"}
	src := newTestSource(t, f)

	series, err := src.Series(context.Background(), types.MeasurementIndoorTemperature, Window{Range: "-24h", Every: "1h"})
	require.NoError(t, err)
	require.Len(t, series.Samples, 2)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), series.Samples[0].Timestamp)
	assert.Equal(t, 71.0, series.Samples[0].Value)
	assert.Equal(t, time.Date(2024, 1, 1, 1, 0, 0, 0, time.UTC), series.Samples[1].Timestamp)
}

func TestInfluxSourceSeriesUnknown(t *testing.T) {
	src := newTestSource(t, &fakeInflux{})
	_, err := src.Series(context.Background(), types.Measurement("attic"), Window{Range: "-1d", Every: "1h"})
	assert.ErrorContains(t, err, "no query for measurement")
}

func TestInfluxSourceSeriesError(t *testing.T) {
	src := newTestSource(t, &fakeInflux{status: http.StatusBadRequest})
	_, err := src.Series(context.Background(), types.MeasurementGridPower, Window{Range: "-1d", Every: "1h"})
	assert.ErrorContains(t, err, "failed to query grid_power")
}

func TestInfluxSourceActualEnergy(t *testing.T) {
	f := &fakeInflux{csv: csvHeader +
		",,0,2024-01-08T00:00:00Z,150000,value,total_home_demand\n" +
		",,1,2024-01-08T00:00:00Z,1500,value,total_home_demand\n" +
		"\n"}
	src := newTestSource(t, f)

	kwh, err := src.ActualEnergy(context.Background(), Window{Range: "-7d", Every: "1h"})
	require.NoError(t, err)
	assert.InDelta(t, 151.5, kwh, 1e-9)
	require.Len(t, f.queries, 1)
	assert.Contains(t, f.queries[0], "sum()")
}

func TestInfluxSourceDeviceUsage(t *testing.T) {
	f := &fakeInflux{csv: csvHeader +
		",,0,2024-01-08T00:00:00Z,12000,value,HPWH\n" +
		",,1,2024-01-08T00:00:00Z,30000,value,AHU_main\n" +
		",,2,2024-01-08T00:00:00Z,4000,value,Fridge\n" +
		",,3,2024-01-08T00:00:00Z,,value,Dryer\n" +
		",,4,2024-01-08T00:00:00Z,3000,value,Fridge\n" +
		"\n"}
	src := newTestSource(t, f)

	usage, err := src.DeviceUsage(context.Background(), Window{Range: "-7d", Every: "1h"}, 2)
	require.NoError(t, err)
	assert.Equal(t, []types.DeviceUsage{
		{Device: "AHU_main", EnergyKWH: 30},
		{Device: "HPWH", EnergyKWH: 12},
	}, usage)
	require.Len(t, f.queries, 1)
	assert.True(t, strings.Contains(f.queries[0], `r._measurement != "MainA_L"`))
}

func TestInfluxSourcePing(t *testing.T) {
	src := newTestSource(t, &fakeInflux{})
	assert.NoError(t, src.Ping(context.Background()))
}

func TestTopDevices(t *testing.T) {
	byDevice := map[string]float64{
		"b": 2000,
		"a": 2000,
		"c": 5000,
		"d": 500,
	}

	assert.Equal(t, []types.DeviceUsage{
		{Device: "c", EnergyKWH: 5},
		{Device: "a", EnergyKWH: 2},
		{Device: "b", EnergyKWH: 2},
	}, topDevices(byDevice, 3))

	assert.Len(t, topDevices(byDevice, 0), 4)
	assert.Len(t, topDevices(byDevice, 10), 4)
	assert.Empty(t, topDevices(nil, 5))
}

func TestRecordFloat(t *testing.T) {
	v, ok := recordFloat(1.5)
	assert.True(t, ok)
	assert.Equal(t, 1.5, v)

	v, ok = recordFloat(int64(3))
	assert.True(t, ok)
	assert.Equal(t, 3.0, v)

	v, ok = recordFloat(uint64(4))
	assert.True(t, ok)
	assert.Equal(t, 4.0, v)

	_, ok = recordFloat(nil)
	assert.False(t, ok)
	_, ok = recordFloat("1.5")
	assert.False(t, ok)
}
