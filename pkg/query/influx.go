package query

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	fluxquery "github.com/influxdata/influxdb-client-go/v2/api/query"

	"github.com/dchouse/nanodash/pkg/log"
	"github.com/dchouse/nanodash/pkg/metrics"
	"github.com/dchouse/nanodash/pkg/types"
)

const (
	actualEnergyLabel = "actual_energy"
	deviceUsageLabel  = "device_usage"
)

// InfluxSource implements Source against an InfluxDB v2 server using Flux.
type InfluxSource struct {
	client   influxdb2.Client
	queryAPI api.QueryAPI
	buckets  Buckets
}

var _ Source = (*InfluxSource)(nil)

// NewInfluxSource connects to the InfluxDB server at url. No request is made
// until the first query.
func NewInfluxSource(url, token, org string, buckets Buckets, httpClient *http.Client) *InfluxSource {
	opts := influxdb2.DefaultOptions()
	if httpClient != nil {
		opts = opts.SetHTTPClient(httpClient)
	}
	client := influxdb2.NewClientWithOptions(url, token, opts)
	return &InfluxSource{
		client:   client,
		queryAPI: client.QueryAPI(org),
		buckets:  buckets,
	}
}

// Series implements Source.
func (s *InfluxSource) Series(ctx context.Context, measurement types.Measurement, window Window) (types.TimeSeries, error) {
	tmpl, ok := seriesFlux[measurement]
	if !ok {
		return types.TimeSeries{}, fmt.Errorf("no query for measurement: %s", measurement)
	}

	series := types.TimeSeries{Name: string(measurement)}
	var nulls int
	err := s.query(ctx, string(measurement), renderFlux(tmpl, s.buckets, window), func(rec *fluxquery.FluxRecord) {
		v, ok := recordFloat(rec.Value())
		if !ok {
			nulls++
			return
		}
		series.Samples = append(series.Samples, types.TimeSample{
			Timestamp: rec.Time().UTC(),
			Value:     v,
		})
	})
	if err != nil {
		return types.TimeSeries{}, err
	}
	if nulls > 0 {
		metrics.QueryNullSamples.WithLabelValues(string(measurement)).Add(float64(nulls))
		log.Ctx(ctx).DebugContext(ctx, "skipped null samples", slog.String("measurement", string(measurement)), slog.Int("nulls", nulls))
	}
	// Readings from several tables can land on the same instant.
	series.Sort()
	if dupes := series.Dedupe(); dupes > 0 {
		log.Ctx(ctx).DebugContext(ctx, "collapsed duplicate samples", slog.String("measurement", string(measurement)), slog.Int("duplicates", dupes))
	}
	return series, nil
}

// ActualEnergy implements Source.
func (s *InfluxSource) ActualEnergy(ctx context.Context, window Window) (float64, error) {
	var wh float64
	err := s.query(ctx, actualEnergyLabel, renderFlux(actualEnergyFlux, s.buckets, window), func(rec *fluxquery.FluxRecord) {
		if v, ok := recordFloat(rec.Value()); ok {
			wh += v
		}
	})
	if err != nil {
		return 0, err
	}
	return types.WattHoursToKWH(wh), nil
}

// DeviceUsage implements Source.
func (s *InfluxSource) DeviceUsage(ctx context.Context, window Window, limit int) ([]types.DeviceUsage, error) {
	byDevice := make(map[string]float64)
	err := s.query(ctx, deviceUsageLabel, renderFlux(deviceUsageFlux(), s.buckets, window), func(rec *fluxquery.FluxRecord) {
		if v, ok := recordFloat(rec.Value()); ok {
			byDevice[rec.Measurement()] += v
		}
	})
	if err != nil {
		return nil, err
	}
	return topDevices(byDevice, limit), nil
}

// Ping implements Source.
func (s *InfluxSource) Ping(ctx context.Context) error {
	ok, err := s.client.Ping(ctx)
	if err != nil {
		return fmt.Errorf("failed to ping influxdb: %w", err)
	}
	if !ok {
		return fmt.Errorf("influxdb is not ready")
	}
	return nil
}

// Close implements Source.
func (s *InfluxSource) Close() error {
	s.client.Close()
	return nil
}

func (s *InfluxSource) query(ctx context.Context, label, flux string, fn func(*fluxquery.FluxRecord)) error {
	start := time.Now()
	defer func() {
		metrics.QueryDuration.WithLabelValues(label).Observe(time.Since(start).Seconds())
	}()

	result, err := s.queryAPI.Query(ctx, flux)
	if err != nil {
		metrics.QueryErrors.WithLabelValues(label).Inc()
		return fmt.Errorf("failed to query %s: %w", label, err)
	}
	defer result.Close()

	for result.Next() {
		fn(result.Record())
	}
	if err := result.Err(); err != nil {
		metrics.QueryErrors.WithLabelValues(label).Inc()
		return fmt.Errorf("failed to read %s results: %w", label, err)
	}
	return nil
}

// recordFloat converts a Flux value to float64. Nulls and non-numeric values
// report false.
func recordFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case int64:
		return float64(x), true
	case uint64:
		return float64(x), true
	default:
		return 0, false
	}
}

// topDevices converts watt-hour totals to kWh and returns the limit largest.
// A limit <= 0 returns every device.
func topDevices(byDevice map[string]float64, limit int) []types.DeviceUsage {
	usage := make([]types.DeviceUsage, 0, len(byDevice))
	for device, wh := range byDevice {
		usage = append(usage, types.DeviceUsage{Device: device, EnergyKWH: types.WattHoursToKWH(wh)})
	}
	sort.Slice(usage, func(i, j int) bool {
		if usage[i].EnergyKWH == usage[j].EnergyKWH {
			return usage[i].Device < usage[j].Device
		}
		return usage[i].EnergyKWH > usage[j].EnergyKWH
	})
	if limit > 0 && len(usage) > limit {
		usage = usage[:limit]
	}
	return usage
}
