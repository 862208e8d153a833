// Package dashboard turns raw query results into the values shown on each
// dashboard panel. Failures never escape as errors: each result carries a
// Status so the presentation layer can decide how to render it.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/levenlabs/go-lflag"
	"golang.org/x/sync/errgroup"

	"github.com/dchouse/nanodash/pkg/energy"
	"github.com/dchouse/nanodash/pkg/log"
	"github.com/dchouse/nanodash/pkg/metrics"
	"github.com/dchouse/nanodash/pkg/query"
	"github.com/dchouse/nanodash/pkg/thermal"
	"github.com/dchouse/nanodash/pkg/types"
	"github.com/dchouse/nanodash/pkg/weather"
)

// TopDevices is how many devices the usage panel shows.
const TopDevices = 5

// Service computes dashboard panels. It holds no per-request state and is
// safe for concurrent use.
type Service struct {
	source    query.Source
	energy    *energy.Aggregator
	thermal   *thermal.Model
	synthetic *weather.Synthetic
	loc       *time.Location
}

// New returns a Service. Timestamps are converted to loc before modelling
// since both the month and the hour of day depend on it.
func New(source query.Source, agg *energy.Aggregator, tm *thermal.Model, synthetic *weather.Synthetic, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		source:    source,
		energy:    agg,
		thermal:   tm,
		synthetic: synthetic,
		loc:       loc,
	}
}

// Configured builds a Service around source with every model configured from
// flags.
func Configured(source query.Source) *Service {
	location := lflag.String("location", "Local", "IANA time zone of the house, used for month and hour of day")
	s := &Service{
		source:    source,
		energy:    energy.Configured(),
		thermal:   thermal.Configured(),
		synthetic: weather.Configured(),
	}
	lflag.Do(func() {
		loc, err := time.LoadLocation(*location)
		if err != nil {
			panic(fmt.Sprintf("invalid location (%s): %v", *location, err))
		}
		s.loc = loc
	})
	return s
}

// Location returns the zone timestamps are converted to.
func (s *Service) Location() *time.Location {
	return s.loc
}

// Ping checks that the query source is reachable.
func (s *Service) Ping(ctx context.Context) error {
	return s.source.Ping(ctx)
}

type temperatures struct {
	indoor    types.TimeSeries
	outdoor   types.TimeSeries
	synthetic bool
}

// temperatures fetches the indoor and outdoor series in parallel. When the
// outdoor feed is empty but indoor readings exist, a synthetic outdoor series
// spanning the indoor readings is substituted.
func (s *Service) temperatures(ctx context.Context, window query.Window) (temperatures, error) {
	var t temperatures
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		t.indoor, err = s.source.Series(gctx, types.MeasurementIndoorTemperature, window)
		return err
	})
	g.Go(func() error {
		var err error
		t.outdoor, err = s.source.Series(gctx, types.MeasurementOutdoorTemperature, window)
		return err
	})
	if err := g.Wait(); err != nil {
		return temperatures{}, err
	}
	t.indoor = t.indoor.In(s.loc)
	t.outdoor = t.outdoor.In(s.loc)

	if t.outdoor.Empty() {
		if start, end, ok := t.indoor.Bounds(); ok {
			// Zero falls back to the generator's own interval.
			period, _ := window.Period()
			t.outdoor = s.synthetic.Generate(ctx, start, end, period)
			t.synthetic = true
			metrics.SyntheticOutdoor.Inc()
			log.Ctx(ctx).InfoContext(
				ctx,
				"no outdoor temperature readings, substituting synthetic series",
				log.Series("indoor", t.indoor),
				log.Series("outdoor", t.outdoor),
			)
		}
	}
	return t, nil
}

func recordDropped(ctx context.Context, dropped int) {
	if dropped <= 0 {
		return
	}
	metrics.UnalignedSamples.Add(float64(dropped))
	log.Ctx(ctx).WarnContext(ctx, "dropped samples without a matching timestamp", slog.Int("dropped", dropped))
}

// consumptionModel resolves model, and mode for the thermal models, to the
// estimator that serves it.
func (s *Service) consumptionModel(model ConsumptionModel, mode types.ThermalMode) (energy.Model, error) {
	switch model {
	case ConsumptionModelBaseline:
		return s.energy.Model(), nil
	case ConsumptionModelMPC, ConsumptionModelRBC:
		est, err := s.thermal.Estimator(mode, types.ControlStrategy(model))
		if err != nil {
			return nil, err
		}
		return est, nil
	default:
		return nil, fmt.Errorf("%w: %q", types.ErrInvalidStrategy, model)
	}
}

// Consumption estimates energy use over window with the chosen model. mode
// is only used by the thermal models.
func (s *Service) Consumption(ctx context.Context, window query.Window, model ConsumptionModel, mode types.ThermalMode) (res ConsumptionResult) {
	res.Model = model
	defer record("consumption", &res.Panel)

	estimator, err := s.consumptionModel(model, mode)
	if err != nil {
		if errors.Is(err, types.ErrInvalidStrategy) {
			res.fail(ctx, "invalid consumption model", err)
		} else {
			res.fail(ctx, "invalid thermal model", err)
		}
		return res
	}
	if model != ConsumptionModelBaseline {
		res.Mode = mode
	}

	temps, err := s.temperatures(ctx, window)
	if err != nil {
		res.fail(ctx, "failed to query temperatures", err)
		return res
	}
	res.SyntheticOutdoor = temps.synthetic
	if temps.indoor.Empty() {
		res.noData("no indoor temperature data available")
		return res
	}

	res.Series, err = estimator.Consumption(temps.indoor, temps.outdoor)
	if model != ConsumptionModelBaseline {
		// The baseline model ignores outdoor readings, so only the thermal
		// models lose samples to alignment.
		_, res.Dropped = types.Align(temps.indoor, temps.outdoor)
		recordDropped(ctx, res.Dropped)
	}
	if err != nil {
		res.fail(ctx, "failed to estimate consumption", err)
		return res
	}
	if len(res.Series) == 0 {
		res.noData("indoor and outdoor readings share no timestamps")
		return res
	}
	res.TotalKWH = res.Series.Total()
	return res
}

// Metrics runs the baseline model over window and compares it with the
// measured consumption. A failed actual consumption query only drops the
// comparison.
func (s *Service) Metrics(ctx context.Context, window query.Window) (res MetricsResult) {
	defer record("metrics", &res.Panel)

	var (
		temps     temperatures
		actualErr error
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		temps, err = s.temperatures(gctx, window)
		return err
	})
	g.Go(func() error {
		res.ActualKWH, actualErr = s.source.ActualEnergy(gctx, window)
		return nil
	})
	if err := g.Wait(); err != nil {
		res.fail(ctx, "failed to query temperatures", err)
		return res
	}
	res.SyntheticOutdoor = temps.synthetic

	res.Metrics = s.energy.AllMetrics(temps.indoor, temps.outdoor)
	if temps.indoor.Empty() {
		res.noData("no indoor temperature data available")
		return res
	}

	if actualErr != nil {
		res.ActualKWH = 0
		res.Message = "actual consumption unavailable"
		log.Ctx(ctx).WarnContext(ctx, "failed to query actual consumption", slog.Any("error", actualErr))
		return res
	}
	if res.ActualKWH > 0 {
		cmp := s.energy.CompareActual(res.Metrics, res.ActualKWH)
		res.ActualComparison = &cmp
	}
	return res
}

// MPCSavings compares the MPC and RBC strategies for mode over window.
func (s *Service) MPCSavings(ctx context.Context, window query.Window, mode types.ThermalMode) (res SavingsResult) {
	res.Mode = mode
	defer record("savings", &res.Panel)

	if err := mode.Valid(); err != nil {
		res.fail(ctx, "invalid thermal mode", err)
		return res
	}

	temps, err := s.temperatures(ctx, window)
	if err != nil {
		res.fail(ctx, "failed to query temperatures", err)
		return res
	}
	res.SyntheticOutdoor = temps.synthetic
	if temps.indoor.Empty() {
		res.noData("no indoor temperature data available")
		return res
	}

	savings, err := s.thermal.AllSavings(temps.indoor, temps.outdoor, mode)
	if err != nil {
		res.fail(ctx, "failed to estimate savings", err)
		return res
	}
	res.Savings = savings
	recordDropped(ctx, savings.Dropped)
	if len(savings.MPC) == 0 {
		res.noData("indoor and outdoor readings share no timestamps")
	}
	return res
}

// Bill predicts the electricity bill for window from measured consumption.
func (s *Service) Bill(ctx context.Context, window query.Window) (res BillResult) {
	res.DollarsPerKWH = s.energy.Conversion().DollarsPerKWH
	defer record("bill", &res.Panel)

	kwh, err := s.source.ActualEnergy(ctx, window)
	if err != nil {
		res.fail(ctx, "failed to query actual consumption", err)
		return res
	}
	if kwh <= 0 {
		res.noData("no consumption data available")
		return res
	}
	res.EnergyKWH = kwh
	res.CostUSD = s.energy.Cost(kwh)
	return res
}

// Series returns the raw readings for measurement over window.
func (s *Service) Series(ctx context.Context, measurement types.Measurement, window query.Window) (res SeriesResult) {
	res.Measurement = measurement
	res.Series.Name = string(measurement)
	defer record("series", &res.Panel)

	series, err := s.source.Series(ctx, measurement, window)
	if err != nil {
		res.fail(ctx, fmt.Sprintf("failed to query %s", measurement), err)
		return res
	}
	res.Series = series.In(s.loc)
	if res.Series.Empty() {
		res.noData(fmt.Sprintf("no %s data available", measurement))
		return res
	}
	latest := res.Series.Samples[len(res.Series.Samples)-1]
	res.Latest = &latest
	return res
}

// Devices returns the circuits that used the most energy over window.
func (s *Service) Devices(ctx context.Context, window query.Window) (res DevicesResult) {
	defer record("devices", &res.Panel)

	devices, err := s.source.DeviceUsage(ctx, window, TopDevices)
	if err != nil {
		res.fail(ctx, "failed to query device usage", err)
		return res
	}
	if len(devices) == 0 {
		res.noData("no device usage data available")
		return res
	}
	res.Devices = devices
	for _, d := range devices {
		res.TotalKWH += d.EnergyKWH
	}
	return res
}
