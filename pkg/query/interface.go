package query

import (
	"context"

	"github.com/dchouse/nanodash/pkg/types"
)

// Source fetches sensor data for the dashboard.
type Source interface {
	// Series returns the samples of measurement within window, sorted
	// ascending. An empty series is not an error.
	Series(ctx context.Context, measurement types.Measurement, window Window) (types.TimeSeries, error)

	// ActualEnergy returns the metered whole-home consumption within window,
	// in kWh.
	ActualEnergy(ctx context.Context, window Window) (float64, error)

	// DeviceUsage returns the limit largest consuming circuits within window,
	// in kWh, largest first.
	DeviceUsage(ctx context.Context, window Window, limit int) ([]types.DeviceUsage, error)

	// Ping checks that the backing database is reachable.
	Ping(ctx context.Context) error

	// Close releases any connections.
	Close() error
}
