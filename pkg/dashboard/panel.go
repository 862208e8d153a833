package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dchouse/nanodash/pkg/energy"
	"github.com/dchouse/nanodash/pkg/log"
	"github.com/dchouse/nanodash/pkg/metrics"
	"github.com/dchouse/nanodash/pkg/thermal"
	"github.com/dchouse/nanodash/pkg/types"
)

// Status tells the presentation layer how to render a panel.
type Status string

const (
	StatusOK     Status = "ok"
	StatusNoData Status = "no_data"
	StatusError  Status = "error"
)

// Panel is embedded in every result. Message is meant for display and is
// set whenever Status is not ok.
type Panel struct {
	Status  Status `json:"status"`
	Message string `json:"message,omitempty"`
}

func (p *Panel) noData(msg string) {
	p.Status = StatusNoData
	p.Message = msg
}

func (p *Panel) fail(ctx context.Context, msg string, err error) {
	p.Status = StatusError
	p.Message = msg
	log.Ctx(ctx).ErrorContext(ctx, msg, slog.Any("error", err))
}

// record counts the outcome of a panel. A panel that was never marked is ok.
func record(panel string, p *Panel) {
	if p.Status == "" {
		p.Status = StatusOK
	}
	metrics.PanelResults.WithLabelValues(panel, string(p.Status)).Inc()
}

// ConsumptionModel selects which model estimates consumption.
type ConsumptionModel string

const (
	ConsumptionModelBaseline ConsumptionModel = "baseline"
	ConsumptionModelMPC      ConsumptionModel = ConsumptionModel(types.ControlStrategyMPC)
	ConsumptionModelRBC      ConsumptionModel = ConsumptionModel(types.ControlStrategyRBC)
)

// ParseConsumptionModel parses a model name case-insensitively. An empty
// string selects the baseline model.
func ParseConsumptionModel(s string) (ConsumptionModel, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "" || name == string(ConsumptionModelBaseline) {
		return ConsumptionModelBaseline, nil
	}
	strategy, err := types.ParseControlStrategy(name)
	if err != nil {
		return "", fmt.Errorf("unknown consumption model: %s", s)
	}
	return ConsumptionModel(strategy), nil
}

// ConsumptionResult backs the energy consumption time series panel.
type ConsumptionResult struct {
	Panel
	Model            ConsumptionModel   `json:"model"`
	Mode             types.ThermalMode  `json:"mode,omitempty"`
	Series           types.EnergySeries `json:"series"`
	TotalKWH         float64            `json:"totalKWH"`
	Dropped          int                `json:"dropped"`
	SyntheticOutdoor bool               `json:"syntheticOutdoor"`
}

// MetricsResult backs the baseline gauges and stats along with the
// comparison against what the house actually used.
type MetricsResult struct {
	Panel
	energy.Metrics
	ActualKWH float64 `json:"actualKWH"`
	// ActualComparison is only set when measured usage is positive.
	ActualComparison *types.SavingsBundle `json:"actualComparison,omitempty"`
	SyntheticOutdoor bool                 `json:"syntheticOutdoor"`
}

// SavingsResult backs the MPC versus RBC panels.
type SavingsResult struct {
	Panel
	thermal.Savings
	SyntheticOutdoor bool `json:"syntheticOutdoor"`
}

// BillResult backs the predicted bill gauge.
type BillResult struct {
	Panel
	EnergyKWH     float64 `json:"energyKWH"`
	CostUSD       float64 `json:"costUSD"`
	DollarsPerKWH float64 `json:"dollarsPerKWH"`
}

// SeriesResult backs a raw measurement panel.
type SeriesResult struct {
	Panel
	Measurement types.Measurement `json:"measurement"`
	Series      types.TimeSeries  `json:"series"`
	// Latest is the most recent sample, shown by gauge panels.
	Latest *types.TimeSample `json:"latest,omitempty"`
}

// DevicesResult backs the device usage pie.
type DevicesResult struct {
	Panel
	Devices  []types.DeviceUsage `json:"devices"`
	TotalKWH float64             `json:"totalKWH"`
}
