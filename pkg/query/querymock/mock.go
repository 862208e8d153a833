package querymock

import (
	"context"

	"github.com/dchouse/nanodash/pkg/query"
	"github.com/dchouse/nanodash/pkg/types"
	"github.com/stretchr/testify/mock"
)

type MockSource struct {
	mock.Mock
}

var _ query.Source = (*MockSource)(nil)

func (m *MockSource) Series(ctx context.Context, measurement types.Measurement, window query.Window) (types.TimeSeries, error) {
	args := m.Called(ctx, measurement, window)
	return args.Get(0).(types.TimeSeries), args.Error(1)
}

func (m *MockSource) ActualEnergy(ctx context.Context, window query.Window) (float64, error) {
	args := m.Called(ctx, window)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockSource) DeviceUsage(ctx context.Context, window query.Window, limit int) ([]types.DeviceUsage, error) {
	args := m.Called(ctx, window, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.DeviceUsage), args.Error(1)
}

func (m *MockSource) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockSource) Close() error {
	args := m.Called()
	return args.Error(0)
}
