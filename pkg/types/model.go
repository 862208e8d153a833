package types

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidMode     = errors.New("invalid thermal mode")
	ErrInvalidStrategy = errors.New("invalid control strategy")
	ErrInvalidConfig   = errors.New("invalid model config")
)

// ControlStrategy selects which thermostat control coefficient set a thermal
// model uses.
type ControlStrategy string

const (
	// ControlStrategyMPC is Model-Predictive-Control.
	ControlStrategyMPC ControlStrategy = "mpc"
	// ControlStrategyRBC is Rule-Based-Control.
	ControlStrategyRBC ControlStrategy = "rbc"
)

// Valid returns an error wrapping ErrInvalidStrategy if s is not a known
// strategy.
func (s ControlStrategy) Valid() error {
	switch s {
	case ControlStrategyMPC, ControlStrategyRBC:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidStrategy, string(s))
}

// ParseControlStrategy parses a case-insensitive strategy name.
func ParseControlStrategy(s string) (ControlStrategy, error) {
	cs := ControlStrategy(strings.ToLower(strings.TrimSpace(s)))
	if err := cs.Valid(); err != nil {
		return "", err
	}
	return cs, nil
}

// ThermalMode selects the heating or cooling coefficient pair.
type ThermalMode string

const (
	ThermalModeHeating ThermalMode = "heating"
	ThermalModeCooling ThermalMode = "cooling"
)

// Valid returns an error wrapping ErrInvalidMode if m is not a known mode.
func (m ThermalMode) Valid() error {
	switch m {
	case ThermalModeHeating, ThermalModeCooling:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidMode, string(m))
}

// ParseThermalMode parses a case-insensitive mode name.
func ParseThermalMode(s string) (ThermalMode, error) {
	m := ThermalMode(strings.ToLower(strings.TrimSpace(s)))
	if err := m.Valid(); err != nil {
		return "", err
	}
	return m, nil
}
