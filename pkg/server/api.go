package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/dchouse/nanodash/pkg/dashboard"
	"github.com/dchouse/nanodash/pkg/query"
	"github.com/dchouse/nanodash/pkg/types"
)

const (
	defaultRange     = "-24h"
	defaultLongRange = "-30d"
)

// parseWindow reads the range and every query parameters. fallback is used
// when no range is given.
func parseWindow(r *http.Request, fallback string) (query.Window, error) {
	rng := r.URL.Query().Get("range")
	if rng == "" {
		rng = fallback
	}
	return query.ParseWindow(rng, r.URL.Query().Get("every"))
}

// parseMode reads the mode query parameter, defaulting to heating.
func parseMode(r *http.Request) (types.ThermalMode, error) {
	mode := r.URL.Query().Get("mode")
	if mode == "" {
		return types.ThermalModeHeating, nil
	}
	return types.ParseThermalMode(mode)
}

// writePanel encodes v. Panels that failed upstream are served with a 502
// and are never cached.
func (s *Server) writePanel(w http.ResponseWriter, p dashboard.Panel, v any) {
	w.Header().Set("Content-Type", "application/json")
	code := http.StatusOK
	if p.Status == dashboard.StatusError {
		code = http.StatusBadGateway
	} else if s.cacheMaxAge > 0 {
		w.Header().Set("Cache-Control", fmt.Sprintf("private, max-age=%d", int(s.cacheMaxAge.Seconds())))
	}
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		panic(http.ErrAbortHandler)
	}
}

func (s *Server) handleConsumption(w http.ResponseWriter, r *http.Request) {
	window, err := parseWindow(r, defaultRange)
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	model, err := dashboard.ParseConsumptionModel(r.URL.Query().Get("model"))
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	var mode types.ThermalMode
	if model != dashboard.ConsumptionModelBaseline {
		mode, err = parseMode(r)
		if err != nil {
			writeJSONError(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	res := s.dashboard.Consumption(r.Context(), window, model, mode)
	s.writePanel(w, res.Panel, res)
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	window, err := parseWindow(r, defaultRange)
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	res := s.dashboard.Metrics(r.Context(), window)
	s.writePanel(w, res.Panel, res)
}

func (s *Server) handleSavings(w http.ResponseWriter, r *http.Request) {
	window, err := parseWindow(r, defaultLongRange)
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	mode, err := parseMode(r)
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	res := s.dashboard.MPCSavings(r.Context(), window, mode)
	s.writePanel(w, res.Panel, res)
}

func (s *Server) handleBill(w http.ResponseWriter, r *http.Request) {
	window, err := parseWindow(r, defaultLongRange)
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	res := s.dashboard.Bill(r.Context(), window)
	s.writePanel(w, res.Panel, res)
}

func (s *Server) handleDevices(w http.ResponseWriter, r *http.Request) {
	window, err := parseWindow(r, defaultRange)
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	res := s.dashboard.Devices(r.Context(), window)
	s.writePanel(w, res.Panel, res)
}

func (s *Server) handleSeries(w http.ResponseWriter, r *http.Request) {
	measurement, err := types.ParseMeasurement(r.PathValue("measurement"))
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusNotFound)
		return
	}
	window, err := parseWindow(r, defaultRange)
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	res := s.dashboard.Series(r.Context(), measurement, window)
	s.writePanel(w, res.Panel, res)
}
