package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/CoreaAsura/webspace-analyzer/internal/httputil"
	"github.com/CoreaAsura/webspace-analyzer/internal/metrics"
	"github.com/CoreaAsura/webspace-analyzer/internal/passes"
	"github.com/CoreaAsura/webspace-analyzer/internal/tle"
)

// maxBodyBytes caps the analyze request body. A whole-catalog TLE file is
// around 2 MiB; 4 MiB leaves headroom without inviting abuse.
const maxBodyBytes = 4 << 20

// analyzeRequest is the JSON body of POST /api/v1/analyze. Pointer fields
// distinguish "absent, use the default" from an explicit zero.
type analyzeRequest struct {
	TLE          string   `json:"tle"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
	RadiusKm     *float64 `json:"radius_km"`
	HorizonHours *int     `json:"horizon_hours"`
}

type observerInfo struct {
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	ElevationM float64 `json:"elevation_m"`
}

type analyzeResponse struct {
	GeneratedAt    string                   `json:"generated_at"`
	Observer       observerInfo             `json:"observer"`
	RadiusKm       float64                  `json:"radius_km"`
	HorizonHours   int                      `json:"horizon_hours"`
	SkippedEntries int                      `json:"skipped_entries"`
	PassCount      int                      `json:"pass_count"`
	Columns        []string                 `json:"columns"`
	Rows           [][]string               `json:"rows"`
	Satellites     []passes.SatelliteResult `json:"satellites"`
}

// optionsResponse describes the fixed menus and defaults a client needs to
// build an analyze request.
type optionsResponse struct {
	HorizonHoursOptions []int        `json:"horizon_hours_options"`
	DefaultHorizonHours int          `json:"default_horizon_hours"`
	RadiusKmMin         float64      `json:"radius_km_min"`
	RadiusKmMax         float64      `json:"radius_km_max"`
	RadiusKmStep        float64      `json:"radius_km_step"`
	DefaultRadiusKm     float64      `json:"default_radius_km"`
	DefaultObserver     observerInfo `json:"default_observer"`
	TimeZone            string       `json:"time_zone"`
	Columns             []string     `json:"columns"`
}

func defaultObserver() observerInfo {
	return observerInfo{
		Latitude:   passes.DefaultLatitude,
		Longitude:  passes.DefaultLongitude,
		ElevationM: passes.ObserverElevationM,
	}
}

func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, optionsResponse{
		HorizonHoursOptions: passes.HorizonOptions,
		DefaultHorizonHours: passes.DefaultHorizonHours,
		RadiusKmMin:         passes.RadiusKmMin,
		RadiusKmMax:         passes.RadiusKmMax,
		RadiusKmStep:        passes.RadiusKmStep,
		DefaultRadiusKm:     passes.DefaultRadiusKm,
		DefaultObserver:     defaultObserver(),
		TimeZone:            passes.ZoneName,
		Columns:             passes.Columns(),
	})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	ip := httputil.ClientIP(r, s.trustProxy)
	if !s.limiter.acquire(ip) {
		s.logger.Warn("analyze rejected", "component", "api", "reason", "concurrency limit", "remote_ip", ip)
		writeError(w, http.StatusTooManyRequests, "too many concurrent analyses")
		return
	}
	defer s.limiter.release(ip)

	var req analyzeRequest
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body exceeds 4 MiB")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}

	if strings.TrimSpace(req.TLE) == "" {
		writeError(w, http.StatusBadRequest, "tle text is required")
		return
	}

	cfg := passes.Config{
		Latitude:     passes.DefaultLatitude,
		Longitude:    passes.DefaultLongitude,
		RadiusKm:     passes.DefaultRadiusKm,
		HorizonHours: passes.DefaultHorizonHours,
		Start:        time.Now().UTC(),
	}
	if req.Latitude != nil {
		cfg.Latitude = *req.Latitude
	}
	if req.Longitude != nil {
		cfg.Longitude = *req.Longitude
	}
	if req.RadiusKm != nil {
		cfg.RadiusKm = *req.RadiusKm
	}
	if req.HorizonHours != nil {
		cfg.HorizonHours = *req.HorizonHours
	}
	if !passes.ValidHorizon(cfg.HorizonHours) {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("horizon_hours must be one of %v", passes.HorizonOptions))
		return
	}

	sets, skipped, err := tle.Parse(strings.NewReader(req.TLE), s.logger)
	if err != nil {
		writeError(w, http.StatusBadRequest, "parsing TLE text: "+err.Error())
		return
	}

	started := time.Now()
	results, table, err := passes.Analyze(r.Context(), passes.Request{Sets: sets, Config: cfg}, s.logger)
	if err != nil {
		metrics.RecordAnalysis("rejected", len(sets), 0, time.Since(started))
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	metrics.RecordAnalysis("ok", len(sets), len(table), time.Since(started))

	s.logger.Info("analysis complete",
		"component", "api",
		"satellites", len(sets),
		"skipped_entries", skipped,
		"passes", len(table),
		"radius_km", cfg.RadiusKm,
		"horizon_hours", cfg.HorizonHours,
	)

	if r.URL.Query().Get("format") == "csv" {
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="webspace_analysis.csv"`)
		if err := table.WriteCSV(w); err != nil {
			s.logger.Error("writing CSV response", "component", "api", "error", err)
		}
		return
	}

	writeJSON(w, http.StatusOK, analyzeResponse{
		GeneratedAt: cfg.Start.Format(time.RFC3339),
		Observer: observerInfo{
			Latitude:   cfg.Latitude,
			Longitude:  cfg.Longitude,
			ElevationM: passes.ObserverElevationM,
		},
		RadiusKm:       cfg.RadiusKm,
		HorizonHours:   cfg.HorizonHours,
		SkippedEntries: skipped,
		PassCount:      len(table),
		Columns:        passes.Columns(),
		Rows:           table.Rows(),
		Satellites:     results,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
