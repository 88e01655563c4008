// Package handler — export.go implements GET /export.
// Returns all trips and stops as a flat table.
// Supports content negotiation via ?format=csv (CSV) or default (JSON).
package handler

import (
	"bytes"
	"encoding/csv"
	"net/http"
	"strconv"
	"strings"

	"github.com/pkordes/voya/internal/domain"
)

// csvHeaders defines the column names written as the first row of any CSV export.
var csvHeaders = []string{
	"trip_id", "trip_destination", "trip_arrival_date", "trip_departure_date",
	"stop_id", "stop_date", "stop_time", "stop_action", "stop_destination",
	"stop_route", "route_steps",
}

// ExportRow is one row of the JSON export. Stop fields are omitted for a
// trip with no stops.
type ExportRow struct {
	TripID            int64    `json:"trip_id"`
	TripDestination   string   `json:"trip_destination"`
	TripArrivalDate   string   `json:"trip_arrival_date"`
	TripDepartureDate string   `json:"trip_departure_date"`
	StopID            *int64   `json:"stop_id,omitempty"`
	StopDate          string   `json:"stop_date,omitempty"`
	StopTime          string   `json:"stop_time,omitempty"`
	StopAction        string   `json:"stop_action,omitempty"`
	StopDestination   string   `json:"stop_destination,omitempty"`
	StopRoute         string   `json:"stop_route,omitempty"`
	RouteSteps        []string `json:"route_steps"`
}

// GetExport implements GET /export.
// It returns a flat table of every trip and stop of the caller.
// Use ?format=csv to receive CSV; default is JSON.
func (s *Server) GetExport(w http.ResponseWriter, r *http.Request) {
	rows, err := s.export.Export(r.Context(), principal(r).UserID)
	if err != nil {
		respondErr(w, r, err, "export not found")
		return
	}

	if r.URL.Query().Get("format") == "csv" {
		writeCSV(w, rows)
		return
	}
	writeJSON(w, http.StatusOK, buildJSONResponse(rows))
}

// buildJSONResponse converts domain rows to the JSON response rows.
func buildJSONResponse(rows []domain.ExportRow) []ExportRow {
	out := make([]ExportRow, 0, len(rows))
	for _, r := range rows {
		row := ExportRow{
			TripID:            r.TripID,
			TripDestination:   r.TripDestination,
			TripArrivalDate:   r.TripArrivalDate,
			TripDepartureDate: r.TripDepartureDate,
			StopDate:          r.StopDate,
			StopTime:          r.StopTime,
			StopAction:        r.StopAction,
			StopDestination:   r.StopDestination,
			StopRoute:         r.StopRoute,
			RouteSteps:        r.RouteSteps,
		}
		if r.StopID != 0 {
			id := r.StopID
			row.StopID = &id
		}
		if row.RouteSteps == nil {
			row.RouteSteps = []string{}
		}
		out = append(out, row)
	}
	return out
}

// writeCSV encodes domain rows as CSV.
// Route steps within a row are pipe-separated ("|") to keep each stop on a single CSV line.
func writeCSV(w http.ResponseWriter, rows []domain.ExportRow) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)

	//nolint:errcheck — bytes.Buffer.Write never returns an error.
	cw.Write(csvHeaders)
	for _, r := range rows {
		//nolint:errcheck
		cw.Write(domainRowToCSVRecord(r))
	}
	cw.Flush()

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="voya-export.csv"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// domainRowToCSVRecord encodes a domain.ExportRow as a flat string slice.
// A zero stop ID is encoded as an empty string.
func domainRowToCSVRecord(r domain.ExportRow) []string {
	stopID := ""
	if r.StopID != 0 {
		stopID = strconv.FormatInt(r.StopID, 10)
	}
	return []string{
		strconv.FormatInt(r.TripID, 10),
		r.TripDestination,
		r.TripArrivalDate,
		r.TripDepartureDate,
		stopID,
		r.StopDate,
		r.StopTime,
		r.StopAction,
		r.StopDestination,
		r.StopRoute,
		strings.Join(r.RouteSteps, "|"),
	}
}
