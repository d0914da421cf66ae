package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/trace"

	"parking-ledger/internal/parking"
)

type Meta struct {
	TraceID   string `json:"trace_id,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Meta    *Meta  `json:"meta,omitempty"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Meta    *Meta  `json:"meta,omitempty"`
}

type AdmitRequest struct {
	PlateNumber string `json:"plate_number"`
	VehicleType string `json:"vehicle_type"`
	Slot        string `json:"slot"`
	TimeIn      string `json:"time_in"`
}

type ReleaseRequest struct {
	TimeOut string `json:"time_out"`
}

type RecordResponse struct {
	ID          string  `json:"id"`
	Date        string  `json:"date"`
	TimeIn      string  `json:"time_in"`
	TimeOut     string  `json:"time_out"`
	PlateNumber string  `json:"plate_number"`
	VehicleType string  `json:"vehicle_type"`
	Slot        string  `json:"slot"`
	HoursParked float64 `json:"hours_parked"`
	Fee         string  `json:"fee"`
}

type StatusResponse struct {
	Capacity  int `json:"capacity"`
	Occupied  int `json:"occupied"`
	Available int `json:"available"`
}

type ReportRowResponse struct {
	Index       int     `json:"index"`
	Date        string  `json:"date"`
	TimeIn      string  `json:"time_in"`
	TimeOut     string  `json:"time_out"`
	PlateNumber string  `json:"plate_number"`
	VehicleType string  `json:"vehicle_type"`
	HoursParked float64 `json:"hours_parked"`
	Fee         string  `json:"fee"`
}

type ReportResponse struct {
	GeneratedAt    string              `json:"generated_at"`
	CurrencySymbol string              `json:"currency_symbol"`
	Rows           []ReportRowResponse `json:"rows"`
	TotalVehicles  int                 `json:"total_vehicles"`
	TotalFees      string              `json:"total_fees"`
}

func newRecordResponse(r parking.ParkingRecord) RecordResponse {
	return RecordResponse{
		ID:          r.ID,
		Date:        r.Date,
		TimeIn:      r.TimeIn,
		TimeOut:     r.TimeOut,
		PlateNumber: r.PlateNumber,
		VehicleType: r.VehicleType.String(),
		Slot:        r.Slot,
		HoursParked: r.HoursParked,
		Fee:         r.Fee.StringFixed(2),
	}
}

func newReportResponse(r parking.Report, currencySymbol string) ReportResponse {
	rows := make([]ReportRowResponse, 0, len(r.Rows))
	for _, row := range r.Rows {
		rows = append(rows, ReportRowResponse{
			Index:       row.Index,
			Date:        row.Date,
			TimeIn:      row.TimeIn,
			TimeOut:     row.TimeOut,
			PlateNumber: row.PlateNumber,
			VehicleType: row.VehicleType.String(),
			HoursParked: row.HoursParked,
			Fee:         row.Fee.StringFixed(2),
		})
	}

	return ReportResponse{
		GeneratedAt:    r.GeneratedAt.Format(time.RFC3339),
		CurrencySymbol: currencySymbol,
		Rows:           rows,
		TotalVehicles:  r.TotalVehicles,
		TotalFees:      r.TotalFees.StringFixed(2),
	}
}

func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func extractMeta(ctx context.Context) *Meta {
	meta := &Meta{}

	span := trace.SpanFromContext(ctx)
	if span.SpanContext().HasTraceID() {
		meta.TraceID = span.SpanContext().TraceID().String()
	}

	if reqID, ok := ctx.Value(RequestIDKey).(string); ok {
		meta.RequestID = reqID
	}

	return meta
}

func WriteSuccess(ctx context.Context, w http.ResponseWriter, message string, data any) {
	WriteJSON(w, http.StatusOK, Response{
		Success: true,
		Message: message,
		Data:    data,
		Meta:    extractMeta(ctx),
	})
}

func WriteCreated(ctx context.Context, w http.ResponseWriter, message string, data any) {
	WriteJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: message,
		Data:    data,
		Meta:    extractMeta(ctx),
	})
}

func WriteError(ctx context.Context, w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, Response{
		Success: false,
		Error:   message,
		Meta:    extractMeta(ctx),
	})
}
