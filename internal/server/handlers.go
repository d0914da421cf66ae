package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"parking-ledger/internal/parking"
)

type Handler struct {
	ledger         *parking.InstrumentedLedger
	serviceName    string
	currencySymbol string
}

func NewHandler(ledger *parking.InstrumentedLedger, serviceName, currencySymbol string) *Handler {
	return &Handler{
		ledger:         ledger,
		serviceName:    serviceName,
		currencySymbol: currencySymbol,
	}
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, HealthResponse{
		Status:  "healthy",
		Service: h.serviceName,
		Meta:    extractMeta(r.Context()),
	})
}

func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	status := h.ledger.Status(ctx)

	WriteSuccess(ctx, w, "Status retrieved successfully", StatusResponse{
		Capacity:  status.Capacity,
		Occupied:  status.Occupied,
		Available: status.Available,
	})
}

func (h *Handler) ListActive(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	active := h.ledger.ListActive(ctx)
	records := make([]RecordResponse, 0, len(active))
	for _, record := range active {
		records = append(records, newRecordResponse(record))
	}

	WriteSuccess(ctx, w, "Parked vehicles retrieved successfully", records)
}

func (h *Handler) GetVehicle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	plate := chi.URLParam(r, "plate")
	record, err := h.ledger.Lookup(ctx, plate)
	if err != nil {
		WriteError(ctx, w, statusFor(err), err.Error())
		return
	}

	WriteSuccess(ctx, w, "Vehicle found", newRecordResponse(record))
}

func (h *Handler) AdmitVehicle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req AdmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(ctx, w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.PlateNumber = strings.TrimSpace(req.PlateNumber)
	req.VehicleType = strings.TrimSpace(req.VehicleType)
	req.TimeIn = strings.TrimSpace(req.TimeIn)
	if req.PlateNumber == "" || req.VehicleType == "" || req.TimeIn == "" {
		WriteError(ctx, w, http.StatusBadRequest, "plate_number, vehicle_type and time_in are required")
		return
	}

	record, err := h.ledger.Admit(ctx, req.PlateNumber, parking.ParseVehicleType(req.VehicleType), req.Slot, req.TimeIn)
	if err != nil {
		WriteError(ctx, w, statusFor(err), err.Error())
		return
	}

	WriteCreated(ctx, w, "Vehicle parked successfully", newRecordResponse(record))
}

func (h *Handler) ReleaseVehicle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req ReleaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(ctx, w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.TimeOut = strings.TrimSpace(req.TimeOut)
	if req.TimeOut == "" {
		WriteError(ctx, w, http.StatusBadRequest, "time_out is required")
		return
	}

	record, err := h.ledger.Release(ctx, chi.URLParam(r, "plate"), req.TimeOut)
	if err != nil {
		WriteError(ctx, w, statusFor(err), err.Error())
		return
	}

	WriteSuccess(ctx, w, "Vehicle released successfully", newRecordResponse(record))
}

func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	report := h.ledger.BuildReport(ctx)

	WriteSuccess(ctx, w, "Report generated successfully", newReportResponse(report, h.currencySymbol))
}

func (h *Handler) GetReportText(w http.ResponseWriter, r *http.Request) {
	report := h.ledger.BuildReport(r.Context())

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(report.Text(h.currencySymbol)))
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, parking.ErrCapacityExceeded), errors.Is(err, parking.ErrDuplicatePlate):
		return http.StatusConflict
	case errors.Is(err, parking.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, parking.ErrInvalidTimeFormat):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
