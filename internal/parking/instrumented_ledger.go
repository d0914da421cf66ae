package parking

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"parking-ledger/internal/logging"
)

// InstrumentedLedger traces, measures and logs every Ledger operation. Calls
// are serialised so one ledger can back both the shell and the HTTP server.
type InstrumentedLedger struct {
	mu        sync.Mutex
	ledger    *Ledger
	telemetry *TelemetryProvider

	// Metrics
	admissions        metric.Int64Counter
	releases          metric.Int64Counter
	activeVehicles    metric.Int64UpDownCounter
	feesCollected     metric.Float64Counter
	reports           metric.Int64Counter
	operationDuration metric.Float64Histogram
}

func NewInstrumentedLedger(ledger *Ledger, telemetry *TelemetryProvider) (*InstrumentedLedger, error) {
	meter := telemetry.Meter()

	admissions, err := meter.Int64Counter("parking_admissions_total",
		metric.WithDescription("Total number of vehicle admissions"),
		metric.WithUnit("1"))
	if err != nil {
		return nil, err
	}

	releases, err := meter.Int64Counter("parking_releases_total",
		metric.WithDescription("Total number of vehicle releases"),
		metric.WithUnit("1"))
	if err != nil {
		return nil, err
	}

	activeVehicles, err := meter.Int64UpDownCounter("parking_active_vehicles",
		metric.WithDescription("Current number of parked vehicles"),
		metric.WithUnit("1"))
	if err != nil {
		return nil, err
	}

	feesCollected, err := meter.Float64Counter("parking_fees_collected",
		metric.WithDescription("Sum of fees charged on release"))
	if err != nil {
		return nil, err
	}

	reports, err := meter.Int64Counter("parking_reports_total",
		metric.WithDescription("Total number of reports built"),
		metric.WithUnit("1"))
	if err != nil {
		return nil, err
	}

	operationDuration, err := meter.Float64Histogram("parking_operation_duration_seconds",
		metric.WithDescription("Duration of parking ledger operations"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}

	return &InstrumentedLedger{
		ledger:            ledger,
		telemetry:         telemetry,
		admissions:        admissions,
		releases:          releases,
		activeVehicles:    activeVehicles,
		feesCollected:     feesCollected,
		reports:           reports,
		operationDuration: operationDuration,
	}, nil
}

func (il *InstrumentedLedger) Admit(ctx context.Context, plate string, vehicleType VehicleType, slot, timeIn string) (ParkingRecord, error) {
	ctx, span := il.telemetry.Tracer().Start(ctx, "ledger.admit",
		trace.WithAttributes(
			attribute.String("vehicle.plate_number", plate),
			attribute.String("vehicle.type", vehicleType.String()),
			attribute.String("parking.slot", slot),
			attribute.String("parking.time_in", timeIn),
		))
	defer span.End()

	start := time.Now()

	il.mu.Lock()
	record, err := il.ledger.Admit(plate, vehicleType, slot, timeIn)
	il.mu.Unlock()

	labels := []attribute.KeyValue{
		attribute.String("operation", "admit"),
		attribute.String("vehicle_type", vehicleType.String()),
	}

	if err != nil {
		markFailed(span, err)
		labels = append(labels,
			attribute.String("status", "failed"),
			attribute.String("reason", failureReason(err)),
		)
		logging.Warn(ctx, "admission rejected", "plate", plate, "error", err)
	} else {
		labels = append(labels, attribute.String("status", "success"))
		span.SetAttributes(attribute.String("record.id", record.ID))
		span.AddEvent("vehicle_admitted")
		il.activeVehicles.Add(ctx, 1)
		logging.Info(ctx, "vehicle admitted",
			"plate", record.PlateNumber,
			"vehicle_type", record.VehicleType.String(),
			"slot", record.Slot,
			"time_in", record.TimeIn,
		)
	}

	il.admissions.Add(ctx, 1, metric.WithAttributes(labels...))
	il.operationDuration.Record(ctx, time.Since(start).Seconds(), metric.WithAttributes(labels...))

	return record, err
}

func (il *InstrumentedLedger) Release(ctx context.Context, plate, timeOut string) (ParkingRecord, error) {
	ctx, span := il.telemetry.Tracer().Start(ctx, "ledger.release",
		trace.WithAttributes(
			attribute.String("vehicle.plate_number", plate),
			attribute.String("parking.time_out", timeOut),
		))
	defer span.End()

	start := time.Now()

	il.mu.Lock()
	record, err := il.ledger.Release(plate, timeOut)
	il.mu.Unlock()

	labels := []attribute.KeyValue{
		attribute.String("operation", "release"),
	}

	if err != nil {
		markFailed(span, err)
		labels = append(labels,
			attribute.String("status", "failed"),
			attribute.String("reason", failureReason(err)),
		)
		logging.Warn(ctx, "release rejected", "plate", plate, "error", err)
	} else {
		fee := record.Fee.InexactFloat64()
		labels = append(labels,
			attribute.String("status", "success"),
			attribute.String("vehicle_type", record.VehicleType.String()),
		)
		span.SetAttributes(
			attribute.String("vehicle.type", record.VehicleType.String()),
			attribute.Float64("parking.hours", record.HoursParked),
			attribute.String("parking.fee", record.Fee.StringFixed(2)),
		)
		if record.ExitTimestamp.Format(dateLayout) != record.Date {
			span.AddEvent("exit_rolled_to_next_day")
		}
		span.AddEvent("vehicle_released")
		il.activeVehicles.Add(ctx, -1)
		il.feesCollected.Add(ctx, fee, metric.WithAttributes(
			attribute.String("vehicle_type", record.VehicleType.String()),
		))
		logging.Info(ctx, "vehicle released",
			"plate", record.PlateNumber,
			"time_in", record.TimeIn,
			"time_out", record.TimeOut,
			"hours", record.HoursParked,
			"fee", record.Fee.StringFixed(2),
		)
	}

	il.releases.Add(ctx, 1, metric.WithAttributes(labels...))
	il.operationDuration.Record(ctx, time.Since(start).Seconds(), metric.WithAttributes(labels...))

	return record, err
}

func (il *InstrumentedLedger) ListActive(ctx context.Context) []ParkingRecord {
	ctx, span := il.telemetry.Tracer().Start(ctx, "ledger.list_active")
	defer span.End()

	start := time.Now()

	il.mu.Lock()
	active := il.ledger.ListActive()
	capacity := il.ledger.Capacity()
	il.mu.Unlock()

	span.SetAttributes(
		attribute.Int("active_vehicles_count", len(active)),
		attribute.Int("total_capacity", capacity),
	)

	il.operationDuration.Record(ctx, time.Since(start).Seconds(), metric.WithAttributes(
		attribute.String("operation", "list_active"),
		attribute.String("status", "success"),
	))

	return active
}

func (il *InstrumentedLedger) Lookup(ctx context.Context, plate string) (ParkingRecord, error) {
	ctx, span := il.telemetry.Tracer().Start(ctx, "ledger.lookup",
		trace.WithAttributes(attribute.String("vehicle.plate_number", plate)))
	defer span.End()

	start := time.Now()

	il.mu.Lock()
	record, err := il.ledger.Lookup(plate)
	il.mu.Unlock()

	status := "found"
	if err != nil {
		span.AddEvent("vehicle_not_found")
		status = "not_found"
	}

	il.operationDuration.Record(ctx, time.Since(start).Seconds(), metric.WithAttributes(
		attribute.String("operation", "lookup"),
		attribute.String("status", status),
	))

	return record, err
}

func (il *InstrumentedLedger) Status(ctx context.Context) Status {
	_, span := il.telemetry.Tracer().Start(ctx, "ledger.status")
	defer span.End()

	il.mu.Lock()
	status := il.ledger.Status()
	il.mu.Unlock()

	span.SetAttributes(
		attribute.Int("occupied", status.Occupied),
		attribute.Int("available", status.Available),
	)

	return status
}

func (il *InstrumentedLedger) BuildReport(ctx context.Context) Report {
	ctx, span := il.telemetry.Tracer().Start(ctx, "ledger.build_report")
	defer span.End()

	start := time.Now()

	il.mu.Lock()
	report := il.ledger.BuildReport()
	il.mu.Unlock()

	span.SetAttributes(
		attribute.Int("report.total_vehicles", report.TotalVehicles),
		attribute.String("report.total_fees", report.TotalFees.StringFixed(2)),
	)

	labels := []attribute.KeyValue{
		attribute.String("operation", "build_report"),
		attribute.String("status", "success"),
	}
	il.reports.Add(ctx, 1)
	il.operationDuration.Record(ctx, time.Since(start).Seconds(), metric.WithAttributes(labels...))

	logging.Debug(ctx, "report built",
		"total_vehicles", report.TotalVehicles,
		"total_fees", report.TotalFees.StringFixed(2),
	)

	return report
}

func markFailed(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// failureReason is a low-cardinality label for a ledger error.
func failureReason(err error) string {
	switch {
	case errors.Is(err, ErrCapacityExceeded):
		return "capacity_exceeded"
	case errors.Is(err, ErrDuplicatePlate):
		return "duplicate_plate"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrInvalidTimeFormat):
		return "invalid_time_format"
	default:
		return "unknown"
	}
}
