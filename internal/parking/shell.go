package parking

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"parking-ledger/internal/logging"
)

const menu = `
--- Parking Lot Management System ---
1. View All Parked Vehicles
2. Park a Vehicle
3. Remove a Vehicle
4. Generate Parking Report
5. Exit Application
Enter your choice: `

type ShellConfig struct {
	ReportFile     string
	CurrencySymbol string
}

// Shell is the interactive menu. It only gathers input and prints results;
// every rule lives in the ledger.
type Shell struct {
	ledger    *InstrumentedLedger
	telemetry *TelemetryProvider
	cfg       ShellConfig
	scanner   *bufio.Scanner
	out       io.Writer
}

func NewShell(ledger *InstrumentedLedger, telemetry *TelemetryProvider, cfg ShellConfig, in io.Reader, out io.Writer) *Shell {
	return &Shell{
		ledger:    ledger,
		telemetry: telemetry,
		cfg:       cfg,
		scanner:   bufio.NewScanner(in),
		out:       out,
	}
}

// Run shows the menu until Exit is chosen, input ends or ctx is cancelled.
func (s *Shell) Run(ctx context.Context) {
	tracer := s.telemetry.Tracer()
	ctx, span := tracer.Start(ctx, "shell.run")
	defer span.End()

	span.AddEvent("shell_started")

	for ctx.Err() == nil {
		choice, ok := s.prompt(menu)
		if !ok {
			break
		}

		cmdCtx, cmdSpan := tracer.Start(ctx, "shell.process_command",
			trace.WithAttributes(attribute.String("command.input", choice)))
		running := s.processCommand(cmdCtx, strings.ToLower(choice))
		cmdSpan.End()

		if !running {
			break
		}
	}

	span.AddEvent("shell_ended")
}

func (s *Shell) processCommand(ctx context.Context, choice string) bool {
	switch choice {
	case "1", "f":
		s.handleView(ctx)
	case "2", "g":
		s.handlePark(ctx)
	case "3", "h":
		s.handleRemove(ctx)
	case "4", "i":
		s.handleReport(ctx)
	case "5", "j":
		fmt.Fprintln(s.out, "Thank You!")
		return false
	default:
		trace.SpanFromContext(ctx).AddEvent("unknown_command", trace.WithAttributes(
			attribute.String("unknown_command", choice),
		))
		fmt.Fprintln(s.out, "Invalid choice. Please enter 1, 2, 3, 4, or 5.")
	}
	return true
}

func (s *Shell) handleView(ctx context.Context) {
	ctx, span := s.telemetry.Tracer().Start(ctx, "shell.view_command")
	defer span.End()

	parked := s.ledger.ListActive(ctx)
	if len(parked) == 0 {
		span.AddEvent("parking_lot_empty")
		fmt.Fprintln(s.out, "No parked vehicles.")
		return
	}

	fmt.Fprintln(s.out, "\n--- Parked Vehicles ---")
	fmt.Fprintf(s.out, "%-2s   %-10s   %-10s   %-12s   %-12s   %s\n",
		"#", "Date", "Time-in", "Plate Number", "Vehicle Type", "Parking Slot")
	for i, record := range parked {
		fmt.Fprintf(s.out, "%-2d   %-10s   %-10s   %-12s   %-12s   %s\n",
			i+1, record.Date, record.TimeIn, record.PlateNumber, record.VehicleType, record.Slot)
	}
}

func (s *Shell) handlePark(ctx context.Context) {
	ctx, span := s.telemetry.Tracer().Start(ctx, "shell.park_command")
	defer span.End()

	plate, ok := s.prompt("Enter license plate: ")
	if !ok {
		return
	}
	vehicleType, ok := s.prompt("Enter vehicle type (Car, Motorcycle, Van): ")
	if !ok {
		return
	}
	slot, ok := s.prompt("Enter parking slot (e.g., P1): ")
	if !ok {
		return
	}
	timeIn, ok := s.prompt("Enter time in (e.g., 08:00 AM): ")
	if !ok {
		return
	}

	record, err := s.ledger.Admit(ctx, plate, ParseVehicleType(vehicleType), slot, timeIn)
	switch {
	case errors.Is(err, ErrCapacityExceeded):
		fmt.Fprintf(s.out, "Parking lot full! Can't add %s.\n", plate)
	case errors.Is(err, ErrDuplicatePlate):
		fmt.Fprintf(s.out, "%s is already parked!\n", plate)
	case errors.Is(err, ErrInvalidTimeFormat):
		fmt.Fprintln(s.out, "Invalid time format for Time In. Use hh:mm AM/PM (e.g., 08:00 AM).")
	case err != nil:
		fmt.Fprintf(s.out, "Error: %s\n", err)
	default:
		span.AddEvent("parking_successful")
		fmt.Fprintf(s.out, "%s (%s) parked in slot %s.\n", record.PlateNumber, record.VehicleType, record.Slot)
		return
	}
	span.AddEvent("parking_failed")
}

func (s *Shell) handleRemove(ctx context.Context) {
	ctx, span := s.telemetry.Tracer().Start(ctx, "shell.remove_command")
	defer span.End()

	plate, ok := s.prompt("Enter license plate to remove: ")
	if !ok {
		return
	}
	if _, err := s.ledger.Lookup(ctx, plate); err != nil {
		span.AddEvent("vehicle_not_found")
		fmt.Fprintf(s.out, "%s not found.\n", plate)
		return
	}

	timeOut, ok := s.prompt("Enter time out (e.g., 10:00 AM): ")
	if !ok {
		return
	}

	record, err := s.ledger.Release(ctx, plate, timeOut)
	switch {
	case errors.Is(err, ErrNotFound):
		fmt.Fprintf(s.out, "%s not found.\n", plate)
	case errors.Is(err, ErrInvalidTimeFormat):
		fmt.Fprintln(s.out, "Invalid time format for Time Out. Use hh:mm AM/PM (e.g., 10:00 AM).")
	case err != nil:
		fmt.Fprintf(s.out, "Error: %s\n", err)
	default:
		span.AddEvent("release_successful")
		fmt.Fprintf(s.out, "\nPlate Number: %s\n", record.PlateNumber)
		fmt.Fprintf(s.out, "Time in: %s\n", record.TimeIn)
		fmt.Fprintf(s.out, "Time out: %s\n", record.TimeOut)
		fmt.Fprintf(s.out, "Total hours: %.2f\n", record.HoursParked)
		fmt.Fprintf(s.out, "Type: %s\n", record.VehicleType)
		fmt.Fprintf(s.out, "Fee: %s\n", record.Fee.StringFixed(2))
		return
	}
	span.AddEvent("release_failed")
}

// handleReport renders the report once and sends the same text to the
// report file and the console.
func (s *Shell) handleReport(ctx context.Context) {
	ctx, span := s.telemetry.Tracer().Start(ctx, "shell.report_command",
		trace.WithAttributes(attribute.String("report.file", s.cfg.ReportFile)))
	defer span.End()

	text := s.ledger.BuildReport(ctx).Text(s.cfg.CurrencySymbol)
	saveErr := SaveReport(s.cfg.ReportFile, text)

	fmt.Fprintln(s.out, "\n--- Parking Report ---")
	fmt.Fprint(s.out, text)

	if saveErr != nil {
		span.RecordError(saveErr)
		logging.Error(ctx, "report not saved", "path", s.cfg.ReportFile, "error", saveErr)
		fmt.Fprintf(s.out, "\nError writing to file: %s\n", saveErr)
		return
	}
	fmt.Fprintf(s.out, "\nParking report saved to: %s\n", s.cfg.ReportFile)
}

// prompt writes label and reads one trimmed line. It reports false once
// input is exhausted or unreadable.
func (s *Shell) prompt(label string) (string, bool) {
	fmt.Fprint(s.out, label)
	if !s.scanner.Scan() {
		if err := s.scanner.Err(); err != nil {
			logging.Error(context.Background(), "reading console input", "error", err)
			fmt.Fprintf(s.out, "\nError reading input: %s\n", err)
		}
		return "", false
	}
	return strings.TrimSpace(s.scanner.Text()), true
}
