package parking

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type ReportRow struct {
	Index       int
	Date        string
	TimeIn      string
	TimeOut     string
	PlateNumber string
	VehicleType VehicleType
	HoursParked float64
	Fee         decimal.Decimal
}

// Report is a snapshot of the full history. Render it as many times as
// needed; every rendering of the same Report is identical.
type Report struct {
	GeneratedAt   time.Time
	Rows          []ReportRow
	TotalVehicles int
	TotalFees     decimal.Decimal
}

// BuildReport lists every record ever admitted, parked ones included with
// zero hours and fee.
func (l *Ledger) BuildReport() Report {
	report := Report{
		GeneratedAt: l.now(),
		Rows:        make([]ReportRow, 0, len(l.history)),
		TotalFees:   decimal.Zero,
	}

	for i, record := range l.history {
		report.Rows = append(report.Rows, ReportRow{
			Index:       i + 1,
			Date:        record.Date,
			TimeIn:      record.TimeIn,
			TimeOut:     record.TimeOut,
			PlateNumber: record.PlateNumber,
			VehicleType: record.VehicleType,
			HoursParked: record.HoursParked,
			Fee:         record.Fee,
		})
		report.TotalFees = report.TotalFees.Add(record.Fee)
	}
	report.TotalVehicles = len(report.Rows)

	return report
}

const (
	reportHeaderFormat = "%-2s | %-12s | %-12s | %-14s | %-14s | %-14s | %-12s | %s"
	reportRowFormat    = "%-2d | %-12s | %-12s | %-14s | %-14s | %-14s | %-12.2f | %s%s"
)

// Text renders the report as the plain-text table written to the report
// file and shown on the console.
func (r Report) Text(currencySymbol string) string {
	var b strings.Builder

	header := fmt.Sprintf(reportHeaderFormat,
		"#", "Date", "Time-in", "Time-out", "Plate Number", "Vehicle Type", "Hours Parked", "Fee")
	b.WriteString(header)
	b.WriteByte('\n')
	b.WriteString(strings.Repeat("-", len(header)))
	b.WriteByte('\n')

	for _, row := range r.Rows {
		line := fmt.Sprintf(reportRowFormat,
			row.Index, row.Date, row.TimeIn, row.TimeOut, row.PlateNumber, row.VehicleType,
			row.HoursParked, currencySymbol, row.Fee.StringFixed(2))
		b.WriteString(line)
		b.WriteByte('\n')
	}

	fmt.Fprintf(&b, "\nTotal Number of Vehicles: %d\n", r.TotalVehicles)
	fmt.Fprintf(&b, "Total Fees Collected: %s%s\n", currencySymbol, r.TotalFees.StringFixed(2))

	return b.String()
}

// SaveReport writes the rendered report text to path, replacing any
// previous file.
func SaveReport(path, text string) error {
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("writing report to %s: %w", path, err)
	}
	return nil
}
