package parking

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedLedger(t *testing.T) *Ledger {
	t.Helper()
	l := newTestLedger(5)

	_, err := l.Admit("ABC123", Car, "P1", "08:00 AM")
	require.NoError(t, err)
	_, err = l.Admit("MOTO1", Motorcycle, "M1", "11:00 PM")
	require.NoError(t, err)
	_, err = l.Admit("VAN1", Van, "P3", "09:15 AM")
	require.NoError(t, err)

	_, err = l.Release("ABC123", "10:00 AM")
	require.NoError(t, err)
	_, err = l.Release("MOTO1", "01:00 AM")
	require.NoError(t, err)

	return l
}

func TestBuildReport(t *testing.T) {
	report := seedLedger(t).BuildReport()

	assert.Equal(t, testNow, report.GeneratedAt)
	assert.Equal(t, 3, report.TotalVehicles)
	require.Len(t, report.Rows, 3)

	assert.Equal(t, 1, report.Rows[0].Index)
	assert.Equal(t, "ABC123", report.Rows[0].PlateNumber)
	assert.Equal(t, "10:00 AM", report.Rows[0].TimeOut)
	assert.Equal(t, "40.00", report.Rows[0].Fee.StringFixed(2))

	assert.Equal(t, "MOTO1", report.Rows[1].PlateNumber)
	assert.Equal(t, "20.00", report.Rows[1].Fee.StringFixed(2))

	assert.Equal(t, 3, report.Rows[2].Index)
	assert.Equal(t, StillParked, report.Rows[2].TimeOut)
	assert.Zero(t, report.Rows[2].HoursParked)
	assert.True(t, report.Rows[2].Fee.IsZero())

	assert.Equal(t, "60.00", report.TotalFees.StringFixed(2))
}

func TestBuildReportTotalIsSumOfFees(t *testing.T) {
	report := seedLedger(t).BuildReport()

	sum := decimal.Zero
	for _, row := range report.Rows {
		sum = sum.Add(row.Fee)
	}
	assert.True(t, sum.Equal(report.TotalFees))
}

func TestBuildReportEmpty(t *testing.T) {
	report := newTestLedger(5).BuildReport()

	assert.Empty(t, report.Rows)
	assert.Equal(t, 0, report.TotalVehicles)
	assert.True(t, report.TotalFees.IsZero())
	assert.Contains(t, report.Text("₱"), "Total Fees Collected: ₱0.00")
}

func TestReportText(t *testing.T) {
	text := seedLedger(t).BuildReport().Text("₱")
	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")

	require.Len(t, lines, 8)
	assert.True(t, strings.HasPrefix(lines[0], "#  | Date"))
	for _, label := range []string{"Time-in", "Time-out", "Plate Number", "Vehicle Type", "Hours Parked", "Fee"} {
		assert.Contains(t, lines[0], label)
	}
	assert.Equal(t, strings.Repeat("-", len(lines[0])), lines[1])

	assert.Contains(t, lines[2], "ABC123")
	assert.Contains(t, lines[2], "2.00")
	assert.True(t, strings.HasSuffix(lines[2], "₱40.00"))
	assert.True(t, strings.HasSuffix(lines[3], "₱20.00"))
	assert.Contains(t, lines[4], StillParked)
	assert.True(t, strings.HasSuffix(lines[4], "₱0.00"))

	assert.Equal(t, "", lines[5])
	assert.Equal(t, "Total Number of Vehicles: 3", lines[6])
	assert.Equal(t, "Total Fees Collected: ₱60.00", lines[7])
}

func TestReportTextIsStable(t *testing.T) {
	report := seedLedger(t).BuildReport()

	assert.Equal(t, report.Text("$"), report.Text("$"))
}

func TestSaveReport(t *testing.T) {
	text := seedLedger(t).BuildReport().Text("₱")
	path := filepath.Join(t.TempDir(), "ParkingReport.txt")

	require.NoError(t, SaveReport(path, text))

	saved, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, text, string(saved))
}

func TestSaveReportFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "ParkingReport.txt")

	err := SaveReport(path, "report")
	require.Error(t, err)
	assert.Contains(t, err.Error(), path)
}
