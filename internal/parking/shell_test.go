package parking

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parking-ledger/internal/logging"
)

func runShell(t *testing.T, capacity int, reportFile string, input ...string) (string, *InstrumentedLedger) {
	t.Helper()

	il, _, _ := newTestInstrumentedLedger(t, capacity)
	telemetry, _, _ := newTestTelemetry(t)

	var out bytes.Buffer
	shell := NewShell(il, telemetry, ShellConfig{ReportFile: reportFile, CurrencySymbol: "₱"},
		strings.NewReader(strings.Join(input, "\n")+"\n"), &out)
	shell.Run(context.Background())

	return out.String(), il
}

func TestShellParkAndView(t *testing.T) {
	out, il := runShell(t, 5, "",
		"2", "ABC123", "car", "P1", "08:00 AM",
		"1",
		"5",
	)

	assert.Contains(t, out, "ABC123 (Car) parked in slot P1.")
	assert.Contains(t, out, "--- Parked Vehicles ---")
	assert.Contains(t, out, "Parking Slot")
	assert.Contains(t, out, "Thank You!")
	assert.Len(t, il.ListActive(context.Background()), 1)
}

func TestShellViewEmpty(t *testing.T) {
	out, _ := runShell(t, 5, "", "1", "5")

	assert.Contains(t, out, "No parked vehicles.")
}

func TestShellParkFailures(t *testing.T) {
	out, il := runShell(t, 1, "",
		"2", "ABC123", "Car", "P1", "25:99",
		"2", "ABC123", "Car", "P1", "08:00 AM",
		"2", "ABC123", "Car", "P1", "09:00 AM",
		"2", "XYZ789", "Van", "P2", "09:00 AM",
		"5",
	)

	assert.Contains(t, out, "Invalid time format for Time In.")
	assert.Contains(t, out, "Parking lot full! Can't add ABC123.")
	assert.Contains(t, out, "Parking lot full! Can't add XYZ789.")
	assert.Len(t, il.ListActive(context.Background()), 1)
}

func TestShellDuplicatePlate(t *testing.T) {
	out, _ := runShell(t, 5, "",
		"2", "ABC123", "Car", "P1", "08:00 AM",
		"2", "ABC123", "Car", "P2", "09:00 AM",
		"5",
	)

	assert.Contains(t, out, "ABC123 is already parked!")
}

func TestShellRemove(t *testing.T) {
	out, il := runShell(t, 5, "",
		"2", "ABC123", "Car", "P1", "08:00 AM",
		"3", "ABC123", "10:00 AM",
		"5",
	)

	assert.Contains(t, out, "Plate Number: ABC123")
	assert.Contains(t, out, "Time in: 08:00 AM")
	assert.Contains(t, out, "Time out: 10:00 AM")
	assert.Contains(t, out, "Total hours: 2.00")
	assert.Contains(t, out, "Type: Car")
	assert.Contains(t, out, "Fee: 40.00")
	assert.Empty(t, il.ListActive(context.Background()))
}

func TestShellRemoveUnknownPlateSkipsTimePrompt(t *testing.T) {
	out, _ := runShell(t, 5, "",
		"3", "GHOST",
		"5",
	)

	assert.Contains(t, out, "GHOST not found.")
	assert.NotContains(t, out, "Enter time out")
	assert.Contains(t, out, "Thank You!")
}

func TestShellRemoveInvalidTime(t *testing.T) {
	out, il := runShell(t, 5, "",
		"2", "ABC123", "Car", "P1", "08:00 AM",
		"3", "ABC123", "later",
		"5",
	)

	assert.Contains(t, out, "Invalid time format for Time Out.")
	assert.Len(t, il.ListActive(context.Background()), 1)
}

func TestShellReportMatchesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ParkingReport.txt")
	out, _ := runShell(t, 5, path,
		"2", "ABC123", "Car", "P1", "08:00 AM",
		"2", "MOTO1", "Motorcycle", "M1", "11:00 PM",
		"3", "ABC123", "10:00 AM",
		"3", "MOTO1", "01:00 AM",
		"4",
		"5",
	)

	saved, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Contains(t, out, "--- Parking Report ---")
	assert.Contains(t, out, string(saved))
	assert.Contains(t, string(saved), "Total Number of Vehicles: 2")
	assert.Contains(t, string(saved), "Total Fees Collected: ₱60.00")
	assert.Contains(t, out, "Parking report saved to: "+path)
}

func TestShellReportWriteFailureKeepsState(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "ParkingReport.txt")
	out, il := runShell(t, 5, path,
		"2", "ABC123", "Car", "P1", "08:00 AM",
		"4",
		"1",
		"5",
	)

	assert.Contains(t, out, "Error writing to file:")
	assert.Contains(t, out, "Total Number of Vehicles: 1")
	assert.Len(t, il.ListActive(context.Background()), 1)
	assert.Contains(t, out, "Thank You!")
}

func TestShellInvalidChoice(t *testing.T) {
	out, _ := runShell(t, 5, "", "9", "5")

	assert.Contains(t, out, "Invalid choice.")
	assert.Equal(t, 2, strings.Count(out, "--- Parking Lot Management System ---"))
}

func TestShellLetterAliases(t *testing.T) {
	out, _ := runShell(t, 5, "", "f", "J")

	assert.Contains(t, out, "No parked vehicles.")
	assert.Contains(t, out, "Thank You!")
}

func TestShellStopsAtEndOfInput(t *testing.T) {
	out, _ := runShell(t, 5, "", "2", "ABC123")

	assert.Contains(t, out, "Enter vehicle type")
	assert.NotContains(t, out, "Thank You!")
}

func TestShellStopsWhenCancelled(t *testing.T) {
	il, _, _ := newTestInstrumentedLedger(t, 5)
	telemetry, _, _ := newTestTelemetry(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	NewShell(il, telemetry, ShellConfig{}, strings.NewReader("1\n"), &out).Run(ctx)

	assert.Empty(t, out.String())
}

func TestShellReportsOverlongInput(t *testing.T) {
	out, il := runShell(t, 5, "", "2", strings.Repeat("A", 70*1024), "Car", "P1", "08:00 AM", "5")

	assert.Contains(t, out, "Error reading input: bufio.Scanner: token too long")
	assert.NotContains(t, out, "Thank You!")
	assert.Empty(t, il.ListActive(context.Background()))
}

func TestShellPlainEndOfInputIsSilent(t *testing.T) {
	out, _ := runShell(t, 5, "", "1")

	assert.NotContains(t, out, "Error reading input")
}

func TestShellSessionKeepsConsoleFreeOfLogLines(t *testing.T) {
	stderr, err := os.CreateTemp(t.TempDir(), "stderr")
	require.NoError(t, err)
	realStderr := os.Stderr
	os.Stderr = stderr
	t.Cleanup(func() { os.Stderr = realStderr })

	logOut, closeLog, err := logging.OpenOutput("", true)
	require.NoError(t, err)
	defer closeLog()
	logging.Init("parking-ledger-test", "development", "", logOut)

	out, _ := runShell(t, 5, "",
		"2", "ABC123", "Car", "P1", "08:00 AM",
		"3", "ABC123", "10:00 AM",
		"5",
	)
	require.NoError(t, stderr.Close())

	assert.Contains(t, out, "Fee: 40.00")
	assert.NotContains(t, out, `"level"`)
	assert.NotContains(t, out, `"msg"`)

	logged, err := os.ReadFile(stderr.Name())
	require.NoError(t, err)
	assert.Empty(t, string(logged))
}
