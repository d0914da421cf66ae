package parking

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrCapacityExceeded  = errors.New("parking lot is full")
	ErrDuplicatePlate    = errors.New("vehicle is already parked")
	ErrNotFound          = errors.New("vehicle not found")
	ErrInvalidTimeFormat = errors.New("invalid time format")
)

// Ledger owns every parking record of a run. The active index and the
// history are only ever updated together.
type Ledger struct {
	capacity int
	rates    RateTable
	now      func() time.Time
	newID    func() string

	active  map[string]*ParkingRecord
	history []*ParkingRecord
}

type Option func(*Ledger)

func WithRates(rates RateTable) Option {
	return func(l *Ledger) {
		l.rates = rates
	}
}

// WithClock replaces time.Now as the source of the admission date.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) {
		l.now = now
	}
}

func NewLedger(capacity int, opts ...Option) *Ledger {
	l := &Ledger{
		capacity: capacity,
		rates:    DefaultRateTable(),
		now:      time.Now,
		newID:    uuid.NewString,
		active:   make(map[string]*ParkingRecord),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Admit parks a vehicle. The entry instant is today's date at the given
// time of day.
func (l *Ledger) Admit(plate string, vehicleType VehicleType, slot, timeIn string) (ParkingRecord, error) {
	plate = strings.TrimSpace(plate)

	if len(l.active) >= l.capacity {
		return ParkingRecord{}, fmt.Errorf("%w: can't add %s", ErrCapacityExceeded, plate)
	}
	if _, ok := l.active[plate]; ok {
		return ParkingRecord{}, fmt.Errorf("%w: %s", ErrDuplicatePlate, plate)
	}

	tod, err := ParseTimeOfDay(timeIn)
	if err != nil {
		return ParkingRecord{}, err
	}

	entry := tod.On(l.now())
	record := newParkingRecord(l.newID(), plate, vehicleType, strings.TrimSpace(slot), strings.TrimSpace(timeIn), entry)

	l.active[plate] = record
	l.history = append(l.history, record)

	return *record, nil
}

// Release closes the active record for plate. An exit time earlier than the
// entry time is taken to be on the following day.
func (l *Ledger) Release(plate, timeOut string) (ParkingRecord, error) {
	plate = strings.TrimSpace(plate)

	record, ok := l.active[plate]
	if !ok {
		return ParkingRecord{}, fmt.Errorf("%w: %s", ErrNotFound, plate)
	}

	tod, err := ParseTimeOfDay(timeOut)
	if err != nil {
		return ParkingRecord{}, err
	}

	exit := tod.OnOrAfter(record.EntryTimestamp)
	parked := exit.Sub(record.EntryTimestamp)
	fee := l.rates.Fee(record.VehicleType, parked)

	record.close(strings.TrimSpace(timeOut), exit, parked.Hours(), fee)
	delete(l.active, plate)

	return *record, nil
}

// ListActive returns parked vehicles in admission order.
func (l *Ledger) ListActive() []ParkingRecord {
	parked := make([]ParkingRecord, 0, len(l.active))
	for _, record := range l.history {
		if record.IsParked() {
			parked = append(parked, *record)
		}
	}
	return parked
}

// Lookup returns the active record for plate.
func (l *Ledger) Lookup(plate string) (ParkingRecord, error) {
	plate = strings.TrimSpace(plate)
	record, ok := l.active[plate]
	if !ok {
		return ParkingRecord{}, fmt.Errorf("%w: %s", ErrNotFound, plate)
	}
	return *record, nil
}

type Status struct {
	Capacity  int
	Occupied  int
	Available int
}

func (l *Ledger) Status() Status {
	return Status{
		Capacity:  l.capacity,
		Occupied:  len(l.active),
		Available: l.capacity - len(l.active),
	}
}

func (l *Ledger) Capacity() int {
	return l.capacity
}
