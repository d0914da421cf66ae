package parking

import (
	"time"

	"github.com/shopspring/decimal"
)

// StillParked is the TimeOut text of a record whose vehicle has not left.
const StillParked = "Still Parked"

const dateLayout = "2006-01-02"

// ParkingRecord is one vehicle stay. It is created parked and closed exactly
// once by Ledger.Release.
type ParkingRecord struct {
	ID             string
	Date           string
	TimeIn         string
	EntryTimestamp time.Time
	PlateNumber    string
	VehicleType    VehicleType
	Slot           string
	TimeOut        string
	ExitTimestamp  time.Time
	HoursParked    float64
	Fee            decimal.Decimal
}

func newParkingRecord(id, plate string, vehicleType VehicleType, slot, timeIn string, entry time.Time) *ParkingRecord {
	return &ParkingRecord{
		ID:             id,
		Date:           entry.Format(dateLayout),
		TimeIn:         timeIn,
		EntryTimestamp: entry,
		PlateNumber:    plate,
		VehicleType:    vehicleType,
		Slot:           slot,
		TimeOut:        StillParked,
		Fee:            decimal.Zero,
	}
}

func (r *ParkingRecord) IsParked() bool {
	return r.TimeOut == StillParked
}

func (r *ParkingRecord) close(timeOut string, exit time.Time, hours float64, fee decimal.Decimal) {
	r.TimeOut = timeOut
	r.ExitTimestamp = exit
	r.HoursParked = hours
	r.Fee = fee
}
