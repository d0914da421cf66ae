package parking

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// VehicleType is the category a vehicle is billed under. The set is open:
// any operator-supplied label is accepted and billed at the fallback rate.
type VehicleType string

const (
	Car        VehicleType = "Car"
	Motorcycle VehicleType = "Motorcycle"
	Van        VehicleType = "Van"
)

var knownVehicleTypes = []VehicleType{Car, Motorcycle, Van}

// ParseVehicleType normalises operator input. Known categories match
// case-insensitively; anything else is kept as typed.
func ParseVehicleType(s string) VehicleType {
	s = strings.TrimSpace(s)
	for _, vt := range knownVehicleTypes {
		if strings.EqualFold(s, string(vt)) {
			return vt
		}
	}
	return VehicleType(s)
}

func (vt VehicleType) String() string {
	return string(vt)
}

// RateTable maps vehicle types to an hourly rate.
type RateTable struct {
	rates    map[VehicleType]decimal.Decimal
	fallback decimal.Decimal
}

// NewRateTable bills Car and Van at standard and every other type at light.
func NewRateTable(standard, light decimal.Decimal) RateTable {
	return RateTable{
		rates: map[VehicleType]decimal.Decimal{
			Car: standard,
			Van: standard,
		},
		fallback: light,
	}
}

func DefaultRateTable() RateTable {
	return NewRateTable(decimal.NewFromInt(20), decimal.NewFromInt(10))
}

func (rt RateTable) HourlyRate(vt VehicleType) decimal.Decimal {
	if rate, ok := rt.rates[vt]; ok {
		return rate
	}
	return rt.fallback
}

// Fee is the parked duration times the hourly rate, rounded half-up to two
// decimals. The product is taken in nanoseconds before dividing by an hour so
// exact halves stay exact.
func (rt RateTable) Fee(vt VehicleType, parked time.Duration) decimal.Decimal {
	return decimal.NewFromInt(int64(parked)).
		Mul(rt.HourlyRate(vt)).
		Div(decimal.NewFromInt(int64(time.Hour))).
		Round(2)
}
