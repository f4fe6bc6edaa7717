package calculator

import (
	"reabastece-api/models"
)

// Field names a usage session attribute, using its wire name.
type Field string

const (
	FieldVehicleID       Field = "vehicle_id"
	FieldFuelType        Field = "fuel_type"
	FieldInitialOdometer Field = "initial_odometer"
	FieldFinalOdometer   Field = "final_odometer"
	FieldKmDriven        Field = "km_driven"
	FieldEstimatedLiters Field = "estimated_liters"
	FieldPricePerLiter   Field = "price_per_liter"
	FieldTotalCost       Field = "total_cost"
	FieldGasStation      Field = "gas_station"
	FieldIsPaid          Field = "is_paid"
	FieldDate            Field = "date"
	FieldNotes           Field = "notes"
)

var numericFields = map[Field]bool{
	FieldInitialOdometer: true,
	FieldFinalOdometer:   true,
	FieldKmDriven:        true,
	FieldEstimatedLiters: true,
	FieldPricePerLiter:   true,
	FieldTotalCost:       true,
}

var knownFields = map[Field]bool{
	FieldVehicleID:  true,
	FieldFuelType:   true,
	FieldGasStation: true,
	FieldIsPaid:     true,
	FieldDate:       true,
	FieldNotes:      true,
}

func (f Field) Numeric() bool {
	return numericFields[f]
}

func (f Field) Known() bool {
	return numericFields[f] || knownFields[f]
}

// Snapshot is the current value of every field of one usage session edit.
// A nil number means the field is unset; zero is a value.
type Snapshot struct {
	VehicleID       string          `json:"vehicle_id"`
	FuelType        models.FuelType `json:"fuel_type"`
	InitialOdometer *float64        `json:"initial_odometer"`
	FinalOdometer   *float64        `json:"final_odometer"`
	KmDriven        *float64        `json:"km_driven"`
	EstimatedLiters *float64        `json:"estimated_liters"`
	PricePerLiter   *float64        `json:"price_per_liter"`
	TotalCost       *float64        `json:"total_cost"`
	GasStation      string          `json:"gas_station"`
	IsPaid          bool            `json:"is_paid"`
	Date            string          `json:"date"`
	Notes           string          `json:"notes"`
}

// Number returns the value of a numeric field, nil when unset or not numeric.
func (s *Snapshot) Number(f Field) *float64 {
	switch f {
	case FieldInitialOdometer:
		return s.InitialOdometer
	case FieldFinalOdometer:
		return s.FinalOdometer
	case FieldKmDriven:
		return s.KmDriven
	case FieldEstimatedLiters:
		return s.EstimatedLiters
	case FieldPricePerLiter:
		return s.PricePerLiter
	case FieldTotalCost:
		return s.TotalCost
	default:
		return nil
	}
}

func (s *Snapshot) setNumber(f Field, v *float64) {
	switch f {
	case FieldInitialOdometer:
		s.InitialOdometer = v
	case FieldFinalOdometer:
		s.FinalOdometer = v
	case FieldKmDriven:
		s.KmDriven = v
	case FieldEstimatedLiters:
		s.EstimatedLiters = v
	case FieldPricePerLiter:
		s.PricePerLiter = v
	case FieldTotalCost:
		s.TotalCost = v
	}
}

// Clone copies the snapshot so later edits do not alias the number pointers.
func (s Snapshot) Clone() Snapshot {
	out := s
	for f := range numericFields {
		if v := s.Number(f); v != nil {
			out.setNumber(f, Float(*v))
		}
	}
	return out
}

// fieldOrder lists every field in form order.
var fieldOrder = []Field{
	FieldVehicleID,
	FieldFuelType,
	FieldInitialOdometer,
	FieldFinalOdometer,
	FieldKmDriven,
	FieldEstimatedLiters,
	FieldPricePerLiter,
	FieldTotalCost,
	FieldGasStation,
	FieldIsPaid,
	FieldDate,
	FieldNotes,
}

// Diff returns the fields whose value in other differs from s, in form order.
func (s Snapshot) Diff(other Snapshot) []Field {
	var changed []Field
	for _, f := range fieldOrder {
		if f.Numeric() {
			if !sameNumber(s.Number(f), other.Number(f)) {
				changed = append(changed, f)
			}
			continue
		}

		var same bool
		switch f {
		case FieldVehicleID:
			same = s.VehicleID == other.VehicleID
		case FieldFuelType:
			same = s.FuelType == other.FuelType
		case FieldGasStation:
			same = s.GasStation == other.GasStation
		case FieldIsPaid:
			same = s.IsPaid == other.IsPaid
		case FieldDate:
			same = s.Date == other.Date
		case FieldNotes:
			same = s.Notes == other.Notes
		}
		if !same {
			changed = append(changed, f)
		}
	}
	return changed
}

func sameNumber(a, b *float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// Float returns a pointer to v.
func Float(v float64) *float64 {
	return &v
}

// SnapshotFromUsage loads the editable fields of a stored session.
func SnapshotFromUsage(u *models.VehicleUsage) Snapshot {
	s := Snapshot{
		VehicleID:       u.VehicleID,
		FuelType:        u.FuelType,
		InitialOdometer: u.InitialOdometer,
		FinalOdometer:   u.FinalOdometer,
		KmDriven:        u.KmDriven,
		EstimatedLiters: u.EstimatedLiters,
		PricePerLiter:   u.PricePerLiter,
		TotalCost:       u.TotalCost,
		IsPaid:          u.IsPaid,
		Date:            u.Date,
	}
	if u.GasStation != nil {
		s.GasStation = *u.GasStation
	}
	if u.Notes != nil {
		s.Notes = *u.Notes
	}
	return s.Clone()
}

// ApplyTo copies the snapshot onto a stored session, leaving identity and
// timestamps untouched.
func (s Snapshot) ApplyTo(u *models.VehicleUsage) {
	c := s.Clone()
	u.VehicleID = c.VehicleID
	u.FuelType = c.FuelType
	u.InitialOdometer = c.InitialOdometer
	u.FinalOdometer = c.FinalOdometer
	u.KmDriven = c.KmDriven
	u.EstimatedLiters = c.EstimatedLiters
	u.PricePerLiter = c.PricePerLiter
	u.TotalCost = c.TotalCost
	u.GasStation = optionalString(c.GasStation)
	u.IsPaid = c.IsPaid
	u.Date = c.Date
	u.Notes = optionalString(c.Notes)
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
