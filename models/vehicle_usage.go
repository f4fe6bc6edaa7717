package models

import (
	"time"
)

// DateLayout is the wire and storage format of record dates
const DateLayout = "2006-01-02"

// VehicleUsage is one logged usage session bounded by two odometer readings
type VehicleUsage struct {
	ID              string    `json:"id" gorm:"primaryKey;size:191"`
	UserID          string    `json:"user_id" gorm:"not null;size:191;index"`
	VehicleID       string    `json:"vehicle_id" gorm:"not null;size:191;index"`
	FuelType        FuelType  `json:"fuel_type" gorm:"not null;size:20"`
	InitialOdometer *float64  `json:"initial_odometer"`
	FinalOdometer   *float64  `json:"final_odometer"`
	KmDriven        *float64  `json:"km_driven"`
	EstimatedLiters *float64  `json:"estimated_liters"`
	PricePerLiter   *float64  `json:"price_per_liter"`
	TotalCost       *float64  `json:"total_cost"`
	GasStation      *string   `json:"gas_station" gorm:"size:255"`
	IsPaid          bool      `json:"is_paid" gorm:"default:false"`
	Date            string    `json:"date" gorm:"not null;size:10;index"`
	Notes           *string   `json:"notes"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	Vehicle *Vehicle `json:"vehicle,omitempty" gorm:"foreignKey:VehicleID"`
}

func (VehicleUsage) TableName() string {
	return "vehicle_usage"
}
