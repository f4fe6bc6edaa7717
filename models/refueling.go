package models

import (
	"time"
)

type Refueling struct {
	ID            string    `json:"id" gorm:"primaryKey;size:191"`
	UserID        string    `json:"user_id" gorm:"not null;size:191;index"`
	VehicleID     string    `json:"vehicle_id" gorm:"not null;size:191;index"`
	Date          string    `json:"date" gorm:"not null;size:10;index"` // YYYY-MM-DD
	Liters        float64   `json:"liters" gorm:"not null"`
	PricePerLiter float64   `json:"price_per_liter" gorm:"not null"`
	TotalCost     float64   `json:"total_cost" gorm:"not null"`
	Odometer      *int      `json:"odometer"`
	GasStation    *string   `json:"gas_station" gorm:"size:255"`
	Notes         *string   `json:"notes"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	Vehicle *Vehicle `json:"vehicle,omitempty" gorm:"foreignKey:VehicleID"`
}
