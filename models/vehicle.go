// File: /models/vehicle.go
package models

import (
	"time"
)

// ConsumptionRates holds the declared distance-per-unit rate of a vehicle for
// each fuel type. Every rate is independent and optional.
type ConsumptionRates struct {
	GasolineConsumption *float64 `json:"gasoline_consumption" gorm:"column:gasoline_consumption"`
	EthanolConsumption  *float64 `json:"ethanol_consumption" gorm:"column:ethanol_consumption"`
	DieselConsumption   *float64 `json:"diesel_consumption" gorm:"column:diesel_consumption"`
	FlexConsumption     *float64 `json:"flex_consumption" gorm:"column:flex_consumption"`
	ElectricConsumption *float64 `json:"electric_consumption" gorm:"column:electric_consumption"`
	HybridConsumption   *float64 `json:"hybrid_consumption" gorm:"column:hybrid_consumption"`
}

// RateFor returns the reference rate for a session burning fuel f, or nil.
// A flex session without a declared flex rate falls back to the ethanol rate.
func (r ConsumptionRates) RateFor(f FuelType) *float64 {
	switch f {
	case FuelGasoline:
		return r.GasolineConsumption
	case FuelEthanol:
		return r.EthanolConsumption
	case FuelDiesel:
		return r.DieselConsumption
	case FuelFlex:
		if r.FlexConsumption != nil {
			return r.FlexConsumption
		}
		return r.EthanolConsumption
	case FuelElectric:
		return r.ElectricConsumption
	case FuelHybrid:
		return r.HybridConsumption
	default:
		return nil
	}
}

type Vehicle struct {
	ID       string   `json:"id" gorm:"primaryKey;size:191"`
	UserID   string   `json:"user_id" gorm:"not null;size:191;index"`
	Name     string   `json:"name" gorm:"not null;size:255"`
	Brand    string   `json:"brand" gorm:"size:100"`
	Model    string   `json:"model" gorm:"size:100"`
	Year     *int     `json:"year"`
	FuelType FuelType `json:"fuel_type" gorm:"not null;size:20;default:gasoline"`
	ConsumptionRates
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DisplayName is how the vehicle is shown in lists and summaries
func (v Vehicle) DisplayName() string {
	if v.Brand == "" && v.Model == "" {
		return v.Name
	}
	return v.Name + " (" + v.Brand + " " + v.Model + ")"
}
