package models

import (
	"fmt"
	"strings"
)

type FuelType string

const (
	FuelGasoline FuelType = "gasoline"
	FuelEthanol  FuelType = "ethanol"
	FuelDiesel   FuelType = "diesel"
	FuelFlex     FuelType = "flex"
	FuelElectric FuelType = "electric"
	FuelHybrid   FuelType = "hybrid"
)

// FuelTypes lists the enumeration in display order
var FuelTypes = []FuelType{
	FuelGasoline,
	FuelEthanol,
	FuelDiesel,
	FuelFlex,
	FuelElectric,
	FuelHybrid,
}

var fuelTypeLabels = map[FuelType]string{
	FuelGasoline: "Gasolina",
	FuelEthanol:  "Etanol",
	FuelDiesel:   "Diesel",
	FuelFlex:     "Flex",
	FuelElectric: "Elétrico",
	FuelHybrid:   "Híbrido",
}

func ParseFuelType(s string) (FuelType, error) {
	ft := FuelType(strings.ToLower(strings.TrimSpace(s)))
	if !ft.Valid() {
		return "", fmt.Errorf("unknown fuel type %q", s)
	}
	return ft, nil
}

func (f FuelType) Valid() bool {
	_, ok := fuelTypeLabels[f]
	return ok
}

func (f FuelType) Label() string {
	if label, ok := fuelTypeLabels[f]; ok {
		return label
	}
	return string(f)
}

// Unit is the energy unit the consumption rate of this fuel is declared in
func (f FuelType) Unit() string {
	if f == FuelElectric {
		return "km/kWh"
	}
	return "km/l"
}
