// File: /controllers/fuel_type_controller.go
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"reabastece-api/models"
)

type FuelTypeResponse struct {
	Value models.FuelType `json:"value"`
	Label string          `json:"label"`
	Unit  string          `json:"unit"`
}

// GetFuelTypes lists the accepted fuel types with their display labels.
func GetFuelTypes(c *gin.Context) {
	fuelTypes := make([]FuelTypeResponse, 0, len(models.FuelTypes))
	for _, f := range models.FuelTypes {
		fuelTypes = append(fuelTypes, FuelTypeResponse{Value: f, Label: f.Label(), Unit: f.Unit()})
	}

	c.JSON(http.StatusOK, fuelTypes)
}
