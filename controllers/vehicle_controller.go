// File: /controllers/vehicle_controller.go
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"reabastece-api/apperrors"
	"reabastece-api/services"
	"reabastece-api/utils"
)

type VehicleController struct {
	vehicles *services.VehicleService
}

func NewVehicleController(vehicles *services.VehicleService) *VehicleController {
	return &VehicleController{vehicles: vehicles}
}

func (vc *VehicleController) GetVehicles(c *gin.Context) {
	opts := utils.ListOptions(c)
	vehicles, total, err := vc.vehicles.List(c.Request.Context(), c.GetString("user_id"), opts)
	if err != nil {
		utils.SendAppError(c, err)
		return
	}

	utils.SendPaginated(c, vehicles, opts.Page, opts.Limit, total)
}

func (vc *VehicleController) GetVehicle(c *gin.Context) {
	vehicle, err := vc.vehicles.Get(c.Request.Context(), c.GetString("user_id"), c.Param("id"))
	if err != nil {
		utils.SendAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, vehicle)
}

func (vc *VehicleController) CreateVehicle(c *gin.Context) {
	var req services.VehicleInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendAppError(c, apperrors.NewBadRequestError(err))
		return
	}

	vehicle, err := vc.vehicles.Create(c.Request.Context(), c.GetString("user_id"), req)
	if err != nil {
		utils.SendAppError(c, err)
		return
	}

	c.JSON(http.StatusCreated, vehicle)
}

func (vc *VehicleController) UpdateVehicle(c *gin.Context) {
	var req services.VehicleInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendAppError(c, apperrors.NewBadRequestError(err))
		return
	}

	vehicle, err := vc.vehicles.Update(c.Request.Context(), c.GetString("user_id"), c.Param("id"), req)
	if err != nil {
		utils.SendAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, vehicle)
}

// DeleteVehicle also removes the vehicle's refuelings and usage records.
func (vc *VehicleController) DeleteVehicle(c *gin.Context) {
	if err := vc.vehicles.Delete(c.Request.Context(), c.GetString("user_id"), c.Param("id")); err != nil {
		utils.SendAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Vehicle deleted successfully"})
}
