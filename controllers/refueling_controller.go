// File: /controllers/refueling_controller.go
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"reabastece-api/apperrors"
	"reabastece-api/services"
	"reabastece-api/utils"
)

type RefuelingController struct {
	refuelings *services.RefuelingService
}

func NewRefuelingController(refuelings *services.RefuelingService) *RefuelingController {
	return &RefuelingController{refuelings: refuelings}
}

func (rc *RefuelingController) GetRefuelings(c *gin.Context) {
	opts := utils.ListOptions(c)
	refuelings, total, err := rc.refuelings.List(c.Request.Context(), c.GetString("user_id"), opts)
	if err != nil {
		utils.SendAppError(c, err)
		return
	}

	utils.SendPaginated(c, refuelings, opts.Page, opts.Limit, total)
}

func (rc *RefuelingController) GetRefueling(c *gin.Context) {
	refueling, err := rc.refuelings.Get(c.Request.Context(), c.GetString("user_id"), c.Param("id"))
	if err != nil {
		utils.SendAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, refueling)
}

func (rc *RefuelingController) CreateRefueling(c *gin.Context) {
	var req services.RefuelingInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendAppError(c, apperrors.NewBadRequestError(err))
		return
	}

	refueling, err := rc.refuelings.Create(c.Request.Context(), c.GetString("user_id"), req)
	if err != nil {
		utils.SendAppError(c, err)
		return
	}

	c.JSON(http.StatusCreated, refueling)
}

func (rc *RefuelingController) UpdateRefueling(c *gin.Context) {
	var req services.RefuelingInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendAppError(c, apperrors.NewBadRequestError(err))
		return
	}

	refueling, err := rc.refuelings.Update(c.Request.Context(), c.GetString("user_id"), c.Param("id"), req)
	if err != nil {
		utils.SendAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, refueling)
}

func (rc *RefuelingController) DeleteRefueling(c *gin.Context) {
	if err := rc.refuelings.Delete(c.Request.Context(), c.GetString("user_id"), c.Param("id")); err != nil {
		utils.SendAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Refueling deleted successfully"})
}
