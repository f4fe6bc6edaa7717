// File: /controllers/usage_controller.go
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"reabastece-api/apperrors"
	"reabastece-api/calculator"
	"reabastece-api/services"
	"reabastece-api/utils"
)

type UsageController struct {
	usage *services.UsageService
}

func NewUsageController(usage *services.UsageService) *UsageController {
	return &UsageController{usage: usage}
}

func (uc *UsageController) GetUsage(c *gin.Context) {
	opts := utils.ListOptions(c)
	records, total, err := uc.usage.List(c.Request.Context(), c.GetString("user_id"), opts)
	if err != nil {
		utils.SendAppError(c, err)
		return
	}

	utils.SendPaginated(c, records, opts.Page, opts.Limit, total)
}

func (uc *UsageController) GetUsageRecord(c *gin.Context) {
	record, err := uc.usage.Get(c.Request.Context(), c.GetString("user_id"), c.Param("id"))
	if err != nil {
		utils.SendAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, record)
}

// CreateUsage stores a usage session; derived fields left empty are filled in.
func (uc *UsageController) CreateUsage(c *gin.Context) {
	var req calculator.Snapshot
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendAppError(c, apperrors.NewBadRequestError(err))
		return
	}

	record, err := uc.usage.Create(c.Request.Context(), c.GetString("user_id"), req)
	if err != nil {
		utils.SendAppError(c, err)
		return
	}

	c.JSON(http.StatusCreated, record)
}

func (uc *UsageController) UpdateUsage(c *gin.Context) {
	var req calculator.Snapshot
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendAppError(c, apperrors.NewBadRequestError(err))
		return
	}

	record, err := uc.usage.Update(c.Request.Context(), c.GetString("user_id"), c.Param("id"), req)
	if err != nil {
		utils.SendAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, record)
}

func (uc *UsageController) DeleteUsage(c *gin.Context) {
	if err := uc.usage.Delete(c.Request.Context(), c.GetString("user_id"), c.Param("id")); err != nil {
		utils.SendAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Usage record deleted successfully"})
}

// DeriveUsage recomputes the derived fields of a form in progress without storing it.
func (uc *UsageController) DeriveUsage(c *gin.Context) {
	var req services.DeriveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendAppError(c, apperrors.NewBadRequestError(err))
		return
	}

	result, err := uc.usage.Derive(c.Request.Context(), c.GetString("user_id"), req)
	if err != nil {
		utils.SendAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
