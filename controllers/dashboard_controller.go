// File: /controllers/dashboard_controller.go
package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"reabastece-api/services"
	"reabastece-api/utils"
)

type DashboardController struct {
	dashboard    *services.DashboardService
	auth         *services.AuthService
	emailService *services.EmailService
	now          func() time.Time
}

func NewDashboardController(dashboard *services.DashboardService, auth *services.AuthService, emailService *services.EmailService) *DashboardController {
	return &DashboardController{
		dashboard:    dashboard,
		auth:         auth,
		emailService: emailService,
		now:          time.Now,
	}
}

func (dc *DashboardController) GetDashboard(c *gin.Context) {
	summary, err := dc.dashboard.Summary(c.Request.Context(), c.GetString("user_id"), dc.now())
	if err != nil {
		utils.SendAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// EmailDashboard mails the current month's summary to the signed in user.
func (dc *DashboardController) EmailDashboard(c *gin.Context) {
	userID := c.GetString("user_id")

	summary, err := dc.dashboard.Summary(c.Request.Context(), userID, dc.now())
	if err != nil {
		utils.SendAppError(c, err)
		return
	}
	user, err := dc.auth.FindUser(c.Request.Context(), userID)
	if err != nil {
		utils.SendAppError(c, err)
		return
	}

	if err := dc.emailService.SendMonthlySummary(user.Email, user.Name, summary); err != nil {
		c.Error(err)
		utils.SendError(c, http.StatusBadGateway, "Failed to send summary email")
		return
	}

	utils.SendSuccess(c, "Summary sent to "+user.Email, nil)
}
