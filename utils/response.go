// File: /utils/response.go
package utils

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"reabastece-api/apperrors"
	"reabastece-api/repositories"
)

type ErrorResponse struct {
	Error            string            `json:"error"`
	Message          string            `json:"message,omitempty"`
	Code             int               `json:"code,omitempty"`
	ValidationErrors map[string]string `json:"validation_errors,omitempty"`
}

type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

type PaginatedResponse struct {
	Data       interface{} `json:"data"`
	Page       int         `json:"page"`
	Limit      int         `json:"limit"`
	Total      int64       `json:"total"`
	TotalPages int         `json:"total_pages"`
}

func SendError(c *gin.Context, status int, err string) {
	c.JSON(status, ErrorResponse{
		Error: err,
		Code:  status,
	})
}

// SendAppError writes any application error with the status it maps to.
// Internal failures never leak their cause to the client.
func SendAppError(c *gin.Context, err error) {
	status := apperrors.StatusCode(err)
	response := ErrorResponse{Code: status}

	var appErr *apperrors.AppError
	var validationErr *apperrors.ValidationError
	switch {
	case errors.As(err, &validationErr):
		response.Error = "Validation failed"
		response.ValidationErrors = validationErr.Fields
	case errors.As(err, &appErr):
		response.Error = appErr.Message
		if appErr.Err != nil && status < http.StatusInternalServerError {
			response.Message = appErr.Err.Error()
		}
	case status == http.StatusNotFound:
		response.Error = "Record not found"
	case status == http.StatusUnauthorized:
		response.Error = "Unauthorized"
		response.Message = err.Error()
	case status == http.StatusConflict:
		response.Error = "Request already in progress"
		response.Message = err.Error()
	default:
		response.Error = "Internal server error"
		response.Message = "An unexpected error occurred"
	}

	c.Error(err)
	c.AbortWithStatusJSON(status, response)
}

func SendValidationError(c *gin.Context, err string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   "Validation failed",
		Message: err,
		Code:    http.StatusBadRequest,
	})
}

func SendSuccess(c *gin.Context, message string, data interface{}) {
	response := SuccessResponse{
		Message: message,
	}
	if data != nil {
		response.Data = data
	}
	c.JSON(http.StatusOK, response)
}

func SendCreated(c *gin.Context, message string, data interface{}) {
	response := SuccessResponse{
		Message: message,
		Data:    data,
	}
	c.JSON(http.StatusCreated, response)
}

func SendPaginated(c *gin.Context, data interface{}, page, limit int, total int64) {
	totalPages := int((total + int64(limit) - 1) / int64(limit))

	c.JSON(http.StatusOK, PaginatedResponse{
		Data:       data,
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
	})
}

// ListOptions reads page and limit from the query string. Missing or
// malformed values fall back to the defaults.
func ListOptions(c *gin.Context) repositories.ListOptions {
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))
	return repositories.ListOptions{Page: page, Limit: limit}.Normalize()
}
