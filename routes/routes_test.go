package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"reabastece-api/config"
	"reabastece-api/database"
	"reabastece-api/models"
	"reabastece-api/services"
)

type recordingSender struct {
	sent []*gomail.Message
}

func (r *recordingSender) DialAndSend(m ...*gomail.Message) error {
	r.sent = append(r.sent, m...)
	return nil
}

type apiClient struct {
	t      *testing.T
	router *gin.Engine
	token  string
}

func setupRouter(t *testing.T) (*gin.Engine, *recordingSender) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := database.Initialize("sqlite", fmt.Sprintf("file:%s?mode=memory&cache=shared", name), false)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, zap.NewNop()))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	cfg := config.DefaultConfig()
	cfg.JWTSecret = "test-secret"
	sender := &recordingSender{}
	emailService := services.NewEmailServiceWithSender(&cfg, sender, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return NewRouter(ctx, db, &cfg, zap.NewNop(), emailService), sender
}

func (a *apiClient) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	a.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

// signUp registers a user and returns a client carrying its token.
func signUp(t *testing.T, router *gin.Engine, email string) *apiClient {
	t.Helper()
	client := &apiClient{t: t, router: router}

	w := client.do(http.MethodPost, "/api/v1/auth/register", gin.H{
		"name":     "Ana",
		"email":    email,
		"password": "segredo123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = client.do(http.MethodPost, "/api/v1/auth/login", gin.H{
		"email":    email,
		"password": "segredo123",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	client.token = decode[struct {
		Token string `json:"token"`
	}](t, w).Token
	require.NotEmpty(t, client.token)
	return client
}

func createFlexVehicle(t *testing.T, client *apiClient) models.Vehicle {
	t.Helper()
	w := client.do(http.MethodPost, "/api/v1/vehicles", gin.H{
		"name":                 "Gol",
		"brand":                "Volkswagen",
		"fuel_type":            "flex",
		"ethanol_consumption":  7.5,
		"gasoline_consumption": 11,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[models.Vehicle](t, w)
}

func TestPing(t *testing.T) {
	router, _ := setupRouter(t)
	client := &apiClient{t: t, router: router}

	w := client.do(http.MethodGet, "/ping", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "pong")
}

func TestFuelTypesArePublic(t *testing.T) {
	router, _ := setupRouter(t)
	client := &apiClient{t: t, router: router}

	w := client.do(http.MethodGet, "/api/v1/fuel-types", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"ethanol"`)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	router, _ := setupRouter(t)
	client := &apiClient{t: t, router: router}

	for _, path := range []string{"/api/v1/vehicles", "/api/v1/usage", "/api/v1/refuelings", "/api/v1/dashboard", "/api/v1/auth/me"} {
		w := client.do(http.MethodGet, path, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}

	client.token = "not-a-jwt"
	w := client.do(http.MethodGet, "/api/v1/vehicles", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegisterSendsWelcomeEmail(t *testing.T) {
	router, sender := setupRouter(t)
	client := signUp(t, router, "ana@example.com")

	require.Len(t, sender.sent, 1)
	assert.Equal(t, []string{"ana@example.com"}, sender.sent[0].GetHeader("To"))

	w := client.do(http.MethodGet, "/api/v1/auth/me", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ana@example.com", decode[models.User](t, w).Email)

	// Duplicate e-mail
	w = client.do(http.MethodPost, "/api/v1/auth/register", gin.H{
		"name":     "Ana",
		"email":    "ana@example.com",
		"password": "segredo123",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestUsageFlow(t *testing.T) {
	router, sender := setupRouter(t)
	client := signUp(t, router, "ana@example.com")
	vehicle := createFlexVehicle(t, client)
	today := time.Now().Format(models.DateLayout)

	// Derive while editing
	w := client.do(http.MethodPost, "/api/v1/usage/derive", gin.H{
		"values": gin.H{
			"vehicle_id":       vehicle.ID,
			"fuel_type":        "ethanol",
			"initial_odometer": 10000,
			"final_odometer":   10450,
			"price_per_liter":  4.329,
		},
		"changed": []string{"final_odometer"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	derived := decode[services.DeriveResult](t, w)
	require.NotNil(t, derived.Values.KmDriven)
	require.NotNil(t, derived.Values.EstimatedLiters)
	require.NotNil(t, derived.Values.TotalCost)
	assert.Equal(t, 450.0, *derived.Values.KmDriven)
	assert.Equal(t, 60.0, *derived.Values.EstimatedLiters)
	assert.Equal(t, 259.74, *derived.Values.TotalCost)
	require.NotNil(t, derived.Presentation.CostPerKm)
	assert.Equal(t, "0.577", *derived.Presentation.CostPerKm)

	// Create with derived fields left out
	w = client.do(http.MethodPost, "/api/v1/usage", gin.H{
		"vehicle_id":       vehicle.ID,
		"fuel_type":        "ethanol",
		"initial_odometer": 10000,
		"final_odometer":   10450,
		"price_per_liter":  4.329,
		"gas_station":      "Posto Ipiranga",
		"date":             today,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	usage := decode[models.VehicleUsage](t, w)
	require.NotNil(t, usage.TotalCost)
	assert.Equal(t, 259.74, *usage.TotalCost)
	assert.False(t, usage.IsPaid)

	w = client.do(http.MethodGet, "/api/v1/usage/"+usage.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	fetched := decode[models.VehicleUsage](t, w)
	require.NotNil(t, fetched.Vehicle)
	assert.Equal(t, "Gol", fetched.Vehicle.Name)

	// Refueling of the same month
	w = client.do(http.MethodPost, "/api/v1/refuelings", gin.H{
		"vehicle_id":      vehicle.ID,
		"date":            today,
		"liters":          40,
		"price_per_liter": 5.899,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = client.do(http.MethodGet, "/api/v1/dashboard", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	summary := decode[services.DashboardSummary](t, w)
	assert.Equal(t, int64(1), summary.VehicleCount)
	assert.Equal(t, int64(1), summary.Usage.Count)
	assert.Equal(t, 60.0, summary.Usage.Liters)
	assert.Equal(t, 259.74, summary.Usage.TotalCost)
	assert.Equal(t, 259.74, summary.UnpaidUsageCost)
	assert.Equal(t, 235.96, summary.Refuelings.TotalCost)
	require.NotNil(t, summary.LastRefueling)
	assert.Equal(t, 40.0, summary.LastRefueling.Liters)

	sent := len(sender.sent)
	w = client.do(http.MethodPost, "/api/v1/dashboard/email", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Len(t, sender.sent, sent+1)

	// Deleting the vehicle takes its records along
	w = client.do(http.MethodDelete, "/api/v1/vehicles/"+vehicle.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = client.do(http.MethodGet, "/api/v1/usage/"+usage.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUsageValidationFailure(t *testing.T) {
	router, _ := setupRouter(t)
	client := signUp(t, router, "ana@example.com")

	w := client.do(http.MethodPost, "/api/v1/usage", gin.H{
		"fuel_type": "ethanol",
		"date":      "15/03/2024",
	})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())

	resp := decode[struct {
		Error            string            `json:"error"`
		ValidationErrors map[string]string `json:"validation_errors"`
	}](t, w)
	assert.Equal(t, "Validation failed", resp.Error)
	assert.Contains(t, resp.ValidationErrors, "vehicle_id")
	assert.Contains(t, resp.ValidationErrors, "date")

	w = client.do(http.MethodGet, "/api/v1/usage", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":0`)
}

func TestRecordsAreScopedToOwner(t *testing.T) {
	router, _ := setupRouter(t)
	ana := signUp(t, router, "ana@example.com")
	bruno := signUp(t, router, "bruno@example.com")
	vehicle := createFlexVehicle(t, ana)

	w := bruno.do(http.MethodGet, "/api/v1/vehicles/"+vehicle.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = bruno.do(http.MethodDelete, "/api/v1/vehicles/"+vehicle.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = bruno.do(http.MethodPost, "/api/v1/usage", gin.H{
		"vehicle_id": vehicle.ID,
		"fuel_type":  "ethanol",
		"date":       "2024-03-10",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = ana.do(http.MethodGet, "/api/v1/vehicles", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), vehicle.ID)
}

func TestJSONContentTypeRequired(t *testing.T) {
	router, _ := setupRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader("email=a"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
}
