package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"courier-backend/constants"
	logModel "courier-backend/models/log"
	shipmentModel "courier-backend/models/shipment"
	userModel "courier-backend/models/user"
	"courier-backend/services/token"
	userService "courier-backend/services/user"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestServer(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&userModel.User{},
		&shipmentModel.Shipment{},
		&shipmentModel.TimelineEntry{},
		&logModel.Log{},
	))

	app := fiber.New()
	SetupRoutes(app, db)
	return app, db
}

func doJSON(t *testing.T, app *fiber.App, method, path, bearer string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	payload := map[string]interface{}{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &payload))
	}
	return resp, payload
}

func registerBody(email string) map[string]interface{} {
	return map[string]interface{}{
		"name":     "Asha Rao",
		"email":    email,
		"phone":    "9876543210",
		"password": "secret123",
		"address":  "14 Hill Road",
		"city":     "Mumbai",
	}
}

func shipmentBody() map[string]interface{} {
	return map[string]interface{}{
		"recipientName":    "Vikram Shah",
		"recipientPhone":   "9123456780",
		"recipientAddress": "2 Park Street",
		"recipientCity":    "Delhi",
		"weight":           2.5,
		"packageType":      "Parcel",
		"description":      "Books",
	}
}

func TestHealthRoute(t *testing.T) {
	app, _ := newTestServer(t)
	resp, payload := doJSON(t, app, "GET", "/", "", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, payload["message"], "Courier Management API")
}

func TestRegisterIssuesDecodableToken(t *testing.T) {
	app, _ := newTestServer(t)

	resp, payload := doJSON(t, app, "POST", "/api/auth/register", "", registerBody("asha@example.com"))
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	signed, _ := payload["token"].(string)
	require.NotEmpty(t, signed)
	claims, err := token.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, constants.RoleUser, claims.Role)
	require.NotZero(t, claims.ID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	app, _ := newTestServer(t)

	resp, _ := doJSON(t, app, "POST", "/api/auth/register", "", registerBody("asha@example.com"))
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp, payload := doJSON(t, app, "POST", "/api/auth/register", "", registerBody("asha@example.com"))
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Email already registered", payload["message"])
}

func TestLogin(t *testing.T) {
	app, _ := newTestServer(t)
	doJSON(t, app, "POST", "/api/auth/register", "", registerBody("asha@example.com"))

	// Wrong password
	resp, _ := doJSON(t, app, "POST", "/api/auth/login", "", map[string]interface{}{
		"email": "asha@example.com", "password": "wrong",
	})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	// Unknown email
	resp, _ = doJSON(t, app, "POST", "/api/auth/login", "", map[string]interface{}{
		"email": "nobody@example.com", "password": "secret123",
	})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	// Requested role the account does not hold
	resp, _ = doJSON(t, app, "POST", "/api/auth/login", "", map[string]interface{}{
		"email": "asha@example.com", "password": "secret123", "role": "admin",
	})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	// Correct credentials, role omitted
	resp, payload := doJSON(t, app, "POST", "/api/auth/login", "", map[string]interface{}{
		"email": "asha@example.com", "password": "secret123",
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	claims, err := token.Verify(payload["token"].(string))
	require.NoError(t, err)
	assert.Equal(t, constants.RoleUser, claims.Role)
}

func TestCreateAndTrackShipment(t *testing.T) {
	app, _ := newTestServer(t)

	_, registered := doJSON(t, app, "POST", "/api/auth/register", "", registerBody("asha@example.com"))
	bearer := registered["token"].(string)

	resp, created := doJSON(t, app, "POST", "/api/user/shipments", bearer, shipmentBody())
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	data := created["data"].(map[string]interface{})
	trackingID := data["tracking_id"].(string)
	assert.Regexp(t, `^TRK\d{11}$`, trackingID)

	// Public tracking, no token
	resp, tracked := doJSON(t, app, "GET", "/api/track/"+trackingID, "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, true, tracked["success"])

	view := tracked["data"].(map[string]interface{})
	assert.Equal(t, "Booked", view["status"])
	assert.Equal(t, float64(10), view["progress"])
	assert.Equal(t, "MUM", view["origin"].(map[string]interface{})["code"])
	assert.Equal(t, "DEL", view["destination"].(map[string]interface{})["code"])
	assert.Equal(t, "2.5 kg", view["details"].(map[string]interface{})["weight"])

	history := view["history"].([]interface{})
	require.Len(t, history, 1)
	first := history[0].(map[string]interface{})
	assert.Equal(t, "Booked", first["status"])
	assert.Equal(t, true, first["active"])
}

func TestTrackUnknownShipment(t *testing.T) {
	app, _ := newTestServer(t)

	resp, payload := doJSON(t, app, "GET", "/api/track/TRK00000000000", "", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Tracking number not found in our system", payload["message"])
}

func TestUserProfileAndStats(t *testing.T) {
	app, _ := newTestServer(t)

	_, registered := doJSON(t, app, "POST", "/api/auth/register", "", registerBody("asha@example.com"))
	bearer := registered["token"].(string)

	resp, profile := doJSON(t, app, "GET", "/api/user/profile", bearer, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "asha@example.com", profile["data"].(map[string]interface{})["email"])

	doJSON(t, app, "POST", "/api/user/shipments", bearer, shipmentBody())

	resp, stats := doJSON(t, app, "GET", "/api/user/stats", bearer, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	data := stats["data"].(map[string]interface{})
	assert.Equal(t, float64(1), data["totalShipments"])
	assert.Equal(t, float64(1), data["activeShipments"])
	assert.Equal(t, float64(0), data["deliveredShipments"])
}

func TestPasswordChangeFlow(t *testing.T) {
	app, _ := newTestServer(t)

	_, registered := doJSON(t, app, "POST", "/api/auth/register", "", registerBody("asha@example.com"))
	bearer := registered["token"].(string)

	resp, _ := doJSON(t, app, "PUT", "/api/user/password", bearer, map[string]interface{}{
		"current_password": "wrong", "new_password": "another456",
	})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp, _ = doJSON(t, app, "PUT", "/api/user/password", bearer, map[string]interface{}{
		"current_password": "secret123", "new_password": "another456",
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, app, "POST", "/api/auth/login", "", map[string]interface{}{
		"email": "asha@example.com", "password": "another456",
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func seedAccount(t *testing.T, db *gorm.DB, email, role string) string {
	t.Helper()
	users := userService.NewService(db)
	id, err := users.Create(userService.CreateParams{
		Name:     "Back Office",
		Email:    email,
		Phone:    "9000000000",
		Password: "secret123",
		City:     "Mumbai",
		Role:     role,
	})
	require.NoError(t, err)
	signed, err := token.Generate(id, role)
	require.NoError(t, err)
	return signed
}

func TestAdminStatusUpdateAndAssignment(t *testing.T) {
	app, db := newTestServer(t)

	_, registered := doJSON(t, app, "POST", "/api/auth/register", "", registerBody("asha@example.com"))
	userBearer := registered["token"].(string)
	_, created := doJSON(t, app, "POST", "/api/user/shipments", userBearer, shipmentBody())
	trackingID := created["data"].(map[string]interface{})["tracking_id"].(string)

	adminBearer := seedAccount(t, db, "admin@example.com", constants.RoleAdmin)
	agentBearer := seedAccount(t, db, "agent@example.com", constants.RoleAgent)

	// Regular users cannot reach admin routes
	resp, _ := doJSON(t, app, "GET", "/api/admin/shipments", userBearer, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	// Unknown status is rejected at the write boundary
	resp, _ = doJSON(t, app, "PUT", "/api/admin/shipments/"+trackingID+"/status", adminBearer, map[string]interface{}{
		"status": "Teleported",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, app, "PUT", "/api/admin/shipments/"+trackingID+"/status", adminBearer, map[string]interface{}{
		"status": "In-Transit", "location": "Mumbai Hub", "description": "Departed origin facility",
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, app, "PUT", "/api/admin/shipments/TRK99999999999/status", adminBearer, map[string]interface{}{
		"status": "Delivered",
	})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	// Assignment requires the assignee to be an agent
	var agent userModel.User
	require.NoError(t, db.Where("email = ?", "agent@example.com").First(&agent).Error)

	resp, _ = doJSON(t, app, "PUT", "/api/admin/shipments/"+trackingID+"/assign", adminBearer, map[string]interface{}{
		"agentId": agent.ID,
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	// Tracking now reflects the new status and two history entries
	_, tracked := doJSON(t, app, "GET", "/api/track/"+trackingID, "", nil)
	view := tracked["data"].(map[string]interface{})
	assert.Equal(t, "In-Transit", view["status"])
	assert.Equal(t, float64(60), view["progress"])
	assert.Len(t, view["history"].([]interface{}), 2)

	// The assigned agent sees and may update the shipment
	resp, _ = doJSON(t, app, "GET", "/api/agent/shipments/"+trackingID, agentBearer, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestAgentScopedToOwnAssignments(t *testing.T) {
	app, db := newTestServer(t)

	_, registered := doJSON(t, app, "POST", "/api/auth/register", "", registerBody("asha@example.com"))
	userBearer := registered["token"].(string)
	_, created := doJSON(t, app, "POST", "/api/user/shipments", userBearer, shipmentBody())
	trackingID := created["data"].(map[string]interface{})["tracking_id"].(string)

	agentBearer := seedAccount(t, db, "agent@example.com", constants.RoleAgent)

	// Valid token, but the shipment is not assigned to this agent
	resp, payload := doJSON(t, app, "GET", "/api/agent/shipments/"+trackingID, agentBearer, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "Access denied", payload["message"])

	resp, _ = doJSON(t, app, "PUT", "/api/agent/shipments/"+trackingID+"/status", agentBearer, map[string]interface{}{
		"status": "Picked Up",
	})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	// The agent's list view only contains their own assignments
	resp, listed := doJSON(t, app, "GET", "/api/agent/shipments", agentBearer, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	if data, ok := listed["data"].([]interface{}); ok {
		assert.Empty(t, data)
	}
}
