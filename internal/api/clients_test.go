package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"outreach-crm/internal/database"
	"outreach-crm/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupClientRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.ClientProfile{},
		&models.ActivityLog{},
		&models.SentEmail{},
	))
	database.DB = db

	h := NewClientHandler(nil)
	r := gin.New()
	r.GET("/api/clients/:id/activities", h.GetClientActivities)
	r.POST("/api/clients/:id/activities", h.AddClientActivity)
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAddClientActivity(t *testing.T) {
	r := setupClientRouter(t)

	profile := models.ClientProfile{CompanyName: "Acme", Status: "Active"}
	require.NoError(t, database.DB.Create(&profile).Error)

	w := postJSON(t, r, fmt.Sprintf("/api/clients/%d/activities", profile.ID), gin.H{
		"action":  "Call",
		"method":  "Phone",
		"content": "Intro call with the owner",
		"details": "Follow up next week",
		"user_id": 7,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var activity models.ActivityLog
	require.NoError(t, database.DB.Where("client_id = ?", profile.ID).First(&activity).Error)
	assert.Equal(t, "Call", activity.Action)
	assert.Equal(t, "Phone", activity.Method)
	assert.Equal(t, uint(7), activity.UserID)

	// The new entry shows up in the listing.
	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/clients/%d/activities", profile.ID), nil)
	lw := httptest.NewRecorder()
	r.ServeHTTP(lw, req)
	require.Equal(t, http.StatusOK, lw.Code)

	var listed []models.ActivityLog
	require.NoError(t, json.Unmarshal(lw.Body.Bytes(), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, "Intro call with the owner", listed[0].Content)
}

func TestAddClientActivityUnknownClient(t *testing.T) {
	r := setupClientRouter(t)

	w := postJSON(t, r, "/api/clients/999/activities", gin.H{"action": "Call"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAddClientActivityRequiresAction(t *testing.T) {
	r := setupClientRouter(t)

	profile := models.ClientProfile{CompanyName: "Acme"}
	require.NoError(t, database.DB.Create(&profile).Error)

	w := postJSON(t, r, fmt.Sprintf("/api/clients/%d/activities", profile.ID), gin.H{"method": "Phone"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
