package api

import (
	"net/http"

	"outreach-crm/internal/database"
	"outreach-crm/internal/models"

	"github.com/gin-gonic/gin"
)

type CallHandler struct{}

func NewCallHandler() *CallHandler {
	return &CallHandler{}
}

func (h *CallHandler) GetCalls(c *gin.Context) {
	var calls []models.CallLog
	query := database.DB.Order("received_at DESC")
	if clientID := c.Query("client_id"); clientID != "" {
		query = query.Where("client_id = ?", clientID)
	}
	if c.Query("followup") == "true" {
		query = query.Where("followup_needed = ?", true)
	}
	if err := query.Find(&calls).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if calls == nil {
		calls = []models.CallLog{}
	}
	c.JSON(http.StatusOK, calls)
}

type CreateCallRequest struct {
	PhoneNumber     string `json:"phone_number" binding:"required"`
	DurationSeconds int    `json:"duration_seconds"`
	Summary         string `json:"summary"`
	Description     string `json:"description"`
	WorkDone        string `json:"work_done"`
	AssignedTo      string `json:"assigned_to"`
	FollowupNeeded  bool   `json:"followup_needed"`
	FollowupDate    string `json:"followup_date"`
	ClientID        uint   `json:"client_id"`
}

func (h *CallHandler) CreateCall(c *gin.Context) {
	var req CreateCallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	call := models.CallLog{
		PhoneNumber:     req.PhoneNumber,
		DurationSeconds: req.DurationSeconds,
		Summary:         req.Summary,
		Description:     req.Description,
		WorkDone:        req.WorkDone,
		AssignedTo:      req.AssignedTo,
		FollowupNeeded:  req.FollowupNeeded,
		FollowupDate:    req.FollowupDate,
		ClientID:        req.ClientID,
	}
	if err := database.DB.Create(&call).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, call)
}

func (h *CallHandler) UpdateCall(c *gin.Context) {
	var call models.CallLog
	if err := database.DB.First(&call, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Call not found"})
		return
	}

	var updates map[string]interface{}
	if err := c.ShouldBindJSON(&updates); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	delete(updates, "id")

	if err := database.DB.Model(&call).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, call)
}

// CallSummary aggregates call volume for the dashboard widget.
func (h *CallHandler) CallSummary(c *gin.Context) {
	var total, followups int64
	if err := database.DB.Model(&models.CallLog{}).Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	database.DB.Model(&models.CallLog{}).Where("followup_needed = ?", true).Count(&followups)

	c.JSON(http.StatusOK, gin.H{
		"total_calls":       total,
		"pending_followups": followups,
	})
}
