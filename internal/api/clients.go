package api

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"outreach-crm/internal/database"
	"outreach-crm/internal/models"
	"outreach-crm/internal/ws"

	"github.com/gin-gonic/gin"
)

type ClientHandler struct {
	hub *ws.Hub
}

func NewClientHandler(hub *ws.Hub) *ClientHandler {
	return &ClientHandler{hub: hub}
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *ClientHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := database.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}
	if user.Password != req.Password {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":    user.ID,
		"email": user.Email,
		"name":  user.Name,
		"role":  user.Role,
	})
}

func (h *ClientHandler) GetClients(c *gin.Context) {
	var profiles []models.ClientProfile
	query := database.DB.Preload("User").Order("id DESC")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Find(&profiles).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if profiles == nil {
		profiles = []models.ClientProfile{}
	}
	c.JSON(http.StatusOK, profiles)
}

func (h *ClientHandler) GetClient(c *gin.Context) {
	var profile models.ClientProfile
	if err := database.DB.Preload("User").First(&profile, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Client not found"})
		return
	}
	c.JSON(http.StatusOK, profile)
}

type CreateClientRequest struct {
	Email       string `json:"email" binding:"required"`
	Name        string `json:"name"`
	CompanyName string `json:"company_name"`
	WebsiteURL  string `json:"website_url"`
	Phone       string `json:"phone"`
	Status      string `json:"status"`
}

// CreateClient registers a client manually, outside the outreach flow.
func (h *ClientHandler) CreateClient(c *gin.Context) {
	var req CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := models.User{Email: req.Email, Name: req.Name, Role: "Client", Password: "password123"}
	if err := database.DB.Where("email = ?", req.Email).FirstOrCreate(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	status := req.Status
	if status == "" {
		status = "Active"
	}
	profile := models.ClientProfile{
		UserID:      user.ID,
		CompanyName: req.CompanyName,
		WebsiteURL:  req.WebsiteURL,
		Phone:       req.Phone,
		Status:      status,
	}
	if err := database.DB.Where("user_id = ?", user.ID).FirstOrCreate(&profile).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, profile)
}

// UpdateClient applies a partial update. Only keys present in the request
// body are written.
func (h *ClientHandler) UpdateClient(c *gin.Context) {
	var profile models.ClientProfile
	if err := database.DB.First(&profile, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Client not found"})
		return
	}

	var updates map[string]interface{}
	if err := c.ShouldBindJSON(&updates); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	delete(updates, "id")
	delete(updates, "user_id")
	delete(updates, "user")

	if err := database.DB.Model(&profile).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *ClientHandler) DeleteClient(c *gin.Context) {
	result := database.DB.Delete(&models.ClientProfile{}, c.Param("id"))
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": result.Error.Error()})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Client not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "Client deleted"})
}

type KeywordRequest struct {
	Keyword string `json:"keyword" binding:"required"`
}

// AddKeyword appends a target keyword to the profile's JSON keyword list.
func (h *ClientHandler) AddKeyword(c *gin.Context) {
	var profile models.ClientProfile
	if err := database.DB.First(&profile, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Client not found"})
		return
	}
	var req KeywordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	keywords := decodeKeywords(profile.TargetKeywords)
	for _, k := range keywords {
		if k == req.Keyword {
			c.JSON(http.StatusOK, gin.H{"keywords": keywords})
			return
		}
	}
	keywords = append(keywords, req.Keyword)
	if err := saveKeywords(&profile, keywords); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"keywords": keywords})
}

func (h *ClientHandler) RemoveKeyword(c *gin.Context) {
	var profile models.ClientProfile
	if err := database.DB.First(&profile, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Client not found"})
		return
	}
	var req KeywordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	keywords := decodeKeywords(profile.TargetKeywords)
	kept := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if k != req.Keyword {
			kept = append(kept, k)
		}
	}
	if err := saveKeywords(&profile, kept); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"keywords": kept})
}

func decodeKeywords(raw string) []string {
	var keywords []string
	if raw != "" {
		if err := json.Unmarshal([]byte(raw), &keywords); err != nil {
			log.Printf("Error decoding keyword list: %v", err)
		}
	}
	return keywords
}

func saveKeywords(profile *models.ClientProfile, keywords []string) error {
	encoded, err := json.Marshal(keywords)
	if err != nil {
		return err
	}
	return database.DB.Model(profile).Update("target_keywords", string(encoded)).Error
}

type RemarkRequest struct {
	Content    string `json:"content" binding:"required"`
	AuthorID   uint   `json:"author_id"`
	IsInternal *bool  `json:"is_internal"`
}

func (h *ClientHandler) GetClientRemarks(c *gin.Context) {
	var remarks []models.Remark
	if err := database.DB.Where("client_id = ?", c.Param("id")).Order("created_at DESC").Find(&remarks).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if remarks == nil {
		remarks = []models.Remark{}
	}
	c.JSON(http.StatusOK, remarks)
}

func (h *ClientHandler) AddClientRemark(c *gin.Context) {
	var profile models.ClientProfile
	if err := database.DB.First(&profile, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Client not found"})
		return
	}
	var req RemarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	remark := models.Remark{Content: req.Content, AuthorID: req.AuthorID, ClientID: profile.ID, IsInternal: true}
	if req.IsInternal != nil {
		remark.IsInternal = *req.IsInternal
	}
	if err := database.DB.Create(&remark).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, remark)
}

type ActivityRequest struct {
	Action  string `json:"action" binding:"required"`
	Method  string `json:"method"`
	Content string `json:"content"`
	Details string `json:"details"`
	UserID  uint   `json:"user_id"`
}

// AddClientActivity logs a manual activity (call, meeting, note) against
// the client and pushes it to connected dashboards.
func (h *ClientHandler) AddClientActivity(c *gin.Context) {
	var profile models.ClientProfile
	if err := database.DB.First(&profile, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Client not found"})
		return
	}
	var req ActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	activity := models.ActivityLog{
		UserID:   req.UserID,
		ClientID: profile.ID,
		Action:   req.Action,
		Method:   req.Method,
		Content:  req.Content,
		Details:  req.Details,
	}
	if err := database.DB.Create(&activity).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if h.hub != nil {
		h.hub.NotifyActivity(activity)
	}
	c.JSON(http.StatusCreated, activity)
}

func (h *ClientHandler) GetClientActivities(c *gin.Context) {
	var activities []models.ActivityLog
	if err := database.DB.Where("client_id = ?", c.Param("id")).Order("created_at DESC").Limit(100).Find(&activities).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if activities == nil {
		activities = []models.ActivityLog{}
	}
	c.JSON(http.StatusOK, activities)
}

func (h *ClientHandler) GetClientEmails(c *gin.Context) {
	var emails []models.SentEmail
	if err := database.DB.Where("client_id = ?", c.Param("id")).Order("sent_at DESC").Find(&emails).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if emails == nil {
		emails = []models.SentEmail{}
	}
	c.JSON(http.StatusOK, emails)
}

type ClientEmailRequest struct {
	Subject string `json:"subject" binding:"required"`
	Body    string `json:"body" binding:"required"`
}

// SendClientEmail archives an email against the client record. The actual
// transport happens from the operator's mail client; this keeps history.
func (h *ClientHandler) SendClientEmail(c *gin.Context) {
	var profile models.ClientProfile
	if err := database.DB.Preload("User").First(&profile, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Client not found"})
		return
	}
	var req ClientEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	toEmail := ""
	if profile.User != nil {
		toEmail = profile.User.Email
	}
	email := models.SentEmail{
		ClientID:    profile.ID,
		ToEmail:     toEmail,
		Subject:     req.Subject,
		EnglishBody: req.Body,
	}
	if err := database.DB.Create(&email).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	activity := models.ActivityLog{
		UserID:   profile.UserID,
		ClientID: profile.ID,
		Action:   "Email Sent",
		Method:   "Email",
		Content:  req.Subject,
		Details:  "Sent manually from client view",
	}
	if err := database.DB.Create(&activity).Error; err != nil {
		log.Printf("Error recording client email activity: %v", err)
	} else if h.hub != nil {
		h.hub.NotifyActivity(activity)
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "sent_at": time.Now().UTC()})
}

func (h *ClientHandler) GetStatuses(c *gin.Context) {
	var statuses []models.ClientStatus
	if err := database.DB.Order("id").Find(&statuses).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if statuses == nil {
		statuses = []models.ClientStatus{}
	}
	c.JSON(http.StatusOK, statuses)
}

type StatusRequest struct {
	Name  string `json:"name" binding:"required"`
	Color string `json:"color"`
}

func (h *ClientHandler) CreateStatus(c *gin.Context) {
	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	status := models.ClientStatus{Name: req.Name, Color: req.Color}
	if status.Color == "" {
		status.Color = "bg-gray-500"
	}
	if err := database.DB.Create(&status).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Status already exists"})
		return
	}
	c.JSON(http.StatusCreated, status)
}

func (h *ClientHandler) DeleteStatus(c *gin.Context) {
	result := database.DB.Delete(&models.ClientStatus{}, c.Param("id"))
	if result.Error != nil || result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Status not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
