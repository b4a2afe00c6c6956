package api

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"outreach-crm/internal/database"
	"outreach-crm/internal/models"
	"outreach-crm/internal/outreach"
	"outreach-crm/internal/synth"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type OutreachHandler struct {
	orchestrator *outreach.Orchestrator
}

func NewOutreachHandler(orchestrator *outreach.Orchestrator) *OutreachHandler {
	return &OutreachHandler{orchestrator: orchestrator}
}

type EligibilityRequest struct {
	WebsiteURL string `json:"website_url" binding:"required"`
}

// CheckEligibility runs the gatekeeper only; no side effects.
func (h *OutreachHandler) CheckEligibility(c *gin.Context) {
	var req EligibilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	decision, err := h.orchestrator.CheckEligibility(req.WebsiteURL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	status := http.StatusOK
	switch decision.Reason {
	case outreach.ReasonDuplicateProspect:
		status = http.StatusConflict
	case outreach.ReasonRateLimitExceeded:
		status = http.StatusTooManyRequests
	}
	c.JSON(status, decision)
}

// DraftLead generates one eligibility-checked outreach draft without sending.
func (h *OutreachHandler) DraftLead(c *gin.Context) {
	companyName := c.PostForm("company_name")
	websiteURL := c.PostForm("website_url")
	primaryEmail := c.PostForm("primary_email")
	if companyName == "" || websiteURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "company_name and website_url are required"})
		return
	}

	draft, err := h.orchestrator.DraftSingle(c.Request.Context(), companyName, websiteURL, primaryEmail)
	if err != nil {
		var denied *outreach.DeniedError
		if errors.As(err, &denied) {
			status := http.StatusConflict
			if denied.Decision.Reason == outreach.ReasonRateLimitExceeded {
				status = http.StatusTooManyRequests
			}
			c.JSON(status, denied.Decision)
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, draft)
}

type GenerateRequest struct {
	URLs   []string `json:"urls" binding:"required"`
	Manual bool     `json:"manual"`
}

// Generate runs the full campaign pipeline for a batch of identifiers.
func (h *OutreachHandler) Generate(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req.URLs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "at least one url is required"})
		return
	}

	results := h.orchestrator.RunCampaign(c.Request.Context(), req.URLs, req.Manual)
	c.JSON(http.StatusOK, gin.H{"results": results})
}

type SendLeadRequest struct {
	AccountEmail        string `json:"account_email"`
	CompanyName         string `json:"company_name" binding:"required"`
	WebsiteURL          string `json:"website_url" binding:"required"`
	Subject             string `json:"subject"`
	EnglishBody         string `json:"english_body"`
	SpanishBody         string `json:"spanish_body"`
	InboundSubject      string `json:"inbound_subject"`
	InboundEnglishBody  string `json:"inbound_english_body"`
	InboundSpanishBody  string `json:"inbound_spanish_body"`
	RecommendedServices string `json:"recommended_services"`
	ManualMode          bool   `json:"manual_mode"`
}

// SendLead sends an approved draft pair (unless manual) and persists the
// full user/profile/prospect/ledger record set.
func (h *OutreachHandler) SendLead(c *gin.Context) {
	var req SendLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var services []string
	for _, s := range strings.Split(req.RecommendedServices, ",") {
		if s = strings.TrimSpace(s); s != "" {
			services = append(services, s)
		}
	}

	outcome, err := h.orchestrator.SendAndRecord(c.Request.Context(), outreach.SendInput{
		AccountEmail: req.AccountEmail,
		CompanyName:  req.CompanyName,
		WebsiteURL:   req.WebsiteURL,
		Outreach: synth.Draft{
			Type:        synth.DraftOutreach,
			Subject:     req.Subject,
			EnglishBody: req.EnglishBody,
			SpanishBody: req.SpanishBody,
		},
		Inbound: synth.Draft{
			Type:        synth.DraftInbound,
			Subject:     req.InboundSubject,
			EnglishBody: req.InboundEnglishBody,
			SpanishBody: req.InboundSpanishBody,
		},
		Services: services,
		Manual:   req.ManualMode,
	})
	if err != nil {
		if errors.Is(err, outreach.ErrPersistenceFailed) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "outcome": outcome})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":        "success",
		"outbound_sent": outcome.OutboundSent,
		"inbound_sent":  outcome.InboundSent,
		"client_id":     outcome.ProfileID,
	})
}

type AdHocSendRequest struct {
	Email       string `json:"email" binding:"required"`
	Subject     string `json:"subject" binding:"required"`
	Body        string `json:"body" binding:"required"`
	CompanyName string `json:"company_name"`
	HTML        bool   `json:"html"`
}

// Send is the ad-hoc transport path: rate-limit check, real send, then a
// shell prospect plus ledger entry so the hourly window stays accurate.
func (h *OutreachHandler) Send(c *gin.Context) {
	var req AdHocSendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	gate := h.orchestrator.Gatekeeper
	now := time.Now().UTC()
	var sentLastHour int64
	if err := database.DB.Model(&models.EmailLog{}).
		Where("sender_email = ? AND sent_at > ?", gate.SenderEmail, now.Add(-time.Hour)).
		Count(&sentLastHour).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if sentLastHour >= int64(gate.HourlyLimit) {
		c.JSON(http.StatusTooManyRequests, gin.H{
			"error": fmt.Sprintf("Hourly email limit reached (%d). Please wait before sending more.", gate.HourlyLimit),
		})
		return
	}

	if h.orchestrator.Mailer == nil || !h.orchestrator.HasCredentials {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "SMTP credentials are not configured"})
		return
	}
	if err := h.orchestrator.Mailer.Send(req.Email, req.Subject, req.Body, req.HTML); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": fmt.Sprintf("Failed to send email: %v", err)})
		return
	}

	companyName := req.CompanyName
	if companyName == "" {
		companyName = req.Email
	}
	prospect := models.Prospect{
		ID:              uuid.NewString(),
		CompanyName:     companyName,
		WebsiteURL:      "adhoc://" + req.Email,
		PrimaryEmail:    req.Email,
		EmailSender:     gate.SenderEmail,
		EmailSentStatus: true,
	}
	if err := database.DB.Where("primary_email = ?", req.Email).FirstOrCreate(&prospect).Error; err != nil {
		log.Printf("Error creating ad-hoc prospect for %s: %v", req.Email, err)
	}
	entry := models.EmailLog{
		ID:          uuid.NewString(),
		ProspectID:  prospect.ID,
		SenderEmail: gate.SenderEmail,
		SentAt:      now,
		Subject:     req.Subject,
		Content:     req.Body,
	}
	if err := database.DB.Create(&entry).Error; err != nil {
		log.Printf("Error recording ad-hoc send to %s: %v", req.Email, err)
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Email sent to " + req.Email})
}

type ActivityEntry struct {
	ID          string    `json:"id"`
	CompanyName string    `json:"company_name"`
	WebsiteURL  string    `json:"website_url"`
	SenderEmail string    `json:"sender_email"`
	Subject     string    `json:"subject"`
	SentAt      time.Time `json:"sent_at"`
}

// RecentActivity lists the latest ledger entries joined with their prospects.
func (h *OutreachHandler) RecentActivity(c *gin.Context) {
	var entries []ActivityEntry
	err := database.DB.Model(&models.EmailLog{}).
		Select("email_logs.id, prospects.company_name, prospects.website_url, email_logs.sender_email, email_logs.subject, email_logs.sent_at").
		Joins("LEFT JOIN prospects ON prospects.id = email_logs.prospect_id").
		Order("email_logs.sent_at DESC").
		Limit(50).
		Scan(&entries).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if entries == nil {
		entries = []ActivityEntry{}
	}
	c.JSON(http.StatusOK, entries)
}
