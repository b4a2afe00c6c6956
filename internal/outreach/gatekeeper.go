package outreach

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"outreach-crm/internal/models"

	"gorm.io/gorm"
)

// DenialReason classifies why the gatekeeper refused an outreach attempt.
type DenialReason string

const (
	ReasonDuplicateProspect DenialReason = "duplicate_prospect"
	ReasonRateLimitExceeded DenialReason = "rate_limit_exceeded"
)

// Decision is the gatekeeper verdict. Denials always carry a machine-checkable
// reason plus the context a caller needs to show the user.
type Decision struct {
	Eligible           bool             `json:"eligible"`
	Reason             DenialReason     `json:"reason,omitempty"`
	Message            string           `json:"message,omitempty"`
	Existing           *models.Prospect `json:"existing_prospect,omitempty"`
	LastSentAt         *time.Time       `json:"last_sent_at,omitempty"`
	EmailsSentLastHour int64            `json:"emails_sent_last_hour"`
	HourlyLimit        int              `json:"hourly_limit"`
}

// DeniedError wraps a denial Decision so callers can short-circuit with
// errors.As while keeping the structured reason.
type DeniedError struct {
	Decision Decision
}

func (e *DeniedError) Error() string {
	return e.Decision.Message
}

// NormalizeURL canonicalizes a prospect identity so that "Example.com" and
// "https://example.com/" compare equal. Idempotent.
func NormalizeURL(raw string) string {
	u := strings.ToLower(strings.TrimSpace(raw))
	if u == "" {
		return ""
	}
	if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
		u = "https://" + u
	}
	return strings.TrimRight(u, "/")
}

// Gatekeeper decides whether an outreach email may be sent. It never
// writes; the caller decides what to persist.
type Gatekeeper struct {
	SenderEmail string
	HourlyLimit int
}

func NewGatekeeper(senderEmail string, hourlyLimit int) *Gatekeeper {
	return &Gatekeeper{SenderEmail: senderEmail, HourlyLimit: hourlyLimit}
}

// Evaluate is the pure decision function over a ledger snapshot.
// An existing prospect that was never sent to is still eligible; only the
// ledger governs the rate rule.
func (g *Gatekeeper) Evaluate(existing *models.Prospect, lastSentAt *time.Time, sentLastHour int64, now time.Time) Decision {
	if existing != nil && existing.EmailSentStatus {
		sentAt := existing.CreatedAt
		if lastSentAt != nil {
			sentAt = *lastSentAt
		}
		return Decision{
			Eligible:           false,
			Reason:             ReasonDuplicateProspect,
			Existing:           existing,
			LastSentAt:         &sentAt,
			EmailsSentLastHour: sentLastHour,
			HourlyLimit:        g.HourlyLimit,
			Message: fmt.Sprintf("Prospecting email already sent to %s (%s) on %s",
				existing.CompanyName, existing.WebsiteURL, sentAt.UTC().Format("2006-01-02 15:04")),
		}
	}

	if sentLastHour >= int64(g.HourlyLimit) {
		return Decision{
			Eligible:           false,
			Reason:             ReasonRateLimitExceeded,
			Existing:           existing,
			EmailsSentLastHour: sentLastHour,
			HourlyLimit:        g.HourlyLimit,
			Message: fmt.Sprintf("Hourly email limit (%d) reached. You've sent %d emails in the last hour. Please wait before sending more.",
				g.HourlyLimit, sentLastHour),
		}
	}

	return Decision{
		Eligible:           true,
		Existing:           existing,
		EmailsSentLastHour: sentLastHour,
		HourlyLimit:        g.HourlyLimit,
	}
}

// Check loads the ledger snapshot for a raw URL and evaluates it.
// Read-only: a denial here has no side effects.
func (g *Gatekeeper) Check(db *gorm.DB, rawURL string, now time.Time) (Decision, error) {
	normalized := NormalizeURL(rawURL)

	var existing *models.Prospect
	var prospect models.Prospect
	err := db.Where("website_url = ?", normalized).First(&prospect).Error
	switch {
	case err == nil:
		existing = &prospect
	case errors.Is(err, gorm.ErrRecordNotFound):
		// first contact
	default:
		return Decision{}, fmt.Errorf("prospect lookup failed: %w", err)
	}

	var lastSentAt *time.Time
	if existing != nil && existing.EmailSentStatus {
		var lastLog models.EmailLog
		if err := db.Where("prospect_id = ?", existing.ID).
			Order("sent_at DESC").First(&lastLog).Error; err == nil {
			lastSentAt = &lastLog.SentAt
		}
	}

	// Sliding one-hour window, evaluated at call time.
	oneHourAgo := now.Add(-time.Hour)
	var sentLastHour int64
	if err := db.Model(&models.EmailLog{}).
		Where("sender_email = ? AND sent_at > ?", g.SenderEmail, oneHourAgo).
		Count(&sentLastHour).Error; err != nil {
		return Decision{}, fmt.Errorf("rate count failed: %w", err)
	}

	return g.Evaluate(existing, lastSentAt, sentLastHour, now), nil
}
