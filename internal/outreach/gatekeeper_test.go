package outreach

import (
	"testing"
	"time"

	"outreach-crm/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeURL(t *testing.T) {
	cases := map[string]string{
		"Example.com":               "https://example.com",
		"https://example.com/":      "https://example.com",
		"  http://Example.COM//  ":  "http://example.com",
		"example.com/path/":         "https://example.com/path",
		"https://www.example.co.uk": "https://www.example.co.uk",
		"":                          "",
	}
	for raw, want := range cases {
		got := NormalizeURL(raw)
		assert.Equal(t, want, got, "input %q", raw)
		// Normalization must be idempotent.
		assert.Equal(t, got, NormalizeURL(got))
	}
}

func TestEvaluateNewProspectEligible(t *testing.T) {
	g := NewGatekeeper("sender@agency.com", 50)
	decision := g.Evaluate(nil, nil, 0, time.Now().UTC())

	assert.True(t, decision.Eligible)
	assert.Empty(t, decision.Reason)
	assert.Equal(t, 50, decision.HourlyLimit)
}

func TestEvaluateDuplicateProspect(t *testing.T) {
	g := NewGatekeeper("sender@agency.com", 50)
	sentAt := time.Date(2026, 2, 10, 14, 30, 0, 0, time.UTC)
	existing := &models.Prospect{
		ID:              "p-1",
		CompanyName:     "Acme",
		WebsiteURL:      "https://acme.com",
		EmailSentStatus: true,
	}

	decision := g.Evaluate(existing, &sentAt, 0, time.Now().UTC())

	require.False(t, decision.Eligible)
	assert.Equal(t, ReasonDuplicateProspect, decision.Reason)
	require.NotNil(t, decision.LastSentAt)
	assert.Equal(t, sentAt, *decision.LastSentAt)
	assert.Contains(t, decision.Message, "Acme")
	assert.Contains(t, decision.Message, "2026-02-10 14:30")
}

func TestEvaluateUnsentProspectStillEligible(t *testing.T) {
	g := NewGatekeeper("sender@agency.com", 50)
	existing := &models.Prospect{ID: "p-2", WebsiteURL: "https://acme.com", EmailSentStatus: false}

	decision := g.Evaluate(existing, nil, 10, time.Now().UTC())

	assert.True(t, decision.Eligible)
	assert.Equal(t, existing, decision.Existing)
}

func TestEvaluateRateLimit(t *testing.T) {
	g := NewGatekeeper("sender@agency.com", 50)

	decision := g.Evaluate(nil, nil, 50, time.Now().UTC())

	require.False(t, decision.Eligible)
	assert.Equal(t, ReasonRateLimitExceeded, decision.Reason)
	assert.Equal(t, int64(50), decision.EmailsSentLastHour)
	assert.Contains(t, decision.Message, "50")

	// One below the limit is still allowed.
	assert.True(t, g.Evaluate(nil, nil, 49, time.Now().UTC()).Eligible)
}

func TestEvaluateDuplicateWinsOverRateLimit(t *testing.T) {
	g := NewGatekeeper("sender@agency.com", 50)
	existing := &models.Prospect{ID: "p-3", CompanyName: "Acme", EmailSentStatus: true}

	decision := g.Evaluate(existing, nil, 99, time.Now().UTC())

	require.False(t, decision.Eligible)
	assert.Equal(t, ReasonDuplicateProspect, decision.Reason)
}

func TestDeniedErrorMessage(t *testing.T) {
	err := &DeniedError{Decision: Decision{Message: "already sent"}}
	assert.Equal(t, "already sent", err.Error())
}
