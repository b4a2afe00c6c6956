package outreach

import (
	"fmt"
	"testing"
	"time"

	"outreach-crm/internal/models"
	"outreach-crm/internal/synth"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// A named shared-cache DSN keeps pooled connections on one database
	// while isolating tests from each other.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Prospect{},
		&models.EmailLog{},
		&models.User{},
		&models.ClientProfile{},
		&models.SentEmail{},
		&models.ActivityLog{},
	))
	return db
}

func testDraft() synth.Draft {
	return synth.Draft{
		Type:        synth.DraftOutreach,
		Subject:     "Growth Partnership with Acme",
		EnglishBody: "Hi Acme Team, english paragraph.",
		SpanishBody: "Hola equipo Acme, parrafo en espanol.",
	}
}

func TestCommitCreatesFullRecordSet(t *testing.T) {
	db := setupTestDB(t)
	c := NewCoordinator(db, "sender@agency.com")

	result, err := c.Commit(CommitInput{
		AccountEmail: "owner@acme.com",
		CompanyName:  "Acme",
		WebsiteURL:   "https://acme.com",
		Outreach:     testDraft(),
		OutboundSent: true,
		InboundSent:  true,
		Services:     []string{"Organic SEO", "Local SEO"},
	})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Empty(t, result.Inconsistencies)

	var user models.User
	require.NoError(t, db.Where("email = ?", "owner@acme.com").First(&user).Error)
	assert.Equal(t, "Client", user.Role)
	assert.Equal(t, "Acme", user.Name)

	var profile models.ClientProfile
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&profile).Error)
	assert.Equal(t, result.ProfileID, profile.ID)
	assert.True(t, profile.OutboundEmailSent)
	assert.True(t, profile.InboundEmailSent)
	assert.Equal(t, "Organic SEO, Local SEO", profile.RecommendedServices)

	var prospect models.Prospect
	require.NoError(t, db.Where("website_url = ?", "https://acme.com").First(&prospect).Error)
	assert.Equal(t, result.ProspectID, prospect.ID)
	assert.True(t, prospect.EmailSentStatus)
	assert.Equal(t, "sender@agency.com", prospect.EmailSender)

	var archive models.SentEmail
	require.NoError(t, db.Where("client_id = ?", profile.ID).First(&archive).Error)
	assert.Equal(t, "Growth Partnership with Acme", archive.Subject)
	assert.NotEmpty(t, archive.SpanishBody)

	var ledgerCount int64
	require.NoError(t, db.Model(&models.EmailLog{}).Where("prospect_id = ?", prospect.ID).Count(&ledgerCount).Error)
	assert.Equal(t, int64(1), ledgerCount)
}

func TestCommitIsIdempotentForAccountAndProfile(t *testing.T) {
	db := setupTestDB(t)
	c := NewCoordinator(db, "sender@agency.com")

	in := CommitInput{
		AccountEmail: "owner@acme.com",
		CompanyName:  "Acme",
		WebsiteURL:   "https://acme.com",
		Outreach:     testDraft(),
		OutboundSent: true,
		InboundSent:  true,
		Services:     []string{"Organic SEO"},
	}
	_, err := c.Commit(in)
	require.NoError(t, err)
	_, err = c.Commit(in)
	require.NoError(t, err)

	var users, profiles, prospects, entries int64
	db.Model(&models.User{}).Count(&users)
	db.Model(&models.ClientProfile{}).Count(&profiles)
	db.Model(&models.Prospect{}).Count(&prospects)
	db.Model(&models.EmailLog{}).Count(&entries)

	assert.Equal(t, int64(1), users)
	assert.Equal(t, int64(1), profiles)
	assert.Equal(t, int64(1), prospects)
	// The ledger is append-only: every commit adds an entry.
	assert.Equal(t, int64(2), entries)
}

func TestCommitEmptyServicesNeverBlankExisting(t *testing.T) {
	db := setupTestDB(t)
	c := NewCoordinator(db, "sender@agency.com")

	in := CommitInput{
		AccountEmail: "owner@acme.com",
		CompanyName:  "Acme",
		WebsiteURL:   "https://acme.com",
		Outreach:     testDraft(),
		OutboundSent: true,
		Services:     []string{"Organic SEO", "Local SEO"},
	}
	_, err := c.Commit(in)
	require.NoError(t, err)

	in.Services = nil
	in.OutboundSent = false
	result, err := c.Commit(in)
	require.NoError(t, err)

	var profile models.ClientProfile
	require.NoError(t, db.First(&profile, result.ProfileID).Error)
	// Flags follow the latest outcome; the service list survives.
	assert.False(t, profile.OutboundEmailSent)
	assert.Equal(t, "Organic SEO, Local SEO", profile.RecommendedServices)

	var prospect models.Prospect
	require.NoError(t, db.Where("website_url = ?", "https://acme.com").First(&prospect).Error)
	assert.Equal(t, "Organic SEO, Local SEO", prospect.RecommendedServices)
}

func TestCommitBestEffortFailuresDoNotAbort(t *testing.T) {
	db := setupTestDB(t)
	c := NewCoordinator(db, "sender@agency.com")

	// Sabotage both history tables: the archive and audit writes must
	// degrade to recorded inconsistencies, never to a commit failure.
	require.NoError(t, db.Migrator().DropTable(&models.SentEmail{}))
	require.NoError(t, db.Migrator().DropTable(&models.ActivityLog{}))

	result, err := c.Commit(CommitInput{
		AccountEmail: "owner@acme.com",
		CompanyName:  "Acme",
		WebsiteURL:   "https://acme.com",
		Outreach:     testDraft(),
		OutboundSent: true,
		Services:     []string{"Organic SEO"},
	})
	require.NoError(t, err)
	require.NotNil(t, result)

	require.Len(t, result.Inconsistencies, 2)
	assert.Contains(t, result.Inconsistencies[0], "sent email archive")
	assert.Contains(t, result.Inconsistencies[1], "activity log")

	// The critical writes all landed.
	var user models.User
	require.NoError(t, db.Where("email = ?", "owner@acme.com").First(&user).Error)
	var profile models.ClientProfile
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&profile).Error)
	assert.Equal(t, result.ProfileID, profile.ID)

	var prospect models.Prospect
	require.NoError(t, db.Where("website_url = ?", "https://acme.com").First(&prospect).Error)
	assert.True(t, prospect.EmailSentStatus)

	var entries int64
	require.NoError(t, db.Model(&models.EmailLog{}).Where("prospect_id = ?", prospect.ID).Count(&entries).Error)
	assert.Equal(t, int64(1), entries)
}

func TestCommitCriticalFailureIsFatal(t *testing.T) {
	db := setupTestDB(t)
	c := NewCoordinator(db, "sender@agency.com")

	require.NoError(t, db.Migrator().DropTable(&models.EmailLog{}))

	_, err := c.Commit(CommitInput{
		AccountEmail: "owner@acme.com",
		CompanyName:  "Acme",
		WebsiteURL:   "https://acme.com",
		Outreach:     testDraft(),
		OutboundSent: true,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPersistenceFailed)
}

func TestCommitNeverUnrecordsProspectSend(t *testing.T) {
	db := setupTestDB(t)
	c := NewCoordinator(db, "sender@agency.com")

	in := CommitInput{
		AccountEmail: "owner@acme.com",
		CompanyName:  "Acme",
		WebsiteURL:   "https://acme.com",
		Outreach:     testDraft(),
		OutboundSent: true,
	}
	_, err := c.Commit(in)
	require.NoError(t, err)

	// A later commit where the send failed keeps the prospect marked sent,
	// while the profile keeps tracking the latest outcome.
	in.OutboundSent = false
	result, err := c.Commit(in)
	require.NoError(t, err)

	var prospect models.Prospect
	require.NoError(t, db.Where("website_url = ?", "https://acme.com").First(&prospect).Error)
	assert.True(t, prospect.EmailSentStatus)

	var profile models.ClientProfile
	require.NoError(t, db.First(&profile, result.ProfileID).Error)
	assert.False(t, profile.OutboundEmailSent)
}

func TestCommitManualFlagMarksActivity(t *testing.T) {
	db := setupTestDB(t)
	c := NewCoordinator(db, "sender@agency.com")

	_, err := c.Commit(CommitInput{
		AccountEmail: "owner@acme.com",
		CompanyName:  "Acme",
		WebsiteURL:   "https://acme.com",
		Outreach:     testDraft(),
		OutboundSent: true,
		Manual:       true,
	})
	require.NoError(t, err)

	var activity models.ActivityLog
	require.NoError(t, db.First(&activity).Error)
	assert.Contains(t, activity.Content, "[MANUAL]")
}

func TestGatekeeperCheckAgainstLedger(t *testing.T) {
	db := setupTestDB(t)
	g := NewGatekeeper("sender@agency.com", 3)
	now := time.Now().UTC()

	// Fresh URL passes.
	decision, err := g.Check(db, "Fresh-Lead.com", now)
	require.NoError(t, err)
	assert.True(t, decision.Eligible)

	// A contacted prospect is a duplicate regardless of casing or slashes.
	sentAt := now.Add(-30 * time.Minute)
	prospect := models.Prospect{
		ID:              uuid.NewString(),
		CompanyName:     "Acme",
		WebsiteURL:      "https://acme.com",
		EmailSentStatus: true,
	}
	require.NoError(t, db.Create(&prospect).Error)
	require.NoError(t, db.Create(&models.EmailLog{
		ID:          uuid.NewString(),
		ProspectID:  prospect.ID,
		SenderEmail: "sender@agency.com",
		SentAt:      sentAt,
	}).Error)

	decision, err = g.Check(db, "ACME.com/", now)
	require.NoError(t, err)
	require.False(t, decision.Eligible)
	assert.Equal(t, ReasonDuplicateProspect, decision.Reason)
	require.NotNil(t, decision.LastSentAt)
	assert.WithinDuration(t, sentAt, *decision.LastSentAt, time.Second)

	// Fill the sliding window; entries older than an hour do not count.
	for i := 0; i < 2; i++ {
		require.NoError(t, db.Create(&models.EmailLog{
			ID:          uuid.NewString(),
			ProspectID:  prospect.ID,
			SenderEmail: "sender@agency.com",
			SentAt:      now.Add(-time.Duration(i+1) * time.Minute),
		}).Error)
	}
	require.NoError(t, db.Create(&models.EmailLog{
		ID:          uuid.NewString(),
		ProspectID:  prospect.ID,
		SenderEmail: "sender@agency.com",
		SentAt:      now.Add(-2 * time.Hour),
	}).Error)

	decision, err = g.Check(db, fmt.Sprintf("new-lead-%d.com", now.Unix()), now)
	require.NoError(t, err)
	require.False(t, decision.Eligible)
	assert.Equal(t, ReasonRateLimitExceeded, decision.Reason)
	assert.Equal(t, int64(3), decision.EmailsSentLastHour)
}
