package outreach

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"outreach-crm/internal/models"
	"outreach-crm/internal/synth"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrPersistenceFailed marks a failure of a critical write (account,
// profile, prospect or ledger). Best-effort writes (archive, activity)
// failing alone never produce this error.
var ErrPersistenceFailed = errors.New("persistence failed")

// CommitInput is everything the coordinator needs to record a completed
// campaign for one prospect.
type CommitInput struct {
	AccountEmail string
	CompanyName  string
	WebsiteURL   string
	Outreach     synth.Draft
	OutboundSent bool
	InboundSent  bool
	Services     []string
	Manual       bool
}

// CommitResult reports what was written. Inconsistencies lists best-effort
// writes that failed after the critical writes landed.
type CommitResult struct {
	ProfileID       uint
	ProspectID      string
	Inconsistencies []string
}

// Coordinator applies a campaign outcome as idempotent upserts across the
// related entities, critical writes first.
type Coordinator struct {
	DB          *gorm.DB
	SenderEmail string
}

func NewCoordinator(db *gorm.DB, senderEmail string) *Coordinator {
	return &Coordinator{DB: db, SenderEmail: senderEmail}
}

// Commit runs the persistence sequence in strict order: account, profile,
// archive, activity, prospect, ledger. Later steps read identifiers
// produced by earlier ones, so the order is load-bearing.
func (c *Coordinator) Commit(in CommitInput) (*CommitResult, error) {
	servicesStr := strings.Join(in.Services, ", ")

	user, err := c.upsertUser(in.AccountEmail, in.CompanyName)
	if err != nil {
		return nil, fmt.Errorf("%w: account: %v", ErrPersistenceFailed, err)
	}

	profile, err := c.upsertProfile(user, in, servicesStr)
	if err != nil {
		return nil, fmt.Errorf("%w: client profile: %v", ErrPersistenceFailed, err)
	}

	result := &CommitResult{ProfileID: profile.ID}

	// Best-effort: the bilingual archive and the audit trail are history,
	// not inputs to future gatekeeper decisions.
	if err := c.archiveEmail(profile.ID, in); err != nil {
		log.Printf("Persistence inconsistency: sent email archive failed for %s: %v", in.AccountEmail, err)
		result.Inconsistencies = append(result.Inconsistencies, fmt.Sprintf("sent email archive: %v", err))
	}
	if err := c.recordActivity(user.ID, profile.ID, in, servicesStr); err != nil {
		log.Printf("Persistence inconsistency: activity log failed for %s: %v", in.AccountEmail, err)
		result.Inconsistencies = append(result.Inconsistencies, fmt.Sprintf("activity log: %v", err))
	}

	prospect, err := c.upsertProspect(in, servicesStr)
	if err != nil {
		return result, fmt.Errorf("%w: prospect: %v", ErrPersistenceFailed, err)
	}
	result.ProspectID = prospect.ID

	if err := c.appendLedger(prospect.ID, in); err != nil {
		return result, fmt.Errorf("%w: email ledger: %v", ErrPersistenceFailed, err)
	}

	return result, nil
}

func (c *Coordinator) upsertUser(email, companyName string) (*models.User, error) {
	var user models.User
	err := c.DB.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user = models.User{
			Email:    email,
			Password: "password123",
			Name:     companyName,
			Role:     "Client",
		}
		if err := c.DB.Create(&user).Error; err != nil {
			return nil, err
		}
		return &user, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Coordinator) upsertProfile(user *models.User, in CommitInput, servicesStr string) (*models.ClientProfile, error) {
	var profile models.ClientProfile
	err := c.DB.Where("user_id = ?", user.ID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		profile = models.ClientProfile{
			UserID:              user.ID,
			CompanyName:         in.CompanyName,
			WebsiteURL:          in.WebsiteURL,
			Status:              "Active",
			RecommendedServices: servicesStr,
			ServicesOffered:     servicesStr,
			OutboundEmailSent:   in.OutboundSent,
			InboundEmailSent:    in.InboundSent,
		}
		if err := c.DB.Create(&profile).Error; err != nil {
			return nil, err
		}
		return &profile, nil
	}
	if err != nil {
		return nil, err
	}

	// Send flags are overwritten unconditionally; a non-empty service list
	// replaces the old one but an empty list never blanks it out.
	profile.OutboundEmailSent = in.OutboundSent
	profile.InboundEmailSent = in.InboundSent
	if servicesStr != "" {
		profile.RecommendedServices = servicesStr
		profile.ServicesOffered = servicesStr
	}
	if err := c.DB.Save(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (c *Coordinator) archiveEmail(profileID uint, in CommitInput) error {
	record := models.SentEmail{
		ClientID:    profileID,
		ToEmail:     in.AccountEmail,
		Subject:     in.Outreach.Subject,
		EnglishBody: in.Outreach.EnglishBody,
		SpanishBody: in.Outreach.SpanishBody,
		SentAt:      time.Now().UTC(),
	}
	return c.DB.Create(&record).Error
}

func (c *Coordinator) recordActivity(userID, profileID uint, in CommitInput, servicesStr string) error {
	prefix := ""
	if in.Manual {
		prefix = "[MANUAL] "
	}
	activity := models.ActivityLog{
		UserID:   userID,
		ClientID: profileID,
		Action:   "Outreach Campaign",
		Method:   "Email",
		Content:  fmt.Sprintf("%sSent Outreach to %s. Outcome: %t", prefix, in.AccountEmail, in.OutboundSent),
		Details:  fmt.Sprintf("Services: %s", servicesStr),
	}
	return c.DB.Create(&activity).Error
}

func (c *Coordinator) upsertProspect(in CommitInput, servicesStr string) (*models.Prospect, error) {
	normalized := NormalizeURL(in.WebsiteURL)

	var prospect models.Prospect
	query := c.DB.Where("website_url = ?", normalized)
	if normalized == "" {
		query = c.DB.Where("primary_email = ?", in.AccountEmail)
	} else {
		query = c.DB.Where("website_url = ? OR primary_email = ?", normalized, in.AccountEmail)
	}

	err := query.First(&prospect).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		prospect = models.Prospect{
			ID:                  uuid.NewString(),
			CompanyName:         in.CompanyName,
			WebsiteURL:          normalized,
			PrimaryEmail:        in.AccountEmail,
			EmailSender:         c.SenderEmail,
			EmailSentStatus:     in.OutboundSent,
			RecommendedServices: servicesStr,
		}
		if err := c.DB.Create(&prospect).Error; err != nil {
			return nil, err
		}
		return &prospect, nil
	}
	if err != nil {
		return nil, err
	}

	// A recorded send is never un-recorded: the duplicate rule keys off
	// this flag, so a later failed-send commit must not clear it.
	if in.OutboundSent {
		prospect.EmailSentStatus = true
	}
	if servicesStr != "" {
		prospect.RecommendedServices = servicesStr
	}
	if prospect.PrimaryEmail == "" {
		prospect.PrimaryEmail = in.AccountEmail
	}
	if err := c.DB.Save(&prospect).Error; err != nil {
		return nil, err
	}
	return &prospect, nil
}

func (c *Coordinator) appendLedger(prospectID string, in CommitInput) error {
	entry := models.EmailLog{
		ID:          uuid.NewString(),
		ProspectID:  prospectID,
		SenderEmail: c.SenderEmail,
		SentAt:      time.Now().UTC(),
		Subject:     in.Outreach.Subject,
		Content:     in.Outreach.Body(),
	}
	return c.DB.Create(&entry).Error
}
