package outreach

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"outreach-crm/internal/imagecard"
	"outreach-crm/internal/intel"
	"outreach-crm/internal/mailer"
	"outreach-crm/internal/synth"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// ErrGatherFailed means both the primary and the fallback intelligence
// paths failed; the identifier cannot be processed.
var ErrGatherFailed = errors.New("gather failed")

// Stage is a campaign state-machine position.
type Stage string

const (
	StageStart       Stage = "start"
	StageChecked     Stage = "checked"
	StageGathered    Stage = "gathered"
	StageDrafted     Stage = "drafted"
	StageSent        Stage = "sent"
	StageSkippedSend Stage = "skipped_send"
	StagePersisted   Stage = "persisted"
	StageDone        Stage = "done"
	StageAborted     Stage = "aborted"
	StageFailed      Stage = "failed"
)

// Notifier receives stage transitions for live progress display.
type Notifier interface {
	CampaignEvent(url string, stage Stage, detail string)
}

// ContactDrafts is the outreach/inbound pair generated for one contact.
type ContactDrafts struct {
	ToEmail       string      `json:"to_email"`
	RecipientName string      `json:"recipient_name"`
	Role          string      `json:"role"`
	Outreach      synth.Draft `json:"outreach"`
	Inbound       synth.Draft `json:"inbound"`
}

// CampaignResult is the structured per-identifier outcome of a campaign run.
type CampaignResult struct {
	URL                 string          `json:"url"`
	Stage               Stage           `json:"stage"`
	Decision            *Decision       `json:"decision,omitempty"`
	CompanyName         string          `json:"company_name,omitempty"`
	Summary             string          `json:"what_they_do,omitempty"`
	Contacts            []intel.Contact `json:"contacts,omitempty"`
	Emails              []ContactDrafts `json:"emails,omitempty"`
	RecommendedServices string          `json:"recommended_services,omitempty"`
	OutboundSent        bool            `json:"outbound_sent"`
	InboundSent         bool            `json:"inbound_sent"`
	ProfileID           uint            `json:"profile_id,omitempty"`
	ImageURL            string          `json:"image_url,omitempty"`
	UsedFallback        bool            `json:"used_fallback"`
	ScrapeError         string          `json:"scrape_error,omitempty"`
	Error               string          `json:"error,omitempty"`
}

// LeadDraft is the eligibility-checked single draft returned to the UI
// before any send happens.
type LeadDraft struct {
	Subject             string `json:"subject"`
	Body                string `json:"body"`
	EnglishBody         string `json:"english_body"`
	SpanishBody         string `json:"spanish_body"`
	CompanyName         string `json:"company_name"`
	WebsiteURL          string `json:"website_url"`
	PrimaryEmail        string `json:"primary_email"`
	RecommendedServices string `json:"recommended_services"`
}

// SendInput carries a client-approved draft pair into sendAndRecord.
type SendInput struct {
	AccountEmail string
	CompanyName  string
	WebsiteURL   string
	Outreach     synth.Draft
	Inbound      synth.Draft
	Services     []string
	Manual       bool
}

// SendOutcome reports what sendAndRecord actually did.
type SendOutcome struct {
	OutboundSent bool `json:"outbound_sent"`
	InboundSent  bool `json:"inbound_sent"`
	ProfileID    uint `json:"client_id"`
}

// Orchestrator sequences gatekeeper, gatherer, synthesizer, transport and
// persistence for each prospect, converting every stage failure into a
// structured per-identifier result.
type Orchestrator struct {
	DB             *gorm.DB
	Gatekeeper     *Gatekeeper
	Gatherer       *intel.Gatherer
	Synthesizer    *synth.Synthesizer
	Mailer         mailer.Sender
	Coordinator    *Coordinator
	Renderer       *imagecard.Renderer
	Notifier       Notifier
	HasCredentials bool
	MaxConcurrent  int
}

func (o *Orchestrator) notify(url string, stage Stage, detail string) {
	if o.Notifier != nil {
		o.Notifier.CampaignEvent(url, stage, detail)
	}
}

// CheckEligibility runs the gatekeeper only. Read-only.
func (o *Orchestrator) CheckEligibility(rawURL string) (Decision, error) {
	return o.Gatekeeper.Check(o.DB, rawURL, time.Now().UTC())
}

// RunCampaign processes identifiers independently on a bounded pool.
// One identifier failing never aborts the batch.
func (o *Orchestrator) RunCampaign(ctx context.Context, urls []string, manual bool) []CampaignResult {
	results := make([]CampaignResult, len(urls))

	g, ctx := errgroup.WithContext(ctx)
	limit := o.MaxConcurrent
	if limit <= 0 {
		limit = 3
	}
	g.SetLimit(limit)

	for i, url := range urls {
		g.Go(func() error {
			results[i] = o.runOne(ctx, url, manual)
			return nil
		})
	}
	g.Wait()

	return results
}

func (o *Orchestrator) runOne(ctx context.Context, rawURL string, manual bool) CampaignResult {
	result := CampaignResult{URL: rawURL, Stage: StageStart}
	o.notify(rawURL, StageStart, "")

	// Start -> Checked: a denial aborts before any side effect.
	decision, err := o.Gatekeeper.Check(o.DB, rawURL, time.Now().UTC())
	if err != nil {
		return o.fail(result, fmt.Errorf("eligibility check: %w", err))
	}
	if !decision.Eligible {
		result.Stage = StageAborted
		result.Decision = &decision
		result.Error = decision.Message
		o.notify(rawURL, StageAborted, decision.Message)
		return result
	}
	result.Stage = StageChecked
	o.notify(rawURL, StageChecked, "")

	// Checked -> Gathered: nothing downstream can run without intel.
	gathered, err := o.Gatherer.Gather(ctx, "", NormalizeURL(rawURL))
	if err != nil {
		return o.fail(result, fmt.Errorf("%w: %v", ErrGatherFailed, err))
	}
	result.Stage = StageGathered
	result.CompanyName = gathered.Intel.CompanyName
	result.Summary = gathered.Intel.Summary
	result.Contacts = gathered.Intel.Contacts
	result.UsedFallback = gathered.UsedFallback
	result.ScrapeError = gathered.ScrapeError
	result.RecommendedServices = strings.Join(gathered.Services.ServiceNames(), ", ")
	o.notify(rawURL, StageGathered, gathered.Intel.CompanyName)

	// Gathered -> Drafted: one pair per contact, or one generic pair.
	// A single contact's drafting failure is recorded inline.
	result.Emails = o.draftAll(ctx, gathered)
	result.Stage = StageDrafted
	o.notify(rawURL, StageDrafted, fmt.Sprintf("%d draft pairs", len(result.Emails)))

	// Drafted -> Sent | SkippedSend.
	accountEmail := firstContactEmail(gathered.Intel.Contacts)
	primary := result.Emails[0]
	simulated := manual || !o.HasCredentials || o.Mailer == nil || accountEmail == ""
	if simulated {
		// Simulated sends keep downstream bookkeeping uniform.
		result.OutboundSent = true
		result.InboundSent = true
		result.Stage = StageSkippedSend
		o.notify(rawURL, StageSkippedSend, "")
	} else {
		result.OutboundSent = o.deliver(accountEmail, primary.Outreach)
		result.InboundSent = o.deliver(accountEmail, primary.Inbound)
		result.Stage = StageSent
		o.notify(rawURL, StageSent, fmt.Sprintf("outbound=%t inbound=%t", result.OutboundSent, result.InboundSent))
	}

	// Sent|SkippedSend -> Persisted. Partial send is a valid, recorded outcome.
	if accountEmail == "" {
		accountEmail = placeholderEmail()
	}
	commit, err := o.Coordinator.Commit(CommitInput{
		AccountEmail: accountEmail,
		CompanyName:  gathered.Intel.CompanyName,
		WebsiteURL:   NormalizeURL(rawURL),
		Outreach:     primary.Outreach,
		OutboundSent: result.OutboundSent,
		InboundSent:  result.InboundSent,
		Services:     gathered.Services.ServiceNames(),
		Manual:       simulated,
	})
	if err != nil {
		return o.fail(result, err)
	}
	result.ProfileID = commit.ProfileID
	result.Stage = StagePersisted
	o.notify(rawURL, StagePersisted, "")

	if o.Renderer != nil {
		if filename, ok := o.Renderer.Render(gathered.Intel.CompanyName, gathered.Services.RecommendedServices); ok {
			result.ImageURL = "/static/generated_images/" + filename
		}
	}

	result.Stage = StageDone
	o.notify(rawURL, StageDone, "")
	return result
}

func (o *Orchestrator) fail(result CampaignResult, err error) CampaignResult {
	log.Printf("Campaign failed for %s at stage %s: %v", result.URL, result.Stage, err)
	result.Stage = StageFailed
	result.Error = err.Error()
	o.notify(result.URL, StageFailed, err.Error())
	return result
}

// draftAll generates the outreach/inbound pair for every known contact,
// or one generic pair when analysis found none.
func (o *Orchestrator) draftAll(ctx context.Context, gathered *intel.Result) []ContactDrafts {
	contacts := gathered.Intel.Contacts
	if len(contacts) == 0 {
		return []ContactDrafts{{
			RecipientName: "General",
			Role:          "N/A",
			Outreach:      o.Synthesizer.Synthesize(ctx, gathered, nil, synth.DraftOutreach),
			Inbound:       o.Synthesizer.Synthesize(ctx, gathered, nil, synth.DraftInbound),
		}}
	}

	drafts := make([]ContactDrafts, 0, len(contacts))
	for _, contact := range contacts {
		drafts = append(drafts, ContactDrafts{
			ToEmail:       contact.Email,
			RecipientName: contact.Name,
			Role:          contact.Role,
			Outreach:      o.Synthesizer.Synthesize(ctx, gathered, &contact, synth.DraftOutreach),
			Inbound:       o.Synthesizer.Synthesize(ctx, gathered, &contact, synth.DraftInbound),
		})
	}
	return drafts
}

func (o *Orchestrator) deliver(to string, draft synth.Draft) bool {
	if draft.Failed() {
		return false
	}
	if err := o.Mailer.Send(to, draft.Subject, draft.HTML(), true); err != nil {
		log.Printf("SMTP Error sending %s draft to %s: %v", draft.Type, to, err)
		return false
	}
	return true
}

// DraftSingle is the eligibility-checked, no-send drafting flow for one
// manually entered lead. A gatekeeper denial returns *DeniedError.
func (o *Orchestrator) DraftSingle(ctx context.Context, companyName, rawURL, primaryEmail string) (*LeadDraft, error) {
	normalized := NormalizeURL(rawURL)

	decision, err := o.Gatekeeper.Check(o.DB, normalized, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("eligibility check: %w", err)
	}
	if !decision.Eligible {
		return nil, &DeniedError{Decision: decision}
	}

	gathered, err := o.Gatherer.Gather(ctx, companyName, normalized)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGatherFailed, err)
	}

	// Prefer an address the analysis actually found on the site.
	finalEmail := firstContactEmail(gathered.Intel.Contacts)
	if finalEmail == "" {
		finalEmail = primaryEmail
	}

	contact := &intel.Contact{Name: companyName, Email: finalEmail, Role: "Decision Maker"}
	draft := o.Synthesizer.Synthesize(ctx, gathered, contact, synth.DraftOutreach)

	return &LeadDraft{
		Subject:             draft.Subject,
		Body:                draft.Body(),
		EnglishBody:         draft.EnglishBody,
		SpanishBody:         draft.SpanishBody,
		CompanyName:         companyName,
		WebsiteURL:          normalized,
		PrimaryEmail:        finalEmail,
		RecommendedServices: strings.Join(gathered.Services.ServiceNames(), ", "),
	}, nil
}

// SendAndRecord sends a client-approved draft pair (unless manual) and
// runs the full persistence sequence.
func (o *Orchestrator) SendAndRecord(ctx context.Context, in SendInput) (*SendOutcome, error) {
	if in.AccountEmail == "" {
		if !in.Manual {
			return nil, fmt.Errorf("target email is required to send emails")
		}
		in.AccountEmail = placeholderEmail()
	}

	outcome := &SendOutcome{}
	if !in.Manual && o.HasCredentials && o.Mailer != nil {
		outcome.OutboundSent = o.deliver(in.AccountEmail, in.Outreach)
		if in.Inbound.EnglishBody != "" || in.Inbound.SpanishBody != "" {
			outcome.InboundSent = o.deliver(in.AccountEmail, in.Inbound)
		}
	} else {
		log.Printf("Manual/Simulated send mode for %s", in.AccountEmail)
		outcome.OutboundSent = true
		outcome.InboundSent = true
	}

	commit, err := o.Coordinator.Commit(CommitInput{
		AccountEmail: in.AccountEmail,
		CompanyName:  in.CompanyName,
		WebsiteURL:   in.WebsiteURL,
		Outreach:     in.Outreach,
		OutboundSent: outcome.OutboundSent,
		InboundSent:  outcome.InboundSent,
		Services:     in.Services,
		Manual:       in.Manual,
	})
	if err != nil {
		return outcome, err
	}
	outcome.ProfileID = commit.ProfileID
	return outcome, nil
}

func firstContactEmail(contacts []intel.Contact) string {
	for _, c := range contacts {
		if strings.Contains(c.Email, "@") {
			return c.Email
		}
	}
	return ""
}

// placeholderEmail satisfies the CRM's email requirement for manually
// logged prospects where no address was discovered.
func placeholderEmail() string {
	return fmt.Sprintf("unknown_contact_%s@placeholder.com", uuid.NewString()[:8])
}
