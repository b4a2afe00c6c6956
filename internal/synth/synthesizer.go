package synth

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"outreach-crm/internal/intel"
)

// DraftType selects the prompt framing for a generated email.
type DraftType string

const (
	// DraftOutreach is the agency offering its services.
	DraftOutreach DraftType = "outreach"
	// DraftInbound is the agency posing as an interested inquirer.
	DraftInbound DraftType = "inbound"
)

const signature = "Warm regards,\nTeam DaPros from Mexico | SERP Hawk Digital Agency"

// Draft is a bilingual subject/body pair. When generation fails both
// bodies carry the identical error marker and ErrMessage is set; callers
// treat such a draft as non-fatal and continue.
type Draft struct {
	Type        DraftType `json:"type"`
	Subject     string    `json:"subject"`
	EnglishBody string    `json:"english_body"`
	SpanishBody string    `json:"spanish_body"`
	ErrMessage  string    `json:"error,omitempty"`
}

func (d Draft) Failed() bool {
	return d.ErrMessage != ""
}

// Body is the concatenation of both language paragraphs, computed
// locally to keep the external contract minimal.
func (d Draft) Body() string {
	return d.EnglishBody + "\n\n" + d.SpanishBody
}

// HTML wraps each paragraph for mail clients that want markup.
func (d Draft) HTML() string {
	return fmt.Sprintf("<p>%s</p><p>%s</p>", d.EnglishBody, d.SpanishBody)
}

// Synthesizer turns gathered intelligence into bilingual email drafts.
type Synthesizer struct {
	LLM intel.LLM
}

func NewSynthesizer(llm intel.LLM) *Synthesizer {
	return &Synthesizer{LLM: llm}
}

const copywriterSystem = "You are a professional bilingual email copywriter for SERP Hawk. Return only valid JSON with the exact fields specified."

// Synthesize generates one draft for the given contact (nil for a generic
// team salutation). Collaborator failure never propagates: the returned
// draft carries a visible error marker instead.
func (s *Synthesizer) Synthesize(ctx context.Context, result *intel.Result, contact *intel.Contact, draftType DraftType) Draft {
	companyName := result.Intel.CompanyName
	if companyName == "" {
		companyName = "your company"
	}
	industry := result.Market.Industry
	if industry == "" {
		industry = "your industry"
	}

	services := result.Services.RecommendedServices
	if len(services) > 3 {
		services = services[:3]
	}

	serviceList := "growth and digital marketing"
	if len(services) > 0 {
		names := make([]string, 0, len(services))
		for _, svc := range services {
			names = append(names, svc.ServiceName)
		}
		serviceList = strings.Join(names, ", ")
	}

	salutation := fmt.Sprintf("Hi %s Team,", companyName)
	if contact != nil && contact.Name != "" {
		salutation = fmt.Sprintf("Hi %s,", strings.Fields(contact.Name)[0])
	}

	var prompt string
	if draftType == DraftInbound {
		prompt = inboundPrompt(companyName, industry, salutation)
	} else {
		prompt = outreachPrompt(companyName, industry, salutation, serviceList, services)
	}

	raw, err := s.LLM.GenerateJSON(ctx, copywriterSystem, prompt)
	if err != nil {
		return errorDraft(draftType, companyName, err)
	}

	var parsed struct {
		Subject     string `json:"subject"`
		EnglishBody string `json:"english_body"`
		SpanishBody string `json:"spanish_body"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return errorDraft(draftType, companyName, fmt.Errorf("invalid draft response: %w", err))
	}
	if parsed.EnglishBody == "" || parsed.SpanishBody == "" {
		return errorDraft(draftType, companyName, fmt.Errorf("model returned incomplete draft"))
	}

	subject := parsed.Subject
	if subject == "" {
		subject = fmt.Sprintf("Growth Partnership with %s", companyName)
	}

	return Draft{
		Type:        draftType,
		Subject:     subject,
		EnglishBody: parsed.EnglishBody,
		SpanishBody: parsed.SpanishBody,
	}
}

func errorDraft(draftType DraftType, companyName string, err error) Draft {
	log.Printf("Error generating %s draft for %s: %v", draftType, companyName, err)
	marker := fmt.Sprintf("Could not generate email: %v", err)
	return Draft{
		Type:        draftType,
		Subject:     fmt.Sprintf("Growth for %s", companyName),
		EnglishBody: marker,
		SpanishBody: marker,
		ErrMessage:  err.Error(),
	}
}

func outreachPrompt(companyName, industry, salutation, serviceList string, services []intel.RecommendedService) string {
	serviceDetails := "- Organic SEO: Improve search rankings and qualified traffic\n- Local SEO: Capture local market dominance"
	if len(services) > 0 {
		lines := make([]string, 0, len(services))
		for _, svc := range services {
			lines = append(lines, fmt.Sprintf("- %s: %s (Expected: %s)", svc.ServiceName, svc.WhyRelevant, svc.ExpectedImpact))
		}
		serviceDetails = strings.Join(lines, "\n")
	}

	return fmt.Sprintf(`You are an expert B2B sales email writer for SERP Hawk, a full-service digital marketing agency, represented by Team DaPros from Mexico.

Write a highly detailed, personalized, and persuasive cold outreach email to %[1]s in the %[2]s industry.

Salutation: %[3]s

About SERP Hawk:
SERP Hawk is a digital growth agency specializing in helping businesses rank higher on search engines, acquire more customers, and grow their online revenue. Our core services include Organic SEO, Local SEO, Google Ads Management, Content Marketing, and Conversion Rate Optimization.

Recommended services for %[1]s:
%[4]s

The email MUST follow this structure with exactly TWO paragraphs:
- Paragraph 1 (ENGLISH):
  * Open with a compelling observation about %[1]s's specific situation in the %[2]s space.
  * Clearly explain what SERP Hawk does and WHY it matters for their goals (drive traffic, conversions, revenue).
  * Describe the specific recommended services (%[5]s) and the measurable impact they can expect.
  * Include a clear, low-friction call to action (e.g., "I'd love to set up a free 15-minute discovery call this week - would that work for you?").
  * Close with: "%[6]s"
- Paragraph 2: The EXACT SAME message translated to SPANISH.

Be conversational, confident, and specific - not generic.

Return ONLY a JSON object with these fields:
{
    "subject": "Compelling subject line in English (make it specific and benefit-focused)",
    "english_body": "Full detailed paragraph in English WITH the signature (plain text, no HTML tags)",
    "spanish_body": "Full detailed paragraph in Spanish WITH the Spanish signature (plain text, no HTML tags)"
}`, companyName, industry, salutation, serviceDetails, serviceList, signature)
}

func inboundPrompt(companyName, industry, salutation string) string {
	return fmt.Sprintf(`You are a professional bilingual email copywriter for SERP Hawk, represented by Team DaPros from Mexico.

Write a professional inquiry email expressing interest in %[1]s's services in the %[2]s sector.

Salutation: %[3]s

The email MUST have exactly TWO paragraphs:
- Paragraph 1: In ENGLISH. Open with genuine interest in their work. Mention a specific aspect of their business that makes them a great potential partner or client. Ask about their current challenges in a thoughtful way. Close with a clear call to action (e.g., schedule a discovery call).
- Paragraph 2: The EXACT SAME message translated to SPANISH.

End the email with:
"%[4]s"

Return ONLY a JSON object with these fields:
{
    "subject": "Subject line in English",
    "english_body": "Full paragraph 1 in English WITH the signature (plain text, no HTML tags)",
    "spanish_body": "Full paragraph 2 in Spanish WITH the Spanish signature (plain text, no HTML tags)"
}`, companyName, industry, salutation, signature)
}
