package synth

import (
	"context"
	"errors"
	"testing"

	"outreach-crm/internal/intel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLLM struct {
	response string
	err      error
	prompts  []string
}

func (s *stubLLM) GenerateJSON(ctx context.Context, system, prompt string) ([]byte, error) {
	s.prompts = append(s.prompts, prompt)
	if s.err != nil {
		return nil, s.err
	}
	return []byte(s.response), nil
}

func (s *stubLLM) GenerateJSONFromImage(ctx context.Context, data []byte, mimeType, prompt string) ([]byte, error) {
	return s.GenerateJSON(ctx, "", prompt)
}

func testResult() *intel.Result {
	return &intel.Result{
		Intel:  intel.CompanyIntel{CompanyName: "Acme"},
		Market: intel.MarketAnalysis{Industry: "Retail"},
		Services: intel.ServiceMatch{RecommendedServices: []intel.RecommendedService{
			{ServiceName: "Organic SEO", WhyRelevant: "visibility", ExpectedImpact: "traffic"},
			{ServiceName: "Local SEO", WhyRelevant: "local reach", ExpectedImpact: "customers"},
			{ServiceName: "Google Ads", WhyRelevant: "fast wins", ExpectedImpact: "leads"},
			{ServiceName: "CRO", WhyRelevant: "conversion", ExpectedImpact: "revenue"},
		}},
	}
}

func TestSynthesizeOutreachDraft(t *testing.T) {
	llm := &stubLLM{response: `{"subject":"Grow Acme","english_body":"English text.","spanish_body":"Texto en espanol."}`}
	s := NewSynthesizer(llm)

	draft := s.Synthesize(context.Background(), testResult(), nil, DraftOutreach)

	require.False(t, draft.Failed())
	assert.Equal(t, DraftOutreach, draft.Type)
	assert.Equal(t, "Grow Acme", draft.Subject)
	assert.Equal(t, "English text.", draft.EnglishBody)
	assert.Equal(t, "Texto en espanol.", draft.SpanishBody)
	assert.Equal(t, "English text.\n\nTexto en espanol.", draft.Body())
	assert.Equal(t, "<p>English text.</p><p>Texto en espanol.</p>", draft.HTML())
}

func TestSynthesizeSalutation(t *testing.T) {
	llm := &stubLLM{response: `{"subject":"S","english_body":"E","spanish_body":"Es"}`}
	s := NewSynthesizer(llm)

	// First name of the contact when one is known.
	contact := &intel.Contact{Name: "Jamie Rivera", Email: "jamie@acme.com"}
	s.Synthesize(context.Background(), testResult(), contact, DraftOutreach)
	require.Len(t, llm.prompts, 1)
	assert.Contains(t, llm.prompts[0], "Hi Jamie,")

	// Generic team salutation otherwise.
	s.Synthesize(context.Background(), testResult(), nil, DraftOutreach)
	require.Len(t, llm.prompts, 2)
	assert.Contains(t, llm.prompts[1], "Hi Acme Team,")
}

func TestSynthesizeCapsServicesAtThree(t *testing.T) {
	llm := &stubLLM{response: `{"subject":"S","english_body":"E","spanish_body":"Es"}`}
	s := NewSynthesizer(llm)

	s.Synthesize(context.Background(), testResult(), nil, DraftOutreach)
	require.Len(t, llm.prompts, 1)
	assert.Contains(t, llm.prompts[0], "Organic SEO, Local SEO, Google Ads")
	assert.NotContains(t, llm.prompts[0], "CRO:")
}

func TestSynthesizeErrorMarkerInBothBodies(t *testing.T) {
	s := NewSynthesizer(&stubLLM{err: errors.New("quota exceeded")})

	draft := s.Synthesize(context.Background(), testResult(), nil, DraftOutreach)

	require.True(t, draft.Failed())
	assert.Equal(t, "quota exceeded", draft.ErrMessage)
	assert.Contains(t, draft.EnglishBody, "Could not generate email")
	assert.Equal(t, draft.EnglishBody, draft.SpanishBody)
	assert.Equal(t, "Growth for Acme", draft.Subject)
}

func TestSynthesizeIncompleteResponseFails(t *testing.T) {
	s := NewSynthesizer(&stubLLM{response: `{"subject":"S","english_body":"E","spanish_body":""}`})

	draft := s.Synthesize(context.Background(), testResult(), nil, DraftOutreach)
	assert.True(t, draft.Failed())
}

func TestSynthesizeDefaultSubject(t *testing.T) {
	s := NewSynthesizer(&stubLLM{response: `{"subject":"","english_body":"E","spanish_body":"Es"}`})

	draft := s.Synthesize(context.Background(), testResult(), nil, DraftOutreach)
	require.False(t, draft.Failed())
	assert.Equal(t, "Growth Partnership with Acme", draft.Subject)
}

func TestSynthesizeInboundPrompt(t *testing.T) {
	llm := &stubLLM{response: `{"subject":"S","english_body":"E","spanish_body":"Es"}`}
	s := NewSynthesizer(llm)

	draft := s.Synthesize(context.Background(), testResult(), nil, DraftInbound)

	require.False(t, draft.Failed())
	assert.Equal(t, DraftInbound, draft.Type)
	require.Len(t, llm.prompts, 1)
	assert.Contains(t, llm.prompts[0], "expressing interest")
	assert.Contains(t, llm.prompts[0], "Acme")
}
