package intel

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFetcher struct {
	text string
	err  error
}

func (s *stubFetcher) Fetch(ctx context.Context, url string) (string, error) {
	return s.text, s.err
}

type stubAnalyzer struct {
	info         CompanyIntel
	market       MarketAnalysis
	services     ServiceMatch
	contentErr   error
	knowledgeErr error
}

func (s *stubAnalyzer) AnalyzeContent(ctx context.Context, pageText string) (CompanyIntel, error) {
	return s.info, s.contentErr
}

func (s *stubAnalyzer) AnalyzeMarket(ctx context.Context, pageText, companyName string) (MarketAnalysis, error) {
	return s.market, nil
}

func (s *stubAnalyzer) MatchServices(ctx context.Context, market MarketAnalysis, info CompanyIntel) (ServiceMatch, error) {
	return s.services, nil
}

func (s *stubAnalyzer) AnalyzeCompanyName(ctx context.Context, companyName string) (CompanyIntel, error) {
	return s.info, s.knowledgeErr
}

func (s *stubAnalyzer) AnalyzeDocument(ctx context.Context, data []byte, mimeType string) (DocumentScan, error) {
	return DocumentScan{}, nil
}

func TestDeriveNameFromURL(t *testing.T) {
	cases := map[string]string{
		"https://www.acme-tools.io/about": "Acme Tools",
		"https://example.com":             "Example",
		"serp-hawk.agency":                "Serp Hawk",
		"http://shop.bigco.com":           "Shop",
	}
	for raw, want := range cases {
		assert.Equal(t, want, DeriveNameFromURL(raw), "input %q", raw)
	}
}

func TestGatherPrimaryPathForcesCallerName(t *testing.T) {
	analyzer := &stubAnalyzer{
		info:     CompanyIntel{CompanyName: "Whatever The Model Said"},
		market:   MarketAnalysis{Industry: "Retail"},
		services: ServiceMatch{RecommendedServices: []RecommendedService{{ServiceName: "Organic SEO"}}},
	}
	g := NewGatherer(&stubFetcher{text: "We sell shoes."}, analyzer)

	result, err := g.Gather(context.Background(), "Acme", "https://acme.com")
	require.NoError(t, err)
	assert.Equal(t, "Acme", result.Intel.CompanyName)
	assert.False(t, result.UsedFallback)
	assert.Empty(t, result.ScrapeError)
}

func TestGatherDerivesNameWhenMissing(t *testing.T) {
	analyzer := &stubAnalyzer{market: MarketAnalysis{Industry: "Retail"}}
	g := NewGatherer(&stubFetcher{text: "We sell shoes."}, analyzer)

	result, err := g.Gather(context.Background(), "", "https://acme-tools.io")
	require.NoError(t, err)
	assert.Equal(t, "Acme Tools", result.Intel.CompanyName)
}

func TestGatherFallsBackOnScrapeFailure(t *testing.T) {
	analyzer := &stubAnalyzer{
		info: CompanyIntel{LikelyIndustry: "Hospitality"},
	}
	g := NewGatherer(&stubFetcher{err: errors.New("timeout")}, analyzer)

	result, err := g.Gather(context.Background(), "Acme", "https://acme.com")
	require.NoError(t, err)
	assert.True(t, result.UsedFallback)
	assert.Contains(t, result.ScrapeError, ScrapeErrorPrefix)
	assert.Equal(t, "Hospitality", result.Market.Industry)
	assert.Equal(t, "High", result.Market.GrowthPotential)
	assert.NotNil(t, result.Intel.Contacts)
}

func TestGatherFallsBackOnErrorMarkerContent(t *testing.T) {
	analyzer := &stubAnalyzer{info: CompanyIntel{}}
	g := NewGatherer(&stubFetcher{text: ScrapeErrorPrefix + ": net::ERR_NAME_NOT_RESOLVED"}, analyzer)

	result, err := g.Gather(context.Background(), "Acme", "https://acme.com")
	require.NoError(t, err)
	assert.True(t, result.UsedFallback)
}

func TestGatherFallbackServicesNeverEmpty(t *testing.T) {
	analyzer := &stubAnalyzer{info: CompanyIntel{}}
	g := NewGatherer(&stubFetcher{err: errors.New("down")}, analyzer)

	result, err := g.Gather(context.Background(), "Acme", "https://acme.com")
	require.NoError(t, err)

	services := result.Services.RecommendedServices
	require.Len(t, services, 2)
	assert.Equal(t, "Organic SEO", services[0].ServiceName)
	assert.Equal(t, "Local SEO", services[1].ServiceName)
}

func TestGatherFallbackCapsGrowthOpportunities(t *testing.T) {
	analyzer := &stubAnalyzer{info: CompanyIntel{
		LikelyIndustry:      "Retail",
		GrowthOpportunities: []string{"SEO", "Ads", "Content", "Email", "Social"},
	}}
	g := NewGatherer(&stubFetcher{err: errors.New("down")}, analyzer)

	result, err := g.Gather(context.Background(), "Acme", "https://acme.com")
	require.NoError(t, err)
	assert.Len(t, result.Services.RecommendedServices, 3)
	assert.Equal(t, []string{"SEO", "Ads", "Content"}, result.Services.ServiceNames())
}

func TestGatherTotalFailure(t *testing.T) {
	analyzer := &stubAnalyzer{knowledgeErr: errors.New("quota exceeded")}
	g := NewGatherer(&stubFetcher{err: errors.New("down")}, analyzer)

	_, err := g.Gather(context.Background(), "Acme", "https://acme.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Acme")
}

func TestGatherNoFetcherUsesFallback(t *testing.T) {
	analyzer := &stubAnalyzer{info: CompanyIntel{}}
	g := NewGatherer(nil, analyzer)

	result, err := g.Gather(context.Background(), "Acme", "https://acme.com")
	require.NoError(t, err)
	assert.True(t, result.UsedFallback)
}
