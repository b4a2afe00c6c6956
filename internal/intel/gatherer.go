package intel

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"
)

// ScrapeErrorPrefix marks a fetcher payload that is an error message
// rather than page content.
const ScrapeErrorPrefix = "ERROR SCRAPING"

// Fetcher retrieves page content for a URL. Implementations may return
// an error-marker payload (ScrapeErrorPrefix) instead of a hard error.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Default services used when the knowledge fallback yields no growth
// opportunities, so the synthesizer never sees an empty recommendation list.
var defaultFallbackServices = []RecommendedService{
	{
		ServiceName:    "Organic SEO",
		WhyRelevant:    "Improve online visibility and search rankings",
		ExpectedImpact: "More qualified leads from search",
	},
	{
		ServiceName:    "Local SEO",
		WhyRelevant:    "Dominate local search results",
		ExpectedImpact: "Increased local customer acquisition",
	},
}

// Gatherer turns a company identifier into structured intelligence.
// The primary path analyzes scraped page content; any fetch or analysis
// failure degrades to a knowledge-based fallback keyed by company name.
type Gatherer struct {
	Fetcher  Fetcher
	Analyzer Analyzer
}

func NewGatherer(fetcher Fetcher, analyzer Analyzer) *Gatherer {
	return &Gatherer{Fetcher: fetcher, Analyzer: analyzer}
}

// Gather runs the analysis pipeline for one identifier. companyName may be
// empty for the batch flow, in which case it is derived from the URL host.
// The caller-supplied name always wins over whatever the model extracted.
func (g *Gatherer) Gather(ctx context.Context, companyName, websiteURL string) (*Result, error) {
	if companyName == "" {
		companyName = DeriveNameFromURL(websiteURL)
	}

	pageText, scrapeErr := g.fetchContent(ctx, websiteURL)
	if scrapeErr == "" {
		result, err := g.gatherFromContent(ctx, companyName, pageText)
		if err == nil {
			return result, nil
		}
		log.Printf("Content analysis failed for %s, falling back: %v", websiteURL, err)
		scrapeErr = fmt.Sprintf("%s: %v", ScrapeErrorPrefix, err)
	}

	result, err := g.gatherFromKnowledge(ctx, companyName)
	if err != nil {
		return nil, fmt.Errorf("intelligence gathering failed for %q: %w", companyName, err)
	}
	result.ScrapeError = scrapeErr
	return result, nil
}

// fetchContent returns page text, or a non-empty classification string
// describing why the primary path cannot be used.
func (g *Gatherer) fetchContent(ctx context.Context, websiteURL string) (string, string) {
	if websiteURL == "" {
		return "", "no URL supplied"
	}
	if g.Fetcher == nil {
		return "", "no fetcher configured"
	}

	text, err := g.Fetcher.Fetch(ctx, websiteURL)
	if err != nil {
		return "", fmt.Sprintf("%s: %v", ScrapeErrorPrefix, err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ScrapeErrorPrefix + ": empty page content"
	}
	if strings.Contains(strings.ToUpper(text), ScrapeErrorPrefix) {
		return "", text
	}
	return text, ""
}

func (g *Gatherer) gatherFromContent(ctx context.Context, companyName, pageText string) (*Result, error) {
	info, err := g.Analyzer.AnalyzeContent(ctx, pageText)
	if err != nil {
		return nil, fmt.Errorf("content analysis: %w", err)
	}
	// Force the caller-supplied name so the email generator never falls
	// back to a generic "your company".
	info.CompanyName = companyName

	market, err := g.Analyzer.AnalyzeMarket(ctx, pageText, companyName)
	if err != nil {
		return nil, fmt.Errorf("market analysis: %w", err)
	}

	services, err := g.Analyzer.MatchServices(ctx, market, info)
	if err != nil {
		return nil, fmt.Errorf("service matching: %w", err)
	}

	return &Result{Intel: info, Market: market, Services: services}, nil
}

func (g *Gatherer) gatherFromKnowledge(ctx context.Context, companyName string) (*Result, error) {
	info, err := g.Analyzer.AnalyzeCompanyName(ctx, companyName)
	if err != nil {
		return nil, fmt.Errorf("knowledge analysis: %w", err)
	}
	info.CompanyName = companyName
	if info.Contacts == nil {
		info.Contacts = []Contact{}
	}

	market := MarketAnalysis{
		Industry:        info.LikelyIndustry,
		SubCategory:     info.SubCategory,
		BusinessModel:   info.BusinessModel,
		PainPoints:      info.CommonPainPoints,
		GrowthPotential: "High",
		SEOStatus:       "Needs improvement",
	}
	applyMarketDefaults(&market)

	services := buildFallbackServices(info, companyName)

	return &Result{
		Intel:        info,
		Market:       market,
		Services:     services,
		UsedFallback: true,
	}, nil
}

// buildFallbackServices synthesizes up to 3 recommendations from growth
// opportunity hints, with fixed defaults when the model returned none.
func buildFallbackServices(info CompanyIntel, companyName string) ServiceMatch {
	industry := info.LikelyIndustry
	if industry == "" {
		industry = "industry"
	}

	var recommended []RecommendedService
	for i, opp := range info.GrowthOpportunities {
		if i >= 3 {
			break
		}
		recommended = append(recommended, RecommendedService{
			ServiceName:    opp,
			WhyRelevant:    fmt.Sprintf("Based on %s dynamics and %s's market position", industry, companyName),
			ExpectedImpact: "Increased organic visibility, traffic and qualified leads",
		})
	}
	if len(recommended) == 0 {
		recommended = append(recommended, defaultFallbackServices...)
	}

	return ServiceMatch{
		RecommendedServices: recommended,
		EmailHook:           fmt.Sprintf("Growth opportunities for %s", orDefault(info.LikelyIndustry, "your business")),
		PackageSuggestion:   "Growth",
	}
}

// DeriveNameFromURL produces a readable company name from a URL host,
// e.g. "https://www.acme-tools.io/about" -> "Acme Tools".
func DeriveNameFromURL(rawURL string) string {
	host := rawURL
	if u, err := url.Parse(rawURL); err == nil && u.Host != "" {
		host = u.Host
	} else {
		host = strings.SplitN(strings.TrimPrefix(strings.TrimPrefix(host, "https://"), "http://"), "/", 2)[0]
	}
	host = strings.TrimPrefix(host, "www.")
	name := strings.SplitN(host, ".", 2)[0]
	name = strings.ReplaceAll(name, "-", " ")

	words := strings.Fields(name)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
