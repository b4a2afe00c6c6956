package intel

import (
	"context"
	"encoding/json"
	"fmt"
)

// Analyzer is the analysis-service boundary: every untyped model response
// is decoded and defaulted here, so callers only ever see the strict schema.
type Analyzer interface {
	AnalyzeContent(ctx context.Context, pageText string) (CompanyIntel, error)
	AnalyzeMarket(ctx context.Context, pageText, companyName string) (MarketAnalysis, error)
	MatchServices(ctx context.Context, market MarketAnalysis, info CompanyIntel) (ServiceMatch, error)
	AnalyzeCompanyName(ctx context.Context, companyName string) (CompanyIntel, error)
	AnalyzeDocument(ctx context.Context, data []byte, mimeType string) (DocumentScan, error)
}

type llmAnalyzer struct {
	llm LLM
}

// NewAnalyzer returns an Analyzer backed by the given language model.
func NewAnalyzer(llm LLM) Analyzer {
	return &llmAnalyzer{llm: llm}
}

const analystSystem = "You are a business intelligence expert. Return accurate, specific company analysis in valid JSON only."

func (a *llmAnalyzer) AnalyzeContent(ctx context.Context, pageText string) (CompanyIntel, error) {
	prompt := fmt.Sprintf(`Analyze the following website content and describe the company behind it.

Return a JSON object with these exact fields:
{
    "company_name": "The company name as presented on the site",
    "summary": "3-5 sentence description of what the company does and its market position",
    "what_they_do": "Concise 1-sentence description of their core business",
    "likely_industry": "Specific industry",
    "sub_category": "More specific sub-category",
    "business_model": "B2C / B2B / Marketplace / SaaS / etc.",
    "key_products_services": ["their key products or services (3-6 items)"],
    "target_market": "Who their customers are",
    "estimated_size": "Startup / SMB / Mid-Market / Enterprise",
    "geographic_presence": "Local / National / International",
    "common_pain_points": ["3-4 growth challenges digital marketing can solve for them"],
    "growth_opportunities": ["2-3 specific growth areas"],
    "contacts": [{"name": "...", "email": "...", "role": "..."}]
}
Include in "contacts" only people or addresses actually present in the content.

Website content:
%s`, truncate(pageText, 12000))

	raw, err := a.llm.GenerateJSON(ctx, analystSystem, prompt)
	if err != nil {
		return CompanyIntel{}, err
	}
	return decodeIntel(raw, "")
}

func (a *llmAnalyzer) AnalyzeMarket(ctx context.Context, pageText, companyName string) (MarketAnalysis, error) {
	prompt := fmt.Sprintf(`Analyze the market position of "%s" based on their website content.

Return a JSON object with these exact fields:
{
    "industry": "Specific industry",
    "sub_category": "Sub-category",
    "business_model": "B2C / B2B / Marketplace / SaaS / etc.",
    "pain_points": ["3-4 market challenges they likely face"],
    "growth_potential": "Low / Medium / High",
    "seo_status": "One-line assessment of their current online visibility"
}

Website content:
%s`, companyName, truncate(pageText, 12000))

	raw, err := a.llm.GenerateJSON(ctx, analystSystem, prompt)
	if err != nil {
		return MarketAnalysis{}, err
	}

	var market MarketAnalysis
	if err := json.Unmarshal(raw, &market); err != nil {
		return MarketAnalysis{}, fmt.Errorf("invalid market analysis response: %w", err)
	}
	applyMarketDefaults(&market)
	return market, nil
}

func (a *llmAnalyzer) MatchServices(ctx context.Context, market MarketAnalysis, info CompanyIntel) (ServiceMatch, error) {
	painPoints, _ := json.Marshal(market.PainPoints)
	prompt := fmt.Sprintf(`You match digital marketing agency services to prospects.

The agency offers: Organic SEO, Local SEO, Google Ads Management, Content Marketing, Conversion Rate Optimization, Web Design, Social Media Marketing.

Prospect: %s
Industry: %s (%s)
Business model: %s
Pain points: %s
Summary: %s

Pick the 2-3 services with the highest expected impact for this prospect.

Return a JSON object with these exact fields:
{
    "recommended_services": [
        {"service_name": "...", "why_relevant": "...", "expected_impact": "..."}
    ],
    "email_hook": "One-line hook for an outreach email",
    "package_suggestion": "Starter / Growth / Enterprise"
}`, info.CompanyName, market.Industry, market.SubCategory, market.BusinessModel, painPoints, info.Summary)

	raw, err := a.llm.GenerateJSON(ctx, analystSystem, prompt)
	if err != nil {
		return ServiceMatch{}, err
	}

	var match ServiceMatch
	if err := json.Unmarshal(raw, &match); err != nil {
		return ServiceMatch{}, fmt.Errorf("invalid service match response: %w", err)
	}
	return match, nil
}

func (a *llmAnalyzer) AnalyzeCompanyName(ctx context.Context, companyName string) (CompanyIntel, error) {
	prompt := fmt.Sprintf(`You are a business intelligence researcher with deep knowledge of companies worldwide.

Analyze the company: "%s"

Use your knowledge about this company to return highly accurate, specific details.
DO NOT make up data. If the company is well-known, use your actual knowledge of
their real products, services, and business model.

Return a JSON object with these exact fields:
{
    "company_name": "The real, properly-formatted company name",
    "summary": "3-5 sentence description of what the company actually does, their market position, and key differentiators",
    "what_they_do": "Concise 1-sentence description of their core business",
    "likely_industry": "Specific industry",
    "sub_category": "More specific sub-category",
    "business_model": "B2C / B2B / Marketplace / SaaS / etc.",
    "key_products_services": ["their actual key products or services (3-6 items)"],
    "target_market": "Who their customers are",
    "estimated_size": "Startup / SMB / Mid-Market / Enterprise / Large Corporation",
    "geographic_presence": "Local / National / International",
    "common_pain_points": ["3-4 growth challenges this type of company typically faces that SEO / digital marketing can solve"],
    "growth_opportunities": ["2-3 specific areas where SEO and digital services could help them grow"],
    "contacts": []
}

Be specific and accurate.`, companyName)

	raw, err := a.llm.GenerateJSON(ctx, analystSystem, prompt)
	if err != nil {
		return CompanyIntel{}, err
	}
	return decodeIntel(raw, companyName)
}

func (a *llmAnalyzer) AnalyzeDocument(ctx context.Context, data []byte, mimeType string) (DocumentScan, error) {
	prompt := `Extract the text from this document image.

Return a JSON object with these exact fields:
{
    "text": "All readable text from the document",
    "summary": "1-2 sentence summary of what the document is",
    "fields": {"key structured fields found, e.g. name, phone, email, company": "value"}
}`

	raw, err := a.llm.GenerateJSONFromImage(ctx, data, mimeType, prompt)
	if err != nil {
		return DocumentScan{}, err
	}

	var scan DocumentScan
	if err := json.Unmarshal(raw, &scan); err != nil {
		return DocumentScan{}, fmt.Errorf("invalid document scan response: %w", err)
	}
	if scan.Fields == nil {
		scan.Fields = map[string]string{}
	}
	return scan, nil
}

// decodeIntel parses a model response into CompanyIntel and fills the
// defaults every downstream consumer relies on.
func decodeIntel(raw []byte, fallbackName string) (CompanyIntel, error) {
	var info CompanyIntel
	if err := json.Unmarshal(raw, &info); err != nil {
		return CompanyIntel{}, fmt.Errorf("invalid company analysis response: %w", err)
	}
	applyIntelDefaults(&info, fallbackName)
	return info, nil
}

func applyIntelDefaults(info *CompanyIntel, fallbackName string) {
	if info.CompanyName == "" {
		info.CompanyName = fallbackName
	}
	if info.Summary == "" && info.CompanyName != "" {
		info.Summary = info.CompanyName + " is a company in the digital space."
	}
	if info.LikelyIndustry == "" {
		info.LikelyIndustry = "General Business"
	}
	if info.BusinessModel == "" {
		info.BusinessModel = "B2B"
	}
	if len(info.CommonPainPoints) == 0 {
		info.CommonPainPoints = []string{"Lead Generation", "Online Visibility"}
	}
	if info.Contacts == nil {
		info.Contacts = []Contact{}
	}
}

func applyMarketDefaults(market *MarketAnalysis) {
	if market.Industry == "" {
		market.Industry = "Unknown"
	}
	if market.BusinessModel == "" {
		market.BusinessModel = "B2B"
	}
	if len(market.PainPoints) == 0 {
		market.PainPoints = []string{"Lead Generation", "Online Visibility"}
	}
	if market.GrowthPotential == "" {
		market.GrowthPotential = "High"
	}
	if market.SEOStatus == "" {
		market.SEOStatus = "Needs improvement"
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
