package intel

// Contact is a person discovered during analysis.
type Contact struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// CompanyIntel is the strict intermediate schema for company facts,
// whether derived from scraped content or from model knowledge.
type CompanyIntel struct {
	CompanyName         string    `json:"company_name"`
	Summary             string    `json:"summary"`
	WhatTheyDo          string    `json:"what_they_do"`
	LikelyIndustry      string    `json:"likely_industry"`
	SubCategory         string    `json:"sub_category"`
	BusinessModel       string    `json:"business_model"`
	KeyProductsServices []string  `json:"key_products_services"`
	TargetMarket        string    `json:"target_market"`
	EstimatedSize       string    `json:"estimated_size"`
	GeographicPresence  string    `json:"geographic_presence"`
	CommonPainPoints    []string  `json:"common_pain_points"`
	GrowthOpportunities []string  `json:"growth_opportunities"`
	Contacts            []Contact `json:"contacts"`
}

// MarketAnalysis describes the prospect's market position.
type MarketAnalysis struct {
	Industry        string   `json:"industry"`
	SubCategory     string   `json:"sub_category"`
	BusinessModel   string   `json:"business_model"`
	PainPoints      []string `json:"pain_points"`
	GrowthPotential string   `json:"growth_potential"`
	SEOStatus       string   `json:"seo_status"`
}

// RecommendedService is one agency service matched to the prospect.
type RecommendedService struct {
	ServiceName    string `json:"service_name"`
	WhyRelevant    string `json:"why_relevant"`
	ExpectedImpact string `json:"expected_impact"`
}

// ServiceMatch is the set of services recommended for a prospect.
type ServiceMatch struct {
	RecommendedServices []RecommendedService `json:"recommended_services"`
	EmailHook           string               `json:"email_hook"`
	PackageSuggestion   string               `json:"package_suggestion"`
}

// ServiceNames returns the recommended service names joined for storage.
func (m ServiceMatch) ServiceNames() []string {
	names := make([]string, 0, len(m.RecommendedServices))
	for _, s := range m.RecommendedServices {
		if s.ServiceName != "" {
			names = append(names, s.ServiceName)
		}
	}
	return names
}

// DocumentScan is the result of OCR analysis on an uploaded document.
type DocumentScan struct {
	Text    string            `json:"text"`
	Summary string            `json:"summary"`
	Fields  map[string]string `json:"fields"`
}

// Result bundles everything the Gatherer produced for one identifier.
type Result struct {
	Intel        CompanyIntel
	Market       MarketAnalysis
	Services     ServiceMatch
	UsedFallback bool
	ScrapeError  string
}
