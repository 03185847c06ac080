package types

// BrandStrategy is the generated outreach plan for a single brand.
type BrandStrategy struct {
	BrandName      string   `json:"brandName"`
	BrandDomain    string   `json:"brandDomain"`
	PitchAngle     string   `json:"pitchAngle"`
	ContentFormats []string `json:"contentFormats"`
	TalkingPoints  []string `json:"talkingPoints"`
	PitchScript    string   `json:"pitchScript"`
	SubjectLine    string   `json:"subjectLine"`
	EstimatedValue string   `json:"estimatedValue"`
}

// StrategyResult is the full output of one strategy generation.
type StrategyResult struct {
	OverallStrategy string          `json:"overallStrategy"`
	BrandStrategies []BrandStrategy `json:"brandStrategies"`
}

// CreatorSummary is a short LLM-written read of a creator's positioning.
type CreatorSummary struct {
	Summary              string   `json:"summary"`
	Strengths            []string `json:"strengths"`
	AudienceInsight      string   `json:"audienceInsight"`
	IdealBrandCategories []string `json:"idealBrandCategories"`
}
