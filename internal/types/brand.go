package types

// BrandMatch is a brand matched against a creator.
// Domain is the de-facto key within a single result set.
type BrandMatch struct {
	Name        string `json:"name"`
	Domain      string `json:"domain"`
	Industry    string `json:"industry"`
	Description string `json:"description"`
	Funding     string `json:"funding"`
	Headcount   string `json:"headcount"`
	RecentNews  string `json:"recentNews"`
	FitScore    int    `json:"fitScore"`
	FitReason   string `json:"fitReason"`
}

// EnrichmentResult pairs an enriched creator with its brand matches.
type EnrichmentResult struct {
	Creator CreatorProfile `json:"creator"`
	Brands  []BrandMatch   `json:"brands"`
}
