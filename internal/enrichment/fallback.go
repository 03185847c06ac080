package enrichment

import "github.com/jonathan/creator-pitch/internal/types"

// FallbackResult returns the built-in demo dataset for handle. Each call
// returns fresh slices.
func FallbackResult(handle string) types.EnrichmentResult {
	return types.EnrichmentResult{
		Creator: types.CreatorProfile{
			Handle:    handle,
			Followers: "127K",
			Niche:     "Fitness & Wellness",
			AvgViews:  "45K",
			TopContentThemes: []string{
				"Workout routines",
				"Healthy recipes",
				"Morning rituals",
			},
		},
		Brands: []types.BrandMatch{
			{
				Name:        "Alo Yoga",
				Domain:      "aloyoga.com",
				Industry:    "Athletic Wear",
				Description: "Premium yoga and athleisure brand targeting mindful fitness enthusiasts.",
				Funding:     "Series C — $100M (2024)",
				Headcount:   "500–1,000",
				RecentNews:  "Expanding DTC influencer program",
				FitScore:    92,
				FitReason:   "High overlap between your fitness audience and Alo's target demographic. They're actively scaling their creator program and your workout content style matches their brand aesthetic.",
			},
			{
				Name:        "AG1 (Athletic Greens)",
				Domain:      "drinkag1.com",
				Industry:    "Health Supplements",
				Description: "Daily nutritional supplement with strong creator marketing presence.",
				Funding:     "Series D — $115M (2023)",
				Headcount:   "200–500",
				RecentNews:  "Hiring 3 influencer marketing managers",
				FitScore:    88,
				FitReason:   "AG1 is one of the top spenders on influencer marketing in health/wellness. Your healthy recipe content provides a natural product integration point.",
			},
			{
				Name:        "Hyperice",
				Domain:      "hyperice.com",
				Industry:    "Recovery Tech",
				Description: "High-performance recovery devices for athletes and fitness enthusiasts.",
				Funding:     "Series B — $48M (2023)",
				Headcount:   "100–200",
				RecentNews:  "Launched new consumer product line",
				FitScore:    81,
				FitReason:   "Your workout content audience cares about recovery. Hyperice is expanding from pro sports into the creator/enthusiast market, and your niche fits their go-to-market.",
			},
			{
				Name:        "Bloom Nutrition",
				Domain:      "bloomnu.com",
				Industry:    "Supplements / DTC",
				Description: "Gen-Z focused greens and supplement brand built on TikTok virality.",
				Funding:     "Bootstrapped — $100M+ revenue",
				Headcount:   "50–100",
				RecentNews:  "TikTok Shop top seller, expanding ambassador program",
				FitScore:    85,
				FitReason:   "Bloom is native to TikTok and actively recruits fitness creators with 50K–200K followers. Your audience size and content style are a direct match.",
			},
			{
				Name:        "Vuori",
				Domain:      "vuoriclothing.com",
				Industry:    "Performance Apparel",
				Description: "Premium performance apparel for an active lifestyle.",
				Funding:     "SoftBank investment at $4B valuation (2021)",
				Headcount:   "1,000+",
				RecentNews:  "Scaling influencer partnerships for 2025",
				FitScore:    76,
				FitReason:   "Vuori targets active lifestyle consumers and is increasing influencer spend. Your content aligns with their brand, though competition for partnerships is higher.",
			},
		},
	}
}
