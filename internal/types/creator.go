// Package types provides type definitions for structured data used throughout the creator-pitch system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// CreatorProfile is the canonical creator record produced by enrichment.
// Followers and AvgViews are display strings ("127K") and are not guaranteed numeric.
type CreatorProfile struct {
	Handle           string   `json:"handle"`
	Followers        string   `json:"followers"`
	Niche            string   `json:"niche"`
	AvgViews         string   `json:"avgViews"`
	TopContentThemes []string `json:"topContentThemes"`

	// Optional enrichment fields, populated when the provider returns them.
	Fullname                     string           `json:"fullname,omitempty"`
	Picture                      string           `json:"picture,omitempty"`
	Bio                          string           `json:"bio,omitempty"`
	Email                        string           `json:"email,omitempty"`
	EngagementRate               *float64         `json:"engagementRate,omitempty"`
	AvgLikes                     *float64         `json:"avgLikes,omitempty"`
	AvgComments                  *float64         `json:"avgComments,omitempty"`
	TotalLikes                   *float64         `json:"totalLikes,omitempty"`
	PostsCount                   *float64         `json:"postsCount,omitempty"`
	Gender                       string           `json:"gender,omitempty"`
	Country                      string           `json:"country,omitempty"`
	City                         string           `json:"city,omitempty"`
	AgeGroup                     string           `json:"ageGroup,omitempty"`
	IsVerified                   *bool            `json:"isVerified,omitempty"`
	Contacts                     []Contact        `json:"contacts,omitempty"`
	PaidPostPerformance          *float64         `json:"paidPostPerformance,omitempty"`
	SponsoredPostsMedianViews    *float64         `json:"sponsoredPostsMedianViews,omitempty"`
	NonSponsoredPostsMedianViews *float64         `json:"nonSponsoredPostsMedianViews,omitempty"`
	Hashtags                     []Hashtag        `json:"hashtags,omitempty"`
	AudienceGenders              []AudienceBucket `json:"audienceGenders,omitempty"`
	AudienceAges                 []AudienceBucket `json:"audienceAges,omitempty"`
	AudienceCountries            []AudienceBucket `json:"audienceCountries,omitempty"`
	AudienceLanguages            []AudienceBucket `json:"audienceLanguages,omitempty"`
}

// AudienceBucket is one weighted category of an audience breakdown.
// Weights across a breakdown sum informally to 1.0.
type AudienceBucket struct {
	Code   string  `json:"code"`
	Name   string  `json:"name,omitempty"`
	Weight float64 `json:"weight"`
}

// Contact is a typed contact channel (email, instagram, ...).
type Contact struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// Hashtag is a weighted hashtag from the creator's recent posts.
type Hashtag struct {
	Tag    string  `json:"tag"`
	Weight float64 `json:"weight"`
}
