// Package normalize maps the loosely shaped payloads returned by the
// enrichment provider onto the canonical creator and brand records.
package normalize

import (
	"math"

	"github.com/jonathan/creator-pitch/internal/types"
)

// DefaultFitScore is used when a brand row carries no usable score.
const DefaultFitScore = 70

// maxHashtagThemes caps how many hashtags become content themes.
const maxHashtagThemes = 5

// Payload normalizes a raw provider payload. handle wins over any handle
// found in the payload when it is non-empty. Payload never fails: missing or
// malformed fields fall back to their documented defaults.
func Payload(raw map[string]any, handle string) types.EnrichmentResult {
	return types.EnrichmentResult{
		Creator: creator(raw, handle),
		Brands:  Brands(raw),
	}
}

// Brands extracts the brand list from the first of the brands, results or
// rows keys that is present.
func Brands(raw map[string]any) []types.BrandMatch {
	rows := asList(lookup(raw, "brands", "results", "rows"))
	brands := make([]types.BrandMatch, 0, len(rows))
	for _, row := range rows {
		b := asObject(row)
		if b == nil {
			continue
		}
		brands = append(brands, brand(b))
	}
	return brands
}

func brand(b map[string]any) types.BrandMatch {
	return types.BrandMatch{
		Name:        asString(lookup(b, "name", "company_name", "Company"), "Unknown"),
		Domain:      asString(lookup(b, "domain", "website", "Domain"), ""),
		Industry:    asString(lookup(b, "industry", "Industry", "vertical"), ""),
		Description: asString(lookup(b, "description", "Description", "about"), ""),
		Funding:     asString(lookup(b, "funding", "total_funding", "Funding"), "N/A"),
		Headcount:   asString(lookup(b, "headcount", "employee_count", "Headcount"), "N/A"),
		RecentNews:  asString(lookup(b, "recent_news", "recentNews", "news"), "N/A"),
		FitScore:    fitScore(lookup(b, "fit_score", "fitScore", "score")),
		FitReason:   asString(lookup(b, "fit_reason", "fitReason", "reason"), ""),
	}
}

func fitScore(v any) int {
	n := toNumber(v)
	if n == nil {
		return DefaultFitScore
	}
	return int(math.Round(*n))
}

// creator assembles the profile. Precedence is the nested creator object,
// then flat top-level fields, then the provider wrapper and its profile and
// audience sub-objects, then values inferred from hashtags.
func creator(raw map[string]any, handle string) types.CreatorProfile {
	inf := asObject(lookup(raw, "influencer_data", "influencer_details", "influencerDetails"))
	profile := asObject(lookup(inf, "profile"))
	audience := asObject(lookup(inf, "audience"))
	c := asObject(lookup(raw, "creator"))

	tags := hashtags(lookup(inf, "hashtags"))
	contacts := contactList(coalesce(lookup(raw, "contacts"), lookup(inf, "contacts")))

	p := types.CreatorProfile{
		Handle: handleOf(handle, profile, inf),
		Followers: displayCount(coalesce(
			lookup(c, "followers"),
			lookup(raw, "followers"),
			lookup(profile, "followers", "followersCount"),
			lookup(inf, "followers"),
		)),
		AvgViews: displayCount(coalesce(
			lookup(c, "avgViews"),
			lookup(raw, "avg_views"),
			lookup(profile, "averageViews", "avgViews"),
			lookup(inf, "avgViews"),
		)),
		Niche:            niche(c, raw, tags),
		TopContentThemes: themes(c, raw, audience, tags),

		Fullname: asString(coalesce(lookup(c, "fullname"), lookup(profile, "fullname"), lookup(inf, "fullname")), ""),
		Picture:  asString(coalesce(lookup(profile, "picture"), lookup(inf, "picture")), ""),
		Bio:      asString(coalesce(lookup(c, "bio"), lookup(raw, "bio"), lookup(inf, "bio"), lookup(profile, "bio")), ""),
		Email:    asString(coalesce(lookup(raw, "email"), lookup(inf, "email")), contactOfType(contacts, "email")),

		EngagementRate: toNumber(coalesce(lookup(profile, "engagementRate", "engagement_rate"), lookup(inf, "engagementRate"))),
		AvgLikes:       toNumber(coalesce(lookup(raw, "avgLikes"), lookup(inf, "avgLikes"), lookup(profile, "avgLikes"))),
		AvgComments:    toNumber(coalesce(lookup(raw, "avgComments"), lookup(inf, "avgComments"), lookup(profile, "avgComments"))),
		TotalLikes:     toNumber(coalesce(lookup(raw, "totalLikes"), lookup(inf, "totalLikes"), lookup(profile, "totalLikes"))),
		PostsCount:     toNumber(coalesce(lookup(raw, "postsCount"), lookup(inf, "postsCount"), lookup(profile, "postsCount"))),

		Gender:     asString(coalesce(lookup(raw, "gender"), lookup(inf, "gender"), lookup(profile, "gender")), ""),
		Country:    asString(coalesce(lookup(raw, "country"), lookup(inf, "country"), lookup(profile, "country")), ""),
		City:       asString(coalesce(lookup(raw, "city"), lookup(inf, "city"), lookup(profile, "city")), ""),
		AgeGroup:   asString(coalesce(lookup(raw, "ageGroup"), lookup(inf, "ageGroup")), ""),
		IsVerified: asBool(coalesce(lookup(raw, "isVerified"), lookup(inf, "isVerified"), lookup(profile, "isVerified"))),
		Contacts:   contacts,

		PaidPostPerformance:          toNumber(coalesce(lookup(raw, "paidPostPerformance"), lookup(inf, "paidPostPerformance"))),
		SponsoredPostsMedianViews:    toNumber(coalesce(lookup(raw, "sponsoredPostsMedianViews"), lookup(inf, "sponsoredPostsMedianViews"))),
		NonSponsoredPostsMedianViews: toNumber(coalesce(lookup(raw, "nonSponsoredPostsMedianViews"), lookup(inf, "nonSponsoredPostsMedianViews"))),

		AudienceGenders:   buckets(lookup(audience, "genders")),
		AudienceAges:      buckets(lookup(audience, "ages")),
		AudienceCountries: buckets(lookup(audience, "geoCountries")),
		AudienceLanguages: buckets(lookup(audience, "languages")),
	}
	if len(tags) > 0 {
		p.Hashtags = tags
	}
	return p
}

func handleOf(handle string, profile, inf map[string]any) string {
	if handle != "" {
		return handle
	}
	if u := asString(lookup(profile, "username"), ""); u != "" {
		return u
	}
	return asString(lookup(inf, "handle"), "")
}

func niche(c, raw map[string]any, tags []types.Hashtag) string {
	if v := coalesce(lookup(c, "niche"), lookup(raw, "niche")); v != nil {
		return asString(v, "N/A")
	}
	if len(tags) > 0 {
		return tags[0].Tag
	}
	return "N/A"
}

// themes returns the first non-empty of the explicit theme list, the
// top-level themes, audience interest names and the leading hashtags.
func themes(c, raw, audience map[string]any, tags []types.Hashtag) []string {
	if t := stringList(lookup(c, "topContentThemes")); len(t) > 0 {
		return t
	}
	if t := stringList(lookup(raw, "themes")); len(t) > 0 {
		return t
	}
	var interests []string
	for _, item := range asList(lookup(audience, "interests")) {
		if name := asString(lookup(asObject(item), "name"), ""); name != "" {
			interests = append(interests, name)
		}
	}
	if len(interests) > 0 {
		return interests
	}
	out := make([]string, 0, maxHashtagThemes)
	for i, h := range tags {
		if i == maxHashtagThemes {
			break
		}
		out = append(out, h.Tag)
	}
	return out
}

func stringList(v any) []string {
	items := asList(v)
	if len(items) == 0 {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s := asString(item, ""); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func hashtags(v any) []types.Hashtag {
	items := asList(v)
	if len(items) == 0 {
		return nil
	}
	out := make([]types.Hashtag, 0, len(items))
	for _, item := range items {
		m := asObject(item)
		if m == nil {
			continue
		}
		h := types.Hashtag{Tag: asString(lookup(m, "tag"), "")}
		if w := toNumber(lookup(m, "weight")); w != nil {
			h.Weight = *w
		}
		out = append(out, h)
	}
	return out
}

// contactList keeps the list shape of the provider's contacts. A missing
// type becomes "other".
func contactList(v any) []types.Contact {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]types.Contact, 0, len(items))
	for _, item := range items {
		m := asObject(item)
		out = append(out, types.Contact{
			Type:  asString(lookup(m, "type"), "other"),
			Value: asString(lookup(m, "value"), ""),
		})
	}
	return out
}

func contactOfType(contacts []types.Contact, kind string) string {
	for _, c := range contacts {
		if c.Type == kind {
			return c.Value
		}
	}
	return ""
}

func buckets(v any) []types.AudienceBucket {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]types.AudienceBucket, 0, len(items))
	for _, item := range items {
		m := asObject(item)
		if m == nil {
			continue
		}
		b := types.AudienceBucket{
			Code: asString(lookup(m, "code"), ""),
			Name: asString(lookup(m, "name"), ""),
		}
		if w := toNumber(lookup(m, "weight")); w != nil {
			b.Weight = *w
		}
		out = append(out, b)
	}
	return out
}
