package types

import (
	"fmt"
	"strings"
)

// PoweredBy is the fixed branding line every campaign carries.
const PoweredBy = "POWERED BY HSINI MOHAMED"

// Upper bounds on generated items per platform.
const (
	MaxTweets         = 3
	MaxInstagramPosts = 2
)

// CampaignInput is the free-form text the user fills in before generating.
type CampaignInput struct {
	ProductDescription string `json:"productDescription"`
	BrandVoice         string `json:"brandVoice"`
	AuthorName         string `json:"authorName"`
}

// DefaultInput returns the values a fresh form starts with.
func DefaultInput() CampaignInput {
	return CampaignInput{
		ProductDescription: "A productivity app that uses AI to organize your tasks and schedule.",
		BrandVoice:         "Witty, helpful, and slightly futuristic.",
		AuthorName:         "Code Vibe Assistant",
	}
}

// MissingFields returns the JSON names of the fields that are blank.
func (in CampaignInput) MissingFields() []string {
	var missing []string
	if strings.TrimSpace(in.ProductDescription) == "" {
		missing = append(missing, "productDescription")
	}
	if strings.TrimSpace(in.BrandVoice) == "" {
		missing = append(missing, "brandVoice")
	}
	if strings.TrimSpace(in.AuthorName) == "" {
		missing = append(missing, "authorName")
	}
	return missing
}

// Complete reports whether generation may be requested for this input.
func (in CampaignInput) Complete() bool {
	return len(in.MissingFields()) == 0
}

// PlatformSelection holds one flag per supported network.
type PlatformSelection struct {
	Twitter   bool `json:"twitter"`
	Instagram bool `json:"instagram"`
	LinkedIn  bool `json:"linkedin"`
	Facebook  bool `json:"facebook"`
	Quora     bool `json:"quora"`
}

// DefaultPlatforms enables Twitter and Instagram only.
func DefaultPlatforms() PlatformSelection {
	return PlatformSelection{Twitter: true, Instagram: true}
}

// PlatformPatch is a partial update of a PlatformSelection. Nil fields are left untouched.
type PlatformPatch struct {
	Twitter   *bool `json:"twitter"`
	Instagram *bool `json:"instagram"`
	LinkedIn  *bool `json:"linkedin"`
	Facebook  *bool `json:"facebook"`
	Quora     *bool `json:"quora"`
}

// Apply returns p with every non-nil field of the patch applied.
func (patch PlatformPatch) Apply(p PlatformSelection) PlatformSelection {
	if patch.Twitter != nil {
		p.Twitter = *patch.Twitter
	}
	if patch.Instagram != nil {
		p.Instagram = *patch.Instagram
	}
	if patch.LinkedIn != nil {
		p.LinkedIn = *patch.LinkedIn
	}
	if patch.Facebook != nil {
		p.Facebook = *patch.Facebook
	}
	if patch.Quora != nil {
		p.Quora = *patch.Quora
	}
	return p
}

// InstagramPost is one caption plus a brief for the designer.
type InstagramPost struct {
	Caption   string `json:"caption"`
	ImageIdea string `json:"image_idea"`
}

// CampaignResult is the structured content returned by the model.
type CampaignResult struct {
	Author         string          `json:"author"`
	PoweredBy      string          `json:"poweredBy"`
	Tweets         []string        `json:"tweets"`
	InstagramPosts []InstagramPost `json:"instagram_posts"`
	LinkedInPost   string          `json:"linkedin_post"`
	FacebookPost   string          `json:"facebook_post"`
	QuoraAnswer    string          `json:"quora_answer"`
}

// Violations lists every place where r disagrees with the requested platforms
// or exceeds the item bounds. The result itself is never modified.
func (r *CampaignResult) Violations(p PlatformSelection) []string {
	var v []string
	if !p.Twitter && len(r.Tweets) > 0 {
		v = append(v, fmt.Sprintf("tweets: twitter disabled but %d tweets returned", len(r.Tweets)))
	}
	if len(r.Tweets) > MaxTweets {
		v = append(v, fmt.Sprintf("tweets: %d returned, at most %d expected", len(r.Tweets), MaxTweets))
	}
	if p.Twitter && len(r.Tweets) == 0 {
		v = append(v, "tweets: twitter enabled but none returned")
	}
	if !p.Instagram && len(r.InstagramPosts) > 0 {
		v = append(v, fmt.Sprintf("instagram_posts: instagram disabled but %d posts returned", len(r.InstagramPosts)))
	}
	if len(r.InstagramPosts) > MaxInstagramPosts {
		v = append(v, fmt.Sprintf("instagram_posts: %d returned, at most %d expected", len(r.InstagramPosts), MaxInstagramPosts))
	}
	if p.Instagram && len(r.InstagramPosts) == 0 {
		v = append(v, "instagram_posts: instagram enabled but none returned")
	}
	v = appendTextViolation(v, "linkedin_post", "linkedin", p.LinkedIn, r.LinkedInPost)
	v = appendTextViolation(v, "facebook_post", "facebook", p.Facebook, r.FacebookPost)
	v = appendTextViolation(v, "quora_answer", "quora", p.Quora, r.QuoraAnswer)
	return v
}

func appendTextViolation(v []string, field, platform string, enabled bool, value string) []string {
	switch {
	case !enabled && value != "":
		return append(v, fmt.Sprintf("%s: %s disabled but text returned", field, platform))
	case enabled && value == "":
		return append(v, fmt.Sprintf("%s: %s enabled but empty", field, platform))
	}
	return v
}
