package models

import "time"

// CampaignType selects how visitors personalise a campaign
type CampaignType string

const (
	CampaignTypeText  CampaignType = "text"
	CampaignTypePhoto CampaignType = "photo"
)

// Valid reports whether t is a known campaign type
func (t CampaignType) Valid() bool {
	return t == CampaignTypeText || t == CampaignTypePhoto
}

// Campaign represents a published template configuration
type Campaign struct {
	ID          int64        `json:"id"`
	Name        string       `json:"name"`
	Slug        string       `json:"slug"`
	TemplateURL string       `json:"templateUrl"`
	Type        CampaignType `json:"type"`
	IsActive    bool         `json:"isActive"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// CreateCampaignRequest represents the admin form for a new campaign.
// The template file travels separately as a multipart part.
type CreateCampaignRequest struct {
	Name string       `json:"name"`
	Slug string       `json:"slug"`
	Type CampaignType `json:"type"`
}

// UpdateCampaignRequest represents a partial campaign update.
// Nil fields are left untouched.
type UpdateCampaignRequest struct {
	Name        *string       `json:"name,omitempty"`
	Slug        *string       `json:"slug,omitempty"`
	Type        *CampaignType `json:"type,omitempty"`
	TemplateURL *string       `json:"templateUrl,omitempty"`
	IsActive    *bool         `json:"isActive,omitempty"`
}

// CampaignAnalytics is the per-campaign download summary shown in the admin panel
type CampaignAnalytics struct {
	CampaignID     int64      `json:"campaignId"`
	Name           string     `json:"name"`
	Slug           string     `json:"slug"`
	IsActive       bool       `json:"isActive"`
	TotalDownloads int        `json:"totalDownloads"`
	UniqueUsers    int        `json:"uniqueUsers"`
	LastDownload   *time.Time `json:"lastDownload,omitempty"`
}
