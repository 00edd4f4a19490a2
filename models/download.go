package models

import "time"

// Download represents a tracked card download
type Download struct {
	ID             int64     `json:"id"`
	CampaignID     int64     `json:"campaignId"`
	UserName       string    `json:"userName"`
	AdditionalText string    `json:"additionalText"`
	IPAddress      string    `json:"ipAddress,omitempty"`
	UserAgent      string    `json:"userAgent,omitempty"`
	Filename       string    `json:"filename"`
	RandomID       string    `json:"randomId"`
	DownloadTime   time.Time `json:"downloadTime"`
	// Populated when joining with campaigns
	CampaignName string `json:"campaignName,omitempty"`
	CampaignSlug string `json:"campaignSlug,omitempty"`
}

// TrackDownloadRequest represents the request body of POST /api/downloads
// Example: {"campaignId": 3, "userName": "Budi", "additionalText": "Kelas A", "campaignSlug": "wisuda-2024"}
type TrackDownloadRequest struct {
	CampaignID     int64  `json:"campaignId"`
	UserName       string `json:"userName"`
	AdditionalText string `json:"additionalText"`
	CampaignSlug   string `json:"campaignSlug"`
}

// TrackDownloadResponse carries the canonical filename for the saved card
type TrackDownloadResponse struct {
	ID       int64  `json:"id"`
	Filename string `json:"filename"`
}

// DownloadFilter holds the optional listing filters for downloads
type DownloadFilter struct {
	CampaignID *int64
	Start      *time.Time
	End        *time.Time
	Limit      int
	Offset     int
}

// NameCount is one entry of a top-N ranking
type NameCount struct {
	Item  string `json:"item"`
	Count int    `json:"count"`
}

// HourCount is the number of downloads in one hour of the day
type HourCount struct {
	Hour  int `json:"hour"`
	Count int `json:"count"`
}

// DayCount is the number of downloads on one calendar day (YYYY-MM-DD)
type DayCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// DownloadStats is the admin dashboard summary
type DownloadStats struct {
	Total              int         `json:"total"`
	Today              int         `json:"today"`
	ThisWeek           int         `json:"thisWeek"`
	ThisMonth          int         `json:"thisMonth"`
	UniqueUsers        int         `json:"uniqueUsers"`
	UniqueIPs          int         `json:"uniqueIPs"`
	TopNames           []NameCount `json:"topNames"`
	HourlyDistribution []HourCount `json:"hourlyDistribution"`
	DailyDownloads     []DayCount  `json:"dailyDownloads"`
}
