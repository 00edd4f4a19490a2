package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"math/big"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"twibbon-campaign/models"
	"twibbon-campaign/repository"
	"twibbon-campaign/utils"
)

// ErrInvalidDownload is returned when a tracking request is incomplete
var ErrInvalidDownload = errors.New("invalid download request")

const (
	topNamesLimit = 10
	dailyDays     = 30
	csvTimeLayout = "2006-01-02 15:04:05"
)

// CSVHeaders are the columns of the downloads export
var CSVHeaders = []string{
	"Campaign Name",
	"Campaign Slug",
	"User Name",
	"Additional Text",
	"Download Time",
	"IP Address",
	"Filename",
	"User Agent",
}

// DownloadService records downloads and builds the admin reports
type DownloadService struct {
	downloads repository.DownloadRepositoryInterface
	campaigns repository.CampaignRepositoryInterface
}

// Ensure DownloadService implements DownloadServiceInterface
var _ DownloadServiceInterface = (*DownloadService)(nil)

// NewDownloadService creates a new DownloadService
func NewDownloadService(downloads repository.DownloadRepositoryInterface, campaigns repository.CampaignRepositoryInterface) *DownloadService {
	return &DownloadService{downloads: downloads, campaigns: campaigns}
}

// NewRandomID returns a 26 character base36 id derived from a random UUID
func NewRandomID() string {
	u := uuid.New()
	id := new(big.Int).SetBytes(u[:]).Text(36)
	if len(id) < utils.DownloadIDLength {
		id = strings.Repeat("0", utils.DownloadIDLength-len(id)) + id
	}
	return id
}

// Track records a download for an active campaign and returns the canonical filename
func (s *DownloadService) Track(ctx context.Context, req *models.TrackDownloadRequest, ipAddress, userAgent string) (*models.TrackDownloadResponse, error) {
	if req.CampaignID <= 0 {
		return nil, fmt.Errorf("%w: campaign ID is required", ErrInvalidDownload)
	}

	campaign, err := s.campaigns.GetByID(ctx, req.CampaignID)
	if err != nil {
		return nil, err
	}
	if !campaign.IsActive {
		return nil, fmt.Errorf("campaign %d is not active: %w", campaign.ID, repository.ErrNotFound)
	}

	userName := strings.TrimSpace(req.UserName)
	if userName == "" && campaign.Type == models.CampaignTypeText {
		return nil, fmt.Errorf("%w: user name is required", ErrInvalidDownload)
	}

	randomID := NewRandomID()
	d := &models.Download{
		CampaignID:     campaign.ID,
		UserName:       userName,
		AdditionalText: strings.TrimSpace(req.AdditionalText),
		IPAddress:      ipAddress,
		UserAgent:      userAgent,
		Filename:       utils.DownloadFilename(campaign.Slug, randomID),
		RandomID:       randomID,
	}

	saved, err := s.downloads.Insert(ctx, d)
	if err != nil {
		return nil, err
	}
	return &models.TrackDownloadResponse{ID: saved.ID, Filename: saved.Filename}, nil
}

// List returns tracked downloads for the admin panel
func (s *DownloadService) List(ctx context.Context, filter models.DownloadFilter) ([]models.Download, error) {
	if filter.Limit == 0 {
		filter.Limit = repository.DefaultDownloadLimit
	}
	return s.downloads.List(ctx, filter)
}

// Stats computes the dashboard summary, optionally for one campaign
func (s *DownloadService) Stats(ctx context.Context, campaignID *int64, now time.Time) (*models.DownloadStats, error) {
	downloads, err := s.downloads.ListForStats(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	return ComputeStats(downloads, now), nil
}

// Analytics returns per-campaign totals
func (s *DownloadService) Analytics(ctx context.Context) ([]models.CampaignAnalytics, error) {
	return s.downloads.Analytics(ctx)
}

// ExportCSV writes every download matching filter as CSV
func (s *DownloadService) ExportCSV(ctx context.Context, filter models.DownloadFilter, w io.Writer) error {
	filter.Limit = -1
	filter.Offset = 0
	downloads, err := s.downloads.List(ctx, filter)
	if err != nil {
		return err
	}
	log.Printf("📤 Exporting %d downloads to CSV", len(downloads))
	return WriteDownloadsCSV(w, downloads)
}

// WriteDownloadsCSV writes the header row and one row per download
func WriteDownloadsCSV(w io.Writer, downloads []models.Download) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeaders); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, d := range downloads {
		row := []string{
			orNA(d.CampaignName),
			orNA(d.CampaignSlug),
			d.UserName,
			d.AdditionalText,
			d.DownloadTime.Format(csvTimeLayout),
			orNA(d.IPAddress),
			d.Filename,
			orNA(d.UserAgent),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

// ComputeStats summarises downloads as seen at now, in now's time zone
func ComputeStats(downloads []models.Download, now time.Time) *models.DownloadStats {
	loc := now.Location()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	weekAgo := now.Add(-7 * 24 * time.Hour)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
	firstDay := today.AddDate(0, 0, -(dailyDays - 1))

	stats := &models.DownloadStats{
		Total:              len(downloads),
		HourlyDistribution: make([]models.HourCount, 24),
		DailyDownloads:     make([]models.DayCount, dailyDays),
	}
	for h := range stats.HourlyDistribution {
		stats.HourlyDistribution[h].Hour = h
	}
	for i := range stats.DailyDownloads {
		stats.DailyDownloads[i].Date = firstDay.AddDate(0, 0, i).Format("2006-01-02")
	}

	users := map[string]struct{}{}
	ips := map[string]struct{}{}
	names := map[string]int{}

	for _, d := range downloads {
		t := d.DownloadTime.In(loc)
		if !t.Before(today) {
			stats.Today++
		}
		if !t.Before(weekAgo) {
			stats.ThisWeek++
		}
		if !t.Before(monthStart) {
			stats.ThisMonth++
		}

		users[d.UserName] = struct{}{}
		if d.IPAddress != "" {
			ips[d.IPAddress] = struct{}{}
		}
		if d.UserName != "" {
			names[d.UserName]++
		}

		stats.HourlyDistribution[t.Hour()].Count++

		day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
		if !day.Before(firstDay) && !day.After(today) {
			idx := int(day.Sub(firstDay).Hours()/24 + 0.5)
			if idx >= 0 && idx < dailyDays {
				stats.DailyDownloads[idx].Count++
			}
		}
	}

	stats.UniqueUsers = len(users)
	stats.UniqueIPs = len(ips)
	stats.TopNames = topItems(names, topNamesLimit)
	return stats
}

// topItems ranks by count, then by name so ties are stable
func topItems(counts map[string]int, limit int) []models.NameCount {
	items := make([]models.NameCount, 0, len(counts))
	for item, count := range counts {
		items = append(items, models.NameCount{Item: item, Count: count})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Count != items[j].Count {
			return items[i].Count > items[j].Count
		}
		return items[i].Item < items[j].Item
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items
}
