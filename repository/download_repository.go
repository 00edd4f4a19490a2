package repository

import (
	"context"
	"fmt"
	"log"
	"strings"

	"twibbon-campaign/db"
	"twibbon-campaign/models"
)

// DefaultDownloadLimit caps a download listing when no limit is given
const DefaultDownloadLimit = 100

// DownloadRepository handles database operations for tracked downloads
type DownloadRepository struct{}

// NewDownloadRepository creates a new DownloadRepository
func NewDownloadRepository() *DownloadRepository {
	return &DownloadRepository{}
}

// Ensure DownloadRepository implements DownloadRepositoryInterface
var _ DownloadRepositoryInterface = (*DownloadRepository)(nil)

// Insert records one download
func (r *DownloadRepository) Insert(ctx context.Context, d *models.Download) (*models.Download, error) {
	log.Printf("💾 Tracking download: campaign=%d, filename=%s", d.CampaignID, d.Filename)

	query := `
		INSERT INTO downloads (campaign_id, user_name, additional_text, ip_address, user_agent, filename, random_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, download_time
	`
	saved := *d
	err := db.DB.QueryRowContext(ctx, query,
		d.CampaignID,
		d.UserName,
		d.AdditionalText,
		d.IPAddress,
		d.UserAgent,
		d.Filename,
		d.RandomID,
	).Scan(&saved.ID, &saved.DownloadTime)
	if err != nil {
		log.Printf("❌ Error inserting download: %v", err)
		return nil, fmt.Errorf("failed to insert download: %w", err)
	}

	log.Printf("✅ Tracked download id=%d", saved.ID)
	return &saved, nil
}

// List returns downloads newest first joined with their campaign
func (r *DownloadRepository) List(ctx context.Context, filter models.DownloadFilter) ([]models.Download, error) {
	log.Printf("🔍 Listing downloads (campaign=%v, start=%v, end=%v, limit=%d, offset=%d)",
		filter.CampaignID, filter.Start, filter.End, filter.Limit, filter.Offset)

	query := `
		SELECT d.id, d.campaign_id, d.user_name, d.additional_text, d.ip_address, d.user_agent,
		       d.filename, d.random_id, d.download_time,
		       COALESCE(c.name, '') AS campaign_name,
		       COALESCE(c.slug, '') AS campaign_slug
		FROM downloads d
		LEFT JOIN campaigns c ON c.id = d.campaign_id
	`

	var conditions []string
	var args []interface{}
	argIndex := 1

	if filter.CampaignID != nil {
		conditions = append(conditions, fmt.Sprintf("d.campaign_id = $%d", argIndex))
		args = append(args, *filter.CampaignID)
		argIndex++
	}
	if filter.Start != nil {
		conditions = append(conditions, fmt.Sprintf("d.download_time >= $%d", argIndex))
		args = append(args, *filter.Start)
		argIndex++
	}
	if filter.End != nil {
		conditions = append(conditions, fmt.Sprintf("d.download_time <= $%d", argIndex))
		args = append(args, *filter.End)
		argIndex++
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	query += " ORDER BY d.download_time DESC"

	// limit < 0 means no limit, used by the CSV export
	if filter.Limit >= 0 {
		limit := filter.Limit
		if limit == 0 {
			limit = DefaultDownloadLimit
		}
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
		args = append(args, limit, filter.Offset)
	}

	rows, err := db.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Printf("❌ Error listing downloads: %v", err)
		return nil, fmt.Errorf("failed to list downloads: %w", err)
	}
	defer rows.Close()

	downloads := []models.Download{}
	for rows.Next() {
		var d models.Download
		err := rows.Scan(
			&d.ID,
			&d.CampaignID,
			&d.UserName,
			&d.AdditionalText,
			&d.IPAddress,
			&d.UserAgent,
			&d.Filename,
			&d.RandomID,
			&d.DownloadTime,
			&d.CampaignName,
			&d.CampaignSlug,
		)
		if err != nil {
			log.Printf("❌ Error scanning download: %v", err)
			continue
		}
		downloads = append(downloads, d)
	}
	if err := rows.Err(); err != nil {
		log.Printf("❌ Error iterating downloads: %v", err)
		return nil, fmt.Errorf("failed to iterate downloads: %w", err)
	}

	return downloads, nil
}

// ListForStats returns the columns the dashboard statistics are computed from
func (r *DownloadRepository) ListForStats(ctx context.Context, campaignID *int64) ([]models.Download, error) {
	query := `SELECT campaign_id, user_name, ip_address, download_time FROM downloads`
	var args []interface{}
	if campaignID != nil {
		query += ` WHERE campaign_id = $1`
		args = append(args, *campaignID)
	}

	rows, err := db.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Printf("❌ Error fetching downloads for stats: %v", err)
		return nil, fmt.Errorf("failed to fetch downloads: %w", err)
	}
	defer rows.Close()

	var downloads []models.Download
	for rows.Next() {
		var d models.Download
		if err := rows.Scan(&d.CampaignID, &d.UserName, &d.IPAddress, &d.DownloadTime); err != nil {
			log.Printf("❌ Error scanning download: %v", err)
			continue
		}
		downloads = append(downloads, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate downloads: %w", err)
	}
	return downloads, nil
}

// Analytics returns per-campaign totals ordered by download count
func (r *DownloadRepository) Analytics(ctx context.Context) ([]models.CampaignAnalytics, error) {
	query := `
		SELECT c.id, c.name, c.slug, c.is_active,
		       COUNT(d.id) AS total_downloads,
		       COUNT(DISTINCT d.user_name) AS unique_users,
		       MAX(d.download_time) AS last_download
		FROM campaigns c
		LEFT JOIN downloads d ON d.campaign_id = c.id
		GROUP BY c.id, c.name, c.slug, c.is_active
		ORDER BY total_downloads DESC, c.created_at DESC
	`

	rows, err := db.DB.QueryContext(ctx, query)
	if err != nil {
		log.Printf("❌ Error fetching campaign analytics: %v", err)
		return nil, fmt.Errorf("failed to fetch campaign analytics: %w", err)
	}
	defer rows.Close()

	analytics := []models.CampaignAnalytics{}
	for rows.Next() {
		var a models.CampaignAnalytics
		if err := rows.Scan(&a.CampaignID, &a.Name, &a.Slug, &a.IsActive, &a.TotalDownloads, &a.UniqueUsers, &a.LastDownload); err != nil {
			log.Printf("❌ Error scanning analytics row: %v", err)
			continue
		}
		analytics = append(analytics, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate campaign analytics: %w", err)
	}
	return analytics, nil
}
