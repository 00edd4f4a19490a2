package service

import (
	"context"
	"io"
	"time"

	"twibbon-campaign/models"
)

// DownloadServiceInterface defines the contract for download tracking and reporting
type DownloadServiceInterface interface {
	Track(ctx context.Context, req *models.TrackDownloadRequest, ipAddress, userAgent string) (*models.TrackDownloadResponse, error)
	List(ctx context.Context, filter models.DownloadFilter) ([]models.Download, error)
	Stats(ctx context.Context, campaignID *int64, now time.Time) (*models.DownloadStats, error)
	Analytics(ctx context.Context) ([]models.CampaignAnalytics, error)
	ExportCSV(ctx context.Context, filter models.DownloadFilter, w io.Writer) error
}
