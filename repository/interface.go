package repository

import (
	"context"
	"errors"

	"twibbon-campaign/models"
)

// ErrNotFound is returned when a row addressed by id, slug or key does not exist
var ErrNotFound = errors.New("not found")

// CampaignRepositoryInterface defines the contract for campaign repository operations
type CampaignRepositoryInterface interface {
	List(ctx context.Context, activeOnly bool) ([]models.Campaign, error)
	GetByID(ctx context.Context, id int64) (*models.Campaign, error)
	GetActiveBySlug(ctx context.Context, slug string) (*models.Campaign, error)
	SlugExists(ctx context.Context, slug string, excludeID int64) (bool, error)
	Create(ctx context.Context, req *models.CreateCampaignRequest) (*models.Campaign, error)
	Update(ctx context.Context, id int64, req *models.UpdateCampaignRequest) (*models.Campaign, error)
	Delete(ctx context.Context, id int64) error
}

// DownloadRepositoryInterface defines the contract for download tracking storage
type DownloadRepositoryInterface interface {
	Insert(ctx context.Context, d *models.Download) (*models.Download, error)
	List(ctx context.Context, filter models.DownloadFilter) ([]models.Download, error)
	ListForStats(ctx context.Context, campaignID *int64) ([]models.Download, error)
	Analytics(ctx context.Context) ([]models.CampaignAnalytics, error)
}

// AdminSettingRepositoryInterface defines the contract for admin key/value settings
type AdminSettingRepositoryInterface interface {
	Get(ctx context.Context, key string) (*models.AdminSetting, error)
	List(ctx context.Context) ([]models.AdminSetting, error)
	Upsert(ctx context.Context, key, value string) (*models.AdminSetting, error)
}
