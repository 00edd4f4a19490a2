package service

import (
	"context"
	"fmt"
	"log"

	"golang.org/x/sync/singleflight"

	"twibbon-campaign/repository"
)

// TemplateServiceInterface defines the contract for serving campaign templates
type TemplateServiceInterface interface {
	Get(ctx context.Context, campaignID int64, size string) ([]byte, string, error)
}

// TemplateService serves normalised templates from the disk cache,
// filling it from asset storage on a miss
type TemplateService struct {
	campaigns repository.CampaignRepositoryInterface
	storage   AssetStorageInterface
	cache     *TemplateCache
	group     singleflight.Group
}

// Ensure TemplateService implements TemplateServiceInterface
var _ TemplateServiceInterface = (*TemplateService)(nil)

// NewTemplateService creates a new TemplateService
func NewTemplateService(campaigns repository.CampaignRepositoryInterface, storage AssetStorageInterface, cache *TemplateCache) *TemplateService {
	return &TemplateService{campaigns: campaigns, storage: storage, cache: cache}
}

// Get returns the template of a campaign and its content type.
// size is SizeFull (1000x1000 PNG) or SizeThumb (small JPEG).
func (s *TemplateService) Get(ctx context.Context, campaignID int64, size string) ([]byte, string, error) {
	if size != SizeThumb {
		size = SizeFull
	}
	contentType := "image/png"
	if size == SizeThumb {
		contentType = "image/jpeg"
	}

	campaign, err := s.campaigns.GetByID(ctx, campaignID)
	if err != nil {
		return nil, "", err
	}
	if campaign.TemplateURL == "" {
		return nil, "", fmt.Errorf("campaign %d has no template: %w", campaignID, ErrAssetNotFound)
	}

	cachePath := s.cache.Path(campaign.ID, size, campaign.UpdatedAt)
	if data, ok := s.cache.Read(cachePath); ok {
		return data, contentType, nil
	}

	// concurrent misses for the same variant share one storage download
	v, err, _ := s.group.Do(cachePath, func() (interface{}, error) {
		log.Printf("📥 Template cache miss for campaign %d (%s)", campaign.ID, size)
		raw, err := s.storage.Download(ctx, campaign.TemplateURL)
		if err != nil {
			return nil, err
		}

		var processed []byte
		if size == SizeThumb {
			processed, err = TemplateThumbnail(raw)
		} else {
			processed, err = NormalizeTemplate(raw)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to process template for campaign %d: %w", campaign.ID, err)
		}

		if err := s.cache.Save(cachePath, processed); err != nil {
			log.Printf("⚠️  %v", err)
		}
		return processed, nil
	})
	if err != nil {
		return nil, "", err
	}
	return v.([]byte), contentType, nil
}
