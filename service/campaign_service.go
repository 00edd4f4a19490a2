package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"twibbon-campaign/models"
	"twibbon-campaign/repository"
	"twibbon-campaign/utils"
)

var (
	// ErrSlugExists is returned when another campaign already uses the slug
	ErrSlugExists = errors.New("slug already exists")
	// ErrInvalidCampaign is returned for missing or malformed campaign fields
	ErrInvalidCampaign = errors.New("invalid campaign")
)

// TemplateUpload is the template file sent with a new or updated campaign
type TemplateUpload struct {
	Data []byte
}

// CampaignServiceInterface defines the contract for campaign management
type CampaignServiceInterface interface {
	ListActive(ctx context.Context) ([]models.Campaign, error)
	ListAll(ctx context.Context) ([]models.Campaign, error)
	GetBySlug(ctx context.Context, slug string) (*models.Campaign, error)
	GetByID(ctx context.Context, id int64) (*models.Campaign, error)
	Create(ctx context.Context, req *models.CreateCampaignRequest, template TemplateUpload) (*models.Campaign, error)
	Update(ctx context.Context, id int64, req *models.UpdateCampaignRequest, template *TemplateUpload) (*models.Campaign, error)
	Delete(ctx context.Context, id int64) error
	Toggle(ctx context.Context, id int64) (*models.Campaign, error)
}

// CampaignService manages campaigns and their stored templates
type CampaignService struct {
	repo    repository.CampaignRepositoryInterface
	storage AssetStorageInterface
	cache   *TemplateCache
}

// Ensure CampaignService implements CampaignServiceInterface
var _ CampaignServiceInterface = (*CampaignService)(nil)

// NewCampaignService creates a new CampaignService. cache may be nil.
func NewCampaignService(repo repository.CampaignRepositoryInterface, storage AssetStorageInterface, cache *TemplateCache) *CampaignService {
	return &CampaignService{repo: repo, storage: storage, cache: cache}
}

// TemplateAssetName is the storage name of a campaign template
func TemplateAssetName(campaignID int64) string {
	return fmt.Sprintf("twibbin_campaign_%d", campaignID)
}

// ListActive returns the campaigns shown on the home page
func (s *CampaignService) ListActive(ctx context.Context) ([]models.Campaign, error) {
	return s.repo.List(ctx, true)
}

// ListAll returns every campaign for the admin panel
func (s *CampaignService) ListAll(ctx context.Context) ([]models.Campaign, error) {
	return s.repo.List(ctx, false)
}

// GetBySlug returns the active campaign published under slug
func (s *CampaignService) GetBySlug(ctx context.Context, slug string) (*models.Campaign, error) {
	return s.repo.GetActiveBySlug(ctx, slug)
}

// GetByID returns one campaign
func (s *CampaignService) GetByID(ctx context.Context, id int64) (*models.Campaign, error) {
	return s.repo.GetByID(ctx, id)
}

// Create validates the request, inserts the campaign, stores the template
// and records its reference. The row is removed again if the upload fails.
func (s *CampaignService) Create(ctx context.Context, req *models.CreateCampaignRequest, template TemplateUpload) (*models.Campaign, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Slug = utils.NormalizeSlug(req.Slug)
	if req.Type == "" {
		req.Type = models.CampaignTypePhoto
	}

	if req.Name == "" || req.Slug == "" {
		return nil, fmt.Errorf("%w: campaign name, slug, and template are required", ErrInvalidCampaign)
	}
	if !req.Type.Valid() {
		return nil, fmt.Errorf("%w: type must be 'text' or 'photo'", ErrInvalidCampaign)
	}
	if len(template.Data) == 0 {
		return nil, fmt.Errorf("%w: campaign name, slug, and template are required", ErrInvalidCampaign)
	}
	contentType, err := DetectImageType(template.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCampaign, err)
	}

	exists, err := s.repo.SlugExists(ctx, req.Slug, 0)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrSlugExists
	}

	campaign, err := s.repo.Create(ctx, req)
	if err != nil {
		return nil, err
	}

	ref, err := s.storage.Upload(ctx, TemplateAssetName(campaign.ID), contentType, template.Data)
	if err != nil {
		log.Printf("❌ Template upload failed for campaign %d, removing it: %v", campaign.ID, err)
		if delErr := s.repo.Delete(ctx, campaign.ID); delErr != nil {
			log.Printf("❌ Could not remove campaign %d after failed upload: %v", campaign.ID, delErr)
		}
		return nil, fmt.Errorf("failed to upload template: %w", err)
	}

	updated, err := s.repo.Update(ctx, campaign.ID, &models.UpdateCampaignRequest{TemplateURL: &ref})
	if err != nil {
		return nil, err
	}

	log.Printf("🎉 Campaign %s created (id=%d)", updated.Slug, updated.ID)
	return updated, nil
}

// Update applies a partial update and optionally replaces the template
func (s *CampaignService) Update(ctx context.Context, id int64, req *models.UpdateCampaignRequest, template *TemplateUpload) (*models.Campaign, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name must not be empty", ErrInvalidCampaign)
		}
		req.Name = &name
	}
	if req.Type != nil && !req.Type.Valid() {
		return nil, fmt.Errorf("%w: type must be 'text' or 'photo'", ErrInvalidCampaign)
	}
	if req.Slug != nil {
		slug := utils.NormalizeSlug(*req.Slug)
		if slug == "" {
			return nil, fmt.Errorf("%w: slug must not be empty", ErrInvalidCampaign)
		}
		req.Slug = &slug
		if slug != existing.Slug {
			exists, err := s.repo.SlugExists(ctx, slug, id)
			if err != nil {
				return nil, err
			}
			if exists {
				return nil, ErrSlugExists
			}
		}
	}

	if template != nil && len(template.Data) > 0 {
		contentType, err := DetectImageType(template.Data)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidCampaign, err)
		}
		ref, err := s.storage.Upload(ctx, TemplateAssetName(id), contentType, template.Data)
		if err != nil {
			return nil, fmt.Errorf("failed to upload template: %w", err)
		}
		if existing.TemplateURL != "" && existing.TemplateURL != ref {
			if err := s.storage.Delete(ctx, existing.TemplateURL); err != nil {
				log.Printf("⚠️  Could not delete old template of campaign %d: %v", id, err)
			}
		}
		req.TemplateURL = &ref
		s.purgeCache(id)
	}

	return s.repo.Update(ctx, id, req)
}

// Delete removes the campaign and its stored template
func (s *CampaignService) Delete(ctx context.Context, id int64) error {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if existing.TemplateURL != "" {
		if err := s.storage.Delete(ctx, existing.TemplateURL); err != nil {
			log.Printf("⚠️  Could not delete template of campaign %d: %v", id, err)
		}
	}
	s.purgeCache(id)
	log.Printf("🗑️  Campaign %d deleted", id)
	return nil
}

// Toggle flips the active flag
func (s *CampaignService) Toggle(ctx context.Context, id int64) (*models.Campaign, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	active := !existing.IsActive
	return s.repo.Update(ctx, id, &models.UpdateCampaignRequest{IsActive: &active})
}

func (s *CampaignService) purgeCache(id int64) {
	if s.cache != nil {
		s.cache.Purge(id)
	}
}
