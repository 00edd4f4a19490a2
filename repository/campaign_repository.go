package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"

	"twibbon-campaign/db"
	"twibbon-campaign/models"
)

// CampaignRepository handles database operations for campaigns
type CampaignRepository struct{}

// NewCampaignRepository creates a new CampaignRepository
func NewCampaignRepository() *CampaignRepository {
	return &CampaignRepository{}
}

// Ensure CampaignRepository implements CampaignRepositoryInterface
var _ CampaignRepositoryInterface = (*CampaignRepository)(nil)

const campaignColumns = `id, name, slug, template_url, type, is_active, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCampaign(row rowScanner) (*models.Campaign, error) {
	var c models.Campaign
	var campaignType string
	if err := row.Scan(&c.ID, &c.Name, &c.Slug, &c.TemplateURL, &campaignType, &c.IsActive, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	c.Type = models.CampaignType(campaignType)
	return &c, nil
}

// List returns campaigns newest first, optionally only the active ones
func (r *CampaignRepository) List(ctx context.Context, activeOnly bool) ([]models.Campaign, error) {
	log.Printf("🔍 Fetching campaigns (activeOnly=%v)", activeOnly)

	query := `SELECT ` + campaignColumns + ` FROM campaigns`
	if activeOnly {
		query += ` WHERE is_active = true`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := db.DB.QueryContext(ctx, query)
	if err != nil {
		log.Printf("❌ Error fetching campaigns: %v", err)
		return nil, fmt.Errorf("failed to fetch campaigns: %w", err)
	}
	defer rows.Close()

	campaigns := []models.Campaign{}
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			log.Printf("❌ Error scanning campaign: %v", err)
			continue
		}
		campaigns = append(campaigns, *c)
	}
	if err := rows.Err(); err != nil {
		log.Printf("❌ Error iterating campaigns: %v", err)
		return nil, fmt.Errorf("failed to iterate campaigns: %w", err)
	}

	log.Printf("✓ Fetched %d campaigns", len(campaigns))
	return campaigns, nil
}

// GetByID returns one campaign whether active or not
func (r *CampaignRepository) GetByID(ctx context.Context, id int64) (*models.Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns WHERE id = $1`
	c, err := scanCampaign(db.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("campaign %d: %w", id, ErrNotFound)
		}
		log.Printf("❌ Error fetching campaign id=%d: %v", id, err)
		return nil, fmt.Errorf("failed to fetch campaign: %w", err)
	}
	return c, nil
}

// GetActiveBySlug returns the active campaign published under slug
func (r *CampaignRepository) GetActiveBySlug(ctx context.Context, slug string) (*models.Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns WHERE slug = $1 AND is_active = true`
	c, err := scanCampaign(db.DB.QueryRowContext(ctx, query, slug))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("campaign %q: %w", slug, ErrNotFound)
		}
		log.Printf("❌ Error fetching campaign slug=%s: %v", slug, err)
		return nil, fmt.Errorf("failed to fetch campaign: %w", err)
	}
	return c, nil
}

// SlugExists checks whether another campaign already uses slug.
// Pass excludeID 0 when creating.
func (r *CampaignRepository) SlugExists(ctx context.Context, slug string, excludeID int64) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM campaigns WHERE slug = $1 AND id <> $2)`
	if err := db.DB.QueryRowContext(ctx, query, slug, excludeID).Scan(&exists); err != nil {
		log.Printf("❌ Error checking slug %s: %v", slug, err)
		return false, fmt.Errorf("failed to check slug: %w", err)
	}
	return exists, nil
}

// Create inserts a campaign without a template; the URL is set after upload
func (r *CampaignRepository) Create(ctx context.Context, req *models.CreateCampaignRequest) (*models.Campaign, error) {
	log.Printf("💾 Creating campaign: name=%s, slug=%s, type=%s", req.Name, req.Slug, req.Type)

	query := `
		INSERT INTO campaigns (name, slug, type, is_active)
		VALUES ($1, $2, $3, true)
		RETURNING ` + campaignColumns

	c, err := scanCampaign(db.DB.QueryRowContext(ctx, query, req.Name, req.Slug, string(req.Type)))
	if err != nil {
		log.Printf("❌ Error inserting campaign: %v", err)
		return nil, fmt.Errorf("failed to insert campaign: %w", err)
	}

	log.Printf("✅ Created campaign id=%d", c.ID)
	return c, nil
}

// Update applies the non-nil fields of req
func (r *CampaignRepository) Update(ctx context.Context, id int64, req *models.UpdateCampaignRequest) (*models.Campaign, error) {
	log.Printf("🔄 Updating campaign id=%d", id)

	var sets []string
	var args []interface{}
	argIndex := 1

	add := func(column string, value interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argIndex))
		args = append(args, value)
		argIndex++
	}
	if req.Name != nil {
		add("name", *req.Name)
	}
	if req.Slug != nil {
		add("slug", *req.Slug)
	}
	if req.Type != nil {
		add("type", string(*req.Type))
	}
	if req.TemplateURL != nil {
		add("template_url", *req.TemplateURL)
	}
	if req.IsActive != nil {
		add("is_active", *req.IsActive)
	}
	sets = append(sets, "updated_at = NOW()")

	query := fmt.Sprintf(`UPDATE campaigns SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), argIndex, campaignColumns)
	args = append(args, id)

	c, err := scanCampaign(db.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Printf("⚠️  No rows updated for campaign id=%d", id)
			return nil, fmt.Errorf("campaign %d: %w", id, ErrNotFound)
		}
		log.Printf("❌ Error updating campaign id=%d: %v", id, err)
		return nil, fmt.Errorf("failed to update campaign: %w", err)
	}

	log.Printf("✅ Updated campaign id=%d", id)
	return c, nil
}

// Delete removes a campaign and, through the foreign key, its downloads
func (r *CampaignRepository) Delete(ctx context.Context, id int64) error {
	log.Printf("🗑️  Deleting campaign id=%d", id)

	result, err := db.DB.ExecContext(ctx, `DELETE FROM campaigns WHERE id = $1`, id)
	if err != nil {
		log.Printf("❌ Error deleting campaign id=%d: %v", id, err)
		return fmt.Errorf("failed to delete campaign: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Printf("⚠️  Warning: Could not get rows affected: %v", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("campaign %d: %w", id, ErrNotFound)
	}
	return nil
}
