package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	"twibbon-campaign/db"
	"twibbon-campaign/models"
)

// AdminSettingRepository stores admin key/value settings
type AdminSettingRepository struct{}

// NewAdminSettingRepository creates a new AdminSettingRepository
func NewAdminSettingRepository() *AdminSettingRepository {
	return &AdminSettingRepository{}
}

// Ensure AdminSettingRepository implements AdminSettingRepositoryInterface
var _ AdminSettingRepositoryInterface = (*AdminSettingRepository)(nil)

// Get returns one setting or ErrNotFound
func (r *AdminSettingRepository) Get(ctx context.Context, key string) (*models.AdminSetting, error) {
	var s models.AdminSetting
	query := `SELECT setting_key, setting_value, updated_at FROM admin_settings WHERE setting_key = $1`
	err := db.DB.QueryRowContext(ctx, query, key).Scan(&s.Key, &s.Value, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("setting %q: %w", key, ErrNotFound)
		}
		log.Printf("❌ Error fetching setting %s: %v", key, err)
		return nil, fmt.Errorf("failed to fetch setting: %w", err)
	}
	return &s, nil
}

// List returns every setting ordered by key
func (r *AdminSettingRepository) List(ctx context.Context) ([]models.AdminSetting, error) {
	rows, err := db.DB.QueryContext(ctx, `SELECT setting_key, setting_value, updated_at FROM admin_settings ORDER BY setting_key`)
	if err != nil {
		log.Printf("❌ Error fetching settings: %v", err)
		return nil, fmt.Errorf("failed to fetch settings: %w", err)
	}
	defer rows.Close()

	settings := []models.AdminSetting{}
	for rows.Next() {
		var s models.AdminSetting
		if err := rows.Scan(&s.Key, &s.Value, &s.UpdatedAt); err != nil {
			log.Printf("❌ Error scanning setting: %v", err)
			continue
		}
		settings = append(settings, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate settings: %w", err)
	}
	return settings, nil
}

// Upsert creates or replaces a setting
func (r *AdminSettingRepository) Upsert(ctx context.Context, key, value string) (*models.AdminSetting, error) {
	log.Printf("💾 Saving setting %s", key)

	query := `
		INSERT INTO admin_settings (setting_key, setting_value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (setting_key) DO UPDATE
		SET setting_value = EXCLUDED.setting_value, updated_at = NOW()
		RETURNING setting_key, setting_value, updated_at
	`
	var s models.AdminSetting
	if err := db.DB.QueryRowContext(ctx, query, key, value).Scan(&s.Key, &s.Value, &s.UpdatedAt); err != nil {
		log.Printf("❌ Error saving setting %s: %v", key, err)
		return nil, fmt.Errorf("failed to save setting: %w", err)
	}
	return &s, nil
}
