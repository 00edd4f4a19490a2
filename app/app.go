package app

import (
	"context"
	"fmt"
	"net/http"

	"twibbon-campaign/app/controller"
	"twibbon-campaign/app/router"
	"twibbon-campaign/config"
	"twibbon-campaign/db"
	"twibbon-campaign/repository"
	"twibbon-campaign/service"
	"twibbon-campaign/web"
)

// Initialize connects the database, wires services and controllers and
// returns the HTTP handler serving every route
func Initialize(ctx context.Context, cfg *config.Config) (http.Handler, error) {
	// Initialize database connection
	dsn, err := cfg.DSN()
	if err != nil {
		return nil, err
	}
	if err := db.InitDB(ctx, dsn); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	if err := db.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	// Template storage backend and local cache
	storage, err := service.NewAssetStorage(ctx, cfg)
	if err != nil {
		return nil, err
	}
	cache, err := service.NewTemplateCache(cfg.CacheDir)
	if err != nil {
		return nil, err
	}

	// Initialize repositories
	campaignRepo := repository.NewCampaignRepository()
	downloadRepo := repository.NewDownloadRepository()
	settingRepo := repository.NewAdminSettingRepository()

	// Initialize services
	campaignService := service.NewCampaignService(campaignRepo, storage, cache)
	downloadService := service.NewDownloadService(downloadRepo, campaignRepo)
	templateService := service.NewTemplateService(campaignRepo, storage, cache)
	snapshotService := service.NewSnapshotService(campaignRepo, cfg.BaseURL, cfg.ChromePath)
	adminService := service.NewAdminService(settingRepo, cfg.JWTSecret)
	if err := adminService.EnsureDefaultPassword(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialise admin password: %w", err)
	}

	templates, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse page templates: %w", err)
	}

	// Create controllers
	controllers := &router.Controllers{
		Campaign: controller.NewCampaignController(campaignService, cfg.MaxUploadBytes()),
		Download: controller.NewDownloadController(downloadService),
		Template: controller.NewTemplateController(templateService),
		Page:     controller.NewPageController(campaignService, snapshotService, templates, cfg.BaseURL),
		Admin:    controller.NewAdminController(adminService, cfg.IsProduction()),
	}

	return router.SetupRoutes(http.NewServeMux(), controllers, router.Options{
		Sessions:       adminService,
		AllowedOrigins: cfg.AllowedOrigins,
		Static:         web.Static(),
		WasmDir:        cfg.WasmDir,
	}), nil
}
