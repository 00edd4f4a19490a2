package router

import (
	"net/http"

	"github.com/go-chi/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"twibbon-campaign/app/controller"
	"twibbon-campaign/app/middleware"
)

type Controllers struct {
	Campaign *controller.CampaignController
	Download *controller.DownloadController
	Template *controller.TemplateController
	Page     *controller.PageController
	Admin    *controller.AdminController
}

// Options configures the handler chain around the routes
type Options struct {
	Sessions       middleware.SessionParser
	AllowedOrigins []string
	Static         http.Handler
	WasmDir        string
}

// pingHandler handles GET /ping
func pingHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

// SetupRoutes registers every route on mux and returns the wrapped handler
func SetupRoutes(mux *http.ServeMux, controllers *Controllers, opts Options) http.Handler {
	admin := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.RequireAdmin(opts.Sessions, h)
	}

	// Ping endpoint
	mux.HandleFunc("GET /ping", pingHandler)

	// Public pages
	mux.HandleFunc("GET /{$}", controllers.Page.Home)
	mux.HandleFunc("GET /c/{slug}", controllers.Page.Campaign)
	mux.HandleFunc("GET /c/{slug}/share", controllers.Page.Share)
	mux.HandleFunc("GET /campaigns/{slug}/preview.png", controllers.Page.Preview)

	// Assets
	mux.HandleFunc("GET /templates/{id}", controllers.Template.GetTemplate)
	if opts.Static != nil {
		mux.Handle("GET /static/", http.StripPrefix("/static/", opts.Static))
	}
	if opts.WasmDir != "" {
		mux.Handle("GET /wasm/", http.StripPrefix("/wasm/", http.FileServer(http.Dir(opts.WasmDir))))
	}

	// Public API
	mux.HandleFunc("GET /api/campaigns", controllers.Campaign.ListActive)
	mux.HandleFunc("GET /api/campaigns/{slug}", controllers.Campaign.GetBySlug)
	mux.HandleFunc("POST /api/downloads", controllers.Download.Track)

	// Admin authentication
	mux.HandleFunc("POST /admin/login", controllers.Admin.Login)
	mux.HandleFunc("POST /admin/logout", controllers.Admin.Logout)
	mux.HandleFunc("GET /admin/session", admin(controllers.Admin.Session))
	mux.HandleFunc("PUT /admin/password", admin(controllers.Admin.ChangePassword))
	mux.HandleFunc("POST /admin/password/reset", admin(controllers.Admin.ResetPassword))

	// Admin settings
	mux.HandleFunc("GET /admin/settings", admin(controllers.Admin.ListSettings))
	mux.HandleFunc("GET /admin/settings/{key}", admin(controllers.Admin.GetSetting))
	mux.HandleFunc("PUT /admin/settings/{key}", admin(controllers.Admin.UpdateSetting))

	// Admin campaigns
	mux.HandleFunc("GET /admin/campaigns", admin(controllers.Campaign.AdminList))
	mux.HandleFunc("POST /admin/campaigns", admin(controllers.Campaign.Create))
	mux.HandleFunc("GET /admin/campaigns/{id}", admin(controllers.Campaign.AdminGet))
	mux.HandleFunc("PUT /admin/campaigns/{id}", admin(controllers.Campaign.Update))
	mux.HandleFunc("DELETE /admin/campaigns/{id}", admin(controllers.Campaign.Delete))
	mux.HandleFunc("POST /admin/campaigns/{id}/toggle", admin(controllers.Campaign.Toggle))

	// Admin downloads
	mux.HandleFunc("GET /admin/downloads", admin(controllers.Download.List))
	mux.HandleFunc("GET /admin/downloads/stats", admin(controllers.Download.Stats))
	mux.HandleFunc("GET /admin/downloads/export.csv", admin(controllers.Download.ExportCSV))
	mux.HandleFunc("GET /admin/analytics", admin(controllers.Download.Analytics))

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	handler := cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: !containsWildcard(origins),
		MaxAge:           300,
	})(mux)

	return otelhttp.NewHandler(handler, "twibbon-campaign",
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
	)
}

func containsWildcard(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}
