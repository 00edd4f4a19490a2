package controller

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"net/url"
	"strings"

	"twibbon-campaign/editor"
	"twibbon-campaign/models"
	"twibbon-campaign/repository"
	"twibbon-campaign/service"
)

// PageController renders the public HTML pages and the share preview image
type PageController struct {
	campaignService service.CampaignServiceInterface
	snapshotService service.SnapshotServiceInterface
	templates       *template.Template
	baseURL         string
}

// NewPageController creates a new PageController
func NewPageController(
	campaignService service.CampaignServiceInterface,
	snapshotService service.SnapshotServiceInterface,
	templates *template.Template,
	baseURL string,
) *PageController {
	return &PageController{
		campaignService: campaignService,
		snapshotService: snapshotService,
		templates:       templates,
		baseURL:         strings.TrimRight(baseURL, "/"),
	}
}

type campaignPage struct {
	Campaign       models.Campaign
	CampaignJSON   string
	TemplateURL    string
	PageURL        string
	PreviewURL     string
	Background     template.CSS
	MaxUploadBytes int64
}

// Home handles GET / with the list of active campaigns
func (c *PageController) Home(w http.ResponseWriter, r *http.Request) {
	campaigns, err := c.campaignService.ListActive(r.Context())
	if err != nil {
		log.Printf("❌ Home: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	c.render(w, http.StatusOK, "index.html", map[string]interface{}{"Campaigns": campaigns})
}

// Campaign handles GET /c/{slug}
func (c *PageController) Campaign(w http.ResponseWriter, r *http.Request) {
	page, ok := c.loadPage(w, r)
	if !ok {
		return
	}
	c.render(w, http.StatusOK, "campaign.html", page)
}

// Share handles GET /c/{slug}/share, the page screenshotted for link previews
func (c *PageController) Share(w http.ResponseWriter, r *http.Request) {
	page, ok := c.loadPage(w, r)
	if !ok {
		return
	}
	c.render(w, http.StatusOK, "share.html", page)
}

// Preview handles GET /campaigns/{slug}/preview.png
func (c *PageController) Preview(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	data, err := c.snapshotService.SharePreview(r.Context(), slug)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			http.Error(w, "Campaign not found", http.StatusNotFound)
			return
		}
		log.Printf("❌ Preview %s: %v", slug, err)
		http.Error(w, "Failed to render preview", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (c *PageController) loadPage(w http.ResponseWriter, r *http.Request) (*campaignPage, bool) {
	slug := r.PathValue("slug")
	campaign, err := c.campaignService.GetBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.render(w, http.StatusNotFound, "not_found.html", nil)
			return nil, false
		}
		log.Printf("❌ Campaign page %s: %v", slug, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return nil, false
	}

	public := publicCampaign(*campaign)
	encoded, err := json.Marshal(public)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return nil, false
	}

	escaped := url.PathEscape(campaign.Slug)
	return &campaignPage{
		Campaign:       *campaign,
		CampaignJSON:   string(encoded),
		TemplateURL:    public.TemplateURL,
		PageURL:        fmt.Sprintf("%s/c/%s", c.baseURL, escaped),
		PreviewURL:     fmt.Sprintf("%s/campaigns/%s/preview.png", c.baseURL, escaped),
		Background:     template.CSS(editor.PreviewBackground),
		MaxUploadBytes: editor.DefaultMaxUploadBytes,
	}, true
}

// render executes into a buffer first so a template error still yields a clean 500
func (c *PageController) render(w http.ResponseWriter, status int, name string, data interface{}) {
	var buf bytes.Buffer
	if err := c.templates.ExecuteTemplate(&buf, name, data); err != nil {
		log.Printf("❌ Failed to render %s: %v", name, err)
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}
