package controller

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	"twibbon-campaign/models"
	"twibbon-campaign/service"
)

// CampaignController handles the public campaign API and the admin campaign endpoints
type CampaignController struct {
	campaignService service.CampaignServiceInterface
	maxUploadBytes  int64
}

// NewCampaignController creates a new CampaignController
func NewCampaignController(campaignService service.CampaignServiceInterface, maxUploadBytes int64) *CampaignController {
	return &CampaignController{
		campaignService: campaignService,
		maxUploadBytes:  maxUploadBytes,
	}
}

// TemplatePath is the public URL of a campaign template. The version query
// changes whenever the campaign is updated so browsers refetch it.
func TemplatePath(c *models.Campaign) string {
	return fmt.Sprintf("/templates/%d?v=%d", c.ID, c.UpdatedAt.Unix())
}

// publicCampaign replaces the storage reference with the template proxy URL
func publicCampaign(c models.Campaign) models.Campaign {
	c.TemplateURL = TemplatePath(&c)
	return c
}

func publicCampaigns(list []models.Campaign) []models.Campaign {
	out := make([]models.Campaign, len(list))
	for i, c := range list {
		out[i] = publicCampaign(c)
	}
	return out
}

// GetBySlug handles GET /api/campaigns/{slug}
func (c *CampaignController) GetBySlug(w http.ResponseWriter, r *http.Request) {
	slug := strings.TrimSpace(r.PathValue("slug"))
	log.Printf("🔍 Campaign lookup: %s", slug)

	campaign, err := c.campaignService.GetBySlug(r.Context(), slug)
	if err != nil {
		writeServiceError(w, "GetBySlug", err)
		return
	}
	writeJSON(w, http.StatusOK, publicCampaign(*campaign))
}

// ListActive handles GET /api/campaigns
func (c *CampaignController) ListActive(w http.ResponseWriter, r *http.Request) {
	campaigns, err := c.campaignService.ListActive(r.Context())
	if err != nil {
		writeServiceError(w, "ListActive", err)
		return
	}
	writeJSON(w, http.StatusOK, publicCampaigns(campaigns))
}

// AdminList handles GET /admin/campaigns
func (c *CampaignController) AdminList(w http.ResponseWriter, r *http.Request) {
	campaigns, err := c.campaignService.ListAll(r.Context())
	if err != nil {
		writeServiceError(w, "AdminList", err)
		return
	}
	writeJSON(w, http.StatusOK, publicCampaigns(campaigns))
}

// AdminGet handles GET /admin/campaigns/{id}
func (c *CampaignController) AdminGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid campaign ID")
		return
	}
	campaign, err := c.campaignService.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, "AdminGet", err)
		return
	}
	writeJSON(w, http.StatusOK, publicCampaign(*campaign))
}

// Create handles POST /admin/campaigns (multipart: name, slug, type, template)
func (c *CampaignController) Create(w http.ResponseWriter, r *http.Request) {
	if err := c.parseForm(w, r); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	req := &models.CreateCampaignRequest{
		Name: r.FormValue("name"),
		Slug: r.FormValue("slug"),
		Type: models.CampaignType(r.FormValue("type")),
	}
	template, err := c.readTemplate(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if template == nil {
		writeError(w, http.StatusBadRequest, "Campaign name, slug, and template are required")
		return
	}

	log.Printf("📥 Creating campaign %q (%s), template %d bytes", req.Name, req.Slug, len(template.Data))
	campaign, err := c.campaignService.Create(r.Context(), req, *template)
	if err != nil {
		writeServiceError(w, "Create campaign", err)
		return
	}
	writeJSON(w, http.StatusCreated, publicCampaign(*campaign))
}

// Update handles PUT /admin/campaigns/{id} (multipart, every field optional)
func (c *CampaignController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid campaign ID")
		return
	}
	if err := c.parseForm(w, r); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	req := &models.UpdateCampaignRequest{}
	if v, ok := formValue(r, "name"); ok {
		req.Name = &v
	}
	if v, ok := formValue(r, "slug"); ok {
		req.Slug = &v
	}
	if v, ok := formValue(r, "type"); ok {
		t := models.CampaignType(v)
		req.Type = &t
	}
	if v, ok := formValue(r, "isActive"); ok {
		active, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "isActive must be true or false")
			return
		}
		req.IsActive = &active
	}

	template, err := c.readTemplate(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	campaign, err := c.campaignService.Update(r.Context(), id, req, template)
	if err != nil {
		writeServiceError(w, "Update campaign", err)
		return
	}
	log.Printf("✓ Campaign %d updated", id)
	writeJSON(w, http.StatusOK, publicCampaign(*campaign))
}

// Delete handles DELETE /admin/campaigns/{id}
func (c *CampaignController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid campaign ID")
		return
	}
	if err := c.campaignService.Delete(r.Context(), id); err != nil {
		writeServiceError(w, "Delete campaign", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Toggle handles POST /admin/campaigns/{id}/toggle
func (c *CampaignController) Toggle(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid campaign ID")
		return
	}
	campaign, err := c.campaignService.Toggle(r.Context(), id)
	if err != nil {
		writeServiceError(w, "Toggle campaign", err)
		return
	}
	log.Printf("🔄 Campaign %d active=%t", id, campaign.IsActive)
	writeJSON(w, http.StatusOK, publicCampaign(*campaign))
}

func (c *CampaignController) parseForm(w http.ResponseWriter, r *http.Request) error {
	// one extra megabyte for the text fields
	r.Body = http.MaxBytesReader(w, r.Body, c.maxUploadBytes+1<<20)
	if err := r.ParseMultipartForm(c.maxUploadBytes); err != nil {
		return fmt.Errorf("invalid form: %v", err)
	}
	return nil
}

// readTemplate returns the uploaded template, or nil when none was sent
func (c *CampaignController) readTemplate(r *http.Request) (*service.TemplateUpload, error) {
	file, header, err := r.FormFile("template")
	if err == http.ErrMissingFile {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("invalid template upload: %v", err)
	}
	defer file.Close()

	if header.Size > c.maxUploadBytes {
		return nil, fmt.Errorf("template exceeds %d MB", c.maxUploadBytes>>20)
	}
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read template: %v", err)
	}
	if len(data) == 0 {
		return nil, nil
	}
	return &service.TemplateUpload{Data: data}, nil
}

// formValue reports whether key was sent at all, so empty strings can be told apart from absent fields
func formValue(r *http.Request, key string) (string, bool) {
	if r.MultipartForm == nil {
		return "", false
	}
	values, ok := r.MultipartForm.Value[key]
	if !ok || len(values) == 0 {
		return "", false
	}
	return values[0], true
}
