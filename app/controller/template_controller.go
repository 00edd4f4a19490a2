package controller

import (
	"fmt"
	"log"
	"net/http"

	"twibbon-campaign/service"
)

// TemplateController serves normalised campaign templates to the editor
type TemplateController struct {
	templateService service.TemplateServiceInterface
}

// NewTemplateController creates a new TemplateController
func NewTemplateController(templateService service.TemplateServiceInterface) *TemplateController {
	return &TemplateController{templateService: templateService}
}

// GetTemplate handles GET /templates/{id}?size=full|thumb
// The editor draws the template onto a canvas, so the response is always
// readable cross-origin.
func (c *TemplateController) GetTemplate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.Error(w, "Invalid campaign ID", http.StatusBadRequest)
		return
	}
	size := r.URL.Query().Get("size")

	data, contentType, err := c.templateService.Get(r.Context(), id, size)
	if err != nil {
		status := statusForError(err)
		if status == http.StatusInternalServerError {
			log.Printf("❌ GetTemplate: campaign %d: %v", id, err)
		}
		http.Error(w, http.StatusText(status), status)
		return
	}

	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Cross-Origin-Resource-Policy", "cross-origin")
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(data)))
	if r.URL.Query().Get("v") != "" {
		w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	} else {
		w.Header().Set("Cache-Control", "public, max-age=300")
	}
	w.WriteHeader(http.StatusOK)
	if r.Method != http.MethodHead {
		w.Write(data)
	}
}
