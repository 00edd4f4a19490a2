package controller

import (
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"twibbon-campaign/models"
	"twibbon-campaign/service"
)

// DownloadController handles download tracking and the admin download reports
type DownloadController struct {
	downloadService service.DownloadServiceInterface
	now             func() time.Time
}

// NewDownloadController creates a new DownloadController
func NewDownloadController(downloadService service.DownloadServiceInterface) *DownloadController {
	return &DownloadController{
		downloadService: downloadService,
		now:             time.Now,
	}
}

// Track handles POST /api/downloads
// Body: {"campaignId": 3, "userName": "Budi", "additionalText": "Kelas A", "campaignSlug": "wisuda-2024"}
func (c *DownloadController) Track(w http.ResponseWriter, r *http.Request) {
	var req models.TrackDownloadRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64<<10)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	log.Printf("📥 Download tracking request: campaign=%d slug=%s", req.CampaignID, req.CampaignSlug)
	resp, err := c.downloadService.Track(r.Context(), &req, clientIP(r), r.UserAgent())
	if err != nil {
		writeServiceError(w, "Track download", err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// List handles GET /admin/downloads?campaignId=&limit=100&offset=0&start=&end=
func (c *DownloadController) List(w http.ResponseWriter, r *http.Request) {
	filter, err := parseDownloadFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	downloads, err := c.downloadService.List(r.Context(), filter)
	if err != nil {
		writeServiceError(w, "List downloads", err)
		return
	}
	writeJSON(w, http.StatusOK, downloads)
}

// Stats handles GET /admin/downloads/stats?campaignId=
func (c *DownloadController) Stats(w http.ResponseWriter, r *http.Request) {
	campaignID, err := queryInt64(r, "campaignId")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	stats, err := c.downloadService.Stats(r.Context(), campaignID, c.now())
	if err != nil {
		writeServiceError(w, "Download stats", err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// Analytics handles GET /admin/analytics
func (c *DownloadController) Analytics(w http.ResponseWriter, r *http.Request) {
	analytics, err := c.downloadService.Analytics(r.Context())
	if err != nil {
		writeServiceError(w, "Campaign analytics", err)
		return
	}
	writeJSON(w, http.StatusOK, analytics)
}

// ExportCSV handles GET /admin/downloads/export.csv
func (c *DownloadController) ExportCSV(w http.ResponseWriter, r *http.Request) {
	filter, err := parseDownloadFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	filename := fmt.Sprintf("downloads_%s.csv", c.now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	if err := c.downloadService.ExportCSV(r.Context(), filter, w); err != nil {
		// headers are already sent once rows are written
		log.Printf("❌ CSV export failed: %v", err)
	}
}

func parseDownloadFilter(r *http.Request) (models.DownloadFilter, error) {
	q := r.URL.Query()
	var filter models.DownloadFilter

	campaignID, err := queryInt64(r, "campaignId")
	if err != nil {
		return filter, err
	}
	filter.CampaignID = campaignID

	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit <= 0 {
			return filter, fmt.Errorf("invalid limit")
		}
		filter.Limit = limit
	}
	if v := q.Get("offset"); v != "" {
		offset, err := strconv.Atoi(v)
		if err != nil || offset < 0 {
			return filter, fmt.Errorf("invalid offset")
		}
		filter.Offset = offset
	}
	if v := q.Get("start"); v != "" {
		t, err := parseFilterTime(v, false)
		if err != nil {
			return filter, fmt.Errorf("invalid start: %v", err)
		}
		filter.Start = &t
	}
	if v := q.Get("end"); v != "" {
		t, err := parseFilterTime(v, true)
		if err != nil {
			return filter, fmt.Errorf("invalid end: %v", err)
		}
		filter.End = &t
	}
	return filter, nil
}

// parseFilterTime accepts RFC 3339 or a bare date. A bare end date covers the whole day.
func parseFilterTime(v string, endOfDay bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, nil
}

// clientIP prefers the first X-Forwarded-For hop, then the connection address
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
