package controller

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"twibbon-campaign/models"
	"twibbon-campaign/service"
)

// AdminController handles admin authentication and settings
type AdminController struct {
	adminService service.AdminServiceInterface
	secureCookie bool
}

// NewAdminController creates a new AdminController.
// secureCookie marks the session cookie HTTPS-only.
func NewAdminController(adminService service.AdminServiceInterface, secureCookie bool) *AdminController {
	return &AdminController{
		adminService: adminService,
		secureCookie: secureCookie,
	}
}

// Login handles POST /admin/login
func (c *AdminController) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4<<10)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Password == "" {
		writeError(w, http.StatusBadRequest, "Password is required")
		return
	}

	token, expires, err := c.adminService.Login(r.Context(), req.Password)
	if err != nil {
		writeServiceError(w, "Login", err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     service.SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   c.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, map[string]interface{}{"status": "ok", "expiresAt": expires})
}

// Logout handles POST /admin/logout
func (c *AdminController) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     service.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	log.Printf("✓ Admin logged out")
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Session handles GET /admin/session, answering only when the cookie is valid
func (c *AdminController) Session(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"authenticated": true})
}

// ChangePassword handles PUT /admin/password
func (c *AdminController) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req models.ChangePasswordRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4<<10)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := c.adminService.ChangePassword(r.Context(), req.CurrentPassword, req.NewPassword); err != nil {
		writeServiceError(w, "ChangePassword", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ResetPassword handles POST /admin/password/reset
func (c *AdminController) ResetPassword(w http.ResponseWriter, r *http.Request) {
	if err := c.adminService.ResetPassword(r.Context()); err != nil {
		writeServiceError(w, "ResetPassword", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ListSettings handles GET /admin/settings
func (c *AdminController) ListSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := c.adminService.ListSettings(r.Context())
	if err != nil {
		writeServiceError(w, "ListSettings", err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

// GetSetting handles GET /admin/settings/{key}
func (c *AdminController) GetSetting(w http.ResponseWriter, r *http.Request) {
	setting, err := c.adminService.GetSetting(r.Context(), r.PathValue("key"))
	if err != nil {
		writeServiceError(w, "GetSetting", err)
		return
	}
	writeJSON(w, http.StatusOK, setting)
}

// UpdateSetting handles PUT /admin/settings/{key}
func (c *AdminController) UpdateSetting(w http.ResponseWriter, r *http.Request) {
	var req models.SettingUpdateRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64<<10)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	key := strings.TrimSpace(r.PathValue("key"))
	setting, err := c.adminService.UpdateSetting(r.Context(), key, req.Value)
	if err != nil {
		writeServiceError(w, "UpdateSetting", err)
		return
	}
	writeJSON(w, http.StatusOK, setting)
}
