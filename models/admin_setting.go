package models

import "time"

// AdminSetting is a key/value row of the admin_settings table
type AdminSetting struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// LoginRequest represents the body of POST /admin/login
type LoginRequest struct {
	Password string `json:"password"`
}

// ChangePasswordRequest represents the body of PUT /admin/password
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// SettingUpdateRequest represents the body of PUT /admin/settings/:key
type SettingUpdateRequest struct {
	Value string `json:"value"`
}
