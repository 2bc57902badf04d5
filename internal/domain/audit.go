package domain

import "time"

// AuditLog represents an audit log entry for tracking important actions
type AuditLog struct {
	ID        int64          `db:"id" json:"id"`
	AccountID int64          `db:"account_id" json:"account_id"`
	Action    string         `db:"action" json:"action"`
	Category  string         `db:"category" json:"category"`
	Details   map[string]any `db:"details" json:"details"`
	IP        string         `db:"ip" json:"ip,omitempty"`
	UserAgent string         `db:"user_agent" json:"user_agent,omitempty"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
}

// Audit action categories
const (
	AuditCategoryAuth        = "auth"
	AuditCategoryProgression = "progression"
	AuditCategorySettings    = "settings"
)

// Audit actions
const (
	// Auth actions
	AuditActionRegister     = "register"
	AuditActionLogin        = "login"
	AuditActionDiscordLogin = "discord_login"
	AuditActionLogout       = "logout"

	// Progression actions
	AuditActionPlayerCreated = "player_created"
	AuditActionTrain         = "train"
	AuditActionSave          = "save"
	AuditActionUnlock        = "achievement_unlock"

	// Settings actions
	AuditActionSettings = "settings_update"
	AuditActionRename   = "rename"
)
