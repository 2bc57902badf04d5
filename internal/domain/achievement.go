package domain

import "time"

// RequirementKind - тип условия достижения
type RequirementKind string

const (
	RequirementLevel    RequirementKind = "level"
	RequirementStrength RequirementKind = "str"
	RequirementGold     RequirementKind = "gold"
)

// Known reports whether the evaluator understands the kind.
func (k RequirementKind) Known() bool {
	switch k {
	case RequirementLevel, RequirementStrength, RequirementGold:
		return true
	}
	return false
}

// LocalizedText is a title or description in every supported locale.
type LocalizedText struct {
	EN string `json:"en"`
	RU string `json:"ru"`
}

// In returns the text for locale, falling back to English.
func (t LocalizedText) In(locale string) string {
	if locale == "ru" && t.RU != "" {
		return t.RU
	}
	return t.EN
}

// Achievement is a catalog entry.
type Achievement struct {
	ID               string          `db:"id" json:"id"`
	Title            LocalizedText   `json:"title"`
	Description      LocalizedText   `json:"description"`
	Icon             string          `db:"icon" json:"icon"`
	RequirementKind  RequirementKind `db:"requirement_type" json:"requirement_type"`
	RequirementValue int64           `db:"requirement_value" json:"requirement_value"`
	SortOrder        int             `db:"sort_order" json:"-"`
}

// Unlock records that a player has satisfied an achievement.
type Unlock struct {
	PlayerID      int64     `db:"player_id" json:"player_id"`
	AchievementID string    `db:"achievement_id" json:"achievement_id"`
	UnlockedAt    time.Time `db:"unlocked_at" json:"unlocked_at"`
}
