package domain

import "time"

// Gender
const (
	GenderMale   = "male"
	GenderFemale = "female"
)

// Стартовые значения нового персонажа
const (
	DefaultLevel      = 1
	DefaultHP         = 100
	DefaultGold       = 500
	DefaultGems       = 50
	DefaultWeapon     = "Wooden Sword"
	DefaultAttribute  = 1
	DefaultStatPoints = 5
	DefaultLocale     = "en"
	DefaultTheme      = "#4a90e2"

	BaseHP        = 100
	HPPerVitality = 10
)

// Player is the persistent progression state of one account.
type Player struct {
	ID         int64     `db:"id" json:"id"`
	AccountID  int64     `db:"account_id" json:"account_id"`
	Name       string    `db:"name" json:"name"`
	Gender     string    `db:"gender" json:"gender"`
	Level      int       `db:"level" json:"level"`
	Experience int64     `db:"experience" json:"experience"`
	HP         int       `db:"hp" json:"hp"`
	MaxHP      int       `db:"max_hp" json:"max_hp"`
	Gold       int64     `db:"gold" json:"gold"`
	Gems       int64     `db:"gems" json:"gems"`
	Weapon     string    `db:"weapon" json:"weapon"`
	Strength   int       `db:"strength" json:"strength"`
	Dexterity  int       `db:"dexterity" json:"dexterity"`
	Vitality   int       `db:"vitality" json:"vitality"`
	StatPoints int       `db:"stat_points" json:"stat_points"`
	Locale     string    `db:"locale" json:"locale"`
	Theme      string    `db:"theme" json:"theme"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	LastSave   time.Time `db:"last_save" json:"last_save"`
}

// NewDefaultPlayer builds the record synthesized on first access of an account.
func NewDefaultPlayer(accountID int64, name string, now time.Time) *Player {
	return &Player{
		AccountID:  accountID,
		Name:       name,
		Gender:     GenderMale,
		Level:      DefaultLevel,
		HP:         DefaultHP,
		MaxHP:      DefaultHP,
		Gold:       DefaultGold,
		Gems:       DefaultGems,
		Weapon:     DefaultWeapon,
		Strength:   DefaultAttribute,
		Dexterity:  DefaultAttribute,
		Vitality:   DefaultAttribute,
		StatPoints: DefaultStatPoints,
		Locale:     DefaultLocale,
		Theme:      DefaultTheme,
		CreatedAt:  now,
		LastSave:   now,
	}
}

// MaxHPFor returns max hp for the given vitality.
func MaxHPFor(vitality int) int {
	return BaseHP + vitality*HPPerVitality
}

// Allocation is a validated stat point spend. Points is always the sum of
// the three deltas.
type Allocation struct {
	Strength  int `json:"strength"`
	Dexterity int `json:"dexterity"`
	Vitality  int `json:"vitality"`
}

// Points returns how many stat points the allocation costs.
func (a Allocation) Points() int {
	return a.Strength + a.Dexterity + a.Vitality
}

// Apply mutates p in place. Callers must have checked StatPoints first.
func (a Allocation) Apply(p *Player, at time.Time) {
	p.Strength += a.Strength
	p.Dexterity += a.Dexterity
	p.Vitality += a.Vitality
	p.StatPoints -= a.Points()
	p.MaxHP = MaxHPFor(p.Vitality)
	p.LastSave = at
}

// SettingsUpdate holds optional settings changes; nil means unchanged.
type SettingsUpdate struct {
	Locale *string `json:"locale,omitempty"`
	Theme  *string `json:"theme,omitempty"`
}

// Empty reports whether the update changes nothing.
func (s SettingsUpdate) Empty() bool {
	return s.Locale == nil && s.Theme == nil
}
