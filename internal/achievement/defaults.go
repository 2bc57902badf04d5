package achievement

import "rpg_tracker/internal/domain"

// DefaultDefinitions is the catalog seeded on startup.
func DefaultDefinitions() []domain.Achievement {
	return []domain.Achievement{
		{
			ID:               "lvl_5",
			Title:            domain.LocalizedText{EN: "Seasoned Adventurer", RU: "Опытный искатель"},
			Description:      domain.LocalizedText{EN: "Reach level 5", RU: "Достигните 5 уровня"},
			Icon:             "trophy",
			RequirementKind:  domain.RequirementLevel,
			RequirementValue: 5,
		},
		{
			ID:               "str_10",
			Title:            domain.LocalizedText{EN: "Iron Grip", RU: "Железная хватка"},
			Description:      domain.LocalizedText{EN: "Train strength to 10", RU: "Поднимите силу до 10"},
			Icon:             "fist",
			RequirementKind:  domain.RequirementStrength,
			RequirementValue: 10,
		},
		{
			ID:               "gold_1000",
			Title:            domain.LocalizedText{EN: "Treasure Hoarder", RU: "Скопидом"},
			Description:      domain.LocalizedText{EN: "Hold 1000 gold", RU: "Накопите 1000 золота"},
			Icon:             "coins",
			RequirementKind:  domain.RequirementGold,
			RequirementValue: 1000,
		},
	}
}

// DefaultCatalog returns the catalog built from DefaultDefinitions.
func DefaultCatalog() *Catalog {
	return MustCatalog(DefaultDefinitions()...)
}
