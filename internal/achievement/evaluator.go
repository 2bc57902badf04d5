package achievement

import "rpg_tracker/internal/domain"

// Satisfied reports whether p meets the requirement of a. Kinds the
// evaluator does not know are never satisfied.
func Satisfied(p *domain.Player, a domain.Achievement) bool {
	switch a.RequirementKind {
	case domain.RequirementLevel:
		return int64(p.Level) >= a.RequirementValue
	case domain.RequirementStrength:
		return int64(p.Strength) >= a.RequirementValue
	case domain.RequirementGold:
		return p.Gold >= a.RequirementValue
	default:
		return false
	}
}

// Evaluate returns the catalog entries p satisfies that are not in unlocked,
// in catalog order. It has no side effects.
func Evaluate(p *domain.Player, catalog *Catalog, unlocked map[string]bool) []domain.Achievement {
	var out []domain.Achievement
	for _, a := range catalog.entries {
		if unlocked[a.ID] {
			continue
		}
		if Satisfied(p, a) {
			out = append(out, a)
		}
	}
	return out
}
