package dashboard

import (
	"strings"

	"github.com/klondike-tools/dash/pkg/models"
	"github.com/klondike-tools/dash/pkg/prefs"
)

// matchesSearch does a case-insensitive substring match against the
// fields a user would reach for.
func matchesSearch(f models.Feature, query string) bool {
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(f.ID), q) ||
		strings.Contains(strings.ToLower(f.Description), q) ||
		strings.Contains(strings.ToLower(string(f.Category)), q) ||
		strings.Contains(strings.ToLower(f.Notes), q)
}

// nextStatusFilter cycles all → each lifecycle state → all.
func nextStatusFilter(cur models.FeatureStatus) models.FeatureStatus {
	if cur == "" {
		return models.AllStatuses[0]
	}
	for i, s := range models.AllStatuses {
		if s == cur {
			if i == len(models.AllStatuses)-1 {
				return ""
			}
			return models.AllStatuses[i+1]
		}
	}
	return ""
}

var categoryCycle = []models.FeatureCategory{
	models.CategoryCore,
	models.CategoryUI,
	models.CategoryAPI,
	models.CategoryTesting,
	models.CategoryInfrastructure,
	models.CategoryDocs,
	models.CategorySecurity,
	models.CategoryPerformance,
}

// nextCategoryFilter cycles all → each category → all.
func nextCategoryFilter(cur models.FeatureCategory) models.FeatureCategory {
	if cur == "" {
		return categoryCycle[0]
	}
	for i, c := range categoryCycle {
		if c == cur {
			if i == len(categoryCycle)-1 {
				return ""
			}
			return categoryCycle[i+1]
		}
	}
	return ""
}

// nextThemeMode cycles dark → light → system.
func nextThemeMode(cur prefs.ThemeMode) prefs.ThemeMode {
	switch cur {
	case prefs.ModeDark:
		return prefs.ModeLight
	case prefs.ModeLight:
		return prefs.ModeSystem
	default:
		return prefs.ModeDark
	}
}

// nextAccentID cycles through the built-in accent palette.
func nextAccentID(cur string) string {
	for i, c := range prefs.AccentColors {
		if c.ID == cur {
			return prefs.AccentColors[(i+1)%len(prefs.AccentColors)].ID
		}
	}
	return prefs.AccentColors[0].ID
}

// nextWidgetSize cycles small → medium → large → full.
func nextWidgetSize(cur prefs.WidgetSize) prefs.WidgetSize {
	switch cur {
	case prefs.SizeSmall:
		return prefs.SizeMedium
	case prefs.SizeMedium:
		return prefs.SizeLarge
	case prefs.SizeLarge:
		return prefs.SizeFull
	default:
		return prefs.SizeSmall
	}
}
