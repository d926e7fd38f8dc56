package usecases

import (
	"fmt"
	"strings"

	"orbit.backend/internal/domain/entities"
)

// themeAliases lists every theme identifier the platform has ever issued,
// grouped by family. Entries are append-only: stores persisted with an old
// slug must keep resolving. Spellings that differ only in case or separators
// collapse to one key after normalization.
var themeAliases = map[entities.ThemeFamily][]string{
	entities.ThemeFamilyToys: {
		"toy", "toys", "toys-theme", "toystore", "toy-store",
		"toys-1", "toys-2", "toys-3",
		"toystore-wonderland",
		"toy-upfront", "toy-upfront-2", "toy-upfront-3",
		"toys-upfront", "toys-upfront-2", "toys-upfront-3",
		"kids", "games",
	},
	entities.ThemeFamilyElectronics: {
		"electronic", "electronics", "electronics-theme",
		"electronics-upfront", "electronics-upfront-2", "electronics-upfront-3",
		"electronics-1", "electronics-2", "electronics-3",
		"electronics_1", "electronics_2", "electronics_3",
		"electronics-store", "electronics-pro", "electronics-modern",
		"tech", "gadgets",
	},
	entities.ThemeFamilyFashion: {
		"fashion", "fashion-theme",
		"fashion-upfront", "fashion-upfront-2", "fashion-upfront-3",
		"fashion_upfront", "fashion_upfront_2",
		"fashion-1", "fashion-2", "fashion-3",
		"clothing", "clothing-boutique", "clothing-modern", "apparel",
		"footwear", "footwear-1", "footwear-gallery", "FOOTWEAR UPFRONT",
		"jewellery", "jewelry",
		"jewellery-1", "jewellery-2", "jewellery-3",
		"jewellery-showcase", "jewellery-upfront", "jewellery-upfront-1",
		"Jewellery_Upfront", "Jewellery_Upfront_2",
	},
	entities.ThemeFamilyCosmetics: {
		"cosmetics", "cosmetic", "cosmetics-luxe",
		"beauty", "beauty-1", "beauty-2", "beauty-3",
		"beauty-theme-2", "beauty-theme-3",
		"beauty-personal-care", "beauty-personal-care-upfront",
		"perfume", "perfume-theme-2",
		"perfume-1", "perfume-2", "perfume-3",
		"perfume-elite", "perfume-upfront",
		"perfume-upfront-theme2", "perfume-upfront-theme3",
		"fragrance", "fragrance-1", "fragrance-2", "fragrance-3",
		"fragrance-rose-essence", "fragrance-essence-noir", "fragrance-botanical-green",
	},
	entities.ThemeFamilyFoodBeverage: {
		"food", "beverage", "food-beverage", "food-and-beverage", "grocery",
		"food-beverage-1", "food-beverage-2", "food-beverage-3",
		"food-deluxe",
		"food_1", "food_2", "food_3",
	},
	entities.ThemeFamilyGeneral: {
		"general", "default", "orbit-upfront", "orbit_upfront",
	},
}

var themeLookup = buildThemeLookup(themeAliases)

// buildThemeLookup inverts the alias table into normalized key -> family.
// An alias claimed by two families is a programming error.
func buildThemeLookup(table map[entities.ThemeFamily][]string) map[string]entities.ThemeFamily {
	lookup := make(map[string]entities.ThemeFamily)
	add := func(alias string, family entities.ThemeFamily) {
		key := NormalizeThemeKey(alias)
		if key == "" {
			panic(fmt.Sprintf("theme alias %q normalizes to an empty key", alias))
		}
		if existing, ok := lookup[key]; ok && existing != family {
			panic(fmt.Sprintf("theme alias %q claimed by both %s and %s", alias, existing, family))
		}
		lookup[key] = family
	}

	for _, family := range entities.ThemeFamilies {
		add(string(family), family)
		for _, alias := range table[family] {
			add(alias, family)
		}
	}
	return lookup
}

// NormalizeThemeKey lowercases raw, trims it and collapses every run of
// non-alphanumeric characters into a single hyphen.
func NormalizeThemeKey(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	pendingHyphen := false
	for _, r := range strings.ToLower(strings.TrimSpace(raw)) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}
	return b.String()
}

// LookupThemeFamily returns the family for raw and whether an alias matched.
func LookupThemeFamily(raw string) (entities.ThemeFamily, bool) {
	family, ok := themeLookup[NormalizeThemeKey(raw)]
	return family, ok
}

// ResolveThemeFamily maps any theme identifier to a family. It is total:
// empty or unknown identifiers resolve to GENERAL.
func ResolveThemeFamily(raw string) entities.ThemeFamily {
	if family, ok := LookupThemeFamily(raw); ok {
		return family
	}
	return entities.ThemeFamilyGeneral
}

// ThemeAliases returns a copy of the alias table.
func ThemeAliases() map[entities.ThemeFamily][]string {
	out := make(map[entities.ThemeFamily][]string, len(themeAliases))
	for family, aliases := range themeAliases {
		out[family] = append([]string(nil), aliases...)
	}
	return out
}
