package entities

// ThemeFamily is a canonical storefront template category
type ThemeFamily string

const (
	ThemeFamilyToys         ThemeFamily = "TOYS"
	ThemeFamilyElectronics  ThemeFamily = "ELECTRONICS"
	ThemeFamilyFashion      ThemeFamily = "FASHION"
	ThemeFamilyCosmetics    ThemeFamily = "COSMETICS"
	ThemeFamilyFoodBeverage ThemeFamily = "FOOD_BEVERAGE"
	ThemeFamilyGeneral      ThemeFamily = "GENERAL"
)

// ThemeFamilies lists the closed set of families.
var ThemeFamilies = []ThemeFamily{
	ThemeFamilyToys,
	ThemeFamilyElectronics,
	ThemeFamilyFashion,
	ThemeFamilyCosmetics,
	ThemeFamilyFoodBeverage,
	ThemeFamilyGeneral,
}

// IsValid reports whether f is one of the canonical families.
func (f ThemeFamily) IsValid() bool {
	for _, known := range ThemeFamilies {
		if f == known {
			return true
		}
	}
	return false
}
