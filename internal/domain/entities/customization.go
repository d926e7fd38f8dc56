package entities

import (
	"regexp"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// BrandColors holds the color tokens of a storefront
type BrandColors struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
	Accent    string `json:"accent"`
}

// Customization is the branding payload of a store
type Customization struct {
	StoreID        uuid.UUID   `json:"storeId"`
	LogoURL        null.String `json:"logoUrl"`
	Colors         BrandColors `json:"colors"`
	HeroTitle      string      `json:"heroTitle"`
	HeroSubtitle   string      `json:"heroSubtitle"`
	SEOTitle       string      `json:"seoTitle"`
	SEODescription string      `json:"seoDescription"`
	IsDefault      bool        `json:"isDefault"`
}

// Neutral colors used whenever a store has no usable branding.
const (
	DefaultPrimaryColor   = "#000000"
	DefaultSecondaryColor = "#FFFFFF"
	DefaultAccentColor    = "#9CA3AF"
)

// DefaultCustomization returns the total default branding for a store.
func DefaultCustomization(storeID uuid.UUID) *Customization {
	return &Customization{
		StoreID: storeID,
		LogoURL: null.String{},
		Colors: BrandColors{
			Primary:   DefaultPrimaryColor,
			Secondary: DefaultSecondaryColor,
			Accent:    DefaultAccentColor,
		},
		IsDefault: true,
	}
}

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Valid reports whether every color token is a #RGB or #RRGGBB value.
func (c BrandColors) Valid() bool {
	return hexColor.MatchString(c.Primary) &&
		hexColor.MatchString(c.Secondary) &&
		hexColor.MatchString(c.Accent)
}

// CustomizationInput represents an admin edit of a store's branding
type CustomizationInput struct {
	LogoURL        string      `json:"logoUrl,omitempty"`
	Colors         BrandColors `json:"colors"`
	HeroTitle      string      `json:"heroTitle"`
	HeroSubtitle   string      `json:"heroSubtitle"`
	SEOTitle       string      `json:"seoTitle"`
	SEODescription string      `json:"seoDescription"`
}
