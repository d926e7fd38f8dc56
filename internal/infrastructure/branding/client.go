package branding

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"orbit.backend/internal/domain/entities"
	domainerrors "orbit.backend/internal/domain/errors"
)

// brandingPayload is the wire shape served by the branding service
type brandingPayload struct {
	LogoURL        *string              `json:"logoUrl"`
	BrandColors    entities.BrandColors `json:"brandColors"`
	HeroTitle      string               `json:"heroTitle"`
	HeroSubtitle   string               `json:"heroSubtitle"`
	SEOTitle       string               `json:"seoTitle"`
	SEODescription string               `json:"seoDescription"`
}

// Client reads store customization from the remote branding service
type Client struct {
	httpClient *resty.Client
}

// NewClient creates a branding client. The caller bounds every request with
// its context; the client itself never retries.
func NewClient(baseURL string, timeout time.Duration) *Client {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetRetryCount(0).
		SetHeader("Accept", "application/json")

	return &Client{httpClient: client}
}

// GetByStoreID fetches GET /stores/{id}/customization.
func (c *Client) GetByStoreID(ctx context.Context, storeID uuid.UUID) (*entities.Customization, error) {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetPathParam("storeId", storeID.String()).
		Get("/stores/{storeId}/customization")
	if err != nil {
		return nil, fmt.Errorf("branding service: %v: %w", err, domainerrors.ErrDataSourceUnavailable)
	}

	switch {
	case resp.StatusCode() == http.StatusNotFound:
		return nil, domainerrors.ErrNotFound
	case resp.StatusCode() != http.StatusOK:
		return nil, fmt.Errorf("branding service status %d: %w", resp.StatusCode(), domainerrors.ErrDataSourceUnavailable)
	}

	var payload brandingPayload
	if err := json.Unmarshal(resp.Body(), &payload); err != nil {
		return nil, fmt.Errorf("decode branding payload: %v: %w", err, domainerrors.ErrMalformedPayload)
	}

	return &entities.Customization{
		StoreID:        storeID,
		LogoURL:        null.StringFromPtr(payload.LogoURL),
		Colors:         payload.BrandColors,
		HeroTitle:      payload.HeroTitle,
		HeroSubtitle:   payload.HeroSubtitle,
		SEOTitle:       payload.SEOTitle,
		SEODescription: payload.SEODescription,
	}, nil
}
