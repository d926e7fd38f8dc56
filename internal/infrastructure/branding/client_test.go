package branding

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	domainerrors "orbit.backend/internal/domain/errors"
)

func TestClient_GetByStoreID_Success(t *testing.T) {
	storeID := uuid.New()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/stores/"+storeID.String()+"/customization", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"logoUrl":"https://cdn.example/logo.png","brandColors":{"primary":"#123456","secondary":"#fff","accent":"#abcdef"},"heroTitle":"Gadgets","seoTitle":"Acme"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	got, err := c.GetByStoreID(context.Background(), storeID)
	require.NoError(t, err)
	require.Equal(t, storeID, got.StoreID)
	require.Equal(t, "https://cdn.example/logo.png", got.LogoURL.String)
	require.Equal(t, "#123456", got.Colors.Primary)
	require.Equal(t, "Gadgets", got.HeroTitle)
	require.False(t, got.IsDefault)
}

func TestClient_GetByStoreID_NullLogo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"logoUrl":null,"brandColors":{"primary":"#000","secondary":"#fff","accent":"#999"}}`))
	}))
	defer srv.Close()

	got, err := NewClient(srv.URL, time.Second).GetByStoreID(context.Background(), uuid.New())
	require.NoError(t, err)
	require.False(t, got.LogoURL.Valid)
}

func TestClient_GetByStoreID_ErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{name: "not found", status: http.StatusNotFound, body: `{}`, wantErr: domainerrors.ErrNotFound},
		{name: "server error", status: http.StatusBadGateway, body: `oops`, wantErr: domainerrors.ErrDataSourceUnavailable},
		{name: "malformed", status: http.StatusOK, body: `{"brandColors":`, wantErr: domainerrors.ErrMalformedPayload},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewClient(srv.URL, time.Second).GetByStoreID(context.Background(), uuid.New())
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestClient_GetByStoreID_NoRetryOnTimeout(t *testing.T) {
	var calls int32
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := NewClient(srv.URL, 5*time.Second).GetByStoreID(ctx, uuid.New())
	require.ErrorIs(t, err, domainerrors.ErrDataSourceUnavailable)
	require.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestClient_GetByStoreID_Unreachable(t *testing.T) {
	_, err := NewClient("http://127.0.0.1:1", 200*time.Millisecond).GetByStoreID(context.Background(), uuid.New())
	require.ErrorIs(t, err, domainerrors.ErrDataSourceUnavailable)
}
