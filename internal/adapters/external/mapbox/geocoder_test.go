package mapbox

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"homyhive/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeocode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/Goa, India.json", r.URL.Path)
		assert.Equal(t, "tok", r.URL.Query().Get("access_token"))
		w.Write([]byte(`{"features":[{"center":[73.8278,15.4909]}]}`))
	}))
	defer srv.Close()

	point, err := NewGeocoder(srv.URL, "tok", 100).Geocode(context.Background(), "Goa, India")
	require.NoError(t, err)
	assert.Equal(t, "Point", point.Type)
	assert.Equal(t, [2]float64{73.8278, 15.4909}, point.Coordinates)
}

func TestGeocodeNoFeatures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"features":[]}`))
	}))
	defer srv.Close()

	_, err := NewGeocoder(srv.URL, "tok", 100).Geocode(context.Background(), "Nowhere")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestGeocodeUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewGeocoder(srv.URL, "tok", 100).Geocode(context.Background(), "Goa")
	assert.True(t, errors.Is(err, domain.ErrGateway))
}
