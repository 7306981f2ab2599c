// internal/clients/geoiq/client_test.go
package geoiq

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kyb-workers/internal/common/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(config.GeoIQConfig{
		BaseURL:      server.URL,
		APIKey:       "test-key",
		RadiusMeters: 1000,
		Timeout:      2000,
	})
}

func TestLookupAddressTopLevelData(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/getvariables", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))

		var payload map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "MG Road, Bengaluru", payload["address"])
		assert.Equal(t, float64(1000), payload["radius"])

		json.NewEncoder(w).Encode(map[string]interface{}{
			"status": 200,
			"data":   map[string]float64{"w_hh_income_10l_above_perc": 28.5},
		})
	})

	got, err := c.LookupAddress(context.Background(), "MG Road, Bengaluru")
	require.NoError(t, err)
	assert.Equal(t, 28.5, got.Variables["w_hh_income_10l_above_perc"])
}

func TestLookupAddressNestedBodyString(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := json.Marshal(map[string]interface{}{
			"status": 200,
			"data":   map[string]float64{"p_retail_gc_np": 12},
		})
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status": 200,
			"body":   string(body),
		})
	})

	got, err := c.LookupAddress(context.Background(), "Anna Salai, Chennai")
	require.NoError(t, err)
	assert.Equal(t, 12.0, got.Variables["p_retail_gc_np"])
}

func TestLookupAddressHTTPError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	_, err := c.LookupAddress(context.Background(), "anywhere")
	require.Error(t, err)
}

func TestLookupAddressBadPayloadStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"status": 500})
	})

	_, err := c.LookupAddress(context.Background(), "anywhere")
	require.Error(t, err)
}
