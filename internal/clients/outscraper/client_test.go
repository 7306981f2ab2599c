// internal/clients/outscraper/client_test.go
package outscraper

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
	return NewClient(config.OutscraperConfig{
		BaseURL:      server.URL,
		APIKey:       "test-key",
		ReviewsLimit: 60,
		Timeout:      2000,
	})
}

func TestFetchByQuery(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/maps/reviews-v3", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-API-KEY"))
		assert.Equal(t, "Smile Care Dental Bengaluru", r.URL.Query().Get("query"))
		assert.Equal(t, "60", r.URL.Query().Get("reviewsLimit"))

		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": []map[string]interface{}{{
				"name": "Smile Care Dental",
				"reviews_data": []map[string]interface{}{
					{"review_text": "Great visit last week.", "review_timestamp": 1755000000},
					{"review_text": "Appointment ran on time.", "review_timestamp": 1754000000},
				},
			}},
		})
	})

	batch, err := c.FetchByQuery(context.Background(), "Smile Care Dental Bengaluru", 0)
	require.NoError(t, err)
	require.Len(t, batch, 2)
	assert.Equal(t, "Great visit last week.", batch[0].Text)
	assert.Equal(t, int64(1755000000), batch[0].Timestamp)
}

func TestFetchByQueryNoPlaces(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"data": []interface{}{}})
	})

	batch, err := c.FetchByQuery(context.Background(), "nowhere", 0)
	require.NoError(t, err)
	assert.Empty(t, batch)
}

func TestFetchByQueryHTTPError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
	})

	_, err := c.FetchByQuery(context.Background(), "anywhere", 0)
	require.Error(t, err)
}
