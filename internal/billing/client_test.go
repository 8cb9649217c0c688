package billing

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/toptally/scoreboard-backend/internal/config"
)

func newTestClient(serverURL string) *Client {
	return NewClient(&config.Config{
		LemonSqueezyAPIURL:  serverURL,
		LemonSqueezyAPIKey:  "test-key",
		LemonSqueezyTimeout: 5 * time.Second,
	})
}

func TestGetSubscription(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/subscriptions/42", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/vnd.api+json", r.Header.Get("Accept"))

		w.Header().Set("Content-Type", "application/vnd.api+json")
		w.Write([]byte(`{
			"data": {
				"id": "42",
				"attributes": {
					"status": "active",
					"variant_id": 101,
					"customer_id": 777,
					"cancelled": false,
					"user_email": "fan@example.com",
					"ends_at": "2026-04-01T00:00:00Z",
					"first_subscription_item": {"price_id": 9001, "quantity": 1}
				}
			}
		}`))
	}))
	defer srv.Close()

	sub, err := newTestClient(srv.URL).GetSubscription(context.Background(), "42")
	require.NoError(t, err)

	assert.Equal(t, "42", sub.ID)
	assert.Equal(t, "active", sub.Status)
	assert.Equal(t, "101", sub.VariantID)
	assert.Equal(t, "777", sub.CustomerID)
	assert.False(t, sub.Cancelled)
	assert.Equal(t, "9001", sub.PriceID)
	require.NotNil(t, sub.EndsAt)
	assert.Equal(t, 2026, sub.EndsAt.Year())
}

func TestGetSubscriptionNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).GetSubscription(context.Background(), "42")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetSubscriptionUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).GetSubscription(context.Background(), "42")

	var upstream *UpstreamError
	require.True(t, errors.As(err, &upstream))
	assert.Equal(t, http.StatusInternalServerError, upstream.StatusCode)
}

func TestCancelSubscriptionUsesDelete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/v1/subscriptions/42", r.URL.Path)
		w.Write([]byte(`{
			"data": {
				"id": "42",
				"attributes": {
					"status": "cancelled",
					"variant_id": 101,
					"customer_id": 777,
					"cancelled": true,
					"ends_at": "2026-04-01T00:00:00Z"
				}
			}
		}`))
	}))
	defer srv.Close()

	sub, err := newTestClient(srv.URL).CancelSubscription(context.Background(), "42")
	require.NoError(t, err)
	assert.Equal(t, "cancelled", sub.Status)
	assert.True(t, sub.Cancelled)
}

func TestGetPrice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/prices/9001", r.URL.Path)
		w.Write([]byte(`{"data": {"id": "9001", "attributes": {"unit_price": 600}}}`))
	}))
	defer srv.Close()

	price, err := newTestClient(srv.URL).GetPrice(context.Background(), "9001")
	require.NoError(t, err)
	assert.Equal(t, 600, price.UnitPriceCents)
}

func TestGetVariant(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/variants/101", r.URL.Path)
		w.Write([]byte(`{"data": {"id": "101", "attributes": {"name": "Supporter Monthly", "price": 300}}}`))
	}))
	defer srv.Close()

	variant, err := newTestClient(srv.URL).GetVariant(context.Background(), "101")
	require.NoError(t, err)
	assert.Equal(t, "Supporter Monthly", variant.Name)
	assert.Equal(t, 300, variant.PriceCents)
}

func TestClientHonorsContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := newTestClient(srv.URL).GetSubscription(ctx, "42")
	assert.Error(t, err)
}
