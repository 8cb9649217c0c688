package billing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	secret := "whsec_test"
	body := []byte(`{"meta":{"event_name":"subscription_created"}}`)

	assert.True(t, VerifySignature(secret, body, sign(secret, body)))
	assert.False(t, VerifySignature(secret, body, sign("wrong-secret", body)))
	assert.False(t, VerifySignature(secret, body, ""))
	assert.False(t, VerifySignature(secret, body, "deadbeef"))

	// Signature over a different body does not transfer.
	other := []byte(`{"meta":{"event_name":"subscription_expired"}}`)
	assert.False(t, VerifySignature(secret, other, sign(secret, body)))
}

func TestParseWebhook(t *testing.T) {
	body := []byte(`{
		"meta": {
			"event_name": "subscription_created",
			"custom_data": {"user_id": "e7b8f3a0-1111-2222-3333-444455556666"}
		},
		"data": {
			"id": "12345",
			"attributes": {
				"status": "on_trial",
				"variant_id": 101,
				"customer_id": 777,
				"user_email": "fan@example.com",
				"cancelled": false,
				"first_subscription_item": {"price_id": 9001, "quantity": 1}
			}
		}
	}`)

	event, err := ParseWebhook(body)
	require.NoError(t, err)

	assert.Equal(t, EventSubscriptionCreated, event.EventName)
	assert.Equal(t, "e7b8f3a0-1111-2222-3333-444455556666", event.UserID)

	require.NotNil(t, event.Subscription)
	assert.Equal(t, "12345", event.Subscription.ID)
	assert.Equal(t, "on_trial", event.Subscription.Status)
	assert.Equal(t, "101", event.Subscription.VariantID)
	assert.Equal(t, "777", event.Subscription.CustomerID)
	assert.Equal(t, "fan@example.com", event.Subscription.UserEmail)
	assert.Equal(t, "9001", event.Subscription.PriceID)
}

func TestParseWebhookWithoutCustomData(t *testing.T) {
	body := []byte(`{
		"meta": {"event_name": "subscription_expired"},
		"data": {"id": "9", "attributes": {"status": "expired", "variant_id": 101, "customer_id": 1}}
	}`)

	event, err := ParseWebhook(body)
	require.NoError(t, err)
	assert.Equal(t, EventSubscriptionExpired, event.EventName)
	assert.Empty(t, event.UserID)
	assert.Empty(t, event.Subscription.PriceID)
}

func TestParseWebhookRejectsGarbage(t *testing.T) {
	_, err := ParseWebhook([]byte("not json"))
	assert.Error(t, err)

	_, err = ParseWebhook([]byte(`{"data":{"id":"1"}}`))
	assert.Error(t, err, "missing event name")
}
