package billing

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Webhook event names Lemon Squeezy sends for subscriptions.
const (
	EventSubscriptionCreated        = "subscription_created"
	EventSubscriptionUpdated        = "subscription_updated"
	EventSubscriptionResumed        = "subscription_resumed"
	EventSubscriptionCancelled      = "subscription_cancelled"
	EventSubscriptionExpired        = "subscription_expired"
	EventSubscriptionPaymentSuccess = "subscription_payment_success"
)

// WebhookEvent is the typed form of an incoming webhook payload.
type WebhookEvent struct {
	EventName    string
	UserID       string
	Subscription *RemoteSubscription
}

type webhookMeta struct {
	EventName  string            `json:"event_name"`
	CustomData map[string]string `json:"custom_data"`
}

type webhookPayload struct {
	Meta webhookMeta                 `json:"meta"`
	Data resource[subscriptionAttrs] `json:"data"`
}

// VerifySignature checks the X-Signature header: hex-encoded HMAC-SHA256 of
// the raw body under the store's signing secret.
func VerifySignature(secret string, body []byte, signature string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return subtle.ConstantTimeCompare([]byte(expected), []byte(signature)) == 1
}

// ParseWebhook decodes the raw payload into the typed event representation.
func ParseWebhook(body []byte) (*WebhookEvent, error) {
	var payload webhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse webhook payload: %w", err)
	}
	if payload.Meta.EventName == "" {
		return nil, fmt.Errorf("webhook payload missing event name")
	}
	return &WebhookEvent{
		EventName:    payload.Meta.EventName,
		UserID:       payload.Meta.CustomData["user_id"],
		Subscription: remoteSubscriptionFromResource(payload.Data),
	}, nil
}
