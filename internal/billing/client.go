package billing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/toptally/scoreboard-backend/internal/config"
)

// ErrNotFound is returned when the provider has no record for the id.
var ErrNotFound = errors.New("not found upstream")

// UpstreamError covers every other non-2xx response from Lemon Squeezy.
type UpstreamError struct {
	StatusCode int
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("lemon squeezy request failed with status %d", e.StatusCode)
}

// RemoteSubscription is the typed internal representation of a Lemon
// Squeezy subscription resource. The loosely-typed JSON:API payload is
// parsed into this at the client boundary so upstream schema drift stays
// isolated here.
type RemoteSubscription struct {
	ID          string
	Status      string
	VariantID   string
	CustomerID  string
	Cancelled   bool
	RenewsAt    *time.Time
	EndsAt      *time.Time
	TrialEndsAt *time.Time
	UserEmail   string
	PriceID     string
}

// RemotePrice is the unit price of one subscription item.
type RemotePrice struct {
	ID             string
	UnitPriceCents int
}

// RemoteVariant is a priced product offering.
type RemoteVariant struct {
	ID         string
	Name       string
	PriceCents int
}

// Client talks to the Lemon Squeezy REST API. Calls block the handling
// request only; there is no retry policy, a failed call is surfaced to the
// caller who retries manually.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		baseURL: cfg.LemonSqueezyAPIURL,
		apiKey:  cfg.LemonSqueezyAPIKey,
		http:    &http.Client{Timeout: cfg.LemonSqueezyTimeout},
	}
}

type subscriptionItemAttrs struct {
	PriceID  int64 `json:"price_id"`
	Quantity int   `json:"quantity"`
}

type subscriptionAttrs struct {
	Status                string                 `json:"status"`
	VariantID             int64                  `json:"variant_id"`
	CustomerID            int64                  `json:"customer_id"`
	Cancelled             bool                   `json:"cancelled"`
	UserEmail             string                 `json:"user_email"`
	RenewsAt              *time.Time             `json:"renews_at"`
	EndsAt                *time.Time             `json:"ends_at"`
	TrialEndsAt           *time.Time             `json:"trial_ends_at"`
	FirstSubscriptionItem *subscriptionItemAttrs `json:"first_subscription_item"`
}

type priceAttrs struct {
	UnitPrice int `json:"unit_price"`
}

type variantAttrs struct {
	Name  string `json:"name"`
	Price int    `json:"price"`
}

type resource[T any] struct {
	ID         string `json:"id"`
	Attributes T      `json:"attributes"`
}

type document[T any] struct {
	Data resource[T] `json:"data"`
}

// GetSubscription fetches the authoritative subscription state.
func (c *Client) GetSubscription(ctx context.Context, subscriptionID string) (*RemoteSubscription, error) {
	var doc document[subscriptionAttrs]
	if err := c.get(ctx, "/v1/subscriptions/"+subscriptionID, &doc); err != nil {
		return nil, err
	}
	return remoteSubscriptionFromResource(doc.Data), nil
}

// CancelSubscription cancels at period end; the provider responds with the
// updated subscription resource.
func (c *Client) CancelSubscription(ctx context.Context, subscriptionID string) (*RemoteSubscription, error) {
	var doc document[subscriptionAttrs]
	if err := c.do(ctx, http.MethodDelete, "/v1/subscriptions/"+subscriptionID, &doc); err != nil {
		return nil, err
	}
	return remoteSubscriptionFromResource(doc.Data), nil
}

// GetPrice fetches the unit price for one subscription item.
func (c *Client) GetPrice(ctx context.Context, priceID string) (*RemotePrice, error) {
	var doc document[priceAttrs]
	if err := c.get(ctx, "/v1/prices/"+priceID, &doc); err != nil {
		return nil, err
	}
	return &RemotePrice{ID: doc.Data.ID, UnitPriceCents: doc.Data.Attributes.UnitPrice}, nil
}

// GetVariant fetches a priced product offering, used by the pricing sync.
func (c *Client) GetVariant(ctx context.Context, variantID string) (*RemoteVariant, error) {
	var doc document[variantAttrs]
	if err := c.get(ctx, "/v1/variants/"+variantID, &doc); err != nil {
		return nil, err
	}
	return &RemoteVariant{
		ID:         doc.Data.ID,
		Name:       doc.Data.Attributes.Name,
		PriceCents: doc.Data.Attributes.Price,
	}, nil
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, out)
}

func (c *Client) do(ctx context.Context, method, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.api+json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("lemon squeezy request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &UpstreamError{StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func remoteSubscriptionFromResource(res resource[subscriptionAttrs]) *RemoteSubscription {
	sub := &RemoteSubscription{
		ID:          res.ID,
		Status:      res.Attributes.Status,
		VariantID:   strconv.FormatInt(res.Attributes.VariantID, 10),
		CustomerID:  strconv.FormatInt(res.Attributes.CustomerID, 10),
		Cancelled:   res.Attributes.Cancelled,
		UserEmail:   res.Attributes.UserEmail,
		RenewsAt:    res.Attributes.RenewsAt,
		EndsAt:      res.Attributes.EndsAt,
		TrialEndsAt: res.Attributes.TrialEndsAt,
	}
	if item := res.Attributes.FirstSubscriptionItem; item != nil && item.PriceID != 0 {
		sub.PriceID = strconv.FormatInt(item.PriceID, 10)
	}
	return sub
}
