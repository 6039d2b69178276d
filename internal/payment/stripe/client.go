package stripe

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/avrele/storefront/internal/payment"
	stripeapi "github.com/stripe/stripe-go/v79"
	stripeclient "github.com/stripe/stripe-go/v79/client"
)

// Client adapts the hosted Stripe API to the payment gateway port. Stripe
// owns intent status truth; this adapter only translates types and failure
// modes. Card data never passes through here, confirmation happens on the
// buyer's device with the client secret.
type Client struct {
	log      *slog.Logger
	api      *stripeclient.API
	currency string
}

func NewClient(log *slog.Logger, secretKey, currency string, timeout time.Duration) *Client {
	backend := stripeapi.GetBackendWithConfig(stripeapi.APIBackend, &stripeapi.BackendConfig{
		HTTPClient: &http.Client{Timeout: timeout},
	})
	api := &stripeclient.API{}
	api.Init(secretKey, &stripeapi.Backends{API: backend})
	return &Client{log: log, api: api, currency: currency}
}

func (c *Client) CreateIntent(ctx context.Context, amountMinor int64) (payment.Intent, error) {
	params := &stripeapi.PaymentIntentParams{
		Params:   stripeapi.Params{Context: ctx},
		Amount:   stripeapi.Int64(amountMinor),
		Currency: stripeapi.String(c.currency),
		AutomaticPaymentMethods: &stripeapi.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripeapi.Bool(true),
		},
	}

	pi, err := c.api.PaymentIntents.New(params)
	if err != nil {
		return payment.Intent{}, c.mapErr("create payment intent", err)
	}
	return payment.Intent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		AmountMinor:  pi.Amount,
		Status:       string(pi.Status),
	}, nil
}

func (c *Client) GetIntent(ctx context.Context, id string) (payment.Intent, error) {
	params := &stripeapi.PaymentIntentParams{
		Params: stripeapi.Params{Context: ctx},
	}
	pi, err := c.api.PaymentIntents.Get(id, params)
	if err != nil {
		return payment.Intent{}, c.mapErr("get payment intent", err)
	}
	return payment.Intent{
		ID:          pi.ID,
		AmountMinor: pi.Amount,
		Status:      string(pi.Status),
	}, nil
}

// mapErr folds transport failures and gateway-side outages into
// payment.ErrUnavailable. API-level rejections (bad request, card errors)
// keep their own identity: retrying them would not help.
func (c *Client) mapErr(op string, err error) error {
	var sErr *stripeapi.Error
	if errors.As(err, &sErr) {
		if sErr.HTTPStatusCode >= http.StatusInternalServerError {
			c.log.Warn("stripe outage", "op", op, "status", sErr.HTTPStatusCode)
			return fmt.Errorf("%s: %w", op, payment.ErrUnavailable)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	// No structured Stripe error means the request never got a response.
	return fmt.Errorf("%s: %w: %s", op, payment.ErrUnavailable, err)
}
