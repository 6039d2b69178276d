package notification

import (
	"context"
	"errors"
	"fmt"
	"strings"

	orderdomain "github.com/avrele/storefront/internal/order/domain"
)

// Notifier formats and sends the order confirmation over every channel the
// buyer has an address for. Both channels are attempted even if one fails;
// the joined error is for the caller's log only and must never fail the
// checkout itself.
type Notifier struct {
	dispatcher Dispatcher
}

func NewNotifier(dispatcher Dispatcher) *Notifier {
	return &Notifier{dispatcher: dispatcher}
}

func (n *Notifier) OrderConfirmed(ctx context.Context, o orderdomain.Order, email, phone string) error {
	summary := Summary(o)

	var errs []error
	if email != "" {
		if err := n.dispatcher.Send(ctx, ChannelEmail, email, "Order confirmation", summary); err != nil {
			errs = append(errs, fmt.Errorf("email to %s: %w", email, err))
		}
	}
	if phone != "" {
		if err := n.dispatcher.Send(ctx, ChannelSMS, phone, "", "Order confirmed: "+summary); err != nil {
			errs = append(errs, fmt.Errorf("sms to %s: %w", phone, err))
		}
	}
	return errors.Join(errs...)
}

// Summary renders the line items the way the confirmation message shows
// them: "You purchased: Mug x2, Shirt x1. Total: 120.00".
func Summary(o orderdomain.Order) string {
	items := make([]string, 0, len(o.Lines))
	for _, l := range o.Lines {
		items = append(items, fmt.Sprintf("%s x%d", l.Title, l.Qty))
	}
	return fmt.Sprintf("You purchased: %s. Total: %s", strings.Join(items, ", "), o.Total.StringFixed(2))
}
