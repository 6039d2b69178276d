package notification

import "context"

type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms"
)

// Dispatcher delivers a single message over one channel. Implementations
// are best-effort transports; callers decide whether failures matter.
type Dispatcher interface {
	Send(ctx context.Context, ch Channel, address, subject, body string) error
}

// ProviderDispatcher routes each channel to its configured transport.
type ProviderDispatcher struct {
	email *EmailSender
	sms   *SMSSender
}

func NewProviderDispatcher(email *EmailSender, sms *SMSSender) *ProviderDispatcher {
	return &ProviderDispatcher{email: email, sms: sms}
}

func (d *ProviderDispatcher) Send(ctx context.Context, ch Channel, address, subject, body string) error {
	switch ch {
	case ChannelSMS:
		return d.sms.Send(ctx, address, body)
	default:
		return d.email.Send(ctx, address, subject, body)
	}
}
