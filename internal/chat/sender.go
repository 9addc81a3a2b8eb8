package chat

import (
	"context"

	"github.com/ljniox/ai-concierge-sub002/internal/models"
)

// Sender delivers a text reply to a recipient on one chat transport.
type Sender interface {
	Channel() models.Channel
	Send(ctx context.Context, to, text string) error
}

// Dispatcher resolves the sender for a channel.
type Dispatcher struct {
	senders map[models.Channel]Sender
}

// NewDispatcher builds a dispatcher over the provided senders.
func NewDispatcher(senders ...Sender) *Dispatcher {
	m := make(map[models.Channel]Sender, len(senders))
	for _, s := range senders {
		m[s.Channel()] = s
	}
	return &Dispatcher{senders: m}
}

// Send routes the reply through the sender bound to the channel.
func (d *Dispatcher) Send(ctx context.Context, channel models.Channel, to, text string) error {
	sender, ok := d.senders[channel]
	if !ok {
		return ErrChannelNotConfigured
	}
	return sender.Send(ctx, to, text)
}
