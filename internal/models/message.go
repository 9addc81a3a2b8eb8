package models

import "time"

// Channel identifies the chat transport a message arrived on.
type Channel string

const (
	ChannelWhatsApp Channel = "whatsapp"
	ChannelTelegram Channel = "telegram"
)

// MessageDirection distinguishes stored history rows.
type MessageDirection string

const (
	DirectionInbound  MessageDirection = "inbound"
	DirectionOutbound MessageDirection = "outbound"
)

// Intent labels produced by AI classification.
const (
	IntentRenseignement = "RENSEIGNEMENT"
	IntentCatechese     = "CATECHESE"
	IntentContactHumain = "CONTACT_HUMAIN"
)

// InboundMessage is the provider-agnostic shape webhook handlers produce.
type InboundMessage struct {
	Channel    Channel   `json:"channel"`
	From       string    `json:"from"`
	Body       string    `json:"body"`
	ProviderID string    `json:"provider_id"`
	ReceivedAt time.Time `json:"received_at"`
}

// ChatMessage is one persisted conversation history row.
type ChatMessage struct {
	ID        string           `db:"id" json:"id"`
	Phone     string           `db:"phone" json:"phone"`
	Channel   Channel          `db:"channel" json:"channel"`
	Direction MessageDirection `db:"direction" json:"direction"`
	Body      string           `db:"body" json:"body"`
	CreatedAt time.Time        `db:"created_at" json:"created_at"`
}

// FollowupItem is pushed onto the Redis followup list when a sender asks
// for a human. Best effort: no consumer lives in this service.
type FollowupItem struct {
	Phone      string    `json:"phone"`
	Message    string    `json:"message"`
	Intent     string    `json:"intent"`
	ReceivedAt time.Time `json:"received_at"`
}
