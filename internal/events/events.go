// Package events publishes ledger events to a message broker.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/arcwise/internal/models"
)

const (
	TypeSettlementRecorded = "settlement.recorded"
	TypeDebtReminder       = "debt.reminder"
)

// Event is the envelope written to the broker. Subject is used as the
// message key so events about the same participant stay ordered.
type Event struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	Subject    string    `json:"subject"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}

// Publisher sends events somewhere.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

type SettlementRecorded struct {
	SettlementID         string `json:"settlement_id"`
	From                 string `json:"from"`
	To                   string `json:"to"`
	Amount               string `json:"amount"`
	Chain                string `json:"chain"`
	TransactionReference string `json:"transaction_reference"`
}

type DebtReminder struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Amount string `json:"amount"`
}

// NewSettlementRecorded builds the event for a freshly recorded settlement,
// keyed by the payer.
func NewSettlementRecorded(s *models.Settlement) Event {
	return Event{
		ID:         uuid.New().String(),
		Type:       TypeSettlementRecorded,
		Subject:    s.From,
		OccurredAt: s.CreatedAt,
		Payload: SettlementRecorded{
			SettlementID:         s.ID,
			From:                 s.From,
			To:                   s.To,
			Amount:               s.Amount.StringFixed(2),
			Chain:                s.Chain,
			TransactionReference: s.TransactionReference,
		},
	}
}

// NewDebtReminder builds a reminder for the debtor of t.
func NewDebtReminder(t models.Transfer, at time.Time) Event {
	return Event{
		ID:         uuid.New().String(),
		Type:       TypeDebtReminder,
		Subject:    t.From,
		OccurredAt: at,
		Payload: DebtReminder{
			From:   t.From,
			To:     t.To,
			Amount: t.Amount.StringFixed(2),
		},
	}
}

// NopPublisher drops every event. It is used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
func (NopPublisher) Close() error                         { return nil }
