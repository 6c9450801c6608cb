// Package settlement records completed payments and drives the payment
// gateway to settle computed transfers.
package settlement

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mmynk/arcwise/internal/events"
	"github.com/mmynk/arcwise/internal/metrics"
	"github.com/mmynk/arcwise/internal/models"
	"github.com/mmynk/arcwise/internal/storage"
)

// ErrInvalidSettlement is returned for structurally empty settlement input.
var ErrInvalidSettlement = errors.New("invalid settlement")

// Recorder appends settlements to the store. It trusts the caller that the
// payment happened; it does not verify the transaction reference.
type Recorder struct {
	store     storage.Store
	roster    *models.Roster
	publisher events.Publisher
	metrics   *metrics.Metrics
	logger    *slog.Logger
	now       func() time.Time
}

// NewRecorder creates a Recorder. publisher may be nil.
func NewRecorder(store storage.Store, roster *models.Roster, publisher events.Publisher, m *metrics.Metrics, logger *slog.Logger) *Recorder {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Recorder{
		store:     store,
		roster:    roster,
		publisher: publisher,
		metrics:   m,
		logger:    logger,
		now:       time.Now,
	}
}

// RecordSettlement appends a settlement and publishes a settlement.recorded
// event. A publish failure is logged and does not undo the record.
func (r *Recorder) RecordSettlement(ctx context.Context, from, to string, amount decimal.Decimal, chain, txRef string) (*models.Settlement, error) {
	from, to, txRef = strings.TrimSpace(from), strings.TrimSpace(to), strings.TrimSpace(txRef)
	switch {
	case from == "" || to == "":
		return nil, fmt.Errorf("%w: both parties are required", ErrInvalidSettlement)
	case from == to:
		return nil, fmt.Errorf("%w: %s cannot settle with themselves", ErrInvalidSettlement, from)
	case !amount.IsPositive():
		return nil, fmt.Errorf("%w: amount must be greater than zero", ErrInvalidSettlement)
	case txRef == "":
		return nil, fmt.Errorf("%w: transaction reference is required", ErrInvalidSettlement)
	}
	if err := r.roster.Check(from, to); err != nil {
		return nil, err
	}

	settlement := &models.Settlement{
		ID:                   uuid.New().String(),
		From:                 from,
		To:                   to,
		Amount:               amount,
		Chain:                chain,
		TransactionReference: txRef,
		CreatedAt:            r.now().UTC(),
	}
	if err := r.store.AppendSettlement(ctx, settlement); err != nil {
		return nil, fmt.Errorf("failed to append settlement: %w", err)
	}
	r.metrics.SettlementRecorded()

	r.logger.Info("Settlement recorded",
		"settlement_id", settlement.ID,
		"from", from,
		"to", to,
		"amount", amount.String(),
		"chain", chain,
		"tx_ref", txRef,
	)

	if err := r.publisher.Publish(ctx, events.NewSettlementRecorded(settlement)); err != nil {
		r.logger.Warn("Failed to publish settlement event", "settlement_id", settlement.ID, "error", err)
	}
	return settlement, nil
}

// ListSettlements returns the history, newest first.
func (r *Recorder) ListSettlements(ctx context.Context) ([]*models.Settlement, error) {
	settlements, err := r.store.ListSettlements(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlements: %w", err)
	}
	return settlements, nil
}
