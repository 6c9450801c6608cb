package settlement

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/shopspring/decimal"

	"github.com/mmynk/arcwise/internal/metrics"
	"github.com/mmynk/arcwise/internal/models"
	"github.com/mmynk/arcwise/internal/payment"
)

var (
	// ErrNoRecipientAddress is returned when the creditor has no wallet address.
	ErrNoRecipientAddress = errors.New("recipient has no wallet address")
	// ErrGatewayUnavailable wraps errors reaching the payment gateway.
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
)

// recordTimeout bounds recording a settlement after the gateway confirmed it.
const recordTimeout = 10 * time.Second

// PaymentFailedError is returned when the gateway declined a payment.
type PaymentFailedError struct {
	Transfer models.Transfer
	Reason   string
}

func (e *PaymentFailedError) Error() string {
	return fmt.Sprintf("payment from %s to %s declined: %s", e.Transfer.From, e.Transfer.To, e.Reason)
}

// SettlementRecorder is the part of Recorder the Settler needs.
type SettlementRecorder interface {
	RecordSettlement(ctx context.Context, from, to string, amount decimal.Decimal, chain, txRef string) (*models.Settlement, error)
}

type SettlerConfig struct {
	PoolSize     int
	DefaultChain string
}

// Outcome is the result of settling one transfer in SettleAll.
type Outcome struct {
	Transfer   models.Transfer
	Settlement *models.Settlement
	Err        error
}

// Settler pays transfers through the gateway and records the ones that succeed.
type Settler struct {
	gateway      payment.Gateway
	addresses    payment.AddressBook
	recorder     SettlementRecorder
	pool         *ants.Pool
	defaultChain string
	metrics      *metrics.Metrics
	logger       *slog.Logger
}

func NewSettler(
	gateway payment.Gateway,
	addresses payment.AddressBook,
	recorder SettlementRecorder,
	config SettlerConfig,
	m *metrics.Metrics,
	logger *slog.Logger,
) (*Settler, error) {
	pool, err := ants.NewPool(config.PoolSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create worker pool: %w", err)
	}

	return &Settler{
		gateway:      gateway,
		addresses:    addresses,
		recorder:     recorder,
		pool:         pool,
		defaultChain: config.DefaultChain,
		metrics:      m,
		logger:       logger,
	}, nil
}

// Settle pays one transfer. The amount is rounded to cents before it is sent.
// The recorder is called exactly once on success and never otherwise.
func (s *Settler) Settle(ctx context.Context, transfer models.Transfer, chain string) (*models.Settlement, error) {
	if chain == "" {
		chain = s.defaultChain
	}
	amount := transfer.Amount.Round(2)
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount %s rounds to zero", ErrInvalidSettlement, transfer.Amount)
	}

	address, ok := s.addresses.Lookup(transfer.To)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoRecipientAddress, transfer.To)
	}

	logger := s.logger.With("from", transfer.From, "to", transfer.To, "amount", amount.String())
	logger.Info("Submitting payment", "chain", chain)

	result, err := s.gateway.Pay(ctx, payment.Request{
		From:             transfer.From,
		To:               transfer.To,
		RecipientAddress: address,
		Amount:           amount,
		Chain:            chain,
	})
	if err != nil {
		s.metrics.PaymentFailed("gateway_error")
		logger.Error("Payment gateway call failed", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrGatewayUnavailable, err)
	}

	switch r := result.(type) {
	case payment.Success:
		// The money has moved, so a caller that hangs up must not stop the record.
		recordCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), recordTimeout)
		defer cancel()
		settlement, err := s.recorder.RecordSettlement(recordCtx, transfer.From, transfer.To, amount, r.Chain, r.TransactionReference)
		if err != nil {
			// The money moved; surface the reference so it can be recorded by hand.
			logger.Error("Payment succeeded but recording failed", "tx_ref", r.TransactionReference, "error", err)
			return nil, fmt.Errorf("failed to record settlement for tx %s: %w", r.TransactionReference, err)
		}
		return settlement, nil
	case payment.Failure:
		s.metrics.PaymentFailed("declined")
		logger.Warn("Payment declined", "reason", r.Reason)
		return nil, &PaymentFailedError{Transfer: transfer, Reason: r.Reason}
	default:
		return nil, fmt.Errorf("unexpected payment result %T", result)
	}
}

// SettleAll pays every transfer on the worker pool and returns one Outcome
// per transfer, in input order.
func (s *Settler) SettleAll(ctx context.Context, transfers []models.Transfer, chain string) []Outcome {
	outcomes := make([]Outcome, len(transfers))
	var wg sync.WaitGroup

	for i, transfer := range transfers {
		outcomes[i].Transfer = transfer
		wg.Add(1)
		err := s.pool.Submit(func() {
			defer wg.Done()
			settlement, err := s.Settle(ctx, transfer, chain)
			outcomes[i].Settlement = settlement
			outcomes[i].Err = err
		})
		if err != nil {
			wg.Done()
			outcomes[i].Err = fmt.Errorf("failed to submit payment to worker pool: %w", err)
		}
	}
	wg.Wait()

	settled := 0
	for _, o := range outcomes {
		if o.Err == nil {
			settled++
		}
	}
	s.logger.Info("Bulk settlement finished", "transfers", len(transfers), "settled", settled)
	return outcomes
}

// Shutdown releases the worker pool.
func (s *Settler) Shutdown() {
	s.logger.Info("Shutting down settlement worker pool", "running_workers", s.pool.Running())
	s.pool.Release()
}
