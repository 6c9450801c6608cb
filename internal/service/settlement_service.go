package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"connectrpc.com/connect"

	"github.com/mmynk/arcwise/internal/ledger"
	"github.com/mmynk/arcwise/internal/middleware"
	"github.com/mmynk/arcwise/internal/models"
	"github.com/mmynk/arcwise/internal/settlement"
	v1 "github.com/mmynk/arcwise/pkg/api/arcwisev1"
	"github.com/mmynk/arcwise/pkg/api/arcwisev1/arcwisev1connect"
)

// SettlementService implements the Connect SettlementService
type SettlementService struct {
	arcwisev1connect.UnimplementedSettlementServiceHandler
	ledger   *ledger.Ledger
	settler  *settlement.Settler
	recorder *settlement.Recorder
	logger   *slog.Logger

	// settleMu serializes gateway payments so two requests cannot both pay
	// the same outstanding debt.
	settleMu sync.Mutex
}

// NewSettlementService creates a new SettlementService.
func NewSettlementService(l *ledger.Ledger, settler *settlement.Settler, recorder *settlement.Recorder, logger *slog.Logger) *SettlementService {
	return &SettlementService{
		ledger:   l,
		settler:  settler,
		recorder: recorder,
		logger:   logger,
	}
}

// SettleTransfer pays one outstanding debt of the caller through the gateway.
// A zero amount pays the whole outstanding amount.
func (s *SettlementService) SettleTransfer(ctx context.Context, req *connect.Request[v1.SettleTransferRequest]) (*connect.Response[v1.SettleTransferResponse], error) {
	participant := middleware.GetParticipant(ctx)
	msg := req.Msg

	s.logger.Info("SettleTransfer request received",
		"participant", participant,
		"from", msg.From,
		"to", msg.To,
		"amount", msg.Amount.String(),
	)

	if msg.From != participant {
		return nil, connect.NewError(connect.CodePermissionDenied, errNotDebtor)
	}
	if msg.Amount.IsNegative() {
		return nil, connect.NewError(connect.CodeInvalidArgument,
			fmt.Errorf("%w: amount must not be negative", settlement.ErrInvalidSettlement))
	}

	s.settleMu.Lock()
	defer s.settleMu.Unlock()

	outstanding, err := s.ledger.OutstandingTransfers(ctx)
	if err != nil {
		return nil, toConnectError(err)
	}

	owed, ok := findTransfer(outstanding, msg.From, msg.To)
	if !ok {
		return nil, connect.NewError(connect.CodeFailedPrecondition,
			fmt.Errorf("%w: %s owes nothing to %s", errNoOutstandingDebt, msg.From, msg.To))
	}

	transfer := owed
	if !msg.Amount.IsZero() {
		if msg.Amount.GreaterThan(owed.Amount.Add(models.Epsilon)) {
			return nil, connect.NewError(connect.CodeInvalidArgument,
				fmt.Errorf("%w: amount %s exceeds outstanding %s", settlement.ErrInvalidSettlement, msg.Amount, owed.Amount.StringFixed(2)))
		}
		transfer.Amount = msg.Amount
	}

	settled, err := s.settler.Settle(ctx, transfer, msg.Chain)
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&v1.SettleTransferResponse{Settlement: settlementToAPI(settled)}), nil
}

// SettleAll pays every outstanding debt of the caller. Failures are reported
// per transfer; the call itself only fails when the debts cannot be computed.
func (s *SettlementService) SettleAll(ctx context.Context, req *connect.Request[v1.SettleAllRequest]) (*connect.Response[v1.SettleAllResponse], error) {
	participant := middleware.GetParticipant(ctx)

	s.settleMu.Lock()
	defer s.settleMu.Unlock()

	outstanding, err := s.ledger.OutstandingTransfers(ctx)
	if err != nil {
		return nil, toConnectError(err)
	}

	var owed []models.Transfer
	for _, t := range outstanding {
		if t.From == participant {
			owed = append(owed, t)
		}
	}

	s.logger.Info("SettleAll request received", "participant", participant, "transfers", len(owed))

	outcomes := s.settler.SettleAll(ctx, owed, req.Msg.Chain)
	results := make([]*v1.SettleResult, len(outcomes))
	for i, o := range outcomes {
		result := &v1.SettleResult{Transfer: transferToAPI(o.Transfer)}
		if o.Err != nil {
			result.Error = o.Err.Error()
			result.Code = connectCode(o.Err).String()
		} else {
			result.Settlement = settlementToAPI(o.Settlement)
		}
		results[i] = result
	}

	return connect.NewResponse(&v1.SettleAllResponse{Results: results}), nil
}

// RecordSettlement records a payment made outside the gateway. Either party
// may record it.
func (s *SettlementService) RecordSettlement(ctx context.Context, req *connect.Request[v1.RecordSettlementRequest]) (*connect.Response[v1.RecordSettlementResponse], error) {
	participant := middleware.GetParticipant(ctx)
	msg := req.Msg

	if participant != msg.From && participant != msg.To {
		return nil, connect.NewError(connect.CodePermissionDenied, errNotParty)
	}

	recorded, err := s.recorder.RecordSettlement(ctx, msg.From, msg.To, msg.Amount, msg.Chain, msg.TransactionReference)
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&v1.RecordSettlementResponse{Settlement: settlementToAPI(recorded)}), nil
}

// ListSettlements returns every recorded settlement, newest first.
func (s *SettlementService) ListSettlements(ctx context.Context, req *connect.Request[v1.ListSettlementsRequest]) (*connect.Response[v1.ListSettlementsResponse], error) {
	settlements, err := s.recorder.ListSettlements(ctx)
	if err != nil {
		s.logger.Error("ListSettlements failed", "error", err)
		return nil, toConnectError(err)
	}

	out := make([]*v1.Settlement, len(settlements))
	for i, st := range settlements {
		out[i] = settlementToAPI(st)
	}
	return connect.NewResponse(&v1.ListSettlementsResponse{Settlements: out}), nil
}

func findTransfer(transfers []models.Transfer, from, to string) (models.Transfer, bool) {
	for _, t := range transfers {
		if t.From == from && t.To == to {
			return t, true
		}
	}
	return models.Transfer{}, false
}
