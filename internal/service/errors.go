package service

import (
	"context"
	"errors"

	"connectrpc.com/connect"

	"github.com/mmynk/arcwise/internal/calculator"
	"github.com/mmynk/arcwise/internal/ledger"
	"github.com/mmynk/arcwise/internal/models"
	"github.com/mmynk/arcwise/internal/settlement"
)

var (
	errNotDebtor         = errors.New("only the debtor can settle this transfer")
	errNotParty          = errors.New("only a party to the settlement can record it")
	errNoOutstandingDebt = errors.New("no outstanding debt between these participants")
)

// connectCode maps domain errors onto Connect codes.
func connectCode(err error) connect.Code {
	var validationErr *ledger.ValidationError
	var paymentErr *settlement.PaymentFailedError

	// Context errors win so a gateway call cut off by the caller's deadline
	// is reported as such.
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return connect.CodeDeadlineExceeded
	case errors.Is(err, context.Canceled):
		return connect.CodeCanceled
	case errors.As(err, &validationErr),
		errors.Is(err, models.ErrUnknownParticipant),
		errors.Is(err, calculator.ErrEmptySplit),
		errors.Is(err, settlement.ErrInvalidSettlement):
		return connect.CodeInvalidArgument
	case errors.Is(err, errNotDebtor), errors.Is(err, errNotParty):
		return connect.CodePermissionDenied
	case errors.Is(err, settlement.ErrNoRecipientAddress), errors.Is(err, errNoOutstandingDebt):
		return connect.CodeFailedPrecondition
	case errors.As(err, &paymentErr):
		return connect.CodeAborted
	case errors.Is(err, settlement.ErrGatewayUnavailable):
		return connect.CodeUnavailable
	default:
		return connect.CodeInternal
	}
}

func toConnectError(err error) *connect.Error {
	return connect.NewError(connectCode(err), err)
}
