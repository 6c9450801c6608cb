package arcwisev1

import "github.com/shopspring/decimal"

type Expense struct {
	Id           string          `json:"id"`
	Description  string          `json:"description"`
	Amount       decimal.Decimal `json:"amount"`
	PaidBy       string          `json:"paidBy"`
	SplitBetween []string        `json:"splitBetween"`
	CreatedAt    Timestamp       `json:"createdAt"`
}

type MemberBalance struct {
	Name       string          `json:"name"`
	NetBalance decimal.Decimal `json:"netBalance"`
	TotalPaid  decimal.Decimal `json:"totalPaid"`
	TotalOwed  decimal.Decimal `json:"totalOwed"`
}

type Transfer struct {
	From   string          `json:"from"`
	To     string          `json:"to"`
	Amount decimal.Decimal `json:"amount"`
}

type Settlement struct {
	Id                   string          `json:"id"`
	From                 string          `json:"from"`
	To                   string          `json:"to"`
	Amount               decimal.Decimal `json:"amount"`
	Chain                string          `json:"chain"`
	TransactionReference string          `json:"transactionReference"`
	CreatedAt            Timestamp       `json:"createdAt"`
}

// LedgerService

type GetRosterRequest struct{}

type GetRosterResponse struct {
	Participants []string `json:"participants"`
}

type AddExpenseRequest struct {
	Description  string          `json:"description"`
	Amount       decimal.Decimal `json:"amount"`
	PaidBy       string          `json:"paidBy"`
	SplitBetween []string        `json:"splitBetween"`
}

type AddExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

type ListExpensesRequest struct{}

type ListExpensesResponse struct {
	Expenses []*Expense `json:"expenses"`
}

type ComputeBalancesRequest struct{}

type ComputeBalancesResponse struct {
	Balances  []*MemberBalance `json:"balances"`
	Transfers []*Transfer      `json:"transfers"`
}

type ListOutstandingTransfersRequest struct{}

type ListOutstandingTransfersResponse struct {
	Transfers []*Transfer `json:"transfers"`
}

// SettlementService

type SettleTransferRequest struct {
	From   string          `json:"from"`
	To     string          `json:"to"`
	Amount decimal.Decimal `json:"amount"`
	Chain  string          `json:"chain,omitempty"`
}

type SettleTransferResponse struct {
	Settlement *Settlement `json:"settlement"`
}

type SettleAllRequest struct {
	Chain string `json:"chain,omitempty"`
}

// SettleResult is the outcome for one transfer. Exactly one of Settlement
// and Error is set; Code is the Connect code name of the error.
type SettleResult struct {
	Transfer   *Transfer   `json:"transfer"`
	Settlement *Settlement `json:"settlement,omitempty"`
	Error      string      `json:"error,omitempty"`
	Code       string      `json:"code,omitempty"`
}

type SettleAllResponse struct {
	Results []*SettleResult `json:"results"`
}

type RecordSettlementRequest struct {
	From                 string          `json:"from"`
	To                   string          `json:"to"`
	Amount               decimal.Decimal `json:"amount"`
	Chain                string          `json:"chain"`
	TransactionReference string          `json:"transactionReference"`
}

type RecordSettlementResponse struct {
	Settlement *Settlement `json:"settlement"`
}

type ListSettlementsRequest struct{}

type ListSettlementsResponse struct {
	Settlements []*Settlement `json:"settlements"`
}

// SessionService

type JoinRequest struct {
	Name       string `json:"name"`
	Passphrase string `json:"passphrase"`
}

type JoinResponse struct {
	Token       string    `json:"token"`
	Participant string    `json:"participant"`
	ExpiresAt   Timestamp `json:"expiresAt"`
}

type WhoAmIRequest struct{}

type WhoAmIResponse struct {
	Participant string `json:"participant"`
}
