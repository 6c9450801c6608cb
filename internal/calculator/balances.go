package calculator

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/mmynk/arcwise/internal/models"
)

// MemberBalance represents the balance information for one roster member.
type MemberBalance struct {
	MemberName string
	NetBalance decimal.Decimal // Positive = owed money, Negative = owes money
	TotalPaid  decimal.Decimal // Total amount paid across all expenses
	TotalOwed  decimal.Decimal // Total share of expenses this person owes
}

// NetBalances computes every roster member's balance from the full expense
// list. The result is in roster order and always has one entry per member.
//
// For each expense the payer is credited the full amount and every member of
// SplitBetween is debited an equal share. A payer who is also in the split is
// both credited and debited, so they end up owing only their own share.
func NetBalances(roster *models.Roster, expenses []*models.Expense) ([]MemberBalance, error) {
	balances := make([]MemberBalance, roster.Len())
	for i, name := range roster.Names() {
		balances[i] = MemberBalance{MemberName: name}
	}

	for _, expense := range expenses {
		if err := roster.Check(expense.PaidBy); err != nil {
			return nil, fmt.Errorf("expense %s payer: %w", expense.ID, err)
		}
		if err := roster.Check(expense.SplitBetween...); err != nil {
			return nil, fmt.Errorf("expense %s split: %w", expense.ID, err)
		}

		shares, err := CalculateShares(expense.Amount, expense.SplitBetween)
		if err != nil {
			return nil, fmt.Errorf("expense %s: %w", expense.ID, err)
		}

		payer := &balances[roster.Position(expense.PaidBy)]
		payer.TotalPaid = payer.TotalPaid.Add(expense.Amount)

		for name, share := range shares {
			member := &balances[roster.Position(name)]
			member.TotalOwed = member.TotalOwed.Add(share)
		}
	}

	for i := range balances {
		balances[i].NetBalance = balances[i].TotalPaid.Sub(balances[i].TotalOwed)
	}
	return balances, nil
}

// CalculateTransfers turns the expense list into an ordered list of transfers
// that brings every roster member's balance to within models.Epsilon of zero.
func CalculateTransfers(roster *models.Roster, expenses []*models.Expense) ([]models.Transfer, error) {
	balances, err := NetBalances(roster, expenses)
	if err != nil {
		return nil, err
	}
	return SimplifyDebts(balances), nil
}

// CalculateTransfersWithSettlements is CalculateTransfers with recorded
// settlements netted out first: a settlement from X to Y counts as X having
// paid Y. The result is what is still outstanding.
func CalculateTransfersWithSettlements(roster *models.Roster, expenses []*models.Expense, settlements []*models.Settlement) ([]models.Transfer, error) {
	balances, err := NetBalances(roster, expenses)
	if err != nil {
		return nil, err
	}

	paid := make([]models.Transfer, 0, len(settlements))
	for _, s := range settlements {
		if err := roster.Check(s.From, s.To); err != nil {
			return nil, fmt.Errorf("settlement %s: %w", s.ID, err)
		}
		paid = append(paid, models.Transfer{From: s.From, To: s.To, Amount: s.Amount})
	}

	return SimplifyDebts(ApplyTransfers(balances, paid)), nil
}

// ApplyTransfers returns a copy of balances with each transfer applied: the
// payer's net balance goes up by the amount and the receiver's goes down.
// Transfers naming someone outside balances are ignored.
func ApplyTransfers(balances []MemberBalance, transfers []models.Transfer) []MemberBalance {
	out := make([]MemberBalance, len(balances))
	copy(out, balances)

	pos := make(map[string]int, len(out))
	for i, b := range out {
		pos[b.MemberName] = i
	}

	for _, t := range transfers {
		from, okFrom := pos[t.From]
		to, okTo := pos[t.To]
		if !okFrom || !okTo {
			continue
		}
		out[from].TotalPaid = out[from].TotalPaid.Add(t.Amount)
		out[from].NetBalance = out[from].NetBalance.Add(t.Amount)
		out[to].TotalOwed = out[to].TotalOwed.Add(t.Amount)
		out[to].NetBalance = out[to].NetBalance.Sub(t.Amount)
	}
	return out
}

// SimplifyDebts matches debtors against creditors with a greedy two-pointer
// sweep. It is deterministic but not guaranteed to produce the fewest
// transfers.
//
// Creditors are sorted by descending balance and debtors by ascending
// (most negative first) balance. Both sorts are stable, so members with equal
// balances keep their order in balances (roster order). Members within
// models.Epsilon of zero are left out.
func SimplifyDebts(balances []MemberBalance) []models.Transfer {
	type party struct {
		name      string
		remaining decimal.Decimal // always positive
	}

	eps := models.Epsilon
	var creditors, debtors []party
	for _, bal := range balances {
		switch {
		case bal.NetBalance.GreaterThan(eps):
			creditors = append(creditors, party{name: bal.MemberName, remaining: bal.NetBalance})
		case bal.NetBalance.LessThan(eps.Neg()):
			debtors = append(debtors, party{name: bal.MemberName, remaining: bal.NetBalance.Neg()})
		}
	}

	sort.SliceStable(creditors, func(a, b int) bool {
		return creditors[a].remaining.GreaterThan(creditors[b].remaining)
	})
	sort.SliceStable(debtors, func(a, b int) bool {
		return debtors[a].remaining.GreaterThan(debtors[b].remaining)
	})

	var transfers []models.Transfer
	i, j := 0, 0
	for i < len(creditors) && j < len(debtors) {
		creditor := &creditors[i]
		debtor := &debtors[j]

		amount := decimal.Min(creditor.remaining, debtor.remaining)
		transfers = append(transfers, models.Transfer{
			From:   debtor.name,
			To:     creditor.name,
			Amount: amount,
		})

		creditor.remaining = creditor.remaining.Sub(amount)
		debtor.remaining = debtor.remaining.Sub(amount)

		// Both remainders stay above eps until their pointer moves, so every
		// emitted amount is above eps.
		if creditor.remaining.LessThanOrEqual(eps) {
			i++
		}
		if debtor.remaining.LessThanOrEqual(eps) {
			j++
		}
	}

	return transfers
}
