package service

import (
	"github.com/mmynk/arcwise/internal/calculator"
	"github.com/mmynk/arcwise/internal/models"
	v1 "github.com/mmynk/arcwise/pkg/api/arcwisev1"
)

func expenseToAPI(e *models.Expense) *v1.Expense {
	return &v1.Expense{
		Id:           e.ID,
		Description:  e.Description,
		Amount:       e.Amount,
		PaidBy:       e.PaidBy,
		SplitBetween: e.SplitBetween,
		CreatedAt:    v1.NewTimestamp(e.CreatedAt),
	}
}

func settlementToAPI(s *models.Settlement) *v1.Settlement {
	if s == nil {
		return nil
	}
	return &v1.Settlement{
		Id:                   s.ID,
		From:                 s.From,
		To:                   s.To,
		Amount:               s.Amount,
		Chain:                s.Chain,
		TransactionReference: s.TransactionReference,
		CreatedAt:            v1.NewTimestamp(s.CreatedAt),
	}
}

func transferToAPI(t models.Transfer) *v1.Transfer {
	return &v1.Transfer{From: t.From, To: t.To, Amount: t.Amount}
}

func transfersToAPI(transfers []models.Transfer) []*v1.Transfer {
	out := make([]*v1.Transfer, len(transfers))
	for i, t := range transfers {
		out[i] = transferToAPI(t)
	}
	return out
}

func balancesToAPI(balances []calculator.MemberBalance) []*v1.MemberBalance {
	out := make([]*v1.MemberBalance, len(balances))
	for i, b := range balances {
		out[i] = &v1.MemberBalance{
			Name:       b.MemberName,
			NetBalance: b.NetBalance,
			TotalPaid:  b.TotalPaid,
			TotalOwed:  b.TotalOwed,
		}
	}
	return out
}
