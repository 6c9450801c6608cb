package arcwisev1

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONCodec_Expense(t *testing.T) {
	codec := JSONCodec{}
	assert.Equal(t, "json", codec.Name())

	created := time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC)
	data, err := codec.Marshal(&Expense{
		Id:           "e1",
		Description:  "Dinner",
		Amount:       decimal.RequireFromString("12.50"),
		PaidBy:       "A",
		SplitBetween: []string{"A", "B"},
		CreatedAt:    NewTimestamp(created),
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"id": "e1",
		"description": "Dinner",
		"amount": "12.5",
		"paidBy": "A",
		"splitBetween": ["A", "B"],
		"createdAt": "2026-02-03T04:05:06Z"
	}`, string(data))

	var decoded Expense
	require.NoError(t, codec.Unmarshal(data, &decoded))
	assert.True(t, decoded.Amount.Equal(decimal.RequireFromString("12.5")))
	assert.Equal(t, created, decoded.CreatedAt.Time())
}

func TestJSONCodec_EmptyAndNull(t *testing.T) {
	codec := JSONCodec{}

	var req ListExpensesRequest
	assert.NoError(t, codec.Unmarshal(nil, &req))

	data, err := codec.Marshal(&JoinResponse{Token: "t"})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"expiresAt":null`)

	var resp JoinResponse
	require.NoError(t, codec.Unmarshal(data, &resp))
	assert.True(t, resp.ExpiresAt.Time().IsZero())
}

func TestJSONCodec_RejectsBadAmount(t *testing.T) {
	var req AddExpenseRequest
	err := JSONCodec{}.Unmarshal([]byte(`{"amount":"twelve"}`), &req)
	assert.Error(t, err)
}

func TestCodecs_Names(t *testing.T) {
	var names []string
	for _, c := range Codecs() {
		names = append(names, c.Name())
	}
	assert.Equal(t, []string{"json", "json; charset=utf-8"}, names)
}
