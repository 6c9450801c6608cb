package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// HTTPGateway talks to a JSON payments API:
//
//	POST {BaseURL}/payments
//	{"from": "...", "to": "...", "recipient_address": "...", "amount": "12.50", "chain": "..."}
//
// and expects {"status": bool, "message": "...", "data": {"tx_hash": "...", "chain": "..."}}.
type HTTPGateway struct {
	APIKey  string
	BaseURL string
	Client  *http.Client
}

// NewHTTPGateway creates a gateway client for baseURL.
func NewHTTPGateway(baseURL, apiKey string, timeout time.Duration) *HTTPGateway {
	return &HTTPGateway{
		APIKey:  apiKey,
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{Timeout: timeout},
	}
}

type paymentRequest struct {
	From             string `json:"from"`
	To               string `json:"to"`
	RecipientAddress string `json:"recipient_address"`
	Amount           string `json:"amount"`
	Chain            string `json:"chain,omitempty"`
}

type paymentResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		TxHash string `json:"tx_hash"`
		Chain  string `json:"chain"`
	} `json:"data"`
}

// Pay submits req. 2xx and 4xx answers with a JSON body are mapped to a
// Result; anything else is an error.
func (g *HTTPGateway) Pay(ctx context.Context, req Request) (Result, error) {
	body, err := json.Marshal(paymentRequest{
		From:             req.From,
		To:               req.To,
		RecipientAddress: req.RecipientAddress,
		Amount:           req.Amount.StringFixed(2),
		Chain:            req.Chain,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.BaseURL+"/payments", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if g.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+g.APIKey)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.Client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, string(respBody))
	}

	var res paymentResponse
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return nil, fmt.Errorf("failed to decode response (status %d): %w", resp.StatusCode, err)
	}

	if !res.Status || resp.StatusCode >= http.StatusBadRequest {
		reason := res.Message
		if reason == "" {
			reason = http.StatusText(resp.StatusCode)
		}
		return Failure{Reason: reason}, nil
	}
	if res.Data.TxHash == "" {
		return nil, fmt.Errorf("gateway reported success without a transaction reference")
	}

	chain := res.Data.Chain
	if chain == "" {
		chain = req.Chain
	}
	return Success{TransactionReference: res.Data.TxHash, Chain: chain}, nil
}
