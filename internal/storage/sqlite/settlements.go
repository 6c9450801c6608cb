package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/mmynk/arcwise/internal/models"
)

// AppendSettlement persists a new settlement to the database.
func (s *SQLiteStore) AppendSettlement(ctx context.Context, settlement *models.Settlement) error {
	if settlement.ID == "" {
		return fmt.Errorf("failed to insert settlement: missing id")
	}
	if settlement.CreatedAt.IsZero() {
		settlement.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO settlements (id, from_name, to_name, amount, chain, tx_ref, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		settlement.ID, settlement.From, settlement.To, settlement.Amount.String(),
		settlement.Chain, settlement.TransactionReference, settlement.CreatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert settlement: %w", uniqueViolation(err))
	}

	return nil
}

// ListSettlements retrieves all settlements, newest first.
func (s *SQLiteStore) ListSettlements(ctx context.Context) ([]*models.Settlement, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, from_name, to_name, amount, chain, tx_ref, created_at
		 FROM settlements ORDER BY seq DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlements: %w", err)
	}
	defer rows.Close()

	var settlements []*models.Settlement
	for rows.Next() {
		settlement := &models.Settlement{}
		var createdAt int64

		if err := rows.Scan(&settlement.ID, &settlement.From, &settlement.To, &settlement.Amount,
			&settlement.Chain, &settlement.TransactionReference, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan settlement: %w", err)
		}
		settlement.CreatedAt = time.Unix(0, createdAt).UTC()

		settlements = append(settlements, settlement)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate settlements: %w", err)
	}

	return settlements, nil
}
