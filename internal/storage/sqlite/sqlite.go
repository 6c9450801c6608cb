// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mmynk/arcwise/internal/models"
	"github.com/mmynk/arcwise/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Single writer keeps seq order equal to append order.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// AppendExpense persists a new expense together with its split.
func (s *SQLiteStore) AppendExpense(ctx context.Context, expense *models.Expense) error {
	if expense.ID == "" {
		return fmt.Errorf("failed to insert expense: missing id")
	}
	if expense.CreatedAt.IsZero() {
		expense.CreatedAt = time.Now().UTC()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO expenses (id, description, amount, paid_by, created_at) VALUES (?, ?, ?, ?, ?)",
		expense.ID, expense.Description, expense.Amount.String(), expense.PaidBy, expense.CreatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", uniqueViolation(err))
	}

	for i, name := range expense.SplitBetween {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO expense_splits (expense_id, position, name) VALUES (?, ?, ?)",
			expense.ID, i, name,
		)
		if err != nil {
			return fmt.Errorf("failed to insert expense split: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ListExpenses returns all expenses, newest first, with their splits.
func (s *SQLiteStore) ListExpenses(ctx context.Context) ([]*models.Expense, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, description, amount, paid_by, created_at FROM expenses ORDER BY seq DESC",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*models.Expense
	byID := make(map[string]*models.Expense)
	for rows.Next() {
		expense := &models.Expense{}
		var createdAt int64
		if err := rows.Scan(&expense.ID, &expense.Description, &expense.Amount, &expense.PaidBy, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expense.CreatedAt = time.Unix(0, createdAt).UTC()
		expenses = append(expenses, expense)
		byID[expense.ID] = expense
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	splitRows, err := s.db.QueryContext(ctx,
		"SELECT expense_id, name FROM expense_splits ORDER BY expense_id, position",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expense splits: %w", err)
	}
	defer splitRows.Close()

	for splitRows.Next() {
		var expenseID, name string
		if err := splitRows.Scan(&expenseID, &name); err != nil {
			return nil, fmt.Errorf("failed to scan expense split: %w", err)
		}
		if expense, ok := byID[expenseID]; ok {
			expense.SplitBetween = append(expense.SplitBetween, name)
		}
	}
	if err := splitRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expense splits: %w", err)
	}

	return expenses, nil
}

// uniqueViolation maps SQLite's unique constraint failure to storage.ErrDuplicateID.
func uniqueViolation(err error) error {
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return fmt.Errorf("%w: %v", storage.ErrDuplicateID, err)
	}
	return err
}
