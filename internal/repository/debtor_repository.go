package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ohana-pos/pos/internal/model"
)

type DebtorRepository struct {
	*DB
}

func NewDebtorRepository(db *DB) *DebtorRepository {
	return &DebtorRepository{DB: db}
}

func (r *DebtorRepository) List(ctx context.Context) ([]model.Debtor, error) {
	rows, err := r.executor(ctx).Query(ctx,
		"SELECT id, name, phone, description, items, total, paid, created_at FROM debtors ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to list debtors: %w", err)
	}
	defer rows.Close()

	var debtors []model.Debtor
	for rows.Next() {
		var d model.Debtor
		var rawItems []byte
		if err := rows.Scan(&d.ID, &d.Name, &d.Phone, &d.Description, &rawItems, &d.Total, &d.Paid, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan debtor: %w", err)
		}
		if len(rawItems) > 0 {
			// Stored documents may be an array or a JSON string holding one;
			// DebtorItems normalizes both.
			if err := json.Unmarshal(rawItems, &d.Items); err != nil {
				return nil, fmt.Errorf("failed to decode debtor items: %w", err)
			}
		}
		debtors = append(debtors, d)
	}
	return debtors, rows.Err()
}

func (r *DebtorRepository) Create(ctx context.Context, d *model.Debtor) error {
	items, err := json.Marshal(d.Items)
	if err != nil {
		return fmt.Errorf("failed to encode debtor items: %w", err)
	}
	err = r.executor(ctx).QueryRow(ctx,
		"INSERT INTO debtors (name, phone, description, items, total, paid, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id",
		d.Name, d.Phone, d.Description, items, d.Total, d.Paid, d.CreatedAt).Scan(&d.ID)
	if err != nil {
		return fmt.Errorf("failed to create debtor: %w", err)
	}
	return nil
}

func (r *DebtorRepository) Update(ctx context.Context, d *model.Debtor) error {
	items, err := json.Marshal(d.Items)
	if err != nil {
		return fmt.Errorf("failed to encode debtor items: %w", err)
	}
	_, err = r.executor(ctx).Exec(ctx,
		"UPDATE debtors SET name = $1, phone = $2, description = $3, items = $4, total = $5, paid = $6 WHERE id = $7",
		d.Name, d.Phone, d.Description, items, d.Total, d.Paid, d.ID)
	if err != nil {
		return fmt.Errorf("failed to update debtor: %w", err)
	}
	return nil
}

// Delete removes a debtor record; deleting a missing id is a no-op.
func (r *DebtorRepository) Delete(ctx context.Context, id int) error {
	_, err := r.executor(ctx).Exec(ctx, "DELETE FROM debtors WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete debtor: %w", err)
	}
	return nil
}

func (r *DebtorRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.executor(ctx).QueryRow(ctx, "SELECT COUNT(*) FROM debtors").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count debtors: %w", err)
	}
	return count, nil
}

// PendingCount counts debtors that have not paid yet.
func (r *DebtorRepository) PendingCount(ctx context.Context) (int, error) {
	var count int
	err := r.executor(ctx).QueryRow(ctx,
		"SELECT COUNT(*) FROM debtors WHERE NOT paid").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count pending debtors: %w", err)
	}
	return count, nil
}
