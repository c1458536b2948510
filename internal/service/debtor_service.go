package service

import (
	"context"
	"errors"
	"time"

	"github.com/ohana-pos/pos/internal/model"
	"github.com/ohana-pos/pos/internal/repository"
)

var ErrMissingName = errors.New("debtor name is required")

type DebtorService struct {
	repo *repository.DebtorRepository
}

func NewDebtorService(repo *repository.DebtorRepository) *DebtorService {
	return &DebtorService{repo: repo}
}

func (s *DebtorService) List(ctx context.Context) ([]model.Debtor, error) {
	return s.repo.List(ctx)
}

func (s *DebtorService) Create(ctx context.Context, d *model.Debtor) error {
	if d.Name == "" {
		return ErrMissingName
	}
	// The client submits its own total; recompute from the items so the
	// stored record cannot drift from its lines.
	if len(d.Items) > 0 {
		d.Total = d.Items.Total()
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now()
	}
	return s.repo.Create(ctx, d)
}

// Update replaces the whole record; marking an already-paid debtor paid
// again is a no-op success.
func (s *DebtorService) Update(ctx context.Context, d *model.Debtor) error {
	if d.Name == "" {
		return ErrMissingName
	}
	if len(d.Items) > 0 {
		d.Total = d.Items.Total()
	}
	return s.repo.Update(ctx, d)
}

func (s *DebtorService) Delete(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id)
}

func (s *DebtorService) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

func (s *DebtorService) PendingCount(ctx context.Context) (int, error) {
	return s.repo.PendingCount(ctx)
}
