package services

import (
	"context"
	"fmt"
	"log/slog"

	"financas/internal/core"
	"financas/internal/storage"
)

// PurchaseService handles card purchases: it builds the installment schedule
// and persists the purchase with all its installments as one unit.
type PurchaseService struct {
	storage *storage.SQLiteRepository
}

func NewPurchaseService(storage *storage.SQLiteRepository) *PurchaseService {
	return &PurchaseService{storage: storage}
}

// Create validates the purchase, builds its schedule and stores everything
// atomically. Re-submitting an identical purchase returns
// core.ErrDuplicatePurchase instead of doubling the installments.
func (s *PurchaseService) Create(ctx context.Context, p core.CardPurchase) (int64, []core.Installment, error) {
	installments, err := BuildInstallments(p)
	if err != nil {
		return 0, nil, err
	}

	duplicate, err := s.storage.FindDuplicatePurchase(ctx, p)
	if err != nil {
		return 0, nil, fmt.Errorf("check duplicate: %w", err)
	}
	if duplicate {
		return 0, nil, core.ErrDuplicatePurchase
	}

	id, err := s.storage.CreatePurchase(ctx, p, installments)
	if err != nil {
		return 0, nil, fmt.Errorf("save purchase: %w", err)
	}

	for i := range installments {
		installments[i].PurchaseID = id
	}
	return id, installments, nil
}

// Delete removes a purchase and all its installments.
func (s *PurchaseService) Delete(ctx context.Context, id int64) error {
	if err := s.storage.DeletePurchase(ctx, id); err != nil {
		return fmt.Errorf("delete purchase: %w", err)
	}
	slog.InfoContext(ctx, "Purchase deleted with installments", "purchase_id", id)
	return nil
}

// TogglePaid flips one installment's paid flag and returns the new state.
func (s *PurchaseService) TogglePaid(ctx context.Context, installmentID int64) (bool, error) {
	paid, err := s.storage.ToggleInstallmentPaid(ctx, installmentID)
	if err != nil {
		return false, fmt.Errorf("toggle installment: %w", err)
	}
	return paid, nil
}

// ListInstallments returns installments filtered by due competence and card.
func (s *PurchaseService) ListInstallments(ctx context.Context, competence, card string) ([]core.Installment, error) {
	installments, err := s.storage.ListInstallments(ctx, competence, card)
	if err != nil {
		return nil, fmt.Errorf("list installments: %w", err)
	}
	return installments, nil
}
