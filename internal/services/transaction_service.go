package services

import (
	"context"
	"fmt"
	"log/slog"

	"financas/internal/amqp"
	"financas/internal/core"
	"financas/internal/storage"
)

// TransactionService handles the entry flow: classify, ensure the category
// exists, persist, and notify the export worker.
type TransactionService struct {
	storage    *storage.SQLiteRepository
	amqpClient *amqp.Client
	classifier Classifier
}

func NewTransactionService(storage *storage.SQLiteRepository, amqpClient *amqp.Client, classifier Classifier) *TransactionService {
	return &TransactionService{
		storage:    storage,
		amqpClient: amqpClient,
		classifier: classifier,
	}
}

// Create classifies and stores a transaction. The category is assigned
// before persistence; a manually supplied category is kept as an override.
// The competence defaults to the transaction date's month.
func (s *TransactionService) Create(ctx context.Context, t core.Transaction) (int64, error) {
	if t.Category == "" {
		t.Category = s.classifier.Classify(t.Description, t.Establishment)
	}
	if t.Competence == "" {
		t.Competence = core.CompetenceOf(t.Date)
	}

	if err := t.Validate(); err != nil {
		return 0, fmt.Errorf("validate transaction: %w", err)
	}

	// Category auto-creation on first use is part of the entry flow, not of
	// classification itself.
	if err := s.storage.EnsureCategory(ctx, t.Category, t.Kind); err != nil {
		return 0, fmt.Errorf("ensure category: %w", err)
	}

	id, err := s.storage.CreateTransaction(ctx, t)
	if err != nil {
		return 0, fmt.Errorf("save transaction: %w", err)
	}

	s.publish(ctx, id, amqp.OpCreate)
	return id, nil
}

// Delete removes a transaction and notifies the export worker.
func (s *TransactionService) Delete(ctx context.Context, id int64) error {
	if err := s.storage.DeleteTransaction(ctx, id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	s.publish(ctx, id, amqp.OpDelete)
	return nil
}

// ReclassifyFallback re-runs classification over every transaction still in
// the fallback category and moves the ones that now match a rule. Running it
// twice changes nothing the second time.
func (s *TransactionService) ReclassifyFallback(ctx context.Context) (int, error) {
	transactions, err := s.storage.ListTransactionsByCategory(ctx, FallbackCategory)
	if err != nil {
		return 0, fmt.Errorf("list fallback transactions: %w", err)
	}

	updated := 0
	for _, t := range transactions {
		category := s.classifier.Classify(t.Description, t.Establishment)
		if category == FallbackCategory {
			continue
		}
		if err := s.storage.EnsureCategory(ctx, category, t.Kind); err != nil {
			return updated, fmt.Errorf("ensure category: %w", err)
		}
		if err := s.storage.UpdateTransactionCategory(ctx, t.ID, category); err != nil {
			return updated, fmt.Errorf("update category: %w", err)
		}
		updated++
	}

	slog.InfoContext(ctx, "Reclassification pass complete",
		"checked", len(transactions),
		"updated", updated)

	return updated, nil
}

// publish is non-blocking for the caller: the transaction is already saved
// locally, so a broker failure only delays the export.
func (s *TransactionService) publish(ctx context.Context, id int64, op string) {
	if s.amqpClient == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping sync message", "transaction_id", id)
		return
	}
	if err := s.amqpClient.PublishLedgerSync(ctx, id, op); err != nil {
		slog.ErrorContext(ctx, "Failed to publish sync message",
			"transaction_id", id,
			"op", op,
			"error", err)
	}
}

// Close closes both storage and AMQP connections.
func (s *TransactionService) Close() error {
	var errs []error

	if s.storage != nil {
		if err := s.storage.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}
	if s.amqpClient != nil {
		if err := s.amqpClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close transaction service: %v", errs)
	}
	return nil
}
