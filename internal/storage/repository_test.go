package storage

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"financas/internal/core"
)

func newTestRepository(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "financas.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository() error = %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func testTransaction(competence string, day int, cents int64, kind core.Kind, category, method string) core.Transaction {
	return core.Transaction{
		Competence:    competence,
		Date:          core.NewDate(2025, 6, day),
		Description:   "lançamento de teste",
		Establishment: "estabelecimento",
		Amount:        core.Money{Cents: cents},
		Kind:          kind,
		Category:      category,
		PaymentMethod: method,
	}
}

func TestSQLiteRepository_TransactionLifecycle(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	id, err := repo.CreateTransaction(ctx, testTransaction("2025-06", 10, 12500, core.Expense, "Alimentação", "Pix"))
	if err != nil {
		t.Fatalf("CreateTransaction() error = %v", err)
	}

	got, err := repo.GetTransaction(ctx, id)
	if err != nil {
		t.Fatalf("GetTransaction() error = %v", err)
	}
	if got.Amount.Cents != 12500 || got.Category != "Alimentação" || got.Competence != "2025-06" {
		t.Errorf("GetTransaction() = %+v, fields do not round-trip", got)
	}
	if !got.Date.Equal(core.NewDate(2025, 6, 10).Time) {
		t.Errorf("GetTransaction() date = %v, want 2025-06-10", got.Date)
	}

	if err := repo.DeleteTransaction(ctx, id); err != nil {
		t.Fatalf("DeleteTransaction() error = %v", err)
	}
	if err := repo.DeleteTransaction(ctx, id); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("DeleteTransaction() on missing row = %v, want sql.ErrNoRows", err)
	}
	if _, err := repo.GetTransaction(ctx, id); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("GetTransaction() after delete = %v, want sql.ErrNoRows", err)
	}
}

func TestSQLiteRepository_ListAndAggregates(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	seed := []core.Transaction{
		testTransaction("2025-06", 5, 300000, core.Income, "Renda", "Pix"),
		testTransaction("2025-06", 8, 10000, core.Expense, "Alimentação", "Cartão"),
		testTransaction("2025-06", 9, 20000, core.Expense, "Alimentação", "Pix"),
		testTransaction("2025-06", 9, 15000, core.Expense, "Transporte", "Cartão"),
		testTransaction("2025-05", 9, 5000, core.Expense, "Lazer", "Pix"),
	}
	for _, tr := range seed {
		if _, err := repo.CreateTransaction(ctx, tr); err != nil {
			t.Fatalf("CreateTransaction() error = %v", err)
		}
	}

	june, err := repo.ListTransactions(ctx, "2025-06")
	if err != nil {
		t.Fatalf("ListTransactions() error = %v", err)
	}
	if len(june) != 4 {
		t.Errorf("ListTransactions(2025-06) = %d rows, want 4", len(june))
	}

	all, err := repo.ListTransactions(ctx, "")
	if err != nil {
		t.Fatalf("ListTransactions(all) error = %v", err)
	}
	if len(all) != 5 {
		t.Errorf("ListTransactions(all) = %d rows, want 5", len(all))
	}

	income, err := repo.KindTotal(ctx, "2025-06", core.Income)
	if err != nil {
		t.Fatalf("KindTotal() error = %v", err)
	}
	if income.Cents != 300000 {
		t.Errorf("income total = %d, want 300000", income.Cents)
	}

	expenses, err := repo.KindTotal(ctx, "2025-06", core.Expense)
	if err != nil {
		t.Fatalf("KindTotal() error = %v", err)
	}
	if expenses.Cents != 45000 {
		t.Errorf("expense total = %d, want 45000", expenses.Cents)
	}

	byCategory, err := repo.CategoryExpenseTotals(ctx, "2025-06")
	if err != nil {
		t.Fatalf("CategoryExpenseTotals() error = %v", err)
	}
	if len(byCategory) != 2 {
		t.Fatalf("CategoryExpenseTotals() = %d rows, want 2", len(byCategory))
	}
	// Largest first.
	if byCategory[0].Name != "Alimentação" || byCategory[0].Amount.Cents != 30000 {
		t.Errorf("top category = %+v, want Alimentação 30000", byCategory[0])
	}

	card, err := repo.PaymentMethodTotal(ctx, "2025-06", "Cartão")
	if err != nil {
		t.Fatalf("PaymentMethodTotal() error = %v", err)
	}
	if card.Cents != 25000 {
		t.Errorf("card total = %d, want 25000", card.Cents)
	}

	flows, err := repo.CompetenceFlows(ctx, []string{"2025-04", "2025-05", "2025-06"})
	if err != nil {
		t.Fatalf("CompetenceFlows() error = %v", err)
	}
	if len(flows) != 3 {
		t.Fatalf("CompetenceFlows() = %d rows, want 3", len(flows))
	}
	if flows[0].Income.Cents != 0 || flows[0].Expenses.Cents != 0 {
		t.Errorf("empty competence should be zero-filled, got %+v", flows[0])
	}
	if flows[1].Expenses.Cents != 5000 {
		t.Errorf("2025-05 expenses = %d, want 5000", flows[1].Expenses.Cents)
	}
	if flows[2].Income.Cents != 300000 || flows[2].Expenses.Cents != 45000 {
		t.Errorf("2025-06 flow = %+v, want 300000/45000", flows[2])
	}

	competences, err := repo.ListCompetences(ctx)
	if err != nil {
		t.Fatalf("ListCompetences() error = %v", err)
	}
	if len(competences) != 2 || competences[0] != "2025-06" {
		t.Errorf("ListCompetences() = %v, want [2025-06 2025-05]", competences)
	}
}

func TestSQLiteRepository_Categories(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	if err := repo.EnsureCategory(ctx, "Alimentação", core.Expense); err != nil {
		t.Fatalf("EnsureCategory() error = %v", err)
	}
	// Second call must be a no-op, not an error.
	if err := repo.EnsureCategory(ctx, "Alimentação", core.Expense); err != nil {
		t.Fatalf("EnsureCategory() repeat error = %v", err)
	}

	target := core.Money{Cents: 80000}
	if _, err := repo.CreateCategory(ctx, core.Category{
		Name:          "Transporte",
		Kind:          core.Expense,
		MonthlyTarget: &target,
	}); err != nil {
		t.Fatalf("CreateCategory() error = %v", err)
	}

	categories, err := repo.ListCategories(ctx)
	if err != nil {
		t.Fatalf("ListCategories() error = %v", err)
	}
	if len(categories) != 2 {
		t.Fatalf("ListCategories() = %d rows, want 2", len(categories))
	}
	for _, c := range categories {
		switch c.Name {
		case "Alimentação":
			if c.MonthlyTarget != nil {
				t.Error("ensured category should carry no target")
			}
		case "Transporte":
			if c.MonthlyTarget == nil || c.MonthlyTarget.Cents != 80000 {
				t.Errorf("Transporte target = %v, want 80000", c.MonthlyTarget)
			}
		}
	}
}

func TestSQLiteRepository_PurchaseLifecycle(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	purchase := core.CardPurchase{
		Description:  "notebook",
		Card:         "Nubank",
		TotalAmount:  core.Money{Cents: 300000},
		Installments: 3,
		FirstDueDate: core.NewDate(2025, 7, 10),
	}
	installments := []core.Installment{
		{Number: 1, Amount: core.Money{Cents: 100000}, DueDate: core.NewDate(2025, 7, 10)},
		{Number: 2, Amount: core.Money{Cents: 100000}, DueDate: core.NewDate(2025, 8, 10)},
		{Number: 3, Amount: core.Money{Cents: 100000}, DueDate: core.NewDate(2025, 9, 10)},
	}

	dup, err := repo.FindDuplicatePurchase(ctx, purchase)
	if err != nil {
		t.Fatalf("FindDuplicatePurchase() error = %v", err)
	}
	if dup {
		t.Error("empty database should report no duplicate")
	}

	id, err := repo.CreatePurchase(ctx, purchase, installments)
	if err != nil {
		t.Fatalf("CreatePurchase() error = %v", err)
	}

	dup, err = repo.FindDuplicatePurchase(ctx, purchase)
	if err != nil {
		t.Fatalf("FindDuplicatePurchase() error = %v", err)
	}
	if !dup {
		t.Error("identical purchase should be reported as duplicate")
	}

	stored, err := repo.ListInstallments(ctx, "", "")
	if err != nil {
		t.Fatalf("ListInstallments() error = %v", err)
	}
	if len(stored) != 3 {
		t.Fatalf("ListInstallments() = %d rows, want 3", len(stored))
	}
	for _, inst := range stored {
		if inst.PurchaseID != id {
			t.Errorf("installment %d purchase_id = %d, want %d", inst.Number, inst.PurchaseID, id)
		}
		if inst.Paid {
			t.Errorf("installment %d should start unpaid", inst.Number)
		}
	}

	august, err := repo.ListInstallments(ctx, "2025-08", "")
	if err != nil {
		t.Fatalf("ListInstallments(competence) error = %v", err)
	}
	if len(august) != 1 || august[0].Number != 2 {
		t.Errorf("ListInstallments(2025-08) = %+v, want installment 2", august)
	}

	byCard, err := repo.ListInstallments(ctx, "", "Nu")
	if err != nil {
		t.Fatalf("ListInstallments(card) error = %v", err)
	}
	if len(byCard) != 3 {
		t.Errorf("ListInstallments(card match) = %d rows, want 3", len(byCard))
	}

	paid, err := repo.ToggleInstallmentPaid(ctx, stored[0].ID)
	if err != nil {
		t.Fatalf("ToggleInstallmentPaid() error = %v", err)
	}
	if !paid {
		t.Error("first toggle should mark the installment paid")
	}
	paid, err = repo.ToggleInstallmentPaid(ctx, stored[0].ID)
	if err != nil {
		t.Fatalf("ToggleInstallmentPaid() error = %v", err)
	}
	if paid {
		t.Error("second toggle should mark it unpaid again")
	}
	if _, err := repo.ToggleInstallmentPaid(ctx, 99999); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("ToggleInstallmentPaid() on missing row = %v, want sql.ErrNoRows", err)
	}

	pending, err := repo.PendingInstallments(ctx, core.NewDate(2025, 8, 1))
	if err != nil {
		t.Fatalf("PendingInstallments() error = %v", err)
	}
	if len(pending) != 2 {
		t.Errorf("PendingInstallments() = %d rows, want 2", len(pending))
	}

	planning, err := repo.PlanningByCard(ctx, core.NewDate(2025, 7, 1))
	if err != nil {
		t.Fatalf("PlanningByCard() error = %v", err)
	}
	if len(planning) != 3 {
		t.Fatalf("PlanningByCard() = %d months, want 3", len(planning))
	}
	if planning[0].Competence != "2025-07" || planning[0].ByCard[0].Card != "Nubank" {
		t.Errorf("first planned month = %+v, want 2025-07 Nubank", planning[0])
	}
	if planning[0].ByCard[0].Count != 1 || planning[0].ByCard[0].Total.Cents != 100000 {
		t.Errorf("planned load = %+v, want 1 installment of 100000", planning[0].ByCard[0])
	}

	if err := repo.DeletePurchase(ctx, id); err != nil {
		t.Fatalf("DeletePurchase() error = %v", err)
	}
	left, err := repo.ListInstallments(ctx, "", "")
	if err != nil {
		t.Fatalf("ListInstallments() after delete error = %v", err)
	}
	if len(left) != 0 {
		t.Errorf("installments left after purchase delete = %d, want 0", len(left))
	}
	if err := repo.DeletePurchase(ctx, id); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("DeletePurchase() on missing row = %v, want sql.ErrNoRows", err)
	}
}

func TestSQLiteRepository_UpdateTransactionCategory(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	id, err := repo.CreateTransaction(ctx, testTransaction("2025-06", 10, 5000, core.Expense, "Outros", "Pix"))
	if err != nil {
		t.Fatalf("CreateTransaction() error = %v", err)
	}

	if err := repo.UpdateTransactionCategory(ctx, id, "Alimentação"); err != nil {
		t.Fatalf("UpdateTransactionCategory() error = %v", err)
	}

	got, err := repo.GetTransaction(ctx, id)
	if err != nil {
		t.Fatalf("GetTransaction() error = %v", err)
	}
	if got.Category != "Alimentação" {
		t.Errorf("category = %q, want Alimentação", got.Category)
	}

	outros, err := repo.ListTransactionsByCategory(ctx, "Outros")
	if err != nil {
		t.Fatalf("ListTransactionsByCategory() error = %v", err)
	}
	if len(outros) != 0 {
		t.Errorf("Outros still has %d transactions, want 0", len(outros))
	}
}
