package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"financas/internal/core"

	_ "modernc.org/sqlite"
)

const dateLayout = "2006-01-02"

// SQLiteRepository is the persistence collaborator for the analytics core.
// Every method operates on a consistent snapshot; purchase creation and
// deletion run in a single SQL transaction so installment sets are never
// half-applied.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// --- transactions ---

func (r *SQLiteRepository) CreateTransaction(ctx context.Context, t core.Transaction) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions (competence, date, description, establishment, amount_cents, kind, category, payment_method)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.Competence, t.Date.Format(dateLayout), t.Description, t.Establishment,
		t.Amount.Cents, string(t.Kind), t.Category, t.PaymentMethod)
	if err != nil {
		return 0, fmt.Errorf("insert transaction: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("transaction id: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved",
		"id", id,
		"description", t.Description,
		"amount_cents", t.Amount.Cents,
		"category", t.Category,
		"competence", t.Competence)

	return id, nil
}

func (r *SQLiteRepository) GetTransaction(ctx context.Context, id int64) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, competence, date, description, establishment, amount_cents, kind, category, payment_method
		FROM transactions WHERE id = ?`, id)
	return scanTransaction(row)
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ListTransactions returns transactions for a competence, or all of them
// when competence is empty, newest first.
func (r *SQLiteRepository) ListTransactions(ctx context.Context, competence string) ([]core.Transaction, error) {
	query := `
		SELECT id, competence, date, description, establishment, amount_cents, kind, category, payment_method
		FROM transactions`
	args := []any{}
	if competence != "" {
		query += ` WHERE competence = ?`
		args = append(args, competence)
	}
	query += ` ORDER BY date DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()
	return collectTransactions(rows)
}

// ListTransactionsByCategory supports the bulk reclassification pass.
func (r *SQLiteRepository) ListTransactionsByCategory(ctx context.Context, category string) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, competence, date, description, establishment, amount_cents, kind, category, payment_method
		FROM transactions WHERE category = ? ORDER BY id`, category)
	if err != nil {
		return nil, fmt.Errorf("list transactions by category: %w", err)
	}
	defer rows.Close()
	return collectTransactions(rows)
}

func (r *SQLiteRepository) UpdateTransactionCategory(ctx context.Context, id int64, category string) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET category = ? WHERE id = ?`, category, id); err != nil {
		return fmt.Errorf("update transaction category: %w", err)
	}
	return nil
}

// KindTotal sums transaction amounts of one kind. Empty competence means all
// periods.
func (r *SQLiteRepository) KindTotal(ctx context.Context, competence string, kind core.Kind) (core.Money, error) {
	query := `SELECT COALESCE(SUM(amount_cents), 0) FROM transactions WHERE kind = ?`
	args := []any{string(kind)}
	if competence != "" {
		query += ` AND competence = ?`
		args = append(args, competence)
	}

	var cents int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&cents); err != nil {
		return core.Money{}, fmt.Errorf("sum %s: %w", kind, err)
	}
	return core.Money{Cents: cents}, nil
}

// CategoryExpenseTotals aggregates expense spend per category, largest first.
func (r *SQLiteRepository) CategoryExpenseTotals(ctx context.Context, competence string) ([]core.CategoryAmount, error) {
	query := `
		SELECT category, COALESCE(SUM(amount_cents), 0) AS total
		FROM transactions WHERE kind = ?`
	args := []any{string(core.Expense)}
	if competence != "" {
		query += ` AND competence = ?`
		args = append(args, competence)
	}
	query += ` GROUP BY category ORDER BY total DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("category totals: %w", err)
	}
	defer rows.Close()

	var totals []core.CategoryAmount
	for rows.Next() {
		var ca core.CategoryAmount
		if err := rows.Scan(&ca.Name, &ca.Amount.Cents); err != nil {
			return nil, fmt.Errorf("scan category total: %w", err)
		}
		totals = append(totals, ca)
	}
	return totals, rows.Err()
}

// PaymentMethodTotal sums expense spend carried on one payment method.
func (r *SQLiteRepository) PaymentMethodTotal(ctx context.Context, competence, method string) (core.Money, error) {
	query := `SELECT COALESCE(SUM(amount_cents), 0) FROM transactions WHERE kind = ? AND payment_method = ?`
	args := []any{string(core.Expense), method}
	if competence != "" {
		query += ` AND competence = ?`
		args = append(args, competence)
	}

	var cents int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&cents); err != nil {
		return core.Money{}, fmt.Errorf("payment method total: %w", err)
	}
	return core.Money{Cents: cents}, nil
}

// CompetenceFlows returns income and expense totals for each requested
// competence, in the order given; competences without records yield zeros.
func (r *SQLiteRepository) CompetenceFlows(ctx context.Context, competences []string) ([]core.CompetenceFlow, error) {
	byCompetence := make(map[string]*core.CompetenceFlow, len(competences))
	flows := make([]core.CompetenceFlow, len(competences))
	for i, c := range competences {
		flows[i].Competence = c
		byCompetence[c] = &flows[i]
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT competence, kind, COALESCE(SUM(amount_cents), 0)
		FROM transactions GROUP BY competence, kind`)
	if err != nil {
		return nil, fmt.Errorf("competence flows: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var competence, kind string
		var cents int64
		if err := rows.Scan(&competence, &kind, &cents); err != nil {
			return nil, fmt.Errorf("scan competence flow: %w", err)
		}
		flow, ok := byCompetence[competence]
		if !ok {
			continue
		}
		switch core.Kind(kind) {
		case core.Income:
			flow.Income = core.Money{Cents: cents}
		case core.Expense:
			flow.Expenses = core.Money{Cents: cents}
		}
	}
	return flows, rows.Err()
}

func (r *SQLiteRepository) ListCompetences(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT DISTINCT competence FROM transactions ORDER BY competence DESC`)
	if err != nil {
		return nil, fmt.Errorf("list competences: %w", err)
	}
	defer rows.Close()

	var competences []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("scan competence: %w", err)
		}
		competences = append(competences, c)
	}
	return competences, rows.Err()
}

// --- categories ---

// EnsureCategory creates the category on first use; existing names are left
// untouched, including their targets.
func (r *SQLiteRepository) EnsureCategory(ctx context.Context, name string, kind core.Kind) error {
	if _, err := r.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO categories (name, kind) VALUES (?, ?)`, name, string(kind)); err != nil {
		return fmt.Errorf("ensure category: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) CreateCategory(ctx context.Context, c core.Category) (int64, error) {
	var target any
	if c.MonthlyTarget != nil {
		target = c.MonthlyTarget.Cents
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO categories (name, kind, monthly_target_cents) VALUES (?, ?, ?)`,
		c.Name, string(c.Kind), target)
	if err != nil {
		return 0, fmt.Errorf("insert category: %w", err)
	}
	return res.LastInsertId()
}

func (r *SQLiteRepository) ListCategories(ctx context.Context) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, kind, monthly_target_cents FROM categories ORDER BY kind DESC, name`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []core.Category
	for rows.Next() {
		var c core.Category
		var kind string
		var target sql.NullInt64
		if err := rows.Scan(&c.ID, &c.Name, &kind, &target); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		c.Kind = core.Kind(kind)
		if target.Valid {
			c.MonthlyTarget = &core.Money{Cents: target.Int64}
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// --- card purchases and installments ---

// FindDuplicatePurchase reports whether an identical purchase already exists.
func (r *SQLiteRepository) FindDuplicatePurchase(ctx context.Context, p core.CardPurchase) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM card_purchases
		WHERE description = ? AND card = ? AND total_amount_cents = ?
		  AND installment_count = ? AND first_due_date = ?`,
		p.Description, p.Card, p.TotalAmount.Cents, p.Installments,
		p.FirstDueDate.Format(dateLayout)).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check duplicate purchase: %w", err)
	}
	return count > 0, nil
}

// CreatePurchase stores a purchase together with its full installment
// schedule in one transaction. Either everything lands or nothing does.
func (r *SQLiteRepository) CreatePurchase(ctx context.Context, p core.CardPurchase, installments []core.Installment) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin purchase tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO card_purchases (description, card, total_amount_cents, installment_count, first_due_date)
		VALUES (?, ?, ?, ?, ?)`,
		p.Description, p.Card, p.TotalAmount.Cents, p.Installments,
		p.FirstDueDate.Format(dateLayout))
	if err != nil {
		return 0, fmt.Errorf("insert purchase: %w", err)
	}
	purchaseID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("purchase id: %w", err)
	}

	for _, inst := range installments {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO installments (purchase_id, number, amount_cents, due_date, paid)
			VALUES (?, ?, ?, ?, 0)`,
			purchaseID, inst.Number, inst.Amount.Cents,
			inst.DueDate.Format(dateLayout)); err != nil {
			return 0, fmt.Errorf("insert installment %d: %w", inst.Number, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit purchase: %w", err)
	}

	slog.InfoContext(ctx, "Purchase saved with installments",
		"purchase_id", purchaseID,
		"description", p.Description,
		"amount_cents", p.TotalAmount.Cents,
		"installments", len(installments))

	return purchaseID, nil
}

// DeletePurchase removes a purchase and cascades to its installments.
func (r *SQLiteRepository) DeletePurchase(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM installments WHERE purchase_id = ?`, id); err != nil {
		return fmt.Errorf("delete installments: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM card_purchases WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete purchase: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}

	return tx.Commit()
}

// ToggleInstallmentPaid flips the paid flag and returns the new state. The
// flag is the only installment field mutable after creation.
func (r *SQLiteRepository) ToggleInstallmentPaid(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE installments SET paid = 1 - paid WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("toggle installment: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return false, sql.ErrNoRows
	}

	var paid bool
	if err := r.db.QueryRowContext(ctx,
		`SELECT paid FROM installments WHERE id = ?`, id).Scan(&paid); err != nil {
		return false, fmt.Errorf("read installment state: %w", err)
	}
	return paid, nil
}

// ListInstallments returns installments, optionally filtered by due-date
// competence (YYYY-MM) and card substring, ordered by due date.
func (r *SQLiteRepository) ListInstallments(ctx context.Context, competence, card string) ([]core.Installment, error) {
	query := `
		SELECT i.id, i.purchase_id, i.number, i.amount_cents, i.due_date, i.paid
		FROM installments i
		JOIN card_purchases p ON p.id = i.purchase_id
		WHERE 1 = 1`
	args := []any{}
	if competence != "" {
		query += ` AND substr(i.due_date, 1, 7) = ?`
		args = append(args, competence)
	}
	if card != "" {
		query += ` AND p.card LIKE ?`
		args = append(args, "%"+card+"%")
	}
	query += ` ORDER BY i.due_date, i.number`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list installments: %w", err)
	}
	defer rows.Close()
	return collectInstallments(rows)
}

// PendingInstallments returns unpaid installments due on or after a date.
func (r *SQLiteRepository) PendingInstallments(ctx context.Context, from core.Date) ([]core.Installment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, purchase_id, number, amount_cents, due_date, paid
		FROM installments
		WHERE paid = 0 AND due_date >= ?
		ORDER BY due_date, number`, from.Format(dateLayout))
	if err != nil {
		return nil, fmt.Errorf("pending installments: %w", err)
	}
	defer rows.Close()
	return collectInstallments(rows)
}

// PlanningByCard groups future installment load by competence and card.
func (r *SQLiteRepository) PlanningByCard(ctx context.Context, from core.Date) ([]core.PlannedMonth, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT substr(i.due_date, 1, 7) AS competence, p.card, COUNT(*), SUM(i.amount_cents)
		FROM installments i
		JOIN card_purchases p ON p.id = i.purchase_id
		WHERE i.due_date >= ?
		GROUP BY competence, p.card
		ORDER BY competence, p.card`, from.Format(dateLayout))
	if err != nil {
		return nil, fmt.Errorf("planning by card: %w", err)
	}
	defer rows.Close()

	var months []core.PlannedMonth
	for rows.Next() {
		var competence, card string
		var count int
		var total int64
		if err := rows.Scan(&competence, &card, &count, &total); err != nil {
			return nil, fmt.Errorf("scan planning row: %w", err)
		}
		if card == "" {
			card = "Não informado"
		}
		entry := core.CardInstallments{Card: card, Count: count, Total: core.Money{Cents: total}}
		if n := len(months); n > 0 && months[n-1].Competence == competence {
			months[n-1].ByCard = append(months[n-1].ByCard, entry)
		} else {
			months = append(months, core.PlannedMonth{Competence: competence, ByCard: []core.CardInstallments{entry}})
		}
	}
	return months, rows.Err()
}

// --- row helpers ---

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var t core.Transaction
	var date, kind string
	err := row.Scan(&t.ID, &t.Competence, &date, &t.Description, &t.Establishment,
		&t.Amount.Cents, &kind, &t.Category, &t.PaymentMethod)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Transaction{}, err
		}
		return core.Transaction{}, fmt.Errorf("scan transaction: %w", err)
	}
	parsed, err := time.Parse(dateLayout, date)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("parse transaction date %q: %w", date, err)
	}
	t.Date = core.DateOf(parsed)
	t.Kind = core.Kind(kind)
	return t, nil
}

func collectTransactions(rows *sql.Rows) ([]core.Transaction, error) {
	var transactions []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}
	return transactions, rows.Err()
}

func collectInstallments(rows *sql.Rows) ([]core.Installment, error) {
	var installments []core.Installment
	for rows.Next() {
		var inst core.Installment
		var due string
		if err := rows.Scan(&inst.ID, &inst.PurchaseID, &inst.Number,
			&inst.Amount.Cents, &due, &inst.Paid); err != nil {
			return nil, fmt.Errorf("scan installment: %w", err)
		}
		parsed, err := time.Parse(dateLayout, due)
		if err != nil {
			return nil, fmt.Errorf("parse due date %q: %w", due, err)
		}
		inst.DueDate = core.DateOf(parsed)
		installments = append(installments, inst)
	}
	return installments, rows.Err()
}
