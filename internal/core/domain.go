package core

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

const (
	Income  Kind = "Receita"
	Expense Kind = "Despesa"
)

type (
	// Kind distinguishes money coming in from money going out.
	Kind string

	Transaction struct {
		ID            int64
		Competence    string // "YYYY-MM" reporting period
		Date          Date
		Description   string
		Establishment string
		Amount        Money
		Kind          Kind
		Category      string
		PaymentMethod string
	}

	Category struct {
		ID            int64
		Name          string
		Kind          Kind
		MonthlyTarget *Money // nil means no target configured
	}

	// CardPurchase is a lump purchase paid in monthly installments.
	// It owns its installments: they are created with it and deleted with it.
	CardPurchase struct {
		ID           int64
		Description  string
		Card         string
		TotalAmount  Money
		Installments int
		FirstDueDate Date
		CreatedAt    time.Time
	}

	// Installment is one scheduled payment of a CardPurchase. PurchaseID is a
	// lookup reference only; the purchase remains the owner. Paid is the only
	// field that changes after creation.
	Installment struct {
		ID         int64
		PurchaseID int64
		Number     int
		Amount     Money
		DueDate    Date
		Paid       bool
	}
)

var (
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrInvalidPurchase   = errors.New("invalid purchase: amount and installment count must be positive")
	ErrEmptyDescription  = errors.New("empty description")
	ErrInvalidKind       = errors.New("invalid kind")
	ErrInvalidCompetence = errors.New("invalid competence, expected YYYY-MM")
	ErrEmptyCategoryName = errors.New("empty category name")
	ErrDuplicatePurchase = errors.New("purchase already registered")
)

var competencePattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

func (k Kind) Validate() error {
	switch k {
	case Income, Expense:
		return nil
	}
	return ErrInvalidKind
}

func (t Transaction) Validate() error {
	if !competencePattern.MatchString(t.Competence) {
		return ErrInvalidCompetence
	}
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if len(strings.TrimSpace(t.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(t.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	return t.Kind.Validate()
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyCategoryName
	}
	if err := c.Kind.Validate(); err != nil {
		return err
	}
	if c.MonthlyTarget != nil && c.MonthlyTarget.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Validate rejects a purchase before any installment is generated, so a bad
// request never leaves a partial schedule behind.
func (p CardPurchase) Validate() error {
	if len(strings.TrimSpace(p.Description)) == 0 {
		return ErrEmptyDescription
	}
	if p.TotalAmount.Cents <= 0 || p.Installments <= 0 {
		return ErrInvalidPurchase
	}
	return p.FirstDueDate.Validate()
}

// CompetenceOf derives the reporting period from a date.
func CompetenceOf(d Date) string {
	return d.Format("2006-01")
}

// ValidCompetence reports whether s is a well-formed YYYY-MM period.
func ValidCompetence(s string) bool {
	return competencePattern.MatchString(s)
}
