package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionKind represents the classified type of a transaction.
// The amount sign is informative only; once classified, Kind is the
// source of truth.
type TransactionKind string

const (
	KindIncome   TransactionKind = "income"
	KindExpense  TransactionKind = "expense"
	KindTransfer TransactionKind = "transfer"
)

// String returns the canonical lowercase name of the kind
func (k TransactionKind) String() string {
	return string(k)
}

// IsValid checks if the transaction kind is valid
func (k TransactionKind) IsValid() bool {
	return k == KindIncome || k == KindExpense || k == KindTransfer
}

// Reference is a named link to a category or account. Only the name is
// carried through the CSV exchange; resolution against stored entities is
// the persistence layer's concern.
type Reference struct {
	Name string `json:"name"`
}

// Transaction represents a validated financial transaction record
type Transaction struct {
	ID       uuid.UUID       `json:"id"`
	Title    string          `json:"title"`
	Amount   decimal.Decimal `json:"amount"`
	Date     time.Time       `json:"date"`
	Kind     TransactionKind `json:"kind"`
	Notes    *string         `json:"notes,omitempty"`
	Category *Reference      `json:"category,omitempty"`
	Account  *Reference      `json:"account,omitempty"`
}

// NewTransaction creates a Transaction with a fresh identifier
func NewTransaction(title string, amount decimal.Decimal, date time.Time, kind TransactionKind) *Transaction {
	return &Transaction{
		ID:     uuid.New(),
		Title:  title,
		Amount: amount,
		Date:   date,
		Kind:   kind,
	}
}

// Validate performs basic validation on the Transaction
func (t *Transaction) Validate() error {
	if t.Date.IsZero() {
		return fmt.Errorf("transaction date cannot be zero")
	}
	if !t.Kind.IsValid() {
		return fmt.Errorf("invalid transaction kind: %s", t.Kind)
	}
	return nil
}

// String returns a string representation of the Transaction
func (t *Transaction) String() string {
	return fmt.Sprintf("Transaction{Title: %s, Amount: %s, Date: %s, Kind: %s}",
		t.Title, t.Amount.String(), t.Date.Format(DateLayout), t.Kind)
}

// ContentEquals reports whether two transactions carry the same observable
// content, ignoring identifiers. Used for duplicate detection on insert.
func (t *Transaction) ContentEquals(other *Transaction) bool {
	if other == nil {
		return false
	}

	return t.Title == other.Title &&
		t.Amount.Equal(other.Amount) &&
		t.Date.Format(DateLayout) == other.Date.Format(DateLayout) &&
		t.Kind == other.Kind
}

// DateLayout is the canonical date rendering for stored and exported records
const DateLayout = "2006-01-02"

// dateLayouts are the accepted import formats, tried in fixed order. The
// first layout that fully consumes the trimmed text wins.
var dateLayouts = []string{
	DateLayout,   // 2024-01-15
	"01/02/2006", // 01/15/2024
	"1/2/2006",   // 1/15/2024
}

// ParseDate parses a calendar date from raw CSV text
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("date string cannot be empty")
	}

	var lastErr error
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		} else {
			lastErr = err
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse date '%s': %w", s, lastErr)
}

// ParseAmount parses a signed decimal amount from raw CSV text. A leading
// currency symbol and thousands-separator commas are stripped before
// parsing.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("amount string cannot be empty")
	}

	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid decimal format '%s': %w", s, err)
	}

	return d, nil
}

// ParseTransactionKind parses a transaction kind from its canonical name or
// one of the accepted synonyms
func ParseTransactionKind(s string) (TransactionKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "income", "credit", "deposit":
		return KindIncome, nil
	case "expense", "debit", "withdrawal":
		return KindExpense, nil
	case "transfer":
		return KindTransfer, nil
	default:
		return "", fmt.Errorf("invalid transaction kind '%s'", s)
	}
}

// ClassifyKind resolves a transaction kind from optional raw text, falling
// back to the amount sign when the text is absent or unrecognized. The sign
// heuristic never produces a transfer: amounts >= 0 classify as income,
// negative amounts as expense.
func ClassifyKind(raw string, amount decimal.Decimal) TransactionKind {
	if kind, err := ParseTransactionKind(raw); err == nil {
		return kind
	}

	if amount.IsNegative() {
		return KindExpense
	}
	return KindIncome
}
