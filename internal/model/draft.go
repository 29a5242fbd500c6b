package model

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidNumber is returned when a numeric field holds text that is
	// not a decimal number.
	ErrInvalidNumber = errors.New("not a number")
	// ErrNegativeAmount is returned when a numeric field is below zero.
	ErrNegativeAmount = errors.New("must not be negative")
)

// Draft holds the raw textual input of the add and edit forms.
type Draft struct {
	OrderDate         string
	ClientName        string
	OrderDetails      string
	TransactionAmount string
	VATPercent        string
	ProjectReceipts   string
	ProjectNotes      string
}

// DraftOf returns the textual form of f, suitable to prefill an edit buffer.
func DraftOf(f Fields) Draft {
	return Draft{
		OrderDate:         f.OrderDate,
		ClientName:        f.ClientName,
		OrderDetails:      f.OrderDetails,
		TransactionAmount: f.TransactionAmount.String(),
		VATPercent:        f.VATPercent.String(),
		ProjectReceipts:   f.ProjectReceipts.String(),
		ProjectNotes:      f.ProjectNotes,
	}
}

// ParseDraft converts d into typed fields. Numeric fields are trimmed;
// empty means zero, anything else that is not a non-negative decimal is
// rejected. Text fields are kept verbatim.
func ParseDraft(d Draft) (Fields, error) {
	amount, err := ParseNumber("transaction amount", d.TransactionAmount)
	if err != nil {
		return Fields{}, err
	}
	vat, err := ParseNumber("VAT percent", d.VATPercent)
	if err != nil {
		return Fields{}, err
	}
	receipts, err := ParseNumber("project receipts", d.ProjectReceipts)
	if err != nil {
		return Fields{}, err
	}
	return Fields{
		OrderDate:         d.OrderDate,
		ClientName:        d.ClientName,
		OrderDetails:      d.OrderDetails,
		TransactionAmount: Money{value: amount},
		VATPercent:        Percent{value: vat},
		ProjectReceipts:   Money{value: receipts},
		ProjectNotes:      d.ProjectNotes,
	}, nil
}

// ParseNumber applies the numeric input policy to a single field.
func ParseNumber(field, s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s %q: %w", field, s, ErrInvalidNumber)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%s %q: %w", field, s, ErrNegativeAmount)
	}
	return d, nil
}
