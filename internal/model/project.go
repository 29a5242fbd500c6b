package model

import "time"

// Status classifies a project by its remaining balance.
type Status string

const (
	StatusCompleted  Status = "completed"
	StatusInProgress Status = "in_progress"
	StatusOverpaid   Status = "overpaid"
)

// Fields is the editable part of a project. Derived amounts are not part of
// it and can only be obtained through NewProject or Apply.
type Fields struct {
	OrderDate         string
	ClientName        string
	OrderDetails      string
	TransactionAmount Money
	VATPercent        Percent
	ProjectReceipts   Money
	ProjectNotes      string
}

// Project is one client order tracked by the ledger.
type Project struct {
	ID                string    `db:"id"`
	OrderDate         string    `db:"order_date"`
	ClientName        string    `db:"client_name"`
	OrderDetails      string    `db:"order_details"`
	TransactionAmount Money     `db:"transaction_amount"`
	VATPercent        Percent   `db:"vat_percent"`
	TotalPayment      Money     `db:"total_payment"`
	ProjectReceipts   Money     `db:"project_receipts"`
	RemainingBalance  Money     `db:"remaining_balance"`
	ProjectNotes      string    `db:"project_notes"`
	CreatedAt         time.Time `db:"created_at"`
	UpdatedAt         time.Time `db:"updated_at"`
}

// NewProject builds a project with the given id and derived amounts
// computed from f.
func NewProject(id string, f Fields) Project {
	p := Project{ID: id}
	p.Apply(f)
	return p
}

// Apply replaces every editable field with f and recomputes TotalPayment
// and RemainingBalance. The ID is left untouched.
func (p *Project) Apply(f Fields) {
	p.OrderDate = f.OrderDate
	p.ClientName = f.ClientName
	p.OrderDetails = f.OrderDetails
	p.TransactionAmount = f.TransactionAmount
	p.VATPercent = f.VATPercent
	p.ProjectReceipts = f.ProjectReceipts
	p.ProjectNotes = f.ProjectNotes
	p.TotalPayment, p.RemainingBalance = Derive(f)
}

// Fields returns the editable fields of p.
func (p Project) Fields() Fields {
	return Fields{
		OrderDate:         p.OrderDate,
		ClientName:        p.ClientName,
		OrderDetails:      p.OrderDetails,
		TransactionAmount: p.TransactionAmount,
		VATPercent:        p.VATPercent,
		ProjectReceipts:   p.ProjectReceipts,
		ProjectNotes:      p.ProjectNotes,
	}
}

// VATAmount is the tax part of the total payment.
func (p Project) VATAmount() Money {
	return p.TransactionAmount.Percent(p.VATPercent)
}

// Status reports whether the project is settled, still owed money or
// overpaid.
func (p Project) Status() Status {
	return StatusOf(p.RemainingBalance)
}

// StatusOf classifies a remaining balance.
func StatusOf(remaining Money) Status {
	switch {
	case remaining.IsZero():
		return StatusCompleted
	case remaining.IsPositive():
		return StatusInProgress
	default:
		return StatusOverpaid
	}
}

// Derive computes totalPayment = amount * (1 + vat/100) and
// remainingBalance = totalPayment - receipts. Both are exact.
func Derive(f Fields) (total, remaining Money) {
	total = f.TransactionAmount.WithPercent(f.VATPercent)
	remaining = total.Sub(f.ProjectReceipts)
	return total, remaining
}
