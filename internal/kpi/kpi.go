// Package kpi derives dashboard metrics and table filters from a project
// snapshot. Every function is pure and safe to call on each redraw.
package kpi

import (
	"github.com/nhle/project-ledger/internal/model"
)

// Summary aggregates a set of projects.
type Summary struct {
	TotalTransactionAmount model.Money
	TotalVATAmount         model.Money
	TotalPayment           model.Money
	TotalReceipts          model.Money
	TotalRemaining         model.Money

	// CompletionRate is receipts over payment in percent, zero when
	// nothing is payable. It exceeds 100 on overpayment.
	CompletionRate model.Percent

	CompletedProjects  int
	InProgressProjects int
	OverpaidProjects   int
	TotalProjects      int
}

// Compute reduces projects into a Summary. VAT is summed per project so
// mixed rates are honoured.
func Compute(projects []model.Project) Summary {
	var s Summary
	for _, p := range projects {
		s.TotalTransactionAmount = s.TotalTransactionAmount.Add(p.TransactionAmount)
		s.TotalVATAmount = s.TotalVATAmount.Add(p.VATAmount())
		s.TotalPayment = s.TotalPayment.Add(p.TotalPayment)
		s.TotalReceipts = s.TotalReceipts.Add(p.ProjectReceipts)
		s.TotalRemaining = s.TotalRemaining.Add(p.RemainingBalance)

		switch p.Status() {
		case model.StatusCompleted:
			s.CompletedProjects++
		case model.StatusInProgress:
			s.InProgressProjects++
		case model.StatusOverpaid:
			s.OverpaidProjects++
		}
	}
	s.TotalProjects = len(projects)

	if s.TotalPayment.IsPositive() {
		s.CompletionRate = s.TotalReceipts.DivRatio(s.TotalPayment)
	}
	return s
}
