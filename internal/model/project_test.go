package model_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nhle/project-ledger/internal/model"
)

func TestNewProject_DerivesTotals(t *testing.T) {
	p := model.NewProject("p1", model.Fields{
		ClientName:        "ABC Ltd",
		TransactionAmount: model.M(1000),
		VATPercent:        model.P(20),
		ProjectReceipts:   model.M(600),
	})

	require.Equal(t, "p1", p.ID)
	require.True(t, p.TotalPayment.Equal(model.M(1200)), "total = %s", p.TotalPayment)
	require.True(t, p.RemainingBalance.Equal(model.M(600)), "remaining = %s", p.RemainingBalance)
	require.True(t, p.VATAmount().Equal(model.M(200)))
	require.Equal(t, model.StatusInProgress, p.Status())
}

func TestApply_RecomputesAndKeepsID(t *testing.T) {
	p := model.NewProject("p1", model.Fields{TransactionAmount: model.M(45000), VATPercent: model.P(17)})
	require.True(t, p.TotalPayment.Equal(model.M(52650)))

	p.Apply(model.Fields{
		TransactionAmount: model.M(32000),
		VATPercent:        model.P(17),
		ProjectReceipts:   model.M(37440),
	})

	require.Equal(t, "p1", p.ID)
	require.True(t, p.TotalPayment.Equal(model.M(37440)))
	require.True(t, p.RemainingBalance.IsZero())
	require.Equal(t, model.StatusCompleted, p.Status())
}

func TestDerive_ExactDecimalArithmetic(t *testing.T) {
	// 0.1 * 1.17 is not representable as a float; the balance must still be exactly zero.
	total, remaining := model.Derive(model.Fields{
		TransactionAmount: model.M(0.1),
		VATPercent:        model.P(17),
		ProjectReceipts:   model.M(0.117),
	})
	require.Equal(t, "0.117", total.String())
	require.True(t, remaining.IsZero())
}

func TestStatus_Overpaid(t *testing.T) {
	p := model.NewProject("p1", model.Fields{
		TransactionAmount: model.M(100),
		ProjectReceipts:   model.M(150),
	})
	require.True(t, p.RemainingBalance.Equal(model.M(-50)))
	require.Equal(t, model.StatusOverpaid, p.Status())
}

func TestFields_RoundTripsEditableValues(t *testing.T) {
	f := model.Fields{
		OrderDate:         "2024-01-15",
		ClientName:        "ABC Ltd",
		OrderDetails:      "5000L milk tank",
		TransactionAmount: model.M(45000),
		VATPercent:        model.P(17),
		ProjectReceipts:   model.M(30000),
		ProjectNotes:      "urgent",
	}
	got := model.NewProject("x", f).Fields()
	require.Equal(t, f.ClientName, got.ClientName)
	require.Equal(t, f.OrderDate, got.OrderDate)
	require.Equal(t, f.ProjectNotes, got.ProjectNotes)
	require.True(t, got.TransactionAmount.Equal(f.TransactionAmount))
	require.True(t, got.VATPercent.Equal(f.VATPercent))
	require.True(t, got.ProjectReceipts.Equal(f.ProjectReceipts))
}
