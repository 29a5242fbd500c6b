package kpi_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nhle/project-ledger/internal/kpi"
	"github.com/nhle/project-ledger/internal/model"
)

func project(id, client, details string, amount, vat, receipts float64) model.Project {
	return model.NewProject(id, model.Fields{
		ClientName:        client,
		OrderDetails:      details,
		TransactionAmount: model.M(amount),
		VATPercent:        model.P(vat),
		ProjectReceipts:   model.M(receipts),
	})
}

func requireMoney(t *testing.T, want float64, got model.Money, field string) {
	t.Helper()
	require.True(t, got.Equal(model.M(want)), "%s = %s, want %v", field, got, want)
}

func TestCompute_SumsPerProjectValues(t *testing.T) {
	projects := []model.Project{
		project("1", "ABC", "tank", 1000, 20, 600),  // total 1200, vat 200, remaining 600
		project("2", "Sun", "pump", 500, 10, 550),   // total 550, vat 50, remaining 0
		project("3", "Olive", "pipe", 2000, 0, 500), // total 2000, vat 0, remaining 1500
	}

	s := kpi.Compute(projects)

	requireMoney(t, 3500, s.TotalTransactionAmount, "TotalTransactionAmount")
	requireMoney(t, 250, s.TotalVATAmount, "TotalVATAmount")
	requireMoney(t, 3750, s.TotalPayment, "TotalPayment")
	requireMoney(t, 1650, s.TotalReceipts, "TotalReceipts")
	requireMoney(t, 2100, s.TotalRemaining, "TotalRemaining")
	require.Equal(t, "44.0%", s.CompletionRate.Fixed(1))
	require.Equal(t, 1, s.CompletedProjects)
	require.Equal(t, 2, s.InProgressProjects)
	require.Equal(t, 0, s.OverpaidProjects)
	require.Equal(t, 3, s.TotalProjects)

	var total, remaining model.Money
	for _, p := range projects {
		total = total.Add(p.TotalPayment)
		remaining = remaining.Add(p.RemainingBalance)
	}
	require.True(t, s.TotalPayment.Equal(total))
	require.True(t, s.TotalRemaining.Equal(remaining))
}

func TestCompute_VATIsPerProject(t *testing.T) {
	// 10% of 100 plus 50% of 300 differs from the average rate applied to 400.
	s := kpi.Compute([]model.Project{
		project("1", "", "", 100, 10, 0),
		project("2", "", "", 300, 50, 0),
	})
	requireMoney(t, 160, s.TotalVATAmount, "TotalVATAmount")
}

func TestCompute_AllSettled(t *testing.T) {
	s := kpi.Compute([]model.Project{
		project("1", "A", "", 1000, 20, 1200),
		project("2", "B", "", 800, 0, 800),
	})

	requireMoney(t, 2000, s.TotalPayment, "TotalPayment")
	require.Equal(t, 2, s.CompletedProjects)
	require.Equal(t, 0, s.InProgressProjects)
	require.True(t, s.CompletionRate.Equal(model.P(100)), "rate = %s", s.CompletionRate)
}

func TestCompute_ZeroPaymentHasZeroRate(t *testing.T) {
	require.True(t, kpi.Compute(nil).CompletionRate.IsZero())

	s := kpi.Compute([]model.Project{project("1", "A", "", 0, 17, 0)})
	require.True(t, s.CompletionRate.IsZero())
	require.Equal(t, 1, s.CompletedProjects)
	require.Equal(t, 1, s.TotalProjects)
}

func TestCompute_OverpaidInNeitherBucket(t *testing.T) {
	s := kpi.Compute([]model.Project{
		project("1", "A", "", 100, 0, 150),
		project("2", "B", "", 100, 0, 50),
	})

	require.Equal(t, 0, s.CompletedProjects)
	require.Equal(t, 1, s.InProgressProjects)
	require.Equal(t, 1, s.OverpaidProjects)
	require.Equal(t, 2, s.TotalProjects)
	require.True(t, s.CompletionRate.Equal(model.P(100)))
}

func TestCompute_RateExceedsHundredOnOverpayment(t *testing.T) {
	s := kpi.Compute([]model.Project{project("1", "A", "", 100, 0, 150)})
	require.True(t, s.CompletionRate.Equal(model.P(150)))
	requireMoney(t, -50, s.TotalRemaining, "TotalRemaining")
}

func TestSelect_NarrowsKPIsToOneProject(t *testing.T) {
	projects := []model.Project{
		project("1", "ABC", "", 1000, 20, 600),
		project("2", "Sun", "", 500, 10, 550),
	}

	s := kpi.Compute(kpi.Select(projects, "2"))

	requireMoney(t, 500, s.TotalTransactionAmount, "TotalTransactionAmount")
	requireMoney(t, 50, s.TotalVATAmount, "TotalVATAmount")
	requireMoney(t, 550, s.TotalPayment, "TotalPayment")
	requireMoney(t, 550, s.TotalReceipts, "TotalReceipts")
	requireMoney(t, 0, s.TotalRemaining, "TotalRemaining")
	require.True(t, s.CompletionRate.Equal(model.P(100)))
	require.Equal(t, 1, s.TotalProjects)
}

func TestSelect(t *testing.T) {
	projects := []model.Project{
		project("1", "A", "", 1, 0, 0),
		project("2", "B", "", 1, 0, 0),
	}

	require.Len(t, kpi.Select(projects, kpi.SelectAll), 2)
	require.Len(t, kpi.Select(projects, ""), 2)
	require.Equal(t, "B", kpi.Select(projects, "2")[0].ClientName)
	require.Empty(t, kpi.Select(projects, "3"))
}

func TestSearch(t *testing.T) {
	projects := []model.Project{
		project("1", "ABC Company", "5000L milk tank", 1, 0, 0),
		project("2", "Sunshine Farm", "3000L cooling system", 1, 0, 0),
		project("3", "Olive Grove", "Milk tank with pump", 1, 0, 0),
	}

	tests := []struct {
		name string
		term string
		want []string
	}{
		{name: "empty matches all", term: "", want: []string{"1", "2", "3"}},
		{name: "blank matches all", term: "   ", want: []string{"1", "2", "3"}},
		{name: "client name case-insensitive", term: "sunSHINE", want: []string{"2"}},
		{name: "order details", term: "MILK", want: []string{"1", "3"}},
		{name: "client or details", term: "o", want: []string{"1", "2", "3"}},
		{name: "no match", term: "tractor", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, p := range kpi.Search(projects, tt.term) {
				got = append(got, p.ID)
			}
			require.Equal(t, tt.want, got)
		})
	}
}

func TestSearch_NotesAreNotSearched(t *testing.T) {
	p := project("1", "ABC", "tank", 1, 0, 0)
	p.ProjectNotes = "urgent"
	require.Empty(t, kpi.Search([]model.Project{p}, "urgent"))
}

func TestSelectionLabel(t *testing.T) {
	short := project("1", "ABC", "tank", 1, 0, 0)
	require.Equal(t, "ABC - tank...", kpi.SelectionLabel(short))

	long := project("2", "Olive", "7000L milk tank + advanced cooling system", 1, 0, 0)
	require.Equal(t, "Olive - 7000L milk tank + advanced coo...", kpi.SelectionLabel(long))
}
