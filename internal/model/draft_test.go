package model_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nhle/project-ledger/internal/model"
)

func TestParseDraft(t *testing.T) {
	tests := []struct {
		name    string
		draft   model.Draft
		wantErr error
		amount  float64
		vat     float64
		receipt float64
	}{
		{
			name:    "all numbers",
			draft:   model.Draft{TransactionAmount: "1000", VATPercent: "20", ProjectReceipts: "600"},
			amount:  1000,
			vat:     20,
			receipt: 600,
		},
		{
			name:   "empty receipts default to zero",
			draft:  model.Draft{TransactionAmount: "1000", VATPercent: "17"},
			amount: 1000,
			vat:    17,
		},
		{
			name:    "whitespace is trimmed",
			draft:   model.Draft{TransactionAmount: " 12.5 ", VATPercent: "\t0", ProjectReceipts: " "},
			amount:  12.5,
		},
		{
			name:    "text is rejected",
			draft:   model.Draft{TransactionAmount: "abc", VATPercent: "17"},
			wantErr: model.ErrInvalidNumber,
		},
		{
			name:    "thousand separators are rejected",
			draft:   model.Draft{TransactionAmount: "1,000"},
			wantErr: model.ErrInvalidNumber,
		},
		{
			name:    "negative VAT is rejected",
			draft:   model.Draft{TransactionAmount: "10", VATPercent: "-1"},
			wantErr: model.ErrNegativeAmount,
		},
		{
			name:    "negative receipts are rejected",
			draft:   model.Draft{TransactionAmount: "10", ProjectReceipts: "-5"},
			wantErr: model.ErrNegativeAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := model.ParseDraft(tt.draft)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.True(t, f.TransactionAmount.Equal(model.M(tt.amount)), "amount = %s", f.TransactionAmount)
			require.True(t, f.VATPercent.Equal(model.P(tt.vat)), "vat = %s", f.VATPercent)
			require.True(t, f.ProjectReceipts.Equal(model.M(tt.receipt)), "receipts = %s", f.ProjectReceipts)
		})
	}
}

func TestParseDraft_KeepsTextVerbatim(t *testing.T) {
	f, err := model.ParseDraft(model.Draft{
		OrderDate:    "2024-13-45",
		ClientName:   "  ABC  ",
		OrderDetails: "tank",
		ProjectNotes: "note",
	})
	require.NoError(t, err)
	require.Equal(t, "2024-13-45", f.OrderDate)
	require.Equal(t, "  ABC  ", f.ClientName)
}

func TestDraftOf_ParsesBack(t *testing.T) {
	f := model.Fields{
		ClientName:        "ABC",
		TransactionAmount: model.M(45000.5),
		VATPercent:        model.P(17),
		ProjectReceipts:   model.M(0),
	}
	d := model.DraftOf(f)
	require.Equal(t, "45000.5", d.TransactionAmount)
	require.Equal(t, "17", d.VATPercent)

	back, err := model.ParseDraft(d)
	require.NoError(t, err)
	require.True(t, back.TransactionAmount.Equal(f.TransactionAmount))
}
