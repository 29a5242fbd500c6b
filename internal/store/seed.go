package store

import (
	"context"
	"fmt"

	"github.com/nhle/project-ledger/internal/model"
)

// SampleProjects returns the demo orders loaded when seeding is enabled:
// one partly paid, one settled and one barely started, all at 17% VAT.
func SampleProjects() []model.Fields {
	return []model.Fields{
		{
			OrderDate:         "2024-01-15",
			ClientName:        "ABC Company",
			OrderDetails:      "5000L milk tank + cooling system",
			TransactionAmount: model.M(45000),
			VATPercent:        model.P(17),
			ProjectReceipts:   model.M(30000),
			ProjectNotes:      "Urgent project - VIP client",
		},
		{
			OrderDate:         "2024-02-01",
			ClientName:        "Sunshine Farm",
			OrderDetails:      "3000L milk tank + cooling system",
			TransactionAmount: model.M(32000),
			VATPercent:        model.P(17),
			ProjectReceipts:   model.M(37440),
			ProjectNotes:      "Completed successfully",
		},
		{
			OrderDate:         "2024-02-15",
			ClientName:        "Olive Grove Ranch",
			OrderDetails:      "7000L milk tank + advanced cooling system",
			TransactionAmount: model.M(68000),
			VATPercent:        model.P(17),
			ProjectReceipts:   model.M(15000),
			ProjectNotes:      "Awaiting further approval",
		},
	}
}

// Seed adds each of fields to s in order.
func Seed(ctx context.Context, s Store, fields ...model.Fields) error {
	for i, f := range fields {
		if _, err := s.Add(ctx, f); err != nil {
			return fmt.Errorf("seeding project %d: %w", i, err)
		}
	}
	return nil
}
