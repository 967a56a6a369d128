package services

import (
	"github.com/texora/texora-core/internal/audit"
)

// Audited resource types
const (
	ResourceTypeOrder = "Order"
	ResourceTypeParty = "Party"
)

// NewOrderDiffer builds the differ for order snapshots. The field list is
// the contract: anything not registered here never shows up in the activity
// feed, so bookkeeping columns stay out of it.
func NewOrderDiffer() *audit.Differ {
	return audit.NewDiffer(
		[]audit.FieldSpec{
			{Field: "status", Label: "Status", Kind: audit.KindScalar},
			{Field: "party", Label: "Party", Kind: audit.KindReference},
			{Field: "agent", Label: "Agent", Kind: audit.KindReference},
			{Field: "delivery_date", Label: "Delivery Date", Kind: audit.KindDate},
			{Field: "rate", Label: "Rate", Kind: audit.KindCurrency},
			{Field: "total_amount", Label: "Total Amount", Kind: audit.KindCurrency},
			{Field: "advance_amount", Label: "Advance", Kind: audit.KindCurrency},
			{Field: "notes", Label: "Notes", Kind: audit.KindScalar},
			{Field: "images", Label: "Images", Kind: audit.KindArrayLength},
		},
		audit.ItemSpec{
			Field: "items",
			Label: "Items",
			Fields: []audit.FieldSpec{
				{Field: "quality", Label: "Quality", Kind: audit.KindReference},
				{Field: "quantity", Label: "Quantity", Kind: audit.KindScalar},
				{Field: "unit", Label: "Unit", Kind: audit.KindScalar},
				{Field: "rate", Label: "Rate", Kind: audit.KindCurrency},
				{Field: "amount", Label: "Amount", Kind: audit.KindCurrency},
			},
		},
	)
}

// NewPartyDiffer builds the differ for party snapshots
func NewPartyDiffer() *audit.Differ {
	return audit.NewDiffer([]audit.FieldSpec{
		{Field: "name", Label: "Name", Kind: audit.KindScalar},
		{Field: "party_type", Label: "Type", Kind: audit.KindScalar},
		{Field: "gst_number", Label: "GST Number", Kind: audit.KindScalar},
		{Field: "phone", Label: "Phone", Kind: audit.KindScalar},
		{Field: "email", Label: "Email", Kind: audit.KindScalar},
		{Field: "address", Label: "Address", Kind: audit.KindScalar},
		{Field: "active", Label: "Active", Kind: audit.KindScalar},
	})
}
