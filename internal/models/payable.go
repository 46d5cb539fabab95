package models

// Payable is a pending obligation to pay. Approval settles it and records a
// derived Expense.
type Payable struct {
	DocumentHeader
	SpecificReason string `json:"specific_reason,omitempty"`
}

func (Payable) TableName() string { return "payables" }

func (*Payable) Variant() Variant { return VariantPayable }

func (*Payable) Flow() Flow { return FlowPayable }

// Receivable is a pending claim to be paid. Approval settles it and records
// a derived Income.
type Receivable struct {
	DocumentHeader
	SpecificSource string `json:"specific_source,omitempty"`
}

func (Receivable) TableName() string { return "receivables" }

func (*Receivable) Variant() Variant { return VariantReceivable }

func (*Receivable) Flow() Flow { return FlowReceivable }
