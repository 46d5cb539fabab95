package models

import "time"

// Expense is money leaving an account after approval, or a derived record
// of a settled payable, payroll or asset purchase.
type Expense struct {
	DocumentHeader
	SpecificReason string    `json:"specific_reason,omitempty"`
	ExpenseDate    time.Time `json:"expense_date"`
	SourceVariant  *Variant  `json:"source_variant,omitempty"`
	SourceID       *string   `gorm:"type:uuid;index" json:"source_id,omitempty"`
}

func (Expense) TableName() string { return "expenses" }

func (*Expense) Variant() Variant { return VariantExpense }

func (*Expense) Flow() Flow { return FlowExpense }
