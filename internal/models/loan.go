package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LoanKind distinguishes loans given to employees from loans taken from
// external lenders; the two follow different lifecycles.
type LoanKind string

const (
	LoanKindEmployee LoanKind = "employee"
	LoanKindExternal LoanKind = "external"
)

// Loan is a loan given to an employee or received from an external party.
type Loan struct {
	DocumentHeader
	Kind         LoanKind        `gorm:"not null;index" json:"kind"`
	EmployeeID   *string         `gorm:"type:uuid" json:"employee_id,omitempty"`
	Counterparty string          `json:"counterparty,omitempty"`
	InterestRate decimal.Decimal `gorm:"type:decimal(10,4);not null;default:0" json:"interest_rate"`
	StartDate    time.Time       `json:"start_date"`
	EndDate      *time.Time      `json:"end_date,omitempty"`
}

func (Loan) TableName() string { return "loans" }

func (*Loan) Variant() Variant { return VariantLoan }

func (l *Loan) Flow() Flow {
	if l.Kind == LoanKindExternal {
		return FlowLoanExternal
	}
	return FlowLoanEmployee
}

// Interest returns amount*rate/100.
func (l *Loan) Interest() decimal.Decimal {
	return l.Amount.Mul(l.InterestRate).Div(decimal.NewFromInt(100))
}
