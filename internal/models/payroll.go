package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payroll is one salary payment to an employee. Amount is the net pay,
// GrossAmount minus Deductions.
type Payroll struct {
	DocumentHeader
	EmployeeID  string          `gorm:"type:uuid;not null;index" json:"employee_id"`
	GrossAmount decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"gross_amount"`
	Deductions  decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"deductions"`
	PayDate     time.Time       `json:"pay_date"`
}

func (Payroll) TableName() string { return "payrolls" }

func (*Payroll) Variant() Variant { return VariantPayroll }

func (*Payroll) Flow() Flow { return FlowPayroll }
