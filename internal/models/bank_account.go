package models

import "github.com/shopspring/decimal"

// BankAccountType represents the kind of bank account
type BankAccountType string

const (
	BankAccountTypeChecking BankAccountType = "Checking"
	BankAccountTypeSavings  BankAccountType = "Savings"
	BankAccountTypeCredit   BankAccountType = "Credit"
)

// BankAccount is an organization account whose balance reflects every
// settled document that touched it.
type BankAccount struct {
	Base
	Name          string          `gorm:"not null;index" json:"name"`
	Type          BankAccountType `gorm:"not null" json:"type"`
	BankName      string          `json:"bank_name"`
	AccountNumber string          `gorm:"index" json:"account_number"`
	Currency      string          `gorm:"not null;default:'USD'" json:"currency"`
	Balance       decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"balance"`
	DeletedBy     *string         `json:"deleted_by,omitempty"`
}

// TableName overrides the default table name
func (BankAccount) TableName() string { return "bank_accounts" }

// IsValidBankAccountType reports whether t is a known account type
func IsValidBankAccountType(t BankAccountType) bool {
	switch t {
	case BankAccountTypeChecking, BankAccountTypeSavings, BankAccountTypeCredit:
		return true
	}
	return false
}
