package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Variant identifies a document type; each variant has its own table.
type Variant string

const (
	VariantExpense    Variant = "expense"
	VariantIncome     Variant = "income"
	VariantTransfer   Variant = "transfer"
	VariantLoan       Variant = "loan"
	VariantAsset      Variant = "asset"
	VariantPayable    Variant = "payable"
	VariantReceivable Variant = "receivable"
	VariantPayroll    Variant = "payroll"
)

// Variants lists every supported variant in a stable order.
var Variants = []Variant{
	VariantExpense, VariantIncome, VariantTransfer, VariantLoan,
	VariantAsset, VariantPayable, VariantReceivable, VariantPayroll,
}

// IsValidVariant reports whether v names a known variant
func IsValidVariant(v Variant) bool {
	for _, known := range Variants {
		if v == known {
			return true
		}
	}
	return false
}

// Role is the business role of an actor.
type Role string

const (
	RoleManager    Role = "Manager"
	RoleAccountant Role = "Accountant"
	RoleCashier    Role = "Cashier"
)

// IsValidRole reports whether r is a known role
func IsValidRole(r Role) bool {
	switch r {
	case RoleManager, RoleAccountant, RoleCashier:
		return true
	}
	return false
}

// Actor is the authenticated caller, as supplied by the auth layer.
type Actor struct {
	ID   string `json:"id"`
	Role Role   `json:"role"`
}

// DocumentRef addresses one document across all variant tables.
type DocumentRef struct {
	Variant Variant `json:"variant"`
	ID      string  `json:"id"`
}

func (r DocumentRef) String() string { return string(r.Variant) + ":" + r.ID }

// DocumentHeader holds the columns shared by every document variant.
type DocumentHeader struct {
	Base
	Amount        decimal.Decimal     `gorm:"type:decimal(20,4);not null" json:"amount"`
	Status        Status              `gorm:"not null;index" json:"status"`
	Reason        string              `gorm:"index" json:"reason"`
	Description   string              `json:"description"`
	FromAccountID *string             `gorm:"type:uuid;index" json:"from_account_id,omitempty"`
	ToAccountID   *string             `gorm:"type:uuid;index" json:"to_account_id,omitempty"`
	ProjectID     *string             `gorm:"type:uuid" json:"project_id,omitempty"`
	LoanID        *string             `gorm:"type:uuid" json:"loan_id,omitempty"`
	AssetID       *string             `gorm:"type:uuid" json:"asset_id,omitempty"`
	Receipt       *string             `json:"receipt,omitempty"`
	CreatedBy     string              `gorm:"not null" json:"created_by"`
	SettledAt     *time.Time          `json:"settled_at,omitempty"`
	SettledBy     *string             `json:"settled_by,omitempty"`
	SettledAmount decimal.NullDecimal `gorm:"type:decimal(20,4)" json:"settled_amount"`
	SettlementRef *string             `json:"settlement_ref,omitempty"`
	DeletedBy     *string             `json:"deleted_by,omitempty"`
}

// Header returns the shared columns. Variants embed DocumentHeader and so
// satisfy this part of Document automatically.
func (h *DocumentHeader) Header() *DocumentHeader { return h }

// Document is implemented by every variant.
type Document interface {
	Variant() Variant
	Flow() Flow
	Header() *DocumentHeader
}

// Ref returns the registry address of d.
func Ref(d Document) DocumentRef {
	return DocumentRef{Variant: d.Variant(), ID: d.Header().ID}
}

// NewDocument returns an empty value of the given variant, suitable as a
// gorm destination.
func NewDocument(v Variant) (Document, bool) {
	switch v {
	case VariantExpense:
		return &Expense{}, true
	case VariantIncome:
		return &Income{}, true
	case VariantTransfer:
		return &Transfer{}, true
	case VariantLoan:
		return &Loan{}, true
	case VariantAsset:
		return &AssetTransaction{}, true
	case VariantPayable:
		return &Payable{}, true
	case VariantReceivable:
		return &Receivable{}, true
	case VariantPayroll:
		return &Payroll{}, true
	}
	return nil, false
}

// AllDocumentModels returns one zero value per variant, used for migrations.
func AllDocumentModels() []interface{} {
	out := make([]interface{}, 0, len(Variants))
	for _, v := range Variants {
		d, _ := NewDocument(v)
		out = append(out, d)
	}
	return out
}
