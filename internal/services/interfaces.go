package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"treasury/internal/models"
	"treasury/internal/pagination"
)

// LockManager serializes work on accounts and documents inside this process.
type LockManager interface {
	// Acquire takes every key in a global order and returns a function that
	// releases them. It fails with ErrBusy if the keys are not all obtained
	// within the configured timeout.
	Acquire(ctx context.Context, keys ...string) (release func(), err error)
}

// CreateAccountInput carries the fields of a new bank account.
type CreateAccountInput struct {
	Name           string                 `json:"name" binding:"required,min=1,max=100"`
	Type           models.BankAccountType `json:"type" binding:"required,bank_account_type"`
	BankName       string                 `json:"bank_name" binding:"max=100"`
	AccountNumber  string                 `json:"account_number" binding:"max=64"`
	Currency       string                 `json:"currency" binding:"omitempty,iso4217"`
	OpeningBalance decimal.Decimal        `json:"opening_balance"`
}

// AccountStorer owns bank account balances.
type AccountStorer interface {
	CreateAccount(ctx context.Context, in CreateAccountInput, actor models.Actor) (*models.BankAccount, error)
	GetAccount(ctx context.Context, id string) (*models.BankAccount, error)
	GetBalance(ctx context.Context, id string) (decimal.Decimal, error)
	ResolveByName(ctx context.Context, name string) (*models.BankAccount, error)
	SoftDeleteAccount(ctx context.Context, id string, actor models.Actor) error
	ApplyDelta(tx *gorm.DB, id string, delta decimal.Decimal) (decimal.Decimal, error)
	ApplyDeltaWithFloor(tx *gorm.DB, id string, delta, floor decimal.Decimal) (decimal.Decimal, error)
	Lock(ctx context.Context, accountIDs ...string) (func(), error)
}

// DocumentFilter holds optional filter parameters for listing documents.
type DocumentFilter struct {
	Status    *models.Status
	Reason    *string
	AccountID *string
	FromDate  *time.Time
	ToDate    *time.Time
}

// Settlement describes the balance effect recorded on a settled document.
type Settlement struct {
	By     string
	Amount decimal.Decimal
	Ref    *string
}

// DocumentRegistrar stores every financial document variant.
type DocumentRegistrar interface {
	Create(tx *gorm.DB, doc models.Document) error
	Get(ctx context.Context, ref models.DocumentRef) (models.Document, error)
	GetForUpdate(tx *gorm.DB, ref models.DocumentRef) (models.Document, error)
	Exists(ctx context.Context, ref models.DocumentRef) (bool, error)
	Find(ctx context.Context, variant models.Variant, filter DocumentFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Document], error)
	UpdateStatus(tx *gorm.DB, doc models.Document, to models.Status, receipt *string) error
	MarkSettled(tx *gorm.DB, doc models.Document, to models.Status, receipt *string, s Settlement) error
	SoftDelete(ctx context.Context, ref models.DocumentRef, actor models.Actor) error
}

// Authorizer maps roles to the actions they may take.
type Authorizer interface {
	CanTransition(role models.Role, flow models.Flow, from, to models.Status) bool
	CanCreate(role models.Role, flow models.Flow) bool
	CanDelete(role models.Role) bool
	CanManageAccounts(role models.Role) bool
}

// EntityDirectory answers existence questions about entities owned elsewhere.
type EntityDirectory interface {
	ProjectExists(ctx context.Context, id string) (bool, error)
	EmployeeExists(ctx context.Context, id string) (bool, error)
}

// TransitionPayload is the optional data sent with a transition request.
type TransitionPayload struct {
	Receipt *string `json:"receipt,omitempty"`
	Comment string  `json:"comment,omitempty"`
}

// WorkflowEngine validates and executes document transitions.
type WorkflowEngine interface {
	RequestTransition(ctx context.Context, ref models.DocumentRef, target models.Status, actor models.Actor, payload TransitionPayload) (models.Document, error)
}

// SettlementApplier performs the atomic part of a transition.
type SettlementApplier interface {
	Settle(ctx context.Context, doc models.Document, target models.Status, actor models.Actor, payload TransitionPayload) (models.Document, error)
	SettleOnCreate(ctx context.Context, doc models.Document, actor models.Actor) error
}

// AuditServicer records state changes inside the caller's transaction.
type AuditServicer interface {
	Log(tx *gorm.DB, actor models.Actor, action, resourceType, resourceID string, changes map[string]any) error
}

// CreateDocumentInput carries the fields of a new document. Which fields
// apply depends on Variant.
type CreateDocumentInput struct {
	Variant        models.Variant  `json:"-"`
	Amount         decimal.Decimal `json:"amount"`
	Reason         string          `json:"reason"`
	SpecificReason string          `json:"specific_reason"`
	Description    string          `json:"description"`
	FromAccountID  *string         `json:"from_account_id" binding:"omitempty,uuid"`
	ToAccountID    *string         `json:"to_account_id" binding:"omitempty,uuid"`
	ProjectID      *string         `json:"project_id" binding:"omitempty,uuid"`
	LoanID         *string         `json:"loan_id" binding:"omitempty,uuid"`
	AssetID        *string         `json:"asset_id" binding:"omitempty,uuid"`
	Receipt        *string         `json:"receipt"`
	Date           *time.Time      `json:"date"`

	// Transfer
	Purpose string `json:"purpose"`

	// Loan
	LoanKind     models.LoanKind `json:"loan_kind" binding:"omitempty,oneof=employee external"`
	EmployeeID   *string         `json:"employee_id" binding:"omitempty,uuid"`
	Counterparty string          `json:"counterparty"`
	InterestRate decimal.Decimal `json:"interest_rate"`
	EndDate      *time.Time      `json:"end_date"`

	// Asset transaction
	AssetName string                `json:"asset_name"`
	Category  models.AssetCategory  `json:"category" binding:"omitempty,asset_category"`
	Direction models.AssetDirection `json:"direction" binding:"omitempty,oneof=Bought Sold"`
	Quantity  int64                 `json:"quantity" binding:"omitempty,min=1"`
	Price     decimal.Decimal       `json:"price"`
	Vendor    string                `json:"vendor"`

	// Payroll
	GrossAmount decimal.Decimal `json:"gross_amount"`
	Deductions  decimal.Decimal `json:"deductions"`
}

// LedgerServicer is the surface exposed to the HTTP binding and other
// collaborators.
type LedgerServicer interface {
	CreateDocument(ctx context.Context, in CreateDocumentInput, actor models.Actor) (models.Document, error)
	RequestTransition(ctx context.Context, ref models.DocumentRef, target models.Status, actor models.Actor, payload TransitionPayload) (models.Document, error)
	GetAccountBalance(ctx context.Context, accountID string) (decimal.Decimal, error)
	GetDocument(ctx context.Context, ref models.DocumentRef) (models.Document, error)
	FindDocuments(ctx context.Context, variant models.Variant, filter DocumentFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Document], error)
	DeleteDocument(ctx context.Context, ref models.DocumentRef, actor models.Actor) error
	CreateAccount(ctx context.Context, in CreateAccountInput, actor models.Actor) (*models.BankAccount, error)
	DeleteAccount(ctx context.Context, id string, actor models.Actor) error
}
