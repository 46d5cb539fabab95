package services

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "treasury/internal/errors"
	"treasury/internal/logger"
	"treasury/internal/metrics"
	"treasury/internal/models"
	"treasury/internal/pagination"
)

// ledgerService wires the ledger components together and is the entry point
// for every collaborator.
type ledgerService struct {
	db        *gorm.DB
	accounts  AccountStorer
	registry  DocumentRegistrar
	auth      Authorizer
	directory EntityDirectory
	workflow  WorkflowEngine
	settler   SettlementApplier
	audit     AuditServicer
	wellKnown WellKnownAccounts
}

// NewLedgerService builds the ledger over db. All components share locks,
// so every balance change in this process is serialized through it.
func NewLedgerService(db *gorm.DB, accounts AccountStorer, locks LockManager, m *metrics.Metrics, wellKnown WellKnownAccounts) LedgerServicer {
	audit := NewAuditService()
	registry := NewDocumentRegistry(db, locks, audit)
	auth := NewAuthorizer()
	directory := NewEntityDirectory(db)
	settler := NewSettlementApplier(db, accounts, registry, locks, audit, m)

	return &ledgerService{
		db:        db,
		accounts:  accounts,
		registry:  registry,
		auth:      auth,
		directory: directory,
		workflow:  NewWorkflowEngine(registry, auth, directory, settler, m),
		settler:   settler,
		audit:     audit,
		wellKnown: wellKnown,
	}
}

// CreateDocument validates input and stores a new document in its initial
// status. Incomes, transfers and external loans apply their balance effect
// in the same transaction.
func (s *ledgerService) CreateDocument(ctx context.Context, in CreateDocumentInput, actor models.Actor) (models.Document, error) {
	doc, err := buildDocument(in, actor, s.wellKnown)
	if err != nil {
		return nil, err
	}
	flow := doc.Flow()
	if !s.auth.CanCreate(actor.Role, flow) {
		return nil, apperrors.WithMessage(apperrors.ErrForbidden,
			fmt.Sprintf("%s may not create %s documents", actor.Role, flow))
	}
	if err := s.validateLinks(ctx, doc); err != nil {
		return nil, err
	}

	switch flow {
	case models.FlowIncome, models.FlowTransfer, models.FlowLoanExternal:
		if err := s.settler.SettleOnCreate(ctx, doc, actor); err != nil {
			return nil, err
		}
	default:
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := s.registry.Create(tx, doc); err != nil {
				return err
			}
			h := doc.Header()
			return s.audit.Log(tx, actor, AuditActionCreate, string(doc.Variant()), h.ID, map[string]any{
				"status": h.Status,
				"amount": h.Amount.String(),
			})
		})
		if err != nil {
			return nil, err
		}
	}

	logger.Get().Infow("document created",
		"document", models.Ref(doc).String(),
		"flow", flow,
		"status", doc.Header().Status,
		"actor_id", actor.ID,
	)
	return doc, nil
}

// validateLinks reports every unresolved reference as a validation error.
func (s *ledgerService) validateLinks(ctx context.Context, doc models.Document) error {
	h := doc.Header()

	for _, acc := range []struct {
		id    *string
		field string
	}{
		{h.FromAccountID, "from_account_id"},
		{h.ToAccountID, "to_account_id"},
	} {
		if acc.id == nil {
			continue
		}
		if _, err := s.accounts.GetAccount(ctx, *acc.id); err != nil {
			if apperrors.Code(err) == apperrors.ErrNotFound.Code {
				return validationf("%s: bank account %s not found", acc.field, *acc.id)
			}
			return err
		}
	}

	if h.ProjectID != nil {
		ok, err := s.directory.ProjectExists(ctx, *h.ProjectID)
		if err != nil {
			return err
		}
		if !ok {
			return validationf("project_id: project %s not found", *h.ProjectID)
		}
	}

	var employeeID *string
	switch d := doc.(type) {
	case *models.Loan:
		employeeID = d.EmployeeID
	case *models.Payroll:
		employeeID = &d.EmployeeID
	}
	if employeeID != nil {
		ok, err := s.directory.EmployeeExists(ctx, *employeeID)
		if err != nil {
			return err
		}
		if !ok {
			return validationf("employee_id: employee %s not found", *employeeID)
		}
	}

	for _, link := range []struct {
		id      *string
		variant models.Variant
		field   string
	}{
		{h.LoanID, models.VariantLoan, "loan_id"},
		{h.AssetID, models.VariantAsset, "asset_id"},
	} {
		if link.id == nil {
			continue
		}
		ok, err := s.registry.Exists(ctx, models.DocumentRef{Variant: link.variant, ID: *link.id})
		if err != nil {
			return err
		}
		if !ok {
			return validationf("%s: %s %s not found", link.field, link.variant, *link.id)
		}
	}
	return nil
}

// RequestTransition delegates to the workflow engine.
func (s *ledgerService) RequestTransition(ctx context.Context, ref models.DocumentRef, target models.Status, actor models.Actor, payload TransitionPayload) (models.Document, error) {
	return s.workflow.RequestTransition(ctx, ref, target, actor, payload)
}

// GetAccountBalance returns the committed balance of a live account.
func (s *ledgerService) GetAccountBalance(ctx context.Context, accountID string) (decimal.Decimal, error) {
	return s.accounts.GetBalance(ctx, accountID)
}

// GetDocument returns a live document.
func (s *ledgerService) GetDocument(ctx context.Context, ref models.DocumentRef) (models.Document, error) {
	return s.registry.Get(ctx, ref)
}

// FindDocuments lists live documents of one variant.
func (s *ledgerService) FindDocuments(ctx context.Context, variant models.Variant, filter DocumentFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Document], error) {
	return s.registry.Find(ctx, variant, filter, page)
}

// DeleteDocument soft-deletes a document without touching any balance.
func (s *ledgerService) DeleteDocument(ctx context.Context, ref models.DocumentRef, actor models.Actor) error {
	if !s.auth.CanDelete(actor.Role) {
		return apperrors.WithMessage(apperrors.ErrForbidden, fmt.Sprintf("%s may not delete documents", actor.Role))
	}
	if err := s.registry.SoftDelete(ctx, ref, actor); err != nil {
		return err
	}
	logger.Get().Infow("document deleted", "document", ref.String(), "actor_id", actor.ID)
	return nil
}

// CreateAccount creates a bank account.
func (s *ledgerService) CreateAccount(ctx context.Context, in CreateAccountInput, actor models.Actor) (*models.BankAccount, error) {
	if !s.auth.CanManageAccounts(actor.Role) {
		return nil, apperrors.WithMessage(apperrors.ErrForbidden, fmt.Sprintf("%s may not create bank accounts", actor.Role))
	}
	return s.accounts.CreateAccount(ctx, in, actor)
}

// DeleteAccount soft-deletes a bank account.
func (s *ledgerService) DeleteAccount(ctx context.Context, id string, actor models.Actor) error {
	if !s.auth.CanManageAccounts(actor.Role) {
		return apperrors.WithMessage(apperrors.ErrForbidden, fmt.Sprintf("%s may not delete bank accounts", actor.Role))
	}
	return s.accounts.SoftDeleteAccount(ctx, id, actor)
}
