package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "treasury/internal/errors"
	"treasury/internal/logger"
	"treasury/internal/metrics"
	"treasury/internal/models"
)

var hundred = decimal.NewFromInt(100)

type posting struct {
	accountID string
	delta     decimal.Decimal
}

// effect is what a settling edge does to balances and which record, if any,
// it leaves behind as evidence.
type effect struct {
	postings []posting
	amount   decimal.Decimal
	derived  models.Document
}

// settlementApplier runs the locked, transactional phase of a transition.
type settlementApplier struct {
	db       *gorm.DB
	accounts AccountStorer
	registry DocumentRegistrar
	locks    LockManager
	audit    AuditServicer
	metrics  *metrics.Metrics
}

// NewSettlementApplier creates a new SettlementApplier.
func NewSettlementApplier(db *gorm.DB, accounts AccountStorer, registry DocumentRegistrar, locks LockManager, audit AuditServicer, m *metrics.Metrics) SettlementApplier {
	return &settlementApplier{
		db:       db,
		accounts: accounts,
		registry: registry,
		locks:    locks,
		audit:    audit,
		metrics:  m,
	}
}

// Settle moves doc to target. The document and every account it references
// are locked first; inside the transaction the document is re-read and must
// still be in the status the caller validated against.
func (s *settlementApplier) Settle(ctx context.Context, doc models.Document, target models.Status, actor models.Actor, payload TransitionPayload) (models.Document, error) {
	ref := models.Ref(doc)
	flow := doc.Flow()
	from := doc.Header().Status

	release, err := s.locks.Acquire(ctx, lockKeys(doc, true)...)
	if err != nil {
		return nil, err
	}
	defer release()

	start := time.Now()
	var (
		result  models.Document
		applied *effect
	)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cur, err := s.registry.GetForUpdate(tx, ref)
		if err != nil {
			return err
		}
		if cur.Header().Status != from || !models.IsLegalTransition(flow, from, target) {
			return apperrors.WithMessage(apperrors.ErrInvalidTransition,
				fmt.Sprintf("document is %s and cannot move to %s", cur.Header().Status, target))
		}

		// Derived records copy the header, so the new receipt lands first.
		if payload.Receipt != nil && strings.TrimSpace(*payload.Receipt) != "" {
			cur.Header().Receipt = payload.Receipt
		}

		eff, err := s.transitionEffect(tx, cur, target)
		if err != nil {
			return err
		}

		changes := map[string]any{"from": from, "to": target}
		if payload.Comment != "" {
			changes["comment"] = payload.Comment
		}

		if eff == nil {
			if err := s.registry.UpdateStatus(tx, cur, target, payload.Receipt); err != nil {
				return err
			}
		} else {
			settlementRef, err := s.apply(tx, eff, actor)
			if err != nil {
				return err
			}
			if err := s.registry.MarkSettled(tx, cur, target, payload.Receipt, Settlement{
				By:     actor.ID,
				Amount: eff.amount,
				Ref:    settlementRef,
			}); err != nil {
				return err
			}
			changes["settled_amount"] = eff.amount.String()
			if settlementRef != nil {
				changes["settlement_ref"] = *settlementRef
			}
		}

		if err := s.audit.Log(tx, actor, AuditActionTransition, string(ref.Variant), ref.ID, changes); err != nil {
			return err
		}
		result = cur
		applied = eff
		return nil
	})
	s.metrics.ObserveSettlement(string(flow), time.Since(start))
	if err != nil {
		return nil, settlementError(err)
	}

	if applied != nil {
		logger.Get().Infow("document settled",
			"document", ref.String(),
			"from", from,
			"to", target,
			"amount", applied.amount.String(),
			"actor_id", actor.ID,
		)
	}
	return result, nil
}

// SettleOnCreate inserts a document whose flow applies its balance effect at
// creation: incomes, transfers and external loans.
func (s *settlementApplier) SettleOnCreate(ctx context.Context, doc models.Document, actor models.Actor) error {
	flow := doc.Flow()

	release, err := s.locks.Acquire(ctx, lockKeys(doc, false)...)
	if err != nil {
		return err
	}
	defer release()

	start := time.Now()
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		eff, err := creationEffect(doc)
		if err != nil {
			return err
		}
		if _, err := s.apply(tx, eff, actor); err != nil {
			return err
		}

		h := doc.Header()
		if models.IsTerminal(flow, h.Status) {
			now := time.Now()
			h.SettledAt = &now
			h.SettledBy = &actor.ID
			h.SettledAmount = decimal.NewNullDecimal(eff.amount)
		}
		if err := s.registry.Create(tx, doc); err != nil {
			return err
		}
		return s.audit.Log(tx, actor, AuditActionCreate, string(doc.Variant()), h.ID, map[string]any{
			"status": h.Status,
			"amount": h.Amount.String(),
		})
	})
	s.metrics.ObserveSettlement(string(flow), time.Since(start))
	if err != nil {
		return settlementError(err)
	}

	logger.Get().Infow("document created settled",
		"document", models.Ref(doc).String(),
		"status", doc.Header().Status,
		"amount", doc.Header().Amount.String(),
		"actor_id", actor.ID,
	)
	return nil
}

// apply posts every delta and stores the derived document, returning its id.
func (s *settlementApplier) apply(tx *gorm.DB, eff *effect, actor models.Actor) (*string, error) {
	for _, p := range eff.postings {
		if _, err := s.accounts.ApplyDelta(tx, p.accountID, p.delta); err != nil {
			return nil, err
		}
	}
	if eff.derived == nil {
		return nil, nil
	}

	h := eff.derived.Header()
	now := time.Now()
	h.CreatedBy = actor.ID
	h.SettledAt = &now
	h.SettledBy = &actor.ID
	h.SettledAmount = decimal.NewNullDecimal(eff.amount)
	if err := s.registry.Create(tx, eff.derived); err != nil {
		return nil, err
	}
	id := h.ID
	return &id, nil
}

// transitionEffect returns the effect of moving doc to target, or nil when
// the edge only changes status. Employee loans post on Given and Returned;
// Returned to Paid only closes the loan and posts nothing.
func (s *settlementApplier) transitionEffect(tx *gorm.DB, doc models.Document, target models.Status) (*effect, error) {
	h := doc.Header()

	switch d := doc.(type) {
	case *models.Expense:
		if target == models.StatusPaid {
			return debit(h.FromAccountID, models.WithFee(h.Amount))
		}

	case *models.Payroll:
		if target == models.StatusPaid {
			eff, err := debit(h.FromAccountID, models.WithFee(h.Amount))
			if err != nil {
				return nil, err
			}
			eff.derived = derivedExpense(doc, models.ReasonEmployeeCosts,
				fmt.Sprintf("Salary payment for employee %s (payroll %s)", d.EmployeeID, h.ID))
			return eff, nil
		}

	case *models.Payable:
		if target == models.StatusApproved {
			total := models.WithFee(h.Amount)
			if h.LoanID != nil {
				interest, err := s.externalLoanInterest(tx, *h.LoanID, h.Amount)
				if err != nil {
					return nil, err
				}
				total = total.Add(interest)
			}
			eff, err := debit(h.FromAccountID, total)
			if err != nil {
				return nil, err
			}
			eff.derived = derivedExpense(doc, h.Reason, d.SpecificReason)
			return eff, nil
		}

	case *models.Receivable:
		if target == models.StatusApproved {
			eff, err := credit(h.ToAccountID, h.Amount)
			if err != nil {
				return nil, err
			}
			eff.derived = derivedIncome(doc, h.Reason, d.SpecificSource)
			return eff, nil
		}

	case *models.AssetTransaction:
		switch {
		case d.Direction == models.AssetBought && target == models.StatusPaid:
			eff, err := debit(h.FromAccountID, models.WithFee(d.Total()))
			if err != nil {
				return nil, err
			}
			eff.derived = derivedExpense(doc, models.ReasonAssetPurchase, d.Name)
			eff.derived.Header().AssetID = &h.ID
			return eff, nil
		case d.Direction == models.AssetSold && target == models.StatusReceived:
			eff, err := credit(h.ToAccountID, d.Total())
			if err != nil {
				return nil, err
			}
			eff.derived = derivedIncome(doc, models.SourceAssetSales, d.Name)
			eff.derived.Header().AssetID = &h.ID
			return eff, nil
		}

	case *models.Loan:
		switch {
		case d.Kind == models.LoanKindEmployee && target == models.StatusGiven:
			return debit(h.FromAccountID, models.WithFee(h.Amount))
		case d.Kind == models.LoanKindEmployee && target == models.StatusReturned:
			return credit(h.ToAccountID, h.Amount)
		case d.Kind == models.LoanKindExternal && target == models.StatusReturned:
			return debit(h.FromAccountID, models.WithFee(h.Amount).Add(d.Interest()))
		}
	}
	return nil, nil
}

// externalLoanInterest returns the interest owed on amount when loanID is an
// external loan, and zero for employee loans.
func (s *settlementApplier) externalLoanInterest(tx *gorm.DB, loanID string, amount decimal.Decimal) (decimal.Decimal, error) {
	doc, err := s.registry.GetForUpdate(tx, models.DocumentRef{Variant: models.VariantLoan, ID: loanID})
	if err != nil {
		return decimal.Zero, err
	}
	loan := doc.(*models.Loan)
	if loan.Kind != models.LoanKindExternal {
		return decimal.Zero, nil
	}
	return amount.Mul(loan.InterestRate).Div(hundred), nil
}

// creationEffect returns the effect of a flow that settles on creation.
func creationEffect(doc models.Document) (*effect, error) {
	h := doc.Header()
	switch doc.Flow() {
	case models.FlowIncome, models.FlowLoanExternal:
		return credit(h.ToAccountID, h.Amount)
	case models.FlowTransfer:
		if h.FromAccountID == nil || h.ToAccountID == nil {
			return nil, apperrors.WithMessage(apperrors.ErrValidation, "transfer needs both accounts")
		}
		return &effect{
			postings: []posting{
				{accountID: *h.FromAccountID, delta: h.Amount.Neg()},
				{accountID: *h.ToAccountID, delta: h.Amount},
			},
			amount: h.Amount,
		}, nil
	}
	return nil, apperrors.WithMessage(apperrors.ErrValidation,
		fmt.Sprintf("%s documents are not settled on creation", doc.Flow()))
}

func debit(accountID *string, amount decimal.Decimal) (*effect, error) {
	if accountID == nil {
		return nil, apperrors.WithMessage(apperrors.ErrValidation, "source account is required")
	}
	return &effect{postings: []posting{{accountID: *accountID, delta: amount.Neg()}}, amount: amount}, nil
}

func credit(accountID *string, amount decimal.Decimal) (*effect, error) {
	if accountID == nil {
		return nil, apperrors.WithMessage(apperrors.ErrValidation, "destination account is required")
	}
	return &effect{postings: []posting{{accountID: *accountID, delta: amount}}, amount: amount}, nil
}

// derivedExpense builds the Paid expense recorded when src settles.
func derivedExpense(src models.Document, reason, specific string) *models.Expense {
	h := src.Header()
	variant := src.Variant()
	id := h.ID
	return &models.Expense{
		DocumentHeader: models.DocumentHeader{
			Amount:        src.Header().Amount,
			Status:        models.StatusPaid,
			Reason:        reason,
			Description:   h.Description,
			FromAccountID: h.FromAccountID,
			ProjectID:     h.ProjectID,
			LoanID:        h.LoanID,
			AssetID:       h.AssetID,
			Receipt:       h.Receipt,
		},
		SpecificReason: specific,
		ExpenseDate:    time.Now(),
		SourceVariant:  &variant,
		SourceID:       &id,
	}
}

// derivedIncome builds the Received income recorded when src settles.
func derivedIncome(src models.Document, source, specific string) *models.Income {
	h := src.Header()
	variant := src.Variant()
	id := h.ID
	return &models.Income{
		DocumentHeader: models.DocumentHeader{
			Amount:      h.Amount,
			Status:      models.StatusReceived,
			Reason:      source,
			Description: h.Description,
			ToAccountID: h.ToAccountID,
			ProjectID:   h.ProjectID,
			LoanID:      h.LoanID,
			AssetID:     h.AssetID,
			Receipt:     h.Receipt,
		},
		SpecificSource: specific,
		ReceivedDate:   time.Now(),
		SourceVariant:  &variant,
		SourceID:       &id,
	}
}

// lockKeys returns the accounts doc touches and, when withDoc is set, doc
// itself.
func lockKeys(doc models.Document, withDoc bool) []string {
	h := doc.Header()
	keys := make([]string, 0, 3)
	if h.FromAccountID != nil {
		keys = append(keys, AccountLockKey(*h.FromAccountID))
	}
	if h.ToAccountID != nil {
		keys = append(keys, AccountLockKey(*h.ToAccountID))
	}
	if withDoc {
		keys = append(keys, DocumentLockKey(models.Ref(doc)))
	}
	return keys
}

// settlementError keeps business errors and reports anything else,
// including storage failures, as ErrSettlement.
func settlementError(err error) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Code != apperrors.ErrInternalServer.Code {
		return err
	}
	logger.Get().Errorw("settlement failed and was rolled back", "error", err)
	if appErr != nil && appErr.Internal != nil {
		err = appErr.Internal
	}
	return apperrors.Wrap(apperrors.ErrSettlement, err)
}
