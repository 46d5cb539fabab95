package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "treasury/internal/errors"
	"treasury/internal/models"
	"treasury/internal/pagination"
)

// documentRegistry stores documents, one table per variant.
type documentRegistry struct {
	db    *gorm.DB
	locks LockManager
	audit AuditServicer
}

// NewDocumentRegistry creates a new DocumentRegistrar.
func NewDocumentRegistry(db *gorm.DB, locks LockManager, audit AuditServicer) DocumentRegistrar {
	return &documentRegistry{db: db, locks: locks, audit: audit}
}

// Create inserts a document. The caller sets its status.
func (r *documentRegistry) Create(tx *gorm.DB, doc models.Document) error {
	if err := tx.Create(doc).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// Get loads a live document.
func (r *documentRegistry) Get(ctx context.Context, ref models.DocumentRef) (models.Document, error) {
	return r.load(r.db.WithContext(ctx), ref)
}

// GetForUpdate loads a live document and locks its row until tx ends.
func (r *documentRegistry) GetForUpdate(tx *gorm.DB, ref models.DocumentRef) (models.Document, error) {
	return r.load(tx.Clauses(clause.Locking{Strength: "UPDATE"}), ref)
}

func (r *documentRegistry) load(q *gorm.DB, ref models.DocumentRef) (models.Document, error) {
	doc, ok := models.NewDocument(ref.Variant)
	if !ok {
		return nil, apperrors.ErrUnsupportedVariant
	}
	if err := q.First(doc, "id = ?", ref.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrDocumentNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return doc, nil
}

// Exists reports whether a live document exists.
func (r *documentRegistry) Exists(ctx context.Context, ref models.DocumentRef) (bool, error) {
	doc, ok := models.NewDocument(ref.Variant)
	if !ok {
		return false, apperrors.ErrUnsupportedVariant
	}
	var count int64
	if err := r.db.WithContext(ctx).Model(doc).Where("id = ?", ref.ID).Count(&count).Error; err != nil {
		return false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return count > 0, nil
}

// Find lists live documents of one variant, newest first.
func (r *documentRegistry) Find(ctx context.Context, variant models.Variant, filter DocumentFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Document], error) {
	proto, ok := models.NewDocument(variant)
	if !ok {
		return nil, apperrors.ErrUnsupportedVariant
	}
	page.Defaults()

	query := func() *gorm.DB {
		return applyDocumentFilters(r.db.WithContext(ctx).Model(proto), filter)
	}

	var totalItems int64
	if err := query().Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	q := query().Scopes(pagination.Paginate(page)).Order("created_at DESC")
	var (
		docs []models.Document
		err  error
	)
	switch variant {
	case models.VariantExpense:
		docs, err = findAs[models.Expense](q)
	case models.VariantIncome:
		docs, err = findAs[models.Income](q)
	case models.VariantTransfer:
		docs, err = findAs[models.Transfer](q)
	case models.VariantLoan:
		docs, err = findAs[models.Loan](q)
	case models.VariantAsset:
		docs, err = findAs[models.AssetTransaction](q)
	case models.VariantPayable:
		docs, err = findAs[models.Payable](q)
	case models.VariantReceivable:
		docs, err = findAs[models.Receivable](q)
	case models.VariantPayroll:
		docs, err = findAs[models.Payroll](q)
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(docs, page.Page, page.PageSize, totalItems)
	return &result, nil
}

func findAs[T any, PT interface {
	*T
	models.Document
}](q *gorm.DB) ([]models.Document, error) {
	var rows []T
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]models.Document, len(rows))
	for i := range rows {
		out[i] = PT(&rows[i])
	}
	return out, nil
}

func applyDocumentFilters(q *gorm.DB, f DocumentFilter) *gorm.DB {
	if f.Status != nil {
		q = q.Where("status = ?", *f.Status)
	}
	if f.Reason != nil {
		q = q.Where("reason = ?", *f.Reason)
	}
	if f.AccountID != nil {
		q = q.Where("(from_account_id = ? OR to_account_id = ?)", *f.AccountID, *f.AccountID)
	}
	if f.FromDate != nil {
		q = q.Where("created_at >= ?", *f.FromDate)
	}
	if f.ToDate != nil {
		q = q.Where("created_at <= ?", *f.ToDate)
	}
	return q
}

// UpdateStatus moves doc to a new status without recording a settlement.
func (r *documentRegistry) UpdateStatus(tx *gorm.DB, doc models.Document, to models.Status, receipt *string) error {
	return r.persistStatus(tx, doc, to, receipt, "status", "receipt", "updated_at")
}

// MarkSettled moves doc to a new status and records the balance effect that
// was applied with it.
func (r *documentRegistry) MarkSettled(tx *gorm.DB, doc models.Document, to models.Status, receipt *string, s Settlement) error {
	h := doc.Header()
	now := time.Now()
	h.SettledAt = &now
	h.SettledBy = &s.By
	h.SettledAmount = decimal.NewNullDecimal(s.Amount)
	h.SettlementRef = s.Ref
	return r.persistStatus(tx, doc, to, receipt,
		"status", "receipt", "updated_at", "settled_at", "settled_by", "settled_amount", "settlement_ref")
}

// persistStatus writes the selected columns, guarded by the status doc was
// read with. A zero row count means someone else moved the document first.
func (r *documentRegistry) persistStatus(tx *gorm.DB, doc models.Document, to models.Status, receipt *string, columns ...string) error {
	h := doc.Header()
	from := h.Status
	if models.IsTerminal(doc.Flow(), from) {
		return apperrors.WithMessage(apperrors.ErrInvalidTransition, "document is already in a terminal status")
	}

	h.Status = to
	if receipt != nil && strings.TrimSpace(*receipt) != "" {
		h.Receipt = receipt
	}
	h.UpdatedAt = time.Now()

	res := tx.Model(doc).Where("status = ?", from).Select(columns).Updates(doc)
	if res.Error != nil {
		h.Status = from
		return apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
	}
	if res.RowsAffected != 1 {
		h.Status = from
		return apperrors.WithMessage(apperrors.ErrInvalidTransition, "document status changed concurrently")
	}
	return nil
}

// SoftDelete hides a document. Balance effects already applied stay applied.
func (r *documentRegistry) SoftDelete(ctx context.Context, ref models.DocumentRef, actor models.Actor) error {
	release, err := r.locks.Acquire(ctx, DocumentLockKey(ref))
	if err != nil {
		return err
	}
	defer release()

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		doc, err := r.GetForUpdate(tx, ref)
		if err != nil {
			return err
		}
		if err := tx.Model(doc).Update("deleted_by", actor.ID).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Delete(doc).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return r.audit.Log(tx, actor, AuditActionDelete, string(ref.Variant), ref.ID, map[string]any{
			"status": doc.Header().Status,
		})
	})
}
