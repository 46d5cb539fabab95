package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "treasury/internal/errors"
	"treasury/internal/logger"
	"treasury/internal/metrics"
	"treasury/internal/models"
)

// accountStore handles bank accounts and is the only code that writes a balance.
type accountStore struct {
	db      *gorm.DB
	locks   LockManager
	audit   AuditServicer
	metrics *metrics.Metrics
}

// NewAccountStore creates a new AccountStorer.
func NewAccountStore(db *gorm.DB, locks LockManager, audit AuditServicer, m *metrics.Metrics) AccountStorer {
	return &accountStore{db: db, locks: locks, audit: audit, metrics: m}
}

// CreateAccount creates a bank account, optionally with an opening balance.
func (s *accountStore) CreateAccount(ctx context.Context, in CreateAccountInput, actor models.Actor) (*models.BankAccount, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrValidation, "name is required")
	}
	if !models.IsValidBankAccountType(in.Type) {
		return nil, apperrors.WithMessage(apperrors.ErrValidation, "type must be one of Checking, Savings, Credit")
	}
	if in.OpeningBalance.IsNegative() {
		return nil, apperrors.WithMessage(apperrors.ErrValidation, "opening balance cannot be negative")
	}
	currency := strings.ToUpper(in.Currency)
	if currency == "" {
		currency = "USD"
	}

	account := &models.BankAccount{
		Name:          name,
		Type:          in.Type,
		BankName:      in.BankName,
		AccountNumber: in.AccountNumber,
		Currency:      currency,
		Balance:       in.OpeningBalance,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx.Model(&models.BankAccount{}).Where("name = ?", name)
		if in.AccountNumber != "" {
			q = tx.Model(&models.BankAccount{}).Where("(name = ? OR account_number = ?)", name, in.AccountNumber)
		}
		var count int64
		if err := q.Count(&count).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count > 0 {
			return apperrors.ErrDuplicateAccount
		}

		if err := tx.Create(account).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return s.audit.Log(tx, actor, AuditActionCreate, "bank_account", account.ID, map[string]any{
			"name":            account.Name,
			"opening_balance": account.Balance.String(),
		})
	})
	if err != nil {
		return nil, err
	}

	logger.Get().Infow("bank account created", "account_id", account.ID, "name", account.Name, "actor_id", actor.ID)
	return account, nil
}

// GetAccount retrieves a live bank account by ID
func (s *accountStore) GetAccount(ctx context.Context, id string) (*models.BankAccount, error) {
	var account models.BankAccount
	if err := s.db.WithContext(ctx).First(&account, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAccountNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &account, nil
}

// GetBalance returns the committed balance of a live account.
func (s *accountStore) GetBalance(ctx context.Context, id string) (decimal.Decimal, error) {
	account, err := s.GetAccount(ctx, id)
	if err != nil {
		return decimal.Zero, err
	}
	return account.Balance, nil
}

// ResolveByName finds a live account by its display name.
func (s *accountStore) ResolveByName(ctx context.Context, name string) (*models.BankAccount, error) {
	var account models.BankAccount
	if err := s.db.WithContext(ctx).First(&account, "name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.WithMessage(apperrors.ErrAccountNotFound, fmt.Sprintf("bank account %q not found", name))
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &account, nil
}

// SoftDeleteAccount marks an account deleted. Its balance is kept as is.
func (s *accountStore) SoftDeleteAccount(ctx context.Context, id string, actor models.Actor) error {
	release, err := s.Lock(ctx, id)
	if err != nil {
		return err
	}
	defer release()

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		account, err := s.loadForUpdate(tx, id)
		if err != nil {
			return err
		}
		if err := tx.Model(account).Update("deleted_by", actor.ID).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Delete(account).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return s.audit.Log(tx, actor, AuditActionDelete, "bank_account", id, nil)
	})
}

// ApplyDelta adds delta to the balance, refusing to go below zero.
func (s *accountStore) ApplyDelta(tx *gorm.DB, id string, delta decimal.Decimal) (decimal.Decimal, error) {
	return s.ApplyDeltaWithFloor(tx, id, delta, decimal.Zero)
}

// ApplyDeltaWithFloor adds delta to the balance. A negative delta that would
// leave the balance below floor fails with ErrInsufficientFunds. The row is
// read FOR UPDATE within tx, so the check and the write see the same value.
func (s *accountStore) ApplyDeltaWithFloor(tx *gorm.DB, id string, delta, floor decimal.Decimal) (decimal.Decimal, error) {
	account, err := s.loadForUpdate(tx, id)
	if err != nil {
		return decimal.Zero, err
	}

	newBalance := account.Balance.Add(delta)
	if delta.IsNegative() && newBalance.LessThan(floor) {
		return decimal.Zero, apperrors.WithMessage(apperrors.ErrInsufficientFunds,
			fmt.Sprintf("insufficient balance in %s: have %s, need %s",
				account.Name, account.Balance.StringFixed(2), delta.Neg().StringFixed(2)))
	}

	if err := tx.Model(account).Update("balance", newBalance).Error; err != nil {
		return decimal.Zero, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	direction := "credit"
	if delta.IsNegative() {
		direction = "debit"
	}
	s.metrics.IncrBalanceDelta(direction)
	return newBalance, nil
}

// Lock takes the in-process locks of the given accounts.
func (s *accountStore) Lock(ctx context.Context, accountIDs ...string) (func(), error) {
	keys := make([]string, 0, len(accountIDs))
	for _, id := range accountIDs {
		keys = append(keys, AccountLockKey(id))
	}
	return s.locks.Acquire(ctx, keys...)
}

func (s *accountStore) loadForUpdate(tx *gorm.DB, id string) (*models.BankAccount, error) {
	var account models.BankAccount
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&account, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAccountNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &account, nil
}
