package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"treasury/internal/models"
	"treasury/internal/testutil"
)

const defaultTestLockTimeout = 10 * time.Second

func newTestRegistry(t *testing.T) (*gorm.DB, DocumentRegistrar) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })
	return db, NewDocumentRegistry(db, NewLockManager(defaultTestLockTimeout, nil), NewAuditService())
}

func TestDocumentRegistry(t *testing.T) {
	t.Run("get_unknown_variant", func(t *testing.T) {
		_, reg := newTestRegistry(t)
		_, err := reg.Get(context.Background(), models.DocumentRef{Variant: "invoice", ID: "x"})
		testutil.AssertAppError(t, err, "VALIDATION_ERROR")
	})

	t.Run("update_status_guards_on_current_status", func(t *testing.T) {
		db, reg := newTestRegistry(t)
		acc := testutil.CreateTestBankAccount(t, db, "0")
		stored := testutil.CreateTestExpense(t, db, acc.ID, "10", models.StatusRequested)

		stale, err := reg.Get(context.Background(), models.Ref(stored))
		require.NoError(t, err)

		require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
			return reg.UpdateStatus(tx, stored, models.StatusApproved, nil)
		}))

		err = db.Transaction(func(tx *gorm.DB) error {
			return reg.UpdateStatus(tx, stale, models.StatusRejected, nil)
		})
		testutil.AssertAppError(t, err, "INVALID_TRANSITION")

		cur, err := reg.Get(context.Background(), models.Ref(stored))
		require.NoError(t, err)
		assert.Equal(t, models.StatusApproved, cur.Header().Status)
	})

	t.Run("terminal_documents_are_immutable", func(t *testing.T) {
		db, reg := newTestRegistry(t)
		acc := testutil.CreateTestBankAccount(t, db, "0")
		stored := testutil.CreateTestExpense(t, db, acc.ID, "10", models.StatusPaid)

		err := db.Transaction(func(tx *gorm.DB) error {
			return reg.UpdateStatus(tx, stored, models.StatusApproved, nil)
		})
		testutil.AssertAppError(t, err, "INVALID_TRANSITION")
	})

	t.Run("mark_settled_records_settlement", func(t *testing.T) {
		db, reg := newTestRegistry(t)
		acc := testutil.CreateTestBankAccount(t, db, "0")
		stored := testutil.CreateTestExpense(t, db, acc.ID, "10", models.StatusApproved)
		ref := "01890000-0000-7000-8000-0000000000aa"

		require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
			return reg.MarkSettled(tx, stored, models.StatusPaid, testutil.StrPtr("r://1"), Settlement{
				By: testutil.Cashier.ID, Amount: testutil.Dec("10.2"), Ref: &ref,
			})
		}))

		cur, err := reg.Get(context.Background(), models.Ref(stored))
		require.NoError(t, err)
		h := cur.Header()
		assert.Equal(t, models.StatusPaid, h.Status)
		require.NotNil(t, h.SettledAt)
		require.NotNil(t, h.SettlementRef)
		assert.Equal(t, ref, *h.SettlementRef)
		assert.True(t, h.SettledAmount.Valid)
		testutil.AssertDecimal(t, "10.2", h.SettledAmount.Decimal)
		assert.Equal(t, "r://1", *h.Receipt)
	})

	t.Run("exists_ignores_deleted", func(t *testing.T) {
		db, reg := newTestRegistry(t)
		acc := testutil.CreateTestBankAccount(t, db, "0")
		stored := testutil.CreateTestExpense(t, db, acc.ID, "10", models.StatusRequested)

		ok, err := reg.Exists(context.Background(), models.Ref(stored))
		require.NoError(t, err)
		assert.True(t, ok)

		require.NoError(t, reg.SoftDelete(context.Background(), models.Ref(stored), testutil.Manager))
		ok, err = reg.Exists(context.Background(), models.Ref(stored))
		require.NoError(t, err)
		assert.False(t, ok)
	})
}
