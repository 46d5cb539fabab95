package services

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"treasury/internal/metrics"
	"treasury/internal/models"
	"treasury/internal/testutil"
)

// ledgerEnv is a fully wired ledger over a private in-memory database.
type ledgerEnv struct {
	db           *gorm.DB
	locks        LockManager
	accounts     AccountStorer
	ledger       LedgerServicer
	metrics      *metrics.Metrics
	operating    *models.BankAccount
	disbursement *models.BankAccount
}

func newLedgerEnv(t *testing.T) *ledgerEnv {
	return newLedgerEnvWithTimeout(t, 30*time.Second)
}

func newLedgerEnvWithTimeout(t *testing.T, lockTimeout time.Duration) *ledgerEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })

	operating := testutil.CreateTestBankAccountNamed(t, db, "Vault", "0")
	disbursement := testutil.CreateTestBankAccountNamed(t, db, "Peal", "0")

	m := metrics.New()
	locks := NewLockManager(lockTimeout, m)
	accounts := NewAccountStore(db, locks, NewAuditService(), m)
	wk, err := ResolveWellKnownAccounts(context.Background(), accounts, "Vault", "Peal")
	require.NoError(t, err)

	return &ledgerEnv{
		db:           db,
		locks:        locks,
		accounts:     accounts,
		ledger:       NewLedgerService(db, accounts, locks, m, wk),
		metrics:      m,
		operating:    operating,
		disbursement: disbursement,
	}
}

func (e *ledgerEnv) setBalance(t *testing.T, account *models.BankAccount, balance string) {
	t.Helper()
	require.NoError(t, e.db.Model(account).Update("balance", testutil.Dec(balance)).Error)
}

func (e *ledgerEnv) create(t *testing.T, in CreateDocumentInput, actor models.Actor) models.Document {
	t.Helper()
	doc, err := e.ledger.CreateDocument(context.Background(), in, actor)
	require.NoError(t, err)
	return doc
}

func (e *ledgerEnv) transition(doc models.Document, target models.Status, actor models.Actor, receipt string) (models.Document, error) {
	payload := TransitionPayload{}
	if receipt != "" {
		payload.Receipt = &receipt
	}
	return e.ledger.RequestTransition(context.Background(), models.Ref(doc), target, actor, payload)
}

func (e *ledgerEnv) mustTransition(t *testing.T, doc models.Document, target models.Status, actor models.Actor, receipt string) models.Document {
	t.Helper()
	out, err := e.transition(doc, target, actor, receipt)
	require.NoError(t, err)
	return out
}

func (e *ledgerEnv) status(t *testing.T, doc models.Document) models.Status {
	t.Helper()
	cur, err := e.ledger.GetDocument(context.Background(), models.Ref(doc))
	require.NoError(t, err)
	return cur.Header().Status
}

func (e *ledgerEnv) balance(t *testing.T, account *models.BankAccount) decimal.Decimal {
	t.Helper()
	return testutil.BalanceOf(t, e.db, account.ID)
}

func (e *ledgerEnv) auditCount(t *testing.T, resourceID string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(&models.AuditLog{}).Where("resource_id = ?", resourceID).Count(&n).Error)
	return n
}

func expenseInput(from *models.BankAccount, amount string) CreateDocumentInput {
	return CreateDocumentInput{
		Variant:       models.VariantExpense,
		Amount:        testutil.Dec(amount),
		Reason:        models.ReasonOfficeAdministration,
		FromAccountID: &from.ID,
	}
}
