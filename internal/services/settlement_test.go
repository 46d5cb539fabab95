package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"treasury/internal/models"
	"treasury/internal/testutil"
)

func derivedExpenses(t *testing.T, env *ledgerEnv, src models.Document) []models.Expense {
	t.Helper()
	var out []models.Expense
	require.NoError(t, env.db.Where("source_variant = ? AND source_id = ?", src.Variant(), src.Header().ID).Find(&out).Error)
	return out
}

func derivedIncomes(t *testing.T, env *ledgerEnv, src models.Document) []models.Income {
	t.Helper()
	var out []models.Income
	require.NoError(t, env.db.Where("source_variant = ? AND source_id = ?", src.Variant(), src.Header().ID).Find(&out).Error)
	return out
}

func TestSettlePayroll(t *testing.T) {
	env := newLedgerEnv(t)
	env.setBalance(t, env.operating, "5000")
	employee := testutil.CreateTestEmployee(t, env.db)

	doc := env.create(t, CreateDocumentInput{
		Variant:     models.VariantPayroll,
		EmployeeID:  &employee.ID,
		GrossAmount: testutil.Dec("1200"),
		Deductions:  testutil.Dec("200"),
	}, testutil.Accountant)
	assert.Equal(t, models.StatusPending, doc.Header().Status)
	testutil.AssertDecimal(t, "1000", doc.Header().Amount)
	require.NotNil(t, doc.Header().FromAccountID)
	assert.Equal(t, env.operating.ID, *doc.Header().FromAccountID)

	paid := env.mustTransition(t, doc, models.StatusPaid, testutil.Cashier, "")
	testutil.AssertDecimal(t, "3980", env.balance(t, env.operating))

	expenses := derivedExpenses(t, env, doc)
	require.Len(t, expenses, 1)
	assert.Equal(t, models.StatusPaid, expenses[0].Status)
	assert.Equal(t, models.ReasonEmployeeCosts, expenses[0].Reason)
	testutil.AssertDecimal(t, "1000", expenses[0].Amount)
	assert.Contains(t, expenses[0].SpecificReason, doc.Header().ID)
	require.NotNil(t, paid.Header().SettlementRef)
	assert.Equal(t, expenses[0].ID, *paid.Header().SettlementRef)
}

func TestSettlePayable(t *testing.T) {
	t.Run("approved_debits_disbursement_and_spawns_expense", func(t *testing.T) {
		env := newLedgerEnv(t)
		env.setBalance(t, env.disbursement, "1000")

		doc := env.create(t, CreateDocumentInput{
			Variant: models.VariantPayable,
			Amount:  testutil.Dec("250"),
			Reason:  models.ReasonFinanceLegal,
		}, testutil.Accountant)
		assert.Equal(t, env.disbursement.ID, *doc.Header().FromAccountID)

		env.mustTransition(t, doc, models.StatusApproved, testutil.Cashier, "receipt://p")
		testutil.AssertDecimal(t, "745", env.balance(t, env.disbursement))

		expenses := derivedExpenses(t, env, doc)
		require.Len(t, expenses, 1)
		assert.Equal(t, models.ReasonFinanceLegal, expenses[0].Reason)
		require.NotNil(t, expenses[0].Receipt)
		assert.Equal(t, "receipt://p", *expenses[0].Receipt)
		assert.Zero(t, env.locks.(*lockManager).size())
	})

	t.Run("external_loan_return_adds_interest", func(t *testing.T) {
		env := newLedgerEnv(t)
		env.setBalance(t, env.disbursement, "2000")

		loan := env.create(t, CreateDocumentInput{
			Variant:      models.VariantLoan,
			LoanKind:     models.LoanKindExternal,
			Amount:       testutil.Dec("1000"),
			Counterparty: "First Bank",
			InterestRate: testutil.Dec("5"),
		}, testutil.Manager)

		doc := env.create(t, CreateDocumentInput{
			Variant: models.VariantPayable,
			Amount:  testutil.Dec("1000"),
			Reason:  models.ReasonExternalLoanReturn,
			LoanID:  &loan.Header().ID,
		}, testutil.Accountant)

		env.mustTransition(t, doc, models.StatusApproved, testutil.Cashier, "receipt://loan")
		// 1000 + 2% fee + 5% interest
		testutil.AssertDecimal(t, "930", env.balance(t, env.disbursement))
	})

	t.Run("rejected_moves_no_money", func(t *testing.T) {
		env := newLedgerEnv(t)
		env.setBalance(t, env.disbursement, "1000")
		doc := env.create(t, CreateDocumentInput{
			Variant: models.VariantPayable, Amount: testutil.Dec("250"), Reason: models.ReasonOther,
		}, testutil.Accountant)

		env.mustTransition(t, doc, models.StatusRejected, testutil.Accountant, "")
		testutil.AssertDecimal(t, "1000", env.balance(t, env.disbursement))
		assert.Empty(t, derivedExpenses(t, env, doc))

		_, err := env.transition(doc, models.StatusApproved, testutil.Cashier, "receipt://late")
		testutil.AssertAppError(t, err, "INVALID_TRANSITION")
	})

	t.Run("insufficient_funds_spawns_nothing", func(t *testing.T) {
		env := newLedgerEnv(t)
		env.setBalance(t, env.disbursement, "100")
		doc := env.create(t, CreateDocumentInput{
			Variant: models.VariantPayable, Amount: testutil.Dec("100"), Reason: models.ReasonOther,
		}, testutil.Accountant)

		_, err := env.transition(doc, models.StatusApproved, testutil.Cashier, "receipt://p")
		testutil.AssertAppError(t, err, "INSUFFICIENT_FUNDS")
		assert.Empty(t, derivedExpenses(t, env, doc))
		assert.Equal(t, models.StatusPending, env.status(t, doc))
	})
}

func TestSettleReceivable(t *testing.T) {
	env := newLedgerEnv(t)
	doc := env.create(t, CreateDocumentInput{
		Variant: models.VariantReceivable, Amount: testutil.Dec("400"), Reason: models.SourceSupport,
	}, testutil.Accountant)
	assert.Equal(t, env.operating.ID, *doc.Header().ToAccountID)

	_, err := env.transition(doc, models.StatusApproved, testutil.Cashier, "")
	testutil.AssertAppError(t, err, "RECEIPT_REQUIRED")

	env.mustTransition(t, doc, models.StatusApproved, testutil.Cashier, "receipt://r")
	testutil.AssertDecimal(t, "400", env.balance(t, env.operating))

	incomes := derivedIncomes(t, env, doc)
	require.Len(t, incomes, 1)
	assert.Equal(t, models.StatusReceived, incomes[0].Status)
	assert.Equal(t, models.SourceSupport, incomes[0].Reason)
	require.NotNil(t, incomes[0].Receipt)
	assert.Equal(t, "receipt://r", *incomes[0].Receipt)
}

func TestSettleAssetTransactions(t *testing.T) {
	t.Run("purchase", func(t *testing.T) {
		env := newLedgerEnv(t)
		env.setBalance(t, env.operating, "10000")

		doc := env.create(t, CreateDocumentInput{
			Variant:   models.VariantAsset,
			AssetName: "Laptop",
			Category:  models.AssetCategoryElectronics,
			Direction: models.AssetBought,
			Quantity:  3,
			Price:     testutil.Dec("1500"),
		}, testutil.Manager)
		testutil.AssertDecimal(t, "4500", doc.Header().Amount)
		assert.Equal(t, models.FlowAssetPurchase, doc.Flow())

		env.mustTransition(t, doc, models.StatusApproved, testutil.Accountant, "")
		_, err := env.transition(doc, models.StatusPaid, testutil.Cashier, "")
		testutil.AssertAppError(t, err, "RECEIPT_REQUIRED")

		env.mustTransition(t, doc, models.StatusPaid, testutil.Cashier, "receipt://invoice")
		testutil.AssertDecimal(t, "5410", env.balance(t, env.operating))

		expenses := derivedExpenses(t, env, doc)
		require.Len(t, expenses, 1)
		assert.Equal(t, models.ReasonAssetPurchase, expenses[0].Reason)
		require.NotNil(t, expenses[0].AssetID)
		assert.Equal(t, doc.Header().ID, *expenses[0].AssetID)
		require.NotNil(t, expenses[0].Receipt)
		assert.Equal(t, "receipt://invoice", *expenses[0].Receipt)
	})

	t.Run("sale_needs_receipt_to_approve", func(t *testing.T) {
		env := newLedgerEnv(t)
		dest := testutil.CreateTestBankAccount(t, env.db, "0")

		doc := env.create(t, CreateDocumentInput{
			Variant:     models.VariantAsset,
			AssetName:   "Desk",
			Category:    models.AssetCategoryFurniture,
			Direction:   models.AssetSold,
			Quantity:    2,
			Price:       testutil.Dec("300"),
			ToAccountID: &dest.ID,
		}, testutil.Manager)

		_, err := env.transition(doc, models.StatusApproved, testutil.Accountant, "")
		testutil.AssertAppError(t, err, "RECEIPT_REQUIRED")

		env.mustTransition(t, doc, models.StatusApproved, testutil.Accountant, "receipt://bill-of-sale")
		_, err = env.transition(doc, models.StatusReceived, testutil.Cashier, "")
		testutil.AssertAppError(t, err, "RECEIPT_REQUIRED")

		env.mustTransition(t, doc, models.StatusReceived, testutil.Cashier, "receipt://deposit")
		// No fee on credits.
		testutil.AssertDecimal(t, "600", env.balance(t, dest))

		incomes := derivedIncomes(t, env, doc)
		require.Len(t, incomes, 1)
		assert.Equal(t, models.SourceAssetSales, incomes[0].Reason)
		require.NotNil(t, incomes[0].Receipt)
		assert.Equal(t, "receipt://deposit", *incomes[0].Receipt)
	})
}

func TestSettleEmployeeLoan(t *testing.T) {
	env := newLedgerEnv(t)
	env.setBalance(t, env.operating, "1000")
	employee := testutil.CreateTestEmployee(t, env.db)

	loan := env.create(t, CreateDocumentInput{
		Variant:    models.VariantLoan,
		LoanKind:   models.LoanKindEmployee,
		Amount:     testutil.Dec("500"),
		EmployeeID: &employee.ID,
	}, testutil.Manager)
	assert.Equal(t, models.StatusGiveRequest, loan.Header().Status)

	_, err := env.transition(loan, models.StatusPaid, testutil.Cashier, "")
	testutil.AssertAppError(t, err, "INVALID_TRANSITION")

	env.mustTransition(t, loan, models.StatusGiven, testutil.Cashier, "")
	testutil.AssertDecimal(t, "490", env.balance(t, env.operating))

	_, err = env.transition(loan, models.StatusReturnRequest, testutil.Cashier, "")
	testutil.AssertAppError(t, err, "FORBIDDEN")

	env.mustTransition(t, loan, models.StatusReturnRequest, testutil.Manager, "")
	env.mustTransition(t, loan, models.StatusReturned, testutil.Cashier, "")
	testutil.AssertDecimal(t, "990", env.balance(t, env.operating))

	closed := env.mustTransition(t, loan, models.StatusPaid, testutil.Cashier, "")
	assert.Equal(t, models.StatusPaid, closed.Header().Status)
	testutil.AssertDecimal(t, "990", env.balance(t, env.operating))
}

func TestSettleExternalLoan(t *testing.T) {
	env := newLedgerEnv(t)

	loan := env.create(t, CreateDocumentInput{
		Variant:      models.VariantLoan,
		LoanKind:     models.LoanKindExternal,
		Amount:       testutil.Dec("1000"),
		Counterparty: "Lender Ltd",
		InterestRate: testutil.Dec("10"),
	}, testutil.Manager)
	assert.Equal(t, models.StatusReceived, loan.Header().Status)
	testutil.AssertDecimal(t, "1000", env.balance(t, env.operating))

	env.mustTransition(t, loan, models.StatusReturnRequest, testutil.Manager, "")

	// Return needs 1000 + 20 fee + 100 interest.
	_, err := env.transition(loan, models.StatusReturned, testutil.Cashier, "receipt://repay")
	testutil.AssertAppError(t, err, "INSUFFICIENT_FUNDS")
	assert.Equal(t, models.StatusReturnRequest, env.status(t, loan))

	env.setBalance(t, env.operating, "1200")
	returned := env.mustTransition(t, loan, models.StatusReturned, testutil.Cashier, "receipt://repay")
	testutil.AssertDecimal(t, "80", env.balance(t, env.operating))
	testutil.AssertDecimal(t, "1120", returned.Header().SettledAmount.Decimal)
}

func TestSettleIncomeOnCreate(t *testing.T) {
	env := newLedgerEnv(t)
	dest := testutil.CreateTestBankAccount(t, env.db, "10")

	doc := env.create(t, CreateDocumentInput{
		Variant:     models.VariantIncome,
		Amount:      testutil.Dec("90"),
		Reason:      models.SourceSoftwareSales,
		ToAccountID: &dest.ID,
	}, testutil.Cashier)

	assert.Equal(t, models.StatusReceived, doc.Header().Status)
	assert.NotNil(t, doc.Header().SettledAt)
	testutil.AssertDecimal(t, "100", env.balance(t, dest))
	assert.Equal(t, int64(1), env.auditCount(t, doc.Header().ID))

	_, err := env.transition(doc, models.StatusApproved, testutil.Cashier, "receipt://x")
	testutil.AssertAppError(t, err, "FORBIDDEN")
}

func TestCreationEffectRejectsPendingFlows(t *testing.T) {
	_, err := creationEffect(&models.Expense{})
	testutil.AssertAppError(t, err, "VALIDATION_ERROR")
}

func TestSettlementErrorWrapping(t *testing.T) {
	env := newLedgerEnv(t)
	a := testutil.CreateTestBankAccount(t, env.db, "1000")
	doc := env.create(t, expenseInput(a, "100"), testutil.Manager)
	env.mustTransition(t, doc, models.StatusApproved, testutil.Accountant, "")

	// Dropping the audit table makes the final write of the transaction fail.
	require.NoError(t, env.db.Migrator().DropTable(&models.AuditLog{}))

	_, err := env.transition(doc, models.StatusPaid, testutil.Cashier, "receipt://1")
	testutil.AssertAppError(t, err, "SETTLEMENT_ERROR")
	testutil.AssertDecimal(t, "1000", env.balance(t, a))

	cur, err := env.ledger.GetDocument(context.Background(), models.Ref(doc))
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, cur.Header().Status)
}
