package testutil_test

import (
	"testing"

	"treasury/internal/errors"
	"treasury/internal/models"
	"treasury/internal/testutil"
)

func TestSetupTestDB(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	var count int64
	for _, table := range []string{"bank_accounts", "expenses", "incomes", "transfers", "loans",
		"asset_transactions", "payables", "receivables", "payrolls", "projects", "employees", "audit_logs"} {
		if err := db.Table(table).Count(&count).Error; err != nil {
			t.Errorf("table %q should exist after migration: %v", table, err)
		}
	}
}

func TestSetupTestDBIsolation(t *testing.T) {
	a := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, a)
	b := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, b)

	testutil.CreateTestBankAccount(t, a, "10")

	var count int64
	if err := b.Model(&models.BankAccount{}).Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 0 {
		t.Errorf("expected second database to be empty, got %d rows", count)
	}
}

func TestFixtures(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	account := testutil.CreateTestBankAccount(t, db, "1000.50")
	if account.ID == "" {
		t.Fatal("account should have an ID")
	}
	testutil.AssertDecimal(t, "1000.50", testutil.BalanceOf(t, db, account.ID))

	expense := testutil.CreateTestExpense(t, db, account.ID, "25", models.StatusApproved)
	if expense.Status != models.StatusApproved {
		t.Errorf("expected Approved, got %s", expense.Status)
	}

	if testutil.CreateTestProject(t, db).ID == "" {
		t.Error("project should have an ID")
	}
	if testutil.CreateTestEmployee(t, db).ID == "" {
		t.Error("employee should have an ID")
	}
}

func TestAssertAppError(t *testing.T) {
	testutil.AssertAppError(t, errors.ErrBusy, "BUSY")
	testutil.AssertAppError(t, errors.Wrap(errors.ErrSettlement, errors.ErrInternalServer), "SETTLEMENT_ERROR")
}
