package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"treasury/internal/models"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// Actors used throughout service and handler tests.
var (
	Manager    = models.Actor{ID: "00000000-0000-7000-8000-000000000001", Role: models.RoleManager}
	Accountant = models.Actor{ID: "00000000-0000-7000-8000-000000000002", Role: models.RoleAccountant}
	Cashier    = models.Actor{ID: "00000000-0000-7000-8000-000000000003", Role: models.RoleCashier}
)

// Dec parses a decimal literal, failing loudly on typos.
func Dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// CreateTestBankAccount creates a checking account with a unique name and
// the given balance.
func CreateTestBankAccount(t *testing.T, db *gorm.DB, balance string) *models.BankAccount {
	t.Helper()
	return CreateTestBankAccountNamed(t, db, fmt.Sprintf("Account %d", nextID()), balance)
}

// CreateTestBankAccountNamed creates a checking account with the given name
// and balance.
func CreateTestBankAccountNamed(t *testing.T, db *gorm.DB, name, balance string) *models.BankAccount {
	t.Helper()

	account := &models.BankAccount{
		Name:          name,
		Type:          models.BankAccountTypeChecking,
		BankName:      "Test Bank",
		AccountNumber: fmt.Sprintf("ACC-%06d", nextID()),
		Currency:      "USD",
		Balance:       Dec(balance),
	}
	if err := db.Create(account).Error; err != nil {
		t.Fatalf("failed to create test bank account: %v", err)
	}
	return account
}

// BalanceOf reads the stored balance of an account, bypassing every service.
func BalanceOf(t *testing.T, db *gorm.DB, accountID string) decimal.Decimal {
	t.Helper()

	var account models.BankAccount
	if err := db.Unscoped().First(&account, "id = ?", accountID).Error; err != nil {
		t.Fatalf("failed to load bank account %s: %v", accountID, err)
	}
	return account.Balance
}

// CreateTestProject creates a project row.
func CreateTestProject(t *testing.T, db *gorm.DB) *models.Project {
	t.Helper()

	project := &models.Project{Name: fmt.Sprintf("Project %d", nextID())}
	if err := db.Create(project).Error; err != nil {
		t.Fatalf("failed to create test project: %v", err)
	}
	return project
}

// CreateTestEmployee creates an employee row.
func CreateTestEmployee(t *testing.T, db *gorm.DB) *models.Employee {
	t.Helper()

	employee := &models.Employee{Name: fmt.Sprintf("Employee %d", nextID())}
	if err := db.Create(employee).Error; err != nil {
		t.Fatalf("failed to create test employee: %v", err)
	}
	return employee
}

// CreateTestExpense stores an expense directly in the given status, for tests
// that start mid-lifecycle.
func CreateTestExpense(t *testing.T, db *gorm.DB, fromAccountID, amount string, status models.Status) *models.Expense {
	t.Helper()

	expense := &models.Expense{
		DocumentHeader: models.DocumentHeader{
			Amount:        Dec(amount),
			Status:        status,
			Reason:        models.ReasonOfficeAdministration,
			FromAccountID: &fromAccountID,
			CreatedBy:     Manager.ID,
		},
	}
	if err := db.Create(expense).Error; err != nil {
		t.Fatalf("failed to create test expense: %v", err)
	}
	return expense
}

// StrPtr returns a pointer to s.
func StrPtr(s string) *string { return &s }
