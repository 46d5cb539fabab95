package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"

	apperrors "treasury/internal/errors"
	"treasury/internal/models"
	"treasury/internal/services"
)

func TestAccountHandler_CreateAccount(t *testing.T) {
	manager := models.Actor{ID: "user-manager", Role: models.RoleManager}

	t.Run("returns 201 on success", func(t *testing.T) {
		ledger := &mockLedger{
			createAccountFn: func(_ context.Context, in services.CreateAccountInput, actor models.Actor) (*models.BankAccount, error) {
				if actor != manager {
					t.Errorf("unexpected actor %v", actor)
				}
				if !in.OpeningBalance.Equal(decimal.NewFromInt(250)) {
					t.Errorf("expected opening balance 250, got %s", in.OpeningBalance)
				}
				return &models.BankAccount{
					Base:     models.Base{ID: testAccountID},
					Name:     in.Name,
					Type:     in.Type,
					Currency: in.Currency,
					Balance:  in.OpeningBalance,
				}, nil
			},
		}
		r := setupRouter(ledger, &manager)

		rec := doRequest(r, http.MethodPost, "/accounts",
			`{"name":"Vault","type":"Checking","currency":"USD","opening_balance":"250"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if got := parseJSON(t, rec)["name"]; got != "Vault" {
			t.Errorf("expected Vault, got %v", got)
		}
	})

	t.Run("returns 400 on unknown account type", func(t *testing.T) {
		r := setupRouter(&mockLedger{}, &manager)
		rec := doRequest(r, http.MethodPost, "/accounts", `{"name":"Vault","type":"Brokerage"}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "VALIDATION_ERROR")
	})

	t.Run("returns 400 on invalid currency", func(t *testing.T) {
		r := setupRouter(&mockLedger{}, &manager)
		rec := doRequest(r, http.MethodPost, "/accounts", `{"name":"Vault","type":"Savings","currency":"ABC"}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 403 when service refuses the role", func(t *testing.T) {
		ledger := &mockLedger{
			createAccountFn: func(context.Context, services.CreateAccountInput, models.Actor) (*models.BankAccount, error) {
				return nil, apperrors.ErrForbidden
			},
		}
		r := setupRouter(ledger, &cashier)
		rec := doRequest(r, http.MethodPost, "/accounts", `{"name":"Vault","type":"Checking"}`)
		if rec.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "FORBIDDEN")
	})

	t.Run("returns 401 without actor", func(t *testing.T) {
		r := setupRouter(&mockLedger{}, nil)
		rec := doRequest(r, http.MethodPost, "/accounts", `{"name":"Vault","type":"Checking"}`)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})
}

func TestAccountHandler_GetBalance(t *testing.T) {
	t.Run("returns balance", func(t *testing.T) {
		ledger := &mockLedger{
			getAccountBalanceFn: func(_ context.Context, id string) (decimal.Decimal, error) {
				if id != testAccountID {
					t.Errorf("unexpected id %s", id)
				}
				return decimal.RequireFromString("1234.56"), nil
			},
		}
		r := setupRouter(ledger, &cashier)

		rec := doRequest(r, http.MethodGet, "/accounts/"+testAccountID+"/balance", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if got := parseJSON(t, rec)["balance"]; got != "1234.56" {
			t.Errorf("expected 1234.56, got %v", got)
		}
	})

	t.Run("returns 400 on malformed id", func(t *testing.T) {
		r := setupRouter(&mockLedger{}, &cashier)
		rec := doRequest(r, http.MethodGet, "/accounts/42/balance", "")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 404 for unknown account", func(t *testing.T) {
		ledger := &mockLedger{
			getAccountBalanceFn: func(context.Context, string) (decimal.Decimal, error) {
				return decimal.Zero, apperrors.ErrAccountNotFound
			},
		}
		r := setupRouter(ledger, &cashier)
		rec := doRequest(r, http.MethodGet, "/accounts/"+testAccountID+"/balance", "")
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "NOT_FOUND")
	})
}

func TestAccountHandler_DeleteAccount(t *testing.T) {
	called := false
	ledger := &mockLedger{
		deleteAccountFn: func(_ context.Context, id string, _ models.Actor) error {
			called = id == testAccountID
			return nil
		},
	}
	r := setupRouter(ledger, &models.Actor{ID: "m", Role: models.RoleManager})

	rec := doRequest(r, http.MethodDelete, "/accounts/"+testAccountID, "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !called {
		t.Error("expected DeleteAccount to be called with the path id")
	}
}
