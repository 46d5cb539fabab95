package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"treasury/internal/services"
)

// AccountHandler serves bank account administration and balance reads.
type AccountHandler struct {
	ledger services.LedgerServicer
}

func NewAccountHandler(ledger services.LedgerServicer) *AccountHandler {
	return &AccountHandler{ledger: ledger}
}

// BalanceResponse is the body of GET /accounts/:id/balance.
type BalanceResponse struct {
	AccountID string          `json:"account_id"`
	Balance   decimal.Decimal `json:"balance"`
}

// CreateAccount handles account creation.
// @Summary     Create a bank account
// @Description Managers register an organization bank account, optionally with an opening balance
// @Tags        accounts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body services.CreateAccountInput true "Account details"
// @Success     201 {object} models.BankAccount "Account created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Not a manager"
// @Router      /accounts [post]
func (h *AccountHandler) CreateAccount(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req services.CreateAccountInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, invalidInput(err))
		return
	}

	account, err := h.ledger.CreateAccount(c.Request.Context(), req, actor)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, account)
}

// GetBalance handles balance reads.
// @Summary     Get account balance
// @Tags        accounts
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Account ID"
// @Success     200 {object} BalanceResponse
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     404 {object} ErrorResponse "Account not found"
// @Router      /accounts/{id}/balance [get]
func (h *AccountHandler) GetBalance(c *gin.Context) {
	if _, err := getActor(c); err != nil {
		respondWithError(c, err)
		return
	}

	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	balance, err := h.ledger.GetAccountBalance(c.Request.Context(), id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, BalanceResponse{AccountID: id, Balance: balance})
}

// DeleteAccount handles account soft deletion.
// @Summary     Delete a bank account
// @Tags        accounts
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Account ID"
// @Success     200 {object} map[string]string
// @Failure     403 {object} ErrorResponse "Not a manager"
// @Failure     404 {object} ErrorResponse "Account not found"
// @Router      /accounts/{id} [delete]
func (h *AccountHandler) DeleteAccount(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.ledger.DeleteAccount(c.Request.Context(), id, actor); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Account deleted successfully"})
}
