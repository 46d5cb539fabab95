package handlers

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"treasury/internal/logger"
	"treasury/internal/middleware"
	"treasury/internal/models"
	"treasury/internal/pagination"
	"treasury/internal/services"
	"treasury/internal/validator"
)

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// --- mock ledger ---

type mockLedger struct {
	createDocumentFn    func(ctx context.Context, in services.CreateDocumentInput, actor models.Actor) (models.Document, error)
	requestTransitionFn func(ctx context.Context, ref models.DocumentRef, target models.Status, actor models.Actor, payload services.TransitionPayload) (models.Document, error)
	getAccountBalanceFn func(ctx context.Context, accountID string) (decimal.Decimal, error)
	getDocumentFn       func(ctx context.Context, ref models.DocumentRef) (models.Document, error)
	findDocumentsFn     func(ctx context.Context, variant models.Variant, filter services.DocumentFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Document], error)
	deleteDocumentFn    func(ctx context.Context, ref models.DocumentRef, actor models.Actor) error
	createAccountFn     func(ctx context.Context, in services.CreateAccountInput, actor models.Actor) (*models.BankAccount, error)
	deleteAccountFn     func(ctx context.Context, id string, actor models.Actor) error
}

func (m *mockLedger) CreateDocument(ctx context.Context, in services.CreateDocumentInput, actor models.Actor) (models.Document, error) {
	if m.createDocumentFn != nil {
		return m.createDocumentFn(ctx, in, actor)
	}
	return &models.Expense{}, nil
}

func (m *mockLedger) RequestTransition(ctx context.Context, ref models.DocumentRef, target models.Status, actor models.Actor, payload services.TransitionPayload) (models.Document, error) {
	if m.requestTransitionFn != nil {
		return m.requestTransitionFn(ctx, ref, target, actor, payload)
	}
	return &models.Expense{}, nil
}

func (m *mockLedger) GetAccountBalance(ctx context.Context, accountID string) (decimal.Decimal, error) {
	if m.getAccountBalanceFn != nil {
		return m.getAccountBalanceFn(ctx, accountID)
	}
	return decimal.Zero, nil
}

func (m *mockLedger) GetDocument(ctx context.Context, ref models.DocumentRef) (models.Document, error) {
	if m.getDocumentFn != nil {
		return m.getDocumentFn(ctx, ref)
	}
	return &models.Expense{}, nil
}

func (m *mockLedger) FindDocuments(ctx context.Context, variant models.Variant, filter services.DocumentFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Document], error) {
	if m.findDocumentsFn != nil {
		return m.findDocumentsFn(ctx, variant, filter, page)
	}
	resp := pagination.NewPageResponse[models.Document](nil, 1, 20, 0)
	return &resp, nil
}

func (m *mockLedger) DeleteDocument(ctx context.Context, ref models.DocumentRef, actor models.Actor) error {
	if m.deleteDocumentFn != nil {
		return m.deleteDocumentFn(ctx, ref, actor)
	}
	return nil
}

func (m *mockLedger) CreateAccount(ctx context.Context, in services.CreateAccountInput, actor models.Actor) (*models.BankAccount, error) {
	if m.createAccountFn != nil {
		return m.createAccountFn(ctx, in, actor)
	}
	return &models.BankAccount{}, nil
}

func (m *mockLedger) DeleteAccount(ctx context.Context, id string, actor models.Actor) error {
	if m.deleteAccountFn != nil {
		return m.deleteAccountFn(ctx, id, actor)
	}
	return nil
}

// verify interface compliance
var _ services.LedgerServicer = (*mockLedger)(nil)

// --- helpers ---

const (
	testAccountID  = "0192a7c4-1111-7000-8000-000000000001"
	testDocumentID = "0192a7c4-2222-7000-8000-000000000002"
)

var cashier = models.Actor{ID: "user-cashier", Role: models.RoleCashier}

func injectActor(actor models.Actor) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ActorKey, actor)
		c.Next()
	}
}

func setupRouter(ledger services.LedgerServicer, actor *models.Actor) *gin.Engine {
	r := gin.New()
	r.Use(middleware.ErrorHandler())
	g := r.Group("")
	if actor != nil {
		g.Use(injectActor(*actor))
	}

	accounts := NewAccountHandler(ledger)
	g.POST("/accounts", accounts.CreateAccount)
	g.GET("/accounts/:id/balance", accounts.GetBalance)
	g.DELETE("/accounts/:id", accounts.DeleteAccount)

	docs := NewDocumentHandler(ledger)
	g.POST("/documents/:variant", docs.CreateDocument)
	g.GET("/documents/:variant", docs.ListDocuments)
	g.GET("/documents/:variant/:id", docs.GetDocument)
	g.POST("/documents/:variant/:id/transitions", docs.RequestTransition)
	g.DELETE("/documents/:variant/:id", docs.DeleteDocument)
	return r
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func assertErrorCode(t *testing.T, result map[string]interface{}, code string) {
	t.Helper()
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object in response, got: %v", result)
	}
	if errObj["code"] != code {
		t.Errorf("expected error code %q, got %q", code, errObj["code"])
	}
}
