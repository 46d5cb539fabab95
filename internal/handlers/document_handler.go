package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "treasury/internal/errors"
	"treasury/internal/models"
	"treasury/internal/pagination"
	"treasury/internal/services"
)

// DocumentHandler serves document creation, listing and the status workflow.
type DocumentHandler struct {
	ledger services.LedgerServicer
}

func NewDocumentHandler(ledger services.LedgerServicer) *DocumentHandler {
	return &DocumentHandler{ledger: ledger}
}

// TransitionRequest is the body of POST /documents/:variant/:id/transitions.
type TransitionRequest struct {
	Status  models.Status `json:"status" binding:"required,ledger_status"`
	Receipt *string       `json:"receipt"`
	Comment string        `json:"comment" binding:"max=500"`
}

// CreateDocument handles document creation.
// @Summary     Create a document
// @Description Income, transfers and external loans settle on creation; every other variant starts its approval workflow
// @Tags        documents
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       variant path string true "Document variant" Enums(expense, income, transfer, loan, asset, payable, receivable, payroll)
// @Param       request body services.CreateDocumentInput true "Document fields"
// @Success     201 {object} map[string]interface{} "Document created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     403 {object} ErrorResponse "Role may not create this document"
// @Failure     422 {object} ErrorResponse "Insufficient funds"
// @Failure     503 {object} ErrorResponse "Busy, retry"
// @Router      /documents/{variant} [post]
func (h *DocumentHandler) CreateDocument(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	variant, err := parseVariant(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req services.CreateDocumentInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, invalidInput(err))
		return
	}
	req.Variant = variant

	doc, err := h.ledger.CreateDocument(c.Request.Context(), req, actor)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, doc)
}

// ListDocuments handles filtered, paginated listings.
// @Summary     List documents of one variant
// @Tags        documents
// @Produce     json
// @Security    BearerAuth
// @Param       variant    path  string true  "Document variant"
// @Param       status     query string false "Status filter"
// @Param       reason     query string false "Reason filter"
// @Param       account_id query string false "Source or destination account"
// @Param       from_date  query string false "Created on or after (RFC3339 or YYYY-MM-DD)"
// @Param       to_date    query string false "Created on or before (RFC3339 or YYYY-MM-DD)"
// @Param       page       query int    false "Page number"
// @Param       page_size  query int    false "Page size (max 100)"
// @Success     200 {object} map[string]interface{}
// @Failure     400 {object} ErrorResponse "Invalid filter"
// @Router      /documents/{variant} [get]
func (h *DocumentHandler) ListDocuments(c *gin.Context) {
	if _, err := getActor(c); err != nil {
		respondWithError(c, err)
		return
	}

	variant, err := parseVariant(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, invalidInput(err))
		return
	}

	filter, err := parseDocumentFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.ledger.FindDocuments(c.Request.Context(), variant, filter, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetDocument handles single-document reads.
// @Summary     Get a document
// @Tags        documents
// @Produce     json
// @Security    BearerAuth
// @Param       variant path string true "Document variant"
// @Param       id      path string true "Document ID"
// @Success     200 {object} map[string]interface{}
// @Failure     404 {object} ErrorResponse "Document not found"
// @Router      /documents/{variant}/{id} [get]
func (h *DocumentHandler) GetDocument(c *gin.Context) {
	if _, err := getActor(c); err != nil {
		respondWithError(c, err)
		return
	}

	ref, err := parseDocumentRef(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	doc, err := h.ledger.GetDocument(c.Request.Context(), ref)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, doc)
}

// RequestTransition moves a document to a new status.
// @Summary     Request a status transition
// @Description The caller's role must own the target status; posting edges settle balances exactly once
// @Tags        documents
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       variant path string true "Document variant"
// @Param       id      path string true "Document ID"
// @Param       request body TransitionRequest true "Target status and receipt"
// @Success     200 {object} map[string]interface{} "Document after the transition"
// @Failure     400 {object} ErrorResponse "Receipt required or invalid input"
// @Failure     403 {object} ErrorResponse "Role may not set this status"
// @Failure     404 {object} ErrorResponse "Document or linked entity not found"
// @Failure     409 {object} ErrorResponse "Transition not allowed"
// @Failure     422 {object} ErrorResponse "Insufficient funds"
// @Failure     503 {object} ErrorResponse "Busy, retry"
// @Router      /documents/{variant}/{id}/transitions [post]
func (h *DocumentHandler) RequestTransition(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	ref, err := parseDocumentRef(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, invalidInput(err))
		return
	}

	doc, err := h.ledger.RequestTransition(c.Request.Context(), ref, req.Status, actor,
		services.TransitionPayload{Receipt: req.Receipt, Comment: req.Comment})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, doc)
}

// DeleteDocument handles document soft deletion.
// @Summary     Delete a document
// @Tags        documents
// @Produce     json
// @Security    BearerAuth
// @Param       variant path string true "Document variant"
// @Param       id      path string true "Document ID"
// @Success     200 {object} map[string]string
// @Failure     403 {object} ErrorResponse "Not a manager"
// @Failure     404 {object} ErrorResponse "Document not found"
// @Router      /documents/{variant}/{id} [delete]
func (h *DocumentHandler) DeleteDocument(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	ref, err := parseDocumentRef(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.ledger.DeleteDocument(c.Request.Context(), ref, actor); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Document deleted successfully"})
}

func parseDocumentRef(c *gin.Context) (models.DocumentRef, error) {
	variant, err := parseVariant(c)
	if err != nil {
		return models.DocumentRef{}, err
	}
	id, err := parsePathID(c, "id")
	if err != nil {
		return models.DocumentRef{}, err
	}
	return models.DocumentRef{Variant: variant, ID: id}, nil
}

func parseDocumentFilter(c *gin.Context) (services.DocumentFilter, error) {
	var filter services.DocumentFilter

	if v := c.Query("status"); v != "" {
		status := models.Status(v)
		filter.Status = &status
	}

	if v := c.Query("reason"); v != "" {
		filter.Reason = &v
	}

	if v := c.Query("account_id"); v != "" {
		filter.AccountID = &v
	}

	if v := c.Query("from_date"); v != "" {
		t, err := parseFlexibleTime(v)
		if err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrValidation, "invalid from_date format, use RFC3339 or YYYY-MM-DD")
		}
		filter.FromDate = &t
	}

	if v := c.Query("to_date"); v != "" {
		t, err := parseFlexibleTime(v)
		if err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrValidation, "invalid to_date format, use RFC3339 or YYYY-MM-DD")
		}
		filter.ToDate = &t
	}

	return filter, nil
}
