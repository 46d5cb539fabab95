package services

import (
	"context"
	"fmt"
	"strings"

	apperrors "treasury/internal/errors"
	"treasury/internal/logger"
	"treasury/internal/metrics"
	"treasury/internal/models"
)

// workflowEngine validates a transition request and hands it to the
// settlement applier. Nothing is written before every check has passed.
type workflowEngine struct {
	registry  DocumentRegistrar
	auth      Authorizer
	directory EntityDirectory
	settler   SettlementApplier
	metrics   *metrics.Metrics
}

// NewWorkflowEngine creates a new WorkflowEngine.
func NewWorkflowEngine(registry DocumentRegistrar, auth Authorizer, directory EntityDirectory, settler SettlementApplier, m *metrics.Metrics) WorkflowEngine {
	return &workflowEngine{
		registry:  registry,
		auth:      auth,
		directory: directory,
		settler:   settler,
		metrics:   m,
	}
}

// RequestTransition moves a document to target on behalf of actor.
func (e *workflowEngine) RequestTransition(ctx context.Context, ref models.DocumentRef, target models.Status, actor models.Actor, payload TransitionPayload) (models.Document, error) {
	doc, flow, err := e.requestTransition(ctx, ref, target, actor, payload)

	outcome := "ok"
	if err != nil {
		outcome = apperrors.Code(err)
		logger.Get().Infow("transition refused",
			"document", ref.String(),
			"flow", flow,
			"target", target,
			"actor_id", actor.ID,
			"role", actor.Role,
			"code", outcome,
		)
	}
	e.metrics.RecordTransition(string(flow), string(target), outcome)
	return doc, err
}

// requestTransition reports the flow of the loaded document even when the
// request is refused, so refusals are labelled by flow.
func (e *workflowEngine) requestTransition(ctx context.Context, ref models.DocumentRef, target models.Status, actor models.Actor, payload TransitionPayload) (models.Document, models.Flow, error) {
	doc, err := e.registry.Get(ctx, ref)
	if err != nil {
		return nil, "", err
	}
	flow := doc.Flow()
	from := doc.Header().Status

	if !e.auth.CanTransition(actor.Role, flow, from, target) {
		return nil, flow, apperrors.WithMessage(apperrors.ErrForbidden,
			fmt.Sprintf("%s may not move %s documents to %s", actor.Role, flow, target))
	}
	if !models.IsLegalTransition(flow, from, target) {
		return nil, flow, apperrors.WithMessage(apperrors.ErrInvalidTransition,
			fmt.Sprintf("%s documents cannot move from %s to %s", flow, from, target))
	}
	if models.RequiresReceipt(flow, from, target) && !hasReceipt(payload.Receipt) {
		return nil, flow, apperrors.ErrReceiptRequired
	}
	if err := e.checkLinks(ctx, doc); err != nil {
		return nil, flow, err
	}

	settled, err := e.settler.Settle(ctx, doc, target, actor, payload)
	return settled, flow, err
}

// hasReceipt reports whether the request itself carries a receipt. A receipt
// stored on the document earlier does not count for a receipt edge.
func hasReceipt(sent *string) bool {
	return sent != nil && strings.TrimSpace(*sent) != ""
}

// checkLinks verifies that every entity doc points at is still live.
func (e *workflowEngine) checkLinks(ctx context.Context, doc models.Document) error {
	h := doc.Header()

	if h.ProjectID != nil {
		ok, err := e.directory.ProjectExists(ctx, *h.ProjectID)
		if err != nil {
			return err
		}
		if !ok {
			return apperrors.WithMessage(apperrors.ErrNotFound, "linked project no longer exists")
		}
	}

	var employeeID *string
	switch d := doc.(type) {
	case *models.Loan:
		employeeID = d.EmployeeID
	case *models.Payroll:
		employeeID = &d.EmployeeID
	}
	if employeeID != nil {
		ok, err := e.directory.EmployeeExists(ctx, *employeeID)
		if err != nil {
			return err
		}
		if !ok {
			return apperrors.WithMessage(apperrors.ErrNotFound, "linked employee no longer exists")
		}
	}

	for _, link := range []struct {
		id      *string
		variant models.Variant
		label   string
	}{
		{h.LoanID, models.VariantLoan, "loan"},
		{h.AssetID, models.VariantAsset, "asset"},
	} {
		if link.id == nil {
			continue
		}
		ok, err := e.registry.Exists(ctx, models.DocumentRef{Variant: link.variant, ID: *link.id})
		if err != nil {
			return err
		}
		if !ok {
			return apperrors.WithMessage(apperrors.ErrNotFound, fmt.Sprintf("linked %s no longer exists", link.label))
		}
	}
	return nil
}
