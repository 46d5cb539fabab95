package services

import (
	"fmt"
	"strings"
	"time"

	apperrors "treasury/internal/errors"
	"treasury/internal/models"
)

func validationf(format string, args ...any) error {
	return apperrors.WithMessage(apperrors.ErrValidation, fmt.Sprintf(format, args...))
}

// buildDocument turns creation input into an unsaved document in its flow's
// initial status. It checks only what the input itself can tell; links to
// other records are checked by the ledger afterwards.
func buildDocument(in CreateDocumentInput, actor models.Actor, wk WellKnownAccounts) (models.Document, error) {
	header := models.DocumentHeader{
		Amount:        in.Amount,
		Reason:        strings.TrimSpace(in.Reason),
		Description:   in.Description,
		FromAccountID: nonEmpty(in.FromAccountID),
		ToAccountID:   nonEmpty(in.ToAccountID),
		ProjectID:     nonEmpty(in.ProjectID),
		LoanID:        nonEmpty(in.LoanID),
		AssetID:       nonEmpty(in.AssetID),
		Receipt:       nonEmpty(in.Receipt),
		CreatedBy:     actor.ID,
	}
	date := time.Now()
	if in.Date != nil {
		date = *in.Date
	}

	var doc models.Document
	switch in.Variant {
	case models.VariantExpense:
		if !models.IsValidExpenseReason(header.Reason) {
			return nil, validationf("invalid expense reason %q", header.Reason)
		}
		if header.Reason == models.ReasonProjectExpenses && header.ProjectID == nil {
			return nil, validationf("project_id is required for %q", models.ReasonProjectExpenses)
		}
		if header.FromAccountID == nil {
			return nil, validationf("from_account_id is required")
		}
		doc = &models.Expense{DocumentHeader: header, SpecificReason: in.SpecificReason, ExpenseDate: date}

	case models.VariantIncome:
		if !models.IsValidIncomeSource(header.Reason) {
			return nil, validationf("invalid income source %q", header.Reason)
		}
		if header.ToAccountID == nil {
			return nil, validationf("to_account_id is required")
		}
		doc = &models.Income{DocumentHeader: header, SpecificSource: in.SpecificReason, ReceivedDate: date}

	case models.VariantTransfer:
		if header.FromAccountID == nil || header.ToAccountID == nil {
			return nil, validationf("from_account_id and to_account_id are required")
		}
		if *header.FromAccountID == *header.ToAccountID {
			return nil, apperrors.ErrSameAccountTransfer
		}
		doc = &models.Transfer{DocumentHeader: header, Purpose: in.Purpose, TransferDate: date}

	case models.VariantLoan:
		loan, err := buildLoan(header, in, wk, date)
		if err != nil {
			return nil, err
		}
		doc = loan

	case models.VariantAsset:
		asset, err := buildAsset(header, in, wk)
		if err != nil {
			return nil, err
		}
		doc = asset

	case models.VariantPayable:
		switch {
		case header.ProjectID != nil:
			header.Reason = models.ReasonProjectExpenses
		case header.AssetID != nil:
			header.Reason = models.ReasonAssetPurchase
		}
		if !models.IsValidExpenseReason(header.Reason) {
			return nil, validationf("invalid payable reason %q", header.Reason)
		}
		header.FromAccountID = orDefault(header.FromAccountID, wk.Disbursement)
		if header.FromAccountID == nil {
			return nil, validationf("from_account_id is required")
		}
		doc = &models.Payable{DocumentHeader: header, SpecificReason: in.SpecificReason}

	case models.VariantReceivable:
		if !models.IsValidIncomeSource(header.Reason) {
			return nil, validationf("invalid receivable source %q", header.Reason)
		}
		header.ToAccountID = orDefault(header.ToAccountID, wk.Operating)
		if header.ToAccountID == nil {
			return nil, validationf("to_account_id is required")
		}
		doc = &models.Receivable{DocumentHeader: header, SpecificSource: in.SpecificReason}

	case models.VariantPayroll:
		employeeID := nonEmpty(in.EmployeeID)
		if employeeID == nil {
			return nil, validationf("employee_id is required")
		}
		if !in.GrossAmount.IsPositive() {
			return nil, validationf("gross_amount must be greater than zero")
		}
		if in.Deductions.IsNegative() {
			return nil, validationf("deductions cannot be negative")
		}
		header.Amount = in.GrossAmount.Sub(in.Deductions)
		header.Reason = models.ReasonEmployeeCosts
		header.FromAccountID = orDefault(header.FromAccountID, wk.Operating)
		if header.FromAccountID == nil {
			return nil, validationf("from_account_id is required")
		}
		doc = &models.Payroll{
			DocumentHeader: header,
			EmployeeID:     *employeeID,
			GrossAmount:    in.GrossAmount,
			Deductions:     in.Deductions,
			PayDate:        date,
		}

	default:
		return nil, apperrors.ErrUnsupportedVariant
	}

	h := doc.Header()
	if !h.Amount.IsPositive() {
		return nil, validationf("amount must be greater than zero")
	}
	h.Status = models.InitialStatus(doc.Flow())
	return doc, nil
}

func buildLoan(header models.DocumentHeader, in CreateDocumentInput, wk WellKnownAccounts, date time.Time) (*models.Loan, error) {
	if in.InterestRate.IsNegative() {
		return nil, validationf("interest_rate cannot be negative")
	}
	loan := &models.Loan{
		Kind:         in.LoanKind,
		Counterparty: strings.TrimSpace(in.Counterparty),
		InterestRate: in.InterestRate,
		StartDate:    date,
		EndDate:      in.EndDate,
	}

	switch in.LoanKind {
	case models.LoanKindEmployee:
		loan.EmployeeID = nonEmpty(in.EmployeeID)
		if loan.EmployeeID == nil {
			return nil, validationf("employee_id is required for employee loans")
		}
		if header.Reason == "" {
			header.Reason = models.ReasonEmployeeLoan
		}
	case models.LoanKindExternal:
		if loan.Counterparty == "" {
			return nil, validationf("counterparty is required for external loans")
		}
		if header.Reason == "" {
			header.Reason = models.SourceLoans
		}
	default:
		return nil, validationf("loan_kind must be employee or external")
	}

	header.FromAccountID = orDefault(header.FromAccountID, wk.Operating)
	header.ToAccountID = orDefault(header.ToAccountID, wk.Operating)
	if header.FromAccountID == nil || header.ToAccountID == nil {
		return nil, validationf("from_account_id and to_account_id are required")
	}
	loan.DocumentHeader = header
	return loan, nil
}

func buildAsset(header models.DocumentHeader, in CreateDocumentInput, wk WellKnownAccounts) (*models.AssetTransaction, error) {
	name := strings.TrimSpace(in.AssetName)
	if name == "" {
		return nil, validationf("asset_name is required")
	}
	if !models.IsValidAssetCategory(in.Category) {
		return nil, validationf("invalid asset category %q", in.Category)
	}
	if in.Quantity <= 0 {
		return nil, validationf("quantity must be at least 1")
	}
	if !in.Price.IsPositive() {
		return nil, validationf("price must be greater than zero")
	}

	asset := &models.AssetTransaction{
		Name:      name,
		Category:  in.Category,
		Direction: in.Direction,
		Quantity:  in.Quantity,
		Price:     in.Price,
		Vendor:    in.Vendor,
	}
	header.Amount = asset.Total()

	switch in.Direction {
	case models.AssetBought:
		header.Reason = models.ReasonAssetPurchase
		header.FromAccountID = orDefault(header.FromAccountID, wk.Operating)
		if header.FromAccountID == nil {
			return nil, validationf("from_account_id is required")
		}
	case models.AssetSold:
		header.Reason = models.SourceAssetSales
		if header.ToAccountID == nil {
			return nil, validationf("to_account_id is required for asset sales")
		}
	default:
		return nil, validationf("direction must be Bought or Sold")
	}
	asset.DocumentHeader = header
	return asset, nil
}

func nonEmpty(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

func orDefault(id *string, fallback string) *string {
	if id != nil {
		return id
	}
	if fallback == "" {
		return nil
	}
	return &fallback
}
